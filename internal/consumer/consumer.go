package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"kiosk-service/internal/entity"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type ProductEvicter interface {
	EvictProducts(ctx context.Context, ids ...int64)
}

// Consumer keeps the product cache in line with checkouts committed by any instance.
type Consumer struct {
	reader     MessageReader
	productSvc ProductEvicter
	backoff    time.Duration
}

func NewConsumer(reader MessageReader, productSvc ProductEvicter) *Consumer {
	return &Consumer{reader: reader, productSvc: productSvc, backoff: time.Second}
}

// Start reads transaction events until ctx is cancelled, then closes the reader.
func (c *Consumer) Start(ctx context.Context) {
	defer func() {
		if err := c.reader.Close(); err != nil {
			log.Error().Msgf("Error closing kafka reader: %v", err)
		}
	}()

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				log.Info().Msg("Transaction consumer stopped")
				return
			}
			log.Error().Msgf("Error reading message: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.backoff):
			}
			continue
		}

		c.processMessage(ctx, msg)
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	// key -> "transaction.created.<transactionID>"
	listKey := strings.Split(string(msg.Key), ".")
	if len(listKey) < 2 || listKey[0] != "transaction" {
		log.Error().Msgf("Unexpected message key: %q", msg.Key)
		return
	}

	var event entity.TransactionEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error().Msgf("Error unmarshalling message: %v", err)
		return
	}

	switch listKey[1] {
	case "created":
		if len(event.ProductIDs) == 0 {
			return
		}
		c.productSvc.EvictProducts(ctx, event.ProductIDs...)
		log.Info().Int64("transaction_id", event.TransactionID).Msgf("Evicted %d cached products", len(event.ProductIDs))
	default:
		log.Error().Msgf("Unknown transaction event: %s", listKey[1])
	}
}
