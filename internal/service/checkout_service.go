package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"kiosk-service/internal/entity"
	"kiosk-service/internal/repository"
)

type CheckoutRequest struct {
	UserID         int64  `json:"user_id"`
	DeliveryMethod string `json:"delivery_method"`
	IdempotencyKey string `json:"-"`
}

// CheckoutService turns a user's open cart into a transaction paid from the wallet.
type CheckoutService struct {
	userRepo    UserStore
	cartRepo    CartStore
	walletRepo  WalletStore
	txRepo      TransactionStore
	idempotency IdempotencyStore
	cache       ProductCache
	kafkaWriter EventWriter
	now         func() time.Time
}

// NewCheckoutService creates a new instance of CheckoutService. kafkaWriter may be nil to disable events.
func NewCheckoutService(userRepo UserStore, cartRepo CartStore, walletRepo WalletStore, txRepo TransactionStore, idempotency IdempotencyStore, cache ProductCache, kafkaWriter EventWriter) *CheckoutService {
	return &CheckoutService{
		userRepo:    userRepo,
		cartRepo:    cartRepo,
		walletRepo:  walletRepo,
		txRepo:      txRepo,
		idempotency: idempotency,
		cache:       cache,
		kafkaWriter: kafkaWriter,
		now:         time.Now,
	}
}

/*
Checkout runs in two phases.

Validation reads the user, the open cart, its lines and the wallet and has no side effects. Every
line short of stock is reported together so the customer sees the whole problem at once.

Commit hands everything to TransactionRepository.CommitCheckout, which applies the stock decrements,
the wallet debit, the transaction insert and the cart close in one database transaction. Each UPDATE
re-checks its precondition, so a request that lost a race rolls back and surfaces as an internal error.

After commit the cached products are evicted and a transaction-created event is published. Neither
can undo the checkout, so their failures are only logged.
*/
func (s *CheckoutService) Checkout(ctx context.Context, caller Caller, req CheckoutRequest) (result *entity.CheckoutResult, err error) {
	orderType, ok := entity.ParseOrderType(req.DeliveryMethod)
	if !ok {
		return nil, invalidf("Delivery method must be Pickup or Delivery.")
	}
	if err := caller.mustAccess(req.UserID); err != nil {
		return nil, err
	}

	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		claimed, claimErr := s.idempotency.Claim(ctx, req.UserID, key)
		if claimErr != nil {
			logger.Error().Err(claimErr).Msgf("Error claiming idempotency key %s", key)
			return nil, claimErr
		}
		if !claimed {
			return nil, invalidf("Duplicate checkout request.")
		}
		defer func() {
			// only a committed checkout keeps its key
			if err == nil {
				return
			}
			if rerr := s.idempotency.Release(context.Background(), req.UserID, key); rerr != nil {
				logger.Error().Err(rerr).Msgf("Error releasing idempotency key %s", key)
			}
		}()
	}

	cart, lines, total, err := s.validate(ctx, req.UserID, orderType)
	if err != nil {
		return nil, err
	}

	commit := repository.CheckoutCommit{
		UserID:    req.UserID,
		CartID:    cart.ID,
		OrderType: orderType,
		Total:     total,
		Lines:     lines,
		Date:      s.now().UTC(),
	}
	transactionID, balance, err := s.txRepo.CommitCheckout(ctx, commit)
	if err != nil {
		logger.Error().Err(err).Msgf("Error committing checkout of cart %d", cart.ID)
		// %v drops any sentinel so every commit failure maps to 500
		return nil, fmt.Errorf("checkout failed: %v", err)
	}
	logger.Info().Msgf("Checkout of cart %d committed as transaction %d", cart.ID, transactionID)

	productIDs := make([]int64, 0, len(lines))
	for _, line := range lines {
		productIDs = append(productIDs, line.ProductID)
	}
	if err := s.cache.Evict(ctx, productIDs...); err != nil {
		logger.Error().Err(err).Msgf("Error evicting products %v from cache", productIDs)
	}

	event := &entity.TransactionEvent{
		TransactionID: transactionID,
		UserID:        req.UserID,
		CartID:        cart.ID,
		OrderType:     orderType,
		TotalAmount:   total,
		ProductIDs:    productIDs,
		Date:          commit.Date,
	}
	if err := s.publishTransactionEvent(ctx, event, "created"); err != nil {
		logger.Error().Err(err).Msgf("Error publishing event for transaction %d", transactionID)
	}

	return &entity.CheckoutResult{
		Message:              "Checkout successful.",
		TransactionID:        transactionID,
		TotalAmount:          total,
		UpdatedWalletBalance: balance,
	}, nil
}

func (s *CheckoutService) validate(ctx context.Context, userID int64, orderType entity.OrderType) (*entity.Cart, []entity.CartProduct, decimal.Decimal, error) {
	if _, err := activeUser(ctx, s.userRepo, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, decimal.Zero, reject("User not found.")
		}
		return nil, nil, decimal.Zero, err
	}

	cart, err := s.cartRepo.GetOpenCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, decimal.Zero, reject("No active cart found.")
		}
		return nil, nil, decimal.Zero, err
	}

	lines, err := s.cartRepo.ListCartLines(ctx, cart.ID)
	if err != nil {
		return nil, nil, decimal.Zero, err
	}
	if len(lines) == 0 {
		return nil, nil, decimal.Zero, reject("Cart is empty.")
	}

	var stockErrors []string
	for _, line := range lines {
		if !line.ProductActive {
			stockErrors = append(stockErrors, fmt.Sprintf("%s is no longer available.", line.ProductName))
			continue
		}
		if line.Quantity > line.Stock {
			stockErrors = append(stockErrors, fmt.Sprintf("Insufficient stock for %s.", line.ProductName))
		}
	}
	if len(stockErrors) > 0 {
		logger.Warn().Msgf("Checkout of cart %d rejected: %v", cart.ID, stockErrors)
		return nil, nil, decimal.Zero, reject("Stock errors", stockErrors...)
	}

	total := cartTotal(lines)
	if orderType == entity.OrderDelivery {
		total = total.Add(entity.DeliveryFee)
	}

	wallet, err := s.walletRepo.GetWallet(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, decimal.Zero, reject("User wallet not found.")
		}
		return nil, nil, decimal.Zero, err
	}
	if wallet.Balance.LessThan(total) {
		return nil, nil, decimal.Zero, reject("Insufficient wallet balance.")
	}

	return cart, lines, total, nil
}

func (s *CheckoutService) publishTransactionEvent(ctx context.Context, event *entity.TransactionEvent, key string) error {
	if s.kafkaWriter == nil {
		return nil
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// transaction.created.42
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("transaction.%s.%d", key, event.TransactionID)),
		Value: eventJSON,
	}
	return s.kafkaWriter.WriteMessages(ctx, msg)
}
