package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_HOST", "KAFKA_BROKERS", "JWT_TTL", "EMAIL_DOMAIN", "CORS_ORIGINS", "RATE_BURST"} {
		t.Setenv(k, "")
	}

	cfg := Load("does-not-exist.env")

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "127.0.0.1", cfg.DBHost)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "singular.co.za", cfg.EmailDomain)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 30, cfg.RateBurst)
	assert.False(t, cfg.KafkaEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_USER", "kiosk")
	t.Setenv("DB_PASS", "pw")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_NAME", "shop")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("PRODUCT_CACHE_TTL", "not-a-duration")
	t.Setenv("RATE_LIMIT", "2.5")

	cfg := Load("does-not-exist.env")

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "kiosk:pw@tcp(db:3307)/shop?parseTime=true", cfg.DSN())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 10*time.Minute, cfg.ProductCacheTTL)
	assert.Equal(t, 2.5, cfg.RateLimit)
}

func TestNewKafkaWriter(t *testing.T) {
	w := NewKafkaWriter([]string{"k1:9092"}, "transaction-topic")

	assert.Equal(t, "transaction-topic", w.Topic)
	assert.True(t, w.AllowAutoTopicCreation)
	assert.Equal(t, "k1:9092", w.Addr.String())
}
