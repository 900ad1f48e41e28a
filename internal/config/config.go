package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment at startup.
type Config struct {
	Port string

	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	RedisAddr       string
	ProductCacheTTL time.Duration

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	JWTKey      string
	JWTIssuer   string
	JWTAudience string
	JWTTTL      time.Duration

	ImageBaseURL string
	EmailDomain  string

	RateLimit   float64
	RateBurst   int
	CORSOrigins []string
}

// Load reads an optional .env file and then the process environment.
func Load(files ...string) *Config {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load(files...)

	return &Config{
		Port: getEnv("PORT", "8080"),

		DBHost: getEnv("DB_HOST", "127.0.0.1"),
		DBPort: getEnv("DB_PORT", "3306"),
		DBUser: getEnv("DB_USER", "root"),
		DBPass: getEnv("DB_PASS", ""),
		DBName: getEnv("DB_NAME", "kiosk"),

		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		ProductCacheTTL: getDuration("PRODUCT_CACHE_TTL", 10*time.Minute),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "transaction-topic"),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "kiosk-service-group"),

		JWTKey:      getEnv("JWT_KEY", "secret"),
		JWTIssuer:   getEnv("JWT_ISSUER", "kiosk-api"),
		JWTAudience: getEnv("JWT_AUDIENCE", "kiosk-client"),
		JWTTTL:      getDuration("JWT_TTL", 2*time.Hour),

		ImageBaseURL: getEnv("IMAGE_BASE_URL", "https://res.cloudinary.com/kiosk/image/upload/"),
		EmailDomain:  getEnv("EMAIL_DOMAIN", "singular.co.za"),

		RateLimit:   getFloat("RATE_LIMIT", 10),
		RateBurst:   getInt("RATE_BURST", 30),
		CORSOrigins: splitListDefault(os.Getenv("CORS_ORIGINS"), []string{"*"}),
	}
}

// DSN builds the go-sql-driver/mysql data source name.
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPass + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// KafkaEnabled reports whether a broker list was configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func splitListDefault(s string, fallback []string) []string {
	if out := splitList(s); len(out) > 0 {
		return out
	}
	return fallback
}
