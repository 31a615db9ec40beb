package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For list parsing
	"time"    // For durations

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort    string // Application port
	DBDriver   string // Database driver: mysql or postgres
	DBUser     string // Database user
	DBPassword string // Database password
	DBHost     string // Database host
	DBPort     string // Database port
	DBName     string // Database name
	JWTSecret  string // JWT secret key
	SessionTTL time.Duration
	RedisAddr  string // Redis server address
	RedisPass  string // Redis password
	RedisDB    int    // Redis database number

	RazorpayKeyID     string        // Gateway key id
	RazorpayKeySecret string        // Gateway key secret, also the signature HMAC key
	RazorpayBaseURL   string        // Gateway API base URL
	PaymentCurrency   string        // ISO currency of payment intents
	PaymentTimeout    time.Duration // Per-attempt gateway timeout
	PaymentRetries    int           // Extra attempts on transient gateway failures

	KafkaBrokers []string // Order event brokers, empty disables publishing
	KafkaTopic   string   // Order event topic

	CORSOrigins   []string      // Allowed browser origins
	AdminEmails   []string      // Users promoted to admin by cmd/migrate
	OrderCacheTTL time.Duration // TTL of cached order listings
	IsProd        bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:    getEnv("APP_PORT", "5000"),     // Application port
		DBDriver:   getEnv("DB_DRIVER", "mysql"),   // Database driver
		DBUser:     os.Getenv("DB_USER"),           // Database user
		DBPassword: os.Getenv("DB_PASSWORD"),       // Database password
		DBHost:     getEnv("DB_HOST", "localhost"), // Database host
		DBPort:     getEnv("DB_PORT", "3306"),      // Database port
		DBName:     os.Getenv("DB_NAME"),           // Database name
		JWTSecret:  os.Getenv("JWT_SECRET"),        // JWT secret key
		SessionTTL: getDuration("SESSION_TTL", 24*time.Hour),
		RedisAddr:  os.Getenv("REDIS_ADDR"), // Redis server address
		RedisPass:  os.Getenv("REDIS_PASS"), // Redis password
		RedisDB:    redisDB,                 // Redis database number

		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayBaseURL:   getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
		PaymentCurrency:   getEnv("PAYMENT_CURRENCY", "INR"),
		PaymentTimeout:    getDuration("PAYMENT_TIMEOUT", 10*time.Second),
		PaymentRetries:    getInt("PAYMENT_RETRIES", 2),

		KafkaBrokers: getList("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "storefront.orders"),

		CORSOrigins:   getList("CORS_ORIGINS"),
		AdminEmails:   getList("ADMIN_EMAILS"),
		OrderCacheTTL: getDuration("ORDER_CACHE_TTL", 60*time.Second),
		IsProd:        os.Getenv("IS_PROD") == "true", // Is production environment
	}
}

// DSN builds the data source name for the configured driver
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return "host=" + c.DBHost + " user=" + c.DBUser + " password=" + c.DBPassword +
			" dbname=" + c.DBName + " port=" + c.DBPort + " sslmode=disable TimeZone=UTC"
	}
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v >= 0 {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return def
}

// getList splits a comma separated variable, dropping blanks
func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
