package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("PAYMENT_TIMEOUT", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := LoadConfig()
	assert.Equal(t, "5000", cfg.AppPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 10*time.Second, cfg.PaymentTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " kafka-1:9092, ,kafka-2:9092")
	t.Setenv("ADMIN_EMAILS", "ops@example.com")
	t.Setenv("PAYMENT_RETRIES", "5")
	t.Setenv("ORDER_CACHE_TTL", "2m")
	t.Setenv("IS_PROD", "true")

	cfg := LoadConfig()
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"ops@example.com"}, cfg.AdminEmails)
	assert.Equal(t, 5, cfg.PaymentRetries)
	assert.Equal(t, 2*time.Minute, cfg.OrderCacheTTL)
	assert.True(t, cfg.IsProd)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBDriver: "mysql", DBUser: "root", DBPassword: "pw", DBHost: "db", DBPort: "3306", DBName: "shop"}
	assert.Equal(t, "root:pw@tcp(db:3306)/shop?parseTime=true", cfg.DSN())

	cfg.DBDriver = "postgres"
	cfg.DBPort = "5432"
	assert.Equal(t, "host=db user=root password=pw dbname=shop port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}
