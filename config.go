package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the storefront backend.
type Config struct {
	Port        string
	Environment string

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string

	RedisURL string

	StripeSecretKey string
	Currency        string
	ShippingCost    float64

	UserCartTTL        time.Duration
	GuestCartTTL       time.Duration
	CheckoutSessionTTL time.Duration

	KafkaBrokers []string
	KafkaTopic   string
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		Currency:        getEnv("CURRENCY", "usd"),

		UserCartTTL:        getDurationEnv("USER_CART_TTL", 30*24*time.Hour),
		GuestCartTTL:       getDurationEnv("GUEST_CART_TTL", 24*time.Hour),
		CheckoutSessionTTL: getDurationEnv("CHECKOUT_SESSION_TTL", 30*time.Minute),

		KafkaTopic: getEnv("KAFKA_ORDER_TOPIC", "order-events"),
	}

	shipping, err := strconv.ParseFloat(getEnv("SHIPPING_COST", "10"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SHIPPING_COST: %w", err)
	}
	cfg.ShippingCost = shipping

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" || cfg.PostgresHost == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	return cfg, nil
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort, c.PostgresSSLMode)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
