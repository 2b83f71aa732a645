package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures service configuration sourced from the environment so main
// stays lean. Optional integrations (redis, kafka, postgres, smtp) stay off
// when their settings are empty.
type Config struct {
	Addr string

	// DataDir holds the flat-file stores; InvoiceDir and DocumentDir hold
	// rendered PDFs.
	DataDir     string
	InvoiceDir  string
	DocumentDir string

	PostgresDSN string
	RedisURL    string

	KafkaBrokers []string
	KafkaTopic   string

	SMTP SMTP

	ShutdownTimeout time.Duration
}

// SMTP configures the outbound mail transport. An empty Host disables real
// delivery and the server falls back to a log-only notifier.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// LookupCacheTTL bounds how long a customer lookup may be served from cache.
var LookupCacheTTL = 5 * time.Minute

// FromEnv builds a Config from environment variables with development defaults.
func FromEnv() Config {
	cfg := Config{
		Addr:            getenv("INTAKE_ADDR", ":8080"),
		DataDir:         getenv("INTAKE_DATA_DIR", "data"),
		InvoiceDir:      getenv("INTAKE_INVOICE_DIR", "invoices"),
		DocumentDir:     getenv("INTAKE_DOCUMENT_DIR", "documents"),
		PostgresDSN:     os.Getenv("INTAKE_POSTGRES_DSN"),
		RedisURL:        os.Getenv("INTAKE_REDIS_URL"),
		KafkaTopic:      getenv("INTAKE_KAFKA_TOPIC", "intake.audit"),
		ShutdownTimeout: 10 * time.Second,
	}

	if brokers := os.Getenv("INTAKE_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	cfg.SMTP = SMTP{
		Host:     os.Getenv("INTAKE_SMTP_HOST"),
		Port:     getenvInt("INTAKE_SMTP_PORT", 587),
		Username: os.Getenv("INTAKE_SMTP_USERNAME"),
		Password: os.Getenv("INTAKE_SMTP_PASSWORD"),
		From:     getenv("INTAKE_SMTP_FROM", "billing@example.com"),
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
