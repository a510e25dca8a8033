package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress         string
	DatabaseURI        string
	MidtransBaseURL    string
	MidtransServerKey  string
	OrderTTL           time.Duration
	StatusPollInterval time.Duration
	WorkerPoolSize     int
	MaxOrdersBatch     int
	ShutdownTimeout    time.Duration
	KafkaBrokers       []string
	KafkaTopic         string
}

const (
	defaultRunAddress         = ":8080"
	defaultOrderTTL           = 15 * time.Minute
	defaultStatusPollInterval = 20 * time.Second
	defaultWorkerPoolSize     = 4
	defaultMaxOrdersBatch     = 32
	defaultShutdownTimeout    = 10 * time.Second
	defaultKafkaTopic         = "order-status"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		MidtransBaseURL:    getString(lookup, "MIDTRANS_BASE_URL", ""),
		MidtransServerKey:  getString(lookup, "MIDTRANS_SERVER_KEY", ""),
		OrderTTL:           getDuration(lookup, "ORDER_TTL", defaultOrderTTL),
		StatusPollInterval: getDuration(lookup, "STATUS_POLL_INTERVAL", defaultStatusPollInterval),
		WorkerPoolSize:     getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		MaxOrdersBatch:     getInt(lookup, "POLL_BATCH_SIZE", defaultMaxOrdersBatch),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		KafkaTopic:         getString(lookup, "KAFKA_TOPIC", defaultKafkaTopic),
	}

	brokersCSV := getString(lookup, "KAFKA_BROKERS", "")

	fs := flag.NewFlagSet("qrispay", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		orderTTLStr        = cfg.OrderTTL.String()
		pollIntervalStr    = cfg.StatusPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.MidtransBaseURL, "p", cfg.MidtransBaseURL, "Payment provider base URL")
	fs.StringVar(&orderTTLStr, "order-ttl", orderTTLStr, "Payment window before an order expires")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between provider status polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent reconciliation workers")
	fs.IntVar(&cfg.MaxOrdersBatch, "poll-batch", cfg.MaxOrdersBatch, "Maximum orders per polling batch")
	fs.StringVar(&brokersCSV, "kafka-brokers", brokersCSV, "Comma separated Kafka brokers for order events")
	fs.StringVar(&cfg.KafkaTopic, "kafka-topic", cfg.KafkaTopic, "Kafka topic for order status events")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.OrderTTL, err = time.ParseDuration(orderTTLStr); err != nil {
		return nil, fmt.Errorf("invalid order ttl: %w", err)
	}

	if cfg.StatusPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if keyFile, ok := lookup("MIDTRANS_SERVER_KEY_FILE"); ok && keyFile != "" {
		content, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("read midtrans server key file: %w", err)
		}
		cfg.MidtransServerKey = strings.TrimSpace(string(content))
	}

	cfg.KafkaBrokers = splitBrokers(brokersCSV)

	if cfg.OrderTTL <= 0 {
		cfg.OrderTTL = defaultOrderTTL
	}

	if cfg.StatusPollInterval <= 0 {
		cfg.StatusPollInterval = defaultStatusPollInterval
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.MaxOrdersBatch <= 0 {
		cfg.MaxOrdersBatch = defaultMaxOrdersBatch
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.MidtransBaseURL == "" {
		return nil, fmt.Errorf("payment provider base URL must be provided")
	}

	if cfg.MidtransServerKey == "" {
		return nil, fmt.Errorf("payment provider server key must be provided")
	}

	return cfg, nil
}

func splitBrokers(csv string) []string {
	var brokers []string
	for _, b := range strings.Split(csv, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
