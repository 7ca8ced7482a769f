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
	RunAddress     string
	DatabaseURI    string
	CatalogAddress string

	ReservationHold time.Duration
	PaymentWindow   time.Duration

	SaleSweepInterval        time.Duration
	ReservationSweepInterval time.Duration
	OrderSweepInterval       time.Duration
	SweepBatchSize           int

	LockTimeout     time.Duration
	ShutdownTimeout time.Duration

	KafkaBrokers []string
	KafkaTopic   string
	RedisAddress string
	CacheTTL     time.Duration
}

const (
	defaultRunAddress               = ":8080"
	defaultReservationHold          = 10 * time.Minute
	defaultPaymentWindow            = 10 * time.Minute
	defaultSaleSweepInterval        = time.Minute
	defaultReservationSweepInterval = 30 * time.Second
	defaultOrderSweepInterval       = time.Minute
	defaultSweepBatchSize           = 100
	defaultLockTimeout              = 2 * time.Second
	defaultShutdownTimeout          = 10 * time.Second
	defaultKafkaTopic               = "flashsale.events"
	defaultCacheTTL                 = 30 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:               getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:              getString(lookup, "DATABASE_URI", ""),
		CatalogAddress:           getString(lookup, "CATALOG_ADDRESS", ""),
		ReservationHold:          getDuration(lookup, "RESERVATION_HOLD", defaultReservationHold),
		PaymentWindow:            getDuration(lookup, "PAYMENT_WINDOW", defaultPaymentWindow),
		SaleSweepInterval:        getDuration(lookup, "SALE_SWEEP_INTERVAL", defaultSaleSweepInterval),
		ReservationSweepInterval: getDuration(lookup, "RESERVATION_SWEEP_INTERVAL", defaultReservationSweepInterval),
		OrderSweepInterval:       getDuration(lookup, "ORDER_SWEEP_INTERVAL", defaultOrderSweepInterval),
		SweepBatchSize:           getInt(lookup, "SWEEP_BATCH_SIZE", defaultSweepBatchSize),
		LockTimeout:              getDuration(lookup, "LOCK_TIMEOUT", defaultLockTimeout),
		ShutdownTimeout:          getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		KafkaTopic:               getString(lookup, "KAFKA_TOPIC", defaultKafkaTopic),
		RedisAddress:             getString(lookup, "REDIS_ADDRESS", ""),
		CacheTTL:                 getDuration(lookup, "CACHE_TTL", defaultCacheTTL),
	}

	brokers := getString(lookup, "KAFKA_BROKERS", "")

	fs := flag.NewFlagSet("flashsale", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		holdStr            = cfg.ReservationHold.String()
		paymentStr         = cfg.PaymentWindow.String()
		lockTimeoutStr     = cfg.LockTimeout.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.CatalogAddress, "c", cfg.CatalogAddress, "Catalog service base URL")
	fs.StringVar(&holdStr, "hold", holdStr, "Reservation hold duration")
	fs.StringVar(&paymentStr, "payment-window", paymentStr, "Payment window for pending orders")
	fs.StringVar(&lockTimeoutStr, "lock-timeout", lockTimeoutStr, "Bounded wait for sale row locks")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.SweepBatchSize, "sweep-batch", cfg.SweepBatchSize, "Maximum rows per reconciler sweep")
	fs.StringVar(&brokers, "kafka-brokers", brokers, "Comma-separated Kafka brokers for event publishing")
	fs.StringVar(&cfg.KafkaTopic, "kafka-topic", cfg.KafkaTopic, "Kafka topic for flash sale events")
	fs.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "Redis address for the sale snapshot cache")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ReservationHold, err = time.ParseDuration(holdStr); err != nil {
		return nil, fmt.Errorf("invalid reservation hold: %w", err)
	}
	if cfg.PaymentWindow, err = time.ParseDuration(paymentStr); err != nil {
		return nil, fmt.Errorf("invalid payment window: %w", err)
	}
	if cfg.LockTimeout, err = time.ParseDuration(lockTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid lock timeout: %w", err)
	}
	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	if cfg.ReservationHold <= 0 {
		cfg.ReservationHold = defaultReservationHold
	}
	if cfg.PaymentWindow <= 0 {
		cfg.PaymentWindow = defaultPaymentWindow
	}
	if cfg.SaleSweepInterval <= 0 {
		cfg.SaleSweepInterval = defaultSaleSweepInterval
	}
	if cfg.ReservationSweepInterval <= 0 {
		cfg.ReservationSweepInterval = defaultReservationSweepInterval
	}
	if cfg.OrderSweepInterval <= 0 {
		cfg.OrderSweepInterval = defaultOrderSweepInterval
	}
	if cfg.SweepBatchSize <= 0 {
		cfg.SweepBatchSize = defaultSweepBatchSize
	}
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = defaultLockTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}
	if cfg.CatalogAddress == "" {
		return nil, fmt.Errorf("catalog address must be provided")
	}

	return cfg, nil
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
