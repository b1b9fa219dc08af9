package config

import (
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress    string
	DatabaseURI   string
	PublicBaseURL string
	AdminBaseURL  string
	LogLevel      string

	SessionSecret string
	AdminEmail    string
	AdminPassword string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	SideEffectWorkers     int
	SideEffectQueueSize   int
	SideEffectMaxAttempts int
	SideEffectTimeout     time.Duration

	MaxAllocationAttempts int
	StrictTransitions     bool

	RateLimit         string
	RateLimitRedisURL string

	PaymentProviderAddress string
	PaymentPollInterval    time.Duration
	PaymentPollBatch       int

	ShutdownTimeout time.Duration
}

const (
	defaultRunAddress            = ":8080"
	defaultPublicBaseURL         = "http://localhost:3000"
	defaultLogLevel              = "info"
	defaultSessionSecret         = "change-me-in-production"
	defaultSMTPPort              = 587
	defaultMailFrom              = "no-reply@localhost"
	defaultSideEffectWorkers     = 4
	defaultSideEffectQueueSize   = 256
	defaultSideEffectMaxAttempts = 3
	defaultSideEffectTimeout     = 30 * time.Second
	defaultMaxAllocationAttempts = 5
	defaultRateLimit             = "20-M"
	defaultPaymentPollInterval   = 30 * time.Second
	defaultPaymentPollBatch      = 20
	defaultShutdownTimeout       = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:             getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:            getString(lookup, "DATABASE_URI", ""),
		PublicBaseURL:          getString(lookup, "PUBLIC_BASE_URL", defaultPublicBaseURL),
		AdminBaseURL:           getString(lookup, "ADMIN_BASE_URL", ""),
		LogLevel:               getString(lookup, "LOG_LEVEL", defaultLogLevel),
		SessionSecret:          getString(lookup, "SESSION_SECRET", defaultSessionSecret),
		AdminEmail:             getString(lookup, "ADMIN_EMAIL", ""),
		AdminPassword:          getString(lookup, "ADMIN_PASSWORD", ""),
		SMTPHost:               getString(lookup, "SMTP_HOST", ""),
		SMTPPort:               getInt(lookup, "SMTP_PORT", defaultSMTPPort),
		SMTPUsername:           getString(lookup, "SMTP_USERNAME", ""),
		SMTPPassword:           getString(lookup, "SMTP_PASSWORD", ""),
		MailFrom:               getString(lookup, "MAIL_FROM", defaultMailFrom),
		SideEffectWorkers:      getInt(lookup, "SIDE_EFFECT_WORKERS", defaultSideEffectWorkers),
		SideEffectQueueSize:    getInt(lookup, "SIDE_EFFECT_QUEUE_SIZE", defaultSideEffectQueueSize),
		SideEffectMaxAttempts:  getInt(lookup, "SIDE_EFFECT_MAX_ATTEMPTS", defaultSideEffectMaxAttempts),
		SideEffectTimeout:      getDuration(lookup, "SIDE_EFFECT_TIMEOUT", defaultSideEffectTimeout),
		MaxAllocationAttempts:  getInt(lookup, "MAX_ALLOCATION_ATTEMPTS", defaultMaxAllocationAttempts),
		StrictTransitions:      getBool(lookup, "STRICT_TRANSITIONS", false),
		RateLimit:              getString(lookup, "RATE_LIMIT", defaultRateLimit),
		RateLimitRedisURL:      getString(lookup, "RATE_LIMIT_REDIS_URL", ""),
		PaymentProviderAddress: getString(lookup, "PAYMENT_PROVIDER_ADDRESS", ""),
		PaymentPollInterval:    getDuration(lookup, "PAYMENT_POLL_INTERVAL", defaultPaymentPollInterval),
		PaymentPollBatch:       getInt(lookup, "PAYMENT_POLL_BATCH", defaultPaymentPollBatch),
		ShutdownTimeout:        getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("leatherdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		sideEffectTimeoutStr = cfg.SideEffectTimeout.String()
		pollIntervalStr      = cfg.PaymentPollInterval.String()
		shutdownTimeoutStr   = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.PublicBaseURL, "public-url", cfg.PublicBaseURL, "Base URL of the customer-facing site")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	fs.StringVar(&cfg.SessionSecret, "session-secret", cfg.SessionSecret, "Secret for signing admin session tokens")
	fs.StringVar(&cfg.SMTPHost, "smtp-host", cfg.SMTPHost, "SMTP relay host; empty logs emails instead")
	fs.IntVar(&cfg.SMTPPort, "smtp-port", cfg.SMTPPort, "SMTP relay port")
	fs.IntVar(&cfg.SideEffectWorkers, "side-effect-workers", cfg.SideEffectWorkers, "Number of notification/email workers")
	fs.IntVar(&cfg.SideEffectMaxAttempts, "side-effect-attempts", cfg.SideEffectMaxAttempts, "Attempts per notification/email task")
	fs.StringVar(&sideEffectTimeoutStr, "side-effect-timeout", sideEffectTimeoutStr, "Timeout of a single notification/email attempt")
	fs.BoolVar(&cfg.StrictTransitions, "strict-transitions", cfg.StrictTransitions, "Reject status changes outside the transition table")
	fs.StringVar(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "Public submission rate limit, e.g. 20-M")
	fs.StringVar(&cfg.PaymentProviderAddress, "payment-provider", cfg.PaymentProviderAddress, "Payment provider base URL")
	fs.StringVar(&pollIntervalStr, "payment-poll-interval", pollIntervalStr, "Interval between payment status polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.SideEffectTimeout, err = time.ParseDuration(sideEffectTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid side effect timeout: %w", err)
	}

	if cfg.PaymentPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid payment poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("SESSION_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read session secret file: %w", err)
		}
		cfg.SessionSecret = strings.TrimSpace(string(content))
	}

	if cfg.SideEffectWorkers <= 0 {
		cfg.SideEffectWorkers = defaultSideEffectWorkers
	}

	if cfg.SideEffectQueueSize <= 0 {
		cfg.SideEffectQueueSize = defaultSideEffectQueueSize
	}

	if cfg.SideEffectMaxAttempts <= 0 {
		cfg.SideEffectMaxAttempts = defaultSideEffectMaxAttempts
	}

	if cfg.SideEffectTimeout <= 0 {
		cfg.SideEffectTimeout = defaultSideEffectTimeout
	}

	if cfg.MaxAllocationAttempts <= 0 {
		cfg.MaxAllocationAttempts = defaultMaxAllocationAttempts
	}

	if cfg.PaymentPollInterval <= 0 {
		cfg.PaymentPollInterval = defaultPaymentPollInterval
	}

	if cfg.PaymentPollBatch <= 0 {
		cfg.PaymentPollBatch = defaultPaymentPollBatch
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.SMTPPort <= 0 {
		cfg.SMTPPort = defaultSMTPPort
	}

	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	if cfg.AdminBaseURL == "" {
		cfg.AdminBaseURL = cfg.PublicBaseURL + "/admin"
	}
	cfg.AdminBaseURL = strings.TrimRight(cfg.AdminBaseURL, "/")

	if u, err := url.Parse(cfg.PublicBaseURL); err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("public base URL must be absolute: %q", cfg.PublicBaseURL)
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
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

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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
