package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell"
)

const (
	EnvDatabaseURL       = "CYCLERENTAL_DATABASE_URL"
	EnvReplicaURL        = "CYCLERENTAL_REPLICA_URL"
	EnvTableName         = "CYCLERENTAL_EVENTS_TABLE"
	EnvLockTimeout       = "CYCLERENTAL_LOCK_TIMEOUT"
	EnvHTTPAddr          = "CYCLERENTAL_HTTP_ADDR"
	EnvJWTSecret         = "CYCLERENTAL_JWT_SECRET"
	EnvRedisAddr         = "CYCLERENTAL_REDIS_ADDR"
	EnvIdentityCacheTTL  = "CYCLERENTAL_IDENTITY_CACHE_TTL"
	EnvIdentityDBPath    = "CYCLERENTAL_IDENTITY_DB_PATH"
	EnvKafkaBrokers      = "CYCLERENTAL_KAFKA_BROKERS"
	EnvKafkaTopic        = "CYCLERENTAL_KAFKA_TOPIC"
	EnvRelayInterval     = "CYCLERENTAL_RELAY_INTERVAL"
	EnvSweepInterval     = "CYCLERENTAL_SWEEP_INTERVAL"
	EnvSweepGrace        = "CYCLERENTAL_SWEEP_GRACE"
	EnvFineGraceMinutes  = "CYCLERENTAL_FINE_GRACE_MINUTES"
	EnvFineBlockMinutes  = "CYCLERENTAL_FINE_BLOCK_MINUTES"
	EnvFineRatePerBlock  = "CYCLERENTAL_FINE_RATE_PER_BLOCK"
	EnvFineMax           = "CYCLERENTAL_FINE_MAX"
	EnvRetryMaxAttempts  = "CYCLERENTAL_RETRY_MAX_ATTEMPTS"
	EnvRetryBaseDelay    = "CYCLERENTAL_RETRY_BASE_DELAY"
	EnvRetryJitterFactor = "CYCLERENTAL_RETRY_JITTER_FACTOR"
	EnvLogLevel          = "CYCLERENTAL_LOG_LEVEL"
)

var (
	ErrMissingDatabaseURL = errors.New("database url is not configured")
	ErrMissingJWTSecret   = errors.New("jwt secret is not configured")
	ErrInvalidValue       = errors.New("invalid configuration value")
)

// Config holds everything cmd/cyclerental needs to wire the service.
type Config struct {
	DatabaseURL string
	ReplicaURL  string
	TableName   string
	LockTimeout time.Duration

	HTTPAddr  string
	JWTSecret string
	LogLevel  string

	RedisAddr        string
	IdentityCacheTTL time.Duration
	IdentityDBPath   string

	KafkaBrokers  string
	KafkaTopic    string
	RelayInterval time.Duration

	SweepInterval time.Duration
	SweepGrace    time.Duration

	FinePolicy core.FinePolicy

	RetryMaxAttempts  int
	RetryBaseDelay    time.Duration
	RetryJitterFactor float64
}

// Load reads the configuration from the environment.
// Unset values fall back to defaults, malformed values fail with ErrInvalidValue.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env file: %w", err)
	}

	defaultFines := core.DefaultFinePolicy()
	p := &parser{}

	cfg := Config{
		DatabaseURL: os.Getenv(EnvDatabaseURL),
		ReplicaURL:  os.Getenv(EnvReplicaURL),
		TableName:   getenv(EnvTableName, "events"),
		LockTimeout: p.getenvDuration(EnvLockTimeout, 2*time.Second),

		HTTPAddr:  getenv(EnvHTTPAddr, ":8080"),
		JWTSecret: os.Getenv(EnvJWTSecret),
		LogLevel:  getenv(EnvLogLevel, "info"),

		RedisAddr:        os.Getenv(EnvRedisAddr),
		IdentityCacheTTL: p.getenvDuration(EnvIdentityCacheTTL, 30*time.Second),
		IdentityDBPath:   getenv(EnvIdentityDBPath, "identity.db"),

		KafkaBrokers:  os.Getenv(EnvKafkaBrokers),
		KafkaTopic:    getenv(EnvKafkaTopic, "cyclerental.events"),
		RelayInterval: p.getenvDuration(EnvRelayInterval, time.Second),

		SweepInterval: p.getenvDuration(EnvSweepInterval, time.Minute),
		SweepGrace:    p.getenvDuration(EnvSweepGrace, 5*time.Minute),

		FinePolicy: core.FinePolicy{
			GraceMinutes: p.getenvInt(EnvFineGraceMinutes, defaultFines.GraceMinutes),
			BlockMinutes: p.getenvInt(EnvFineBlockMinutes, defaultFines.BlockMinutes),
			RatePerBlock: p.getenvInt(EnvFineRatePerBlock, defaultFines.RatePerBlock),
			MaxFine:      p.getenvInt(EnvFineMax, defaultFines.MaxFine),
		},

		RetryMaxAttempts:  p.getenvInt(EnvRetryMaxAttempts, 6),
		RetryBaseDelay:    p.getenvDuration(EnvRetryBaseDelay, 10*time.Millisecond),
		RetryJitterFactor: p.getenvFloat(EnvRetryJitterFactor, 0.3),
	}

	if p.err != nil {
		return Config{}, p.err
	}

	if cfg.DatabaseURL == "" {
		return Config{}, ErrMissingDatabaseURL
	}

	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingJWTSecret
	}

	return cfg, nil
}

// RetryOptions turns the retry settings into options for the command handlers.
func (c Config) RetryOptions() []shell.RetryOption {
	return []shell.RetryOption{
		shell.WithMaxAttempts(c.RetryMaxAttempts),
		shell.WithBaseDelay(c.RetryBaseDelay),
		shell.WithJitterFactor(c.RetryJitterFactor),
	}
}

func getenv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}

	return fallback
}

// parser keeps the first parse error, so that Load can read all values before checking.
type parser struct {
	err error
}

func (p *parser) fail(key, val string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s=%q: %w", ErrInvalidValue, key, val, err)
	}
}

func (p *parser) getenvDuration(key string, fallback time.Duration) time.Duration {
	val := getenv(key, "")
	if val == "" {
		return fallback
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		p.fail(key, val, err)
		return fallback
	}

	return d
}

func (p *parser) getenvInt(key string, fallback int) int {
	val := getenv(key, "")
	if val == "" {
		return fallback
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		p.fail(key, val, err)
		return fallback
	}

	return i
}

func (p *parser) getenvFloat(key string, fallback float64) float64 {
	val := getenv(key, "")
	if val == "" {
		return fallback
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		p.fail(key, val, err)
		return fallback
	}

	return f
}
