package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName           = "CarHive"
	defaultAppEnv            = "development"
	defaultPort              = "3000"
	defaultLogLevel          = "info"
	defaultTokenTTL          = time.Hour
	defaultShutdownDelay     = 10 * time.Second
	defaultDownstreamTimeout = 10 * time.Second
	defaultIdempotencyTTL    = 24 * time.Hour
	defaultCarServiceURL     = "http://car-service"
	defaultBookingServiceURL = "http://booking-service"
	defaultPaymentServiceURL = "http://payment-service"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName           string
	AppEnv            string
	Port              string
	LogLevel          string
	JWTSecret         string
	TokenTTL          time.Duration
	DatabaseURL       string
	RedisURL          string
	CarServiceURL     string
	BookingServiceURL string
	PaymentServiceURL string
	DownstreamTimeout time.Duration
	ShutdownPeriod    time.Duration
	IdempotencyTTL    time.Duration
}

// Load reads configuration values from the environment and populates a Config
// instance. A .env file in the working directory is honoured when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppName:           getEnv("APP_NAME", defaultAppName),
		AppEnv:            getEnv("APP_ENV", defaultAppEnv),
		Port:              getEnv("PORT", defaultPort),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		TokenTTL:          defaultTokenTTL,
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		CarServiceURL:     getEnv("CAR_SERVICE_URL", defaultCarServiceURL),
		BookingServiceURL: getEnv("BOOKING_SERVICE_URL", defaultBookingServiceURL),
		PaymentServiceURL: getEnv("PAYMENT_SERVICE_URL", defaultPaymentServiceURL),
		DownstreamTimeout: defaultDownstreamTimeout,
		ShutdownPeriod:    defaultShutdownDelay,
		IdempotencyTTL:    defaultIdempotencyTTL,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}

	var err error
	if cfg.TokenTTL, err = durationEnv("TOKEN_TTL", cfg.TokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.DownstreamTimeout, err = durationEnv("DOWNSTREAM_TIMEOUT", cfg.DownstreamTimeout); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownPeriod, err = durationEnv("SHUTDOWN_TIMEOUT", cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// durationEnv reads KEY as a Go duration, or KEY_SECONDS as an integer second
// count, falling back to the provided default when neither is set.
func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(key + "_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s_SECONDS: %w", key, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		return d, nil
	}
	return fallback, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
