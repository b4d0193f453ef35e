package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Paystack  PaystackConfig
	Providus  ProvidusConfig
	Providers ProviderPolicyConfig
	Payout    PayoutConfig
	Mail      MailConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
	// EnvSet is true when SERVER_ENV was given rather than defaulted
	EnvSet bool
}

// IsDevelopment reports whether the service runs with development configuration.
func (c ServerConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// PaystackConfig configures the managed-account and transfer provider
type PaystackConfig struct {
	BaseURL       string
	SecretKey     string
	PreferredBank string
	Timeout       time.Duration
	// Retries bounds retries of idempotent lookups such as account resolution
	Retries uint64
}

// ProvidusConfig configures the reserved-account provider and its settlement webhook
type ProvidusConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// ProviderPolicyConfig selects which provider issues dedicated accounts
type ProviderPolicyConfig struct {
	UserProvider     string
	BusinessProvider string
	// Overrides maps an owner id to a provider, parsed from "id=provider,id=provider".
	Overrides map[string]string
}

// PayoutConfig holds payout execution settings
type PayoutConfig struct {
	Mock      bool
	Currency  string
	IntentTTL time.Duration
	SweepTick time.Duration
}

// MailConfig holds receipt mail settings
type MailConfig struct {
	From      string
	OutboxKey string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:   getEnv("SERVER_PORT", "8080"),
			Env:    getEnv("SERVER_ENV", "development"),
			EnvSet: strings.TrimSpace(os.Getenv("SERVER_ENV")) != "",
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "payledger"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-this-in-production"),
			Expiry: getEnvAsDuration("JWT_EXPIRY", 15*time.Minute),
		},
		Paystack: PaystackConfig{
			BaseURL:       getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
			SecretKey:     getEnv("PAYSTACK_SECRET_KEY", ""),
			PreferredBank: getEnv("PAYSTACK_PREFERRED_BANK", "wema-bank"),
			Timeout:       getEnvAsDuration("PAYSTACK_TIMEOUT", 20*time.Second),
			Retries:       uint64(getEnvAsInt("PAYSTACK_RETRIES", 2)),
		},
		Providus: ProvidusConfig{
			BaseURL:      getEnv("PROVIDUS_BASE_URL", "http://154.113.16.142:8088/appdevapi/api"),
			ClientID:     getEnv("PROVIDUS_CLIENT_ID", ""),
			ClientSecret: getEnv("PROVIDUS_CLIENT_SECRET", ""),
			Timeout:      getEnvAsDuration("PROVIDUS_TIMEOUT", 20*time.Second),
		},
		Providers: ProviderPolicyConfig{
			UserProvider:     getEnv("VIRTUAL_ACCOUNT_PROVIDER_USER", "providus"),
			BusinessProvider: getEnv("VIRTUAL_ACCOUNT_PROVIDER_BUSINESS", "paystack"),
			Overrides:        parseOverrides(getEnv("VIRTUAL_ACCOUNT_PROVIDER_OVERRIDES", "")),
		},
		Payout: PayoutConfig{
			Mock:      getEnvAsBool("PAYOUT_MOCK", false),
			Currency:  getEnv("PAYOUT_CURRENCY", "NGN"),
			IntentTTL: getEnvAsDuration("PAYOUT_INTENT_TTL", 10*time.Minute),
			SweepTick: getEnvAsDuration("PAYOUT_INTENT_SWEEP_INTERVAL", time.Minute),
		},
		Mail: MailConfig{
			From:      getEnv("MAIL_FROM", "receipts@payledger.local"),
			OutboxKey: getEnv("MAIL_OUTBOX_KEY", "mail:outbox"),
		},
	}
}

// PayoutMockEnabled is true only when SERVER_ENV=development is set explicitly
// together with PAYOUT_MOCK. The development default never enables it.
func (c *Config) PayoutMockEnabled() bool {
	return c.Server.EnvSet && c.Server.IsDevelopment() && c.Payout.Mock
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func parseOverrides(raw string) map[string]string {
	out := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" || strings.TrimSpace(value) == "" {
			continue
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out
}
