package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

const defaultOddsAPIURL = "https://api.the-odds-api.com/v4"

// Config holds all configuration for the bot
type Config struct {
	// Telegram
	TelegramToken string
	AdminIDs      []int64
	AdminUsername string

	// The Odds API
	OddsAPIKey   string
	OddsAPIURL   string
	OddsCacheTTL time.Duration
	HTTPTimeout  time.Duration

	// Staking
	Bankroll decimal.Decimal

	// Payment
	PaymentAddress string
	PaymentAmount  string

	// Storage
	DatabasePath string
	RedisAddr    string

	// Observability
	MetricsAddr string
	Debug       bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Telegram
		TelegramToken: firstEnv("TELEGRAM_BOT_TOKEN", "BOT_TOKEN"),
		AdminUsername: strings.TrimPrefix(os.Getenv("ADMIN_USERNAME"), "@"),

		// The Odds API
		OddsAPIKey:   firstEnv("ODDS_API_KEY", "SCRAPING_API_KEY"),
		OddsAPIURL:   strings.TrimRight(getEnv("ODDS_API_URL", getEnv("SCRAPING_BASE_URL", defaultOddsAPIURL)), "/"),
		OddsCacheTTL: getEnvDuration("ODDS_CACHE_TTL", 5*time.Minute),
		HTTPTimeout:  getEnvDuration("HTTP_TIMEOUT", 15*time.Second),

		Bankroll: getEnvDecimal("BANKROLL", decimal.NewFromInt(1000)),

		PaymentAmount: getEnv("PAYMENT_AMOUNT", "0.1 ETH"),

		// Storage
		DatabasePath: getEnv("DATABASE_PATH", "data/oddsbot.db"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),

		MetricsAddr: os.Getenv("METRICS_ADDR"),
		Debug:       getEnvBool("DEBUG", false),
	}

	// Validate required fields
	var missing []string
	if cfg.TelegramToken == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if cfg.OddsAPIKey == "" {
		missing = append(missing, "ODDS_API_KEY")
	}
	if cfg.OddsAPIURL == "" {
		missing = append(missing, "ODDS_API_URL")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	ids, err := parseIDs(os.Getenv("ADMIN_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_IDS: %w", err)
	}
	cfg.AdminIDs = ids

	if addr := os.Getenv("PAYMENT_ADDRESS"); addr != "" {
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("invalid PAYMENT_ADDRESS: %q is not an Ethereum address", addr)
		}
		cfg.PaymentAddress = common.HexToAddress(addr).Hex()
	}

	if !cfg.Bankroll.IsPositive() {
		return nil, fmt.Errorf("BANKROLL must be positive, got %s", cfg.Bankroll)
	}

	return cfg, nil
}

// Helper functions

func parseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}
