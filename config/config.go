package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the whole process configuration, sourced from env vars.
type Config struct {
	APIToken       string
	AdminChatID    int64
	FeedbackChatID int64

	SheetsEnabled   bool
	SheetID         string
	SheetTab        string
	RefreshInterval time.Duration
	CredentialsJSON string

	DatabaseURL string

	AdsEnabled     bool
	AdsProbability float64
	AdsCooldown    time.Duration
	UTMSource      string
	UTMMedium      string
	UTMCampaign    string

	IncludeUnpriced bool
	SessionTTL      time.Duration
}

// Load reads .env (when present) and the environment. The only fatal
// condition is a missing API_TOKEN.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIToken:        strings.TrimSpace(os.Getenv("API_TOKEN")),
		AdminChatID:     getEnvInt64("ADMIN_CHAT_ID", 0),
		FeedbackChatID:  getEnvInt64("FEEDBACK_CHAT_ID", 0),
		SheetsEnabled:   getEnvBool("SHEETS_ENABLED", true),
		SheetID:         strings.TrimSpace(os.Getenv("GSHEET_ID")),
		SheetTab:        getEnvString("GSHEET_TAB", "Ads"),
		RefreshInterval: time.Duration(getEnvInt("GSHEET_REFRESH_SEC", 120)) * time.Second,
		CredentialsJSON: os.Getenv("GOOGLE_CREDENTIALS_JSON"),
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		AdsEnabled:      getEnvBool("ADS_ENABLED", true),
		AdsProbability:  getEnvFloat("ADS_PROB", 0.18),
		AdsCooldown:     time.Duration(getEnvInt("ADS_COOLDOWN_SEC", 180)) * time.Second,
		UTMSource:       getEnvString("UTM_SOURCE", "telegram"),
		UTMMedium:       getEnvString("UTM_MEDIUM", "bot"),
		UTMCampaign:     getEnvString("UTM_CAMPAIGN", "bot_ads"),
		IncludeUnpriced: getEnvBool("FILTER_INCLUDE_UNPRICED", true),
		SessionTTL:      time.Duration(getEnvInt("SESSION_TTL_MIN", 0)) * time.Minute,
	}

	if cfg.APIToken == "" {
		return nil, fmt.Errorf("API_TOKEN environment variable is empty")
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 120 * time.Second
	}
	if cfg.SheetsEnabled && cfg.SheetID == "" {
		return nil, fmt.Errorf("GSHEET_ID is required when SHEETS_ENABLED=1")
	}

	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}
