package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration for both the pipeline and the API.
type Config struct {
	// Currency universe. Every directed pair among Currencies is derived via
	// triangulation through BaseCurrency, which must be a member of the set.
	Currencies    []string
	BaseCurrency  string
	CurrencyNames map[string]string

	// Default load window, overridable per run.
	DefaultStartDate string
	DefaultEndDate   string

	// Rate source.
	FrankfurterURL     string
	FrankfurterTimeout time.Duration

	// Warehouse.
	DatabaseURL string
	Sink        string // "postgres" or "s3"

	// S3 sink settings (used when Sink == "s3").
	S3Region           string
	S3Bucket           string
	S3Prefix           string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// API server.
	Port         string
	IsProduction bool
	APIRateLimit string // ulule/limiter format, e.g. "100-H"

	// Optional cron expression; when set the pipeline stays resident and runs
	// on each tick over the current calendar year.
	Schedule string
}

// defaultCurrencyNames provides display names for the default currency set.
var defaultCurrencyNames = map[string]string{
	"NOK": "Norwegian Krone",
	"EUR": "Euro",
	"SEK": "Swedish Krona",
	"PLN": "Polish Zloty",
	"RON": "Romanian Leu",
	"DKK": "Danish Krone",
	"CZK": "Czech Koruna",
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	now := time.Now().UTC()
	viper.SetDefault("FX_CURRENCIES", "NOK,EUR,SEK,PLN,RON,DKK,CZK")
	viper.SetDefault("FX_BASE_CURRENCY", "EUR")
	viper.SetDefault("FX_START_DATE", time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02"))
	viper.SetDefault("FX_END_DATE", now.Format("2006-01-02"))
	viper.SetDefault("FRANKFURTER_API_URL", "https://api.frankfurter.app")
	viper.SetDefault("FRANKFURTER_TIMEOUT", "30s")
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("FX_SINK", "postgres")
	viper.SetDefault("AWS_REGION", "eu-north-1")
	viper.SetDefault("FX_S3_BUCKET", "")
	viper.SetDefault("FX_S3_PREFIX", "fx-data")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("API_RATE_LIMIT", "100-H")
	viper.SetDefault("FX_SCHEDULE", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Currencies = splitCodes(viper.GetString("FX_CURRENCIES"))
	if len(cfg.Currencies) == 0 {
		return nil, fmt.Errorf("FX_CURRENCIES must list at least one currency code")
	}
	cfg.BaseCurrency = strings.ToUpper(strings.TrimSpace(viper.GetString("FX_BASE_CURRENCY")))
	cfg.CurrencyNames = defaultCurrencyNames

	cfg.DefaultStartDate = viper.GetString("FX_START_DATE")
	cfg.DefaultEndDate = viper.GetString("FX_END_DATE")

	cfg.FrankfurterURL = viper.GetString("FRANKFURTER_API_URL")
	timeoutStr := viper.GetString("FRANKFURTER_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 30 * time.Second
		log.Printf("Warning: Invalid value for FRANKFURTER_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, timeout)
	}
	cfg.FrankfurterTimeout = timeout

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.Sink = strings.ToLower(viper.GetString("FX_SINK"))
	switch cfg.Sink {
	case "postgres", "s3":
	default:
		return nil, fmt.Errorf("FX_SINK must be 'postgres' or 's3', got %q", cfg.Sink)
	}
	if cfg.Sink == "postgres" && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.S3Region = viper.GetString("AWS_REGION")
	cfg.S3Bucket = viper.GetString("FX_S3_BUCKET")
	cfg.S3Prefix = viper.GetString("FX_S3_PREFIX")
	cfg.AWSAccessKeyID = viper.GetString("AWS_ACCESS_KEY_ID")
	cfg.AWSSecretAccessKey = viper.GetString("AWS_SECRET_ACCESS_KEY")
	if cfg.Sink == "s3" && cfg.S3Bucket == "" {
		return nil, fmt.Errorf("FX_S3_BUCKET must be set when FX_SINK is 's3'")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.APIRateLimit = viper.GetString("API_RATE_LIMIT")
	cfg.Schedule = viper.GetString("FX_SCHEDULE")

	return cfg, nil
}

func splitCodes(csv string) []string {
	parts := strings.Split(csv, ",")
	codes := make([]string, 0, len(parts))
	for _, part := range parts {
		code := strings.ToUpper(strings.TrimSpace(part))
		if code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}
