package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AdminToken        string `mapstructure:"ADMIN_TOKEN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Gemini API key for the LLM fallback layers.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`

	// Dialogue settings.
	SessionTTLSeconds      int    `mapstructure:"SESSION_TTL_SECONDS"`
	DefaultRegion          string `mapstructure:"DEFAULT_PHONE_REGION"`
	LocalTimezone          string `mapstructure:"LOCAL_TIMEZONE"`
	DefaultDurationMin     int    `mapstructure:"DEFAULT_DURATION_MIN"`
	ExtractLayerTimeoutSec int    `mapstructure:"EXTRACT_LAYER_TIMEOUT_SEC"`

	// Business hours (local time).
	OpenHour      int   `mapstructure:"OPEN_HOUR"`
	CloseHour     int   `mapstructure:"CLOSE_HOUR"`
	OpenWeekdays  []int `mapstructure:"OPEN_WEEKDAYS"`
	LookaheadDays int   `mapstructure:"LOOKAHEAD_DAYS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	// Empty means the ENV-based default (info in production, debug otherwise).
	viper.SetDefault("LOG_LEVEL", "")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("ADMIN_TOKEN", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("SESSION_TTL_SECONDS", 900)
	viper.SetDefault("DEFAULT_PHONE_REGION", "US")
	viper.SetDefault("LOCAL_TIMEZONE", "America/Chicago")
	viper.SetDefault("DEFAULT_DURATION_MIN", 30)
	viper.SetDefault("EXTRACT_LAYER_TIMEOUT_SEC", 3)
	viper.SetDefault("OPEN_HOUR", 9)
	viper.SetDefault("CLOSE_HOUR", 17)
	viper.SetDefault("OPEN_WEEKDAYS", []int{1, 2, 3, 4, 5})
	viper.SetDefault("LOOKAHEAD_DAYS", 14)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
