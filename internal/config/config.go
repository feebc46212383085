package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve in minimal containers

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode   string
	Port      string
	OwnerID   int64
	Location  *time.Location
	Database  DatabaseConfig
	Redis     RedisConfig
	Telegram  TelegramConfig
	CheckIn   CheckInConfig
	Directory DirectoryConfig
	JWT       JWTConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string // mysql or postgres
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// RedisConfig holds the Redis stream sink configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
}

// TelegramConfig holds Telegram Bot API configuration
type TelegramConfig struct {
	BotToken      string
	APIURL        string
	WebhookSecret string
}

// CheckInConfig holds the dialogue and submission settings
type CheckInConfig struct {
	Reentry       string // reset or reject
	SessionTTL    time.Duration
	SweepInterval time.Duration
	SinkDriver    string // database or redis
	SinkTimeout   time.Duration
}

// DirectoryConfig holds directory cache settings
type DirectoryConfig struct {
	RefreshCron string
	Seed        string
}

// JWTConfig holds operator token configuration
type JWTConfig struct {
	Secret    string
	TokenMins int
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	config, err := FromEnv()
	if err != nil {
		return nil, err
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", config.AppMode)
	return config, nil
}

// FromEnv builds the configuration from the process environment only
func FromEnv() (*Config, error) {
	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	ownerRaw := strings.TrimSpace(os.Getenv("OWNER_ID"))
	if ownerRaw == "" {
		return nil, fmt.Errorf("OWNER_ID is required")
	}
	ownerID, err := strconv.ParseInt(ownerRaw, 10, 64)
	if err != nil || ownerID <= 0 {
		return nil, fmt.Errorf("invalid OWNER_ID: '%s'", ownerRaw)
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Asia/Jakarta"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	database, err := loadDatabaseConfig(appMode)
	if err != nil {
		return nil, err
	}

	checkIn, err := loadCheckInConfig()
	if err != nil {
		return nil, err
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	return &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		OwnerID:  ownerID,
		Location: loc,
		Database: database,
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			Stream:   getEnv("REDIS_STREAM", "checkins"),
		},
		Telegram: TelegramConfig{
			BotToken:      getEnv("TELEGRAM_BOT_TOKEN", ""),
			APIURL:        getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
			WebhookSecret: getEnv("TELEGRAM_WEBHOOK_SECRET", ""),
		},
		CheckIn: checkIn,
		Directory: DirectoryConfig{
			RefreshCron: getEnv("DIRECTORY_REFRESH_CRON", ""),
			Seed:        getEnv("DIRECTORY_SEED", ""),
		},
		JWT: loadJWTConfig(appMode),
	}, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) (DatabaseConfig, error) {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	driver := strings.ToLower(getEnv("DB_DRIVER", "mysql"))
	defaultPort := "3306"
	switch driver {
	case "mysql":
	case "postgres":
		defaultPort = "5432"
	default:
		return DatabaseConfig{}, fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'mysql' or 'postgres')", driver)
	}

	return DatabaseConfig{
		Driver:   driver,
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", defaultPort),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "checkin_bot"),
	}, nil
}

// loadCheckInConfig loads dialogue and sink settings
func loadCheckInConfig() (CheckInConfig, error) {
	reentry := strings.ToLower(getEnv("CHECKIN_REENTRY", "reset"))
	if reentry != "reset" && reentry != "reject" {
		return CheckInConfig{}, fmt.Errorf("invalid CHECKIN_REENTRY: '%s' (must be 'reset' or 'reject')", reentry)
	}

	sinkDriver := strings.ToLower(getEnv("SINK_DRIVER", "database"))
	if sinkDriver != "database" && sinkDriver != "redis" {
		return CheckInConfig{}, fmt.Errorf("invalid SINK_DRIVER: '%s' (must be 'database' or 'redis')", sinkDriver)
	}

	ttl, err := getDuration("SESSION_IDLE_TTL", 30*time.Minute)
	if err != nil {
		return CheckInConfig{}, err
	}
	sweep, err := getDuration("SESSION_SWEEP_INTERVAL", time.Minute)
	if err != nil {
		return CheckInConfig{}, err
	}
	sinkTimeout, err := getDuration("SINK_TIMEOUT", 10*time.Second)
	if err != nil {
		return CheckInConfig{}, err
	}

	return CheckInConfig{
		Reentry:       reentry,
		SessionTTL:    ttl,
		SweepInterval: sweep,
		SinkDriver:    sinkDriver,
		SinkTimeout:   sinkTimeout,
	}, nil
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	tokenMins, _ := strconv.Atoi(getEnv("OPERATOR_TOKEN_MINUTES", "60"))

	return JWTConfig{
		Secret:    getEnv(prefix+"JWT_SECRET", "default_secret"),
		TokenMins: tokenMins,
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a Go duration ("90s", "30m") with default value
func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s: '%s'", key, raw)
	}
	return d, nil
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return ""
	}
	return origins
}
