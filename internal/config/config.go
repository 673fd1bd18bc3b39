package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the bridge. It is built once at startup
// and passed read-only into every component.
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Node         NodeConfig
	Bridge       BridgeConfig
	Notification NotificationConfig
	Logging      LoggingConfig
}

// ServerConfig holds the status HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

// NodeConfig holds wallet node RPC configuration
type NodeConfig struct {
	RpcURL  string
	Timeout time.Duration
}

// BridgeConfig holds the reconciliation parameters
type BridgeConfig struct {
	// Account is the monitored chain account (name or uid).
	Account string
	// AssetID is the only asset credited as a deposit.
	AssetID uint32
	// AssetSymbol is the wire symbol used when submitting transfers.
	AssetSymbol string
	// PageSize is the history page size per fetch.
	PageSize int
	// CycleInterval is the wall-clock period between reconciliation cycles.
	CycleInterval time.Duration
	// HeadAgeThreshold rejects the cycle when the head block is at least
	// this old.
	HeadAgeThreshold time.Duration
	// ParticipationThreshold rejects the cycle when network participation
	// is at or below this percentage.
	ParticipationThreshold float64
	// ReserveFloor is the minimum csaf balance, in minor units, required
	// before any disbursement.
	ReserveFloor int64
	// ReserveTopUp is the collect_csaf amount, in minor units, requested
	// when the reserve drops below the floor.
	ReserveTopUp int64
}

// NotificationConfig holds notification configuration
type NotificationConfig struct {
	Telegram TelegramConfig
}

// TelegramConfig holds Telegram specific configuration
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
	Dir    string
}

// LoadConfig loads configuration from YAML file or environment variables
func LoadConfig() *Config {
	if config, err := LoadConfigFromYAML(); err == nil {
		return config
	}
	return LoadConfigFromEnv()
}

// LoadConfigFromYAML loads configuration from YAML file
func LoadConfigFromYAML() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideWithEnvVars(&config)
	applyDefaults(&config)

	return &config, nil
}

// overrideWithEnvVars overrides config values with environment variables if they exist
func overrideWithEnvVars(config *Config) {
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.Database.Password = password
	}
	if url := os.Getenv("NODE_RPC_URL"); url != "" {
		config.Node.RpcURL = url
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		config.Notification.Telegram.BotToken = token
	}
}

// LoadConfigFromEnv loads configuration from environment variables
func LoadConfigFromEnv() *Config {
	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_URL", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			Database: getEnv("DB_DATABASE", "yoyow_bridge"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Node: NodeConfig{
			RpcURL: getEnv("NODE_RPC_URL", "http://127.0.0.1:8091"),
		},
		Bridge: BridgeConfig{
			Account:     getEnv("BRIDGE_ACCOUNT", ""),
			AssetID:     uint32(getEnvAsInt("BRIDGE_ASSET_ID", 0)),
			AssetSymbol: getEnv("BRIDGE_ASSET_SYMBOL", "YOYO"),
		},
		Notification: NotificationConfig{
			Telegram: TelegramConfig{
				BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
				ChatID:   getEnv("TELEGRAM_BOT_MESSAGE_GROUP", ""),
			},
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
			Dir:    getEnv("LOG_DIR", "./logs"),
		},
	}
	applyDefaults(config)
	return config
}

// applyDefaults fills the tuning knobs that are rarely set explicitly.
func applyDefaults(config *Config) {
	if config.Node.Timeout <= 0 {
		config.Node.Timeout = 55 * time.Second
	}
	if config.Bridge.PageSize <= 0 {
		config.Bridge.PageSize = 10
	}
	if config.Bridge.CycleInterval <= 0 {
		config.Bridge.CycleInterval = 10 * time.Second
	}
	if config.Bridge.HeadAgeThreshold <= 0 {
		config.Bridge.HeadAgeThreshold = 15 * time.Second
	}
	if config.Bridge.ParticipationThreshold <= 0 {
		config.Bridge.ParticipationThreshold = 79.999
	}
	if config.Bridge.ReserveFloor <= 0 {
		config.Bridge.ReserveFloor = 20_00000 // 20 units at scale 10^5
	}
	if config.Bridge.ReserveTopUp <= 0 {
		config.Bridge.ReserveTopUp = 100_00000
	}
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt gets an environment variable as integer with a fallback value
func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}
