package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the hub and bridge binaries
type Config struct {
	Server     ServerConfig
	Database   PostgresConfig `mapstructure:"database"`
	Redis      RedisConfig
	Webhook    WebhookConfig
	MQTT       MQTTConfig `mapstructure:"mqtt"`
	Bridge     BridgeConfig
	Monitoring MonitoringConfig
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Store           string        `mapstructure:"store"` // "postgres" or "memory"
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WebhookConfig guards the ingestion webhook. The token is a shared-secret
// placeholder until real authentication lands.
type WebhookConfig struct {
	Token string `mapstructure:"token"`
}

type MQTTConfig struct {
	Broker   string `mapstructure:"broker"`
	ClientID string `mapstructure:"client_id"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Topic    string `mapstructure:"topic"`
	QoS      byte   `mapstructure:"qos"`
}

type BridgeConfig struct {
	HubURL string `mapstructure:"hub_url"`
	Token  string `mapstructure:"token"`
}

type MonitoringConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetEnvPrefix("SPARX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Load config file if exists
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.shutdown_timeout", "30s")
	viper.SetDefault("server.store", "postgres")

	// Database defaults
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")

	// Redis defaults
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)

	// MQTT defaults
	viper.SetDefault("mqtt.client_id", "sparx-bridge")
	viper.SetDefault("mqtt.topic", "sparx/temperature")
	viper.SetDefault("mqtt.qos", 1)

	// Bridge defaults
	viper.SetDefault("bridge.hub_url", "http://localhost:8080")

	// Monitoring defaults
	viper.SetDefault("monitoring.log_level", "info")
}

// ValidateHub checks the fields the hub binary needs.
func (c *Config) ValidateHub() error {
	if c.Server.Store != "postgres" && c.Server.Store != "memory" {
		return fmt.Errorf("unknown store %q (expected postgres or memory)", c.Server.Store)
	}
	if c.Server.Store == "postgres" && c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Redis.Enabled && c.Redis.Host == "" {
		return fmt.Errorf("redis host is required when redis is enabled")
	}
	return nil
}

// ValidateBridge checks the fields the bridge binary needs.
func (c *Config) ValidateBridge() error {
	if c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt broker is required")
	}
	if c.Bridge.HubURL == "" {
		return fmt.Errorf("bridge hub_url is required")
	}
	return nil
}
