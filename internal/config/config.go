package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Config represents the main PixPod configuration
type Config struct {
	// HTTP server
	Server ServerConfig `json:"server" mapstructure:"server"`

	// AWS / Bedrock
	AWS AWSConfig `json:"aws" mapstructure:"aws"`

	// Structured secret store
	Secrets SecretsConfig `json:"secrets" mapstructure:"secrets"`

	// Session lifecycle
	Sessions SessionsConfig `json:"sessions" mapstructure:"sessions"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Data directory
	DataDir string `json:"data_dir" mapstructure:"data_dir"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host               string `json:"host" mapstructure:"host"`
	Port               int    `json:"port" mapstructure:"port"`
	RateLimitPerMinute int    `json:"rate_limit_per_minute" mapstructure:"rate_limit_per_minute"`
}

// AWSConfig holds Bedrock client configuration
type AWSConfig struct {
	Region string `json:"region" mapstructure:"region"`
}

// SecretsConfig holds secret store configuration
type SecretsConfig struct {
	Path  string `json:"path" mapstructure:"path"`
	Watch bool   `json:"watch" mapstructure:"watch"`
}

// SessionsConfig holds session lifecycle configuration
type SessionsConfig struct {
	IdleTTLMinutes int    `json:"idle_ttl_minutes" mapstructure:"idle_ttl_minutes"`
	ReapSchedule   string `json:"reap_schedule" mapstructure:"reap_schedule"`
}

// IdleTTL returns the idle TTL as a duration.
func (c SessionsConfig) IdleTTL() time.Duration {
	return time.Duration(c.IdleTTLMinutes) * time.Minute
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	Console   bool   `json:"console" mapstructure:"console"`
	Pretty    bool   `json:"pretty" mapstructure:"pretty"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               8501,
			RateLimitPerMinute: 60,
		},
		AWS: AWSConfig{
			Region: "us-east-1",
		},
		Secrets: SecretsConfig{
			Watch: true,
		},
		Sessions: SessionsConfig{
			IdleTTLMinutes: 60,
			ReapSchedule:   "@every 5m",
		},
		Logging: LoggingConfig{
			Level:     "info",
			Console:   true,
			Pretty:    true,
			Redaction: true,
		},
	}
}

// String returns a JSON representation of the config
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimitPerMinute < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	if c.AWS.Region == "" {
		return fmt.Errorf("aws region is required")
	}
	if c.Sessions.IdleTTLMinutes <= 0 {
		return fmt.Errorf("session idle TTL must be positive")
	}
	if c.Sessions.ReapSchedule == "" {
		return fmt.Errorf("session reap schedule is required")
	}
	return nil
}
