// Package config loads application configuration from file, environment, and
// defaults.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log" yaml:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// NLP configuration
	NLP NLPConfig `mapstructure:"nlp" yaml:"nlp"`

	// Embedding configuration
	Embedding EmbeddingConfig `mapstructure:"embedding" yaml:"embedding"`

	// Chunking configuration
	Chunking ChunkingConfig `mapstructure:"chunking" yaml:"chunking"`

	// Vector store configuration
	Vector VectorConfig `mapstructure:"vector" yaml:"vector"`

	// Export configuration
	Export ExportConfig `mapstructure:"export" yaml:"export"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker" yaml:"circuit_breaker"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
	Mode string `mapstructure:"mode" yaml:"mode"` // gin mode: debug, release, test
}

// NLPConfig holds generation backend configuration
type NLPConfig struct {
	// Provider selects the backend: openai, or disabled for offline runs.
	Provider    string  `mapstructure:"provider" yaml:"provider"`
	Model       string  `mapstructure:"model" yaml:"model"`
	APIKey      string  `mapstructure:"api_key" yaml:"api_key"`
	BaseURL     string  `mapstructure:"base_url" yaml:"base_url"`
	Temperature float32 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// EmbeddingConfig holds embedding configuration
type EmbeddingConfig struct {
	// Provider selects the embedder: histogram, openai, embedeverything.
	Provider   string `mapstructure:"provider" yaml:"provider"`
	Model      string `mapstructure:"model" yaml:"model"`
	APIKey     string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL    string `mapstructure:"base_url" yaml:"base_url"`
	Dimensions int    `mapstructure:"dimensions" yaml:"dimensions"`
}

// ChunkingConfig holds document chunking configuration
type ChunkingConfig struct {
	TargetTokens int `mapstructure:"target_tokens" yaml:"target_tokens"`
	Overlap      int `mapstructure:"overlap" yaml:"overlap"`
}

// VectorConfig holds vector store configuration
type VectorConfig struct {
	// Store selects the backend: memory or badger.
	Store string `mapstructure:"store" yaml:"store"`
	Path  string `mapstructure:"path" yaml:"path"`
}

// ExportConfig holds graph export sink configuration
type ExportConfig struct {
	Neo4jURI      string `mapstructure:"neo4j_uri" yaml:"neo4j_uri"`
	Neo4jUser     string `mapstructure:"neo4j_user" yaml:"neo4j_user"`
	Neo4jPassword string `mapstructure:"neo4j_password" yaml:"neo4j_password"`
	Neo4jDatabase string `mapstructure:"neo4j_database" yaml:"neo4j_database"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	ParquetPath string `mapstructure:"parquet_path" yaml:"parquet_path"`
}

// CircuitBreakerConfig holds configuration for circuit breaking
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled" yaml:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests" yaml:"max_requests"`
	Interval         int     `mapstructure:"interval" yaml:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout" yaml:"timeout"`   // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio" yaml:"ready_to_trip_ratio"`
}

// Load loads configuration from viper (file values already read by the CLI),
// applying defaults and environment overrides.
func Load() (*Config, error) {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")

	// Generation is off by default so indexing works fully offline.
	viper.SetDefault("nlp.provider", "disabled")
	viper.SetDefault("nlp.model", "")
	viper.SetDefault("nlp.temperature", 0.7)
	viper.SetDefault("nlp.max_tokens", 512)

	viper.SetDefault("embedding.provider", "histogram")
	viper.SetDefault("embedding.dimensions", 256)
	viper.SetDefault("embedding.model", "all-MiniLM-L6-v2")

	viper.SetDefault("chunking.target_tokens", 512)
	viper.SetDefault("chunking.overlap", 0)

	viper.SetDefault("vector.store", "memory")
	viper.SetDefault("vector.path", "./forge_vectors")

	viper.SetDefault("export.neo4j_uri", "")
	viper.SetDefault("export.neo4j_database", "neo4j")

	viper.SetDefault("telemetry.enabled", false)
	home, err := os.UserHomeDir()
	if err == nil {
		viper.SetDefault("telemetry.parquet_path", fmt.Sprintf("%s/.forge/telemetry", home))
	}

	viper.SetDefault("circuit_breaker.enabled", true)
	viper.SetDefault("circuit_breaker.max_requests", 2)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 30)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		if config.NLP.APIKey == "" {
			config.NLP.APIKey = apiKey
		}
		if config.Embedding.APIKey == "" {
			config.Embedding.APIKey = apiKey
		}
	}

	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.NLP.BaseURL = baseURL
	}

	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		config.Export.Neo4jURI = uri
	}
	if user := os.Getenv("NEO4J_USER"); user != "" {
		config.Export.Neo4jUser = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		config.Export.Neo4jPassword = pass
	}

	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}
}

// WriteDefault writes the default configuration as YAML to path, for
// `forge config init`.
func WriteDefault(path string) error {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("unable to decode defaults: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
