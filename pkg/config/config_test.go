package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "disabled", cfg.NLP.Provider)
	assert.Equal(t, "histogram", cfg.Embedding.Provider)
	assert.Equal(t, 256, cfg.Embedding.Dimensions)
	assert.Equal(t, 512, cfg.Chunking.TargetTokens)
	assert.Equal(t, "memory", cfg.Vector.Store)
	assert.True(t, cfg.CircuitBreaker.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SERVER_HOST", "0.0.0.0")
	t.Setenv("NEO4J_URI", "bolt://graph:7687")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.NLP.APIKey)
	assert.Equal(t, "sk-test", cfg.Embedding.APIKey)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "bolt://graph:7687", cfg.Export.Neo4jURI)
}

func TestLoadFileValues(t *testing.T) {
	viper.Reset()
	t.Setenv("OPENAI_API_KEY", "")

	path := filepath.Join(t.TempDir(), "forge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nlp:\n  provider: openai\n  model: gpt-4o\nchunking:\n  overlap: 32\n"), 0o644))

	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.NLP.Provider)
	assert.Equal(t, "gpt-4o", cfg.NLP.Model)
	assert.Equal(t, 32, cfg.Chunking.Overlap)
	// Unset keys keep their defaults.
	assert.Equal(t, 512, cfg.Chunking.TargetTokens)
}

func TestWriteDefault(t *testing.T) {
	viper.Reset()

	path := filepath.Join(t.TempDir(), "forge.yaml")
	require.NoError(t, WriteDefault(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, "disabled", cfg.NLP.Provider)
	assert.Equal(t, "histogram", cfg.Embedding.Provider)
	assert.Equal(t, 512, cfg.Chunking.TargetTokens)
}
