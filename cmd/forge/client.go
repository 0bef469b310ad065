package forgecmd

import (
	"fmt"
	"log/slog"

	"github.com/soundprediction/forge"
	"github.com/soundprediction/forge/pkg/config"
	"github.com/soundprediction/forge/pkg/embedder"
	"github.com/soundprediction/forge/pkg/logger"
	"github.com/soundprediction/forge/pkg/nlp"
	"github.com/soundprediction/forge/pkg/telemetry"
	"github.com/soundprediction/forge/pkg/vector"
)

// initForge assembles a forge client from the loaded configuration: the
// generation backend with its retry, circuit breaker, and token tracking
// wrappers, the embedder, and the vector store.
func initForge(cfg *config.Config, log *slog.Logger) (*forge.Client, error) {
	llm, err := buildGenerationClient(cfg, log)
	if err != nil {
		return nil, err
	}

	emb, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildVectorStore(cfg)
	if err != nil {
		return nil, err
	}

	return forge.NewClient(&forge.Options{
		LLM:          llm,
		Embedder:     emb,
		Store:        store,
		TargetTokens: cfg.Chunking.TargetTokens,
		Overlap:      cfg.Chunking.Overlap,
		Logger:       log,
	}), nil
}

func buildGenerationClient(cfg *config.Config, log *slog.Logger) (nlp.Client, error) {
	switch cfg.NLP.Provider {
	case "", "disabled":
		return nlp.NewDisabledClient(), nil
	case "openai":
		temperature := cfg.NLP.Temperature
		maxTokens := cfg.NLP.MaxTokens
		client, err := nlp.NewOpenAIClient(cfg.NLP.APIKey, nlp.Config{
			Model:       cfg.NLP.Model,
			BaseURL:     cfg.NLP.BaseURL,
			Temperature: &temperature,
			MaxTokens:   &maxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("create openai client: %w", err)
		}

		var wrapped nlp.Client = nlp.NewRetryClient(client, nlp.DefaultRetryConfig())

		if cfg.CircuitBreaker.Enabled {
			wrapped = nlp.NewCircuitBreakerClient(wrapped, nlp.CircuitBreakerConfig{
				MaxRequests:      cfg.CircuitBreaker.MaxRequests,
				Interval:         cfg.CircuitBreaker.Interval,
				Timeout:          cfg.CircuitBreaker.Timeout,
				ReadyToTripRatio: cfg.CircuitBreaker.ReadyToTripRatio,
			}, log, "forge-nlp")
		}

		if cfg.Telemetry.Enabled {
			tracker, err := telemetry.NewTokenTracker(cfg.Telemetry.ParquetPath)
			if err != nil {
				return nil, fmt.Errorf("create token tracker: %w", err)
			}
			wrapped = nlp.NewTokenTrackingClient(wrapped, tracker, "chat", log)
		}

		return wrapped, nil
	default:
		return nil, fmt.Errorf("unknown nlp provider: %s", cfg.NLP.Provider)
	}
}

func buildEmbedder(cfg *config.Config) (embedder.Client, error) {
	switch cfg.Embedding.Provider {
	case "", "histogram":
		return embedder.NewHistogram(cfg.Embedding.Dimensions), nil
	case "openai":
		return embedder.NewOpenAIClient(cfg.Embedding.APIKey, embedder.Config{
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			BaseURL:    cfg.Embedding.BaseURL,
		}), nil
	case "embedeverything":
		return embedder.NewEmbedEverythingClient(embedder.Config{
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Embedding.Provider)
	}
}

func buildVectorStore(cfg *config.Config) (vector.Store, error) {
	switch cfg.Vector.Store {
	case "", "memory":
		return vector.NewMemoryStore(), nil
	case "badger":
		return vector.NewBadgerStore(cfg.Vector.Path)
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.Vector.Store)
	}
}

// loadConfigAndLogger is the common preamble for every subcommand.
func loadConfigAndLogger() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logger.New(cfg.Log), nil
}
