// Package embedder provides text embedding clients for vector
// representations.
//
// The Histogram embedder is the deterministic default: it needs no model or
// network and always produces the same vector for the same text. OpenAI and
// EmbedEverything clients provide semantic vectors when configured.
package embedder

import "context"

// Client turns text into embedding vectors.
type Client interface {
	// Embed generates embeddings for the given texts, one vector per text.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates an embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the length of vectors this client produces.
	Dimensions() int

	// Close cleans up any resources.
	Close() error
}

// Config holds common embedding client settings.
type Config struct {
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions"`
	BaseURL    string `json:"base_url,omitempty"`
}
