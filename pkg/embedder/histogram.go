package embedder

import (
	"context"
	"math"
)

// DefaultHistogramDimensions covers the full byte range one bucket per value.
const DefaultHistogramDimensions = 256

// Histogram is a syntactic embedder: each byte of the text increments the
// bucket at its value modulo the dimension, and the result is L2-normalized.
// It is deterministic, offline, and needs no model, which makes indexing and
// search reproducible without any embedding backend.
type Histogram struct {
	dim int
}

// NewHistogram returns a histogram embedder with the given dimension.
// Non-positive dimensions fall back to the 256-bucket default.
func NewHistogram(dim int) *Histogram {
	if dim <= 0 {
		dim = DefaultHistogramDimensions
	}
	return &Histogram{dim: dim}
}

// Embed generates one histogram vector per text.
func (h *Histogram) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = h.embed(text)
	}
	return out, nil
}

// EmbedSingle generates a histogram vector for a single text.
func (h *Histogram) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	return h.embed(text), nil
}

// Dimensions returns the vector length.
func (h *Histogram) Dimensions() int { return h.dim }

// Close is a no-op; the histogram embedder holds no resources.
func (h *Histogram) Close() error { return nil }

func (h *Histogram) embed(text string) []float32 {
	v := make([]float32, h.dim)
	for i := 0; i < len(text); i++ {
		v[int(text[i])%h.dim]++
	}

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum > 0 {
		norm := math.Sqrt(sum)
		for i, x := range v {
			v[i] = float32(float64(x) / norm)
		}
	}
	return v
}
