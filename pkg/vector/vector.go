// Package vector provides similarity stores for fragment embeddings.
//
// Stores keep one vector per fragment id. Vectors are L2-normalized on
// upsert, so cosine similarity at search time reduces to a dot product.
// Two implementations are provided: MemoryStore for single-run indexing and
// BadgerStore for indexes that persist between runs.
package vector

import (
	"context"
	"math"
)

// SearchResult pairs a fragment id with its similarity to the query.
type SearchResult struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Store is a similarity index over fragment embeddings.
type Store interface {
	// Upsert stores a normalized copy of vec under id, replacing any
	// previous vector with the same id.
	Upsert(ctx context.Context, id string, vec []float32) error

	// Search returns the k stored vectors most similar to query, best
	// first. Ties keep insertion order. An empty store returns no results.
	Search(ctx context.Context, query []float32, k int) ([]SearchResult, error)

	// Len returns the number of stored vectors.
	Len() int

	// Close releases any resources held by the store.
	Close() error
}

// Magnitude returns the Euclidean (L2) norm of v.
func Magnitude(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Normalize returns a unit-length copy of v. A zero-magnitude vector cannot
// be normalized; its copy is returned unchanged so that it scores 0 against
// every query.
func Normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	mag := Magnitude(v)
	if mag == 0 {
		copy(out, v)
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / mag)
	}
	return out
}

// DotProduct returns the dot product of a and b, or 0 when the lengths
// differ. Over normalized vectors this is the cosine similarity.
func DotProduct(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
