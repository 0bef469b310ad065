package forge

import (
	"context"

	"github.com/soundprediction/forge/pkg/types"
	"github.com/soundprediction/forge/pkg/vector"
)

// This file defines focused interfaces over Client. Consumers should depend
// on the smallest interface that meets their needs.

// Indexer builds and persists a knowledge graph from documents.
type Indexer interface {
	// IndexFile chunks and indexes one document.
	IndexFile(ctx context.Context, path string) error

	// IndexDirectory recursively indexes every supported document under dir.
	IndexDirectory(ctx context.Context, dir string) error

	// IndexText indexes raw text under a source label.
	IndexText(ctx context.Context, text, sourcePath string) error

	// SaveIndex persists the graph and fragments.
	SaveIndex(path string) error

	// LoadIndex restores a saved index into the session.
	LoadIndex(ctx context.Context, path string) error
}

// Querier answers questions and similarity searches over an indexed graph.
type Querier interface {
	// Query answers a question using the generation backend.
	Query(ctx context.Context, text string) (string, error)

	// Search returns the k fragments most similar to the text.
	Search(ctx context.Context, text string, k int) ([]vector.SearchResult, error)
}

// CommunityAnalyzer groups graph entities into topical clusters.
type CommunityAnalyzer interface {
	// DetectCommunities clusters entities by label propagation.
	DetectCommunities() []types.Community

	// SummarizeCommunity describes the theme connecting a community.
	SummarizeCommunity(ctx context.Context, comm types.Community) (string, error)
}

// Forge combines the full pipeline surface.
type Forge interface {
	Indexer
	Querier
	CommunityAnalyzer

	// Close releases backend resources.
	Close() error
}

var _ Forge = (*Client)(nil)
