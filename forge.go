package forge

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/soundprediction/forge/pkg/community"
	"github.com/soundprediction/forge/pkg/document"
	"github.com/soundprediction/forge/pkg/embedder"
	"github.com/soundprediction/forge/pkg/extractor"
	"github.com/soundprediction/forge/pkg/graph"
	"github.com/soundprediction/forge/pkg/index"
	"github.com/soundprediction/forge/pkg/nlp"
	"github.com/soundprediction/forge/pkg/query"
	"github.com/soundprediction/forge/pkg/types"
	"github.com/soundprediction/forge/pkg/vector"
)

// Options configures a Client. Zero-valued fields get offline defaults: a
// disabled generation backend, the histogram embedder, and an in-memory
// vector store.
type Options struct {
	// LLM is the generation backend for extraction, query, and summaries.
	LLM nlp.Client

	// Embedder produces fragment and query vectors.
	Embedder embedder.Client

	// Store holds fragment vectors for similarity search.
	Store vector.Store

	// TargetTokens and Overlap tune document chunking.
	TargetTokens int
	Overlap      int

	// Logger receives per-file indexing progress and skip notices.
	Logger *slog.Logger
}

// Client is an indexing and query session. It owns a knowledge graph, the
// fragments it was built from, and the vector store over those fragments.
// Not safe for concurrent use.
type Client struct {
	graph     *graph.KnowledgeGraph
	fragments []types.Fragment

	chunker   *document.Chunker
	extractor *extractor.Extractor
	llm       nlp.Client
	embedder  embedder.Client
	store     vector.Store
	detector  *community.Detector
	logger    *slog.Logger
}

// NewClient creates a session. Passing nil options uses offline defaults.
func NewClient(opts *Options) *Client {
	if opts == nil {
		opts = &Options{}
	}

	llm := opts.LLM
	if llm == nil {
		llm = nlp.NewDisabledClient()
	}
	emb := opts.Embedder
	if emb == nil {
		emb = embedder.NewHistogram(0)
	}
	store := opts.Store
	if store == nil {
		store = vector.NewMemoryStore()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		graph:     graph.New(),
		chunker:   document.NewChunker(opts.TargetTokens, opts.Overlap),
		extractor: extractor.New(llm, logger),
		llm:       llm,
		embedder:  emb,
		store:     store,
		detector:  community.NewDetector(),
		logger:    logger,
	}
}

// IndexFile chunks a single document, extracts entities and relationships
// into the graph, and stores fragment vectors.
func (c *Client) IndexFile(ctx context.Context, path string) error {
	fragments, err := c.chunker.ParseFile(path)
	if err != nil {
		return err
	}
	return c.indexFragments(ctx, fragments)
}

// IndexDirectory walks dir recursively and indexes every supported document.
// Files that fail to parse are logged and skipped; the walk continues.
func (c *Client) IndexDirectory(ctx context.Context, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		if !document.SupportedExtension(ext) {
			return nil
		}

		if err := c.IndexFile(ctx, path); err != nil {
			c.logger.Warn("failed to index file", "path", path, "error", err)
			return nil
		}
		c.logger.Info("indexed file", "path", path)
		return nil
	})
}

// IndexText chunks raw text under the given source label and indexes it.
func (c *Client) IndexText(ctx context.Context, text, sourcePath string) error {
	return c.indexFragments(ctx, c.chunker.ChunkText(text, sourcePath))
}

func (c *Client) indexFragments(ctx context.Context, fragments []types.Fragment) error {
	for _, fragment := range fragments {
		entities, relationships, err := c.extractor.Extract(ctx, fragment)
		if err != nil {
			return fmt.Errorf("extract fragment %s: %w", fragment.ID, err)
		}

		for _, e := range entities {
			c.graph.AddEntity(e)
		}
		for _, r := range relationships {
			c.graph.AddRelationship(r)
		}

		if err := c.upsertFragment(ctx, fragment); err != nil {
			return err
		}
		c.fragments = append(c.fragments, fragment)
	}
	return nil
}

func (c *Client) upsertFragment(ctx context.Context, fragment types.Fragment) error {
	vec, err := c.embedder.EmbedSingle(ctx, fragment.Text)
	if err != nil {
		return fmt.Errorf("embed fragment %s: %w", fragment.ID, err)
	}
	if err := c.store.Upsert(ctx, fragment.ID, vec); err != nil {
		return fmt.Errorf("store fragment %s: %w", fragment.ID, err)
	}
	return nil
}

// SaveIndex persists the graph and fragments to path.
func (c *Client) SaveIndex(path string) error {
	return index.New(c.graph, c.fragments).Save(path)
}

// LoadIndex replaces the session's graph and fragments with a saved index
// and rebuilds the vector store from the loaded fragments.
func (c *Client) LoadIndex(ctx context.Context, path string) error {
	idx, err := index.Load(path)
	if err != nil {
		return err
	}

	c.graph = idx.Graph
	c.fragments = idx.Fragments
	for _, fragment := range c.fragments {
		if err := c.upsertFragment(ctx, fragment); err != nil {
			return err
		}
	}
	return nil
}

// Query answers a question over the indexed graph. Generation backend
// errors, including ErrGenerationUnavailable, surface to the caller.
func (c *Client) Query(ctx context.Context, text string) (string, error) {
	return c.engine().Query(ctx, text)
}

// Search returns the k fragments most similar to the text.
func (c *Client) Search(ctx context.Context, text string, k int) ([]vector.SearchResult, error) {
	return c.engine().SearchFragments(ctx, text, k)
}

// Fragment returns the indexed fragment with the given id.
func (c *Client) Fragment(id string) (types.Fragment, bool) {
	for _, f := range c.fragments {
		if f.ID == id {
			return f, true
		}
	}
	return types.Fragment{}, false
}

// DetectCommunities clusters graph entities by label propagation.
func (c *Client) DetectCommunities() []types.Community {
	return c.detector.Detect(c.graph)
}

// SummarizeCommunity asks the generation backend for the theme connecting a
// community's entities.
func (c *Client) SummarizeCommunity(ctx context.Context, comm types.Community) (string, error) {
	return c.engine().SummarizeCommunity(ctx, comm)
}

// Graph exposes the session's knowledge graph.
func (c *Client) Graph() *graph.KnowledgeGraph { return c.graph }

// Fragments returns the indexed fragments in indexing order.
func (c *Client) Fragments() []types.Fragment {
	out := make([]types.Fragment, len(c.fragments))
	copy(out, c.fragments)
	return out
}

// Stats reports graph size.
func (c *Client) Stats() graph.Stats { return c.graph.Stats() }

// Close releases the generation backend, embedder, and vector store.
func (c *Client) Close() error {
	return errors.Join(c.llm.Close(), c.embedder.Close(), c.store.Close())
}

func (c *Client) engine() *query.Engine {
	return query.NewEngine(c.graph, c.llm, c.store, c.embedder)
}
