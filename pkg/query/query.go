// Package query answers natural language questions over an indexed graph.
package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/soundprediction/forge/pkg/embedder"
	"github.com/soundprediction/forge/pkg/graph"
	"github.com/soundprediction/forge/pkg/nlp"
	"github.com/soundprediction/forge/pkg/types"
	"github.com/soundprediction/forge/pkg/vector"
)

// Engine answers queries against a knowledge graph with a generation backend
// and serves fragment similarity search from a vector store.
//
// Query and SearchFragments are deliberately independent: Query conditions
// the model only on graph size, it does not retrieve fragments. Callers that
// want retrieval run SearchFragments themselves.
type Engine struct {
	graph    *graph.KnowledgeGraph
	llm      nlp.Client
	store    vector.Store
	embedder embedder.Client
}

// NewEngine creates a query engine. A nil llm behaves like a disabled
// backend; a nil embedder falls back to the default histogram embedder.
func NewEngine(g *graph.KnowledgeGraph, llm nlp.Client, store vector.Store, emb embedder.Client) *Engine {
	if g == nil {
		g = graph.New()
	}
	if llm == nil {
		llm = nlp.NewDisabledClient()
	}
	if store == nil {
		store = vector.NewMemoryStore()
	}
	if emb == nil {
		emb = embedder.NewHistogram(0)
	}
	return &Engine{graph: g, llm: llm, store: store, embedder: emb}
}

// Query sends the question to the generation backend together with the size
// of the graph and returns the model's answer verbatim. Backend errors are
// surfaced unmodified.
func (e *Engine) Query(ctx context.Context, query string) (string, error) {
	prompt := fmt.Sprintf(
		"Given a knowledge graph with %d entities and %d relationships, answer the user query: '%s'\nBe concise.",
		e.graph.NodeCount(), e.graph.EdgeCount(), query,
	)

	resp, err := e.llm.Chat(ctx, []types.Message{nlp.NewUserMessage(prompt)})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// SearchFragments embeds the text and returns the k most similar fragment
// ids from the vector store.
func (e *Engine) SearchFragments(ctx context.Context, text string, k int) ([]vector.SearchResult, error) {
	vec, err := e.embedder.EmbedSingle(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return e.store.Search(ctx, vec, k)
}

// SummarizeCommunity asks the generation backend for the theme connecting
// the community's member entities. Members missing from the graph are
// skipped.
func (e *Engine) SummarizeCommunity(ctx context.Context, community types.Community) (string, error) {
	names := make([]string, 0, len(community))
	for _, id := range community {
		if entity, ok := e.graph.Entity(id); ok {
			names = append(names, entity.Name)
		}
	}

	prompt := fmt.Sprintf("Summarize the theme connecting these entities: %s", strings.Join(names, ", "))
	resp, err := e.llm.Chat(ctx, []types.Message{nlp.NewUserMessage(prompt)})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
