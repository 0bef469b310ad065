package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/forge/pkg/nlp"
	"github.com/soundprediction/forge/pkg/types"
)

// staticClient returns a fixed response for every chat call.
type staticClient struct {
	content string
}

func (s *staticClient) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	return &types.Response{Content: s.content}, nil
}

func (s *staticClient) Close() error { return nil }

func TestExtractParsesModelResponse(t *testing.T) {
	x := New(&staticClient{content: `Here you go:
{"entities": [{"name": "Acme", "entity_type": "Company", "description": "a company"}],
 "relationships": [{"source": "alice", "target": "acme", "rel_type": "works_at"}]}`}, nil)

	entities, relationships, err := x.Extract(context.Background(), types.Fragment{ID: "chunk-0", Text: "Alice works at Acme."})
	require.NoError(t, err)

	require.Len(t, entities, 1)
	assert.Equal(t, "Acme", entities[0].Name)
	assert.Equal(t, "Company", entities[0].EntityType)
	assert.Equal(t, "a company", entities[0].Description)
	assert.Equal(t, []string{"chunk-0"}, entities[0].SourceFragmentIDs)
	assert.Empty(t, entities[0].ID)

	require.Len(t, relationships, 1)
	assert.Equal(t, "works_at", relationships[0].RelType)
	// Strength defaults when the model omits it.
	assert.Equal(t, 1.0, relationships[0].Strength)
}

func TestExtractFallsBackWhenBackendUnavailable(t *testing.T) {
	x := New(nlp.NewDisabledClient(), nil)

	entities, relationships, err := x.Extract(context.Background(), types.Fragment{
		ID:   "chunk-3",
		Text: "Paris is the capital of France.",
	})
	require.NoError(t, err)
	assert.Empty(t, relationships)

	require.Len(t, entities, 2)
	assert.Equal(t, "France", entities[0].Name)
	assert.Equal(t, "Paris", entities[1].Name)
	for _, e := range entities {
		assert.Equal(t, "Concept", e.EntityType)
		assert.Equal(t, []string{"chunk-3"}, e.SourceFragmentIDs)
	}
}

func TestExtractFallsBackOnMissingKeys(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "no json at all", content: "I could not find any entities."},
		{name: "missing relationships key", content: `{"entities": []}`},
		{name: "missing entities key", content: `{"relationships": []}`},
		{name: "entity missing name", content: `{"entities": [{"entity_type": "X"}], "relationships": []}`},
		{name: "relationship missing target", content: `{"entities": [], "relationships": [{"source": "a", "rel_type": "r"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := New(&staticClient{content: tt.content}, nil)

			entities, relationships, err := x.Extract(context.Background(), types.Fragment{
				ID:   "chunk-0",
				Text: "Berlin is in Germany.",
			})
			require.NoError(t, err)
			assert.Empty(t, relationships)

			// Heuristic output, not the model's.
			require.Len(t, entities, 2)
			assert.Equal(t, "Berlin", entities[0].Name)
			assert.Equal(t, "Germany", entities[1].Name)
		})
	}
}

func TestExtractRepairsMalformedJSON(t *testing.T) {
	// Trailing comma would fail a strict parse.
	x := New(&staticClient{content: `{"entities": [{"name": "Acme", "entity_type": "Company"},], "relationships": []}`}, nil)

	entities, _, err := x.Extract(context.Background(), types.Fragment{ID: "chunk-0", Text: "irrelevant"})
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "Acme", entities[0].Name)
}

func TestCollectCapitalizedTerms(t *testing.T) {
	t.Parallel()

	terms := collectCapitalizedTerms("The CEO of Acme-Corp met Bob in New York. the end, I said.")
	assert.Equal(t, []string{"Acme-Corp", "Bob", "CEO", "New", "The", "York"}, terms)
}

func TestFallbackEntitiesCapped(t *testing.T) {
	t.Parallel()

	text := "Alpha Bravo Charlie Delta Echo Foxtrot Golf Hotel India Juliett Kilo Lima Mike November Oscar Papa Quebec Romeo Sierra"
	entities := fallbackEntities(types.Fragment{ID: "c", Text: text})
	assert.Len(t, entities, MaxFallbackEntities)
}
