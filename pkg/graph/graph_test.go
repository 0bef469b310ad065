package graph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/forge/pkg/types"
)

func TestSlugifyName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{name: "simple", in: "Paris", expected: "paris"},
		{name: "spaces become dashes", in: "Acme Corp", expected: "acme-corp"},
		{name: "punctuation", in: "C.E.O.", expected: "c-e-o-"},
		{name: "digits kept", in: "Area 51", expected: "area-51"},
		{name: "unicode replaced", in: "Café", expected: "caf-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SlugifyName(tt.in))
		})
	}
}

func TestAddEntityDeduplicatesByName(t *testing.T) {
	g := New()

	first := g.AddEntity(types.Entity{Name: "Acme", SourceFragmentIDs: []string{"c1"}})
	second := g.AddEntity(types.Entity{Name: "ACME", Description: "discarded"})

	assert.Equal(t, "acme", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, g.NodeCount())

	// Fields of the duplicate insert are discarded, not merged.
	e, ok := g.Entity("acme")
	require.True(t, ok)
	assert.Empty(t, e.Description)
	assert.Equal(t, []string{"c1"}, e.SourceFragmentIDs)
}

func TestAddEntityIDCollision(t *testing.T) {
	g := New()

	// Different names, identical slugs.
	a := g.AddEntity(types.Entity{Name: "Acme Corp"})
	b := g.AddEntity(types.Entity{Name: "Acme-Corp"})
	c := g.AddEntity(types.Entity{Name: "Acme.Corp"})

	assert.Equal(t, "acme-corp", a)
	assert.Equal(t, "acme-corp-1", b)
	assert.Equal(t, "acme-corp-2", c)
}

func TestAddRelationshipDeduplicatesTriple(t *testing.T) {
	g := New()

	added := g.AddRelationship(types.Relationship{Source: "a", Target: "b", RelType: "knows"})
	dup := g.AddRelationship(types.Relationship{Source: "a", Target: "b", RelType: "knows", Strength: 0.5})
	other := g.AddRelationship(types.Relationship{Source: "a", Target: "b", RelType: "likes"})

	assert.True(t, added)
	assert.False(t, dup)
	assert.True(t, other)
	assert.Equal(t, 2, g.EdgeCount())
}

func TestMergeEntities(t *testing.T) {
	g := New()
	g.AddEntity(types.Entity{Name: "Acme", SourceFragmentIDs: []string{"c1"}})
	g.AddEntity(types.Entity{Name: "Acme Corp", Description: "Big company", SourceFragmentIDs: []string{"c2"}})
	g.AddEntity(types.Entity{Name: "Bob"})
	g.AddRelationship(types.Relationship{Source: "bob", Target: "acme-corp", RelType: "works_at"})

	g.MergeEntities("acme", "acme-corp")

	kept, ok := g.Entity("acme")
	require.True(t, ok)
	assert.Equal(t, "Big company", kept.Description)
	assert.ElementsMatch(t, []string{"c1", "c2"}, kept.SourceFragmentIDs)

	_, gone := g.Entity("acme-corp")
	assert.False(t, gone)

	edges := g.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, "acme", edges[0].Target)
}

func TestMergeEntitiesDescriptionSeparator(t *testing.T) {
	g := New()
	g.AddEntity(types.Entity{Name: "A", Description: "first"})
	g.AddEntity(types.Entity{Name: "B", Description: "second"})

	g.MergeEntities("a", "b")

	e, _ := g.Entity("a")
	assert.Equal(t, "first — second", e.Description)
}

func TestMergeEntitiesIdempotent(t *testing.T) {
	g := New()
	g.AddEntity(types.Entity{Name: "A"})
	g.AddEntity(types.Entity{Name: "B"})

	g.MergeEntities("a", "b")
	// Second merge is a no-op: "b" no longer exists.
	g.MergeEntities("a", "b")

	assert.Equal(t, 1, g.NodeCount())
}

func TestMergeEntitiesMissingKeepRestoresDropped(t *testing.T) {
	g := New()
	g.AddEntity(types.Entity{Name: "B", Description: "kept intact"})

	g.MergeEntities("nope", "b")

	e, ok := g.Entity("b")
	require.True(t, ok)
	assert.Equal(t, "kept intact", e.Description)
}

func TestMergeEntitiesSameID(t *testing.T) {
	g := New()
	g.AddEntity(types.Entity{Name: "A"})
	g.MergeEntities("a", "a")
	assert.Equal(t, 1, g.NodeCount())
}

func TestMergeEntitiesRemovesSelfLoops(t *testing.T) {
	g := New()
	g.AddEntity(types.Entity{Name: "A"})
	g.AddEntity(types.Entity{Name: "B"})
	g.AddRelationship(types.Relationship{Source: "a", Target: "b", RelType: "related"})
	// Pre-existing self-loop on an unrelated node is removed too.
	g.AddEntity(types.Entity{Name: "C"})
	g.AddRelationship(types.Relationship{Source: "c", Target: "c", RelType: "self"})

	g.MergeEntities("a", "b")

	for _, e := range g.Edges() {
		assert.NotEqual(t, e.Source, e.Target)
	}
	assert.Equal(t, 0, g.EdgeCount())
}

func TestFindEntityCaseInsensitive(t *testing.T) {
	g := New()
	g.AddEntity(types.Entity{Name: "Paris"})

	e, ok := g.FindEntity("pArIs")
	require.True(t, ok)
	assert.Equal(t, "Paris", e.Name)

	_, ok = g.FindEntity("London")
	assert.False(t, ok)
}

func TestNeighborsSkipsDanglingEndpoints(t *testing.T) {
	g := New()
	g.AddEntity(types.Entity{Name: "A"})
	g.AddEntity(types.Entity{Name: "B"})
	g.AddRelationship(types.Relationship{Source: "a", Target: "b", RelType: "related"})
	g.AddRelationship(types.Relationship{Source: "a", Target: "ghost", RelType: "related"})
	g.AddRelationship(types.Relationship{Source: "ghost2", Target: "a", RelType: "related"})

	neighbors := g.Neighbors("a")
	require.Len(t, neighbors, 1)
	assert.Equal(t, "B", neighbors[0].Name)
}

func TestNeighborsDirectionAgnostic(t *testing.T) {
	g := New()
	g.AddEntity(types.Entity{Name: "A"})
	g.AddEntity(types.Entity{Name: "B"})
	g.AddRelationship(types.Relationship{Source: "a", Target: "b", RelType: "related"})

	assert.Len(t, g.Neighbors("a"), 1)
	assert.Len(t, g.Neighbors("b"), 1)
}

func TestGraphJSONRoundTrip(t *testing.T) {
	g := New()
	g.AddEntity(types.Entity{Name: "Paris", EntityType: "City", Description: "capital", SourceFragmentIDs: []string{"c1"}})
	g.AddEntity(types.Entity{Name: "France", EntityType: "Country", SourceFragmentIDs: []string{"c1"}})
	g.AddRelationship(types.Relationship{Source: "paris", Target: "france", RelType: "capital_of", Strength: 1.0})

	data, err := json.Marshal(g)
	require.NoError(t, err)

	restored := New()
	require.NoError(t, json.Unmarshal(data, restored))

	assert.Equal(t, g.NodeCount(), restored.NodeCount())
	assert.Equal(t, g.Edges(), restored.Edges())
	for _, id := range g.NodeIDs() {
		want, _ := g.Entity(id)
		got, ok := restored.Entity(id)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}
