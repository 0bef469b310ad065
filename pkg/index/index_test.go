package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/forge/pkg/graph"
	"github.com/soundprediction/forge/pkg/types"
)

func buildIndex(t *testing.T) *ForgeIndex {
	t.Helper()
	g := graph.New()
	g.AddEntity(types.Entity{Name: "Paris", EntityType: "City", Description: "capital of France", SourceFragmentIDs: []string{"chunk-0"}})
	g.AddEntity(types.Entity{Name: "France", EntityType: "Country", SourceFragmentIDs: []string{"chunk-0"}})
	g.AddRelationship(types.Relationship{Source: "paris", Target: "france", RelType: "capital_of", Strength: 1.0})

	return New(g, []types.Fragment{
		{ID: "chunk-0", Text: "Paris is the capital of France.", TokenEstimate: 6, SourcePath: "doc.txt"},
	})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	original := buildIndex(t)

	require.NoError(t, original.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, original.Fragments, loaded.Fragments)
	assert.Equal(t, original.Graph.NodeCount(), loaded.Graph.NodeCount())
	assert.Equal(t, original.Graph.Edges(), loaded.Graph.Edges())
	for _, id := range original.Graph.NodeIDs() {
		want, _ := original.Graph.Entity(id)
		got, ok := loaded.Graph.Entity(id)
		require.True(t, ok, id)
		assert.Equal(t, want, got)
	}
}

func TestSaveDoesNotLeaveTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.json")

	require.NoError(t, buildIndex(t).Save(path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "index.json", entries[0].Name())
}

func TestSaveOverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, buildIndex(t).Save(path))

	empty := New(graph.New(), nil)
	require.NoError(t, empty.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, loaded.Graph.NodeCount())
	assert.Empty(t, loaded.Fragments)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{truncated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
