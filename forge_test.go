package forge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/forge/pkg/types"
)

func writeDoc(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestIndexFileBuildsGraphAndFragments(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "doc.txt", "Paris is the capital of France.")

	c := NewClient(nil)
	defer c.Close()

	require.NoError(t, c.IndexFile(context.Background(), path))

	// Heuristic extraction finds the capitalized terms.
	stats := c.Stats()
	assert.Equal(t, 2, stats.NodeCount)
	assert.Equal(t, 0, stats.EdgeCount)

	fragments := c.Fragments()
	require.Len(t, fragments, 1)
	assert.Equal(t, "chunk-0", fragments[0].ID)
	assert.Equal(t, path, fragments[0].SourcePath)

	_, ok := c.Graph().FindEntity("paris")
	assert.True(t, ok)
}

func TestIndexDirectorySkipsUnsupportedAndBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.txt", "Alpha document about Paris.")
	writeDoc(t, dir, "b.md", "Beta document about France.")
	writeDoc(t, dir, "ignored.pdf", "%PDF")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	writeDoc(t, filepath.Join(dir, "nested"), "c.markdown", "Gamma document about Berlin.")

	c := NewClient(nil)
	defer c.Close()

	require.NoError(t, c.IndexDirectory(context.Background(), dir))

	assert.Len(t, c.Fragments(), 3)
	_, ok := c.Graph().FindEntity("Berlin")
	assert.True(t, ok)
}

func TestSearchFindsIndexedFragment(t *testing.T) {
	ctx := context.Background()
	c := NewClient(nil)
	defer c.Close()

	require.NoError(t, c.IndexText(ctx, "Paris is the capital of France.", "geo.txt"))
	require.NoError(t, c.IndexText(ctx, "Databases store rows in tables.", "db.txt"))

	results, err := c.Search(ctx, "Paris is the capital of France.", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "chunk-0", results[0].ID)

	fragment, ok := c.Fragment(results[0].ID)
	require.True(t, ok)
	assert.Contains(t, fragment.Text, "Paris")
}

func TestQueryWithoutBackendSurfacesError(t *testing.T) {
	c := NewClient(nil)
	defer c.Close()

	_, err := c.Query(context.Background(), "anything")
	assert.ErrorIs(t, err, types.ErrGenerationUnavailable)
}

func TestSaveAndLoadIndexRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "index.json")

	c := NewClient(nil)
	require.NoError(t, c.IndexText(ctx, "Paris is the capital of France.", "geo.txt"))
	require.NoError(t, c.SaveIndex(indexPath))
	require.NoError(t, c.Close())

	restored := NewClient(nil)
	defer restored.Close()
	require.NoError(t, restored.LoadIndex(ctx, indexPath))

	assert.Equal(t, 2, restored.Stats().NodeCount)
	assert.Len(t, restored.Fragments(), 1)

	// The vector store is rebuilt from loaded fragments.
	results, err := restored.Search(ctx, "Paris is the capital of France.", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}

func TestDetectCommunities(t *testing.T) {
	c := NewClient(nil)
	defer c.Close()

	c.Graph().AddEntity(types.Entity{Name: "A"})
	c.Graph().AddEntity(types.Entity{Name: "B"})
	c.Graph().AddRelationship(types.Relationship{Source: "a", Target: "b", RelType: "related"})
	c.Graph().AddEntity(types.Entity{Name: "Lone"})

	communities := c.DetectCommunities()
	assert.Len(t, communities, 2)
}

func TestSummarizeCommunityWithoutBackend(t *testing.T) {
	c := NewClient(nil)
	defer c.Close()

	c.Graph().AddEntity(types.Entity{Name: "A"})
	_, err := c.SummarizeCommunity(context.Background(), types.Community{"a"})
	assert.ErrorIs(t, err, types.ErrGenerationUnavailable)
}
