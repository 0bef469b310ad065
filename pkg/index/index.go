// Package index persists the output of an indexing run: the knowledge graph
// together with the fragments it was built from.
package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/soundprediction/forge/pkg/graph"
	"github.com/soundprediction/forge/pkg/types"
)

// ForgeIndex is the persisted artifact of an indexing run. Fragments are kept
// alongside the graph so queries can rebuild the vector store without the
// source documents.
type ForgeIndex struct {
	Graph     *graph.KnowledgeGraph `json:"graph"`
	Fragments []types.Fragment      `json:"fragments"`
}

// New creates an index over the given graph and fragments.
func New(g *graph.KnowledgeGraph, fragments []types.Fragment) *ForgeIndex {
	if g == nil {
		g = graph.New()
	}
	return &ForgeIndex{Graph: g, Fragments: fragments}
}

// Save writes the index as pretty-printed JSON. The file is written to a
// temporary sibling and renamed into place, so a crash mid-write never leaves
// a truncated index behind.
func (idx *ForgeIndex) Save(path string) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp index file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close index file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace index file: %w", err)
	}
	return nil
}

// Load reads an index saved by Save.
func Load(path string) (*ForgeIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	idx := &ForgeIndex{Graph: graph.New()}
	if err := json.Unmarshal(data, idx); err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}
	if idx.Graph == nil {
		idx.Graph = graph.New()
	}
	return idx, nil
}
