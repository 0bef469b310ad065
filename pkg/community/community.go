// Package community detects topical clusters of graph entities using
// label propagation.
package community

import (
	"sort"

	"github.com/soundprediction/forge/pkg/graph"
	"github.com/soundprediction/forge/pkg/types"
)

// MaxPasses caps label propagation; most graphs converge well before this.
const MaxPasses = 20

// Detector partitions graph nodes into communities. The zero value is ready
// to use.
type Detector struct{}

// NewDetector returns a label propagation detector.
func NewDetector() *Detector { return &Detector{} }

// Detect runs label propagation over the graph:
//
//   - every node starts labeled with its own id
//   - each pass visits nodes in graph order; a node adopts the label most
//     frequent among its neighbors' current labels, ties broken by the
//     lexicographically smallest label
//   - propagation stops after a pass with no changes, or after MaxPasses
//
// Labels are updated in place during a pass, which lets small symmetric
// components settle instead of oscillating. Nodes are grouped by final
// label; each group is one community. Isolated nodes always end in their own
// singleton community. Communities are ordered by label and members keep
// node iteration order, so output is deterministic for a given graph.
func (d *Detector) Detect(g *graph.KnowledgeGraph) []types.Community {
	ids := g.NodeIDs()
	if len(ids) == 0 {
		return nil
	}

	labels := make(map[string]string, len(ids))
	for _, id := range ids {
		labels[id] = id
	}

	for pass := 0; pass < MaxPasses; pass++ {
		changed := false

		for _, id := range ids {
			current := labels[id]
			winner := dominantLabel(g, id, labels)
			if winner == "" || winner == current {
				continue
			}
			labels[id] = winner
			changed = true
		}

		if !changed {
			break
		}
	}

	grouped := make(map[string][]string)
	for _, id := range ids {
		label := labels[id]
		grouped[label] = append(grouped[label], id)
	}

	labelOrder := make([]string, 0, len(grouped))
	for label := range grouped {
		labelOrder = append(labelOrder, label)
	}
	sort.Strings(labelOrder)

	communities := make([]types.Community, 0, len(grouped))
	for _, label := range labelOrder {
		communities = append(communities, types.Community(grouped[label]))
	}
	return communities
}

// dominantLabel tallies neighbor labels and returns the most frequent one,
// preferring the lexicographically smallest on ties. Returns "" for nodes
// with no neighbors.
func dominantLabel(g *graph.KnowledgeGraph, id string, labels map[string]string) string {
	counts := make(map[string]int)
	for _, neighbor := range g.Neighbors(id) {
		counts[labels[neighbor.ID]]++
	}
	if len(counts) == 0 {
		return ""
	}

	var winner string
	best := -1
	for label, count := range counts {
		if count > best || (count == best && label < winner) {
			winner = label
			best = count
		}
	}
	return winner
}
