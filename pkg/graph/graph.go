// Package graph implements the in-memory knowledge graph: a deduplicated
// store of entities and relationships with identity resolution and merge
// semantics. The graph is owned by a single indexing or query session; it is
// not safe for concurrent writers.
package graph

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/soundprediction/forge/pkg/types"
)

// KnowledgeGraph holds entities as nodes and relationships as an ordered edge
// list. Nodes keep insertion order so that iteration, GraphML export, and
// label propagation are deterministic across runs.
type KnowledgeGraph struct {
	nodes map[string]*types.Entity
	order []string
	edges []types.Relationship
}

// New returns an empty knowledge graph.
func New() *KnowledgeGraph {
	return &KnowledgeGraph{
		nodes: make(map[string]*types.Entity),
	}
}

// AddEntity resolves entity identity by case-insensitive name match. If an
// entity with the same name already exists its id is returned and the
// incoming fields are discarded. Otherwise a new id is derived from the name
// and the entity is stored under it.
func (g *KnowledgeGraph) AddEntity(entity types.Entity) string {
	for _, id := range g.order {
		if strings.EqualFold(g.nodes[id].Name, entity.Name) {
			return id
		}
	}

	base := SlugifyName(entity.Name)
	id := base
	for i := 1; ; i++ {
		if _, taken := g.nodes[id]; !taken {
			break
		}
		id = base + "-" + strconv.Itoa(i)
	}

	entity.ID = id
	g.nodes[id] = &entity
	g.order = append(g.order, id)
	return id
}

// AddRelationship appends the relationship unless an edge with the same
// (source, target, rel_type) triple already exists. Endpoints are not
// validated; dangling edges are allowed. Returns whether the edge was added.
func (g *KnowledgeGraph) AddRelationship(rel types.Relationship) bool {
	for _, e := range g.edges {
		if e.Source == rel.Source && e.Target == rel.Target && e.RelType == rel.RelType {
			return false
		}
	}
	g.edges = append(g.edges, rel)
	return true
}

// MergeEntities folds the entity dropID into keepID: descriptions are
// concatenated, source fragment sets unioned, and every edge endpoint
// rewritten. Self-loops produced by the rewrite (or pre-existing ones) are
// removed. A merge with a missing keepID restores the dropped node and
// returns without error; merging an id into itself is a no-op.
func (g *KnowledgeGraph) MergeEntities(keepID, dropID string) {
	if keepID == dropID {
		return
	}
	dropped, ok := g.nodes[dropID]
	if !ok {
		return
	}
	g.removeNode(dropID)

	kept, ok := g.nodes[keepID]
	if !ok {
		// keepID missing: put the dropped node back and abort silently.
		g.nodes[dropID] = dropped
		g.order = append(g.order, dropID)
		return
	}

	if dropped.Description != "" {
		if kept.Description != "" {
			kept.Description += " — "
		}
		kept.Description += dropped.Description
	}
	kept.SourceFragmentIDs = unionFragmentIDs(kept.SourceFragmentIDs, dropped.SourceFragmentIDs)

	for i := range g.edges {
		if g.edges[i].Source == dropID {
			g.edges[i].Source = keepID
		}
		if g.edges[i].Target == dropID {
			g.edges[i].Target = keepID
		}
	}

	filtered := g.edges[:0]
	for _, e := range g.edges {
		if e.Source != e.Target {
			filtered = append(filtered, e)
		}
	}
	g.edges = filtered
}

// FindEntity looks an entity up by case-insensitive name.
func (g *KnowledgeGraph) FindEntity(name string) (*types.Entity, bool) {
	for _, id := range g.order {
		if strings.EqualFold(g.nodes[id].Name, name) {
			return g.nodes[id], true
		}
	}
	return nil, false
}

// Entity returns the entity stored under id.
func (g *KnowledgeGraph) Entity(id string) (*types.Entity, bool) {
	e, ok := g.nodes[id]
	return e, ok
}

// Neighbors returns the entity at the other endpoint of every edge touching
// id, regardless of edge direction. Parallel edges contribute one neighbor
// each; dangling endpoints are skipped.
func (g *KnowledgeGraph) Neighbors(id string) []*types.Entity {
	var out []*types.Entity
	for _, e := range g.edges {
		switch id {
		case e.Source:
			if n, ok := g.nodes[e.Target]; ok {
				out = append(out, n)
			}
		case e.Target:
			if n, ok := g.nodes[e.Source]; ok {
				out = append(out, n)
			}
		}
	}
	return out
}

// NodeIDs returns entity ids in insertion order.
func (g *KnowledgeGraph) NodeIDs() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Entities returns all entities in insertion order.
func (g *KnowledgeGraph) Entities() []*types.Entity {
	out := make([]*types.Entity, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns a copy of the edge list in insertion order.
func (g *KnowledgeGraph) Edges() []types.Relationship {
	out := make([]types.Relationship, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount returns the number of entities.
func (g *KnowledgeGraph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of relationships.
func (g *KnowledgeGraph) EdgeCount() int { return len(g.edges) }

// Stats summarizes graph size for prompts and API responses.
type Stats struct {
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

// Stats returns the node and edge counts.
func (g *KnowledgeGraph) Stats() Stats {
	return Stats{NodeCount: len(g.nodes), EdgeCount: len(g.edges)}
}

func (g *KnowledgeGraph) removeNode(id string) {
	delete(g.nodes, id)
	for i, existing := range g.order {
		if existing == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			return
		}
	}
}

func unionFragmentIDs(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, id := range a {
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for _, id := range b {
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// SlugifyName derives an entity id from a name: lower-cased, with every
// character outside [a-z0-9] replaced by '-'.
func SlugifyName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// graphJSON is the persisted shape: nodes keyed by id, edges as a sequence.
type graphJSON struct {
	Nodes map[string]*types.Entity `json:"nodes"`
	Edges []types.Relationship     `json:"edges"`
}

// MarshalJSON serializes the graph as {"nodes": {id: entity}, "edges": [...]}.
func (g *KnowledgeGraph) MarshalJSON() ([]byte, error) {
	doc := graphJSON{Nodes: g.nodes, Edges: g.edges}
	if doc.Nodes == nil {
		doc.Nodes = map[string]*types.Entity{}
	}
	if doc.Edges == nil {
		doc.Edges = []types.Relationship{}
	}
	return json.Marshal(doc)
}

// UnmarshalJSON restores a persisted graph. Insertion order is not part of
// the wire format, so loaded graphs iterate in lexicographic id order.
func (g *KnowledgeGraph) UnmarshalJSON(data []byte) error {
	var doc graphJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	g.nodes = doc.Nodes
	if g.nodes == nil {
		g.nodes = make(map[string]*types.Entity)
	}
	g.edges = doc.Edges
	g.order = make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		g.order = append(g.order, id)
	}
	sort.Strings(g.order)
	return nil
}
