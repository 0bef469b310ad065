package community

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/forge/pkg/graph"
	"github.com/soundprediction/forge/pkg/types"
)

func TestDetectEmptyGraph(t *testing.T) {
	d := NewDetector()
	assert.Nil(t, d.Detect(graph.New()))
}

func TestDetectZeroEdgesYieldsSingletons(t *testing.T) {
	g := graph.New()
	for i := 0; i < 5; i++ {
		g.AddEntity(types.Entity{Name: fmt.Sprintf("Node %d", i)})
	}

	communities := NewDetector().Detect(g)

	require.Len(t, communities, 5)
	for _, c := range communities {
		assert.Len(t, c, 1)
	}
}

func TestDetectFullyConnectedConverges(t *testing.T) {
	g := graph.New()
	ids := make([]string, 0, 6)
	for i := 0; i < 6; i++ {
		ids = append(ids, g.AddEntity(types.Entity{Name: fmt.Sprintf("Node %d", i)}))
	}
	for _, a := range ids {
		for _, b := range ids {
			if a != b {
				g.AddRelationship(types.Relationship{Source: a, Target: b, RelType: "related"})
			}
		}
	}

	communities := NewDetector().Detect(g)

	require.Len(t, communities, 1)
	assert.ElementsMatch(t, ids, []string(communities[0]))
}

func TestDetectTwoComponents(t *testing.T) {
	g := graph.New()
	a := g.AddEntity(types.Entity{Name: "A"})
	b := g.AddEntity(types.Entity{Name: "B"})
	c := g.AddEntity(types.Entity{Name: "C"})
	x := g.AddEntity(types.Entity{Name: "X"})
	y := g.AddEntity(types.Entity{Name: "Y"})

	g.AddRelationship(types.Relationship{Source: a, Target: b, RelType: "related"})
	g.AddRelationship(types.Relationship{Source: b, Target: c, RelType: "related"})
	g.AddRelationship(types.Relationship{Source: x, Target: y, RelType: "related"})

	communities := NewDetector().Detect(g)

	require.Len(t, communities, 2)
	assert.ElementsMatch(t, []string{a, b, c}, []string(communities[0]))
	assert.ElementsMatch(t, []string{x, y}, []string(communities[1]))
}

func TestDetectIsolatedNodeStaysSingleton(t *testing.T) {
	g := graph.New()
	a := g.AddEntity(types.Entity{Name: "A"})
	b := g.AddEntity(types.Entity{Name: "B"})
	lone := g.AddEntity(types.Entity{Name: "Lone"})
	g.AddRelationship(types.Relationship{Source: a, Target: b, RelType: "related"})

	communities := NewDetector().Detect(g)

	require.Len(t, communities, 2)
	assert.Equal(t, types.Community{lone}, communities[1])
}

func TestDetectDeterministic(t *testing.T) {
	build := func() *graph.KnowledgeGraph {
		g := graph.New()
		names := []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon"}
		for _, n := range names {
			g.AddEntity(types.Entity{Name: n})
		}
		g.AddRelationship(types.Relationship{Source: "alpha", Target: "beta", RelType: "related"})
		g.AddRelationship(types.Relationship{Source: "beta", Target: "gamma", RelType: "related"})
		g.AddRelationship(types.Relationship{Source: "delta", Target: "epsilon", RelType: "related"})
		return g
	}

	first := NewDetector().Detect(build())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, NewDetector().Detect(build()))
	}
}

func TestDetectIgnoresDanglingEdges(t *testing.T) {
	g := graph.New()
	a := g.AddEntity(types.Entity{Name: "A"})
	g.AddRelationship(types.Relationship{Source: a, Target: "ghost", RelType: "related"})

	communities := NewDetector().Detect(g)

	require.Len(t, communities, 1)
	assert.Equal(t, types.Community{a}, communities[0])
}
