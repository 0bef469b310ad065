// Package export serializes knowledge graphs for external tools.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/soundprediction/forge/pkg/graph"
)

// GraphML renders the graph as a GraphML document: all nodes first, then all
// edges, both in insertion order. Node labels carry entity names, edges carry
// their relationship type.
func GraphML(g *graph.KnowledgeGraph) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<graphml xmlns=\"http://graphml.graphdrawing.org/xmlns\">\n")
	b.WriteString("  <graph id=\"G\" edgedefault=\"undirected\">\n")

	for _, e := range g.Entities() {
		fmt.Fprintf(&b, "    <node id=\"%s\"><data key=\"label\">%s</data></node>\n",
			xmlEscape(e.ID), xmlEscape(e.Name))
	}
	for i, r := range g.Edges() {
		fmt.Fprintf(&b, "    <edge id=\"e%d\" source=\"%s\" target=\"%s\"><data key=\"type\">%s</data></edge>\n",
			i, xmlEscape(r.Source), xmlEscape(r.Target), xmlEscape(r.RelType))
	}

	b.WriteString("  </graph>\n</graphml>\n")
	return b.String()
}

// WriteGraphML writes the GraphML rendering of g to path.
func WriteGraphML(g *graph.KnowledgeGraph, path string) error {
	if err := os.WriteFile(path, []byte(GraphML(g)), 0o644); err != nil {
		return fmt.Errorf("write graphml: %w", err)
	}
	return nil
}

// xmlEscape escapes the three characters that break GraphML markup. Ids and
// names here never carry quotes into attribute positions that matter, so the
// minimal set is enough.
func xmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
