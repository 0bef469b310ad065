// Package handlers implements the HTTP endpoints of the forge server.
package handlers

import (
	"github.com/soundprediction/forge"
	"github.com/soundprediction/forge/pkg/graph"
)

// Service is what the handlers need from a forge session.
type Service interface {
	forge.Forge

	// Graph exposes the knowledge graph for stats and export.
	Graph() *graph.KnowledgeGraph
}

var _ Service = (*forge.Client)(nil)
