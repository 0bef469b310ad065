package export

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/soundprediction/forge/pkg/graph"
)

// Neo4jSink mirrors a knowledge graph into a Neo4j database for external
// visualization. Entities become (:Entity) nodes keyed by id, relationships
// become [:RELATED] edges keyed by rel_type, both via MERGE so repeated
// exports stay idempotent.
type Neo4jSink struct {
	client   neo4j.DriverWithContext
	database string
}

// NewNeo4jSink connects to a bolt endpoint.
func NewNeo4jSink(uri, username, password, database string) (*Neo4jSink, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if database == "" {
		database = "neo4j"
	}
	return &Neo4jSink{client: driver, database: database}, nil
}

// Export writes every node and edge of g to the database.
func (s *Neo4jSink) Export(ctx context.Context, g *graph.KnowledgeGraph) error {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, e := range g.Entities() {
			query := `
				MERGE (n:Entity {id: $id})
				SET n.name = $name, n.entity_type = $entity_type, n.description = $description
			`
			if _, err := tx.Run(ctx, query, map[string]any{
				"id":          e.ID,
				"name":        e.Name,
				"entity_type": e.EntityType,
				"description": e.Description,
			}); err != nil {
				return nil, err
			}
		}

		for _, r := range g.Edges() {
			query := `
				MERGE (a:Entity {id: $source})
				MERGE (b:Entity {id: $target})
				MERGE (a)-[rel:RELATED {rel_type: $rel_type}]->(b)
				SET rel.description = $description, rel.strength = $strength
			`
			if _, err := tx.Run(ctx, query, map[string]any{
				"source":      r.Source,
				"target":      r.Target,
				"rel_type":    r.RelType,
				"description": r.Description,
				"strength":    r.Strength,
			}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("export graph to neo4j: %w", err)
	}
	return nil
}

// Close shuts down the underlying driver.
func (s *Neo4jSink) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}
