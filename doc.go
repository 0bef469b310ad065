// Package forge is an offline GraphRAG engine: it chunks documents into
// fragments, extracts entities and relationships into a deduplicated
// knowledge graph, detects communities, and serves queries and vector
// similarity search over the result.
//
// The Client type ties the pipeline together. Every stage works without a
// network: extraction falls back to a deterministic heuristic when no
// generation backend is configured, and the default embedder is a syntactic
// byte histogram.
//
//	client := forge.NewClient(nil)
//	defer client.Close()
//
//	if err := client.IndexDirectory(ctx, "./docs"); err != nil { ... }
//	if err := client.SaveIndex("index.json"); err != nil { ... }
//
//	results, err := client.Search(ctx, "capital of France", 5)
//
// Individual stages live in pkg/ subpackages and can be used on their own.
package forge
