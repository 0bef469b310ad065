package forgecmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soundprediction/forge/pkg/export"
	"github.com/soundprediction/forge/pkg/index"
)

var (
	exportIndexPath string
	exportFormat    string
	exportOutput    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a saved index for external visualization",
	Long: `Export loads a saved index and writes the knowledge graph in the
requested format. The graphml format writes a file for tools like Gephi and
yEd; the neo4j format mirrors the graph into a Neo4j database configured via
export.neo4j_* settings or NEO4J_URI/NEO4J_USER/NEO4J_PASSWORD.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportIndexPath, "index", "forge_index.json", "path to a saved index file")
	exportCmd.Flags().StringVar(&exportFormat, "format", "graphml", "export format (graphml, neo4j)")
	exportCmd.Flags().StringVar(&exportOutput, "output", "graph.graphml", "output file for graphml export")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfigAndLogger()
	if err != nil {
		return err
	}

	idx, err := index.Load(exportIndexPath)
	if err != nil {
		return fmt.Errorf("load index: %w", err)
	}

	switch exportFormat {
	case "graphml":
		if err := export.WriteGraphML(idx.Graph, exportOutput); err != nil {
			return fmt.Errorf("write graphml: %w", err)
		}
		fmt.Printf("Graph written to %s\n", exportOutput)
		return nil
	case "neo4j":
		if cfg.Export.Neo4jURI == "" {
			return fmt.Errorf("neo4j export requires export.neo4j_uri or NEO4J_URI")
		}
		sink, err := export.NewNeo4jSink(cfg.Export.Neo4jURI, cfg.Export.Neo4jUser,
			cfg.Export.Neo4jPassword, cfg.Export.Neo4jDatabase)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		defer sink.Close(ctx)

		if err := sink.Export(ctx, idx.Graph); err != nil {
			return err
		}
		fmt.Printf("Graph exported to %s\n", cfg.Export.Neo4jURI)
		return nil
	default:
		return fmt.Errorf("unknown export format: %s", exportFormat)
	}
}
