package forgecmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soundprediction/forge/pkg/community"
	"github.com/soundprediction/forge/pkg/index"
)

var statsIndexPath string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print statistics for a saved index",
	Long: `Stats loads a saved index and prints the number of entities,
relationships, fragments, and detected communities.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsIndexPath, "index", "forge_index.json", "path to a saved index file")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	idx, err := index.Load(statsIndexPath)
	if err != nil {
		return fmt.Errorf("load index: %w", err)
	}

	stats := idx.Graph.Stats()
	communities := community.NewDetector().Detect(idx.Graph)

	fmt.Printf("Entities:      %d\n", stats.NodeCount)
	fmt.Printf("Relationships: %d\n", stats.EdgeCount)
	fmt.Printf("Fragments:     %d\n", len(idx.Fragments))
	fmt.Printf("Communities:   %d\n", len(communities))
	for i, c := range communities {
		fmt.Printf("  community %d: %d members\n", i, len(c))
	}
	return nil
}
