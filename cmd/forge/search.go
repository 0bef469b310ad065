package forgecmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	searchIndexPath string
	searchK         int
)

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Find the fragments most similar to a query",
	Long: `Search loads a saved index, embeds the query text, and prints the k
fragments whose vectors are closest to it. Works offline with the default
histogram embedder.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchIndexPath, "index", "forge_index.json", "path to a saved index file")
	searchCmd.Flags().IntVar(&searchK, "k", 5, "number of results to return")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return err
	}

	client, err := initForge(cfg, log)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx := cmd.Context()
	if err := client.LoadIndex(ctx, searchIndexPath); err != nil {
		return fmt.Errorf("load index: %w", err)
	}

	results, err := client.Search(ctx, args[0], searchK)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No matching fragments.")
		return nil
	}

	for i, r := range results {
		fmt.Printf("%d. %s (score %.4f)\n", i+1, r.ID, r.Score)
		if fragment, ok := client.Fragment(r.ID); ok {
			fmt.Printf("   source: %s\n   %s\n", fragment.SourcePath, fragment.Text)
		}
	}
	return nil
}
