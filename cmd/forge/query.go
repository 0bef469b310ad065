package forgecmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var queryIndexPath string

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Answer a question over a saved index",
	Long: `Query loads a saved index and asks the configured generation backend
to answer the question using the knowledge graph as context. Requires an nlp
provider other than "disabled".`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryIndexPath, "index", "forge_index.json", "path to a saved index file")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
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
	if err := client.LoadIndex(ctx, queryIndexPath); err != nil {
		return fmt.Errorf("load index: %w", err)
	}

	answer, err := client.Query(ctx, args[0])
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}

	fmt.Println(answer)
	return nil
}
