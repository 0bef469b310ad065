package forgecmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index <input-dir> <output-index>",
	Short: "Build a knowledge graph index from a directory of documents",
	Long: `Index walks the input directory, chunks every supported document
(txt, md), extracts entities and relationships into a knowledge graph, and
writes the graph together with its fragments to the output index file as JSON.`,
	Args: cobra.ExactArgs(2),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	inputDir, outputPath := args[0], args[1]

	info, err := os.Stat(inputDir)
	if err != nil {
		return fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input %s is not a directory", inputDir)
	}

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
	if err := client.IndexDirectory(ctx, inputDir); err != nil {
		return fmt.Errorf("index directory: %w", err)
	}

	if err := client.SaveIndex(outputPath); err != nil {
		return fmt.Errorf("save index: %w", err)
	}

	stats := client.Stats()
	fmt.Printf("Indexed %d entities and %d relationships from %s\n",
		stats.NodeCount, stats.EdgeCount, inputDir)
	fmt.Printf("Index written to %s\n", outputPath)
	return nil
}
