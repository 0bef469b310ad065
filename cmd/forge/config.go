package forgecmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soundprediction/forge/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage forge configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Long: `Init writes the default configuration as YAML. Without an argument it
writes $HOME/.forge.yaml, the file the other commands look for.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("find home directory: %w", err)
		}
		path = home + "/.forge.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if err := config.WriteDefault(path); err != nil {
		return err
	}
	fmt.Printf("Default config written to %s\n", path)
	return nil
}
