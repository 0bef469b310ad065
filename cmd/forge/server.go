package forgecmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soundprediction/forge/pkg/config"
	"github.com/soundprediction/forge/pkg/server"
)

var serverIndexPath string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Serve indexing, query, and search over HTTP",
	Long: `Server starts an HTTP API over a forge session. Pass --index to
preload a saved index; otherwise the session starts empty and documents can be
added through POST /api/v1/index.`,
	RunE: runServer,
}

func init() {
	serverCmd.Flags().StringVar(&serverIndexPath, "index", "", "saved index file to preload (optional)")
	rootCmd.AddCommand(serverCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if err := validateServerConfig(cfg); err != nil {
		return err
	}

	client, err := initForge(cfg, log)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if serverIndexPath != "" {
		if err := client.LoadIndex(ctx, serverIndexPath); err != nil {
			return fmt.Errorf("load index: %w", err)
		}
		stats := client.Stats()
		log.Info("preloaded index",
			"path", serverIndexPath,
			"node_count", stats.NodeCount,
			"edge_count", stats.EdgeCount,
		)
	}

	srv := server.New(cfg, client, log)
	srv.Setup()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	fmt.Fprintln(os.Stderr, "Server stopped.")
	return nil
}

func validateServerConfig(cfg *config.Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	return nil
}
