package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	httpadapter "github.com/fredcamaral/deckforge/internal/adapters/primary/http"
	"github.com/fredcamaral/deckforge/internal/adapters/secondary/storage"
	"github.com/fredcamaral/deckforge/internal/domain/entities"
	"github.com/fredcamaral/deckforge/internal/domain/ports"
)

var (
	// Serve command flags
	port        int
	host        string
	storageRoot string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the text-to-deck HTTP service",
	Long: `Start the HTTP service. POST /generate accepts a multipart form with
input_text, guidance, api_key, llm_provider and template_file, and returns
the generated deck as generated_presentation.pptx.

Example:
  deckforge serve
  deckforge serve --port 9000 --storage /var/tmp/deckforge`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Defaults will be overridden by config loading
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "Port to serve on (overrides config)")
	serveCmd.Flags().StringVar(&host, "host", "", "Host to bind to (overrides config)")
	serveCmd.Flags().StringVar(&storageRoot, "storage", "", "Workspace root directory (overrides config)")
}

// validateServeConfig validates configuration after it's loaded
func validateServeConfig(config *entities.Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", config.Server.Port)
	}

	if strings.ContainsAny(config.Server.Host, " !") {
		return fmt.Errorf("invalid host: %s", config.Server.Host)
	}

	return nil
}

func serveOverrides() entities.ConfigOverrides {
	return entities.ConfigOverrides{
		Host:        host,
		Port:        port,
		StorageRoot: storageRoot,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd, serveOverrides())
	if err != nil {
		return err
	}
	if err := validateServeConfig(cfg); err != nil {
		return err
	}

	store, err := storage.NewStore(cfg.Storage.GetRoot())
	if err != nil {
		return err
	}

	application, err := newApp(cfg, store)
	if err != nil {
		return err
	}
	logger := application.logger.Named("serve")
	defer application.logger.Sync()

	janitor := storage.NewJanitor(
		store,
		cfg.Storage.GetSweepInterval(),
		cfg.Storage.GetTTL(),
		ports.NewRealTimeProvider(),
		application.logger.Named("janitor"),
	)
	janitor.Start(ctx)
	defer janitor.Stop()

	server := httpadapter.NewServer(application.deck, &cfg.Server, application.logger.Named("http"))
	if err := server.Start(ctx, cfg.Server.Port, cfg.Server.Host); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	logger.Success("Serving at http://%s:%d (workspaces in %s)", cfg.Server.Host, cfg.Server.Port, store.Root())

	<-ctx.Done()
	logger.Info("Shutting down server...")

	// The request context is already cancelled; shutdown gets its own deadline
	if err := server.Stop(context.WithoutCancel(ctx)); err != nil {
		logger.Error("Error during shutdown: %v", err)
	}
	return nil
}
