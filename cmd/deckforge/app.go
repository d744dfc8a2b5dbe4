package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/deckforge/internal/adapters/secondary/config"
	"github.com/fredcamaral/deckforge/internal/adapters/secondary/llm"
	"github.com/fredcamaral/deckforge/internal/adapters/secondary/logging"
	"github.com/fredcamaral/deckforge/internal/adapters/secondary/pptx"
	"github.com/fredcamaral/deckforge/internal/domain/entities"
	"github.com/fredcamaral/deckforge/internal/domain/ports"
	"github.com/fredcamaral/deckforge/internal/domain/services"
)

const apiKeyEnv = "DECKFORGE_API_KEY"

// app holds the wired pipeline shared by the commands
type app struct {
	config    *entities.Config
	logger    *logging.Logger
	assembler *pptx.Assembler
	deck      *services.DeckService
}

// loadConfig resolves configuration with precedence: flags > env (.env included) > project > global > defaults
func loadConfig(cmd *cobra.Command, overrides entities.ConfigOverrides) (*entities.Config, error) {
	workingDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	overrides.Verbose, _ = cmd.Flags().GetBool("verbose")
	overrides.JSONLogs, _ = cmd.Flags().GetBool("log-json")

	cfg, err := configService(cmd).Load(cmd.Context(), workingDir, overrides)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

// configService wires the TOML source named by --config
func configService(cmd *cobra.Command) *services.ConfigService {
	configPath, _ := cmd.Flags().GetString("config")
	return services.NewConfigService(config.NewTOMLSource(configPath), config.NewConfigMerger())
}

// newApp wires the outline generator and assembler.
// store may be nil for commands that never create workspaces.
func newApp(cfg *entities.Config, store ports.WorkspaceStore) (*app, error) {
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	factory := llm.NewFactory(cfg.LLM, logger.Named("llm"))
	generator := services.NewOutlineService(factory, cfg.LLM, cfg.Generation, logger.Named("outline"))
	assembler := pptx.NewAssembler(cfg.Generation.GetDefaultDeckTitle(), logger.Named("pptx"))
	deck := services.NewDeckService(generator, assembler, store, logger.Named("deck"), cfg.Storage.KeepOutputs)

	return &app{
		config:    cfg,
		logger:    logger,
		assembler: assembler,
		deck:      deck,
	}, nil
}

// credentialFrom reads the API key from the flag or the environment
func credentialFrom(cmd *cobra.Command) entities.Credential {
	key, _ := cmd.Flags().GetString("api-key")
	if strings.TrimSpace(key) == "" {
		key = os.Getenv(apiKeyEnv)
	}
	return entities.NewCredential(key)
}

// readInput reads the source text from a file, or stdin for "-"
func readInput(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path) // #nosec G304 - path comes from the command line
	}
	if err != nil {
		return "", fmt.Errorf("reading input text: %w", err)
	}
	return string(data), nil
}

// addOutlineRequestFlags registers the flags shared by commands that call the model
func addOutlineRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("guidance", "g", "", "Guidance for the outline, e.g. \"investor pitch\"")
	cmd.Flags().StringP("provider", "p", "", "Model provider: openai or gemini (default from config)")
	cmd.Flags().String("api-key", "", "Model API key (default: $"+apiKeyEnv+")")
}

// outlineRequest builds a request from flags and text
func outlineRequest(cmd *cobra.Command, text string) entities.OutlineRequest {
	guidance, _ := cmd.Flags().GetString("guidance")
	provider, _ := cmd.Flags().GetString("provider")
	return entities.OutlineRequest{
		Text:       text,
		Guidance:   guidance,
		Provider:   provider,
		Credential: credentialFrom(cmd),
	}
}
