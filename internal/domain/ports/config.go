package ports

import (
	"context"
	"errors"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
)

// ErrConfigExists is returned when defaults would replace an existing config file
var ErrConfigExists = errors.New("config file already exists")

// ConfigSource reads the file-backed configuration layers
type ConfigSource interface {
	// Global returns the user-wide layer, seeding the file with defaults when it is missing
	Global(ctx context.Context) (*entities.Config, error)

	// Project returns the deckforge.toml layer in dir, or nil when dir has none
	Project(ctx context.Context, dir string) (*entities.Config, error)

	// ExportEnvFile loads dir/.env into the environment without replacing set variables
	ExportEnvFile(dir string) error

	// WriteDefaults writes the built-in defaults to the global file and returns its path
	WriteDefaults(ctx context.Context, overwrite bool) (string, error)
}

// ConfigMerger folds configuration layers together
type ConfigMerger interface {
	// Defaults returns the built-in configuration
	Defaults() *entities.Config

	// Merge overlays configs in order; nil layers are skipped
	Merge(configs ...*entities.Config) *entities.Config

	// ApplyEnv applies DECKFORGE_* environment variables
	ApplyEnv(config *entities.Config) *entities.Config

	// ApplyOverrides applies command-line settings
	ApplyOverrides(config *entities.Config, overrides entities.ConfigOverrides) *entities.Config
}
