package services

import (
	"context"
	"fmt"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
	"github.com/fredcamaral/deckforge/internal/domain/ports"
)

// ConfigService resolves the effective deckforge configuration.
// Layers apply in order: defaults, global file, project file, DECKFORGE_* env, overrides.
type ConfigService struct {
	source ports.ConfigSource
	merger ports.ConfigMerger
}

// NewConfigService creates a configuration service
func NewConfigService(source ports.ConfigSource, merger ports.ConfigMerger) *ConfigService {
	return &ConfigService{
		source: source,
		merger: merger,
	}
}

// Load resolves every layer for workingDir and validates the result.
// workingDir/.env is exported first so its variables count as environment.
func (s *ConfigService) Load(ctx context.Context, workingDir string, overrides entities.ConfigOverrides) (*entities.Config, error) {
	if err := s.source.ExportEnvFile(workingDir); err != nil {
		return nil, err
	}

	global, err := s.source.Global(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	project, err := s.source.Project(ctx, workingDir)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	cfg := s.merger.Merge(s.merger.Defaults(), global, project)
	cfg = s.merger.ApplyEnv(cfg)
	cfg = s.merger.ApplyOverrides(cfg, overrides)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("final config validation: %w", err)
	}
	return cfg, nil
}

// Init writes the defaults to the global config file and returns its path.
// An existing file is kept unless overwrite is set.
func (s *ConfigService) Init(ctx context.Context, overwrite bool) (string, error) {
	return s.source.WriteDefaults(ctx, overwrite)
}
