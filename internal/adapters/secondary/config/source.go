package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
	"github.com/fredcamaral/deckforge/internal/domain/ports"
)

const (
	projectFileName = "deckforge.toml"
	envFileName     = ".env"
)

// TOMLSource reads the global and per-project deckforge.toml layers
type TOMLSource struct {
	globalPath string
}

// NewTOMLSource creates a source whose global layer lives at globalPath.
// An empty path selects ~/.config/deckforge/config.toml.
func NewTOMLSource(globalPath string) *TOMLSource {
	if globalPath == "" {
		globalPath = defaultGlobalPath()
	}
	return &TOMLSource{globalPath: globalPath}
}

func defaultGlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "deckforge", "config.toml")
}

// GlobalPath returns the global config file location
func (s *TOMLSource) GlobalPath() string {
	return s.globalPath
}

// Global decodes the global file, writing the defaults there on first use
func (s *TOMLSource) Global(ctx context.Context) (*entities.Config, error) {
	if _, err := os.Stat(s.globalPath); errors.Is(err, fs.ErrNotExist) {
		if _, err := s.WriteDefaults(ctx, false); err != nil {
			return nil, err
		}
	}
	return decodeFile(s.globalPath)
}

// Project decodes deckforge.toml in dir; a missing file yields nil
func (s *TOMLSource) Project(_ context.Context, dir string) (*entities.Config, error) {
	path := filepath.Join(dir, projectFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return decodeFile(path)
}

// ExportEnvFile loads dir/.env. Variables already set keep their values.
func (s *TOMLSource) ExportEnvFile(dir string) error {
	path := filepath.Join(dir, envFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// WriteDefaults encodes DefaultConfig to the global path
func (s *TOMLSource) WriteDefaults(_ context.Context, overwrite bool) (string, error) {
	if _, err := os.Stat(s.globalPath); err == nil && !overwrite {
		return s.globalPath, fmt.Errorf("%w: %s", ports.ErrConfigExists, s.globalPath)
	}

	if err := os.MkdirAll(filepath.Dir(s.globalPath), 0o750); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.Indent = "  "
	if err := encoder.Encode(DefaultConfig()); err != nil {
		return "", fmt.Errorf("encoding defaults: %w", err)
	}

	if err := os.WriteFile(s.globalPath, buf.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("writing %s: %w", s.globalPath, err)
	}
	return s.globalPath, nil
}

// decodeFile parses and validates one layer; unknown keys are an error
func decodeFile(path string) (*entities.Config, error) {
	var cfg entities.Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in %s: %v", path, undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %s: %w", path, err)
	}
	return &cfg, nil
}

var _ ports.ConfigSource = (*TOMLSource)(nil)
