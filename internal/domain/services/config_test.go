package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/deckforge/internal/adapters/secondary/config"
	"github.com/fredcamaral/deckforge/internal/domain/entities"
	"github.com/fredcamaral/deckforge/internal/domain/ports"
)

// layeredEnv lists the variables these tests set; each is cleared per test
var layeredEnv = []string{
	"DECKFORGE_PORT",
	"DECKFORGE_LLM_TIMEOUT",
	"DECKFORGE_STORAGE_TTL_MINUTES",
	"DECKFORGE_KEEP_OUTPUTS",
	"DECKFORGE_LOG_JSON",
}

type configFixture struct {
	service    *ConfigService
	globalPath string
	projectDir string
}

func newConfigFixture(t *testing.T) *configFixture {
	t.Helper()
	for _, key := range layeredEnv {
		t.Setenv(key, "")
	}

	root := t.TempDir()
	f := &configFixture{
		globalPath: filepath.Join(root, "home", "config.toml"),
		projectDir: filepath.Join(root, "project"),
	}
	require.NoError(t, os.MkdirAll(f.projectDir, 0o750))
	f.service = NewConfigService(config.NewTOMLSource(f.globalPath), config.NewConfigMerger())
	return f
}

func (f *configFixture) writeGlobal(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(f.globalPath), 0o750))
	require.NoError(t, os.WriteFile(f.globalPath, []byte(content), 0o600))
}

func (f *configFixture) writeProject(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.projectDir, name), []byte(content), 0o600))
}

func (f *configFixture) load(t *testing.T, overrides entities.ConfigOverrides) *entities.Config {
	t.Helper()
	cfg, err := f.service.Load(context.Background(), f.projectDir, overrides)
	require.NoError(t, err)
	return cfg
}

func TestConfigService_Load_Precedence(t *testing.T) {
	t.Run("defaults when no file exists", func(t *testing.T) {
		f := newConfigFixture(t)

		cfg := f.load(t, entities.ConfigOverrides{})
		assert.Equal(t, 60, cfg.LLM.Timeout)
		assert.Equal(t, 60, cfg.Storage.TTLMinutes)
		assert.FileExists(t, f.globalPath)
	})

	t.Run("project file beats global file key by key", func(t *testing.T) {
		f := newConfigFixture(t)
		f.writeGlobal(t, "[llm]\ntimeout = 20\n\n[storage]\nttl_minutes = 30\n")
		f.writeProject(t, "deckforge.toml", "[llm]\ntimeout = 40\n")

		cfg := f.load(t, entities.ConfigOverrides{})
		assert.Equal(t, 40, cfg.LLM.Timeout)
		assert.Equal(t, 30, cfg.Storage.TTLMinutes)
		assert.Equal(t, 1000, cfg.LLM.MaxTokens)
	})

	t.Run("environment beats both files", func(t *testing.T) {
		f := newConfigFixture(t)
		f.writeGlobal(t, "[llm]\ntimeout = 20\n\n[storage]\nttl_minutes = 30\n")
		f.writeProject(t, "deckforge.toml", "[llm]\ntimeout = 40\n")
		t.Setenv("DECKFORGE_LLM_TIMEOUT", "50")
		t.Setenv("DECKFORGE_STORAGE_TTL_MINUTES", "45")

		cfg := f.load(t, entities.ConfigOverrides{})
		assert.Equal(t, 50, cfg.LLM.Timeout)
		assert.Equal(t, 45, cfg.Storage.TTLMinutes)
	})

	t.Run("overrides beat environment", func(t *testing.T) {
		f := newConfigFixture(t)
		f.writeProject(t, "deckforge.toml", "[server]\nport = 8100\n")
		t.Setenv("DECKFORGE_PORT", "8200")

		assert.Equal(t, 8200, f.load(t, entities.ConfigOverrides{}).Server.Port)
		assert.Equal(t, 8300, f.load(t, entities.ConfigOverrides{Port: 8300}).Server.Port)
	})

	t.Run("unparsable environment value keeps file value", func(t *testing.T) {
		f := newConfigFixture(t)
		f.writeGlobal(t, "[llm]\ntimeout = 20\n")
		t.Setenv("DECKFORGE_LLM_TIMEOUT", "soon")

		assert.Equal(t, 20, f.load(t, entities.ConfigOverrides{}).LLM.Timeout)
	})
}

func TestConfigService_Load_Booleans(t *testing.T) {
	t.Run("a later file cannot switch a boolean off", func(t *testing.T) {
		f := newConfigFixture(t)
		f.writeGlobal(t, "[storage]\nkeep_outputs = true\n")
		f.writeProject(t, "deckforge.toml", "[storage]\nkeep_outputs = false\n\n[logging]\njson_format = true\n")

		cfg := f.load(t, entities.ConfigOverrides{})
		assert.True(t, cfg.Storage.KeepOutputs)
		assert.True(t, cfg.Logging.JSONFormat)
	})

	t.Run("environment sets booleans explicitly", func(t *testing.T) {
		f := newConfigFixture(t)
		f.writeGlobal(t, "[storage]\nkeep_outputs = true\n")
		t.Setenv("DECKFORGE_KEEP_OUTPUTS", "false")

		assert.False(t, f.load(t, entities.ConfigOverrides{}).Storage.KeepOutputs)
	})

	t.Run("overrides only switch on", func(t *testing.T) {
		f := newConfigFixture(t)
		f.writeGlobal(t, "[logging]\njson_format = true\n")

		cfg := f.load(t, entities.ConfigOverrides{JSONLogs: false, Verbose: true})
		assert.True(t, cfg.Logging.JSONFormat)
		assert.True(t, cfg.Logging.Verbose)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})
}

func TestConfigService_Load_DotEnv(t *testing.T) {
	f := newConfigFixture(t)
	f.writeGlobal(t, "[llm]\ntimeout = 20\n\n[storage]\nttl_minutes = 30\n")
	f.writeProject(t, ".env", "DECKFORGE_LLM_TIMEOUT=25\nDECKFORGE_STORAGE_TTL_MINUTES=99\n")

	require.NoError(t, os.Unsetenv("DECKFORGE_LLM_TIMEOUT"))
	t.Setenv("DECKFORGE_STORAGE_TTL_MINUTES", "12")

	cfg := f.load(t, entities.ConfigOverrides{})
	assert.Equal(t, 25, cfg.LLM.Timeout, ".env fills unset variables")
	assert.Equal(t, 12, cfg.Storage.TTLMinutes, ".env does not replace set variables")
}

func TestConfigService_Load_Errors(t *testing.T) {
	t.Run("invalid final config", func(t *testing.T) {
		f := newConfigFixture(t)
		t.Setenv("DECKFORGE_STORAGE_TTL_MINUTES", "-5")

		_, err := f.service.Load(context.Background(), f.projectDir, entities.ConfigOverrides{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "final config validation")
		assert.Contains(t, err.Error(), "storage config")
	})

	t.Run("broken global file", func(t *testing.T) {
		f := newConfigFixture(t)
		f.writeGlobal(t, "[llm]\ntimeout = \"soon\"\n")

		_, err := f.service.Load(context.Background(), f.projectDir, entities.ConfigOverrides{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading global config")
	})

	t.Run("broken project file", func(t *testing.T) {
		f := newConfigFixture(t)
		f.writeProject(t, "deckforge.toml", "[logging]\nlevel = \"loud\"\n")

		_, err := f.service.Load(context.Background(), f.projectDir, entities.ConfigOverrides{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading project config")
	})
}

func TestConfigService_Init(t *testing.T) {
	f := newConfigFixture(t)
	ctx := context.Background()

	path, err := f.service.Init(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, f.globalPath, path)
	assert.FileExists(t, path)

	_, err = f.service.Init(ctx, false)
	assert.ErrorIs(t, err, ports.ErrConfigExists)

	_, err = f.service.Init(ctx, true)
	assert.NoError(t, err)
}
