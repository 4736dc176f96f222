package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TABLERO_API_URL", "TABLERO_TOKEN", "TABLERO_PROJECT", "TABLERO_READ_ONLY",
		"TABLERO_SOCKET", "TABLERO_JWT_SECRET", "TABLERO_REDIS_URL", "TABLERO_THEME_FILE",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_MissingReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.API.Timeout)
	assert.Equal(t, DefaultProject, cfg.Board.DefaultProject)
	assert.Equal(t, DefaultDebounce, cfg.Daemon.Debounce)
	assert.Equal(t, DefaultListenAddr, cfg.Server.ListenAddr)
	assert.Equal(t, DefaultKeyMappings(), cfg.KeyMappings)
	assert.Equal(t, "default", cfg.ColorScheme.Preset)
	assert.NotEmpty(t, cfg.ColorScheme.Accent)
}

func TestLoadFile_PartialFileKeepsValuesAndFillsGaps(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", `
api:
  base_url: https://tasks.example.com
  timeout: 3s
board:
  default_project: roadmap
  read_only: true
key_mappings:
  add_task: n
theme:
  preset: wave
  accent: "#123456"
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://tasks.example.com", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "roadmap", cfg.Board.DefaultProject)
	assert.True(t, cfg.Board.ReadOnly)
	assert.Equal(t, "n", cfg.KeyMappings.AddTask)
	assert.Equal(t, "e", cfg.KeyMappings.EditTask)
	assert.Equal(t, "#123456", cfg.ColorScheme.Accent)
	assert.Equal(t, "#7E9CD8", cfg.ColorScheme.Edit, "wave preset fills the rest")
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", "api: [unclosed")

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TABLERO_API_URL", "http://env:1")
	t.Setenv("TABLERO_TOKEN", "tok")
	t.Setenv("TABLERO_PROJECT", "p9")
	t.Setenv("TABLERO_READ_ONLY", "true")
	t.Setenv("TABLERO_SOCKET", "/tmp/x.sock")
	path := writeFile(t, "config.yaml", "api:\n  base_url: http://file:1\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env:1", cfg.API.BaseURL)
	assert.Equal(t, "tok", cfg.API.Token)
	assert.Equal(t, "p9", cfg.Board.DefaultProject)
	assert.True(t, cfg.Board.ReadOnly)
	assert.Equal(t, "/tmp/x.sock", cfg.Daemon.SocketPath)
}

func TestThemeFileMergesOverConfig(t *testing.T) {
	clearEnv(t)
	theme := writeFile(t, "theme.yaml", `theme:
  accent: "#FF0000"
  create: "#00FF00"
`)
	t.Setenv("TABLERO_THEME_FILE", theme)
	path := writeFile(t, "config.yaml", "theme:\n  accent: \"#000000\"\n  edit: \"#0000FF\"\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "#FF0000", cfg.ColorScheme.Accent)
	assert.Equal(t, "#00FF00", cfg.ColorScheme.Create)
	assert.Equal(t, "#0000FF", cfg.ColorScheme.Edit)
}

func TestThemeFileMissingIsIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("TABLERO_THEME_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "#874BFD", cfg.ColorScheme.Accent)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Board.DefaultProject = "ops"
	cfg.Server.CacheTTL = time.Minute
	require.NoError(t, cfg.Save())

	path, err := Path()
	require.NoError(t, err)
	assert.FileExists(t, path)

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ops", loaded.Board.DefaultProject)
	assert.Equal(t, time.Minute, loaded.Server.CacheTTL)
}
