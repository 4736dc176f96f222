package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thenoetrevino/tablero/internal/config/colors"
)

// ColorScheme is the theme section of the config file.
type ColorScheme = colors.ColorScheme

// Config represents the application configuration
type Config struct {
	API         APIConfig    `yaml:"api"`
	Board       BoardConfig  `yaml:"board"`
	Daemon      DaemonConfig `yaml:"daemon"`
	Server      ServerConfig `yaml:"server"`
	KeyMappings KeyMappings  `yaml:"key_mappings"`
	ColorScheme ColorScheme  `yaml:"theme"`
}

// APIConfig points the board at the remote task API.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	TokenFile string        `yaml:"token_file"`
	// Token is only ever read from TABLERO_TOKEN.
	Token string `yaml:"-"`
}

type BoardConfig struct {
	DefaultProject string `yaml:"default_project"`
	ReadOnly       bool   `yaml:"read_only"`
}

type DaemonConfig struct {
	// SocketPath of the event daemon. Empty disables live refresh.
	SocketPath string        `yaml:"socket_path"`
	Debounce   time.Duration `yaml:"debounce"`
}

// ServerConfig configures `tablero serve`, the development task API.
type ServerConfig struct {
	ListenAddr   string        `yaml:"listen_addr"`
	DatabasePath string        `yaml:"database_path"`
	JWTSecret    string        `yaml:"jwt_secret"`
	RedisURL     string        `yaml:"redis_url"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
}

const (
	DefaultAPIURL     = "http://127.0.0.1:7420"
	DefaultListenAddr = "127.0.0.1:7420"
	DefaultProject    = "default"
	DefaultTimeout    = 10 * time.Second
	DefaultDebounce   = 100 * time.Millisecond
	DefaultCacheTTL   = 30 * time.Second
)

// Default returns a config with every value set to its default.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// DefaultSocketPath returns the event daemon socket under the user's home.
func DefaultSocketPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "tablero.sock")
	}
	return filepath.Join(home, ".tablero", "tablero.sock")
}

// loadThemeFile loads and merges theme from TABLERO_THEME_FILE environment variable
func loadThemeFile(config *Config) {
	themeFile := os.Getenv("TABLERO_THEME_FILE")
	if themeFile == "" {
		return
	}

	themeData, err := os.ReadFile(themeFile)
	if err != nil {
		return
	}

	var themeConfig struct {
		Theme ColorScheme `yaml:"theme"`
	}

	if yaml.Unmarshal(themeData, &themeConfig) == nil {
		config.ColorScheme.MergeFrom(themeConfig.Theme)
	}
}

// applyEnv lets environment variables override file values.
func applyEnv(config *Config) {
	if v := os.Getenv("TABLERO_API_URL"); v != "" {
		config.API.BaseURL = v
	}
	if v := os.Getenv("TABLERO_TOKEN"); v != "" {
		config.API.Token = v
	}
	if v := os.Getenv("TABLERO_PROJECT"); v != "" {
		config.Board.DefaultProject = v
	}
	if v := os.Getenv("TABLERO_READ_ONLY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Board.ReadOnly = b
		}
	}
	if v := os.Getenv("TABLERO_SOCKET"); v != "" {
		config.Daemon.SocketPath = v
	}
	if v := os.Getenv("TABLERO_JWT_SECRET"); v != "" {
		config.Server.JWTSecret = v
	}
	if v := os.Getenv("TABLERO_REDIS_URL"); v != "" {
		config.Server.RedisURL = v
	}
}

// Load loads config from the user's config directory
// Returns default config if file doesn't exist
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return finish(&Config{}), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads config from path. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return finish(&Config{}), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return finish(&config), nil
}

func finish(config *Config) *Config {
	loadThemeFile(config)
	applyEnv(config)
	config.applyDefaults()
	return config
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o600)
}

// Path returns the config file location, honoring XDG_CONFIG_HOME.
func Path() (string, error) {
	return getConfigPath()
}

func getConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "tablero", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "tablero", "config.yaml"), nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultAPIURL
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = DefaultTimeout
	}
	if c.Board.DefaultProject == "" {
		c.Board.DefaultProject = DefaultProject
	}
	if c.Daemon.Debounce <= 0 {
		c.Daemon.Debounce = DefaultDebounce
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}
	if c.Server.CacheTTL <= 0 {
		c.Server.CacheTTL = DefaultCacheTTL
	}
	c.KeyMappings.applyDefaults()
	c.ColorScheme.ApplyDefaults()
}
