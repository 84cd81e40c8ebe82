package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// FileName is the config file looked up in the content root
const FileName = "portfolio.json"

// ErrInvalid is returned when the merged configuration fails validation
var ErrInvalid = errors.New("invalid config")

// Config holds all application configuration
type Config struct {
	ServerAddr   string `json:"server_addr"`
	Root         string `json:"root"`
	ProjectsFile string `json:"projects_file"`
	BlogDir      string `json:"blog_dir"`
	AssetsDir    string `json:"assets_dir"`
	PublicDir    string `json:"public_dir"`
	LogLevel     string `json:"log_level"`
}

// Overrides holds values set on the command line; empty fields are ignored
type Overrides struct {
	ConfigPath string
	Root       string
	ServerAddr string
	LogLevel   string
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		ServerAddr:   ":8080",
		Root:         ".",
		ProjectsFile: filepath.Join("content", "projects.json"),
		BlogDir:      filepath.Join("content", "blog"),
		AssetsDir:    filepath.Join("public", "assets", "projects"),
		PublicDir:    "public",
		LogLevel:     "info",
	}
}

// Load builds the configuration with the following precedence (highest wins):
// defaults, config file, environment, command line.
//
// The config file is the explicit ConfigPath when set, otherwise
// portfolio.json in the root if it exists.
func Load(o Overrides) (*Config, error) {
	cfg := Default()

	root := firstNonEmpty(o.Root, os.Getenv("PORTFOLIO_ROOT"), cfg.Root)

	path, required := o.ConfigPath, true
	if path == "" {
		path, required = filepath.Join(root, FileName), false
	}

	fileCfg, err := loadFile(path, required)
	if err != nil {
		return nil, err
	}
	cfg = merge(cfg, fileCfg)

	cfg.applyEnv()

	if o.Root != "" {
		cfg.Root = o.Root
	}
	if o.ServerAddr != "" {
		cfg.ServerAddr = o.ServerAddr
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations with empty settings
func (c Config) Validate() error {
	fields := []struct {
		name, value string
	}{
		{"server_addr", c.ServerAddr},
		{"root", c.Root},
		{"projects_file", c.ProjectsFile},
		{"blog_dir", c.BlogDir},
		{"assets_dir", c.AssetsDir},
		{"public_dir", c.PublicDir},
		{"log_level", c.LogLevel},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: %s must not be empty", ErrInvalid, f.name)
		}
	}
	return nil
}

// ProjectsPath returns the project document path resolved against Root
func (c Config) ProjectsPath() string { return c.resolve(c.ProjectsFile) }

// BlogPath returns the blog directory resolved against Root
func (c Config) BlogPath() string { return c.resolve(c.BlogDir) }

// AssetsPath returns the project asset root resolved against Root
func (c Config) AssetsPath() string { return c.resolve(c.AssetsDir) }

// PublicPath returns the static file directory resolved against Root
func (c Config) PublicPath() string { return c.resolve(c.PublicDir) }

func (c Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// applyEnv reads environment overrides
func (c *Config) applyEnv() {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.ServerAddr = v
	}
	if v := os.Getenv("PORTFOLIO_ROOT"); v != "" {
		c.Root = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// loadFile reads a JSONC config file. A missing optional file is not an error.
func loadFile(path string, required bool) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: invalid JSONC: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return cfg, nil
}

// merge overlays the non-empty fields of over onto base
func merge(base, over Config) Config {
	base.ServerAddr = firstNonEmpty(over.ServerAddr, base.ServerAddr)
	base.Root = firstNonEmpty(over.Root, base.Root)
	base.ProjectsFile = firstNonEmpty(over.ProjectsFile, base.ProjectsFile)
	base.BlogDir = firstNonEmpty(over.BlogDir, base.BlogDir)
	base.AssetsDir = firstNonEmpty(over.AssetsDir, base.AssetsDir)
	base.PublicDir = firstNonEmpty(over.PublicDir, base.PublicDir)
	base.LogLevel = firstNonEmpty(over.LogLevel, base.LogLevel)
	return base
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
