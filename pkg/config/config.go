// Package config loads the backend configuration from a TOML file.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// AppName names the per-user configuration directory.
const AppName = "storyscribe"

// Config is the backend configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Spell  SpellConfig  `toml:"spell"`
}

// ServerConfig configures the command bridge.
type ServerConfig struct {
	// Transport is "stdio" or "sse".
	Transport string `toml:"transport"`
	Port      int    `toml:"port"`
	BaseURL   string `toml:"base_url"`
	DataDir   string `toml:"data_dir"`
	LogFile   string `toml:"log_file"`
}

// SpellConfig configures dictionary lookup and the spell engine.
type SpellConfig struct {
	SearchRoots           []string `toml:"search_roots"`
	Layouts               []string `toml:"layouts"`
	DefaultLanguage       string   `toml:"default_language"`
	FallbackLanguages     []string `toml:"fallback_languages"`
	CustomDictionary      string   `toml:"custom_dictionary"`
	MaxSuggestions        int      `toml:"max_suggestions"` // at least 1
	FuzzyDepth            int      `toml:"fuzzy_depth"`     // maximum edit distance, 1 to 3
	WatchCustomDictionary bool     `toml:"watch_custom_dictionary"`
}

// Dir returns the per-user configuration directory of the application.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// Default returns the built-in configuration rooted at configDir.
func Default(configDir string) Config {
	roots := []string{"."}
	if exe, err := os.Executable(); err == nil {
		roots = append(roots, filepath.Dir(exe))
	}
	roots = append(roots, "/usr/share/hunspell")

	return Config{
		Server: ServerConfig{
			Transport: "stdio",
			Port:      8080,
			DataDir:   filepath.Join(configDir, "data"),
		},
		Spell: SpellConfig{
			SearchRoots:           roots,
			FallbackLanguages:     []string{"en_US"},
			CustomDictionary:      filepath.Join(configDir, "custom_dictionary.txt"),
			MaxSuggestions:        10,
			FuzzyDepth:            2,
			WatchCustomDictionary: true,
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is
// not an error.
func Load(path string, defaults Config) (Config, error) {
	cfg := defaults

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg.expand()
		}
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	log.Printf("[Config] Loaded %s", path)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg.expand()
}

// Validate checks values that have no sensible fallback.
func (c Config) Validate() error {
	switch c.Server.Transport {
	case "stdio", "sse":
	default:
		return fmt.Errorf("invalid transport %q: must be stdio or sse", c.Server.Transport)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Spell.MaxSuggestions < 1 {
		return fmt.Errorf("max_suggestions must be at least 1")
	}
	if c.Spell.FuzzyDepth < 1 || c.Spell.FuzzyDepth > 3 {
		return fmt.Errorf("fuzzy_depth must be between 1 and 3")
	}
	return nil
}

// expand resolves "~" in every configured path.
func (c Config) expand() (Config, error) {
	var err error
	if c.Server.DataDir, err = homedir.Expand(c.Server.DataDir); err != nil {
		return Config{}, fmt.Errorf("expanding data_dir: %w", err)
	}
	if c.Server.LogFile, err = homedir.Expand(c.Server.LogFile); err != nil {
		return Config{}, fmt.Errorf("expanding log_file: %w", err)
	}
	if c.Spell.CustomDictionary, err = homedir.Expand(c.Spell.CustomDictionary); err != nil {
		return Config{}, fmt.Errorf("expanding custom_dictionary: %w", err)
	}

	roots := make([]string, 0, len(c.Spell.SearchRoots))
	for _, root := range c.Spell.SearchRoots {
		expanded, err := homedir.Expand(root)
		if err != nil {
			return Config{}, fmt.Errorf("expanding search root %s: %w", root, err)
		}
		roots = append(roots, expanded)
	}
	c.Spell.SearchRoots = roots
	return c, nil
}
