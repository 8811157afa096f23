// Package config provides configuration loading and structs for the vulgata reader.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Content    ContentConfig    `yaml:"content"`
	Storage    StorageConfig    `yaml:"storage"`
	Search     SearchConfig     `yaml:"search"`
	Reader     ReaderConfig     `yaml:"reader"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// ContentConfig locates the language editions and companion data.
type ContentConfig struct {
	Directory     string `yaml:"directory"`
	LatinFile     string `yaml:"latin_file"`
	EnglishFile   string `yaml:"english_file"`
	SpanishFile   string `yaml:"spanish_file"`
	CatalogPath   string `yaml:"catalog_path"`
	PrayersFile   string `yaml:"prayers_file"`
	DictionaryDir string `yaml:"dictionary_dir"`
	Watch         *bool  `yaml:"watch"`
}

// WatchOrDefault returns whether to reload content on change; defaults to false when unset.
func (c *ContentConfig) WatchOrDefault() bool {
	if c.Watch != nil {
		return *c.Watch
	}
	return false
}

// FileFor returns the configured path of a language edition, relative to Directory
// unless absolute.
func (c *ContentConfig) FileFor(lang string) string {
	var name string
	switch lang {
	case "latin":
		name = c.LatinFile
	case "english":
		name = c.EnglishFile
	case "spanish":
		name = c.SpanishFile
	}
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Directory, name)
}

// StorageConfig holds paths for the settings database and the full-text index.
type StorageConfig struct {
	DatabasePath   string `yaml:"database_path"`
	BleveIndexPath string `yaml:"bleve_index_path"`
}

// SearchConfig holds search settings.
type SearchConfig struct {
	DefaultLimit int  `yaml:"default_limit"`
	MaxLimit     int  `yaml:"max_limit"`
	Fuzziness    int  `yaml:"fuzziness"`
	AllLanguages bool `yaml:"all_languages"`
}

// ReaderConfig holds speed reader defaults used until the user saves settings.
type ReaderConfig struct {
	DefaultWPM       int    `yaml:"default_wpm"`
	PunctuationPause *bool  `yaml:"punctuation_pause"`
	Language         string `yaml:"language"`
}

// PunctuationPauseOrDefault returns whether to pause on punctuation; defaults to true.
func (r *ReaderConfig) PunctuationPauseOrDefault() bool {
	if r.PunctuationPause != nil {
		return *r.PunctuationPause
	}
	return true
}

// DictionaryConfig holds dictionary settings.
type DictionaryConfig struct {
	CacheSize int `yaml:"cache_size"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Content.Directory = expandPath(cfg.Content.Directory, configDir)
	cfg.Content.CatalogPath = expandOptional(cfg.Content.CatalogPath, configDir)
	cfg.Content.PrayersFile = expandOptional(cfg.Content.PrayersFile, configDir)
	cfg.Content.DictionaryDir = expandOptional(cfg.Content.DictionaryDir, configDir)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.BleveIndexPath = expandOptional(cfg.Storage.BleveIndexPath, configDir)

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}

// expandOptional is expandPath for settings where empty means "disabled".
func expandOptional(path string, configDir string) string {
	if path == "" {
		return ""
	}
	return expandPath(path, configDir)
}
