package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file locations.
type Paths struct {
	// AssetsRoot holds the 01_VISUAL_REFERENCES, 02_VOICE_GUIDES, and
	// 03_METADATA_MASTER folders.
	AssetsRoot  string `toml:"assets_root"`
	OutputDir   string `toml:"output_dir"`
	LogDir      string `toml:"log_dir"`
	ContentFile string `toml:"content_file"`
	EnvFile     string `toml:"env_file"`
}

// Catalog names the catalogs the operator can target.
type Catalog struct {
	Default string   `toml:"default"`
	Known   []string `toml:"known"`
}

// Bans configures the global ban list and the catalog ban list file name.
type Bans struct {
	Global             []string `toml:"global"`
	BannedKeywordsFile string   `toml:"banned_keywords_file"`
}

// LLM contains the text-generation connection settings.
type LLM struct {
	APIKey        string `toml:"api_key"`
	BaseURL       string `toml:"base_url"`
	AnalysisModel string `toml:"analysis_model"`
	TextModel     string `toml:"text_model"`
	FastModel     string `toml:"fast_model"`
	Referer       string `toml:"referer"`
	Title         string `toml:"title"`
	// TimeoutSeconds bounds a single request; zero leaves requests unbounded.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Ingest contains audio analysis settings.
type Ingest struct {
	Concurrency int `toml:"concurrency"`
}

// CoverArt contains reference image settings for MidJourney prompts.
type CoverArt struct {
	ReferenceBaseURL  string `toml:"reference_base_url"`
	FallbackReference string `toml:"fallback_reference"`
	PromptCount       int    `toml:"prompt_count"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the delivery CLI.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Catalog  Catalog  `toml:"catalog"`
	Bans     Bans     `toml:"bans"`
	LLM      LLM      `toml:"llm"`
	Ingest   Ingest   `toml:"ingest"`
	CoverArt CoverArt `toml:"cover_art"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/delivery/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("delivery.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// IsKnownCatalog reports whether name matches a configured catalog, ignoring case.
func (c *Config) IsKnownCatalog(name string) bool {
	_, ok := c.CanonicalCatalog(name)
	return ok
}

// CanonicalCatalog returns the configured spelling of name, ignoring case.
func (c *Config) CanonicalCatalog(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, known := range c.Catalog.Known {
		if strings.EqualFold(known, name) {
			return known, true
		}
	}
	return "", false
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
