package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// apiKeyEnvVars are consulted in order when llm.api_key is empty.
var apiKeyEnvVars = []string{"DELIVERY_LLM_API_KEY", "OPENROUTER_API_KEY", "GEMINI_API_KEY"}

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCatalog()
	c.normalizeBans()
	if err := c.normalizeLLM(); err != nil {
		return err
	}
	if c.Ingest.Concurrency == 0 {
		c.Ingest.Concurrency = defaultIngestConcurrency
	}
	c.normalizeCoverArt()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.AssetsRoot) == "" {
		c.Paths.AssetsRoot = defaultAssetsRoot
	}
	if c.Paths.AssetsRoot, err = expandPath(c.Paths.AssetsRoot); err != nil {
		return fmt.Errorf("paths.assets_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ContentFile) == "" {
		c.Paths.ContentFile = defaultContentFile
	}
	if c.Paths.ContentFile, err = expandPath(c.Paths.ContentFile); err != nil {
		return fmt.Errorf("paths.content_file: %w", err)
	}
	if c.Paths.EnvFile, err = expandPath(strings.TrimSpace(c.Paths.EnvFile)); err != nil {
		return fmt.Errorf("paths.env_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() {
	known := make([]string, 0, len(c.Catalog.Known))
	seen := make(map[string]struct{}, len(c.Catalog.Known))
	for _, name := range c.Catalog.Known {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		known = append(known, trimmed)
	}
	if len(known) == 0 {
		known = append(known, DefaultCatalogs...)
	}
	c.Catalog.Known = known
	c.Catalog.Default = strings.TrimSpace(c.Catalog.Default)
	if c.Catalog.Default == "" {
		c.Catalog.Default = known[0]
	}
	if canonical, ok := c.CanonicalCatalog(c.Catalog.Default); ok {
		c.Catalog.Default = canonical
	}
}

func (c *Config) normalizeBans() {
	if c.Bans.Global == nil {
		c.Bans.Global = append([]string(nil), DefaultGlobalBans...)
	}
	for i, word := range c.Bans.Global {
		c.Bans.Global[i] = strings.ToLower(strings.TrimSpace(word))
	}
	c.Bans.BannedKeywordsFile = strings.TrimSpace(c.Bans.BannedKeywordsFile)
	if c.Bans.BannedKeywordsFile == "" {
		c.Bans.BannedKeywordsFile = defaultBannedKeywordsFile
	}
}

func (c *Config) normalizeLLM() error {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		for _, name := range apiKeyEnvVars {
			if value, ok := os.LookupEnv(name); ok && strings.TrimSpace(value) != "" {
				c.LLM.APIKey = strings.TrimSpace(value)
				break
			}
		}
	}
	if c.LLM.APIKey == "" {
		key, err := apiKeyFromEnvFile(c.Paths.EnvFile)
		if err != nil {
			return fmt.Errorf("paths.env_file: %w", err)
		}
		c.LLM.APIKey = key
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.AnalysisModel = strings.TrimSpace(c.LLM.AnalysisModel)
	if c.LLM.AnalysisModel == "" {
		c.LLM.AnalysisModel = defaultLLMAnalysisModel
	}
	c.LLM.TextModel = strings.TrimSpace(c.LLM.TextModel)
	if c.LLM.TextModel == "" {
		c.LLM.TextModel = defaultLLMTextModel
	}
	c.LLM.FastModel = strings.TrimSpace(c.LLM.FastModel)
	if c.LLM.FastModel == "" {
		c.LLM.FastModel = c.LLM.TextModel
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	return nil
}

// apiKeyFromEnvFile reads the first known API key variable from a dotenv file.
// The process environment is left untouched. An empty path or a missing file
// yields an empty key.
func apiKeyFromEnvFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	for _, name := range apiKeyEnvVars {
		if value := strings.TrimSpace(values[name]); value != "" {
			return value, nil
		}
	}
	return "", nil
}

func (c *Config) normalizeCoverArt() {
	c.CoverArt.ReferenceBaseURL = strings.TrimSpace(c.CoverArt.ReferenceBaseURL)
	c.CoverArt.FallbackReference = strings.TrimSpace(c.CoverArt.FallbackReference)
	if c.CoverArt.FallbackReference == "" {
		c.CoverArt.FallbackReference = defaultFallbackReference
	}
	if c.CoverArt.PromptCount == 0 {
		c.CoverArt.PromptCount = defaultCoverArtPromptCount
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
