package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateBans(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if c.Ingest.Concurrency <= 0 {
		return errors.New("ingest.concurrency must be positive")
	}
	if c.CoverArt.PromptCount <= 0 {
		return errors.New("cover_art.prompt_count must be positive")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if len(c.Catalog.Known) == 0 {
		return errors.New("catalog.known must list at least one catalog")
	}
	if !c.IsKnownCatalog(c.Catalog.Default) {
		return fmt.Errorf("catalog.default must be one of catalog.known: %q not in [%s]", c.Catalog.Default, strings.Join(c.Catalog.Known, ", "))
	}
	return nil
}

func (c *Config) validateBans() error {
	for i, word := range c.Bans.Global {
		if word == "" {
			return fmt.Errorf("bans.global must not contain empty entries (index %d)", i)
		}
	}
	if strings.ContainsAny(c.Bans.BannedKeywordsFile, `/\`) {
		return errors.New("bans.banned_keywords_file must be a file name, not a path")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.TimeoutSeconds < 0 {
		return errors.New("llm.timeout_seconds must be >= 0")
	}
	if !strings.HasPrefix(c.LLM.BaseURL, "http://") && !strings.HasPrefix(c.LLM.BaseURL, "https://") {
		return fmt.Errorf("llm.base_url %q must be an http(s) URL", c.LLM.BaseURL)
	}
	return nil
}
