// Package config loads, normalizes, and validates delivery configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment or .env fallbacks for
// the generation API key. The Config type centralizes every knob the CLI
// needs: where the catalog assets live, which catalogs exist, the global ban
// list, and how to reach the text-generation service.
package config
