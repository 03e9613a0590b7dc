// Package services defines shared utilities consumed by the delivery pipeline
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp session IDs, catalogs, pipeline steps, and
//     track positions for logging.
//   - Structured error markers plus the Wrap helper so callers can tell a
//     generation failure from malformed model output or a blocked export.
//
// Use these helpers when wiring new pipeline steps so failure reporting and
// observability stay uniform across commands.
package services
