// Package assets reads the publishing asset library: visual references, voice
// guides, and the metadata master spreadsheets.
//
// Missing folders and files are reported as absent rather than as errors.
// Callers continue with defaults and the library logs a warning so operators
// can fix their layout.
package assets
