// Package banlist merges the global banned-word constants with a catalog's
// banned keyword resource and answers membership questions against the union.
//
// Two matching modes exist and they are intentionally different. Keyword
// normalization tests global bans against whole word tokens and catalog bans
// by substring. Validation tests every ban by substring against the
// lowercased candidate text, so a ban on "huge" also rejects "huger".
package banlist

import (
	"sort"
	"strings"
)

// Set is an immutable ban set. The zero value bans nothing.
type Set struct {
	global  []string
	catalog []string
}

// New builds a Set from explicit global and catalog entries. Entries are
// trimmed and lowercased; blanks and duplicates are dropped.
func New(global, catalog []string) *Set {
	return &Set{
		global:  clean(global),
		catalog: clean(catalog),
	}
}

// Load builds a Set from the global constants and the raw text of an optional
// catalog ban resource. When present is false the catalog set is empty.
func Load(global []string, catalogText string, present bool) *Set {
	if !present {
		return New(global, nil)
	}
	return New(global, ParseLines(catalogText))
}

// ParseLines returns one entry per non-empty line of text, trimmed and lowercased.
func ParseLines(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.ToLower(strings.TrimSpace(line))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func clean(entries []string) []string {
	out := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "" {
			continue
		}
		if _, ok := seen[entry]; ok {
			continue
		}
		seen[entry] = struct{}{}
		out = append(out, entry)
	}
	return out
}

// HasGlobalToken reports whether any lowercase whitespace-delimited token of
// phrase exactly equals a global ban.
func (s *Set) HasGlobalToken(phrase string) bool {
	if s == nil || len(s.global) == 0 {
		return false
	}
	for _, token := range strings.Fields(strings.ToLower(phrase)) {
		if containsExact(s.global, token) {
			return true
		}
	}
	return false
}

// CatalogSubstring reports whether any catalog ban appears inside the
// lowercased text.
func (s *Set) CatalogSubstring(text string) bool {
	if s == nil {
		return false
	}
	return containsSubstring(s.catalog, strings.ToLower(text))
}

// IsBannedPhrase reports whether the whole lowercased phrase equals a global
// or catalog ban.
func (s *Set) IsBannedPhrase(phrase string) bool {
	if s == nil {
		return false
	}
	lower := strings.ToLower(strings.TrimSpace(phrase))
	return containsExact(s.global, lower) || containsExact(s.catalog, lower)
}

// Contains reports whether any ban, global or catalog, appears anywhere
// inside the lowercased text.
func (s *Set) Contains(text string) bool {
	_, ok := s.Match(text)
	return ok
}

// Match returns the first ban found inside the lowercased text. Global
// entries are checked before catalog entries.
func (s *Set) Match(text string) (string, bool) {
	if s == nil {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, entries := range [][]string{s.global, s.catalog} {
		for _, ban := range entries {
			if strings.Contains(lower, ban) {
				return ban, true
			}
		}
	}
	return "", false
}

// Global returns a copy of the global entries in load order.
func (s *Set) Global() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.global...)
}

// Catalog returns a copy of the catalog entries in load order.
func (s *Set) Catalog() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.catalog...)
}

// Entries returns the sorted union of global and catalog entries.
func (s *Set) Entries() []string {
	if s == nil {
		return nil
	}
	union := clean(append(s.Global(), s.catalog...))
	sort.Strings(union)
	return union
}

// Len returns the number of distinct entries in the union.
func (s *Set) Len() int {
	return len(s.Entries())
}

func containsExact(entries []string, value string) bool {
	for _, entry := range entries {
		if entry == value {
			return true
		}
	}
	return false
}

func containsSubstring(entries []string, text string) bool {
	for _, entry := range entries {
		if strings.Contains(text, entry) {
			return true
		}
	}
	return false
}
