// Package cleanroom implements the export gate. Validate runs a fixed battery
// of structural and lexical checks over an album and reports every violation
// in a stable order; it never mutates its input and makes no external calls.
package cleanroom

import (
	"fmt"
	"strings"
	"unicode"

	"delivery/internal/album"
	"delivery/internal/banlist"
)

// Check identifies the rule a violation came from.
type Check string

const (
	CheckKeywordSpaces Check = "keyword_spaces"
	CheckKeywordBanned Check = "keyword_banned"
	CheckAntigravity   Check = "antigravity"
	CheckAlbumDescBan  Check = "album_description_banned"
	CheckAlbumNameBan  Check = "album_name_banned"
	CheckNoTracks      Check = "no_tracks"
)

const maxKeywordSpaces = 2

// forbiddenOpeners may not start a track description.
var forbiddenOpeners = map[string]struct{}{"a": {}, "an": {}, "the": {}}

// Violation is one failed check.
type Violation struct {
	Check Check
	// Track is the 1-based track position, zero for album-level checks.
	Track   int
	Message string
}

// Report is the immutable outcome of a validation run.
type Report struct {
	Passed     bool
	Violations []Violation
}

// Errors returns the violation messages in check order.
func (r Report) Errors() []string {
	out := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		out = append(out, v.Message)
	}
	return out
}

// Validate checks content against bans. Checks run in this order: per track
// keywords then description, album description bans, album name bans, and
// finally the non-empty track requirement.
func Validate(content album.Content, bans *banlist.Set) Report {
	var violations []Violation
	add := func(check Check, track int, format string, args ...any) {
		violations = append(violations, Violation{Check: check, Track: track, Message: fmt.Sprintf(format, args...)})
	}

	for i, track := range content.Tracks {
		position := i + 1
		title := track.DisplayTitle(position)

		if track.Keywords != "" {
			for _, kw := range strings.Split(track.Keywords, ",") {
				kw = strings.TrimSpace(kw)
				if strings.Count(kw, " ") > maxKeywordSpaces {
					add(CheckKeywordSpaces, position, "ERROR: Track '%s' keyword '%s' contains too many spaces (>2).", title, kw)
				}
				if bans.Contains(kw) {
					add(CheckKeywordBanned, position, "ERROR: Track '%s' keyword '%s' contains a banned word.", title, kw)
				}
			}
		}

		if opener, ok := FirstWord(track.Description); ok {
			if _, forbidden := forbiddenOpeners[opener]; forbidden {
				add(CheckAntigravity, position, "ERROR: Track '%s' description violates the Antigravity Protocol (Starts with '%s').", title, opener)
			}
		}
	}

	if bans.Contains(content.AlbumDescription) {
		add(CheckAlbumDescBan, 0, "ERROR: Album Description contains a banned word.")
	}
	if bans.Contains(content.AlbumName) {
		add(CheckAlbumNameBan, 0, "ERROR: Album Name contains a banned word.")
	}
	if len(content.Tracks) == 0 {
		add(CheckNoTracks, 0, "ERROR: No track data found to export.")
	}

	return Report{Passed: len(violations) == 0, Violations: violations}
}

// FirstWord returns the first whitespace-delimited token of text with leading
// and trailing non-word characters removed, lowercased. ok is false when text
// is blank.
func FirstWord(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}
	word := strings.TrimFunc(fields[0], func(r rune) bool { return !isWordRune(r) })
	return strings.ToLower(word), true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
