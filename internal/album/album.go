// Package album holds the editable delivery aggregate: the ordered tracks and
// the album-level text fields that end up in the final package.
package album

import (
	"fmt"
	"strings"
)

// Track is one delivered audio asset.
type Track struct {
	Title       string `json:"title"`
	Keywords    string `json:"keywords"`
	Description string `json:"description"`
	// Composer is informational and never exported.
	Composer string `json:"composer,omitempty"`
	// Source is the audio file the track was ingested from, if any.
	Source string `json:"source,omitempty"`
}

// NewTrack builds a Track with trimmed fields. A blank title defaults to the
// 1-based position label so every track is addressable in reports.
func NewTrack(position int, title, keywords, description string) Track {
	track := Track{
		Title:       strings.TrimSpace(title),
		Keywords:    strings.TrimSpace(keywords),
		Description: strings.TrimSpace(description),
	}
	if track.Title == "" {
		track.Title = DefaultTitle(position)
	}
	return track
}

// DefaultTitle returns the placeholder title for a 1-based track position.
func DefaultTitle(position int) string {
	return fmt.Sprintf("Track %d", position)
}

// DisplayTitle returns the track title, or the placeholder for position when blank.
func (t Track) DisplayTitle(position int) string {
	if strings.TrimSpace(t.Title) == "" {
		return DefaultTitle(position)
	}
	return t.Title
}

// Content is the aggregate the validation and packaging pipeline operates on.
type Content struct {
	Tracks           []Track `json:"tracks"`
	AlbumDescription string  `json:"album_description"`
	AlbumName        string  `json:"album_name"`
	CoverArt         string  `json:"cover_art"`
	MailChimp        string  `json:"mailchimp"`
}

// Clone returns a deep copy of c.
func (c Content) Clone() Content {
	out := c
	out.Tracks = append([]Track(nil), c.Tracks...)
	return out
}

// Field names an album-level text field.
type Field string

const (
	FieldAlbumDescription Field = "album-description"
	FieldAlbumName        Field = "album-name"
	FieldCoverArt         Field = "cover-art"
	FieldMailChimp        Field = "mailchimp"
)

// Fields lists the album-level fields in package order.
var Fields = []Field{FieldAlbumDescription, FieldAlbumName, FieldCoverArt, FieldMailChimp}

// ParseField resolves a field name, accepting underscores in place of dashes.
func ParseField(name string) (Field, error) {
	normalized := Field(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-"))
	for _, field := range Fields {
		if field == normalized {
			return field, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", name)
}

// Get returns the value of an album-level field.
func (c *Content) Get(field Field) string {
	switch field {
	case FieldAlbumDescription:
		return c.AlbumDescription
	case FieldAlbumName:
		return c.AlbumName
	case FieldCoverArt:
		return c.CoverArt
	case FieldMailChimp:
		return c.MailChimp
	default:
		return ""
	}
}

// Set assigns an album-level field.
func (c *Content) Set(field Field, value string) error {
	switch field {
	case FieldAlbumDescription:
		c.AlbumDescription = value
	case FieldAlbumName:
		c.AlbumName = value
	case FieldCoverArt:
		c.CoverArt = value
	case FieldMailChimp:
		c.MailChimp = value
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}
