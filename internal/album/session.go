package album

import (
	"fmt"
	"strings"
)

// Session owns the in-progress Content for a single operator. It is not safe
// for concurrent use; callers serialize edits.
type Session struct {
	Catalog string
	content Content
}

// NewSession starts an empty session for catalog.
func NewSession(catalog string) *Session {
	return &Session{Catalog: catalog}
}

// Resume starts a session that continues from previously saved content.
func Resume(catalog string, content Content) *Session {
	return &Session{Catalog: catalog, content: content.Clone()}
}

// Content returns a snapshot of the current aggregate.
func (s *Session) Content() Content {
	return s.content.Clone()
}

// Tracks returns a copy of the track list.
func (s *Session) Tracks() []Track {
	return append([]Track(nil), s.content.Tracks...)
}

// Reset discards all tracks and album fields.
func (s *Session) Reset() {
	s.content = Content{}
}

// AddTracks appends tracks in order.
func (s *Session) AddTracks(tracks ...Track) {
	s.content.Tracks = append(s.content.Tracks, tracks...)
}

// ReplaceTracks swaps the entire track list.
func (s *Session) ReplaceTracks(tracks []Track) {
	s.content.Tracks = append([]Track(nil), tracks...)
}

// Track returns the track at the 1-based position.
func (s *Session) Track(position int) (Track, error) {
	if err := s.checkPosition(position); err != nil {
		return Track{}, err
	}
	return s.content.Tracks[position-1], nil
}

// UpdateTrack replaces the track at the 1-based position.
func (s *Session) UpdateTrack(position int, track Track) error {
	if err := s.checkPosition(position); err != nil {
		return err
	}
	s.content.Tracks[position-1] = track
	return nil
}

// RemoveTrack deletes the track at the 1-based position, keeping the order
// of the remaining tracks.
func (s *Session) RemoveTrack(position int) (Track, error) {
	if err := s.checkPosition(position); err != nil {
		return Track{}, err
	}
	removed := s.content.Tracks[position-1]
	s.content.Tracks = append(s.content.Tracks[:position-1], s.content.Tracks[position:]...)
	return removed, nil
}

// SetField assigns an album-level field.
func (s *Session) SetField(field Field, value string) error {
	return s.content.Set(field, value)
}

// Field returns an album-level field.
func (s *Session) Field(field Field) string {
	return s.content.Get(field)
}

// TrackDescriptions returns the non-empty track descriptions in order.
func (s *Session) TrackDescriptions() []string {
	out := make([]string, 0, len(s.content.Tracks))
	for _, track := range s.content.Tracks {
		if desc := strings.TrimSpace(track.Description); desc != "" {
			out = append(out, desc)
		}
	}
	return out
}

func (s *Session) checkPosition(position int) error {
	if position < 1 || position > len(s.content.Tracks) {
		return fmt.Errorf("track %d out of range (have %d)", position, len(s.content.Tracks))
	}
	return nil
}
