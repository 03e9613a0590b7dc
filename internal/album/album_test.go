package album

import "testing"

func TestNewTrackDefaultsTitle(t *testing.T) {
	track := NewTrack(3, "  ", " dark ", " Pulsing synths. ")
	if track.Title != "Track 3" {
		t.Fatalf("unexpected title %q", track.Title)
	}
	if track.Keywords != "dark" || track.Description != "Pulsing synths." {
		t.Fatalf("expected trimmed fields, got %+v", track)
	}
}

func TestSessionRemoveTrackPreservesOrder(t *testing.T) {
	s := NewSession("redCola")
	s.AddTracks(NewTrack(1, "A", "", ""), NewTrack(2, "B", "", ""), NewTrack(3, "C", "", ""))
	removed, err := s.RemoveTrack(2)
	if err != nil {
		t.Fatalf("RemoveTrack: %v", err)
	}
	if removed.Title != "B" {
		t.Fatalf("removed wrong track %q", removed.Title)
	}
	tracks := s.Tracks()
	if len(tracks) != 2 || tracks[0].Title != "A" || tracks[1].Title != "C" {
		t.Fatalf("unexpected tracks %+v", tracks)
	}
	if _, err := s.RemoveTrack(5); err == nil {
		t.Fatal("expected out of range error")
	}
}

func TestSessionContentIsSnapshot(t *testing.T) {
	s := NewSession("SSC")
	s.AddTracks(NewTrack(1, "A", "", ""))
	snapshot := s.Content()
	snapshot.Tracks[0].Title = "mutated"
	if got, _ := s.Track(1); got.Title != "A" {
		t.Fatalf("session mutated through snapshot: %q", got.Title)
	}
}

func TestSessionResetClearsEverything(t *testing.T) {
	s := Resume("EPP", Content{Tracks: []Track{{Title: "A"}}, AlbumName: "Name"})
	s.Reset()
	content := s.Content()
	if len(content.Tracks) != 0 || content.AlbumName != "" {
		t.Fatalf("expected empty content, got %+v", content)
	}
	if s.Catalog != "EPP" {
		t.Fatalf("reset must keep catalog, got %q", s.Catalog)
	}
}

func TestParseFieldAndSet(t *testing.T) {
	field, err := ParseField("ALBUM_NAME")
	if err != nil || field != FieldAlbumName {
		t.Fatalf("ParseField = %q, %v", field, err)
	}
	if _, err := ParseField("lyrics"); err == nil {
		t.Fatal("expected unknown field error")
	}
	s := NewSession("redCola")
	for _, f := range Fields {
		if err := s.SetField(f, string(f)+" value"); err != nil {
			t.Fatalf("SetField(%q): %v", f, err)
		}
		if got := s.Field(f); got != string(f)+" value" {
			t.Fatalf("Field(%q) = %q", f, got)
		}
	}
}

func TestTrackDescriptionsSkipsBlank(t *testing.T) {
	s := NewSession("redCola")
	s.AddTracks(Track{Description: "One."}, Track{Description: "  "}, Track{Description: "Two."})
	got := s.TrackDescriptions()
	if len(got) != 2 || got[0] != "One." || got[1] != "Two." {
		t.Fatalf("unexpected descriptions %v", got)
	}
}
