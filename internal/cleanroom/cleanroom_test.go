package cleanroom

import (
	"strings"
	"testing"

	"delivery/internal/album"
	"delivery/internal/banlist"
)

var globalBans = []string{"epic", "huge", "massive", "awesome", "badass"}

func cleanContent() album.Content {
	return album.Content{
		Tracks: []album.Track{
			{Title: "Night Drive", Keywords: "Dark Thriller, Neon Pulse", Description: "Pulsing synths open the night."},
			{Title: "Dawn", Keywords: "Calm Piano", Description: "Soft keys rise slowly."},
		},
		AlbumDescription: "A cinematic journey.",
		AlbumName:        "Neon Roads",
	}
}

func TestValidatePassesCleanContent(t *testing.T) {
	report := Validate(cleanContent(), banlist.New(globalBans, nil))
	if !report.Passed {
		t.Fatalf("expected pass, got %v", report.Errors())
	}
	if len(report.Violations) != 0 {
		t.Fatalf("unexpected violations %v", report.Violations)
	}
}

func TestValidateEmptyTracksFails(t *testing.T) {
	report := Validate(album.Content{}, banlist.New(globalBans, nil))
	if report.Passed {
		t.Fatal("expected failure for empty tracks")
	}
	errs := report.Errors()
	if len(errs) != 1 || errs[0] != "ERROR: No track data found to export." {
		t.Fatalf("unexpected errors %v", errs)
	}
}

func TestValidateAntigravityOpeners(t *testing.T) {
	bans := banlist.New(globalBans, nil)
	tests := []struct {
		desc    string
		flagged bool
		opener  string
	}{
		{"The night begins.", true, "the"},
		{"  an odd start", true, "an"},
		{"A quiet pulse.", true, "a"},
		{"\"THE\" drums roll.", true, "the"},
		{"(A) shimmer", true, "a"},
		{"Then the drums.", false, ""},
		{"Anthem of dawn", false, ""},
		{"Slow strings", false, ""},
		{"", false, ""},
		{"...", false, ""},
	}
	for _, tc := range tests {
		content := album.Content{Tracks: []album.Track{{Title: "T", Description: tc.desc}}}
		report := Validate(content, bans)
		if tc.flagged {
			want := "ERROR: Track 'T' description violates the Antigravity Protocol (Starts with '" + tc.opener + "')."
			if report.Passed || len(report.Errors()) != 1 || report.Errors()[0] != want {
				t.Fatalf("description %q: got %v, want %q", tc.desc, report.Errors(), want)
			}
			continue
		}
		if !report.Passed {
			t.Fatalf("description %q should pass, got %v", tc.desc, report.Errors())
		}
	}
}

func TestValidateKeywordChecksReportEveryViolation(t *testing.T) {
	content := album.Content{Tracks: []album.Track{{
		Keywords: "one two three four, huger sound, epic long winded phrase",
	}}}
	report := Validate(content, banlist.New(globalBans, nil))
	want := []string{
		"ERROR: Track 'Track 1' keyword 'one two three four' contains too many spaces (>2).",
		"ERROR: Track 'Track 1' keyword 'huger sound' contains a banned word.",
		"ERROR: Track 'Track 1' keyword 'epic long winded phrase' contains too many spaces (>2).",
		"ERROR: Track 'Track 1' keyword 'epic long winded phrase' contains a banned word.",
	}
	if got := report.Errors(); strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected errors:\n%s", strings.Join(got, "\n"))
	}
	for _, v := range report.Violations {
		if v.Track != 1 {
			t.Fatalf("expected track position 1, got %d", v.Track)
		}
	}
}

func TestValidateAlbumFieldsUseSubstringBans(t *testing.T) {
	content := cleanContent()
	content.AlbumDescription = "An EPICally grim record."
	content.AlbumName = "Grimoire"
	report := Validate(content, banlist.Load(globalBans, "grim\n", true))
	want := []string{
		"ERROR: Album Description contains a banned word.",
		"ERROR: Album Name contains a banned word.",
	}
	if got := report.Errors(); strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected errors %v", got)
	}
}

func TestValidateCheckOrderIsFixed(t *testing.T) {
	content := album.Content{
		Tracks: []album.Track{
			{Title: "First", Keywords: "awesome", Description: "The start."},
			{Title: "Second", Keywords: "fine", Description: "An ending."},
		},
		AlbumDescription: "massive",
		AlbumName:        "huge",
	}
	report := Validate(content, banlist.New(globalBans, nil))
	var checks []Check
	for _, v := range report.Violations {
		checks = append(checks, v.Check)
	}
	want := []Check{CheckKeywordBanned, CheckAntigravity, CheckAntigravity, CheckAlbumDescBan, CheckAlbumNameBan}
	if len(checks) != len(want) {
		t.Fatalf("unexpected checks %v", checks)
	}
	for i := range want {
		if checks[i] != want[i] {
			t.Fatalf("check %d = %q, want %q", i, checks[i], want[i])
		}
	}
}

func TestValidateIsRepeatable(t *testing.T) {
	content := cleanContent()
	content.Tracks[0].Description = "The end."
	bans := banlist.New(globalBans, nil)
	first := Validate(content, bans)
	second := Validate(content, bans)
	if strings.Join(first.Errors(), "|") != strings.Join(second.Errors(), "|") {
		t.Fatalf("validation not repeatable: %v vs %v", first.Errors(), second.Errors())
	}
	if content.Tracks[0].Description != "The end." {
		t.Fatal("validate mutated its input")
	}
}

func TestFirstWord(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Hello world", "hello", true},
		{"  ¡Hola! amigo", "hola", true},
		{"\tThe", "the", true},
		{"   ", "", false},
	}
	for _, tc := range tests {
		got, ok := FirstWord(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("FirstWord(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
