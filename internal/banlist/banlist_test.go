package banlist

import (
	"strings"
	"testing"
)

var globals = []string{"epic", "huge", "massive", "awesome", "badass"}

func TestLoadAbsentResourceYieldsEmptyCatalog(t *testing.T) {
	set := Load(globals, "ignored", false)
	if got := set.Catalog(); len(got) != 0 {
		t.Fatalf("expected empty catalog set, got %v", got)
	}
	if got := len(set.Global()); got != 5 {
		t.Fatalf("expected five global bans, got %d", got)
	}
}

func TestParseLinesTrimsAndLowercases(t *testing.T) {
	got := ParseLines("Forbidden Word\r\n\n  another BAN  \n\t\n")
	want := []string{"forbidden word", "another ban"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("ParseLines = %q, want %q", got, want)
	}
}

func TestHasGlobalTokenIsExactTokenMatch(t *testing.T) {
	set := New(globals, nil)
	tests := []struct {
		phrase string
		want   bool
	}{
		{"epic build", true},
		{"Build EPIC", true},
		{"epicenter", false},
		{"huger waves", false},
		{"dark thriller", false},
	}
	for _, tc := range tests {
		if got := set.HasGlobalToken(tc.phrase); got != tc.want {
			t.Fatalf("HasGlobalToken(%q) = %v, want %v", tc.phrase, got, tc.want)
		}
	}
}

func TestCatalogSubstringMatchesInsideWords(t *testing.T) {
	set := Load(nil, "forbidden\n", true)
	if !set.CatalogSubstring("Unforbiddenness") {
		t.Fatal("expected substring match inside a longer word")
	}
	if set.CatalogSubstring("keep this") {
		t.Fatal("unexpected match")
	}
}

func TestContainsUsesSubstringForAllBans(t *testing.T) {
	set := Load(globals, "grim", true)
	tests := []struct {
		text string
		want bool
	}{
		{"A HUGER sound", true},
		{"epicenter", true},
		{"grimace", true},
		{"calm piano", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := set.Contains(tc.text); got != tc.want {
			t.Fatalf("Contains(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
	ban, ok := set.Match("grim and huge")
	if !ok || ban != "huge" {
		t.Fatalf("Match returned %q, %v; want global entry first", ban, ok)
	}
}

func TestIsBannedPhraseMatchesWholePhrase(t *testing.T) {
	set := Load(globals, "another ban", true)
	if !set.IsBannedPhrase(" Another Ban ") {
		t.Fatal("expected whole phrase match")
	}
	if set.IsBannedPhrase("another bank") {
		t.Fatal("unexpected whole phrase match")
	}
}

func TestEntriesAreSortedUnion(t *testing.T) {
	set := New([]string{"Epic", "huge", "epic"}, []string{"huge", "alpha", " "})
	got := strings.Join(set.Entries(), ",")
	if got != "alpha,epic,huge" {
		t.Fatalf("Entries = %q", got)
	}
	if set.Len() != 3 {
		t.Fatalf("Len = %d", set.Len())
	}
}

func TestNilSetBansNothing(t *testing.T) {
	var set *Set
	if set.Contains("epic") || set.HasGlobalToken("epic") || set.CatalogSubstring("epic") || set.IsBannedPhrase("epic") {
		t.Fatal("nil set must ban nothing")
	}
}
