package keywords

import (
	"context"
	"errors"
	"strings"
	"testing"

	"delivery/internal/banlist"
)

var globalBans = []string{"epic", "huge", "massive", "awesome", "badass"}

type rewriterStub struct {
	responses map[string]string
	err       error
	calls     []string
}

func (r *rewriterStub) Rewrite(_ context.Context, phrase string) (string, error) {
	r.calls = append(r.calls, phrase)
	if r.err != nil {
		return "", r.err
	}
	return r.responses[phrase], nil
}

func TestNormalizeTitleCasesAndPreservesOrder(t *testing.T) {
	bans := banlist.New(globalBans, nil)
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", " , ; ", ""},
		{"single", "key1", "Key1"},
		{"mixed separators", "key1; key2 ,key3", "Key1, Key2, Key3"},
		{"duplicates kept", "dark, dark", "Dark, Dark"},
		{"global token ban drops whole phrase", "dark thriller, epic build", "Dark Thriller"},
		{"whole phrase ban", "huge", ""},
		{"substring is not a global token", "epicenter pulse", "Epicenter Pulse"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(context.Background(), tc.raw, bans, nil)
			if got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizeCatalogBanMatchesBySubstring(t *testing.T) {
	bans := banlist.Load(globalBans, "forbidden\n", true)
	got := Normalize(context.Background(), "dark thriller, forbidden word, keep this", bans, nil)
	if got != "Dark Thriller, Keep This" {
		t.Fatalf("unexpected output %q", got)
	}
	got = Normalize(context.Background(), "unforbiddenly calm", bans, nil)
	if got != "" {
		t.Fatalf("expected substring catalog ban to drop phrase, got %q", got)
	}
}

func TestNormalizeRewritesLongPhrases(t *testing.T) {
	rewriter := &rewriterStub{responses: map[string]string{"end of the world today": "  End Of World \n"}}
	bans := banlist.New(globalBans, nil)
	got := Normalize(context.Background(), "dark thriller, end of the world today", bans, rewriter)
	if got != "Dark Thriller, End Of World" {
		t.Fatalf("unexpected output %q", got)
	}
	if len(rewriter.calls) != 1 || rewriter.calls[0] != "end of the world today" {
		t.Fatalf("expected exactly one rewrite call, got %v", rewriter.calls)
	}
}

func TestNormalizeDoesNotRewriteThreeWordPhrases(t *testing.T) {
	rewriter := &rewriterStub{}
	Normalize(context.Background(), "slow burn tension", banlist.New(globalBans, nil), rewriter)
	if len(rewriter.calls) != 0 {
		t.Fatalf("unexpected rewrite calls: %v", rewriter.calls)
	}
}

func TestNormalizeFallsBackAndTruncatesOnRewriteFailure(t *testing.T) {
	rewriter := &rewriterStub{err: errors.New("quota exceeded")}
	n := New(banlist.New(globalBans, nil), rewriter, nil)
	result := n.Process(context.Background(), "chase scene with cars, calm")
	if got := result.String(); got != "Chase Scene With, Calm" {
		t.Fatalf("unexpected output %q", got)
	}
	fallbacks := result.Fallbacks()
	if len(fallbacks) != 1 || fallbacks[0].Original != "chase scene with cars" {
		t.Fatalf("unexpected fallbacks: %+v", fallbacks)
	}
	if result.Phrases[0].Status != StatusTruncated {
		t.Fatalf("expected truncated status, got %q", result.Phrases[0].Status)
	}
}

func TestNormalizeEmptyRewriteFallsBack(t *testing.T) {
	rewriter := &rewriterStub{responses: map[string]string{}}
	n := New(banlist.New(globalBans, nil), rewriter, nil)
	result := n.Process(context.Background(), "one two three four")
	if result.Phrases[0].RewriteErr == nil {
		t.Fatal("expected empty rewrite to be recorded as fallback")
	}
	if got := result.String(); got != "One Two Three" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestNormalizeTruncatesNonCompliantRewrite(t *testing.T) {
	rewriter := RewriterFunc(func(context.Context, string) (string, error) {
		return "still far too long here", nil
	})
	got := Normalize(context.Background(), "a b c d e", banlist.New(globalBans, nil), rewriter)
	if got != "Still Far Too" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestNormalizeBanCheckAppliesToRewrittenPhrase(t *testing.T) {
	rewriter := RewriterFunc(func(context.Context, string) (string, error) {
		return "Massive Hit", nil
	})
	got := Normalize(context.Background(), "a really big radio hit, calm", banlist.New(globalBans, nil), rewriter)
	if got != "Calm" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestNormalizeIsIdempotentOnCleanInput(t *testing.T) {
	bans := banlist.Load(globalBans, "forbidden", true)
	inputs := []string{
		"dark thriller, keep this",
		"ÉLAN vital;  night drive , piano",
		"rock'n'roll, lo-fi beats",
	}
	for _, raw := range inputs {
		once := Normalize(context.Background(), raw, bans, nil)
		twice := Normalize(context.Background(), once, bans, nil)
		if once != twice {
			t.Fatalf("not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestNormalizePreservesPhraseCount(t *testing.T) {
	raw := "one, two words, three word phrase, four"
	got := Normalize(context.Background(), raw, banlist.New(globalBans, nil), nil)
	if count := len(strings.Split(got, Separator)); count != 4 {
		t.Fatalf("expected 4 phrases, got %d (%q)", count, got)
	}
}

func TestSplitAppliesNFC(t *testing.T) {
	decomposed := "e\u0301lan"
	got := Split(decomposed)
	if len(got) != 1 || got[0] != "\u00e9lan" {
		t.Fatalf("expected composed form, got %q", got)
	}
}
