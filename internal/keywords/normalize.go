package keywords

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"delivery/internal/banlist"
	"delivery/internal/logging"
)

// MaxWords is the longest phrase the delivery format accepts.
const MaxWords = 3

// Separator joins normalized phrases.
const Separator = ", "

var errEmptyRewrite = errors.New("rewriter returned empty phrase")

// Rewriter shortens an over-length phrase while preserving its meaning.
type Rewriter interface {
	Rewrite(ctx context.Context, phrase string) (string, error)
}

// RewriterFunc adapts a function to the Rewriter interface.
type RewriterFunc func(ctx context.Context, phrase string) (string, error)

// Rewrite calls f.
func (f RewriterFunc) Rewrite(ctx context.Context, phrase string) (string, error) {
	return f(ctx, phrase)
}

// Status describes what happened to a single input phrase.
type Status string

const (
	StatusKept      Status = "kept"
	StatusRewritten Status = "rewritten"
	StatusTruncated Status = "truncated"
	StatusBanned    Status = "banned"
)

// Phrase records the processing of one input phrase.
type Phrase struct {
	Original string
	// Candidate is the phrase after the optional rewrite.
	Candidate string
	Final     string
	Status    Status
	// RewriteAttempted is set when the phrase exceeded MaxWords on input.
	RewriteAttempted bool
	// RewriteErr is the reason the original phrase was used as a fallback.
	RewriteErr error
}

// Dropped reports whether the phrase was removed from the output.
func (p Phrase) Dropped() bool {
	return p.Status == StatusBanned
}

// Result is the full outcome of a normalization run.
type Result struct {
	Phrases []Phrase
}

// String joins the surviving phrases in input order.
func (r Result) String() string {
	kept := make([]string, 0, len(r.Phrases))
	for _, phrase := range r.Phrases {
		if !phrase.Dropped() {
			kept = append(kept, phrase.Final)
		}
	}
	return strings.Join(kept, Separator)
}

// Fallbacks returns the phrases whose rewrite failed.
func (r Result) Fallbacks() []Phrase {
	var out []Phrase
	for _, phrase := range r.Phrases {
		if phrase.RewriteErr != nil {
			out = append(out, phrase)
		}
	}
	return out
}

// Normalizer applies a ban set and an optional rewriter to keyword strings.
type Normalizer struct {
	bans     *banlist.Set
	rewriter Rewriter
	logger   *slog.Logger
}

// New constructs a Normalizer. A nil rewriter leaves long phrases to truncation.
func New(bans *banlist.Set, rewriter Rewriter, logger *slog.Logger) *Normalizer {
	return &Normalizer{
		bans:     bans,
		rewriter: rewriter,
		logger:   logging.NewComponentLogger(logger, "keywords"),
	}
}

// Normalize returns the canonical keyword string for raw.
func (n *Normalizer) Normalize(ctx context.Context, raw string) string {
	return n.Process(ctx, raw).String()
}

// Process normalizes raw and reports the fate of each phrase.
func (n *Normalizer) Process(ctx context.Context, raw string) Result {
	parts := Split(raw)
	result := Result{Phrases: make([]Phrase, 0, len(parts))}
	if len(parts) == 0 {
		return result
	}
	logger := logging.WithContext(ctx, n.logger)
	caser := cases.Title(language.Und)
	for _, original := range parts {
		phrase := Phrase{Original: original, Candidate: original}
		if overLength(original) {
			phrase.RewriteAttempted = true
			rewritten, err := n.rewrite(ctx, original)
			if err != nil {
				phrase.RewriteErr = err
				logging.WarnWithContext(logger, "keyword rewrite failed; using original phrase", "keyword_rewrite_fallback",
					logging.String("phrase", original),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check llm api key and model availability"),
					logging.String(logging.FieldImpact, "phrase will be truncated to three words"),
				)
			} else {
				phrase.Candidate = rewritten
				phrase.Status = StatusRewritten
			}
		}

		if n.banned(phrase.Candidate) {
			phrase.Status = StatusBanned
			logger.Debug("keyword dropped", logging.String("phrase", phrase.Candidate))
			result.Phrases = append(result.Phrases, phrase)
			continue
		}

		words := strings.Fields(strings.ToLower(phrase.Candidate))
		if len(words) > MaxWords {
			phrase.Final = caser.String(strings.Join(words[:MaxWords], " "))
			phrase.Status = StatusTruncated
		} else {
			phrase.Final = caser.String(phrase.Candidate)
			if phrase.Status == "" {
				phrase.Status = StatusKept
			}
		}
		result.Phrases = append(result.Phrases, phrase)
	}
	return result
}

func (n *Normalizer) rewrite(ctx context.Context, phrase string) (string, error) {
	if n.rewriter == nil {
		return "", errors.New("no rewriter configured")
	}
	rewritten, err := n.rewriter.Rewrite(ctx, phrase)
	if err != nil {
		return "", err
	}
	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return "", errEmptyRewrite
	}
	return rewritten, nil
}

func (n *Normalizer) banned(phrase string) bool {
	return n.bans.HasGlobalToken(phrase) || n.bans.CatalogSubstring(phrase) || n.bans.IsBannedPhrase(phrase)
}

// Normalize is a convenience wrapper that normalizes raw without logging.
func Normalize(ctx context.Context, raw string, bans *banlist.Set, rewriter Rewriter) string {
	return New(bans, rewriter, nil).Normalize(ctx, raw)
}

// Split breaks raw on commas and semicolons, trimming whitespace and dropping
// empty entries. Input order is preserved and duplicates are kept.
func Split(raw string) []string {
	raw = norm.NFC.String(raw)
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// overLength reports whether phrase has more than two spaces, the threshold
// the validator also enforces.
func overLength(phrase string) bool {
	return strings.Count(phrase, " ") > MaxWords-1
}
