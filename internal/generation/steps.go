package generation

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"

	"delivery/internal/album"
	"delivery/internal/keywords"
	"delivery/internal/logging"
	"delivery/internal/prompts"
	"delivery/internal/services"
	"delivery/internal/services/llm"
)

// Generator produces text from a system instruction and a task.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, task string) (string, error)
}

// Outcome is the result of one generation call.
type Outcome struct {
	Value string
	Err   error
}

// OK reports whether the call produced a value.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// TrackOutcome is the result of describing one track.
type TrackOutcome struct {
	// Position is the 1-based track position.
	Position int
	Title    string
	Outcome
}

// Options configures Steps.
type Options struct {
	// Fast is used for the album name step. Defaults to the text generator.
	Fast    Generator
	Council *prompts.Council
	// PromptCount is the number of cover art references. Defaults to 4.
	PromptCount       int
	FallbackReference string
	Rand              *rand.Rand
	Logger            *slog.Logger
}

// Steps runs generation steps for one catalog.
type Steps struct {
	text        Generator
	fast        Generator
	council     *prompts.Council
	promptCount int
	fallbackRef string
	rand        *rand.Rand
	logger      *slog.Logger
}

// New constructs Steps around the text generator.
func New(text Generator, opts Options) *Steps {
	s := &Steps{
		text:        text,
		fast:        opts.Fast,
		council:     opts.Council,
		promptCount: opts.PromptCount,
		fallbackRef: strings.TrimSpace(opts.FallbackReference),
		rand:        opts.Rand,
		logger:      logging.NewComponentLogger(opts.Logger, "generation"),
	}
	if s.fast == nil {
		s.fast = text
	}
	if s.council == nil {
		s.council = prompts.NewCouncil(nil, false)
	}
	if s.promptCount <= 0 {
		s.promptCount = 4
	}
	if s.fallbackRef == "" {
		s.fallbackRef = "https://dummy.url/ref1.jpg"
	}
	if s.rand == nil {
		s.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// Council returns the persona council used for prompts.
func (s *Steps) Council() *prompts.Council {
	return s.council
}

// TrackDescriptions refines every track description in order. Tracks whose
// call fails keep their current description.
func (s *Steps) TrackDescriptions(ctx context.Context, session *album.Session) []TrackOutcome {
	tracks := session.Tracks()
	outcomes := make([]TrackOutcome, 0, len(tracks))
	for i, track := range tracks {
		position := i + 1
		stepCtx := services.WithTrackIndex(ctx, position)
		prompt := s.council.TrackDescription(track.Title, track.Description, session.Catalog)
		outcome := s.run(stepCtx, s.text, "descriptions", prompt)
		if outcome.OK() {
			track.Description = outcome.Value
			if err := session.UpdateTrack(position, track); err != nil {
				outcome = Outcome{Err: err}
			}
		}
		outcomes = append(outcomes, TrackOutcome{Position: position, Title: track.Title, Outcome: outcome})
	}
	return outcomes
}

// AlbumDescription synthesizes the album description from the track descriptions.
func (s *Steps) AlbumDescription(ctx context.Context, session *album.Session) Outcome {
	prompt := s.council.AlbumDescription(session.TrackDescriptions(), session.Catalog)
	return s.apply(session, album.FieldAlbumDescription, s.run(ctx, s.text, "album-description", prompt))
}

// AlbumName brainstorms album name concepts from the album description.
func (s *Steps) AlbumName(ctx context.Context, session *album.Session) Outcome {
	prompt := s.council.AlbumName(session.Field(album.FieldAlbumDescription), session.Catalog)
	return s.apply(session, album.FieldAlbumName, s.run(ctx, s.fast, "album-name", prompt))
}

// CoverArt writes MidJourney prompts against references chosen at random
// from referenceURLs.
func (s *Steps) CoverArt(ctx context.Context, session *album.Session, referenceURLs []string) Outcome {
	chosen := ChooseReferences(s.rand, referenceURLs, s.promptCount, s.fallbackRef)
	if len(referenceURLs) == 0 {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "no reference images for catalog", "cover_art_fallback_reference",
			logging.String(logging.FieldCatalog, session.Catalog),
			logging.String("fallback", s.fallbackRef),
			logging.String(logging.FieldErrorHint, "add images under 01_VISUAL_REFERENCES/<catalog>"),
			logging.String(logging.FieldImpact, "prompts reference the fallback image"),
		)
	}
	prompt := s.council.CoverArt(session.Field(album.FieldAlbumName), session.Field(album.FieldAlbumDescription), session.Catalog, chosen)
	return s.apply(session, album.FieldCoverArt, s.run(ctx, s.text, "cover-art", prompt))
}

// MailChimp writes the promotional intro.
func (s *Steps) MailChimp(ctx context.Context, session *album.Session) Outcome {
	prompt := s.council.MailChimp(session.Field(album.FieldAlbumName), session.Field(album.FieldAlbumDescription), session.Catalog)
	return s.apply(session, album.FieldMailChimp, s.run(ctx, s.text, "mailchimp", prompt))
}

func (s *Steps) apply(session *album.Session, field album.Field, outcome Outcome) Outcome {
	if !outcome.OK() {
		return outcome
	}
	if err := session.SetField(field, outcome.Value); err != nil {
		return Outcome{Err: err}
	}
	return outcome
}

func (s *Steps) run(ctx context.Context, gen Generator, step string, prompt prompts.Prompt) Outcome {
	ctx = services.WithStep(ctx, step)
	logger := logging.WithContext(ctx, s.logger)
	if gen == nil {
		return Outcome{Err: services.Wrap(services.ErrConfiguration, "generation", step, "no generator configured", nil)}
	}
	value, err := gen.Generate(ctx, prompt.System, prompt.Task)
	value = strings.TrimSpace(value)
	if err == nil && value == "" {
		err = services.Wrap(services.ErrMalformedOutput, "generation", step, "empty reply", nil)
	} else if err != nil {
		marker := services.ErrExternalService
		if errors.Is(err, llm.ErrMissingAPIKey) {
			marker = services.ErrConfiguration
		}
		err = services.Wrap(marker, "generation", step, "generate", err)
	}
	if err != nil {
		logging.WarnWithContext(logger, "generation failed; keeping previous value", "generation_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "rerun the step or edit the field directly"),
			logging.String(logging.FieldImpact, "field left unchanged"),
		)
		return Outcome{Err: err}
	}
	logger.Info("generation complete", logging.Int("chars", len(value)))
	return Outcome{Value: value}
}

// Rewriter adapts a Generator to the keyword rewriter used for over-length
// phrases.
func Rewriter(gen Generator) keywords.Rewriter {
	return keywords.RewriterFunc(func(ctx context.Context, phrase string) (string, error) {
		prompt := prompts.Harvest(phrase)
		return gen.Generate(ctx, prompt.System, prompt.Task)
	})
}

// ChooseReferences picks n references uniformly at random with replacement.
// With no references every slot holds fallback.
func ChooseReferences(r *rand.Rand, references []string, n int, fallback string) []string {
	pool := references
	if len(pool) == 0 {
		pool = []string{fallback}
	}
	chosen := make([]string, n)
	for i := range chosen {
		chosen[i] = pool[r.IntN(len(pool))]
	}
	return chosen
}

// ReferenceURLs turns reference image names into URLs under base.
func ReferenceURLs(base string, names []string) []string {
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	urls := make([]string, len(names))
	for i, name := range names {
		urls[i] = base + name
	}
	return urls
}
