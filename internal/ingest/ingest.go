// Package ingest turns uploaded audio files into album tracks by asking the
// analysis model for title, keywords, and a rough description.
//
// Files are analyzed independently. A failure on one file is recorded on its
// Item and never stops the rest of the batch; results always come back in
// input order regardless of concurrency.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
	"golang.org/x/sync/errgroup"

	"delivery/internal/album"
	"delivery/internal/logging"
	"delivery/internal/services"
	"delivery/internal/services/llm"
)

// SupportedFormats maps accepted file extensions to the audio format sent to
// the analysis model.
var SupportedFormats = map[string]string{
	".mp3": "mp3",
	".wav": "wav",
}

// Analyzer sends audio and an instruction to the analysis model.
type Analyzer interface {
	AnalyzeAudio(ctx context.Context, instruction string, audio []byte, format string) (string, error)
}

// KeywordNormalizer canonicalizes the keywords returned by analysis.
type KeywordNormalizer interface {
	Normalize(ctx context.Context, raw string) string
}

// Metadata is the analysis reply.
type Metadata struct {
	Title       string       `json:"Title"`
	Composer    string       `json:"Composer"`
	Keywords    flexibleText `json:"Keywords"`
	Description string       `json:"Description"`
}

// flexibleText accepts either a JSON string or an array of strings, which
// models sometimes return for keyword lists.
type flexibleText string

func (f *flexibleText) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*f = flexibleText(text)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected string or string array: %w", err)
	}
	*f = flexibleText(strings.Join(list, ", "))
	return nil
}

// Item is the outcome of one file.
type Item struct {
	Path string
	// Position is the 1-based index of the file in the batch.
	Position int
	Track    album.Track
	Err      error
}

// OK reports whether the file produced a track.
func (i Item) OK() bool {
	return i.Err == nil
}

// Options configures an Ingester.
type Options struct {
	Concurrency int
	Logger      *slog.Logger
}

// Ingester analyzes batches of audio files.
type Ingester struct {
	analyzer    Analyzer
	normalizer  KeywordNormalizer
	concurrency int
	logger      *slog.Logger
	readFile    func(string) ([]byte, error)
	tagTitle    func(string) string
}

// New constructs an Ingester. A nil normalizer keeps analysis keywords as returned.
func New(analyzer Analyzer, normalizer KeywordNormalizer, opts Options) *Ingester {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Ingester{
		analyzer:    analyzer,
		normalizer:  normalizer,
		concurrency: concurrency,
		logger:      logging.NewComponentLogger(opts.Logger, "ingest"),
		readFile:    os.ReadFile,
		tagTitle:    id3Title,
	}
}

// Run analyzes every path with instruction and returns one Item per path in
// input order.
func (in *Ingester) Run(ctx context.Context, instruction string, paths []string) []Item {
	items := make([]Item, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(in.concurrency)

	for i, path := range paths {
		position := i + 1
		g.Go(func() error {
			itemCtx := services.WithTrackIndex(services.WithStep(gctx, "ingest"), position)
			track, err := in.analyzeFile(itemCtx, instruction, path, position)
			items[i] = Item{Path: path, Position: position, Track: track, Err: err}
			logger := logging.WithContext(itemCtx, in.logger)
			if err != nil {
				logging.WarnWithContext(logger, "audio analysis failed", "ingest_item_failed",
					logging.String("file", filepath.Base(path)),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, errorHint(err)),
					logging.String(logging.FieldImpact, "file skipped; remaining files continue"),
				)
				return nil
			}
			logger.Info("analysis complete",
				logging.String("file", filepath.Base(path)),
				logging.String("title", track.Title))
			return nil
		})
	}
	_ = g.Wait()
	return items
}

// Tracks returns the tracks of successful items in input order.
func Tracks(items []Item) []album.Track {
	tracks := make([]album.Track, 0, len(items))
	for _, item := range items {
		if item.OK() {
			tracks = append(tracks, item.Track)
		}
	}
	return tracks
}

func (in *Ingester) analyzeFile(ctx context.Context, instruction, path string, position int) (album.Track, error) {
	format, ok := SupportedFormats[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return album.Track{}, services.Wrap(services.ErrValidation, "ingest", "format", fmt.Sprintf("unsupported audio file %q (want .mp3 or .wav)", filepath.Base(path)), nil)
	}
	data, err := in.readFile(path)
	if err != nil {
		return album.Track{}, services.Wrap(services.ErrNotFound, "ingest", "read", filepath.Base(path), err)
	}
	if in.analyzer == nil {
		return album.Track{}, services.Wrap(services.ErrConfiguration, "ingest", "analyze", "no analyzer configured", nil)
	}
	content, err := in.analyzer.AnalyzeAudio(ctx, instruction, data, format)
	if err != nil {
		marker := services.ErrExternalService
		if errors.Is(err, llm.ErrMissingAPIKey) {
			marker = services.ErrConfiguration
		}
		return album.Track{}, services.Wrap(marker, "ingest", "analyze", filepath.Base(path), err)
	}
	var meta Metadata
	if err := llm.DecodeLLMJSON(content, &meta); err != nil {
		return album.Track{}, services.Wrap(services.ErrMalformedOutput, "ingest", "decode", filepath.Base(path), err)
	}

	keywords := string(meta.Keywords)
	if in.normalizer != nil && strings.TrimSpace(keywords) != "" {
		keywords = in.normalizer.Normalize(ctx, keywords)
	}
	title := strings.TrimSpace(meta.Title)
	if title == "" && in.tagTitle != nil {
		title = in.tagTitle(path)
	}
	if title == "" {
		title = TitleFromFilename(path)
	}
	track := album.NewTrack(position, title, keywords, meta.Description)
	track.Composer = strings.TrimSpace(meta.Composer)
	track.Source = filepath.Base(path)
	return track, nil
}

// TitleFromFilename derives a display title from a file name by dropping the
// extension and any leading track number, spaces, or dashes.
func TitleFromFilename(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimLeft(stem, "0123456789 -")
}

func id3Title(path string) string {
	if !strings.EqualFold(filepath.Ext(path), ".mp3") {
		return ""
	}
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{"Title"}})
	if err != nil {
		return ""
	}
	defer tag.Close()
	return strings.TrimSpace(tag.Title())
}

func errorHint(err error) string {
	switch services.Kind(err) {
	case "malformed_output":
		return "model reply was not JSON; rerun ingest for this file"
	case "configuration":
		return "set llm.api_key or OPENROUTER_API_KEY"
	case "validation":
		return "convert the file to mp3 or wav"
	case "not_found":
		return "check the file path"
	default:
		return "check network access and model availability"
	}
}
