package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"delivery/internal/album"
	"delivery/internal/albumstore"
	"delivery/internal/assets"
	"delivery/internal/banlist"
	"delivery/internal/config"
	"delivery/internal/generation"
	"delivery/internal/keywords"
	"delivery/internal/logging"
	"delivery/internal/prompts"
	"delivery/internal/services"
	"delivery/internal/services/llm"
)

type commandContext struct {
	configFlag  *string
	contentFlag *string
	catalogFlag *string
	jsonFlag    *bool

	sessionID string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	libraryOnce sync.Once
	library     *assets.Library
}

func newCommandContext(configFlag, contentFlag, catalogFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		contentFlag: contentFlag,
		catalogFlag: catalogFlag,
		jsonFlag:    jsonFlag,
		sessionID:   uuid.NewString(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// loggerValue builds the invocation logger. A logger that cannot be built
// falls back to stderr console output rather than failing the command.
func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, _ := c.ensureConfig()
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			logger, _ = logging.NewFromConfig(nil)
		}
		c.logger = logger.With(logging.String(logging.FieldSessionID, c.sessionID))
	})
	return c.logger
}

// annotate tags ctx with the invocation session id and catalog.
func (c *commandContext) annotate(ctx context.Context, catalog string) context.Context {
	ctx = services.WithSessionID(ctx, c.sessionID)
	if catalog != "" {
		ctx = services.WithCatalog(ctx, catalog)
	}
	return ctx
}

func (c *commandContext) libraryValue() *assets.Library {
	c.libraryOnce.Do(func() {
		cfg, _ := c.ensureConfig()
		root := "."
		if cfg != nil {
			root = cfg.Paths.AssetsRoot
		}
		c.library = assets.Open(root, c.loggerValue())
	})
	return c.library
}

func (c *commandContext) contentPath() (string, error) {
	if c.contentFlag != nil {
		if path := strings.TrimSpace(*c.contentFlag); path != "" {
			return config.ExpandPath(path)
		}
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return cfg.Paths.ContentFile, nil
}

// requestedCatalog returns the canonical --catalog value, or "" when unset.
func (c *commandContext) requestedCatalog() (string, error) {
	if c.catalogFlag == nil || strings.TrimSpace(*c.catalogFlag) == "" {
		return "", nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	name, ok := cfg.CanonicalCatalog(*c.catalogFlag)
	if !ok {
		return "", services.Wrap(services.ErrValidation, "cli", "catalog",
			fmt.Sprintf("unknown catalog %q (known: %s)", strings.TrimSpace(*c.catalogFlag), strings.Join(cfg.Catalog.Known, ", ")), nil)
	}
	return name, nil
}

// withSession opens the album under its lock, runs fn, and saves the album
// when save is set. The album is saved even when fn fails so that partial
// generation results survive.
func (c *commandContext) withSession(save bool, fn func(*album.Session) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	catalog, err := c.requestedCatalog()
	if err != nil {
		return err
	}
	path, err := c.contentPath()
	if err != nil {
		return err
	}
	store, err := albumstore.Open(path, c.loggerValue())
	if err != nil {
		if errors.Is(err, albumstore.ErrLocked) {
			return fmt.Errorf("%w; wait for the other command to finish", err)
		}
		return err
	}
	defer store.Close()

	session, err := store.LoadSession(catalog)
	if err != nil {
		return err
	}
	if session.Catalog == "" {
		session.Catalog = cfg.Catalog.Default
	} else if canonical, ok := cfg.CanonicalCatalog(session.Catalog); ok {
		session.Catalog = canonical
	}

	runErr := fn(session)
	if !save {
		return runErr
	}
	if err := store.Save(session); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

func (c *commandContext) banSet(catalog string) *banlist.Set {
	cfg, _ := c.ensureConfig()
	text, ok := c.libraryValue().BannedKeywords(catalog, cfg.Bans.BannedKeywordsFile)
	return banlist.Load(cfg.Bans.Global, text, ok)
}

func (c *commandContext) council() *prompts.Council {
	return prompts.NewCouncil(c.libraryValue().Personas())
}

// llmClient returns a client for model, defaulting to the text model.
func (c *commandContext) llmClient(model string) *llm.Client {
	cfg, _ := c.ensureConfig()
	if strings.TrimSpace(model) == "" {
		model = cfg.LLM.TextModel
	}
	return llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          model,
		Referer:        cfg.LLM.Referer,
		Title:          cfg.LLM.Title,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})
}

// normalizer builds a keyword normalizer for catalog. Over-length phrases are
// rewritten with the fast model unless rewrite is false.
func (c *commandContext) normalizer(catalog string, rewrite bool) *keywords.Normalizer {
	cfg, _ := c.ensureConfig()
	var rewriter keywords.Rewriter
	if rewrite {
		rewriter = generation.Rewriter(c.llmClient(cfg.LLM.FastModel))
	}
	return keywords.New(c.banSet(catalog), rewriter, c.loggerValue())
}

func (c *commandContext) generationSteps() *generation.Steps {
	cfg, _ := c.ensureConfig()
	return generation.New(c.llmClient(cfg.LLM.TextModel), generation.Options{
		Fast:              c.llmClient(cfg.LLM.FastModel),
		Council:           c.council(),
		PromptCount:       cfg.CoverArt.PromptCount,
		FallbackReference: cfg.CoverArt.FallbackReference,
		Logger:            c.loggerValue(),
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func (c *commandContext) expand(path string) (string, error) {
	return config.ExpandPath(strings.TrimSpace(path))
}
