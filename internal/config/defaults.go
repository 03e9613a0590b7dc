package config

const (
	defaultAssetsRoot          = "."
	defaultOutputDir           = "."
	defaultLogDir              = "~/.local/share/delivery/logs"
	defaultContentFile         = "album.json"
	defaultEnvFile             = ".env"
	defaultCatalog             = "redCola"
	defaultBannedKeywordsFile  = "Banned_Keywords.txt"
	defaultLLMBaseURL          = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMAnalysisModel    = "google/gemini-2.5-pro"
	defaultLLMTextModel        = "google/gemini-2.5-pro"
	defaultLLMFastModel        = "google/gemini-2.5-flash"
	defaultLLMReferer          = "https://github.com/delivery"
	defaultLLMTitle            = "Publisher Final Delivery"
	defaultIngestConcurrency   = 1
	defaultReferenceBaseURL    = "https://placeholder.url/"
	defaultFallbackReference   = "https://dummy.url/ref1.jpg"
	defaultCoverArtPromptCount = 4
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// DefaultGlobalBans is the baseline ban list applied to every catalog.
var DefaultGlobalBans = []string{"epic", "huge", "massive", "awesome", "badass"}

// DefaultCatalogs lists the catalogs known out of the box.
var DefaultCatalogs = []string{"redCola", "SSC", "EPP"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AssetsRoot:  defaultAssetsRoot,
			OutputDir:   defaultOutputDir,
			LogDir:      defaultLogDir,
			ContentFile: defaultContentFile,
			EnvFile:     defaultEnvFile,
		},
		Catalog: Catalog{
			Default: defaultCatalog,
			Known:   append([]string(nil), DefaultCatalogs...),
		},
		Bans: Bans{
			Global:             append([]string(nil), DefaultGlobalBans...),
			BannedKeywordsFile: defaultBannedKeywordsFile,
		},
		LLM: LLM{
			BaseURL:       defaultLLMBaseURL,
			AnalysisModel: defaultLLMAnalysisModel,
			TextModel:     defaultLLMTextModel,
			FastModel:     defaultLLMFastModel,
			Referer:       defaultLLMReferer,
			Title:         defaultLLMTitle,
		},
		Ingest: Ingest{
			Concurrency: defaultIngestConcurrency,
		},
		CoverArt: CoverArt{
			ReferenceBaseURL:  defaultReferenceBaseURL,
			FallbackReference: defaultFallbackReference,
			PromptCount:       defaultCoverArtPromptCount,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
