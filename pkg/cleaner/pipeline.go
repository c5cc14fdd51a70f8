package cleaner

// PipelineConfig selects the stages of the standard cleaning pipeline.
type PipelineConfig struct {
	// BaseURL is used to absolutize relative links.
	BaseURL string

	// PreserveLinks enables link absolutization.
	PreserveLinks bool

	// IncludeImages keeps image references in the output.
	IncludeImages bool

	// Chrome overrides the chrome markers. Zero uses DefaultChromeConfig.
	Chrome ChromeConfig

	// Embeds overrides the embed wrapper markers. Zero uses DefaultEmbedMarkers.
	Embeds EmbedMarkers

	// Converter is the final HTML to Markdown stage. Nil uses RegexMarkdown;
	// pass NewNoop() to get cleaned HTML.
	Converter Cleaner
}

// NewPipeline builds the cleaning chain in its fixed order: shortcodes,
// embeds, chrome, semantic normalization, links (optional), conversion.
func NewPipeline(cfg PipelineConfig) *ChainCleaner {
	var links Cleaner
	if cfg.PreserveLinks && cfg.BaseURL != "" {
		links = NewLinkAbsolutizer(cfg.BaseURL)
	}

	converter := cfg.Converter
	if converter == nil {
		converter = NewRegexMarkdown(WithStripImages(!cfg.IncludeImages))
	}

	stages := []Cleaner{
		NewShortcodeStripper(),
		NewEmbedRemover(cfg.Embeds),
		NewChromeStripper(cfg.Chrome),
		NewSemanticNormalizer(),
		links,
		converter,
	}
	if cfg.Converter != nil && !cfg.IncludeImages {
		stages = append(stages, NewFunc("strip-images", StripImageMarkdown))
	}
	return NewChain(stages...)
}
