package postprocess

import "go.uber.org/zap"

// DefaultContainerClass is the class of the delivery container.
const DefaultContainerClass = "tex2html-container"

// DefaultCodeTheme is the chroma style used for listings.
const DefaultCodeTheme = "github"

// Options configures the default stages.
type Options struct {
	// Stylesheet is the article CSS inlined by the styles stage.
	Stylesheet string
	// StylesheetName is recorded in State.Stylesheets.
	StylesheetName string
	// CodeTheme is a chroma style name.
	CodeTheme string
	// ContainerClass is the class of the delivery container.
	ContainerClass string
	// TableOfContents inserts a navigation list after the abstract.
	TableOfContents bool
}

func (o Options) withDefaults() Options {
	if o.CodeTheme == "" {
		o.CodeTheme = DefaultCodeTheme
	}
	if o.ContainerClass == "" {
		o.ContainerClass = DefaultContainerClass
	}
	if o.StylesheetName == "" {
		o.StylesheetName = "article"
	}
	return o
}

// DefaultStages returns the production stages in their fixed order.
func DefaultStages(opts Options) []Stage {
	opts = opts.withDefaults()
	return []Stage{
		layoutStage(),
		htmlComponent(),
		stylesStage(opts),
		metadataStage(),
		codeStage(opts),
		figuresStage(),
		mathStage(),
		headingsStage(opts),
		appendixStage(),
		footnotesStage(),
		footnoteComponent(),
		bibliographyStage(),
		appendixComponent(),
		typesetComponent(),
		typesetStage(),
		hoverBoxComponent(),
		tablesStage(),
		listsStage(),
		linksStage(),
		containerStage(opts),
	}
}

// Default returns a Driver over DefaultStages.
func Default(logger *zap.Logger, opts Options) (*Driver, error) {
	return NewDriver(logger, DefaultStages(opts)...)
}
