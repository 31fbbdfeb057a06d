// Package std provides the standard PostText tags: document metadata,
// sections and headings, inline styles, paragraphs, lists, code blocks, the
// table of contents and block quotes.
package std

import (
	"github.com/msto63/posttext/foundation/posttext/printer"
	"github.com/msto63/posttext/pkg/core/logging"
)

// TOCTopic is the channel heading tags publish their events on
const TOCTopic = "std.toc"

// Heading levels of the table of contents
const (
	LevelTitle       = 1
	LevelSubtitle    = 2
	LevelSubsubtitle = 3
)

// Highlighter turns source code into highlighted html
type Highlighter interface {
	Highlight(code, language string) (string, error)
	Supported(language string) bool
	Stylesheet() printer.Dependency
}

// Options configures the standard module
type Options struct {
	// Highlighter is used by the code tag; nil disables highlighting
	Highlighter Highlighter
	Logger      *logging.Logger
}

type module struct {
	highlighter Highlighter
	logger      *logging.Logger
}

// Module returns the standard tag module
func Module(opts Options) printer.Module {
	if opts.Logger == nil {
		opts.Logger = logging.Wrap("posttext-std", nil)
	}
	return &module{
		highlighter: opts.Highlighter,
		logger:      opts.Logger,
	}
}

// Register installs the standard tags
func (m *module) Register(b *printer.Builder) {
	b.Tag("posttext", printer.Resolver{Resolve: resolvePostText})
	b.Tag("comment", printer.Resolver{Resolve: resolveComment})
	b.Tag("section", wrapBlock("section", false))

	b.Tag("title", heading(LevelTitle))
	b.Tag("subtitle", heading(LevelSubtitle))
	b.Tag("subsubtitle", heading(LevelSubsubtitle))

	b.Tag("bold", wrapBlock("b", true))
	b.Tag("italic", wrapBlock("i", true))
	b.Tag("underline", wrapBlock("u", true))

	b.Tag("paragraph", printer.Resolver{Resolve: resolveParagraph})
	b.Tag("list", wrapBlock("ul", false))
	b.Tag("item", wrapBlock("li", false))

	b.Tag("code", printer.Resolver{Preload: m.preloadCode, Resolve: m.resolveCode})
	b.Tag("toc", printer.Resolver{Resolve: resolveTOC})
	b.Tag("blockquote", printer.Resolver{Resolve: resolveBlockquote})
}
