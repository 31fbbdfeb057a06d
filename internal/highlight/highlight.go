// Package highlight renders source code as html with chroma CSS classes
package highlight

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	mdwerror "github.com/msto63/posttext/foundation/core/error"
	"github.com/msto63/posttext/foundation/posttext/printer"
)

const (
	// StylesheetID identifies the highlight stylesheet dependency
	StylesheetID = "posttext/highlight.css"
	// StylesheetFile is the file the stylesheet is written to
	StylesheetFile = "highlight.css"
	// DefaultStyle is the chroma style used without configuration
	DefaultStyle = "github"
)

// Highlighter highlights code with chroma
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// New creates a highlighter for the named chroma style. Unknown styles fall
// back to chroma's default style.
func New(style string) *Highlighter {
	if style == "" {
		style = DefaultStyle
	}
	return &Highlighter{
		style: styles.Get(style),
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
	}
}

// Styles returns the names of the available chroma styles
func Styles() []string {
	return styles.Names()
}

// Supported reports whether a lexer exists for language
func (h *Highlighter) Supported(language string) bool {
	return lexers.Get(language) != nil
}

// Highlight tokenises code as language and returns the html markup
func (h *Highlighter) Highlight(code, language string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		return "", mdwerror.New("no lexer for language").
			WithCode(mdwerror.CodeHighlight).
			WithDetail("language", language)
	}

	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return "", mdwerror.Wrap(err, "failed to tokenise code").
			WithCode(mdwerror.CodeHighlight).
			WithDetail("language", language)
	}

	tokens := it.Tokens()
	if !strings.HasSuffix(code, "\n") {
		tokens = trimTrailingNewline(tokens)
	}

	var sb strings.Builder
	if err := h.formatter.Format(&sb, h.style, chroma.Literator(tokens...)); err != nil {
		return "", mdwerror.Wrap(err, "failed to format code").
			WithCode(mdwerror.CodeHighlight).
			WithDetail("language", language)
	}
	return sb.String(), nil
}

// Stylesheet returns the dependency the highlighted markup needs
func (h *Highlighter) Stylesheet() printer.Dependency {
	return printer.Dependency{Type: "css", ID: StylesheetID, Src: StylesheetFile}
}

// WriteCSS writes the stylesheet for the chroma classes
func (h *Highlighter) WriteCSS(w io.Writer) error {
	if err := h.formatter.WriteCSS(w, h.style); err != nil {
		return mdwerror.Wrap(err, "failed to write highlight stylesheet").
			WithCode(mdwerror.CodeHighlight)
	}
	return nil
}

// CSS returns the stylesheet for the chroma classes
func (h *Highlighter) CSS() (string, error) {
	var sb strings.Builder
	if err := h.WriteCSS(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// trimTrailingNewline drops the newline lexers append to unterminated input
func trimTrailingNewline(tokens []chroma.Token) []chroma.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].Value == "" {
			continue
		}
		tokens[i].Value = strings.TrimSuffix(tokens[i].Value, "\n")
		if tokens[i].Value == "" {
			return append(tokens[:i], tokens[i+1:]...)
		}
		break
	}
	return tokens
}
