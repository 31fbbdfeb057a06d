package std

import (
	"regexp"
	"strings"

	"github.com/msto63/posttext/foundation/posttext/printer"
	"github.com/msto63/posttext/foundation/utils/stringx"
)

var (
	// two or more line breaks, optionally separated by horizontal whitespace
	paragraphBreak = regexp.MustCompile(`\n[^\S\n]*(?:\n[^\S\n]*)+`)
	// a line break after exactly two trailing spaces
	forcedBreak = regexp.MustCompile(`(^|[^ ])  \r?\n`)
)

// Chunk is one reflow output item: a paragraph or an opaque fragment that
// was passed through
type Chunk struct {
	Paragraph bool
	Content   string
}

// Reflow groups block units into paragraphs. Text units are split at blank
// lines, inline units join the open paragraph and any other unit closes the
// open paragraph and is passed through on its own. A paragraph holding
// nothing but whitespace and forced breaks is dropped.
func Reflow(units []printer.Unit) []Chunk {
	var (
		out []Chunk
		acc strings.Builder
	)

	flush := func() {
		content := acc.String()
		acc.Reset()
		if stringx.IsBlank(strings.ReplaceAll(content, "<br>", "")) {
			return
		}
		out = append(out, Chunk{Paragraph: true, Content: "<p>" + strings.TrimSpace(content) + "</p>"})
	}

	for _, u := range units {
		switch u.Kind {
		case printer.UnitText:
			pieces := paragraphBreak.Split(u.Content, -1)
			for i, piece := range pieces {
				acc.WriteString(forcedBreak.ReplaceAllString(piece, "${1}<br>"))
				if i < len(pieces)-1 {
					flush()
				}
			}
		case printer.UnitInline:
			acc.WriteString(u.Content)
		default:
			flush()
			out = append(out, Chunk{Content: u.Content})
		}
	}
	flush()

	return out
}
