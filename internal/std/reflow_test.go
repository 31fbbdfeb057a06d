package std

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/msto63/posttext/foundation/posttext/printer"
)

func text(s string) printer.Unit   { return printer.Unit{Kind: printer.UnitText, Content: s} }
func inline(s string) printer.Unit { return printer.Unit{Kind: printer.UnitInline, Content: s} }
func other(s string) printer.Unit  { return printer.Unit{Kind: printer.UnitOther, Content: s} }

func para(s string) Chunk { return Chunk{Paragraph: true, Content: "<p>" + s + "</p>"} }

func TestReflow(t *testing.T) {
	tests := []struct {
		name  string
		units []printer.Unit
		want  []Chunk
	}{
		{
			name:  "blank lines split paragraphs",
			units: []printer.Unit{text("First sentence.\n\n\nSecond sentence.")},
			want:  []Chunk{para("First sentence."), para("Second sentence.")},
		},
		{
			name:  "blank line with horizontal whitespace",
			units: []printer.Unit{text("One.\n  \t\n  Two.")},
			want:  []Chunk{para("One."), para("Two.")},
		},
		{
			name:  "two trailing spaces force a line break",
			units: []printer.Unit{text("Line one  \nLine two")},
			want:  []Chunk{para("Line one<br>Line two")},
		},
		{
			name:  "single newline stays inside the paragraph",
			units: []printer.Unit{text("Line one\nLine two")},
			want:  []Chunk{para("Line one\nLine two")},
		},
		{
			name: "inline units join the open paragraph",
			units: []printer.Unit{
				text("\n  Hello "), inline("<b>bold</b>"), text(" world.\n\n  Next.\n"),
			},
			want: []Chunk{para("Hello <b>bold</b> world."), para("Next.")},
		},
		{
			name: "other units close the paragraph",
			units: []printer.Unit{
				text("Before"), other("<ul><li>x</li></ul>"), text("After"),
			},
			want: []Chunk{para("Before"), {Content: "<ul><li>x</li></ul>"}, para("After")},
		},
		{
			name:  "no empty paragraphs",
			units: []printer.Unit{text("\n\n\n"), other("<hr>"), text("  \n  ")},
			want:  []Chunk{{Content: "<hr>"}},
		},
		{
			name:  "no units",
			units: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reflow(tt.units))
		})
	}
}
