// File: cursor.go
// Title: PostText Source Cursor
// Description: Immutable position in the source text with lookahead and
//              cheap backtracking. Advancing returns a new cursor, so a fork
//              is a plain copy and committing it is an assignment.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial cursor implementation

package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/msto63/posttext/foundation/posttext/ast"
)

// Cursor is a read position in a source text
type Cursor struct {
	src    string
	offset int
	line   int
	column int
}

// NewCursor returns a cursor at the start of src
func NewCursor(src string) Cursor {
	return Cursor{src: src, line: 1, column: 1}
}

// EOF reports whether the cursor is at the end of the input
func (c Cursor) EOF() bool {
	return c.offset >= len(c.src)
}

// Offset returns the byte offset of the cursor
func (c Cursor) Offset() int {
	return c.offset
}

// Position returns the source position of the cursor
func (c Cursor) Position() ast.Position {
	return ast.Position{Offset: c.offset, Line: c.line, Column: c.column}
}

// Source returns the whole input
func (c Cursor) Source() string {
	return c.src
}

// Rest returns the unread input
func (c Cursor) Rest() string {
	return c.src[c.offset:]
}

// EOFRune is returned by Peek past the end of the input
const EOFRune rune = -1

// Peek returns the rune n positions ahead (0 = current rune), or EOFRune
// when that is past the end.
func (c Cursor) Peek(n int) rune {
	rest := c.Rest()
	for i := 0; i < n; i++ {
		if rest == "" {
			return EOFRune
		}
		_, size := utf8.DecodeRuneInString(rest)
		rest = rest[size:]
	}
	if rest == "" {
		return EOFRune
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return r
}

// Advance returns a cursor moved n runes forward, stopping at the end of
// the input
func (c Cursor) Advance(n int) Cursor {
	for i := 0; i < n && !c.EOF(); i++ {
		r, size := utf8.DecodeRuneInString(c.src[c.offset:])
		c.offset += size
		if r == '\n' {
			c.line++
			c.column = 1
		} else {
			c.column++
		}
	}
	return c
}

// Match reports whether the unread input starts with prefix
func (c Cursor) Match(prefix string) bool {
	return strings.HasPrefix(c.Rest(), prefix)
}

// MatchRegexp matches re at the cursor. re must be anchored with \A or ^.
func (c Cursor) MatchRegexp(re *regexp.Regexp) (string, bool) {
	loc := re.FindStringIndex(c.Rest())
	if loc == nil || loc[0] != 0 {
		return "", false
	}
	return c.Rest()[:loc[1]], true
}

// AdvanceBytes advances over a prefix previously returned by Match or
// MatchRegexp
func (c Cursor) AdvanceBytes(s string) Cursor {
	return c.Advance(utf8.RuneCountInString(s))
}

// Slice returns the source text between c and end
func (c Cursor) Slice(end Cursor) string {
	if end.offset < c.offset {
		return ""
	}
	return c.src[c.offset:end.offset]
}

// Fork returns an independent copy of the cursor. Commit it by assigning it
// back; discard it to backtrack.
func (c Cursor) Fork() Cursor {
	return c
}
