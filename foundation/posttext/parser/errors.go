// File: errors.go
// Title: PostText Parse Errors
// Description: Error kinds and the positioned parse error with a source
//              excerpt pointing at the failing column.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial parse error implementation

package parser

import (
	"fmt"
	"strings"

	"github.com/msto63/posttext/foundation/posttext/ast"
)

// Kind classifies a parse error. Kinds are errors themselves so that
// errors.Is(err, parser.UnterminatedBlock) works on any *Error.
type Kind int

const (
	UnterminatedTag Kind = iota + 1
	UnbalancedParens
	UnterminatedBlock
	DuplicateAttribute
	UnterminatedAttributes
	InvalidAttribute
	UnexpectedDelimiter
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case UnterminatedTag:
		return "UnterminatedTag"
	case UnbalancedParens:
		return "UnbalancedParens"
	case UnterminatedBlock:
		return "UnterminatedBlock"
	case DuplicateAttribute:
		return "DuplicateAttribute"
	case UnterminatedAttributes:
		return "UnterminatedAttributes"
	case InvalidAttribute:
		return "InvalidAttribute"
	case UnexpectedDelimiter:
		return "UnexpectedDelimiter"
	default:
		return "Unknown"
	}
}

// Error implements the error interface
func (k Kind) Error() string {
	return k.String()
}

// Error is a parse failure at a source position
type Error struct {
	Kind    Kind
	Pos     ast.Position
	Message string
	Excerpt string
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("parse error at line %d, column %d: %s (%s)",
		e.Pos.Line, e.Pos.Column, e.Message, e.Kind)
	if e.Excerpt != "" {
		msg += "\n" + e.Excerpt
	}
	return msg
}

// Unwrap exposes the kind for errors.Is
func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(c Cursor, kind Kind, format string, args ...any) *Error {
	pos := c.Position()
	return &Error{
		Kind:    kind,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
		Excerpt: excerpt(c.Source(), pos),
	}
}

// excerpt shows up to two lines before the error line and a caret under the
// failing column
func excerpt(src string, pos ast.Position) string {
	if src == "" || !pos.IsValid() {
		return ""
	}

	lines := strings.Split(src, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	start := pos.Line - 3
	if start < 0 {
		start = 0
	}

	var sb strings.Builder
	for i := start; i < pos.Line; i++ {
		prefix := "   "
		if i+1 == pos.Line {
			prefix = "-> "
		}
		fmt.Fprintf(&sb, "%s%4d | %s\n", prefix, i+1, lines[i])
	}
	sb.WriteString(strings.Repeat(" ", 3+4+3+pos.Column-1))
	sb.WriteString("^")
	return sb.String()
}
