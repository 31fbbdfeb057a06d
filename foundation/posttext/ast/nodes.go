// File: nodes.go
// Title: PostText AST Node Definitions
// Description: Defines the document, block, tag and text nodes together with
//              the identifier, parameter and attribute parts of a tag.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial AST node definitions

package ast

import (
	"fmt"
)

// Node represents the base interface for all tree nodes
type Node interface {
	// Kind reports the node type
	Kind() Kind

	// Position returns the source position of the node
	Position() Position
}

// Kind identifies the concrete node type
type Kind int

const (
	KindDocument Kind = iota
	KindBlock
	KindTag
	KindText
)

// String returns the node type name used in dumps
func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "Document"
	case KindBlock:
		return "Block"
	case KindTag:
		return "Tag"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Position represents a position in the source text
type Position struct {
	Offset int // Byte offset (0-based)
	Line   int // Line number (1-based)
	Column int // Column number (1-based, in runes)
}

// String returns "line:column"
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether the position was set by the parser
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Document is the root of a parsed source text
type Document struct {
	Children []Node
	Pos      Position
}

// Block is one {...} group of a tag
type Block struct {
	// DisplayMode is set when the block body starts on a new line.
	// Paragraph splitting only applies to display blocks.
	DisplayMode bool
	Children    []Node
	Pos         Position
}

// Tag is a \name(params)[attrs]{blocks} construct
type Tag struct {
	ID     Identifier
	Params []Parameter
	Attrs  []Attribute
	Blocks []*Block
	Pos    Position
}

// Identifier is the name of a tag
type Identifier struct {
	Name string
	Pos  Position
}

// Parameter is one literal value of a tag's parameter list
type Parameter struct {
	Value string
	Pos   Position
}

// Attribute is one key of a tag's attribute list. A bare key is a flag, its
// Value is empty and Flag is true.
type Attribute struct {
	Key   string
	Value string
	Flag  bool
	Pos   Position
}

// Text is literal text with escapes already resolved
type Text struct {
	Value string
	Pos   Position
}

func (*Document) Kind() Kind { return KindDocument }
func (*Block) Kind() Kind    { return KindBlock }
func (*Tag) Kind() Kind      { return KindTag }
func (*Text) Kind() Kind     { return KindText }

func (n *Document) Position() Position { return n.Pos }
func (n *Block) Position() Position    { return n.Pos }
func (n *Tag) Position() Position      { return n.Pos }
func (n *Text) Position() Position     { return n.Pos }

// Name returns the tag name
func (t *Tag) Name() string {
	return t.ID.Name
}

// Block returns the index-th block of the tag
func (t *Tag) Block(index int) (*Block, bool) {
	if index < 0 || index >= len(t.Blocks) {
		return nil, false
	}
	return t.Blocks[index], true
}

// ParamValues returns the parameter values in order
func (t *Tag) ParamValues() []string {
	values := make([]string, len(t.Params))
	for i, p := range t.Params {
		values[i] = p.Value
	}
	return values
}

// Attr looks up an attribute by key
func (t *Tag) Attr(key string) (Attribute, bool) {
	for _, a := range t.Attrs {
		if a.Key == key {
			return a, true
		}
	}
	return Attribute{}, false
}

// AttrMap returns the attributes as a map. Values are strings, flags map to
// the boolean true.
func (t *Tag) AttrMap() map[string]any {
	m := make(map[string]any, len(t.Attrs))
	for _, a := range t.Attrs {
		if a.Flag {
			m[a.Key] = true
			continue
		}
		m[a.Key] = a.Value
	}
	return m
}

// String returns a short description for logs and errors
func (t *Tag) String() string {
	return fmt.Sprintf(`\%s at %s`, t.ID.Name, t.Pos)
}

// IsIdentStart reports whether r may start an identifier
func IsIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// IsIdentPart reports whether r may continue an identifier
func IsIdentPart(r rune) bool {
	return IsIdentStart(r) || (r >= '0' && r <= '9')
}

// IsValidIdentifier reports whether name matches [A-Za-z_][A-Za-z0-9_]*
func IsValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 && !IsIdentStart(r) {
			return false
		}
		if !IsIdentPart(r) {
			return false
		}
	}
	return true
}
