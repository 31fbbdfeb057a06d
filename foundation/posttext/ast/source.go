// File: source.go
// Title: PostText Canonical Source
// Description: Reconstructs source text from a tree. Parsing the result
//              yields an equivalent tree (positions aside).
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial source writer

package ast

import (
	"strings"
)

// Escapable lists the characters that a backslash turns into literal text
const Escapable = `\{}(),;`

// Source returns canonical source text for n. Every tag is terminated with
// ';' so that following text can never be read as part of the tag.
func Source(n Node) string {
	var sb strings.Builder
	writeNode(&sb, n)
	return sb.String()
}

func writeNode(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Document:
		writeItems(sb, n.Children)
	case *Block:
		sb.WriteByte('{')
		writeItems(sb, n.Children)
		sb.WriteByte('}')
	case *Tag:
		writeTag(sb, n)
	case *Text:
		sb.WriteString(EscapeText(n.Value))
	}
}

func writeItems(sb *strings.Builder, items []Node) {
	for i, item := range items {
		writeNode(sb, item)
		switch item.(type) {
		case *Tag:
			sb.WriteByte(';')
		case *Text:
			// adjacent text nodes would merge into one
			if i+1 < len(items) && items[i+1].Kind() == KindText {
				sb.WriteByte(';')
			}
		}
	}
}

func writeTag(sb *strings.Builder, t *Tag) {
	sb.WriteByte('\\')
	sb.WriteString(t.ID.Name)

	if len(t.Params) > 0 {
		sb.WriteByte('(')
		for i, p := range t.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(EscapeText(p.Value))
		}
		sb.WriteByte(')')
	}

	if len(t.Attrs) > 0 {
		sb.WriteByte('[')
		for i, a := range t.Attrs {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.Key)
			if !a.Flag {
				sb.WriteString(`="`)
				sb.WriteString(strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(a.Value))
				sb.WriteByte('"')
			}
		}
		sb.WriteByte(']')
	}

	for _, b := range t.Blocks {
		writeNode(sb, b)
	}
}

// EscapeText prefixes every escapable character with a backslash
func EscapeText(s string) string {
	if !strings.ContainsAny(s, Escapable) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 8)
	for _, r := range s {
		if strings.ContainsRune(Escapable, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
