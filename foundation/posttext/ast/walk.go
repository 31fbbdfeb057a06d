// File: walk.go
// Title: PostText AST Traversal
// Description: Depth-first traversal helpers over the node tree.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial traversal helpers

package ast

import (
	"strings"
)

// Children returns the direct child nodes. The blocks of a tag are its
// children; text has none.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Document:
		return n.Children
	case *Block:
		return n.Children
	case *Tag:
		nodes := make([]Node, len(n.Blocks))
		for i, b := range n.Blocks {
			nodes[i] = b
		}
		return nodes
	default:
		return nil
	}
}

// Inspect traverses the tree in depth-first pre-order. If f returns false
// the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// Tags returns every tag of the tree in document order
func Tags(n Node) []*Tag {
	var tags []*Tag
	Inspect(n, func(n Node) bool {
		if t, ok := n.(*Tag); ok {
			tags = append(tags, t)
		}
		return true
	})
	return tags
}

// TextContent concatenates the raw text of all text nodes below n, dropping
// the markup of nested tags.
func TextContent(n Node) string {
	var sb strings.Builder
	Inspect(n, func(n Node) bool {
		if t, ok := n.(*Text); ok {
			sb.WriteString(t.Value)
		}
		return true
	})
	return sb.String()
}
