// File: doc.go
// Title: PostText Abstract Syntax Tree Package Documentation
// Description: Node types produced by the PostText parser, traversal helpers,
//              canonical source reconstruction and a YAML dump format.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial AST implementation

/*
Package ast defines the tree a PostText document is parsed into.

A Document owns an ordered list of Tag and Text nodes. A Tag has an
Identifier, ordered Parameters, ordered Attributes with unique keys and zero
or more Blocks; each Block again holds Tag and Text nodes. The tree is
finite and acyclic, every node has exactly one owner.

	\section {
	  \bold(x)[id=intro, hidden]{Hello}
	}

Tag names are only checked lexically here. Whether a tag can be rendered is
decided by the printer's registry at render time.
*/
package ast
