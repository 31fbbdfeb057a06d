// File: data.go
// Title: PostText Printer Data
// Description: Values surfaced by coroutines into the output stream and the
//              result of a render.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-29
// Modified: 2026-09-29
//
// Change History:
// - 2026-09-29 v0.1.0: Initial data types

package printer

import (
	"strings"
)

// Data is an item of the output stream
type Data interface {
	DataName() string
}

// Fragment is a piece of rendered html
type Fragment struct {
	HTML   string
	Inline bool
}

// Metadata carries document metadata such as the title
type Metadata struct {
	Values map[string]any
}

// Dependency is an external asset the rendered document needs
type Dependency struct {
	Type    string `yaml:"type"` // "css" or "js"
	ID      string `yaml:"id"`
	Src     string `yaml:"src"`
	Version string `yaml:"version,omitempty"`
}

func (Fragment) DataName() string   { return "html" }
func (Metadata) DataName() string   { return "metadata" }
func (Dependency) DataName() string { return "dependency" }

// UnitKind classifies a block child for paragraph reflow
type UnitKind int

const (
	// UnitText is raw text that may be split into paragraphs
	UnitText UnitKind = iota
	// UnitInline is rendered inline content
	UnitInline
	// UnitOther is rendered block content that closes any open paragraph
	UnitOther
)

// String returns the unit kind name
func (k UnitKind) String() string {
	switch k {
	case UnitText:
		return "text"
	case UnitInline:
		return "inline"
	default:
		return "other"
	}
}

// Unit is one classified child of a block
type Unit struct {
	Kind    UnitKind
	Content string
}

// Result is the output of one render pass
type Result struct {
	// Fragments holds every emitted item in document order
	Fragments []Data

	// Metadata merges all Metadata items, later keys win
	Metadata map[string]any

	// Deps is the deduplicated dependency list of the whole render
	Deps []Dependency

	// RenderID is the id of the render that produced the result, it
	// matches the render_id field of the render's log entries
	RenderID string
}

func newResult(renderID string) *Result {
	return &Result{Metadata: make(map[string]any), RenderID: renderID}
}

func (r *Result) add(d Data) {
	r.Fragments = append(r.Fragments, d)
	if m, ok := d.(Metadata); ok {
		for k, v := range m.Values {
			r.Metadata[k] = v
		}
	}
}

// HTML concatenates the html fragments
func (r *Result) HTML() string {
	return joinHTML(r.Fragments)
}

func joinHTML(items []Data) string {
	var sb strings.Builder
	for _, d := range items {
		if f, ok := d.(Fragment); ok {
			sb.WriteString(f.HTML)
		}
	}
	return sb.String()
}
