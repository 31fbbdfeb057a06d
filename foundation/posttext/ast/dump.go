// File: dump.go
// Title: PostText AST YAML Dump
// Description: Serializes a tree into YAML for inspection and golden tests.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial YAML dump

package ast

import (
	"gopkg.in/yaml.v3"
)

type dumpIdentifier struct {
	Type string `yaml:"type"`
	Name string `yaml:"name"`
}

type dumpParameter struct {
	Type  string `yaml:"type"`
	Value string `yaml:"value"`
}

type dumpAttribute struct {
	Type  string `yaml:"type"`
	Key   string `yaml:"key"`
	Value any    `yaml:"value"`
}

type dumpTag struct {
	Type   string          `yaml:"type"`
	ID     dumpIdentifier  `yaml:"id"`
	Params []dumpParameter `yaml:"params"`
	Attrs  []dumpAttribute `yaml:"attrs"`
	Blocks []dumpBlock     `yaml:"blocks"`
}

type dumpBlock struct {
	Type    string `yaml:"type"`
	Display bool   `yaml:"display,omitempty"`
	Body    []any  `yaml:"body"`
}

type dumpText struct {
	Type  string `yaml:"type"`
	Value string `yaml:"value"`
}

type dumpDocument struct {
	Type string `yaml:"type"`
	Body []any  `yaml:"body"`
}

// Dump serializes n to YAML. Documents and blocks list their children under
// "body"; positions are left out.
func Dump(n Node) ([]byte, error) {
	return yaml.Marshal(dumpValue(n))
}

// DumpParameters serializes a parameter list on its own
func DumpParameters(params []Parameter) ([]byte, error) {
	return yaml.Marshal(dumpParams(params))
}

func dumpValue(n Node) any {
	switch n := n.(type) {
	case *Document:
		return dumpDocument{Type: KindDocument.String(), Body: dumpBody(n.Children)}
	case *Block:
		return dumpBlockValue(n)
	case *Tag:
		return dumpTagValue(n)
	case *Text:
		return dumpText{Type: KindText.String(), Value: n.Value}
	default:
		return nil
	}
}

func dumpBody(children []Node) []any {
	body := make([]any, 0, len(children))
	for _, c := range children {
		body = append(body, dumpValue(c))
	}
	return body
}

func dumpBlockValue(b *Block) dumpBlock {
	return dumpBlock{
		Type:    KindBlock.String(),
		Display: b.DisplayMode,
		Body:    dumpBody(b.Children),
	}
}

func dumpParams(params []Parameter) []dumpParameter {
	out := make([]dumpParameter, 0, len(params))
	for _, p := range params {
		out = append(out, dumpParameter{Type: "Parameter", Value: p.Value})
	}
	return out
}

func dumpTagValue(t *Tag) dumpTag {
	attrs := make([]dumpAttribute, 0, len(t.Attrs))
	for _, a := range t.Attrs {
		var value any = a.Value
		if a.Flag {
			value = true
		}
		attrs = append(attrs, dumpAttribute{Type: "Attribute", Key: a.Key, Value: value})
	}

	blocks := make([]dumpBlock, 0, len(t.Blocks))
	for _, b := range t.Blocks {
		blocks = append(blocks, dumpBlockValue(b))
	}

	return dumpTag{
		Type:   KindTag.String(),
		ID:     dumpIdentifier{Type: "Identifier", Name: t.ID.Name},
		Params: dumpParams(t.Params),
		Attrs:  attrs,
		Blocks: blocks,
	}
}
