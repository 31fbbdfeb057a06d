// File: helpers.go
// Title: PostText Resolver Helpers
// Description: Typed wrappers that yield a command and convert its result.
//              A nil result, as produced for commands without an installed
//              interpreter, converts to the zero value.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-30
// Modified: 2026-09-30
//
// Change History:
// - 2026-09-30 v0.1.0: Initial helper set

package printer

// Attrs returns the attributes of the current tag
func Attrs(co *Co) (map[string]any, error) {
	res, err := co.Yield(GetAttrs{})
	if err != nil || res == nil {
		return map[string]any{}, err
	}
	m, ok := res.(map[string]any)
	if !ok {
		return nil, invalidResult(CmdGetAttrs, res, "map[string]any")
	}
	return m, nil
}

// Params returns the parameters of the current tag
func Params(co *Co) ([]string, error) {
	res, err := co.Yield(GetParams{})
	if err != nil || res == nil {
		return nil, err
	}
	p, ok := res.([]string)
	if !ok {
		return nil, invalidResult(CmdGetParams, res, "[]string")
	}
	return p, nil
}

// Block returns the rendered html of the index-th block. The boolean is
// false when the tag has no such block.
func Block(co *Co, index int) (string, bool, error) {
	return stringResult(co, GetBlock{Index: index})
}

// Text returns the raw text of the index-th block
func Text(co *Co, index int) (string, bool, error) {
	return stringResult(co, TextContent{Index: index})
}

// ChildNodes returns the classified children of the index-th block
func ChildNodes(co *Co, index int, displayMode bool) ([]Unit, error) {
	res, err := co.Yield(GetBlockChildNodes{Index: index, DisplayMode: displayMode})
	if err != nil || res == nil {
		return nil, err
	}
	units, ok := res.([]Unit)
	if !ok {
		return nil, invalidResult(CmdGetBlockChildNodes, res, "[]Unit")
	}
	return units, nil
}

// State returns the scratch map of the current tag occurrence
func State(co *Co) (map[string]any, error) {
	res, err := co.Yield(GetState{})
	if err != nil || res == nil {
		return map[string]any{}, err
	}
	m, ok := res.(map[string]any)
	if !ok {
		return nil, invalidResult(CmdGetState, res, "map[string]any")
	}
	return m, nil
}

// Publish sends data on topic
func Publish(co *Co, topic string, data any) error {
	_, err := co.Yield(Send{Topic: topic, Data: data})
	return err
}

// Drain receives everything queued on topic
func Drain(co *Co, topic string) ([]any, error) {
	res, err := co.Yield(Receive{Topic: topic})
	if err != nil || res == nil {
		return nil, err
	}
	items, ok := res.([]any)
	if !ok {
		return nil, invalidResult(CmdReceive, res, "[]any")
	}
	return items, nil
}

// UseDeps registers dependencies of the current tag
func UseDeps(co *Co, deps ...Dependency) error {
	_, err := co.Yield(AddDeps{Deps: deps})
	return err
}

// SetMeta merges values into the document metadata
func SetMeta(co *Co, values map[string]any) error {
	_, err := co.Yield(SetMetadata{Values: values})
	return err
}

// EmitHTML yields an html command and returns the rendered fragment
func EmitHTML(co *Co, cmd HTML) (string, error) {
	res, err := co.Yield(cmd)
	if err != nil || res == nil {
		return "", err
	}
	s, ok := res.(string)
	if !ok {
		return "", invalidResult(CmdHTML, res, "string")
	}
	return s, nil
}

// RenderHTML renders a template without emitting it
func RenderHTML(co *Co, template string, data map[string]any) (string, error) {
	cmd := HTML{Template: template, Data: data, NoEmit: true}
	return EmitHTML(co, cmd)
}

func stringResult(co *Co, cmd Command) (string, bool, error) {
	res, err := co.Yield(cmd)
	if err != nil || res == nil {
		return "", false, err
	}
	s, ok := res.(string)
	if !ok {
		return "", false, invalidResult(cmd.CommandName(), res, "string")
	}
	return s, true, nil
}
