// File: builtins.go
// Title: PostText Core Interpreters
// Description: Interpreters for the tree access, messaging, dependency and
//              metadata commands. They are installed into every registry.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-29
// Modified: 2026-09-30
//
// Change History:
// - 2026-09-29 v0.1.0: Initial core interpreters
// - 2026-09-30 v0.1.1: Child classification for paragraph reflow

package printer

import (
	"context"
	"html"

	"github.com/msto63/posttext/foundation/posttext/ast"
)

func registerCore(b *Builder) {
	b.Interpreter(CmdPreload, interpretPreload)
	b.Interpreter(CmdRender, interpretRender)
	b.Interpreter(CmdGetAttrs, interpretGetAttrs)
	b.Interpreter(CmdGetParams, interpretGetParams)
	b.Interpreter(CmdGetBlock, interpretGetBlock)
	b.Interpreter(CmdGetBlockChildNodes, interpretGetBlockChildNodes)
	b.Interpreter(CmdTextContent, interpretTextContent)
	b.Interpreter(CmdGetState, interpretGetState)
	b.Interpreter(CmdSend, interpretSend)
	b.Interpreter(CmdReceive, interpretReceive)
	b.Interpreter(CmdAddDeps, interpretAddDeps)
	b.Interpreter(CmdMetadata, interpretMetadata)
}

func interpretPreload(ctx context.Context, call *Call) (any, error) {
	cmd, err := commandOf[Preload](call)
	if err != nil {
		return nil, err
	}
	return nil, call.Env().Preload(ctx, cmd.Node)
}

// interpretRender collects the rendered items instead of surfacing them,
// the caller decides what to do with the *Result
func interpretRender(ctx context.Context, call *Call) (any, error) {
	cmd, err := commandOf[Render](call)
	if err != nil {
		return nil, err
	}
	res := newResult(call.Env().ID())
	if err := call.Env().Render(ctx, cmd.Node, res.add); err != nil {
		return nil, err
	}
	res.Deps = call.Env().Deps()
	return res, nil
}

func interpretGetAttrs(_ context.Context, call *Call) (any, error) {
	if call.Tag() == nil {
		return nil, ErrNoTag
	}
	return call.Tag().AttrMap(), nil
}

func interpretGetParams(_ context.Context, call *Call) (any, error) {
	if call.Tag() == nil {
		return nil, ErrNoTag
	}
	return call.Tag().ParamValues(), nil
}

func interpretGetBlock(ctx context.Context, call *Call) (any, error) {
	if call.Tag() == nil {
		return nil, ErrNoTag
	}
	cmd, err := commandOf[GetBlock](call)
	if err != nil {
		return nil, err
	}
	block, ok := call.Tag().Block(cmd.Index)
	if !ok {
		return nil, nil
	}

	items, err := call.Env().Collect(ctx, block)
	if err != nil {
		return nil, err
	}
	forwardNonHTML(call, items)
	return joinHTML(items), nil
}

func interpretGetBlockChildNodes(ctx context.Context, call *Call) (any, error) {
	if call.Tag() == nil {
		return nil, ErrNoTag
	}
	cmd, err := commandOf[GetBlockChildNodes](call)
	if err != nil {
		return nil, err
	}
	block, ok := call.Tag().Block(cmd.Index)
	if !ok {
		return nil, nil
	}
	display := cmd.DisplayMode || block.DisplayMode

	units := make([]Unit, 0, len(block.Children))
	for _, child := range block.Children {
		if text, ok := child.(*ast.Text); ok {
			kind := UnitInline
			if display {
				kind = UnitText
			}
			units = append(units, Unit{Kind: kind, Content: html.EscapeString(text.Value)})
			continue
		}

		items, err := call.Env().Collect(ctx, child)
		if err != nil {
			return nil, err
		}
		forwardNonHTML(call, items)
		units = append(units, Unit{Kind: classify(items), Content: joinHTML(items)})
	}
	return units, nil
}

// classify marks rendered tag output inline when all its fragments are inline
func classify(items []Data) UnitKind {
	for _, d := range items {
		if f, ok := d.(Fragment); ok && !f.Inline {
			return UnitOther
		}
	}
	return UnitInline
}

func forwardNonHTML(call *Call, items []Data) {
	for _, d := range items {
		if _, ok := d.(Fragment); !ok {
			call.Emit(d)
		}
	}
}

func interpretTextContent(_ context.Context, call *Call) (any, error) {
	if call.Tag() == nil {
		return nil, ErrNoTag
	}
	cmd, err := commandOf[TextContent](call)
	if err != nil {
		return nil, err
	}
	block, ok := call.Tag().Block(cmd.Index)
	if !ok {
		return nil, nil
	}
	return ast.TextContent(block), nil
}

func interpretGetState(_ context.Context, call *Call) (any, error) {
	if call.Tag() == nil {
		return nil, ErrNoTag
	}
	return call.Env().State(call.Tag()), nil
}

func interpretSend(_ context.Context, call *Call) (any, error) {
	cmd, err := commandOf[Send](call)
	if err != nil {
		return nil, err
	}
	call.Env().Send(cmd.Topic, cmd.Data)
	return nil, nil
}

func interpretReceive(_ context.Context, call *Call) (any, error) {
	cmd, err := commandOf[Receive](call)
	if err != nil {
		return nil, err
	}
	return call.Env().Receive(cmd.Topic), nil
}

func interpretAddDeps(_ context.Context, call *Call) (any, error) {
	cmd, err := commandOf[AddDeps](call)
	if err != nil {
		return nil, err
	}
	for _, d := range call.Env().AddDeps(cmd.Deps...) {
		call.Emit(d)
	}
	return nil, nil
}

func interpretMetadata(_ context.Context, call *Call) (any, error) {
	cmd, err := commandOf[SetMetadata](call)
	if err != nil {
		return nil, err
	}
	values := make(map[string]any, len(cmd.Values))
	for k, v := range cmd.Values {
		values[k] = v
	}
	call.Emit(Metadata{Values: values})
	return nil, nil
}
