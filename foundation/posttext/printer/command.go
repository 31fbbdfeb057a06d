// File: command.go
// Title: PostText Printer Commands
// Description: Effect requests yielded by resolver and interpreter
//              coroutines. Each command kind is its own type; the interpreter
//              is chosen by CommandName.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-29
// Modified: 2026-09-29
//
// Change History:
// - 2026-09-29 v0.1.0: Initial command set

package printer

import (
	"github.com/msto63/posttext/foundation/posttext/ast"
)

// Command is an effect request yielded by a coroutine
type Command interface {
	CommandName() string
}

// Names of the commands serviced by the printer itself, plus the html
// command whose interpreter is provided by an output target.
const (
	CmdPreload            = "preload"
	CmdRender             = "render"
	CmdGetAttrs           = "getAttrs"
	CmdGetParams          = "getParams"
	CmdGetBlock           = "getBlock"
	CmdGetBlockChildNodes = "getBlockChildNodes"
	CmdTextContent        = "textContent"
	CmdGetState           = "getState"
	CmdSend               = "send"
	CmdReceive            = "receive"
	CmdAddDeps            = "addDeps"
	CmdMetadata           = "metadata"
	CmdHTML               = "html"
)

// Preload runs the preload pass over Node
type Preload struct {
	Node ast.Node
}

// Render runs the render pass over Node and returns a *Result
type Render struct {
	Node ast.Node
}

// GetAttrs returns the current tag's attributes as map[string]any
type GetAttrs struct{}

// GetParams returns the current tag's parameters as []string
type GetParams struct{}

// GetBlock returns the rendered html of the tag's Index-th block as a
// string, or nil when the tag has no such block
type GetBlock struct {
	Index int
}

// GetBlockChildNodes returns the children of the Index-th block as []Unit,
// pre-classified for paragraph reflow
type GetBlockChildNodes struct {
	Index       int
	DisplayMode bool
}

// TextContent returns the raw text of the Index-th block as a string
type TextContent struct {
	Index int
}

// GetState returns the scratch map of the current tag occurrence
type GetState struct{}

// Send appends Data to the queue of Topic
type Send struct {
	Topic string
	Data  any
}

// Receive drains the queue of Topic and returns it as []any
type Receive struct {
	Topic string
}

// AddDeps adds dependencies to the render-wide collection
type AddDeps struct {
	Deps []Dependency
}

// SetMetadata merges Values into the document metadata
type SetMetadata struct {
	Values map[string]any
}

// HTML renders Template with Data into a fragment and returns it as a
// string. Unless NoEmit is set the fragment is also emitted; Inline marks it
// as inline content for paragraph reflow.
type HTML struct {
	Template string
	Data     map[string]any
	Inline   bool
	NoEmit   bool
}

func (Preload) CommandName() string            { return CmdPreload }
func (Render) CommandName() string             { return CmdRender }
func (GetAttrs) CommandName() string           { return CmdGetAttrs }
func (GetParams) CommandName() string          { return CmdGetParams }
func (GetBlock) CommandName() string           { return CmdGetBlock }
func (GetBlockChildNodes) CommandName() string { return CmdGetBlockChildNodes }
func (TextContent) CommandName() string        { return CmdTextContent }
func (GetState) CommandName() string           { return CmdGetState }
func (Send) CommandName() string               { return CmdSend }
func (Receive) CommandName() string            { return CmdReceive }
func (AddDeps) CommandName() string            { return CmdAddDeps }
func (SetMetadata) CommandName() string        { return CmdMetadata }
func (HTML) CommandName() string               { return CmdHTML }
