// File: printer.go
// Title: PostText Printer
// Description: Entry point that binds a registry to renders. Each Print or
//              Execute call runs in a fresh render context.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-29
// Modified: 2026-09-30
//
// Change History:
// - 2026-09-29 v0.1.0: Initial printer
// - 2026-09-30 v0.1.1: Execute for top-level commands

package printer

import (
	"context"

	mdwlog "github.com/msto63/posttext/foundation/core/log"
	"github.com/msto63/posttext/foundation/posttext/ast"
)

// Printer renders documents against a registry
type Printer struct {
	registry *Registry
	logger   *mdwlog.Logger
}

// Options configures a printer
type Options struct {
	Logger *mdwlog.Logger
}

// New creates a printer for reg
func New(reg *Registry, opts Options) *Printer {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	return &Printer{
		registry: reg,
		logger:   opts.Logger.WithField("component", "posttext-printer"),
	}
}

// Registry returns the printer's registry
func (p *Printer) Registry() *Registry {
	return p.registry
}

// NewContext returns a fresh render context
func (p *Printer) NewContext() *Context {
	return newContext(p.registry, p.logger)
}

// Print runs the preload and render passes over doc
func (p *Printer) Print(ctx context.Context, doc *ast.Document) (*Result, error) {
	return p.NewContext().Print(ctx, doc)
}

// Execute services cmd in a fresh context and returns its result along with
// everything it emitted. Output targets use it to run their top-level
// command.
func (p *Printer) Execute(ctx context.Context, cmd Command) (any, []Data, error) {
	c := p.NewContext()
	c.logger.Debug("Executing command", mdwlog.Fields{
		"command": cmd.CommandName(),
	})

	var out []Data
	res, err := c.Dispatch(ctx, cmd, func(d Data) { out = append(out, d) })
	if err != nil {
		c.logger.WarnWithErr("Command failed", err, mdwlog.Fields{
			"command": cmd.CommandName(),
		})
		return nil, out, err
	}
	return res, out, nil
}
