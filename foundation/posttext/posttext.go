// File: posttext.go
// Title: PostText High-Level Compiler Interface
// Description: Integrates parser and printer behind one compiler type that
//              turns source text into a render result.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-30
// Modified: 2026-09-30
//
// Change History:
// - 2026-09-30 v0.1.0: Initial compiler facade

package posttext

import (
	"context"
	"fmt"

	mdwerror "github.com/msto63/posttext/foundation/core/error"
	mdwlog "github.com/msto63/posttext/foundation/core/log"
	"github.com/msto63/posttext/foundation/posttext/ast"
	"github.com/msto63/posttext/foundation/posttext/parser"
	"github.com/msto63/posttext/foundation/posttext/printer"
	"github.com/msto63/posttext/foundation/utils/stringx"
)

// Compiler parses and renders PostText documents
type Compiler struct {
	parser  *parser.Parser
	printer *printer.Printer
	logger  *mdwlog.Logger
	options Options
}

// Options configures the compiler
type Options struct {
	Logger *mdwlog.Logger

	// Modules are installed into the registry in order
	Modules []printer.Module

	// Registry replaces the registry built from Modules
	Registry *printer.Registry

	// MaxInputLength limits the source size in bytes (0 = unlimited)
	MaxInputLength int
}

// New creates a compiler
func New(opts Options) (*Compiler, error) {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	logger := opts.Logger.WithField("component", "posttext-compiler")

	if opts.Registry == nil {
		reg, err := printer.NewRegistry(opts.Modules...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostText registry: %w", err)
		}
		opts.Registry = reg
	}

	c := &Compiler{
		parser: parser.New(parser.Options{
			Logger:         opts.Logger,
			MaxInputLength: opts.MaxInputLength,
		}),
		printer: printer.New(opts.Registry, printer.Options{Logger: opts.Logger}),
		logger:  logger,
		options: opts,
	}

	logger.Debug("PostText compiler initialized", mdwlog.Fields{
		"tags":     len(opts.Registry.Tags()),
		"commands": len(opts.Registry.Commands()),
	})
	return c, nil
}

// Parse parses src into a document
func (c *Compiler) Parse(src string) (*ast.Document, error) {
	doc, err := c.parser.Parse(src)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse PostText source").
			WithCode(mdwerror.CodeSyntax).
			WithOperation("parse")
	}
	return doc, nil
}

// Compile parses src and runs both render passes
func (c *Compiler) Compile(ctx context.Context, src string) (*printer.Result, error) {
	c.logger.Debug("Compiling PostText source", mdwlog.Fields{
		"preview": stringx.Truncate(src, 40, "…"),
	})

	doc, err := c.Parse(src)
	if err != nil {
		return nil, err
	}
	return c.printer.Print(ctx, doc)
}

// Execute services a top-level command such as an output target's print
// command
func (c *Compiler) Execute(ctx context.Context, cmd printer.Command) (any, []printer.Data, error) {
	return c.printer.Execute(ctx, cmd)
}

// Registry returns the compiler's registry
func (c *Compiler) Registry() *printer.Registry {
	return c.printer.Registry()
}

// Validate checks that src parses
func (c *Compiler) Validate(src string) error {
	_, err := c.Parse(src)
	return err
}
