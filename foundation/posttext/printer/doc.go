// File: doc.go
// Title: PostText Printer Package Documentation
// Description: The interpreter engine that renders a parsed document through
//              per-tag resolver coroutines and per-command interpreters.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-29
// Modified: 2026-09-29
//
// Change History:
// - 2026-09-29 v0.1.0: Initial printer implementation

/*
Package printer renders a PostText document.

Rendering is effect based. Every tag name maps to a Resolver with an optional
Preload and a mandatory Resolve routine. Both run as coroutines: they suspend
by yielding a Command, for example to get the rendered first block, and are
resumed with the result. Commands are serviced by
Interpreters looked up by command name; interpreters are coroutines too and
may yield further commands, so servicing recurses on one call stack. Exactly
one coroutine runs at any time.

A render has two passes over the tree. The preload pass runs every Preload
routine in document order and lets tags publish data on topics; the render
pass runs every Resolve routine and collects the emitted fragments. Anything
sent during preload can be received during render, whatever the source order.

	reg, err := printer.NewRegistry(std.Module(), web.Module(opts))
	p := printer.New(reg, printer.Options{})
	res, err := p.Print(ctx, doc)
	fmt.Println(res.HTML())

A command without an installed interpreter resumes the caller with a nil
result. A tag without a resolver fails the render with a ResolutionError.
*/
package printer
