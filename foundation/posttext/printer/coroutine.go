// File: coroutine.go
// Title: PostText Printer Coroutines
// Description: Suspendable resolver and interpreter routines built on
//              iter.Pull, and the driver loop that services their commands.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-29
// Modified: 2026-09-30
//
// Change History:
// - 2026-09-29 v0.1.0: Initial coroutine driver
// - 2026-09-30 v0.1.1: Stop servicing commands after the first failure

package printer

import (
	"context"
	"errors"
	"iter"

	mdwlog "github.com/msto63/posttext/foundation/core/log"
	"github.com/msto63/posttext/foundation/posttext/ast"
)

// ErrStopped is returned from Co.Yield once the driver has given up on the
// coroutine
var ErrStopped = errors.New("printer: coroutine stopped")

// step is one item surfaced by a coroutine: either a command or data
type step struct {
	cmd  Command
	data Data
}

// Co is the handle a running routine uses to talk to its driver
type Co struct {
	yield  func(step) bool
	result any
	err    error
}

// Yield suspends the routine until cmd has been serviced and returns the
// interpreter's result
func (co *Co) Yield(cmd Command) (any, error) {
	if cmd == nil {
		return nil, errors.New("printer: nil command")
	}
	if !co.yield(step{cmd: cmd}) {
		return nil, ErrStopped
	}
	res, err := co.result, co.err
	co.result, co.err = nil, nil
	return res, err
}

// Emit surfaces d into the output stream of the routine's caller
func (co *Co) Emit(d Data) {
	if d == nil {
		return
	}
	co.yield(step{data: d})
}

// Call is the handle of a running interpreter
type Call struct {
	*Co
	env *Context
	tag *ast.Tag
	cmd Command
}

// Command returns the command being serviced
func (c *Call) Command() Command { return c.cmd }

// Tag returns the tag on whose behalf the command was yielded, nil for
// commands issued outside any resolver
func (c *Call) Tag() *ast.Tag { return c.tag }

// Env returns the render context
func (c *Call) Env() *Context { return c.env }

// routine is the body driven by drive
type routine func(co *Co) (any, error)

// drive runs fn as a coroutine until it finishes. Data goes to sink,
// commands are dispatched and their results resume fn. After the first
// failed command no further commands are serviced; the failure is resumed
// into fn and returned once fn is done.
func (c *Context) drive(ctx context.Context, tag *ast.Tag, fn routine, sink func(Data)) (any, error) {
	co := &Co{}

	var (
		ret    any
		retErr error
	)
	next, stop := iter.Pull(func(yield func(step) bool) {
		co.yield = yield
		ret, retErr = fn(co)
	})
	defer stop()

	var failed error
	for {
		s, ok := next()
		if !ok {
			break
		}

		if s.data != nil {
			sink(s.data)
			continue
		}

		if failed == nil {
			failed = ctx.Err()
		}
		if failed != nil {
			co.result, co.err = nil, failed
			continue
		}

		res, err := c.dispatch(ctx, tag, s.cmd, sink)
		if err != nil {
			failed = err
		}
		co.result, co.err = res, err
	}

	if failed != nil {
		return nil, failed
	}
	return ret, retErr
}

// dispatch services one command. The interpreter's own data goes to sink,
// so it surfaces where the yielding routine's data would.
func (c *Context) dispatch(ctx context.Context, tag *ast.Tag, cmd Command, sink func(Data)) (any, error) {
	name := cmd.CommandName()
	in, ok := c.registry.Interpreter(name)
	if !ok {
		c.logger.Debug("No interpreter installed", mdwlog.Fields{
			"command": name,
		})
		return nil, nil
	}

	c.depth++
	defer func() { c.depth-- }()

	c.logger.Trace("Servicing command", mdwlog.Fields{
		"command": name,
		"depth":   c.depth,
		"tag":     tagName(tag),
	})

	call := &Call{env: c, tag: tag, cmd: cmd}
	return c.drive(ctx, tag, func(co *Co) (any, error) {
		call.Co = co
		return in.Interpret(ctx, call)
	}, sink)
}
