// File: context.go
// Title: PostText Render Context
// Description: Per-render state: topic queues, per-tag scratch state and the
//              dependency collection, plus the preload and render walks.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-29
// Modified: 2026-09-30
//
// Change History:
// - 2026-09-29 v0.1.0: Initial render context
// - 2026-09-30 v0.1.1: Render ids and pass timers

package printer

import (
	"context"
	"fmt"
	"html"

	"github.com/google/uuid"

	mdwlog "github.com/msto63/posttext/foundation/core/log"
	"github.com/msto63/posttext/foundation/posttext/ast"
)

// Context holds the mutable state of one render. It is not safe for
// concurrent use; a render runs one coroutine at a time.
type Context struct {
	id       string
	registry *Registry
	logger   *mdwlog.Logger

	channels map[string][]any
	state    map[*ast.Tag]map[string]any
	deps     []Dependency
	depIDs   map[string]struct{}
	values   map[string]any
	depth    int
}

func newContext(reg *Registry, logger *mdwlog.Logger) *Context {
	id := uuid.NewString()
	return &Context{
		id:       id,
		registry: reg,
		logger:   logger.WithField("render_id", id),
		channels: make(map[string][]any),
		state:    make(map[*ast.Tag]map[string]any),
		depIDs:   make(map[string]struct{}),
		values:   make(map[string]any),
	}
}

// ID returns the render id used in log output
func (c *Context) ID() string { return c.id }

// Registry returns the registry the render resolves against
func (c *Context) Registry() *Registry { return c.registry }

// Logger returns the render logger
func (c *Context) Logger() *mdwlog.Logger { return c.logger }

// Value returns a render-wide value stored with SetValue
func (c *Context) Value(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// SetValue stores a render-wide value, e.g. a cache owned by an
// interpreter
func (c *Context) SetValue(key string, v any) {
	c.values[key] = v
}

// Send appends data to the queue of topic
func (c *Context) Send(topic string, data any) {
	c.channels[topic] = append(c.channels[topic], data)
}

// Receive returns everything queued on topic in send order and empties the
// queue
func (c *Context) Receive(topic string) []any {
	items := c.channels[topic]
	delete(c.channels, topic)
	if items == nil {
		return []any{}
	}
	return items
}

// State returns the scratch map of a tag occurrence. The same map is
// returned in both passes.
func (c *Context) State(tag *ast.Tag) map[string]any {
	s, ok := c.state[tag]
	if !ok {
		s = make(map[string]any)
		c.state[tag] = s
	}
	return s
}

// AddDeps adds dependencies whose id has not been seen and returns the
// newly added ones
func (c *Context) AddDeps(deps ...Dependency) []Dependency {
	var added []Dependency
	for _, d := range deps {
		if _, seen := c.depIDs[d.ID]; seen {
			continue
		}
		c.depIDs[d.ID] = struct{}{}
		c.deps = append(c.deps, d)
		added = append(added, d)
	}
	return added
}

// Deps returns the collected dependencies in first-seen order
func (c *Context) Deps() []Dependency {
	out := make([]Dependency, len(c.deps))
	copy(out, c.deps)
	return out
}

// Dispatch services cmd outside of any tag
func (c *Context) Dispatch(ctx context.Context, cmd Command, sink func(Data)) (any, error) {
	if sink == nil {
		sink = discard
	}
	return c.dispatch(ctx, nil, cmd, sink)
}

// Preload runs the preload routine of every tag below node in document
// order. Tags without a resolver are skipped here and reported by the
// render pass; their children are still visited.
func (c *Context) Preload(ctx context.Context, node ast.Node) error {
	var err error
	ast.Inspect(node, func(n ast.Node) bool {
		if err != nil {
			return false
		}
		tag, ok := n.(*ast.Tag)
		if !ok {
			return true
		}
		r, found := c.registry.Resolver(tag.Name())
		if found && r.Preload != nil {
			_, err = c.drive(ctx, tag, func(co *Co) (any, error) {
				return nil, r.Preload(ctx, co)
			}, discard)
		}
		return err == nil
	})
	return err
}

// Render runs the render pass over node and hands every emitted item to
// sink
func (c *Context) Render(ctx context.Context, node ast.Node, sink func(Data)) error {
	switch n := node.(type) {
	case *ast.Document:
		return c.renderAll(ctx, n.Children, sink)
	case *ast.Block:
		return c.renderAll(ctx, n.Children, sink)
	case *ast.Text:
		sink(Fragment{HTML: html.EscapeString(n.Value), Inline: true})
		return nil
	case *ast.Tag:
		return c.renderTag(ctx, n, sink)
	default:
		return fmt.Errorf("printer: cannot render %T", node)
	}
}

// Collect renders node and returns the emitted items
func (c *Context) Collect(ctx context.Context, node ast.Node) ([]Data, error) {
	var out []Data
	err := c.Render(ctx, node, func(d Data) { out = append(out, d) })
	return out, err
}

// Print runs both passes over doc
func (c *Context) Print(ctx context.Context, doc *ast.Document) (*Result, error) {
	timer := c.logger.StartTimer("preload pass")
	if err := c.Preload(ctx, doc); err != nil {
		timer.StopWithError(err)
		return nil, err
	}
	timer.Stop()

	res := newResult(c.id)
	timer = c.logger.StartTimer("render pass")
	if err := c.Render(ctx, doc, res.add); err != nil {
		timer.StopWithError(err)
		return nil, err
	}
	timer.WithField("fragments", len(res.Fragments)).Stop()

	res.Deps = c.Deps()
	return res, nil
}

func (c *Context) renderAll(ctx context.Context, nodes []ast.Node, sink func(Data)) error {
	for _, n := range nodes {
		if err := c.Render(ctx, n, sink); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) renderTag(ctx context.Context, tag *ast.Tag, sink func(Data)) error {
	r, ok := c.registry.Resolver(tag.Name())
	if !ok {
		return &ResolutionError{Tag: tag.Name(), Pos: tag.Pos}
	}
	_, err := c.drive(ctx, tag, func(co *Co) (any, error) {
		return nil, r.Resolve(ctx, co)
	}, sink)
	return err
}

func discard(Data) {}

func tagName(tag *ast.Tag) string {
	if tag == nil {
		return ""
	}
	return tag.Name()
}
