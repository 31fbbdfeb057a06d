// File: registry.go
// Title: PostText Printer Registry
// Description: Immutable maps from tag name to resolver and from command
//              name to interpreter, assembled from modules.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-29
// Modified: 2026-09-29
//
// Change History:
// - 2026-09-29 v0.1.0: Initial registry implementation

package printer

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/msto63/posttext/foundation/posttext/ast"
)

// ResolveFunc is the body of a resolver coroutine
type ResolveFunc func(ctx context.Context, co *Co) error

// Resolver renders one tag name. Preload is optional, Resolve is required.
type Resolver struct {
	Preload ResolveFunc
	Resolve ResolveFunc
}

// InterpretFunc is the body of an interpreter coroutine. Its return value
// resumes the coroutine that yielded the command.
type InterpretFunc func(ctx context.Context, call *Call) (any, error)

// Interpreter services one command name
type Interpreter struct {
	Interpret InterpretFunc
}

// Module installs resolvers and interpreters into a builder
type Module interface {
	Register(b *Builder)
}

// ModuleFunc adapts a function to the Module interface
type ModuleFunc func(b *Builder)

// Register calls f(b)
func (f ModuleFunc) Register(b *Builder) {
	f(b)
}

// Builder collects registrations. Later registrations of a name replace
// earlier ones.
type Builder struct {
	tags         map[string]Resolver
	interpreters map[string]Interpreter
	errs         []error
}

// NewBuilder returns a builder with the printer's own interpreters
// installed
func NewBuilder() *Builder {
	b := &Builder{
		tags:         make(map[string]Resolver),
		interpreters: make(map[string]Interpreter),
	}
	registerCore(b)
	return b
}

// Tag registers the resolver of a tag name
func (b *Builder) Tag(name string, r Resolver) *Builder {
	switch {
	case !ast.IsValidIdentifier(name):
		b.errs = append(b.errs, fmt.Errorf("invalid tag name %q", name))
	case r.Resolve == nil:
		b.errs = append(b.errs, fmt.Errorf("tag %q has no resolve routine", name))
	default:
		b.tags[name] = r
	}
	return b
}

// Interpreter registers the interpreter of a command name
func (b *Builder) Interpreter(name string, fn InterpretFunc) *Builder {
	if name == "" || fn == nil {
		b.errs = append(b.errs, fmt.Errorf("invalid interpreter registration %q", name))
		return b
	}
	b.interpreters[name] = Interpreter{Interpret: fn}
	return b
}

// Use lets each module register itself
func (b *Builder) Use(mods ...Module) *Builder {
	for _, m := range mods {
		if m != nil {
			m.Register(b)
		}
	}
	return b
}

// Build freezes the registrations into a registry
func (b *Builder) Build() (*Registry, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("registry: %w", errors.Join(b.errs...))
	}

	r := &Registry{
		tags:         make(map[string]Resolver, len(b.tags)),
		interpreters: make(map[string]Interpreter, len(b.interpreters)),
	}
	for k, v := range b.tags {
		r.tags[k] = v
	}
	for k, v := range b.interpreters {
		r.interpreters[k] = v
	}
	return r, nil
}

// NewRegistry builds a registry from modules
func NewRegistry(mods ...Module) (*Registry, error) {
	return NewBuilder().Use(mods...).Build()
}

// Registry is the read-only lookup table shared by a render
type Registry struct {
	tags         map[string]Resolver
	interpreters map[string]Interpreter
}

// Resolver looks up the resolver of a tag name
func (r *Registry) Resolver(name string) (Resolver, bool) {
	res, ok := r.tags[name]
	return res, ok
}

// Interpreter looks up the interpreter of a command name
func (r *Registry) Interpreter(name string) (Interpreter, bool) {
	in, ok := r.interpreters[name]
	return in, ok
}

// Tags returns the registered tag names in lexical order
func (r *Registry) Tags() []string {
	return sortedKeys(r.tags)
}

// Commands returns the registered command names in lexical order
func (r *Registry) Commands() []string {
	return sortedKeys(r.interpreters)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
