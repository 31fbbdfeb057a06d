// File: parser.go
// Title: PostText Recursive Descent Parser
// Description: Converts PostText source text into an AST. Every parse
//              function takes a cursor and returns the node together with
//              the cursor after it, so callers can parse fragments (a tag, a
//              parameter list) on their own. Any error aborts the parse; no
//              partial tree is returned.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial parser implementation

package parser

import (
	"fmt"
	"regexp"
	"strings"

	mdwlog "github.com/msto63/posttext/foundation/core/log"
	"github.com/msto63/posttext/foundation/posttext/ast"
)

var identRe = regexp.MustCompile(`\A[A-Za-z_][A-Za-z0-9_]*`)

// Parser implements recursive descent parsing for PostText
type Parser struct {
	logger  *mdwlog.Logger
	options Options
}

// Options configures parser behavior
type Options struct {
	Logger *mdwlog.Logger

	// MaxInputLength limits the source size in bytes (0 = unlimited)
	MaxInputLength int
}

// New creates a new parser with the given options
func New(opts Options) *Parser {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}

	return &Parser{
		logger:  opts.Logger.WithField("component", "posttext-parser"),
		options: opts,
	}
}

// Parse parses src with a default parser
func Parse(src string) (*ast.Document, error) {
	return New(Options{}).Parse(src)
}

// Parse parses a whole source text
func (p *Parser) Parse(src string) (*ast.Document, error) {
	if p.options.MaxInputLength > 0 && len(src) > p.options.MaxInputLength {
		return nil, fmt.Errorf("input exceeds maximum length: %d > %d",
			len(src), p.options.MaxInputLength)
	}

	p.logger.Debug("Starting PostText parsing", mdwlog.Fields{
		"length": len(src),
	})

	doc, _, err := p.ParseDocument(NewCursor(src))
	if err != nil {
		p.logger.Warn("PostText parsing failed", mdwlog.Fields{
			"error": err.Error(),
		})
		return nil, err
	}

	p.logger.Debug("PostText parsing completed", mdwlog.Fields{
		"nodes": len(doc.Children),
		"tags":  len(ast.Tags(doc)),
	})

	return doc, nil
}

// ParseDocument parses items up to the end of the input. A closing brace
// without a matching block is an error.
func (p *Parser) ParseDocument(c Cursor) (*ast.Document, Cursor, error) {
	pos := c.Position()

	items, c, err := p.parseItems(c)
	if err != nil {
		return nil, c, err
	}

	if !c.EOF() {
		return nil, c, newError(c, UnexpectedDelimiter, "%q closes no block", c.Peek(0))
	}

	return &ast.Document{Children: items, Pos: pos}, c, nil
}

// parseItems parses tags and text runs, each optionally terminated by ';',
// until the end of the input or an unconsumed '}'
func (p *Parser) parseItems(c Cursor) ([]ast.Node, Cursor, error) {
	var items []ast.Node

	for !c.EOF() {
		switch r := c.Peek(0); {
		case r == '}':
			return items, c, nil

		case r == ';':
			c = c.Advance(1)

		case r == '\\' && !isEscapable(c.Peek(1)):
			tag, next, err := p.ParseTag(c)
			if err != nil {
				return nil, c, err
			}
			items = append(items, tag)
			c = next

		default:
			text, next, err := p.parseText(c)
			if err != nil {
				return nil, c, err
			}
			items = append(items, text)
			c = next
		}
	}

	return items, c, nil
}

// parseText reads a text run up to an unescaped '\', ';' or '}'
func (p *Parser) parseText(c Cursor) (*ast.Text, Cursor, error) {
	pos := c.Position()
	var sb strings.Builder

loop:
	for !c.EOF() {
		r := c.Peek(0)
		switch r {
		case '\\':
			next := c.Peek(1)
			if !isEscapable(next) {
				break loop
			}
			sb.WriteRune(next)
			c = c.Advance(2)

		case ';', '}':
			break loop

		case '{':
			return nil, c, newError(c, UnexpectedDelimiter, `unescaped "{" in text, write "\{" for a literal brace`)

		default:
			sb.WriteRune(r)
			c = c.Advance(1)
		}
	}

	return &ast.Text{Value: sb.String(), Pos: pos}, c, nil
}

// ParseTag parses \name, an optional parameter list, an optional attribute
// list and any number of blocks. A trailing ';' is consumed.
func (p *Parser) ParseTag(c Cursor) (*ast.Tag, Cursor, error) {
	start := c
	if !c.Match(`\`) {
		return nil, c, newError(c, UnterminatedTag, `expected "\" to start a tag`)
	}
	c = c.Advance(1)

	identPos := c.Position()
	name, ok := c.MatchRegexp(identRe)
	if !ok {
		return nil, c, newError(c, UnterminatedTag, `"\" must be followed by a tag name or one of %s`, ast.Escapable)
	}
	c = c.AdvanceBytes(name)

	tag := &ast.Tag{
		ID:  ast.Identifier{Name: name, Pos: identPos},
		Pos: start.Position(),
	}

	var err error
	if c.Match("(") {
		if tag.Params, c, err = p.ParseParameters(c); err != nil {
			return nil, c, err
		}
	}

	if c.Match("[") {
		if tag.Attrs, c, err = p.ParseAttributes(c); err != nil {
			return nil, c, err
		}
	}

	for {
		fork := skipSpace(c.Fork())
		if !fork.Match("{") {
			break
		}
		block, next, err := p.ParseBlock(fork)
		if err != nil {
			return nil, next, err
		}
		tag.Blocks = append(tag.Blocks, block)
		c = next
	}

	if c.Match(";") {
		c = c.Advance(1)
	}

	return tag, c, nil
}

// ParseParameters parses a parenthesized, comma-separated list of literal
// values. Values are trimmed; "()" is an empty list.
func (p *Parser) ParseParameters(c Cursor) ([]ast.Parameter, Cursor, error) {
	open := c
	if !c.Match("(") {
		return nil, c, newError(c, UnbalancedParens, `expected "(" to start a parameter list`)
	}
	c = c.Advance(1)

	var (
		params []ast.Parameter
		sb     strings.Builder
		pos    = c.Position()
	)

	for {
		if c.EOF() {
			return nil, c, newError(open, UnbalancedParens, "parameter list is not closed")
		}

		switch r := c.Peek(0); r {
		case '\\':
			if next := c.Peek(1); isEscapable(next) {
				sb.WriteRune(next)
				c = c.Advance(2)
				continue
			}
			sb.WriteRune(r)
			c = c.Advance(1)

		case ',':
			params = append(params, ast.Parameter{Value: strings.TrimSpace(sb.String()), Pos: pos})
			sb.Reset()
			c = c.Advance(1)
			pos = c.Position()

		case ')':
			if last := strings.TrimSpace(sb.String()); last != "" || len(params) > 0 {
				params = append(params, ast.Parameter{Value: last, Pos: pos})
			}
			return params, c.Advance(1), nil

		default:
			sb.WriteRune(r)
			c = c.Advance(1)
		}
	}
}

// ParseAttributes parses [key=value, flag, key="quoted, value"]. Keys are
// identifiers and must be unique.
func (p *Parser) ParseAttributes(c Cursor) ([]ast.Attribute, Cursor, error) {
	open := c
	if !c.Match("[") {
		return nil, c, newError(c, UnterminatedAttributes, `expected "[" to start an attribute list`)
	}
	c = c.Advance(1)

	var attrs []ast.Attribute
	seen := make(map[string]bool)

	for {
		c = skipSpace(c)
		if c.EOF() {
			return nil, c, newError(open, UnterminatedAttributes, "attribute list is not closed")
		}
		if c.Match("]") {
			return attrs, c.Advance(1), nil
		}

		keyCursor := c
		key, ok := c.MatchRegexp(identRe)
		if !ok {
			return nil, c, newError(c, InvalidAttribute, "attribute key must be an identifier")
		}
		if seen[key] {
			return nil, c, newError(keyCursor, DuplicateAttribute, "attribute %q is set twice", key)
		}
		seen[key] = true
		c = skipSpace(c.AdvanceBytes(key))

		attr := ast.Attribute{Key: key, Pos: keyCursor.Position()}
		if c.Match("=") {
			value, next, err := p.parseAttributeValue(skipSpace(c.Advance(1)), open)
			if err != nil {
				return nil, next, err
			}
			attr.Value = value
			c = next
		} else {
			attr.Flag = true
		}
		attrs = append(attrs, attr)

		c = skipSpace(c)
		switch {
		case c.Match(","):
			c = c.Advance(1)
		case c.Match("]"), c.EOF():
		default:
			return nil, c, newError(c, InvalidAttribute, `expected "," or "]" after attribute %q`, key)
		}
	}
}

func (p *Parser) parseAttributeValue(c Cursor, open Cursor) (string, Cursor, error) {
	var sb strings.Builder

	if c.Match(`"`) {
		c = c.Advance(1)
		for {
			if c.EOF() {
				return "", c, newError(open, UnterminatedAttributes, "quoted attribute value is not closed")
			}
			switch r := c.Peek(0); r {
			case '\\':
				if next := c.Peek(1); next != EOFRune {
					sb.WriteRune(next)
					c = c.Advance(2)
					continue
				}
				c = c.Advance(1)
			case '"':
				return sb.String(), c.Advance(1), nil
			default:
				sb.WriteRune(r)
				c = c.Advance(1)
			}
		}
	}

	for !c.EOF() {
		r := c.Peek(0)
		if r == ',' || r == ']' {
			break
		}
		if r == '\\' && c.Peek(1) != EOFRune {
			sb.WriteRune(c.Peek(1))
			c = c.Advance(2)
			continue
		}
		sb.WriteRune(r)
		c = c.Advance(1)
	}
	return strings.TrimSpace(sb.String()), c, nil
}

// ParseBlock parses one {...} group as a nested document body
func (p *Parser) ParseBlock(c Cursor) (*ast.Block, Cursor, error) {
	open := c
	if !c.Match("{") {
		return nil, c, newError(c, UnterminatedBlock, `expected "{" to start a block`)
	}
	c = c.Advance(1)

	block := &ast.Block{
		DisplayMode: startsOnNewLine(c),
		Pos:         open.Position(),
	}

	items, c, err := p.parseItems(c)
	if err != nil {
		return nil, c, err
	}
	if !c.Match("}") {
		return nil, c, newError(open, UnterminatedBlock, "block is not closed")
	}

	block.Children = items
	return block, c.Advance(1), nil
}

func isEscapable(r rune) bool {
	return r != EOFRune && strings.ContainsRune(ast.Escapable, r)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func skipSpace(c Cursor) Cursor {
	for !c.EOF() && isSpace(c.Peek(0)) {
		c = c.Advance(1)
	}
	return c
}

// startsOnNewLine reports whether only horizontal whitespace separates the
// cursor from the next line break
func startsOnNewLine(c Cursor) bool {
	for !c.EOF() {
		switch c.Peek(0) {
		case ' ', '\t', '\r':
			c = c.Advance(1)
		case '\n':
			return true
		default:
			return false
		}
	}
	return false
}
