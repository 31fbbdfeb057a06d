// File: printer_test.go
// Title: PostText Printer Tests
// Description: Tests for the render passes, command servicing and the core
//              interpreters.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-30
// Modified: 2026-09-30
//
// Change History:
// - 2026-09-30 v0.1.0: Initial printer tests

package printer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	mdwlog "github.com/msto63/posttext/foundation/core/log"
	"github.com/msto63/posttext/foundation/posttext/ast"
	"github.com/msto63/posttext/foundation/posttext/parser"
)

// named is an ad-hoc command used to exercise dispatch
type named string

func (n named) CommandName() string { return string(n) }

// fakeHTML returns the template unchanged
func fakeHTML(_ context.Context, call *Call) (any, error) {
	cmd, err := commandOf[HTML](call)
	if err != nil {
		return nil, err
	}
	if !cmd.NoEmit {
		call.Emit(Fragment{HTML: cmd.Template, Inline: cmd.Inline})
	}
	return cmd.Template, nil
}

// wrap renders the first block between open and close
func wrap(open, close string, inline bool) Resolver {
	return Resolver{Resolve: func(ctx context.Context, co *Co) error {
		body, _, err := Block(co, 0)
		if err != nil {
			return err
		}
		co.Emit(Fragment{HTML: open + body + close, Inline: inline})
		return nil
	}}
}

func newTestPrinter(t *testing.T, mods ...Module) *Printer {
	t.Helper()
	reg, err := NewRegistry(mods...)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return New(reg, Options{Logger: mdwlog.Discard()})
}

func mustParse(t *testing.T, src string) *ast.Document {
	t.Helper()
	doc, err := parser.New(parser.Options{Logger: mdwlog.Discard()}).Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", src, err)
	}
	return doc
}

func TestPrintEscapesText(t *testing.T) {
	p := newTestPrinter(t)
	res, err := p.Print(context.Background(), mustParse(t, "a < b & c"))
	if err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if got, want := res.HTML(), "a &lt; b &amp; c"; got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
}

func TestPrintNestedTags(t *testing.T) {
	p := newTestPrinter(t, ModuleFunc(func(b *Builder) {
		b.Tag("b", wrap("<b>", "</b>", true))
		b.Tag("p", wrap("<p>", "</p>", false))
	}))

	res, err := p.Print(context.Background(), mustParse(t, `\p{x \b{y}}`))
	if err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if got, want := res.HTML(), "<p>x <b>y</b></p>"; got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
}

func TestPrintUnknownTag(t *testing.T) {
	p := newTestPrinter(t)
	_, err := p.Print(context.Background(), mustParse(t, "ok\n  \\nope{x}"))

	var rerr *ResolutionError
	if !errors.As(err, &rerr) {
		t.Fatalf("Print() error = %v, want ResolutionError", err)
	}
	if rerr.Tag != "nope" {
		t.Errorf("Tag = %q, want nope", rerr.Tag)
	}
	if rerr.Pos.Line != 2 || rerr.Pos.Column != 3 {
		t.Errorf("Pos = %s, want 2:3", rerr.Pos)
	}
	if !strings.Contains(err.Error(), `\nope`) {
		t.Errorf("Error() = %q, should name the tag", err.Error())
	}
}

func TestMissingInterpreterResumesNil(t *testing.T) {
	p := newTestPrinter(t, ModuleFunc(func(b *Builder) {
		b.Tag("t", Resolver{Resolve: func(ctx context.Context, co *Co) error {
			res, err := co.Yield(named("nosuch"))
			if err != nil {
				return err
			}
			co.Emit(Fragment{HTML: fmt.Sprint(res)})
			return nil
		}})
	}))

	res, err := p.Print(context.Background(), mustParse(t, `\t;`))
	if err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if got := res.HTML(); got != "<nil>" {
		t.Errorf("HTML() = %q, want <nil>", got)
	}
}

func headingsModule() Module {
	return ModuleFunc(func(b *Builder) {
		b.Tag("toc", Resolver{Resolve: func(ctx context.Context, co *Co) error {
			items, err := Drain(co, "headings")
			if err != nil {
				return err
			}
			names := make([]string, len(items))
			for i, it := range items {
				names[i] = it.(string)
			}
			co.Emit(Fragment{HTML: "[" + strings.Join(names, ",") + "]"})
			return nil
		}})
		b.Tag("h", Resolver{
			Preload: func(ctx context.Context, co *Co) error {
				text, _, err := Text(co, 0)
				if err != nil {
					return err
				}
				return Publish(co, "headings", text)
			},
			Resolve: wrap("<h>", "</h>", false).Resolve,
		})
		// box has no preload routine
		b.Tag("box", wrap("<box>", "</box>", false))
	})
}

func TestPreloadPublishesBeforeRender(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "top level",
			src:  `\toc;\h{A}\h{B}`,
			want: "[A,B]<h>A</h><h>B</h>",
		},
		{
			name: "below tags without preload",
			src:  `\toc;\box{\box{\h{A}}}\h{B}`,
			want: "[A,B]<box><box><h>A</h></box></box><h>B</h>",
		},
		{
			name: "inside a preloading tag",
			src:  `\toc;\h{A\box{\h{B}}}`,
			want: "[AB,B]<h>A<box><h>B</h></box></h>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPrinter(t, headingsModule())
			res, err := p.Print(context.Background(), mustParse(t, tt.src))
			if err != nil {
				t.Fatalf("Print() error = %v", err)
			}
			if got := res.HTML(); got != tt.want {
				t.Errorf("HTML() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReceiveDrainsTopic(t *testing.T) {
	c := newContext(&Registry{}, mdwlog.Discard())
	c.Send("t", 1)
	c.Send("t", 2)

	if diff := cmp.Diff([]any{1, 2}, c.Receive("t")); diff != "" {
		t.Errorf("first Receive() mismatch (-want +got):\n%s", diff)
	}
	if got := c.Receive("t"); len(got) != 0 {
		t.Errorf("second Receive() = %v, want empty", got)
	}
}

func TestStateSharedAcrossPasses(t *testing.T) {
	p := newTestPrinter(t, ModuleFunc(func(b *Builder) {
		b.Tag("n", Resolver{
			Preload: func(ctx context.Context, co *Co) error {
				s, err := State(co)
				if err != nil {
					return err
				}
				params, err := Params(co)
				if err != nil {
					return err
				}
				s["value"] = params[0]
				return nil
			},
			Resolve: func(ctx context.Context, co *Co) error {
				s, err := State(co)
				if err != nil {
					return err
				}
				co.Emit(Fragment{HTML: fmt.Sprint(s["value"])})
				return nil
			},
		})
	}))

	res, err := p.Print(context.Background(), mustParse(t, `\n(1)\n(2)`))
	if err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if got := res.HTML(); got != "12" {
		t.Errorf("HTML() = %q, want 12", got)
	}
}

func TestBlockAbsent(t *testing.T) {
	p := newTestPrinter(t, ModuleFunc(func(b *Builder) {
		b.Tag("t", Resolver{Resolve: func(ctx context.Context, co *Co) error {
			_, ok, err := Block(co, 1)
			if err != nil {
				return err
			}
			co.Emit(Fragment{HTML: fmt.Sprint(ok)})
			return nil
		}})
	}))

	res, err := p.Print(context.Background(), mustParse(t, `\t{only}`))
	if err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if got := res.HTML(); got != "false" {
		t.Errorf("HTML() = %q, want false", got)
	}
}

func TestDepsDeduplicated(t *testing.T) {
	katex := Dependency{Type: "css", ID: "katex", Src: "https://cdn.example/katex.css"}
	p := newTestPrinter(t, ModuleFunc(func(b *Builder) {
		b.Tag("math", Resolver{Resolve: func(ctx context.Context, co *Co) error {
			return UseDeps(co, katex)
		}})
	}))

	res, err := p.Print(context.Background(), mustParse(t, `\math;\math;`))
	if err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if diff := cmp.Diff([]Dependency{katex}, res.Deps); diff != "" {
		t.Errorf("Deps mismatch (-want +got):\n%s", diff)
	}

	emitted := 0
	for _, d := range res.Fragments {
		if _, ok := d.(Dependency); ok {
			emitted++
		}
	}
	if emitted != 1 {
		t.Errorf("emitted %d dependency items, want 1", emitted)
	}
}

func TestMetadataLaterWins(t *testing.T) {
	p := newTestPrinter(t, ModuleFunc(func(b *Builder) {
		b.Tag("meta", Resolver{Resolve: func(ctx context.Context, co *Co) error {
			params, err := Params(co)
			if err != nil {
				return err
			}
			return SetMeta(co, map[string]any{params[0]: params[1]})
		}})
		b.Tag("p", wrap("<p>", "</p>", false))
	}))

	src := `\meta(title, A)\p{\meta(title, B)\meta(lang, de)}`
	res, err := p.Print(context.Background(), mustParse(t, src))
	if err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	want := map[string]any{"title": "B", "lang": "de"}
	if diff := cmp.Diff(want, res.Metadata); diff != "" {
		t.Errorf("Metadata mismatch (-want +got):\n%s", diff)
	}
	if got := res.HTML(); got != "<p></p>" {
		t.Errorf("HTML() = %q, want <p></p>", got)
	}
}

func TestHTMLCommand(t *testing.T) {
	p := newTestPrinter(t, ModuleFunc(func(b *Builder) {
		b.Interpreter(CmdHTML, fakeHTML)
		b.Tag("t", Resolver{Resolve: func(ctx context.Context, co *Co) error {
			hidden, err := RenderHTML(co, "<i>hidden</i>", nil)
			if err != nil {
				return err
			}
			_, err = EmitHTML(co, HTML{Template: "<b>" + hidden + "</b>", Inline: true})
			return err
		}})
	}))

	res, err := p.Print(context.Background(), mustParse(t, `\t;`))
	if err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	want := []Data{Fragment{HTML: "<b><i>hidden</i></b>", Inline: true}}
	if diff := cmp.Diff(want, res.Fragments); diff != "" {
		t.Errorf("Fragments mismatch (-want +got):\n%s", diff)
	}
}

func TestNestedServicingIsLIFO(t *testing.T) {
	var events []string
	mod := ModuleFunc(func(b *Builder) {
		b.Interpreter("outer", func(ctx context.Context, call *Call) (any, error) {
			events = append(events, "outer start")
			res, err := call.Yield(named("inner"))
			events = append(events, "outer end")
			return fmt.Sprintf("outer(%v)", res), err
		})
		b.Interpreter("inner", func(ctx context.Context, call *Call) (any, error) {
			events = append(events, "inner start")
			call.Emit(Fragment{HTML: "from inner"})
			events = append(events, "inner end")
			return "inner", nil
		})
	})
	p := newTestPrinter(t, mod)

	res, out, err := p.Execute(context.Background(), named("outer"))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res != "outer(inner)" {
		t.Errorf("result = %v, want outer(inner)", res)
	}
	wantEvents := []string{"outer start", "inner start", "inner end", "outer end"}
	if diff := cmp.Diff(wantEvents, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Data{Fragment{HTML: "from inner"}}, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestFailedCommandAbortsRender(t *testing.T) {
	boom := errors.New("boom")
	serviced := 0
	p := newTestPrinter(t, ModuleFunc(func(b *Builder) {
		b.Interpreter("fail", func(ctx context.Context, call *Call) (any, error) {
			return nil, boom
		})
		b.Interpreter("count", func(ctx context.Context, call *Call) (any, error) {
			serviced++
			return nil, nil
		})
		b.Tag("t", Resolver{Resolve: func(ctx context.Context, co *Co) error {
			co.Yield(named("fail"))
			_, err := co.Yield(named("count"))
			if !errors.Is(err, boom) {
				return fmt.Errorf("second yield error = %v, want boom", err)
			}
			return nil
		}})
	}))

	_, err := p.Print(context.Background(), mustParse(t, `\t;`))
	if !errors.Is(err, boom) {
		t.Fatalf("Print() error = %v, want boom", err)
	}
	if serviced != 0 {
		t.Errorf("count serviced %d times after failure", serviced)
	}
}

func TestCanceledContext(t *testing.T) {
	p := newTestPrinter(t, ModuleFunc(func(b *Builder) {
		b.Tag("t", wrap("", "", true))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Print(ctx, mustParse(t, `\t{x}`))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Print() error = %v, want context.Canceled", err)
	}
}

func TestTagCommandOutsideTag(t *testing.T) {
	p := newTestPrinter(t)
	_, _, err := p.Execute(context.Background(), GetAttrs{})
	if !errors.Is(err, ErrNoTag) {
		t.Fatalf("Execute(GetAttrs) error = %v, want ErrNoTag", err)
	}
}

func TestRenderCommandCollects(t *testing.T) {
	p := newTestPrinter(t, ModuleFunc(func(b *Builder) {
		b.Tag("b", wrap("<b>", "</b>", true))
	}))
	doc := mustParse(t, `x\b{y}`)

	res, out, err := p.Execute(context.Background(), Render{Node: doc})
	if err != nil {
		t.Fatalf("Execute(Render) error = %v", err)
	}
	if len(out) != 0 {
		t.Errorf("render surfaced %d items, want 0", len(out))
	}
	r, ok := res.(*Result)
	if !ok {
		t.Fatalf("result = %T, want *Result", res)
	}
	if got := r.HTML(); got != "x<b>y</b>" {
		t.Errorf("HTML() = %q, want x<b>y</b>", got)
	}
}

func TestResultCarriesRenderID(t *testing.T) {
	p := newTestPrinter(t)
	doc := mustParse(t, "x")

	first, err := p.Print(context.Background(), doc)
	if err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	second, err := p.Print(context.Background(), doc)
	if err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if first.RenderID == "" {
		t.Fatal("RenderID is empty")
	}
	if first.RenderID == second.RenderID {
		t.Errorf("two renders share RenderID %q", first.RenderID)
	}

	res, _, err := p.Execute(context.Background(), Render{Node: doc})
	if err != nil {
		t.Fatalf("Execute(Render) error = %v", err)
	}
	if r := res.(*Result); r.RenderID == "" || r.RenderID == first.RenderID {
		t.Errorf("Render command RenderID = %q, want a fresh id", r.RenderID)
	}
}

func TestChildNodesClassification(t *testing.T) {
	mod := ModuleFunc(func(b *Builder) {
		b.Tag("b", wrap("<b>", "</b>", true))
		b.Tag("d", wrap("<div>", "</div>", false))
	})

	block := func(display bool) *ast.Block {
		return &ast.Block{DisplayMode: display, Children: []ast.Node{
			&ast.Text{Value: "hi "},
			&ast.Tag{ID: ast.Identifier{Name: "b"}, Blocks: []*ast.Block{{Children: []ast.Node{&ast.Text{Value: "x"}}}}},
			&ast.Tag{ID: ast.Identifier{Name: "d"}, Blocks: []*ast.Block{{Children: []ast.Node{&ast.Text{Value: "y"}}}}},
		}}
	}

	tests := []struct {
		name     string
		display  bool
		override bool
		want     []Unit
	}{
		{
			name: "inline block",
			want: []Unit{
				{Kind: UnitInline, Content: "hi "},
				{Kind: UnitInline, Content: "<b>x</b>"},
				{Kind: UnitOther, Content: "<div>y</div>"},
			},
		},
		{
			name:    "display block",
			display: true,
			want: []Unit{
				{Kind: UnitText, Content: "hi "},
				{Kind: UnitInline, Content: "<b>x</b>"},
				{Kind: UnitOther, Content: "<div>y</div>"},
			},
		},
		{
			name:     "forced display",
			override: true,
			want: []Unit{
				{Kind: UnitText, Content: "hi "},
				{Kind: UnitInline, Content: "<b>x</b>"},
				{Kind: UnitOther, Content: "<div>y</div>"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []Unit
			collect := ModuleFunc(func(b *Builder) {
				b.Tag("p", Resolver{Resolve: func(ctx context.Context, co *Co) error {
					units, err := ChildNodes(co, 0, tt.override)
					got = units
					return err
				}})
			})
			p := newTestPrinter(t, mod, collect)

			doc := &ast.Document{Children: []ast.Node{
				&ast.Tag{ID: ast.Identifier{Name: "p"}, Blocks: []*ast.Block{block(tt.display)}},
			}}
			if _, err := p.Print(context.Background(), doc); err != nil {
				t.Fatalf("Print() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("units mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRegistryBuild(t *testing.T) {
	t.Run("core commands installed", func(t *testing.T) {
		reg, err := NewRegistry()
		if err != nil {
			t.Fatalf("NewRegistry() error = %v", err)
		}
		for _, name := range []string{CmdGetAttrs, CmdGetBlock, CmdSend, CmdReceive, CmdAddDeps} {
			if _, ok := reg.Interpreter(name); !ok {
				t.Errorf("interpreter %s not installed", name)
			}
		}
		if _, ok := reg.Interpreter(CmdHTML); ok {
			t.Errorf("html interpreter should come from an output target")
		}
	})

	t.Run("missing resolve", func(t *testing.T) {
		_, err := NewBuilder().Tag("x", Resolver{}).Build()
		if err == nil {
			t.Fatal("Build() should fail without resolve routine")
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		_, err := NewBuilder().Tag("9x", wrap("", "", true)).Build()
		if err == nil {
			t.Fatal("Build() should reject invalid tag names")
		}
	})

	t.Run("later registration wins", func(t *testing.T) {
		reg, err := NewBuilder().
			Tag("b", wrap("1", "", true)).
			Tag("a", wrap("", "", true)).
			Tag("b", wrap("2", "", true)).
			Build()
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if diff := cmp.Diff([]string{"a", "b"}, reg.Tags()); diff != "" {
			t.Errorf("Tags() mismatch (-want +got):\n%s", diff)
		}

		p := New(reg, Options{Logger: mdwlog.Discard()})
		res, err := p.Print(context.Background(), mustParse(t, `\b{}`))
		if err != nil {
			t.Fatalf("Print() error = %v", err)
		}
		if got := res.HTML(); got != "2" {
			t.Errorf("HTML() = %q, want 2", got)
		}
	})
}
