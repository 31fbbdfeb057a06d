package std

import (
	"context"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/lithammer/dedent"

	"github.com/msto63/posttext/foundation/posttext/printer"
)

const (
	tocItemTemplate = `<li class="std_toc__item">` +
		`<span class="std_toc__number">{{.number}}</span>` +
		`<span class="std_toc__text">{{.content}}</span>` +
		`{{if .children}}<ul class="std_toc__list">{{.children}}</ul>{{end}}` +
		`</li>`
	tocTemplate        = `<h1 class="std_toc__title">{{.title}}</h1><ul class="std_toc__list">{{.items}}</ul>`
	codeTemplate       = `<pre class="language-{{.language}}"><code>{{.code}}</code></pre>`
	blockquoteTemplate = `<blockquote class="std_blockquote">{{.content}}</blockquote>`

	plainLanguage = "text"
)

var (
	leadingNewline  = regexp.MustCompile(`^\r?\n`)
	trailingNewline = regexp.MustCompile(`\r?\n[\t ]*$`)
)

var headingElements = map[int]string{
	LevelTitle:       "h1",
	LevelSubtitle:    "h2",
	LevelSubsubtitle: "h3",
}

func resolvePostText(_ context.Context, co *printer.Co) error {
	attrs, err := printer.Attrs(co)
	if err != nil {
		return err
	}
	title, ok := attrs["title"].(string)
	if !ok {
		return nil
	}
	return printer.SetMeta(co, map[string]any{"title": title})
}

func resolveComment(context.Context, *printer.Co) error {
	return nil
}

// wrapBlock renders block 0 inside element
func wrapBlock(element string, inline bool) printer.Resolver {
	tmpl := "<" + element + ">{{.content}}</" + element + ">"
	return printer.Resolver{Resolve: func(_ context.Context, co *printer.Co) error {
		content, _, err := printer.Block(co, 0)
		if err != nil {
			return err
		}
		_, err = printer.EmitHTML(co, printer.HTML{
			Template: tmpl,
			Data:     map[string]any{"content": template.HTML(content)},
			Inline:   inline,
		})
		return err
	}}
}

// heading publishes a table of contents event during preload and renders
// the heading element
func heading(level int) printer.Resolver {
	r := wrapBlock(headingElements[level], false)
	r.Preload = func(_ context.Context, co *printer.Co) error {
		content, _, err := printer.Block(co, 0)
		if err != nil {
			return err
		}
		return printer.Publish(co, TOCTopic, Heading{Level: level, Content: content})
	}
	return r
}

func resolveParagraph(_ context.Context, co *printer.Co) error {
	units, err := printer.ChildNodes(co, 0, true)
	if err != nil {
		return err
	}
	for _, chunk := range Reflow(units) {
		co.Emit(printer.Fragment{HTML: chunk.Content})
	}
	return nil
}

func resolveBlockquote(_ context.Context, co *printer.Co) error {
	units, err := printer.ChildNodes(co, 0, true)
	if err != nil {
		return err
	}
	var sb strings.Builder
	for _, chunk := range Reflow(units) {
		sb.WriteString(chunk.Content)
	}
	_, err = printer.EmitHTML(co, printer.HTML{
		Template: blockquoteTemplate,
		Data:     map[string]any{"content": template.HTML(sb.String())},
	})
	return err
}

func (m *module) preloadCode(_ context.Context, co *printer.Co) error {
	if m.highlighter == nil {
		return nil
	}
	state, err := printer.State(co)
	if err != nil {
		return err
	}
	if loaded, _ := state["stylesheet"].(bool); loaded {
		return nil
	}
	state["stylesheet"] = true
	return printer.UseDeps(co, m.highlighter.Stylesheet())
}

func (m *module) resolveCode(_ context.Context, co *printer.Co) error {
	params, err := printer.Params(co)
	if err != nil {
		return err
	}
	language := plainLanguage
	if len(params) > 0 && params[0] != "" {
		if m.highlighter != nil && m.highlighter.Supported(params[0]) {
			language = params[0]
		} else {
			m.logger.Debug("Unsupported code language, using plain text", "language", params[0])
		}
	}

	raw, _, err := printer.Text(co, 0)
	if err != nil {
		return err
	}
	text := dedent.Dedent(raw)
	text = leadingNewline.ReplaceAllString(text, "")
	text = trailingNewline.ReplaceAllString(text, "")

	var code any = text
	if language != plainLanguage {
		highlighted, err := m.highlighter.Highlight(text, language)
		if err != nil {
			return err
		}
		code = template.HTML(highlighted)
	}

	_, err = printer.EmitHTML(co, printer.HTML{
		Template: codeTemplate,
		Data:     map[string]any{"language": language, "code": code},
	})
	return err
}

func resolveTOC(_ context.Context, co *printer.Co) error {
	items, err := printer.Drain(co, TOCTopic)
	if err != nil {
		return err
	}
	events := make([]Heading, 0, len(items))
	for _, item := range items {
		h, ok := item.(Heading)
		if !ok {
			return fmt.Errorf("std: unexpected %T on topic %s", item, TOCTopic)
		}
		events = append(events, h)
	}

	rendered, err := BuildTOC(events, func(e Entry) (string, error) {
		return printer.RenderHTML(co, tocItemTemplate, map[string]any{
			"number":   e.Number,
			"content":  template.HTML(e.Content),
			"children": template.HTML(strings.Join(e.Children, "")),
		})
	})
	if err != nil {
		return err
	}

	title, _, err := printer.Block(co, 0)
	if err != nil {
		return err
	}
	_, err = printer.EmitHTML(co, printer.HTML{
		Template: tocTemplate,
		Data: map[string]any{
			"title": template.HTML(title),
			"items": template.HTML(strings.Join(rendered, "")),
		},
	})
	return err
}
