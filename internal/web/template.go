package web

import (
	"context"
	"html/template"
	"strings"

	mdwerror "github.com/msto63/posttext/foundation/core/error"
	"github.com/msto63/posttext/foundation/posttext/printer"
)

const templateCacheKey = "web.templates"

// interpretHTML renders an html command with html/template. Values of type
// template.HTML are inserted unescaped.
func interpretHTML(_ context.Context, call *printer.Call) (any, error) {
	cmd, ok := call.Command().(printer.HTML)
	if !ok {
		return nil, invalidPayload(call)
	}

	tmpl, err := cachedTemplate(call.Env(), cmd.Template)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, cmd.Data); err != nil {
		return nil, mdwerror.Wrap(err, "failed to render template").
			WithCode(mdwerror.CodeTemplate).
			WithOperation("web.html")
	}

	out := sb.String()
	if !cmd.NoEmit {
		call.Emit(printer.Fragment{HTML: out, Inline: cmd.Inline})
	}
	return out, nil
}

// cachedTemplate parses src once per render
func cachedTemplate(env *printer.Context, src string) (*template.Template, error) {
	var cache map[string]*template.Template
	if v, ok := env.Value(templateCacheKey); ok {
		cache = v.(map[string]*template.Template)
	} else {
		cache = make(map[string]*template.Template)
		env.SetValue(templateCacheKey, cache)
	}

	if tmpl, ok := cache[src]; ok {
		return tmpl, nil
	}

	tmpl, err := template.New("fragment").Parse(src)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse template").
			WithCode(mdwerror.CodeTemplate).
			WithOperation("web.html")
	}
	cache[src] = tmpl
	return tmpl, nil
}

func invalidPayload(call *printer.Call) error {
	return mdwerror.Newf("unexpected payload %T", call.Command()).
		WithCode(mdwerror.CodeInvalidCommand).
		WithDetail("command", call.Command().CommandName())
}
