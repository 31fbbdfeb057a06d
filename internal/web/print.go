package web

import (
	"bytes"
	"context"
	"html/template"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/posttext/foundation/core/error"
	"github.com/msto63/posttext/foundation/posttext/ast"
	"github.com/msto63/posttext/foundation/posttext/printer"
	"github.com/msto63/posttext/foundation/utils/filex"
)

const shellTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8" />
<meta name="viewport" content="width=device-width, initial-scale=1.0" />
<title>{{.title}}</title>
{{range .css}}<link rel="stylesheet" href="{{.Src}}" />
{{end}}</head>
<body>
{{.content}}
{{range .js}}<script src="{{.Src}}"></script>
{{end}}</body>
</html>
`

// Page is the result of a print command
type Page struct {
	Title    string
	HTML     string
	Metadata map[string]any
	Deps     []printer.Dependency
	// Files lists every written path
	Files []string
	// RenderID identifies the render in log output
	RenderID string
}

type printCommand struct {
	doc *ast.Document
}

type writeFileCommand struct {
	file    string
	content string
}

type compileDepsCommand struct {
	deps []printer.Dependency
}

func (printCommand) CommandName() string       { return CmdPrint }
func (writeFileCommand) CommandName() string   { return CmdWriteFile }
func (compileDepsCommand) CommandName() string { return CmdCompileDeps }

// NewPrintCommand returns the command that renders doc into a page and
// writes it. Its result is a *Page.
func NewPrintCommand(doc *ast.Document) printer.Command {
	return printCommand{doc: doc}
}

func (m *module) interpretPrint(_ context.Context, call *printer.Call) (any, error) {
	cmd, ok := call.Command().(printCommand)
	if !ok {
		return nil, invalidPayload(call)
	}

	if _, err := call.Yield(printer.Preload{Node: cmd.doc}); err != nil {
		return nil, err
	}
	v, err := call.Yield(printer.Render{Node: cmd.doc})
	if err != nil {
		return nil, err
	}
	res, ok := v.(*printer.Result)
	if !ok {
		return nil, mdwerror.Newf("render returned %T", v).
			WithCode(mdwerror.CodeInvalidCommand).
			WithOperation("web.print")
	}

	page := &Page{
		Title:    m.opts.DefaultTitle,
		Metadata: res.Metadata,
		Deps:     mergeDeps(res.Deps, m.external()),
		RenderID: res.RenderID,
	}
	if title, ok := res.Metadata["title"].(string); ok && title != "" {
		page.Title = title
	}

	js, css := splitDeps(page.Deps)
	shell, err := printer.RenderHTML(call.Co, shellTemplate, map[string]any{
		"title":   page.Title,
		"content": template.HTML(res.HTML()),
		"js":      js,
		"css":     css,
	})
	if err != nil {
		return nil, err
	}
	if page.HTML, err = normalize(shell); err != nil {
		return nil, err
	}

	written, err := call.Yield(writeFileCommand{file: m.opts.OutputFile, content: page.HTML})
	if err != nil {
		return nil, err
	}
	if path, ok := written.(string); ok {
		page.Files = append(page.Files, path)
	}

	listed, err := call.Yield(compileDepsCommand{deps: page.Deps})
	if err != nil {
		return nil, err
	}
	if paths, ok := listed.([]string); ok {
		page.Files = append(page.Files, paths...)
	}

	m.logger.Info("Page printed", "render_id", page.RenderID, "title", page.Title, "deps", len(page.Deps), "files", len(page.Files))
	return page, nil
}

// writeFile stores content below the output directory and returns the path
func (m *module) interpretWriteFile(_ context.Context, call *printer.Call) (any, error) {
	cmd, ok := call.Command().(writeFileCommand)
	if !ok {
		return nil, invalidPayload(call)
	}
	if !filepath.IsLocal(cmd.file) {
		return nil, mdwerror.New("output file escapes the output directory").
			WithCode(mdwerror.CodeInvalidInput).
			WithDetail("file", cmd.file)
	}

	path := filepath.Join(m.opts.OutputDir, cmd.file)
	if err := filex.WriteString(path, cmd.content, 0644); err != nil {
		return nil, mdwerror.Wrap(err, "failed to write output file").
			WithCode(mdwerror.CodeIO).
			WithOperation("web.writeFile").
			WithDetail("path", path)
	}

	m.logger.Debug("Wrote file", "path", path, "bytes", len(cmd.content))
	return path, nil
}

type manifest struct {
	JS  []printer.Dependency `yaml:"js"`
	CSS []printer.Dependency `yaml:"css"`
}

// compileDeps writes the assets of the used dependencies and the
// dependency manifest. It returns the written paths.
func (m *module) interpretCompileDeps(_ context.Context, call *printer.Call) (any, error) {
	cmd, ok := call.Command().(compileDepsCommand)
	if !ok {
		return nil, invalidPayload(call)
	}

	used := make(map[string]struct{}, len(cmd.deps))
	for _, d := range cmd.deps {
		used[d.ID] = struct{}{}
	}

	var paths []string
	write := func(file, content string) error {
		v, err := call.Yield(writeFileCommand{file: file, content: content})
		if err != nil {
			return err
		}
		if path, ok := v.(string); ok {
			paths = append(paths, path)
		}
		return nil
	}

	for _, a := range m.opts.Assets {
		if _, ok := used[a.DepID]; !ok {
			continue
		}
		content, err := a.Content()
		if err != nil {
			return nil, mdwerror.Wrap(err, "failed to generate asset").
				WithOperation("web.compileDeps").
				WithDetail("file", a.File)
		}
		if err := write(a.File, content); err != nil {
			return nil, err
		}
	}

	js, css := splitDeps(cmd.deps)
	out, err := yaml.Marshal(manifest{JS: js, CSS: css})
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to encode dependency manifest").
			WithCode(mdwerror.CodeInternal).
			WithOperation("web.compileDeps")
	}
	if err := write(ManifestFile, string(out)); err != nil {
		return nil, err
	}
	return paths, nil
}

// mergeDeps appends extra to deps, skipping ids already present
func mergeDeps(deps, extra []printer.Dependency) []printer.Dependency {
	seen := make(map[string]struct{}, len(deps)+len(extra))
	out := make([]printer.Dependency, 0, len(deps)+len(extra))
	for _, list := range [][]printer.Dependency{deps, extra} {
		for _, d := range list {
			if _, ok := seen[d.ID]; ok {
				continue
			}
			seen[d.ID] = struct{}{}
			out = append(out, d)
		}
	}
	return out
}

func splitDeps(deps []printer.Dependency) (js, css []printer.Dependency) {
	js, css = []printer.Dependency{}, []printer.Dependency{}
	for _, d := range deps {
		switch d.Type {
		case "js":
			js = append(js, d)
		case "css":
			css = append(css, d)
		}
	}
	return js, css
}

// normalize reparses the page and renders it back
func normalize(page string) (string, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", mdwerror.Wrap(err, "failed to parse page").
			WithCode(mdwerror.CodeTemplate).
			WithOperation("web.print")
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", mdwerror.Wrap(err, "failed to render page").
			WithCode(mdwerror.CodeTemplate).
			WithOperation("web.print")
	}
	return buf.String(), nil
}
