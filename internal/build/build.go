// Package build compiles a PostText source file into the output directory
package build

import (
	"context"
	"os"
	"time"

	mdwerror "github.com/msto63/posttext/foundation/core/error"
	"github.com/msto63/posttext/foundation/posttext"
	"github.com/msto63/posttext/foundation/posttext/printer"
	"github.com/msto63/posttext/foundation/utils/filex"
	"github.com/msto63/posttext/internal/highlight"
	"github.com/msto63/posttext/internal/std"
	"github.com/msto63/posttext/internal/web"
	"github.com/msto63/posttext/pkg/core/config"
	"github.com/msto63/posttext/pkg/core/logging"
)

// Summary describes a finished build
type Summary struct {
	Input    string
	Title    string
	Files    []string
	Deps     int
	Duration time.Duration
	RenderID string
}

// Builder compiles sources with the standard tags and the web target
type Builder struct {
	cfg      *config.Config
	compiler *posttext.Compiler
	logger   *logging.Logger
}

// New creates a builder for cfg
func New(cfg *config.Config, logger *logging.Logger) (*Builder, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.New("posttext-build")
	}

	hl := highlight.New(highlight.DefaultStyle)
	compiler, err := posttext.New(posttext.Options{
		Logger: logger.Foundation(),
		Modules: []printer.Module{
			std.Module(std.Options{Highlighter: hl, Logger: logger}),
			web.Module(web.Options{
				OutputDir:    cfg.Output.Dir,
				OutputFile:   cfg.Output.File,
				DefaultTitle: cfg.Output.DefaultTitle,
				JS:           cfg.Deps.JS,
				CSS:          cfg.Deps.CSS,
				Assets: []web.Asset{{
					DepID:   highlight.StylesheetID,
					File:    highlight.StylesheetFile,
					Content: hl.CSS,
				}},
				Logger: logger,
			}),
		},
	})
	if err != nil {
		return nil, err
	}

	return &Builder{
		cfg:      cfg,
		compiler: compiler,
		logger:   logger,
	}, nil
}

// Compiler returns the underlying compiler
func (b *Builder) Compiler() *posttext.Compiler {
	return b.compiler
}

// Run builds the configured input file
func (b *Builder) Run(ctx context.Context) (*Summary, error) {
	path := b.cfg.Input.File
	if filex.IsDir(path) {
		return nil, mdwerror.Newf("input %s is a directory", path).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("build.Run")
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to read input").
			WithCode(mdwerror.CodeIO).
			WithOperation("build.Run").
			WithDetail("path", path)
	}
	return b.Build(ctx, path, src)
}

// Build compiles src, read from path, and writes the page, its dependency
// manifest and the highlight stylesheet when the page uses it
func (b *Builder) Build(ctx context.Context, path string, src []byte) (*Summary, error) {
	start := time.Now()

	doc, err := b.compiler.Parse(string(src))
	if err != nil {
		return nil, mdwerror.Wrap(err, "build failed").WithDetail("path", path)
	}

	res, _, err := b.compiler.Execute(ctx, web.NewPrintCommand(doc))
	if err != nil {
		return nil, mdwerror.Wrap(err, "build failed").WithDetail("path", path)
	}
	page, ok := res.(*web.Page)
	if !ok {
		return nil, mdwerror.Newf("print returned %T", res).
			WithCode(mdwerror.CodeInternal).
			WithOperation("build.Build")
	}

	summary := &Summary{
		Input:    path,
		Title:    page.Title,
		Files:    page.Files,
		Deps:     len(page.Deps),
		Duration: time.Since(start),
		RenderID: page.RenderID,
	}
	b.logger.Info("Build finished",
		"render_id", summary.RenderID,
		"input", path,
		"files", len(summary.Files),
		"deps", summary.Deps,
		"duration", summary.Duration.String(),
	)
	return summary, nil
}

// Run builds the input file of cfg
func Run(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*Summary, error) {
	b, err := New(cfg, logger)
	if err != nil {
		return nil, err
	}
	return b.Run(ctx)
}
