// Package web is the html output target. It installs the html template
// interpreter and the print pipeline that assembles the page and writes it
// with its dependency manifest into the output directory.
package web

import (
	"github.com/msto63/posttext/foundation/posttext/printer"
	"github.com/msto63/posttext/pkg/core/logging"
)

// Command names of the web target
const (
	CmdPrint       = "print"
	CmdWriteFile   = "writeFile"
	CmdCompileDeps = "compileDeps"
)

const (
	defaultOutputFile = "index.html"
	defaultTitle      = "PostText"

	// ManifestFile lists the page dependencies for an external bundler
	ManifestFile = "deps.yaml"
)

// Options configures the web target
type Options struct {
	// OutputDir receives every written file
	OutputDir string
	// OutputFile is the page file name relative to OutputDir
	OutputFile string
	// DefaultTitle is used when the document sets no title
	DefaultTitle string
	// JS and CSS are external dependencies added to every page
	JS  []string
	CSS []string
	// Assets are generated files written next to the page when it uses
	// their dependency
	Assets []Asset

	Logger *logging.Logger
}

// Asset is a file generated for a dependency, e.g. the stylesheet of the
// code highlighter
type Asset struct {
	DepID   string
	File    string
	Content func() (string, error)
}

type module struct {
	opts   Options
	logger *logging.Logger
}

// Module returns the web target module
func Module(opts Options) printer.Module {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.OutputFile == "" {
		opts.OutputFile = defaultOutputFile
	}
	if opts.DefaultTitle == "" {
		opts.DefaultTitle = defaultTitle
	}
	if opts.Logger == nil {
		opts.Logger = logging.Wrap("posttext-web", nil)
	}
	return &module{opts: opts, logger: opts.Logger}
}

// Register installs the web interpreters
func (m *module) Register(b *printer.Builder) {
	b.Interpreter(printer.CmdHTML, interpretHTML)
	b.Interpreter(CmdPrint, m.interpretPrint)
	b.Interpreter(CmdWriteFile, m.interpretWriteFile)
	b.Interpreter(CmdCompileDeps, m.interpretCompileDeps)
}

// external returns the configured dependencies as dependency values
func (m *module) external() []printer.Dependency {
	deps := make([]printer.Dependency, 0, len(m.opts.JS)+len(m.opts.CSS))
	for _, src := range m.opts.JS {
		deps = append(deps, printer.Dependency{Type: "js", ID: src, Src: src})
	}
	for _, src := range m.opts.CSS {
		deps = append(deps, printer.Dependency{Type: "css", ID: src, Src: src})
	}
	return deps
}
