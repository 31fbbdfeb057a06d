package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/posttext/internal/build"
)

var (
	compileOut   string
	compileTitle string
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a document into the output directory",
	Long: `Compile a PostText document into HTML.

The page, its dependency manifest (deps.yaml) and, when code blocks are
highlighted, highlight.css are written to the output directory.

Examples:
  posttext compile                 # compiles index.pt into dist/
  posttext compile book.pt -o site`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVarP(&compileOut, "out", "o", "", "output directory")
	compileCmd.Flags().StringVar(&compileTitle, "title", "", "default page title")
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	if compileOut != "" {
		cfg.Output.Dir = compileOut
	}
	if compileTitle != "" {
		cfg.Output.DefaultTitle = compileTitle
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	summary, err := build.Run(cmd.Context(), cfg, newLogger(cfg, "posttext-build"))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, successStyle.Render("✓ Compiled"), summary.Input)
	fmt.Fprintln(out, field("Title", summary.Title))
	fmt.Fprintln(out, field("Deps", summary.Deps))
	fmt.Fprintln(out, field("Duration", summary.Duration.Round(time.Microsecond)))
	for _, f := range summary.Files {
		fmt.Fprintln(out, mutedStyle.Render("  "+f))
	}
	return nil
}
