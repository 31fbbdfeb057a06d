package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/msto63/posttext/foundation/posttext"
	"github.com/msto63/posttext/foundation/posttext/ast"
)

var parseSource bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Print the syntax tree of a document",
	Long: `Parse a PostText document and print its syntax tree as YAML.

With --source the canonical source text is printed instead. Use "-" to
read from standard input.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseSource, "source", false, "print canonical source instead of YAML")
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	var src []byte
	if cfg.Input.File == "-" {
		src, err = io.ReadAll(cmd.InOrStdin())
	} else {
		src, err = os.ReadFile(cfg.Input.File)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	compiler, err := posttext.New(posttext.Options{Logger: newLogger(cfg, "posttext-parse").Foundation()})
	if err != nil {
		return err
	}
	doc, err := compiler.Parse(string(src))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if parseSource {
		_, err = fmt.Fprintln(out, ast.Source(doc))
		return err
	}

	dump, err := ast.Dump(doc)
	if err != nil {
		return err
	}
	_, err = out.Write(dump)
	return err
}
