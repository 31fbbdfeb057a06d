package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/posttext/internal/highlight"
)

var stylesCSS string

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List or print code highlighting styles",
	Long: `List the available highlighting styles, or print the stylesheet of one
style with --css.

Examples:
  posttext styles
  posttext styles --css monokai > dist/highlight.css`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if stylesCSS != "" {
			return highlight.New(stylesCSS).WriteCSS(out)
		}
		for _, name := range highlight.Styles() {
			if name == highlight.DefaultStyle {
				fmt.Fprintln(out, name, mutedStyle.Render("(default)"))
				continue
			}
			fmt.Fprintln(out, name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stylesCmd)
	stylesCmd.Flags().StringVar(&stylesCSS, "css", "", "print the stylesheet of a style")
}
