package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msto63/posttext/pkg/core/config"
	"github.com/msto63/posttext/pkg/core/logging"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "posttext",
	Short: "PostText - markup compiler",
	Long: `PostText compiles backslash-tag markup into HTML.

  \title{Hello}
  \paragraph{Some \bold{bold} text.}

Commands:
  compile  - build a document into the output directory
  parse    - print the syntax tree of a document
  serve    - development server with live reload
  styles   - list or print code highlighting styles
  version  - show version information`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and prints the error, if any
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $POSTTEXT_CONFIG or ./posttext.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configuration and applies the input argument
func loadConfig(args []string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Input.File = args[0]
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, name string) *logging.Logger {
	l := logging.Wrap(name, logging.NewLogger(logging.LoggerConfig{
		ServiceName: "posttext",
		Level:       cfg.General.LogLevel,
		Format:      cfg.General.LogFormat,
	}))
	if verbose {
		return l.WithLevel("debug")
	}
	return l
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
}
