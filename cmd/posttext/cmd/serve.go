package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/posttext/internal/build"
	"github.com/msto63/posttext/internal/devserver"
)

var (
	serveHost     string
	servePort     int
	serveNoReload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "Start the development server",
	Long: `Build the document, serve the output directory and rebuild whenever
the source changes. Open pages reload automatically.

Examples:
  posttext serve
  posttext serve book.pt --port 9000`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port")
	serveCmd.Flags().BoolVar(&serveNoReload, "no-reload", false, "disable live reload")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	if serveHost != "" {
		cfg.Serve.Host = serveHost
	}
	if servePort != 0 {
		cfg.Serve.Port = servePort
	}
	if serveNoReload {
		off := false
		cfg.Serve.LiveReload = &off
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg, "posttext-serve")
	builder, err := build.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render("PostText dev server"), mutedStyle.Render("http://"+cfg.Address()))
	return devserver.New(cfg, builder, logger).Start(ctx)
}
