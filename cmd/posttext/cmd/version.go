package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/posttext/pkg/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render("PostText v"+info.Version))
		fmt.Fprintln(out, field("Commit", info.Commit))
		fmt.Fprintln(out, field("Build Date", info.BuildDate))
		fmt.Fprintln(out, field("Go Version", info.GoVersion))
		fmt.Fprintln(out, field("OS/Arch", info.Platform))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
