package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

// resolveVersion prefers the ldflags value, then the module version recorded
// by `go install`.
func resolveVersion() string {
	if version != "(devel)" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "attestiz", resolveVersion())
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			fmt.Fprintf(out, "go:       %s\n", runtime.Version())
			fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "Also print the Go toolchain and platform")
}
