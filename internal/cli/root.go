// Package cli provides the command-line interface for wallcycle.
package cli

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/wallcycle/internal/version"
)

var (
	flagVerbose bool
	flagQuiet   bool

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "wallcycle",
		Short: "A theme-based wallpaper rotator",
		Long: `Wallcycle rotates desktop wallpapers organised into theme folders.

It remembers the last wallpaper used per theme to avoid immediate repeats,
mirrors the chosen wallpaper onto the lock screen, and then triggers an
external palette tool to rebuild the colour theme derived from it.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}
)

// Execute runs the root command. It is called by main.main() and maps any
// command error to exit code 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress non-error output")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(rotateCmd)
	rootCmd.AddCommand(listCmd)
}

// newLogger builds the application logger honouring --verbose/--quiet.
func newLogger() hclog.Logger {
	level := hclog.Info
	switch {
	case flagVerbose:
		level = hclog.Debug
	case flagQuiet:
		level = hclog.Warn
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "wallcycle",
		Output: os.Stderr,
		Level:  level,
	})
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including build date, commit hash, and Go version.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}
