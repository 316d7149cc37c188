// Aidline is a terminal tool for requesting an emergency ambulance.
//
// It provides an interactive request form, a non-interactive submission
// command for scripted use, a coordinate lookup helper, and a status
// tracking feed. When no dispatch endpoint is configured, submissions run
// against a simulated transport.
//
// Usage:
//
//	aidline [command] [flags]
//
// Running without arguments launches the interactive request form.
// See 'aidline --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidline/aidline/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "aidline",
	Short: "Emergency ambulance request tool",
	Long: `A terminal tool for composing and submitting emergency ambulance requests.

The interactive form collects the caller's name, phone number, emergency
type, location, and an optional description, validates the draft, and
submits it to the configured dispatch service. Without a configured
endpoint, submissions use a simulated transport.

If no command is specified, the interactive form launches automatically.

Aidline is not a replacement for calling emergency services. When in doubt,
call your local emergency number directly.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch the interactive form
		return runRequest(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("aidline %s (commit: %s)\n", version.Version, version.Commit)
	},
}
