// Aidline-stubd is a local stub dispatch server for aidline development.
//
// It accepts ambulance request submissions over HTTP and replays a scripted
// status sequence over a websocket per request. All state is in memory.
// The stub lets the aidline client be exercised end to end without a real
// dispatch backend; it must never be pointed at by anything resembling
// production use.
//
// Usage:
//
//	aidline-stubd serve [flags]
//
// See 'aidline-stubd serve --help' for available options.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidline/aidline/internal/stubserver"
	"github.com/aidline/aidline/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "aidline-stubd",
	Short: "Stub dispatch server for aidline",
	Long: `A local stub dispatch service for aidline development and demos.

The stub accepts request submissions on POST /v1/requests and serves a
scripted status feed on GET /v1/requests/{id}/events over websocket.
Point the client at it with 'aidline --endpoint http://localhost:8080'.`,
	Version: version.Version,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	host          string
	port          int
	logLevel      string
	eventInterval int
	etaMinutes    int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stub dispatch server",
	Long: `Start the stub dispatch server and block until interrupted.

Every accepted request gets a generated incident id and moves through the
fixed status sequence received, assigned, en_route, arrived, closed at the
configured interval.`,
	Example: `  # Start on the default port
  aidline-stubd serve

  # Faster status updates and verbose logging
  aidline-stubd serve --port 9090 --interval 1 --log-level debug`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Listen hostname (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", 8080, "Listen port")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().IntVar(&eventInterval, "interval", 2, "Seconds between status events")
	serveCmd.Flags().IntVar(&etaMinutes, "eta", stubserver.DefaultETAMinutes, "ETA minutes reported on receipts")
}

func runServe(cmd *cobra.Command, args []string) error {
	config := &stubserver.Config{
		Host:              host,
		Port:              port,
		LogLevel:          logLevel,
		EventInterval:     time.Duration(eventInterval) * time.Second,
		DefaultETAMinutes: etaMinutes,
	}

	srv, err := stubserver.New(config)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("aidline-stubd %s (commit: %s)\n", version.Version, version.Commit)
	},
}
