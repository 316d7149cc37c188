// Package logging provides structured logging for aidline.
//
// This package wraps zap logger with convenience functions for the common
// logging patterns used throughout the CLI and the stub dispatch server.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (payloads, retry timing)
//   - Info: Normal operations (submissions, HTTP traffic, status events)
//   - Warn: Non-fatal issues (retries, geolocation fallbacks)
//   - Error: Fatal issues (startup failures, unrecoverable errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Request submitted",
//	    zap.String("request_id", "a1b2c3"),
//	    zap.String("emergency_type", "cardiac"),
//	)
//
// # Configuration
//
// Logging is controlled by the AIDLINE_LOG_LEVEL environment variable. When
// unset, logging is silent so that curated TUI output stays clean. Commands
// initialize it once at startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
