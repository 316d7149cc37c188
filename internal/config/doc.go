// Package config provides user configuration management for aidline.
//
// This package manages a YAML-based configuration file that stores the
// caller profile used to prefill ambulance requests, the dispatch service
// endpoint, and application preferences. The configuration follows
// OS-specific conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/aidline/config.yaml or $HOME/.config/aidline/config.yaml
//   - macOS: $HOME/.config/aidline/config.yaml
//   - Windows: %LOCALAPPDATA%\aidline\config.yaml
//
// # Usage Example
//
//	// Load the global registry
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store the caller profile used for form prefill
//	registry.SetProfile("Jamie Soto", "07700900123")
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
