package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	// Should not be empty
	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	// Should contain "aidline"
	if !strings.Contains(configDir, "aidline") {
		t.Errorf("GetConfigDir() = %v, should contain 'aidline'", configDir)
	}

	// Platform-specific checks
	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin", "linux":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}

	t.Logf("Config directory: %s", configDir)
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	// Should end with config.yaml
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}

	t.Logf("Config path: %s", configPath)
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}

	if reg.Profile == nil {
		t.Error("NewRegistry().Profile should not be nil")
	}

	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}

	if reg.Preferences.FallbackPhone != DefaultFallbackPhone {
		t.Errorf("NewRegistry().Preferences.FallbackPhone = %v, want %v",
			reg.Preferences.FallbackPhone, DefaultFallbackPhone)
	}

	if reg.Preferences.LocateTimeout != DefaultLocateTimeout {
		t.Errorf("NewRegistry().Preferences.LocateTimeout = %v, want %v",
			reg.Preferences.LocateTimeout, DefaultLocateTimeout)
	}
}

func TestRegistryFallbackPhone(t *testing.T) {
	reg := NewRegistry()

	if got := reg.FallbackPhone(); got != DefaultFallbackPhone {
		t.Errorf("FallbackPhone() = %v, want %v", got, DefaultFallbackPhone)
	}

	reg.Preferences.FallbackPhone = "911"
	if got := reg.FallbackPhone(); got != "911" {
		t.Errorf("FallbackPhone() = %v, want 911", got)
	}

	// Nil preferences fall back to the default
	reg.Preferences = nil
	if got := reg.FallbackPhone(); got != DefaultFallbackPhone {
		t.Errorf("FallbackPhone() with nil preferences = %v, want %v", got, DefaultFallbackPhone)
	}
}

func TestRegistryDispatchEndpoint(t *testing.T) {
	reg := NewRegistry()

	// Default is simulated mode (empty endpoint)
	if got := reg.DispatchEndpoint(); got != "" {
		t.Errorf("DispatchEndpoint() = %q, want empty", got)
	}

	reg.Dispatcher.Endpoint = "http://localhost:8080"
	if got := reg.DispatchEndpoint(); got != "http://localhost:8080" {
		t.Errorf("DispatchEndpoint() = %q", got)
	}

	reg.Dispatcher = nil
	if got := reg.DispatchEndpoint(); got != "" {
		t.Errorf("DispatchEndpoint() with nil dispatcher = %q, want empty", got)
	}
}

func TestRegistrySetProfile(t *testing.T) {
	reg := &Registry{Version: 1}

	reg.SetProfile("Jamie Soto", "07700900123")

	if reg.Profile == nil {
		t.Fatal("SetProfile() should initialize Profile")
	}
	if reg.Profile.Name != "Jamie Soto" {
		t.Errorf("Profile.Name = %q", reg.Profile.Name)
	}
	if reg.Profile.Phone != "07700900123" {
		t.Errorf("Profile.Phone = %q", reg.Profile.Phone)
	}
}

func TestRegistryYAMLRoundTrip(t *testing.T) {
	reg := NewRegistry()
	reg.SetProfile("Jamie Soto", "07700900123")
	reg.Dispatcher.Endpoint = "http://localhost:8080"
	reg.Preferences.FallbackPhone = "999"

	data, err := yaml.Marshal(reg)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}

	var loaded Registry
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}

	if loaded.Version != 1 {
		t.Errorf("round-tripped Version = %v", loaded.Version)
	}
	if loaded.Profile.Name != "Jamie Soto" {
		t.Errorf("round-tripped Profile.Name = %q", loaded.Profile.Name)
	}
	if loaded.Dispatcher.Endpoint != "http://localhost:8080" {
		t.Errorf("round-tripped Dispatcher.Endpoint = %q", loaded.Dispatcher.Endpoint)
	}
	if loaded.Preferences.FallbackPhone != "999" {
		t.Errorf("round-tripped FallbackPhone = %q", loaded.Preferences.FallbackPhone)
	}
}

func TestLoadRegistryFromDisk_Defaults(t *testing.T) {
	// Point XDG_CONFIG_HOME at an empty temp dir so no config exists
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	if runtime.GOOS == "windows" {
		t.Skip("XDG_CONFIG_HOME redirection is not used on Windows")
	}

	reg, err := loadRegistryFromDisk()
	if err != nil {
		t.Fatalf("loadRegistryFromDisk() error = %v", err)
	}

	if reg.Version != 1 {
		t.Errorf("default registry Version = %v", reg.Version)
	}
	if reg.FallbackPhone() != DefaultFallbackPhone {
		t.Errorf("default registry FallbackPhone() = %v", reg.FallbackPhone())
	}
}

func TestLoadRegistryFromDisk_ExistingFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG_CONFIG_HOME redirection is not used on Windows")
	}

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "aidline")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		t.Fatal(err)
	}

	content := `version: 1
profile:
  name: Alex Riera
  phone: "0034600112233"
dispatcher:
  endpoint: http://dispatch.local:8080
preferences:
  fallback_phone: "061"
  locate_timeout: 3
`
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	reg, err := loadRegistryFromDisk()
	if err != nil {
		t.Fatalf("loadRegistryFromDisk() error = %v", err)
	}

	if reg.Profile.Name != "Alex Riera" {
		t.Errorf("Profile.Name = %q", reg.Profile.Name)
	}
	if reg.DispatchEndpoint() != "http://dispatch.local:8080" {
		t.Errorf("DispatchEndpoint() = %q", reg.DispatchEndpoint())
	}
	if reg.FallbackPhone() != "061" {
		t.Errorf("FallbackPhone() = %q", reg.FallbackPhone())
	}
}

func TestLoadRegistryFromDisk_UnsupportedVersion(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG_CONFIG_HOME redirection is not used on Windows")
	}

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "aidline")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("version: 99\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := loadRegistryFromDisk(); err == nil {
		t.Error("loadRegistryFromDisk() should reject unsupported versions")
	}
}
