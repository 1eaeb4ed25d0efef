package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/a3tai/mcp-pdf-identity/internal/extract"
)

func TestLoad_DefaultConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load([]string{"--dir=" + dir})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Mode != "stdio" {
		t.Errorf("Load() Mode = %v, want %v", cfg.Mode, "stdio")
	}
	if cfg.Port != 8080 {
		t.Errorf("Load() Port = %v, want %v", cfg.Port, 8080)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Load() LogLevel = %v, want %v", cfg.LogLevel, "info")
	}
	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Load() MaxFileSize = %v, want %v", cfg.MaxFileSize, 100*1024*1024)
	}
	if !filepath.IsAbs(cfg.DocumentDirectory) {
		t.Errorf("Load() DocumentDirectory should be absolute, got %s", cfg.DocumentDirectory)
	}
}

func TestLoad_ValidFlags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(*Config) bool
	}{
		{
			name:  "server mode with custom host and port",
			args:  []string{"--mode=server", "--host=0.0.0.0", "--port=9090"},
			check: func(c *Config) bool { return c.Mode == "server" && c.Host == "0.0.0.0" && c.Port == 9090 },
		},
		{
			name:  "debug logging as json",
			args:  []string{"--loglevel=DEBUG", "--logformat=json"},
			check: func(c *Config) bool { return c.LogLevel == "debug" && c.LogFormat == "json" },
		},
		{
			name:  "custom max file size",
			args:  []string{"--maxfilesize=50000000"},
			check: func(c *Config) bool { return c.MaxFileSize == 50000000 },
		},
		{
			name:  "page cache disabled",
			args:  []string{"--cache-size=0"},
			check: func(c *Config) bool { return c.CacheSize == 0 },
		},
		{
			name: "NER collaborator",
			args: []string{"--ner-url=http://localhost:9000/ner", "--ner-timeout=2s", "--ner-retries=0"},
			check: func(c *Config) bool {
				return c.NERURL == "http://localhost:9000/ner" && c.NERTimeout == 2*time.Second && c.NERRetries == 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--dir=" + t.TempDir()}, tt.args...)
			cfg, err := Load(args)
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("Load() produced unexpected config: %s", cfg)
			}
		})
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MCP_IDENTITY_MODE", "server")
	t.Setenv("MCP_IDENTITY_HOST", "192.168.1.1")
	t.Setenv("MCP_IDENTITY_PORT", "3000")
	t.Setenv("MCP_IDENTITY_DIR", dir)
	t.Setenv("MCP_IDENTITY_LOGLEVEL", "warn")
	t.Setenv("MCP_IDENTITY_NER_URL", "http://ner.local/extract")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Mode != "server" {
		t.Errorf("Load() Mode = %v, want %v", cfg.Mode, "server")
	}
	if cfg.Host != "192.168.1.1" {
		t.Errorf("Load() Host = %v, want %v", cfg.Host, "192.168.1.1")
	}
	if cfg.Port != 3000 {
		t.Errorf("Load() Port = %v, want %v", cfg.Port, 3000)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Load() LogLevel = %v, want %v", cfg.LogLevel, "warn")
	}
	if cfg.NERURL != "http://ner.local/extract" {
		t.Errorf("Load() NERURL = %v", cfg.NERURL)
	}
}

func TestLoad_FlagOverridesEnvironment(t *testing.T) {
	t.Setenv("MCP_IDENTITY_MODE", "server")
	t.Setenv("MCP_IDENTITY_PORT", "3000")

	cfg, err := Load([]string{"--mode=stdio", "--port=8888", "--dir=" + t.TempDir()})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Mode != "stdio" {
		t.Errorf("Load() Mode = %v, want %v (should override env)", cfg.Mode, "stdio")
	}
	if cfg.Port != 8888 {
		t.Errorf("Load() Port = %v, want %v (should override env)", cfg.Port, 8888)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "mode", args: []string{"--mode=invalid"}, want: "Mode"},
		{name: "port", args: []string{"--mode=server", "--port=99999"}, want: "port must be between 1 and 65535"},
		{name: "log level", args: []string{"--loglevel=trace"}, want: "LogLevel"},
		{name: "unknown flag", args: []string{"--pdfdir=x"}, want: "unknown flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--dir=" + t.TempDir()}, tt.args...)
			_, err := Load(args)
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_VersionFlag(t *testing.T) {
	_, err := Load([]string{"--version"})
	if !errors.Is(err, ErrVersionRequested) {
		t.Errorf("Load() error = %v, want ErrVersionRequested", err)
	}
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	profile := `
persons:
  look_ahead: 250
fuzzy:
  thresholds:
    exacta: 95
    alta: 75
    media: 45
ner_timeout: 3s
`
	if err := os.WriteFile(path, []byte(profile), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadProfile(path, extract.DefaultConfig())
	if err != nil {
		t.Fatalf("LoadProfile() unexpected error: %v", err)
	}

	if cfg.Persons.LookAhead != 250 {
		t.Errorf("LookAhead = %d, want 250", cfg.Persons.LookAhead)
	}
	if cfg.Fuzzy.Thresholds.Exacta != 95 || cfg.Fuzzy.Thresholds.Media != 45 {
		t.Errorf("Thresholds = %+v", cfg.Fuzzy.Thresholds)
	}
	if cfg.NERTimeout != 3*time.Second {
		t.Errorf("NERTimeout = %v, want 3s", cfg.NERTimeout)
	}

	defaults := extract.DefaultConfig()
	if cfg.Names.Judicial.MaxTokens != defaults.Names.Judicial.MaxTokens {
		t.Errorf("keys missing from the profile should keep defaults, got %d", cfg.Names.Judicial.MaxTokens)
	}
	if !cfg.Persons.RecoverEntities {
		t.Error("RecoverEntities default should survive a partial persons section")
	}
}

func TestLoadProfile_Invalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"fuzzy": {"thresholds": {"exacta": 40, "alta": 70, "media": 90}}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProfile(bad, extract.DefaultConfig()); err == nil {
		t.Error("LoadProfile() should reject decreasing thresholds")
	}

	if _, err := LoadProfile(filepath.Join(dir, "missing.yaml"), extract.DefaultConfig()); err == nil {
		t.Error("LoadProfile() should fail for a missing file")
	}
}

func TestConfigExtraction(t *testing.T) {
	cfg := validConfig(t.TempDir())
	cfg.NERTimeout = 1500 * time.Millisecond

	ext, err := cfg.Extraction()
	if err != nil {
		t.Fatalf("Extraction() unexpected error: %v", err)
	}
	if ext.NERTimeout != 1500*time.Millisecond {
		t.Errorf("NERTimeout = %v, want 1.5s", ext.NERTimeout)
	}
}
