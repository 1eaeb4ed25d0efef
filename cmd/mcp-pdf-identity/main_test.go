package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/a3tai/mcp-pdf-identity/internal/config"
	"github.com/a3tai/mcp-pdf-identity/internal/logger"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	originalStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = originalStdout }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
		w.Close()
	}()

	var buf bytes.Buffer
	io.Copy(&buf, r)
	<-done
	return buf.String()
}

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	version, buildTime, gitCommit = "1.2.3", "2023-12-01_10:30:00", "abc123"
	defer func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	}()

	output := captureStdout(t, printVersion)

	for _, expected := range []string{
		"MCP PDF Identity",
		"Version: 1.2.3",
		"Build Time: 2023-12-01_10:30:00",
		"Git Commit: abc123",
		"Built with:",
	} {
		if !strings.Contains(output, expected) {
			t.Errorf("printVersion() output missing expected string: %s\nActual output:\n%s", expected, output)
		}
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DocumentDirectory = t.TempDir()
	return cfg
}

func TestNewRecognizer(t *testing.T) {
	cfg := testConfig(t)

	r, err := newRecognizer(cfg)
	if err != nil || r != nil {
		t.Errorf("newRecognizer() without URL = %v, %v; want nil, nil", r, err)
	}

	cfg.NERURL = "http://localhost:9000/ner"
	r, err = newRecognizer(cfg)
	if err != nil {
		t.Fatalf("newRecognizer() unexpected error: %v", err)
	}
	if r == nil {
		t.Error("newRecognizer() should return a client when a URL is set")
	}
}

func TestNewLogger(t *testing.T) {
	cfg := testConfig(t)
	cfg.LogFormat = "json"
	if newLogger(cfg) == nil {
		t.Error("newLogger() returned nil")
	}
}

func TestBuildServer(t *testing.T) {
	cfg := testConfig(t)
	cfg.NERURL = "http://localhost:9000/ner"

	server, err := buildServer(cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("buildServer() unexpected error: %v", err)
	}
	if server == nil {
		t.Fatal("buildServer() returned nil server")
	}
}

func TestBuildServer_InvalidProfile(t *testing.T) {
	cfg := testConfig(t)
	cfg.ProfilePath = filepath.Join(cfg.DocumentDirectory, "profile.yaml")
	if err := os.WriteFile(cfg.ProfilePath, []byte("persons:\n  look_ahead: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := buildServer(cfg, logger.NewNop()); err == nil {
		t.Error("buildServer() should reject an invalid profile")
	}
}
