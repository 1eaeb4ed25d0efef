package security

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewPathValidator(t *testing.T) {
	if _, err := NewPathValidator(""); err == nil {
		t.Error("expected error for empty directory")
	}

	v, err := NewPathValidator("/non/existent/path")
	if err != nil {
		t.Fatalf("unexpected error for placeholder directory: %v", err)
	}
	if v.Root() != "/non/existent/path" {
		t.Errorf("Root() = %q", v.Root())
	}
}

func TestPathValidator_Resolve(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.pdf"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(outside, "secret.pdf"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(outside, "secret.pdf"), filepath.Join(root, "link.pdf")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	v, err := NewPathValidator(root)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"relative", "a.pdf", filepath.Join(v.Root(), "a.pdf"), false},
		{"absolute inside", filepath.Join(root, "a.pdf"), filepath.Join(v.Root(), "a.pdf"), false},
		{"root itself", root, v.Root(), false},
		{"not yet existing", "sub/new.pdf", filepath.Join(v.Root(), "sub", "new.pdf"), false},
		{"traversal", "../secret.pdf", "", true},
		{"absolute outside", filepath.Join(outside, "secret.pdf"), "", true},
		{"symlink escape", "link.pdf", "", true},
		{"empty", "  ", "", true},
		{"null bytes stripped", "a.pdf\x00", filepath.Join(v.Root(), "a.pdf"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Resolve(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Resolve(%q) = %q, want error", tt.path, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}

	if !v.Contains("a.pdf") || v.Contains("../x") {
		t.Error("Contains disagrees with Resolve")
	}
}

func TestPathValidator_EnsureRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "docs")
	v, err := NewPathValidator(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := v.EnsureRoot(); err != nil {
		t.Fatalf("EnsureRoot: %v", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		t.Fatalf("root not created: %v", err)
	}

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	fv, _ := NewPathValidator(file)
	if err := fv.EnsureRoot(); err == nil {
		t.Error("expected error when root is a file")
	}
}
