package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifestFromNestedDir(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[package]
name = "app"
sources = "build/ast"

[check]
warnings_as_errors = true
disable = ["safety-check"]

[trace]
level = "phase"
`)
	nested := filepath.Join(root, "build", "ast")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	m, ok, err := LoadManifest(nested)
	if err != nil || !ok {
		t.Fatalf("LoadManifest: ok=%v err=%v", ok, err)
	}
	if m.Root != root || m.Config.Package.Name != "app" {
		t.Fatalf("manifest %+v", m)
	}
	if m.Config.Check.MaxDiagnostics != DefaultMaxDiagnostics || !m.Config.Check.WarningsAsErrors {
		t.Fatalf("check %+v", m.Config.Check)
	}
	if len(m.Config.Check.Disable) != 1 || m.Config.Trace.Level != "phase" {
		t.Fatalf("config %+v", m.Config)
	}
	dir, err := m.SourceDir()
	if err != nil || dir != nested {
		t.Fatalf("SourceDir = %q, %v", dir, err)
	}
}

func TestLoadManifestAbsent(t *testing.T) {
	m, ok, err := LoadManifest(t.TempDir())
	if err != nil || ok || m != nil {
		t.Fatalf("expected no manifest, got %v %v %v", m, ok, err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
		is   error
	}{
		{name: "no package", body: "[check]\nmax_diagnostics = 3\n", is: ErrPackageSectionMissing},
		{name: "no name", body: "[package]\nsources = \"x\"\n", is: ErrPackageNameMissing},
		{name: "bad name", body: "[package]\nname = \"9app\"\n", want: "invalid package name"},
		{name: "unknown key", body: "[package]\nname = \"app\"\nmain = \"x\"\n", want: "unknown key"},
		{name: "negative cap", body: "[package]\nname = \"app\"\n[check]\nmax_diagnostics = -1\n", want: "must not be negative"},
		{name: "syntax", body: "[package\n", want: "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Fatalf("error %v, want %v", err, tt.is)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestSourceDirMustStayInRoot(t *testing.T) {
	root := t.TempDir()
	m := &Manifest{Path: filepath.Join(root, ManifestName), Root: root}
	m.Config.Package.Sources = "../elsewhere"
	if _, err := m.SourceDir(); err == nil || !strings.Contains(err.Error(), "escapes project root") {
		t.Fatalf("expected escape error, got %v", err)
	}
	m.Config.Package.Sources = ""
	if dir, err := m.SourceDir(); err != nil || dir != root {
		t.Fatalf("default sources = %q, %v", dir, err)
	}
}
