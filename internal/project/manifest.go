package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a loaded tails.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the sections of tails.toml.
type Config struct {
	Package PackageConfig `toml:"package"`
	Check   CheckConfig   `toml:"check"`
	Trace   TraceConfig   `toml:"trace"`
}

type PackageConfig struct {
	Name string `toml:"name"`
	// Sources is the directory holding encoded modules, relative to the root.
	Sources string `toml:"sources"`
}

type CheckConfig struct {
	MaxDiagnostics   int      `toml:"max_diagnostics"`
	WarningsAsErrors bool     `toml:"warnings_as_errors"`
	NoShadowWarnings bool     `toml:"no_shadow_warnings"`
	Disable          []string `toml:"disable"`
	Generate         bool     `toml:"generate"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

var (
	// ErrPackageSectionMissing indicates that [package] is missing.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is missing.
	ErrPackageNameMissing = errors.New("missing [package].name")
)

// DefaultMaxDiagnostics caps the diagnostics bag when the manifest is silent.
const DefaultMaxDiagnostics = 100

// LoadManifest locates tails.toml above startDir and loads it.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig parses and validates one tails.toml.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	name := strings.TrimSpace(cfg.Package.Name)
	if !meta.IsDefined("package", "name") || name == "" {
		return Config{}, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	if !IsValidModuleIdent(name) {
		return Config{}, fmt.Errorf("%s: invalid package name %q", path, name)
	}
	cfg.Package.Name = name
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if !meta.IsDefined("check", "max_diagnostics") {
		cfg.Check.MaxDiagnostics = DefaultMaxDiagnostics
	}
	if cfg.Check.MaxDiagnostics < 0 {
		return Config{}, fmt.Errorf("%s: [check].max_diagnostics must not be negative", path)
	}
	return cfg, nil
}

// SourceDir resolves [package].sources against the project root. It must
// stay inside the root.
func (m *Manifest) SourceDir() (string, error) {
	rel := strings.TrimSpace(m.Config.Package.Sources)
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("%s: invalid [package].sources %q: must be relative", m.Path, rel)
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." {
		clean = ""
	}
	dir := filepath.Join(m.Root, clean)
	if !pathWithin(m.Root, dir) {
		return "", fmt.Errorf("%s: invalid [package].sources %q: escapes project root", m.Path, rel)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("%s: invalid [package].sources %q: %w", m.Path, rel, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s: invalid [package].sources %q: not a directory", m.Path, rel)
	}
	return dir, nil
}

func pathWithin(root, path string) bool {
	if root == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
