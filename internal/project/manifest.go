package project

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultSourceRoots are the two environment defaults spec §6 bakes
// in when a manifest doesn't override them.
var DefaultSourceRoots = []string{"./src", "./stdlib"}

// DefaultBuildDir is where emitted Go source and the build receipt land
// absent a [build] dir override.
const DefaultBuildDir = "./build"

// Manifest is the parsed shape of fyg.toml.
type Manifest struct {
	Package struct {
		Name  string `toml:"name"`
		Entry string `toml:"entry"`
	} `toml:"package"`
	Build struct {
		Roots []string `toml:"roots"`
		Dir   string   `toml:"dir"`
	} `toml:"build"`
}

// SourceRoots returns the manifest's configured roots, or
// DefaultSourceRoots if it didn't set any (spec §6).
func (m Manifest) SourceRoots() []string {
	if len(m.Build.Roots) == 0 {
		return DefaultSourceRoots
	}
	return m.Build.Roots
}

// BuildDir returns the manifest's configured build output directory, or
// DefaultBuildDir.
func (m Manifest) BuildDir() string {
	if m.Build.Dir == "" {
		return DefaultBuildDir
	}
	return m.Build.Dir
}

// Load parses the manifest at path.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("project: reading manifest: %w", err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("project: parsing %s: %w", path, err)
	}
	if m.Package.Name == "" {
		return Manifest{}, fmt.Errorf("project: %s is missing [package] name", path)
	}
	return m, nil
}

// WriteDefault writes a minimal starter manifest to path, for `fygc
// init` (spec §1/SPEC_FULL.md §1).
func WriteDefault(path, packageName string) error {
	contents := fmt.Sprintf(
		"[package]\nname = %q\nentry = \"src/main.fyg\"\n\n[build]\ndir = %q\n",
		packageName, DefaultBuildDir,
	)
	return os.WriteFile(path, []byte(contents), 0o644)
}
