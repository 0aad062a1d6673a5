// Package manifest handles v8gen.toml generator configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/chazu/v8gen/gluegen"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "v8gen.toml"

// SystemHeader is the last-resort engine header location.
const SystemHeader = "/usr/include/v8.h"

// Manifest represents a v8gen.toml configuration.
type Manifest struct {
	Target     Target     `toml:"target"`
	Output     Output     `toml:"output"`
	Exclude    Exclude    `toml:"exclude"`
	Mangle     []Mangle   `toml:"mangle"`
	Preprocess Preprocess `toml:"preprocess"`

	// Dir is the directory containing the v8gen.toml file (set at load time).
	Dir string `toml:"-"`
}

// Target describes the engine being wrapped.
type Target struct {
	Namespace string   `toml:"namespace"`
	Prefix    string   `toml:"prefix"`
	Header    string   `toml:"header"`
	Include   []string `toml:"include"`
	SourceEnv string   `toml:"source-env"`
}

// Output configures where artifacts go.
type Output struct {
	Dir    string `toml:"dir"`
	Types  string `toml:"types"`
	Header string `toml:"header"`
	Impl   string `toml:"impl"`
	Model  string `toml:"model"`
}

// Exclude extends the canonical exclusion lists.
type Exclude struct {
	Classes []string `toml:"classes"`
	Methods []string `toml:"methods"`
}

// Mangle is an extra overload-renaming entry.
type Mangle struct {
	Name      string `toml:"name"`
	UniqueArg string `toml:"unique-arg"`
	Symbol    string `toml:"symbol"`
}

// Preprocess overrides the macro handling of the header front end. Empty
// lists keep the built-in defaults.
type Preprocess struct {
	StripMacros       []string `toml:"strip-macros"`
	StripCallMacros   []string `toml:"strip-call-macros"`
	DeprecationMacros []string `toml:"deprecation-macros"`
}

// Default returns the configuration used when no v8gen.toml exists.
func Default(dir string) *Manifest {
	m := &Manifest{Dir: dir}
	m.applyDefaults()
	return m
}

func (m *Manifest) applyDefaults() {
	if m.Target.Namespace == "" {
		m.Target.Namespace = "v8"
	}
	if m.Target.Prefix == "" {
		m.Target.Prefix = m.Target.Namespace
	}
	if m.Target.SourceEnv == "" {
		m.Target.SourceEnv = "V8_SOURCE"
	}
	if m.Output.Dir == "" {
		m.Output.Dir = "."
	}
}

// Load parses a v8gen.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	m.applyDefaults()
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

// FindAndLoad walks up from startDir to find a v8gen.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

func (m *Manifest) validate() error {
	if !IsCIdentifier(m.Target.Prefix) {
		return fmt.Errorf("target prefix %q is not a C identifier", m.Target.Prefix)
	}
	if IsReservedPrefix(m.Target.Prefix) {
		return fmt.Errorf("target prefix %q is a C or C++ keyword", m.Target.Prefix)
	}
	for i, e := range m.Mangle {
		if e.Name == "" || e.UniqueArg == "" || e.Symbol == "" {
			return fmt.Errorf("mangle entry %d: name, unique-arg and symbol are required", i)
		}
		if !IsCIdentifier(e.Symbol) {
			return fmt.Errorf("mangle entry %d: symbol %q is not a C identifier", i, e.Symbol)
		}
	}
	return nil
}

// path resolves p against the manifest directory.
func (m *Manifest) path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir, p)
}

// ResolveHeader picks the engine header: the explicit argument, then the
// configured header, then $<source-env>/include/v8.h, then SystemHeader.
// The explicit argument is taken as given; configured paths are relative to
// the manifest directory.
func (m *Manifest) ResolveHeader(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if m.Target.Header != "" {
		return m.path(m.Target.Header)
	}
	if src := os.Getenv(m.Target.SourceEnv); src != "" {
		return filepath.Join(src, "include", "v8.h")
	}
	return SystemHeader
}

// IncludeDirs returns the configured include directories followed by extra,
// resolved against the manifest directory. When the header comes from the
// engine source tree, its include directory is searched last.
func (m *Manifest) IncludeDirs(extra []string) []string {
	var dirs []string
	for _, d := range m.Target.Include {
		dirs = append(dirs, m.path(d))
	}
	dirs = append(dirs, extra...)
	if src := os.Getenv(m.Target.SourceEnv); src != "" {
		dirs = append(dirs, filepath.Join(src, "include"))
	}
	return dirs
}

// OutputDir returns the absolute artifact directory.
func (m *Manifest) OutputDir() string {
	return m.path(m.Output.Dir)
}

// ModelPath returns where the CBOR model is written, or "" when disabled.
func (m *Manifest) ModelPath() string {
	return m.path(m.Output.Model)
}

// Tables returns the canonical tables extended by this configuration.
func (m *Manifest) Tables() *gluegen.Tables {
	t := gluegen.DefaultTables()
	mangle := make([]gluegen.MangleEntry, len(m.Mangle))
	for i, e := range m.Mangle {
		mangle[i] = gluegen.MangleEntry{Name: e.Name, UniqueArg: e.UniqueArg, Symbol: e.Symbol}
	}
	t.Extend(m.Exclude.Classes, m.Exclude.Methods, mangle)
	return t
}

// EmitOptions returns the emitter settings for this configuration.
func (m *Manifest) EmitOptions() gluegen.EmitOptions {
	return gluegen.EmitOptions{
		Prefix:      m.Target.Prefix,
		TypesHeader: m.Output.Types,
		GlueHeader:  m.Output.Header,
		ImplFile:    m.Output.Impl,
	}
}
