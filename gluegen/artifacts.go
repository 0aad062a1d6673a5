package gluegen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/txtar"

	"github.com/chazu/v8gen/ir"
)

// File is one generated artifact.
type File struct {
	Name    string
	Content []byte
}

// Artifacts are the three outputs of a run, always produced together from
// one API value.
type Artifacts struct {
	Types  File
	Header File
	Impl   File
}

// Generate runs the three emitters over api.
func Generate(api *ir.API, opts EmitOptions) *Artifacts {
	o := opts.withDefaults(api)
	return &Artifacts{
		Types:  File{Name: o.TypesHeader, Content: []byte(GenerateTypes(api, o))},
		Header: File{Name: o.GlueHeader, Content: []byte(GenerateHeader(api, o))},
		Impl:   File{Name: o.ImplFile, Content: []byte(GenerateImpl(api, o))},
	}
}

// Files returns the artifacts in emission order.
func (a *Artifacts) Files() []File {
	return []File{a.Types, a.Header, a.Impl}
}

// Archive bundles the artifacts into a single txtar archive.
func (a *Artifacts) Archive() []byte {
	ar := &txtar.Archive{}
	for _, f := range a.Files() {
		ar.Files = append(ar.Files, txtar.File{Name: f.Name, Data: f.Content})
	}
	return txtar.Format(ar)
}

// Write stores the artifacts under dir. A file is only rewritten when its
// content changed, so unchanged outputs keep their modification time. It
// returns the names of the files it wrote.
func (a *Artifacts) Write(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	var written []string
	for _, f := range a.Files() {
		path := filepath.Join(dir, f.Name)
		changed, err := writeIfChanged(path, f.Content)
		if err != nil {
			return written, err
		}
		if changed {
			written = append(written, f.Name)
		}
	}
	return written, nil
}

func writeIfChanged(path string, content []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, content) {
		return false, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
