// Package cpp is a declaration-tree front end for C++ headers built on
// tree-sitter. It parses a header plus the quoted includes it pulls in
// from the include-search directories and exposes the result as a
// decl.Cursor tree.
package cpp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/tliron/commonlog"

	"github.com/chazu/v8gen/decl"
)

var log = commonlog.GetLogger("v8gen.cpp")

var (
	languageOnce sync.Once
	language     *sitter.Language
)

// cppLanguage loads the grammar once per process.
func cppLanguage() *sitter.Language {
	languageOnce.Do(func() {
		language = cpp.GetLanguage()
	})
	return language
}

// Options configures a parse session.
type Options struct {
	// IncludeDirs are searched, in order, for quoted includes that are not
	// found next to the including file.
	IncludeDirs []string
	Macros      Macros
}

// ErrClosed is returned when a closed session is queried.
var ErrClosed = errors.New("cpp: session closed")

// Session owns the parsed trees. Every cursor it hands out is valid only
// until Close.
type Session struct {
	opts     Options
	parser   *sitter.Parser
	files    []*file
	visited  map[string]bool
	enums    map[string]bool
	typedefs map[string]bool
	root     []decl.Cursor
	closed   bool
}

type file struct {
	path string
	src  []byte
	tree *sitter.Tree
}

type item struct {
	f *file
	n *sitter.Node
}

// Open parses header and everything it includes. It fails only when the
// header itself cannot be read or parsed; unreadable nested includes are
// logged and skipped.
func Open(ctx context.Context, header string, opts Options) (*Session, error) {
	s := &Session{
		opts:     opts,
		parser:   sitter.NewParser(),
		visited:  make(map[string]bool),
		enums:    make(map[string]bool),
		typedefs: make(map[string]bool),
	}
	s.parser.SetLanguage(cppLanguage())

	main, err := s.parse(ctx, header)
	if err != nil {
		s.Close()
		return nil, err
	}

	var items []item
	if err := s.expand(ctx, main, main.tree.RootNode(), &items, true); err != nil {
		s.Close()
		return nil, err
	}

	for _, f := range s.files {
		s.collectNames(f, f.tree.RootNode())
	}

	s.root = make([]decl.Cursor, 0, len(items))
	for _, it := range items {
		s.root = append(s.root, s.classify(it.f, it.n, "", decl.AccessInvalid))
	}

	log.Infof("parsed %d files from %s", len(s.files), header)
	return s, nil
}

// Root returns the translation unit.
func (s *Session) Root() (decl.Cursor, error) {
	if s.closed {
		return nil, ErrClosed
	}
	return &cursor{s: s, kind: decl.KindTranslationUnit, children: s.root}, nil
}

// Files returns the parsed files in the order they were first included.
func (s *Session) Files() []string {
	paths := make([]string, len(s.files))
	for i, f := range s.files {
		paths[i] = f.path
	}
	return paths
}

// Close releases the parser and all trees. It is safe to call twice.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for _, f := range s.files {
		if f.tree != nil {
			f.tree.Close()
		}
	}
	s.files = nil
	s.root = nil
	if s.parser != nil {
		s.parser.Close()
	}
}

func (s *Session) parse(ctx context.Context, path string) (*file, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	src := preprocess(data, s.opts.Macros)

	tree, err := s.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if tree.RootNode().HasError() {
		log.Warning("parse errors, declarations in the affected regions may be missing", "file", abs)
	}

	f := &file{path: abs, src: src, tree: tree}
	s.files = append(s.files, f)
	s.visited[abs] = true
	return f, nil
}

// expand appends the declarations under n to out, flattening preprocessor
// conditionals (first branch only) and linkage blocks. When follow is set,
// quoted includes are parsed and spliced in place.
func (s *Session) expand(ctx context.Context, f *file, n *sitter.Node, out *[]item, follow bool) error {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil || !c.IsNamed() {
			continue
		}
		switch n.FieldNameForChild(i) {
		case "name", "condition", "alternative":
			if strings.HasPrefix(n.Type(), "preproc_") {
				continue
			}
		}

		switch c.Type() {
		case "comment", "preproc_def", "preproc_function_def", "preproc_call", "preproc_else", "preproc_elif":
			continue

		case "preproc_include":
			if !follow {
				continue
			}
			if err := s.include(ctx, f, c, out); err != nil {
				return err
			}

		case "preproc_if", "preproc_ifdef":
			if err := s.expand(ctx, f, c, out, follow); err != nil {
				return err
			}

		case "linkage_specification":
			if body := c.ChildByFieldName("body"); body != nil && body.Type() == "declaration_list" {
				if err := s.expand(ctx, f, body, out, follow); err != nil {
					return err
				}
			} else if body != nil {
				*out = append(*out, item{f, body})
			}

		default:
			*out = append(*out, item{f, c})
		}
	}
	return nil
}

func (s *Session) include(ctx context.Context, from *file, n *sitter.Node, out *[]item) error {
	p := n.ChildByFieldName("path")
	if p == nil || p.Type() != "string_literal" {
		// <system> includes are not followed
		return nil
	}
	name := strings.Trim(p.Content(from.src), `"`)

	path, ok := s.resolve(from, name)
	if !ok {
		log.Debug("include not found", "file", from.path, "include", name)
		return nil
	}
	if s.visited[path] {
		return nil
	}

	f, err := s.parse(ctx, path)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		log.Warning("skipping include", "file", from.path, "include", name, "error", err.Error())
		return nil
	}
	return s.expand(ctx, f, f.tree.RootNode(), out, true)
}

func (s *Session) resolve(from *file, name string) (string, bool) {
	candidates := []string{filepath.Join(filepath.Dir(from.path), name)}
	for _, dir := range s.opts.IncludeDirs {
		candidates = append(candidates, filepath.Join(dir, name))
	}
	for _, c := range candidates {
		abs, err := filepath.Abs(c)
		if err != nil {
			continue
		}
		if st, err := os.Stat(abs); err == nil && !st.IsDir() {
			return abs, true
		}
	}
	return "", false
}

// collectNames records enum and typedef names so that type identifiers can
// be classified the way a semantic front end would.
func (s *Session) collectNames(f *file, n *sitter.Node) {
	switch n.Type() {
	case "enum_specifier":
		if name := n.ChildByFieldName("name"); name != nil && n.ChildByFieldName("body") != nil {
			s.enums[name.Content(f.src)] = true
		}
	case "type_definition":
		if d := n.ChildByFieldName("declarator"); d != nil {
			if _, name := s.wrap(f, &ctype{}, d); name != "" {
				s.typedefs[name] = true
			}
		}
	case "alias_declaration":
		if name := n.ChildByFieldName("name"); name != nil {
			s.typedefs[name.Content(f.src)] = true
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		s.collectNames(f, n.NamedChild(i))
	}
}
