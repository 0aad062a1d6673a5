package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chazu/v8gen/decl/cpp"
	"github.com/chazu/v8gen/gluegen"
	"github.com/chazu/v8gen/manifest"
)

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string     { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error { *s = append(*s, v); return nil }

// commonFlags are shared by every subcommand.
type commonFlags struct {
	config  string
	header  string
	include stringList
	verbose bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.config, "config", "", "directory containing v8gen.toml (default: search upward from the working directory)")
	fs.StringVar(&c.header, "header", "", "engine header (default: [target] header, $V8_SOURCE/include/v8.h, "+manifest.SystemHeader+")")
	fs.Var(&c.include, "I", "extra include directory (repeatable)")
	fs.BoolVar(&c.verbose, "v", false, "verbose output")
}

// loadManifest finds the configuration, falling back to the defaults when
// there is none.
func (c *commonFlags) loadManifest() (*manifest.Manifest, error) {
	if c.config != "" {
		return manifest.Load(c.config)
	}
	m, err := manifest.FindAndLoad(".")
	if err != nil {
		return nil, err
	}
	if m == nil {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		m = manifest.Default(wd)
	}
	return m, nil
}

func macros(p manifest.Preprocess) cpp.Macros {
	m := cpp.DefaultMacros()
	if len(p.StripMacros) > 0 {
		m.Strip = p.StripMacros
	}
	if len(p.StripCallMacros) > 0 {
		m.StripCalls = p.StripCallMacros
	}
	if len(p.DeprecationMacros) > 0 {
		m.Deprecations = p.DeprecationMacros
	}
	return m
}

// buildAPI parses the header and assembles the model. The parse session is
// closed before returning; the result holds no references into it.
func buildAPI(ctx context.Context, m *manifest.Manifest, c *commonFlags) (*gluegen.Result, error) {
	header := m.ResolveHeader(c.header)
	if c.verbose {
		fmt.Fprintf(os.Stderr, "Parsing %s...\n", header)
	}

	session, err := cpp.Open(ctx, header, cpp.Options{
		IncludeDirs: m.IncludeDirs(c.include),
		Macros:      macros(m.Preprocess),
	})
	if err != nil {
		return nil, fmt.Errorf("opening header: %w", err)
	}
	defer session.Close()

	root, err := session.Root()
	if err != nil {
		return nil, err
	}

	res, err := gluegen.Build(root, gluegen.Options{
		Namespace: m.Target.Namespace,
		Tables:    m.Tables(),
	})
	if err != nil {
		return nil, fmt.Errorf("assembling model: %w", err)
	}

	if c.verbose {
		methods := 0
		for _, cl := range res.API.Classes {
			methods += len(cl.Methods)
		}
		fmt.Fprintf(os.Stderr, "  %d files, %d classes, %d methods, %d skipped\n",
			len(session.Files()), len(res.API.Classes), methods, len(res.Skipped))
	}
	return res, nil
}
