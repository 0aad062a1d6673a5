package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chazu/v8gen/gluegen"
)

// handleGenCommand processes the `v8gen gen` subcommand.
// Usage:
//
//	v8gen gen                        # everything from v8gen.toml
//	v8gen gen -header v8.h -I dir    # ad-hoc header
//	v8gen gen -o ./glue              # custom output dir
//	v8gen gen -stdout                # txtar archive on stdout
func handleGenCommand(args []string) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	outputDir := fs.String("o", "", "output directory (default: [output] dir)")
	stdout := fs.Bool("stdout", false, "write all artifacts to stdout as a txtar archive")
	fs.Parse(args)

	configureLogging(common.verbose)

	m, err := common.loadManifest()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading manifest: %v\n", err)
		os.Exit(1)
	}

	res, err := buildAPI(context.Background(), m, &common)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	artifacts := gluegen.Generate(res.API, m.EmitOptions())

	if *stdout {
		if _, err := os.Stdout.Write(artifacts.Archive()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	dir := *outputDir
	if dir == "" {
		dir = m.OutputDir()
	}
	written, err := artifacts.Write(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing artifacts: %v\n", err)
		os.Exit(1)
	}

	if path := m.ModelPath(); path != "" {
		if err := writeModel(res, m.Target.Prefix, path); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing model: %v\n", err)
			os.Exit(1)
		}
	}

	if common.verbose {
		for _, name := range written {
			fmt.Fprintf(os.Stderr, "  wrote %s\n", filepath.Join(dir, name))
		}
		fmt.Fprintf(os.Stderr, "%d of %d files changed in %s\n", len(written), len(artifacts.Files()), dir)
	}
}

func writeModel(res *gluegen.Result, prefix, path string) error {
	data, err := gluegen.EncodeModel(res.API, prefix)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating model dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
