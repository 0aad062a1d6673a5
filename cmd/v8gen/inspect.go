package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

// handleInspectCommand processes the `v8gen inspect` subcommand: it prints
// the extracted API in its display form and, with -skipped, every dropped
// declaration with the reason.
func handleInspectCommand(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	skipped := fs.Bool("skipped", false, "also list dropped declarations")
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

	if _, err := res.API.WriteTo(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *skipped && len(res.Skipped) > 0 {
		fmt.Printf("\nSkipped (%d):\n", len(res.Skipped))
		for _, s := range res.Skipped {
			fmt.Printf("  %s\n", s)
		}
	}
}
