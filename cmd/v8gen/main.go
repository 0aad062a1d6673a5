// v8gen generates a C-ABI binding layer for the V8 C++ API from its public
// headers.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	"github.com/tliron/commonlog/simple"
)

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	switch args[0] {
	case "gen":
		handleGenCommand(args[1:])
	case "inspect":
		handleInspectCommand(args[1:])
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: v8gen <command> [options]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  gen      Parse the engine header and write the glue artifacts\n")
	fmt.Fprintf(os.Stderr, "  inspect  Parse the engine header and print the extracted API\n")
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  v8gen gen                              # use v8gen.toml, write to [output] dir\n")
	fmt.Fprintf(os.Stderr, "  v8gen gen -header include/v8.h -o gen  # explicit header and output dir\n")
	fmt.Fprintf(os.Stderr, "  v8gen gen -stdout > glue.txtar         # all artifacts as one archive\n")
	fmt.Fprintf(os.Stderr, "  v8gen inspect -skipped                 # list what was dropped and why\n")
}

// configureLogging installs an unbuffered stderr backend and sets the log
// level; dropped declarations are warnings, per-member decisions are debug
// output. The default simple backend buffers until kutil's exit hooks run,
// which os.Exit and a plain return from main both skip.
func configureLogging(verbose bool) *simple.Backend {
	backend := simple.NewBackend()
	backend.Buffered = false
	if verbose {
		backend.Configure(2, nil)
	} else {
		backend.Configure(0, nil)
	}
	commonlog.SetBackend(backend)
	return backend
}
