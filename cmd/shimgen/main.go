// shimgen CLI - generates C++ binding shims from a class model
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("shimgen.cli")

// options holds the global flags shared by every subcommand.
type options struct {
	verbose   bool
	configDir string
}

func main() {
	verbose := flag.Bool("v", false, "Verbose output")
	debug := flag.Bool("debug", false, "Debug logging")
	configDir := flag.String("config", ".", "Directory to search upward for shimgen.toml")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: shimgen [options] <command> [args]\n\n")
		fmt.Fprintf(os.Stderr, "Generates C++ shim classes that route virtual calls through a language binding.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  generate [-o dir] [-parts n] [-jobs n] [model]  Write x_<i>.cpp units\n")
		fmt.Fprintf(os.Stderr, "  snapshot -o out.(cbor|toml|db) [model]          Convert a model file\n")
		fmt.Fprintf(os.Stderr, "  check [model]                                   Validate a model\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  shimgen generate                    # use shimgen.toml\n")
		fmt.Fprintf(os.Stderr, "  shimgen generate -parts 20 qt.cbor  # explicit model, 20 units\n")
		fmt.Fprintf(os.Stderr, "  shimgen snapshot -o qt.db qt.toml   # cache a parsed API in SQLite\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 1
	}
	if *debug {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	opts := options{verbose: *verbose, configDir: *configDir}
	var err error
	switch args[0] {
	case "generate", "gen":
		err = runGenerate(args[1:], opts)
	case "snapshot":
		err = runSnapshot(args[1:], opts)
	case "check":
		err = runCheck(args[1:], opts)
	case "help", "-h", "--help":
		flag.Usage()
		return
	default:
		err = fmt.Errorf("unknown command %q", args[0])
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
