package main

import (
	"errors"
	"flag"
	"fmt"
)

// runSnapshot processes the `shimgen snapshot` subcommand, converting a
// model between its TOML, CBOR and SQLite forms.
func runSnapshot(args []string, opts options) error {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	output := fs.String("o", "", "Output file (.cbor, .toml or .db)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *output == "" {
		return errors.New("snapshot requires -o <file>")
	}

	m, err := loadManifest(opts.configDir)
	if err != nil {
		return err
	}
	path, err := modelPath(fs.Args(), m)
	if err != nil {
		return err
	}

	f, err := readModel(path)
	if err != nil {
		return err
	}
	if err := writeModel(*output, f); err != nil {
		return err
	}

	log.Infof("snapshot %s -> %s", path, *output)
	if opts.verbose {
		fmt.Printf("Wrote %d classes to %s\n", len(f.Classes), *output)
	}
	return nil
}
