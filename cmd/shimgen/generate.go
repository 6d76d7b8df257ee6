package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/chazu/shimgen/emit"
	"github.com/chazu/shimgen/model"
)

// runGenerate processes the `shimgen generate` subcommand.
// Usage:
//
//	shimgen generate                 # model and output from shimgen.toml
//	shimgen generate api.cbor        # explicit model
//	shimgen generate -o ./gen -parts 8
func runGenerate(args []string, opts options) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	outputDir := fs.String("o", "", "Output directory (overrides shimgen.toml)")
	parts := fs.Int("parts", 0, "Number of output units (overrides shimgen.toml)")
	jobs := fs.Int("jobs", 0, "Units rendered concurrently (overrides shimgen.toml)")
	if err := fs.Parse(args); err != nil {
		return err
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
	u, err := model.Build(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	eo := m.EmitOptions()
	if *outputDir != "" {
		eo.Dir = *outputDir
	}
	if *parts > 0 {
		eo.Parts = *parts
	}
	if *jobs > 0 {
		eo.Jobs = *jobs
	}
	if eo.Module == "" {
		eo.Module = u.Module
	}

	names := m.SelectClasses(u.Names())
	if opts.verbose {
		fmt.Printf("Loaded %d classes from %s, wrapping %d\n", u.Len(), path, len(names))
	}

	written, err := emit.Run(context.Background(), u, names, eo)
	if err != nil {
		return err
	}

	if opts.verbose {
		for _, p := range written {
			fmt.Printf("  Wrote %s\n", p)
		}
	}
	return nil
}
