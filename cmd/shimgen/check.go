package main

import (
	"flag"
	"fmt"

	"github.com/chazu/shimgen/model"
	"github.com/chazu/shimgen/shim"
)

// checkReport summarizes a model that builds and renders cleanly.
type checkReport struct {
	Classes   int
	Methods   int
	Overrides int
}

// runCheck processes the `shimgen check` subcommand.
func runCheck(args []string, opts options) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
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

	report, err := checkModel(path, m.EmitOptions().Runtime)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d classes, %d methods, %d virtual overrides\n",
		path, report.Classes, report.Methods, report.Overrides)
	return nil
}

// checkModel loads the model at path and renders every class in memory,
// surfacing any type the generator cannot classify.
func checkModel(path string, rt shim.Runtime) (checkReport, error) {
	var r checkReport

	f, err := readModel(path)
	if err != nil {
		return r, err
	}
	u, err := model.Build(f)
	if err != nil {
		return r, fmt.Errorf("%s: %w", path, err)
	}

	g := shim.New(u, rt)
	for _, name := range u.Names() {
		c := u.Class(name)
		if _, err := g.Class(c); err != nil {
			return r, fmt.Errorf("%s: %w", name, err)
		}
		r.Classes++
		r.Methods += len(c.Methods)
		r.Overrides += len(u.CollectVirtualMethods(c))
	}
	return r, nil
}
