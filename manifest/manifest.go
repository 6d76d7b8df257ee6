// Package manifest handles shimgen.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"

	"github.com/chazu/shimgen/emit"
	"github.com/chazu/shimgen/shim"
)

// FileName is the name of the configuration file.
const FileName = "shimgen.toml"

// Manifest represents a shimgen.toml project configuration.
type Manifest struct {
	Module  Module  `toml:"module"`
	Model   Model   `toml:"model"`
	Output  Output  `toml:"output"`
	Runtime Runtime `toml:"runtime"`

	// Dir is the directory containing the shimgen.toml file (set at load time).
	Dir string `toml:"-"`
}

// Module names the wrapped library.
type Module struct {
	Name string `toml:"name"`
}

// Model selects the class model and the classes to wrap.
type Model struct {
	Path    string   `toml:"path"`
	Classes []string `toml:"classes"`
	Exclude []string `toml:"exclude"`
}

// Output configures the generated units.
type Output struct {
	Dir       string `toml:"dir"`
	Parts     int    `toml:"parts"`
	Generator string `toml:"generator"`
	Jobs      int    `toml:"jobs"`
}

// Runtime names the headers and runtime types the generated code uses.
type Runtime struct {
	Header          string `toml:"header"`
	AggregateHeader string `toml:"aggregate-header"`
	Stack           string `toml:"stack"`
	StackItem       string `toml:"stack-item"`
	Binding         string `toml:"binding"`
}

// Load parses a shimgen.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	m.applyDefaults()
	return &m, nil
}

// Default returns the configuration used when no shimgen.toml exists,
// rooted at dir.
func Default(dir string) (*Manifest, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	m := &Manifest{Dir: abs}
	m.applyDefaults()
	return m, nil
}

func (m *Manifest) applyDefaults() {
	if m.Model.Path == "" {
		m.Model.Path = "model.toml"
	}
	if m.Output.Dir == "" {
		m.Output.Dir = "generated"
	}
	if m.Output.Parts < 1 {
		m.Output.Parts = 1
	}
	if m.Output.Generator == "" {
		m.Output.Generator = "shimgen"
	}
}

// FindAndLoad walks up from startDir to find a shimgen.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// ModelPath returns the model file path, resolved against the manifest
// directory when relative.
func (m *Manifest) ModelPath() string {
	return m.resolve(m.Model.Path)
}

// OutputDir returns the output directory, resolved against the manifest
// directory when relative.
func (m *Manifest) OutputDir() string {
	return m.resolve(m.Output.Dir)
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir, p)
}

// SelectClasses returns the classes to wrap out of all. An explicit
// classes list replaces all and keeps its own order, first occurrence
// wins; excluded names are dropped afterwards.
func (m *Manifest) SelectClasses(all []string) []string {
	names := all
	if len(m.Model.Classes) > 0 {
		names = lo.Uniq(m.Model.Classes)
	}
	return lo.Without(names, m.Model.Exclude...)
}

// EmitOptions converts the manifest into generation options.
func (m *Manifest) EmitOptions() emit.Options {
	return emit.Options{
		Dir:             m.OutputDir(),
		Parts:           m.Output.Parts,
		Module:          m.Module.Name,
		Generator:       m.Output.Generator,
		RuntimeHeader:   m.Runtime.Header,
		AggregateHeader: m.Runtime.AggregateHeader,
		Runtime: shim.Runtime{
			Stack:     m.Runtime.Stack,
			StackItem: m.Runtime.StackItem,
			Binding:   m.Runtime.Binding,
		},
		Jobs: m.Output.Jobs,
	}
}
