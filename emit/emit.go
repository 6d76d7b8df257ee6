// Package emit splits a class set into output units and writes one
// source file per unit.
package emit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/shimgen/model"
	"github.com/chazu/shimgen/shim"
)

var log = commonlog.GetLogger("shimgen.emit")

// Options configures a generation run.
type Options struct {
	Dir       string // output directory
	Parts     int    // number of output units
	Module    string // module name, used for the aggregate header
	Generator string // name recorded in the generated-file warning

	RuntimeHeader   string // runtime contract header, default "smoke.h"
	AggregateHeader string // module header, default "<module>_smoke.h"

	Runtime shim.Runtime
	Jobs    int // units rendered concurrently, default 1
}

func (o Options) withDefaults() Options {
	if o.Dir == "" {
		o.Dir = "."
	}
	if o.Parts < 1 {
		o.Parts = 1
	}
	if o.Generator == "" {
		o.Generator = "shimgen"
	}
	if o.RuntimeHeader == "" {
		o.RuntimeHeader = "smoke.h"
	}
	if o.AggregateHeader == "" {
		o.AggregateHeader = o.Module + "_smoke.h"
	}
	if o.Jobs < 1 {
		o.Jobs = 1
	}
	return o
}

// Unit is one rendered output file.
type Unit struct {
	Name    string // file name, e.g. "x_1.cpp"
	Classes []string
	Content []byte
}

// UnitName returns the file name of the unit at index i.
func UnitName(i int) string {
	return fmt.Sprintf("x_%d.cpp", i+1)
}

// Partition splits names into parts contiguous groups whose sizes differ
// by at most one. The trailing groups absorb the remainder, so when there
// are fewer names than parts the leading groups are empty.
func Partition(names []string, parts int) [][]string {
	if parts < 1 {
		parts = 1
	}
	size, rem := len(names)/parts, len(names)%parts
	groups := make([][]string, parts)
	start := 0
	for i := range groups {
		n := size
		if i >= parts-rem {
			n++
		}
		groups[i] = names[start : start+n : start+n]
		start += n
	}
	return groups
}

// Render generates every unit in memory. Units are rendered concurrently
// but the result is ordered by unit index and does not depend on
// scheduling.
func Render(ctx context.Context, u *model.Universe, names []string, opts Options) ([]Unit, error) {
	opts = opts.withDefaults()
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if u.Class(name) == nil {
			return nil, fmt.Errorf("%w: %s", model.ErrUnknownClass, name)
		}
		// each shim class may be defined only once
		if seen[name] {
			return nil, fmt.Errorf("%w: %s selected twice", model.ErrDuplicateClass, name)
		}
		seen[name] = true
	}

	gen := shim.New(u, opts.Runtime)
	groups := Partition(names, opts.Parts)
	units := make([]Unit, len(groups))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)
	for i, group := range groups {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := renderUnit(gen, u, group, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", UnitName(i), err)
			}
			units[i] = Unit{Name: UnitName(i), Classes: group, Content: content}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}

func renderUnit(gen *shim.Generator, u *model.Universe, group []string, opts Options) ([]byte, error) {
	// class code goes to a buffer first so the includes can be prepended
	var classCode strings.Builder
	files := make([]string, 0, len(group))
	for _, name := range group {
		c := u.Class(name)
		files = append(files, c.File)
		if err := gen.WriteClass(&classCode, c); err != nil {
			return nil, err
		}
	}

	includes := lo.Uniq(files)
	slices.Sort(includes)

	var b strings.Builder
	fmt.Fprintf(&b, "//Auto-generated by %s. DO NOT EDIT.\n", opts.Generator)
	fmt.Fprintf(&b, "#include <%s>\n#include <%s>\n", opts.RuntimeHeader, opts.AggregateHeader)
	for _, inc := range includes {
		fmt.Fprintf(&b, "#include <%s>\n", inc)
	}
	b.WriteString("\n")
	b.WriteString(classCode.String())
	return []byte(b.String()), nil
}

// Write creates dir and writes every unit into it, truncating existing
// files. It stops at the first failure; units written before it are
// left in place and the run must be repeated.
func Write(units []Unit, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}
	paths := make([]string, 0, len(units))
	for _, unit := range units {
		path := filepath.Join(dir, unit.Name)
		if err := os.WriteFile(path, unit.Content, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}
		log.Debugf("wrote %s (%d classes)", path, len(unit.Classes))
		paths = append(paths, path)
	}
	return paths, nil
}

// Run renders the units for names and writes them to opts.Dir.
func Run(ctx context.Context, u *model.Universe, names []string, opts Options) ([]string, error) {
	opts = opts.withDefaults()
	log.Infof("generating %d classes into %d units", len(names), opts.Parts)
	units, err := Render(ctx, u, names, opts)
	if err != nil {
		return nil, err
	}
	return Write(units, opts.Dir)
}
