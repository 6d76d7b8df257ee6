package emit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chazu/shimgen/model"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		n, parts int
		sizes    []int
	}{
		{10, 3, []int{3, 3, 4}},
		{10, 4, []int{2, 2, 3, 3}},
		{9, 3, []int{3, 3, 3}},
		{7, 1, []int{7}},
		{2, 5, []int{0, 0, 0, 1, 1}},
		{0, 2, []int{0, 0}},
		{4, 0, []int{4}},
		{4, -2, []int{4}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.n, tt.parts), func(t *testing.T) {
			names := make([]string, tt.n)
			for i := range names {
				names[i] = fmt.Sprintf("C%02d", i)
			}
			groups := Partition(names, tt.parts)

			var sizes []int
			var union []string
			for _, g := range groups {
				sizes = append(sizes, len(g))
				union = append(union, g...)
			}
			if diff := cmp.Diff(tt.sizes, sizes); diff != "" {
				t.Errorf("sizes mismatch (-want +got):\n%s", diff)
			}
			// contiguous, complete and exclusive: concatenation is the input
			if !slices.Equal(union, names) {
				t.Errorf("union of groups = %v, want %v", union, names)
			}
			if len(groups) > 0 {
				lo, hi := slices.Min(sizes), slices.Max(sizes)
				if hi-lo > 1 {
					t.Errorf("group sizes differ by %d", hi-lo)
				}
			}
		})
	}
}

func TestPartitionGroupsDoNotAlias(t *testing.T) {
	names := []string{"A", "B", "C", "D"}
	groups := Partition(names, 2)
	groups[0] = append(groups[0], "X")
	if names[2] != "C" {
		t.Errorf("appending to a group overwrote the input: %v", names)
	}
}

func shapesUniverse(t *testing.T) *model.Universe {
	t.Helper()
	f := &model.File{Module: "shapes"}
	// files deliberately out of order and shared between classes
	for i, file := range []string{"z.h", "b.h", "a.h", "b.h", "m.h", "a.h", "c.h"} {
		f.Classes = append(f.Classes, model.ClassDecl{
			Name: fmt.Sprintf("Shape%d", i),
			File: file,
			Methods: []model.MethodDecl{
				{Name: "area", Return: "double", Virtual: true, Const: true},
			},
		})
	}
	u, err := model.Build(f)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return u
}

func includes(content []byte) []string {
	var out []string
	for _, line := range strings.Split(string(content), "\n") {
		if strings.HasPrefix(line, "#include <") {
			out = append(out, strings.TrimSuffix(strings.TrimPrefix(line, "#include <"), ">"))
		}
	}
	return out
}

func TestRenderIncludes(t *testing.T) {
	u := shapesUniverse(t)
	units, err := Render(context.Background(), u, u.Names(), Options{Parts: 2, Module: "shapes"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("units = %d, want 2", len(units))
	}

	// unit 1: Shape0..Shape2 (z.h b.h a.h); unit 2: Shape3..Shape6 (b.h m.h a.h c.h)
	want := [][]string{
		{"smoke.h", "shapes_smoke.h", "a.h", "b.h", "z.h"},
		{"smoke.h", "shapes_smoke.h", "a.h", "b.h", "c.h", "m.h"},
	}
	for i, unit := range units {
		if diff := cmp.Diff(want[i], includes(unit.Content)); diff != "" {
			t.Errorf("%s includes mismatch (-want +got):\n%s", unit.Name, diff)
		}
	}
}

func TestRenderIncludesIgnoreClassOrder(t *testing.T) {
	u := shapesUniverse(t)
	names := u.Names()
	reversed := slices.Clone(names)
	slices.Reverse(reversed)

	a, err := Render(context.Background(), u, names, Options{Parts: 1, Module: "shapes"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b, err := Render(context.Background(), u, reversed, Options{Parts: 1, Module: "shapes"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if diff := cmp.Diff(includes(a[0].Content), includes(b[0].Content)); diff != "" {
		t.Errorf("include order depends on class order:\n%s", diff)
	}
}

func TestRenderLayout(t *testing.T) {
	u := shapesUniverse(t)
	units, err := Render(context.Background(), u, []string{"Shape0"}, Options{Parts: 1, Module: "shapes", Generator: "shimgen-test"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "//Auto-generated by shimgen-test. DO NOT EDIT.\n" +
		"#include <smoke.h>\n" +
		"#include <shapes_smoke.h>\n" +
		"#include <z.h>\n" +
		"\n" +
		"class x_Shape0 : public Shape0 {\n"
	if got := string(units[0].Content); !strings.HasPrefix(got, want) {
		t.Errorf("unit does not start with the expected preamble:\n%s", got)
	}
	if units[0].Name != "x_1.cpp" {
		t.Errorf("unit name = %q, want x_1.cpp", units[0].Name)
	}
}

func TestRenderEmptyUnits(t *testing.T) {
	u := shapesUniverse(t)
	units, err := Render(context.Background(), u, []string{"Shape1"}, Options{Parts: 3, Module: "shapes"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(units) != 3 {
		t.Fatalf("units = %d, want 3", len(units))
	}
	for _, unit := range units[:2] {
		if bytes.Contains(unit.Content, []byte("class ")) {
			t.Errorf("%s should be empty:\n%s", unit.Name, unit.Content)
		}
	}
	if !bytes.Contains(units[2].Content, []byte("class x_Shape1 ")) {
		t.Errorf("last unit should hold Shape1:\n%s", units[2].Content)
	}
}

func TestRenderDeterministic(t *testing.T) {
	u := shapesUniverse(t)
	opts := Options{Parts: 3, Module: "shapes", Jobs: 4}

	first, err := Render(context.Background(), u, u.Names(), opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for run := 0; run < 5; run++ {
		again, err := Render(context.Background(), u, u.Names(), opts)
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", run, diff)
		}
	}
}

func TestRenderUnknownClass(t *testing.T) {
	u := shapesUniverse(t)
	_, err := Render(context.Background(), u, []string{"Nope"}, Options{})
	if !errors.Is(err, model.ErrUnknownClass) {
		t.Errorf("expected ErrUnknownClass, got %v", err)
	}
}

func TestRenderDuplicateClass(t *testing.T) {
	u := shapesUniverse(t)
	_, err := Render(context.Background(), u, []string{"Shape1", "Shape2", "Shape1"}, Options{Parts: 2})
	if !errors.Is(err, model.ErrDuplicateClass) {
		t.Errorf("expected ErrDuplicateClass, got %v", err)
	}
}

func TestRunWritesAndTruncates(t *testing.T) {
	u := shapesUniverse(t)
	dir := filepath.Join(t.TempDir(), "out")

	// a stale, longer file must be replaced entirely
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := bytes.Repeat([]byte("stale\n"), 10000)
	if err := os.WriteFile(filepath.Join(dir, "x_1.cpp"), stale, 0o644); err != nil {
		t.Fatal(err)
	}

	opts := Options{Dir: dir, Parts: 2, Module: "shapes"}
	paths, err := Run(context.Background(), u, u.Names(), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{filepath.Join(dir, "x_1.cpp"), filepath.Join(dir, "x_2.cpp")}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}

	units, err := Render(context.Background(), u, u.Names(), opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for i, path := range paths {
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, units[i].Content) {
			t.Errorf("%s does not match rendered unit", path)
		}
	}
}

func TestWriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	// a regular file where the output directory should be
	if _, err := Write([]Unit{{Name: "x_1.cpp"}}, blocker); err == nil {
		t.Error("expected error when the output dir is a file")
	}
}
