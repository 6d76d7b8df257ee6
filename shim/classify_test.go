package shim

import (
	"errors"
	"testing"

	"github.com/chazu/shimgen/model"
)

func TestClassify(t *testing.T) {
	u := widgetsUniverse(t)

	tests := []struct {
		spelling string
		field    string
		cast     string
		adjusted bool
		read     string
		assign   string
	}{
		{"int", "s_int", "int", false, "(int)x[1].s_int", "v"},
		{"unsigned long", "s_ulong", "unsigned long", false, "(unsigned long)x[1].s_ulong", "v"},
		{"bool", "s_bool", "bool", false, "(bool)x[1].s_bool", "v"},
		{"double", "s_double", "double", false, "(double)x[1].s_double", "v"},
		{"Align", "s_enum", "Align", false, "(Align)x[1].s_enum", "v"},
		{"Size", "s_class", "Size*", true, "*(Size*)x[1].s_class", "(void*)new Size(v)"},
		{"const Size&", "s_class", "const Size*", true, "*(const Size*)x[1].s_class", "(void*)&v"},
		{"Size*", "s_class", "Size*", false, "(Size*)x[1].s_class", "(void*)v"},
		{"Widget**", "s_class", "Widget**", false, "(Widget**)x[1].s_class", "(void*)v"},
		{"const char*", "s_voidp", "const char*", false, "(const char*)x[1].s_voidp", "(void*)v"},
		{"int&", "s_voidp", "int*", true, "*(int*)x[1].s_voidp", "(void*)&v"},
	}
	for _, tt := range tests {
		t.Run(tt.spelling, func(t *testing.T) {
			typ, err := u.ResolveType(tt.spelling)
			if err != nil {
				t.Fatalf("ResolveType: %v", err)
			}
			s, err := Classify(typ)
			if err != nil {
				t.Fatalf("Classify: %v", err)
			}
			if s.Field != tt.field {
				t.Errorf("Field = %q, want %q", s.Field, tt.field)
			}
			if s.Spelling != tt.cast {
				t.Errorf("Spelling = %q, want %q", s.Spelling, tt.cast)
			}
			if s.Adjusted != tt.adjusted {
				t.Errorf("Adjusted = %v, want %v", s.Adjusted, tt.adjusted)
			}
			if got := s.Read(1); got != tt.read {
				t.Errorf("Read(1) = %q, want %q", got, tt.read)
			}
			if got := s.Assign("v"); got != tt.assign {
				t.Errorf("Assign(v) = %q, want %q", got, tt.assign)
			}
		})
	}
}

func TestClassifyVoid(t *testing.T) {
	s, err := Classify(model.Void)
	if err != nil {
		t.Fatalf("Classify(void): %v", err)
	}
	if !s.IsVoid() {
		t.Errorf("void slot has field %q", s.Field)
	}
}

func TestClassifyDefects(t *testing.T) {
	tests := []struct {
		name string
		typ  *model.Type
	}{
		{"nil", nil},
		{"invalid category", &model.Type{Name: "Mystery"}},
		{"scalar without kind", &model.Type{Name: "weird", Category: model.CategoryScalar}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Classify(tt.typ); !errors.Is(err, ErrUnclassifiable) {
				t.Errorf("expected ErrUnclassifiable, got %v", err)
			}
		})
	}
}
