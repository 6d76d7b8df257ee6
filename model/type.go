package model

import (
	"strings"
)

// Category is the marshaling category of a type.
type Category int

const (
	CategoryInvalid    Category = iota
	CategoryVoid                // no value
	CategoryScalar              // numeric or enum, passed by value
	CategoryClassValue          // known class, passed by value
	CategoryClassRef            // known class through a pointer chain or reference
	CategoryOpaque              // any other pointer, or a declared opaque handle
)

func (c Category) String() string {
	switch c {
	case CategoryVoid:
		return "void"
	case CategoryScalar:
		return "scalar"
	case CategoryClassValue:
		return "class-value"
	case CategoryClassRef:
		return "class-ref"
	case CategoryOpaque:
		return "opaque"
	}
	return "invalid"
}

// Scalar is the numeric kind of a scalar type.
type Scalar int

const (
	ScalarNone Scalar = iota
	ScalarBool
	ScalarChar
	ScalarUChar
	ScalarShort
	ScalarUShort
	ScalarInt
	ScalarUInt
	ScalarLong
	ScalarULong
	ScalarFloat
	ScalarDouble
	ScalarEnum
)

var scalarNames = [...]string{
	ScalarNone:   "",
	ScalarBool:   "bool",
	ScalarChar:   "char",
	ScalarUChar:  "uchar",
	ScalarShort:  "short",
	ScalarUShort: "ushort",
	ScalarInt:    "int",
	ScalarUInt:   "uint",
	ScalarLong:   "long",
	ScalarULong:  "ulong",
	ScalarFloat:  "float",
	ScalarDouble: "double",
	ScalarEnum:   "enum",
}

func (s Scalar) String() string {
	if s < 0 || int(s) >= len(scalarNames) {
		return ""
	}
	return scalarNames[s]
}

// builtinScalars maps native integral spellings to their scalar kind.
var builtinScalars = map[string]Scalar{
	"bool":               ScalarBool,
	"char":               ScalarChar,
	"signed char":        ScalarChar,
	"unsigned char":      ScalarUChar,
	"uchar":              ScalarUChar,
	"short":              ScalarShort,
	"short int":          ScalarShort,
	"unsigned short":     ScalarUShort,
	"unsigned short int": ScalarUShort,
	"ushort":             ScalarUShort,
	"int":                ScalarInt,
	"signed":             ScalarInt,
	"signed int":         ScalarInt,
	"unsigned":           ScalarUInt,
	"unsigned int":       ScalarUInt,
	"uint":               ScalarUInt,
	"long":               ScalarLong,
	"long int":           ScalarLong,
	"unsigned long":      ScalarULong,
	"unsigned long int":  ScalarULong,
	"ulong":              ScalarULong,
	"float":              ScalarFloat,
	"double":             ScalarDouble,
}

// Type is a resolved native type.
type Type struct {
	Name         string // base name without qualifiers, e.g. "QString"
	Category     Category
	Scalar       Scalar // set when Category is CategoryScalar
	PointerDepth int
	IsRef        bool
	IsConst      bool
}

// Void is the type of methods that produce no value.
var Void = &Type{Name: "void", Category: CategoryVoid}

// String renders the canonical spelling of t.
func (t *Type) String() string {
	var b strings.Builder
	if t.IsConst {
		b.WriteString("const ")
	}
	b.WriteString(t.Name)
	b.WriteString(strings.Repeat("*", t.PointerDepth))
	if t.IsRef {
		b.WriteByte('&')
	}
	return b.String()
}

// spelling is a type spelling split into its parts.
type spelling struct {
	name         string
	pointerDepth int
	isRef        bool
	isConst      bool
}

// splitSpelling breaks a spelling like "const QString &" or
// "QWidget * const *" into base name, pointer depth, reference and
// constness of the pointee. Pointer constness is dropped. Inner
// whitespace in the base name is normalized to single spaces.
func splitSpelling(s string) spelling {
	var sp spelling
	s = strings.TrimSpace(s)
	for {
		switch {
		case strings.HasSuffix(s, "&"):
			sp.isRef = true
			s = strings.TrimSpace(strings.TrimSuffix(s, "&"))
			continue
		case strings.HasSuffix(s, "*"):
			sp.pointerDepth++
			s = strings.TrimSpace(strings.TrimSuffix(s, "*"))
			continue
		case strings.HasSuffix(s, " const"):
			s = strings.TrimSpace(strings.TrimSuffix(s, " const"))
			// "T* const" qualifies the pointer, "T const" the pointee.
			if !strings.HasSuffix(s, "*") {
				sp.isConst = true
			}
			continue
		}
		break
	}
	if strings.HasPrefix(s, "const ") {
		sp.isConst = true
		s = strings.TrimPrefix(s, "const ")
	}
	sp.name = strings.Join(strings.Fields(s), " ")
	return sp
}
