// Package model holds the read-only class model that trampoline
// generation is driven by.
package model

import (
	"strings"
)

// Access is a member access level.
type Access int

const (
	AccessPublic Access = iota
	AccessProtected
	AccessPrivate
)

func (a Access) String() string {
	switch a {
	case AccessProtected:
		return "protected"
	case AccessPrivate:
		return "private"
	default:
		return "public"
	}
}

// ParseAccess converts a textual access level. The empty string is public.
func ParseAccess(s string) (Access, bool) {
	switch s {
	case "", "public":
		return AccessPublic, true
	case "protected":
		return AccessProtected, true
	case "private":
		return AccessPrivate, true
	}
	return AccessPublic, false
}

// Class is a native class as seen by the generator.
type Class struct {
	Name     string // qualified, e.g. "Geo::Shape"
	File     string // header the class is declared in
	ID       int    // stable per-class identifier passed to the binding
	Bases    []string
	Methods  []*Method
	Virtuals []*Method // virtuals known to the model but not listed in Methods
}

// Method is a method, constructor or static function of a class.
type Method struct {
	Name        string
	Return      *Type
	Params      []Parameter
	Static      bool
	Constructor bool
	Virtual     bool
	Const       bool
	Access      Access

	// Class is the declaring class. Lookup only.
	Class *Class
}

// Parameter is one method parameter.
type Parameter struct {
	Name     string
	Type     *Type
	Position int // stack slot, 1-based
}

// IsVoid reports whether the method produces no value.
func (m *Method) IsVoid() bool {
	return !m.Constructor && (m.Return == nil || m.Return.Category == CategoryVoid)
}

// String renders the method as a declaration, e.g.
// "virtual double area() const".
func (m *Method) String() string {
	var b strings.Builder
	if m.Static {
		b.WriteString("static ")
	}
	if m.Virtual {
		b.WriteString("virtual ")
	}
	if !m.Constructor {
		if m.Return == nil {
			b.WriteString("void")
		} else {
			b.WriteString(m.Return.String())
		}
		b.WriteByte(' ')
	}
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Type.String())
		if p.Name != "" {
			b.WriteByte(' ')
			b.WriteString(p.Name)
		}
	}
	b.WriteByte(')')
	if m.Const {
		b.WriteString(" const")
	}
	return b.String()
}

// Signature identifies a method for override purposes: two methods with
// the same signature are the same virtual slot.
func (m *Method) Signature() string {
	var b strings.Builder
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Type.String())
	}
	b.WriteByte(')')
	if m.Const {
		b.WriteString("const")
	}
	return b.String()
}
