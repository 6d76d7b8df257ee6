package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownType indicates a by-value use of a name the model cannot resolve.
	ErrUnknownType = errors.New("unknown type")
	// ErrUnknownClass indicates a reference to a class missing from the model.
	ErrUnknownClass = errors.New("unknown class")
	// ErrDuplicateClass indicates two classes with the same qualified name.
	ErrDuplicateClass = errors.New("duplicate class")
	// ErrDuplicateID indicates two classes sharing one binding identifier.
	ErrDuplicateID = errors.New("duplicate class id")
)

// Universe is the complete, resolved class model. It is built once and
// never mutated afterwards.
type Universe struct {
	Module string

	classes map[string]*Class
	order   []string
	enums   map[string]bool
	opaque  map[string]bool
}

// Build resolves a serialized model into a Universe.
func Build(f *File) (*Universe, error) {
	u := &Universe{
		Module:  f.Module,
		classes: make(map[string]*Class, len(f.Classes)),
		enums:   make(map[string]bool, len(f.Enums)),
		opaque:  make(map[string]bool, len(f.Opaque)),
	}
	for _, e := range f.Enums {
		u.enums[e] = true
	}
	for _, o := range f.Opaque {
		u.opaque[o] = true
	}

	// Register every class first so types can refer to classes declared later.
	ids := make(map[int]string, len(f.Classes))
	for i, cd := range f.Classes {
		if _, ok := u.classes[cd.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateClass, cd.Name)
		}
		id := cd.ID
		if id == 0 {
			id = i + 1
		}
		if other, ok := ids[id]; ok {
			return nil, fmt.Errorf("%w: %d used by %s and %s", ErrDuplicateID, id, other, cd.Name)
		}
		ids[id] = cd.Name
		u.classes[cd.Name] = &Class{
			Name:  cd.Name,
			File:  cd.File,
			ID:    id,
			Bases: append([]string(nil), cd.Bases...),
		}
		u.order = append(u.order, cd.Name)
	}

	for _, cd := range f.Classes {
		c := u.classes[cd.Name]
		for _, b := range c.Bases {
			if _, ok := u.classes[b]; !ok {
				return nil, fmt.Errorf("class %s: base %s: %w", c.Name, b, ErrUnknownClass)
			}
		}
		for _, md := range cd.Methods {
			m, err := u.buildMethod(c, md)
			if err != nil {
				return nil, err
			}
			c.Methods = append(c.Methods, m)
		}
		for _, md := range cd.Virtuals {
			m, err := u.buildMethod(c, md)
			if err != nil {
				return nil, err
			}
			m.Virtual = true
			c.Virtuals = append(c.Virtuals, m)
		}
	}
	return u, nil
}

func (u *Universe) buildMethod(c *Class, md MethodDecl) (*Method, error) {
	access, ok := ParseAccess(md.Access)
	if !ok {
		return nil, fmt.Errorf("%s::%s: bad access %q", c.Name, md.Name, md.Access)
	}
	m := &Method{
		Name:        md.Name,
		Static:      md.Static,
		Constructor: md.Constructor,
		Virtual:     md.Virtual,
		Const:       md.Const,
		Access:      access,
		Class:       c,
	}
	if md.Constructor {
		m.Return = &Type{Name: c.Name, Category: CategoryClassRef, PointerDepth: 1}
	} else {
		ret, err := u.ResolveType(md.Return)
		if err != nil {
			return nil, fmt.Errorf("%s::%s: return type: %w", c.Name, md.Name, err)
		}
		m.Return = ret
	}
	for i, pd := range md.Params {
		t, err := u.ResolveType(pd.Type)
		if err != nil {
			return nil, fmt.Errorf("%s::%s: parameter %d: %w", c.Name, md.Name, i+1, err)
		}
		if t.Category == CategoryVoid {
			return nil, fmt.Errorf("%s::%s: parameter %d: %w: void", c.Name, md.Name, i+1, ErrUnknownType)
		}
		m.Params = append(m.Params, Parameter{Name: pd.Name, Type: t, Position: i + 1})
	}
	return m, nil
}

// ResolveType turns a spelling into a Type. The empty spelling is void.
func (u *Universe) ResolveType(s string) (*Type, error) {
	sp := splitSpelling(s)
	if sp.name == "" || (sp.name == "void" && sp.pointerDepth == 0 && !sp.isRef) {
		return Void, nil
	}
	t := &Type{
		Name:         sp.name,
		PointerDepth: sp.pointerDepth,
		IsRef:        sp.isRef,
		IsConst:      sp.isConst,
	}
	indirect := sp.pointerDepth > 0 || sp.isRef
	switch {
	case u.classes[sp.name] != nil:
		if indirect {
			t.Category = CategoryClassRef
		} else {
			t.Category = CategoryClassValue
		}
	case u.opaque[sp.name]:
		t.Category = CategoryOpaque
	case indirect:
		// Pointers and references to anything that is not a known class
		// travel as untyped pointers.
		t.Category = CategoryOpaque
	case u.enums[sp.name]:
		t.Category = CategoryScalar
		t.Scalar = ScalarEnum
	case builtinScalars[sp.name] != ScalarNone:
		t.Category = CategoryScalar
		t.Scalar = builtinScalars[sp.name]
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return t, nil
}

// Class returns the named class, or nil.
func (u *Universe) Class(name string) *Class {
	return u.classes[name]
}

// Names returns all class names in declaration order.
func (u *Universe) Names() []string {
	return append([]string(nil), u.order...)
}

// Len returns the number of classes.
func (u *Universe) Len() int {
	return len(u.order)
}

// ClassID returns the binding identifier for the named class, or 0.
func (u *Universe) ClassID(name string) int {
	if c := u.classes[name]; c != nil {
		return c.ID
	}
	return 0
}

// CollectVirtualMethods returns every overridable virtual method visible
// from c: its own, its explicitly listed ones, then those of each base,
// depth-first in declared base order. Methods sharing a signature are
// reported once, most-derived first. Private virtuals are never reported.
func (u *Universe) CollectVirtualMethods(c *Class) []*Method {
	var out []*Method
	seen := make(map[string]bool)
	visited := make(map[string]bool)

	var walk func(c *Class)
	walk = func(c *Class) {
		if visited[c.Name] {
			return
		}
		visited[c.Name] = true
		add := func(m *Method) {
			if !m.Virtual || m.Static || m.Constructor {
				return
			}
			sig := m.Signature()
			if seen[sig] {
				return
			}
			// A private override hides the base version too.
			seen[sig] = true
			if m.Access != AccessPrivate {
				out = append(out, m)
			}
		}
		for _, m := range c.Methods {
			add(m)
		}
		for _, m := range c.Virtuals {
			add(m)
		}
		for _, b := range c.Bases {
			if base := u.classes[b]; base != nil {
				walk(base)
			}
		}
	}
	walk(c)
	return out
}

// ShimName returns the identifier of the generated shim class for a
// qualified class name: "x_" followed by the name with every scope
// separator replaced by "__".
func ShimName(className string) string {
	return "x_" + strings.ReplaceAll(className, "::", "__")
}
