package shim

import (
	"fmt"
	"io"
	"strings"

	"github.com/chazu/shimgen/model"
)

// Generator writes shim classes for the classes of one model.
type Generator struct {
	u  *model.Universe
	rt Runtime
}

// New returns a Generator for u. Empty runtime names take their
// DefaultRuntime values.
func New(u *model.Universe, rt Runtime) *Generator {
	return &Generator{u: u, rt: rt.withDefaults()}
}

// Class renders the shim class for c.
func (g *Generator) Class(c *model.Class) (string, error) {
	var b strings.Builder
	shimName := model.ShimName(c.Name)
	classID := g.u.ClassID(c.Name)

	fmt.Fprintf(&b, "class %s : public %s {\n", shimName, c.Name)
	fmt.Fprintf(&b, "    %s* %s;\n", g.rt.Binding, g.rt.BindingField)
	b.WriteString("public:\n")
	fmt.Fprintf(&b, "    void x_0(%s x) {\n", g.rt.Stack)
	b.WriteString("        // set the binding\n")
	fmt.Fprintf(&b, "        %s = (%s*)x[1].s_class;\n", g.rt.BindingField, g.rt.Binding)
	b.WriteString("    }\n")

	for i, m := range c.Methods {
		if m.Access == model.AccessPrivate {
			continue
		}
		if err := g.writeMethod(&b, c.Name, shimName, m, i); err != nil {
			return "", err
		}
	}
	for _, m := range g.u.CollectVirtualMethods(c) {
		if err := g.writeVirtualMethod(&b, c.Name, classID, m); err != nil {
			return "", err
		}
	}

	// unattached until x_0 runs
	fmt.Fprintf(&b, "    ~%s() { if (this->%s) this->%s->%s(%d, (void*)this); }\n", shimName, g.rt.BindingField, g.rt.BindingField, g.rt.Deleted, classID)
	b.WriteString("};\n\n")
	return b.String(), nil
}

// WriteClass writes the shim class for c to w.
func (g *Generator) WriteClass(w io.Writer, c *model.Class) error {
	code, err := g.Class(c)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, code)
	return err
}
