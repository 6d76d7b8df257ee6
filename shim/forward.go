package shim

import (
	"fmt"
	"strings"

	"github.com/chazu/shimgen/model"
)

// StubName returns the name of the forward stub for the method at index
// in its class's method table. x_0 is reserved for binding attachment.
func StubName(index int) string {
	return fmt.Sprintf("x_%d", index+1)
}

// writeMethod emits the forward stub for m: it unpacks the stack into a
// native call and stores the result into slot 0. Constructors also get a
// forwarding constructor on the shim.
func (g *Generator) writeMethod(b *strings.Builder, className, shimName string, m *model.Method, index int) error {
	var ret Slot
	if !m.Constructor {
		var err error
		if ret, err = Classify(m.Return); err != nil {
			return fmt.Errorf("%s::%s: return: %w", className, m.Name, err)
		}
	}

	b.WriteString("    ")
	if m.Static {
		b.WriteString("static ")
	}
	fmt.Fprintf(b, "void %s(%s x) {\n", StubName(index), g.rt.Stack)
	fmt.Fprintf(b, "        // %s\n", m)
	b.WriteString("        ")
	if m.Constructor {
		fmt.Fprintf(b, "%s* xret = new %s(", shimName, shimName)
	} else {
		if !ret.IsVoid() {
			fmt.Fprintf(b, "%s xret = ", m.Return)
		}
		if !m.Static {
			b.WriteString("this->")
		}
		fmt.Fprintf(b, "%s::%s(", className, m.Name)
	}
	for j, p := range m.Params {
		s, err := Classify(p.Type)
		if err != nil {
			return fmt.Errorf("%s::%s: parameter %d: %w", className, m.Name, p.Position, err)
		}
		if j > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.Read(p.Position))
	}
	b.WriteString(");\n")

	switch {
	case m.Constructor:
		b.WriteString("        x[0].s_class = (void*)xret;\n")
	case !ret.IsVoid():
		fmt.Fprintf(b, "        x[0].%s = %s;\n", ret.Field, ret.Assign("xret"))
	default:
		b.WriteString("        (void)x; // noop (for compiler warning)\n")
	}
	b.WriteString("    }\n")

	if m.Constructor {
		fmt.Fprintf(b, "    explicit %s(", shimName)
		args := make([]string, len(m.Params))
		for i, p := range m.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			args[i] = fmt.Sprintf("x%d", i+1)
			fmt.Fprintf(b, "%s %s", p.Type, args[i])
		}
		fmt.Fprintf(b, ") : %s(%s), %s(0) {}\n", m.Class.Name, strings.Join(args, ", "), g.rt.BindingField)
	}
	return nil
}
