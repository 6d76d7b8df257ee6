package shim

import (
	"fmt"
	"strings"

	"github.com/chazu/shimgen/model"
)

// writeVirtualMethod emits an override of m that offers the call to the
// binding first and falls back to the base implementation when the
// binding declines.
func (g *Generator) writeVirtualMethod(b *strings.Builder, className string, classID int, m *model.Method) error {
	ret, err := Classify(m.Return)
	if err != nil {
		return fmt.Errorf("%s::%s: return: %w", className, m.Name, err)
	}

	var stores strings.Builder
	args := make([]string, len(m.Params))

	fmt.Fprintf(b, "    virtual %s %s(", m.Return, m.Name)
	for i, p := range m.Params {
		s, err := Classify(p.Type)
		if err != nil {
			return fmt.Errorf("%s::%s: parameter %d: %w", className, m.Name, p.Position, err)
		}
		if i > 0 {
			b.WriteString(", ")
		}
		args[i] = fmt.Sprintf("x%d", i+1)
		fmt.Fprintf(b, "%s %s", p.Type, args[i])
		fmt.Fprintf(&stores, "        x[%d].%s = %s;\n", p.Position, s.Field, s.Assign(args[i]))
	}
	b.WriteString(")")
	if m.Const {
		b.WriteString(" const")
	}
	b.WriteString(" {\n")

	fmt.Fprintf(b, "        %s x[%d];\n", g.rt.StackItem, len(m.Params)+1)
	b.WriteString(stores.String())
	fmt.Fprintf(b, "        if (this->%s && this->%s->%s(%d, (void*)this, x)) ", g.rt.BindingField, g.rt.BindingField, g.rt.CallMethod, classID)
	switch {
	case ret.IsVoid():
		b.WriteString("return;\n")
	case ret.heapCopy():
		// The binding handed over a heap copy; take the value and free it.
		b.WriteString("{\n")
		fmt.Fprintf(b, "            %s xptr = (%s)x[0].%s;\n", ret.Spelling, ret.Spelling, ret.Field)
		fmt.Fprintf(b, "            %s xret(*xptr);\n", m.Return)
		b.WriteString("            delete xptr;\n")
		b.WriteString("            return xret;\n")
		b.WriteString("        }\n")
	default:
		fmt.Fprintf(b, "return %s;\n", ret.Read(0))
	}

	b.WriteString("        ")
	if !ret.IsVoid() {
		b.WriteString("return ")
	}
	fmt.Fprintf(b, "this->%s::%s(%s);\n", className, m.Name, strings.Join(args, ", "))
	b.WriteString("    }\n")
	return nil
}
