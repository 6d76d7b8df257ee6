// Package shim generates C++ shim classes whose trampolines marshal
// calls between native code and a binding through a generic call stack.
package shim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/shimgen/model"
)

// ErrUnclassifiable indicates a type with no stack slot. It is always a
// defect in the input model.
var ErrUnclassifiable = errors.New("type has no stack slot")

// Slot describes how a value of one type travels through a stack item.
type Slot struct {
	Type *model.Type

	// Field is the stack item accessor, e.g. "s_int" or "s_class".
	// Empty for void.
	Field string

	// Spelling is the type used in casts to and from the slot.
	Spelling string

	// Adjusted is set when Spelling had its reference stripped and a
	// pointer level added because the value itself cannot be stored.
	// Reads must then dereference exactly once.
	Adjusted bool
}

// Classify maps a type to its stack slot.
func Classify(t *model.Type) (Slot, error) {
	if t == nil {
		return Slot{}, fmt.Errorf("%w: nil type", ErrUnclassifiable)
	}
	s := Slot{Type: t, Spelling: t.String()}
	switch t.Category {
	case model.CategoryVoid:
		return s, nil
	case model.CategoryScalar:
		if t.Scalar == model.ScalarNone {
			return Slot{}, fmt.Errorf("%w: %s has no scalar kind", ErrUnclassifiable, t)
		}
		s.Field = "s_" + t.Scalar.String()
	case model.CategoryClassValue, model.CategoryClassRef:
		s.Field = "s_class"
	case model.CategoryOpaque:
		s.Field = "s_voidp"
	default:
		return Slot{}, fmt.Errorf("%w: %s (%v)", ErrUnclassifiable, t, t.Category)
	}

	if t.PointerDepth == 0 && (s.Field == "s_class" || t.IsRef) {
		s.Spelling = strings.TrimSuffix(s.Spelling, "&") + "*"
		s.Adjusted = true
	}
	return s, nil
}

// IsVoid reports whether the slot carries no value.
func (s Slot) IsVoid() bool {
	return s.Field == ""
}

// heapCopy reports whether values are transported as a heap allocated
// copy owned by the receiver.
func (s Slot) heapCopy() bool {
	return s.Type.PointerDepth == 0 && !s.Type.IsRef &&
		(s.Type.Category == model.CategoryClassValue)
}

// Read renders an expression reading the slot at index as a value of
// the slot's type.
func (s Slot) Read(index int) string {
	expr := fmt.Sprintf("(%s)x[%d].%s", s.Spelling, index, s.Field)
	if s.Adjusted {
		return "*" + expr
	}
	return expr
}

// Assign renders the right hand side that stores expr into the slot.
func (s Slot) Assign(expr string) string {
	switch {
	case s.Type.PointerDepth > 0:
		return "(void*)" + expr
	case s.Type.IsRef:
		return "(void*)&" + expr
	case s.Type.Category == model.CategoryScalar:
		return expr
	case s.heapCopy():
		return fmt.Sprintf("(void*)new %s(%s)", s.Type, expr)
	default:
		// opaque handles travel as they are
		return "(void*)" + expr
	}
}
