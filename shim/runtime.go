package shim

// Runtime names the types and members of the runtime contract the
// generated code is compiled against.
type Runtime struct {
	Stack        string // generic call stack, e.g. "Smoke::Stack"
	StackItem    string // one stack slot, e.g. "Smoke::StackItem"
	Binding      string // binding handle type
	BindingField string // shim member holding the binding
	CallMethod   string // binding member offering first refusal on virtual calls
	Deleted      string // binding member notified on destruction
}

// DefaultRuntime returns the SMOKE runtime spellings.
func DefaultRuntime() Runtime {
	return Runtime{
		Stack:        "Smoke::Stack",
		StackItem:    "Smoke::StackItem",
		Binding:      "SmokeBinding",
		BindingField: "_binding",
		CallMethod:   "callMethod",
		Deleted:      "deleted",
	}
}

// withDefaults fills every empty name from DefaultRuntime.
func (r Runtime) withDefaults() Runtime {
	d := DefaultRuntime()
	if r.Stack == "" {
		r.Stack = d.Stack
	}
	if r.StackItem == "" {
		r.StackItem = d.StackItem
	}
	if r.Binding == "" {
		r.Binding = d.Binding
	}
	if r.BindingField == "" {
		r.BindingField = d.BindingField
	}
	if r.CallMethod == "" {
		r.CallMethod = d.CallMethod
	}
	if r.Deleted == "" {
		r.Deleted = d.Deleted
	}
	return r
}
