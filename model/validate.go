package model

import (
	"errors"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// ErrInvalidModel indicates a model file that does not match the schema.
var ErrInvalidModel = errors.New("invalid model")

const modelSchema = `
#Ident: =~"^[A-Za-z_][A-Za-z0-9_]*(::[A-Za-z_][A-Za-z0-9_]*)*$"

#Param: {
	name?: string
	type:  string & !=""
}

#Method: {
	name:         string & !=""
	return?:      string
	params?:      [...#Param]
	static?:      bool
	constructor?: bool
	virtual?:     bool
	const?:       bool
	access?:      "public" | "protected" | "private"
}

#Class: {
	name:      #Ident
	file:      string & !=""
	id?:       int & >0
	bases?:    [...#Ident]
	methods?:  [...#Method]
	virtuals?: [...#Method]
}

#Model: {
	module?:  string
	enums?:   [...string & !=""]
	opaque?:  [...string & !=""]
	classes?: [...#Class]
}
`

var schema = sync.OnceValues(func() (cue.Value, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(modelSchema, cue.Filename("model.cue"))
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("model: compile schema: %w", err)
	}
	return v.LookupPath(cue.ParsePath("#Model")), nil
})

// cue values are not safe for concurrent use.
var schemaMu sync.Mutex

// Validate checks f against the model schema and reports every violation.
func Validate(f *File) error {
	schemaMu.Lock()
	defer schemaMu.Unlock()

	def, err := schema()
	if err != nil {
		return err
	}
	v := def.Context().Encode(f)
	if err := def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidModel, cueerrors.Details(err, nil))
	}
	return nil
}
