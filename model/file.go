package model

// File is the serialized form of a class model, as produced by an
// upstream header parser. Types are kept as spellings and resolved by
// Build.
type File struct {
	Module  string      `toml:"module" json:"module,omitempty"`
	Enums   []string    `toml:"enums" json:"enums,omitempty"`
	Opaque  []string    `toml:"opaque" json:"opaque,omitempty"`
	Classes []ClassDecl `toml:"class" json:"classes,omitempty"`
}

// ClassDecl is a serialized class.
type ClassDecl struct {
	Name     string       `toml:"name" json:"name"`
	File     string       `toml:"file" json:"file"`
	ID       int          `toml:"id" json:"id,omitempty"`
	Bases    []string     `toml:"bases" json:"bases,omitempty"`
	Methods  []MethodDecl `toml:"method" json:"methods,omitempty"`
	Virtuals []MethodDecl `toml:"virtual" json:"virtuals,omitempty"`
}

// MethodDecl is a serialized method.
type MethodDecl struct {
	Name        string      `toml:"name" json:"name"`
	Return      string      `toml:"return" json:"return,omitempty"`
	Params      []ParamDecl `toml:"param" json:"params,omitempty"`
	Static      bool        `toml:"static" json:"static,omitempty"`
	Constructor bool        `toml:"constructor" json:"constructor,omitempty"`
	Virtual     bool        `toml:"virtual" json:"virtual,omitempty"`
	Const       bool        `toml:"const" json:"const,omitempty"`
	Access      string      `toml:"access" json:"access,omitempty"`
}

// ParamDecl is a serialized parameter.
type ParamDecl struct {
	Name string `toml:"name" json:"name,omitempty"`
	Type string `toml:"type" json:"type"`
}
