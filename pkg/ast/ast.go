// Package ast defines the syntax tree produced by parsing DOOP source files.
//
// Nodes carry their source position for error reporting. A tree belongs to
// the file it was parsed from and is not mutated after parsing; resolution
// consumes trees from all files to build the cross-file graph.
package ast

import "fmt"

// Position tracks a source location for error messages.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset into source
}

// String renders the position as "line L, col C".
func (p Position) String() string {
	return fmt.Sprintf("line %d, col %d", p.Line, p.Column)
}

// IsValid reports whether the position refers to a real source location.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// ValueKind discriminates the Value tagged union.
type ValueKind string

const (
	ValueString ValueKind = "string"
	ValueNumber ValueKind = "number"
	ValueBool   ValueKind = "bool"
	ValueIdent  ValueKind = "ident"
)

// Value is a parsed literal. Kind determines which typed field is populated.
type Value struct {
	Kind ValueKind
	Str  string  // populated when Kind == ValueString or ValueIdent
	Num  float64 // populated when Kind == ValueNumber
	Bool bool    // populated when Kind == ValueBool
	Raw  string  // source text representation, always set
}

// String returns the source text representation of the value.
func (v Value) String() string { return v.Raw }

// Annotation is an @name(key: value, ...) marker attached to a component
// or view declaration.
type Annotation struct {
	Name string
	Args []AnnotationArg
	Pos  Position
}

// AnnotationArg is a single key: value pair inside an annotation.
type AnnotationArg struct {
	Key   string
	Value Value
	Pos   Position
}

// Arg looks up an annotation argument by key.
func (a *Annotation) Arg(key string) (Value, bool) {
	for _, arg := range a.Args {
		if arg.Key == key {
			return arg.Value, true
		}
	}
	return Value{}, false
}

// Property is a typed field of a component, optionally carrying a
// description, default value, and required flag from its attribute block.
type Property struct {
	Name        string
	Type        string
	Description string
	Default     *Value // nil when no default was declared
	Required    *bool  // nil when not declared
	Pos         Position
}

// Parameter is a single typed method parameter. Order is semantically
// meaningful and preserved from the declaration.
type Parameter struct {
	Name string
	Type string
	Pos  Position
}

// Method is a typed operation declared on a component.
type Method struct {
	Name          string
	Params        []Parameter
	ReturnType    string // "void" when the declaration has no arrow clause
	Description   string
	Precondition  string
	Postcondition string
	Returns       string // prose describing the return value
	Pos           Position
}

// Signature renders the method as "name(p: T, q: U) -> Ret". The arrow
// clause is omitted for void methods.
func (m *Method) Signature() string {
	s := m.Name + "("
	for i, p := range m.Params {
		if i > 0 {
			s += ", "
		}
		s += p.Name + ": " + p.Type
	}
	s += ")"
	if m.ReturnType != "" && m.ReturnType != "void" {
		s += " -> " + m.ReturnType
	}
	return s
}

// Relationship is a directed, typed edge declaration. A multi-target
// declaration in source expands to one Relationship per target.
type Relationship struct {
	Kind        string
	Target      string // unresolved component name until the semantic phase
	Reason      string
	Description string
	Pos         Position
}

// Visualization holds rendering hints for a component. Empty string and nil
// fields mean the hint was not declared.
type Visualization struct {
	Color string // normalized "#rrggbb", empty when unset
	Icon  string
	Group string
	Order *float64
	Pos   Position
}

// Include names one component included by a view.
type Include struct {
	Name string
	Pos  Position
}

// SequenceStep is one interaction in a view's sequence block. From and To
// are component names or the reserved actor "User".
type SequenceStep struct {
	From    string
	To      string
	Message string
	Pos     Position
}

// Component is a top-level component declaration.
type Component struct {
	Name          string
	Description   string
	Annotations   []Annotation
	Properties    []Property
	Methods       []Method
	Relationships []Relationship
	Visualization *Visualization
	Pos           Position
}

// View is a top-level view declaration grouping components for presentation.
type View struct {
	Name        string
	Description string
	Focus       string
	Annotations []Annotation
	Includes    []Include
	Sequence    []SequenceStep
	Pos         Position
}

// Decl is a top-level declaration: *Component or *View.
type Decl interface {
	Position() Position
	declNode()
}

func (c *Component) Position() Position { return c.Pos }
func (v *View) Position() Position { return v.Pos }

func (*Component) declNode() {}
func (*View) declNode() {}

// File is the parse result for one DOOP source file. Decls preserves
// top-level declaration order.
type File struct {
	Path  string
	Decls []Decl
}

// Components returns the file's component declarations in source order.
func (f *File) Components() []*Component {
	var out []*Component
	for _, d := range f.Decls {
		if c, ok := d.(*Component); ok {
			out = append(out, c)
		}
	}
	return out
}

// Views returns the file's view declarations in source order.
func (f *File) Views() []*View {
	var out []*View
	for _, d := range f.Decls {
		if v, ok := d.(*View); ok {
			out = append(out, v)
		}
	}
	return out
}
