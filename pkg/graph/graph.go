// Package graph defines the resolved architecture graph - the
// language-agnostic intermediate representation every DOOP project compiles
// into. The resolver builds it from parsed files, and the markdown, DOT,
// and JSON emitters all read from it.
package graph

import (
	"sync"
	"time"
)

// Relationship kinds. The set is closed: the resolver rejects any other
// kind with a semantic error.
const (
	KindDependsOn        = "depends_on"
	KindProvides         = "provides"
	KindUses             = "uses"
	KindExtends          = "extends"
	KindComposedOf       = "composed_of"
	KindCommunicatesWith = "communicates_with"
)

// ActorUser is the reserved sequence participant representing an external
// user. It may appear in sequence steps without being declared.
const ActorUser = "User"

// ValidKinds returns the closed set of relationship kinds in display order.
func ValidKinds() []string {
	return []string{
		KindDependsOn,
		KindProvides,
		KindUses,
		KindExtends,
		KindComposedOf,
		KindCommunicatesWith,
	}
}

// ValidKind reports whether kind is one of the recognized relationship
// kinds.
func ValidKind(kind string) bool {
	switch kind {
	case KindDependsOn, KindProvides, KindUses, KindExtends, KindComposedOf, KindCommunicatesWith:
		return true
	}
	return false
}

// Graph is the resolved architecture model of one compilation.
type Graph struct {
	// Metadata
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Branch      string    `json:"branch,omitempty"`     // From git, when available
	CommitSHA   string    `json:"commit_sha,omitempty"` // From git, when available

	// Structure
	Components []Component `json:"components"` // Declaration order across files
	Views      []View      `json:"views"`
	Edges      []Edge      `json:"edges"` // Resolved relationships

	componentIndex map[string]int
	viewIndex      map[string]int

	cyclesOnce sync.Once
	cycles     [][]string
}

// Component is one resolved component declaration.
type Component struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	File        string         `json:"file"` // Source file that declared it
	Line        int            `json:"line"`
	Annotations []Annotation   `json:"annotations,omitempty"`
	Properties  []Property     `json:"properties,omitempty"`
	Methods     []Method       `json:"methods,omitempty"`
	Visual      *Visualization `json:"visualization,omitempty"`
}

// Annotation is a resolved @marker with its arguments flattened to their
// source text.
type Annotation struct {
	Name string            `json:"name"`
	Args map[string]string `json:"args,omitempty"`
}

// Property is a typed data field of a component.
type Property struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Default     string `json:"default,omitempty"` // Canonical literal text
	Required    *bool  `json:"required,omitempty"`
}

// Method is a behavior contract of a component.
type Method struct {
	Name          string      `json:"name"`
	Signature     string      `json:"signature"` // e.g. "login(email: String) -> Session"
	Params        []Parameter `json:"params,omitempty"`
	ReturnType    string      `json:"return_type"` // "void" when none declared
	Description   string      `json:"description,omitempty"`
	Precondition  string      `json:"precondition,omitempty"`
	Postcondition string      `json:"postcondition,omitempty"`
	Returns       string      `json:"returns,omitempty"`
}

// Parameter is one method parameter.
type Parameter struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Visualization carries diagram styling hints for a component.
type Visualization struct {
	Color string   `json:"color,omitempty"` // Normalized #rrggbb
	Icon  string   `json:"icon,omitempty"`
	Group string   `json:"group,omitempty"` // DOT cluster name
	Order *float64 `json:"order,omitempty"`
}

// Edge is one resolved relationship between two declared components.
type Edge struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Kind        string `json:"kind"`
	Reason      string `json:"reason,omitempty"`
	Description string `json:"description,omitempty"`
	File        string `json:"file,omitempty"` // Declaration site, for warnings
	Line        int    `json:"line,omitempty"`
}

// View is a curated slice of the architecture.
type View struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Focus       string       `json:"focus,omitempty"`
	File        string       `json:"file"`
	Line        int          `json:"line"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Includes    []string     `json:"includes,omitempty"` // Resolved component names
	Sequence    []Step       `json:"sequence,omitempty"`
}

// Step is one interaction in a view's sequence.
type Step struct {
	From    string `json:"from"` // Component name or the User actor
	To      string `json:"to"`
	Message string `json:"message,omitempty"`
}

// Stats summarizes the graph for manifests and logs.
type Stats struct {
	Components int `json:"components"`
	Views      int `json:"views"`
	Edges      int `json:"edges"`
}

// Component looks up a component by name.
func (g *Graph) Component(name string) (*Component, bool) {
	i, ok := g.componentIndex[name]
	if !ok {
		return nil, false
	}
	return &g.Components[i], true
}

// HasComponent reports whether name is a declared component.
func (g *Graph) HasComponent(name string) bool {
	_, ok := g.componentIndex[name]
	return ok
}

// View looks up a view by name.
func (g *Graph) View(name string) (*View, bool) {
	i, ok := g.viewIndex[name]
	if !ok {
		return nil, false
	}
	return &g.Views[i], true
}

// Stats returns the component, view, and edge counts.
func (g *Graph) Stats() Stats {
	return Stats{
		Components: len(g.Components),
		Views:      len(g.Views),
		Edges:      len(g.Edges),
	}
}

// EdgesFrom returns the edges originating at the named component, in
// declaration order.
func (g *Graph) EdgesFrom(name string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.From == name {
			out = append(out, e)
		}
	}
	return out
}

// EdgesInto returns the edges pointing at the named component, in
// declaration order.
func (g *Graph) EdgesInto(name string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.To == name {
			out = append(out, e)
		}
	}
	return out
}

// SelfEdges returns the edges whose source and target are the same
// component. They are reported as warnings and excluded from cycle
// detection.
func (g *Graph) SelfEdges() []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.From == e.To {
			out = append(out, e)
		}
	}
	return out
}
