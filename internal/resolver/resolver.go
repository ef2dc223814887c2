// Package resolver performs semantic analysis over parsed DOOP files and
// builds the architecture graph. Resolution runs sequentially in input
// order, so symbol lookups and diagnostics are deterministic regardless of
// how the files were parsed.
package resolver

import (
	"strings"

	"github.com/tectix/doop-lang/internal/diag"
	"github.com/tectix/doop-lang/pkg/ast"
	"github.com/tectix/doop-lang/pkg/graph"
)

// Project limits. They bound memory on adversarial inputs, not legitimate
// architectures.
const (
	DefaultMaxComponents    = 500
	DefaultMaxRelationships = 1000
)

// Built-in property and parameter types. Return types additionally allow
// TypeVoid.
const (
	TypeString  = "String"
	TypeNumber  = "Number"
	TypeBoolean = "Boolean"
	TypeVoid    = "void"
)

// Options configures one resolution pass.
type Options struct {
	MaxComponents    int    // 0 means DefaultMaxComponents
	MaxRelationships int    // 0 means DefaultMaxRelationships
	Branch           string // Recorded on the graph when available
	CommitSHA        string
}

func (o Options) maxComponents() int {
	if o.MaxComponents > 0 {
		return o.MaxComponents
	}
	return DefaultMaxComponents
}

func (o Options) maxRelationships() int {
	if o.MaxRelationships > 0 {
		return o.MaxRelationships
	}
	return DefaultMaxRelationships
}

// Resolve checks the parsed files against the language's semantic rules
// and assembles the architecture graph. Files must be in input order. The
// returned list carries errors and warnings in source order per file; the
// graph is nil when the list contains errors.
func Resolve(files []*ast.File, opts Options) (*graph.Graph, diag.List) {
	r := &resolver{
		opts:    opts,
		builder: graph.NewBuilder(opts.Branch, opts.CommitSHA),
		symbols: make(map[string]symbol),
	}

	r.collect(files)
	r.resolveComponents(files)
	r.resolveEdges(files)
	r.resolveViews(files)

	g := r.builder.Build()
	r.cycleWarnings(g)

	if r.diags.HasErrors() {
		return nil, r.diags
	}
	return g, r.diags
}

type symbolKind string

const (
	symComponent symbolKind = "component"
	symView      symbolKind = "view"
)

// symbol records the first declaration of a name. Components and views
// share one flat namespace.
type symbol struct {
	kind symbolKind
	file string
	pos  ast.Position
}

type resolver struct {
	opts    Options
	diags   diag.List
	builder *graph.Builder
	symbols map[string]symbol
}

// collect builds the symbol table. The first declaration of a name wins;
// every later one is reported against it and skipped by the remaining
// passes.
func (r *resolver) collect(files []*ast.File) {
	for _, f := range files {
		for _, d := range f.Decls {
			switch n := d.(type) {
			case *ast.Component:
				r.declare(symComponent, n.Name, f.Path, n.Pos)
			case *ast.View:
				r.declare(symView, n.Name, f.Path, n.Pos)
			}
		}
	}
}

func (r *resolver) declare(kind symbolKind, name, file string, pos ast.Position) {
	prev, exists := r.symbols[name]
	if !exists {
		r.symbols[name] = symbol{kind: kind, file: file, pos: pos}
		return
	}
	d := diag.New(diag.StageSemantic, diag.SeverityError, diag.CodeDuplicateDeclaration,
		file, pos.Line, pos.Column,
		"%s %q is already declared as a %s", kind, name, prev.kind)
	d = d.WithRelated(diag.Location{File: prev.file, Line: prev.pos.Line, Column: prev.pos.Column})
	r.diags.Add(d)
}

// isFirst reports whether the declaration at file/pos is the one recorded
// in the symbol table, i.e. not a duplicate.
func (r *resolver) isFirst(name, file string, pos ast.Position) bool {
	s, ok := r.symbols[name]
	return ok && s.file == file && s.pos == pos
}

func (r *resolver) isComponent(name string) bool {
	s, ok := r.symbols[name]
	return ok && s.kind == symComponent
}

func (r *resolver) errorf(code diag.Code, file string, pos ast.Position, format string, args ...any) {
	r.diags.Add(diag.New(diag.StageSemantic, diag.SeverityError, code, file, pos.Line, pos.Column, format, args...))
}

func (r *resolver) warnf(code diag.Code, file string, pos ast.Position, format string, args ...any) {
	r.diags.Add(diag.New(diag.StageSemantic, diag.SeverityWarning, code, file, pos.Line, pos.Column, format, args...))
}

func (r *resolver) resolveComponents(files []*ast.File) {
	count := 0
	limitReported := false
	for _, f := range files {
		for _, c := range f.Components() {
			if !r.isFirst(c.Name, f.Path, c.Pos) {
				continue
			}
			count++
			if count > r.opts.maxComponents() && !limitReported {
				limitReported = true
				r.errorf(diag.CodeResourceLimit, f.Path, c.Pos,
					"project exceeds the component limit of %d", r.opts.maxComponents())
			}
			r.checkComponentTypes(f.Path, c)
			// Duplicates were skipped above, so this cannot fail.
			_ = r.builder.AddComponent(componentModel(f.Path, c))
		}
	}
}

func (r *resolver) checkComponentTypes(file string, c *ast.Component) {
	for _, p := range c.Properties {
		if !r.validType(p.Type) {
			r.errorf(diag.CodeUnknownType, file, p.Pos,
				"unknown type %q for property %q of component %q", p.Type, p.Name, c.Name)
		}
	}
	for _, m := range c.Methods {
		for _, param := range m.Params {
			if !r.validType(param.Type) {
				r.errorf(diag.CodeUnknownType, file, param.Pos,
					"unknown type %q for parameter %q of method %q", param.Type, param.Name, m.Name)
			}
		}
		if m.ReturnType != TypeVoid && !r.validType(m.ReturnType) {
			r.errorf(diag.CodeUnknownType, file, m.Pos,
				"unknown return type %q for method %q", m.ReturnType, m.Name)
		}
	}
}

// validType accepts the built-in primitives and declared component names.
// TypeVoid is valid only as a return type and is checked at its use site.
func (r *resolver) validType(name string) bool {
	switch name {
	case TypeString, TypeNumber, TypeBoolean:
		return true
	}
	return r.isComponent(name)
}

func (r *resolver) resolveEdges(files []*ast.File) {
	count := 0
	limitReported := false
	for _, f := range files {
		for _, c := range f.Components() {
			if !r.isFirst(c.Name, f.Path, c.Pos) {
				continue
			}
			for _, rel := range c.Relationships {
				count++
				if count > r.opts.maxRelationships() && !limitReported {
					limitReported = true
					r.errorf(diag.CodeResourceLimit, f.Path, rel.Pos,
						"project exceeds the relationship limit of %d", r.opts.maxRelationships())
				}

				kindOK := graph.ValidKind(rel.Kind)
				if !kindOK {
					r.errorf(diag.CodeInvalidRelationshipKind, f.Path, rel.Pos,
						"invalid relationship kind %q in component %q", rel.Kind, c.Name)
				}
				targetOK := r.isComponent(rel.Target)
				if !targetOK {
					r.errorf(diag.CodeUnresolvedReference, f.Path, rel.Pos,
						"relationship target %q is not a declared component", rel.Target)
				}
				if !kindOK || !targetOK {
					continue
				}

				if rel.Target == c.Name {
					r.warnf(diag.CodeSelfDependency, f.Path, rel.Pos,
						"component %q declares a %q relationship to itself", c.Name, rel.Kind)
				}
				_ = r.builder.AddEdge(graph.Edge{
					From:        c.Name,
					To:          rel.Target,
					Kind:        rel.Kind,
					Reason:      rel.Reason,
					Description: rel.Description,
					File:        f.Path,
					Line:        rel.Pos.Line,
				})
			}
		}
	}
}

func (r *resolver) resolveViews(files []*ast.File) {
	for _, f := range files {
		for _, v := range f.Views() {
			if !r.isFirst(v.Name, f.Path, v.Pos) {
				continue
			}
			for _, inc := range v.Includes {
				if !r.isComponent(inc.Name) {
					r.errorf(diag.CodeUnresolvedReference, f.Path, inc.Pos,
						"view %q includes undeclared component %q", v.Name, inc.Name)
				}
			}
			for _, st := range v.Sequence {
				r.checkActor(f.Path, v.Name, st.From, st.Pos)
				r.checkActor(f.Path, v.Name, st.To, st.Pos)
			}
			// Name collisions were already reported during collect.
			_ = r.builder.AddView(viewModel(f.Path, v))
		}
	}
}

// checkActor validates one sequence participant: a declared component or
// the reserved User actor.
func (r *resolver) checkActor(file, view, name string, pos ast.Position) {
	if name == graph.ActorUser || r.isComponent(name) {
		return
	}
	r.errorf(diag.CodeUnresolvedReference, file, pos,
		"sequence step in view %q references undeclared component %q", view, name)
}

// cycleWarnings reports each dependency cycle once, anchored at the
// declaration of its first component.
func (r *resolver) cycleWarnings(g *graph.Graph) {
	for _, cycle := range g.Cycles() {
		head := cycle[0]
		sym := r.symbols[head]
		path := strings.Join(append(append([]string(nil), cycle...), head), " -> ")
		r.warnf(diag.CodeDependencyCycle, sym.file, sym.pos, "dependency cycle: %s", path)
	}
}

func componentModel(file string, c *ast.Component) graph.Component {
	gc := graph.Component{
		Name:        c.Name,
		Description: c.Description,
		File:        file,
		Line:        c.Pos.Line,
		Annotations: annotationModels(c.Annotations),
	}
	for _, p := range c.Properties {
		gp := graph.Property{
			Name:        p.Name,
			Type:        p.Type,
			Description: p.Description,
			Required:    p.Required,
		}
		if p.Default != nil {
			gp.Default = p.Default.Raw
		}
		gc.Properties = append(gc.Properties, gp)
	}
	for _, m := range c.Methods {
		gm := graph.Method{
			Name:          m.Name,
			Signature:     m.Signature(),
			ReturnType:    m.ReturnType,
			Description:   m.Description,
			Precondition:  m.Precondition,
			Postcondition: m.Postcondition,
			Returns:       m.Returns,
		}
		for _, p := range m.Params {
			gm.Params = append(gm.Params, graph.Parameter{Name: p.Name, Type: p.Type})
		}
		gc.Methods = append(gc.Methods, gm)
	}
	if c.Visualization != nil {
		v := c.Visualization
		gc.Visual = &graph.Visualization{Color: v.Color, Icon: v.Icon, Group: v.Group, Order: v.Order}
	}
	return gc
}

func annotationModels(anns []ast.Annotation) []graph.Annotation {
	var out []graph.Annotation
	for _, a := range anns {
		ga := graph.Annotation{Name: a.Name}
		if len(a.Args) > 0 {
			ga.Args = make(map[string]string, len(a.Args))
			for _, arg := range a.Args {
				ga.Args[arg.Key] = arg.Value.Raw
			}
		}
		out = append(out, ga)
	}
	return out
}

func viewModel(file string, v *ast.View) graph.View {
	gv := graph.View{
		Name:        v.Name,
		Description: v.Description,
		Focus:       v.Focus,
		File:        file,
		Line:        v.Pos.Line,
		Annotations: annotationModels(v.Annotations),
	}
	for _, inc := range v.Includes {
		gv.Includes = append(gv.Includes, inc.Name)
	}
	for _, st := range v.Sequence {
		gv.Sequence = append(gv.Sequence, graph.Step{From: st.From, To: st.To, Message: st.Message})
	}
	return gv
}
