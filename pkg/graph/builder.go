package graph

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Builder constructs a Graph incrementally. The resolver is its only
// producer: it adds every component and view first, then the edges, so the
// builder can validate edge endpoints against the declared set.
type Builder struct {
	g *Graph
}

// NewBuilder creates a builder for a new graph with a fresh ID. Branch and
// commit may be empty when the project is not inside a git repository.
func NewBuilder(branch, commitSHA string) *Builder {
	return &Builder{
		g: &Graph{
			ID:             uuid.New().String(),
			GeneratedAt:    time.Now().UTC(),
			Branch:         branch,
			CommitSHA:      commitSHA,
			Components:     make([]Component, 0),
			Views:          make([]View, 0),
			Edges:          make([]Edge, 0),
			componentIndex: make(map[string]int),
			viewIndex:      make(map[string]int),
		},
	}
}

// AddComponent appends a component. The name must not be declared already.
func (b *Builder) AddComponent(c Component) error {
	if _, exists := b.g.componentIndex[c.Name]; exists {
		return fmt.Errorf("component %q already declared", c.Name)
	}
	b.g.componentIndex[c.Name] = len(b.g.Components)
	b.g.Components = append(b.g.Components, c)
	return nil
}

// AddView appends a view. The name must not be declared already, by either
// a view or a component.
func (b *Builder) AddView(v View) error {
	if _, exists := b.g.viewIndex[v.Name]; exists {
		return fmt.Errorf("view %q already declared", v.Name)
	}
	if _, exists := b.g.componentIndex[v.Name]; exists {
		return fmt.Errorf("name %q already declared as a component", v.Name)
	}
	b.g.viewIndex[v.Name] = len(b.g.Views)
	b.g.Views = append(b.g.Views, v)
	return nil
}

// AddEdge appends a resolved relationship. Both endpoints must be declared
// components.
func (b *Builder) AddEdge(e Edge) error {
	if _, ok := b.g.componentIndex[e.From]; !ok {
		return fmt.Errorf("edge source %q is not a declared component", e.From)
	}
	if _, ok := b.g.componentIndex[e.To]; !ok {
		return fmt.Errorf("edge target %q is not a declared component", e.To)
	}
	b.g.Edges = append(b.g.Edges, e)
	return nil
}

// Build returns the finished graph. The builder must not be used after.
func (b *Builder) Build() *Graph {
	return b.g
}
