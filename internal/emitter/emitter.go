// Package emitter converts the architecture graph into documentation and
// diagram artifacts.
package emitter

import (
	"fmt"

	"github.com/tectix/doop-lang/pkg/graph"
)

// Artifact is one generated file, with its path relative to the output
// directory.
type Artifact struct {
	Path string
	Data []byte
}

// Options tune how artifacts are rendered.
type Options struct {
	Title     string // Project title for the docs index; default "Architecture"
	Direction string // Diagram rank direction: "LR" or "TB"; default "LR"
}

func (o Options) title() string {
	if o.Title != "" {
		return o.Title
	}
	return "Architecture"
}

func (o Options) direction() string {
	if o.Direction == "TB" {
		return "TB"
	}
	return "LR"
}

// Emitter renders one output format from the graph.
type Emitter interface {
	// Name returns the emitter name (e.g., "markdown", "dot", "json")
	Name() string

	// Emit renders the graph into one or more artifacts. Output is
	// deterministic: the same graph yields byte-identical artifacts.
	Emit(g *graph.Graph, opts Options) ([]Artifact, error)
}

// Registry holds all available emitters
type Registry struct {
	emitters map[string]Emitter
}

// NewRegistry creates a new emitter registry with all built-in emitters
func NewRegistry() *Registry {
	r := &Registry{
		emitters: make(map[string]Emitter),
	}

	r.Register(&MarkdownEmitter{})
	r.Register(&DotEmitter{})
	r.Register(&JSONEmitter{})

	return r
}

// Register adds an emitter to the registry
func (r *Registry) Register(e Emitter) {
	r.emitters[e.Name()] = e
}

// Get returns an emitter by name
func (r *Registry) Get(name string) (Emitter, error) {
	e, ok := r.emitters[name]
	if !ok {
		return nil, fmt.Errorf("emitter not found: %s", name)
	}
	return e, nil
}

// List returns all registered emitter names
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.emitters))
	for name := range r.emitters {
		names = append(names, name)
	}
	return names
}
