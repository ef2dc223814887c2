package emitter

import (
	"encoding/json"

	"github.com/tectix/doop-lang/pkg/graph"
)

// JSONEmitter exports the resolved graph for downstream tooling.
type JSONEmitter struct{}

func (e *JSONEmitter) Name() string { return "json" }

// Emit writes graph.json: the full graph plus the detected cycles.
func (e *JSONEmitter) Emit(g *graph.Graph, opts Options) ([]Artifact, error) {
	cycles := g.Cycles()
	if cycles == nil {
		cycles = [][]string{}
	}
	doc := struct {
		*graph.Graph
		Cycles [][]string `json:"cycles"`
	}{Graph: g, Cycles: cycles}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	data = append(data, '\n')
	return []Artifact{{Path: "graph.json", Data: data}}, nil
}
