package emitter

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tectix/doop-lang/pkg/graph"
)

// DotEmitter renders Graphviz sources: one full architecture diagram plus
// one focused diagram per view.
type DotEmitter struct{}

func (e *DotEmitter) Name() string { return "dot" }

// Edge attributes per relationship kind, loosely following UML arrow
// conventions.
var kindStyles = map[string]string{
	graph.KindDependsOn:        "style=solid",
	graph.KindUses:             "style=dashed",
	graph.KindProvides:         "style=solid, arrowhead=empty",
	graph.KindExtends:          "style=solid, arrowhead=onormal",
	graph.KindComposedOf:       "style=solid, arrowhead=diamond",
	graph.KindCommunicatesWith: "style=dotted, dir=both",
}

// Emit generates architecture.dot and one views/<name>.dot per view.
func (e *DotEmitter) Emit(g *graph.Graph, opts Options) ([]Artifact, error) {
	artifacts := []Artifact{{Path: "architecture.dot", Data: e.architecture(g, opts)}}
	for i := range g.Views {
		v := &g.Views[i]
		artifacts = append(artifacts, Artifact{
			Path: "views/" + v.Name + ".dot",
			Data: e.viewDiagram(g, v, opts),
		})
	}
	return artifacts, nil
}

func (e *DotEmitter) architecture(g *graph.Graph, opts Options) []byte {
	var sb strings.Builder
	sb.WriteString("digraph architecture {\n")
	fmt.Fprintf(&sb, "  rankdir=%s;\n", opts.direction())
	sb.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=\"#eceff4\", fontname=\"Helvetica\"];\n")
	sb.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	groups, order := groupComponents(g.Components)
	for _, c := range groups[""] {
		sb.WriteString(nodeLine("  ", c))
	}
	for i, name := range order {
		fmt.Fprintf(&sb, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&sb, "    label=%s;\n", dotQuote(name))
		sb.WriteString("    style=rounded;\n")
		for _, c := range groups[name] {
			sb.WriteString(nodeLine("    ", c))
		}
		sb.WriteString("  }\n")
	}

	sb.WriteString("\n")
	cyc := cycleEdges(g)
	for _, edge := range g.Edges {
		sb.WriteString(edgeLine(edge, cyc))
	}
	sb.WriteString("}\n")
	return []byte(sb.String())
}

func (e *DotEmitter) viewDiagram(g *graph.Graph, v *graph.View, opts Options) []byte {
	// Participants are the includes plus every sequence actor.
	include := make(map[string]bool)
	var names []string
	add := func(name string) {
		if !include[name] {
			include[name] = true
			names = append(names, name)
		}
	}
	for _, n := range v.Includes {
		add(n)
	}
	for _, st := range v.Sequence {
		add(st.From)
		add(st.To)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "digraph %s {\n", safeNodeID(v.Name))
	fmt.Fprintf(&sb, "  rankdir=%s;\n", opts.direction())
	fmt.Fprintf(&sb, "  label=%s;\n  labelloc=t;\n", dotQuote(v.Name))
	sb.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=\"#eceff4\", fontname=\"Helvetica\"];\n")
	sb.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	for _, name := range names {
		if c, ok := g.Component(name); ok {
			sb.WriteString(nodeLine("  ", c))
			continue
		}
		if name == graph.ActorUser {
			sb.WriteString("  User [shape=ellipse, fillcolor=\"#f4e9cd\"];\n")
		}
	}
	sb.WriteString("\n")

	cyc := cycleEdges(g)
	for _, edge := range g.Edges {
		if include[edge.From] && include[edge.To] {
			sb.WriteString(edgeLine(edge, cyc))
		}
	}
	for i, st := range v.Sequence {
		lbl := fmt.Sprintf("%d", i+1)
		if st.Message != "" {
			lbl = fmt.Sprintf("%d: %s", i+1, st.Message)
		}
		fmt.Fprintf(&sb, "  %s -> %s [color=\"#5e81ac\", fontcolor=\"#5e81ac\", label=%s];\n",
			safeNodeID(st.From), safeNodeID(st.To), dotQuote(lbl))
	}
	sb.WriteString("}\n")
	return []byte(sb.String())
}

func nodeLine(indent string, c *graph.Component) string {
	label := c.Name
	if c.Visual != nil && c.Visual.Icon != "" {
		label = c.Visual.Icon + " " + c.Name
	}
	attrs := []string{"label=" + dotQuote(label)}
	if c.Visual != nil {
		if col := safeColor(c.Visual.Color); col != "" {
			attrs = append(attrs, `fillcolor="`+col+`"`)
		}
	}
	if c.Description != "" {
		attrs = append(attrs, "tooltip="+dotQuote(c.Description))
	}
	return fmt.Sprintf("%s%s [%s];\n", indent, safeNodeID(c.Name), strings.Join(attrs, ", "))
}

func edgeLine(edge graph.Edge, cyc map[[2]string]bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "  %s -> %s [%s, label=%s",
		safeNodeID(edge.From), safeNodeID(edge.To), kindStyles[edge.Kind], dotQuote(edge.Kind))
	if edge.Reason != "" {
		fmt.Fprintf(&sb, ", tooltip=%s", dotQuote(edge.Reason))
	}
	if cyc[[2]string{edge.From, edge.To}] {
		sb.WriteString(`, color="#b22222", penwidth=2.0`)
	}
	sb.WriteString("];\n")
	return sb.String()
}

// cycleEdges returns the set of (from, to) pairs that sit on a dependency
// cycle, so the diagrams can call them out.
func cycleEdges(g *graph.Graph) map[[2]string]bool {
	set := make(map[[2]string]bool)
	for _, cyc := range g.Cycles() {
		for i := range cyc {
			set[[2]string{cyc[i], cyc[(i+1)%len(cyc)]}] = true
		}
	}
	return set
}

// groupComponents splits components by visualization group, preserving
// first-appearance order of the groups. Within a group, explicit order
// values come first.
func groupComponents(cs []graph.Component) (map[string][]*graph.Component, []string) {
	groups := make(map[string][]*graph.Component)
	var order []string
	for i := range cs {
		c := &cs[i]
		name := ""
		if c.Visual != nil {
			name = c.Visual.Group
		}
		if name != "" {
			if _, seen := groups[name]; !seen {
				order = append(order, name)
			}
		}
		groups[name] = append(groups[name], c)
	}
	for _, list := range groups {
		sort.SliceStable(list, func(i, j int) bool {
			return orderOf(list[i]) < orderOf(list[j])
		})
	}
	return groups, order
}

func orderOf(c *graph.Component) float64 {
	if c.Visual != nil && c.Visual.Order != nil {
		return *c.Visual.Order
	}
	return math.MaxFloat64
}
