package emitter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tectix/doop-lang/pkg/graph"
)

// MarkdownEmitter renders the graph as a browsable markdown tree: an index
// README plus one page per component and per view.
type MarkdownEmitter struct{}

func (e *MarkdownEmitter) Name() string { return "markdown" }

// Emit generates the full documentation tree.
func (e *MarkdownEmitter) Emit(g *graph.Graph, opts Options) ([]Artifact, error) {
	artifacts := make([]Artifact, 0, 1+len(g.Components)+len(g.Views))
	artifacts = append(artifacts, Artifact{Path: "README.md", Data: e.index(g, opts)})
	for i := range g.Components {
		c := &g.Components[i]
		artifacts = append(artifacts, Artifact{
			Path: "components/" + c.Name + ".md",
			Data: e.componentPage(g, c),
		})
	}
	for i := range g.Views {
		v := &g.Views[i]
		artifacts = append(artifacts, Artifact{
			Path: "views/" + v.Name + ".md",
			Data: e.viewPage(v),
		})
	}
	return artifacts, nil
}

func (e *MarkdownEmitter) index(g *graph.Graph, opts Options) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", opts.title())

	st := g.Stats()
	fmt.Fprintf(&sb, "This documentation covers %d components, %d views, and %d relationships.\n\n",
		st.Components, st.Views, st.Edges)
	if g.CommitSHA != "" {
		fmt.Fprintf(&sb, "Source: commit `%s`", shortSHA(g.CommitSHA))
		if g.Branch != "" {
			fmt.Fprintf(&sb, " on branch `%s`", g.Branch)
		}
		sb.WriteString(".\n\n")
	}

	if len(g.Components) > 0 {
		sb.WriteString("## Components\n\n")
		sb.WriteString("| Component | Description |\n|---|---|\n")
		for _, c := range g.Components {
			fmt.Fprintf(&sb, "| [%s](components/%s.md) | %s |\n", c.Name, c.Name, mdCell(c.Description))
		}
		sb.WriteString("\n")
	}

	if len(g.Views) > 0 {
		sb.WriteString("## Views\n\n")
		sb.WriteString("| View | Description |\n|---|---|\n")
		for _, v := range g.Views {
			fmt.Fprintf(&sb, "| [%s](views/%s.md) | %s |\n", v.Name, v.Name, mdCell(v.Description))
		}
		sb.WriteString("\n")
	}

	if cycles := g.Cycles(); len(cycles) > 0 {
		sb.WriteString("## Dependency cycles\n\n")
		for _, cyc := range cycles {
			fmt.Fprintf(&sb, "- `%s`\n", strings.Join(append(append([]string(nil), cyc...), cyc[0]), " -> "))
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "_Generated %s_\n", g.GeneratedAt.Format(time.RFC3339))
	return []byte(sb.String())
}

func (e *MarkdownEmitter) componentPage(g *graph.Graph, c *graph.Component) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", c.Name)
	if c.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", c.Description)
	}
	if len(c.Annotations) > 0 {
		fmt.Fprintf(&sb, "**Annotations:** %s\n\n", annotationLine(c.Annotations))
	}
	if c.Visual != nil && c.Visual.Group != "" {
		fmt.Fprintf(&sb, "**Group:** %s\n\n", c.Visual.Group)
	}

	if len(c.Properties) > 0 {
		sb.WriteString("## Properties\n\n")
		sb.WriteString("| Name | Type | Required | Default | Description |\n|---|---|---|---|---|\n")
		for _, p := range c.Properties {
			req := ""
			if p.Required != nil {
				req = "no"
				if *p.Required {
					req = "yes"
				}
			}
			def := ""
			if p.Default != "" {
				def = "`" + p.Default + "`"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
				p.Name, p.Type, req, def, mdCell(p.Description))
		}
		sb.WriteString("\n")
	}

	if len(c.Methods) > 0 {
		sb.WriteString("## Methods\n\n")
		for _, m := range c.Methods {
			fmt.Fprintf(&sb, "### `%s`\n\n", m.Signature)
			if m.Description != "" {
				fmt.Fprintf(&sb, "%s\n\n", m.Description)
			}
			contract := false
			if m.Precondition != "" {
				fmt.Fprintf(&sb, "- **Precondition:** %s\n", m.Precondition)
				contract = true
			}
			if m.Postcondition != "" {
				fmt.Fprintf(&sb, "- **Postcondition:** %s\n", m.Postcondition)
				contract = true
			}
			if m.Returns != "" {
				fmt.Fprintf(&sb, "- **Returns:** %s\n", m.Returns)
				contract = true
			}
			if contract {
				sb.WriteString("\n")
			}
		}
	}

	if out := g.EdgesFrom(c.Name); len(out) > 0 {
		sb.WriteString("## Relationships\n\n")
		sb.WriteString("| Kind | Target | Reason |\n|---|---|---|\n")
		for _, edge := range out {
			fmt.Fprintf(&sb, "| %s | [%s](%s.md) | %s |\n",
				edge.Kind, edge.To, edge.To, mdCell(edge.Reason))
		}
		sb.WriteString("\n")
	}
	if in := g.EdgesInto(c.Name); len(in) > 0 {
		sb.WriteString("## Referenced by\n\n")
		sb.WriteString("| Kind | Component |\n|---|---|\n")
		for _, edge := range in {
			fmt.Fprintf(&sb, "| %s | [%s](%s.md) |\n", edge.Kind, edge.From, edge.From)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "---\n\nDefined in `%s`, line %d.\n", c.File, c.Line)
	return []byte(sb.String())
}

func (e *MarkdownEmitter) viewPage(v *graph.View) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", v.Name)
	if v.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", v.Description)
	}
	if len(v.Annotations) > 0 {
		fmt.Fprintf(&sb, "**Annotations:** %s\n\n", annotationLine(v.Annotations))
	}
	if v.Focus != "" {
		fmt.Fprintf(&sb, "**Focus:** %s\n\n", v.Focus)
	}

	if len(v.Includes) > 0 {
		sb.WriteString("## Included components\n\n")
		for _, name := range v.Includes {
			fmt.Fprintf(&sb, "- [%s](../components/%s.md)\n", name, name)
		}
		sb.WriteString("\n")
	}

	if len(v.Sequence) > 0 {
		sb.WriteString("## Sequence\n\n")
		for i, st := range v.Sequence {
			if st.Message != "" {
				fmt.Fprintf(&sb, "%d. **%s** -> **%s**: %s\n", i+1, st.From, st.To, st.Message)
			} else {
				fmt.Fprintf(&sb, "%d. **%s** -> **%s**\n", i+1, st.From, st.To)
			}
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "---\n\nDefined in `%s`, line %d.\n", v.File, v.Line)
	return []byte(sb.String())
}

// annotationLine renders annotations as inline code, arguments sorted by
// key for stable output.
func annotationLine(anns []graph.Annotation) string {
	parts := make([]string, 0, len(anns))
	for _, a := range anns {
		parts = append(parts, "`"+formatAnnotation(a)+"`")
	}
	return strings.Join(parts, ", ")
}

func formatAnnotation(a graph.Annotation) string {
	if len(a.Args) == 0 {
		return "@" + a.Name
	}
	keys := make([]string, 0, len(a.Args))
	for k := range a.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		args = append(args, fmt.Sprintf("%s: %s", k, a.Args[k]))
	}
	return fmt.Sprintf("@%s(%s)", a.Name, strings.Join(args, ", "))
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
