package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Format renders the file as canonical DOOP source. Parsing the output
// yields a tree equal to the input up to source positions.
func Format(f *File) []byte {
	var p printer
	p.file(f)
	return []byte(p.sb.String())
}

// Fprint writes the canonical DOOP rendering of f to w.
func Fprint(w io.Writer, f *File) error {
	_, err := w.Write(Format(f))
	return err
}

// Quote renders s as a DOOP string literal, escaping the characters the
// lexer recognizes in escape sequences.
func Quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// FormatNumber renders a numeric literal without a trailing fraction when
// the value is integral.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

type printer struct {
	sb     strings.Builder
	indent int
}

func (p *printer) linef(format string, args ...any) {
	p.sb.WriteString(strings.Repeat("  ", p.indent))
	fmt.Fprintf(&p.sb, format, args...)
	p.sb.WriteByte('\n')
}

func (p *printer) blank() {
	p.sb.WriteByte('\n')
}

func (p *printer) file(f *File) {
	for i, d := range f.Decls {
		if i > 0 {
			p.blank()
		}
		switch n := d.(type) {
		case *Component:
			p.component(n)
		case *View:
			p.view(n)
		}
	}
}

func (p *printer) annotations(anns []Annotation) {
	for _, a := range anns {
		if len(a.Args) == 0 {
			p.linef("@%s", a.Name)
			continue
		}
		parts := make([]string, len(a.Args))
		for i, arg := range a.Args {
			parts[i] = arg.Key + ": " + arg.Value.Raw
		}
		p.linef("@%s(%s)", a.Name, strings.Join(parts, ", "))
	}
}

func (p *printer) component(c *Component) {
	p.annotations(c.Annotations)
	p.linef("component %s {", c.Name)
	p.indent++

	wrote := false
	if c.Description != "" {
		p.linef("description: %s;", Quote(c.Description))
		wrote = true
	}
	if len(c.Properties) > 0 {
		if wrote {
			p.blank()
		}
		p.properties(c.Properties)
		wrote = true
	}
	if len(c.Methods) > 0 {
		if wrote {
			p.blank()
		}
		p.methods(c.Methods)
		wrote = true
	}
	if len(c.Relationships) > 0 {
		if wrote {
			p.blank()
		}
		p.relationships(c.Relationships)
		wrote = true
	}
	if c.Visualization != nil {
		if wrote {
			p.blank()
		}
		p.visualization(c.Visualization)
	}

	p.indent--
	p.linef("}")
}

func (p *printer) properties(props []Property) {
	p.linef("properties {")
	p.indent++
	for _, prop := range props {
		if prop.Description == "" && prop.Default == nil && prop.Required == nil {
			p.linef("%s: %s;", prop.Name, prop.Type)
			continue
		}
		p.linef("%s: %s {", prop.Name, prop.Type)
		p.indent++
		if prop.Description != "" {
			p.linef("description: %s;", Quote(prop.Description))
		}
		if prop.Default != nil {
			p.linef("default: %s;", prop.Default.Raw)
		}
		if prop.Required != nil {
			p.linef("required: %t;", *prop.Required)
		}
		p.indent--
		p.linef("}")
	}
	p.indent--
	p.linef("}")
}

func (p *printer) methods(methods []Method) {
	p.linef("methods {")
	p.indent++
	for i := range methods {
		m := &methods[i]
		if m.Description == "" && m.Precondition == "" && m.Postcondition == "" && m.Returns == "" {
			p.linef("%s;", m.Signature())
			continue
		}
		p.linef("%s {", m.Signature())
		p.indent++
		if m.Description != "" {
			p.linef("description: %s;", Quote(m.Description))
		}
		if m.Precondition != "" {
			p.linef("precondition: %s;", Quote(m.Precondition))
		}
		if m.Postcondition != "" {
			p.linef("postcondition: %s;", Quote(m.Postcondition))
		}
		if m.Returns != "" {
			p.linef("returns: %s;", Quote(m.Returns))
		}
		p.indent--
		p.linef("}")
	}
	p.indent--
	p.linef("}")
}

func (p *printer) relationships(rels []Relationship) {
	p.linef("relationships {")
	p.indent++
	for _, r := range rels {
		if r.Reason == "" && r.Description == "" {
			p.linef("%s: %s;", r.Kind, r.Target)
			continue
		}
		p.linef("%s: %s {", r.Kind, r.Target)
		p.indent++
		if r.Reason != "" {
			p.linef("reason: %s;", Quote(r.Reason))
		}
		if r.Description != "" {
			p.linef("description: %s;", Quote(r.Description))
		}
		p.indent--
		p.linef("}")
	}
	p.indent--
	p.linef("}")
}

func (p *printer) visualization(v *Visualization) {
	p.linef("visualization {")
	p.indent++
	if v.Color != "" {
		p.linef("color: %s;", v.Color)
	}
	if v.Icon != "" {
		p.linef("icon: %s;", Quote(v.Icon))
	}
	if v.Group != "" {
		p.linef("group: %s;", Quote(v.Group))
	}
	if v.Order != nil {
		p.linef("order: %s;", FormatNumber(*v.Order))
	}
	p.indent--
	p.linef("}")
}

func (p *printer) view(v *View) {
	p.annotations(v.Annotations)
	p.linef("view %s {", v.Name)
	p.indent++

	wrote := false
	if v.Description != "" {
		p.linef("description: %s;", Quote(v.Description))
		wrote = true
	}
	if len(v.Includes) > 0 {
		names := make([]string, len(v.Includes))
		for i, inc := range v.Includes {
			names[i] = inc.Name
		}
		p.linef("includes: %s;", strings.Join(names, ", "))
		wrote = true
	}
	if v.Focus != "" {
		p.linef("focus: %s;", Quote(v.Focus))
		wrote = true
	}
	if len(v.Sequence) > 0 {
		if wrote {
			p.blank()
		}
		p.linef("sequence {")
		p.indent++
		for _, s := range v.Sequence {
			if s.Message == "" {
				p.linef("%s -> %s;", s.From, s.To)
			} else {
				p.linef("%s -> %s: %s;", s.From, s.To, Quote(s.Message))
			}
		}
		p.indent--
		p.linef("}")
	}

	p.indent--
	p.linef("}")
}
