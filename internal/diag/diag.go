// Package diag defines the structured diagnostics surfaced by the DOOP
// toolchain. Every lexical, syntactic, and semantic failure is reported as a
// Diagnostic with a stable code, a source location, and an optional fix
// suggestion; the CLI decides formatting and exit codes.
package diag

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageLex      Stage = "lex"
	StageParse    Stage = "parse"
	StageSemantic Stage = "semantic"
	StageEmit     Stage = "emit"
)

// Severity captures how impactful the diagnostic is. Warnings never abort
// a compilation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Lexical errors
	CodeUnterminatedString Code = "UNTERMINATED_STRING"
	CodeInvalidCharacter   Code = "INVALID_CHARACTER"
	CodeInvalidNumber      Code = "INVALID_NUMBER"

	// Syntactic errors
	CodeUnexpectedToken Code = "UNEXPECTED_TOKEN"
	CodeExpectedBlock   Code = "EXPECTED_BLOCK"
	CodeDuplicateKey    Code = "DUPLICATE_KEY_IN_BLOCK"

	// Semantic errors
	CodeDuplicateDeclaration    Code = "DUPLICATE_DECLARATION"
	CodeUnresolvedReference     Code = "UNRESOLVED_REFERENCE"
	CodeUnknownType             Code = "UNKNOWN_TYPE"
	CodeInvalidRelationshipKind Code = "INVALID_RELATIONSHIP_KIND"
	CodeResourceLimit           Code = "RESOURCE_LIMIT"

	// Warnings
	CodeSelfDependency  Code = "SELF_DEPENDENCY"
	CodeDependencyCycle Code = "DEPENDENCY_CYCLE"

	// Emission errors
	CodeUnsafeValue  Code = "UNSAFE_VALUE"
	CodeRenderFailed Code = "RENDER_FAILED"
)

// suggestions maps codes to fix hints shown alongside the message.
var suggestions = map[Code]string{
	CodeUnterminatedString:      `close the string with a '"' before the end of the line`,
	CodeUnexpectedToken:         "check for a missing ';', ':' or '}' just before this point",
	CodeExpectedBlock:           "open the block with '{' after the keyword",
	CodeDuplicateKey:            "each block and attribute may appear at most once; remove the repeated entry",
	CodeDuplicateDeclaration:    "component and view names must be unique across all input files; rename one of them",
	CodeUnresolvedReference:     "check the spelling or declare the missing component",
	CodeUnknownType:             "use String, Number, Boolean, or the name of a declared component",
	CodeInvalidRelationshipKind: "valid kinds: depends_on, provides, uses, extends, composed_of, communicates_with",
	CodeSelfDependency:          "a component referring to itself usually signals a modeling mistake",
}

// SuggestionFor returns the fix hint registered for a code, if any.
func SuggestionFor(code Code) string {
	return suggestions[code]
}

// Location is a secondary source position attached to a diagnostic, such as
// the original declaration site of a duplicate.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Diagnostic is a single structured finding surfaced to the CLI layer.
type Diagnostic struct {
	Stage      Stage      `json:"stage"`
	Severity   Severity   `json:"severity"`
	Code       Code       `json:"code"`
	Message    string     `json:"message"`
	File       string     `json:"file,omitempty"`
	Line       int        `json:"line,omitempty"`
	Column     int        `json:"column,omitempty"`
	Related    []Location `json:"related,omitempty"`
	Suggestion string     `json:"suggestion,omitempty"`
}

// New builds a diagnostic and attaches the registered suggestion for its code.
func New(stage Stage, sev Severity, code Code, file string, line, column int, format string, args ...any) Diagnostic {
	return Diagnostic{
		Stage:      stage,
		Severity:   sev,
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
		File:       file,
		Line:       line,
		Column:     column,
		Suggestion: suggestions[code],
	}
}

// WithRelated returns a copy of the diagnostic with an extra source location.
func (d Diagnostic) WithRelated(loc Location) Diagnostic {
	d.Related = append(d.Related, loc)
	return d
}

// String renders "file:line:col: severity: message" with the position parts
// omitted when unknown.
func (d Diagnostic) String() string {
	var sb strings.Builder
	if d.File != "" {
		sb.WriteString(d.File)
		if d.Line > 0 {
			fmt.Fprintf(&sb, ":%d:%d", d.Line, d.Column)
		}
		sb.WriteString(": ")
	}
	fmt.Fprintf(&sb, "%s: %s", d.Severity, d.Message)
	for _, rel := range d.Related {
		fmt.Fprintf(&sb, " (see %s)", rel)
	}
	return sb.String()
}

// Error makes a Diagnostic usable where an error is expected.
func (d Diagnostic) Error() string { return d.String() }

// List is an ordered collection of diagnostics produced by one compilation.
type List []Diagnostic

// Add appends diagnostics to the list.
func (l *List) Add(ds ...Diagnostic) {
	*l = append(*l, ds...)
}

// HasErrors reports whether the list contains at least one error-severity
// diagnostic.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity diagnostics.
func (l List) Errors() List {
	var out List
	for _, d := range l {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns only the warning-severity diagnostics.
func (l List) Warnings() List {
	var out List
	for _, d := range l {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// Sort orders the list by file processing order, then line, then column,
// then code. fileOrder lists input files in processing order; diagnostics
// for unknown files sort last.
func (l List) Sort(fileOrder []string) {
	rank := make(map[string]int, len(fileOrder))
	for i, f := range fileOrder {
		rank[f] = i
	}
	fileRank := func(f string) int {
		if r, ok := rank[f]; ok {
			return r
		}
		return len(fileOrder)
	}
	sort.SliceStable(l, func(i, j int) bool {
		a, b := l[i], l[j]
		if ra, rb := fileRank(a.File), fileRank(b.File); ra != rb {
			return ra < rb
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Code < b.Code
	})
}

// Error summarizes the list for use as a single error value.
func (l List) Error() string {
	errs := l.Errors()
	switch len(errs) {
	case 0:
		return "no errors"
	case 1:
		return errs[0].String()
	default:
		return fmt.Sprintf("%s (and %d more errors)", errs[0], len(errs)-1)
	}
}

// JSON renders the list as indented JSON for machine consumption.
func (l List) JSON() ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}
