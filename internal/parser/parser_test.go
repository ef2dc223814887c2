package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tectix/doop-lang/internal/diag"
	"github.com/tectix/doop-lang/internal/lexer"
	"github.com/tectix/doop-lang/pkg/ast"
)

func parse(t *testing.T, src string) *ast.File {
	t.Helper()

	f, err := Parse("test.doop", []byte(src))
	require.NoError(t, err)
	return f
}

func parseErr(t *testing.T, src string) *Error {
	t.Helper()

	_, err := Parse("test.doop", []byte(src))
	require.Error(t, err)
	var perr *Error
	require.True(t, errors.As(err, &perr), "error should be *parser.Error, got %T: %v", err, err)
	return perr
}

func TestParseComponentFull(t *testing.T) {
	src := `
@core
@owner(team: "identity", tier: 1)
component Auth {
  description: "Authentication and session management";

  properties {
    max_sessions: Number {
      description: "Concurrent session cap";
      default: 10;
      required: true;
    }
    issuer: String;
  }

  methods {
    login(user: String, password: String) -> Boolean {
      description: "Validates credentials";
      precondition: "user exists";
      postcondition: "session created on success";
      returns: "whether the login succeeded";
    }
    logout(session_id: String);
  }

  relationships {
    depends_on: Sessions {
      reason: "token storage";
      description: "All session state lives there";
    }
    communicates_with: Mailer;
  }

  visualization {
    color: #1f77b4;
    icon: "lock";
    group: "security";
    order: 1;
  }
}
`
	f := parse(t, src)
	require.Len(t, f.Decls, 1)

	c := f.Components()[0]
	assert.Equal(t, "Auth", c.Name)
	assert.Equal(t, "Authentication and session management", c.Description)
	assert.Equal(t, 4, c.Pos.Line, "position anchors at the 'component' keyword")

	require.Len(t, c.Annotations, 2)
	assert.Equal(t, "core", c.Annotations[0].Name)
	assert.Empty(t, c.Annotations[0].Args)
	tier, ok := c.Annotations[1].Arg("tier")
	require.True(t, ok)
	assert.Equal(t, ast.ValueNumber, tier.Kind)
	assert.Equal(t, 1.0, tier.Num)

	require.Len(t, c.Properties, 2)
	sessions := c.Properties[0]
	assert.Equal(t, "max_sessions", sessions.Name)
	assert.Equal(t, "Number", sessions.Type)
	assert.Equal(t, "Concurrent session cap", sessions.Description)
	require.NotNil(t, sessions.Default)
	assert.Equal(t, 10.0, sessions.Default.Num)
	require.NotNil(t, sessions.Required)
	assert.True(t, *sessions.Required)
	assert.Nil(t, c.Properties[1].Default)
	assert.Nil(t, c.Properties[1].Required)

	require.Len(t, c.Methods, 2)
	login := c.Methods[0]
	assert.Equal(t, "login(user: String, password: String) -> Boolean", login.Signature())
	assert.Equal(t, "user exists", login.Precondition)
	assert.Equal(t, "session created on success", login.Postcondition)
	assert.Equal(t, "whether the login succeeded", login.Returns)
	assert.Equal(t, "void", c.Methods[1].ReturnType, "no arrow clause means void")

	require.Len(t, c.Relationships, 2)
	dep := c.Relationships[0]
	assert.Equal(t, "depends_on", dep.Kind)
	assert.Equal(t, "Sessions", dep.Target)
	assert.Equal(t, "token storage", dep.Reason)
	assert.Equal(t, "All session state lives there", dep.Description)

	require.NotNil(t, c.Visualization)
	assert.Equal(t, "#1f77b4", c.Visualization.Color)
	assert.Equal(t, "lock", c.Visualization.Icon)
	assert.Equal(t, "security", c.Visualization.Group)
	require.NotNil(t, c.Visualization.Order)
	assert.Equal(t, 1.0, *c.Visualization.Order)
}

func TestParseViewFull(t *testing.T) {
	src := `
view LoginFlow {
  description: "How users authenticate";
  includes: Auth, Sessions, Mailer;
  focus: "security";

  sequence {
    User -> Auth: "submit credentials";
    Auth -> Sessions: "create session";
    Sessions -> Auth;
    Auth -> User: "set cookie";
  }
}
`
	f := parse(t, src)
	require.Len(t, f.Views(), 1)

	v := f.Views()[0]
	assert.Equal(t, "LoginFlow", v.Name)
	assert.Equal(t, "security", v.Focus)

	require.Len(t, v.Includes, 3)
	assert.Equal(t, "Sessions", v.Includes[1].Name)

	require.Len(t, v.Sequence, 4)
	assert.Equal(t, "User", v.Sequence[0].From)
	assert.Equal(t, "submit credentials", v.Sequence[0].Message)
	assert.Empty(t, v.Sequence[2].Message)
}

func TestParseMultiTargetRelationship(t *testing.T) {
	src := `
component Gateway {
  relationships {
    depends_on: Auth, Billing, Catalog {
      reason: "request fan-out";
    }
  }
}
component Auth {}
component Billing {}
component Catalog {}
`
	f := parse(t, src)
	rels := f.Components()[0].Relationships
	require.Len(t, rels, 3, "each target becomes its own relationship")

	for i, want := range []string{"Auth", "Billing", "Catalog"} {
		assert.Equal(t, "depends_on", rels[i].Kind)
		assert.Equal(t, want, rels[i].Target)
		assert.Equal(t, "request fan-out", rels[i].Reason, "attributes are shared across targets")
	}
	assert.NotEqual(t, rels[0].Pos.Column, rels[1].Pos.Column, "each relationship anchors at its own target")
}

func TestParseSectionsInAnyOrder(t *testing.T) {
	src := `
component Worker {
  visualization { color: #aabbcc; }
  methods { run(); }
  description: "Order does not matter";
}
`
	c := parse(t, src).Components()[0]
	assert.Equal(t, "Order does not matter", c.Description)
	assert.Len(t, c.Methods, 1)
	assert.NotNil(t, c.Visualization)
}

func TestParseDuplicateSection(t *testing.T) {
	src := `
component Auth {
  description: "one";
  description: "two";
}
`
	err := parseErr(t, src)
	assert.Equal(t, DuplicateKey, err.Kind)
	assert.Contains(t, err.Message, "duplicate 'description'")
	assert.Contains(t, err.Message, "component 'Auth'")
	assert.Equal(t, 4, err.Pos.Line, "error points at the second occurrence")
}

func TestParseDuplicatePropertyAttr(t *testing.T) {
	src := `
component Auth {
  properties {
    n: Number {
      default: 1;
      default: 2;
    }
  }
}
`
	err := parseErr(t, src)
	assert.Equal(t, DuplicateKey, err.Kind)
	assert.Contains(t, err.Message, "property 'n'")
}

func TestParseDuplicateAnnotationArg(t *testing.T) {
	err := parseErr(t, `@owner(team: "a", team: "b") component X {}`)
	assert.Equal(t, DuplicateKey, err.Kind)
	assert.Contains(t, err.Message, `argument "team"`)
}

func TestParseExpectedBlock(t *testing.T) {
	err := parseErr(t, `component Auth description: "missing brace";`)
	assert.Equal(t, ExpectedBlock, err.Kind)
	assert.Contains(t, err.Message, "component 'Auth'")
}

func TestParseUnknownSectionKey(t *testing.T) {
	err := parseErr(t, `component Auth { price: 10; }`)
	assert.Equal(t, UnexpectedToken, err.Kind)
	assert.Contains(t, err.Expected, "'description'")
}

func TestParseUnknownVisualizationKey(t *testing.T) {
	err := parseErr(t, `component Auth { visualization { shade: #aabbcc; } }`)
	assert.Equal(t, UnexpectedToken, err.Kind)
	assert.Contains(t, err.Expected, "'color'")
}

func TestParseColorRequiresHexLiteral(t *testing.T) {
	err := parseErr(t, `component Auth { visualization { color: "blue"; } }`)
	assert.Equal(t, UnexpectedToken, err.Kind)
	assert.Contains(t, err.Expected, "hex color")
}

func TestParseRequiredMustBeBool(t *testing.T) {
	err := parseErr(t, `component A { properties { x: String { required: "yes"; } } }`)
	assert.Equal(t, UnexpectedToken, err.Kind)
	assert.Contains(t, err.Expected, "'true' or 'false'")
}

func TestParseDefaultRejectsIdentifier(t *testing.T) {
	err := parseErr(t, `component A { properties { x: String { default: unquoted; } } }`)
	assert.Equal(t, UnexpectedToken, err.Kind)
	assert.Contains(t, err.Expected, "literal value")
}

func TestParseTopLevelGarbage(t *testing.T) {
	err := parseErr(t, `service Auth {}`)
	assert.Equal(t, UnexpectedToken, err.Kind)
	assert.Contains(t, err.Expected, "'component' or 'view'")
}

func TestParseDanglingAnnotation(t *testing.T) {
	err := parseErr(t, `@core`)
	assert.Equal(t, UnexpectedToken, err.Kind)
	assert.Contains(t, err.Expected, "after annotations")
	assert.Equal(t, "end of file", err.Got)
}

func TestParseUnclosedComponent(t *testing.T) {
	err := parseErr(t, `component Auth { description: "x";`)
	assert.Equal(t, UnexpectedToken, err.Kind)
	assert.Contains(t, err.Expected, "close component 'Auth'")
	assert.Equal(t, "end of file", err.Got)
}

func TestParseSemicolonsAreOptional(t *testing.T) {
	with := parse(t, `component A { description: "d"; methods { run(); } }`)
	without := parse(t, `component A { description: "d" methods { run() } }`)

	assert.Equal(t, string(ast.Format(with)), string(ast.Format(without)))
}

func TestParseLexErrorSurfaces(t *testing.T) {
	_, err := Parse("test.doop", []byte(`component A { description: "unterminated }`))
	require.Error(t, err)

	var lexErr *lexer.Error
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, lexer.UnterminatedString, lexErr.Kind)
}

func TestParseEmptySource(t *testing.T) {
	f := parse(t, "")
	assert.Empty(t, f.Decls)
	assert.Equal(t, "test.doop", f.Path)
}

func TestErrorToDiagnostic(t *testing.T) {
	err := parseErr(t, `component Auth { description: "one"; description: "two"; }`)

	d := err.ToDiagnostic("arch.doop")
	assert.Equal(t, diag.StageParse, d.Stage)
	assert.Equal(t, diag.CodeDuplicateKey, d.Code)
	assert.Equal(t, "arch.doop", d.File)
	assert.Equal(t, err.Pos.Line, d.Line)
	assert.NotEmpty(t, d.Suggestion)
}
