package lexer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tectix/doop-lang/internal/diag"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()

	lx := New([]byte(src))
	var tokens []Token
	for {
		tok, err := lx.Next()
		require.NoError(t, err)
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}

func lexError(t *testing.T, src string) *Error {
	t.Helper()

	lx := New([]byte(src))
	for {
		tok, err := lx.Next()
		if err != nil {
			var lexErr *Error
			require.True(t, errors.As(err, &lexErr), "error should be *lexer.Error, got %T", err)
			return lexErr
		}
		require.NotEqual(t, TokenEOF, tok.Kind, "expected a lex error before EOF")
	}
}

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestPunctuation(t *testing.T) {
	tokens := lexAll(t, "{ } ( ) : ; , -> @")
	assert.Equal(t, []TokenKind{
		TokenLBrace, TokenRBrace, TokenLParen, TokenRParen,
		TokenColon, TokenSemicolon, TokenComma, TokenArrow, TokenAt,
		TokenEOF,
	}, kinds(tokens))
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	tokens := lexAll(t, "component Auth view overview_2 depends_on")

	assert.Equal(t, TokenComponent, tokens[0].Kind)
	assert.Equal(t, TokenIdent, tokens[1].Kind)
	assert.Equal(t, "Auth", tokens[1].Literal)
	assert.Equal(t, TokenView, tokens[2].Kind)
	assert.Equal(t, TokenIdent, tokens[3].Kind)
	assert.Equal(t, "overview_2", tokens[3].Literal)
	// Relationship kinds are plain identifiers, not keywords.
	assert.Equal(t, TokenIdent, tokens[4].Kind)
	assert.Equal(t, "depends_on", tokens[4].Literal)
}

func TestKeywordsAreCaseSensitive(t *testing.T) {
	tokens := lexAll(t, "Component COMPONENT component")
	assert.Equal(t, []TokenKind{TokenIdent, TokenIdent, TokenComponent, TokenEOF}, kinds(tokens))
}

func TestStringEscapes(t *testing.T) {
	tokens := lexAll(t, `"a\"b\\c\nd\te\rf"`)
	require.Equal(t, TokenString, tokens[0].Kind)
	assert.Equal(t, "a\"b\\c\nd\te\rf", tokens[0].Literal)
}

func TestStringUnterminated(t *testing.T) {
	err := lexError(t, `"never closed`)
	assert.Equal(t, UnterminatedString, err.Kind)
	assert.Equal(t, 1, err.Pos.Line)
	assert.Equal(t, 1, err.Pos.Column)
}

func TestStringNewlineTerminates(t *testing.T) {
	err := lexError(t, "\"spans\nlines\"")
	assert.Equal(t, UnterminatedString, err.Kind)
}

func TestStringInvalidEscape(t *testing.T) {
	err := lexError(t, `"bad \x escape"`)
	assert.Equal(t, InvalidCharacter, err.Kind)
	assert.Contains(t, err.Message, `\x`)
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"42", "42"},
		{"3.14", "3.14"},
		{"-7", "-7"},
		{"-0.5", "-0.5"},
		{"0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tokens := lexAll(t, tt.src)
			require.Equal(t, TokenNumber, tokens[0].Kind)
			assert.Equal(t, tt.want, tokens[0].Literal)
		})
	}
}

func TestNumberMalformed(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"trailing dot", "1."},
		{"double dot", "1.2.3"},
		{"letters after digits", "12ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := lexError(t, tt.src)
			assert.Equal(t, InvalidNumber, err.Kind)
		})
	}
}

func TestHexColors(t *testing.T) {
	tokens := lexAll(t, "#aabbcc #AbCdEf #f0a")
	require.Equal(t, TokenHexColor, tokens[0].Kind)
	assert.Equal(t, "#aabbcc", tokens[0].Literal)
	assert.Equal(t, "#abcdef", tokens[1].Literal, "literal is lowercased")
	assert.Equal(t, "#ff00aa", tokens[2].Literal, "short form expands by doubling")
}

func TestHexColorInvalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"too short", "#ab"},
		{"wrong length", "#abcd"},
		{"non-hex digit", "#abcdeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := lexError(t, tt.src)
			assert.Equal(t, InvalidNumber, err.Kind)
		})
	}
}

func TestComments(t *testing.T) {
	src := `// line comment
component /* inline */ Auth // trailing
/* block
   spanning lines */ view`

	tokens := lexAll(t, src)
	assert.Equal(t, []TokenKind{TokenComponent, TokenIdent, TokenView, TokenEOF}, kinds(tokens))
}

func TestUnterminatedBlockComment(t *testing.T) {
	err := lexError(t, "component /* never closed")
	assert.Equal(t, InvalidCharacter, err.Kind)
	assert.Contains(t, err.Message, "block comment")
}

func TestArrowVersusMinus(t *testing.T) {
	tokens := lexAll(t, "-> -5")
	assert.Equal(t, TokenArrow, tokens[0].Kind)
	assert.Equal(t, TokenNumber, tokens[1].Kind)
	assert.Equal(t, "-5", tokens[1].Literal)

	err := lexError(t, "-x")
	assert.Equal(t, InvalidCharacter, err.Kind)
}

func TestInvalidCharacter(t *testing.T) {
	err := lexError(t, "component $bad")
	assert.Equal(t, InvalidCharacter, err.Kind)
	assert.Equal(t, 1, err.Pos.Line)
	assert.Equal(t, 11, err.Pos.Column)
}

func TestPositions(t *testing.T) {
	tokens := lexAll(t, "component Auth {\n  description: \"x\";\n}")

	assert.Equal(t, 1, tokens[0].Pos.Line)
	assert.Equal(t, 1, tokens[0].Pos.Column)
	assert.Equal(t, 11, tokens[1].Pos.Column) // Auth
	assert.Equal(t, 2, tokens[3].Pos.Line)    // description
	assert.Equal(t, 3, tokens[3].Pos.Column)
	assert.Equal(t, 3, tokens[len(tokens)-2].Pos.Line) // closing brace
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx := New([]byte("component Auth"))

	p1, err := lx.Peek()
	require.NoError(t, err)
	p2, err := lx.Peek()
	require.NoError(t, err)
	assert.Equal(t, p1, p2)

	next, err := lx.Next()
	require.NoError(t, err)
	assert.Equal(t, p1, next)

	after, err := lx.Next()
	require.NoError(t, err)
	assert.Equal(t, "Auth", after.Literal)
}

func TestEmptySource(t *testing.T) {
	tokens := lexAll(t, "")
	require.Len(t, tokens, 1)
	assert.Equal(t, TokenEOF, tokens[0].Kind)
}

func TestErrorToDiagnostic(t *testing.T) {
	err := lexError(t, `"open`)

	d := err.ToDiagnostic("arch.doop")
	assert.Equal(t, diag.StageLex, d.Stage)
	assert.Equal(t, diag.SeverityError, d.Severity)
	assert.Equal(t, diag.CodeUnterminatedString, d.Code)
	assert.Equal(t, "arch.doop", d.File)
	assert.Equal(t, 1, d.Line)
}
