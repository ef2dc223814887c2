package lexer

import "github.com/tectix/doop-lang/pkg/ast"

// TokenKind identifies the type of a lexical token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenIdent           // [A-Za-z_][A-Za-z0-9_]*
	TokenString          // "..." with escape processing
	TokenNumber          // 123 or 123.45, optionally negative
	TokenHexColor        // #rgb or #rrggbb, normalized to #rrggbb
	TokenLBrace          // {
	TokenRBrace          // }
	TokenLParen          // (
	TokenRParen          // )
	TokenColon           // :
	TokenSemicolon       // ;
	TokenComma           // ,
	TokenArrow           // ->
	TokenAt              // @

	// Keywords (identifier text checked against the keyword map)
	TokenComponent
	TokenView
	TokenDescription
	TokenProperties
	TokenMethods
	TokenRelationships
	TokenVisualization
	TokenSequence
	TokenFocus
	TokenIncludes
	TokenDefault
	TokenRequired
	TokenReason
	TokenReturns
	TokenPrecondition
	TokenPostcondition
	TokenColor
	TokenIcon
	TokenGroup
	TokenOrder
	TokenTrue
	TokenFalse
)

var tokenNames = map[TokenKind]string{
	TokenEOF:           "EOF",
	TokenIdent:         "identifier",
	TokenString:        "string",
	TokenNumber:        "number",
	TokenHexColor:      "hex color",
	TokenLBrace:        "'{'",
	TokenRBrace:        "'}'",
	TokenLParen:        "'('",
	TokenRParen:        "')'",
	TokenColon:         "':'",
	TokenSemicolon:     "';'",
	TokenComma:         "','",
	TokenArrow:         "'->'",
	TokenAt:            "'@'",
	TokenComponent:     "'component'",
	TokenView:          "'view'",
	TokenDescription:   "'description'",
	TokenProperties:    "'properties'",
	TokenMethods:       "'methods'",
	TokenRelationships: "'relationships'",
	TokenVisualization: "'visualization'",
	TokenSequence:      "'sequence'",
	TokenFocus:         "'focus'",
	TokenIncludes:      "'includes'",
	TokenDefault:       "'default'",
	TokenRequired:      "'required'",
	TokenReason:        "'reason'",
	TokenReturns:       "'returns'",
	TokenPrecondition:  "'precondition'",
	TokenPostcondition: "'postcondition'",
	TokenColor:         "'color'",
	TokenIcon:          "'icon'",
	TokenGroup:         "'group'",
	TokenOrder:         "'order'",
	TokenTrue:          "'true'",
	TokenFalse:         "'false'",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return "unknown"
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Kind    TokenKind
	Literal string // text content (decoded for strings, normalized for colors)
	Pos     ast.Position
}

// keywords maps reserved words to their token kinds. Longest-match applies:
// a reserved word is never lexed as an identifier.
var keywords = map[string]TokenKind{
	"component":     TokenComponent,
	"view":          TokenView,
	"description":   TokenDescription,
	"properties":    TokenProperties,
	"methods":       TokenMethods,
	"relationships": TokenRelationships,
	"visualization": TokenVisualization,
	"sequence":      TokenSequence,
	"focus":         TokenFocus,
	"includes":      TokenIncludes,
	"default":       TokenDefault,
	"required":      TokenRequired,
	"reason":        TokenReason,
	"returns":       TokenReturns,
	"precondition":  TokenPrecondition,
	"postcondition": TokenPostcondition,
	"color":         TokenColor,
	"icon":          TokenIcon,
	"group":         TokenGroup,
	"order":         TokenOrder,
	"true":          TokenTrue,
	"false":         TokenFalse,
}

// IsKeyword reports whether kind is one of the reserved-word tokens.
func (k TokenKind) IsKeyword() bool {
	return k >= TokenComponent && k <= TokenFalse
}
