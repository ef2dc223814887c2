// Package lexer tokenizes DOOP source text. The lexer is a pull-based
// scanner: callers drive it with Peek/Next and each file gets its own
// instance, so independent files can be tokenized in parallel.
package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tectix/doop-lang/internal/diag"
	"github.com/tectix/doop-lang/pkg/ast"
)

// ErrorKind classifies lexical errors.
type ErrorKind int

const (
	UnterminatedString ErrorKind = iota
	InvalidCharacter
	InvalidNumber
)

func (k ErrorKind) String() string {
	switch k {
	case UnterminatedString:
		return "unterminated string"
	case InvalidCharacter:
		return "invalid character"
	case InvalidNumber:
		return "invalid number"
	}
	return "unknown"
}

// Code maps the error kind to its stable diagnostic code.
func (k ErrorKind) Code() diag.Code {
	switch k {
	case UnterminatedString:
		return diag.CodeUnterminatedString
	case InvalidNumber:
		return diag.CodeInvalidNumber
	default:
		return diag.CodeInvalidCharacter
	}
}

// Error is a lexical error with a stable kind and source position.
type Error struct {
	Kind    ErrorKind
	Message string
	Pos     ast.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// ToDiagnostic converts the error into a structured diagnostic for the
// given file.
func (e *Error) ToDiagnostic(file string) diag.Diagnostic {
	return diag.New(diag.StageLex, diag.SeverityError, e.Kind.Code(),
		file, e.Pos.Line, e.Pos.Column, "%s", e.Message)
}

// Lexer tokenizes DOOP source text into a stream of tokens.
type Lexer struct {
	src    []byte
	pos    int // current byte offset
	line   int // current line (1-based)
	col    int // current column (1-based)
	peeked *Token
}

// New creates a Lexer for the given source bytes.
func New(src []byte) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() (Token, error) {
	if l.peeked != nil {
		return *l.peeked, nil
	}
	tok, err := l.scan()
	if err != nil {
		return Token{}, err
	}
	l.peeked = &tok
	return tok, nil
}

// Next returns the next token and advances the lexer.
func (l *Lexer) Next() (Token, error) {
	if l.peeked != nil {
		tok := *l.peeked
		l.peeked = nil
		return tok, nil
	}
	return l.scan()
}

func (l *Lexer) currentPos() ast.Position {
	return ast.Position{Line: l.line, Column: l.col, Offset: l.pos}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

func (l *Lexer) peekByte() byte {
	if l.atEnd() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) advance() byte {
	ch := l.src[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) errorf(kind ErrorKind, pos ast.Position, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

func (l *Lexer) skipWhitespaceAndComments() error {
	for !l.atEnd() {
		ch := l.peekByte()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			for !l.atEnd() && l.peekByte() != '\n' {
				l.advance()
			}
		case ch == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			startPos := l.currentPos()
			l.advance() // consume /
			l.advance() // consume *
			for {
				if l.atEnd() {
					return l.errorf(InvalidCharacter, startPos, "unterminated block comment")
				}
				if l.peekByte() == '*' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) scan() (Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return Token{}, err
	}

	if l.atEnd() {
		return Token{Kind: TokenEOF, Pos: l.currentPos()}, nil
	}

	pos := l.currentPos()
	ch := l.peekByte()

	switch ch {
	case '{':
		l.advance()
		return Token{Kind: TokenLBrace, Literal: "{", Pos: pos}, nil
	case '}':
		l.advance()
		return Token{Kind: TokenRBrace, Literal: "}", Pos: pos}, nil
	case '(':
		l.advance()
		return Token{Kind: TokenLParen, Literal: "(", Pos: pos}, nil
	case ')':
		l.advance()
		return Token{Kind: TokenRParen, Literal: ")", Pos: pos}, nil
	case ':':
		l.advance()
		return Token{Kind: TokenColon, Literal: ":", Pos: pos}, nil
	case ';':
		l.advance()
		return Token{Kind: TokenSemicolon, Literal: ";", Pos: pos}, nil
	case ',':
		l.advance()
		return Token{Kind: TokenComma, Literal: ",", Pos: pos}, nil
	case '@':
		l.advance()
		return Token{Kind: TokenAt, Literal: "@", Pos: pos}, nil
	case '"':
		return l.scanString()
	case '#':
		return l.scanHexColor()
	case '-':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '>' {
			l.advance()
			l.advance()
			return Token{Kind: TokenArrow, Literal: "->", Pos: pos}, nil
		}
		if l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]) {
			return l.scanNumber()
		}
		l.advance()
		return Token{}, l.errorf(InvalidCharacter, pos, "unexpected character '-'")
	}

	if isDigit(ch) {
		return l.scanNumber()
	}

	if isIdentStart(ch) {
		return l.scanIdentifier()
	}

	r, _ := utf8.DecodeRune(l.src[l.pos:])
	l.advance()
	return Token{}, l.errorf(InvalidCharacter, pos, "unexpected character %q", r)
}

func (l *Lexer) scanString() (Token, error) {
	pos := l.currentPos()
	l.advance() // consume opening "

	var sb strings.Builder
	for {
		if l.atEnd() || l.peekByte() == '\n' {
			return Token{}, l.errorf(UnterminatedString, pos, "unterminated string")
		}
		ch := l.advance()
		if ch == '"' {
			return Token{Kind: TokenString, Literal: sb.String(), Pos: pos}, nil
		}
		if ch == '\\' {
			if l.atEnd() || l.peekByte() == '\n' {
				return Token{}, l.errorf(UnterminatedString, pos, "unterminated string")
			}
			escPos := l.currentPos()
			esc := l.advance()
			switch esc {
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				return Token{}, l.errorf(InvalidCharacter, escPos, "invalid escape sequence '\\%c'", esc)
			}
			continue
		}
		sb.WriteByte(ch)
	}
}

func (l *Lexer) scanNumber() (Token, error) {
	pos := l.currentPos()
	start := l.pos

	if l.peekByte() == '-' {
		l.advance()
	}

	for !l.atEnd() && isDigit(l.peekByte()) {
		l.advance()
	}

	if !l.atEnd() && l.peekByte() == '.' {
		if l.pos+1 >= len(l.src) || !isDigit(l.src[l.pos+1]) {
			l.advance()
			return Token{}, l.errorf(InvalidNumber, pos, "malformed number: expected digit after '.'")
		}
		l.advance() // consume '.'
		for !l.atEnd() && isDigit(l.peekByte()) {
			l.advance()
		}
		if !l.atEnd() && l.peekByte() == '.' {
			return Token{}, l.errorf(InvalidNumber, pos, "malformed number: more than one decimal point")
		}
	}

	if !l.atEnd() && isIdentStart(l.peekByte()) {
		return Token{}, l.errorf(InvalidNumber, pos, "malformed number: unexpected %q after digits", l.peekByte())
	}

	return Token{Kind: TokenNumber, Literal: string(l.src[start:l.pos]), Pos: pos}, nil
}

// scanHexColor scans #rgb or #rrggbb. Three-digit colors are expanded by
// doubling each digit; the literal is normalized to lowercase.
func (l *Lexer) scanHexColor() (Token, error) {
	pos := l.currentPos()
	l.advance() // consume '#'

	start := l.pos
	for !l.atEnd() && isHexDigit(l.peekByte()) {
		l.advance()
	}
	digits := string(l.src[start:l.pos])

	if !l.atEnd() && isIdentPart(l.peekByte()) {
		return Token{}, l.errorf(InvalidNumber, pos, "invalid hex color: non-hex digit %q", l.peekByte())
	}

	switch len(digits) {
	case 3:
		var sb strings.Builder
		sb.WriteByte('#')
		for i := 0; i < 3; i++ {
			c := lowerHex(digits[i])
			sb.WriteByte(c)
			sb.WriteByte(c)
		}
		return Token{Kind: TokenHexColor, Literal: sb.String(), Pos: pos}, nil
	case 6:
		return Token{Kind: TokenHexColor, Literal: "#" + strings.ToLower(digits), Pos: pos}, nil
	default:
		return Token{}, l.errorf(InvalidNumber, pos, "invalid hex color: expected 3 or 6 hex digits, got %d", len(digits))
	}
}

func (l *Lexer) scanIdentifier() (Token, error) {
	pos := l.currentPos()
	start := l.pos

	for !l.atEnd() && isIdentPart(l.peekByte()) {
		l.advance()
	}

	literal := string(l.src[start:l.pos])

	if kind, ok := keywords[literal]; ok {
		return Token{Kind: kind, Literal: literal, Pos: pos}, nil
	}

	return Token{Kind: TokenIdent, Literal: literal, Pos: pos}, nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func lowerHex(ch byte) byte {
	if ch >= 'A' && ch <= 'F' {
		return ch + ('a' - 'A')
	}
	return ch
}
