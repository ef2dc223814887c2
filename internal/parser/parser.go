// Package parser builds per-file syntax trees from DOOP source. Parsing is
// purely syntactic: cross-file and cross-declaration validation belongs to
// the resolver.
package parser

import (
	"fmt"
	"strconv"

	"github.com/tectix/doop-lang/internal/diag"
	"github.com/tectix/doop-lang/internal/lexer"
	"github.com/tectix/doop-lang/pkg/ast"
)

// ErrorKind classifies syntax errors.
type ErrorKind int

const (
	UnexpectedToken ErrorKind = iota
	ExpectedBlock
	DuplicateKey
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected token"
	case ExpectedBlock:
		return "expected block"
	case DuplicateKey:
		return "duplicate key in block"
	}
	return "unknown"
}

// Code maps the error kind to its stable diagnostic code.
func (k ErrorKind) Code() diag.Code {
	switch k {
	case ExpectedBlock:
		return diag.CodeExpectedBlock
	case DuplicateKey:
		return diag.CodeDuplicateKey
	default:
		return diag.CodeUnexpectedToken
	}
}

// Error is a syntax error carrying the offending token's position and the
// construct the parser expected there.
type Error struct {
	Kind     ErrorKind
	Message  string // set for block and duplicate errors
	Expected string // set for unexpected-token errors
	Got      string
	Pos      ast.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.text())
}

func (e *Error) text() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("expected %s, got %s", e.Expected, e.Got)
}

// ToDiagnostic converts the error into a structured diagnostic for the
// given file.
func (e *Error) ToDiagnostic(file string) diag.Diagnostic {
	return diag.New(diag.StageParse, diag.SeverityError, e.Kind.Code(),
		file, e.Pos.Line, e.Pos.Column, "%s", e.text())
}

// Parse parses one DOOP source file and returns its syntax tree. The error
// is a *Error for grammar failures or a *lexer.Error for lexical failures.
func Parse(path string, src []byte) (*ast.File, error) {
	p := &parser{
		lex:  lexer.New(src),
		file: &ast.File{Path: path},
	}
	if err := p.parseFile(); err != nil {
		return nil, err
	}
	return p.file, nil
}

type parser struct {
	lex  *lexer.Lexer
	file *ast.File
}

func (p *parser) peek() (lexer.Token, error) {
	return p.lex.Peek()
}

func (p *parser) next() (lexer.Token, error) {
	return p.lex.Next()
}

func got(tok lexer.Token) string {
	if tok.Kind == lexer.TokenEOF {
		return "end of file"
	}
	return fmt.Sprintf("%s (%q)", tok.Kind, tok.Literal)
}

func (p *parser) expect(kind lexer.TokenKind, expected string) (lexer.Token, error) {
	tok, err := p.next()
	if err != nil {
		return lexer.Token{}, err
	}
	if tok.Kind != kind {
		return lexer.Token{}, &Error{
			Kind:     UnexpectedToken,
			Expected: expected,
			Got:      got(tok),
			Pos:      tok.Pos,
		}
	}
	return tok, nil
}

// expectBlockOpen consumes '{' or fails with an ExpectedBlock error naming
// the construct that needs a block.
func (p *parser) expectBlockOpen(context string) error {
	tok, err := p.next()
	if err != nil {
		return err
	}
	if tok.Kind != lexer.TokenLBrace {
		return &Error{
			Kind:    ExpectedBlock,
			Message: fmt.Sprintf("expected '{' to open %s, got %s", context, got(tok)),
			Pos:     tok.Pos,
		}
	}
	return nil
}

func (p *parser) unexpected(tok lexer.Token, expected string) error {
	return &Error{Kind: UnexpectedToken, Expected: expected, Got: got(tok), Pos: tok.Pos}
}

func (p *parser) duplicate(pos ast.Position, what, where string) error {
	return &Error{
		Kind:    DuplicateKey,
		Message: fmt.Sprintf("duplicate %s in %s", what, where),
		Pos:     pos,
	}
}

func (p *parser) consumeOptionalSemicolon() error {
	tok, err := p.peek()
	if err != nil {
		return err
	}
	if tok.Kind == lexer.TokenSemicolon {
		_, _ = p.next()
	}
	return nil
}

func identLike(tok lexer.Token) bool {
	return tok.Kind == lexer.TokenIdent || tok.Kind.IsKeyword()
}

func (p *parser) parseFile() error {
	for {
		tok, err := p.peek()
		if err != nil {
			return err
		}
		if tok.Kind == lexer.TokenEOF {
			return nil
		}

		anns, err := p.parseAnnotations()
		if err != nil {
			return err
		}

		tok, err = p.peek()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case lexer.TokenComponent:
			c, err := p.parseComponent(anns)
			if err != nil {
				return err
			}
			p.file.Decls = append(p.file.Decls, c)
		case lexer.TokenView:
			v, err := p.parseView(anns)
			if err != nil {
				return err
			}
			p.file.Decls = append(p.file.Decls, v)
		default:
			if len(anns) > 0 {
				return p.unexpected(tok, "'component' or 'view' after annotations")
			}
			return p.unexpected(tok, "'component' or 'view'")
		}
	}
}

// parseAnnotations consumes zero or more @name(key: value, ...) markers.
func (p *parser) parseAnnotations() ([]ast.Annotation, error) {
	var anns []ast.Annotation
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != lexer.TokenAt {
			return anns, nil
		}
		atTok, _ := p.next()

		nameTok, err := p.expect(lexer.TokenIdent, "annotation name")
		if err != nil {
			return nil, err
		}
		ann := ast.Annotation{Name: nameTok.Literal, Pos: atTok.Pos}

		tok, err = p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.TokenLParen {
			_, _ = p.next()
			if err := p.parseAnnotationArgs(&ann); err != nil {
				return nil, err
			}
		}
		anns = append(anns, ann)
	}
}

func (p *parser) parseAnnotationArgs(ann *ast.Annotation) error {
	tok, err := p.peek()
	if err != nil {
		return err
	}
	for tok.Kind != lexer.TokenRParen {
		keyTok, err := p.next()
		if err != nil {
			return err
		}
		if !identLike(keyTok) {
			return p.unexpected(keyTok, "annotation argument name")
		}
		if _, ok := ann.Arg(keyTok.Literal); ok {
			return p.duplicate(keyTok.Pos, fmt.Sprintf("argument %q", keyTok.Literal), "annotation '@"+ann.Name+"'")
		}
		if _, err := p.expect(lexer.TokenColon, "':' after argument name"); err != nil {
			return err
		}
		val, err := p.parseValue()
		if err != nil {
			return err
		}
		ann.Args = append(ann.Args, ast.AnnotationArg{Key: keyTok.Literal, Value: val, Pos: keyTok.Pos})

		tok, err = p.peek()
		if err != nil {
			return err
		}
		if tok.Kind == lexer.TokenComma {
			_, _ = p.next()
			tok, err = p.peek()
			if err != nil {
				return err
			}
		}
	}
	_, _ = p.next() // consume ')'
	return nil
}

// parseValue accepts a string, number, boolean, or bare identifier.
func (p *parser) parseValue() (ast.Value, error) {
	tok, err := p.next()
	if err != nil {
		return ast.Value{}, err
	}
	switch {
	case tok.Kind == lexer.TokenString:
		return ast.Value{Kind: ast.ValueString, Str: tok.Literal, Raw: ast.Quote(tok.Literal)}, nil
	case tok.Kind == lexer.TokenNumber:
		n, _ := strconv.ParseFloat(tok.Literal, 64)
		return ast.Value{Kind: ast.ValueNumber, Num: n, Raw: tok.Literal}, nil
	case tok.Kind == lexer.TokenTrue:
		return ast.Value{Kind: ast.ValueBool, Bool: true, Raw: "true"}, nil
	case tok.Kind == lexer.TokenFalse:
		return ast.Value{Kind: ast.ValueBool, Bool: false, Raw: "false"}, nil
	case identLike(tok):
		return ast.Value{Kind: ast.ValueIdent, Str: tok.Literal, Raw: tok.Literal}, nil
	default:
		return ast.Value{}, p.unexpected(tok, "value (string, number, boolean, or identifier)")
	}
}

// parseLiteral accepts a string, number, or boolean.
func (p *parser) parseLiteral() (ast.Value, error) {
	tok, err := p.peek()
	if err != nil {
		return ast.Value{}, err
	}
	switch tok.Kind {
	case lexer.TokenString, lexer.TokenNumber, lexer.TokenTrue, lexer.TokenFalse:
		return p.parseValue()
	default:
		_, _ = p.next()
		return ast.Value{}, p.unexpected(tok, "literal value (string, number, or boolean)")
	}
}

func (p *parser) parseComponent(anns []ast.Annotation) (*ast.Component, error) {
	kwTok, _ := p.next() // consume 'component'

	nameTok, err := p.expect(lexer.TokenIdent, "component name")
	if err != nil {
		return nil, err
	}
	if err := p.expectBlockOpen("component '" + nameTok.Literal + "'"); err != nil {
		return nil, err
	}

	c := &ast.Component{Name: nameTok.Literal, Annotations: anns, Pos: kwTok.Pos}
	where := "component '" + c.Name + "'"
	var seenDesc, seenProps, seenMethods, seenRels, seenVis bool

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case lexer.TokenRBrace:
			_, _ = p.next()
			return c, nil
		case lexer.TokenDescription:
			if seenDesc {
				return nil, p.duplicate(tok.Pos, "'description'", where)
			}
			seenDesc = true
			desc, err := p.parseDescription()
			if err != nil {
				return nil, err
			}
			c.Description = desc
		case lexer.TokenProperties:
			if seenProps {
				return nil, p.duplicate(tok.Pos, "'properties' block", where)
			}
			seenProps = true
			props, err := p.parsePropertiesBlock()
			if err != nil {
				return nil, err
			}
			c.Properties = props
		case lexer.TokenMethods:
			if seenMethods {
				return nil, p.duplicate(tok.Pos, "'methods' block", where)
			}
			seenMethods = true
			methods, err := p.parseMethodsBlock()
			if err != nil {
				return nil, err
			}
			c.Methods = methods
		case lexer.TokenRelationships:
			if seenRels {
				return nil, p.duplicate(tok.Pos, "'relationships' block", where)
			}
			seenRels = true
			rels, err := p.parseRelationshipsBlock()
			if err != nil {
				return nil, err
			}
			c.Relationships = rels
		case lexer.TokenVisualization:
			if seenVis {
				return nil, p.duplicate(tok.Pos, "'visualization' block", where)
			}
			seenVis = true
			vis, err := p.parseVisualizationBlock()
			if err != nil {
				return nil, err
			}
			c.Visualization = vis
		case lexer.TokenEOF:
			return nil, p.unexpected(tok, "'}' to close "+where)
		default:
			return nil, p.unexpected(tok, "'description', 'properties', 'methods', 'relationships', or 'visualization'")
		}
	}
}

// parseDescription parses `description: "...";` with the keyword still
// pending.
func (p *parser) parseDescription() (string, error) {
	return p.parseQuotedAttr("description")
}

// parseQuotedAttr parses `<keyword>: "...";` with the keyword still pending.
func (p *parser) parseQuotedAttr(name string) (string, error) {
	_, _ = p.next()
	if _, err := p.expect(lexer.TokenColon, "':' after '"+name+"'"); err != nil {
		return "", err
	}
	strTok, err := p.expect(lexer.TokenString, "string")
	if err != nil {
		return "", err
	}
	return strTok.Literal, p.consumeOptionalSemicolon()
}

func (p *parser) parsePropertiesBlock() ([]ast.Property, error) {
	_, _ = p.next() // consume 'properties'
	if err := p.expectBlockOpen("'properties' block"); err != nil {
		return nil, err
	}

	var props []ast.Property
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.TokenRBrace {
			_, _ = p.next()
			return props, nil
		}

		nameTok, err := p.expect(lexer.TokenIdent, "property name or '}'")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenColon, "':' after property name"); err != nil {
			return nil, err
		}
		typeTok, err := p.expect(lexer.TokenIdent, "type name")
		if err != nil {
			return nil, err
		}

		prop := ast.Property{Name: nameTok.Literal, Type: typeTok.Literal, Pos: nameTok.Pos}

		tok, err = p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.TokenLBrace {
			if err := p.parsePropertyAttrs(&prop); err != nil {
				return nil, err
			}
		}
		if err := p.consumeOptionalSemicolon(); err != nil {
			return nil, err
		}
		props = append(props, prop)
	}
}

func (p *parser) parsePropertyAttrs(prop *ast.Property) error {
	_, _ = p.next() // consume '{'
	where := "property '" + prop.Name + "'"
	var seenDesc, seenDefault, seenRequired bool

	for {
		tok, err := p.peek()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case lexer.TokenRBrace:
			_, _ = p.next()
			return nil
		case lexer.TokenDescription:
			if seenDesc {
				return p.duplicate(tok.Pos, "'description'", where)
			}
			seenDesc = true
			desc, err := p.parseDescription()
			if err != nil {
				return err
			}
			prop.Description = desc
		case lexer.TokenDefault:
			if seenDefault {
				return p.duplicate(tok.Pos, "'default'", where)
			}
			seenDefault = true
			_, _ = p.next()
			if _, err := p.expect(lexer.TokenColon, "':' after 'default'"); err != nil {
				return err
			}
			val, err := p.parseLiteral()
			if err != nil {
				return err
			}
			if err := p.consumeOptionalSemicolon(); err != nil {
				return err
			}
			prop.Default = &val
		case lexer.TokenRequired:
			if seenRequired {
				return p.duplicate(tok.Pos, "'required'", where)
			}
			seenRequired = true
			_, _ = p.next()
			if _, err := p.expect(lexer.TokenColon, "':' after 'required'"); err != nil {
				return err
			}
			boolTok, err := p.next()
			if err != nil {
				return err
			}
			if boolTok.Kind != lexer.TokenTrue && boolTok.Kind != lexer.TokenFalse {
				return p.unexpected(boolTok, "'true' or 'false'")
			}
			if err := p.consumeOptionalSemicolon(); err != nil {
				return err
			}
			b := boolTok.Kind == lexer.TokenTrue
			prop.Required = &b
		default:
			return p.unexpected(tok, "'description', 'default', 'required', or '}'")
		}
	}
}

func (p *parser) parseMethodsBlock() ([]ast.Method, error) {
	_, _ = p.next() // consume 'methods'
	if err := p.expectBlockOpen("'methods' block"); err != nil {
		return nil, err
	}

	var methods []ast.Method
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.TokenRBrace {
			_, _ = p.next()
			return methods, nil
		}

		m, err := p.parseMethod()
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
}

func (p *parser) parseMethod() (ast.Method, error) {
	nameTok, err := p.expect(lexer.TokenIdent, "method name or '}'")
	if err != nil {
		return ast.Method{}, err
	}
	m := ast.Method{Name: nameTok.Literal, ReturnType: "void", Pos: nameTok.Pos}

	if _, err := p.expect(lexer.TokenLParen, "'(' after method name"); err != nil {
		return ast.Method{}, err
	}

	tok, err := p.peek()
	if err != nil {
		return ast.Method{}, err
	}
	for tok.Kind != lexer.TokenRParen {
		pnTok, err := p.expect(lexer.TokenIdent, "parameter name")
		if err != nil {
			return ast.Method{}, err
		}
		if _, err := p.expect(lexer.TokenColon, "':' after parameter name"); err != nil {
			return ast.Method{}, err
		}
		ptTok, err := p.expect(lexer.TokenIdent, "parameter type")
		if err != nil {
			return ast.Method{}, err
		}
		m.Params = append(m.Params, ast.Parameter{Name: pnTok.Literal, Type: ptTok.Literal, Pos: pnTok.Pos})

		tok, err = p.peek()
		if err != nil {
			return ast.Method{}, err
		}
		if tok.Kind == lexer.TokenComma {
			_, _ = p.next()
			tok, err = p.peek()
			if err != nil {
				return ast.Method{}, err
			}
			continue
		}
		if tok.Kind != lexer.TokenRParen {
			return ast.Method{}, p.unexpected(tok, "',' or ')'")
		}
	}
	_, _ = p.next() // consume ')'

	tok, err = p.peek()
	if err != nil {
		return ast.Method{}, err
	}
	if tok.Kind == lexer.TokenArrow {
		_, _ = p.next()
		retTok, err := p.expect(lexer.TokenIdent, "return type")
		if err != nil {
			return ast.Method{}, err
		}
		m.ReturnType = retTok.Literal
	}

	tok, err = p.peek()
	if err != nil {
		return ast.Method{}, err
	}
	if tok.Kind == lexer.TokenLBrace {
		if err := p.parseMethodAttrs(&m); err != nil {
			return ast.Method{}, err
		}
	}
	return m, p.consumeOptionalSemicolon()
}

func (p *parser) parseMethodAttrs(m *ast.Method) error {
	_, _ = p.next() // consume '{'
	where := "method '" + m.Name + "'"
	var seenDesc, seenPre, seenPost, seenReturns bool

	for {
		tok, err := p.peek()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case lexer.TokenRBrace:
			_, _ = p.next()
			return nil
		case lexer.TokenDescription:
			if seenDesc {
				return p.duplicate(tok.Pos, "'description'", where)
			}
			seenDesc = true
			s, err := p.parseDescription()
			if err != nil {
				return err
			}
			m.Description = s
		case lexer.TokenPrecondition:
			if seenPre {
				return p.duplicate(tok.Pos, "'precondition'", where)
			}
			seenPre = true
			s, err := p.parseQuotedAttr("precondition")
			if err != nil {
				return err
			}
			m.Precondition = s
		case lexer.TokenPostcondition:
			if seenPost {
				return p.duplicate(tok.Pos, "'postcondition'", where)
			}
			seenPost = true
			s, err := p.parseQuotedAttr("postcondition")
			if err != nil {
				return err
			}
			m.Postcondition = s
		case lexer.TokenReturns:
			if seenReturns {
				return p.duplicate(tok.Pos, "'returns'", where)
			}
			seenReturns = true
			s, err := p.parseQuotedAttr("returns")
			if err != nil {
				return err
			}
			m.Returns = s
		default:
			return p.unexpected(tok, "'description', 'precondition', 'postcondition', 'returns', or '}'")
		}
	}
}

func (p *parser) parseRelationshipsBlock() ([]ast.Relationship, error) {
	_, _ = p.next() // consume 'relationships'
	if err := p.expectBlockOpen("'relationships' block"); err != nil {
		return nil, err
	}

	var rels []ast.Relationship
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.TokenRBrace {
			_, _ = p.next()
			return rels, nil
		}

		kindTok, err := p.expect(lexer.TokenIdent, "relationship kind or '}'")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenColon, "':' after relationship kind"); err != nil {
			return nil, err
		}

		// One declaration may list several targets; each becomes its own
		// relationship sharing the declaration's attributes.
		var targets []lexer.Token
		for {
			tgtTok, err := p.expect(lexer.TokenIdent, "target component name")
			if err != nil {
				return nil, err
			}
			targets = append(targets, tgtTok)

			tok, err = p.peek()
			if err != nil {
				return nil, err
			}
			if tok.Kind != lexer.TokenComma {
				break
			}
			_, _ = p.next()
		}

		var reason, desc string
		if tok.Kind == lexer.TokenLBrace {
			reason, desc, err = p.parseRelationshipAttrs(kindTok.Literal)
			if err != nil {
				return nil, err
			}
		}
		if err := p.consumeOptionalSemicolon(); err != nil {
			return nil, err
		}

		for _, tgt := range targets {
			rels = append(rels, ast.Relationship{
				Kind:        kindTok.Literal,
				Target:      tgt.Literal,
				Reason:      reason,
				Description: desc,
				Pos:         tgt.Pos,
			})
		}
	}
}

func (p *parser) parseRelationshipAttrs(kind string) (reason, desc string, err error) {
	_, _ = p.next() // consume '{'
	where := "relationship '" + kind + "'"
	var seenReason, seenDesc bool

	for {
		tok, err := p.peek()
		if err != nil {
			return "", "", err
		}
		switch tok.Kind {
		case lexer.TokenRBrace:
			_, _ = p.next()
			return reason, desc, nil
		case lexer.TokenReason:
			if seenReason {
				return "", "", p.duplicate(tok.Pos, "'reason'", where)
			}
			seenReason = true
			s, err := p.parseQuotedAttr("reason")
			if err != nil {
				return "", "", err
			}
			reason = s
		case lexer.TokenDescription:
			if seenDesc {
				return "", "", p.duplicate(tok.Pos, "'description'", where)
			}
			seenDesc = true
			s, err := p.parseDescription()
			if err != nil {
				return "", "", err
			}
			desc = s
		default:
			return "", "", p.unexpected(tok, "'reason', 'description', or '}'")
		}
	}
}

func (p *parser) parseVisualizationBlock() (*ast.Visualization, error) {
	kwTok, _ := p.next() // consume 'visualization'
	if err := p.expectBlockOpen("'visualization' block"); err != nil {
		return nil, err
	}

	vis := &ast.Visualization{Pos: kwTok.Pos}
	where := "'visualization' block"
	var seenColor, seenIcon, seenGroup, seenOrder bool

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case lexer.TokenRBrace:
			_, _ = p.next()
			return vis, nil
		case lexer.TokenColor:
			if seenColor {
				return nil, p.duplicate(tok.Pos, "'color'", where)
			}
			seenColor = true
			_, _ = p.next()
			if _, err := p.expect(lexer.TokenColon, "':' after 'color'"); err != nil {
				return nil, err
			}
			colTok, err := p.expect(lexer.TokenHexColor, "hex color like '#1f77b4'")
			if err != nil {
				return nil, err
			}
			if err := p.consumeOptionalSemicolon(); err != nil {
				return nil, err
			}
			vis.Color = colTok.Literal
		case lexer.TokenIcon:
			if seenIcon {
				return nil, p.duplicate(tok.Pos, "'icon'", where)
			}
			seenIcon = true
			s, err := p.parseQuotedAttr("icon")
			if err != nil {
				return nil, err
			}
			vis.Icon = s
		case lexer.TokenGroup:
			if seenGroup {
				return nil, p.duplicate(tok.Pos, "'group'", where)
			}
			seenGroup = true
			s, err := p.parseQuotedAttr("group")
			if err != nil {
				return nil, err
			}
			vis.Group = s
		case lexer.TokenOrder:
			if seenOrder {
				return nil, p.duplicate(tok.Pos, "'order'", where)
			}
			seenOrder = true
			_, _ = p.next()
			if _, err := p.expect(lexer.TokenColon, "':' after 'order'"); err != nil {
				return nil, err
			}
			numTok, err := p.expect(lexer.TokenNumber, "number")
			if err != nil {
				return nil, err
			}
			if err := p.consumeOptionalSemicolon(); err != nil {
				return nil, err
			}
			n, _ := strconv.ParseFloat(numTok.Literal, 64)
			vis.Order = &n
		default:
			return nil, p.unexpected(tok, "'color', 'icon', 'group', 'order', or '}'")
		}
	}
}

func (p *parser) parseView(anns []ast.Annotation) (*ast.View, error) {
	kwTok, _ := p.next() // consume 'view'

	nameTok, err := p.expect(lexer.TokenIdent, "view name")
	if err != nil {
		return nil, err
	}
	if err := p.expectBlockOpen("view '" + nameTok.Literal + "'"); err != nil {
		return nil, err
	}

	v := &ast.View{Name: nameTok.Literal, Annotations: anns, Pos: kwTok.Pos}
	where := "view '" + v.Name + "'"
	var seenDesc, seenIncludes, seenFocus, seenSeq bool

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case lexer.TokenRBrace:
			_, _ = p.next()
			return v, nil
		case lexer.TokenDescription:
			if seenDesc {
				return nil, p.duplicate(tok.Pos, "'description'", where)
			}
			seenDesc = true
			desc, err := p.parseDescription()
			if err != nil {
				return nil, err
			}
			v.Description = desc
		case lexer.TokenIncludes:
			if seenIncludes {
				return nil, p.duplicate(tok.Pos, "'includes'", where)
			}
			seenIncludes = true
			includes, err := p.parseIncludes()
			if err != nil {
				return nil, err
			}
			v.Includes = includes
		case lexer.TokenFocus:
			if seenFocus {
				return nil, p.duplicate(tok.Pos, "'focus'", where)
			}
			seenFocus = true
			s, err := p.parseQuotedAttr("focus")
			if err != nil {
				return nil, err
			}
			v.Focus = s
		case lexer.TokenSequence:
			if seenSeq {
				return nil, p.duplicate(tok.Pos, "'sequence' block", where)
			}
			seenSeq = true
			steps, err := p.parseSequenceBlock()
			if err != nil {
				return nil, err
			}
			v.Sequence = steps
		case lexer.TokenEOF:
			return nil, p.unexpected(tok, "'}' to close "+where)
		default:
			return nil, p.unexpected(tok, "'description', 'includes', 'focus', or 'sequence'")
		}
	}
}

func (p *parser) parseIncludes() ([]ast.Include, error) {
	_, _ = p.next() // consume 'includes'
	if _, err := p.expect(lexer.TokenColon, "':' after 'includes'"); err != nil {
		return nil, err
	}

	var includes []ast.Include
	for {
		nameTok, err := p.expect(lexer.TokenIdent, "component name")
		if err != nil {
			return nil, err
		}
		includes = append(includes, ast.Include{Name: nameTok.Literal, Pos: nameTok.Pos})

		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != lexer.TokenComma {
			break
		}
		_, _ = p.next()
	}
	return includes, p.consumeOptionalSemicolon()
}

func (p *parser) parseSequenceBlock() ([]ast.SequenceStep, error) {
	_, _ = p.next() // consume 'sequence'
	if err := p.expectBlockOpen("'sequence' block"); err != nil {
		return nil, err
	}

	var steps []ast.SequenceStep
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.TokenRBrace {
			_, _ = p.next()
			return steps, nil
		}

		fromTok, err := p.expect(lexer.TokenIdent, "component name or '}'")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenArrow, "'->'"); err != nil {
			return nil, err
		}
		toTok, err := p.expect(lexer.TokenIdent, "component name")
		if err != nil {
			return nil, err
		}

		step := ast.SequenceStep{From: fromTok.Literal, To: toTok.Literal, Pos: fromTok.Pos}

		tok, err = p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.TokenColon {
			_, _ = p.next()
			msgTok, err := p.expect(lexer.TokenString, "message string")
			if err != nil {
				return nil, err
			}
			step.Message = msgTok.Literal
		}
		if err := p.consumeOptionalSemicolon(); err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
}
