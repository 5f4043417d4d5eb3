// Package parser builds a concrete parse tree from the token stream.
//
// Every production becomes a Label node tagged with one of the Tag constants
// and every consumed token becomes a Terminal child, punctuation included.
// Repetitions are flattened into the owning node's child list:
//
//	translation Unit     = external declaration* EOF
//	external declaration = type specifier (init declarator list ";" | function definition)
//	function definition  = declarator "(" param list? ")" compound statement
//	declarator           = "*"* IDENTIFIER ("[" INTEGER? "]")* ("(" param list? ")")?
//	compound statement   = "{" declaration list? statement list "}"
//	statement            = labeled | expression | compound | selection | iteration | jump
//	expression           = assignment expression ("," assignment expression)*
//	assignment expression = (unary expression assign-op)* conditional expression
//
// Expression levels below assignment are written as operand (op operand)*.
package parser

import (
	"fmt"
	"strings"

	"gocst/pkg/token"
	"gocst/pkg/tree"
)

// DefaultMaxDepth bounds statement and expression nesting.
const DefaultMaxDepth = 256

// SyntaxError is returned for any input the grammar does not accept.
type SyntaxError struct {
	Pos     token.Pos
	Msg     string
	Snippet string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, col %d: %s\n  |> %s", e.Pos.Line, e.Pos.Col, e.Msg, e.Snippet)
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxDepth sets the nesting limit. Values below 1 keep the default.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

// Parser consumes the flat token slice produced by the lexer.
type Parser struct {
	tokens      []token.Token
	pos         int
	sourceLines []string
	depth       int
	maxDepth    int
}

func NewParser(tokens []token.Token, rawSource string, opts ...Option) *Parser {
	p := &Parser{
		tokens:      tokens,
		sourceLines: strings.Split(rawSource, "\n"),
		maxDepth:    DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse builds the CST for a whole translation unit.
func Parse(tokens []token.Token, rawSource string, opts ...Option) (*tree.Node, error) {
	return NewParser(tokens, rawSource, opts...).ParseTranslationUnit()
}

// fmtError wraps an error message with the source line where the token appears.
func (p *Parser) fmtError(tok token.Token, format string, args ...any) error {
	snippet := "<source unavailable>"
	if idx := tok.Pos.Line - 1; idx >= 0 && idx < len(p.sourceLines) {
		snippet = strings.TrimSpace(p.sourceLines[idx])
	}
	return &SyntaxError{Pos: tok.Pos, Msg: fmt.Sprintf(format, args...), Snippet: snippet}
}

// peek returns the current token without consuming it.
func (p *Parser) peek() token.Token {
	return p.peekAt(0)
}

// peekAt returns the token at the given offset from the current position.
func (p *Parser) peekAt(offset int) token.Token {
	if p.pos+offset >= len(p.tokens) {
		eof := token.Token{Type: token.EOF}
		if n := len(p.tokens); n > 0 {
			eof.Pos = p.tokens[n-1].Pos
		}
		return eof
	}
	return p.tokens[p.pos+offset]
}

// advance consumes and returns the current token.
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// leaf consumes the current token as a Terminal node.
func (p *Parser) leaf() *tree.Node {
	return tree.NewTerminal(p.advance())
}

// expect consumes the current token as a Terminal node if it matches tt.
func (p *Parser) expect(tt token.TokenType) (*tree.Node, error) {
	tok := p.peek()
	if tok.Type != tt {
		return nil, p.fmtError(tok, "expected %s, got %s (%q)", tt, tok.Type, tok.Lexeme)
	}
	return p.leaf(), nil
}

func (p *Parser) at(types ...token.TokenType) bool {
	cur := p.peek().Type
	for _, tt := range types {
		if cur == tt {
			return true
		}
	}
	return false
}

// enter tracks recursion into nested statements and expressions.
func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.fmtError(p.peek(), "nesting deeper than %d levels", p.maxDepth)
	}
	return nil
}

func (p *Parser) leave() { p.depth-- }

// ParseTranslationUnit parses external declarations up to EOF.
func (p *Parser) ParseTranslationUnit() (*tree.Node, error) {
	unit := tree.NewLabel(TagTranslationUnit)
	for !p.at(token.EOF) {
		decl, err := p.parseExternalDecl()
		if err != nil {
			return nil, err
		}
		unit.Add(decl)
	}
	return unit, nil
}

func (p *Parser) parseExternalDecl() (*tree.Node, error) {
	spec, err := p.parseTypeSpecifier()
	if err != nil {
		return nil, err
	}
	n := tree.NewLabel(TagExternalDecl, spec)
	if p.isFunctionDefinition() {
		fn, err := p.parseFunctionDef()
		if err != nil {
			return nil, err
		}
		return n.Add(fn), nil
	}
	list, err := p.parseInitDeclList()
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(token.SEMICOLON)
	if err != nil {
		return nil, err
	}
	return n.Add(list, semi), nil
}

// isFunctionDefinition looks ahead for "*"* IDENT "(" ... ")" "{".
func (p *Parser) isFunctionDefinition() bool {
	i := 0
	for p.peekAt(i).Type == token.STAR {
		i++
	}
	if p.peekAt(i).Type != token.IDENTIFIER || p.peekAt(i+1).Type != token.LPAREN {
		return false
	}
	i += 2
	for depth := 1; depth > 0; i++ {
		switch p.peekAt(i).Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		case token.EOF:
			return false
		}
	}
	return p.peekAt(i).Type == token.LBRACE
}

// parseTypeSpecifier accepts one or more specifier keywords, or
// "struct" IDENTIFIER.
func (p *Parser) parseTypeSpecifier() (*tree.Node, error) {
	n := tree.NewLabel(TagTypeSpecifier)
	for token.IsTypeKeyword(p.peek().Type) {
		if p.at(token.STRUCT) {
			n.Add(p.leaf())
			name, err := p.expect(token.IDENTIFIER)
			if err != nil {
				return nil, err
			}
			n.Add(name)
			continue
		}
		n.Add(p.leaf())
	}
	if n.Len() == 0 {
		tok := p.peek()
		return nil, p.fmtError(tok, "expected type specifier, got %s (%q)", tok.Type, tok.Lexeme)
	}
	return n, nil
}

func (p *Parser) parseFunctionDef() (*tree.Node, error) {
	decl := tree.NewLabel(TagDeclarator)
	for p.at(token.STAR) {
		decl.Add(p.leaf())
	}
	name, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	decl.Add(name)

	n := tree.NewLabel(TagFunctionDef, decl)
	if err := p.parseParams(n); err != nil {
		return nil, err
	}
	body, err := p.parseCompound()
	if err != nil {
		return nil, err
	}
	return n.Add(body), nil
}

// parseParams appends "(" param list? ")" to n.
func (p *Parser) parseParams(n *tree.Node) error {
	lp, err := p.expect(token.LPAREN)
	if err != nil {
		return err
	}
	n.Add(lp)
	if !p.at(token.RPAREN) {
		list, err := p.parseParamList()
		if err != nil {
			return err
		}
		n.Add(list)
	}
	rp, err := p.expect(token.RPAREN)
	if err != nil {
		return err
	}
	n.Add(rp)
	return nil
}

func (p *Parser) parseParamList() (*tree.Node, error) {
	n := tree.NewLabel(TagParamList)
	for {
		spec, err := p.parseTypeSpecifier()
		if err != nil {
			return nil, err
		}
		param := tree.NewLabel(TagParamDecl, spec)
		if p.at(token.STAR, token.IDENTIFIER) {
			decl, err := p.parseDeclarator()
			if err != nil {
				return nil, err
			}
			param.Add(decl)
		}
		n.Add(param)
		if !p.at(token.COMMA) {
			return n, nil
		}
		n.Add(p.leaf())
	}
}

func (p *Parser) parseDeclarator() (*tree.Node, error) {
	n := tree.NewLabel(TagDeclarator)
	for p.at(token.STAR) {
		n.Add(p.leaf())
	}
	name, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	n.Add(name)
	for p.at(token.LBRACKET) {
		n.Add(p.leaf())
		if p.at(token.INTEGER) {
			n.Add(p.leaf())
		}
		rb, err := p.expect(token.RBRACKET)
		if err != nil {
			return nil, err
		}
		n.Add(rb)
	}
	if p.at(token.LPAREN) {
		if err := p.parseParams(n); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (p *Parser) parseInitDeclList() (*tree.Node, error) {
	n := tree.NewLabel(TagInitDeclList)
	for {
		decl, err := p.parseDeclarator()
		if err != nil {
			return nil, err
		}
		entry := tree.NewLabel(TagInitDeclarator, decl)
		if p.at(token.ASSIGN) {
			entry.Add(p.leaf())
			var init *tree.Node
			if p.at(token.LBRACE) {
				init, err = p.parseInitializerList()
			} else {
				init, err = p.parseAssignment()
			}
			if err != nil {
				return nil, err
			}
			entry.Add(init)
		}
		n.Add(entry)
		if !p.at(token.COMMA) {
			return n, nil
		}
		n.Add(p.leaf())
	}
}

// parseInitializerList accepts "{" expr ("," expr)* ","? "}".
func (p *Parser) parseInitializerList() (*tree.Node, error) {
	lb, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	n := tree.NewLabel(TagInitializerList, lb)
	for !p.at(token.RBRACE) {
		val, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		n.Add(val)
		if !p.at(token.COMMA) {
			break
		}
		n.Add(p.leaf())
	}
	rb, err := p.expect(token.RBRACE)
	if err != nil {
		return nil, err
	}
	return n.Add(rb), nil
}

// parseTypeName parses the type of a cast or sizeof.
func (p *Parser) parseTypeName() (*tree.Node, error) {
	spec, err := p.parseTypeSpecifier()
	if err != nil {
		return nil, err
	}
	n := tree.NewLabel(TagTypeName, spec)
	for p.at(token.STAR) {
		n.Add(p.leaf())
	}
	return n, nil
}
