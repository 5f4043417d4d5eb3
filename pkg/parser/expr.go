package parser

import (
	"gocst/pkg/token"
	"gocst/pkg/tree"
)

// binaryLevels lists the left-associative levels from loosest to tightest.
var binaryLevels = []struct {
	tag string
	ops []token.TokenType
}{
	{TagLogicalOrExpr, []token.TokenType{token.OR_LOGICAL}},
	{TagLogicalAndExpr, []token.TokenType{token.AND_LOGICAL}},
	{TagInclusiveOrExpr, []token.TokenType{token.PIPE}},
	{TagExclusiveOrExpr, []token.TokenType{token.CARET}},
	{TagAndExpr, []token.TokenType{token.AND}},
	{TagEqualityExpr, []token.TokenType{token.EQUALS, token.NOT_EQ}},
	{TagRelationalExpr, []token.TokenType{token.LESS, token.GREATER, token.LESS_EQ, token.GREATER_EQ}},
	{TagShiftExpr, []token.TokenType{token.SHL_OP, token.SHR_OP}},
	{TagAdditiveExpr, []token.TokenType{token.PLUS, token.MINUS}},
	{TagMultiplicativeExpr, []token.TokenType{token.STAR, token.SLASH, token.PERCENT}},
}

// parseExpression handles the comma operator.
func (p *Parser) parseExpression() (*tree.Node, error) {
	first, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	n := tree.NewLabel(TagExpression, first)
	for p.at(token.COMMA) {
		n.Add(p.leaf())
		next, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		n.Add(next)
	}
	return n, nil
}

// parseAssignment parses (unary assign-op)* conditional. The left side is
// parsed as a conditional expression first and must reduce to a lone unary
// expression when an assignment operator follows.
func (p *Parser) parseAssignment() (*tree.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	n := tree.NewLabel(TagAssignmentExpr)
	for {
		start := p.peek()
		cond, err := p.parseConditional()
		if err != nil {
			return nil, err
		}
		if !token.IsAssignOp(p.peek().Type) {
			return n.Add(cond), nil
		}
		target := assignTarget(cond)
		if target == nil {
			return nil, p.fmtError(start, "left side of %q is not assignable", p.peek().Lexeme)
		}
		n.Add(target, p.leaf())
	}
}

// assignTarget follows the single-child chain from a conditional expression
// down to its unary expression. It returns nil when any level on the way
// carries an operator.
func assignTarget(cond *tree.Node) *tree.Node {
	n := cond
	for !n.Is(TagUnaryExpr) {
		if n.IsTerminal() || n.Len() != 1 {
			return nil
		}
		n = n.Child(0)
	}
	return n
}

func (p *Parser) parseConditional() (*tree.Node, error) {
	test, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	n := tree.NewLabel(TagConditionalExpr, test)
	if !p.at(token.QUESTION) {
		return n, nil
	}
	n.Add(p.leaf())
	then, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	colon, err := p.expect(token.COLON)
	if err != nil {
		return nil, err
	}
	alt, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	return n.Add(then, colon, alt), nil
}

// parseBinary parses binaryLevels[level] as operand (op operand)*.
func (p *Parser) parseBinary(level int) (*tree.Node, error) {
	if level == len(binaryLevels) {
		return p.parseCast()
	}
	lv := binaryLevels[level]
	operand, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	n := tree.NewLabel(lv.tag, operand)
	for p.at(lv.ops...) {
		n.Add(p.leaf())
		operand, err = p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		n.Add(operand)
	}
	return n, nil
}

// startsTypeName reports whether the current "(" opens a type name.
func (p *Parser) startsTypeName() bool {
	return p.at(token.LPAREN) && token.IsTypeKeyword(p.peekAt(1).Type)
}

func (p *Parser) parseCast() (*tree.Node, error) {
	if !p.startsTypeName() {
		u, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return tree.NewLabel(TagCastExpr, u), nil
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	n := tree.NewLabel(TagCastExpr, p.leaf())
	typ, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	rp, err := p.expect(token.RPAREN)
	if err != nil {
		return nil, err
	}
	operand, err := p.parseCast()
	if err != nil {
		return nil, err
	}
	return n.Add(typ, rp, operand), nil
}

func (p *Parser) parseUnary() (*tree.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	n := tree.NewLabel(TagUnaryExpr)
	switch {
	case p.at(token.PLUS_PLUS, token.MINUS_MINUS):
		n.Add(p.leaf())
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return n.Add(operand), nil
	case p.at(token.PLUS, token.MINUS, token.NOT, token.TILDE, token.AND, token.STAR):
		n.Add(p.leaf())
		operand, err := p.parseCast()
		if err != nil {
			return nil, err
		}
		return n.Add(operand), nil
	case p.at(token.SIZEOF):
		n.Add(p.leaf())
		if p.startsTypeName() {
			lp := p.leaf()
			typ, err := p.parseTypeName()
			if err != nil {
				return nil, err
			}
			rp, err := p.expect(token.RPAREN)
			if err != nil {
				return nil, err
			}
			return n.Add(lp, typ, rp), nil
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return n.Add(operand), nil
	}
	post, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	return n.Add(post), nil
}

// parsePostfix parses primary followed by a flat run of suffixes.
func (p *Parser) parsePostfix() (*tree.Node, error) {
	prim, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	n := tree.NewLabel(TagPostfixExpr, prim)
	for {
		switch {
		case p.at(token.LBRACKET):
			n.Add(p.leaf())
			idx, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			rb, err := p.expect(token.RBRACKET)
			if err != nil {
				return nil, err
			}
			n.Add(idx, rb)
		case p.at(token.LPAREN):
			n.Add(p.leaf())
			if !p.at(token.RPAREN) {
				args, err := p.parseArguments()
				if err != nil {
					return nil, err
				}
				n.Add(args)
			}
			rp, err := p.expect(token.RPAREN)
			if err != nil {
				return nil, err
			}
			n.Add(rp)
		case p.at(token.DOT, token.ARROW):
			n.Add(p.leaf())
			member, err := p.expect(token.IDENTIFIER)
			if err != nil {
				return nil, err
			}
			n.Add(member)
		case p.at(token.PLUS_PLUS, token.MINUS_MINUS):
			n.Add(p.leaf())
		default:
			return n, nil
		}
	}
}

func (p *Parser) parseArguments() (*tree.Node, error) {
	n := tree.NewLabel(TagArgumentExprList)
	for {
		arg, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		n.Add(arg)
		if !p.at(token.COMMA) {
			return n, nil
		}
		n.Add(p.leaf())
	}
}

func (p *Parser) parsePrimary() (*tree.Node, error) {
	tok := p.peek()
	switch tok.Type {
	case token.IDENTIFIER, token.INTEGER, token.FLOATING, token.CHAR_LIT, token.STRING:
		return tree.NewLabel(TagPrimaryExpr, p.leaf()), nil
	case token.LPAREN:
		n := tree.NewLabel(TagPrimaryExpr)
		if err := p.parseParenExpr(n); err != nil {
			return nil, err
		}
		return n, nil
	}
	return nil, p.fmtError(tok, "unexpected %s (%q) in expression", tok.Type, tok.Lexeme)
}
