package parser

import (
	"gocst/pkg/token"
	"gocst/pkg/tree"
)

// parseCompound parses "{" declaration list? statement list "}". Declarations
// are only accepted before the first statement.
func (p *Parser) parseCompound() (*tree.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	lb, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	n := tree.NewLabel(TagCompoundStmt, lb)

	if token.IsTypeKeyword(p.peek().Type) {
		decls := tree.NewLabel(TagDeclarationList)
		for token.IsTypeKeyword(p.peek().Type) {
			d, err := p.parseDeclaration()
			if err != nil {
				return nil, err
			}
			decls.Add(d)
		}
		n.Add(decls)
	}

	stmts := tree.NewLabel(TagStatementList)
	for !p.at(token.RBRACE, token.EOF) {
		if tok := p.peek(); token.IsTypeKeyword(tok.Type) {
			return nil, p.fmtError(tok, "declaration after statement; declarations must open the block")
		}
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts.Add(s)
	}
	n.Add(stmts)

	rb, err := p.expect(token.RBRACE)
	if err != nil {
		return nil, err
	}
	return n.Add(rb), nil
}

func (p *Parser) parseDeclaration() (*tree.Node, error) {
	spec, err := p.parseTypeSpecifier()
	if err != nil {
		return nil, err
	}
	list, err := p.parseInitDeclList()
	if err != nil {
		return nil, err
	}
	semi, err := p.expect(token.SEMICOLON)
	if err != nil {
		return nil, err
	}
	return tree.NewLabel(TagDeclaration, spec, list, semi), nil
}

// parseStatement wraps exactly one specific statement in a statement node.
func (p *Parser) parseStatement() (*tree.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	var (
		inner *tree.Node
		err   error
	)
	switch tok := p.peek(); {
	case tok.Type == token.CASE || tok.Type == token.DEFAULT:
		inner, err = p.parseLabeled()
	case tok.Type == token.IDENTIFIER && p.peekAt(1).Type == token.COLON:
		inner, err = p.parseLabeled()
	case tok.Type == token.LBRACE:
		inner, err = p.parseCompound()
	case tok.Type == token.IF || tok.Type == token.SWITCH:
		inner, err = p.parseSelection()
	case tok.Type == token.WHILE || tok.Type == token.DO || tok.Type == token.FOR:
		inner, err = p.parseIteration()
	case tok.Type == token.GOTO || tok.Type == token.CONTINUE ||
		tok.Type == token.BREAK || tok.Type == token.RETURN:
		inner, err = p.parseJump()
	default:
		inner, err = p.parseExpressionStmt()
	}
	if err != nil {
		return nil, err
	}
	return tree.NewLabel(TagStatement, inner), nil
}

func (p *Parser) parseLabeled() (*tree.Node, error) {
	n := tree.NewLabel(TagLabeledStmt)
	switch {
	case p.at(token.CASE):
		n.Add(p.leaf())
		val, err := p.parseConditional()
		if err != nil {
			return nil, err
		}
		n.Add(val)
	default:
		// "default" or a goto label
		n.Add(p.leaf())
	}
	colon, err := p.expect(token.COLON)
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return n.Add(colon, body), nil
}

// parseExpressionStmt parses expression? ";".
func (p *Parser) parseExpressionStmt() (*tree.Node, error) {
	n := tree.NewLabel(TagExpressionStmt)
	if !p.at(token.SEMICOLON) {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		n.Add(e)
	}
	semi, err := p.expect(token.SEMICOLON)
	if err != nil {
		return nil, err
	}
	return n.Add(semi), nil
}

// parseParenExpr appends "(" expression ")" to n.
func (p *Parser) parseParenExpr(n *tree.Node) error {
	lp, err := p.expect(token.LPAREN)
	if err != nil {
		return err
	}
	e, err := p.parseExpression()
	if err != nil {
		return err
	}
	rp, err := p.expect(token.RPAREN)
	if err != nil {
		return err
	}
	n.Add(lp, e, rp)
	return nil
}

func (p *Parser) parseSelection() (*tree.Node, error) {
	isIf := p.at(token.IF)
	n := tree.NewLabel(TagSelectionStmt, p.leaf())
	if err := p.parseParenExpr(n); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	n.Add(body)
	if isIf && p.at(token.ELSE) {
		n.Add(p.leaf())
		alt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		n.Add(alt)
	}
	return n, nil
}

func (p *Parser) parseIteration() (*tree.Node, error) {
	kw := p.peek().Type
	n := tree.NewLabel(TagIterationStmt, p.leaf())
	switch kw {
	case token.WHILE:
		if err := p.parseParenExpr(n); err != nil {
			return nil, err
		}
	case token.DO:
		body, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		n.Add(body)
		w, err := p.expect(token.WHILE)
		if err != nil {
			return nil, err
		}
		n.Add(w)
		if err := p.parseParenExpr(n); err != nil {
			return nil, err
		}
		semi, err := p.expect(token.SEMICOLON)
		if err != nil {
			return nil, err
		}
		return n.Add(semi), nil
	case token.FOR:
		lp, err := p.expect(token.LPAREN)
		if err != nil {
			return nil, err
		}
		n.Add(lp)
		for i := 0; i < 2; i++ {
			s, err := p.parseExpressionStmt()
			if err != nil {
				return nil, err
			}
			n.Add(s)
		}
		if !p.at(token.RPAREN) {
			step, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			n.Add(step)
		}
		rp, err := p.expect(token.RPAREN)
		if err != nil {
			return nil, err
		}
		n.Add(rp)
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return n.Add(body), nil
}

func (p *Parser) parseJump() (*tree.Node, error) {
	kw := p.peek().Type
	n := tree.NewLabel(TagJumpStmt, p.leaf())
	switch kw {
	case token.GOTO:
		label, err := p.expect(token.IDENTIFIER)
		if err != nil {
			return nil, err
		}
		n.Add(label)
	case token.RETURN:
		if !p.at(token.SEMICOLON) {
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			n.Add(e)
		}
	}
	semi, err := p.expect(token.SEMICOLON)
	if err != nil {
		return nil, err
	}
	return n.Add(semi), nil
}
