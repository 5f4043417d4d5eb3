package ast

import (
	"gocst/pkg/diag"
	"gocst/pkg/parser"
	"gocst/pkg/token"
	"gocst/pkg/tree"
)

// compound: ["{", declaration list?, statement list, "}"]. The AST keeps the
// declarations in front of the statements.
func (t *Transformer) compound(n *tree.Node) (*tree.Node, error) {
	if err := arity(n, 3, 4); err != nil {
		return nil, err
	}
	last := n.Len() - 1
	if err := terminal(n, 0, token.LBRACE); err != nil {
		return nil, err
	}
	if err := terminal(n, last, token.RBRACE); err != nil {
		return nil, err
	}

	out := tree.NewLabel(LabelCompound)
	if n.Len() == 4 {
		decls, err := t.visit(n.Child(1), parser.TagDeclarationList)
		if err != nil {
			return nil, err
		}
		out.Add(decls)
	}
	stmts, err := t.visit(n.Child(last-1), parser.TagStatementList)
	if err != nil {
		return nil, err
	}
	return out.Add(stmts), nil
}

func (t *Transformer) statementList(n *tree.Node) (*tree.Node, error) {
	stmts, err := t.foldEach(n, token.EOF, parser.TagStatement)
	if err != nil {
		return nil, err
	}
	return tree.NewLabel(LabelStatementList, stmts...), nil
}

// statement only dispatches on the tag of its single child.
func (t *Transformer) statement(n *tree.Node) (*tree.Node, error) {
	if err := arity(n, 1); err != nil {
		return nil, err
	}
	return t.visit(n.Child(0),
		parser.TagLabeledStmt,
		parser.TagExpressionStmt,
		parser.TagCompoundStmt,
		parser.TagSelectionStmt,
		parser.TagIterationStmt,
		parser.TagJumpStmt,
	)
}

func (t *Transformer) labeled(n *tree.Node) (*tree.Node, error) {
	lead := n.Child(0)
	switch {
	case lead.IsToken(token.CASE):
		if err := arity(n, 4); err != nil {
			return nil, err
		}
		if err := terminal(n, 2, token.COLON); err != nil {
			return nil, err
		}
		val, err := t.visit(n.Child(1), parser.TagConditionalExpr)
		if err != nil {
			return nil, err
		}
		body, err := t.visit(n.Child(3), parser.TagStatement)
		if err != nil {
			return nil, err
		}
		return tree.NewLabel(LabelCase, val, body), nil

	case lead.IsToken(token.DEFAULT), lead.IsToken(token.IDENTIFIER):
		if err := arity(n, 3); err != nil {
			return nil, err
		}
		if err := terminal(n, 1, token.COLON); err != nil {
			return nil, err
		}
		body, err := t.visit(n.Child(2), parser.TagStatement)
		if err != nil {
			return nil, err
		}
		if lead.IsToken(token.DEFAULT) {
			return tree.NewLabel(LabelDefault, body), nil
		}
		return tree.NewLabel(LabelLabel, lead.Clone(), body), nil
	}
	return nil, leadError(n)
}

func leadError(n *tree.Node) error {
	got := "nothing"
	if c := n.Child(0); c != nil {
		got = c.Display()
	}
	return diag.Structuralf(n.Label(), n.Pos(), "unexpected leading %q", got)
}

// expressionStmt: [expression?, ";"]. The empty statement has no children.
func (t *Transformer) expressionStmt(n *tree.Node) (*tree.Node, error) {
	if err := arity(n, 1, 2); err != nil {
		return nil, err
	}
	if err := terminal(n, n.Len()-1, token.SEMICOLON); err != nil {
		return nil, err
	}
	out := tree.NewLabel(LabelExprStmt)
	if n.Len() == 2 {
		e, err := t.visit(n.Child(0), parser.TagExpression)
		if err != nil {
			return nil, err
		}
		out.Add(e)
	}
	return out, nil
}

// parenthesized checks "(" expression ")" at children i..i+2 and folds the
// expression.
func (t *Transformer) parenthesized(n *tree.Node, i int) (*tree.Node, error) {
	if err := terminal(n, i, token.LPAREN); err != nil {
		return nil, err
	}
	if err := terminal(n, i+2, token.RPAREN); err != nil {
		return nil, err
	}
	return t.visit(n.Child(i+1), parser.TagExpression)
}

// selection builds "if then else" with two children when there is no else
// branch and three when there is one, or a two-child "switch".
func (t *Transformer) selection(n *tree.Node) (*tree.Node, error) {
	lead := n.Child(0)
	var out *tree.Node
	switch {
	case lead.IsToken(token.IF):
		if err := arity(n, 5, 7); err != nil {
			return nil, err
		}
		out = tree.NewLabel(LabelIf)
	case lead.IsToken(token.SWITCH):
		if err := arity(n, 5); err != nil {
			return nil, err
		}
		out = tree.NewLabel(LabelSwitch)
	default:
		return nil, leadError(n)
	}

	cond, err := t.parenthesized(n, 1)
	if err != nil {
		return nil, err
	}
	body, err := t.visit(n.Child(4), parser.TagStatement)
	if err != nil {
		return nil, err
	}
	out.Add(cond, body)

	if n.Len() == 7 {
		if err := terminal(n, 5, token.ELSE); err != nil {
			return nil, err
		}
		alt, err := t.visit(n.Child(6), parser.TagStatement)
		if err != nil {
			return nil, err
		}
		out.Add(alt)
	}
	return out, nil
}

func (t *Transformer) iteration(n *tree.Node) (*tree.Node, error) {
	lead := n.Child(0)
	switch {
	case lead.IsToken(token.WHILE):
		return t.whileLoop(n)
	case lead.IsToken(token.DO):
		return t.doWhile(n)
	case lead.IsToken(token.FOR):
		return t.forLoop(n)
	}
	return nil, leadError(n)
}

// whileLoop: ["while", "(", expression, ")", statement] -> while do [cond, body].
func (t *Transformer) whileLoop(n *tree.Node) (*tree.Node, error) {
	if err := arity(n, 5); err != nil {
		return nil, err
	}
	cond, err := t.parenthesized(n, 1)
	if err != nil {
		return nil, err
	}
	body, err := t.visit(n.Child(4), parser.TagStatement)
	if err != nil {
		return nil, err
	}
	return tree.NewLabel(LabelWhile, cond, body), nil
}

// doWhile: ["do", statement, "while", "(", expression, ")", ";"] -> do while [body, cond].
func (t *Transformer) doWhile(n *tree.Node) (*tree.Node, error) {
	if err := arity(n, 7); err != nil {
		return nil, err
	}
	if err := terminal(n, 2, token.WHILE); err != nil {
		return nil, err
	}
	if err := terminal(n, 6, token.SEMICOLON); err != nil {
		return nil, err
	}
	body, err := t.visit(n.Child(1), parser.TagStatement)
	if err != nil {
		return nil, err
	}
	cond, err := t.parenthesized(n, 3)
	if err != nil {
		return nil, err
	}
	return tree.NewLabel(LabelDoWhile, body, cond), nil
}

// forLoop: ["for", "(", expression statement, expression statement,
// expression?, ")", statement] -> for [init, cond, step, body]. Missing header
// parts become "empty" nodes.
func (t *Transformer) forLoop(n *tree.Node) (*tree.Node, error) {
	if err := arity(n, 6, 7); err != nil {
		return nil, err
	}
	last := n.Len() - 1
	if err := terminal(n, 1, token.LPAREN); err != nil {
		return nil, err
	}
	if err := terminal(n, last-1, token.RPAREN); err != nil {
		return nil, err
	}

	out := tree.NewLabel(LabelFor)
	for _, c := range n.Children()[2:4] {
		part, err := t.visit(c, parser.TagExpressionStmt)
		if err != nil {
			return nil, err
		}
		out.Add(orEmpty(part.Child(0)))
	}
	step := tree.NewLabel(LabelEmpty)
	if n.Len() == 7 {
		var err error
		if step, err = t.visit(n.Child(4), parser.TagExpression); err != nil {
			return nil, err
		}
	}
	body, err := t.visit(n.Child(last), parser.TagStatement)
	if err != nil {
		return nil, err
	}
	return out.Add(step, body), nil
}

func orEmpty(n *tree.Node) *tree.Node {
	if n == nil {
		return tree.NewLabel(LabelEmpty)
	}
	return n
}

// jump builds a node tagged by the jump keyword itself: return carries its
// value when present, goto its label.
func (t *Transformer) jump(n *tree.Node) (*tree.Node, error) {
	lead := n.Child(0)
	if lead == nil || !lead.IsTerminal() {
		return nil, leadError(n)
	}
	if err := terminal(n, n.Len()-1, token.SEMICOLON); err != nil {
		return nil, err
	}
	out := tree.NewTerminal(lead.Token())

	switch lead.Token().Type {
	case token.BREAK, token.CONTINUE:
		if err := arity(n, 2); err != nil {
			return nil, err
		}
	case token.GOTO:
		if err := arity(n, 3); err != nil {
			return nil, err
		}
		if err := terminal(n, 1, token.IDENTIFIER); err != nil {
			return nil, err
		}
		out.Add(n.Child(1).Clone())
	case token.RETURN:
		if err := arity(n, 2, 3); err != nil {
			return nil, err
		}
		if n.Len() == 3 {
			val, err := t.visit(n.Child(1), parser.TagExpression)
			if err != nil {
				return nil, err
			}
			out.Add(val)
		}
	default:
		return nil, leadError(n)
	}
	return out, nil
}
