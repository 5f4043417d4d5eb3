package ast

import (
	"gocst/pkg/diag"
	"gocst/pkg/parser"
	"gocst/pkg/token"
	"gocst/pkg/tree"
)

// binaryLevels are the left-associative productions, loosest first. Each one
// folds operands of the level after it; the last folds cast expressions.
var binaryLevels = []string{
	parser.TagLogicalOrExpr,
	parser.TagLogicalAndExpr,
	parser.TagInclusiveOrExpr,
	parser.TagExclusiveOrExpr,
	parser.TagAndExpr,
	parser.TagEqualityExpr,
	parser.TagRelationalExpr,
	parser.TagShiftExpr,
	parser.TagAdditiveExpr,
	parser.TagMultiplicativeExpr,
}

// expression folds a comma list. A single element is returned as is, more
// become a "sequence" in source order.
func (t *Transformer) expression(n *tree.Node) (*tree.Node, error) {
	parts, err := t.foldEach(n, token.COMMA, parser.TagAssignmentExpr)
	if err != nil {
		return nil, err
	}
	switch len(parts) {
	case 0:
		return nil, diag.Structuralf(n.Label(), n.Pos(), "empty expression")
	case 1:
		return parts[0], nil
	}
	return tree.NewLabel(LabelSequence, parts...), nil
}

// assignment folds [target, op, target, op, ..., conditional] from the right:
// a = b += c is a = (b += c).
func (t *Transformer) assignment(n *tree.Node) (*tree.Node, error) {
	if n.Len()%2 == 0 {
		return nil, diag.Structuralf(n.Label(), n.Pos(), "unexpected child count %d", n.Len())
	}
	last := n.Len() - 1
	value, err := t.visit(n.Child(last), parser.TagConditionalExpr)
	if err != nil {
		return nil, err
	}
	for i := last - 1; i > 0; i -= 2 {
		op := n.Child(i)
		if !op.IsTerminal() || !token.IsAssignOp(op.Token().Type) {
			return nil, diag.Structuralf(n.Label(), n.Pos(), "child %d: expected assignment operator, got %q", i, op.Display())
		}
		target, err := t.visit(n.Child(i-1), parser.TagUnaryExpr)
		if err != nil {
			return nil, err
		}
		value = assign(op.Token(), target, value)
	}
	return value, nil
}

// assign builds =(target, value) for a plain "=". A compound op= becomes
// =(target, op(ref target, value)) so the target subtree is present once and
// the binary operation refers back to it. Synthesized tokens take the
// position of the compound operator.
func assign(op token.Token, target, value *tree.Node) *tree.Node {
	base, ok := token.CompoundBase(op)
	if !ok {
		return tree.NewTerminal(op, target, value)
	}
	eq := token.Token{Type: token.ASSIGN, Lexeme: "=", Pos: op.Pos}
	return tree.NewTerminal(eq, target, tree.NewTerminal(base, tree.NewRef(target), value))
}

// conditional: [logical or] or [logical or, "?", expression, ":", conditional].
func (t *Transformer) conditional(n *tree.Node) (*tree.Node, error) {
	if err := arity(n, 1, 5); err != nil {
		return nil, err
	}
	test, err := t.visit(n.Child(0), parser.TagLogicalOrExpr)
	if err != nil || n.Len() == 1 {
		return test, err
	}
	if err := terminal(n, 1, token.QUESTION); err != nil {
		return nil, err
	}
	if err := terminal(n, 3, token.COLON); err != nil {
		return nil, err
	}
	then, err := t.visit(n.Child(2), parser.TagExpression)
	if err != nil {
		return nil, err
	}
	alt, err := t.visit(n.Child(4), parser.TagConditionalExpr)
	if err != nil {
		return nil, err
	}
	return tree.NewLabel(LabelConditional, test, then, alt), nil
}

// foldLeft returns the rule for one left-associative level. A single operand
// is delegated to the next level without creating a node; otherwise
// [e0, op1, e1, op2, e2] becomes op2(op1(e0, e1), e2).
func foldLeft(next string) rule {
	return func(t *Transformer, n *tree.Node) (*tree.Node, error) {
		if n.Len()%2 == 0 {
			return nil, diag.Structuralf(n.Label(), n.Pos(), "unexpected child count %d", n.Len())
		}
		acc, err := t.visit(n.Child(0), next)
		if err != nil {
			return nil, err
		}
		for i := 1; i < n.Len(); i += 2 {
			op := n.Child(i)
			if !op.IsTerminal() {
				return nil, diag.Structuralf(n.Label(), op.Pos(), "child %d: expected operator, got %q", i, op.Display())
			}
			rhs, err := t.visit(n.Child(i+1), next)
			if err != nil {
				return nil, err
			}
			acc = tree.NewTerminal(op.Token(), acc, rhs)
		}
		return acc, nil
	}
}

// cast: [unary] or ["(", type name, ")", cast].
func (t *Transformer) cast(n *tree.Node) (*tree.Node, error) {
	if err := arity(n, 1, 4); err != nil {
		return nil, err
	}
	if n.Len() == 1 {
		return t.visit(n.Child(0), parser.TagUnaryExpr)
	}
	if err := terminal(n, 0, token.LPAREN); err != nil {
		return nil, err
	}
	if err := terminal(n, 2, token.RPAREN); err != nil {
		return nil, err
	}
	typ, err := t.passThrough(n.Child(1), parser.TagTypeName)
	if err != nil {
		return nil, err
	}
	operand, err := t.visit(n.Child(3), parser.TagCastExpr)
	if err != nil {
		return nil, err
	}
	return tree.NewLabel(LabelCast, typ, operand), nil
}

const errPrefixOperand = "prefix increment/decrement requires a unary postfix operand, not another unary expression"

func (t *Transformer) unary(n *tree.Node) (*tree.Node, error) {
	lead := n.Child(0)
	if lead == nil {
		return nil, diag.Structuralf(n.Label(), token.Pos{}, "missing operand")
	}
	if !lead.IsTerminal() {
		if err := arity(n, 1); err != nil {
			return nil, err
		}
		return t.visit(lead, parser.TagPostfixExpr)
	}

	op := lead.Token()
	switch op.Type {
	case token.PLUS_PLUS, token.MINUS_MINUS:
		if err := arity(n, 2); err != nil {
			return nil, err
		}
		operand := n.Child(1)
		if err := t.check(operand, parser.TagUnaryExpr); err != nil {
			return nil, err
		}
		if inner := operand.Child(0); inner != nil && inner.IsTerminal() && !inner.IsToken(token.STAR) {
			return nil, diag.Semanticf(n.Label(), inner.Token().Pos, errPrefixOperand)
		}
		val, err := t.visit(operand, parser.TagUnaryExpr)
		if err != nil {
			return nil, err
		}
		return tree.NewTerminal(op, val), nil

	case token.PLUS, token.MINUS, token.NOT, token.TILDE, token.AND, token.STAR:
		if err := arity(n, 2); err != nil {
			return nil, err
		}
		val, err := t.visit(n.Child(1), parser.TagCastExpr)
		if err != nil {
			return nil, err
		}
		return tree.NewTerminal(op, val), nil

	case token.SIZEOF:
		return t.sizeof(n)
	}
	return nil, leadError(n)
}

// sizeof: ["sizeof", unary] or ["sizeof", "(", type name, ")"].
func (t *Transformer) sizeof(n *tree.Node) (*tree.Node, error) {
	if err := arity(n, 2, 4); err != nil {
		return nil, err
	}
	if n.Len() == 2 {
		val, err := t.visit(n.Child(1), parser.TagUnaryExpr)
		if err != nil {
			return nil, err
		}
		return tree.NewLabel(LabelSizeof, val), nil
	}
	if err := terminal(n, 1, token.LPAREN); err != nil {
		return nil, err
	}
	if err := terminal(n, 3, token.RPAREN); err != nil {
		return nil, err
	}
	typ, err := t.passThrough(n.Child(2), parser.TagTypeName)
	if err != nil {
		return nil, err
	}
	return tree.NewLabel(LabelSizeof, typ), nil
}

// postfix folds primary followed by a flat run of suffixes into a
// left-associative chain, each suffix wrapping the result so far.
func (t *Transformer) postfix(n *tree.Node) (*tree.Node, error) {
	acc, err := t.visit(n.Child(0), parser.TagPrimaryExpr)
	if err != nil {
		return nil, err
	}
	for i := 1; i < n.Len(); {
		suffix := n.Child(i)
		if !suffix.IsTerminal() {
			return nil, diag.Structuralf(n.Label(), suffix.Pos(), "child %d: expected postfix operator, got %q", i, suffix.Display())
		}
		switch tok := suffix.Token(); tok.Type {
		case token.LBRACKET:
			if err := terminal(n, i+2, token.RBRACKET); err != nil {
				return nil, err
			}
			idx, err := t.visit(n.Child(i+1), parser.TagExpression)
			if err != nil {
				return nil, err
			}
			acc = tree.NewLabel(LabelIndex, acc, idx)
			i += 3

		case token.LPAREN:
			call := tree.NewLabel(LabelCall, acc)
			if n.Child(i + 1).IsToken(token.RPAREN) {
				i += 2
			} else {
				if err := terminal(n, i+2, token.RPAREN); err != nil {
					return nil, err
				}
				args, err := t.arguments(n.Child(i + 1))
				if err != nil {
					return nil, err
				}
				call.Add(args...)
				i += 3
			}
			acc = call

		case token.DOT, token.ARROW:
			if err := terminal(n, i+1, token.IDENTIFIER); err != nil {
				return nil, err
			}
			acc = tree.NewTerminal(tok, acc, n.Child(i+1).Clone())
			i += 2

		case token.PLUS_PLUS:
			acc = tree.NewLabel(LabelPostInc, acc)
			i++

		case token.MINUS_MINUS:
			acc = tree.NewLabel(LabelPostDec, acc)
			i++

		default:
			return nil, diag.Structuralf(n.Label(), tok.Pos, "unexpected postfix operator %q", tok.Lexeme)
		}
	}
	return acc, nil
}

// arguments folds an argument expression list into its values.
func (t *Transformer) arguments(n *tree.Node) ([]*tree.Node, error) {
	if err := t.check(n, parser.TagArgumentExprList); err != nil {
		return nil, err
	}
	return t.foldEach(n, token.COMMA, parser.TagAssignmentExpr)
}

// primary passes identifiers and literals through; parentheses leave no node.
func (t *Transformer) primary(n *tree.Node) (*tree.Node, error) {
	if err := arity(n, 1, 3); err != nil {
		return nil, err
	}
	if n.Len() == 3 {
		if err := terminal(n, 0, token.LPAREN); err != nil {
			return nil, err
		}
		if err := terminal(n, 2, token.RPAREN); err != nil {
			return nil, err
		}
		return t.visit(n.Child(1), parser.TagExpression)
	}
	leaf := n.Child(0)
	switch {
	case leaf.IsToken(token.IDENTIFIER), leaf.IsToken(token.INTEGER), leaf.IsToken(token.FLOATING),
		leaf.IsToken(token.CHAR_LIT), leaf.IsToken(token.STRING):
		return leaf.Clone(), nil
	}
	return nil, diag.Structuralf(n.Label(), n.Pos(), "expected identifier or literal, got %q", leaf.Display())
}
