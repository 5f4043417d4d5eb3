package ast

import (
	"gocst/pkg/diag"
	"gocst/pkg/parser"
	"gocst/pkg/token"
	"gocst/pkg/tree"
)

func (t *Transformer) translationUnit(n *tree.Node) (*tree.Node, error) {
	decls, err := t.foldEach(n, token.EOF, parser.TagExternalDecl)
	if err != nil {
		return nil, err
	}
	return tree.NewLabel(LabelSourceRoot, decls...), nil
}

// externalDecl keeps the type specifier and transforms either the declarator
// list or the function definition that follows it.
//
//	[type specifier, init declarator list, ";"] | [type specifier, function definition]
func (t *Transformer) externalDecl(n *tree.Node) (*tree.Node, error) {
	if err := arity(n, 2, 3); err != nil {
		return nil, err
	}
	spec, err := t.passThrough(n.Child(0), parser.TagTypeSpecifier)
	if err != nil {
		return nil, err
	}

	var body *tree.Node
	if n.Len() == 3 {
		if err := terminal(n, 2, token.SEMICOLON); err != nil {
			return nil, err
		}
		body, err = t.visit(n.Child(1), parser.TagInitDeclList)
	} else {
		body, err = t.visit(n.Child(1), parser.TagFunctionDef)
	}
	if err != nil {
		return nil, err
	}
	return tree.NewLabel(LabelExternalDecl, spec, body), nil
}

// functionDef: [declarator, "(", param list?, ")", compound statement].
func (t *Transformer) functionDef(n *tree.Node) (*tree.Node, error) {
	if err := arity(n, 4, 5); err != nil {
		return nil, err
	}
	last := n.Len() - 1
	if err := terminal(n, 1, token.LPAREN); err != nil {
		return nil, err
	}
	if err := terminal(n, last-1, token.RPAREN); err != nil {
		return nil, err
	}

	decl, err := t.passThrough(n.Child(0), parser.TagDeclarator)
	if err != nil {
		return nil, err
	}
	out := tree.NewLabel(LabelFunctionDef, decl)
	if n.Len() == 5 {
		params, err := t.visit(n.Child(2), parser.TagParamList)
		if err != nil {
			return nil, err
		}
		out.Add(params)
	}
	body, err := t.visit(n.Child(last), parser.TagCompoundStmt)
	if err != nil {
		return nil, err
	}
	return out.Add(body), nil
}

func (t *Transformer) paramList(n *tree.Node) (*tree.Node, error) {
	params, err := t.foldEach(n, token.COMMA, parser.TagParamDecl)
	if err != nil {
		return nil, err
	}
	return tree.NewLabel(LabelParamList, params...), nil
}

// paramDecl passes the (type, declarator) pair through unchanged.
func (t *Transformer) paramDecl(n *tree.Node) (*tree.Node, error) {
	if err := arity(n, 1, 2); err != nil {
		return nil, err
	}
	spec, err := t.passThrough(n.Child(0), parser.TagTypeSpecifier)
	if err != nil {
		return nil, err
	}
	out := tree.NewLabel(LabelParamDecl, spec)
	if n.Len() == 2 {
		decl, err := t.passThrough(n.Child(1), parser.TagDeclarator)
		if err != nil {
			return nil, err
		}
		out.Add(decl)
	}
	return out, nil
}

func (t *Transformer) initDeclList(n *tree.Node) (*tree.Node, error) {
	entries, err := t.foldEach(n, token.COMMA, parser.TagInitDeclarator)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, diag.Structuralf(n.Label(), n.Pos(), "empty declarator list")
	}
	return tree.NewLabel(LabelInitDeclList, entries...), nil
}

// initDeclarator returns the bare declarator, or folds
// declarator "=" initializer like a plain assignment.
func (t *Transformer) initDeclarator(n *tree.Node) (*tree.Node, error) {
	if err := arity(n, 1, 3); err != nil {
		return nil, err
	}
	decl, err := t.passThrough(n.Child(0), parser.TagDeclarator)
	if err != nil {
		return nil, err
	}
	if n.Len() == 1 {
		return decl, nil
	}
	if err := terminal(n, 1, token.ASSIGN); err != nil {
		return nil, err
	}
	value, err := t.visit(n.Child(2), parser.TagAssignmentExpr, parser.TagInitializerList)
	if err != nil {
		return nil, err
	}
	return assign(n.Child(1).Token(), decl, value), nil
}

// initializerList: ["{", expr ("," expr)* ","?, "}"].
func (t *Transformer) initializerList(n *tree.Node) (*tree.Node, error) {
	last := n.Len() - 1
	if err := terminal(n, 0, token.LBRACE); err != nil {
		return nil, err
	}
	if err := terminal(n, last, token.RBRACE); err != nil {
		return nil, err
	}
	out := tree.NewLabel(LabelInitializerList)
	expectValue := true
	for _, c := range n.Children()[1:last] {
		if expectValue {
			v, err := t.visit(c, parser.TagAssignmentExpr)
			if err != nil {
				return nil, err
			}
			out.Add(v)
		} else if !c.IsToken(token.COMMA) {
			return nil, diag.Structuralf(n.Label(), c.Pos(), "expected \",\" between initializers, got %q", c.Display())
		}
		expectValue = !expectValue
	}
	return out, nil
}

func (t *Transformer) declarationList(n *tree.Node) (*tree.Node, error) {
	decls, err := t.foldEach(n, token.EOF, parser.TagDeclaration)
	if err != nil {
		return nil, err
	}
	return tree.NewLabel(LabelDeclarationList, decls...), nil
}

// declaration: [type specifier, init declarator list, ";"].
func (t *Transformer) declaration(n *tree.Node) (*tree.Node, error) {
	if err := arity(n, 3); err != nil {
		return nil, err
	}
	if err := terminal(n, 2, token.SEMICOLON); err != nil {
		return nil, err
	}
	spec, err := t.passThrough(n.Child(0), parser.TagTypeSpecifier)
	if err != nil {
		return nil, err
	}
	list, err := t.visit(n.Child(1), parser.TagInitDeclList)
	if err != nil {
		return nil, err
	}
	return tree.NewLabel(LabelDeclaration, spec, list), nil
}
