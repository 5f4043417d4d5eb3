// Package ast turns the concrete parse tree built by package parser into an
// abstract syntax tree.
//
// The CST is only read, never modified: every AST node is freshly built and
// pass-through subtrees (type specifiers, declarators, identifiers, literals)
// are deep copies. One CST can therefore be transformed any number of times.
//
// Rules are looked up by production tag. Each rule checks the exact shape of
// the production it is given and fails with a *diag.StructuralError when the
// shape is wrong; language rules broken by a well-formed tree fail with a
// *diag.SemanticError. A failed transform never returns a partial tree.
package ast

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"gocst/pkg/diag"
	"gocst/pkg/parser"
	"gocst/pkg/token"
	"gocst/pkg/tree"
)

// Labels of the AST constructs. Operators are Terminal nodes tagged by their
// token instead.
const (
	LabelSourceRoot      = "source root"
	LabelExternalDecl    = "external declaration"
	LabelFunctionDef     = "function definition"
	LabelParamList       = "param list"
	LabelParamDecl       = "param decl"
	LabelInitDeclList    = "init declarator list"
	LabelInitializerList = "initializer list"
	LabelDeclarationList = "declaration list"
	LabelDeclaration     = "declaration"
	LabelCompound        = "compound statement"
	LabelStatementList   = "statement list"
	LabelCase            = "case"
	LabelDefault         = "default"
	LabelLabel           = "label"
	LabelExprStmt        = "expression statement"
	LabelIf              = "if then else"
	LabelSwitch          = "switch"
	LabelDoWhile         = "do while"
	LabelWhile           = "while do"
	LabelFor             = "for"
	LabelEmpty           = "empty"
	LabelConditional     = "?:"
	LabelCast            = "cast"
	LabelSizeof          = "sizeof"
	LabelIndex           = "[]"
	LabelCall            = "call"
	LabelPostInc         = "post ++"
	LabelPostDec         = "post --"
	LabelSequence        = "sequence"
)

// DefaultMaxDepth bounds how many rules may be active at once.
const DefaultMaxDepth = 10000

type rule func(t *Transformer, n *tree.Node) (*tree.Node, error)

var rules map[string]rule

func init() {
	rules = map[string]rule{
		parser.TagTranslationUnit: (*Transformer).translationUnit,
		parser.TagExternalDecl:    (*Transformer).externalDecl,
		parser.TagFunctionDef:     (*Transformer).functionDef,
		parser.TagParamList:       (*Transformer).paramList,
		parser.TagParamDecl:       (*Transformer).paramDecl,
		parser.TagInitDeclList:    (*Transformer).initDeclList,
		parser.TagInitDeclarator:  (*Transformer).initDeclarator,
		parser.TagInitializerList: (*Transformer).initializerList,
		parser.TagDeclarationList: (*Transformer).declarationList,
		parser.TagDeclaration:     (*Transformer).declaration,

		parser.TagCompoundStmt:   (*Transformer).compound,
		parser.TagStatementList:  (*Transformer).statementList,
		parser.TagStatement:      (*Transformer).statement,
		parser.TagLabeledStmt:    (*Transformer).labeled,
		parser.TagExpressionStmt: (*Transformer).expressionStmt,
		parser.TagSelectionStmt:  (*Transformer).selection,
		parser.TagIterationStmt:  (*Transformer).iteration,
		parser.TagJumpStmt:       (*Transformer).jump,

		parser.TagExpression:      (*Transformer).expression,
		parser.TagAssignmentExpr:  (*Transformer).assignment,
		parser.TagConditionalExpr: (*Transformer).conditional,
		parser.TagCastExpr:        (*Transformer).cast,
		parser.TagUnaryExpr:       (*Transformer).unary,
		parser.TagPostfixExpr:     (*Transformer).postfix,
		parser.TagPrimaryExpr:     (*Transformer).primary,
	}
	for i, lv := range binaryLevels {
		next := parser.TagCastExpr
		if i+1 < len(binaryLevels) {
			next = binaryLevels[i+1]
		}
		rules[lv] = foldLeft(next)
	}
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithLogger makes the transformer trace every rule at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(t *Transformer) {
		if l != nil {
			t.log = l
		}
	}
}

// WithMaxDepth sets the nesting limit. Values below 1 keep the default.
func WithMaxDepth(n int) Option {
	return func(t *Transformer) {
		if n > 0 {
			t.maxDepth = n
		}
	}
}

// Transformer holds the settings of a transform run. It is not safe for
// concurrent use; build one per goroutine.
type Transformer struct {
	log      *slog.Logger
	maxDepth int
	depth    int
}

func New(opts ...Option) *Transformer {
	t := &Transformer{
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform converts a CST rooted at a translation unit into an AST rooted at
// a source root node.
func Transform(root *tree.Node, opts ...Option) (*tree.Node, error) {
	return New(opts...).Transform(root)
}

// Transform converts root. On error the returned node is nil.
func (t *Transformer) Transform(root *tree.Node) (*tree.Node, error) {
	t.depth = 0
	out, err := t.visit(root, parser.TagTranslationUnit)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// visit checks that n is one of the wanted productions and applies its rule.
func (t *Transformer) visit(n *tree.Node, want ...string) (*tree.Node, error) {
	if err := t.check(n, want...); err != nil {
		return nil, err
	}
	t.depth++
	defer func() { t.depth-- }()
	if t.depth > t.maxDepth {
		return nil, diag.Structuralf(n.Label(), n.Pos(), "nesting deeper than %d levels", t.maxDepth)
	}
	if t.log.Enabled(context.Background(), slog.LevelDebug) {
		t.log.Debug("apply rule", "rule", n.Label(), "pos", n.Pos().String(), "depth", t.depth)
	}
	r, ok := rules[n.Label()]
	if !ok {
		return nil, diag.Structuralf(n.Label(), n.Pos(), "no rule for production %q", n.Label())
	}
	return r(t, n)
}

// check reports a StructuralError unless n is a nonterminal tagged with one
// of the wanted productions.
func (t *Transformer) check(n *tree.Node, want ...string) error {
	rule := strings.Join(want, " | ")
	if n == nil {
		return diag.Structuralf(rule, token.Pos{}, "missing node")
	}
	for _, w := range want {
		if n.Is(w) {
			return nil
		}
	}
	return diag.Structuralf(rule, n.Pos(), "expected %s, got %q", quoteAll(want), n.Display())
}

func quoteAll(ss []string) string {
	q := make([]string, len(ss))
	for i, s := range ss {
		q[i] = `"` + s + `"`
	}
	return strings.Join(q, " or ")
}

// arity fails unless n has one of the given child counts.
func arity(n *tree.Node, counts ...int) error {
	for _, c := range counts {
		if n.Len() == c {
			return nil
		}
	}
	return diag.Structuralf(n.Label(), n.Pos(), "unexpected child count %d", n.Len())
}

// terminal fails unless child i of n is a token of type tt.
func terminal(n *tree.Node, i int, tt token.TokenType) error {
	c := n.Child(i)
	if c.IsToken(tt) {
		return nil
	}
	got := "nothing"
	if c != nil {
		got = `"` + c.Display() + `"`
	}
	return diag.Structuralf(n.Label(), n.Pos(), "child %d: expected %s, got %s", i, tt, got)
}

// passThrough deep-copies a subtree whose tag must be one of want.
func (t *Transformer) passThrough(n *tree.Node, want ...string) (*tree.Node, error) {
	if err := t.check(n, want...); err != nil {
		return nil, err
	}
	return n.Clone(), nil
}

// foldEach visits every nonterminal child of n as one of want and collects
// the results, skipping separator tokens.
func (t *Transformer) foldEach(n *tree.Node, sep token.TokenType, want ...string) ([]*tree.Node, error) {
	var out []*tree.Node
	for i, c := range n.Children() {
		if c.IsTerminal() {
			if c.IsToken(sep) && i > 0 && i < n.Len()-1 {
				continue
			}
			return nil, diag.Structuralf(n.Label(), c.Pos(), "unexpected token %q", c.Display())
		}
		res, err := t.visit(c, want...)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}
