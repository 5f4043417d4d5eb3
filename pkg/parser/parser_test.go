package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocst/pkg/lexer"
	"gocst/pkg/tree"
)

func parse(t *testing.T, src string, opts ...Option) (*tree.Node, error) {
	t.Helper()
	toks, err := lexer.Lex(src)
	require.NoError(t, err)
	return Parse(toks, src, opts...)
}

// find returns the first node tagged label in depth-first order.
func find(root *tree.Node, label string) *tree.Node {
	var found *tree.Node
	root.Walk(func(n *tree.Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.Is(label) {
			found = n
			return false
		}
		return true
	})
	return found
}

func labels(n *tree.Node) []string {
	var out []string
	for _, c := range n.Children() {
		out = append(out, c.Display())
	}
	return out
}

func TestParseDeclaration(t *testing.T) {
	cst, err := parse(t, "int x;")
	require.NoError(t, err)
	assert.Equal(t,
		"(<translation Unit> (<external declaration> (<type specifier> int) (<init declarator list> (<init declarator> (<declarator> x))) ;))",
		cst.String())
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		tag   string
		want  []string
	}{
		{
			name:  "Function Definition",
			input: "int f(int a, char *b) { return a; }",
			tag:   TagFunctionDef,
			want:  []string{TagDeclarator, "(", TagParamList, ")", TagCompoundStmt},
		},
		{
			name:  "Parameterless Function",
			input: "void f() { }",
			tag:   TagFunctionDef,
			want:  []string{TagDeclarator, "(", ")", TagCompoundStmt},
		},
		{
			name:  "Prototype Is A Declaration",
			input: "int f(int);",
			tag:   TagExternalDecl,
			want:  []string{TagTypeSpecifier, TagInitDeclList, ";"},
		},
		{
			name:  "Prototype Declarator",
			input: "int f(int);",
			tag:   TagDeclarator,
			want:  []string{"f", "(", TagParamList, ")"},
		},
		{
			name:  "Array Declarator",
			input: "int a[10][];",
			tag:   TagDeclarator,
			want:  []string{"a", "[", "10", "]", "[", "]"},
		},
		{
			name:  "Struct Type",
			input: "struct point *p;",
			tag:   TagTypeSpecifier,
			want:  []string{"struct", "point"},
		},
		{
			name:  "Initializer List",
			input: "int a[2] = {1, 2,};",
			tag:   TagInitializerList,
			want:  []string{"{", TagAssignmentExpr, ",", TagAssignmentExpr, ",", "}"},
		},
		{
			name:  "Compound Assignment Chain",
			input: "void f() { a = b += 1; }",
			tag:   TagAssignmentExpr,
			want:  []string{TagUnaryExpr, "=", TagUnaryExpr, "+=", TagConditionalExpr},
		},
		{
			name:  "Flattened Additive",
			input: "void f() { a - b + c; }",
			tag:   TagAdditiveExpr,
			want:  []string{TagMultiplicativeExpr, "-", TagMultiplicativeExpr, "+", TagMultiplicativeExpr},
		},
		{
			name:  "Conditional",
			input: "void f() { a ? b : c; }",
			tag:   TagConditionalExpr,
			want:  []string{TagLogicalOrExpr, "?", TagExpression, ":", TagConditionalExpr},
		},
		{
			name:  "Cast",
			input: "void f() { (char *) p; }",
			tag:   TagCastExpr,
			want:  []string{"(", TagTypeName, ")", TagCastExpr},
		},
		{
			name:  "Sizeof Type",
			input: "void f() { sizeof(int); }",
			tag:   TagUnaryExpr,
			want:  []string{"sizeof", "(", TagTypeName, ")"},
		},
		{
			name:  "Postfix Chain",
			input: "void f() { a[1].b->c(x, y)++; }",
			tag:   TagPostfixExpr,
			want:  []string{TagPrimaryExpr, "[", TagExpression, "]", ".", "b", "->", "c", "(", TagArgumentExprList, ")", "++"},
		},
		{
			name:  "If Else",
			input: "void f() { if (a) b; else c; }",
			tag:   TagSelectionStmt,
			want:  []string{"if", "(", TagExpression, ")", TagStatement, "else", TagStatement},
		},
		{
			name:  "Empty For",
			input: "void f() { for (;;) ; }",
			tag:   TagIterationStmt,
			want:  []string{"for", "(", TagExpressionStmt, TagExpressionStmt, ")", TagStatement},
		},
		{
			name:  "Do While",
			input: "void f() { do x; while (c); }",
			tag:   TagIterationStmt,
			want:  []string{"do", TagStatement, "while", "(", TagExpression, ")", ";"},
		},
		{
			name:  "Goto Label",
			input: "void f() { out: goto out; }",
			tag:   TagLabeledStmt,
			want:  []string{"out", ":", TagStatement},
		},
		{
			name:  "Case",
			input: "void f() { switch (x) { case 1: break; default: ; } }",
			tag:   TagLabeledStmt,
			want:  []string{"case", TagConditionalExpr, ":", TagStatement},
		},
		{
			name:  "Block Declarations",
			input: "void f() { int a; char b; a = 1; }",
			tag:   TagCompoundStmt,
			want:  []string{"{", TagDeclarationList, TagStatementList, "}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cst, err := parse(t, tt.input)
			require.NoError(t, err)
			n := find(cst, tt.tag)
			require.NotNil(t, n, "no %q node", tt.tag)
			assert.Equal(t, tt.want, labels(n))
		})
	}
}

// TestParseErrors verifies that Parse rejects invalid inputs.
func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errMsg string
	}{
		{"Missing Semicolon", "int x", "expected SEMICOLON"},
		{"Missing Expression", "int x = ;", "unexpected SEMICOLON"},
		{"Not Assignable", "void f() { a + b = 1; }", "not assignable"},
		{"Conditional Target", "void f() { a ? b : c = 1; }", "not assignable"},
		{"Declaration After Statement", "void f() { x = 1; int y; }", "declaration after statement"},
		{"Missing Type", "x;", "expected type specifier"},
		{"Unclosed Block", "void f() { x;", "expected RBRACE"},
		{"Member Needs Name", "void f() { a.1; }", "expected IDENTIFIER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.input)
			require.Error(t, err)
			var syn *SyntaxError
			require.True(t, errors.As(err, &syn))
			assert.Contains(t, syn.Msg, tt.errMsg)
		})
	}
}

func TestSyntaxErrorSnippet(t *testing.T) {
	_, err := parse(t, "int a;\n  int x = ;\n")
	var syn *SyntaxError
	require.True(t, errors.As(err, &syn))
	assert.Equal(t, 2, syn.Pos.Line)
	assert.Equal(t, 11, syn.Pos.Col)
	assert.Equal(t, "int x = ;", syn.Snippet)
	assert.Contains(t, err.Error(), "|> int x = ;")
}

func TestMaxDepth(t *testing.T) {
	src := "int x = ((((1))));"
	_, err := parse(t, src, WithMaxDepth(3))
	var syn *SyntaxError
	require.True(t, errors.As(err, &syn))
	assert.Contains(t, syn.Msg, "nesting deeper than 3")

	_, err = parse(t, src)
	assert.NoError(t, err)
}

func TestAssignTarget(t *testing.T) {
	cst, err := parse(t, "void f() { *p = 1; }")
	require.NoError(t, err)
	assign := find(cst, TagAssignmentExpr)
	require.NotNil(t, assign)
	target := assign.Child(0)
	assert.True(t, target.Is(TagUnaryExpr))
	assert.Equal(t, "*", target.Child(0).Value())
}
