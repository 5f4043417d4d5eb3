package ast

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"gocst/pkg/diag"
	"gocst/pkg/lexer"
	"gocst/pkg/parser"
	"gocst/pkg/token"
	"gocst/pkg/tree"
)

func parseCST(t *testing.T, src string) *tree.Node {
	t.Helper()
	toks, err := lexer.Lex(src)
	require.NoError(t, err)
	cst, err := parser.Parse(toks, src)
	require.NoError(t, err)
	return cst
}

func build(t *testing.T, src string, opts ...Option) (*tree.Node, error) {
	t.Helper()
	return Transform(parseCST(t, src), opts...)
}

// firstStatement transforms body inside a function and returns the first
// statement of the function's statement list.
func firstStatement(t *testing.T, body string) *tree.Node {
	t.Helper()
	root, err := build(t, "void f() { "+body+" }")
	require.NoError(t, err)
	fn := root.Child(0).Child(1)
	require.True(t, fn.Is(LabelFunctionDef), fn.String())
	stmts := fn.Child(fn.Len() - 1).Child(0)
	require.True(t, stmts.Is(LabelStatementList), stmts.String())
	require.Equal(t, 1, stmts.Len())
	return stmts.Child(0)
}

func loadFixture(t *testing.T, name string, into any) {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, into))
}

func TestStatementsYAML(t *testing.T) {
	var file struct {
		Tests []struct {
			Name string `yaml:"name"`
			Body string `yaml:"body"`
			Want string `yaml:"want"`
		} `yaml:"tests"`
	}
	loadFixture(t, "statements.yaml", &file)
	require.NotEmpty(t, file.Tests)

	for _, tt := range file.Tests {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Equal(t, tt.Want, firstStatement(t, tt.Body).String())
		})
	}
}

func TestProgramsYAML(t *testing.T) {
	var file struct {
		Tests []struct {
			Name   string `yaml:"name"`
			Source string `yaml:"source"`
			Want   string `yaml:"want"`
		} `yaml:"tests"`
	}
	loadFixture(t, "programs.yaml", &file)
	require.NotEmpty(t, file.Tests)

	for _, tt := range file.Tests {
		t.Run(tt.Name, func(t *testing.T) {
			root, err := build(t, tt.Source)
			require.NoError(t, err)
			assert.Equal(t, tt.Want, root.String())
		})
	}
}

func TestMalformedYAML(t *testing.T) {
	var file struct {
		Tests []struct {
			Name string    `yaml:"name"`
			Tag  string    `yaml:"tag"`
			Rule string    `yaml:"rule"`
			CST  tree.Node `yaml:"cst"`
		} `yaml:"tests"`
	}
	loadFixture(t, "malformed.yaml", &file)
	require.NotEmpty(t, file.Tests)

	for _, tt := range file.Tests {
		t.Run(tt.Name, func(t *testing.T) {
			out, err := New().visit(&tt.CST, tt.Tag)
			assert.Nil(t, out)
			var se *diag.StructuralError
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.Equal(t, tt.Rule, se.Rule)
		})
	}
}

func TestLeftFoldEveryLevel(t *testing.T) {
	ops := []string{"||", "&&", "|", "^", "&", "==", "!=", "<", ">", "<=", ">=", "<<", ">>", "+", "-", "*", "/", "%"}
	for _, op := range ops {
		for n := 1; n <= 4; n++ {
			t.Run(fmt.Sprintf("%s x%d", op, n), func(t *testing.T) {
				src := "e0"
				want := "e0"
				for i := 1; i <= n; i++ {
					src += fmt.Sprintf(" %s e%d", op, i)
					want = fmt.Sprintf("(%s %s e%d)", op, want, i)
				}
				stmt := firstStatement(t, src+";")
				assert.Equal(t, "(<expression statement> "+want+")", stmt.String())
			})
		}
	}
}

func TestCompoundAssignmentSharesTarget(t *testing.T) {
	for _, op := range []string{"+=", "-=", "*=", "/=", "%=", "<<=", ">>=", "&=", "^=", "|="} {
		t.Run(op, func(t *testing.T) {
			stmt := firstStatement(t, "a[i++] "+op+" b;")
			eq := stmt.Child(0)
			require.True(t, eq.IsToken(token.ASSIGN))
			require.Equal(t, 2, eq.Len())

			target := eq.Child(0)
			bin := eq.Child(1)
			assert.Equal(t, strings.TrimSuffix(op, "="), bin.Value())
			ref := bin.Child(0)
			require.True(t, ref.IsRef())
			assert.Same(t, target, ref.Target())
			assert.Equal(t, "b", bin.Child(1).Value())

			// the side-effecting index appears once
			count := 0
			stmt.Walk(func(n *tree.Node, _ int) bool {
				if n.Is(LabelPostInc) {
					count++
				}
				return true
			})
			assert.Equal(t, 1, count)

			// synthesized tokens sit on the compound operator
			assert.Equal(t, token.Pos{Line: 1, Col: 19}, eq.Token().Pos)
			assert.Equal(t, eq.Token().Pos, bin.Token().Pos)
		})
	}
}

func TestIfArity(t *testing.T) {
	without := firstStatement(t, "if (a) b;")
	withEmpty := firstStatement(t, "if (a) b; else ;")
	assert.Equal(t, 2, without.Len())
	assert.Equal(t, 3, withEmpty.Len())
	assert.False(t, tree.Equal(without, withEmpty))
}

func TestPrefixIncrementOperand(t *testing.T) {
	tests := []struct {
		body string
		col  int
	}{
		{"++-x;", 14},
		{"++!x;", 14},
		{"--+x;", 14},
		{"++ ++x;", 15},
		{"--&x;", 14},
		{"++sizeof x;", 14},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			root, err := build(t, "void f() { "+tt.body+" }")
			assert.Nil(t, root)
			var se *diag.SemanticError
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.Equal(t, parser.TagUnaryExpr, se.Rule)
			assert.Equal(t, token.Pos{Line: 1, Col: tt.col}, se.Pos)
			assert.Contains(t, se.Msg, "requires a unary postfix operand")
		})
	}
}

func TestRootMustBeTranslationUnit(t *testing.T) {
	cst := parseCST(t, "int x;")
	for _, bad := range []*tree.Node{
		nil,
		cst.Child(0),
		tree.NewTerminal(token.Token{Type: token.IDENTIFIER, Lexeme: "translation Unit"}),
	} {
		out, err := Transform(bad)
		assert.Nil(t, out)
		var se *diag.StructuralError
		require.True(t, errors.As(err, &se), "got %v", err)
		assert.Equal(t, parser.TagTranslationUnit, se.Rule)
	}
}

func TestProductionWithoutRule(t *testing.T) {
	for _, tag := range []string{parser.TagTypeName, parser.TagDeclarator, parser.TagArgumentExprList} {
		t.Run(tag, func(t *testing.T) {
			n := tree.NewLabel(tag, tree.NewTerminal(token.Token{Type: token.INT, Lexeme: "int"}))
			out, err := New().visit(n, tag)
			assert.Nil(t, out)
			var se *diag.StructuralError
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.Equal(t, tag, se.Rule)
			assert.Contains(t, se.Msg, "no rule")
		})
	}
}

func TestCSTIsNotModified(t *testing.T) {
	src := "int g; int f(int a) { int b = a; b *= 2; if (b) return b; else { b--; } return -b; }"
	cst := parseCST(t, src)
	before := cst.String()

	tr := New()
	first, err := tr.Transform(cst)
	require.NoError(t, err)
	second, err := tr.Transform(cst)
	require.NoError(t, err)

	assert.Equal(t, before, cst.String())
	assert.True(t, tree.Equal(first, second))
	assert.NotSame(t, first, second)
}

func TestTreesAreDisjoint(t *testing.T) {
	cst := parseCST(t, "struct s *p; int f(char c) { int x = 1; x += c; return x; }")
	ast, err := Transform(cst)
	require.NoError(t, err)

	seen := map[*tree.Node]int{}
	ast.Walk(func(n *tree.Node, _ int) bool {
		seen[n]++
		return true
	})
	for n, count := range seen {
		assert.Equal(t, 1, count, "node %s has several parents", n.Display())
	}
	cst.Walk(func(n *tree.Node, _ int) bool {
		_, shared := seen[n]
		assert.False(t, shared, "CST node %s reused in AST", n.Display())
		return true
	})
}

func TestMaxDepth(t *testing.T) {
	root, err := build(t, "int x = 1;", WithMaxDepth(4))
	assert.Nil(t, root)
	var se *diag.StructuralError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Msg, "nesting deeper than 4 levels")

	_, err = build(t, "int x = 1;")
	assert.NoError(t, err)
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := build(t, "int x;", WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "apply rule")
	assert.Contains(t, buf.String(), `rule="translation Unit"`)

	buf.Reset()
	quiet := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	_, err = build(t, "int x;", WithLogger(quiet))
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
