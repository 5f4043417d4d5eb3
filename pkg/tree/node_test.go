package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"gocst/pkg/token"
)

func ident(name string, line, col int) *Node {
	return NewTerminal(token.Token{Type: token.IDENTIFIER, Lexeme: name, Pos: token.Pos{Line: line, Col: col}})
}

func TestSymbolCases(t *testing.T) {
	l := Label("compound statement")
	assert.False(t, l.IsTerminal())
	assert.Equal(t, "compound statement", l.Label())
	_, ok := l.Token()
	assert.False(t, ok)

	term := Terminal(token.Token{Type: token.STRING, Lexeme: "hi\n"})
	assert.True(t, term.IsTerminal())
	assert.Equal(t, "", term.Label())
	assert.Equal(t, `"hi\n"`, term.Text())
	tok, ok := term.Token()
	assert.True(t, ok)
	assert.Equal(t, token.STRING, tok.Type)
}

func TestNodeAccessors(t *testing.T) {
	n := NewLabel("if then else", ident("a", 2, 5), nil, ident("b", 2, 8))
	assert.Equal(t, 2, n.Len(), "nil children are skipped")
	assert.True(t, n.Is("if then else"))
	assert.False(t, n.IsTerminal())
	assert.Equal(t, "a", n.Child(0).Value())
	assert.Nil(t, n.Child(2))
	assert.Nil(t, n.Child(-1))
	assert.True(t, n.Child(1).IsToken(token.IDENTIFIER))
	assert.Equal(t, token.Pos{Line: 2, Col: 5}, n.Pos())
	assert.Equal(t, "", n.Value())
}

func TestString(t *testing.T) {
	plus := NewTerminal(token.Token{Type: token.PLUS, Lexeme: "+"},
		NewTerminal(token.Token{Type: token.INTEGER, Lexeme: "1"}),
		NewTerminal(token.Token{Type: token.INTEGER, Lexeme: "2"}),
	)
	stmt := NewLabel("expression statement", plus)
	assert.Equal(t, "(<expression statement> (+ 1 2))", stmt.String())
	assert.Equal(t, "<empty>", NewLabel("empty").String())

	x := ident("x", 1, 1)
	assert.Equal(t, "(ref x)", NewRef(x).String())
}

func TestWalkSkipsRefTargets(t *testing.T) {
	x := ident("x", 1, 1)
	root := NewLabel("root", x, NewRef(x))

	var seen []string
	root.Walk(func(n *Node, depth int) bool {
		seen = append(seen, n.Display())
		return true
	})
	assert.Equal(t, []string{"root", "x", "ref"}, seen)

	seen = nil
	root.Walk(func(n *Node, depth int) bool {
		seen = append(seen, n.Display())
		return false
	})
	assert.Equal(t, []string{"root"}, seen)
}

func TestCloneIsDeepAndRemapsRefs(t *testing.T) {
	x := ident("x", 1, 1)
	orig := NewLabel("=", x, NewLabel("+", NewRef(x), ident("y", 1, 5)))

	c := orig.Clone()
	require.True(t, Equal(orig, c))
	assert.NotSame(t, orig, c)
	assert.NotSame(t, orig.Child(0), c.Child(0))

	ref := c.Child(1).Child(0)
	require.True(t, ref.IsRef())
	assert.Same(t, c.Child(0), ref.Target(), "ref must follow the cloned target")

	c.Add(ident("z", 9, 9))
	assert.Equal(t, 2, orig.Len(), "original untouched")
}

func TestEqual(t *testing.T) {
	a := NewLabel("s", ident("x", 1, 1))
	b := NewLabel("s", ident("x", 7, 3))
	assert.True(t, Equal(a, b), "positions are ignored")
	assert.False(t, Equal(a, NewLabel("s", ident("y", 1, 1))))
	assert.False(t, Equal(a, NewLabel("t", ident("x", 1, 1))))
	assert.False(t, Equal(a, NewLabel("s")))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(a, nil))
}

func TestYAMLRoundTrip(t *testing.T) {
	root := NewLabel("translation Unit",
		NewLabel("external declaration",
			NewLabel("type specifier", NewTerminal(token.Token{Type: token.INT, Lexeme: "int", Pos: token.Pos{Line: 1, Col: 1}})),
			ident("x", 1, 5),
		),
	)
	out, err := yaml.Marshal(root)
	require.NoError(t, err)
	assert.Contains(t, string(out), "label: translation Unit")
	assert.Contains(t, string(out), "token: IDENTIFIER")
	assert.Contains(t, string(out), "1:5")

	var back Node
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.True(t, Equal(root, &back))
	assert.Equal(t, token.Pos{Line: 1, Col: 5}, back.Child(0).Child(1).Token().Pos)
}

func TestYAMLDecodeErrors(t *testing.T) {
	var n Node
	assert.Error(t, yaml.Unmarshal([]byte("children: []\n"), &n))
	assert.Error(t, yaml.Unmarshal([]byte("token: BOGUS\ntext: x\n"), &n))
	assert.Error(t, yaml.Unmarshal([]byte("label: ref\nref: x\n"), &n))
}
