// Package tree holds the single node type shared by concrete parse trees and
// abstract syntax trees.
//
// A Node carries a Symbol and an ordered list of children. A Symbol is either
// a Label (a production name or an AST construct tag such as "if then else")
// or a Terminal wrapping a lexical token. The case is fixed when the symbol is
// built and is queried with IsTerminal, never by type assertion.
//
//	(<if then else> a b c)
//	 ^ Label          ^ Terminal children
package tree

import (
	"strconv"
	"strings"

	"gocst/pkg/token"
)

// Symbol is the tag of a Node: a Label or a Terminal token.
type Symbol struct {
	terminal bool
	label    string
	tok      token.Token
}

// Label returns a nonterminal symbol.
func Label(s string) Symbol { return Symbol{label: s} }

// Terminal returns a symbol wrapping tok.
func Terminal(tok token.Token) Symbol { return Symbol{terminal: true, tok: tok} }

func (s Symbol) IsTerminal() bool { return s.terminal }

// Label returns the label, or "" for terminals.
func (s Symbol) Label() string {
	if s.terminal {
		return ""
	}
	return s.label
}

// Token returns the wrapped token; ok is false for labels.
func (s Symbol) Token() (tok token.Token, ok bool) {
	return s.tok, s.terminal
}

// Text is the label for nonterminals and the literal source text for terminals.
func (s Symbol) Text() string {
	if !s.terminal {
		return s.label
	}
	if s.tok.Type == token.STRING {
		return strconv.Quote(s.tok.Lexeme)
	}
	return s.tok.Lexeme
}

// RefLabel tags back-reference leaves built by NewRef.
const RefLabel = "ref"

// Node is an element of a CST or AST. A parent owns its children exclusively.
type Node struct {
	sym      Symbol
	children []*Node
	ref      *Node
}

// New builds a node with the given symbol and children.
func New(sym Symbol, children ...*Node) *Node {
	n := &Node{sym: sym}
	n.Add(children...)
	return n
}

// NewLabel builds a nonterminal node.
func NewLabel(label string, children ...*Node) *Node {
	return New(Label(label), children...)
}

// NewTerminal builds a node tagged by tok.
func NewTerminal(tok token.Token, children ...*Node) *Node {
	return New(Terminal(tok), children...)
}

// NewRef builds a leaf that refers to target without owning it. Walks and
// graph exports treat it as a leaf; Target gives access to the referenced
// subtree.
func NewRef(target *Node) *Node {
	return &Node{sym: Label(RefLabel), ref: target}
}

func (n *Node) Symbol() Symbol { return n.sym }

// Add appends children in order, skipping nil entries, and returns n.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.children = append(n.children, c)
		}
	}
	return n
}

// Children returns the child list. The slice is owned by n and must not be
// modified by the caller.
func (n *Node) Children() []*Node { return n.children }

// Child returns the i-th child or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *Node) Len() int { return len(n.children) }

func (n *Node) IsTerminal() bool { return n.sym.terminal }

// Is reports whether n is a nonterminal with the given label.
func (n *Node) Is(label string) bool {
	return n != nil && !n.sym.terminal && n.sym.label == label
}

// IsToken reports whether n is a terminal of type tt.
func (n *Node) IsToken(tt token.TokenType) bool {
	return n != nil && n.sym.terminal && n.sym.tok.Type == tt
}

// Label returns the nonterminal label, or "" for terminals.
func (n *Node) Label() string { return n.sym.Label() }

// Token returns the wrapped token (the zero Token for labels).
func (n *Node) Token() token.Token { return n.sym.tok }

// Value returns the literal text of a terminal, or "" for labels.
func (n *Node) Value() string {
	if !n.sym.terminal {
		return ""
	}
	return n.sym.tok.Lexeme
}

// Display is the text shown for n in dumps and graphs.
func (n *Node) Display() string { return n.sym.Text() }

// IsRef reports whether n is a back-reference leaf.
func (n *Node) IsRef() bool { return n.ref != nil }

// Target returns the node referred to by a ref leaf, or nil.
func (n *Node) Target() *Node { return n.ref }

// Pos returns the position of the first token in n's subtree, or the zero
// Pos when the subtree has no terminals.
func (n *Node) Pos() token.Pos {
	if n.sym.terminal && n.sym.tok.Pos.IsValid() {
		return n.sym.tok.Pos
	}
	if n.ref != nil {
		return n.ref.Pos()
	}
	for _, c := range n.children {
		if p := c.Pos(); p.IsValid() {
			return p
		}
	}
	return token.Pos{}
}

// Walk visits n and its descendants depth-first in child order. Returning
// false from fn skips the children of the visited node. Ref targets are not
// descended into.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		c.walk(fn, depth+1)
	}
}

// Clone returns a deep copy of n. Refs whose target lies inside the copied
// subtree are redirected to the corresponding copy; other refs keep their
// original target.
func (n *Node) Clone() *Node {
	copies := make(map[*Node]*Node)
	c := n.clone(copies)
	for _, cp := range copies {
		if cp.ref != nil {
			if moved, ok := copies[cp.ref]; ok {
				cp.ref = moved
			}
		}
	}
	return c
}

func (n *Node) clone(copies map[*Node]*Node) *Node {
	c := &Node{sym: n.sym, ref: n.ref}
	if len(n.children) > 0 {
		c.children = make([]*Node, len(n.children))
		for i, child := range n.children {
			c.children[i] = child.clone(copies)
		}
	}
	copies[n] = c
	return c
}

// String renders n as an s-expression. Labels are written in angle brackets,
// terminals as their source text and refs as (ref <target>).
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	if n.ref != nil {
		sb.WriteString("(ref ")
		n.ref.write(sb)
		sb.WriteByte(')')
		return
	}
	head := n.Display()
	if !n.sym.terminal {
		head = "<" + head + ">"
	}
	if len(n.children) == 0 {
		sb.WriteString(head)
		return
	}
	sb.WriteByte('(')
	sb.WriteString(head)
	for _, c := range n.children {
		sb.WriteByte(' ')
		c.write(sb)
	}
	sb.WriteByte(')')
}

// Equal reports whether a and b have the same shape: same labels, same token
// types and lexemes, same children in order and structurally equal ref
// targets. Source positions are ignored.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.sym.terminal != b.sym.terminal || len(a.children) != len(b.children) {
		return false
	}
	if a.sym.terminal {
		if a.sym.tok.Type != b.sym.tok.Type || a.sym.tok.Lexeme != b.sym.tok.Lexeme {
			return false
		}
	} else if a.sym.label != b.sym.label {
		return false
	}
	if (a.ref == nil) != (b.ref == nil) {
		return false
	}
	if a.ref != nil && !Equal(a.ref, b.ref) {
		return false
	}
	for i := range a.children {
		if !Equal(a.children[i], b.children[i]) {
			return false
		}
	}
	return true
}
