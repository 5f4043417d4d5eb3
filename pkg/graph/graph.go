// Package graph exports a tree as a labelled directed graph: one vertex per
// node, one edge per parent to child link. Vertex IDs are name-based UUIDs
// derived from the child-index path, so exporting the same tree twice yields
// the same graph.
package graph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"gocst/pkg/tree"
)

// Namespace seeds the vertex IDs.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("gocst/graph"))

type Vertex struct {
	ID       uuid.UUID
	Path     string // child indexes from the root, "" for the root itself
	Label    string
	Terminal bool
	Ref      bool
	Depth    int
}

type Edge struct {
	From, To uuid.UUID
}

type Graph struct {
	Vertices []Vertex
	Edges    []Edge
}

// Export walks root depth first. Ref leaves become ordinary vertices labelled
// "ref"; no edge leads to their target.
func Export(root *tree.Node) *Graph {
	g := &Graph{}
	if root == nil {
		return g
	}
	g.add(root, "", 0)
	return g
}

func (g *Graph) add(n *tree.Node, path string, depth int) uuid.UUID {
	id := vertexID(path)
	g.Vertices = append(g.Vertices, Vertex{
		ID:       id,
		Path:     path,
		Label:    n.Display(),
		Terminal: n.IsTerminal(),
		Ref:      n.IsRef(),
		Depth:    depth,
	})
	for i, c := range n.Children() {
		childPath := strconv.Itoa(i)
		if path != "" {
			childPath = path + "/" + childPath
		}
		g.Edges = append(g.Edges, Edge{From: id, To: vertexID(childPath)})
		g.add(c, childPath, depth+1)
	}
	return id
}

func vertexID(path string) uuid.UUID {
	return uuid.NewSHA1(Namespace, []byte("/"+path))
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// WriteDOT writes g in Graphviz DOT syntax. Terminals are drawn as ellipses,
// labels as boxes.
func (g *Graph) WriteDOT(w io.Writer, name string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "digraph %q {\n", name)
	fmt.Fprintln(bw, `  node [fontname="monospace"];`)
	for _, v := range g.Vertices {
		shape := "box"
		switch {
		case v.Ref:
			shape = "diamond"
		case v.Terminal:
			shape = "ellipse"
		}
		fmt.Fprintf(bw, "  \"%s\" [label=\"%s\", shape=%s];\n", v.ID, dotEscaper.Replace(v.Label), shape)
	}
	for _, e := range g.Edges {
		fmt.Fprintf(bw, "  \"%s\" -> \"%s\";\n", e.From, e.To)
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
