// Package render prints trees for terminals and files.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/disiqueira/gotree"
	"gopkg.in/yaml.v3"

	"gocst/pkg/tree"
)

// Output formats accepted by Write.
const (
	FormatTree  = "tree"
	FormatSExpr = "sexpr"
	FormatYAML  = "yaml"
)

var Formats = []string{FormatTree, FormatSExpr, FormatYAML}

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8B5CF6")).Bold(true)
	tokenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	refStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Italic(true)
)

// Text draws root as an indented box-drawing tree. With color set, labels,
// tokens and refs are styled differently.
func Text(root *tree.Node, color bool) string {
	if root == nil {
		return ""
	}
	return build(root, color).Print()
}

func build(n *tree.Node, color bool) gotree.Tree {
	t := gotree.New(caption(n, color))
	for _, c := range n.Children() {
		t.AddTree(build(c, color))
	}
	return t
}

func caption(n *tree.Node, color bool) string {
	switch {
	case n.IsRef():
		if color {
			return refStyle.Render(n.String())
		}
		return n.String()
	case n.IsTerminal():
		text := n.Display()
		if color {
			text = tokenStyle.Render(text)
		}
		return text + " " + n.Token().Type.String()
	}
	if color {
		return labelStyle.Render(n.Label())
	}
	return "<" + n.Label() + ">"
}

// Write prints root to w in the given format.
func Write(w io.Writer, root *tree.Node, format string, color bool) error {
	switch format {
	case FormatTree, "":
		_, err := io.WriteString(w, Text(root, color))
		return err
	case FormatSExpr:
		_, err := fmt.Fprintln(w, root.String())
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(root); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
}
