package tree

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"gocst/pkg/token"
)

// yamlNode is the YAML document shape of a Node. A node is either labelled
// (label set) or a terminal (token and text set); ref leaves name their target.
type yamlNode struct {
	Label    string  `yaml:"label,omitempty"`
	Token    string  `yaml:"token,omitempty"`
	Text     string  `yaml:"text,omitempty"`
	Pos      string  `yaml:"pos,omitempty"`
	Ref      string  `yaml:"ref,omitempty"`
	Children []*Node `yaml:"children,omitempty"`
}

// MarshalYAML implements yaml.Marshaler.
func (n *Node) MarshalYAML() (interface{}, error) {
	out := yamlNode{Children: n.children}
	switch {
	case n.ref != nil:
		out.Label = RefLabel
		out.Ref = n.ref.String()
	case n.sym.terminal:
		out.Token = n.sym.tok.Type.String()
		out.Text = n.sym.tok.Lexeme
		if n.sym.tok.Pos.IsValid() {
			out.Pos = n.sym.tok.Pos.String()
		}
	default:
		out.Label = n.sym.label
	}
	return out, nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Ref leaves cannot be decoded
// since their target identity is not part of the document.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	var in yamlNode
	if err := value.Decode(&in); err != nil {
		return err
	}
	if in.Ref != "" {
		return fmt.Errorf("line %d: ref nodes cannot be decoded", value.Line)
	}
	switch {
	case in.Token != "":
		tt, ok := token.TypeByName(in.Token)
		if !ok {
			return fmt.Errorf("line %d: unknown token type %q", value.Line, in.Token)
		}
		tok := token.Token{Type: tt, Lexeme: in.Text}
		if in.Pos != "" {
			if _, err := fmt.Sscanf(in.Pos, "%d:%d", &tok.Pos.Line, &tok.Pos.Col); err != nil {
				return fmt.Errorf("line %d: bad position %q: %w", value.Line, in.Pos, err)
			}
		}
		n.sym = Terminal(tok)
	case in.Label != "":
		n.sym = Label(in.Label)
	default:
		return fmt.Errorf("line %d: node needs a label or a token", value.Line)
	}
	n.children = nil
	n.Add(in.Children...)
	return nil
}
