package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"gocst/pkg/graph"
)

var (
	graphConcrete bool
	graphOutput   string
)

var dotCmd = &cobra.Command{
	Use:   "dot FILE",
	Short: "Export a tree as a Graphviz digraph",
	Long: `Writes the AST of FILE (or its parse tree with --cst) in DOT format.
Vertex identifiers are stable across runs for the same tree shape.

Examples:
  castdump dot main.c | dot -Tsvg > main.svg
  castdump dot --cst -o main.cst.dot main.c`,
	Args: cobra.ExactArgs(1),
	RunE: runDOT,
}

var pngCmd = &cobra.Command{
	Use:   "png FILE",
	Short: "Render a tree to a PNG image",
	Long: `Draws the AST of FILE (or its parse tree with --cst) as a PNG image.
Without -o the image is written next to FILE with a .png extension.`,
	Args: cobra.ExactArgs(1),
	RunE: runPNG,
}

func init() {
	rootCmd.AddCommand(dotCmd)
	rootCmd.AddCommand(pngCmd)

	for _, c := range []*cobra.Command{dotCmd, pngCmd} {
		c.Flags().BoolVar(&graphConcrete, "cst", false, "use the parse tree instead of the AST")
		c.Flags().StringVarP(&graphOutput, "output", "o", "", "output file")
	}
}

func runDOT(cmd *cobra.Command, args []string) error {
	root, err := loadTree(args[0], graphConcrete)
	if err != nil {
		return err
	}

	name := "ast"
	if graphConcrete {
		name = "cst"
	}
	g := graph.Export(root)

	if graphOutput == "" {
		return g.WriteDOT(cmd.OutOrStdout(), name)
	}
	f, err := os.Create(graphOutput)
	if err != nil {
		return err
	}
	if err := g.WriteDOT(f, name); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runPNG(cmd *cobra.Command, args []string) error {
	root, err := loadTree(args[0], graphConcrete)
	if err != nil {
		return err
	}
	out := graphOutput
	if out == "" {
		out = pngName(args[0], graphConcrete)
	}
	if err := graph.SavePNG(out, root); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
	return nil
}

// pngName derives main.png or main.cst.png from main.c.
func pngName(src string, concrete bool) string {
	base := strings.TrimSuffix(src, filepath.Ext(src))
	if concrete {
		return base + ".cst.png"
	}
	return base + ".png"
}
