package cmd

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"gocst/pkg/frontend"
	"gocst/pkg/lexer"
	"gocst/pkg/render"
	"gocst/pkg/tree"
	"gocst/pkg/utils"
)

var format string

var tokensCmd = &cobra.Command{
	Use:   "tokens FILE",
	Short: "Print the token stream",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

var cstCmd = &cobra.Command{
	Use:   "cst FILE",
	Short: "Print the concrete parse tree",
	Long: `Parses FILE and prints the parse tree exactly as the grammar builds it.

Examples:
  castdump cst main.c
  castdump cst --format sexpr main.c`,
	Args: cobra.ExactArgs(1),
	RunE: runCST,
}

var astCmd = &cobra.Command{
	Use:   "ast FILE",
	Short: "Print the abstract syntax tree",
	Long: `Parses FILE, transforms the parse tree and prints the result.

Examples:
  castdump ast main.c
  castdump ast --format yaml main.c > main.ast.yaml
  castdump -v ast main.c   # trace every applied rule on stderr`,
	Args: cobra.ExactArgs(1),
	RunE: runAST,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(cstCmd)
	rootCmd.AddCommand(astCmd)

	usage := "output format (" + strings.Join(render.Formats, ", ") + ")"
	cstCmd.Flags().StringVarP(&format, "format", "f", "", usage)
	astCmd.Flags().StringVarP(&format, "format", "f", "", usage)
}

func runTokens(cmd *cobra.Command, args []string) error {
	_, src, err := utils.ReadSource(args[0])
	if err != nil {
		return errors.Wrap(err, "read source")
	}
	tokens, err := lexer.Lex(src)
	if err != nil {
		return errors.Wrap(err, "lex")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Tokens (%d)\n", len(tokens))
	for _, tok := range tokens {
		fmt.Fprintln(out, " ", tok)
	}
	return nil
}

func runCST(cmd *cobra.Command, args []string) error {
	cst, err := loadCST(args[0])
	if err != nil {
		return err
	}
	return printTree(cmd, cst)
}

func runAST(cmd *cobra.Command, args []string) error {
	res, err := frontend.BuildFile(args[0], cfg)
	if err != nil {
		return err
	}
	return printTree(cmd, res.AST)
}

func loadCST(path string) (*tree.Node, error) {
	fullPath, src, err := utils.ReadSource(path)
	if err != nil {
		return nil, errors.Wrap(err, "read source")
	}
	return frontend.ParseSource(fullPath, src, cfg)
}

// loadTree returns the parse tree or the AST of path.
func loadTree(path string, concrete bool) (*tree.Node, error) {
	if concrete {
		return loadCST(path)
	}
	res, err := frontend.BuildFile(path, cfg)
	if err != nil {
		return nil, err
	}
	return res.AST, nil
}

func printTree(cmd *cobra.Command, root *tree.Node) error {
	f := format
	if f == "" {
		f = cfg.Output.Format
	}
	out := cmd.OutOrStdout()
	return render.Write(out, root, f, useColor(cfg.Output.Color, out))
}
