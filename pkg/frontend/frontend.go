// Package frontend runs source text through the lexer, the parser and the
// AST transform.
package frontend

import (
	"log/slog"

	"github.com/pkg/errors"

	"gocst/pkg/ast"
	"gocst/pkg/config"
	"gocst/pkg/lexer"
	"gocst/pkg/parser"
	"gocst/pkg/tree"
	"gocst/pkg/utils"
)

// Result holds both trees built for one source.
type Result struct {
	Name string
	CST  *tree.Node
	AST  *tree.Node
}

// ParseSource lexes and parses src into a concrete parse tree. A nil cfg
// means config.Default().
func ParseSource(name, src string, cfg *config.Config) (*tree.Node, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	tokens, err := lexer.Lex(src)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: lex", name)
	}

	cst, err := parser.Parse(tokens, src, parser.WithMaxDepth(cfg.Parser.MaxDepth))
	if err != nil {
		return nil, errors.Wrapf(err, "%s: parse", name)
	}
	return cst, nil
}

// Build parses src and transforms the result. Rule tracing goes to
// slog.Default() at debug level.
func Build(name, src string, cfg *config.Config) (*Result, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	cst, err := ParseSource(name, src, cfg)
	if err != nil {
		return nil, err
	}

	tr := ast.New(
		ast.WithLogger(slog.Default().With("source", name)),
		ast.WithMaxDepth(cfg.Transform.MaxDepth),
	)
	out, err := tr.Transform(cst)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: transform", name)
	}
	return &Result{Name: name, CST: cst, AST: out}, nil
}

// BuildFile reads path and builds it.
func BuildFile(path string, cfg *config.Config) (*Result, error) {
	fullPath, src, err := utils.ReadSource(path)
	if err != nil {
		return nil, errors.Wrap(err, "read source")
	}
	return Build(fullPath, src, cfg)
}
