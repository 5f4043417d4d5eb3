// Package diag defines the errors raised while turning a concrete parse tree
// into an abstract syntax tree.
package diag

import (
	"fmt"

	"gocst/pkg/token"
)

// StructuralError reports a CST that does not have the shape a rule expects:
// wrong production tag, missing child or wrong child count. It means the
// parser and the transformer disagree about the grammar.
type StructuralError struct {
	Rule string
	Pos  token.Pos
	Msg  string
}

func (e *StructuralError) Error() string {
	return format("structural", e.Rule, e.Pos, e.Msg)
}

// SemanticError reports a language rule broken by an otherwise well-formed CST.
type SemanticError struct {
	Rule string
	Pos  token.Pos
	Msg  string
}

func (e *SemanticError) Error() string {
	return format("semantic", e.Rule, e.Pos, e.Msg)
}

func format(kind, rule string, pos token.Pos, msg string) string {
	if pos.IsValid() {
		return fmt.Sprintf("%s error in %s at %s: %s", kind, rule, pos, msg)
	}
	return fmt.Sprintf("%s error in %s: %s", kind, rule, msg)
}

// Structuralf builds a StructuralError with a formatted message.
func Structuralf(rule string, pos token.Pos, format string, args ...any) *StructuralError {
	return &StructuralError{Rule: rule, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Semanticf builds a SemanticError with a formatted message.
func Semanticf(rule string, pos token.Pos, format string, args ...any) *SemanticError {
	return &SemanticError{Rule: rule, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
