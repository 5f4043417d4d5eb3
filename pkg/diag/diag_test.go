package diag

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocst/pkg/token"
)

func TestErrorStrings(t *testing.T) {
	err := Structuralf("source root", token.Pos{}, "expected %q, got %q", "translation Unit", "statement")
	assert.Equal(t, `structural error in source root: expected "translation Unit", got "statement"`, err.Error())

	sem := Semanticf("unary expression", token.Pos{Line: 3, Col: 9}, "bad operand")
	assert.Equal(t, "semantic error in unary expression at 3:9: bad operand", sem.Error())
}

func TestErrorsAs(t *testing.T) {
	var err error = fmt.Errorf("transform: %w", Semanticf("unary expression", token.Pos{Line: 1, Col: 1}, "x"))

	var sem *SemanticError
	require.True(t, errors.As(err, &sem))
	assert.Equal(t, "unary expression", sem.Rule)

	var st *StructuralError
	assert.False(t, errors.As(err, &st))
}
