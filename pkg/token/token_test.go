package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenTypeString(t *testing.T) {
	assert.Equal(t, "PLUS_ASSIGN", PLUS_ASSIGN.String())
	assert.Equal(t, "GREATER_EQ", GREATER_EQ.String())
	assert.Equal(t, "TokenType(999)", TokenType(999).String())
}

func TestCompoundBase(t *testing.T) {
	tests := []struct {
		op     TokenType
		want   TokenType
		lexeme string
	}{
		{PLUS_ASSIGN, PLUS, "+"},
		{MINUS_ASSIGN, MINUS, "-"},
		{STAR_ASSIGN, STAR, "*"},
		{SLASH_ASSIGN, SLASH, "/"},
		{PERCENT_ASSIGN, PERCENT, "%"},
		{SHL_ASSIGN, SHL_OP, "<<"},
		{SHR_ASSIGN, SHR_OP, ">>"},
		{AND_ASSIGN, AND, "&"},
		{XOR_ASSIGN, CARET, "^"},
		{OR_ASSIGN, PIPE, "|"},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			pos := Pos{Line: 3, Col: 7}
			base, ok := CompoundBase(Token{Type: tt.op, Pos: pos})
			assert.True(t, ok)
			assert.Equal(t, tt.want, base.Type)
			assert.Equal(t, tt.lexeme, base.Lexeme)
			assert.Equal(t, pos, base.Pos)
			assert.True(t, IsAssignOp(tt.op))
		})
	}

	_, ok := CompoundBase(Token{Type: ASSIGN})
	assert.False(t, ok)
	assert.True(t, IsAssignOp(ASSIGN))
	assert.False(t, IsAssignOp(EQUALS))
}

func TestPos(t *testing.T) {
	assert.Equal(t, "-", Pos{}.String())
	assert.Equal(t, "4:12", Pos{Line: 4, Col: 12}.String())
	assert.False(t, Pos{}.IsValid())
}

func TestTypeByName(t *testing.T) {
	tt, ok := TypeByName("ARROW")
	assert.True(t, ok)
	assert.Equal(t, ARROW, tt)

	_, ok = TypeByName("NOPE")
	assert.False(t, ok)
}
