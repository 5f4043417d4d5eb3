package token

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Literals
	IDENTIFIER // variable / function name
	INTEGER    // decimal, octal or hex integer literal
	FLOATING   // decimal floating literal, e.g. 1.5
	CHAR_LIT   // character literal 'c', lexeme keeps the quotes
	STRING     // string literal "...", lexeme is the unescaped body

	// Type keywords
	INT      // "int"
	CHAR     // "char"
	SHORT    // "short"
	LONG     // "long"
	FLOAT    // "float"
	DOUBLE   // "double"
	SIGNED   // "signed"
	UNSIGNED // "unsigned"
	VOID     // "void"
	STRUCT   // "struct"

	// Storage classes and qualifiers
	CONST    // "const"
	VOLATILE // "volatile"
	STATIC   // "static"
	EXTERN   // "extern"

	// Statement keywords
	IF       // "if"
	ELSE     // "else"
	WHILE    // "while"
	DO       // "do"
	FOR      // "for"
	SWITCH   // "switch"
	CASE     // "case"
	DEFAULT  // "default"
	BREAK    // "break"
	CONTINUE // "continue"
	RETURN   // "return"
	GOTO     // "goto"
	SIZEOF   // "sizeof"

	// Paired delimiters
	LBRACE   // {
	RBRACE   // }
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]

	// Punctuation
	DOT       // .
	ARROW     // ->
	SEMICOLON // ;
	COMMA     // ,
	COLON     // :
	QUESTION  // ?

	// Arithmetic and bitwise operators
	PLUS        // +
	MINUS       // -
	STAR        // *
	SLASH       // /
	PERCENT     // %
	AND         // & (binary bitwise AND, or unary address-of)
	PIPE        // |
	CARET       // ^
	TILDE       // ~
	SHL_OP      // <<
	SHR_OP      // >>
	AND_LOGICAL // &&
	OR_LOGICAL  // ||
	NOT         // !

	PLUS_PLUS   // ++
	MINUS_MINUS // --

	// Assignment
	ASSIGN         // =
	PLUS_ASSIGN    // +=
	MINUS_ASSIGN   // -=
	STAR_ASSIGN    // *=
	SLASH_ASSIGN   // /=
	PERCENT_ASSIGN // %=
	SHL_ASSIGN     // <<=
	SHR_ASSIGN     // >>=
	AND_ASSIGN     // &=
	XOR_ASSIGN     // ^=
	OR_ASSIGN      // |=

	// Comparison
	EQUALS     // ==
	NOT_EQ     // !=
	LESS       // <
	GREATER    // >
	LESS_EQ    // <=
	GREATER_EQ // >=
)

var tokenNames = [...]string{
	EOF:            "EOF",
	IDENTIFIER:     "IDENTIFIER",
	INTEGER:        "INTEGER",
	FLOATING:       "FLOATING",
	CHAR_LIT:       "CHAR_LIT",
	STRING:         "STRING",
	INT:            "INT",
	CHAR:           "CHAR",
	SHORT:          "SHORT",
	LONG:           "LONG",
	FLOAT:          "FLOAT",
	DOUBLE:         "DOUBLE",
	SIGNED:         "SIGNED",
	UNSIGNED:       "UNSIGNED",
	VOID:           "VOID",
	STRUCT:         "STRUCT",
	CONST:          "CONST",
	VOLATILE:       "VOLATILE",
	STATIC:         "STATIC",
	EXTERN:         "EXTERN",
	IF:             "IF",
	ELSE:           "ELSE",
	WHILE:          "WHILE",
	DO:             "DO",
	FOR:            "FOR",
	SWITCH:         "SWITCH",
	CASE:           "CASE",
	DEFAULT:        "DEFAULT",
	BREAK:          "BREAK",
	CONTINUE:       "CONTINUE",
	RETURN:         "RETURN",
	GOTO:           "GOTO",
	SIZEOF:         "SIZEOF",
	LBRACE:         "LBRACE",
	RBRACE:         "RBRACE",
	LPAREN:         "LPAREN",
	RPAREN:         "RPAREN",
	LBRACKET:       "LBRACKET",
	RBRACKET:       "RBRACKET",
	DOT:            "DOT",
	ARROW:          "ARROW",
	SEMICOLON:      "SEMICOLON",
	COMMA:          "COMMA",
	COLON:          "COLON",
	QUESTION:       "QUESTION",
	PLUS:           "PLUS",
	MINUS:          "MINUS",
	STAR:           "STAR",
	SLASH:          "SLASH",
	PERCENT:        "PERCENT",
	AND:            "AND",
	PIPE:           "PIPE",
	CARET:          "CARET",
	TILDE:          "TILDE",
	SHL_OP:         "SHL_OP",
	SHR_OP:         "SHR_OP",
	AND_LOGICAL:    "AND_LOGICAL",
	OR_LOGICAL:     "OR_LOGICAL",
	NOT:            "NOT",
	PLUS_PLUS:      "PLUS_PLUS",
	MINUS_MINUS:    "MINUS_MINUS",
	ASSIGN:         "ASSIGN",
	PLUS_ASSIGN:    "PLUS_ASSIGN",
	MINUS_ASSIGN:   "MINUS_ASSIGN",
	STAR_ASSIGN:    "STAR_ASSIGN",
	SLASH_ASSIGN:   "SLASH_ASSIGN",
	PERCENT_ASSIGN: "PERCENT_ASSIGN",
	SHL_ASSIGN:     "SHL_ASSIGN",
	SHR_ASSIGN:     "SHR_ASSIGN",
	AND_ASSIGN:     "AND_ASSIGN",
	XOR_ASSIGN:     "XOR_ASSIGN",
	OR_ASSIGN:      "OR_ASSIGN",
	EQUALS:         "EQUALS",
	NOT_EQ:         "NOT_EQ",
	LESS:           "LESS",
	GREATER:        "GREATER",
	LESS_EQ:        "LESS_EQ",
	GREATER_EQ:     "GREATER_EQ",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Pos is a 1-based source position. The zero Pos means "unknown".
type Pos struct {
	Line int
	Col  int
}

// IsValid reports whether the position refers to a real source location.
func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Token is a single lexical unit produced by the lexer. Tokens are values and
// are never mutated once scanned.
type Token struct {
	Type   TokenType
	Lexeme string // the source text that was matched (string bodies are unescaped)
	Pos    Pos
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  %s", t.Type, t.Lexeme, t.Pos)
}

// compoundOps maps each compound assignment operator to the binary operator
// it applies.
var compoundOps = map[TokenType]Token{
	PLUS_ASSIGN:    {Type: PLUS, Lexeme: "+"},
	MINUS_ASSIGN:   {Type: MINUS, Lexeme: "-"},
	STAR_ASSIGN:    {Type: STAR, Lexeme: "*"},
	SLASH_ASSIGN:   {Type: SLASH, Lexeme: "/"},
	PERCENT_ASSIGN: {Type: PERCENT, Lexeme: "%"},
	SHL_ASSIGN:     {Type: SHL_OP, Lexeme: "<<"},
	SHR_ASSIGN:     {Type: SHR_OP, Lexeme: ">>"},
	AND_ASSIGN:     {Type: AND, Lexeme: "&"},
	XOR_ASSIGN:     {Type: CARET, Lexeme: "^"},
	OR_ASSIGN:      {Type: PIPE, Lexeme: "|"},
}

// IsAssignOp reports whether tt is "=" or one of the compound assignment operators.
func IsAssignOp(tt TokenType) bool {
	if tt == ASSIGN {
		return true
	}
	_, ok := compoundOps[tt]
	return ok
}

// CompoundBase returns the binary operator token applied by a compound
// assignment operator, positioned at the compound operator. ok is false for
// plain "=" and for non-assignment tokens.
func CompoundBase(op Token) (base Token, ok bool) {
	base, ok = compoundOps[op.Type]
	if !ok {
		return Token{}, false
	}
	base.Pos = op.Pos
	return base, true
}

// IsTypeKeyword reports whether tt can start a type specifier.
func IsTypeKeyword(tt TokenType) bool {
	switch tt {
	case INT, CHAR, SHORT, LONG, FLOAT, DOUBLE, SIGNED, UNSIGNED, VOID, STRUCT,
		CONST, VOLATILE, STATIC, EXTERN:
		return true
	}
	return false
}

// TypeByName returns the TokenType whose String form is name.
func TypeByName(name string) (TokenType, bool) {
	for i, n := range tokenNames {
		if n == name {
			return TokenType(i), true
		}
	}
	return 0, false
}
