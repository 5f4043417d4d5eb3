// Package lexer turns C-subset source text into the token stream consumed by
// the CST parser.
package lexer

import (
	"fmt"
	"unicode"

	"gocst/pkg/token"
)

// keywords maps source text to its keyword TokenType.
var keywords = map[string]token.TokenType{
	"int":      token.INT,
	"char":     token.CHAR,
	"short":    token.SHORT,
	"long":     token.LONG,
	"float":    token.FLOAT,
	"double":   token.DOUBLE,
	"signed":   token.SIGNED,
	"unsigned": token.UNSIGNED,
	"void":     token.VOID,
	"struct":   token.STRUCT,
	"const":    token.CONST,
	"volatile": token.VOLATILE,
	"static":   token.STATIC,
	"extern":   token.EXTERN,
	"if":       token.IF,
	"else":     token.ELSE,
	"while":    token.WHILE,
	"do":       token.DO,
	"for":      token.FOR,
	"switch":   token.SWITCH,
	"case":     token.CASE,
	"default":  token.DEFAULT,
	"break":    token.BREAK,
	"continue": token.CONTINUE,
	"return":   token.RETURN,
	"goto":     token.GOTO,
	"sizeof":   token.SIZEOF,
}

// Error is a scanning failure at a source position.
type Error struct {
	Pos token.Pos
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Pos.Line, e.Pos.Col, e.Msg)
}

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src       []rune
	pos       int // index of the next rune to consume
	line      int // current 1-based source line
	lineStart int // index of the first rune of the current line
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), line: 1}
}

// here returns the position of the next rune to consume.
func (l *Lexer) here() token.Pos {
	return token.Pos{Line: l.line, Col: l.pos - l.lineStart + 1}
}

func (l *Lexer) errorf(pos token.Pos, format string, args ...any) error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peek2 returns the rune one position ahead of the current position.
func (l *Lexer) peek2() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.lineStart = l.pos
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// skipLineComment discards everything from the current position to end-of-line.
// The opening "//" must already have been consumed.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
}

// skipBlockComment discards everything up to and including the closing "*/".
// The opening "/*" must already have been consumed.
func (l *Lexer) skipBlockComment(start token.Pos) error {
	for l.pos < len(l.src) {
		if l.peek() == '*' && l.peek2() == '/' {
			l.advance()
			l.advance()
			return nil
		}
		l.advance()
	}
	return l.errorf(start, "unterminated block comment")
}

// scanIdent collects a full identifier or keyword token.
func (l *Lexer) scanIdent() token.Token {
	pos := l.here()
	start := l.pos
	for l.pos < len(l.src) {
		r := l.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	tt := token.IDENTIFIER
	if kw, ok := keywords[lexeme]; ok {
		tt = kw
	}
	return token.Token{Type: tt, Lexeme: lexeme, Pos: pos}
}

func isHexDigit(r rune) bool {
	return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// scanNumber collects a decimal, octal or hex integer literal, or a decimal
// floating literal (1.5, 1. and .5). Integer suffixes (u, U, l, L) stay part
// of the lexeme.
func (l *Lexer) scanNumber() (token.Token, error) {
	pos := l.here()
	start := l.pos
	tt := token.INTEGER

	if l.peek() == '0' && (l.peek2() == 'x' || l.peek2() == 'X') {
		l.advance()
		l.advance()
		digits := l.pos
		for l.pos < len(l.src) && isHexDigit(l.peek()) {
			l.advance()
		}
		if l.pos == digits {
			return token.Token{}, l.errorf(pos, "hex literal %q has no digits", string(l.src[start:l.pos]))
		}
	} else {
		for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
			l.advance()
		}
		if l.peek() == '.' {
			tt = token.FLOATING
			l.advance()
			for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
				l.advance()
			}
		}
	}

	if tt == token.INTEGER {
		for l.pos < len(l.src) {
			switch l.peek() {
			case 'u', 'U', 'l', 'L':
				l.advance()
				continue
			}
			break
		}
	}
	return token.Token{Type: tt, Lexeme: string(l.src[start:l.pos]), Pos: pos}, nil
}

// scanChar collects a character literal 'c'. The lexeme keeps the source
// spelling, quotes included.
func (l *Lexer) scanChar() (token.Token, error) {
	pos := l.here()
	start := l.pos
	l.advance() // opening '

	switch l.peek() {
	case '\'':
		return token.Token{}, l.errorf(pos, "empty character literal")
	case '\\':
		l.advance()
		switch next := l.peek(); next {
		case 'n', 'r', 't', '0', '\\', '\'', '"':
			l.advance()
		default:
			return token.Token{}, l.errorf(pos, "unknown escape sequence \\%c", next)
		}
	case '\n', 0:
		return token.Token{}, l.errorf(pos, "unterminated character literal")
	default:
		l.advance()
	}

	if l.peek() != '\'' {
		return token.Token{}, l.errorf(pos, "unterminated character literal")
	}
	l.advance() // closing '
	return token.Token{Type: token.CHAR_LIT, Lexeme: string(l.src[start:l.pos]), Pos: pos}, nil
}

// scanString collects a string literal "..." and unescapes its body.
func (l *Lexer) scanString() (token.Token, error) {
	pos := l.here()
	l.advance() // opening "
	var val []rune

	for l.pos < len(l.src) {
		r := l.peek()
		if r == '"' {
			break
		}
		if r == '\n' {
			return token.Token{}, l.errorf(pos, "unterminated string literal")
		}
		if r == '\\' {
			l.advance()
			switch next := l.peek(); next {
			case 'n':
				val = append(val, '\n')
			case 't':
				val = append(val, '\t')
			case 'r':
				val = append(val, '\r')
			case '0':
				val = append(val, 0)
			case '"':
				val = append(val, '"')
			case '\\':
				val = append(val, '\\')
			default:
				return token.Token{}, l.errorf(pos, "unknown escape sequence \\%c", next)
			}
			l.advance()
			continue
		}
		val = append(val, r)
		l.advance()
	}

	if l.pos >= len(l.src) {
		return token.Token{}, l.errorf(pos, "unterminated string literal")
	}
	l.advance() // closing "
	return token.Token{Type: token.STRING, Lexeme: string(val), Pos: pos}, nil
}

// op builds an operator token, consuming the extra runes that follow the
// one already consumed by nextToken.
func (l *Lexer) op(tt token.TokenType, lexeme string, pos token.Pos) token.Token {
	for i := 1; i < len([]rune(lexeme)); i++ {
		l.advance()
	}
	return token.Token{Type: tt, Lexeme: lexeme, Pos: pos}
}

// nextToken skips whitespace/comments and returns the next Token.
func (l *Lexer) nextToken() (token.Token, error) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			return token.Token{Type: token.EOF, Pos: l.here()}, nil
		}
		if l.peek() == '/' && l.peek2() == '/' {
			l.advance()
			l.advance()
			l.skipLineComment()
			continue
		}
		if l.peek() == '/' && l.peek2() == '*' {
			start := l.here()
			l.advance()
			l.advance()
			if err := l.skipBlockComment(start); err != nil {
				return token.Token{}, err
			}
			continue
		}
		break
	}

	ch := l.peek()
	pos := l.here()

	switch {
	case unicode.IsLetter(ch) || ch == '_':
		return l.scanIdent(), nil
	case unicode.IsDigit(ch) || (ch == '.' && unicode.IsDigit(l.peek2())):
		return l.scanNumber()
	case ch == '"':
		return l.scanString()
	case ch == '\'':
		return l.scanChar()
	}

	l.advance() // consume the character before the switch
	next, after := l.peek(), l.peek2()
	switch ch {
	case '{':
		return l.op(token.LBRACE, "{", pos), nil
	case '}':
		return l.op(token.RBRACE, "}", pos), nil
	case '(':
		return l.op(token.LPAREN, "(", pos), nil
	case ')':
		return l.op(token.RPAREN, ")", pos), nil
	case '[':
		return l.op(token.LBRACKET, "[", pos), nil
	case ']':
		return l.op(token.RBRACKET, "]", pos), nil
	case '.':
		return l.op(token.DOT, ".", pos), nil
	case ';':
		return l.op(token.SEMICOLON, ";", pos), nil
	case ',':
		return l.op(token.COMMA, ",", pos), nil
	case ':':
		return l.op(token.COLON, ":", pos), nil
	case '?':
		return l.op(token.QUESTION, "?", pos), nil
	case '~':
		return l.op(token.TILDE, "~", pos), nil

	case '+':
		switch next {
		case '+':
			return l.op(token.PLUS_PLUS, "++", pos), nil
		case '=':
			return l.op(token.PLUS_ASSIGN, "+=", pos), nil
		}
		return l.op(token.PLUS, "+", pos), nil
	case '-':
		switch next {
		case '-':
			return l.op(token.MINUS_MINUS, "--", pos), nil
		case '=':
			return l.op(token.MINUS_ASSIGN, "-=", pos), nil
		case '>':
			return l.op(token.ARROW, "->", pos), nil
		}
		return l.op(token.MINUS, "-", pos), nil
	case '*':
		if next == '=' {
			return l.op(token.STAR_ASSIGN, "*=", pos), nil
		}
		return l.op(token.STAR, "*", pos), nil
	case '/':
		if next == '=' {
			return l.op(token.SLASH_ASSIGN, "/=", pos), nil
		}
		return l.op(token.SLASH, "/", pos), nil
	case '%':
		if next == '=' {
			return l.op(token.PERCENT_ASSIGN, "%=", pos), nil
		}
		return l.op(token.PERCENT, "%", pos), nil
	case '&':
		switch next {
		case '&':
			return l.op(token.AND_LOGICAL, "&&", pos), nil
		case '=':
			return l.op(token.AND_ASSIGN, "&=", pos), nil
		}
		return l.op(token.AND, "&", pos), nil
	case '|':
		switch next {
		case '|':
			return l.op(token.OR_LOGICAL, "||", pos), nil
		case '=':
			return l.op(token.OR_ASSIGN, "|=", pos), nil
		}
		return l.op(token.PIPE, "|", pos), nil
	case '^':
		if next == '=' {
			return l.op(token.XOR_ASSIGN, "^=", pos), nil
		}
		return l.op(token.CARET, "^", pos), nil
	case '!':
		if next == '=' {
			return l.op(token.NOT_EQ, "!=", pos), nil
		}
		return l.op(token.NOT, "!", pos), nil
	case '<':
		switch {
		case next == '<' && after == '=':
			return l.op(token.SHL_ASSIGN, "<<=", pos), nil
		case next == '<':
			return l.op(token.SHL_OP, "<<", pos), nil
		case next == '=':
			return l.op(token.LESS_EQ, "<=", pos), nil
		}
		return l.op(token.LESS, "<", pos), nil
	case '>':
		switch {
		case next == '>' && after == '=':
			return l.op(token.SHR_ASSIGN, ">>=", pos), nil
		case next == '>':
			return l.op(token.SHR_OP, ">>", pos), nil
		case next == '=':
			return l.op(token.GREATER_EQ, ">=", pos), nil
		}
		return l.op(token.GREATER, ">", pos), nil
	case '=':
		if next == '=' {
			return l.op(token.EQUALS, "==", pos), nil
		}
		return l.op(token.ASSIGN, "=", pos), nil
	default:
		return token.Token{}, l.errorf(pos, "unexpected character %q", ch)
	}
}

// Lex tokenises src and returns all tokens including the final EOF token.
// It returns a *Error on the first illegal character or unterminated literal.
func Lex(src string) ([]token.Token, error) {
	l := newLexer(src)
	var tokens []token.Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}
