package parser

import (
	"unicode"
)

// Lexer tokenizes MOO source code
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int
	column       int
}

// NewLexer creates a new Lexer instance
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// readChar reads the next character and advances position
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII NUL
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
}

// peekChar returns the next character without advancing
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// skipWhitespace skips over whitespace and // comments
func (l *Lexer) skipWhitespace() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	pos := Position{
		Line:   l.line,
		Column: l.column,
		Offset: l.position,
	}

	switch {
	case l.ch == 0:
		return Token{Type: TOKEN_EOF, Position: pos}
	case l.ch == '"':
		return l.readString()
	case isDigit(l.ch):
		return l.readNumber()
	case isLetter(l.ch):
		start := l.position
		for isLetter(l.ch) || isDigit(l.ch) {
			l.readChar()
		}
		ident := l.input[start:l.position]
		return Token{Type: LookupKeyword(ident), Value: ident, Position: pos}
	}

	// Two-character operators first
	if tt, ok := l.twoCharOperator(); ok {
		value := l.input[l.position : l.position+2]
		l.readChar()
		l.readChar()
		return Token{Type: tt, Value: value, Position: pos}
	}

	tok := Token{Type: oneCharTokens[l.ch], Value: string(l.ch), Position: pos}
	if tok.Type == 0 {
		tok.Type = TOKEN_ILLEGAL
	}
	l.readChar()
	return tok
}

var oneCharTokens = map[byte]TokenType{
	'+': TOKEN_PLUS,
	'-': TOKEN_MINUS,
	'*': TOKEN_STAR,
	'/': TOKEN_SLASH,
	'%': TOKEN_PERCENT,
	'^': TOKEN_CARET,
	'<': TOKEN_LT,
	'>': TOKEN_GT,
	'!': TOKEN_NOT,
	'=': TOKEN_ASSIGN,
	'?': TOKEN_QUESTION,
	'|': TOKEN_PIPE,
	'(': TOKEN_LPAREN,
	')': TOKEN_RPAREN,
	'{': TOKEN_LBRACE,
	'}': TOKEN_RBRACE,
	'[': TOKEN_LBRACKET,
	']': TOKEN_RBRACKET,
	',': TOKEN_COMMA,
	';': TOKEN_SEMICOLON,
	'.': TOKEN_DOT,
	':': TOKEN_COLON,
}

// twoCharOperator matches the operator starting at the current char
func (l *Lexer) twoCharOperator() (TokenType, bool) {
	switch string([]byte{l.ch, l.peekChar()}) {
	case "**":
		return TOKEN_CARET, true
	case "==":
		return TOKEN_EQ, true
	case "!=":
		return TOKEN_NE, true
	case "<=":
		return TOKEN_LE, true
	case ">=":
		return TOKEN_GE, true
	case "&&":
		return TOKEN_AND, true
	case "||":
		return TOKEN_OR, true
	case "..":
		return TOKEN_RANGE, true
	}
	return TOKEN_ILLEGAL, false
}

// readNumber reads an integer or float literal.
// "1..3" lexes as INT RANGE INT, so a dot only starts a fraction when a
// digit follows it.
func (l *Lexer) readNumber() Token {
	tok := Token{
		Type: TOKEN_INT,
		Position: Position{
			Line:   l.line,
			Column: l.column,
			Offset: l.position,
		},
	}
	start := l.position

	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		tok.Type = TOKEN_FLOAT
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || next == '+' || next == '-' {
			tok.Type = TOKEN_FLOAT
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			if !isDigit(l.ch) {
				tok.Type = TOKEN_ILLEGAL
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	tok.Value = l.input[start:l.position]
	return tok
}

// isLetter returns true if the character is a letter or underscore
func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_'
}

// isDigit returns true if the character is a digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
