package parser

import "strings"

// TokenType represents different types of lexical tokens
type TokenType int

const (
	// Special tokens
	TOKEN_EOF TokenType = iota
	TOKEN_ILLEGAL

	// Literals
	TOKEN_INT    // 42
	TOKEN_FLOAT  // 3.14
	TOKEN_STRING // "hello"

	// Keywords
	TOKEN_IF
	TOKEN_ELSEIF
	TOKEN_ELSE
	TOKEN_ENDIF
	TOKEN_FOR
	TOKEN_ENDFOR
	TOKEN_WHILE
	TOKEN_ENDWHILE
	TOKEN_RETURN
	TOKEN_BREAK
	TOKEN_CONTINUE
	TOKEN_FORK
	TOKEN_ENDFORK
	TOKEN_TRY
	TOKEN_EXCEPT
	TOKEN_FINALLY
	TOKEN_ENDTRY
	TOKEN_ANY
	TOKEN_TRUE
	TOKEN_FALSE
	TOKEN_IN

	// Identifiers
	TOKEN_IDENTIFIER

	// Operators
	TOKEN_PLUS    // +
	TOKEN_MINUS   // -
	TOKEN_STAR    // *
	TOKEN_SLASH   // /
	TOKEN_PERCENT // %
	TOKEN_CARET   // ^ or **

	TOKEN_EQ // ==
	TOKEN_NE // !=
	TOKEN_LT // <
	TOKEN_GT // >
	TOKEN_LE // <=
	TOKEN_GE // >=

	TOKEN_AND // &&
	TOKEN_OR  // ||
	TOKEN_NOT // !

	TOKEN_ASSIGN   // =
	TOKEN_QUESTION // ?
	TOKEN_PIPE     // |
	TOKEN_RANGE    // ..

	// Delimiters
	TOKEN_LPAREN    // (
	TOKEN_RPAREN    // )
	TOKEN_LBRACE    // {
	TOKEN_RBRACE    // }
	TOKEN_LBRACKET  // [
	TOKEN_RBRACKET  // ]
	TOKEN_COMMA     // ,
	TOKEN_SEMICOLON // ;
	TOKEN_DOT       // .
	TOKEN_COLON     // :
)

// Position represents a position in the source code
type Position struct {
	Line   int
	Column int
	Offset int
}

// Token represents a lexical token
type Token struct {
	Type     TokenType
	Value    string
	Literal  string // Decoded string value (for TOKEN_STRING)
	Position Position
}

var tokenNames = map[TokenType]string{
	TOKEN_EOF:        "EOF",
	TOKEN_ILLEGAL:    "ILLEGAL",
	TOKEN_INT:        "INT",
	TOKEN_FLOAT:      "FLOAT",
	TOKEN_STRING:     "STRING",
	TOKEN_IF:         "IF",
	TOKEN_ELSEIF:     "ELSEIF",
	TOKEN_ELSE:       "ELSE",
	TOKEN_ENDIF:      "ENDIF",
	TOKEN_FOR:        "FOR",
	TOKEN_ENDFOR:     "ENDFOR",
	TOKEN_WHILE:      "WHILE",
	TOKEN_ENDWHILE:   "ENDWHILE",
	TOKEN_RETURN:     "RETURN",
	TOKEN_BREAK:      "BREAK",
	TOKEN_CONTINUE:   "CONTINUE",
	TOKEN_FORK:       "FORK",
	TOKEN_ENDFORK:    "ENDFORK",
	TOKEN_TRY:        "TRY",
	TOKEN_EXCEPT:     "EXCEPT",
	TOKEN_FINALLY:    "FINALLY",
	TOKEN_ENDTRY:     "ENDTRY",
	TOKEN_ANY:        "ANY",
	TOKEN_TRUE:       "TRUE",
	TOKEN_FALSE:      "FALSE",
	TOKEN_IN:         "IN",
	TOKEN_IDENTIFIER: "IDENTIFIER",
	TOKEN_PLUS:       "PLUS",
	TOKEN_MINUS:      "MINUS",
	TOKEN_STAR:       "STAR",
	TOKEN_SLASH:      "SLASH",
	TOKEN_PERCENT:    "PERCENT",
	TOKEN_CARET:      "CARET",
	TOKEN_EQ:         "EQ",
	TOKEN_NE:         "NE",
	TOKEN_LT:         "LT",
	TOKEN_GT:         "GT",
	TOKEN_LE:         "LE",
	TOKEN_GE:         "GE",
	TOKEN_AND:        "AND",
	TOKEN_OR:         "OR",
	TOKEN_NOT:        "NOT",
	TOKEN_ASSIGN:     "ASSIGN",
	TOKEN_QUESTION:   "QUESTION",
	TOKEN_PIPE:       "PIPE",
	TOKEN_RANGE:      "RANGE",
	TOKEN_LPAREN:     "LPAREN",
	TOKEN_RPAREN:     "RPAREN",
	TOKEN_LBRACE:     "LBRACE",
	TOKEN_RBRACE:     "RBRACE",
	TOKEN_LBRACKET:   "LBRACKET",
	TOKEN_RBRACKET:   "RBRACKET",
	TOKEN_COMMA:      "COMMA",
	TOKEN_SEMICOLON:  "SEMICOLON",
	TOKEN_DOT:        "DOT",
	TOKEN_COLON:      "COLON",
}

// String returns a string representation of the token type
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Keywords maps keyword strings to their token types
var keywords = map[string]TokenType{
	"if":       TOKEN_IF,
	"elseif":   TOKEN_ELSEIF,
	"else":     TOKEN_ELSE,
	"endif":    TOKEN_ENDIF,
	"for":      TOKEN_FOR,
	"endfor":   TOKEN_ENDFOR,
	"while":    TOKEN_WHILE,
	"endwhile": TOKEN_ENDWHILE,
	"return":   TOKEN_RETURN,
	"break":    TOKEN_BREAK,
	"continue": TOKEN_CONTINUE,
	"fork":     TOKEN_FORK,
	"endfork":  TOKEN_ENDFORK,
	"try":      TOKEN_TRY,
	"except":   TOKEN_EXCEPT,
	"finally":  TOKEN_FINALLY,
	"endtry":   TOKEN_ENDTRY,
	"any":      TOKEN_ANY,
	"true":     TOKEN_TRUE,
	"false":    TOKEN_FALSE,
	"in":       TOKEN_IN,
}

// LookupKeyword checks if an identifier is a keyword. Keywords are
// case-insensitive, as in MOO.
func LookupKeyword(ident string) TokenType {
	if tok, ok := keywords[strings.ToLower(ident)]; ok {
		return tok
	}
	return TOKEN_IDENTIFIER
}
