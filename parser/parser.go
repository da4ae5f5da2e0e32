package parser

import (
	"fmt"
	"strconv"

	"mooagg/types"
)

// Parser parses MOO source code into statements and expressions
type Parser struct {
	lexer   *Lexer
	current Token
	peek    Token
}

// ParseError is a syntax error at a source position
type ParseError struct {
	Pos Position
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// NewParser creates a new Parser instance
func NewParser(input string) *Parser {
	p := &Parser{
		lexer: NewLexer(input),
	}
	// Read two tokens to initialize current and peek
	p.nextToken()
	p.nextToken()
	return p
}

// nextToken advances to the next token
func (p *Parser) nextToken() {
	p.current = p.peek
	p.peek = p.lexer.NextToken()
}

// errorf builds a ParseError at the current token
func (p *Parser) errorf(format string, args ...any) error {
	return &ParseError{Pos: p.current.Position, Msg: fmt.Sprintf(format, args...)}
}

// expect consumes a token of the given type or fails with what
func (p *Parser) expect(tt TokenType, what string) error {
	if p.current.Type != tt {
		return p.errorf("expected %s, got %s", what, p.describeCurrent())
	}
	p.nextToken()
	return nil
}

func (p *Parser) describeCurrent() string {
	if p.current.Type == TOKEN_EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", p.current.Type, p.current.Value)
}

// ParseLiteral parses a literal value
func (p *Parser) ParseLiteral() (types.Value, error) {
	negate := false
	if p.current.Type == TOKEN_MINUS && (p.peek.Type == TOKEN_INT || p.peek.Type == TOKEN_FLOAT) {
		negate = true
		p.nextToken()
	}
	switch p.current.Type {
	case TOKEN_INT:
		return p.parseIntLiteral(negate)
	case TOKEN_FLOAT:
		return p.parseFloatLiteral(negate)
	case TOKEN_STRING:
		v := types.NewStr(p.current.Literal)
		p.nextToken()
		return v, nil
	case TOKEN_TRUE:
		p.nextToken()
		return types.NewBool(true), nil
	case TOKEN_FALSE:
		p.nextToken()
		return types.NewBool(false), nil
	default:
		return nil, p.errorf("unexpected token: %s", p.current.Type)
	}
}

// parseIntLiteral parses an integer literal
func (p *Parser) parseIntLiteral(negate bool) (types.Value, error) {
	text := p.current.Value
	if negate {
		text = "-" + text
	}
	val, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.errorf("failed to parse integer %s: %v", text, err)
	}
	p.nextToken()
	return types.NewInt(val), nil
}

// parseFloatLiteral parses a float literal
func (p *Parser) parseFloatLiteral(negate bool) (types.Value, error) {
	val, err := strconv.ParseFloat(p.current.Value, 64)
	if err != nil {
		return nil, p.errorf("failed to parse float %s: %v", p.current.Value, err)
	}
	if negate {
		val = -val
	}
	p.nextToken()
	return types.NewFloat(val), nil
}
