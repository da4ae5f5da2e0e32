package parser

// Operator precedence levels (higher = tighter binding)
const (
	PREC_LOWEST     = iota
	PREC_ASSIGN     // =
	PREC_TERNARY    // ? |
	PREC_OR         // ||
	PREC_AND        // &&
	PREC_EQUALITY   // == !=
	PREC_COMPARISON // < <= > >= in
	PREC_ADDITIVE   // + -
	PREC_MULTIPLY   // * / %
	PREC_POWER      // ^
	PREC_UNARY      // - !
	PREC_POSTFIX    // . [] ()
)

// infixPrecedence returns the binding power of tt in infix position,
// or PREC_LOWEST when tt cannot continue an expression.
func infixPrecedence(tt TokenType) int {
	switch tt {
	case TOKEN_ASSIGN:
		return PREC_ASSIGN
	case TOKEN_QUESTION:
		return PREC_TERNARY
	case TOKEN_OR:
		return PREC_OR
	case TOKEN_AND:
		return PREC_AND
	case TOKEN_EQ, TOKEN_NE:
		return PREC_EQUALITY
	case TOKEN_LT, TOKEN_LE, TOKEN_GT, TOKEN_GE, TOKEN_IN:
		return PREC_COMPARISON
	case TOKEN_PLUS, TOKEN_MINUS:
		return PREC_ADDITIVE
	case TOKEN_STAR, TOKEN_SLASH, TOKEN_PERCENT:
		return PREC_MULTIPLY
	case TOKEN_CARET:
		return PREC_POWER
	case TOKEN_DOT, TOKEN_LBRACKET:
		return PREC_POSTFIX
	default:
		return PREC_LOWEST
	}
}

// ParseExpression parses an expression whose operators all bind tighter
// than prec.
func (p *Parser) ParseExpression(prec int) (Expr, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for prec < infixPrecedence(p.current.Type) {
		left, err = p.parseInfix(left)
		if err != nil {
			return nil, err
		}
	}
	if p.current.Type == TOKEN_ILLEGAL {
		return nil, p.errorf("illegal token %q", p.current.Value)
	}
	return left, nil
}

// parsePrefix parses literals, names, calls, groups and unary operators
func (p *Parser) parsePrefix() (Expr, error) {
	pos := p.current.Position

	switch p.current.Type {
	case TOKEN_INT, TOKEN_FLOAT, TOKEN_STRING, TOKEN_TRUE, TOKEN_FALSE:
		val, err := p.ParseLiteral()
		if err != nil {
			return nil, err
		}
		return &LiteralExpr{Pos: pos, Value: val}, nil

	case TOKEN_IDENTIFIER:
		name := p.current.Value
		p.nextToken()
		if p.current.Type == TOKEN_LPAREN {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return &BuiltinCallExpr{Pos: pos, Name: name, Args: args}, nil
		}
		return &IdentifierExpr{Pos: pos, Name: name}, nil

	case TOKEN_LPAREN:
		p.nextToken()
		inner, err := p.ParseExpression(PREC_LOWEST)
		if err != nil {
			return nil, err
		}
		if err := p.expect(TOKEN_RPAREN, "')'"); err != nil {
			return nil, err
		}
		return &ParenExpr{Pos: pos, Expr: inner}, nil

	case TOKEN_MINUS:
		// Negative numeric literals fold into the literal itself
		if p.peek.Type == TOKEN_INT || p.peek.Type == TOKEN_FLOAT {
			val, err := p.ParseLiteral()
			if err != nil {
				return nil, err
			}
			return &LiteralExpr{Pos: pos, Value: val}, nil
		}
		fallthrough
	case TOKEN_NOT:
		op := p.current.Type
		p.nextToken()
		operand, err := p.ParseExpression(PREC_UNARY)
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Pos: pos, Operator: op, Operand: operand}, nil

	case TOKEN_LBRACE:
		p.nextToken()
		var elems []Expr
		for p.current.Type != TOKEN_RBRACE {
			elem, err := p.ParseExpression(PREC_LOWEST)
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
			if p.current.Type != TOKEN_COMMA {
				break
			}
			p.nextToken()
		}
		if err := p.expect(TOKEN_RBRACE, "'}'"); err != nil {
			return nil, err
		}
		return &ListExpr{Pos: pos, Elements: elems}, nil

	case TOKEN_ILLEGAL:
		return nil, p.errorf("illegal token %q", p.current.Value)

	default:
		return nil, p.errorf("unexpected %s", p.describeCurrent())
	}
}

// parseInfix extends left with the operator at the current token
func (p *Parser) parseInfix(left Expr) (Expr, error) {
	pos := p.current.Position
	op := p.current.Type
	prec := infixPrecedence(op)

	switch op {
	case TOKEN_ASSIGN:
		switch left.(type) {
		case *IdentifierExpr, *IndexExpr, *PropertyExpr:
		default:
			return nil, p.errorf("invalid assignment target %s", Unparse(left))
		}
		p.nextToken()
		// Right associative: a = b = c
		value, err := p.ParseExpression(prec - 1)
		if err != nil {
			return nil, err
		}
		return &AssignExpr{Pos: pos, Target: left, Value: value}, nil

	case TOKEN_QUESTION:
		p.nextToken()
		then, err := p.ParseExpression(PREC_LOWEST)
		if err != nil {
			return nil, err
		}
		if err := p.expect(TOKEN_PIPE, "'|' in conditional expression"); err != nil {
			return nil, err
		}
		els, err := p.ParseExpression(prec - 1)
		if err != nil {
			return nil, err
		}
		return &TernaryExpr{Pos: pos, Condition: left, ThenExpr: then, ElseExpr: els}, nil

	case TOKEN_DOT:
		p.nextToken()
		if p.current.Type != TOKEN_IDENTIFIER {
			return nil, p.errorf("expected property name after '.'")
		}
		name := p.current.Value
		p.nextToken()
		return &PropertyExpr{Pos: pos, Expr: left, Property: name}, nil

	case TOKEN_LBRACKET:
		p.nextToken()
		index, err := p.ParseExpression(PREC_LOWEST)
		if err != nil {
			return nil, err
		}
		if err := p.expect(TOKEN_RBRACKET, "']'"); err != nil {
			return nil, err
		}
		return &IndexExpr{Pos: pos, Expr: left, Index: index}, nil
	}

	p.nextToken()
	rightPrec := prec
	if op == TOKEN_CARET {
		rightPrec = prec - 1 // 2^3^2 == 2^(3^2)
	}
	right, err := p.ParseExpression(rightPrec)
	if err != nil {
		return nil, err
	}
	return &BinaryExpr{Pos: pos, Left: left, Operator: op, Right: right}, nil
}

// parseArgs parses a parenthesized, comma separated argument list
func (p *Parser) parseArgs() ([]Expr, error) {
	if err := p.expect(TOKEN_LPAREN, "'('"); err != nil {
		return nil, err
	}
	var args []Expr
	for p.current.Type != TOKEN_RPAREN {
		arg, err := p.ParseExpression(PREC_LOWEST)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.current.Type != TOKEN_COMMA {
			break
		}
		p.nextToken()
	}
	if err := p.expect(TOKEN_RPAREN, "')' after arguments"); err != nil {
		return nil, err
	}
	return args, nil
}
