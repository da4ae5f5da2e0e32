package parser

// ParseProgram parses a complete MOO program (sequence of statements)
func (p *Parser) ParseProgram() ([]Stmt, error) {
	var statements []Stmt

	for p.current.Type != TOKEN_EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}

	return statements, nil
}

// ParseProgram is a shortcut for NewParser(src).ParseProgram()
func ParseProgram(src string) ([]Stmt, error) {
	return NewParser(src).ParseProgram()
}

// parseStatement parses a single statement
func (p *Parser) parseStatement() (Stmt, error) {
	switch p.current.Type {
	case TOKEN_IF:
		return p.parseIfStatement()
	case TOKEN_WHILE:
		return p.parseWhileStatement()
	case TOKEN_FOR:
		return p.parseForStatement()
	case TOKEN_FORK:
		return p.parseForkStatement()
	case TOKEN_TRY:
		return p.parseTryStatement()
	case TOKEN_RETURN:
		return p.parseReturnStatement()
	case TOKEN_BREAK, TOKEN_CONTINUE:
		return p.parseJumpStatement()
	case TOKEN_SEMICOLON:
		// Empty statement
		pos := p.current.Position
		p.nextToken()
		return &ExprStmt{Pos: pos, Expr: nil}, nil
	default:
		return p.parseExpressionStatement()
	}
}

// parseCondition parses "( expr )" after if, elseif and while
func (p *Parser) parseCondition(keyword string) (Expr, error) {
	if err := p.expect(TOKEN_LPAREN, "'(' after '"+keyword+"'"); err != nil {
		return nil, err
	}
	cond, err := p.ParseExpression(PREC_LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOKEN_RPAREN, "')' after "+keyword+" condition"); err != nil {
		return nil, err
	}
	return cond, nil
}

// parseIfStatement parses if/elseif/else/endif
func (p *Parser) parseIfStatement() (Stmt, error) {
	stmt := &IfStmt{Pos: p.current.Position}
	p.nextToken() // consume 'if'

	var err error
	if stmt.Condition, err = p.parseCondition("if"); err != nil {
		return nil, err
	}
	if stmt.Body, err = p.parseBody(TOKEN_ELSEIF, TOKEN_ELSE, TOKEN_ENDIF); err != nil {
		return nil, err
	}

	for p.current.Type == TOKEN_ELSEIF {
		clause := &ElseIfClause{Pos: p.current.Position}
		p.nextToken() // consume 'elseif'
		if clause.Condition, err = p.parseCondition("elseif"); err != nil {
			return nil, err
		}
		if clause.Body, err = p.parseBody(TOKEN_ELSEIF, TOKEN_ELSE, TOKEN_ENDIF); err != nil {
			return nil, err
		}
		stmt.ElseIfs = append(stmt.ElseIfs, clause)
	}

	if p.current.Type == TOKEN_ELSE {
		p.nextToken() // consume 'else'
		if stmt.Else, err = p.parseBody(TOKEN_ENDIF); err != nil {
			return nil, err
		}
	}

	if err := p.expect(TOKEN_ENDIF, "'endif'"); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseWhileStatement parses while loops
func (p *Parser) parseWhileStatement() (Stmt, error) {
	stmt := &WhileStmt{Pos: p.current.Position}
	p.nextToken() // consume 'while'

	// Check for optional label
	if p.current.Type == TOKEN_IDENTIFIER && p.peek.Type == TOKEN_LPAREN {
		stmt.Label = p.current.Value
		p.nextToken()
	}

	var err error
	if stmt.Condition, err = p.parseCondition("while"); err != nil {
		return nil, err
	}
	if stmt.Body, err = p.parseBody(TOKEN_ENDWHILE); err != nil {
		return nil, err
	}
	if err := p.expect(TOKEN_ENDWHILE, "'endwhile'"); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseForStatement parses "for v[, i] in (expr)" and "for v in [a..b]"
func (p *Parser) parseForStatement() (Stmt, error) {
	stmt := &ForStmt{Pos: p.current.Position}
	p.nextToken() // consume 'for'

	if p.current.Type != TOKEN_IDENTIFIER {
		return nil, p.errorf("expected identifier in for loop")
	}
	stmt.Value = p.current.Value
	p.nextToken()

	if p.current.Type == TOKEN_COMMA {
		p.nextToken()
		if p.current.Type != TOKEN_IDENTIFIER {
			return nil, p.errorf("expected identifier after comma in for loop")
		}
		stmt.Index = p.current.Value
		p.nextToken()
	}

	if err := p.expect(TOKEN_IN, "'in' in for loop"); err != nil {
		return nil, err
	}

	var err error
	switch p.current.Type {
	case TOKEN_LBRACKET:
		p.nextToken()
		if stmt.RangeStart, err = p.ParseExpression(PREC_LOWEST); err != nil {
			return nil, err
		}
		if err := p.expect(TOKEN_RANGE, "'..' in range"); err != nil {
			return nil, err
		}
		if stmt.RangeEnd, err = p.ParseExpression(PREC_LOWEST); err != nil {
			return nil, err
		}
		if err := p.expect(TOKEN_RBRACKET, "']' after range"); err != nil {
			return nil, err
		}
	case TOKEN_LPAREN:
		p.nextToken()
		if stmt.Container, err = p.ParseExpression(PREC_LOWEST); err != nil {
			return nil, err
		}
		if err := p.expect(TOKEN_RPAREN, "')' after for container"); err != nil {
			return nil, err
		}
	default:
		return nil, p.errorf("expected '(' or '[' after 'in'")
	}

	if stmt.Body, err = p.parseBody(TOKEN_ENDFOR); err != nil {
		return nil, err
	}
	if err := p.expect(TOKEN_ENDFOR, "'endfor'"); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseForkStatement parses fork [varname] (delay) body endfork
func (p *Parser) parseForkStatement() (Stmt, error) {
	stmt := &ForkStmt{Pos: p.current.Position}
	p.nextToken() // consume 'fork'

	if p.current.Type == TOKEN_IDENTIFIER && p.peek.Type == TOKEN_LPAREN {
		stmt.VarName = p.current.Value
		p.nextToken()
	}

	var err error
	if stmt.Delay, err = p.parseCondition("fork"); err != nil {
		return nil, err
	}
	if stmt.Body, err = p.parseBody(TOKEN_ENDFORK); err != nil {
		return nil, err
	}
	if err := p.expect(TOKEN_ENDFORK, "'endfork'"); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseTryStatement parses try ... [except ...]* [finally ...] endtry
func (p *Parser) parseTryStatement() (Stmt, error) {
	stmt := &TryStmt{Pos: p.current.Position}
	p.nextToken() // consume 'try'

	var err error
	if stmt.Body, err = p.parseBody(TOKEN_EXCEPT, TOKEN_FINALLY, TOKEN_ENDTRY); err != nil {
		return nil, err
	}

	for p.current.Type == TOKEN_EXCEPT {
		clause := &ExceptClause{Pos: p.current.Position}
		p.nextToken() // consume 'except'

		if p.current.Type == TOKEN_IDENTIFIER {
			clause.Variable = p.current.Value
			p.nextToken()
		}
		if err := p.expect(TOKEN_LPAREN, "'(' after 'except'"); err != nil {
			return nil, err
		}
		if p.current.Type == TOKEN_ANY {
			p.nextToken()
		} else {
			for p.current.Type == TOKEN_IDENTIFIER {
				clause.Codes = append(clause.Codes, p.current.Value)
				p.nextToken()
				if p.current.Type != TOKEN_COMMA {
					break
				}
				p.nextToken()
			}
		}
		if err := p.expect(TOKEN_RPAREN, "')' after except codes"); err != nil {
			return nil, err
		}
		if clause.Body, err = p.parseBody(TOKEN_EXCEPT, TOKEN_FINALLY, TOKEN_ENDTRY); err != nil {
			return nil, err
		}
		stmt.Excepts = append(stmt.Excepts, clause)
	}

	if p.current.Type == TOKEN_FINALLY {
		p.nextToken()
		if stmt.Finally, err = p.parseBody(TOKEN_ENDTRY); err != nil {
			return nil, err
		}
		if stmt.Finally == nil {
			stmt.Finally = []Stmt{}
		}
	}

	if len(stmt.Excepts) == 0 && stmt.Finally == nil {
		return nil, p.errorf("expected 'except' or 'finally' in try statement")
	}
	if err := p.expect(TOKEN_ENDTRY, "'endtry'"); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseReturnStatement parses return statements
func (p *Parser) parseReturnStatement() (Stmt, error) {
	stmt := &ReturnStmt{Pos: p.current.Position}
	p.nextToken() // consume 'return'

	if p.current.Type != TOKEN_SEMICOLON && p.current.Type != TOKEN_EOF {
		value, err := p.ParseExpression(PREC_LOWEST)
		if err != nil {
			return nil, err
		}
		stmt.Value = value
	}

	if err := p.expect(TOKEN_SEMICOLON, "';' after return statement"); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseJumpStatement parses break and continue with an optional label
func (p *Parser) parseJumpStatement() (Stmt, error) {
	pos := p.current.Position
	isBreak := p.current.Type == TOKEN_BREAK
	p.nextToken()

	var label string
	if p.current.Type == TOKEN_IDENTIFIER {
		label = p.current.Value
		p.nextToken()
	}
	if err := p.expect(TOKEN_SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	if isBreak {
		return &BreakStmt{Pos: pos, Label: label}, nil
	}
	return &ContinueStmt{Pos: pos, Label: label}, nil
}

// parseExpressionStatement parses an expression statement
func (p *Parser) parseExpressionStatement() (Stmt, error) {
	pos := p.current.Position

	expr, err := p.ParseExpression(PREC_LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOKEN_SEMICOLON, "';' after expression statement"); err != nil {
		return nil, err
	}
	return &ExprStmt{Pos: pos, Expr: expr}, nil
}

// parseBody parses a sequence of statements until one of the terminators is reached
func (p *Parser) parseBody(terminators ...TokenType) ([]Stmt, error) {
	var body []Stmt

	for {
		isTerminator := false
		for _, term := range terminators {
			if p.current.Type == term {
				isTerminator = true
				break
			}
		}
		if isTerminator || p.current.Type == TOKEN_EOF {
			break
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}

	return body, nil
}
