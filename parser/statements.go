package parser

import (
	"github.com/IsVohi/ByteCode-Compiler/ast"
	"github.com/IsVohi/ByteCode-Compiler/internal/token"
)

// parseFunction parses a top-level function declaration. The current
// token is the "fn" keyword on entry and the closing "}" on exit.
func (p *Parser) parseFunction() (*ast.Func, error) {
	tok := p.curToken
	if err := p.expectPeek("function declaration", token.IDENT); err != nil {
		return nil, err
	}
	name := &ast.Ident{Tok: p.curToken, Name: p.curToken.Literal}

	if err := p.expectPeek("function declaration", token.LPAREN); err != nil {
		return nil, err
	}
	var params []*ast.Ident
	if p.peekTokenIs(token.RPAREN) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	} else {
		for {
			if err := p.expectPeek("parameter list", token.IDENT); err != nil {
				return nil, err
			}
			params = append(params, &ast.Ident{Tok: p.curToken, Name: p.curToken.Literal})
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			if err := p.nextToken(); err != nil {
				return nil, err
			}
		}
		if err := p.expectPeek("parameter list", token.RPAREN); err != nil {
			return nil, err
		}
	}

	if err := p.expectPeek("function body", token.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Func{Tok: tok, Name: name, Params: params, Body: body}, nil
}

// parseBlock parses a braced statement sequence. The current token is
// "{" on entry and "}" on exit.
func (p *Parser) parseBlock() (*ast.Block, error) {
	tok := p.curToken
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	var stmts []ast.Node
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			return nil, p.tokenError(tok, "unterminated block (missing \"}\")")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}
	return &ast.Block{Tok: tok, Stmts: stmts}, nil
}

// parseStatement parses one statement, dispatching on the leading token.
// The current token is the first token of the statement on entry and the
// last token of the statement (";" or "}") on exit.
func (p *Parser) parseStatement() (ast.Node, error) {
	switch p.curToken.Type {
	case token.LET:
		return p.parseLet()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.BREAK:
		tok := p.curToken
		if err := p.expectPeek("break statement", token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.Break{Tok: tok}, nil
	case token.CONTINUE:
		tok := p.curToken
		if err := p.expectPeek("continue statement", token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.Continue{Tok: tok}, nil
	case token.RETURN:
		return p.parseReturn()
	case token.PRINT:
		return p.parsePrint()
	case token.LBRACE:
		return p.parseBlock()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLet() (ast.Node, error) {
	stmt, err := p.parseLetClause()
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek("let statement", token.SEMICOLON); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseLetClause parses "let NAME = expr" without the trailing
// semicolon, so it can serve both statements and for-loop init clauses.
func (p *Parser) parseLetClause() (*ast.Var, error) {
	tok := p.curToken
	if err := p.expectPeek("let statement", token.IDENT); err != nil {
		return nil, err
	}
	name := &ast.Ident{Tok: p.curToken, Name: p.curToken.Literal}
	if err := p.expectPeek("let statement", token.ASSIGN); err != nil {
		return nil, err
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	return &ast.Var{Tok: tok, Name: name, Value: value}, nil
}

func (p *Parser) parseIf() (ast.Node, error) {
	tok := p.curToken
	if err := p.expectPeek("if statement", token.LPAREN); err != nil {
		return nil, err
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek("if statement", token.RPAREN); err != nil {
		return nil, err
	}
	if err := p.expectPeek("if statement", token.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if p.peekTokenIs(token.ELSE) {
		return nil, p.tokenError(p.peekToken, "else branches are not supported")
	}
	return &ast.If{Tok: tok, Cond: cond, Body: body}, nil
}

func (p *Parser) parseWhile() (ast.Node, error) {
	tok := p.curToken
	if err := p.expectPeek("while statement", token.LPAREN); err != nil {
		return nil, err
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek("while statement", token.RPAREN); err != nil {
		return nil, err
	}
	if err := p.expectPeek("while statement", token.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.While{Tok: tok, Cond: cond, Body: body}, nil
}

// parseFor parses "for (init?; cond?; step?) { ... }". Each of the three
// header clauses is optional. The init clause may be a let, an
// assignment, or an expression; the step clause may be an assignment or
// an expression.
func (p *Parser) parseFor() (ast.Node, error) {
	tok := p.curToken
	if err := p.expectPeek("for statement", token.LPAREN); err != nil {
		return nil, err
	}

	var init ast.Node
	if p.peekTokenIs(token.SEMICOLON) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	} else {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		var err error
		init, err = p.parseForInit()
		if err != nil {
			return nil, err
		}
	}

	var cond ast.Expr
	if p.peekTokenIs(token.SEMICOLON) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	} else {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		var err error
		cond, err = p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		if err := p.expectPeek("for condition", token.SEMICOLON); err != nil {
			return nil, err
		}
	}

	var step ast.Node
	if p.peekTokenIs(token.RPAREN) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	} else {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		var err error
		step, err = p.parseForStep()
		if err != nil {
			return nil, err
		}
		if err := p.expectPeek("for step", token.RPAREN); err != nil {
			return nil, err
		}
	}

	if err := p.expectPeek("for body", token.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.For{Tok: tok, Init: init, Cond: cond, Step: step, Body: body}, nil
}

// parseForInit parses the init clause including its terminating
// semicolon, leaving the current token on the ";".
func (p *Parser) parseForInit() (ast.Node, error) {
	if p.curTokenIs(token.LET) {
		stmt, err := p.parseLetClause()
		if err != nil {
			return nil, err
		}
		if err := p.expectPeek("for init", token.SEMICOLON); err != nil {
			return nil, err
		}
		return stmt, nil
	}
	node, err := p.parseAssignOrExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek("for init", token.SEMICOLON); err != nil {
		return nil, err
	}
	return node, nil
}

// parseForStep parses the step clause without consuming the closing ")".
func (p *Parser) parseForStep() (ast.Node, error) {
	return p.parseAssignOrExpr()
}

// parseAssignOrExpr parses either "name = expr", "target[index] = expr",
// or a bare expression, leaving the current token on the last expression
// token.
func (p *Parser) parseAssignOrExpr() (ast.Node, error) {
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if !p.peekTokenIs(token.ASSIGN) {
		return expr, nil
	}
	if err := p.nextToken(); err != nil { // consume "="
		return nil, err
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	return p.makeAssignment(expr, value)
}

func (p *Parser) parseReturn() (ast.Node, error) {
	tok := p.curToken
	if p.peekTokenIs(token.SEMICOLON) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		return &ast.Return{Tok: tok}, nil
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek("return statement", token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.Return{Tok: tok, Value: value}, nil
}

func (p *Parser) parsePrint() (ast.Node, error) {
	tok := p.curToken
	if err := p.expectPeek("print statement", token.LPAREN); err != nil {
		return nil, err
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek("print statement", token.RPAREN); err != nil {
		return nil, err
	}
	if err := p.expectPeek("print statement", token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.Print{Tok: tok, Value: value}, nil
}

// parseExpressionStatement parses an expression in statement position.
// If the expression is followed by "=", it must be a valid assignment
// target: an identifier or an index expression.
func (p *Parser) parseExpressionStatement() (ast.Node, error) {
	node, err := p.parseAssignOrExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek("statement", token.SEMICOLON); err != nil {
		return nil, err
	}
	return node, nil
}

// makeAssignment converts a parsed left-hand side expression and value
// into an assignment node, rejecting invalid targets.
func (p *Parser) makeAssignment(target ast.Expr, value ast.Expr) (ast.Node, error) {
	switch target := target.(type) {
	case *ast.Ident:
		return &ast.Assign{Tok: target.Tok, Name: target, Value: value}, nil
	case *ast.Index:
		return &ast.SetIndex{
			Tok:    target.Tok,
			Target: target.Target,
			Index:  target.Index,
			Value:  value,
		}, nil
	default:
		return nil, p.tokenError(target.Token(), "invalid assignment target")
	}
}
