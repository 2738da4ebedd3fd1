package parser

import (
	"strconv"

	"github.com/IsVohi/ByteCode-Compiler/ast"
	"github.com/IsVohi/ByteCode-Compiler/internal/token"
)

// parseExpression parses an expression using precedence climbing. The
// current token is the first token of the expression on entry and the
// last token of the expression on exit.
func (p *Parser) parseExpression(precedence int) (ast.Expr, error) {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		return nil, p.tokenError(p.curToken, "unexpected %s", describe(p.curToken))
	}
	left, err := prefix()
	if err != nil {
		return nil, err
	}
	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left, nil
		}
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		left, err = infix(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseInt() (ast.Expr, error) {
	value, err := strconv.ParseInt(p.curToken.Literal, 10, 32)
	if err != nil {
		return nil, p.tokenError(p.curToken, "invalid integer literal %q", p.curToken.Literal)
	}
	return &ast.Int{Tok: p.curToken, Value: int32(value)}, nil
}

func (p *Parser) parseString() (ast.Expr, error) {
	return &ast.String{Tok: p.curToken, Value: p.curToken.Literal}, nil
}

// parseIdent parses an identifier or, when followed by "(", a call
// expression. Functions are first-order: only a name can be called.
func (p *Parser) parseIdent() (ast.Expr, error) {
	tok := p.curToken
	if !p.peekTokenIs(token.LPAREN) {
		return &ast.Ident{Tok: tok, Name: tok.Literal}, nil
	}
	if err := p.nextToken(); err != nil { // consume "("
		return nil, err
	}
	var args []ast.Expr
	if p.peekTokenIs(token.RPAREN) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		return &ast.Call{Tok: tok, Name: tok.Literal, Args: args}, nil
	}
	for {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		arg, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}
	if err := p.expectPeek("call arguments", token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.Call{Tok: tok, Name: tok.Literal, Args: args}, nil
}

func (p *Parser) parsePrefixExpr() (ast.Expr, error) {
	tok := p.curToken
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	operand, err := p.parseExpression(PREFIX)
	if err != nil {
		return nil, err
	}
	return &ast.Prefix{Tok: tok, Op: tok.Literal, X: operand}, nil
}

func (p *Parser) parseInfixExpr(left ast.Expr) (ast.Expr, error) {
	tok := p.curToken
	precedence := p.curPrecedence()
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	right, err := p.parseExpression(precedence)
	if err != nil {
		return nil, err
	}
	return &ast.Infix{Tok: tok, X: left, Op: tok.Literal, Y: right}, nil
}

func (p *Parser) parseGroupedExpr() (ast.Expr, error) {
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek("parenthesized expression", token.RPAREN); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseArrayLiteral parses "[e0, e1, ...]". Elements are comma-separated
// with no trailing comma.
func (p *Parser) parseArrayLiteral() (ast.Expr, error) {
	tok := p.curToken
	var elements []ast.Expr
	if p.peekTokenIs(token.RBRACKET) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		return &ast.Array{Tok: tok, Elements: elements}, nil
	}
	for {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		element, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		elements = append(elements, element)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}
	if err := p.expectPeek("array literal", token.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.Array{Tok: tok, Elements: elements}, nil
}

func (p *Parser) parseIndexExpr(left ast.Expr) (ast.Expr, error) {
	tok := p.curToken
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	index, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek("index expression", token.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.Index{Tok: tok, Target: left, Index: index}, nil
}
