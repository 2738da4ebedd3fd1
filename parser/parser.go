// Package parser is used to generate the abstract syntax tree (AST) for
// a program. Statements and function declarations are parsed by
// recursive descent; expressions use Pratt-style precedence climbing.
//
// A parser is created by calling New with a lexer as input and should be
// used once, by calling Parse. All parse errors are fatal: the first
// error aborts parsing with no recovery.
package parser

import (
	"github.com/IsVohi/ByteCode-Compiler/ast"
	"github.com/IsVohi/ByteCode-Compiler/errz"
	"github.com/IsVohi/ByteCode-Compiler/internal/lexer"
	"github.com/IsVohi/ByteCode-Compiler/internal/token"
)

type (
	prefixParseFn func() (ast.Expr, error)
	infixParseFn  func(ast.Expr) (ast.Expr, error)
)

// Parse is a shorthand that creates a Lexer and Parser for the input and
// returns the program AST.
func Parse(input string) (*ast.Program, error) {
	return New(lexer.New(input)).Parse()
}

// Parser transforms a token stream into a Program.
type Parser struct {
	l *lexer.Lexer

	// curToken is the token under examination and peekToken the next
	// one. The lexer is consumed lazily, one token ahead.
	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New returns a Parser reading from the given lexer.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:              l,
		prefixParseFns: map[token.Type]prefixParseFn{},
		infixParseFns:  map[token.Type]infixParseFn{},
	}

	p.registerPrefix(token.INT, p.parseInt)
	p.registerPrefix(token.STRING, p.parseString)
	p.registerPrefix(token.IDENT, p.parseIdent)
	p.registerPrefix(token.MINUS, p.parsePrefixExpr)
	p.registerPrefix(token.BANG, p.parsePrefixExpr)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)

	p.registerInfix(token.PLUS, p.parseInfixExpr)
	p.registerInfix(token.MINUS, p.parseInfixExpr)
	p.registerInfix(token.ASTERISK, p.parseInfixExpr)
	p.registerInfix(token.SLASH, p.parseInfixExpr)
	p.registerInfix(token.MOD, p.parseInfixExpr)
	p.registerInfix(token.EQ, p.parseInfixExpr)
	p.registerInfix(token.NOT_EQ, p.parseInfixExpr)
	p.registerInfix(token.LT, p.parseInfixExpr)
	p.registerInfix(token.LT_EQ, p.parseInfixExpr)
	p.registerInfix(token.GT, p.parseInfixExpr)
	p.registerInfix(token.GT_EQ, p.parseInfixExpr)
	p.registerInfix(token.AND, p.parseInfixExpr)
	p.registerInfix(token.OR, p.parseInfixExpr)
	p.registerInfix(token.LBRACKET, p.parseIndexExpr)

	return p
}

// Parse consumes the token stream and returns the program AST. Items are
// function declarations and statements in source order.
func (p *Parser) Parse() (*ast.Program, error) {
	// Prime the token pump
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	var items []ast.Node
	for !p.curTokenIs(token.EOF) {
		var item ast.Node
		var err error
		if p.curTokenIs(token.FUNCTION) {
			item, err = p.parseFunction()
		} else {
			item, err = p.parseStatement()
		}
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}
	return &ast.Program{Items: items}, nil
}

func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.Type, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// nextToken advances curToken and peekToken by one token. Lexer errors
// propagate as-is, keeping their lexer category.
func (p *Parser) nextToken() error {
	var err error
	p.curToken = p.peekToken
	p.peekToken, err = p.l.Next()
	return err
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// expectPeek advances if the next token has the given type and fails
// with a parse error otherwise.
func (p *Parser) expectPeek(context string, t token.Type) error {
	if !p.peekTokenIs(t) {
		return p.tokenError(p.peekToken, "unexpected %s while parsing %s (expected %q)",
			describe(p.peekToken), context, string(t))
	}
	return p.nextToken()
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) tokenError(tok token.Token, format string, args ...interface{}) error {
	return errz.NewAt(errz.Parser, tok.Line, tok.Column, format, args...)
}

// describe returns a human friendly description of a token for error
// messages.
func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.INT:
		return "number " + tok.Literal
	case token.STRING:
		return "string"
	default:
		return "token \"" + tok.Literal + "\""
	}
}
