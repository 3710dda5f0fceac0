package parser

import (
	"github.com/kevs-vm/kevs/ast"
	"github.com/kevs-vm/kevs/internal/token"
)

var binaryOperators = map[token.Type]bool{
	token.PLUS:     true,
	token.MINUS:    true,
	token.ASTERISK: true,
	token.SLASH:    true,
	token.CARET:    true,
}

var compareOperators = map[token.Type]bool{
	token.EQ:        true,
	token.NOT_EQ:    true,
	token.GT:        true,
	token.GT_EQUALS: true,
	token.LT:        true,
	token.LT_EQUALS: true,
}

// expression = term {operator term}
//
// The current token is the first token of the expression. On success the
// current token is its last token.
func (p *Parser) parseExpression() *ast.Node {
	start := p.curToken
	first := p.parseTerm()
	if first == nil {
		return nil
	}
	children := []*ast.Node{first}
	for binaryOperators[p.peekToken.Type] {
		p.nextToken()
		children = append(children, leaf(ast.Operator, p.curToken))
		p.nextToken()
		term := p.parseTerm()
		if term == nil {
			return nil
		}
		children = append(children, term)
	}
	return ast.New(ast.Expression, span(start, p.curToken), children...)
}

// term = value | ( expression )
func (p *Parser) parseTerm() *ast.Node {
	if !p.curTokenIs(token.LPAREN) {
		return p.parseValue()
	}
	start := p.curToken
	if !p.enter() {
		return nil
	}
	defer p.leave()
	p.nextToken()
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	if !p.expectPeek("parenthesized expression", token.RPAREN) {
		return nil
	}
	expr.Span = span(start, p.curToken)
	return expr
}

// value = number | ident | string | arrayElement | arrayLiteral
func (p *Parser) parseValue() *ast.Node {
	start := p.curToken
	var inner *ast.Node
	switch p.curToken.Type {
	case token.INT, token.MINUS:
		inner = p.parseNumber()
	case token.IDENT:
		if p.peekTokenIs(token.LBRACKET) {
			inner = p.parseArrayElement()
		} else {
			inner = leaf(ast.Ident, p.curToken)
		}
	case token.STRING:
		inner = leaf(ast.String, p.curToken)
	case token.LBRACKET:
		inner = p.parseArrayLiteral()
	case token.ILLEGAL:
		return nil
	default:
		return p.setTokenError(p.curToken, "unexpected %s (expected a value)", tokenDescription(p.curToken))
	}
	if inner == nil {
		return nil
	}
	return ast.New(ast.Value, span(start, p.curToken), inner)
}

// number = [-] digit+
func (p *Parser) parseNumber() *ast.Node {
	start := p.curToken
	if p.curTokenIs(token.MINUS) {
		if !p.expectPeek("number", token.INT) {
			return nil
		}
		return ast.Leaf(ast.Number, "-"+p.curToken.Literal, span(start, p.curToken))
	}
	if !p.curTokenIs(token.INT) {
		if p.curTokenIs(token.ILLEGAL) {
			return nil
		}
		return p.setTokenError(p.curToken, "unexpected %s (expected number)", tokenDescription(p.curToken))
	}
	return leaf(ast.Number, p.curToken)
}

// arrayElement = ident [ number ]
func (p *Parser) parseArrayElement() *ast.Node {
	start := p.curToken
	name := leaf(ast.Ident, p.curToken)
	if !p.expectPeek("array index", token.LBRACKET) {
		return nil
	}
	p.nextToken()
	index := p.parseNumber()
	if index == nil {
		return nil
	}
	if !p.expectPeek("array index", token.RBRACKET) {
		return nil
	}
	return ast.New(ast.ArrayElement, span(start, p.curToken), name, index)
}

// arrayLiteral = [ [number {, number}] ]
func (p *Parser) parseArrayLiteral() *ast.Node {
	start := p.curToken
	var items []*ast.Node
	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		return ast.New(ast.ArrayLiteral, span(start, p.curToken))
	}
	for {
		p.nextToken()
		item := p.parseNumber()
		if item == nil {
			return nil
		}
		items = append(items, item)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek("array literal", token.RBRACKET) {
		return nil
	}
	return ast.New(ast.ArrayLiteral, span(start, p.curToken), items...)
}

// comparison = expression compareOperator expression
func (p *Parser) parseComparison() *ast.Node {
	start := p.curToken
	left := p.parseExpression()
	if left == nil {
		return nil
	}
	if !compareOperators[p.peekToken.Type] {
		if p.peekTokenIs(token.ILLEGAL) {
			return nil
		}
		return p.setTokenError(p.peekToken, "unexpected %s while parsing comparison (expected a comparison operator)",
			tokenDescription(p.peekToken))
	}
	p.nextToken()
	operator := leaf(ast.CompareOperator, p.curToken)
	p.nextToken()
	right := p.parseExpression()
	if right == nil {
		return nil
	}
	return ast.New(ast.Comparison, span(start, p.curToken), left, operator, right)
}
