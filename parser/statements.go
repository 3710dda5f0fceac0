package parser

import (
	"github.com/kevs-vm/kevs/ast"
	"github.com/kevs-vm/kevs/internal/token"
)

// parseStatement parses the statement starting at the current token. On
// success the current token is the last token of the statement.
func (p *Parser) parseStatement() *ast.Node {
	switch p.curToken.Type {
	case token.FN:
		return p.parseFunctionDefinition()
	case token.LOAD:
		return p.parseLoad()
	case token.IF:
		return p.parseConditional(ast.IfStatement, "if statement")
	case token.WHILE:
		return p.parseConditional(ast.WhileLoop, "while loop")
	case token.IDENT:
		switch p.peekToken.Type {
		case token.LPAREN:
			return p.parseFunctionCall()
		case token.LBRACKET:
			return p.parseArrayAssignment()
		case token.ASSIGN:
			return p.parseAssignment()
		}
		if p.peekTokenIs(token.ILLEGAL) {
			return nil
		}
		return p.setTokenError(p.peekToken, "unexpected %s after %s (expected =, [ or ()",
			tokenDescription(p.peekToken), p.curToken.Literal)
	case token.ILLEGAL:
		return nil
	}
	return p.setTokenError(p.curToken, "invalid syntax (unexpected %s)", tokenDescription(p.curToken))
}

// ident = expression ;
func (p *Parser) parseAssignment() *ast.Node {
	start := p.curToken
	name := leaf(ast.Ident, p.curToken)
	p.nextToken() // =
	p.nextToken()
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	if !p.expectPeek("assignment", token.SEMICOLON) {
		return nil
	}
	return ast.New(ast.Assignment, span(start, p.curToken), name, expr)
}

// ident [ number ] = expression ;
func (p *Parser) parseArrayAssignment() *ast.Node {
	start := p.curToken
	element := p.parseArrayElement()
	if element == nil {
		return nil
	}
	if !p.expectPeek("array assignment", token.ASSIGN) {
		return nil
	}
	p.nextToken()
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	if !p.expectPeek("array assignment", token.SEMICOLON) {
		return nil
	}
	return ast.New(ast.ArrayAssignment, span(start, p.curToken), element, expr)
}

// ident ( [expression {, expression}] ) ;
func (p *Parser) parseFunctionCall() *ast.Node {
	start := p.curToken
	name := leaf(ast.Ident, p.curToken)
	p.nextToken() // (
	open := p.curToken
	var args []*ast.Node
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
	} else {
		for {
			p.nextToken()
			arg := p.parseExpression()
			if arg == nil {
				return nil
			}
			args = append(args, arg)
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
		if !p.expectPeek("function call", token.RPAREN) {
			return nil
		}
	}
	argsNode := ast.New(ast.Args, span(open, p.curToken), args...)
	if !p.expectPeek("function call", token.SEMICOLON) {
		return nil
	}
	return ast.New(ast.FunctionCall, span(start, p.curToken), name, argsNode)
}

// (if | while) ( comparison ) block
func (p *Parser) parseConditional(rule ast.Rule, context string) *ast.Node {
	start := p.curToken
	if !p.expectPeek(context, token.LPAREN) {
		return nil
	}
	p.nextToken()
	cmp := p.parseComparison()
	if cmp == nil {
		return nil
	}
	if !p.expectPeek(context, token.RPAREN) {
		return nil
	}
	if !p.expectPeek(context, token.LBRACE) {
		return nil
	}
	block := p.parseBlock()
	if block == nil {
		return nil
	}
	return ast.New(rule, span(start, p.curToken), cmp, block)
}

// fn ident ( [ident {, ident}] ) block
func (p *Parser) parseFunctionDefinition() *ast.Node {
	start := p.curToken
	if !p.expectPeek("function definition", token.IDENT) {
		return nil
	}
	name := leaf(ast.Ident, p.curToken)
	if !p.expectPeek("function definition", token.LPAREN) {
		return nil
	}
	open := p.curToken
	var params []*ast.Node
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
	} else {
		for {
			if !p.expectPeek("function parameters", token.IDENT) {
				return nil
			}
			for _, seen := range params {
				if seen.Text == p.curToken.Literal {
					return p.setTokenError(p.curToken, "duplicate parameter %s", p.curToken.Literal)
				}
			}
			params = append(params, leaf(ast.Ident, p.curToken))
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
		if !p.expectPeek("function parameters", token.RPAREN) {
			return nil
		}
	}
	paramsNode := ast.New(ast.Params, span(open, p.curToken), params...)
	if !p.expectPeek("function definition", token.LBRACE) {
		return nil
	}
	block := p.parseBlock()
	if block == nil {
		return nil
	}
	if len(params) == 0 {
		return ast.New(ast.FunctionDefinitionNoArgs, span(start, p.curToken), name, block)
	}
	return ast.New(ast.FunctionDefinition, span(start, p.curToken), name, paramsNode, block)
}

// load ident ;
func (p *Parser) parseLoad() *ast.Node {
	start := p.curToken
	if !p.expectPeek("load", token.IDENT) {
		return nil
	}
	name := leaf(ast.Ident, p.curToken)
	if !p.expectPeek("load", token.SEMICOLON) {
		return nil
	}
	return ast.New(ast.Load, span(start, p.curToken), name)
}

// { statement* }
//
// The current token is the opening brace. Statement errors inside the block
// are recovered from locally so later statements are still checked.
func (p *Parser) parseBlock() *ast.Node {
	start := p.curToken
	if !p.enter() {
		return nil
	}
	defer p.leave()
	p.nextToken()
	var statements []*ast.Node
	failed := false
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			return p.setTokenError(start, "unterminated block (missing })")
		}
		if p.tooManyErrors() {
			return nil
		}
		stmt := p.parseStatement()
		if stmt != nil {
			statements = append(statements, stmt)
		} else {
			failed = true
			p.synchronize()
			if p.curTokenIs(token.RBRACE) {
				break
			}
		}
		p.nextToken()
	}
	if failed {
		return nil
	}
	return ast.New(ast.Block, span(start, p.curToken), statements...)
}
