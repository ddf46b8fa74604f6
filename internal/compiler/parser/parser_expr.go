package parser

import (
	"github.com/pacedproton/mdslc/internal/compiler/ast"
	"github.com/pacedproton/mdslc/internal/compiler/lexer"
)

// parseExpression parses a String, Number, Boolean, VariableRef, Object,
// or Array expression.
func (p *Parser) parseExpression() ast.Expression {
	switch p.peek().Type {
	case lexer.TOKEN_STRING:
		tok := p.advance()
		return &ast.StringLit{Value: tok.Literal.(string), Span: ast.Span{Start: tok.Pos, End: tok.Pos}}
	case lexer.TOKEN_NUMBER:
		tok := p.advance()
		return &ast.NumberLit{
			Value:           tok.Literal.(float64),
			HasDecimalPoint: numberHasDecimalPoint(tok.Lexeme),
			Span:            ast.Span{Start: tok.Pos, End: tok.Pos},
		}
	case lexer.TOKEN_TRUE:
		tok := p.advance()
		return &ast.BoolLit{Value: true, Span: ast.Span{Start: tok.Pos, End: tok.Pos}}
	case lexer.TOKEN_FALSE:
		tok := p.advance()
		return &ast.BoolLit{Value: false, Span: ast.Span{Start: tok.Pos, End: tok.Pos}}
	case lexer.TOKEN_LBRACE:
		return p.parseObjectExpr()
	case lexer.TOKEN_LBRACKET:
		return p.parseArrayExpr()
	case lexer.TOKEN_IDENTIFIER:
		tok := p.advance()
		return &ast.VariableRef{Name: tok.Lexeme, Span: ast.Span{Start: tok.Pos, End: tok.Pos}}
	default:
		p.fail(p.peek(), "expected an expression", "STRING", "NUMBER", "TRUE", "FALSE", "{", "[", "IDENTIFIER")
		return nil
	}
}

func (p *Parser) parseObjectExpr() ast.Expression {
	start := p.advance() // {
	obj := &ast.ObjectExpr{}

	for !p.check(lexer.TOKEN_RBRACE) && !p.isAtEnd() {
		field := p.parseObjectField()
		if p.err != nil {
			return nil
		}
		obj.Fields = append(obj.Fields, field)
		p.skipFieldSeparator()
	}

	end := p.expect(lexer.TOKEN_RBRACE, "expected '}' to close object")
	if p.err != nil {
		return nil
	}
	obj.Span = ast.Span{Start: start.Pos, End: end.Pos}
	return obj
}

func (p *Parser) parseObjectField() *ast.ObjectField {
	nameTok := p.expect(lexer.TOKEN_IDENTIFIER, "expected a field name")
	if p.err != nil {
		return nil
	}
	p.expect(lexer.TOKEN_EQUALS, "expected '=' after field name")
	if p.err != nil {
		return nil
	}
	value := p.parseExpression()
	if p.err != nil {
		return nil
	}
	return &ast.ObjectField{
		Name:  nameTok.Lexeme,
		Value: value,
		Span:  ast.Span{Start: nameTok.Pos, End: value.Location().End},
	}
}

func (p *Parser) parseArrayExpr() ast.Expression {
	start := p.advance() // [
	arr := &ast.ArrayExpr{}

	for !p.check(lexer.TOKEN_RBRACKET) && !p.isAtEnd() {
		elem := p.parseExpression()
		if p.err != nil {
			return nil
		}
		arr.Elements = append(arr.Elements, elem)
		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}

	end := p.expect(lexer.TOKEN_RBRACKET, "expected ']' to close array")
	if p.err != nil {
		return nil
	}
	arr.Span = ast.Span{Start: start.Pos, End: end.Pos}
	return arr
}

// parseKeyValue parses a `name = expression` pair, the common shape used
// inside identity/characteristics/metadata/lifecycle-status/relationship
// bodies.
func (p *Parser) parseKeyValue() *ast.KeyValue {
	nameTok := p.expect(lexer.TOKEN_IDENTIFIER, "expected a field name")
	if p.err != nil {
		return nil
	}
	p.expect(lexer.TOKEN_EQUALS, "expected '=' after field name")
	if p.err != nil {
		return nil
	}
	value := p.parseExpression()
	if p.err != nil {
		return nil
	}
	return &ast.KeyValue{
		Name:  nameTok.Lexeme,
		Value: value,
		Span:  ast.Span{Start: nameTok.Pos, End: value.Location().End},
	}
}

// parseKeyValueList parses a brace-delimited list of `kv` pairs, each
// separated by ',' or ';' (interchangeable, trailing separator allowed).
func (p *Parser) parseKeyValueList() ([]*ast.KeyValue, lexer.Token, lexer.Token) {
	start := p.expect(lexer.TOKEN_LBRACE, "expected '{'")
	if p.err != nil {
		return nil, lexer.Token{}, lexer.Token{}
	}

	var kvs []*ast.KeyValue
	for !p.check(lexer.TOKEN_RBRACE) && !p.isAtEnd() {
		kv := p.parseKeyValue()
		if p.err != nil {
			return nil, lexer.Token{}, lexer.Token{}
		}
		kvs = append(kvs, kv)
		p.skipFieldSeparator()
	}

	end := p.expect(lexer.TOKEN_RBRACE, "expected '}' to close block")
	if p.err != nil {
		return nil, lexer.Token{}, lexer.Token{}
	}
	return kvs, start, end
}

// numberHasDecimalPoint reports whether a numeric lexeme's source
// spelling had a '.' or exponent, so back-ends can preserve
// integer-ness.
func numberHasDecimalPoint(lexeme string) bool {
	for _, r := range lexeme {
		if r == '.' || r == 'e' || r == 'E' {
			return true
		}
	}
	return false
}
