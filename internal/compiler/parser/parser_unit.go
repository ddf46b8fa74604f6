package parser

import (
	"github.com/pacedproton/mdslc/internal/compiler/ast"
	"github.com/pacedproton/mdslc/internal/compiler/lexer"
)

// parseUnit parses `UNIT <Identifier> { <field> (, <field>)* }`.
func (p *Parser) parseUnit() ast.Statement {
	start := p.advance() // UNIT
	nameTok := p.expect(lexer.TOKEN_IDENTIFIER, "expected a unit name")
	if p.err != nil {
		return nil
	}
	p.expect(lexer.TOKEN_LBRACE, "expected '{' after unit name")
	if p.err != nil {
		return nil
	}

	unit := &ast.UnitDecl{Name: nameTok.Lexeme}
	sawPrimaryKey := false

	for !p.check(lexer.TOKEN_RBRACE) && !p.isAtEnd() {
		fieldTok := p.peek()
		field := p.parseField()
		if p.err != nil {
			return nil
		}
		if field.IsPrimaryKey {
			if sawPrimaryKey {
				p.fail(fieldTok, "a unit may declare at most one PRIMARY KEY field")
				return nil
			}
			sawPrimaryKey = true
		}
		unit.Fields = append(unit.Fields, field)
		p.skipFieldSeparator()
	}

	end := p.expect(lexer.TOKEN_RBRACE, "expected '}' to close unit")
	if p.err != nil {
		return nil
	}
	unit.Span = ast.Span{Start: start.Pos, End: end.Pos}
	return unit
}

// parseField parses `<Identifier> : <FieldType> [PRIMARY KEY]`.
func (p *Parser) parseField() *ast.Field {
	nameTok := p.expect(lexer.TOKEN_IDENTIFIER, "expected a field name")
	if p.err != nil {
		return nil
	}
	p.expect(lexer.TOKEN_COLON, "expected ':' after field name")
	if p.err != nil {
		return nil
	}
	ft := p.parseFieldType()
	if p.err != nil {
		return nil
	}

	end := p.previous().Pos
	isPK := false
	if p.match(lexer.TOKEN_PRIMARY) {
		keyTok := p.expect(lexer.TOKEN_KEY, "expected 'KEY' after 'PRIMARY'")
		if p.err != nil {
			return nil
		}
		isPK = true
		end = keyTok.Pos
	}

	return &ast.Field{
		Name:         nameTok.Lexeme,
		Type:         ft,
		IsPrimaryKey: isPK,
		Span:         ast.Span{Start: nameTok.Pos, End: end},
	}
}

// parseFieldType parses `ID | TEXT('(' number ')')? | NUMBER | BOOLEAN |
// CATEGORY '(' string (, string)* ')'`.
func (p *Parser) parseFieldType() ast.FieldType {
	switch p.peek().Type {
	case lexer.TOKEN_ID:
		p.advance()
		return ast.FieldType{Kind: ast.FieldTypeID}

	case lexer.TOKEN_TEXT:
		p.advance()
		ft := ast.FieldType{Kind: ast.FieldTypeText}
		if p.match(lexer.TOKEN_LPAREN) {
			numTok := p.expect(lexer.TOKEN_NUMBER, "expected a length inside TEXT(...)")
			if p.err != nil {
				return ft
			}
			length, _ := parseNumberLiteralInt(numTok)
			ft.TextLength = &length
			p.expect(lexer.TOKEN_RPAREN, "expected ')' after TEXT length")
			if p.err != nil {
				return ft
			}
		}
		return ft

	case lexer.TOKEN_NUMBER_KW:
		p.advance()
		return ast.FieldType{Kind: ast.FieldTypeNumber}

	case lexer.TOKEN_BOOLEAN:
		p.advance()
		return ast.FieldType{Kind: ast.FieldTypeBoolean}

	case lexer.TOKEN_CATEGORY:
		p.advance()
		ft := ast.FieldType{Kind: ast.FieldTypeCategory}
		p.expect(lexer.TOKEN_LPAREN, "expected '(' after CATEGORY")
		if p.err != nil {
			return ft
		}
		for {
			strTok := p.expect(lexer.TOKEN_STRING, "expected a string value inside CATEGORY(...)")
			if p.err != nil {
				return ft
			}
			ft.CategoryValues = append(ft.CategoryValues, strTok.Literal.(string))
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
		p.expect(lexer.TOKEN_RPAREN, "expected ')' to close CATEGORY(...)")
		return ft

	default:
		p.fail(p.peek(), "expected a field type", "ID", "TEXT", "NUMBER", "BOOLEAN", "CATEGORY")
		return ast.FieldType{}
	}
}
