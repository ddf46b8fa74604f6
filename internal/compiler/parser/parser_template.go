package parser

import (
	"github.com/pacedproton/mdslc/internal/compiler/ast"
	"github.com/pacedproton/mdslc/internal/compiler/lexer"
)

// parseTemplate parses `TEMPLATE <kind> <Identifier> { <outletBlock>* }`.
// Template bodies are recorded but never inlined by the core.
func (p *Parser) parseTemplate() ast.Statement {
	start := p.advance() // TEMPLATE
	kindTok := p.expect(lexer.TOKEN_IDENTIFIER, "expected a template kind")
	if p.err != nil {
		return nil
	}
	nameTok := p.expect(lexer.TOKEN_IDENTIFIER, "expected a template name")
	if p.err != nil {
		return nil
	}
	p.expect(lexer.TOKEN_LBRACE, "expected '{' after template name")
	if p.err != nil {
		return nil
	}

	tmpl := &ast.TemplateDecl{Name: nameTok.Lexeme, Kind: kindTok.Lexeme}

	for !p.check(lexer.TOKEN_RBRACE) && !p.isAtEnd() {
		block := p.parseOutletBlock()
		if p.err != nil {
			return nil
		}
		tmpl.Blocks = append(tmpl.Blocks, block)
	}

	end := p.expect(lexer.TOKEN_RBRACE, "expected '}' to close template")
	if p.err != nil {
		return nil
	}
	tmpl.Span = ast.Span{Start: start.Pos, End: end.Pos}
	return tmpl
}
