package parser

import (
	"github.com/pacedproton/mdslc/internal/compiler/ast"
	"github.com/pacedproton/mdslc/internal/compiler/lexer"
)

// parseVocabulary parses `VOCABULARY <Identifier> { CODES { <entry>* } }`.
func (p *Parser) parseVocabulary() ast.Statement {
	start := p.advance() // VOCABULARY
	nameTok := p.expect(lexer.TOKEN_IDENTIFIER, "expected a vocabulary name")
	if p.err != nil {
		return nil
	}
	p.expect(lexer.TOKEN_LBRACE, "expected '{' after vocabulary name")
	if p.err != nil {
		return nil
	}

	bodyTok := p.expect(lexer.TOKEN_CODES, "expected 'CODES' block")
	if p.err != nil {
		return nil
	}
	p.expect(lexer.TOKEN_LBRACE, "expected '{' after CODES")
	if p.err != nil {
		return nil
	}

	voc := &ast.VocabularyDecl{Name: nameTok.Lexeme, BodyName: bodyTok.Lexeme}

	for !p.check(lexer.TOKEN_RBRACE) && !p.isAtEnd() {
		entry := p.parseVocabularyEntry()
		if p.err != nil {
			return nil
		}
		voc.Entries = append(voc.Entries, entry)
		p.skipFieldSeparator()
	}

	p.expect(lexer.TOKEN_RBRACE, "expected '}' to close CODES")
	if p.err != nil {
		return nil
	}
	end := p.expect(lexer.TOKEN_RBRACE, "expected '}' to close vocabulary")
	if p.err != nil {
		return nil
	}

	voc.Span = ast.Span{Start: start.Pos, End: end.Pos}
	return voc
}

// parseVocabularyEntry parses `<key>: <string>` where key is a number or
// string literal.
func (p *Parser) parseVocabularyEntry() *ast.VocabularyEntry {
	keyTok := p.peek()
	entry := &ast.VocabularyEntry{}

	switch keyTok.Type {
	case lexer.TOKEN_NUMBER:
		p.advance()
		entry.KeyKind = ast.VocabKeyNumber
		entry.KeyNumber = keyTok.Literal.(float64)
	case lexer.TOKEN_STRING:
		p.advance()
		entry.KeyKind = ast.VocabKeyString
		entry.KeyString = keyTok.Literal.(string)
	default:
		p.fail(keyTok, "expected a vocabulary key (number or string)", "NUMBER", "STRING")
		return nil
	}

	p.expect(lexer.TOKEN_COLON, "expected ':' after vocabulary key")
	if p.err != nil {
		return nil
	}
	valueTok := p.expect(lexer.TOKEN_STRING, "expected a string value")
	if p.err != nil {
		return nil
	}

	entry.Value = valueTok.Literal.(string)
	entry.Span = ast.Span{Start: keyTok.Pos, End: valueTok.Pos}
	return entry
}
