package parser

import (
	"github.com/pacedproton/mdslc/internal/compiler/ast"
	"github.com/pacedproton/mdslc/internal/compiler/lexer"
)

// parseFamily parses `FAMILY <string> { <FamilyItem>* }`.
func (p *Parser) parseFamily() ast.Statement {
	start := p.advance() // FAMILY
	nameTok := p.expect(lexer.TOKEN_STRING, "expected a family name string")
	if p.err != nil {
		return nil
	}
	p.expect(lexer.TOKEN_LBRACE, "expected '{' after family name")
	if p.err != nil {
		return nil
	}

	fam := &ast.FamilyDecl{Name: nameTok.Literal.(string)}

	for !p.check(lexer.TOKEN_RBRACE) && !p.isAtEnd() {
		item := p.parseFamilyItem()
		if p.err != nil {
			return nil
		}
		fam.Items = append(fam.Items, item)
	}

	end := p.expect(lexer.TOKEN_RBRACE, "expected '}' to close family")
	if p.err != nil {
		return nil
	}
	fam.Span = ast.Span{Start: start.Pos, End: end.Pos}
	return fam
}

// parseFamilyItem dispatches on Outlet, DiachronicLink, SynchronousLink(s),
// or Data.
func (p *Parser) parseFamilyItem() ast.FamilyItem {
	switch p.peek().Type {
	case lexer.TOKEN_OUTLET:
		return p.parseOutlet()
	case lexer.TOKEN_DIACHRONIC_LINK:
		return p.parseDiachronicLink()
	case lexer.TOKEN_SYNCHRONOUS_LINK, lexer.TOKEN_SYNCHRONOUS_LINKS:
		return p.parseSynchronousLink()
	case lexer.TOKEN_DATA:
		return p.parseDataBlock()
	default:
		p.fail(p.peek(), "expected a family item", "OUTLET", "DIACHRONIC_LINK", "SYNCHRONOUS_LINK", "DATA")
		return nil
	}
}

// parseOutlet parses `OUTLET <string> [EXTENDS <Identifier>] [BASED_ON
// <number>] { <outletBlock>* }`. EXTENDS and BASED_ON are contextual
// identifiers, not lexer keywords.
func (p *Parser) parseOutlet() ast.FamilyItem {
	start := p.advance() // OUTLET
	nameTok := p.expect(lexer.TOKEN_STRING, "expected an outlet name string")
	if p.err != nil {
		return nil
	}

	outlet := &ast.OutletDecl{Name: nameTok.Literal.(string)}

	if p.checkIdentifierText(lexer.ContextualExtends) {
		p.advance()
		refTok := p.expect(lexer.TOKEN_IDENTIFIER, "expected a template name after EXTENDS")
		if p.err != nil {
			return nil
		}
		ref := refTok.Lexeme
		outlet.TemplateRef = &ref
	}

	if p.checkIdentifierText(lexer.ContextualBasedOn) {
		p.advance()
		refTok := p.expect(lexer.TOKEN_NUMBER, "expected a number after BASED_ON")
		if p.err != nil {
			return nil
		}
		ref, _ := parseNumberLiteralInt(refTok)
		outlet.BaseRef = &ref
	}

	p.expect(lexer.TOKEN_LBRACE, "expected '{' to open outlet body")
	if p.err != nil {
		return nil
	}

	for !p.check(lexer.TOKEN_RBRACE) && !p.isAtEnd() {
		if p.checkIdentifierText("id") {
			idTok := p.advance()
			p.expect(lexer.TOKEN_EQUALS, "expected '=' after 'id'")
			if p.err != nil {
				return nil
			}
			numTok := p.expect(lexer.TOKEN_NUMBER, "expected a number for top-level 'id'")
			if p.err != nil {
				return nil
			}
			if outlet.TopLevelID != nil {
				p.fail(idTok, "outlet declares a top-level 'id' more than once")
				return nil
			}
			value, _ := parseNumberLiteralInt(numTok)
			outlet.TopLevelID = &value
			p.skipOptionalSeparator()
			continue
		}

		switch outletBlockType(p.peek()) {
		case lexer.TOKEN_IDENTITY, lexer.TOKEN_LIFECYCLE, lexer.TOKEN_CHARACTERISTICS, lexer.TOKEN_METADATA:
			block := p.parseOutletBlock()
			if p.err != nil {
				return nil
			}
			outlet.Blocks = append(outlet.Blocks, block)
		default:
			p.fail(p.peek(), "expected an outlet block or top-level 'id'", "identity", "lifecycle", "characteristics", "metadata", "id")
			return nil
		}
	}

	end := p.expect(lexer.TOKEN_RBRACE, "expected '}' to close outlet")
	if p.err != nil {
		return nil
	}
	outlet.Span = ast.Span{Start: start.Pos, End: end.Pos}
	return outlet
}

// outletBlockType maps the current token to the outlet block keyword it
// opens, accepting the lowercase contextual spelling as well.
func outletBlockType(tok lexer.Token) lexer.TokenType {
	if tok.Type == lexer.TOKEN_IDENTIFIER {
		switch tok.Lexeme {
		case "identity":
			return lexer.TOKEN_IDENTITY
		case "lifecycle":
			return lexer.TOKEN_LIFECYCLE
		case "characteristics":
			return lexer.TOKEN_CHARACTERISTICS
		case "metadata":
			return lexer.TOKEN_METADATA
		}
	}
	return tok.Type
}

// parseOutletBlock dispatches on identity/lifecycle/characteristics/metadata.
func (p *Parser) parseOutletBlock() ast.OutletBlock {
	switch outletBlockType(p.peek()) {
	case lexer.TOKEN_IDENTITY:
		start := p.advance()
		kvs, _, end := p.parseKeyValueList()
		if p.err != nil {
			return nil
		}
		return &ast.IdentityBlock{Fields: kvs, Span: ast.Span{Start: start.Pos, End: end.Pos}}

	case lexer.TOKEN_CHARACTERISTICS:
		start := p.advance()
		kvs, _, end := p.parseKeyValueList()
		if p.err != nil {
			return nil
		}
		return &ast.CharacteristicsBlock{Fields: kvs, Span: ast.Span{Start: start.Pos, End: end.Pos}}

	case lexer.TOKEN_METADATA:
		start := p.advance()
		kvs, _, end := p.parseKeyValueList()
		if p.err != nil {
			return nil
		}
		return &ast.MetadataBlock{Fields: kvs, Span: ast.Span{Start: start.Pos, End: end.Pos}}

	case lexer.TOKEN_LIFECYCLE:
		return p.parseLifecycleBlock()

	default:
		p.fail(p.peek(), "expected an outlet block", "identity", "lifecycle", "characteristics", "metadata")
		return nil
	}
}

// parseLifecycleBlock parses `lifecycle { <status>* }`.
func (p *Parser) parseLifecycleBlock() ast.OutletBlock {
	start := p.advance() // LIFECYCLE
	p.expect(lexer.TOKEN_LBRACE, "expected '{' after lifecycle")
	if p.err != nil {
		return nil
	}

	block := &ast.LifecycleBlock{}
	for !p.check(lexer.TOKEN_RBRACE) && !p.isAtEnd() {
		status := p.parseLifecycleStatus()
		if p.err != nil {
			return nil
		}
		block.Statuses = append(block.Statuses, status)
	}

	end := p.expect(lexer.TOKEN_RBRACE, "expected '}' to close lifecycle")
	if p.err != nil {
		return nil
	}
	block.Span = ast.Span{Start: start.Pos, End: end.Pos}
	return block
}

// parseLifecycleStatus parses `status <string> FROM <string> TO <string>
// { <kv>* }`. "status" is a contextual identifier, not a lexer keyword.
func (p *Parser) parseLifecycleStatus() *ast.LifecycleStatus {
	start := p.peek()
	if !p.checkIdentifierText(lexer.ContextualStatus) {
		p.fail(p.peek(), "expected 'status'", "status")
		return nil
	}
	p.advance()

	nameTok := p.expect(lexer.TOKEN_STRING, "expected a status name string")
	if p.err != nil {
		return nil
	}
	p.expect(lexer.TOKEN_FROM, "expected 'FROM' after status name")
	if p.err != nil {
		return nil
	}
	fromTok := p.expect(lexer.TOKEN_STRING, "expected a start date string after FROM")
	if p.err != nil {
		return nil
	}
	p.expect(lexer.TOKEN_TO, "expected 'TO' after FROM date")
	if p.err != nil {
		return nil
	}
	toTok := p.expect(lexer.TOKEN_STRING, "expected an end date string after TO")
	if p.err != nil {
		return nil
	}

	kvs, _, end := p.parseKeyValueList()
	if p.err != nil {
		return nil
	}

	return &ast.LifecycleStatus{
		Status: nameTok.Literal.(string),
		From:   fromTok.Literal.(string),
		To:     toTok.Literal.(string),
		Fields: kvs,
		Span:   ast.Span{Start: start.Pos, End: end.Pos},
	}
}

// parseDiachronicLink parses `DIACHRONIC_LINK <Identifier> { <kv>* }`.
func (p *Parser) parseDiachronicLink() ast.FamilyItem {
	start := p.advance() // DIACHRONIC_LINK
	nameTok := p.expect(lexer.TOKEN_IDENTIFIER, "expected a diachronic link name")
	if p.err != nil {
		return nil
	}
	kvs, _, end := p.parseKeyValueList()
	if p.err != nil {
		return nil
	}
	return &ast.DiachronicLinkDecl{
		Name:   nameTok.Lexeme,
		Fields: kvs,
		Span:   ast.Span{Start: start.Pos, End: end.Pos},
	}
}

// parseSynchronousLink parses `SYNCHRONOUS_LINK[S] <Identifier> { <kv>* }`.
// SYNCHRONOUS_LINK and SYNCHRONOUS_LINKS are synonyms; both
// lower to the same node.
func (p *Parser) parseSynchronousLink() ast.FamilyItem {
	start := p.advance() // SYNCHRONOUS_LINK or SYNCHRONOUS_LINKS
	nameTok := p.expect(lexer.TOKEN_IDENTIFIER, "expected a synchronous link name")
	if p.err != nil {
		return nil
	}
	kvs, _, end := p.parseKeyValueList()
	if p.err != nil {
		return nil
	}
	return &ast.SynchronousLinkDecl{
		Name:   nameTok.Lexeme,
		Fields: kvs,
		Span:   ast.Span{Start: start.Pos, End: end.Pos},
	}
}

// parseDataBlock parses `DATA FOR <number> { <dataBody> }`.
func (p *Parser) parseDataBlock() ast.FamilyItem {
	start := p.advance() // DATA
	p.expect(lexer.TOKEN_FOR, "expected 'FOR' after DATA")
	if p.err != nil {
		return nil
	}
	idTok := p.expect(lexer.TOKEN_NUMBER, "expected an outlet id number after FOR")
	if p.err != nil {
		return nil
	}
	outletID, _ := parseNumberLiteralInt(idTok)

	kvs, _, end := p.parseKeyValueList()
	if p.err != nil {
		return nil
	}

	return &ast.DataBlockDecl{
		OutletID: outletID,
		Fields:   kvs,
		Span:     ast.Span{Start: start.Pos, End: end.Pos},
	}
}
