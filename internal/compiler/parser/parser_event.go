package parser

import (
	"github.com/pacedproton/mdslc/internal/compiler/ast"
	"github.com/pacedproton/mdslc/internal/compiler/lexer"
)

// parseEvent parses an EVENT declaration:
//
//	EVENT <Identifier> {
//	  event_type = "...";
//	  date = "...";               // optional
//	  entities { entity <Identifier> { id = N; role = "..."; stake_before = N; stake_after = N; } ... }
//	  impact { <kv>* }            // optional
//	  metadata { <kv>* }          // optional
//	  status = "...";             // optional
//	}
func (p *Parser) parseEvent() ast.Statement {
	start := p.advance() // EVENT
	nameTok := p.expect(lexer.TOKEN_IDENTIFIER, "expected an event name")
	if p.err != nil {
		return nil
	}
	p.expect(lexer.TOKEN_LBRACE, "expected '{' after event name")
	if p.err != nil {
		return nil
	}

	ev := &ast.EventDecl{Name: nameTok.Lexeme}

	for !p.check(lexer.TOKEN_RBRACE) && !p.isAtEnd() {
		switch {
		case p.checkIdentifierText("event_type"):
			p.advance()
			p.expect(lexer.TOKEN_EQUALS, "expected '=' after 'event_type'")
			if p.err != nil {
				return nil
			}
			valTok := p.expect(lexer.TOKEN_STRING, "expected a string for 'event_type'")
			if p.err != nil {
				return nil
			}
			ev.EventType = valTok.Literal.(string)
			p.skipOptionalSeparator()

		case p.checkIdentifierText("date"):
			p.advance()
			p.expect(lexer.TOKEN_EQUALS, "expected '=' after 'date'")
			if p.err != nil {
				return nil
			}
			valTok := p.expect(lexer.TOKEN_STRING, "expected a string for 'date'")
			if p.err != nil {
				return nil
			}
			date := valTok.Literal.(string)
			ev.Date = &date
			p.skipOptionalSeparator()

		case p.checkIdentifierText("status"):
			p.advance()
			p.expect(lexer.TOKEN_EQUALS, "expected '=' after 'status'")
			if p.err != nil {
				return nil
			}
			valTok := p.expect(lexer.TOKEN_STRING, "expected a string for 'status'")
			if p.err != nil {
				return nil
			}
			status := valTok.Literal.(string)
			ev.Status = &status
			p.skipOptionalSeparator()

		case p.checkIdentifierText("entities"):
			p.advance()
			entities := p.parseEventEntities()
			if p.err != nil {
				return nil
			}
			ev.Entities = entities

		case p.checkIdentifierText("impact"):
			p.advance()
			kvs, _, _ := p.parseKeyValueList()
			if p.err != nil {
				return nil
			}
			ev.Impact = kvs

		case p.checkIdentifierText("metadata"):
			p.advance()
			kvs, _, _ := p.parseKeyValueList()
			if p.err != nil {
				return nil
			}
			ev.Metadata = kvs

		default:
			p.fail(p.peek(), "expected an event field", "event_type", "date", "entities", "impact", "metadata", "status")
			return nil
		}
	}

	end := p.expect(lexer.TOKEN_RBRACE, "expected '}' to close event")
	if p.err != nil {
		return nil
	}
	ev.Span = ast.Span{Start: start.Pos, End: end.Pos}
	return ev
}

// parseEventEntities parses `{ entity <Identifier> { <entityField>* } ... }`.
func (p *Parser) parseEventEntities() []*ast.EventEntity {
	p.expect(lexer.TOKEN_LBRACE, "expected '{' after 'entities'")
	if p.err != nil {
		return nil
	}

	var entities []*ast.EventEntity
	for !p.check(lexer.TOKEN_RBRACE) && !p.isAtEnd() {
		entity := p.parseEventEntity()
		if p.err != nil {
			return nil
		}
		entities = append(entities, entity)
	}

	p.expect(lexer.TOKEN_RBRACE, "expected '}' to close entities")
	if p.err != nil {
		return nil
	}
	return entities
}

// parseEventEntity parses `entity <Identifier> { id = N; role = "..."; [stake_before = N;] [stake_after = N;] }`.
func (p *Parser) parseEventEntity() *ast.EventEntity {
	if !p.checkIdentifierText("entity") {
		p.fail(p.peek(), "expected 'entity'", "entity")
		return nil
	}
	start := p.advance()

	nameTok := p.expect(lexer.TOKEN_IDENTIFIER, "expected an entity name")
	if p.err != nil {
		return nil
	}

	p.expect(lexer.TOKEN_LBRACE, "expected '{' to open entity body")
	if p.err != nil {
		return nil
	}

	entity := &ast.EventEntity{Name: nameTok.Lexeme}
	for !p.check(lexer.TOKEN_RBRACE) && !p.isAtEnd() {
		switch {
		case p.checkIdentifierText("id"):
			p.advance()
			p.expect(lexer.TOKEN_EQUALS, "expected '=' after 'id'")
			if p.err != nil {
				return nil
			}
			idTok := p.expect(lexer.TOKEN_NUMBER, "expected a number for entity 'id'")
			if p.err != nil {
				return nil
			}
			entity.ID, _ = parseNumberLiteralInt(idTok)
			p.skipOptionalSeparator()

		case p.checkIdentifierText("role"):
			p.advance()
			p.expect(lexer.TOKEN_EQUALS, "expected '=' after 'role'")
			if p.err != nil {
				return nil
			}
			roleTok := p.expect(lexer.TOKEN_STRING, "expected a string for entity 'role'")
			if p.err != nil {
				return nil
			}
			entity.Role = roleTok.Literal.(string)
			p.skipOptionalSeparator()

		case p.checkIdentifierText("stake_before"):
			p.advance()
			p.expect(lexer.TOKEN_EQUALS, "expected '=' after 'stake_before'")
			if p.err != nil {
				return nil
			}
			numTok := p.expect(lexer.TOKEN_NUMBER, "expected a number for 'stake_before'")
			if p.err != nil {
				return nil
			}
			v := numTok.Literal.(float64)
			entity.StakeBefore = &v
			p.skipOptionalSeparator()

		case p.checkIdentifierText("stake_after"):
			p.advance()
			p.expect(lexer.TOKEN_EQUALS, "expected '=' after 'stake_after'")
			if p.err != nil {
				return nil
			}
			numTok := p.expect(lexer.TOKEN_NUMBER, "expected a number for 'stake_after'")
			if p.err != nil {
				return nil
			}
			v := numTok.Literal.(float64)
			entity.StakeAfter = &v
			p.skipOptionalSeparator()

		default:
			p.fail(p.peek(), "expected an entity field", "id", "role", "stake_before", "stake_after")
			return nil
		}
	}

	end := p.expect(lexer.TOKEN_RBRACE, "expected '}' to close entity")
	if p.err != nil {
		return nil
	}
	entity.Span = ast.Span{Start: start.Pos, End: end.Pos}
	return entity
}
