package parser

import (
	"fmt"

	"github.com/pacedproton/mdslc/internal/compiler/lexer"
)

// ParseError is the single diagnostic a parse failure produces. The
// parser does not recover: the first ParseError halts
// parsing, and it carries the expected token set plus the token actually
// found so the message is self-explanatory without re-reading the
// grammar.
type ParseError struct {
	Message  string
	Expected []string
	Found    lexer.Token
}

func (e ParseError) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("%d:%d: %s", e.Found.Pos.Line, e.Found.Pos.Column, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s (expected %v, found %s)", e.Found.Pos.Line, e.Found.Pos.Column, e.Message, e.Expected, e.Found.Type)
}
