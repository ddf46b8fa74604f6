package validator

import (
	"testing"

	"github.com/pacedproton/mdslc/internal/compiler/ast"
	"github.com/pacedproton/mdslc/internal/compiler/diag"
	"github.com/pacedproton/mdslc/internal/compiler/lexer"
	"github.com/pacedproton/mdslc/internal/compiler/parser"
)

func mustParse(t *testing.T, source string) *ast.Program {
	t.Helper()
	tokens, lexErrs := lexer.Tokenize(source)
	if len(lexErrs) > 0 {
		t.Fatalf("unexpected lex errors: %v", lexErrs)
	}
	program, parseErr := parser.Parse(tokens)
	if parseErr != nil {
		t.Fatalf("unexpected parse error: %v", parseErr)
	}
	return program
}

func hasRule(issues []diag.Issue, rule diag.Rule) bool {
	for _, i := range issues {
		if i.Rule == rule {
			return true
		}
	}
	return false
}

func TestValidate_BasicUnitHasNoErrors(t *testing.T) {
	program := mustParse(t, `UNIT MediaOutlet { id: ID PRIMARY KEY, name: TEXT(120), sector: NUMBER }`)
	issues := Validate(program)
	for _, i := range issues {
		if i.Severity == diag.SeverityError {
			t.Errorf("unexpected error issue: %v", i)
		}
	}
}

func TestValidate_DuplicateUnit(t *testing.T) {
	program := mustParse(t, `
UNIT TestUnit { id: ID PRIMARY KEY }
UNIT TestUnit { id: ID PRIMARY KEY }
`)
	issues := Validate(program)
	if !hasRule(issues, diag.RuleDuplicateUnit) {
		t.Fatalf("expected a duplicate_unit issue, got %+v", issues)
	}
}

func TestValidate_MissingPrimaryKey(t *testing.T) {
	program := mustParse(t, `UNIT U { name: TEXT }`)
	issues := Validate(program)
	if !hasRule(issues, diag.RuleMissingPrimaryKey) {
		t.Fatalf("expected a missing_primary_key issue, got %+v", issues)
	}
}

func TestValidate_OutletWithoutID(t *testing.T) {
	program := mustParse(t, `FAMILY "F" { OUTLET "O" { identity { title = "O"; } } }`)
	issues := Validate(program)
	found := false
	for _, i := range issues {
		if i.Rule == diag.RuleOutletMissingID && i.Severity == diag.SeverityError {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an outlet_missing_id error, got %+v", issues)
	}
}

func TestValidate_ConflictingOutletIDs(t *testing.T) {
	program := mustParse(t, `
FAMILY "F" {
  OUTLET "A" { id = 100; identity { title = "A"; } }
  OUTLET "B" { id = 100; identity { title = "B"; } }
}
`)
	issues := Validate(program)
	if !hasRule(issues, diag.RuleDuplicateOutletID) {
		t.Fatalf("expected a duplicate_outlet_id issue, got %+v", issues)
	}
}

func TestValidate_TextLengthZeroAndHuge(t *testing.T) {
	program := mustParse(t, `UNIT U { x: TEXT(0), y: TEXT(100000) }`)
	issues := Validate(program)
	errCount, warnCount := 0, 0
	for _, i := range issues {
		if i.Rule == diag.RuleTextLengthZero {
			errCount++
		}
		if i.Rule == diag.RuleTextLengthHuge {
			warnCount++
		}
	}
	if errCount != 1 || warnCount != 1 {
		t.Fatalf("expected 1 zero-length error and 1 huge-length warning, got %d/%d", errCount, warnCount)
	}
}

func TestValidate_UnknownRelationshipTypeIsWarning(t *testing.T) {
	program := mustParse(t, `
FAMILY "F" {
  OUTLET "A" { id = 1; identity { title = "A"; } }
  OUTLET "B" { id = 2; identity { title = "B"; } }
  DIACHRONIC_LINK Succession1 {
    predecessor = 1;
    successor = 2;
    relationship_type = "weird_custom_type";
  }
}
`)
	issues := Validate(program)
	found := false
	for _, i := range issues {
		if i.Rule == diag.RuleUnknownRelationshipType {
			found = true
			if i.Severity != diag.SeverityWarning {
				t.Errorf("expected Warning severity, got %v", i.Severity)
			}
		}
	}
	if !found {
		t.Fatalf("expected an unknown_relationship_type issue, got %+v", issues)
	}
}

func TestValidate_UnresolvedOutletReference(t *testing.T) {
	program := mustParse(t, `
FAMILY "F" {
  OUTLET "A" { id = 1; identity { title = "A"; } }
  DIACHRONIC_LINK Succession1 {
    predecessor = 1;
    successor = 999;
    relationship_type = "succession";
  }
}
`)
	issues := Validate(program)
	if !hasRule(issues, diag.RuleUnresolvedOutletRef) {
		t.Fatalf("expected an unresolved_outlet_reference issue, got %+v", issues)
	}
}

func TestValidate_IssuesSortedByPosition(t *testing.T) {
	program := mustParse(t, `
UNIT A { name: TEXT(0) }
UNIT B { other: TEXT(0) }
`)
	issues := Validate(program)
	for i := 1; i < len(issues); i++ {
		prev, cur := issues[i-1].Pos, issues[i].Pos
		if cur.Line < prev.Line || (cur.Line == prev.Line && cur.Column < prev.Column) {
			t.Fatalf("issues not sorted by position: %+v", issues)
		}
	}
}

func TestValidate_IdempotentOnSameAST(t *testing.T) {
	program := mustParse(t, `UNIT U { x: TEXT(0) }`)
	first := Validate(program)
	second := Validate(program)
	if len(first) != len(second) {
		t.Fatalf("expected equal issue counts across runs, got %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("expected equal issues across runs at index %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestValidate_EventImplausibleStake(t *testing.T) {
	program := mustParse(t, `
EVENT E {
  event_type = "merger";
  entities {
    entity A { id = 1; role = "acquirer"; stake_after = 150; }
  }
}
`)
	issues := Validate(program)
	if !hasRule(issues, diag.RuleImplausibleStake) {
		t.Fatalf("expected an implausible_stake_percentage issue, got %+v", issues)
	}
}
