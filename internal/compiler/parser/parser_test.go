package parser

import (
	"testing"

	"github.com/pacedproton/mdslc/internal/compiler/ast"
	"github.com/pacedproton/mdslc/internal/compiler/lexer"
)

// parseSource is a small helper shared across the table-driven tests
// below: lex then parse, failing the test immediately on a lex error.
func parseSource(t *testing.T, source string) (*ast.Program, *ParseError) {
	t.Helper()
	tokens, lexErrs := lexer.Tokenize(source)
	if len(lexErrs) > 0 {
		t.Fatalf("unexpected lex errors: %v", lexErrs)
	}
	return Parse(tokens)
}

func TestParser_SimpleUnit(t *testing.T) {
	source := `
UNIT MediaOutlet {
  id: ID PRIMARY KEY,
  name: TEXT(120),
  sector: NUMBER
}
`
	program, err := parseSource(t, source)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}

	unit, ok := program.Statements[0].(*ast.UnitDecl)
	if !ok {
		t.Fatalf("expected *ast.UnitDecl, got %T", program.Statements[0])
	}
	if unit.Name != "MediaOutlet" {
		t.Errorf("expected name MediaOutlet, got %q", unit.Name)
	}
	if len(unit.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(unit.Fields))
	}
	if !unit.Fields[0].IsPrimaryKey {
		t.Error("expected first field to be the primary key")
	}
	if unit.Fields[1].Type.Kind != ast.FieldTypeText || *unit.Fields[1].Type.TextLength != 120 {
		t.Errorf("expected TEXT(120), got %+v", unit.Fields[1].Type)
	}
}

func TestParser_UnitWithDuplicatePrimaryKeyFails(t *testing.T) {
	source := `
UNIT U {
  a: ID PRIMARY KEY,
  b: ID PRIMARY KEY
}
`
	_, err := parseSource(t, source)
	if err == nil {
		t.Fatal("expected a parse error for duplicate PRIMARY KEY")
	}
}

func TestParser_CategoryFieldType(t *testing.T) {
	source := `UNIT U { status: CATEGORY("active", "inactive") }`
	program, err := parseSource(t, source)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	unit := program.Statements[0].(*ast.UnitDecl)
	ft := unit.Fields[0].Type
	if ft.Kind != ast.FieldTypeCategory {
		t.Fatalf("expected category type, got %+v", ft)
	}
	if len(ft.CategoryValues) != 2 || ft.CategoryValues[0] != "active" {
		t.Errorf("unexpected category values: %v", ft.CategoryValues)
	}
}

func TestParser_Vocabulary(t *testing.T) {
	source := `
VOCABULARY Sectors {
  CODES {
    1: "News",
    2: "Entertainment"
  }
}
`
	program, err := parseSource(t, source)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	voc := program.Statements[0].(*ast.VocabularyDecl)
	if voc.Name != "Sectors" {
		t.Errorf("expected name Sectors, got %q", voc.Name)
	}
	if len(voc.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(voc.Entries))
	}
	if voc.Entries[0].KeyKind != ast.VocabKeyNumber || voc.Entries[0].KeyNumber != 1 {
		t.Errorf("unexpected first entry: %+v", voc.Entries[0])
	}
}

func TestParser_FamilyWithOutletAndTopLevelID(t *testing.T) {
	source := `
FAMILY "Acme Media" {
  OUTLET "Acme Daily" {
    id = 1;
    identity {
      title = "Acme Daily";
    }
    lifecycle {
      status "active" FROM "2000-01-01" TO "2020-01-01" {
        comment = "launch to sale";
      }
    }
  }
}
`
	program, err := parseSource(t, source)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	fam := program.Statements[0].(*ast.FamilyDecl)
	if fam.Name != "Acme Media" {
		t.Errorf("expected name 'Acme Media', got %q", fam.Name)
	}
	if len(fam.Items) != 1 {
		t.Fatalf("expected 1 family item, got %d", len(fam.Items))
	}
	outlet := fam.Items[0].(*ast.OutletDecl)
	if outlet.TopLevelID == nil || *outlet.TopLevelID != 1 {
		t.Fatalf("expected top-level id 1, got %+v", outlet.TopLevelID)
	}
	if len(outlet.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(outlet.Blocks))
	}
	lifecycle, ok := outlet.Blocks[1].(*ast.LifecycleBlock)
	if !ok {
		t.Fatalf("expected second block to be lifecycle, got %T", outlet.Blocks[1])
	}
	if len(lifecycle.Statuses) != 1 || lifecycle.Statuses[0].Status != "active" {
		t.Fatalf("unexpected lifecycle statuses: %+v", lifecycle.Statuses)
	}
}

func TestParser_OutletExtendsAndBasedOn(t *testing.T) {
	source := `
FAMILY "F" {
  OUTLET "Child" EXTENDS Newspaper BASED_ON 7 {
    id = 2;
    identity { title = "Child"; }
  }
}
`
	program, err := parseSource(t, source)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	fam := program.Statements[0].(*ast.FamilyDecl)
	outlet := fam.Items[0].(*ast.OutletDecl)
	if outlet.TemplateRef == nil || *outlet.TemplateRef != "Newspaper" {
		t.Fatalf("expected template ref Newspaper, got %+v", outlet.TemplateRef)
	}
	if outlet.BaseRef == nil || *outlet.BaseRef != 7 {
		t.Fatalf("expected base ref 7, got %+v", outlet.BaseRef)
	}
}

func TestParser_SynchronousLinkSynonyms(t *testing.T) {
	for _, kw := range []string{"SYNCHRONOUS_LINK", "SYNCHRONOUS_LINKS"} {
		source := `
FAMILY "F" {
  ` + kw + ` Rel {
    outlet_1 = { id = 1; role = "parent"; };
    outlet_2 = { id = 2; role = "subsidiary"; };
    relationship_type = "umbrella";
  }
}
`
		program, err := parseSource(t, source)
		if err != nil {
			t.Fatalf("%s: unexpected parse error: %v", kw, err)
		}
		fam := program.Statements[0].(*ast.FamilyDecl)
		link, ok := fam.Items[0].(*ast.SynchronousLinkDecl)
		if !ok {
			t.Fatalf("%s: expected *ast.SynchronousLinkDecl, got %T", kw, fam.Items[0])
		}
		if link.Name != "Rel" {
			t.Errorf("%s: expected name Rel, got %q", kw, link.Name)
		}
	}
}

func TestParser_DataBlock(t *testing.T) {
	source := `
FAMILY "F" {
  OUTLET "O" { id = 1; identity { title = "O"; } }
  DATA FOR 1 {
    aggregation = "annual";
  }
}
`
	program, err := parseSource(t, source)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	fam := program.Statements[0].(*ast.FamilyDecl)
	data := fam.Items[1].(*ast.DataBlockDecl)
	if data.OutletID != 1 {
		t.Errorf("expected outlet id 1, got %d", data.OutletID)
	}
}

func TestParser_EventDeclaration(t *testing.T) {
	source := `
EVENT Acquisition2005 {
  event_type = "merger";
  date = "2005-06-01";
  entities {
    entity Acquirer { id = 1; role = "acquirer"; stake_before = 0; stake_after = 100; }
    entity Target { id = 2; role = "target"; }
  }
  status = "confirmed";
}
`
	program, err := parseSource(t, source)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	ev := program.Statements[0].(*ast.EventDecl)
	if ev.Name != "Acquisition2005" || ev.EventType != "merger" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if len(ev.Entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(ev.Entities))
	}
	if ev.Entities[0].StakeAfter == nil || *ev.Entities[0].StakeAfter != 100 {
		t.Fatalf("expected stake_after 100, got %+v", ev.Entities[0].StakeAfter)
	}
	if ev.Status == nil || *ev.Status != "confirmed" {
		t.Fatalf("expected status confirmed, got %+v", ev.Status)
	}
}

func TestParser_LetAndVariableRef(t *testing.T) {
	source := `
LET defaultSector = 3;
UNIT U { sector: NUMBER }
`
	program, err := parseSource(t, source)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	let, ok := program.Statements[0].(*ast.LetStmt)
	if !ok {
		t.Fatalf("expected *ast.LetStmt, got %T", program.Statements[0])
	}
	if let.Name != "defaultSector" {
		t.Errorf("expected name defaultSector, got %q", let.Name)
	}
	num, ok := let.Value.(*ast.NumberLit)
	if !ok || num.Value != 3 {
		t.Fatalf("expected number literal 3, got %+v", let.Value)
	}
}

func TestParser_ObjectAndArrayExpressions(t *testing.T) {
	source := `
FAMILY "F" {
  OUTLET "O" {
    id = 1;
    identity {
      title = "O";
      tags = ["a", "b", "c"];
      meta = { region = "EU"; active = true; };
    }
  }
}
`
	program, err := parseSource(t, source)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	fam := program.Statements[0].(*ast.FamilyDecl)
	outlet := fam.Items[0].(*ast.OutletDecl)
	identity := outlet.Blocks[0].(*ast.IdentityBlock)

	arr, ok := identity.Fields[1].Value.(*ast.ArrayExpr)
	if !ok || len(arr.Elements) != 3 {
		t.Fatalf("expected a 3-element array, got %+v", identity.Fields[1].Value)
	}

	obj, ok := identity.Fields[2].Value.(*ast.ObjectExpr)
	if !ok || len(obj.Fields) != 2 {
		t.Fatalf("expected a 2-field object, got %+v", identity.Fields[2].Value)
	}
	if obj.Fields[1].Name != "active" {
		t.Errorf("expected field name active, got %q", obj.Fields[1].Name)
	}
	boolVal, ok := obj.Fields[1].Value.(*ast.BoolLit)
	if !ok || !boolVal.Value {
		t.Fatalf("expected true literal, got %+v", obj.Fields[1].Value)
	}
}

func TestParser_UnterminatedFamilyFailsWithoutRecovery(t *testing.T) {
	source := `
FAMILY "F" {
  OUTLET "O" {
    id = 1;
`
	program, err := parseSource(t, source)
	if err == nil {
		t.Fatal("expected a parse error for the unterminated family")
	}
	if len(program.Statements) != 0 {
		t.Errorf("expected no completed top-level statements, got %d", len(program.Statements))
	}
}

func TestParser_EmptyProgram(t *testing.T) {
	program, err := parseSource(t, "")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(program.Statements) != 0 {
		t.Errorf("expected 0 statements, got %d", len(program.Statements))
	}
}
