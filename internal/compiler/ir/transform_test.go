package ir

import (
	"testing"

	"github.com/pacedproton/mdslc/internal/compiler/lexer"
	"github.com/pacedproton/mdslc/internal/compiler/parser"
)

func mustTransform(t *testing.T, source string) *Program {
	t.Helper()
	tokens, lexErrs := lexer.Tokenize(source)
	if len(lexErrs) > 0 {
		t.Fatalf("unexpected lex errors: %v", lexErrs)
	}
	program, parseErr := parser.Parse(tokens)
	if parseErr != nil {
		t.Fatalf("unexpected parse error: %v", parseErr)
	}
	ir, _, err := Transform(program)
	if err != nil {
		t.Fatalf("unexpected transform error: %v", err)
	}
	return ir
}

func TestTransform_UnitFields(t *testing.T) {
	ir := mustTransform(t, `UNIT MediaOutlet { id: ID PRIMARY KEY, name: TEXT(120) }`)
	if len(ir.Units) != 1 || ir.Units[0].Name != "MediaOutlet" {
		t.Fatalf("unexpected units: %+v", ir.Units)
	}
	if ir.Units[0].Fields[1].Type.Kind != FieldTypeText || *ir.Units[0].Fields[1].Type.TextLength != 120 {
		t.Fatalf("unexpected field: %+v", ir.Units[0].Fields[1])
	}
}

func TestTransform_VariableResolutionAndShadowing(t *testing.T) {
	ir := mustTransform(t, `
LET region = "EU";
LET region = "US";
FAMILY "F" {
  OUTLET "O" {
    id = 1;
    identity { title = "O"; loc = region; }
  }
}
`)
	identity := ir.Families[0].Outlets[0].Blocks[0]
	var loc string
	for _, f := range identity.Identity {
		if f.Name == "loc" {
			loc, _ = exprAsString(f.Value)
		}
	}
	if loc != "US" {
		t.Fatalf("expected later LET to shadow earlier, got %q", loc)
	}
}

func TestTransform_UnresolvedVariableIsFatal(t *testing.T) {
	tokens, _ := lexer.Tokenize(`
FAMILY "F" {
  OUTLET "O" { id = 1; identity { title = missing; } }
}
`)
	program, parseErr := parser.Parse(tokens)
	if parseErr != nil {
		t.Fatalf("unexpected parse error: %v", parseErr)
	}
	_, _, err := Transform(program)
	if err == nil {
		t.Fatal("expected an unresolved-variable transform error")
	}
}

func TestTransform_OutletIDPrefersIdentity(t *testing.T) {
	ir := mustTransform(t, `
FAMILY "F" {
  OUTLET "O" {
    id = 42;
    identity { id = 42; title = "O"; }
  }
}
`)
	if ir.Families[0].Outlets[0].ID != 42 {
		t.Fatalf("expected the agreeing ids to lower to 42, got %d", ir.Families[0].Outlets[0].ID)
	}
}

func TestTransform_ConflictingOutletIDsIsFatal(t *testing.T) {
	tokens, _ := lexer.Tokenize(`
FAMILY "F" {
  OUTLET "O" { id = 1; identity { id = 2; title = "O"; } }
}
`)
	program, _ := parser.Parse(tokens)
	_, _, err := Transform(program)
	if err == nil {
		t.Fatal("expected a conflicting-id transform error")
	}
}

func TestTransform_DiachronicLinkUnknownKeyDropped(t *testing.T) {
	ir := mustTransform(t, `
FAMILY "F" {
  OUTLET "A" { id = 1; identity { title = "A"; } }
  OUTLET "B" { id = 2; identity { title = "B"; } }
  DIACHRONIC_LINK Succ {
    predecessor = 1;
    successor = 2;
    relationship_type = "succession";
    bogus_key = "x";
  }
}
`)
	link := ir.Families[0].Relationships[0].Diachronic
	if link.Predecessor != 1 || link.Successor != 2 || link.RelationshipType != "succession" {
		t.Fatalf("unexpected link: %+v", link)
	}
}

func TestTransform_SynchronousLinkRolesAndMapsTo(t *testing.T) {
	ir := mustTransform(t, `
FAMILY "F" {
  OUTLET "A" { id = 1; identity { title = "A"; } }
  OUTLET "B" { id = 2; identity { title = "B"; } }
  SYNCHRONOUS_LINK Rel {
    outlet_1 = { id = 1; role = "parent"; };
    outlet_2 = { id = 2; role = "subsidiary"; };
    relationship_type = "umbrella";
    maps_to = "legacy_rel_42";
  }
}
`)
	link := ir.Families[0].Relationships[0].Synchronous
	if link.Outlet1.ID != 1 || link.Outlet1.Role != "parent" || link.Outlet2.ID != 2 {
		t.Fatalf("unexpected link: %+v", link)
	}
	if link.MapsTo == nil || *link.MapsTo != "legacy_rel_42" {
		t.Fatalf("expected maps_to to be preserved, got %+v", link.MapsTo)
	}
}

func TestTransform_DataBlockReshape(t *testing.T) {
	ir := mustTransform(t, `
FAMILY "F" {
  OUTLET "A" { id = 1; identity { title = "A"; } }
  DATA FOR 1 {
    aggregation = { method = "annual"; };
    years = [
      { year = 2020; comment = "covid"; metrics = [ { name = "revenue"; value = 100; unit = "EUR"; source = "report"; } ]; }
    ];
  }
}
`)
	data := ir.Families[0].DataBlocks[0]
	if data.OutletID != 1 {
		t.Fatalf("expected outlet id 1, got %d", data.OutletID)
	}
	if len(data.Aggregation) != 1 || data.Aggregation[0].Value != "annual" {
		t.Fatalf("unexpected aggregation: %+v", data.Aggregation)
	}
	if len(data.Years) != 1 || data.Years[0].Year != 2020 {
		t.Fatalf("unexpected years: %+v", data.Years)
	}
	if len(data.Years[0].Metrics) != 1 || data.Years[0].Metrics[0].Name != "revenue" || data.Years[0].Metrics[0].Value != 100 {
		t.Fatalf("unexpected metrics: %+v", data.Years[0].Metrics)
	}
}

func TestTransform_EventEntitiesAndStakes(t *testing.T) {
	ir := mustTransform(t, `
EVENT Acq {
  event_type = "merger";
  entities {
    entity Buyer { id = 1; role = "acquirer"; stake_before = 0; stake_after = 100; }
  }
  status = "confirmed";
}
`)
	if len(ir.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(ir.Events))
	}
	ev := ir.Events[0]
	if ev.Status == nil || *ev.Status != "confirmed" {
		t.Fatalf("unexpected status: %+v", ev.Status)
	}
	if len(ev.Entities) != 1 || *ev.Entities[0].StakeAfter != 100 {
		t.Fatalf("unexpected entities: %+v", ev.Entities)
	}
}

func TestTransform_EmptyProgram(t *testing.T) {
	ir := mustTransform(t, "")
	if len(ir.Units) != 0 || len(ir.Families) != 0 {
		t.Fatalf("expected empty IR, got %+v", ir)
	}
}
