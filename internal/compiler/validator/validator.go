// Package validator implements the MDSL semantic validator: a three-pass
// static analysis over the AST that produces a list of diagnostic
// issues without ever aborting early.
package validator

import (
	"github.com/pacedproton/mdslc/internal/compiler/ast"
	"github.com/pacedproton/mdslc/internal/compiler/diag"
)

// recognizedRelationshipTypes is the closed set of known relationship
// types. Anything outside it is a Warning, not an Error.
var recognizedRelationshipTypes = map[string]bool{
	"succession":             true,
	"umbrella":               true,
	"collaboration":          true,
	"main_media_outlet":      true,
	"amalgamation":           true,
	"new_distribution_area":  true,
	"new_sector":             true,
	"interruption":           true,
	"split_off":              true,
	"merger":                 true,
	"offshoot":               true,
}

// symbolTables accumulates the declaration pass's findings, reused by the
// structural and reference passes.
type symbolTables struct {
	units         map[string]*ast.UnitDecl
	vocabularies  map[string]*ast.VocabularyDecl
	families      map[string]*ast.FamilyDecl
	outletsByID   map[int][]*ast.OutletDecl
	declaredIDs   map[int]bool
}

// Validate runs the full three-pass algorithm over a parsed Program and
// returns every accumulated issue. It never aborts early;
// the caller decides whether any Error issue blocks downstream stages.
func Validate(program *ast.Program) []diag.Issue {
	bag := diag.NewBag()
	tables := &symbolTables{
		units:        map[string]*ast.UnitDecl{},
		vocabularies: map[string]*ast.VocabularyDecl{},
		families:     map[string]*ast.FamilyDecl{},
		outletsByID:  map[int][]*ast.OutletDecl{},
		declaredIDs:  map[int]bool{},
	}

	declarationPass(program, tables, bag)
	structuralPass(program, tables, bag)
	referencePass(program, tables, bag)

	return bag.Issues()
}

// declarationPass populates symbol tables and records duplicate-name
// issues.
func declarationPass(program *ast.Program, tables *symbolTables, bag *diag.Bag) {
	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ast.UnitDecl:
			if existing, ok := tables.units[s.Name]; ok {
				bag.Errorf(diag.RuleDuplicateUnit, s.Location().Start, "unit %q already declared at %d:%d", s.Name, existing.Location().Start.Line, existing.Location().Start.Column)
			} else {
				tables.units[s.Name] = s
			}

		case *ast.VocabularyDecl:
			if existing, ok := tables.vocabularies[s.Name]; ok {
				bag.Errorf(diag.RuleDuplicateVocabulary, s.Location().Start, "vocabulary %q already declared at %d:%d", s.Name, existing.Location().Start.Line, existing.Location().Start.Column)
			} else {
				tables.vocabularies[s.Name] = s
			}

		case *ast.FamilyDecl:
			if existing, ok := tables.families[s.Name]; ok {
				bag.Errorf(diag.RuleDuplicateFamily, s.Location().Start, "family %q already declared at %d:%d", s.Name, existing.Location().Start.Line, existing.Location().Start.Column)
			} else {
				tables.families[s.Name] = s
			}
			for _, item := range s.Items {
				if outlet, ok := item.(*ast.OutletDecl); ok {
					if id, ok := outletID(outlet); ok {
						tables.outletsByID[id] = append(tables.outletsByID[id], outlet)
						tables.declaredIDs[id] = true
					}
				}
			}
		}
	}
}

// structuralPass checks per-entity invariants: PK counts, field types,
// category/text constraints, lifecycle well-formedness, outlet id
// presence.
func structuralPass(program *ast.Program, tables *symbolTables, bag *diag.Bag) {
	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ast.UnitDecl:
			validateUnit(s, bag)

		case *ast.VocabularyDecl:
			validateVocabulary(s, bag)

		case *ast.FamilyDecl:
			validateFamily(s, tables, bag)

		case *ast.EventDecl:
			validateEvent(s, bag)
		}
	}
}

func validateUnit(unit *ast.UnitDecl, bag *diag.Bag) {
	if len(unit.Fields) == 0 {
		bag.Warnf(diag.RuleEmptyUnit, unit.Location().Start, "unit %q has no fields", unit.Name)
	}

	pkCount := 0
	for _, field := range unit.Fields {
		if field.IsPrimaryKey {
			pkCount++
		}
		validateFieldType(field, bag)
	}
	if pkCount == 0 {
		bag.Errorf(diag.RuleMissingPrimaryKey, unit.Location().Start, "unit %q has no PRIMARY KEY field", unit.Name)
	}
}

func validateFieldType(field *ast.Field, bag *diag.Bag) {
	switch field.Type.Kind {
	case ast.FieldTypeText:
		if field.Type.TextLength != nil {
			length := *field.Type.TextLength
			if length <= 0 {
				bag.Errorf(diag.RuleTextLengthZero, field.Location().Start, "field %q declares TEXT(%d); length must be positive", field.Name, length)
			} else if length > 65535 {
				bag.Warnf(diag.RuleTextLengthHuge, field.Location().Start, "field %q declares TEXT(%d); unusually large length", field.Name, length)
			}
		}

	case ast.FieldTypeCategory:
		if len(field.Type.CategoryValues) == 0 {
			bag.Errorf(diag.RuleEmptyCategory, field.Location().Start, "field %q declares CATEGORY() with no values", field.Name)
			return
		}
		seen := map[string]bool{}
		for _, v := range field.Type.CategoryValues {
			if seen[v] {
				bag.Errorf(diag.RuleDuplicateCategoryValue, field.Location().Start, "field %q repeats category value %q", field.Name, v)
			}
			seen[v] = true
		}
	}
}

func validateVocabulary(voc *ast.VocabularyDecl, bag *diag.Bag) {
	if len(voc.Entries) == 0 {
		bag.Warnf(diag.RuleEmptyVocabulary, voc.Location().Start, "vocabulary %q has no entries", voc.Name)
		return
	}
	seen := map[string]bool{}
	for _, entry := range voc.Entries {
		key := vocabularyEntryKey(entry)
		if seen[key] {
			bag.Errorf(diag.RuleDuplicateVocabularyKey, entry.Location().Start, "vocabulary %q repeats key %s", voc.Name, key)
		}
		seen[key] = true
	}
}

func vocabularyEntryKey(entry *ast.VocabularyEntry) string {
	if entry.KeyKind == ast.VocabKeyString {
		return "\"" + entry.KeyString + "\""
	}
	return formatFloat(entry.KeyNumber)
}

func validateFamily(fam *ast.FamilyDecl, tables *symbolTables, bag *diag.Bag) {
	outletCount := 0
	for _, item := range fam.Items {
		outlet, ok := item.(*ast.OutletDecl)
		if !ok {
			continue
		}
		outletCount++
		validateOutlet(outlet, tables, bag)
	}
	if outletCount == 0 {
		bag.Warnf(diag.RuleEmptyFamily, fam.Location().Start, "family %q has no outlets", fam.Name)
	}
}

func validateOutlet(outlet *ast.OutletDecl, tables *symbolTables, bag *diag.Bag) {
	id, ok := outletID(outlet)
	if !ok {
		bag.Errorf(diag.RuleOutletMissingID, outlet.Location().Start, "outlet %q is missing an id (neither identity.id nor a top-level id is present)", outlet.Name)
		return
	}

	if outlet.TopLevelID != nil {
		if identityID, hasIdentityID := identityBlockID(outlet); hasIdentityID && identityID != *outlet.TopLevelID {
			bag.Errorf(diag.RuleOutletIDConflict, outlet.Location().Start, "outlet %q has conflicting ids: identity.id=%d, top-level id=%d", outlet.Name, identityID, *outlet.TopLevelID)
		}
	}

	if len(tables.outletsByID[id]) > 1 {
		bag.Errorf(diag.RuleDuplicateOutletID, outlet.Location().Start, "outlet id %d is already used by another outlet", id)
	}

	for _, block := range outlet.Blocks {
		if lifecycle, ok := block.(*ast.LifecycleBlock); ok {
			validateLifecycle(outlet, lifecycle, bag)
		}
	}
}

func validateLifecycle(outlet *ast.OutletDecl, lifecycle *ast.LifecycleBlock, bag *diag.Bag) {
	for _, status := range lifecycle.Statuses {
		if status.Status == "" {
			bag.Errorf(diag.RuleInvalidIdentifier, status.Location().Start, "outlet %q has a lifecycle status with an empty name", outlet.Name)
		}
	}
}

func validateEvent(ev *ast.EventDecl, bag *diag.Bag) {
	for _, entity := range ev.Entities {
		if entity.StakeBefore != nil && (*entity.StakeBefore < 0 || *entity.StakeBefore > 100) {
			bag.Warnf(diag.RuleImplausibleStake, entity.Location().Start, "event %q entity %q has implausible stake_before %.2f", ev.Name, entity.Name, *entity.StakeBefore)
		}
		if entity.StakeAfter != nil && (*entity.StakeAfter < 0 || *entity.StakeAfter > 100) {
			bag.Warnf(diag.RuleImplausibleStake, entity.Location().Start, "event %q entity %q has implausible stake_after %.2f", ev.Name, entity.Name, *entity.StakeAfter)
		}
	}
}

// referencePass resolves link endpoints against the outlet table and
// checks relationship_type membership.
func referencePass(program *ast.Program, tables *symbolTables, bag *diag.Bag) {
	for _, stmt := range program.Statements {
		fam, ok := stmt.(*ast.FamilyDecl)
		if !ok {
			continue
		}
		for _, item := range fam.Items {
			switch link := item.(type) {
			case *ast.DiachronicLinkDecl:
				checkRelationshipKVs(link.Name, link.Fields, tables, bag)
			case *ast.SynchronousLinkDecl:
				checkRelationshipKVs(link.Name, link.Fields, tables, bag)
			}
		}
	}
}

func checkRelationshipKVs(linkName string, fields []*ast.KeyValue, tables *symbolTables, bag *diag.Bag) {
	for _, kv := range fields {
		switch kv.Name {
		case "predecessor", "successor":
			checkOutletRef(linkName, kv, tables, bag)
		case "relationship_type":
			if str, ok := kv.Value.(*ast.StringLit); ok && !recognizedRelationshipTypes[str.Value] {
				bag.Warnf(diag.RuleUnknownRelationshipType, kv.Location().Start, "link %q has unrecognized relationship_type %q", linkName, str.Value)
			}
		case "outlet_1", "outlet_2":
			if obj, ok := kv.Value.(*ast.ObjectExpr); ok {
				for _, field := range obj.Fields {
					if field.Name == "id" {
						checkOutletRefExpr(linkName, field.Value, field.Location(), tables, bag)
					}
				}
			}
		}
	}
}

func checkOutletRef(linkName string, kv *ast.KeyValue, tables *symbolTables, bag *diag.Bag) {
	checkOutletRefExpr(linkName, kv.Value, kv.Location(), tables, bag)
}

func checkOutletRefExpr(linkName string, expr ast.Expression, loc ast.Span, tables *symbolTables, bag *diag.Bag) {
	num, ok := expr.(*ast.NumberLit)
	if !ok {
		return
	}
	id := int(num.Value)
	if !tables.declaredIDs[id] {
		bag.Warnf(diag.RuleUnresolvedOutletRef, loc.Start, "link %q references outlet id %d, which is not declared in this program", linkName, id)
	}
}

// outletID returns the outlet's effective id, preferring identity.id
// over a top-level id when both are present and they agree.
func outletID(outlet *ast.OutletDecl) (int, bool) {
	if identityID, ok := identityBlockID(outlet); ok {
		return identityID, true
	}
	if outlet.TopLevelID != nil {
		return *outlet.TopLevelID, true
	}
	return 0, false
}

func identityBlockID(outlet *ast.OutletDecl) (int, bool) {
	for _, block := range outlet.Blocks {
		identity, ok := block.(*ast.IdentityBlock)
		if !ok {
			continue
		}
		for _, kv := range identity.Fields {
			if kv.Name != "id" {
				continue
			}
			if num, ok := kv.Value.(*ast.NumberLit); ok {
				return int(num.Value), true
			}
		}
	}
	return 0, false
}
