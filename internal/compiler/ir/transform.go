package ir

import (
	"fmt"

	"github.com/pacedproton/mdslc/internal/compiler/ast"
	"github.com/pacedproton/mdslc/internal/compiler/diag"
)

// TransformError is a fatal IR-lowering failure: unresolved
// variable references and outlets without a resolvable id are reported
// this way rather than as a ValidationIssue, unless the validator has
// already flagged them.
type TransformError struct {
	Message string
	Pos     ast.Position
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// transformer holds the LET-binding environment threaded through a
// single Transform call. Each LET inlines immediately into the
// environment in declaration order, so later bindings shadow earlier
// ones and may refer to them.
type transformer struct {
	env map[string]Expression
	bag *diag.Bag
}

// Transform lowers a parsed Program into a normalized IRProgram. It is a
// pure function: no I/O, single pass, deterministic given a deterministic
// AST. The returned Bag carries Info-level diagnostics
// produced along the way (e.g. unknown relationship keys);
// Transform only returns an error for conditions deemed fatal.
func Transform(program *ast.Program) (*Program, *diag.Bag, error) {
	t := &transformer{env: map[string]Expression{}, bag: diag.NewBag()}
	ir := &Program{}

	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ast.ImportStmt:
			ir.Imports = append(ir.Imports, Import{Path: s.Path})

		case *ast.LetStmt:
			resolved, err := t.resolveExpr(s.Value)
			if err != nil {
				return nil, t.bag, err
			}
			t.env[s.Name] = resolved

		case *ast.UnitDecl:
			unit, err := t.lowerUnit(s)
			if err != nil {
				return nil, t.bag, err
			}
			ir.Units = append(ir.Units, *unit)

		case *ast.VocabularyDecl:
			ir.Vocabularies = append(ir.Vocabularies, t.lowerVocabulary(s))

		case *ast.TemplateDecl:
			tmpl, err := t.lowerTemplate(s)
			if err != nil {
				return nil, t.bag, err
			}
			ir.Templates = append(ir.Templates, *tmpl)

		case *ast.FamilyDecl:
			fam, err := t.lowerFamily(s)
			if err != nil {
				return nil, t.bag, err
			}
			ir.Families = append(ir.Families, *fam)

		case *ast.EventDecl:
			ev, err := t.lowerEvent(s)
			if err != nil {
				return nil, t.bag, err
			}
			ir.Events = append(ir.Events, *ev)
		}
	}

	return ir, t.bag, nil
}

func (t *transformer) lowerUnit(u *ast.UnitDecl) (*Unit, error) {
	unit := &Unit{Name: u.Name}
	for _, f := range u.Fields {
		unit.Fields = append(unit.Fields, Field{
			Name:         f.Name,
			Type:         lowerFieldType(f.Type),
			IsPrimaryKey: f.IsPrimaryKey,
		})
	}
	return unit, nil
}

func lowerFieldType(ft ast.FieldType) FieldType {
	out := FieldType{CategoryValues: ft.CategoryValues}
	switch ft.Kind {
	case ast.FieldTypeID:
		out.Kind = FieldTypeID
	case ast.FieldTypeText:
		out.Kind = FieldTypeText
		out.TextLength = ft.TextLength
	case ast.FieldTypeNumber:
		out.Kind = FieldTypeNumber
	case ast.FieldTypeBoolean:
		out.Kind = FieldTypeBoolean
	case ast.FieldTypeCategory:
		out.Kind = FieldTypeCategory
	}
	return out
}

func (t *transformer) lowerVocabulary(v *ast.VocabularyDecl) Vocabulary {
	voc := Vocabulary{Name: v.Name, BodyName: v.BodyName}
	for _, e := range v.Entries {
		entry := VocabularyEntry{Value: e.Value}
		if e.KeyKind == ast.VocabKeyNumber {
			entry.KeyKind = VocabKeyNumber
			entry.KeyNumber = e.KeyNumber
		} else {
			entry.KeyKind = VocabKeyString
			entry.KeyString = e.KeyString
		}
		voc.Entries = append(voc.Entries, entry)
	}
	return voc
}

func (t *transformer) lowerTemplate(tmpl *ast.TemplateDecl) (*Template, error) {
	out := &Template{Name: tmpl.Name, TemplateType: tmpl.Kind}
	for _, block := range tmpl.Blocks {
		irBlock, err := t.lowerOutletBlockAsTemplateBlock(block)
		if err != nil {
			return nil, err
		}
		out.Blocks = append(out.Blocks, *irBlock)
	}
	return out, nil
}

func (t *transformer) lowerOutletBlockAsTemplateBlock(block ast.OutletBlock) (*TemplateBlock, error) {
	switch b := block.(type) {
	case *ast.CharacteristicsBlock:
		chars, err := t.lowerCharacteristics(b.Fields)
		if err != nil {
			return nil, err
		}
		return &TemplateBlock{Kind: TemplateBlockCharacteristics, Characteristics: chars}, nil
	case *ast.MetadataBlock:
		meta, err := t.lowerMetadata(b.Fields)
		if err != nil {
			return nil, err
		}
		return &TemplateBlock{Kind: TemplateBlockMetadata, Metadata: meta}, nil
	default:
		// identity/lifecycle blocks inside a template are uncommon but not
		// forbidden by the grammar; represented as an empty characteristics
		// block so template shape stays total over outletBlock.
		return &TemplateBlock{Kind: TemplateBlockCharacteristics}, nil
	}
}

func (t *transformer) lowerCharacteristics(kvs []*ast.KeyValue) ([]Characteristic, error) {
	var out []Characteristic
	for _, kv := range kvs {
		val, err := t.resolveExpr(kv.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, Characteristic{Name: kv.Name, Value: val})
	}
	return out, nil
}

func (t *transformer) lowerMetadata(kvs []*ast.KeyValue) ([]Metadata, error) {
	var out []Metadata
	for _, kv := range kvs {
		val, err := t.resolveExpr(kv.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, Metadata{Name: kv.Name, Value: val})
	}
	return out, nil
}
