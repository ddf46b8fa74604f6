// Package ast defines the Abstract Syntax Tree node types for MDSL, the
// domain-specific language describing media outlets, the corporate
// families that own them, and the relationships between them.
package ast

import "github.com/pacedproton/mdslc/internal/compiler/lexer"

// Position re-exports the lexer's source position type so callers never
// need to import lexer just to read a node's location.
type Position = lexer.Position

// Span is the source range a node was parsed from.
type Span struct {
	Start Position
	End   Position
}

// Node is the base interface implemented by every AST node.
type Node interface {
	Location() Span
	node()
}

// Program is the root of the AST: an ordered sequence of top-level
// statements, in source order.
type Program struct {
	Statements []Statement
}

func (p *Program) node() {}

// Location returns the span covering the whole program.
func (p *Program) Location() Span {
	if len(p.Statements) == 0 {
		return Span{}
	}
	return Span{Start: p.Statements[0].Location().Start, End: p.Statements[len(p.Statements)-1].Location().End}
}

// Statement is any top-level construct: Import, LetBinding, Unit,
// Vocabulary, Family, or Event.
type Statement interface {
	Node
	stmt()
}

// ImportStmt is an `IMPORT "path";` statement.
type ImportStmt struct {
	Path string
	Span Span
}

func (s *ImportStmt) node()              {}
func (s *ImportStmt) stmt()              {}
func (s *ImportStmt) Location() Span     { return s.Span }

// LetStmt is a `LET name = expr;` statement.
type LetStmt struct {
	Name  string
	Value Expression
	Span  Span
}

func (s *LetStmt) node()          {}
func (s *LetStmt) stmt()          {}
func (s *LetStmt) Location() Span { return s.Span }

// UnitDecl is a `UNIT Name { field, ... }` schema declaration.
type UnitDecl struct {
	Name   string
	Fields []*Field
	Span   Span
}

func (s *UnitDecl) node()          {}
func (s *UnitDecl) stmt()          {}
func (s *UnitDecl) Location() Span { return s.Span }

// Field is one field of a UNIT declaration.
type Field struct {
	Name        string
	Type        FieldType
	IsPrimaryKey bool
	Span        Span
}

func (f *Field) node()          {}
func (f *Field) Location() Span { return f.Span }

// FieldTypeKind discriminates FieldType variants.
type FieldTypeKind int

const (
	FieldTypeID FieldTypeKind = iota
	FieldTypeText
	FieldTypeNumber
	FieldTypeBoolean
	FieldTypeCategory
)

// FieldType is one of ID, Text(length?), Number, Boolean, Category(values).
type FieldType struct {
	Kind          FieldTypeKind
	TextLength    *int     // only meaningful when Kind == FieldTypeText
	CategoryValues []string // only meaningful when Kind == FieldTypeCategory
}

// VocabularyDecl is a `VOCABULARY Name { CODES { key: "value", ... } }`.
type VocabularyDecl struct {
	Name     string
	BodyName string // the block keyword, always "CODES" today
	Entries  []*VocabularyEntry
	Span     Span
}

func (s *VocabularyDecl) node()          {}
func (s *VocabularyDecl) stmt()          {}
func (s *VocabularyDecl) Location() Span { return s.Span }

// VocabularyKeyKind discriminates a vocabulary entry's key type.
type VocabularyKeyKind int

const (
	VocabKeyNumber VocabularyKeyKind = iota
	VocabKeyString
)

// VocabularyEntry is one `key: "value"` pair inside a CODES block.
type VocabularyEntry struct {
	KeyKind   VocabularyKeyKind
	KeyNumber float64
	KeyString string
	Value     string
	Span      Span
}

func (e *VocabularyEntry) node()          {}
func (e *VocabularyEntry) Location() Span { return e.Span }

// TemplateDecl is a `TEMPLATE kind Name { blocks }` declaration. Template
// bodies are recorded but never inlined by the core.
type TemplateDecl struct {
	Name   string
	Kind   string
	Blocks []OutletBlock
	Span   Span
}

func (s *TemplateDecl) node()          {}
func (s *TemplateDecl) stmt()          {}
func (s *TemplateDecl) Location() Span { return s.Span }

// FamilyDecl is a `FAMILY "name" { items }` declaration.
type FamilyDecl struct {
	Name    string
	Comment *string
	Items   []FamilyItem
	Span    Span
}

func (s *FamilyDecl) node()          {}
func (s *FamilyDecl) stmt()          {}
func (s *FamilyDecl) Location() Span { return s.Span }

// FamilyItem is any construct nested directly inside a FAMILY body:
// Outlet, DiachronicLink, SynchronousLink, or DataBlock.
type FamilyItem interface {
	Node
	familyItem()
}

// OutletDecl is an `OUTLET "name" [EXTENDS T] [BASED_ON n] { blocks }`.
type OutletDecl struct {
	Name        string
	TemplateRef *string // EXTENDS <Identifier>
	BaseRef     *int    // BASED_ON <number>
	TopLevelID  *int    // a top-level `id = N;` statement directly in the outlet body
	Blocks      []OutletBlock
	Span        Span
}

func (o *OutletDecl) node()        {}
func (o *OutletDecl) familyItem()  {}
func (o *OutletDecl) Location() Span { return o.Span }

// OutletBlock is one of Identity, Lifecycle, Characteristics, or Metadata.
type OutletBlock interface {
	Node
	outletBlock()
}

// IdentityBlock holds an outlet's identity key/value pairs, including its
// `id`.
type IdentityBlock struct {
	Fields []*KeyValue
	Span   Span
}

func (b *IdentityBlock) node()          {}
func (b *IdentityBlock) outletBlock()   {}
func (b *IdentityBlock) Location() Span { return b.Span }

// LifecycleBlock holds a sequence of status periods.
type LifecycleBlock struct {
	Statuses []*LifecycleStatus
	Span     Span
}

func (b *LifecycleBlock) node()          {}
func (b *LifecycleBlock) outletBlock()   {}
func (b *LifecycleBlock) Location() Span { return b.Span }

// LifecycleStatus is `status "name" FROM "start" TO "end" { kv* }`.
type LifecycleStatus struct {
	Status string
	From   string
	To     string
	Fields []*KeyValue
	Span   Span
}

func (s *LifecycleStatus) node()          {}
func (s *LifecycleStatus) Location() Span { return s.Span }

// CharacteristicsBlock holds free-form characteristic key/value pairs.
type CharacteristicsBlock struct {
	Fields []*KeyValue
	Span   Span
}

func (b *CharacteristicsBlock) node()          {}
func (b *CharacteristicsBlock) outletBlock()   {}
func (b *CharacteristicsBlock) Location() Span { return b.Span }

// MetadataBlock holds free-form metadata key/value pairs.
type MetadataBlock struct {
	Fields []*KeyValue
	Span   Span
}

func (b *MetadataBlock) node()          {}
func (b *MetadataBlock) outletBlock()   {}
func (b *MetadataBlock) Location() Span { return b.Span }

// KeyValue is a generic `name = expression;` pair used throughout block
// bodies (identity, characteristics, metadata, relationship kv maps).
type KeyValue struct {
	Name  string
	Value Expression
	Span  Span
}

func (kv *KeyValue) node()          {}
func (kv *KeyValue) Location() Span { return kv.Span }

// LinkKind discriminates the two relationship shapes.
type LinkKind int

const (
	LinkDiachronic LinkKind = iota
	LinkSynchronous
)

// DiachronicLinkDecl is a `DIACHRONIC_LINK Name { kv* }`.
type DiachronicLinkDecl struct {
	Name   string
	Fields []*KeyValue
	Span   Span
}

func (d *DiachronicLinkDecl) node()          {}
func (d *DiachronicLinkDecl) familyItem()    {}
func (d *DiachronicLinkDecl) Location() Span { return d.Span }

// SynchronousLinkDecl is a `SYNCHRONOUS_LINK(S) Name { kv* }`. The parser
// treats SYNCHRONOUS_LINK and SYNCHRONOUS_LINKS as synonyms;
// both lower to this same node.
type SynchronousLinkDecl struct {
	Name   string
	Fields []*KeyValue
	Span   Span
}

func (s *SynchronousLinkDecl) node()          {}
func (s *SynchronousLinkDecl) familyItem()    {}
func (s *SynchronousLinkDecl) Location() Span { return s.Span }

// DataBlockDecl is a `DATA FOR <number> { body }`.
type DataBlockDecl struct {
	OutletID int
	Fields   []*KeyValue
	Span     Span
}

func (d *DataBlockDecl) node()          {}
func (d *DataBlockDecl) familyItem()    {}
func (d *DataBlockDecl) Location() Span { return d.Span }

// EventDecl is a declarative `EVENT` statement.
type EventDecl struct {
	Name      string
	EventType string
	Date      *string
	Entities  []*EventEntity
	Impact    []*KeyValue
	Metadata  []*KeyValue
	Status    *string
	Span      Span
}

func (e *EventDecl) node()          {}
func (e *EventDecl) stmt()          {}
func (e *EventDecl) Location() Span { return e.Span }

// EventEntity is one entity participating in an EVENT.
type EventEntity struct {
	Name        string
	ID          int
	Role        string
	StakeBefore *float64
	StakeAfter  *float64
	Span        Span
}

func (e *EventEntity) node()          {}
func (e *EventEntity) Location() Span { return e.Span }
