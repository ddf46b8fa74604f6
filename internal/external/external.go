// Package external declares the contracts for collaborators the core
// compiler deliberately does not implement: reverse-direction SQL
// import, interactive completion/knowledge-base assistance, and
// optional live graph-database validation. The core never calls these
// types itself; it only emits the values (ValidationIssue, IR) that a
// concrete implementation of one of these interfaces would consume.
package external

import (
	"context"

	"github.com/pacedproton/mdslc/internal/compiler/diag"
	"github.com/pacedproton/mdslc/internal/compiler/ir"
)

// SQLImporter reparses a previously generated CREATE TABLE statement
// back into a unit declaration, the reverse of codegen/sql. A concrete
// implementation is what the round-trip invariant checks against: for
// any representable unit U, ImportTable(sqlGen.Generate(U)) yields an
// IR unit equivalent to U. Feature-gated and never invoked by the core.
type SQLImporter interface {
	// ImportTable parses a single CREATE TABLE statement into its
	// equivalent unit shape.
	ImportTable(ctx context.Context, ddl string) (*ir.Unit, error)
}

// SuggestionKind classifies an Assistant suggestion by where in the
// grammar it applies.
type SuggestionKind int

const (
	SuggestTopLevelConstruct SuggestionKind = iota
	SuggestUnitField
	SuggestFamilyContent
	SuggestOutletContent
	SuggestRelationshipContent
	SuggestFieldType
	SuggestRelationshipType
)

// Suggestion is a single completion or explanation offered at a cursor
// position.
type Suggestion struct {
	Kind        SuggestionKind
	Label       string
	InsertText  string
	Description string
}

// Assistant is the interactive, knowledge-base-backed suggestion
// tooling the core explicitly keeps at arm's length: it consumes
// source text and diagnostics but never feeds back into compilation.
type Assistant interface {
	// Suggest returns completion candidates for source at cursorPos,
	// informed by any diagnostics already produced for it.
	Suggest(ctx context.Context, source string, cursorPos int, diagnostics []diag.Issue) ([]Suggestion, error)

	// Explain returns a human-readable explanation of a single issue,
	// drawn from the assistant's knowledge base rather than the
	// validator's own (deliberately terse) message.
	Explain(ctx context.Context, issue diag.Issue) (string, error)
}

// GraphValidationResult reports whether a generated Cypher script was
// accepted by a live graph database, plus anything it rejected.
type GraphValidationResult struct {
	Accepted bool
	Errors   []string
}

// GraphValidator optionally submits generated Cypher to a running graph
// database to confirm it executes cleanly. This is strictly
// supplementary to the core's own determinism guarantee: the core never
// requires a reachable database to produce correct output.
type GraphValidator interface {
	// Validate executes cypher against a graph database and reports
	// whether it ran without error.
	Validate(ctx context.Context, cypher string) (*GraphValidationResult, error)
}
