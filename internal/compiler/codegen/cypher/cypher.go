// Package cypher generates Neo4j-compatible Cypher from the compiler's
// IR.
package cypher

import (
	"fmt"
	"strings"

	"github.com/pacedproton/mdslc/internal/compiler/codegen"
	"github.com/pacedproton/mdslc/internal/compiler/ir"
)

// Generator is the uniform back-end interface.
type Generator interface {
	Generate(program *ir.Program) (string, error)
}

// StandardGenerator emits MERGE/MATCH/CREATE CONSTRAINT statements for
// every outlet, family, event, and relationship in the IR.
type StandardGenerator struct{}

// New creates a StandardGenerator.
func New() *StandardGenerator {
	return &StandardGenerator{}
}

// Generate implements Generator.
func (g *StandardGenerator) Generate(program *ir.Program) (string, error) {
	var sb strings.Builder

	writeConstraints(&sb, program)

	for _, fam := range program.Families {
		writeFamily(&sb, fam)
	}
	for _, ev := range program.Events {
		writeEvent(&sb, ev)
	}

	return sb.String(), nil
}

// writeConstraints emits uniqueness constraints before any MERGE statement.
func writeConstraints(sb *strings.Builder, program *ir.Program) {
	if len(program.Families) > 0 {
		sb.WriteString("CREATE CONSTRAINT media_outlet_id_unique IF NOT EXISTS FOR (o:MediaOutlet) REQUIRE o.id IS UNIQUE;\n")
		sb.WriteString("CREATE CONSTRAINT family_name_unique IF NOT EXISTS FOR (f:Family) REQUIRE f.name IS UNIQUE;\n")
	}
	if len(program.Events) > 0 {
		sb.WriteString("CREATE CONSTRAINT event_name_unique IF NOT EXISTS FOR (e:Event) REQUIRE e.name IS UNIQUE;\n")
	}
	sb.WriteString("\n")
}

func writeFamily(sb *strings.Builder, fam ir.Family) {
	fmt.Fprintf(sb, "MERGE (f:Family {name: %s});\n", codegen.WriteStringLiteral(fam.Name))

	for _, outlet := range fam.Outlets {
		writeOutlet(sb, outlet)
		fmt.Fprintf(sb, "MATCH (f:Family {name: %s}), (o:MediaOutlet {id: %d}) MERGE (f)-[:CONTAINS]->(o);\n", codegen.WriteStringLiteral(fam.Name), outlet.ID)
	}
	for _, rel := range fam.Relationships {
		writeRelationship(sb, rel)
	}
	sb.WriteString("\n")
}

func writeOutlet(sb *strings.Builder, outlet ir.Outlet) {
	fmt.Fprintf(sb, "MERGE (o:MediaOutlet {id: %d})", outlet.ID)

	var sets []string
	for _, block := range outlet.Blocks {
		switch block.Kind {
		case ir.OutletBlockIdentity:
			for _, f := range block.Identity {
				if f.Name == "id" {
					continue
				}
				sets = append(sets, fmt.Sprintf("o.%s = %s", f.Name, exprLiteral(f.Value)))
			}
		case ir.OutletBlockCharacteristics:
			for _, c := range block.Characteristics {
				sets = append(sets, fmt.Sprintf("o.%s = %s", c.Name, exprLiteral(c.Value)))
			}
		case ir.OutletBlockMetadata:
			for _, m := range block.Metadata {
				sets = append(sets, fmt.Sprintf("o.%s = %s", m.Name, exprLiteral(m.Value)))
			}
		}
	}
	if len(sets) > 0 {
		fmt.Fprintf(sb, " SET %s", strings.Join(sets, ", "))
	}
	sb.WriteString(";\n")
}

func writeRelationship(sb *strings.Builder, rel ir.Relationship) {
	switch rel.Kind {
	case ir.RelationshipDiachronic:
		link := rel.Diachronic
		props := []string{fmt.Sprintf("type: %s", codegen.WriteStringLiteral(link.RelationshipType))}
		if link.EventStartDate != nil {
			props = append(props, fmt.Sprintf("start: %s", codegen.WriteStringLiteral(*link.EventStartDate)))
		}
		if link.EventEndDate != nil {
			props = append(props, fmt.Sprintf("end: %s", codegen.WriteStringLiteral(*link.EventEndDate)))
		}
		if link.MapsTo != nil {
			props = append(props, fmt.Sprintf("maps_to: %s", codegen.WriteStringLiteral(*link.MapsTo)))
		}
		fmt.Fprintf(sb, "MATCH (p:MediaOutlet {id: %d}), (s:MediaOutlet {id: %d}) MERGE (p)-[:SUCCEEDED_BY {%s}]->(s);\n",
			link.Predecessor, link.Successor, strings.Join(props, ", "))

	case ir.RelationshipSynchronous:
		link := rel.Synchronous
		props := []string{
			fmt.Sprintf("relationship_type: %s", codegen.WriteStringLiteral(link.RelationshipType)),
			fmt.Sprintf("role_1: %s", codegen.WriteStringLiteral(link.Outlet1.Role)),
			fmt.Sprintf("role_2: %s", codegen.WriteStringLiteral(link.Outlet2.Role)),
		}
		if link.PeriodStart != nil {
			props = append(props, fmt.Sprintf("period_start: %s", codegen.WriteStringLiteral(*link.PeriodStart)))
		}
		if link.PeriodEnd != nil {
			props = append(props, fmt.Sprintf("period_end: %s", codegen.WriteStringLiteral(*link.PeriodEnd)))
		}
		if link.MapsTo != nil {
			props = append(props, fmt.Sprintf("maps_to: %s", codegen.WriteStringLiteral(*link.MapsTo)))
		}
		fmt.Fprintf(sb, "MATCH (a:MediaOutlet {id: %d}), (b:MediaOutlet {id: %d}) MERGE (a)-[:RELATED_TO {%s}]->(b);\n",
			link.Outlet1.ID, link.Outlet2.ID, strings.Join(props, ", "))
	}
}

func writeEvent(sb *strings.Builder, ev ir.Event) {
	fmt.Fprintf(sb, "MERGE (e:Event {name: %s}) SET e.event_type = %s", codegen.WriteStringLiteral(ev.Name), codegen.WriteStringLiteral(ev.EventType))
	if ev.Date != nil {
		fmt.Fprintf(sb, ", e.date = %s", codegen.WriteStringLiteral(*ev.Date))
	}
	if ev.Status != nil {
		fmt.Fprintf(sb, ", e.status = %s", codegen.WriteStringLiteral(*ev.Status))
	}
	sb.WriteString(";\n")

	for _, entity := range ev.Entities {
		props := []string{fmt.Sprintf("role: %s", codegen.WriteStringLiteral(entity.Role))}
		if entity.StakeBefore != nil {
			props = append(props, fmt.Sprintf("stake_before: %s", codegen.FormatNumber(*entity.StakeBefore)))
		}
		if entity.StakeAfter != nil {
			props = append(props, fmt.Sprintf("stake_after: %s", codegen.FormatNumber(*entity.StakeAfter)))
		}
		fmt.Fprintf(sb, "MATCH (e:Event {name: %s}), (o:MediaOutlet {id: %d}) MERGE (e)-[:INVOLVES {%s}]->(o);\n",
			codegen.WriteStringLiteral(ev.Name), entity.ID, strings.Join(props, ", "))
	}
	sb.WriteString("\n")
}

func exprLiteral(e ir.Expression) string {
	switch e.Kind {
	case ir.ExprString:
		return codegen.WriteStringLiteral(e.StringValue)
	case ir.ExprNumber:
		return codegen.FormatNumber(e.NumberValue)
	case ir.ExprBoolean:
		if e.BoolValue {
			return "true"
		}
		return "false"
	default:
		return codegen.WriteStringLiteral(fmt.Sprintf("%+v", e))
	}
}
