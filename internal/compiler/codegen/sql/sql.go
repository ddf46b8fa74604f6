// Package sql generates SQL DDL and DML from the compiler's IR. Two
// generators share the mapping discipline behind one interface:
// StandardGenerator (the default schema) and AnmiGenerator (the alternate
// pre-existing "ANMI" schema).
package sql

import (
	"fmt"
	"strings"

	"github.com/pacedproton/mdslc/internal/compiler/codegen"
	"github.com/pacedproton/mdslc/internal/compiler/ir"
)

// Generator is the uniform back-end interface both SQL emitters satisfy.
type Generator interface {
	Generate(program *ir.Program) (string, error)
}

// StandardGenerator emits one self-contained SQL script per compilation,
// section by section: unit tables, then each vocabulary's table with its
// rows, then the family/outlet/link tables followed by their INSERT
// statements, then the events tables followed by theirs.
type StandardGenerator struct{}

// New creates a StandardGenerator.
func New() *StandardGenerator {
	return &StandardGenerator{}
}

// Generate implements Generator.
func (g *StandardGenerator) Generate(program *ir.Program) (string, error) {
	var sb strings.Builder

	for _, unit := range program.Units {
		if err := writeUnitTable(&sb, unit); err != nil {
			return "", err
		}
	}
	for _, voc := range program.Vocabularies {
		writeVocabularyTable(&sb, voc)
	}
	if len(program.Families) > 0 {
		writeSchemaTables(&sb)
		for _, fam := range program.Families {
			writeFamily(&sb, fam)
		}
	}
	if len(program.Events) > 0 {
		writeEventsTable(&sb)
		for _, ev := range program.Events {
			writeEvent(&sb, ev)
		}
	}

	return sb.String(), nil
}

// writeUnitTable emits `CREATE TABLE <name> ( ... )` for one IRUnit.
func writeUnitTable(sb *strings.Builder, unit ir.Unit) error {
	fmt.Fprintf(sb, "CREATE TABLE %s (\n", codegen.WriteIdentifier(unit.Name))
	for i, field := range unit.Fields {
		colType, err := sqlColumnType(field.Type)
		if err != nil {
			return fmt.Errorf("unit %q field %q: %w", unit.Name, field.Name, err)
		}
		fmt.Fprintf(sb, "  %s %s", codegen.WriteIdentifier(field.Name), colType)
		if field.IsPrimaryKey {
			sb.WriteString(" PRIMARY KEY")
		}
		if field.Type.Kind == ir.FieldTypeCategory {
			fmt.Fprintf(sb, " CHECK (%s IN (%s))", codegen.WriteIdentifier(field.Name), joinQuoted(field.Type.CategoryValues))
		}
		if i < len(unit.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(");\n\n")
	return nil
}

// sqlColumnType maps an IR field type to its SQL column type.
func sqlColumnType(ft ir.FieldType) (string, error) {
	switch ft.Kind {
	case ir.FieldTypeID:
		return "INTEGER", nil
	case ir.FieldTypeText:
		if ft.TextLength != nil {
			return fmt.Sprintf("VARCHAR(%d)", *ft.TextLength), nil
		}
		return "TEXT", nil
	case ir.FieldTypeNumber:
		return "DOUBLE PRECISION", nil
	case ir.FieldTypeBoolean:
		return "BOOLEAN", nil
	case ir.FieldTypeCategory:
		return "VARCHAR", nil
	default:
		return "", fmt.Errorf("unsupported field type kind %v", ft.Kind)
	}
}

func joinQuoted(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = codegen.WriteStringLiteral(v)
	}
	return strings.Join(parts, ", ")
}

// writeVocabularyTable emits the canonical `vocabulary_<name>(key, value)`
// table and its INSERT rows.
func writeVocabularyTable(sb *strings.Builder, voc ir.Vocabulary) {
	tableName := "vocabulary_" + voc.Name
	fmt.Fprintf(sb, "CREATE TABLE %s (\n  key VARCHAR,\n  value VARCHAR\n);\n\n", codegen.WriteIdentifier(tableName))
	for _, entry := range voc.Entries {
		key := vocabularyKeyLiteral(entry)
		fmt.Fprintf(sb, "INSERT INTO %s (key, value) VALUES (%s, %s);\n", codegen.WriteIdentifier(tableName), key, codegen.WriteStringLiteral(entry.Value))
	}
	sb.WriteString("\n")
}

func vocabularyKeyLiteral(entry ir.VocabularyEntry) string {
	if entry.KeyKind == ir.VocabKeyNumber {
		return codegen.FormatNumber(entry.KeyNumber)
	}
	return codegen.WriteStringLiteral(entry.KeyString)
}

// writeSchemaTables emits the shared family/outlet/side-table schema
// used by every family in the program.
func writeSchemaTables(sb *strings.Builder) {
	sb.WriteString("CREATE TABLE families (\n  name VARCHAR PRIMARY KEY,\n  comment VARCHAR\n);\n\n")
	sb.WriteString("CREATE TABLE outlets (\n  id INTEGER PRIMARY KEY,\n  family_name VARCHAR,\n  name VARCHAR,\n  template_ref VARCHAR,\n  base_ref INTEGER\n);\n\n")
	sb.WriteString("CREATE TABLE outlet_lifecycle (\n  outlet_id INTEGER,\n  status VARCHAR,\n  start_date VARCHAR,\n  end_date VARCHAR,\n  comment VARCHAR\n);\n\n")
	sb.WriteString("CREATE TABLE outlet_characteristics (\n  outlet_id INTEGER,\n  name VARCHAR,\n  value VARCHAR\n);\n\n")
	sb.WriteString("CREATE TABLE outlet_metadata (\n  outlet_id INTEGER,\n  name VARCHAR,\n  value VARCHAR\n);\n\n")
	sb.WriteString("CREATE TABLE diachronic_links (\n  name VARCHAR,\n  predecessor INTEGER,\n  successor INTEGER,\n  relationship_type VARCHAR,\n  event_start_date VARCHAR,\n  event_end_date VARCHAR,\n  comment VARCHAR,\n  maps_to VARCHAR\n);\n\n")
	sb.WriteString("CREATE TABLE synchronous_links (\n  name VARCHAR,\n  outlet_1_id INTEGER,\n  outlet_1_role VARCHAR,\n  outlet_2_id INTEGER,\n  outlet_2_role VARCHAR,\n  relationship_type VARCHAR,\n  period_start VARCHAR,\n  period_end VARCHAR,\n  details VARCHAR,\n  maps_to VARCHAR\n);\n\n")
	sb.WriteString("CREATE TABLE outlet_data_metrics (\n  outlet_id INTEGER,\n  year INTEGER,\n  metric_name VARCHAR,\n  value DOUBLE PRECISION,\n  unit VARCHAR,\n  source VARCHAR,\n  comment VARCHAR\n);\n\n")
}

func writeFamily(sb *strings.Builder, fam ir.Family) {
	comment := "NULL"
	if fam.Comment != nil {
		comment = codegen.WriteStringLiteral(*fam.Comment)
	}
	fmt.Fprintf(sb, "INSERT INTO families (name, comment) VALUES (%s, %s);\n", codegen.WriteStringLiteral(fam.Name), comment)

	for _, outlet := range fam.Outlets {
		writeOutlet(sb, fam.Name, outlet)
	}
	for _, rel := range fam.Relationships {
		writeRelationship(sb, rel)
	}
	for _, data := range fam.DataBlocks {
		writeDataBlock(sb, data)
	}
	sb.WriteString("\n")
}

func writeOutlet(sb *strings.Builder, familyName string, outlet ir.Outlet) {
	templateRef, baseRef := "NULL", "NULL"
	if outlet.TemplateRef != nil {
		templateRef = codegen.WriteStringLiteral(*outlet.TemplateRef)
	}
	if outlet.BaseRef != nil {
		baseRef = codegen.FormatNumber(float64(*outlet.BaseRef))
	}
	fmt.Fprintf(sb, "INSERT INTO outlets (id, family_name, name, template_ref, base_ref) VALUES (%d, %s, %s, %s, %s);\n",
		outlet.ID, codegen.WriteStringLiteral(familyName), codegen.WriteStringLiteral(outlet.Name), templateRef, baseRef)

	for _, block := range outlet.Blocks {
		switch block.Kind {
		case ir.OutletBlockLifecycle:
			for _, status := range block.Lifecycle {
				comment := "NULL"
				if status.Comment != nil {
					comment = codegen.WriteStringLiteral(*status.Comment)
				}
				start, end := "NULL", "NULL"
				if status.StartDate != nil {
					start = codegen.WriteStringLiteral(*status.StartDate)
				}
				if status.EndDate != nil {
					end = codegen.WriteStringLiteral(*status.EndDate)
				}
				fmt.Fprintf(sb, "INSERT INTO outlet_lifecycle (outlet_id, status, start_date, end_date, comment) VALUES (%d, %s, %s, %s, %s);\n",
					outlet.ID, codegen.WriteStringLiteral(status.Status), start, end, comment)
			}
		case ir.OutletBlockCharacteristics:
			for _, c := range block.Characteristics {
				fmt.Fprintf(sb, "INSERT INTO outlet_characteristics (outlet_id, name, value) VALUES (%d, %s, %s);\n",
					outlet.ID, codegen.WriteStringLiteral(c.Name), exprLiteral(c.Value))
			}
		case ir.OutletBlockMetadata:
			for _, m := range block.Metadata {
				fmt.Fprintf(sb, "INSERT INTO outlet_metadata (outlet_id, name, value) VALUES (%d, %s, %s);\n",
					outlet.ID, codegen.WriteStringLiteral(m.Name), exprLiteral(m.Value))
			}
		}
	}
}

func writeRelationship(sb *strings.Builder, rel ir.Relationship) {
	switch rel.Kind {
	case ir.RelationshipDiachronic:
		link := rel.Diachronic
		start, end, comment, mapsTo := "NULL", "NULL", "NULL", "NULL"
		if link.EventStartDate != nil {
			start = codegen.WriteStringLiteral(*link.EventStartDate)
		}
		if link.EventEndDate != nil {
			end = codegen.WriteStringLiteral(*link.EventEndDate)
		}
		if link.Comment != nil {
			comment = codegen.WriteStringLiteral(*link.Comment)
		}
		if link.MapsTo != nil {
			mapsTo = codegen.WriteStringLiteral(*link.MapsTo)
		}
		fmt.Fprintf(sb, "INSERT INTO diachronic_links (name, predecessor, successor, relationship_type, event_start_date, event_end_date, comment, maps_to) VALUES (%s, %d, %d, %s, %s, %s, %s, %s);\n",
			codegen.WriteStringLiteral(link.Name), link.Predecessor, link.Successor, codegen.WriteStringLiteral(link.RelationshipType), start, end, comment, mapsTo)

	case ir.RelationshipSynchronous:
		link := rel.Synchronous
		periodStart, periodEnd, details, mapsTo := "NULL", "NULL", "NULL", "NULL"
		if link.PeriodStart != nil {
			periodStart = codegen.WriteStringLiteral(*link.PeriodStart)
		}
		if link.PeriodEnd != nil {
			periodEnd = codegen.WriteStringLiteral(*link.PeriodEnd)
		}
		if link.Details != nil {
			details = codegen.WriteStringLiteral(*link.Details)
		}
		if link.MapsTo != nil {
			mapsTo = codegen.WriteStringLiteral(*link.MapsTo)
		}
		fmt.Fprintf(sb, "INSERT INTO synchronous_links (name, outlet_1_id, outlet_1_role, outlet_2_id, outlet_2_role, relationship_type, period_start, period_end, details, maps_to) VALUES (%s, %d, %s, %d, %s, %s, %s, %s, %s, %s);\n",
			codegen.WriteStringLiteral(link.Name), link.Outlet1.ID, codegen.WriteStringLiteral(link.Outlet1.Role), link.Outlet2.ID, codegen.WriteStringLiteral(link.Outlet2.Role),
			codegen.WriteStringLiteral(link.RelationshipType), periodStart, periodEnd, details, mapsTo)
	}
}

func writeDataBlock(sb *strings.Builder, data ir.DataBlock) {
	for _, year := range data.Years {
		for _, metric := range year.Metrics {
			comment := "NULL"
			if metric.Comment != nil {
				comment = codegen.WriteStringLiteral(*metric.Comment)
			}
			fmt.Fprintf(sb, "INSERT INTO outlet_data_metrics (outlet_id, year, metric_name, value, unit, source, comment) VALUES (%d, %d, %s, %s, %s, %s, %s);\n",
				data.OutletID, year.Year, codegen.WriteStringLiteral(metric.Name), codegen.FormatNumber(metric.Value), codegen.WriteStringLiteral(metric.Unit), codegen.WriteStringLiteral(metric.Source), comment)
		}
	}
	if data.MapsTo != nil {
		fmt.Fprintf(sb, "-- data for outlet %d maps_to %s\n", data.OutletID, codegen.WriteStringLiteral(*data.MapsTo))
	}
}

func writeEventsTable(sb *strings.Builder) {
	sb.WriteString("CREATE TABLE events (\n  name VARCHAR PRIMARY KEY,\n  event_type VARCHAR,\n  date VARCHAR,\n  status VARCHAR\n);\n\n")
	sb.WriteString("CREATE TABLE event_entities (\n  event_name VARCHAR,\n  entity_name VARCHAR,\n  outlet_id INTEGER,\n  role VARCHAR,\n  stake_before DOUBLE PRECISION,\n  stake_after DOUBLE PRECISION\n);\n\n")
}

func writeEvent(sb *strings.Builder, ev ir.Event) {
	date, status := "NULL", "NULL"
	if ev.Date != nil {
		date = codegen.WriteStringLiteral(*ev.Date)
	}
	if ev.Status != nil {
		status = codegen.WriteStringLiteral(*ev.Status)
	}
	fmt.Fprintf(sb, "INSERT INTO events (name, event_type, date, status) VALUES (%s, %s, %s, %s);\n",
		codegen.WriteStringLiteral(ev.Name), codegen.WriteStringLiteral(ev.EventType), date, status)

	for _, entity := range ev.Entities {
		stakeBefore, stakeAfter := "NULL", "NULL"
		if entity.StakeBefore != nil {
			stakeBefore = codegen.FormatNumber(*entity.StakeBefore)
		}
		if entity.StakeAfter != nil {
			stakeAfter = codegen.FormatNumber(*entity.StakeAfter)
		}
		fmt.Fprintf(sb, "INSERT INTO event_entities (event_name, entity_name, outlet_id, role, stake_before, stake_after) VALUES (%s, %s, %d, %s, %s, %s);\n",
			codegen.WriteStringLiteral(ev.Name), codegen.WriteStringLiteral(entity.Name), entity.ID, codegen.WriteStringLiteral(entity.Role), stakeBefore, stakeAfter)
	}
	sb.WriteString("\n")
}

// exprLiteral renders a resolved IR expression as a SQL literal. Object
// and array expressions have no direct SQL column type, so they are
// serialized as a string for the side-table value column.
func exprLiteral(e ir.Expression) string {
	switch e.Kind {
	case ir.ExprString:
		return codegen.WriteStringLiteral(e.StringValue)
	case ir.ExprNumber:
		return codegen.FormatNumber(e.NumberValue)
	case ir.ExprBoolean:
		if e.BoolValue {
			return "TRUE"
		}
		return "FALSE"
	default:
		return codegen.WriteStringLiteral(fmt.Sprintf("%+v", e))
	}
}
