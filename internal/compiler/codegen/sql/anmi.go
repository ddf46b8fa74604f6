package sql

import (
	"fmt"
	"strings"

	"github.com/pacedproton/mdslc/internal/compiler/codegen"
	"github.com/pacedproton/mdslc/internal/compiler/ir"
)

// AnmiGenerator targets the pre-existing "ANMI" relational schema: same
// type-mapping discipline as StandardGenerator, different table and
// column names.
type AnmiGenerator struct{}

// NewAnmi creates an AnmiGenerator.
func NewAnmi() *AnmiGenerator {
	return &AnmiGenerator{}
}

// Generate implements Generator.
func (g *AnmiGenerator) Generate(program *ir.Program) (string, error) {
	var sb strings.Builder

	for _, unit := range program.Units {
		if err := writeAnmiUnitTable(&sb, unit); err != nil {
			return "", err
		}
	}

	if len(program.Families) > 0 {
		sb.WriteString("CREATE TABLE anmi_media_outlet (\n  outlet_id INTEGER PRIMARY KEY,\n  family_label VARCHAR,\n  display_name VARCHAR,\n  extends_template VARCHAR,\n  based_on_id INTEGER\n);\n\n")
		for _, fam := range program.Families {
			for _, outlet := range fam.Outlets {
				templateRef, baseRef := "NULL", "NULL"
				if outlet.TemplateRef != nil {
					templateRef = codegen.WriteStringLiteral(*outlet.TemplateRef)
				}
				if outlet.BaseRef != nil {
					baseRef = codegen.FormatNumber(float64(*outlet.BaseRef))
				}
				fmt.Fprintf(&sb, "INSERT INTO anmi_media_outlet (outlet_id, family_label, display_name, extends_template, based_on_id) VALUES (%d, %s, %s, %s, %s);\n",
					outlet.ID, codegen.WriteStringLiteral(fam.Name), codegen.WriteStringLiteral(outlet.Name), templateRef, baseRef)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func writeAnmiUnitTable(sb *strings.Builder, unit ir.Unit) error {
	fmt.Fprintf(sb, "CREATE TABLE anmi_%s (\n", strings.ToLower(unit.Name))
	for i, field := range unit.Fields {
		colType, err := sqlColumnType(field.Type)
		if err != nil {
			return fmt.Errorf("unit %q field %q: %w", unit.Name, field.Name, err)
		}
		fmt.Fprintf(sb, "  %s %s", codegen.WriteIdentifier(field.Name), colType)
		if field.IsPrimaryKey {
			sb.WriteString(" PRIMARY KEY")
		}
		if i < len(unit.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(");\n\n")
	return nil
}
