// Package codegen holds helpers shared by every back-end emitter (SQL,
// Cypher, and any future target) so escaping stays consistent across
// them.
package codegen

import (
	"strconv"
	"strings"
)

// WriteStringLiteral single-quotes s, doubling any embedded single
// quote, the SQL- and Cypher-compatible escaping convention.
func WriteStringLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// WriteIdentifier returns name unquoted when it is already a safe bare
// identifier, or double-quoted with embedded quotes doubled otherwise.
func WriteIdentifier(name string) string {
	if isBareIdentifier(name) {
		return name
	}
	return "\"" + strings.ReplaceAll(name, "\"", "\"\"") + "\""
}

func isBareIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// FormatNumber renders a float without a trailing ".0" when it has no
// fractional part, so numeric literals without a source decimal point
// are emitted as integers.
func FormatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
