package validator

import "strconv"

// formatFloat renders a vocabulary numeric key for diagnostic messages,
// dropping a trailing ".0" the way the codegen packages do.
func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
