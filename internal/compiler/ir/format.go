package ir

import "strconv"

// formatNumber renders a float without a trailing ".0" when its value
// has no fractional part, matching the integer-preservation rule both
// codegens apply.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
