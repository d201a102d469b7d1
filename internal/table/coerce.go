package table

import (
	"math"
	"strconv"
	"strings"
)

// Coerce converts a raw metadata value to its typed form for the
// projection: empty/null/none become nil, true/false become bool,
// fully-numeric strings become float64, anything else passes through
// unchanged. The canonical metadata on the entry is never touched.
func Coerce(raw string) any {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToLower(trimmed) {
	case "", "null", "none":
		return nil
	case "true":
		return true
	case "false":
		return false
	}

	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		if !math.IsInf(f, 0) && !math.IsNaN(f) {
			return f
		}
	}

	return raw
}
