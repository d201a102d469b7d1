package logline

import (
	"fmt"
	"io"
	"strings"
)

// Parse splits text into lines and parses each one. Blank lines are
// discarded without counting; non-blank lines that fail the grammar
// increment Skipped. Entry order follows input order and no line is
// retried or reordered.
func Parse(text string) *ParseResult {
	return ParseWithLimit(text, 0)
}

// ParseWithLimit behaves like Parse but counts non-blank lines longer
// than maxLineLength bytes as skipped without attempting to parse
// them. A limit of zero or less disables the check.
func ParseWithLimit(text string, maxLineLength int) *ParseResult {
	result := &ParseResult{}

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if maxLineLength > 0 && len(trimmed) > maxLineLength {
			result.Skipped++
			continue
		}

		entry, ok := ParseLine(trimmed, i)
		if !ok {
			result.Skipped++
			continue
		}
		result.Entries = append(result.Entries, entry)
	}

	return result
}

// ParseReader reads the full input and parses it as one batch. The
// whole blob is held in memory; there is no incremental consumption.
func ParseReader(r io.Reader) (*ParseResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return Parse(string(data)), nil
}
