package logline

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// lineRegex matches the four-segment line shape: UTC timestamp with
// fractional seconds, bracketed level, bracketed source block, and an
// optional payload. Segments are separated by one or more spaces and
// the match is anchored at both ends.
var lineRegex = regexp.MustCompile(
	`^(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d+Z) +\[([^\]]*)\] +\[([^\]]*)\](?: +(.*))?$`)

var nonDigits = regexp.MustCompile(`\D`)

// ParseLine parses one trimmed, non-empty line. The second return
// value is false when the line does not conform to the grammar;
// malformed input is an expected case, not an error.
func ParseLine(line string, lineIndex int) (*LogEntry, bool) {
	m := lineRegex.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}

	tsRaw, level, source, payload := m[1], m[2], m[3], m[4]

	entry := &LogEntry{
		ID:           tsRaw + "-" + strconv.Itoa(lineIndex),
		Raw:          line,
		TimestampRaw: tsRaw,
		Level:        strings.ToLower(level),
	}

	// Calendar validity is checked only after the structural match;
	// a shaped but invalid timestamp leaves the zero time in place.
	if ts, err := time.Parse(time.RFC3339Nano, tsRaw); err == nil {
		entry.Timestamp = ts
	}

	entry.SourceFile, entry.SourceLine = parseSource(source)
	entry.Message, entry.Metadata = SplitPayload(payload)

	return entry, true
}

// parseSource splits the second bracketed block on its last colon.
// Everything before the colon is the file path; digits after it form
// the line number. No colon or no digits means no line number.
func parseSource(block string) (string, int) {
	idx := strings.LastIndex(block, ":")
	if idx < 0 {
		return block, NoSourceLine
	}

	file := block[:idx]
	digits := nonDigits.ReplaceAllString(block[idx+1:], "")
	if digits == "" {
		return file, NoSourceLine
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return file, NoSourceLine
	}
	return file, n
}
