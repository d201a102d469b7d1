package logline

import (
	"strings"
)

// isKeyChar reports whether c may appear in a metadata key.
func isKeyChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '.' || c == '-':
		return true
	}
	return false
}

// isKeyStart reports whether a key=value pair begins at position i: a
// non-empty run of key characters directly followed by '='.
func isKeyStart(s string, i int) bool {
	j := i
	for j < len(s) && isKeyChar(s[j]) {
		j++
	}
	return j > i && j < len(s) && s[j] == '='
}

func skipSpaces(s string, i int) int {
	for i < len(s) && s[i] == ' ' {
		i++
	}
	return i
}

// SplitPayload separates a line's free-text message from its trailing
// key=value block.
//
// The boundary is ambiguous when the message itself contains '=' so
// detection follows a fixed precedence: a key at the very start of the
// payload, then the first run of two or more spaces followed by a key,
// then the first single space followed by a key. When no boundary is
// found the whole payload is message text. A message containing a bare
// word=value substring before the real block can therefore be
// misclassified; that ambiguity is inherent in the grammar and the
// precedence order is deliberate.
func SplitPayload(payload string) (string, *Metadata) {
	if payload == "" {
		return "", NewMetadata()
	}

	if isKeyStart(payload, 0) {
		return "", parsePairs(payload)
	}

	if at, start := doubleSpaceBoundary(payload); at >= 0 {
		return strings.TrimRight(payload[:at], " \t"), parsePairs(payload[start:])
	}

	if at, start := singleSpaceBoundary(payload); at >= 0 {
		return strings.TrimRight(payload[:at], " \t"), parsePairs(payload[start:])
	}

	return strings.TrimRight(payload, " \t"), NewMetadata()
}

// doubleSpaceBoundary finds the first run of two or more spaces that
// is followed, after all the spaces, by a key start. Returns the
// message cut position and the metadata start, or -1, -1.
func doubleSpaceBoundary(s string) (int, int) {
	for i := 0; i+1 < len(s); i++ {
		if s[i] != ' ' || s[i+1] != ' ' {
			continue
		}
		j := skipSpaces(s, i)
		if isKeyStart(s, j) {
			return i, j
		}
		// Jump past this space run so each run is tested once.
		i = j - 1
	}
	return -1, -1
}

// singleSpaceBoundary finds the first single space directly followed
// by a key start.
func singleSpaceBoundary(s string) (int, int) {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == ' ' && isKeyStart(s, i+1) {
			return i, i + 1
		}
	}
	return -1, -1
}

// parsePairs reads a sequence of key=value pairs. Values may contain
// nested (), [] and {} groups with embedded spaces; a space at zero
// depth on all three counters that is followed by another key start
// ends the value. An identifier run not followed by '=' stops the
// scan, keeping prior pairs and dropping the remainder. Duplicate
// keys keep the last value.
func parsePairs(s string) *Metadata {
	md := NewMetadata()
	i := 0

	for i < len(s) {
		i = skipSpaces(s, i)
		if i >= len(s) {
			break
		}

		keyStart := i
		for i < len(s) && isKeyChar(s[i]) {
			i++
		}
		if i == keyStart || i >= len(s) || s[i] != '=' {
			break
		}
		key := s[keyStart:i]
		i++

		value, next := scanValue(s, i)
		md.Set(key, strings.TrimRight(value, " \t"))
		i = next
	}

	return md
}

// scanValue reads a metadata value starting at i, returning the raw
// value and the position of the next pair. Unclosed brackets at end
// of string are tolerated.
func scanValue(s string, i int) (string, int) {
	var paren, bracket, brace int
	start := i

	for i < len(s) {
		switch s[i] {
		case '(':
			paren++
		case ')':
			if paren > 0 {
				paren--
			}
		case '[':
			bracket++
		case ']':
			if bracket > 0 {
				bracket--
			}
		case '{':
			brace++
		case '}':
			if brace > 0 {
				brace--
			}
		case ' ':
			if paren == 0 && bracket == 0 && brace == 0 {
				if j := skipSpaces(s, i); isKeyStart(s, j) {
					return s[start:i], j
				}
			}
		}
		i++
	}

	return s[start:], i
}
