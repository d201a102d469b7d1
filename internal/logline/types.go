// Package logline turns loosely-delimited agent log text into
// normalized structured entries. One grammar is supported:
//
//	2024-04-12T05:41:11.337Z [info] [agents/tools.py:71] message key=value ...
//
// Lines that do not match the four-segment shape are skipped, never
// fatal.
package logline

import (
	"bytes"
	"encoding/json"
	"time"
)

// NoSourceLine marks an entry whose source block carried no digits
// after the final colon.
const NoSourceLine = -1

// LogEntry represents one parsed log line. Entries are immutable once
// returned from the parser.
type LogEntry struct {
	// ID is unique within one parse batch: raw timestamp string plus
	// the zero-based input line index.
	ID string `json:"id"`

	// Raw is the original line, stored verbatim.
	Raw string `json:"raw"`

	// TimestampRaw is the exact timestamp substring from the line.
	TimestampRaw string `json:"timestamp_raw"`

	// Timestamp is the parsed instant. The zero time means the raw
	// string matched the timestamp shape but is not a valid calendar
	// timestamp; such entries are still accepted.
	Timestamp time.Time `json:"timestamp"`

	// Level is the first bracketed token, lowercased. Any token is
	// accepted, there is no fixed enumeration.
	Level string `json:"level"`

	// SourceFile is the second bracketed block up to its last colon.
	SourceFile string `json:"source_file"`

	// SourceLine is parsed from the digits after the last colon, or
	// NoSourceLine when none were present.
	SourceLine int `json:"source_line"`

	// Message is the free text preceding the metadata run.
	Message string `json:"message"`

	// Metadata holds the trailing key=value pairs in order of first
	// appearance.
	Metadata *Metadata `json:"metadata"`
}

// HasTimestamp reports whether the entry's timestamp parsed as a valid
// calendar instant.
func (e *LogEntry) HasTimestamp() bool {
	return !e.Timestamp.IsZero()
}

// ParseResult is the output of one batch parse.
type ParseResult struct {
	// Entries in input line order.
	Entries []*LogEntry `json:"entries"`

	// Skipped counts non-blank lines that failed structural matching.
	// Blank lines are discarded without being counted.
	Skipped int `json:"skipped"`
}

// Metadata is an insertion-ordered string map. Setting an existing key
// overwrites the value but keeps the key's original position, matching
// how the trailing key=value block is accumulated (last occurrence
// wins).
type Metadata struct {
	keys   []string
	values map[string]string
}

// NewMetadata returns an empty metadata map.
func NewMetadata() *Metadata {
	return &Metadata{values: make(map[string]string)}
}

// Set stores a key/value pair, overwriting any previous value.
func (m *Metadata) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it was present.
func (m *Metadata) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in order of first appearance.
func (m *Metadata) Keys() []string {
	return m.keys
}

// Len returns the number of distinct keys.
func (m *Metadata) Len() int {
	return len(m.keys)
}

// Map returns a plain map copy of the pairs.
func (m *Metadata) Map() map[string]string {
	out := make(map[string]string, len(m.keys))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// MarshalJSON emits the pairs as a JSON object in key order.
func (m *Metadata) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
