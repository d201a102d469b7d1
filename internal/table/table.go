// Package table builds the flat, queryable projection of a parse
// batch: a fixed set of core columns plus one generated column per
// distinct metadata key, with cell values coerced to typed form.
package table

import (
	"strconv"
	"strings"

	"github.com/loglens/loglens/internal/logline"
)

// Core column names, always present and always first.
const (
	ColID          = "id"
	ColTimestamp   = "timestamp"
	ColTimestampMS = "timestamp_ms"
	ColLevel       = "level"
	ColSourceFile  = "source_file"
	ColSourceLine  = "source_line"
	ColMessage     = "message"
	ColRaw         = "raw"
)

var coreColumns = []string{
	ColID, ColTimestamp, ColTimestampMS, ColLevel,
	ColSourceFile, ColSourceLine, ColMessage, ColRaw,
}

// Column describes one projection column.
type Column struct {
	// Name is the normalized, collision-free column name.
	Name string `json:"name"`

	// Key is the original metadata key, empty for core columns.
	Key string `json:"key,omitempty"`
}

// Table is the projection of a parse batch as a single relation.
// Cells hold nil, bool, float64 or string.
type Table struct {
	Columns []Column `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Build projects a parse result into a table. Metadata columns appear
// in first-seen order across the batch; rows follow entry order.
func Build(result *logline.ParseResult) *Table {
	t := &Table{}
	for _, name := range coreColumns {
		t.Columns = append(t.Columns, Column{Name: name})
	}

	used := make(map[string]bool, len(coreColumns))
	for _, name := range coreColumns {
		used[name] = true
	}

	var metaKeys []string
	seen := make(map[string]bool)
	for _, e := range result.Entries {
		for _, k := range e.Metadata.Keys() {
			if !seen[k] {
				seen[k] = true
				metaKeys = append(metaKeys, k)
			}
		}
	}

	for _, key := range metaKeys {
		t.Columns = append(t.Columns, Column{Name: columnName(key, used), Key: key})
	}

	for _, e := range result.Entries {
		t.Rows = append(t.Rows, buildRow(e, t.Columns))
	}

	return t
}

func buildRow(e *logline.LogEntry, columns []Column) []any {
	row := make([]any, len(columns))
	for i, col := range columns {
		if col.Key != "" {
			if raw, ok := e.Metadata.Get(col.Key); ok {
				row[i] = Coerce(raw)
			}
			continue
		}

		switch col.Name {
		case ColID:
			row[i] = e.ID
		case ColTimestamp:
			if e.HasTimestamp() {
				row[i] = e.Timestamp
			}
		case ColTimestampMS:
			if e.HasTimestamp() {
				row[i] = float64(e.Timestamp.UnixMilli())
			}
		case ColLevel:
			row[i] = e.Level
		case ColSourceFile:
			row[i] = e.SourceFile
		case ColSourceLine:
			if e.SourceLine != logline.NoSourceLine {
				row[i] = float64(e.SourceLine)
			}
		case ColMessage:
			row[i] = e.Message
		case ColRaw:
			row[i] = e.Raw
		}
	}
	return row
}

// columnName normalizes a metadata key to a column name: lowercased,
// non-identifier runes become underscores, and collisions (with core
// columns or earlier keys) get a numeric suffix starting at 2.
func columnName(key string, used map[string]bool) string {
	var b strings.Builder
	for _, r := range strings.ToLower(key) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name := b.String()
	if name == "" {
		name = "_"
	}

	candidate := name
	for n := 2; used[candidate]; n++ {
		candidate = name + "_" + strconv.Itoa(n)
	}
	used[candidate] = true
	return candidate
}

// ColumnIndex returns the index of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}
