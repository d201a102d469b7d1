// Package facet derives the filterable dimensions of a parse batch:
// level and source counts, metadata key/value counts, free-text
// search, and timestamp gap hotspots.
package facet

import (
	"sort"
	"strings"
	"time"

	"github.com/loglens/loglens/internal/logline"
)

// Count is one facet value with its occurrence count.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// KeyFacet summarizes one metadata key across the batch.
type KeyFacet struct {
	Key      string  `json:"key"`
	Total    int     `json:"total"`
	Distinct int     `json:"distinct"`
	Values   []Count `json:"values"`
}

// Hotspot is a pair of chronologically adjacent entries whose time
// gap exceeds the configured threshold.
type Hotspot struct {
	Before *logline.LogEntry `json:"before"`
	After  *logline.LogEntry `json:"after"`
	Gap    time.Duration     `json:"gap"`
}

// Summary holds all facet data for one batch.
type Summary struct {
	Total    int        `json:"total"`
	Skipped  int        `json:"skipped"`
	Levels   []Count    `json:"levels"`
	Sources  []Count    `json:"sources"`
	Keys     []KeyFacet `json:"keys"`
	Hotspots []Hotspot  `json:"hotspots"`
	Start    time.Time  `json:"start,omitempty"`
	End      time.Time  `json:"end,omitempty"`
}

// Options controls facet generation.
type Options struct {
	// TopValues caps the per-key value list. Zero means no cap.
	TopValues int

	// GapThreshold is the minimum gap for a hotspot. Zero disables
	// hotspot detection.
	GapThreshold time.Duration
}

// Summarize computes facet counts for a parse result.
func Summarize(result *logline.ParseResult, opts Options) *Summary {
	s := &Summary{
		Total:   len(result.Entries),
		Skipped: result.Skipped,
	}

	levels := make(map[string]int)
	sources := make(map[string]int)
	keyCounts := make(map[string]map[string]int)
	var keyOrder []string

	for _, e := range result.Entries {
		levels[e.Level]++
		sources[e.SourceFile]++

		for _, k := range e.Metadata.Keys() {
			v, _ := e.Metadata.Get(k)
			if keyCounts[k] == nil {
				keyCounts[k] = make(map[string]int)
				keyOrder = append(keyOrder, k)
			}
			keyCounts[k][v]++
		}

		if e.HasTimestamp() {
			if s.Start.IsZero() || e.Timestamp.Before(s.Start) {
				s.Start = e.Timestamp
			}
			if s.End.IsZero() || e.Timestamp.After(s.End) {
				s.End = e.Timestamp
			}
		}
	}

	s.Levels = sortedCounts(levels, 0)
	s.Sources = sortedCounts(sources, 0)

	for _, k := range keyOrder {
		values := keyCounts[k]
		total := 0
		for _, n := range values {
			total += n
		}
		s.Keys = append(s.Keys, KeyFacet{
			Key:      k,
			Total:    total,
			Distinct: len(values),
			Values:   sortedCounts(values, opts.TopValues),
		})
	}

	if opts.GapThreshold > 0 {
		s.Hotspots = Hotspots(result.Entries, opts.GapThreshold)
	}

	return s
}

// sortedCounts flattens a count map ordered by descending count, then
// value, optionally capped at top entries.
func sortedCounts(m map[string]int, top int) []Count {
	out := make([]Count, 0, len(m))
	for v, n := range m {
		out = append(out, Count{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if top > 0 && len(out) > top {
		out = out[:top]
	}
	return out
}

// Search returns entries whose raw line contains the query,
// case-insensitively. An empty query matches everything.
func Search(entries []*logline.LogEntry, query string) []*logline.LogEntry {
	if query == "" {
		return entries
	}
	needle := strings.ToLower(query)

	var out []*logline.LogEntry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Raw), needle) {
			out = append(out, e)
		}
	}
	return out
}

// Hotspots finds adjacent entry pairs, in input order, whose
// timestamp gap exceeds threshold. Entries without a valid timestamp
// are excluded from gap analysis rather than treated as time zero.
func Hotspots(entries []*logline.LogEntry, threshold time.Duration) []Hotspot {
	var out []Hotspot
	var prev *logline.LogEntry

	for _, e := range entries {
		if !e.HasTimestamp() {
			continue
		}
		if prev != nil {
			if gap := e.Timestamp.Sub(prev.Timestamp); gap > threshold {
				out = append(out, Hotspot{Before: prev, After: e, Gap: gap})
			}
		}
		prev = e
	}
	return out
}
