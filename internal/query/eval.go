package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/loglens/loglens/internal/table"
)

// Matcher evaluates chains against projection rows.
type Matcher struct {
	columns map[string]int
	regexes sync.Map
}

// NewMatcher creates a matcher bound to a table's column layout.
func NewMatcher(t *table.Table) *Matcher {
	cols := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		cols[c.Name] = i
	}
	return &Matcher{columns: cols}
}

// Match reports whether a row satisfies the chain. An empty chain
// matches everything.
func (m *Matcher) Match(row []any, chain *Chain) bool {
	if chain.empty() {
		return true
	}

	switch chain.Logic {
	case LogicOr:
		for _, c := range chain.Conditions {
			if m.matchCondition(row, c) {
				return true
			}
		}
		for _, sub := range chain.SubChains {
			if m.Match(row, sub) {
				return true
			}
		}
		return false
	default:
		for _, c := range chain.Conditions {
			if !m.matchCondition(row, c) {
				return false
			}
		}
		for _, sub := range chain.SubChains {
			if !m.Match(row, sub) {
				return false
			}
		}
		return true
	}
}

func (m *Matcher) matchCondition(row []any, c Condition) bool {
	idx, ok := m.columns[c.Field]
	if !ok || idx >= len(row) {
		return false
	}
	cell := row[idx]

	if c.Operator == OpExists {
		return cell != nil
	}
	if cell == nil {
		// null only equals the null-ish spellings.
		if c.Operator == OpEq {
			return c.Value == "" || strings.EqualFold(c.Value, "null") || strings.EqualFold(c.Value, "none")
		}
		return c.Operator == OpNe
	}

	switch c.Operator {
	case OpEq:
		return equals(cell, c.Value)
	case OpNe:
		return !equals(cell, c.Value)
	case OpGt, OpLt, OpGte, OpLte:
		return compare(cell, c.Value, c.Operator)
	case OpRegex:
		re, err := m.compile(c.Value)
		if err != nil {
			return false
		}
		return re.MatchString(cellString(cell))
	case OpContains:
		return strings.Contains(strings.ToLower(cellString(cell)), strings.ToLower(c.Value))
	}
	return false
}

func (m *Matcher) compile(pattern string) (*regexp.Regexp, error) {
	if cached, ok := m.regexes.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	m.regexes.Store(pattern, re)
	return re, nil
}

func equals(cell any, value string) bool {
	if f, ok := cellFloat(cell); ok {
		if want, err := strconv.ParseFloat(value, 64); err == nil {
			return f == want
		}
	}
	if b, ok := cell.(bool); ok {
		if want, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return b == want
		}
	}
	return strings.EqualFold(cellString(cell), value)
}

func compare(cell any, value string, op Operator) bool {
	if f, ok := cellFloat(cell); ok {
		if want, err := strconv.ParseFloat(value, 64); err == nil {
			switch op {
			case OpGt:
				return f > want
			case OpLt:
				return f < want
			case OpGte:
				return f >= want
			case OpLte:
				return f <= want
			}
		}
	}

	s := cellString(cell)
	switch op {
	case OpGt:
		return s > value
	case OpLt:
		return s < value
	case OpGte:
		return s >= value
	case OpLte:
		return s <= value
	}
	return false
}

func cellFloat(cell any) (float64, bool) {
	switch v := cell.(type) {
	case float64:
		return v, true
	case time.Time:
		return float64(v.UnixMilli()), true
	default:
		return 0, false
	}
}

func cellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Apply parses a query and returns a new table holding only the
// matching rows. The column layout is shared with the input table.
func Apply(t *table.Table, expr string) (*table.Table, error) {
	chain, err := NewParser().Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parsing query: %w", err)
	}

	columns := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		columns[c.Name] = true
	}
	if err := chain.Validate(columns); err != nil {
		return nil, err
	}

	matcher := NewMatcher(t)
	out := &table.Table{Columns: t.Columns}
	for _, row := range t.Rows {
		if matcher.Match(row, chain) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}
