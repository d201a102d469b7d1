// Package query filters the tabular projection with a small ad-hoc
// expression language over column values.
//
// Syntax:
//   - comma (,) = AND
//   - pipe (|) = OR
//   - parentheses for grouping
//
// Operators:
//   - field:value or field=value (equality)
//   - field!=value (not equal)
//   - field>value, field<value, field>=value, field<=value
//   - field~=pattern (regex on the string form)
//   - field*=substring (contains)
//   - field? (column value present, i.e. not null)
//
// Comparisons are numeric when both sides convert to a number and
// string comparisons otherwise.
package query

import (
	"errors"
	"fmt"
)

// Query parsing errors.
var (
	ErrEmptyQuery      = errors.New("empty query")
	ErrInvalidSyntax   = errors.New("invalid query syntax")
	ErrUnclosedParen   = errors.New("unclosed parenthesis")
	ErrInvalidOperator = errors.New("invalid operator")
	ErrMissingField    = errors.New("missing field name")
	ErrUnknownColumn   = errors.New("unknown column")
)

// Operator is the comparison kind of one condition.
type Operator int

const (
	OpEq Operator = iota
	OpNe
	OpGt
	OpLt
	OpGte
	OpLte
	OpRegex
	OpContains
	OpExists
)

func (o Operator) String() string {
	switch o {
	case OpEq:
		return "="
	case OpNe:
		return "!="
	case OpGt:
		return ">"
	case OpLt:
		return "<"
	case OpGte:
		return ">="
	case OpLte:
		return "<="
	case OpRegex:
		return "~="
	case OpContains:
		return "*="
	case OpExists:
		return "?"
	default:
		return "?"
	}
}

// Logic combines conditions within a chain.
type Logic int

const (
	LogicAnd Logic = iota
	LogicOr
)

// Condition is a single field comparison.
type Condition struct {
	Field    string
	Operator Operator
	Value    string
}

// Chain is a tree of conditions combined with one logic kind.
type Chain struct {
	Logic      Logic
	Conditions []Condition
	SubChains  []*Chain
}

// NewChain creates a chain with the given logic.
func NewChain(logic Logic, conditions ...Condition) *Chain {
	return &Chain{Logic: logic, Conditions: conditions}
}

func (c *Chain) empty() bool {
	return c == nil || (len(c.Conditions) == 0 && len(c.SubChains) == 0)
}

// Validate checks that every referenced field names an existing
// column.
func (c *Chain) Validate(columns map[string]bool) error {
	if c == nil {
		return nil
	}
	for _, cond := range c.Conditions {
		if !columns[cond.Field] {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, cond.Field)
		}
	}
	for _, sub := range c.SubChains {
		if err := sub.Validate(columns); err != nil {
			return err
		}
	}
	return nil
}
