package query

import (
	"strings"
	"unicode"
)

// Parser parses query strings into chains.
type Parser struct {
	input string
	pos   int
}

// NewParser creates a query parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses a query string.
func (p *Parser) Parse(query string) (*Chain, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	p.input = query
	p.pos = 0

	chain, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()
	if p.pos < len(p.input) {
		return nil, ErrInvalidSyntax
	}
	return chain, nil
}

// parseAndExpr parses comma-separated terms.
func (p *Parser) parseAndExpr() (*Chain, error) {
	chain := NewChain(LogicAnd)

	if err := p.appendTerm(chain); err != nil {
		return nil, err
	}

	for p.pos < len(p.input) {
		p.skipWhitespace()
		if p.pos >= len(p.input) || p.input[p.pos] != ',' {
			break
		}
		p.pos++

		if err := p.appendTerm(chain); err != nil {
			return nil, err
		}
	}

	return chain, nil
}

// appendTerm parses one OR-expression and folds it into chain.
func (p *Parser) appendTerm(chain *Chain) error {
	term, err := p.parseOrExpr()
	if err != nil {
		return err
	}

	if term.Logic == LogicAnd && len(term.SubChains) == 0 {
		chain.Conditions = append(chain.Conditions, term.Conditions...)
	} else {
		chain.SubChains = append(chain.SubChains, term)
	}
	return nil
}

// parseOrExpr parses pipe-separated terms.
func (p *Parser) parseOrExpr() (*Chain, error) {
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	chain := NewChain(LogicOr)
	chain.SubChains = append(chain.SubChains, first)

	for p.pos < len(p.input) {
		p.skipWhitespace()
		if p.pos >= len(p.input) || p.input[p.pos] != '|' {
			break
		}
		p.pos++

		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		chain.SubChains = append(chain.SubChains, term)
	}

	if len(chain.SubChains) == 1 {
		return first, nil
	}
	return chain, nil
}

// parseTerm parses a condition or a parenthesized expression.
func (p *Parser) parseTerm() (*Chain, error) {
	p.skipWhitespace()
	if p.pos >= len(p.input) {
		return nil, ErrInvalidSyntax
	}

	if p.input[p.pos] == '(' {
		p.pos++
		inner, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		p.skipWhitespace()
		if p.pos >= len(p.input) || p.input[p.pos] != ')' {
			return nil, ErrUnclosedParen
		}
		p.pos++
		return inner, nil
	}

	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	return NewChain(LogicAnd, cond), nil
}

// parseCondition parses field, operator and value.
func (p *Parser) parseCondition() (Condition, error) {
	field := p.parseField()
	if field == "" {
		return Condition{}, ErrMissingField
	}

	p.skipWhitespace()

	if p.pos < len(p.input) && p.input[p.pos] == '?' {
		p.pos++
		return Condition{Field: field, Operator: OpExists}, nil
	}

	op, err := p.parseOperator()
	if err != nil {
		return Condition{}, err
	}

	return Condition{Field: field, Operator: op, Value: p.parseValue()}, nil
}

func (p *Parser) parseField() string {
	p.skipWhitespace()
	start := p.pos
	for p.pos < len(p.input) {
		ch := rune(p.input[p.pos])
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' {
			p.pos++
		} else {
			break
		}
	}
	return p.input[start:p.pos]
}

func (p *Parser) parseOperator() (Operator, error) {
	p.skipWhitespace()
	if p.pos >= len(p.input) {
		return OpEq, ErrInvalidOperator
	}

	if p.pos+1 < len(p.input) {
		switch p.input[p.pos : p.pos+2] {
		case "!=":
			p.pos += 2
			return OpNe, nil
		case ">=":
			p.pos += 2
			return OpGte, nil
		case "<=":
			p.pos += 2
			return OpLte, nil
		case "~=":
			p.pos += 2
			return OpRegex, nil
		case "*=":
			p.pos += 2
			return OpContains, nil
		}
	}

	switch p.input[p.pos] {
	case ':', '=':
		p.pos++
		return OpEq, nil
	case '>':
		p.pos++
		return OpGt, nil
	case '<':
		p.pos++
		return OpLt, nil
	}

	return OpEq, ErrInvalidOperator
}

// parseValue reads a quoted or bare value. Bare values run until a
// separator (comma, pipe, closing paren) or end of input.
func (p *Parser) parseValue() string {
	p.skipWhitespace()
	if p.pos >= len(p.input) {
		return ""
	}

	if p.input[p.pos] == '"' || p.input[p.pos] == '\'' {
		quote := p.input[p.pos]
		p.pos++
		start := p.pos
		for p.pos < len(p.input) && p.input[p.pos] != quote {
			p.pos++
		}
		value := p.input[start:p.pos]
		if p.pos < len(p.input) {
			p.pos++
		}
		return value
	}

	start := p.pos
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if ch == ',' || ch == '|' || ch == ')' {
			break
		}
		p.pos++
	}
	return strings.TrimSpace(p.input[start:p.pos])
}

func (p *Parser) skipWhitespace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}
