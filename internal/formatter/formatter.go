// Package formatter renders parse reports as terminal text, JSON,
// CSV or Markdown.
package formatter

import (
	"fmt"

	"github.com/loglens/loglens/internal/facet"
	"github.com/loglens/loglens/internal/logline"
	"github.com/loglens/loglens/internal/table"
)

// Report bundles everything the formatters render: the parse result,
// its facet summary and the tabular projection, plus the display
// label of the input (filename or description).
type Report struct {
	Label   string
	Result  *logline.ParseResult
	Summary *facet.Summary
	Table   *table.Table
}

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// New returns the formatter for a format name.
func New(format string, color bool) (Formatter, error) {
	switch format {
	case "text", "":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	case "csv":
		return NewCSV(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
