package formatter

import (
	"encoding/json"

	"github.com/loglens/loglens/internal/facet"
	"github.com/loglens/loglens/internal/logline"
)

// jsonFormatter formats reports as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// jsonOutput is the top-level JSON structure.
type jsonOutput struct {
	Label   string              `json:"label,omitempty"`
	Skipped int                 `json:"skipped"`
	Entries []*logline.LogEntry `json:"entries"`
	Summary *facet.Summary      `json:"summary,omitempty"`
}

func (f *jsonFormatter) Format(report *Report) ([]byte, error) {
	out := &jsonOutput{
		Label:   report.Label,
		Skipped: report.Result.Skipped,
		Entries: report.Result.Entries,
		Summary: report.Summary,
	}
	return json.MarshalIndent(out, "", "  ")
}
