package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/loglens/loglens/internal/facet"
)

// markdownFormatter formats reports as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	label := report.Label
	if label == "" {
		label = "stdin"
	}
	fmt.Fprintf(&b, "# Log Report: %s\n\n", label)
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	f.writeSummaryTable(&b, report.Summary)
	f.writeCountTable(&b, "Levels", report.Summary.Levels)
	f.writeCountTable(&b, "Source Files", report.Summary.Sources)
	f.writeKeyTable(&b, report.Summary.Keys)
	f.writeHotspots(&b, report.Summary.Hotspots)

	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, s *facet.Summary) {
	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| Entries | %s |\n", formatNumber(s.Total))
	fmt.Fprintf(b, "| Skipped Lines | %s |\n", formatNumber(s.Skipped))
	if !s.Start.IsZero() {
		fmt.Fprintf(b, "| First Timestamp | %s |\n", s.Start.UTC().Format(time.RFC3339Nano))
		fmt.Fprintf(b, "| Last Timestamp | %s |\n", s.End.UTC().Format(time.RFC3339Nano))
		fmt.Fprintf(b, "| Span | %s |\n", s.End.Sub(s.Start))
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeCountTable(b *strings.Builder, title string, counts []facet.Count) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	b.WriteString("| Value | Count |\n")
	b.WriteString("|-------|-------|\n")
	for _, c := range counts {
		fmt.Fprintf(b, "| %s | %d |\n", escapeMarkdown(c.Value), c.Count)
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeKeyTable(b *strings.Builder, keys []facet.KeyFacet) {
	if len(keys) == 0 {
		return
	}
	b.WriteString("## Metadata Keys\n\n")
	b.WriteString("| Key | Distinct Values | Occurrences |\n")
	b.WriteString("|-----|-----------------|-------------|\n")
	for _, k := range keys {
		fmt.Fprintf(b, "| %s | %d | %d |\n", escapeMarkdown(k.Key), k.Distinct, k.Total)
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeHotspots(b *strings.Builder, hotspots []facet.Hotspot) {
	if len(hotspots) == 0 {
		return
	}
	b.WriteString("## Gap Hotspots\n\n")
	for _, h := range hotspots {
		fmt.Fprintf(b, "- **%s** gap after `%s` — %s\n",
			h.Gap, h.Before.TimestampRaw, escapeMarkdown(truncate(h.Before.Message, 80)))
	}
	b.WriteString("\n")
}

func escapeMarkdown(s string) string {
	return strings.NewReplacer("|", "\\|", "\n", " ").Replace(s)
}
