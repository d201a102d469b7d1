package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-termfmt"

	"github.com/loglens/loglens/internal/emoji"
	"github.com/loglens/loglens/internal/facet"
)

// terminalFormatter formats reports as plain text for terminal
// display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color
// support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = true
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, report)
	f.writeStatistics(&b, report.Summary)

	if len(report.Summary.Levels) > 0 {
		f.writeCounts(&b, "Levels", report.Summary.Levels)
	}
	if len(report.Summary.Sources) > 0 {
		f.writeCounts(&b, "Sources", report.Summary.Sources)
	}
	if len(report.Summary.Keys) > 0 {
		f.writeKeyFacets(&b, report.Summary.Keys)
	}
	if len(report.Summary.Hotspots) > 0 {
		f.writeHotspots(&b, report.Summary.Hotspots)
	}

	return []byte(b.String()), nil
}

func (f *terminalFormatter) writeHeader(b *strings.Builder, report *Report) {
	label := report.Label
	if label == "" {
		label = "(stdin)"
	}
	symbol := emoji.GetEmoji("rocket")
	fmt.Fprintf(b, "%s loglens — %s\n\n", symbol, label)
}

// writeStatistics writes batch statistics with tree-style formatting
// using go-termfmt
func (f *terminalFormatter) writeStatistics(b *strings.Builder, s *facet.Summary) {
	symbol := emoji.GetEmoji("statistics")
	b.WriteString(symbol + " Statistics\n")

	items := []termfmt.TreeItem{
		{Label: "Entries", Value: formatNumber(s.Total)},
		{Label: "Skipped Lines", Value: formatNumber(s.Skipped)},
	}

	if !s.Start.IsZero() && !s.End.IsZero() {
		items = append(items, termfmt.TreeItem{
			Label: "Time Range",
			Value: s.End.Sub(s.Start).String(),
			Last:  true,
		})
	} else {
		items = append(items, termfmt.TreeItem{Label: "Time Range", Value: "N/A", Last: true})
	}

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

func (f *terminalFormatter) writeCounts(b *strings.Builder, title string, counts []facet.Count) {
	symbol := emoji.GetEmoji("facet")
	fmt.Fprintf(b, "%s %s\n", symbol, title)

	items := make([]termfmt.TreeItem, 0, len(counts))
	for i, c := range counts {
		items = append(items, termfmt.TreeItem{
			Label: c.Value,
			Value: formatNumber(c.Count),
			Last:  i == len(counts)-1,
		})
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

func (f *terminalFormatter) writeKeyFacets(b *strings.Builder, keys []facet.KeyFacet) {
	symbol := emoji.GetEmoji("table")
	b.WriteString(symbol + " Metadata Keys\n")

	items := make([]termfmt.TreeItem, 0, len(keys))
	for i, k := range keys {
		children := make([]termfmt.TreeItem, 0, len(k.Values))
		for j, v := range k.Values {
			children = append(children, termfmt.TreeItem{
				Label: v.Value,
				Value: formatNumber(v.Count),
				Last:  j == len(k.Values)-1,
			})
		}
		items = append(items, termfmt.TreeItem{
			Label:    k.Key,
			Value:    fmt.Sprintf("%d values, %d total", k.Distinct, k.Total),
			Children: children,
			Last:     i == len(keys)-1,
		})
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

func (f *terminalFormatter) writeHotspots(b *strings.Builder, hotspots []facet.Hotspot) {
	symbol := emoji.GetEmoji("hotspot")
	b.WriteString(symbol + " Gap Hotspots\n")

	for i, h := range hotspots {
		branch := "├─"
		if i == len(hotspots)-1 {
			branch = "└─"
		}
		fmt.Fprintf(b, "%s %s gap after %s (%s)\n",
			branch, h.Gap, h.Before.TimestampRaw, truncate(h.Before.Message, 60))
	}
	b.WriteString("\n")
}
