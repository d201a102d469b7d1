package formatter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/loglens/loglens/internal/facet"
	"github.com/loglens/loglens/internal/logline"
	"github.com/loglens/loglens/internal/table"
)

func sampleReport(t *testing.T) *Report {
	t.Helper()
	input := strings.Join([]string{
		`2024-04-12T05:41:11.337Z [info] [agents/tools.py:71] tool_call status=ok latency_ms=212`,
		`junk`,
		`2024-04-12T05:41:12.001Z [error] [agents/llm.py:102] request failed status=timeout`,
	}, "\n")
	result := logline.Parse(input)
	return &Report{
		Label:   "sample.log",
		Result:  result,
		Summary: facet.Summarize(result, facet.Options{}),
		Table:   table.Build(result),
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"text", "json", "csv", "markdown"} {
		if _, err := New(format, false); err != nil {
			t.Errorf("New(%q) error: %v", format, err)
		}
	}
	if _, err := New("xml", false); err == nil {
		t.Error("New(xml) should fail")
	}
}

func TestJSONFormatter(t *testing.T) {
	out, err := NewJSON().Format(sampleReport(t))
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Label   string `json:"label"`
		Skipped int    `json:"skipped"`
		Entries []struct {
			Level    string            `json:"level"`
			Metadata map[string]string `json:"metadata"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded.Label != "sample.log" || decoded.Skipped != 1 {
		t.Errorf("label=%q skipped=%d", decoded.Label, decoded.Skipped)
	}
	if len(decoded.Entries) != 2 || decoded.Entries[0].Metadata["status"] != "ok" {
		t.Errorf("entries decoded wrong: %+v", decoded.Entries)
	}
}

func TestCSVFormatter(t *testing.T) {
	out, err := NewCSV().Format(sampleReport(t))
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("want header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,timestamp,timestamp_ms,level,source_file,source_line,message,raw") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "212") {
		t.Errorf("first row missing coerced latency: %q", lines[1])
	}
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdown().Format(sampleReport(t))
	if err != nil {
		t.Fatal(err)
	}

	text := string(out)
	for _, want := range []string{"# Log Report: sample.log", "## Summary", "## Levels", "## Metadata Keys"} {
		if !strings.Contains(text, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestTerminalFormatter(t *testing.T) {
	out, err := NewTerminal(false).Format(sampleReport(t))
	if err != nil {
		t.Fatal(err)
	}

	text := string(out)
	if !strings.Contains(text, "sample.log") || !strings.Contains(text, "Statistics") {
		t.Errorf("terminal output missing sections:\n%s", text)
	}
}
