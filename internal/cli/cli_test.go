package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSample(t *testing.T) string {
	t.Helper()
	content := strings.Join([]string{
		`2024-04-12T05:41:11.337Z [info] [agents/tools.py:71] tool_call status=ok latency_ms=212`,
		`garbage`,
		`2024-04-12T05:41:12.001Z [error] [agents/llm.py:102] request failed status=timeout`,
	}, "\n")

	path := filepath.Join(t.TempDir(), "sample.log")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()

	// Reset command-level flag state between runs.
	outputFmt = ""
	viewTUI = false
	viewSearch = ""
	viewLevel = ""
	queryLimit = 0

	root := NewRootCommand("test", "", "")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return buf.String()
}

func TestViewJSON(t *testing.T) {
	out := runCommand(t, "view", writeSample(t), "-o", "json")

	var decoded struct {
		Skipped int `json:"skipped"`
		Entries []struct {
			Level string `json:"level"`
		} `json:"entries"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("view -o json produced invalid JSON: %v", err)
	}
	if decoded.Skipped != 1 || len(decoded.Entries) != 2 {
		t.Errorf("skipped=%d entries=%d", decoded.Skipped, len(decoded.Entries))
	}
}

func TestViewLevelFilter(t *testing.T) {
	out := runCommand(t, "view", writeSample(t), "-o", "json", "--level", "error")

	var decoded struct {
		Skipped int `json:"skipped"`
		Entries []struct {
			Level string `json:"level"`
		} `json:"entries"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Entries) != 1 || decoded.Entries[0].Level != "error" {
		t.Errorf("entries = %+v", decoded.Entries)
	}
	// The skip count describes the batch, not the filter.
	if decoded.Skipped != 1 {
		t.Errorf("skipped = %d", decoded.Skipped)
	}
}

func TestQueryCSV(t *testing.T) {
	out := runCommand(t, "query", "level:error", writeSample(t), "-o", "csv")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("want header + 1 row, got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "request failed") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestQueryTextTable(t *testing.T) {
	out := runCommand(t, "query", "latency_ms>100", writeSample(t))

	if !strings.Contains(out, "(1 rows)") {
		t.Errorf("want 1 matching row, got:\n%s", out)
	}
}

func TestFacetsMarkdown(t *testing.T) {
	out := runCommand(t, "facets", writeSample(t), "-o", "markdown")

	for _, want := range []string{"## Summary", "| Skipped Lines | 1 |", "## Levels"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestQueryBadExpression(t *testing.T) {
	root := NewRootCommand("test", "", "")
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"query", "(level:error", writeSample(t)})

	if err := root.Execute(); err == nil {
		t.Error("unclosed paren should fail")
	}
}
