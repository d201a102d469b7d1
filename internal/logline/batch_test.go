package logline

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := strings.Join([]string{
		`2024-04-12T05:41:11.337Z [info] [agents/tools.py:71] tool_call status=ok`,
		``,
		`not a log line at all`,
		"\t",
		`2024-04-12T05:41:12.001Z [error] [agents/llm.py:102] request failed code=500`,
	}, "\n")

	result := Parse(input)

	if len(result.Entries) != 2 {
		t.Fatalf("want 2 entries, got %d", len(result.Entries))
	}
	if result.Skipped != 1 {
		t.Errorf("want 1 skipped, got %d", result.Skipped)
	}

	// Order follows input, blank lines are not counted anywhere.
	if result.Entries[0].Level != "info" || result.Entries[1].Level != "error" {
		t.Errorf("entry order wrong: %q, %q", result.Entries[0].Level, result.Entries[1].Level)
	}
}

func TestParseCRLF(t *testing.T) {
	input := "2024-04-12T05:41:11.337Z [info] [a.py:1] hi\r\n2024-04-12T05:41:12.337Z [warn] [b.py:2] ho\r\n"

	result := Parse(input)
	if len(result.Entries) != 2 || result.Skipped != 0 {
		t.Fatalf("entries=%d skipped=%d", len(result.Entries), result.Skipped)
	}
	if strings.HasSuffix(result.Entries[0].Raw, "\r") {
		t.Error("raw line should not keep the carriage return")
	}
}

func TestParseIdempotent(t *testing.T) {
	input := `2024-04-12T05:41:11.337Z [info] [a.py:1] hi n=1`

	first := Parse(input)
	second := Parse(input)

	if first.Entries[0].ID != second.Entries[0].ID {
		t.Errorf("IDs differ across parses: %q vs %q", first.Entries[0].ID, second.Entries[0].ID)
	}
}

func TestParseDuplicateTimestampsUniqueIDs(t *testing.T) {
	line := `2024-04-12T05:41:11.337Z [info] [a.py:1] hi`
	result := Parse(line + "\n" + line)

	if len(result.Entries) != 2 {
		t.Fatalf("want 2 entries, got %d", len(result.Entries))
	}
	if result.Entries[0].ID == result.Entries[1].ID {
		t.Error("duplicate timestamps must still produce unique IDs")
	}
}

func TestParseWithLimit(t *testing.T) {
	short := `2024-04-12T05:41:11.337Z [info] [a.py:1] hi`
	long := `2024-04-12T05:41:12.337Z [info] [a.py:2] ` + strings.Repeat("x", 200)

	result := ParseWithLimit(short+"\n"+long, 100)
	if len(result.Entries) != 1 || result.Skipped != 1 {
		t.Fatalf("entries=%d skipped=%d", len(result.Entries), result.Skipped)
	}

	// Zero disables the limit.
	result = ParseWithLimit(short+"\n"+long, 0)
	if len(result.Entries) != 2 || result.Skipped != 0 {
		t.Fatalf("unlimited: entries=%d skipped=%d", len(result.Entries), result.Skipped)
	}
}

func TestParseReader(t *testing.T) {
	r := strings.NewReader(`2024-04-12T05:41:11.337Z [info] [a.py:1] hi`)

	result, err := ParseReader(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Entries) != 1 {
		t.Fatalf("want 1 entry, got %d", len(result.Entries))
	}
}
