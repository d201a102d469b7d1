package facet

import (
	"strings"
	"testing"
	"time"

	"github.com/loglens/loglens/internal/logline"
)

func sampleResult(t *testing.T) *logline.ParseResult {
	t.Helper()
	input := strings.Join([]string{
		`2024-04-12T05:41:11.337Z [info] [agents/tools.py:71] tool_call status=ok`,
		`2024-04-12T05:41:12.001Z [error] [agents/llm.py:102] request failed status=timeout`,
		`2024-04-12T05:41:12.500Z [info] [agents/tools.py:80] tool_done status=ok`,
		`garbage line`,
	}, "\n")
	return logline.Parse(input)
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleResult(t), Options{})

	if s.Total != 3 || s.Skipped != 1 {
		t.Fatalf("total=%d skipped=%d", s.Total, s.Skipped)
	}

	if len(s.Levels) != 2 || s.Levels[0].Value != "info" || s.Levels[0].Count != 2 {
		t.Errorf("levels = %v", s.Levels)
	}
	if s.Sources[0].Value != "agents/tools.py" || s.Sources[0].Count != 2 {
		t.Errorf("sources = %v", s.Sources)
	}

	if len(s.Keys) != 1 || s.Keys[0].Key != "status" {
		t.Fatalf("keys = %v", s.Keys)
	}
	if s.Keys[0].Distinct != 2 || s.Keys[0].Total != 3 {
		t.Errorf("status facet = %+v", s.Keys[0])
	}
	if s.Keys[0].Values[0].Value != "ok" || s.Keys[0].Values[0].Count != 2 {
		t.Errorf("status values = %v", s.Keys[0].Values)
	}

	if s.Start.IsZero() || !s.End.After(s.Start) {
		t.Errorf("time range = %v .. %v", s.Start, s.End)
	}
}

func TestSummarizeTopValuesCap(t *testing.T) {
	s := Summarize(sampleResult(t), Options{TopValues: 1})
	if len(s.Keys[0].Values) != 1 {
		t.Errorf("want capped to 1 value, got %v", s.Keys[0].Values)
	}
	if s.Keys[0].Distinct != 2 {
		t.Errorf("distinct should count uncapped, got %d", s.Keys[0].Distinct)
	}
}

func TestSearch(t *testing.T) {
	entries := sampleResult(t).Entries

	if got := Search(entries, "REQUEST FAILED"); len(got) != 1 {
		t.Errorf("case-insensitive search got %d entries", len(got))
	}
	if got := Search(entries, ""); len(got) != 3 {
		t.Errorf("empty query should match all, got %d", len(got))
	}
	if got := Search(entries, "nothing-here"); len(got) != 0 {
		t.Errorf("want no matches, got %d", len(got))
	}
}

func TestHotspots(t *testing.T) {
	input := strings.Join([]string{
		`2024-04-12T05:41:11.000Z [info] [a.py:1] one`,
		`2024-99-99T00:00:00.000Z [info] [a.py:2] bad clock`,
		`2024-04-12T05:41:13.500Z [info] [a.py:3] two`,
		`2024-04-12T05:41:13.600Z [info] [a.py:4] three`,
	}, "\n")
	entries := logline.Parse(input).Entries

	hs := Hotspots(entries, 2*time.Second)
	if len(hs) != 1 {
		t.Fatalf("want 1 hotspot, got %d", len(hs))
	}
	// The invalid-timestamp entry is skipped, so the gap spans from
	// "one" to "two".
	if hs[0].Before.Message != "one" || hs[0].After.Message != "two" {
		t.Errorf("hotspot pair = %q -> %q", hs[0].Before.Message, hs[0].After.Message)
	}
	if hs[0].Gap != 2500*time.Millisecond {
		t.Errorf("gap = %v", hs[0].Gap)
	}
}
