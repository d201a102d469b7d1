package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/loglens/loglens/internal/logline"
	"github.com/loglens/loglens/internal/table"
)

func sampleTable(t *testing.T) *table.Table {
	t.Helper()
	input := strings.Join([]string{
		`2024-04-12T05:41:11.337Z [info] [agents/tools.py:71] tool_call status=ok latency_ms=212`,
		`2024-04-12T05:41:12.001Z [error] [agents/llm.py:102] request failed status=timeout latency_ms=3050`,
		`2024-04-12T05:41:12.500Z [warn] [agents/tools.py:80] retrying status=ok retry=true`,
	}, "\n")
	return table.Build(logline.Parse(input))
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  error
	}{
		{"empty", "", ErrEmptyQuery},
		{"blank", "   ", ErrEmptyQuery},
		{"missing field", ":value", ErrMissingField},
		{"unclosed paren", "(level:error", ErrUnclosedParen},
		{"no operator", "level level", ErrInvalidOperator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().Parse(tt.query)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.query, err, tt.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	tbl := sampleTable(t)

	tests := []struct {
		name     string
		query    string
		wantRows int
	}{
		{"equality", "level:error", 1},
		{"equality with equals sign", "level=error", 1},
		{"or", "level:error|level:warn", 2},
		{"and", "level:info,status:ok", 1},
		{"numeric greater", "latency_ms>1000", 1},
		{"numeric lte", "latency_ms<=212", 1},
		{"not equal", "status!=ok", 1},
		{"contains", "message*=RETRY", 1},
		{"regex", "source_file~=tools", 2},
		{"exists", "retry?", 1},
		{"bool equality", "retry:true", 1},
		{"grouped", "(level:error|level:warn),status:ok", 1},
		{"null equality", "retry:null", 2},
		{"source line numeric", "source_line>=80", 2},
		{"no matches", "level:fatal", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tbl, tt.query)
			if err != nil {
				t.Fatalf("Apply(%q) error: %v", tt.query, err)
			}
			if len(got.Rows) != tt.wantRows {
				t.Errorf("Apply(%q) = %d rows, want %d", tt.query, len(got.Rows), tt.wantRows)
			}
		})
	}
}

func TestApplyUnknownColumn(t *testing.T) {
	_, err := Apply(sampleTable(t), "nope:1")
	if !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("want ErrUnknownColumn, got %v", err)
	}
}

func TestMatcherNullSemantics(t *testing.T) {
	tbl := sampleTable(t)

	// retry is set only on the third row; != matches the null rows.
	got, err := Apply(tbl, "retry!=true")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Rows) != 2 {
		t.Errorf("retry!=true matched %d rows, want 2", len(got.Rows))
	}
}
