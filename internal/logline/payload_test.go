package logline

import (
	"reflect"
	"testing"
)

func TestSplitPayload(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantMsg  string
		wantMeta map[string]string
		wantKeys []string
	}{
		{
			name:     "message then metadata single space",
			payload:  "tool_call status=ok latency_ms=212",
			wantMsg:  "tool_call",
			wantMeta: map[string]string{"status": "ok", "latency_ms": "212"},
			wantKeys: []string{"status", "latency_ms"},
		},
		{
			name:     "metadata only",
			payload:  "status=ok",
			wantMsg:  "",
			wantMeta: map[string]string{"status": "ok"},
		},
		{
			name:     "message only",
			payload:  "plain message with no pairs",
			wantMsg:  "plain message with no pairs",
			wantMeta: map[string]string{},
		},
		{
			name:    "double space boundary preferred",
			payload: "retrying call a=1  b=2",
			wantMsg: "retrying call a=1",
			// The a=1 before the double space stays in the message;
			// the block starts at the preferred boundary.
			wantMeta: map[string]string{"b": "2"},
		},
		{
			name:     "single space fallback grabs first key",
			payload:  "count a=1 b=2",
			wantMsg:  "count",
			wantMeta: map[string]string{"a": "1", "b": "2"},
		},
		{
			name:     "empty payload",
			payload:  "",
			wantMsg:  "",
			wantMeta: map[string]string{},
		},
		{
			name:     "json blob value kept whole",
			payload:  `handler done result={"a": 1, "b": [1, 2]} ms=9`,
			wantMsg:  "handler done",
			wantMeta: map[string]string{"result": `{"a": 1, "b": [1, 2]}`, "ms": "9"},
		},
		{
			name:     "parenthesized value with spaces",
			payload:  "spawn args=(one, two, three) pid=4",
			wantMsg:  "spawn",
			wantMeta: map[string]string{"args": "(one, two, three)", "pid": "4"},
		},
		{
			name:     "unclosed bracket runs to end",
			payload:  "oops data=[1, 2",
			wantMsg:  "oops",
			wantMeta: map[string]string{"data": "[1, 2"},
		},
		{
			name:     "duplicate key last wins",
			payload:  "a=1 a=2",
			wantMsg:  "",
			wantMeta: map[string]string{"a": "2"},
			wantKeys: []string{"a"},
		},
		{
			name:    "trailing non-key token absorbed into value",
			payload: "a=1 b",
			wantMsg: "",
			// "b" never becomes a key, so the space before it belongs
			// to the value.
			wantMeta: map[string]string{"a": "1 b"},
		},
		{
			name:     "value with plain internal space",
			payload:  "done took=2 ms total=5",
			wantMsg:  "done",
			wantMeta: map[string]string{"took": "2 ms", "total": "5"},
		},
		{
			name:     "dotted and hyphenated keys",
			payload:  "req http.status=200 x-request-id=abc",
			wantMsg:  "req",
			wantMeta: map[string]string{"http.status": "200", "x-request-id": "abc"},
		},
		{
			name:     "empty value",
			payload:  "note tag= level=hi",
			wantMsg:  "note",
			wantMeta: map[string]string{"tag": "", "level": "hi"},
		},
		{
			name:     "equals inside message without key shape",
			payload:  "compare a == b finished",
			wantMsg:  "compare a == b finished",
			wantMeta: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, md := SplitPayload(tt.payload)
			if msg != tt.wantMsg {
				t.Errorf("message = %q, want %q", msg, tt.wantMsg)
			}
			if got := md.Map(); !reflect.DeepEqual(got, tt.wantMeta) {
				t.Errorf("metadata = %v, want %v", got, tt.wantMeta)
			}
			if tt.wantKeys != nil && !reflect.DeepEqual(md.Keys(), tt.wantKeys) {
				t.Errorf("key order = %v, want %v", md.Keys(), tt.wantKeys)
			}
		})
	}
}

func TestMetadataOrder(t *testing.T) {
	md := NewMetadata()
	md.Set("b", "1")
	md.Set("a", "2")
	md.Set("b", "3")

	if got := md.Keys(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("keys = %v, want [b a]", got)
	}
	if v, _ := md.Get("b"); v != "3" {
		t.Errorf("b = %q, want 3", v)
	}
}

func TestMetadataMarshalJSON(t *testing.T) {
	md := NewMetadata()
	md.Set("z", "1")
	md.Set("a", "2")

	out, err := md.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"z":"1","a":"2"}` {
		t.Errorf("json = %s", out)
	}
}
