package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"Read-Write Error Recovery": "read_write_error_recovery",
		"WCE":                       "wce",
		"SAS Phy Control and Discover": "sas_phy_control_and_discover",
		"already_snake":             "already_snake",
	}
	for in, want := range cases {
		if got := SnakeCase(in); got != want {
			t.Errorf("SnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestJSONSinkTreeShape(t *testing.T) {
	s := NewJSONSink()
	s.BeginObj("Caching")
	s.KVInt("WCE", 1, false, "write cache enable")
	s.EndObj()

	b, err := s.MarshalIndent()
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}
	var out map[string]map[string]int64
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, b)
	}
	if out["caching"]["wce"] != 1 {
		t.Fatalf("caching.wce = %v, want 1; full doc: %s", out["caching"], b)
	}
}

func TestJSONSinkArray(t *testing.T) {
	s := NewJSONSink()
	s.BeginArr("phys")
	s.BeginObj("")
	s.KVInt("PHY_ID", 0, false, "")
	s.EndObj()
	s.BeginObj("")
	s.KVInt("PHY_ID", 1, false, "")
	s.EndObj()
	s.EndArr()

	b, err := s.MarshalIndent()
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}
	var out map[string][]map[string]int64
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, b)
	}
	if len(out["phys"]) != 2 || out["phys"][1]["phy_id"] != 1 {
		t.Fatalf("unexpected phys array: %v", out["phys"])
	}
}

func TestTextSinkBasicColumns(t *testing.T) {
	var buf bytes.Buffer
	s := NewTextSink(&buf, false, 0)
	s.KVInt("WCE", 1, false, "write cache enable")
	s.Flush()
	if !strings.Contains(buf.String(), "WCE") || !strings.Contains(buf.String(), "write cache enable") {
		t.Fatalf("text output missing expected columns: %q", buf.String())
	}
}

func TestTextSinkWrapsLongDescription(t *testing.T) {
	var buf bytes.Buffer
	s := NewTextSink(&buf, false, 20)
	s.KVInt("DESC", 1, false, "a field description long enough to wrap across lines")
	s.Flush()
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected description to wrap across multiple lines, got %q", buf.String())
	}
}

func TestWrapDescriptionNoWrapWhenZeroWidth(t *testing.T) {
	got := wrapDescription("a reasonably long description", 0)
	if len(got) != 1 {
		t.Fatalf("wrapDescription with width 0 = %v, want single line", got)
	}
}
