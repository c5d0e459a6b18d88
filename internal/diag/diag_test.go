package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sdparm-go/sdparm/internal/sgio"
)

func TestDumperSkipsWhenNotVerbose(t *testing.T) {
	var buf bytes.Buffer
	d := NewDumper(&buf, false)
	d.Dump("counters", sgio.Counters{})
	if buf.Len() != 0 {
		t.Fatalf("expected no output when not verbose, got %q", buf.String())
	}
}

func TestDumperWritesLabelAndStruct(t *testing.T) {
	var buf bytes.Buffer
	d := NewDumper(&buf, true)
	d.Dump("counters", sgio.VariantCounters{Good: 3})
	out := buf.String()
	if !strings.HasPrefix(out, "counters:\n") {
		t.Fatalf("expected label prefix, got %q", out)
	}
	if !strings.Contains(out, "Good") {
		t.Fatalf("expected field name in dump, got %q", out)
	}
}

func TestAggregateTotal(t *testing.T) {
	a := NewAggregate()
	a.Record("/dev/sg0", sgio.Counters{ModeSense6: sgio.VariantCounters{Good: 2, IllegalRequest: 1}})
	a.Record("/dev/sg1", sgio.Counters{ModeSense6: sgio.VariantCounters{Good: 5}})

	total := a.Total()
	if total.ModeSense6.Good != 7 {
		t.Fatalf("total ModeSense6.Good = %d, want 7", total.ModeSense6.Good)
	}
	if total.ModeSense6.IllegalRequest != 1 {
		t.Fatalf("total ModeSense6.IllegalRequest = %d, want 1", total.ModeSense6.IllegalRequest)
	}

	devs := a.Devices()
	if len(devs) != 2 || devs[0] != "/dev/sg0" || devs[1] != "/dev/sg1" {
		t.Fatalf("Devices() = %v, want insertion order [/dev/sg0 /dev/sg1]", devs)
	}
}

func TestAggregateRecordOverwritesSameDevice(t *testing.T) {
	a := NewAggregate()
	a.Record("/dev/sg0", sgio.Counters{ModeSense6: sgio.VariantCounters{Good: 1}})
	a.Record("/dev/sg0", sgio.Counters{ModeSense6: sgio.VariantCounters{Good: 9}})

	if len(a.Devices()) != 1 {
		t.Fatalf("expected 1 device after re-recording, got %d", len(a.Devices()))
	}
	if a.Counters("/dev/sg0").ModeSense6.Good != 9 {
		t.Fatalf("Counters = %+v, want latest record (Good=9)", a.Counters("/dev/sg0"))
	}
}
