// Package diag holds the Driver's diagnostic surface: per-device
// PageIO counter aggregation plus `--verbose` go-spew structure dumps,
// grounded on cmd/tcgsdiag/main.go's own use of spew.Dump for its
// diagnostic output.
package diag

import (
	"io"

	"github.com/davecgh/go-spew/spew"

	"github.com/sdparm-go/sdparm/internal/sgio"
)

// Dumper wraps go-spew the way cmd/tcgsdiag/main.go configures it
// (two-space indent) and only actually dumps when verbose is set, so
// callers don't need an `if e.Verbose` guard at every call site.
type Dumper struct {
	Out     io.Writer
	Verbose bool
	cfg     spew.ConfigState
}

// NewDumper builds a Dumper writing to out, active only when verbose.
func NewDumper(out io.Writer, verbose bool) *Dumper {
	return &Dumper{
		Out:     out,
		Verbose: verbose,
		cfg:     spew.ConfigState{Indent: "  ", DisableMethods: true},
	}
}

// Dump writes label followed by a structured dump of v, a no-op unless
// d.Verbose is set.
func (d *Dumper) Dump(label string, v interface{}) {
	if !d.Verbose {
		return
	}
	io.WriteString(d.Out, label+":\n")
	d.cfg.Fdump(d.Out, v)
}

// Aggregate collects one Counters set per device, the Driver's
// "aggregated by the Driver exactly as cmd/tcgdiskstat aggregates
// per-device state" requirement (SPEC_FULL §4.4).
type Aggregate struct {
	byDevice map[string]sgio.Counters
	order    []string
}

// NewAggregate builds an empty per-device counter aggregate.
func NewAggregate() *Aggregate {
	return &Aggregate{byDevice: make(map[string]sgio.Counters)}
}

// Record stores device's final Counters snapshot, overwriting any
// prior record for the same device (a device only appears once per
// batch run).
func (a *Aggregate) Record(device string, c sgio.Counters) {
	if _, seen := a.byDevice[device]; !seen {
		a.order = append(a.order, device)
	}
	a.byDevice[device] = c
}

// Devices returns the recorded device names in the order they were
// first seen.
func (a *Aggregate) Devices() []string {
	return append([]string(nil), a.order...)
}

// Counters returns the recorded Counters for device, or the zero value
// if it was never recorded.
func (a *Aggregate) Counters(device string) sgio.Counters {
	return a.byDevice[device]
}

// Total sums every recorded device's counters into one Counters value,
// for a whole-batch openmetrics/summary view.
func (a *Aggregate) Total() sgio.Counters {
	var total sgio.Counters
	for _, c := range a.byDevice {
		total.ModeSense6 = sumVariant(total.ModeSense6, c.ModeSense6)
		total.ModeSense10 = sumVariant(total.ModeSense10, c.ModeSense10)
		total.ModeSelect6 = sumVariant(total.ModeSelect6, c.ModeSelect6)
		total.ModeSelect10 = sumVariant(total.ModeSelect10, c.ModeSelect10)
		total.Inquiry = sumVariant(total.Inquiry, c.Inquiry)
	}
	return total
}

func sumVariant(a, b sgio.VariantCounters) sgio.VariantCounters {
	return sgio.VariantCounters{
		Good:           a.Good + b.Good,
		IllegalRequest: a.IllegalRequest + b.IllegalRequest,
		PCNotSupported: a.PCNotSupported + b.PCNotSupported,
		Other:          a.Other + b.Other,
	}
}
