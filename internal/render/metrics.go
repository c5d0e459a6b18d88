package render

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/sdparm-go/sdparm/internal/sgio"
)

// metricCollector batches a fixed slice of pre-built prometheus.Metric
// values, the same shape as cmd/tcgdiskstat/metric.go's metricCollector
// (a one-shot collector rather than one wired to a live registry/scrape
// loop, since sdparm is a point-in-time CLI, not a daemon).
type metricCollector struct {
	m []prometheus.Metric
}

func (mc *metricCollector) Collect(c chan<- prometheus.Metric) {
	for _, m := range mc.m {
		c <- m
	}
}

func (mc *metricCollector) Describe(c chan<- *prometheus.Desc) {}

// WriteCounters renders PageIO's per-CDB-variant Counters as openmetrics
// text, the --openmetrics flag's sink (domain-stack addition, SPEC_FULL
// §6). One gauge per (variant, outcome) pair, labeled by device.
func WriteCounters(out io.Writer, device string, c sgio.Counters) error {
	desc := prometheus.NewDesc(
		"sdparm_pageio_outcome_total",
		"Count of SCSI command outcomes observed by PageIO, by CDB variant and outcome",
		[]string{"device", "variant", "outcome"}, nil,
	)

	mc := &metricCollector{}
	add := func(variant string, vc sgio.VariantCounters) {
		mc.m = append(mc.m,
			prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, float64(vc.Good), device, variant, "good"),
			prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, float64(vc.IllegalRequest), device, variant, "illegal_request"),
			prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, float64(vc.PCNotSupported), device, variant, "page_control_not_supported"),
			prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, float64(vc.Other), device, variant, "other"),
		)
	}
	add("mode_sense6", c.ModeSense6)
	add("mode_sense10", c.ModeSense10)
	add("mode_select6", c.ModeSelect6)
	add("mode_select10", c.ModeSelect10)
	add("inquiry", c.Inquiry)

	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(mc); err != nil {
		return err
	}
	mfs, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return err
		}
	}
	return nil
}
