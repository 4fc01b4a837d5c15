package gcguard

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	activeProtectionsDesc = prometheus.NewDesc(
		"gcguard_active_protections",
		"Outstanding protections held by the protector",
		[]string{"protector"}, nil,
	)
	protectedObjectsDesc = prometheus.NewDesc(
		"gcguard_protected_objects",
		"Distinct objects currently protected by the protector",
		[]string{"protector"}, nil,
	)
	unprotectFailuresDesc = prometheus.NewDesc(
		"gcguard_unprotect_failures_total",
		"Unprotect calls on objects that were not protected",
		[]string{"protector"}, nil,
	)
)

// Collector exports protector state as Prometheus metrics. The protector is
// resolved on every scrape, so a collector built on the default slot follows
// SetDefault.
type Collector struct {
	source func() Protector
}

// NewCollector creates a collector for the protector returned by source.
// A nil source reads the default protector.
func NewCollector(source func() Protector) *Collector {
	if source == nil {
		source = Default
	}
	return &Collector{source: source}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- activeProtectionsDesc
	ch <- protectedObjectsDesc
	ch <- unprotectFailuresDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	p := c.source()
	if p == nil {
		return
	}
	name := ProtectorName(p)

	ch <- prometheus.MustNewConstMetric(activeProtectionsDesc, prometheus.GaugeValue,
		float64(p.ActiveProtections()), name)

	if cnt, ok := p.(Counter); ok {
		ch <- prometheus.MustNewConstMetric(protectedObjectsDesc, prometheus.GaugeValue,
			float64(cnt.ProtectedObjects()), name)
	}
	if f, ok := p.(interface{ UnprotectFailures() int64 }); ok {
		ch <- prometheus.MustNewConstMetric(unprotectFailuresDesc, prometheus.CounterValue,
			float64(f.UnprotectFailures()), name)
	}
}
