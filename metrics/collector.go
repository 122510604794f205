// Package metrics exposes a Session's connection and last-job stats as
// Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"s7link/s7"
)

var (
	descConnected = prometheus.NewDesc(
		"s7_session_connected",
		"Whether the session currently holds an open connection to the PLC",
		[]string{"target"}, nil,
	)
	descPDULength = prometheus.NewDesc(
		"s7_session_pdu_length",
		"PDU length negotiated with the CPU",
		[]string{"target"}, nil,
	)
	descLastTimeMs = prometheus.NewDesc(
		"s7_session_last_job_milliseconds",
		"Duration of the last completed connect, read or write, in milliseconds",
		[]string{"target"}, nil,
	)
	descLastChunks = prometheus.NewDesc(
		"s7_session_last_job_chunks",
		"Number of Read-Var/Write-Var telegrams the last job needed",
		[]string{"target"}, nil,
	)
)

// Collector adapts one Session's Stats() snapshot to prometheus.Collector.
// It samples Stats() on every Collect call, so scrape intervals see
// whatever the session's last completed operation left behind.
type Collector struct {
	target string
	stats  func() s7.Stats
}

// NewCollector returns a Collector labeling its metrics with target (the
// PLC address or a caller-chosen name) and sampling stats on every scrape.
func NewCollector(target string, stats func() s7.Stats) *Collector {
	return &Collector{target: target, stats: stats}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- descConnected
	ch <- descPDULength
	ch <- descLastTimeMs
	ch <- descLastChunks
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()

	connected := 0.0
	if s.Connected {
		connected = 1.0
	}

	ch <- prometheus.MustNewConstMetric(descConnected, prometheus.GaugeValue, connected, c.target)
	ch <- prometheus.MustNewConstMetric(descPDULength, prometheus.GaugeValue, float64(s.PDULength), c.target)
	ch <- prometheus.MustNewConstMetric(descLastTimeMs, prometheus.GaugeValue, s.LastTime, c.target)
	ch <- prometheus.MustNewConstMetric(descLastChunks, prometheus.GaugeValue, float64(s.Chunks), c.target)
}
