// Package metrics exposes each cluster's latest analysis as Prometheus
// metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/dm/esadvisor/internal/advisor"
	"github.com/dm/esadvisor/internal/model"
)

// Metric name parts.
const namespace = "esadvisor"

var severities = []model.RecommendationSeverity{
	model.SeverityCritical,
	model.SeverityWarning,
	model.SeverityInfo,
}

// Exporter holds the esadvisor metric vectors. It implements
// prometheus.Collector.
type Exporter struct {
	recommendations *prometheus.GaugeVec
	avgHeap         *prometheus.GaugeVec
	avgCPU          *prometheus.GaugeVec
	avgDisk         *prometheus.GaugeVec
	nodes           *prometheus.GaugeVec
	pollFailures    *prometheus.CounterVec
	lastPoll        *prometheus.GaugeVec
}

// NewExporter creates an Exporter with all vectors unregistered.
func NewExporter() *Exporter {
	return &Exporter{
		recommendations: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "recommendations",
			Help:      "Number of recommendations in the latest analysis, by severity.",
		}, []string{"cluster", "severity"}),
		avgHeap: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "avg_heap_percent",
			Help:      "Average JVM heap usage across nodes.",
		}, []string{"cluster"}),
		avgCPU: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "avg_cpu_percent",
			Help:      "Average CPU usage across nodes.",
		}, []string{"cluster"}),
		avgDisk: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "avg_disk_percent",
			Help:      "Average disk usage across nodes.",
		}, []string{"cluster"}),
		nodes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "nodes",
			Help:      "Number of nodes by role; role=\"all\" counts every node.",
		}, []string{"cluster", "role"}),
		pollFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_failures_total",
			Help:      "Number of failed polls.",
		}, []string{"cluster"}),
		lastPoll: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_poll_timestamp_seconds",
			Help:      "Unix time of the last successful poll.",
		}, []string{"cluster"}),
	}
}

func (e *Exporter) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		e.recommendations, e.avgHeap, e.avgCPU, e.avgDisk, e.nodes, e.pollFailures, e.lastPoll,
	}
}

// Describe implements prometheus.Collector.
func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range e.collectors() {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	for _, c := range e.collectors() {
		c.Collect(ch)
	}
}

// Observe records one successful analysis of cluster.
func (e *Exporter) Observe(cluster string, report advisor.Report, at time.Time) {
	counts := make(map[model.RecommendationSeverity]int, len(severities))
	for _, r := range report.Recommendations {
		counts[r.Severity]++
	}
	for _, sev := range severities {
		e.recommendations.WithLabelValues(cluster, string(sev)).Set(float64(counts[sev]))
	}

	e.avgHeap.WithLabelValues(cluster).Set(report.Summary.AvgHeapUsage)
	e.avgCPU.WithLabelValues(cluster).Set(report.Summary.AvgCPUUsage)
	e.avgDisk.WithLabelValues(cluster).Set(report.Summary.AvgDiskUsage)

	var ingest int
	for _, n := range report.NodeAnalysis {
		if n.IsIngest {
			ingest++
		}
	}
	e.nodes.WithLabelValues(cluster, "all").Set(float64(report.Summary.TotalNodes))
	e.nodes.WithLabelValues(cluster, "master").Set(float64(report.Summary.MasterNodes))
	e.nodes.WithLabelValues(cluster, "data").Set(float64(report.Summary.DataNodes))
	e.nodes.WithLabelValues(cluster, "ingest").Set(float64(ingest))

	e.lastPoll.WithLabelValues(cluster).Set(float64(at.Unix()))
}

// PollFailed counts one failed poll of cluster.
func (e *Exporter) PollFailed(cluster string) {
	e.pollFailures.WithLabelValues(cluster).Inc()
}

// NewRegistry returns a registry holding e and the Go runtime and process
// collectors.
func NewRegistry(e *Exporter) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(e)
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler serves the metrics in reg.
func Handler(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		ErrorLog:      logrus.StandardLogger(),
		ErrorHandling: promhttp.ContinueOnError,
	})
}
