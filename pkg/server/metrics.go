package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/auditlab-io/tableaudit/pkg/report"
)

var (
	analysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tableaudit_analyses_total",
		Help: "Completed analyses, labeled by verdict.",
	}, []string{"verdict"})

	analysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tableaudit_analysis_duration_seconds",
		Help:    "Wall time of a full analysis, load included.",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(analysesTotal, analysisDuration)
}

func observeAnalysis(verdict report.Verdict, elapsed time.Duration) {
	analysesTotal.WithLabelValues(string(verdict)).Inc()
	analysisDuration.Observe(elapsed.Seconds())
}
