// Package metrics registers hub counters. In a batch process the counters
// exist for scrape-at-exit setups and tests; incrementing them is always
// best-effort telemetry, never correctness-bearing.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "solarhub_"

var (
	registerOnce sync.Once

	pollAttempts  *prometheus.CounterVec
	pollDenied    *prometheus.CounterVec
	rowsUpserted  *prometheus.CounterVec
	notifications *prometheus.CounterVec
)

// Init registers the hub metrics exactly once.
func Init() {
	registerOnce.Do(func() {
		pollAttempts = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "poll_attempts_total",
				Help: "Poll attempts by source and result",
			},
			[]string{"source", "result"},
		)
		pollDenied = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "poll_denied_total",
				Help: "Polls denied by the rate gate, by source and reason",
			},
			[]string{"source", "reason"},
		)
		rowsUpserted = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rows_upserted_total",
				Help: "Measurement rows written, by table and operation",
			},
			[]string{"table", "op"},
		)
		notifications = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "notifications_total",
				Help: "Energy-flow notifications sent, by kind",
			},
			[]string{"kind"},
		)

		prometheus.MustRegister(pollAttempts, pollDenied, rowsUpserted, notifications)
	})
}

// IncPollAttempt counts one poll attempt outcome.
func IncPollAttempt(source, result string) {
	if pollAttempts != nil {
		pollAttempts.WithLabelValues(source, result).Inc()
	}
}

// IncPollDenied counts one rate-gate denial.
func IncPollDenied(source, reason string) {
	if pollDenied != nil {
		pollDenied.WithLabelValues(source, reason).Inc()
	}
}

// AddRowsUpserted counts written rows for a table.
func AddRowsUpserted(table string, inserted, updated int) {
	if rowsUpserted == nil {
		return
	}
	if inserted > 0 {
		rowsUpserted.WithLabelValues(table, "insert").Add(float64(inserted))
	}
	if updated > 0 {
		rowsUpserted.WithLabelValues(table, "update").Add(float64(updated))
	}
}

// IncNotification counts one sent notification.
func IncNotification(kind string) {
	if notifications != nil {
		notifications.WithLabelValues(kind).Inc()
	}
}
