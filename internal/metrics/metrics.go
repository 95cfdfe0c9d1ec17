package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	loginAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "accenprove_login_attempts_total",
		Help: "Total number of login attempts by result",
	}, []string{"result"})
	auditRecordsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "accenprove_audit_records_total",
		Help: "Total number of audit records written",
	})
	auditFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "accenprove_audit_failures_total",
		Help: "Total number of audit writes that failed and were dropped",
	})
	baTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "accenprove_ba_transitions_total",
		Help: "Total number of berita acara status transitions by outcome",
	}, []string{"status"})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(loginAttemptsTotal, auditRecordsTotal, auditFailuresTotal, baTransitionsTotal)
}

// IncLoginAttempt increments the login counter for the given result ("success" or "failed").
func IncLoginAttempt(result string) { loginAttemptsTotal.WithLabelValues(result).Inc() }

// IncAuditRecord increments the written audit records counter.
func IncAuditRecord() { auditRecordsTotal.Inc() }

// IncAuditFailure increments the dropped audit writes counter.
func IncAuditFailure() { auditFailuresTotal.Inc() }

// IncBATransition increments the transition counter for the resulting status.
func IncBATransition(status string) { baTransitionsTotal.WithLabelValues(status).Inc() }
