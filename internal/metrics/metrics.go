// Package metrics bundles Prometheus collectors for one acquisition run.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the collectors on a dedicated registry. A nil *Metrics is
// valid and records nothing, so wiring stays optional.
type Metrics struct {
	Registry *prometheus.Registry

	ScanAttemptsTotal    prometheus.Counter
	BookingAttemptsTotal *prometheus.CounterVec
	RunOutcomesTotal     *prometheus.CounterVec
	CyclesTotal          prometheus.Counter
}

// New constructs and registers all collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	scanAttempts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gymsnipe_scan_attempts_total",
		Help: "Total page scans issued against the day view.",
	})
	bookingAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gymsnipe_booking_attempts_total",
		Help: "Total booking attempts by result.",
	}, []string{"result"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gymsnipe_run_outcomes_total",
		Help: "Terminal run outcomes by kind.",
	}, []string{"outcome"})
	cycles := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gymsnipe_cycles_total",
		Help: "Full preference-list passes completed.",
	})

	registry.MustRegister(scanAttempts, bookingAttempts, outcomes, cycles)

	return &Metrics{
		Registry:             registry,
		ScanAttemptsTotal:    scanAttempts,
		BookingAttemptsTotal: bookingAttempts,
		RunOutcomesTotal:     outcomes,
		CyclesTotal:          cycles,
	}
}

func (m *Metrics) ObserveScanAttempt() {
	if m == nil {
		return
	}
	m.ScanAttemptsTotal.Inc()
}

func (m *Metrics) ObserveBookingAttempt(result string) {
	if m == nil {
		return
	}
	m.BookingAttemptsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.RunOutcomesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveCycle() {
	if m == nil {
		return
	}
	m.CyclesTotal.Inc()
}
