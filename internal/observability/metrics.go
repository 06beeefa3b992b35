package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the tracker's operational counters, registered against a
// caller-supplied registry so tests can use an isolated one.
type Metrics struct {
	CheckIns       prometheus.Counter
	CheckOuts      prometheus.Counter
	Heartbeats     prometheus.Counter
	ForceEnds      prometheus.Counter
	CleanupsClosed prometheus.Counter
	ActiveSessions prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CheckIns: factory.NewCounter(prometheus.CounterOpts{
			Name: "shift_tracker_checkins_total",
			Help: "Successful work session check-ins.",
		}),
		CheckOuts: factory.NewCounter(prometheus.CounterOpts{
			Name: "shift_tracker_checkouts_total",
			Help: "Successful work session check-outs.",
		}),
		Heartbeats: factory.NewCounter(prometheus.CounterOpts{
			Name: "shift_tracker_heartbeats_total",
			Help: "Acknowledged heartbeat pings.",
		}),
		ForceEnds: factory.NewCounter(prometheus.CounterOpts{
			Name: "shift_tracker_force_ends_total",
			Help: "Work sessions force-closed by an admin.",
		}),
		CleanupsClosed: factory.NewCounter(prometheus.CounterOpts{
			Name: "shift_tracker_cleanup_closed_total",
			Help: "Orphaned work sessions closed by the cleanup sweep.",
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "shift_tracker_active_sessions",
			Help: "Work sessions currently active on this instance's watch.",
		}),
	}
}
