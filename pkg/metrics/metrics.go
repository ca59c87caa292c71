package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Tick metrics
	TicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fairtick_ticks_total",
			Help: "Total number of scheduling ticks processed",
		},
	)

	TickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fairtick_tick_duration_seconds",
			Help:    "Wall time spent producing one scheduling decision",
			Buckets: prometheus.DefBuckets,
		},
	)

	PreemptionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fairtick_preemptions_total",
			Help: "Total number of preemptions across all ticks",
		},
	)

	MigrationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fairtick_migrations_total",
			Help: "Total number of cross-CPU migrations across all ticks",
		},
	)

	// Task state metrics
	RunnableTasks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fairtick_runnable_tasks",
			Help: "Tasks in runnable or running state after the last tick",
		},
	)

	BlockedTasks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fairtick_blocked_tasks",
			Help: "Tasks in blocked state after the last tick",
		},
	)

	IdleCPUs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fairtick_idle_cpus",
			Help: "CPUs left idle by the last tick",
		},
	)

	// Event metrics
	EventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fairtick_events_total",
			Help: "Total number of events processed by action",
		},
		[]string{"action"},
	)

	EventFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fairtick_event_failures_total",
			Help: "Total number of rejected events by reason",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(TicksTotal)
	prometheus.MustRegister(TickDuration)
	prometheus.MustRegister(PreemptionsTotal)
	prometheus.MustRegister(MigrationsTotal)
	prometheus.MustRegister(RunnableTasks)
	prometheus.MustRegister(BlockedTasks)
	prometheus.MustRegister(IdleCPUs)
	prometheus.MustRegister(EventsTotal)
	prometheus.MustRegister(EventFailuresTotal)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve starts the metrics/health listener on addr. Blocks until the server
// exits.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	mux.HandleFunc("/healthz", HealthHandler)
	mux.HandleFunc("/readyz", ReadyHandler)
	return http.ListenAndServe(addr, mux)
}
