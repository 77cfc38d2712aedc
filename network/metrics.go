package network

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lixenwraith/siege/component"
)

// Metrics publishes simulation telemetry on a private registry
// Labels are bounded: launcher states and projectile kinds only
type Metrics struct {
	registry *prometheus.Registry

	tickDuration     prometheus.Histogram
	transitions      *prometheus.CounterVec
	spawned          *prometheus.CounterVec
	destroyed        *prometheus.CounterVec
	bullets          prometheus.Counter
	liveProjectiles  prometheus.Gauge
	registeredTarget prometheus.Gauge
	wsClients        prometheus.Gauge
	wsFrames         prometheus.Counter
	rejected         *prometheus.CounterVec
}

// NewMetrics registers every collector on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		tickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "siege_tick_duration_seconds",
			Help:    "Wall time spent in one simulation tick",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "siege_launcher_transitions_total",
			Help: "Launch cycle transitions by target state",
		}, []string{"to"}),
		spawned: f.NewCounterVec(prometheus.CounterOpts{
			Name: "siege_projectiles_spawned_total",
			Help: "Projectiles spawned by kind",
		}, []string{"kind"}),
		destroyed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "siege_projectiles_destroyed_total",
			Help: "Projectiles destroyed by kind and cause",
		}, []string{"kind", "cause"}),
		bullets: f.NewCounter(prometheus.CounterOpts{
			Name: "siege_bullets_fired_total",
			Help: "Bullets requested by turret bursts",
		}),
		liveProjectiles: f.NewGauge(prometheus.GaugeOpts{
			Name: "siege_projectiles_live",
			Help: "Projectiles currently alive",
		}),
		registeredTarget: f.NewGauge(prometheus.GaugeOpts{
			Name: "siege_targets_registered",
			Help: "Targets currently in the registry",
		}),
		wsClients: f.NewGauge(prometheus.GaugeOpts{
			Name: "siege_stream_clients",
			Help: "Connected snapshot stream clients",
		}),
		wsFrames: f.NewCounter(prometheus.CounterOpts{
			Name: "siege_stream_frames_total",
			Help: "Snapshot frames broadcast",
		}),
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "siege_requests_rejected_total",
			Help: "Requests rejected before reaching a handler",
		}, []string{"reason"}),
	}
}

func (m *Metrics) ObserveTick(d time.Duration) {
	m.tickDuration.Observe(d.Seconds())
}

func (m *Metrics) LauncherTransition(_, to component.LaunchState) {
	m.transitions.WithLabelValues(to.String()).Inc()
}

func (m *Metrics) ProjectileSpawned(kind component.ProjectileKind) {
	m.spawned.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) ProjectileDestroyed(kind component.ProjectileKind, collided bool) {
	cause := "expired"
	if collided {
		cause = "collision"
	}
	m.destroyed.WithLabelValues(kind.String(), cause).Inc()
}

func (m *Metrics) TurretFired(bullets int) {
	m.bullets.Add(float64(bullets))
}

func (m *Metrics) SetLive(projectiles, targets int) {
	m.liveProjectiles.Set(float64(projectiles))
	m.registeredTarget.Set(float64(targets))
}

func (m *Metrics) setClients(n int) {
	m.wsClients.Set(float64(n))
}

func (m *Metrics) frameSent() {
	m.wsFrames.Inc()
}

func (m *Metrics) reject(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
