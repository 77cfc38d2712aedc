// Package network exposes the simulation over HTTP: a JSON status API, Prometheus metrics
// and a msgpack snapshot stream over websocket
package network

import (
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/engine"
	"github.com/lixenwraith/siege/event"
)

// Simulation is the world surface the API reads and commands
// *engine.World satisfies it
type Simulation interface {
	Snapshot() *engine.Snapshot
	PushEvent(t event.EventType, payload any)
	Systems() []engine.System
}

// RouterConfig contains every dependency of the HTTP router
type RouterConfig struct {
	Sim     Simulation
	Metrics *Metrics // Optional, /metrics is absent when nil
	Hub     *Hub     // Optional, /ws is absent when nil
	Log     *log.Logger

	// RateLimit is requests per second across the API, zero disables limiting
	RateLimit float64
	RateBurst int
}

type handlers struct {
	sim Simulation
	log *log.Logger
}

// NewRouter constructs the router; it starts no goroutines and opens no listeners
func NewRouter(cfg RouterConfig) *chi.Mux {
	if cfg.Log == nil {
		cfg.Log = log.New(io.Discard)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(cfg.Log))

	h := &handlers{sim: cfg.Sim, log: cfg.Log}

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(limit(rate.NewLimiter(rate.Limit(cfg.RateLimit), max(1, cfg.RateBurst)), cfg.Metrics))
		}
		r.Get("/state", h.handleState)
		r.Get("/launchers", h.handleLaunchers)
		r.Post("/launchers/{id}/launch", h.handleLaunch)
		r.Post("/launch", h.handleLaunchAll)
		r.Post("/systems/{name}", h.handleSystem)
	})

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}
	if cfg.Hub != nil {
		r.Get("/ws", cfg.Hub.HandleWebSocket)
	}
	return r
}

func (h *handlers) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sim.Snapshot())
}

func (h *handlers) handleLaunchers(w http.ResponseWriter, r *http.Request) {
	snap := h.sim.Snapshot()
	writeJSON(w, http.StatusOK, snap.Launchers)
}

func (h *handlers) handleLaunch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, "invalid launcher id")
		return
	}
	e := core.Entity(id)
	if _, ok := h.sim.Snapshot().Launcher(e); !ok {
		writeError(w, http.StatusNotFound, "no such launcher")
		return
	}
	h.sim.PushEvent(event.EventLaunchCommand, &event.LaunchCommandPayload{Launcher: e})
	h.log.Info("launch command", "launcher", e, "remote", r.RemoteAddr)
	writeJSON(w, http.StatusAccepted, map[string]any{"launcher": id, "queued": true})
}

func (h *handlers) handleLaunchAll(w http.ResponseWriter, r *http.Request) {
	h.sim.PushEvent(event.EventLaunchCommand, &event.LaunchCommandPayload{Launcher: core.NoEntity})
	h.log.Info("launch command", "launcher", "all", "remote", r.RemoteAddr)
	writeJSON(w, http.StatusAccepted, map[string]any{"queued": true})
}

// handleSystem switches a system on or off, ?enabled= defaults to true
func (h *handlers) handleSystem(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !slices.ContainsFunc(h.sim.Systems(), func(s engine.System) bool { return s.Name() == name }) {
		writeError(w, http.StatusNotFound, "no such system")
		return
	}
	enabled := true
	if v := r.URL.Query().Get("enabled"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid enabled flag")
			return
		}
		enabled = b
	}
	h.sim.PushEvent(event.EventSystemCommand, &event.SystemCommandPayload{System: name, Enabled: enabled})
	h.log.Info("system command", "system", name, "enabled", enabled, "remote", r.RemoteAddr)
	writeJSON(w, http.StatusAccepted, map[string]any{"system": name, "enabled": enabled, "queued": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// limit rejects requests over the shared token bucket with 429
func limit(l *rate.Limiter, m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				if m != nil {
					m.reject("rate_limit")
				}
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs each request at debug level with its status and duration
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "took", time.Since(start))
		})
	}
}
