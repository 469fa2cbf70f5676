// Package metrics exposes bot counters for Prometheus
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Metrics holds the bot's collectors
type Metrics struct {
	registry *prometheus.Registry

	Callbacks   *prometheus.CounterVec
	Commands    *prometheus.CounterVec
	Analyses    *prometheus.CounterVec
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// New registers all collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Callbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oddsbot_callbacks_total",
			Help: "Inline button callbacks by action",
		}, []string{"action"}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oddsbot_commands_total",
			Help: "Slash commands by name",
		}, []string{"command"}),
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oddsbot_analyses_total",
			Help: "Pipeline runs by algorithm and outcome",
		}, []string{"algorithm", "outcome"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oddsbot_odds_cache_hits_total",
			Help: "Odds served from cache",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oddsbot_odds_cache_misses_total",
			Help: "Odds fetched from the API",
		}),
	}
	m.registry.MustRegister(m.Callbacks, m.Commands, m.Analyses, m.CacheHits, m.CacheMisses)
	return m
}

// Router serves /metrics and /healthz. ping may be nil.
func (m *Metrics) Router(ping func() error) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if ping != nil {
			if err := ping(); err != nil {
				http.Error(w, "database", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// Serve runs the HTTP server until ctx is cancelled
func (m *Metrics) Serve(ctx context.Context, addr string, ping func() error) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           m.Router(ping),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("📈 Metrics listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
