package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/app"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/metrics"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/ports"
)

type Server struct {
	logger  zerolog.Logger
	viewer  *app.ViewerService
	ledger  *app.WatchLedger
	filter  *app.ContentFilter
	history *app.ChannelHistory
	prefs   *app.PreferencesService
	bus     ports.EventBus

	// metrics/gatherer sont optionnels : sans eux, pas de /metrics.
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
}

func NewServer(
	logger zerolog.Logger,
	viewer *app.ViewerService,
	ledger *app.WatchLedger,
	filter *app.ContentFilter,
	history *app.ChannelHistory,
	prefs *app.PreferencesService,
	bus ports.EventBus,
) *Server {
	return &Server{
		logger:  logger,
		viewer:  viewer,
		ledger:  ledger,
		filter:  filter,
		history: history,
		prefs:   prefs,
		bus:     bus,
	}
}

func (s *Server) WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) *Server {
	s.metrics = m
	s.gatherer = g
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(s.logger))
	r.Use(hlog.RequestIDHandler("request_id", "Request-Id"))
	r.Use(hlog.RemoteAddrHandler("remote_ip"))
	r.Use(hlog.UserAgentHandler("user_agent"))
	r.Use(hlog.AccessHandler(accessLogFn))
	r.Use(s.observe)

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// SSE : hors du timeout global.
		r.Get("/events", s.handleEvents)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(defaultRequestTimeout))

			r.Get("/health", s.handleHealth)
			r.Get("/version", s.handleVersion)
			r.Get("/openapi.json", s.handleOpenAPI)

			if s.viewer != nil {
				NewViewsHandler(s.viewer).Routes(r)
				NewChannelsHandler(s.viewer).Routes(r)
			}
			if s.ledger != nil {
				NewWatchedHandler(s.ledger).Routes(r)
			}
			if s.filter != nil {
				NewBlacklistHandler(s.filter).Routes(r)
			}
			if s.history != nil {
				NewHistoryHandler(s.history).Routes(r)
			}
			if s.prefs != nil {
				NewPreferencesHandler(s.prefs).Routes(r)
			}
		})
	})

	return r
}
