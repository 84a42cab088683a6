package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/adapters/httpapi"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/adapters/memorybus"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/adapters/postgres"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/adapters/sqlite"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/adapters/youtubeapi"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/app"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/buildinfo"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/config"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/metrics"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/ports"
)

func main() {
	def := config.Default()
	addr := flag.String("addr", def.Addr, "Adresse d'écoute (ex: 127.0.0.1:8080)")
	dbPath := flag.String("db", def.DBPath, "Chemin SQLite (ex: ytv.db)")
	databaseURL := flag.String("database-url", def.DatabaseURL, "URL postgres (remplace SQLite si définie)")
	logLevel := flag.String("log-level", def.LogLevel, "Niveau de log (debug, info, warn, error)")
	viewTTL := flag.Duration("view-ttl", def.ViewTTL, "Inactivité avant fermeture d'une vue (0 = jamais)")
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("app", "ytv-server").Logger()
	log.Logger = logger

	logger.Info().Interface("build", buildinfo.Current()).Msg("starting")

	ctx := context.Background()
	repo, closeRepo := openRepository(ctx, logger, *dbPath, *databaseURL)
	defer closeRepo()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	bus := memorybus.New()
	defer bus.Close()

	store := app.NewStore(logger.With().Str("component", "store").Logger(), repo, bus)
	ledger := app.NewWatchLedger(store, bus)
	filter := app.NewContentFilter(store)
	history := app.NewChannelHistory(store)
	prefs := app.NewPreferencesService(store)

	// Relecture du stockage durable avant de servir.
	ledger.Refresh(ctx)
	filter.Refresh(ctx)
	history.Refresh(ctx)
	prefs.Refresh(ctx)

	if def.APIKey == "" {
		logger.Warn().Msg("YTV_YOUTUBE_API_KEY is not set: channel and video requests will fail with 503")
	}
	yt := youtubeapi.New(logger.With().Str("component", "youtube").Logger(), def.APIKey).WithMetrics(m)
	catalog := app.LimitCatalog(yt, app.NewUpstreamLimiter(def.UpstreamConcurrency, def.UpstreamRPS))

	viewer := app.NewViewerService(logger.With().Str("component", "viewer").Logger(), catalog, ledger, filter, history, prefs, bus, m)

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reaper := app.NewViewReaper(logger.With().Str("component", "reaper").Logger(), viewer, *viewTTL)
	go reaper.Run(shutdownCtx)

	srv := httpapi.NewServer(logger, viewer, ledger, filter, history, prefs, bus).WithMetrics(m, reg)
	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", *addr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server crashed")
			stop()
		}
	}()

	<-shutdownCtx.Done()
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
	logger.Info().Msg("bye")
}

// openRepository choisit postgres si une URL est fournie, sinon SQLite.
func openRepository(ctx context.Context, logger zerolog.Logger, dbPath, databaseURL string) (ports.KVRepository, func()) {
	if databaseURL != "" {
		pool, err := postgres.Open(ctx, databaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open postgres")
		}
		logger.Info().Str("backend", "postgres").Msg("store opened")
		return postgres.NewKVRepository(pool), pool.Close
	}

	db, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		logger.Fatal().Err(err).Str("db", dbPath).Msg("failed to open db")
	}
	logger.Info().Str("backend", "sqlite").Str("db", dbPath).Msg("store opened")
	return sqlite.NewKVRepository(db.SQL), func() { _ = db.Close() }
}
