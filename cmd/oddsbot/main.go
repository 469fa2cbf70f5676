package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/web3guy0/oddsbot/internal/analysis"
	"github.com/web3guy0/oddsbot/internal/bot"
	"github.com/web3guy0/oddsbot/internal/cache"
	"github.com/web3guy0/oddsbot/internal/config"
	"github.com/web3guy0/oddsbot/internal/database"
	"github.com/web3guy0/oddsbot/internal/metrics"
	"github.com/web3guy0/oddsbot/internal/odds"
	"github.com/web3guy0/oddsbot/internal/pipeline"
	"github.com/web3guy0/oddsbot/internal/session"
)

func main() {
	// ═══════════════════════════════════════════════════════════════════════════════
	// BOOTSTRAP
	// ═══════════════════════════════════════════════════════════════════════════════

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Info().Msg("═══════════════════════════════════════════════════════════════")
	log.Info().Msg("                  ⚽ ODDSBOT - FOOTBALL ODDS ANALYST")
	log.Info().Msg("═══════════════════════════════════════════════════════════════")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ═══════════════════════════════════════════════════════════════════════════════
	// INITIALIZE COMPONENTS
	// ═══════════════════════════════════════════════════════════════════════════════

	// 1. Storage
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()
	if err := db.SeedAdmins(cfg.AdminIDs); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed admins")
	}
	log.Info().Int("admins", len(cfg.AdminIDs)).Msg("✅ Storage layer initialized")

	// 2. Sessions and odds cache
	var (
		sessions  session.Store
		oddsCache cache.OddsCache
	)
	if cfg.RedisAddr != "" {
		rdb, err := cache.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("Failed to connect to redis")
		}
		defer rdb.Close()
		sessions = session.NewRedisStore(rdb)
		oddsCache = cache.NewRedis(rdb, cfg.OddsCacheTTL)
		log.Info().Str("addr", cfg.RedisAddr).Msg("✅ Redis sessions and cache")
	} else {
		sessions = session.NewMemoryStore()
		oddsCache = cache.NewMemory(cfg.OddsCacheTTL)
		log.Info().Msg("✅ In-memory sessions and cache")
	}

	// 3. Odds source and analysis
	client := odds.NewClient(cfg.OddsAPIKey, cfg.OddsAPIURL, cfg.HTTPTimeout)
	m := metrics.New()
	p := pipeline.New(client, oddsCache, db, analysis.NewAnalyzer(cfg.Bankroll), m, cfg.HTTPTimeout)
	log.Info().Str("bankroll", cfg.Bankroll.StringFixed(2)).Msg("✅ Analysis pipeline initialized")

	// 4. Telegram
	tg, err := bot.New(cfg.TelegramToken, cfg.Debug, bot.Deps{
		Users:     db,
		Sessions:  sessions,
		Analyzer:  p,
		Snapshots: db,
		Metrics:   m,
		Payment: bot.Payment{
			Address:       cfg.PaymentAddress,
			Amount:        cfg.PaymentAmount,
			AdminUsername: cfg.AdminUsername,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start Telegram bot")
	}

	// ═══════════════════════════════════════════════════════════════════════════════
	// START
	// ═══════════════════════════════════════════════════════════════════════════════

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return tg.Run(gctx) })
	if cfg.MetricsAddr != "" {
		g.Go(func() error { return m.Serve(gctx, cfg.MetricsAddr, db.Ping) })
	}

	log.Info().Msg("🚀 All systems running...")

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Stopped with error")
	}

	log.Info().Msg("👋 Goodbye!")
}
