package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"vigil/internal/config"
	"vigil/internal/database/boltstore"
	"vigil/internal/database/sqlitestore"
	"vigil/internal/email"
	"vigil/internal/handlers"
	"vigil/internal/metrics"
	"vigil/internal/moderation"
	"vigil/internal/notify"
	"vigil/internal/routing"
	"vigil/internal/tracing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Configure zerolog
	switch cfg.LogLevel {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Use pretty console logging in development, JSON in production
	if cfg.LogFormat == "json" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	log.Info().Msg("Starting Vigil moderation service")

	// Optional OTLP tracing
	if cfg.TracingEnabled {
		tp, err := tracing.Init(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize tracing")
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Failed to shut down tracer provider")
			}
		}()
		log.Info().Msg("Tracing enabled")
	}

	// Open the moderation store
	var store moderation.Store
	switch cfg.DBBackend {
	case config.BackendSQLite:
		db, err := sqlitestore.Open(ctx, cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("Failed to open database")
		}
		store = sqlitestore.NewModerationStore(db)
	default:
		bs, err := boltstore.Open(boltstore.Options{Path: cfg.DBPath})
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("Failed to open database")
		}
		store = bs.ModerationStore()
	}
	defer store.Close()

	log.Info().
		Str("backend", cfg.DBBackend).
		Str("path", cfg.DBPath).
		Msg("Database opened")

	svc := moderation.NewService(store)

	// Notification client; a missing URL disables outbound sends. SMTP,
	// when configured, serves as the fallback delivery channel.
	notifier := notify.NewClient(notify.Config{
		BaseURL: cfg.NotifyURL,
		Mailer: email.NewSender(email.Config{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
		}),
	})
	if notifier.Enabled() {
		log.Info().Str("url", cfg.NotifyURL).Msg("Notification client configured")
	} else {
		log.Info().Msg("Notifications disabled")
	}

	// Keep the queue gauges fresh
	metrics.StartCollector(ctx, metrics.StatsSource{
		PendingReportCount: func(ctx context.Context) (int, error) {
			counts, err := store.CountReportsByStatus(ctx, nil)
			if err != nil {
				return 0, err
			}
			return counts[moderation.ReportStatusPending], nil
		},
		BannedUserCount: func(ctx context.Context) (int, error) {
			banned, err := store.CountUsersByStatus(ctx, moderation.UserStatusBanned)
			if err != nil {
				return 0, err
			}
			temp, err := store.CountUsersByStatus(ctx, moderation.UserStatusTemporaryBan)
			if err != nil {
				return 0, err
			}
			return banned + temp, nil
		},
		PendingPhotoCount: store.CountPendingPhotos,
		RemovedContent:    store.CountRemovedContent,
	}, cfg.MetricsInterval)

	// Initialize handlers with all dependencies via constructor injection
	h := handlers.NewHandler(svc, notifier)

	// Setup router with middleware
	handler := routing.SetupRouter(routing.Config{
		Handlers: h,
		Logger:   log.Logger,
	})

	log.Info().
		Str("address", cfg.Addr).
		Msg("Starting HTTP server")

	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}
