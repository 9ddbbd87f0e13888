package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/paisa/internal/app"
	"github.com/MrJamesThe3rd/paisa/internal/auth"
	"github.com/MrJamesThe3rd/paisa/internal/config"
	paisaHttp "github.com/MrJamesThe3rd/paisa/internal/http"
	accountHandler "github.com/MrJamesThe3rd/paisa/internal/http/account"
	categoryHandler "github.com/MrJamesThe3rd/paisa/internal/http/category"
	importHandler "github.com/MrJamesThe3rd/paisa/internal/http/importsms"
	miniAppHandler "github.com/MrJamesThe3rd/paisa/internal/http/miniapp"
	rulesHandler "github.com/MrJamesThe3rd/paisa/internal/http/rules"
	smsHandler "github.com/MrJamesThe3rd/paisa/internal/http/sms"
	txHandler "github.com/MrJamesThe3rd/paisa/internal/http/transaction"
	"github.com/MrJamesThe3rd/paisa/internal/ingest"
	"github.com/MrJamesThe3rd/paisa/internal/notify"
	"github.com/MrJamesThe3rd/paisa/internal/observability"
	"github.com/MrJamesThe3rd/paisa/internal/resilience"
	"github.com/MrJamesThe3rd/paisa/internal/smsimport"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		shutdown, err := observability.InitTracer(ctx, cfg.App.Name, cfg.Tracing.OTLPEndpoint)
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer shutdown(context.Background())
	}

	metrics := observability.NewMetrics()

	a, err := app.Open(ctx, cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer a.Close()

	apiKey, err := auth.NewAPIKey(cfg.Auth.APIKeyHash)
	if err != nil {
		return fmt.Errorf("API_KEY_HASH: %w", err)
	}

	tokens, err := auth.NewTokens(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("TOKEN_SECRET: %w", err)
	}

	scheduler := cron.New()
	if err := a.Unparsed.Schedule(scheduler, cfg.Unparsed.CleanupSchedule, cfg.Unparsed.RetentionDays); err != nil {
		return fmt.Errorf("scheduling unparsed log cleanup: %w", err)
	}

	a.Unparsed.RefreshGauge()
	scheduler.Start()
	defer scheduler.Stop()

	// nil when chat delivery is off.
	var notifier ingest.Notifier

	var dispatcher *notify.Dispatcher

	if cfg.TelegramEnabled() {
		telegram := notify.NewTelegram(
			&http.Client{Timeout: cfg.Notify.Timeout},
			cfg.Telegram.APIBaseURL,
			cfg.Telegram.BotToken,
			cfg.Telegram.ChatID,
			resilience.NewCircuitBreaker("telegram"),
			resilience.Config{MaxRetries: cfg.Notify.MaxRetries, InitialBackoff: cfg.Notify.InitialBackoff},
		)

		dispatcher = notify.NewDispatcher(notify.DispatcherConfig{
			Workers:        cfg.Notify.Workers,
			QueueSize:      cfg.Notify.QueueSize,
			Timeout:        cfg.Notify.Timeout,
			MiniAppBaseURL: cfg.Telegram.MiniAppBaseURL,
		}, a.Transactions, telegram, tokens, logger, metrics)

		notifier = dispatcher
	} else {
		logger.Warn("telegram not configured, notifications disabled")
	}

	pipeline := a.Pipeline(notifier)

	router := paisaHttp.New(paisaHttp.Handlers{
		SMS:          smsHandler.NewHandler(pipeline, logger),
		Transactions: txHandler.NewHandler(a.Transactions, notifier, logger),
		Accounts:     accountHandler.NewHandler(a.Accounts, a.Transactions, logger),
		Categories:   categoryHandler.NewHandler(a.Taxonomy, logger),
		Rules:        rulesHandler.NewHandler(a.Rules, logger),
		Import:       importHandler.NewHandler(smsimport.NewService(pipeline, logger), logger),
		MiniApp:      miniAppHandler.NewHandler(a.Transactions, notifier, logger),
	}, paisaHttp.Security{
		APIKey:      apiKey,
		Tokens:      tokens,
		CORSOrigins: cfg.Server.CORSOrigins,
	}, metrics, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	// Workers outlive ctx so queued notifications drain after the server stops.
	workers := errgroup.Group{}
	if dispatcher != nil {
		workers.Go(func() error { return dispatcher.Run(context.Background()) })
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting", zap.Int("port", cfg.App.Port))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()

	if dispatcher != nil {
		dispatcher.Close()

		if werr := workers.Wait(); werr != nil {
			logger.Error("notification workers stopped", zap.Error(werr))
		}
	}

	logger.Info("server stopped")

	return err
}
