package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"levelup/adapters/llm"
	"levelup/adapters/notify"
	"levelup/adapters/storage"
	"levelup/app"
	"levelup/domain/classify"
	"levelup/internal/api"
	"levelup/internal/config"
	"levelup/internal/logx"
	"levelup/ports"
	"levelup/ui"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := logx.NewDefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Error("configuration: %v", err)
		os.Exit(1)
	}

	store := openStore(cfg, log)
	defer store.Close()

	var clock ports.Clock = ports.SystemClock{}
	hub := api.NewHub(log)
	repo := app.NewStateRepository(store)
	classifier := classify.New(nil)

	var notifier ports.Notifier
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Notify.WebhookURL, log)
	} else {
		notifier = &notify.LogNotifier{Log: log}
	}

	var chat ports.ChatClient
	if cfg.AI.APIKey != "" {
		client, err := llm.NewClient(llm.Config{APIKey: cfg.AI.APIKey, BaseURL: cfg.AI.BaseURL})
		if err != nil {
			log.Warn("chat client disabled: %v", err)
		} else {
			chat = client
		}
	} else {
		log.Info("no AI_API_KEY set, coach disabled")
	}

	timers := app.NewTimerService(repo, clock, hub, notifier, classifier, cfg.Timer, log)
	settlement := app.NewSettlementService(repo, clock, hub, notifier, cfg.Timer, log)
	progress := app.NewProgressService(repo, clock, classifier)
	coach := app.NewCoachService(repo, clock, hub, chat, progress, cfg.AI, log)
	insights := app.NewInsightService(repo, clock)
	backups := app.NewBackupService(repo, clock, log)
	settings := app.NewSettingsService(repo, cfg)

	server := ui.NewServer(cfg, hub, timers, settlement, coach, progress, insights, backups, settings, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(ctx, ":"+cfg.Server.Port) })
	g.Go(func() error { return timers.RunTicker(ctx) })
	g.Go(func() error { return settlement.RunScheduler(ctx) })
	g.Go(func() error { return runDailyReview(ctx, coach, log) })

	log.Info("listening on :%s (driver=%s)", cfg.Server.Port, cfg.Storage.Driver)
	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error("shutdown: %v", err)
		os.Exit(1)
	}
}

// openStore opens the configured backend, falling back to the in-memory
// store so a broken database file degrades the process instead of
// killing it.
func openStore(cfg *config.Config, log *logx.Logger) ports.Store {
	var (
		store ports.Store
		err   error
	)
	switch cfg.Storage.Driver {
	case "postgres":
		store, err = storage.OpenPostgres(cfg.Storage.URL)
	default:
		store, err = storage.OpenSQLite(cfg.Storage.Path)
	}
	if err != nil {
		log.Warn("store open failed (%v), running memory-only", err)
		return storage.NewMemoryStore()
	}
	return store
}

// runDailyReview asks the coach for its once-a-day summary on startup
// and then re-checks hourly; the coach's own date marker keeps it to
// one review per day.
func runDailyReview(ctx context.Context, coach *app.CoachService, log *logx.Logger) error {
	if !coach.Enabled() {
		<-ctx.Done()
		return ctx.Err()
	}
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		if _, err := coach.DailyReview(ctx); err != nil {
			log.Warn("daily review failed: %v", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
