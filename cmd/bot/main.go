// Package main contains the entrypoint for the GIF bot application.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/joho/godotenv"

	"github.com/edgard/gifbot/internal/bot"
	"github.com/edgard/gifbot/internal/bot/handlers"
	"github.com/edgard/gifbot/internal/bot/tasks"
	"github.com/edgard/gifbot/internal/config"
	"github.com/edgard/gifbot/internal/dispatch"
	"github.com/edgard/gifbot/internal/logger"
	"github.com/edgard/gifbot/internal/resolver"
	"github.com/edgard/gifbot/internal/schedule"
	"github.com/edgard/gifbot/internal/store"
	"github.com/edgard/gifbot/internal/telegram"
	"github.com/edgard/gifbot/internal/tenor"
	"github.com/edgard/gifbot/internal/trigger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components, handles graceful
// shutdown, and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	// Optional .env for local development; real deployments set BOT_* in
	// the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	st, err := store.Open(cfg.Store.Path, log)
	if err != nil {
		// A parse failure means hand-editing or corruption; refusing to
		// start beats silently discarding user data.
		log.Error("Failed to open state store", "path", cfg.Store.Path, "error", err)
		return 1
	}

	search, err := tenor.NewClient(cfg.Tenor, log)
	if err != nil {
		log.Error("Failed to create Tenor client", "error", err)
		return 1
	}
	res := resolver.New(st, search, log)
	matcher := trigger.New(cfg.Passive, st, log)
	ledger := schedule.New(st, log, time.Now)
	dispatcher := dispatch.New(log, st, res, matcher, ledger, search)

	hDeps := handlers.HandlerDeps{
		Logger:     log,
		Dispatcher: dispatcher,
		Resolver:   res,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewPassiveHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  st,
		Ledger: ledger,
		Search: search,
		TgBot:  tg,
	}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
