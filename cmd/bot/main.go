// Package main contains the entrypoint for the LinkGuard Telegram bot.
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

	"github.com/edgard/linkguard/internal/actionlog"
	"github.com/edgard/linkguard/internal/bot"
	"github.com/edgard/linkguard/internal/bot/handlers"
	"github.com/edgard/linkguard/internal/bot/tasks"
	"github.com/edgard/linkguard/internal/config"
	"github.com/edgard/linkguard/internal/database"
	"github.com/edgard/linkguard/internal/filter"
	"github.com/edgard/linkguard/internal/logger"
	"github.com/edgard/linkguard/internal/metrics"
	"github.com/edgard/linkguard/internal/moderation"
	"github.com/edgard/linkguard/internal/telegram"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components and returns an
// exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	flags := config.NewFlagSet(os.Args[0])
	if err := flags.Parse(os.Args[1:]); err != nil {
		slog.Error("Failed to parse flags", "error", err)
		return 1
	}

	cfg, err := config.Load(flags)
	if err != nil {
		if errors.Is(err, config.ErrMissingToken) {
			slog.Error("Bot token is required", "env", config.EnvBotToken)
		} else {
			slog.Error("Failed to load configuration", "error", err)
		}
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	err = store.Ping(pingCtx)
	cancelPing()
	if err != nil {
		log.Error("Audit database is not reachable", "path", cfg.Database.Path, "error", err)
		return 1
	}

	actions, err := actionlog.Open(cfg.ActionLog.Path, store, log)
	if err != nil {
		log.Error("Failed to open action log", "path", cfg.ActionLog.Path, "error", err)
		return 1
	}
	defer actions.Close()

	m := metrics.New()

	whitelist := filter.NewWhitelist(cfg.Whitelist.Domains,
		filter.WithSubdomains(cfg.Whitelist.IncludeSubdomains),
		filter.WithRegistrableDomain(cfg.Whitelist.MatchRegistrableDomain),
	)
	state := moderation.NewState(cfg.Moderation.EnabledOnStart, whitelist)
	m.SetEnabled(state.Enabled())

	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Config: cfg,
	}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	hDeps := handlers.HandlerDeps{
		Logger:    log,
		Config:    cfg,
		State:     state,
		Admins:    handlers.NewAdminResolver(cfg.Telegram.AdminUserIDs, cfg.Telegram.AdminCacheTTL, log),
		Deleter:   handlers.NewDeleter(cfg.Moderation.DeletesPerMin, cfg.Moderation.DeleteBurst, log),
		Notifier:  handlers.NewNotifier(sched, cfg.Moderation.NotifyTTL, log),
		ActionLog: actions,
		Store:     store,
		Metrics:   m,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewMessageHandler(hDeps)),
		tgbot.WithErrorsHandler(telegram.ErrorsHandler(log)),
		tgbot.WithAllowedUpdates(telegram.AllowedUpdates),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	me, err := tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	cfg.Telegram.BotUsername = me.Username
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}
	if err := telegram.SetCommands(ctx, tg, handlers.BotCommands(cfg.Messages)); err != nil {
		log.Warn("Failed to publish command menu", "error", err)
	}

	app := bot.NewBot(log, cfg, tg, sched, m)

	log.Info("Starting bot", "enabled", state.Enabled(), "whitelist", whitelist.Domains())
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully")
	return 0
}
