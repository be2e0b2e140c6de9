package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/VictorFortuna/DailyReport/api"
	"github.com/VictorFortuna/DailyReport/bot"
	"github.com/VictorFortuna/DailyReport/config"
	"github.com/VictorFortuna/DailyReport/db"
	"github.com/VictorFortuna/DailyReport/handler"
	"github.com/VictorFortuna/DailyReport/registration"
	"github.com/VictorFortuna/DailyReport/report"
	"github.com/VictorFortuna/DailyReport/scheduler"
	"github.com/VictorFortuna/DailyReport/sheets"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "err", err)
		os.Exit(1)
	}
	loc, err := cfg.Location()
	if err != nil {
		slog.Error("invalid config", "err", err)
		os.Exit(1)
	}

	store, err := db.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("open database", "path", cfg.DatabasePath, "err", err)
		os.Exit(1)
	}
	defer store.Close()

	tg, err := bot.New(cfg.BotToken, cfg.Debug)
	if err != nil {
		slog.Error("connect to telegram", "err", err)
		os.Exit(1)
	}
	notify := bot.NewNotifier(tg)

	var pusher report.SheetsPusher
	if cfg.SheetsWebhookURL != "" {
		pusher = sheets.NewClient(cfg.SheetsWebhookURL, cfg.SheetsSecretKey)
	}
	reports := report.NewService(store, pusher, notify, cfg.AdminTelegramID)
	reg := registration.NewWorkflow(store, notify, cfg.AdminTelegramID)

	sched := scheduler.New(store, notify, scheduler.Options{
		Location:     loc,
		ReminderTime: cfg.ReminderTime,
		RepeatAfter:  cfg.ReminderRepeatMins,
		SummaryTime:  cfg.SummaryTime,
		AdminID:      cfg.AdminTelegramID,
		SendDelay:    100 * time.Millisecond,
	})
	if err := sched.Start(); err != nil {
		slog.Error("start scheduler", "err", err)
		os.Exit(1)
	}
	defer sched.Stop()

	go func() {
		srv := api.NewServer(reports, loc)
		if err := srv.Run(cfg.APIListenAddr); err != nil {
			slog.Error("api server stopped", "err", err)
		}
	}()

	h := handler.New(tg, store, reports, reg, cfg.AdminTelegramID, handler.Settings{
		WebAppURL:        cfg.WebAppURL,
		ReminderTime:     cfg.ReminderTime,
		RepeatAfter:      cfg.ReminderRepeatMins,
		Timezone:         cfg.Timezone,
		DatabasePath:     cfg.DatabasePath,
		SheetsConfigured: cfg.SheetsWebhookURL != "",
	}, loc)
	go h.Run()

	if err := notify.Send(cfg.AdminTelegramID, "🚀 Daily Report Bot запущен!"); err != nil {
		slog.Warn("startup ping failed", "err", err)
	}

	slog.Info("bot is running, press CTRL-C to exit")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	tg.StopReceivingUpdates()
}

func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
