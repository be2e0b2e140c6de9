// Package scheduler fires the daily reminder cycle: a primary
// reminder, a repeat reminder a fixed number of minutes later, and an
// optional end-of-day summary for the administrator.
package scheduler

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/VictorFortuna/DailyReport/db"
	"github.com/VictorFortuna/DailyReport/model"
	"github.com/VictorFortuna/DailyReport/utils"
)

// Store is the persistence gateway subset the scheduler reads.
type Store interface {
	GetUsersWithoutReport(date string) ([]*model.User, error)
	GetDailyReports(date string) ([]db.DailyReport, error)
}

// Notifier delivers a message to a chat identity.
type Notifier interface {
	Send(telegramID int64, text string) error
}

// Options configures the reminder cycle. Times are wall-clock in the
// configured location.
type Options struct {
	Location     *time.Location
	ReminderTime string // "HH:MM"
	RepeatAfter  int    // minutes after the primary reminder
	SummaryTime  string // "HH:MM", empty disables the admin summary
	AdminID      int64
	SendDelay    time.Duration // pause between consecutive sends
}

// Scheduler owns the cron entries for the reminder cycle.
type Scheduler struct {
	store  Store
	notify Notifier
	opts   Options
	cron   *cron.Cron
}

// New builds a scheduler. Call Start to install the cron entries.
func New(store Store, notify Notifier, opts Options) *Scheduler {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Scheduler{
		store:  store,
		notify: notify,
		opts:   opts,
		cron:   cron.New(cron.WithLocation(opts.Location)),
	}
}

// Start registers the reminder entries and starts the cron runner.
func (s *Scheduler) Start() error {
	hour, minute, err := parseClock(s.opts.ReminderTime)
	if err != nil {
		return fmt.Errorf("parse reminder time: %w", err)
	}
	if _, err := s.cron.AddFunc(cronSpec(hour, minute), s.SendDailyReminders); err != nil {
		return err
	}

	rh, rm := repeatClock(hour, minute, s.opts.RepeatAfter)
	if _, err := s.cron.AddFunc(cronSpec(rh, rm), s.SendRepeatReminders); err != nil {
		return err
	}

	if s.opts.SummaryTime != "" {
		sh, sm, err := parseClock(s.opts.SummaryTime)
		if err != nil {
			return fmt.Errorf("parse summary time: %w", err)
		}
		if _, err := s.cron.AddFunc(cronSpec(sh, sm), s.SendAdminSummary); err != nil {
			return err
		}
	}

	s.cron.Start()
	slog.Info("scheduler started",
		"reminder", fmt.Sprintf("%02d:%02d", hour, minute),
		"repeat", fmt.Sprintf("%02d:%02d", rh, rm),
		"summary", s.opts.SummaryTime)
	return nil
}

// Stop halts the cron runner. Jobs already running finish on their
// own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// SendDailyReminders messages every active user who has not submitted
// a report for today.
func (s *Scheduler) SendDailyReminders() {
	s.remind(func(u *model.User) string {
		return fmt.Sprintf(
			"🔔 <b>Напоминание об отчёте</b>\n\n"+
				"Привет, %s! 👋\n"+
				"Не забудьте отправить отчёт о звонках за сегодня.\n\n"+
				"📱 Нажмите /start и откройте форму отчёта.",
			utils.FirstName(u.FullName))
	})
}

// SendRepeatReminders messages the users still missing a report after
// the repeat offset has elapsed.
func (s *Scheduler) SendRepeatReminders() {
	s.remind(func(u *model.User) string {
		return fmt.Sprintf(
			"⏰ <b>Повторное напоминание</b>\n\n"+
				"%s, ваш отчёт за сегодня всё ещё не получен!\n"+
				"Пожалуйста, отправьте его как можно скорее.\n\n"+
				"📱 Нажмите /start и откройте форму отчёта.",
			utils.FirstName(u.FullName))
	})
}

// remind queries today's non-reporters and messages them one by one.
// A failed send is logged and never aborts the rest of the pass.
func (s *Scheduler) remind(text func(*model.User) string) {
	today := utils.Today(s.opts.Location)
	users, err := s.store.GetUsersWithoutReport(today)
	if err != nil {
		slog.Error("reminder pass failed", "date", today, "err", err)
		return
	}
	if len(users) == 0 {
		slog.Info("reminder pass: everyone reported", "date", today)
		return
	}

	sent := 0
	for _, u := range users {
		if err := s.notify.Send(u.TelegramID, text(u)); err != nil {
			slog.Warn("reminder not delivered", "name", u.FullName, "telegram_id", u.TelegramID, "err", err)
		} else {
			sent++
		}
		if s.opts.SendDelay > 0 {
			time.Sleep(s.opts.SendDelay)
		}
	}
	slog.Info("reminder pass done", "date", today, "targets", len(users), "sent", sent)
}

// SendAdminSummary sends the administrator the end-of-day roll-up:
// who reported with their totals, and who did not.
func (s *Scheduler) SendAdminSummary() {
	if s.opts.AdminID == 0 {
		return
	}
	today := utils.Today(s.opts.Location)

	reports, err := s.store.GetDailyReports(today)
	if err != nil {
		slog.Error("admin summary failed", "date", today, "err", err)
		return
	}
	missing, err := s.store.GetUsersWithoutReport(today)
	if err != nil {
		slog.Error("admin summary failed", "date", today, "err", err)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📈 <b>Итоги дня %s</b>\n\n", utils.FormatDisplayDate(today))
	fmt.Fprintf(&b, "✅ Отчитались: %d\n", len(reports))
	for _, r := range reports {
		fmt.Fprintf(&b, "  • %s — %d звонков, конверсия %.1f%%\n", r.FullName, r.CallsCount, r.Conversion())
	}
	fmt.Fprintf(&b, "\n❌ Без отчёта: %d\n", len(missing))
	for _, u := range missing {
		fmt.Fprintf(&b, "  • %s\n", u.FullName)
	}

	if err := s.notify.Send(s.opts.AdminID, b.String()); err != nil {
		slog.Warn("admin summary not delivered", "err", err)
	}
}

// parseClock parses "HH:MM" into hour and minute.
func parseClock(clock string) (hour, minute int, err error) {
	if _, err = fmt.Sscanf(clock, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("bad clock %q: %w", clock, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("bad clock %q: out of range", clock)
	}
	return hour, minute, nil
}

// repeatClock shifts a wall-clock time forward by after minutes,
// wrapping past midnight.
func repeatClock(hour, minute, after int) (int, int) {
	total := (hour*60 + minute + after) % (24 * 60)
	if total < 0 {
		total += 24 * 60
	}
	return total / 60, total % 60
}

func cronSpec(hour, minute int) string {
	return fmt.Sprintf("%d %d * * *", minute, hour)
}
