package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/VictorFortuna/DailyReport/model"
)

// Store is the persistence gateway subset the service needs.
type Store interface {
	GetUser(telegramID int64) (*model.User, error)
	CreateOrReplaceReport(userID int64, date string, callsCount, kpPlus, kp, rejections, inadequate int) (*model.Report, error)
}

// Notifier delivers a message to a chat identity.
type Notifier interface {
	Send(telegramID int64, text string) error
}

// SheetsPusher forwards an accepted report to the spreadsheet webhook.
type SheetsPusher interface {
	Push(ctx context.Context, employeeName, reportDate string, f Fields) error
}

const pushTimeout = 15 * time.Second

// Service validates report payloads and performs the idempotent write:
// one report per user per day, last write wins.
type Service struct {
	store   Store
	sheets  SheetsPusher
	notify  Notifier
	adminID int64
}

// NewService wires the upsert service. sheets and notify may be nil,
// disabling the corresponding side channel.
func NewService(store Store, sheets SheetsPusher, notify Notifier, adminID int64) *Service {
	return &Service{store: store, sheets: sheets, notify: notify, adminID: adminID}
}

// Submit validates payload and stores it as the report of telegramID
// for date, replacing any earlier submission for that day. On success
// the stored row is returned and two best-effort notifications are
// fired asynchronously: the spreadsheet push and an admin summary.
// Neither can fail the submission; their errors are only logged.
func (s *Service) Submit(ctx context.Context, telegramID int64, date string, payload map[string]any) (*model.Report, error) {
	// Field presence is checked before the user lookup, so an
	// incomplete payload is always answered as such.
	if err := checkRequired(payload); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(telegramID)
	if err != nil {
		return nil, err
	}

	fields, err := Validate(payload)
	if err != nil {
		return nil, err
	}

	rep, err := s.store.CreateOrReplaceReport(
		user.ID, date,
		fields.CallsCount, fields.KPPlus, fields.KP, fields.Rejections, fields.Inadequate,
	)
	if err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}
	slog.Info("report stored",
		"employee", user.FullName, "date", date,
		"calls", fields.CallsCount, "resultative", rep.Resultative())

	go s.pushToSheets(user.FullName, date, fields)
	go s.notifyAdmin(user, rep)

	return rep, nil
}

func (s *Service) pushToSheets(employeeName, date string, fields Fields) {
	if s.sheets == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()
	if err := s.sheets.Push(ctx, employeeName, date, fields); err != nil {
		slog.Error("spreadsheet push failed", "employee", employeeName, "date", date, "err", err)
	}
}

func (s *Service) notifyAdmin(user *model.User, rep *model.Report) {
	if s.notify == nil || s.adminID == 0 {
		return
	}
	text := fmt.Sprintf(
		"📊 <b>Новый отчёт получен</b>\n\n"+
			"👤 <b>Сотрудник:</b> %s\n"+
			"📅 <b>Дата:</b> %s\n\n"+
			"📞 <b>Звонков:</b> %d\n"+
			"🎯 <b>Результативных:</b> %d (%.1f%%)\n"+
			"✅ <b>КП+:</b> %d | 🔄 <b>КП:</b> %d\n"+
			"❌ <b>Отказы:</b> %d | ⚠️ <b>Неадекв:</b> %d",
		user.FullName, rep.ReportDate,
		rep.CallsCount, rep.Resultative(), rep.Conversion(),
		rep.KPPlus, rep.KP, rep.Rejections, rep.Inadequate,
	)
	if err := s.notify.Send(s.adminID, text); err != nil {
		slog.Warn("admin report notification failed", "employee", user.FullName, "err", err)
	}
}
