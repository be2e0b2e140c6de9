// Package registration implements the employee on-boarding state
// machine: request, administrator review, and the orthogonal block
// list.
package registration

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/VictorFortuna/DailyReport/db"
	"github.com/VictorFortuna/DailyReport/model"
)

// Store is the persistence gateway subset the workflow needs.
type Store interface {
	GetUser(telegramID int64) (*model.User, error)
	CreateUser(telegramID int64, fullName, username string) (*model.User, error)
	UpdateUser(telegramID int64, patch model.UserPatch) error
	GetPendingRegistration(id int64) (*model.PendingRegistration, error)
	GetPendingRegistrationByTelegramID(telegramID int64) (*model.PendingRegistration, error)
	CreatePendingRegistration(telegramID int64, fullName, username string) (*model.PendingRegistration, error)
	SetRegistrationStatus(id int64, status string) error
	BlockUser(telegramID int64, fullName, username, reason string, blockedBy int64) error
	IsBlocked(telegramID int64) (bool, error)
}

// Notifier delivers a message to a chat identity.
type Notifier interface {
	Send(telegramID int64, text string) error
}

var (
	// ErrNotAdmin rejects a transition attempted without the
	// administrator capability. Surfaced as a bare denial.
	ErrNotAdmin = errors.New("registration: administrator rights required")
	// ErrAlreadyPending rejects a duplicate join request.
	ErrAlreadyPending = errors.New("registration: request already pending")
	// ErrBlocked rejects a request from a blocked identity.
	ErrBlocked = errors.New("registration: identity is blocked")
	// ErrAlreadyUser rejects a request from a registered employee.
	ErrAlreadyUser = errors.New("registration: user already registered")
	// ErrNotPending rejects review of a request that already reached a
	// terminal status.
	ErrNotPending = errors.New("registration: request is not pending")
)

// Workflow drives registration requests through
// pending -> approved | rejected. Both outcomes are terminal.
type Workflow struct {
	store   Store
	notify  Notifier
	adminID int64
}

// NewWorkflow wires the registration workflow. adminID is the root
// administrator from configuration; users with the is_admin flag hold
// the same capability.
func NewWorkflow(store Store, notify Notifier, adminID int64) *Workflow {
	return &Workflow{store: store, notify: notify, adminID: adminID}
}

// IsAdmin reports whether telegramID holds the administrator
// capability.
func (w *Workflow) IsAdmin(telegramID int64) bool {
	if telegramID == w.adminID {
		return true
	}
	u, err := w.store.GetUser(telegramID)
	return err == nil && u.IsAdmin
}

// Request files a join request for the identity. Blocked identities,
// registered users, and identities with an open request are rejected;
// duplicates are never created.
func (w *Workflow) Request(telegramID int64, fullName, username string) (*model.PendingRegistration, error) {
	blocked, err := w.store.IsBlocked(telegramID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrBlocked
	}

	if _, err := w.store.GetUser(telegramID); err == nil {
		return nil, ErrAlreadyUser
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}

	reg, err := w.store.CreatePendingRegistration(telegramID, fullName, username)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, ErrAlreadyPending
		}
		return nil, err
	}
	slog.Info("registration requested", "name", fullName, "telegram_id", telegramID)

	w.send(w.adminID, fmt.Sprintf(
		"👤 <b>Новая заявка на регистрацию</b>\n\n"+
			"📝 <b>Имя:</b> %s\n"+
			"🆔 <b>Telegram ID:</b> <code>%d</code>\n"+
			"📱 <b>Username:</b> @%s\n\n"+
			"Откройте /admin, чтобы рассмотреть заявку.",
		fullName, telegramID, orDash(username)))

	return reg, nil
}

// Approve flips a pending request to approved and creates the User
// row. Valid only from pending; requires the administrator capability.
func (w *Workflow) Approve(adminID, requestID int64) (*model.User, error) {
	if !w.IsAdmin(adminID) {
		return nil, ErrNotAdmin
	}

	reg, err := w.store.GetPendingRegistration(requestID)
	if err != nil {
		return nil, err
	}
	if reg.Status != model.StatusPending {
		return nil, ErrNotPending
	}

	// The user row is created first: if the status flip fails the
	// request stays pending and the approval can simply be retried,
	// with the duplicate create tolerated on the second pass.
	user, err := w.store.CreateUser(reg.TelegramID, reg.FullName, reg.Username)
	if errors.Is(err, db.ErrDuplicate) {
		user, err = w.store.GetUser(reg.TelegramID)
	}
	if err != nil {
		return nil, fmt.Errorf("create user for request %d: %w", requestID, err)
	}

	if err := w.store.SetRegistrationStatus(requestID, model.StatusApproved); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotPending
		}
		return nil, err
	}
	slog.Info("registration approved", "name", user.FullName, "telegram_id", user.TelegramID, "admin", adminID)

	w.send(user.TelegramID,
		"✅ <b>Ваша заявка одобрена!</b>\n\n"+
			"🎉 Добро пожаловать в команду!\n"+
			"📊 Теперь вы можете отправлять ежедневные отчёты.\n\n"+
			"Нажмите /start, чтобы открыть меню.")

	return user, nil
}

// Reject flips a pending request to rejected. The row is kept. Valid
// only from pending; requires the administrator capability.
func (w *Workflow) Reject(adminID, requestID int64) error {
	if !w.IsAdmin(adminID) {
		return ErrNotAdmin
	}

	reg, err := w.store.GetPendingRegistration(requestID)
	if err != nil {
		return err
	}
	if reg.Status != model.StatusPending {
		return ErrNotPending
	}

	if err := w.store.SetRegistrationStatus(requestID, model.StatusRejected); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotPending
		}
		return err
	}
	slog.Info("registration rejected", "name", reg.FullName, "telegram_id", reg.TelegramID, "admin", adminID)

	w.send(reg.TelegramID, "❌ Ваша заявка на регистрацию отклонена администратором.")
	return nil
}

// Block puts the identity on the block list, independent of its
// registration status, and deactivates an existing User row if there
// is one. Requires the administrator capability.
func (w *Workflow) Block(adminID, telegramID int64, reason string) error {
	if !w.IsAdmin(adminID) {
		return ErrNotAdmin
	}

	var fullName, username string
	if reg, err := w.store.GetPendingRegistrationByTelegramID(telegramID); err == nil {
		fullName, username = reg.FullName, reg.Username
	}
	if u, err := w.store.GetUser(telegramID); err == nil {
		fullName, username = u.FullName, u.Username
	}

	if err := w.store.BlockUser(telegramID, fullName, username, reason, adminID); err != nil {
		return err
	}

	inactive := false
	if err := w.store.UpdateUser(telegramID, model.UserPatch{IsActive: &inactive}); err != nil && !errors.Is(err, db.ErrNotFound) {
		return err
	}
	slog.Info("user blocked", "telegram_id", telegramID, "reason", reason, "admin", adminID)
	return nil
}

// send is a best-effort notification; delivery failure never fails a
// transition.
func (w *Workflow) send(telegramID int64, text string) {
	if w.notify == nil || telegramID == 0 {
		return
	}
	if err := w.notify.Send(telegramID, text); err != nil {
		slog.Warn("registration notification failed", "telegram_id", telegramID, "err", err)
	}
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
