package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/VictorFortuna/DailyReport/db"
	"github.com/VictorFortuna/DailyReport/model"
	"github.com/VictorFortuna/DailyReport/registration"
	"github.com/VictorFortuna/DailyReport/utils"
)

// handleStart greets a registered employee with the main menu, or
// starts the registration dialog for an unknown identity.
func (h *Handler) handleStart(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if blocked, err := h.store.IsBlocked(msg.From.ID); err == nil && blocked {
		h.reply(chatID, "🚫 Доступ к боту запрещён.")
		return
	}

	user, err := h.store.GetUser(msg.From.ID)
	if err == nil {
		h.replyWithKeyboard(chatID, fmt.Sprintf(
			"👋 С возвращением, %s!\n\n"+
				"📝 Нажмите кнопку ниже, чтобы отправить отчёт о звонках.",
			utils.FirstName(user.FullName)), h.mainKeyboard(user.FullName))
		return
	}
	if !errors.Is(err, db.ErrNotFound) {
		slog.Error("start handler failed", "telegram_id", msg.From.ID, "err", err)
		h.reply(chatID, "Произошла ошибка. Попробуйте позже.")
		return
	}

	if _, err := h.store.GetPendingRegistrationByTelegramID(msg.From.ID); err == nil {
		h.reply(chatID, "⏳ Ваша заявка ожидает рассмотрения администратором.")
		return
	}

	h.mu.Lock()
	h.pendingName[chatID] = true
	h.mu.Unlock()

	h.reply(chatID,
		"👋 Добро пожаловать в бот ежедневных отчётов!\n\n"+
			"Для регистрации введите ваше <b>полное имя</b> (Фамилия Имя):")
}

// handleRegistrationName consumes the full name typed during the
// registration dialog.
func (h *Handler) handleRegistrationName(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	fullName := strings.Join(strings.Fields(msg.Text), " ")

	if utf8.RuneCountInString(fullName) < 3 || utf8.RuneCountInString(fullName) > 100 || len(strings.Fields(fullName)) < 2 {
		h.reply(chatID, "⚠️ Пожалуйста, введите фамилию и имя полностью (например: Иванов Пётр).")
		return
	}

	h.mu.Lock()
	delete(h.pendingName, chatID)
	h.mu.Unlock()

	_, err := h.reg.Request(msg.From.ID, fullName, msg.From.UserName)
	switch {
	case err == nil:
		h.reply(chatID,
			"✅ Заявка на регистрацию отправлена!\n\n"+
				"⏳ Ожидайте одобрения администратора — вы получите уведомление.")
	case errors.Is(err, registration.ErrAlreadyPending):
		h.reply(chatID, "⏳ Ваша заявка уже ожидает рассмотрения.")
	case errors.Is(err, registration.ErrAlreadyUser):
		h.reply(chatID, "Вы уже зарегистрированы. Нажмите /start.")
	case errors.Is(err, registration.ErrBlocked):
		h.reply(chatID, "🚫 Доступ к боту запрещён.")
	default:
		slog.Error("registration request failed", "telegram_id", msg.From.ID, "err", err)
		h.reply(chatID, "Произошла ошибка. Попробуйте позже.")
	}
}

// handleMyStats shows the employee's report status: today first, then
// the running week.
func (h *Handler) handleMyStats(msg *tgbotapi.Message) {
	user, err := h.store.GetUser(msg.From.ID)
	if err != nil {
		h.reply(msg.Chat.ID, "Вы не зарегистрированы. Нажмите /start.")
		return
	}

	today, err := h.store.GetReport(user.ID, utils.Today(h.loc))
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		slog.Error("my status failed", "telegram_id", msg.From.ID, "err", err)
		h.reply(msg.Chat.ID, "Произошла ошибка. Попробуйте позже.")
		return
	}

	recent, err := h.store.GetUserReports(user.ID, 7)
	if err != nil {
		slog.Error("my status failed", "telegram_id", msg.From.ID, "err", err)
		h.reply(msg.Chat.ID, "Произошла ошибка. Попробуйте позже.")
		return
	}

	h.reply(msg.Chat.ID, statusText(user, today, recent))
}

// statusText builds the status message: whether today's report is in,
// aggregate totals over the recent reports, and the last entries.
func statusText(user *model.User, today *model.Report, recent []*model.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📈 <b>Статус отчётов</b>\n\n👤 <b>%s</b>\n\n", user.FullName)

	if today != nil {
		fmt.Fprintf(&b,
			"✅ <b>Отчёт за сегодня отправлен</b>\n"+
				"🕐 Время: %s\n"+
				"📞 Звонков: %d\n"+
				"🎯 Результативных: %d (%.1f%%)\n\n",
			today.SubmittedAt.Format("15:04"),
			today.CallsCount, today.Resultative(), today.Conversion())
	} else {
		b.WriteString("❌ <b>Отчёт за сегодня не отправлен</b>\n\n")
	}

	if len(recent) == 0 {
		b.WriteString("📅 <b>История отчётов пуста</b>\n")
		return b.String()
	}

	var calls, resultative int
	for _, r := range recent {
		calls += r.CallsCount
		resultative += r.Resultative()
	}
	avgConversion := 0.0
	if calls > 0 {
		avgConversion = math.Round(float64(resultative)/float64(calls)*1000) / 10
	}
	fmt.Fprintf(&b,
		"📊 <b>Статистика за %d дней:</b>\n"+
			"📞 Всего звонков: %d\n"+
			"🎯 Результативных: %d\n"+
			"📈 Средняя конверсия: %.1f%%\n\n",
		len(recent), calls, resultative, avgConversion)

	b.WriteString("📅 <b>Последние отчёты:</b>\n")
	for i, r := range recent {
		if i == 5 {
			break
		}
		fmt.Fprintf(&b, "• %s: %d звонков, %.1f%% конверсия\n",
			utils.FormatDisplayDate(r.ReportDate), r.CallsCount, r.Conversion())
	}
	return b.String()
}
