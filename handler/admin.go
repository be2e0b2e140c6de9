package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/VictorFortuna/DailyReport/model"
	"github.com/VictorFortuna/DailyReport/registration"
	"github.com/VictorFortuna/DailyReport/utils"
)

// handleAdmin opens the admin panel.
func (h *Handler) handleAdmin(msg *tgbotapi.Message) {
	if !h.reg.IsAdmin(msg.From.ID) {
		h.reply(msg.Chat.ID, "⛔ У вас нет прав администратора.")
		return
	}
	h.sendAdminPanel(msg.Chat.ID)
}

func (h *Handler) sendAdminPanel(chatID int64) {
	pending, err := h.store.ListPendingRegistrations(model.StatusPending)
	if err != nil {
		slog.Error("admin panel failed", "err", err)
		pending = nil
	}
	h.replyWithKeyboard(chatID, "🛠 <b>Панель администратора</b>\n\nВыберите раздел:", adminKeyboard(len(pending)))
}

// handleCallback routes inline-button presses. The admin check runs
// on every press: buttons outlive promotions and demotions.
func (h *Handler) handleCallback(cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	if !h.reg.IsAdmin(cb.From.ID) {
		h.answerCallback(cb.ID, "Нет прав администратора")
		return
	}
	chatID := cb.Message.Chat.ID
	data := cb.Data

	switch {
	case data == "admin_today":
		h.answerCallback(cb.ID, "")
		h.showTodayReports(chatID)
	case data == "admin_users":
		h.answerCallback(cb.ID, "")
		h.showUsers(chatID)
	case data == "admin_pending":
		h.answerCallback(cb.ID, "")
		h.showPending(chatID)
	case data == "admin_stats":
		h.answerCallback(cb.ID, "")
		h.showStats(chatID)
	case data == "admin_settings":
		h.answerCallback(cb.ID, "")
		h.showSettings(chatID)
	case data == "admin_export":
		h.answerCallback(cb.ID, "")
		h.replyWithKeyboard(chatID, "📥 Выберите период экспорта:", exportKeyboard())
	case data == "admin_refresh":
		h.answerCallback(cb.ID, "Обновлено")
		h.sendAdminPanel(chatID)
	case strings.HasPrefix(data, "export_"):
		h.answerCallback(cb.ID, "Формирую файл…")
		h.handleExport(chatID, strings.TrimPrefix(data, "export_"))
	case strings.HasPrefix(data, "reg_"):
		h.handleRegistrationCallback(cb)
	default:
		h.answerCallback(cb.ID, "")
	}
}

func (h *Handler) showTodayReports(chatID int64) {
	today := utils.Today(h.loc)
	reports, err := h.store.GetDailyReports(today)
	if err != nil {
		slog.Error("today reports failed", "err", err)
		h.reply(chatID, "Произошла ошибка. Попробуйте позже.")
		return
	}
	if len(reports) == 0 {
		h.reply(chatID, fmt.Sprintf("📭 За %s отчётов ещё нет.", utils.FormatDisplayDate(today)))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 <b>Отчёты за %s</b>\n\n", utils.FormatDisplayDate(today))
	for _, r := range reports {
		fmt.Fprintf(&b, "👤 <b>%s</b>\n📞 %d | 👍 %d | 📄 %d | 👎 %d | 🤯 %d | 📈 %.1f%%\n\n",
			r.FullName, r.CallsCount, r.KPPlus, r.KP, r.Rejections, r.Inadequate, r.Conversion())
	}
	h.reply(chatID, b.String())
}

func (h *Handler) showUsers(chatID int64) {
	users, err := h.store.GetAllUsers(false)
	if err != nil {
		slog.Error("user list failed", "err", err)
		h.reply(chatID, "Произошла ошибка. Попробуйте позже.")
		return
	}
	if len(users) == 0 {
		h.reply(chatID, "📭 Сотрудников пока нет.")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👥 <b>Сотрудники (%d)</b>\n\n", len(users))
	for _, u := range users {
		mark := "✅"
		if !u.IsActive {
			mark = "🚫"
		}
		fmt.Fprintf(&b, "%s %s", mark, u.FullName)
		if u.Username != "" {
			fmt.Fprintf(&b, " (@%s)", u.Username)
		}
		b.WriteString("\n")
	}
	h.reply(chatID, b.String())
}

func (h *Handler) showPending(chatID int64) {
	pending, err := h.store.ListPendingRegistrations(model.StatusPending)
	if err != nil {
		slog.Error("pending list failed", "err", err)
		h.reply(chatID, "Произошла ошибка. Попробуйте позже.")
		return
	}
	if len(pending) == 0 {
		h.reply(chatID, "📭 Новых заявок нет.")
		return
	}

	for _, reg := range pending {
		text := fmt.Sprintf(
			"👤 <b>Заявка #%d</b>\n\n"+
				"📝 Имя: %s\n"+
				"🆔 Telegram ID: <code>%d</code>\n",
			reg.ID, reg.FullName, reg.TelegramID)
		if reg.Username != "" {
			text += fmt.Sprintf("📱 Username: @%s\n", reg.Username)
		}
		h.replyWithKeyboard(chatID, text, reviewKeyboard(reg.ID))
	}
}

func (h *Handler) showStats(chatID int64) {
	today := utils.Today(h.loc)
	reports, err := h.store.GetDailyReports(today)
	if err != nil {
		slog.Error("stats failed", "err", err)
		h.reply(chatID, "Произошла ошибка. Попробуйте позже.")
		return
	}
	missing, err := h.store.GetUsersWithoutReport(today)
	if err != nil {
		slog.Error("stats failed", "err", err)
		h.reply(chatID, "Произошла ошибка. Попробуйте позже.")
		return
	}

	var calls, resultative int
	for _, r := range reports {
		calls += r.CallsCount
		resultative += r.Resultative()
	}
	conversion := 0.0
	if calls > 0 {
		conversion = float64(resultative) / float64(calls) * 100
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📈 <b>Статистика за %s</b>\n\n", utils.FormatDisplayDate(today))
	fmt.Fprintf(&b, "✅ Отчитались: %d\n", len(reports))
	fmt.Fprintf(&b, "❌ Без отчёта: %d\n", len(missing))
	fmt.Fprintf(&b, "📞 Всего звонков: %d\n", calls)
	fmt.Fprintf(&b, "🎯 Результативных: %d\n", resultative)
	fmt.Fprintf(&b, "📈 Общая конверсия: %.1f%%\n", conversion)
	if len(missing) > 0 {
		b.WriteString("\n<b>Не отчитались:</b>\n")
		for _, u := range missing {
			fmt.Fprintf(&b, "• %s\n", u.FullName)
		}
	}
	h.reply(chatID, b.String())
}

// showSettings renders the running configuration. Values change via
// the config file, not from chat.
func (h *Handler) showSettings(chatID int64) {
	h.reply(chatID, settingsText(h.settings))
}

func settingsText(s Settings) string {
	sheets := "❌ Не настроено"
	if s.SheetsConfigured {
		sheets = "✅ Настроено"
	}
	return fmt.Sprintf(
		"⚙️ <b>Настройки системы</b>\n\n"+
			"🕐 <b>Время напоминаний:</b> %s\n"+
			"🔄 <b>Повтор через:</b> %d мин\n"+
			"🌍 <b>Часовой пояс:</b> %s\n"+
			"📱 <b>Mini App URL:</b> %s\n"+
			"🗄️ <b>База данных:</b> %s\n"+
			"📊 <b>Google Sheets:</b> %s\n\n"+
			"💡 <i>Настройки изменяются в файле конфигурации</i>",
		s.ReminderTime, s.RepeatAfter, s.Timezone,
		s.WebAppURL, s.DatabasePath, sheets)
}

// handleRegistrationCallback processes approve / reject / block
// presses on a review card.
func (h *Handler) handleRegistrationCallback(cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID

	action, rawID, ok := splitRegCallback(cb.Data)
	if !ok {
		h.answerCallback(cb.ID, "")
		return
	}
	requestID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		h.answerCallback(cb.ID, "")
		return
	}

	switch action {
	case "approve":
		user, err := h.reg.Approve(cb.From.ID, requestID)
		if err != nil {
			h.answerCallback(cb.ID, regErrText(err))
			return
		}
		h.answerCallback(cb.ID, "Одобрено")
		h.reply(chatID, fmt.Sprintf("✅ %s добавлен(а) в команду.", user.FullName))
	case "reject":
		if err := h.reg.Reject(cb.From.ID, requestID); err != nil {
			h.answerCallback(cb.ID, regErrText(err))
			return
		}
		h.answerCallback(cb.ID, "Отклонено")
		h.reply(chatID, "❌ Заявка отклонена.")
	case "block":
		reg, err := h.store.GetPendingRegistration(requestID)
		if err != nil {
			h.answerCallback(cb.ID, "Заявка не найдена")
			return
		}
		if err := h.reg.Reject(cb.From.ID, requestID); err != nil && !errors.Is(err, registration.ErrNotPending) {
			h.answerCallback(cb.ID, regErrText(err))
			return
		}
		if err := h.reg.Block(cb.From.ID, reg.TelegramID, "заблокирован при рассмотрении заявки"); err != nil {
			h.answerCallback(cb.ID, regErrText(err))
			return
		}
		h.answerCallback(cb.ID, "Заблокировано")
		h.reply(chatID, fmt.Sprintf("🚫 %s заблокирован(а).", reg.FullName))
	default:
		h.answerCallback(cb.ID, "")
	}
}

func splitRegCallback(data string) (action, id string, ok bool) {
	rest := strings.TrimPrefix(data, "reg_")
	parts := strings.SplitN(rest, "_", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func regErrText(err error) string {
	switch {
	case errors.Is(err, registration.ErrNotPending):
		return "Заявка уже рассмотрена"
	case errors.Is(err, registration.ErrNotAdmin):
		return "Нет прав администратора"
	default:
		slog.Error("registration callback failed", "err", err)
		return "Произошла ошибка"
	}
}
