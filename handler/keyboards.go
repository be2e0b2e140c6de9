package handler

import (
	"fmt"
	"net/url"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	buttonReport  = "📝 Отправить отчёт"
	buttonMyStats = "📊 Моя статистика"
	buttonHelp    = "ℹ️ Помощь"
)

// mainKeyboard is the persistent reply keyboard for registered
// employees. The report button opens the web-app form with the
// user's name baked into the URL.
func (h *Handler) mainKeyboard(fullName string) tgbotapi.ReplyKeyboardMarkup {
	formURL := fmt.Sprintf("%s?user_name=%s", h.settings.WebAppURL, url.QueryEscape(fullName))
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.KeyboardButton{
			Text:   buttonReport,
			WebApp: &tgbotapi.WebAppInfo{URL: formURL},
		}),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonMyStats),
			tgbotapi.NewKeyboardButton(buttonHelp),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// adminKeyboard is the inline panel shown by /admin.
func adminKeyboard(pendingCount int) tgbotapi.InlineKeyboardMarkup {
	pendingLabel := "👤 Заявки"
	if pendingCount > 0 {
		pendingLabel = fmt.Sprintf("👤 Заявки (%d)", pendingCount)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Отчёты за сегодня", "admin_today"),
			tgbotapi.NewInlineKeyboardButtonData("👥 Сотрудники", "admin_users"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(pendingLabel, "admin_pending"),
			tgbotapi.NewInlineKeyboardButtonData("📈 Статистика", "admin_stats"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Настройки", "admin_settings"),
			tgbotapi.NewInlineKeyboardButtonData("📥 Экспорт", "admin_export"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Обновить", "admin_refresh"),
		),
	)
}

// reviewKeyboard offers the three review outcomes for one pending
// request.
func reviewKeyboard(requestID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Одобрить", fmt.Sprintf("reg_approve_%d", requestID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", fmt.Sprintf("reg_reject_%d", requestID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚫 Заблокировать", fmt.Sprintf("reg_block_%d", requestID)),
		),
	)
}

// exportKeyboard picks the export window.
func exportKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("За сегодня", "export_today"),
			tgbotapi.NewInlineKeyboardButtonData("За 7 дней", "export_week"),
			tgbotapi.NewInlineKeyboardButtonData("За 30 дней", "export_month"),
		),
	)
}
