package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/VictorFortuna/DailyReport/db"
	"github.com/VictorFortuna/DailyReport/report"
	"github.com/VictorFortuna/DailyReport/utils"
)

const submitTimeout = 30 * time.Second

// handleWebAppData receives the report form payload sent back by the
// Telegram web app.
func (h *Handler) handleWebAppData(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	var payload map[string]any
	dec := json.NewDecoder(strings.NewReader(msg.WebAppData.Data))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		slog.Warn("bad web app payload", "telegram_id", msg.From.ID, "err", err)
		h.reply(chatID, "⚠️ Не удалось прочитать данные формы. Попробуйте ещё раз.")
		return
	}
	delete(payload, "telegram_user_id")

	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()

	rep, err := h.reports.Submit(ctx, msg.From.ID, utils.Today(h.loc), payload)
	if err != nil {
		var vErr *report.ValidationError
		switch {
		case errors.As(err, &vErr):
			h.reply(chatID, "⚠️ Отчёт не принят: "+vErr.Error())
		case errors.Is(err, db.ErrNotFound):
			h.reply(chatID, "Вы не зарегистрированы. Нажмите /start.")
		default:
			slog.Error("report submit failed", "telegram_id", msg.From.ID, "err", err)
			h.reply(chatID, "Произошла ошибка при сохранении отчёта. Попробуйте позже.")
		}
		return
	}

	h.reply(chatID, fmt.Sprintf(
		"✅ <b>Отчёт за %s принят!</b>\n\n"+
			"📞 Звонков: %d\n"+
			"👍 КП+: %d\n"+
			"📄 КП: %d\n"+
			"👎 Отказы: %d\n"+
			"🤯 Неадекваты: %d\n\n"+
			"📈 Конверсия: %.1f%%",
		utils.FormatDisplayDate(rep.ReportDate),
		rep.CallsCount, rep.KPPlus, rep.KP, rep.Rejections, rep.Inadequate,
		rep.Conversion()))
}
