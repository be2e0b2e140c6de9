package handler

import (
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"

	"github.com/VictorFortuna/DailyReport/db"
	"github.com/VictorFortuna/DailyReport/model"
	"github.com/VictorFortuna/DailyReport/utils"
)

var exportHeaders = []string{"Дата", "Сотрудник", "Звонки", "КП+", "КП", "Отказы", "Неадекваты", "Результативные", "Конверсия %"}

// handleExport builds an xlsx workbook for the chosen window and
// sends it as a document.
func (h *Handler) handleExport(chatID int64, window string) {
	days := 1
	switch window {
	case "today":
		days = 1
	case "week":
		days = 7
	case "month":
		days = 30
	}

	rows, err := h.collectExportRows(days)
	if err != nil {
		slog.Error("export failed", "window", window, "err", err)
		h.reply(chatID, "Произошла ошибка при формировании файла.")
		return
	}
	if len(rows) == 0 {
		h.reply(chatID, "📭 За выбранный период отчётов нет.")
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for col, title := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}
	for i, r := range rows {
		values := []any{
			utils.FormatDisplayDate(r.ReportDate), r.FullName,
			r.CallsCount, r.KPPlus, r.KP, r.Rejections, r.Inadequate,
			r.Resultative(), r.Conversion(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("export failed", "window", window, "err", err)
		h.reply(chatID, "Произошла ошибка при формировании файла.")
		return
	}

	name := fmt.Sprintf("reports_%s_%s.xlsx", window, utils.Today(h.loc))
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: buf.Bytes()})
	doc.Caption = fmt.Sprintf("📥 Экспорт отчётов: %d строк", len(rows))
	if _, err := h.api.Send(doc); err != nil {
		slog.Warn("export delivery failed", "chat_id", chatID, "err", err)
	}
}

// collectExportRows gathers daily reports for the last days calendar
// days, newest day first.
func (h *Handler) collectExportRows(days int) ([]db.DailyReport, error) {
	var rows []db.DailyReport
	now := time.Now().In(h.loc)
	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, -i).Format(model.DateLayout)
		daily, err := h.store.GetDailyReports(date)
		if err != nil {
			return nil, err
		}
		rows = append(rows, daily...)
	}
	return rows, nil
}
