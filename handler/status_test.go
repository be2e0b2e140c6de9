package handler

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/VictorFortuna/DailyReport/model"
)

func statusUser() *model.User {
	return &model.User{ID: 1, TelegramID: 501, FullName: "Анна Смирнова", IsActive: true}
}

func statusReport(date string, calls, kpPlus, kp int) *model.Report {
	return &model.Report{
		UserID: 1, ReportDate: date,
		CallsCount: calls, KPPlus: kpPlus, KP: kp,
		SubmittedAt: time.Date(2025, 6, 2, 17, 45, 0, 0, time.UTC),
	}
}

func TestStatusTextWithTodayReport(t *testing.T) {
	today := statusReport("2025-06-02", 40, 6, 4)
	text := statusText(statusUser(), today, []*model.Report{today})

	assert.Contains(t, text, "Анна Смирнова")
	assert.Contains(t, text, "✅ <b>Отчёт за сегодня отправлен</b>")
	assert.Contains(t, text, "🕐 Время: 17:45")
	assert.Contains(t, text, "🎯 Результативных: 10 (25.0%)")
}

func TestStatusTextWithoutTodayReport(t *testing.T) {
	text := statusText(statusUser(), nil, nil)

	assert.Contains(t, text, "❌ <b>Отчёт за сегодня не отправлен</b>")
	assert.Contains(t, text, "История отчётов пуста")
}

func TestStatusTextWeeklyTotals(t *testing.T) {
	recent := []*model.Report{
		statusReport("2025-06-02", 30, 3, 2),
		statusReport("2025-06-01", 20, 2, 1),
		statusReport("2025-05-31", 10, 1, 1),
	}
	text := statusText(statusUser(), nil, recent)

	assert.Contains(t, text, "Статистика за 3 дней")
	assert.Contains(t, text, "Всего звонков: 60")
	assert.Contains(t, text, "Результативных: 10")
	assert.Contains(t, text, "Средняя конверсия: 16.7%")
	assert.Contains(t, text, "02.06.2025: 30 звонков")
}

func TestStatusTextRecentListCapped(t *testing.T) {
	var recent []*model.Report
	for i := 0; i < 7; i++ {
		recent = append(recent, statusReport(fmt.Sprintf("2025-06-0%d", i+1), 10, 1, 1))
	}
	text := statusText(statusUser(), nil, recent)

	assert.Contains(t, text, "01.06.2025")
	assert.Contains(t, text, "05.06.2025")
	assert.NotContains(t, text, "06.06.2025")
}
