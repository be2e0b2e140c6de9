package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingsText(t *testing.T) {
	text := settingsText(Settings{
		WebAppURL:        "https://example.com/form",
		ReminderTime:     "18:00",
		RepeatAfter:      30,
		Timezone:         "Europe/Moscow",
		DatabasePath:     "./data/reports.db",
		SheetsConfigured: true,
	})

	assert.Contains(t, text, "⚙️ <b>Настройки системы</b>")
	assert.Contains(t, text, "Время напоминаний:</b> 18:00")
	assert.Contains(t, text, "Повтор через:</b> 30 мин")
	assert.Contains(t, text, "Часовой пояс:</b> Europe/Moscow")
	assert.Contains(t, text, "Mini App URL:</b> https://example.com/form")
	assert.Contains(t, text, "База данных:</b> ./data/reports.db")
	assert.Contains(t, text, "Google Sheets:</b> ✅ Настроено")
}

func TestSettingsTextSheetsNotConfigured(t *testing.T) {
	text := settingsText(Settings{})
	assert.Contains(t, text, "Google Sheets:</b> ❌ Не настроено")
}
