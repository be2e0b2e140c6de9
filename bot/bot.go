// Package bot owns the Telegram API connection.
package bot

import (
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// New authorizes against the Telegram Bot API.
func New(token string, debug bool) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	api.Debug = debug
	slog.Info("authorized on telegram", "account", api.Self.UserName)
	return api, nil
}

// Notifier sends HTML-formatted messages through the bot. It
// satisfies the Notifier interfaces of the report, registration and
// scheduler packages.
type Notifier struct {
	api *tgbotapi.BotAPI
}

// NewNotifier wraps an authorized bot.
func NewNotifier(api *tgbotapi.BotAPI) *Notifier {
	return &Notifier{api: api}
}

// Send delivers text to the chat, parsed as HTML.
func (n *Notifier) Send(telegramID int64, text string) error {
	msg := tgbotapi.NewMessage(telegramID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := n.api.Send(msg)
	return err
}
