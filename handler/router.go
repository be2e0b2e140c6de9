// Package handler routes Telegram updates: commands, web-app report
// submissions, registration dialogs and the admin panel callbacks.
package handler

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/VictorFortuna/DailyReport/db"
	"github.com/VictorFortuna/DailyReport/registration"
	"github.com/VictorFortuna/DailyReport/report"
)

const helpText = "ℹ️ <b>Команды бота</b>\n\n" +
	"/start — главное меню\n" +
	"/admin — панель администратора\n" +
	"/help — эта справка"

// Settings is the slice of running configuration the chat surface
// shows and links to: the web-app form URL plus the values rendered
// in the admin settings view.
type Settings struct {
	WebAppURL        string
	ReminderTime     string
	RepeatAfter      int
	Timezone         string
	DatabasePath     string
	SheetsConfigured bool
}

// Handler dispatches incoming updates to the feature handlers.
type Handler struct {
	api      *tgbotapi.BotAPI
	store    *db.Store
	reports  *report.Service
	reg      *registration.Workflow
	adminID  int64
	settings Settings
	loc      *time.Location

	mu          sync.Mutex
	pendingName map[int64]bool // chats waiting for a full name
}

// New builds the update router.
func New(api *tgbotapi.BotAPI, store *db.Store, reports *report.Service, reg *registration.Workflow, adminID int64, settings Settings, loc *time.Location) *Handler {
	return &Handler{
		api:         api,
		store:       store,
		reports:     reports,
		reg:         reg,
		adminID:     adminID,
		settings:    settings,
		loc:         loc,
		pendingName: make(map[int64]bool),
	}
}

// Run consumes the long-poll update stream until the channel closes.
func (h *Handler) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	for update := range h.api.GetUpdatesChan(u) {
		h.dispatch(update)
	}
}

func (h *Handler) dispatch(update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(update.CallbackQuery)
	case update.Message == nil:
		return
	case update.Message.WebAppData != nil:
		h.handleWebAppData(update.Message)
	case update.Message.IsCommand():
		h.handleCommand(update.Message)
	default:
		h.handleText(update.Message)
	}
}

func (h *Handler) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		h.handleStart(msg)
	case "admin":
		h.handleAdmin(msg)
	case "help":
		h.reply(msg.Chat.ID, helpText)
	default:
		h.reply(msg.Chat.ID, "Неизвестная команда. Нажмите /start.")
	}
}

func (h *Handler) handleText(msg *tgbotapi.Message) {
	h.mu.Lock()
	waiting := h.pendingName[msg.Chat.ID]
	h.mu.Unlock()

	if waiting {
		h.handleRegistrationName(msg)
		return
	}

	switch strings.TrimSpace(msg.Text) {
	case buttonMyStats:
		h.handleMyStats(msg)
	case buttonHelp:
		h.reply(msg.Chat.ID, helpText)
	default:
		h.reply(msg.Chat.ID, "Используйте кнопки меню или /start.")
	}
}

// reply sends best-effort HTML text to a chat.
func (h *Handler) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := h.api.Send(msg); err != nil {
		slog.Warn("reply failed", "chat_id", chatID, "err", err)
	}
}

func (h *Handler) replyWithKeyboard(chatID int64, text string, kb any) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = kb
	if _, err := h.api.Send(msg); err != nil {
		slog.Warn("reply failed", "chat_id", chatID, "err", err)
	}
}

// answerCallback closes the inline-button spinner.
func (h *Handler) answerCallback(id, text string) {
	if _, err := h.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		slog.Warn("callback answer failed", "err", err)
	}
}
