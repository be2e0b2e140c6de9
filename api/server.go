// Package api exposes the HTTP ingestion endpoint the web form posts
// to. It mirrors the Telegram web-app path: same validation, same
// storage, same side channels.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/VictorFortuna/DailyReport/db"
	"github.com/VictorFortuna/DailyReport/report"
	"github.com/VictorFortuna/DailyReport/utils"
)

// Server wraps the gin engine around the report service.
type Server struct {
	reports *report.Service
	loc     *time.Location
	engine  *gin.Engine
}

// NewServer builds the HTTP server. Reports submitted through it are
// dated "today" in loc.
func NewServer(reports *report.Service, loc *time.Location) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		reports: reports,
		loc:     loc,
		engine:  gin.New(),
	}
	s.engine.Use(gin.Recovery())
	s.engine.POST("/api/submit_report", s.submitReport)
	return s
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	slog.Info("api server listening", "addr", addr)
	return s.engine.Run(addr)
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) submitReport(c *gin.Context) {
	var payload map[string]any
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	telegramID, ok := asInt64(payload["telegram_user_id"])
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid field: telegram_user_id"})
		return
	}
	delete(payload, "telegram_user_id")

	date := utils.Today(s.loc)
	_, err := s.reports.Submit(c.Request.Context(), telegramID, date, payload)
	if err != nil {
		var vErr *report.ValidationError
		switch {
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
		case errors.Is(err, db.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			slog.Error("submit report failed", "telegram_id", telegramID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Вы успешно передали данные"})
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		id, err := n.Int64()
		return id, err == nil
	case float64:
		return int64(n), n == float64(int64(n))
	case int64:
		return n, true
	default:
		return 0, false
	}
}
