package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VictorFortuna/DailyReport/db"
	"github.com/VictorFortuna/DailyReport/report"
)

func newTestServer(t *testing.T) (*Server, *db.Store) {
	t.Helper()
	store, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	svc := report.NewService(store, nil, nil, 0)
	return NewServer(svc, time.UTC), store
}

func post(t *testing.T, s *Server, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/submit_report", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func validBody(telegramID int64) map[string]any {
	return map[string]any{
		"telegram_user_id": telegramID,
		"calls_count":      50,
		"kp_plus":          5,
		"kp":               3,
		"rejections":       2,
		"inadequate":       1,
	}
}

func TestSubmitReportSuccess(t *testing.T) {
	s, store := newTestServer(t)
	user, err := store.CreateUser(501, "Анна Смирнова", "anna")
	require.NoError(t, err)

	w := post(t, s, validBody(501))
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.Equal(t, "success", out["status"])
	assert.Equal(t, "Вы успешно передали данные", out["message"])

	today := time.Now().UTC().Format("2006-01-02")
	rep, err := store.GetReport(user.ID, today)
	require.NoError(t, err)
	assert.Equal(t, 50, rep.CallsCount)
}

func TestSubmitReportResubmissionReplaces(t *testing.T) {
	s, store := newTestServer(t)
	user, err := store.CreateUser(501, "Анна Смирнова", "anna")
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, post(t, s, validBody(501)).Code)

	body := validBody(501)
	body["calls_count"] = 60
	require.Equal(t, http.StatusOK, post(t, s, body).Code)

	today := time.Now().UTC().Format("2006-01-02")
	rep, err := store.GetReport(user.ID, today)
	require.NoError(t, err)
	assert.Equal(t, 60, rep.CallsCount)

	reports, err := store.GetUserReports(user.ID, 10)
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestSubmitReportUnknownUser(t *testing.T) {
	s, _ := newTestServer(t)

	w := post(t, s, validBody(999))
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decode(t, w)["error"])
}

func TestSubmitReportValidation(t *testing.T) {
	s, store := newTestServer(t)
	_, err := store.CreateUser(501, "Анна Смирнова", "anna")
	require.NoError(t, err)

	body := validBody(501)
	delete(body, "kp")
	w := post(t, s, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "kp")

	body = validBody(501)
	body["calls_count"] = 0
	w = post(t, s, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitReportMissingFieldForUnknownUser(t *testing.T) {
	s, _ := newTestServer(t)

	// An incomplete payload is a 400 even when the sender is not
	// registered.
	body := validBody(999)
	delete(body, "kp")
	w := post(t, s, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "kp")
}

func TestSubmitReportMissingTelegramID(t *testing.T) {
	s, _ := newTestServer(t)

	body := validBody(0)
	delete(body, "telegram_user_id")
	w := post(t, s, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "telegram_user_id")
}

func TestSubmitReportBadJSON(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/submit_report", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
