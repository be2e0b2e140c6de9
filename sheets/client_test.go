package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VictorFortuna/DailyReport/report"
)

var fields = report.Fields{CallsCount: 50, KPPlus: 5, KP: 3, Rejections: 2, Inadequate: 1}

func TestPushSendsSignedPayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "s3cret")
	err := c.Push(context.Background(), "Анна Смирнова", "2025-03-05", fields)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", got["secret_key"])
	assert.Equal(t, "Анна Смирнова", got["employee_name"])
	assert.Equal(t, "2025-03-05", got["report_date"])
	assert.Equal(t, float64(50), got["calls_count"])
	assert.Equal(t, float64(5), got["kp_plus"])
	assert.Equal(t, float64(3), got["kp"])
	assert.Equal(t, float64(2), got["rejections"])
	assert.Equal(t, float64(1), got["inadequate"])
}

func TestPushRejectedByWebhook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": "Invalid secret key"})
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "wrong").Push(context.Background(), "Анна", "2025-03-05", fields)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid secret key")
}

func TestPushNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "s3cret").Push(context.Background(), "Анна", "2025-03-05", fields)
	assert.Error(t, err)
}

func TestPushHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewClient(srv.URL, "s3cret").Push(ctx, "Анна", "2025-03-05", fields)
	assert.Error(t, err)
}
