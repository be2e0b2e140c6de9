// Package sheets pushes submitted reports to the Google Sheets
// webhook (an Apps Script endpoint authenticated by a shared secret).
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/VictorFortuna/DailyReport/report"
)

const requestTimeout = 10 * time.Second

// Client talks to the spreadsheet webhook. Safe for concurrent use.
type Client struct {
	url    string
	secret string
	httpc  *http.Client
}

// NewClient builds a webhook client for the given endpoint.
func NewClient(url, secret string) *Client {
	return &Client{
		url:    url,
		secret: secret,
		httpc:  &http.Client{Timeout: requestTimeout},
	}
}

type pushPayload struct {
	SecretKey    string `json:"secret_key"`
	EmployeeName string `json:"employee_name"`
	ReportDate   string `json:"report_date"`
	CallsCount   int    `json:"calls_count"`
	KPPlus       int    `json:"kp_plus"`
	KP           int    `json:"kp"`
	Rejections   int    `json:"rejections"`
	Inadequate   int    `json:"inadequate"`
}

type pushResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Push appends one report row to the spreadsheet. The webhook is
// expected to answer {"status":"success"}; anything else is an error.
func (c *Client) Push(ctx context.Context, employeeName, reportDate string, f report.Fields) error {
	pushID := uuid.NewString()

	body, err := json.Marshal(pushPayload{
		SecretKey:    c.secret,
		EmployeeName: employeeName,
		ReportDate:   reportDate,
		CallsCount:   f.CallsCount,
		KPPlus:       f.KPPlus,
		KP:           f.KP,
		Rejections:   f.Rejections,
		Inadequate:   f.Inadequate,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("sheets push %s: %w", pushID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sheets push %s: webhook returned %s", pushID, resp.Status)
	}

	var out pushResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("sheets push %s: decode response: %w", pushID, err)
	}
	if out.Status != "success" {
		return fmt.Errorf("sheets push %s: webhook rejected: %s", pushID, out.Message)
	}

	slog.Info("report pushed to sheet", "push_id", pushID, "employee", employeeName, "date", reportDate)
	return nil
}
