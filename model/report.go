package model

import (
	"math"
	"time"
)

// DateLayout is the calendar-date key format used for report rows.
const DateLayout = "2006-01-02"

// Report holds one employee's sales-call numbers for one calendar day.
// The (UserID, ReportDate) pair is unique: resubmitting replaces the row.
type Report struct {
	ID          int64
	UserID      int64
	ReportDate  string
	CallsCount  int
	KPPlus      int
	KP          int
	Rejections  int
	Inadequate  int
	SubmittedAt time.Time
}

// Resultative returns the number of calls with a positive outcome.
func (r *Report) Resultative() int {
	return r.KPPlus + r.KP
}

// Conversion returns the resultative share in percent, rounded to one
// decimal place.
func (r *Report) Conversion() float64 {
	if r.CallsCount == 0 {
		return 0
	}
	return math.Round(float64(r.Resultative())/float64(r.CallsCount)*1000) / 10
}
