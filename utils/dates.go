package utils

import (
	"strings"
	"time"

	"github.com/VictorFortuna/DailyReport/model"
)

// Today returns the current report date in loc, formatted as
// YYYY-MM-DD.
func Today(loc *time.Location) string {
	return time.Now().In(loc).Format(model.DateLayout)
}

// FormatDisplayDate converts a stored YYYY-MM-DD date into the
// DD.MM.YYYY form used in chat messages. Unparseable input is
// returned as-is.
func FormatDisplayDate(date string) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("02.01.2006")
}

// FirstName returns the first word of a full name, for greetings.
func FirstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return fullName
	}
	return fields[0]
}
