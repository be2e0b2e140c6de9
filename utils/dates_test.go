package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTodayUsesLocation(t *testing.T) {
	east := time.FixedZone("east", 12*3600)
	west := time.FixedZone("west", -12*3600)

	// The two zones are a day apart around midnight UTC; at minimum
	// both must be valid dates.
	for _, loc := range []*time.Location{east, west, time.UTC} {
		_, err := time.Parse("2006-01-02", Today(loc))
		assert.NoError(t, err)
	}
}

func TestFormatDisplayDate(t *testing.T) {
	assert.Equal(t, "05.03.2025", FormatDisplayDate("2025-03-05"))
	assert.Equal(t, "not-a-date", FormatDisplayDate("not-a-date"))
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Анна", FirstName("Анна Смирнова"))
	assert.Equal(t, "Пётр", FirstName("  Пётр  Иванов "))
	assert.Equal(t, "", FirstName(""))
}
