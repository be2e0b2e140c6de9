package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VictorFortuna/DailyReport/model"
)

func TestCreateOrReplaceReportIdempotent(t *testing.T) {
	s := newTestStore(t)

	u, err := s.CreateUser(100, "Иванов Иван", "")
	require.NoError(t, err)

	first, err := s.CreateOrReplaceReport(u.ID, "2025-06-02", 10, 3, 2, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, first.CallsCount)
	assert.Equal(t, 5, first.Resultative())

	// Second submission for the same day replaces, never appends.
	second, err := s.CreateOrReplaceReport(u.ID, "2025-06-02", 12, 4, 4, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 12, second.CallsCount)
	assert.Equal(t, 8, second.Resultative())

	reports, err := s.GetUserReports(u.ID, 10)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, 12, reports[0].CallsCount)
}

func TestGetUserReportsOrderAndLimit(t *testing.T) {
	s := newTestStore(t)

	u, err := s.CreateUser(100, "Иванов Иван", "")
	require.NoError(t, err)

	for _, date := range []string{"2025-06-01", "2025-06-02", "2025-06-03"} {
		_, err := s.CreateOrReplaceReport(u.ID, date, 5, 1, 1, 2, 1)
		require.NoError(t, err)
	}

	reports, err := s.GetUserReports(u.ID, 2)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "2025-06-03", reports[0].ReportDate)
	assert.Equal(t, "2025-06-02", reports[1].ReportDate)
}

func TestGetDailyReportsJoinsNames(t *testing.T) {
	s := newTestStore(t)

	a, err := s.CreateUser(1, "Антонов Антон", "")
	require.NoError(t, err)
	b, err := s.CreateUser(2, "Борисов Борис", "")
	require.NoError(t, err)

	_, err = s.CreateOrReplaceReport(b.ID, "2025-06-02", 8, 2, 1, 4, 1)
	require.NoError(t, err)
	_, err = s.CreateOrReplaceReport(a.ID, "2025-06-02", 10, 3, 2, 4, 1)
	require.NoError(t, err)
	_, err = s.CreateOrReplaceReport(a.ID, "2025-06-01", 4, 1, 0, 2, 1)
	require.NoError(t, err)

	daily, err := s.GetDailyReports("2025-06-02")
	require.NoError(t, err)
	require.Len(t, daily, 2)
	assert.Equal(t, "Антонов Антон", daily[0].FullName)
	assert.Equal(t, int64(1), daily[0].TelegramID)
	assert.Equal(t, "Борисов Борис", daily[1].FullName)
}

func TestGetUsersWithoutReport(t *testing.T) {
	s := newTestStore(t)

	var withReport []*model.User
	for i := int64(1); i <= 10; i++ {
		u, err := s.CreateUser(i, names[i-1], "")
		require.NoError(t, err)
		if i <= 3 {
			withReport = append(withReport, u)
		}
	}
	for _, u := range withReport {
		_, err := s.CreateOrReplaceReport(u.ID, "2025-06-02", 10, 3, 2, 4, 1)
		require.NoError(t, err)
	}

	missing, err := s.GetUsersWithoutReport("2025-06-02")
	require.NoError(t, err)
	require.Len(t, missing, 7)
	for _, u := range missing {
		assert.Greater(t, u.TelegramID, int64(3))
	}

	// Querying again returns the same set: reading mutates nothing.
	again, err := s.GetUsersWithoutReport("2025-06-02")
	require.NoError(t, err)
	assert.Equal(t, missing, again)

	// A different date has no reports at all.
	missing, err = s.GetUsersWithoutReport("2025-06-03")
	require.NoError(t, err)
	assert.Len(t, missing, 10)
}

func TestGetUsersWithoutReportSkipsInactive(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateUser(1, "Антонов Антон", "")
	require.NoError(t, err)
	_, err = s.CreateUser(2, "Борисов Борис", "")
	require.NoError(t, err)

	inactive := false
	require.NoError(t, s.UpdateUser(2, model.UserPatch{IsActive: &inactive}))

	missing, err := s.GetUsersWithoutReport("2025-06-02")
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, int64(1), missing[0].TelegramID)
}

var names = []string{
	"Антонов Антон", "Борисов Борис", "Волков Владимир", "Громов Григорий",
	"Дмитриев Дмитрий", "Егоров Егор", "Жуков Георгий", "Зайцев Захар",
	"Игнатов Игорь", "Козлов Константин",
}
