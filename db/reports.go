package db

import (
	"database/sql"

	"github.com/VictorFortuna/DailyReport/model"
)

const reportColumns = `id, user_id, report_date, calls_count, kp_plus, kp,
	rejections, inadequate, submitted_at`

func scanReport(scanner rowScanner) (*model.Report, error) {
	var r model.Report
	err := scanner.Scan(
		&r.ID, &r.UserID, &r.ReportDate, &r.CallsCount, &r.KPPlus, &r.KP,
		&r.Rejections, &r.Inadequate, &r.SubmittedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// CreateOrReplaceReport writes the report row keyed by (userID, date).
// An existing row for that key is overwritten: one report per user per
// day, last write wins. The stored row is returned.
func (s *Store) CreateOrReplaceReport(userID int64, date string, callsCount, kpPlus, kp, rejections, inadequate int) (*model.Report, error) {
	_, err := s.db.Exec(`INSERT INTO reports
		(user_id, report_date, calls_count, kp_plus, kp, rejections, inadequate)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, report_date) DO UPDATE SET
			calls_count = excluded.calls_count,
			kp_plus = excluded.kp_plus,
			kp = excluded.kp,
			rejections = excluded.rejections,
			inadequate = excluded.inadequate,
			submitted_at = CURRENT_TIMESTAMP`,
		userID, date, callsCount, kpPlus, kp, rejections, inadequate,
	)
	if err != nil {
		return nil, err
	}
	return s.GetReport(userID, date)
}

// GetReport retrieves the report of one user for one date.
func (s *Store) GetReport(userID int64, date string) (*model.Report, error) {
	row := s.db.QueryRow(
		"SELECT "+reportColumns+" FROM reports WHERE user_id = ? AND report_date = ?",
		userID, date,
	)
	return scanReport(row)
}

// GetUserReports returns a user's most recent reports, newest first.
func (s *Store) GetUserReports(userID int64, limit int) ([]*model.Report, error) {
	rows, err := s.db.Query(
		"SELECT "+reportColumns+" FROM reports WHERE user_id = ? ORDER BY report_date DESC LIMIT ?",
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*model.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// DailyReport pairs a report with its author, for admin views.
type DailyReport struct {
	model.Report
	FullName   string
	TelegramID int64
}

// GetDailyReports returns every report for a date joined with the
// author's name, ordered by name.
func (s *Store) GetDailyReports(date string) ([]DailyReport, error) {
	rows, err := s.db.Query(`SELECT
		r.id, r.user_id, r.report_date, r.calls_count, r.kp_plus, r.kp,
		r.rejections, r.inadequate, r.submitted_at, u.full_name, u.telegram_id
		FROM reports r
		JOIN users u ON r.user_id = u.id
		WHERE r.report_date = ?
		ORDER BY u.full_name`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []DailyReport
	for rows.Next() {
		var dr DailyReport
		err := rows.Scan(
			&dr.ID, &dr.UserID, &dr.ReportDate, &dr.CallsCount, &dr.KPPlus, &dr.KP,
			&dr.Rejections, &dr.Inadequate, &dr.SubmittedAt, &dr.FullName, &dr.TelegramID,
		)
		if err != nil {
			return nil, err
		}
		reports = append(reports, dr)
	}
	return reports, rows.Err()
}

// GetUsersWithoutReport returns the active users that have no report
// row for the given date.
func (s *Store) GetUsersWithoutReport(date string) ([]*model.User, error) {
	rows, err := s.db.Query(`SELECT `+userColumns+` FROM users
		WHERE is_active = 1
		AND id NOT IN (SELECT user_id FROM reports WHERE report_date = ?)
		ORDER BY full_name`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
