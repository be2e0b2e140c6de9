package db

import (
	"database/sql"

	"github.com/VictorFortuna/DailyReport/model"
)

const registrationColumns = `id, telegram_id, full_name, COALESCE(username, '') AS username,
	requested_at, status`

func scanRegistration(scanner rowScanner) (*model.PendingRegistration, error) {
	var r model.PendingRegistration
	err := scanner.Scan(
		&r.ID, &r.TelegramID, &r.FullName, &r.Username, &r.RequestedAt, &r.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// CreatePendingRegistration inserts a pending request. The UNIQUE
// constraint on telegram_id makes a second request for the same
// identity fail with ErrDuplicate, whatever path it arrives through.
func (s *Store) CreatePendingRegistration(telegramID int64, fullName, username string) (*model.PendingRegistration, error) {
	res, err := s.db.Exec(
		"INSERT INTO pending_registrations(telegram_id, full_name, username) VALUES(?, ?, ?)",
		telegramID, fullName, username,
	)
	if err != nil {
		if isConstraintErr(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetPendingRegistration(id)
}

// GetPendingRegistration retrieves a registration request by id.
func (s *Store) GetPendingRegistration(id int64) (*model.PendingRegistration, error) {
	row := s.db.QueryRow(
		"SELECT "+registrationColumns+" FROM pending_registrations WHERE id = ?", id,
	)
	return scanRegistration(row)
}

// GetPendingRegistrationByTelegramID retrieves a registration request
// by the applicant's telegram id.
func (s *Store) GetPendingRegistrationByTelegramID(telegramID int64) (*model.PendingRegistration, error) {
	row := s.db.QueryRow(
		"SELECT "+registrationColumns+" FROM pending_registrations WHERE telegram_id = ?",
		telegramID,
	)
	return scanRegistration(row)
}

// ListPendingRegistrations returns requests with the given status, or
// all requests when status is empty, oldest first.
func (s *Store) ListPendingRegistrations(status string) ([]*model.PendingRegistration, error) {
	query := "SELECT " + registrationColumns + " FROM pending_registrations"
	var args []interface{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY requested_at"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []*model.PendingRegistration
	for rows.Next() {
		r, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, r)
	}
	return regs, rows.Err()
}

// SetRegistrationStatus flips a request from pending to the given
// terminal status. A request that is missing or no longer pending
// yields ErrNotFound.
func (s *Store) SetRegistrationStatus(id int64, status string) error {
	res, err := s.db.Exec(
		"UPDATE pending_registrations SET status = ? WHERE id = ? AND status = ?",
		status, id, model.StatusPending,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
