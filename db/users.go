package db

import (
	"database/sql"
	"strings"

	"github.com/VictorFortuna/DailyReport/model"
)

const userColumns = `id, telegram_id, full_name, COALESCE(username, '') AS username,
	is_admin, is_active, created_at, updated_at`

func scanUser(scanner rowScanner) (*model.User, error) {
	var u model.User
	err := scanner.Scan(
		&u.ID, &u.TelegramID, &u.FullName, &u.Username,
		&u.IsAdmin, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user row and returns it. Duplicate telegram
// ids yield ErrDuplicate.
func (s *Store) CreateUser(telegramID int64, fullName, username string) (*model.User, error) {
	res, err := s.db.Exec(
		"INSERT INTO users(telegram_id, full_name, username) VALUES(?, ?, ?)",
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
	return s.GetUserByID(id)
}

// GetUser retrieves a user by telegram id.
func (s *Store) GetUser(telegramID int64) (*model.User, error) {
	row := s.db.QueryRow(
		"SELECT "+userColumns+" FROM users WHERE telegram_id = ?", telegramID,
	)
	return scanUser(row)
}

// GetUserByID retrieves a user by internal id.
func (s *Store) GetUserByID(id int64) (*model.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

// GetAllUsers returns every user, ordered by name. With activeOnly set,
// deactivated users are excluded.
func (s *Store) GetAllUsers(activeOnly bool) ([]*model.User, error) {
	query := "SELECT " + userColumns + " FROM users"
	if activeOnly {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY full_name"

	rows, err := s.db.Query(query)
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

// UpdateUser applies the non-nil fields of patch to the user with the
// given telegram id.
func (s *Store) UpdateUser(telegramID int64, patch model.UserPatch) error {
	var (
		sets []string
		args []interface{}
	)
	if patch.FullName != nil {
		sets = append(sets, "full_name = ?")
		args = append(args, *patch.FullName)
	}
	if patch.Username != nil {
		sets = append(sets, "username = ?")
		args = append(args, *patch.Username)
	}
	if patch.IsAdmin != nil {
		sets = append(sets, "is_admin = ?")
		args = append(args, *patch.IsAdmin)
	}
	if patch.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *patch.IsActive)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, telegramID)

	res, err := s.db.Exec(
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE telegram_id = ?",
		args...,
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

// DeleteUser removes a user; the foreign key cascades to its reports.
func (s *Store) DeleteUser(telegramID int64) error {
	res, err := s.db.Exec("DELETE FROM users WHERE telegram_id = ?", telegramID)
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
