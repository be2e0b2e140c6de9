package db

import (
	"database/sql"

	"github.com/VictorFortuna/DailyReport/model"
)

// BlockUser inserts or replaces a block-list entry for an identity.
// Blocking is independent of the registration status.
func (s *Store) BlockUser(telegramID int64, fullName, username, reason string, blockedBy int64) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO blocked_users
		(telegram_id, full_name, username, reason, blocked_by)
		VALUES (?, ?, ?, ?, ?)`,
		telegramID, fullName, username, reason, blockedBy,
	)
	return err
}

// IsBlocked reports whether the identity is on the block list.
func (s *Store) IsBlocked(telegramID int64) (bool, error) {
	var id int64
	err := s.db.QueryRow(
		"SELECT id FROM blocked_users WHERE telegram_id = ?", telegramID,
	).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListBlockedUsers returns the block list, newest first.
func (s *Store) ListBlockedUsers() ([]*model.BlockedUser, error) {
	rows, err := s.db.Query(`SELECT id, telegram_id, COALESCE(full_name, ''),
		COALESCE(username, ''), COALESCE(reason, ''), blocked_at, blocked_by
		FROM blocked_users ORDER BY blocked_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocked []*model.BlockedUser
	for rows.Next() {
		var b model.BlockedUser
		err := rows.Scan(
			&b.ID, &b.TelegramID, &b.FullName, &b.Username,
			&b.Reason, &b.BlockedAt, &b.BlockedBy,
		)
		if err != nil {
			return nil, err
		}
		blocked = append(blocked, &b)
	}
	return blocked, rows.Err()
}
