package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type SessionRepo struct{ DB *sqlx.DB }

func NewSessionRepo(db *sqlx.DB) *SessionRepo { return &SessionRepo{DB: db} }

type SessionRow struct {
	SID       string `db:"sid"`
	Token     string `db:"token"`
	Username  string `db:"username"`
	RolesJSON string `db:"roles_json"`
}

// Get returns the stored session row, or nil when the browser has none.
func (r *SessionRepo) Get(sid string) (*SessionRow, error) {
	var row SessionRow
	err := r.DB.Get(&row, `SELECT sid, token, username, roles_json FROM sessions WHERE sid = ?`, sid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *SessionRepo) Put(sid, token, username, rolesJSON string) error {
	_, err := r.DB.Exec(`
		INSERT INTO sessions(sid, token, username, roles_json, updated_at)
		VALUES(?,?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(sid) DO UPDATE SET
		  token = excluded.token,
		  username = excluded.username,
		  roles_json = excluded.roles_json,
		  updated_at = CURRENT_TIMESTAMP
	`, sid, token, username, rolesJSON)
	return err
}

func (r *SessionRepo) SetUsername(sid, username string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET username = ?, updated_at = CURRENT_TIMESTAMP WHERE sid = ?`, username, sid)
	return err
}

// ClearRoles wipes a corrupted roles slot without touching the token.
func (r *SessionRepo) ClearRoles(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET roles_json = '[]', updated_at = CURRENT_TIMESTAMP WHERE sid = ?`, sid)
	return err
}

func (r *SessionRepo) Delete(sid string) error {
	_, err := r.DB.Exec(`DELETE FROM sessions WHERE sid = ?`, sid)
	return err
}
