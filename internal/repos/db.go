package repos

import (
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// OpenDB opens the local session store. Everything else lives behind the
// remote commerce API; the storefront only persists login state per browser.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
-- Sessions: one row per browser; token/username/roles are the three
-- persisted slots of the storefront.
CREATE TABLE IF NOT EXISTS sessions(
  sid        TEXT PRIMARY KEY,
  token      TEXT NOT NULL,
  username   TEXT NOT NULL DEFAULT '',
  roles_json TEXT NOT NULL DEFAULT '[]',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
`
	_, err := db.Exec(schema)
	return err
}
