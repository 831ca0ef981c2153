package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS comments (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		comment_text TEXT    NOT NULL,
		theme        TEXT    NOT NULL,
		latitude     REAL    NOT NULL,
		longitude    REAL    NOT NULL,
		zip_code     TEXT    NOT NULL,
		upvotes      INTEGER NOT NULL DEFAULT 0 CHECK (upvotes >= 0),
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_zip ON comments(zip_code)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_theme ON comments(theme)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
