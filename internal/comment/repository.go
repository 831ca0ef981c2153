package comment

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a comment ID does not exist.
var ErrNotFound = errors.New("comment not found")

// Repository provides data access for comments.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a comment repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const commentColumns = "id, comment_text, theme, latitude, longitude, zip_code, upvotes, created_at"

// Insert stores a new comment and returns the full row with the
// server-assigned id and created_at. Upvotes always start at zero.
func (r *Repository) Insert(n NewComment) (*Comment, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}

	result, err := r.db.Exec(
		"INSERT INTO comments (comment_text, theme, latitude, longitude, zip_code, upvotes) VALUES (?, ?, ?, ?, ?, 0)",
		n.CommentText, string(n.Theme), n.Latitude, n.Longitude, n.ZipCode,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	c, err := r.Get(id)
	if err != nil {
		return nil, fmt.Errorf("reading back comment: %w", err)
	}
	return c, nil
}

// Get returns one comment by ID.
func (r *Repository) Get(id int64) (*Comment, error) {
	var c Comment
	err := r.db.QueryRow(
		"SELECT "+commentColumns+" FROM comments WHERE id = ?", id,
	).Scan(&c.ID, &c.CommentText, &c.Theme, &c.Latitude, &c.Longitude, &c.ZipCode, &c.Upvotes, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comment %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading comment: %w", err)
	}
	return &c, nil
}

// List returns all comments, oldest first.
func (r *Repository) List() ([]*Comment, error) {
	rows, err := r.db.Query("SELECT " + commentColumns + " FROM comments ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var comments []*Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.CommentText, &c.Theme, &c.Latitude, &c.Longitude, &c.ZipCode, &c.Upvotes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comments: %w", err)
	}

	return comments, nil
}

// UpdateUpvotes sets the upvote counter for a comment.
// It fails when the comment does not exist or the value is negative.
func (r *Repository) UpdateUpvotes(id, upvotes int64) error {
	if upvotes < 0 {
		return fmt.Errorf("upvotes must not be negative")
	}

	result, err := r.db.Exec("UPDATE comments SET upvotes = ? WHERE id = ?", upvotes, id)
	if err != nil {
		return fmt.Errorf("updating upvotes: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("comment %d: %w", id, ErrNotFound)
	}

	return nil
}
