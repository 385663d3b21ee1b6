package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/MichelleAaa/nucampsiteserver/internal/apperror"
	"github.com/MichelleAaa/nucampsiteserver/internal/model"
	"github.com/MichelleAaa/nucampsiteserver/internal/repository"
)

// compile-time check that *DB implements repository.CampsiteRepository
var _ repository.CampsiteRepository = (*DB)(nil)

// Create inserts a new campsite. The caller's struct is modified in place:
// ID and timestamps are populated on return.
//
// Campsite names are UNIQUE; a duplicate becomes apperror.Conflict rather
// than leaking a driver error up to the handler.
func (db *DB) Create(ctx context.Context, campsite *model.Campsite) error {
	campsite.ID = xid.New().String()
	now := time.Now()
	campsite.CreatedAt = now
	campsite.UpdatedAt = now
	if campsite.Comments == nil {
		campsite.Comments = []model.Comment{}
	}

	// PARAMETERIZED QUERIES (the ? placeholders): never build SQL with
	// string concatenation — the driver escapes values, which is what stops
	// SQL injection.
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO campsites (id, name, description, image, elevation, cost, featured, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		campsite.ID,
		campsite.Name,
		campsite.Description,
		campsite.Image,
		campsite.Elevation,
		campsite.Cost,
		campsite.Featured,
		campsite.CreatedAt,
		campsite.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("campsite", campsite.Name)
		}
		return fmt.Errorf("sqlite: creating campsite: %w", err)
	}

	return nil
}

// GetByID retrieves a single campsite with its full comment thread, each
// comment's author reference resolved.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Campsite, error) {
	var c model.Campsite

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, description, image, elevation, cost, featured, created_at, updated_at
		 FROM campsites WHERE id = ?`,
		id,
	).Scan(
		&c.ID, &c.Name, &c.Description, &c.Image,
		&c.Elevation, &c.Cost, &c.Featured, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("campsite", id)
		}
		return nil, fmt.Errorf("sqlite: getting campsite %s: %w", id, err)
	}

	comments, err := db.commentsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Comments = comments

	return &c, nil
}

// List retrieves every campsite with comments and authors resolved.
//
// Two queries total (campsites, then all comments joined to authors) rather
// than one per campsite — the classic N+1 avoidance.
func (db *DB) List(ctx context.Context) ([]model.Campsite, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, description, image, elevation, cost, featured, created_at, updated_at
		 FROM campsites ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing campsites: %w", err)
	}
	defer rows.Close()

	campsites := []model.Campsite{}
	index := map[string]int{} // campsite ID → position in the slice
	for rows.Next() {
		var c model.Campsite
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.Image,
			&c.Elevation, &c.Cost, &c.Featured, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning campsite row: %w", err)
		}
		c.Comments = []model.Comment{}
		index[c.ID] = len(campsites)
		campsites = append(campsites, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating campsites: %w", err)
	}

	if len(campsites) == 0 {
		return campsites, nil
	}

	// Fan the comments out to their parents.
	crows, err := db.conn.QueryContext(ctx, commentSelect+` ORDER BY c.created_at`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments: %w", err)
	}
	defer crows.Close()

	for crows.Next() {
		var campsiteID string
		comment, err := scanComment(crows, &campsiteID)
		if err != nil {
			return nil, err
		}
		if i, ok := index[campsiteID]; ok {
			campsites[i].Comments = append(campsites[i].Comments, *comment)
		}
	}
	if err := crows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}

	return campsites, nil
}

// Update persists modified campsite fields. The service layer does the
// fetch-and-merge; this writes the result back.
//
// RowsAffected() == 0 means the WHERE matched nothing → NotFound. One query
// instead of SELECT-then-UPDATE.
func (db *DB) Update(ctx context.Context, campsite *model.Campsite) error {
	campsite.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE campsites
		 SET name = ?, description = ?, image = ?, elevation = ?, cost = ?, featured = ?, updated_at = ?
		 WHERE id = ?`,
		campsite.Name,
		campsite.Description,
		campsite.Image,
		campsite.Elevation,
		campsite.Cost,
		campsite.Featured,
		campsite.UpdatedAt,
		campsite.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("campsite", campsite.Name)
		}
		return fmt.Errorf("sqlite: updating campsite %s: %w", campsite.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("campsite", campsite.ID)
	}

	return nil
}

// Delete removes a campsite. Its comments and favorites rows go with it via
// ON DELETE CASCADE.
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM campsites WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting campsite %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("campsite", id)
	}

	return nil
}

// DeleteAll removes every campsite (admin-only at the route layer).
// Deleting zero campsites is still success — there's just nothing to do.
func (db *DB) DeleteAll(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM campsites`); err != nil {
		return fmt.Errorf("sqlite: deleting all campsites: %w", err)
	}
	return nil
}

// ----------------------------------------------------------------------
// Comments
// ----------------------------------------------------------------------

// commentSelect joins each comment to its author for display. LEFT JOIN, not
// INNER: the author reference is weak, and a comment whose author row is
// missing must still come back (with a nil Author), not silently disappear.
const commentSelect = `
	SELECT c.id, c.campsite_id, c.author_id, c.rating, c.text, c.created_at, c.updated_at,
	       u.id, u.username, u.firstname, u.lastname
	FROM comments c
	LEFT JOIN users u ON u.id = c.author_id`

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanComment reads one joined comment row. campsiteID receives the parent
// ID (used by List to fan comments out); pass a throwaway when unneeded.
func scanComment(s scanner, campsiteID *string) (*model.Comment, error) {
	var c model.Comment
	// The author columns come from the LEFT JOIN side, so they're NULL when
	// the reference doesn't resolve — hence the sql.Null* temporaries.
	var authorID, username, firstname, lastname sql.NullString

	err := s.Scan(
		&c.ID, campsiteID, &c.AuthorID, &c.Rating, &c.Text, &c.CreatedAt, &c.UpdatedAt,
		&authorID, &username, &firstname, &lastname,
	)
	if err != nil {
		return nil, err
	}

	if authorID.Valid {
		c.Author = &model.Author{
			ID:        authorID.String,
			Username:  username.String,
			FirstName: firstname.String,
			LastName:  lastname.String,
		}
	}

	return &c, nil
}

// commentsFor returns the resolved comment thread for one campsite.
func (db *DB) commentsFor(ctx context.Context, campsiteID string) ([]model.Comment, error) {
	rows, err := db.conn.QueryContext(ctx,
		commentSelect+` WHERE c.campsite_id = ? ORDER BY c.created_at`, campsiteID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments for campsite %s: %w", campsiteID, err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var parent string
		comment, err := scanComment(rows, &parent)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments = append(comments, *comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}

	return comments, nil
}

// AddComment appends a comment to a campsite's thread. The campsite must
// exist — checked up front so the caller gets a 404 naming the campsite
// rather than a foreign-key failure.
func (db *DB) AddComment(ctx context.Context, campsiteID string, comment *model.Comment) error {
	if err := db.campsiteExists(ctx, campsiteID); err != nil {
		return err
	}

	comment.ID = xid.New().String()
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO comments (id, campsite_id, author_id, rating, text, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		comment.ID,
		campsiteID,
		comment.AuthorID,
		comment.Rating,
		comment.Text,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: adding comment to campsite %s: %w", campsiteID, err)
	}

	return nil
}

// GetComment retrieves one comment, author resolved. The campsite scoping
// matters: asking for a real comment under the wrong campsite is NotFound.
func (db *DB) GetComment(ctx context.Context, campsiteID, commentID string) (*model.Comment, error) {
	if err := db.campsiteExists(ctx, campsiteID); err != nil {
		return nil, err
	}

	var parent string
	comment, err := scanComment(db.conn.QueryRowContext(ctx,
		commentSelect+` WHERE c.campsite_id = ? AND c.id = ?`, campsiteID, commentID,
	), &parent)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("comment", commentID)
		}
		return nil, fmt.Errorf("sqlite: getting comment %s: %w", commentID, err)
	}

	return comment, nil
}

// UpdateComment persists a comment's rating and text. The author reference
// and parent are immutable; ownership is the service layer's concern.
func (db *DB) UpdateComment(ctx context.Context, campsiteID string, comment *model.Comment) error {
	comment.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE comments SET rating = ?, text = ?, updated_at = ?
		 WHERE id = ? AND campsite_id = ?`,
		comment.Rating,
		comment.Text,
		comment.UpdatedAt,
		comment.ID,
		campsiteID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating comment %s: %w", comment.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("comment", comment.ID)
	}

	return nil
}

// DeleteComment removes one comment from a campsite's thread.
func (db *DB) DeleteComment(ctx context.Context, campsiteID, commentID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM comments WHERE id = ? AND campsite_id = ?`, commentID, campsiteID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting comment %s: %w", commentID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("comment", commentID)
	}

	return nil
}

// DeleteComments clears a campsite's entire thread (admin moderation). The
// campsite must exist; clearing an already-empty thread is success.
func (db *DB) DeleteComments(ctx context.Context, campsiteID string) error {
	if err := db.campsiteExists(ctx, campsiteID); err != nil {
		return err
	}

	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM comments WHERE campsite_id = ?`, campsiteID); err != nil {
		return fmt.Errorf("sqlite: deleting comments for campsite %s: %w", campsiteID, err)
	}

	return nil
}

// campsiteExists returns NotFound (naming the id) when the campsite is
// missing — the precondition shared by all comment operations.
func (db *DB) campsiteExists(ctx context.Context, id string) error {
	var one int
	err := db.conn.QueryRowContext(ctx,
		`SELECT 1 FROM campsites WHERE id = ?`, id).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperror.NotFound("campsite", id)
		}
		return fmt.Errorf("sqlite: checking campsite %s: %w", id, err)
	}
	return nil
}
