package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/MichelleAaa/nucampsiteserver/internal/apperror"
	"github.com/MichelleAaa/nucampsiteserver/internal/model"
	"github.com/MichelleAaa/nucampsiteserver/internal/repository"
)

// COMPILE-TIME INTERFACE CHECK:
// `var _ X = (*Y)(nil)` assigns a nil *Y to a variable of interface type X.
// If *Y doesn't implement X, the compiler errors right here instead of at
// some distant call site. Standard practice for interface implementations.
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, username, password_hash, admin, COALESCE(facebook_id, ''), firstname, lastname, created_at, updated_at`

// CreateUser inserts a new user record.
//
// ID GENERATION WITH xid: 20 chars, URL-safe, sortable by creation time
// (they start with a timestamp). The caller's struct is modified in place —
// after CreateUser, user.ID and the timestamps are populated.
//
// A duplicate username violates the UNIQUE constraint; we translate that
// into apperror.Conflict so the signup handler can report "username taken"
// without inspecting driver-specific errors.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	// NULLIF turns the empty string into NULL so the UNIQUE(facebook_id)
	// constraint only bites for genuinely linked accounts.
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, admin, facebook_id, firstname, lastname, created_at, updated_at)
		 VALUES (?, ?, ?, ?, NULLIF(?, ''), ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.Admin,
		user.FacebookID,
		user.FirstName,
		user.LastName,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Username)
		}
		return fmt.Errorf("sqlite: creating user %s: %w", user.Username, err)
	}

	return nil
}

// GetUserByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `id = ?`, id)
}

// GetByUsername retrieves a user by their unique username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getUser(ctx, `username = ?`, username)
}

// GetByFacebookID retrieves the user linked to a Facebook profile ID.
func (db *DB) GetByFacebookID(ctx context.Context, facebookID string) (*model.User, error) {
	return db.getUser(ctx, `facebook_id = ?`, facebookID)
}

// getUser runs the shared single-row lookup for the three Get* variants.
func (db *DB) getUser(ctx context.Context, where string, arg string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+where, arg,
	).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Admin,
		&u.FacebookID,
		&u.FirstName,
		&u.LastName,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		// sql.ErrNoRows is a sentinel, not a real failure — translate it to
		// our domain's NotFound so callers can map it to 404 (or, for auth
		// lookups, fold it into a generic authentication failure).
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", arg)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", arg, err)
	}

	return &u, nil
}

// ListUsers returns every user, oldest first. Admin-only at the route layer.
func (db *DB) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	// Always close rows — a leaked sql.Rows pins a pool connection forever.
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.PasswordHash, &u.Admin, &u.FacebookID,
			&u.FirstName, &u.LastName, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// modernc.org/sqlite surfaces these as plain errors whose text carries the
// SQLite message, so string matching is the practical check.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
