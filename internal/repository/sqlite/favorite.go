package sqlite

import (
	"context"
	"fmt"

	"github.com/MichelleAaa/nucampsiteserver/internal/apperror"
	"github.com/MichelleAaa/nucampsiteserver/internal/model"
	"github.com/MichelleAaa/nucampsiteserver/internal/repository"
)

// compile-time check that *DB implements repository.FavoriteRepository
var _ repository.FavoriteRepository = (*DB)(nil)

// Get returns the user's favorite set with each campsite reference resolved
// into a full record (comments included, matching what GET /campsites
// returns for the same sites). A user with no favorites gets an empty set,
// not an error — the "record" springs into existence on first Add.
func (db *DB) Get(ctx context.Context, userID string) (*model.Favorite, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT campsite_id FROM favorites WHERE user_id = ? ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing favorites for user %s: %w", userID, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: scanning favorite row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating favorites: %w", err)
	}

	fav := &model.Favorite{UserID: userID, Campsites: []model.Campsite{}}
	for _, id := range ids {
		campsite, err := db.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("sqlite: resolving favorite campsite %s: %w", id, err)
		}
		fav.Campsites = append(fav.Campsites, *campsite)
	}

	return fav, nil
}

// Add inserts a campsite into the user's favorite set.
//
// SET-INSERT SEMANTICS:
// INSERT OR IGNORE leans on the (user_id, campsite_id) primary key: a
// duplicate insert is swallowed by SQLite itself instead of racing a
// SELECT-then-INSERT pair across concurrent requests. RowsAffected tells us
// which case we hit — 1 means newly added, 0 means it was already there —
// so the handler can answer "already in the list of favorites!".
//
// The campsite must exist; favoriting a missing id is a 404, not a silent
// dangling reference.
func (db *DB) Add(ctx context.Context, userID, campsiteID string) (bool, error) {
	if err := db.campsiteExists(ctx, campsiteID); err != nil {
		return false, err
	}

	result, err := db.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO favorites (user_id, campsite_id) VALUES (?, ?)`,
		userID, campsiteID)
	if err != nil {
		return false, fmt.Errorf("sqlite: adding favorite %s for user %s: %w", campsiteID, userID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// Remove deletes one campsite from the user's favorite set.
// Removing something that isn't in the set is NotFound.
func (db *DB) Remove(ctx context.Context, userID, campsiteID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND campsite_id = ?`,
		userID, campsiteID)
	if err != nil {
		return fmt.Errorf("sqlite: removing favorite %s for user %s: %w", campsiteID, userID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("favorite", campsiteID)
	}

	return nil
}

// Clear deletes the user's whole favorite set. existed reports whether
// there was anything to delete, so the handler can answer with the
// no-favorites text instead of an empty record.
func (db *DB) Clear(ctx context.Context, userID string) (bool, error) {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ?`, userID)
	if err != nil {
		return false, fmt.Errorf("sqlite: clearing favorites for user %s: %w", userID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
