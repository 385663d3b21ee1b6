package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/MichelleAaa/nucampsiteserver/internal/apperror"
)

func TestFavoriteAdd_ThenGet(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "camper1", false)
	campsite := createTestCampsite(t, db, "Site One")

	added, err := db.Add(context.Background(), user.ID, campsite.ID)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if !added {
		t.Error("Add() = false for a first insert, want true")
	}

	fav, err := db.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(fav.Campsites) != 1 || fav.Campsites[0].ID != campsite.ID {
		t.Errorf("Get() campsites = %+v, want the favorited site resolved", fav.Campsites)
	}
}

func TestFavoriteAdd_DuplicateIsNoOp(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "camper1", false)
	campsite := createTestCampsite(t, db, "Site One")

	db.Add(context.Background(), user.ID, campsite.ID)

	// Second insert of the same id: logical success, set unchanged
	added, err := db.Add(context.Background(), user.ID, campsite.ID)
	if err != nil {
		t.Fatalf("Add() duplicate error = %v, want success no-op", err)
	}
	if added {
		t.Error("Add() = true for a duplicate, want false")
	}

	fav, _ := db.Get(context.Background(), user.ID)
	if len(fav.Campsites) != 1 {
		t.Errorf("set contains %d entries after duplicate add, want exactly 1", len(fav.Campsites))
	}
}

func TestFavoriteAdd_MissingCampsite(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "camper1", false)

	_, err := db.Add(context.Background(), user.ID, "no-such-campsite")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Add() error = %v, want ErrNotFound for a missing campsite", err)
	}
}

func TestFavoriteGet_EmptySet(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "camper1", false)

	// No favorites yet — an empty set, not an error
	fav, err := db.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(fav.Campsites) != 0 {
		t.Errorf("Get() returned %d campsites for a fresh user, want 0", len(fav.Campsites))
	}
}

func TestFavoriteRemove(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "camper1", false)
	campsite := createTestCampsite(t, db, "Site One")
	db.Add(context.Background(), user.ID, campsite.ID)

	if err := db.Remove(context.Background(), user.ID, campsite.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := db.Remove(context.Background(), user.ID, campsite.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second Remove() error = %v, want ErrNotFound", err)
	}
}

func TestFavoriteClear(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "camper1", false)
	site1 := createTestCampsite(t, db, "Site One")
	site2 := createTestCampsite(t, db, "Site Two")
	db.Add(context.Background(), user.ID, site1.ID)
	db.Add(context.Background(), user.ID, site2.ID)

	existed, err := db.Clear(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if !existed {
		t.Error("Clear() = false with favorites present, want true")
	}

	// Clearing again: nothing existed
	existed, err = db.Clear(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("second Clear() error = %v", err)
	}
	if existed {
		t.Error("Clear() = true on an empty set, want false")
	}
}

func TestFavoritesAreScopedPerUser(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", false)
	campsite := createTestCampsite(t, db, "Site One")

	db.Add(context.Background(), alice.ID, campsite.ID)

	bobFav, _ := db.Get(context.Background(), bob.ID)
	if len(bobFav.Campsites) != 0 {
		t.Error("bob sees alice's favorites")
	}
}
