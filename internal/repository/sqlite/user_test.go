package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/MichelleAaa/nucampsiteserver/internal/apperror"
	"github.com/MichelleAaa/nucampsiteserver/internal/model"
)

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Username:     "camper1",
		PasswordHash: "$2a$04$somehash",
		FirstName:    "Jane",
		LastName:     "Camper",
	}

	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	// Verify the struct was modified in-place (pointer receiver)
	if user.ID == "" {
		t.Error("CreateUser() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("CreateUser() did not set user.CreatedAt")
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "camper1", false)

	dup := &model.User{Username: "camper1", PasswordHash: "$2a$04$otherhash"}
	err := db.CreateUser(context.Background(), dup)
	if err == nil {
		t.Fatal("CreateUser() should reject a duplicate username")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("CreateUser() error = %v, want ErrConflict", err)
	}
}

func TestCreateUser_MultipleUsersWithoutFacebookID(t *testing.T) {
	db := newTestDB(t)

	// facebook_id is UNIQUE but stored as NULL when empty — two local-only
	// users must not collide on the constraint.
	createTestUser(t, db, "camper1", false)
	createTestUser(t, db, "camper2", false)
}

// =========================================================================
// LOOKUP TESTS
// =========================================================================

func TestGetUserByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "camper1", true)

	got, err := db.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if got.Username != "camper1" {
		t.Errorf("Username = %q, want %q", got.Username, "camper1")
	}
	if !got.Admin {
		t.Error("Admin flag was not persisted")
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), "no-such-user")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID() error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByUsername(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "camper1", false)

	got, err := db.GetByUsername(context.Background(), "camper1")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID = %q, want %q", got.ID, created.ID)
	}
}

func TestUserGetByFacebookID(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{Username: "Jane Camper", FacebookID: "10158000000000001"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	got, err := db.GetByFacebookID(context.Background(), "10158000000000001")
	if err != nil {
		t.Fatalf("GetByFacebookID() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ID = %q, want %q", got.ID, user.ID)
	}

	// An unlinked Facebook ID is NotFound — the auth service uses this
	// signal to create the user on first sight.
	if _, err := db.GetByFacebookID(context.Background(), "999"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByFacebookID(unknown) error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// LIST TESTS
// =========================================================================

func TestListUsers(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "camper1", false)
	createTestUser(t, db, "camper2", true)

	users, err := db.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("ListUsers() returned %d users, want 2", len(users))
	}
}

// One *DB backs the user, campsite, and favorite repositories at once, so
// the user methods carry distinct names. Exercise both Create variants on
// the same connection.
func TestSharedStoreServesUsersAndCampsites(t *testing.T) {
	db := newTestDB(t)

	user := createTestUser(t, db, "camper1", false)
	campsite := createTestCampsite(t, db, "React Lake")

	if _, err := db.GetUserByID(context.Background(), user.ID); err != nil {
		t.Errorf("GetUserByID() error = %v", err)
	}
	if _, err := db.GetByID(context.Background(), campsite.ID); err != nil {
		t.Errorf("GetByID() error = %v", err)
	}
}
