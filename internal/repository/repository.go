// Package repository declares the storage interfaces the service layer
// programs against. The sqlite subpackage provides the concrete
// implementation; tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/MichelleAaa/nucampsiteserver/internal/model"
)

// UserRepository stores credential records.
//
// There is deliberately no Delete: no API route removes users, which is also
// why comment author references can stay weak (see CampsiteRepository).
//
// The method names carry the User suffix/infix because one concrete store
// implements this interface alongside CampsiteRepository — Create and
// CreateUser must be distinct methods on the same receiver.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByFacebookID(ctx context.Context, facebookID string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

// CampsiteRepository stores campsites and their embedded comment threads.
//
// Reads resolve each comment's author reference into a public Author view.
// The reference is weak: a comment whose author row is missing comes back
// with a nil Author rather than an error.
type CampsiteRepository interface {
	Create(ctx context.Context, campsite *model.Campsite) error
	GetByID(ctx context.Context, id string) (*model.Campsite, error)
	List(ctx context.Context) ([]model.Campsite, error)
	Update(ctx context.Context, campsite *model.Campsite) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error

	AddComment(ctx context.Context, campsiteID string, comment *model.Comment) error
	GetComment(ctx context.Context, campsiteID, commentID string) (*model.Comment, error)
	UpdateComment(ctx context.Context, campsiteID string, comment *model.Comment) error
	DeleteComment(ctx context.Context, campsiteID, commentID string) error
	DeleteComments(ctx context.Context, campsiteID string) error
}

// FavoriteRepository stores each user's set of favorited campsites.
//
// Add reports whether the campsite was newly inserted (false = it was
// already in the set — a logical no-op, not an error). Clear reports whether
// anything existed to clear, so the handler can answer with the
// "you do not have any favorites to delete" text.
type FavoriteRepository interface {
	Get(ctx context.Context, userID string) (*model.Favorite, error)
	Add(ctx context.Context, userID, campsiteID string) (added bool, err error)
	Remove(ctx context.Context, userID, campsiteID string) error
	Clear(ctx context.Context, userID string) (existed bool, err error)
}
