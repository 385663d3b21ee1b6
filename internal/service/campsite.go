package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MichelleAaa/nucampsiteserver/internal/apperror"
	"github.com/MichelleAaa/nucampsiteserver/internal/model"
	"github.com/MichelleAaa/nucampsiteserver/internal/repository"
)

// Validation constants. Named (not magic numbers) so error messages and
// tests can reference them.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 5000
	MaxCommentLength     = 2000
	MinRating            = 1
	MaxRating            = 5
)

// notTheAuthor is the fixed rejection for comment edits/deletes by anyone
// but the author — deliberately distinct from a not-found response.
const notTheAuthor = "Unauthorized - User is not the Author of this comment."

// CampsiteInput carries the client-supplied fields for creating a campsite.
type CampsiteInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Elevation   int    `json:"elevation"`
	Cost        int64  `json:"cost"`
	Featured    bool   `json:"featured"`
}

// CampsiteUpdate carries a PARTIAL update: nil means "leave unchanged".
//
// WHY POINTERS?
// JSON can't distinguish "featured":false from an absent field once decoded
// into plain bools. With *bool, an absent field stays nil and the merge
// skips it.
type CampsiteUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Elevation   *int    `json:"elevation"`
	Cost        *int64  `json:"cost"`
	Featured    *bool   `json:"featured"`
}

// CommentInput carries the client-supplied fields for a new comment.
type CommentInput struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

// CommentUpdate carries a partial comment edit (rating and/or text).
type CommentUpdate struct {
	Rating *int    `json:"rating"`
	Text   *string `json:"text"`
}

// CampsiteService handles business logic for campsites and their comments.
type CampsiteService struct {
	repo   repository.CampsiteRepository
	logger *slog.Logger
}

// NewCampsiteService creates a CampsiteService. The caller decides which
// repository implementation to inject (SQLite in production, a mock in tests).
func NewCampsiteService(repo repository.CampsiteRepository, logger *slog.Logger) *CampsiteService {
	return &CampsiteService{repo: repo, logger: logger}
}

// List returns every campsite, comment threads and authors included.
func (s *CampsiteService) List(ctx context.Context) ([]model.Campsite, error) {
	campsites, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("listing campsites failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing campsites: %w", err)
	}
	return campsites, nil
}

// Get returns one campsite by id, or NotFound naming the missing id.
func (s *CampsiteService) Get(ctx context.Context, id string) (*model.Campsite, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, apperror.ValidationFailed("id", "campsite ID is required")
	}
	return s.repo.GetByID(ctx, id)
}

// Create validates and saves a new campsite. Admin-gated at the route layer.
// Required-field checks run up front and map to 400; the store only sees
// records that already passed them.
func (s *CampsiteService) Create(ctx context.Context, in CampsiteInput) (*model.Campsite, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, apperror.ValidationFailed("name", "campsite name is required")
	}
	if len(in.Name) > MaxNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("campsite name must be %d characters or less", MaxNameLength))
	}
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return nil, apperror.ValidationFailed("description", "description is required")
	}
	if len(in.Description) > MaxDescriptionLength {
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}
	if strings.TrimSpace(in.Image) == "" {
		return nil, apperror.ValidationFailed("image", "image is required")
	}
	if in.Cost < 0 {
		return nil, apperror.ValidationFailed("cost", "cost must not be negative")
	}

	campsite := &model.Campsite{
		Name:        in.Name,
		Description: in.Description,
		Image:       strings.TrimSpace(in.Image),
		Elevation:   in.Elevation,
		Cost:        in.Cost,
		Featured:    in.Featured,
	}

	if err := s.repo.Create(ctx, campsite); err != nil {
		s.logger.Error("creating campsite failed",
			slog.String("name", in.Name),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("campsite created",
		slog.String("id", campsite.ID),
		slog.String("name", campsite.Name),
	)

	return campsite, nil
}

// Update applies a partial field merge to an existing campsite and returns
// the updated record. Fetch-then-update: the NotFound comes from the fetch,
// and the caller gets the complete merged record back.
func (s *CampsiteService) Update(ctx context.Context, id string, in CampsiteUpdate) (*model.Campsite, error) {
	campsite, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperror.ValidationFailed("name", "campsite name must not be empty")
		}
		if len(name) > MaxNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("campsite name must be %d characters or less", MaxNameLength))
		}
		campsite.Name = name
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if desc == "" {
			return nil, apperror.ValidationFailed("description", "description must not be empty")
		}
		campsite.Description = desc
	}
	if in.Image != nil {
		campsite.Image = strings.TrimSpace(*in.Image)
	}
	if in.Elevation != nil {
		campsite.Elevation = *in.Elevation
	}
	if in.Cost != nil {
		if *in.Cost < 0 {
			return nil, apperror.ValidationFailed("cost", "cost must not be negative")
		}
		campsite.Cost = *in.Cost
	}
	if in.Featured != nil {
		campsite.Featured = *in.Featured
	}

	if err := s.repo.Update(ctx, campsite); err != nil {
		s.logger.Error("updating campsite failed",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("campsite updated", slog.String("id", campsite.ID))

	return campsite, nil
}

// Delete removes one campsite (comments cascade with it).
func (s *CampsiteService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("campsite deleted", slog.String("id", id))
	return nil
}

// DeleteAll removes every campsite.
func (s *CampsiteService) DeleteAll(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		s.logger.Error("deleting all campsites failed", slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("all campsites deleted")
	return nil
}

// ----------------------------------------------------------------------
// Comments
// ----------------------------------------------------------------------

// ListComments returns a campsite's comment thread (404 if the campsite
// itself is missing).
func (s *CampsiteService) ListComments(ctx context.Context, campsiteID string) ([]model.Comment, error) {
	campsite, err := s.repo.GetByID(ctx, campsiteID)
	if err != nil {
		return nil, err
	}
	return campsite.Comments, nil
}

// GetComment returns one comment, scoped to its campsite.
func (s *CampsiteService) GetComment(ctx context.Context, campsiteID, commentID string) (*model.Comment, error) {
	return s.repo.GetComment(ctx, campsiteID, commentID)
}

// AddComment validates and appends a comment authored by the given user,
// returning the campsite with its refreshed thread — clients render the
// whole updated record, not just the new comment.
func (s *CampsiteService) AddComment(ctx context.Context, campsiteID string, author *model.User, in CommentInput) (*model.Campsite, error) {
	if in.Rating < MinRating || in.Rating > MaxRating {
		return nil, apperror.ValidationFailed("rating",
			fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating))
	}
	in.Text = strings.TrimSpace(in.Text)
	if in.Text == "" {
		return nil, apperror.ValidationFailed("text", "comment text is required")
	}
	if len(in.Text) > MaxCommentLength {
		return nil, apperror.ValidationFailed("text",
			fmt.Sprintf("comment text must be %d characters or less", MaxCommentLength))
	}

	comment := &model.Comment{
		Rating:   in.Rating,
		Text:     in.Text,
		AuthorID: author.ID,
	}
	if err := s.repo.AddComment(ctx, campsiteID, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment added",
		slog.String("campsiteID", campsiteID),
		slog.String("commentID", comment.ID),
		slog.String("authorID", author.ID),
	)

	return s.repo.GetByID(ctx, campsiteID)
}

// UpdateComment applies a partial edit to a comment — by its author only.
// An admin cannot edit someone else's words, only delete them.
func (s *CampsiteService) UpdateComment(ctx context.Context, campsiteID, commentID string, caller *model.User, in CommentUpdate) (*model.Campsite, error) {
	comment, err := s.repo.GetComment(ctx, campsiteID, commentID)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != caller.ID {
		return nil, apperror.Forbidden(notTheAuthor)
	}

	if in.Rating != nil {
		if *in.Rating < MinRating || *in.Rating > MaxRating {
			return nil, apperror.ValidationFailed("rating",
				fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating))
		}
		comment.Rating = *in.Rating
	}
	if in.Text != nil {
		text := strings.TrimSpace(*in.Text)
		if text == "" {
			return nil, apperror.ValidationFailed("text", "comment text must not be empty")
		}
		comment.Text = text
	}

	if err := s.repo.UpdateComment(ctx, campsiteID, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment updated",
		slog.String("campsiteID", campsiteID),
		slog.String("commentID", commentID),
	)

	return s.repo.GetByID(ctx, campsiteID)
}

// DeleteComment removes a comment — by its author, or by an admin.
func (s *CampsiteService) DeleteComment(ctx context.Context, campsiteID, commentID string, caller *model.User) (*model.Campsite, error) {
	comment, err := s.repo.GetComment(ctx, campsiteID, commentID)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != caller.ID && !caller.Admin {
		return nil, apperror.Forbidden(notTheAuthor)
	}

	if err := s.repo.DeleteComment(ctx, campsiteID, commentID); err != nil {
		return nil, err
	}

	s.logger.Info("comment deleted",
		slog.String("campsiteID", campsiteID),
		slog.String("commentID", commentID),
		slog.String("deletedBy", caller.ID),
	)

	return s.repo.GetByID(ctx, campsiteID)
}

// DeleteComments clears a campsite's whole thread (admin moderation).
func (s *CampsiteService) DeleteComments(ctx context.Context, campsiteID string) (*model.Campsite, error) {
	if err := s.repo.DeleteComments(ctx, campsiteID); err != nil {
		return nil, err
	}
	s.logger.Info("comment thread cleared", slog.String("campsiteID", campsiteID))
	return s.repo.GetByID(ctx, campsiteID)
}

// isNotFound reports whether err is (or wraps) the domain's NotFound.
func isNotFound(err error) bool {
	return errors.Is(err, apperror.ErrNotFound)
}
