// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Handlers only know HTTP. Services only know business rules. Repositories
// only know SQL. Each service takes repository INTERFACES, not concrete
// types, so tests can substitute in-memory mocks and the storage backend
// can change without touching business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MichelleAaa/nucampsiteserver/internal/apperror"
	"github.com/MichelleAaa/nucampsiteserver/internal/auth"
	"github.com/MichelleAaa/nucampsiteserver/internal/model"
	"github.com/MichelleAaa/nucampsiteserver/internal/repository"
)

// FacebookVerifier validates a client-supplied Facebook access token and
// returns the profile behind it. Satisfied by *auth.FacebookProvider;
// declared as an interface here so tests can stub the Graph API away.
type FacebookVerifier interface {
	Profile(ctx context.Context, accessToken string) (*auth.FacebookUser, error)
}

// AuthService handles signup, login, and the Facebook token exchange.
//
// All three paths end the same way: a user record and a freshly issued
// bearer token. Each path is a plain sequence of fallible steps, every
// step short-circuiting with a typed error.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	facebook  FacebookVerifier
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// facebook may be nil when no Facebook app is configured — the facebook
// login path then fails cleanly instead of at startup.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	facebook FacebookVerifier,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		facebook:  facebook,
		logger:    logger,
	}
}

// AuthResult bundles the authenticated user with the issued token so the
// handler can build the {success, token, status} envelope in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Signup registers a new local user and logs them straight in.
//
// Pipeline: validate → hash password → insert → issue token. A duplicate
// username surfaces as apperror.Conflict from the repository; everything
// else that can fail fails before any row is written.
func (s *AuthService) Signup(ctx context.Context, username, password, firstname, lastname string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(firstname),
		LastName:     strings.TrimSpace(lastname),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", slog.String("userID", user.ID), slog.String("username", user.Username))

	return s.issueFor(user)
}

// Login authenticates local credentials.
//
// NO DETAIL LEAKED:
// A missing user and a wrong password return the SAME generic error. If the
// messages differed (or one path returned faster in a measurable way), an
// attacker could probe which usernames exist. bcrypt's compare is the slow
// part and only runs when the user exists, which is an accepted trade-off —
// the error itself stays indistinguishable.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.Unauthorized("not authenticated")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("not authenticated")
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return s.issueFor(user)
}

// LoginFacebook trades a Facebook access token for a local identity.
//
// Pipeline: verify the token with the Graph API → look up by profile ID →
// create the user on first sight → issue a token. Any failure along the
// way — token rejected, lookup error, insert error — is an authentication
// failure to the caller, with no retry.
//
// On first sight the username is the Facebook display name, first/last
// names come from the profile, and no password hash is set (the account
// can only ever log in via Facebook).
func (s *AuthService) LoginFacebook(ctx context.Context, accessToken string) (*AuthResult, error) {
	if s.facebook == nil {
		return nil, apperror.Unauthorized("facebook login is not configured")
	}

	fbUser, err := s.facebook.Profile(ctx, accessToken)
	if err != nil {
		s.logger.Warn("facebook token rejected", slog.String("error", err.Error()))
		return nil, apperror.Unauthorized("not authenticated")
	}

	user, err := s.users.GetByFacebookID(ctx, fbUser.ID)
	switch {
	case err == nil:
		// Known account — authenticated.
	case isNotFound(err):
		user = &model.User{
			Username:   fbUser.Name,
			FacebookID: fbUser.ID,
			FirstName:  fbUser.FirstName,
			LastName:   fbUser.LastName,
		}
		if err := s.users.CreateUser(ctx, user); err != nil {
			s.logger.Error("creating facebook user failed",
				slog.String("facebookID", fbUser.ID),
				slog.String("error", err.Error()),
			)
			return nil, apperror.Unauthorized("not authenticated")
		}
		s.logger.Info("user created via facebook",
			slog.String("userID", user.ID),
			slog.String("facebookID", fbUser.ID),
		)
	default:
		return nil, apperror.Unauthorized("not authenticated")
	}

	return s.issueFor(user)
}

// ListUsers returns every registered user. The admin gate lives at the
// route layer; password hashes never serialize (json:"-").
func (s *AuthService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		s.logger.Error("listing users failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// issueFor mints the bearer token that completes every auth path.
func (s *AuthService) issueFor(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for user %s: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
