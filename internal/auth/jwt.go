// Package auth provides JWT tokens, password hashing, the Facebook token
// bridge, and the HTTP middleware that gates protected routes.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. A user signs up (POST /users/signup) or logs in (POST /users/login)
//    with a username and password, or trades a Facebook access token
//    (GET /users/facebook/token) for a local identity.
// 2. On success the server issues a JWT embedding the user's ID, valid for
//    one hour. The client stores it and sends it back on every protected
//    request as "Authorization: Bearer <token>".
// 3. RequireAuth validates the token, looks the user up in the database, and
//    places the full user record in the request context.
// 4. RequireAdmin (stacked after RequireAuth on admin routes) checks the
//    user's admin flag.
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server stores no session data.
// Everything needed (userID, expiry) is inside the signed token, and the
// signature ensures nobody can tamper with it without the secret key.
// The trade-off: there is no revocation. Logout is purely client-side and a
// token stays valid until its expiry passes; expiry forces a re-login.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued token stays valid. One hour: long enough
// for a browsing session, short enough that a leaked token goes stale fast.
// There is no refresh mechanism — after expiry the user logs in again.
const TokenTTL = time.Hour

const issuer = "nucampsiteserver"

// TokenService signs and verifies the bearer tokens used on protected routes.
//
// It holds the HMAC secret used for both operations. The same secret must be
// used to sign and to verify — keep it out of version control and rotate it
// periodically in production.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. It embeds jwt.RegisteredClaims, which carries
// the standard fields (Issuer, Subject, ExpiresAt, IssuedAt).
//
// The user's ID travels in "sub" (Subject) — the standard claim for
// identifying who a token belongs to. Nothing else goes in the payload:
// admin status is looked up fresh on every request, so promoting or demoting
// a user takes effect immediately rather than when their token expires.
type claims struct {
	jwt.RegisteredClaims
}

// Issue creates and signs a new bearer token for the given userID,
// expiring TokenTTL (one hour) from now.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, fast, and fine for a
// single-server deployment where signer and verifier share one secret.
func (s *TokenService) Issue(userID string) (string, error) {
	return s.IssueWithDuration(userID, TokenTTL)
}

// IssueWithDuration creates a token with a custom expiry duration.
// Used by tests to mint already-expired tokens.
func (s *TokenService) IssueWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	// jwt.NewWithClaims creates an unsigned token with the given algorithm.
	// SignedString(key) signs it and returns the complete JWT string.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and checks a JWT string, returning the userID from the
// "sub" claim when the token is valid.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (token wasn't tampered with)
//   - Token is not expired
//   - Issuer matches ours (rejects tokens minted by other apps)
//   - Algorithm is HS256
//
// ALGORITHM CONFUSION ATTACK:
// Without pinning the algorithm, an attacker could present a token signed
// with "none" and some libraries would accept it. jwt.WithValidMethods
// closes that hole.
func (s *TokenService) Verify(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		// Translate jwt library errors into cleaner messages
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
