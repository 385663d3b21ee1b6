package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/MichelleAaa/nucampsiteserver/internal/model"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue takes any key. With a plain string key like "user", ANY
// package that knows the string could read or shadow the value. A
// package-private type means only this package can mint the key, so only
// this package controls what lives under it.
type contextKey string

const userKey contextKey = "user"

// UserResolver is the slice of the user store the middleware needs: turn the
// ID inside a verified token back into a full user record. Declared here (at
// the point of use, per Go convention) rather than importing the repository
// package's larger interface.
type UserResolver interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// RequireAuth enforces authentication on protected routes.
//
// THE BEARER GATE, step by step:
//  1. Extract the token from "Authorization: Bearer <token>"
//  2. Verify the signature/expiry and recover the userID
//  3. Resolve the userID against the user store
//  4. Attach the full user record to the request context and continue
//
// Each step short-circuits to 401 — a missing header, a bad signature, an
// expired token, and an unknown user all look the same to the client.
// No session state is consulted; every request re-verifies from scratch.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware takes an http.Handler and returns a new http.Handler that
// wraps it. Chi applies them in a chain: req → M1 → M2 → Handler.
func RequireAuth(tokens *TokenService, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := resolveUser(r, tokens, users)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized,
					"unauthorized", "valid authentication required")
				return
			}

			// Store the user in context so handlers (and RequireAdmin)
			// can read it without another lookup.
			ctx := ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin permits continuation only when the already-authenticated user
// carries the admin flag. It MUST be stacked after RequireAuth — it reads the
// user from the context that RequireAuth populated.
//
// Pure boolean check, no side effects: authenticated non-admins get a fixed
// 403, matching the "not authorized to perform this operation" contract.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			// Only reachable if RequireAdmin was wired without RequireAuth.
			writeAuthError(w, http.StatusUnauthorized,
				"unauthorized", "valid authentication required")
			return
		}

		if !user.Admin {
			writeAuthError(w, http.StatusForbidden,
				"forbidden", "You are not authorized to perform this operation!")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ContextWithUser returns a context carrying the authenticated user, exactly
// as RequireAuth sets it. Exported so handler tests can exercise gated
// handlers without minting tokens.
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext retrieves the authenticated user from the request context.
//
// Returns (nil, false) on routes without RequireAuth, (user, true) after it.
//
// Usage in handlers:
//
//	user, ok := auth.UserFromContext(r.Context())
//	if !ok { ... }
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// resolveUser runs the token-to-user pipeline shared by RequireAuth.
func resolveUser(r *http.Request, tokens *TokenService, users UserResolver) (*model.User, error) {
	token, err := bearerToken(r)
	if err != nil {
		return nil, err
	}

	userID, err := tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	// The token is cryptographically valid — now make sure the identity it
	// names still exists. A token for a vanished user is as good as no token.
	return users.GetUserByID(r.Context(), userID)
}

// bearerToken pulls the token out of "Authorization: Bearer <token>".
// The scheme comparison is case-insensitive per RFC 7235.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", http.ErrNoCookie // sentinel reused: "credential not present"
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", http.ErrNoCookie
	}

	return strings.TrimSpace(token), nil
}

// writeAuthError writes the middleware's fixed JSON error shape. The
// middleware can't reach the handler package's helpers without an import
// cycle, so it formats the same {"error","message"} shape itself.
func writeAuthError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + errType + `","message":"` + message + `"}`))
}
