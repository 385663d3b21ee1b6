package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/MichelleAaa/nucampsiteserver/internal/service"
)

// UserHandler serves signup, login, logout, the Facebook token exchange,
// and the admin-only user listing.
type UserHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(auth *service.AuthService, logger *slog.Logger) *UserHandler {
	return &UserHandler{auth: auth, logger: logger}
}

// authEnvelope is the response shape every successful auth path returns.
// Clients check success, store token, and show status.
type authEnvelope struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Status  string `json:"status"`
}

// signupRequest is the POST /users/signup body. firstname and lastname
// are optional profile fields.
type signupRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// loginRequest is the POST /users/login body.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleSignup registers a new local account and logs it straight in.
//
// HTTP: POST /users/signup
func (h *UserHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.Signup(r.Context(), req.Username, req.Password, req.FirstName, req.LastName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authEnvelope{
		Success: true,
		Token:   result.Token,
		Status:  "Registration Successful!",
	})
}

// HandleLogin authenticates local credentials and issues a bearer token.
//
// HTTP: POST /users/login
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authEnvelope{
		Success: true,
		Token:   result.Token,
		Status:  "You are successfully logged in!",
	})
}

// HandleLogout acknowledges a logout.
//
// HTTP: GET /users/logout
//
// Bearer tokens are stateless: there is no server-side session to destroy
// and no revocation list, so "logging out" means the client discards its
// token. The endpoint exists so clients have something to call; the token
// stays valid until it expires.
func (h *UserHandler) HandleLogout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, authEnvelope{
		Success: true,
		Status:  "You are logged out!",
	})
}

// HandleFacebookToken exchanges a client-obtained Facebook access token for
// a local bearer token, creating the account on first sight.
//
// HTTP: GET /users/facebook/token
//
// The access token arrives as a Bearer Authorization header or an
// access_token query parameter; existing clients send both forms.
func (h *UserHandler) HandleFacebookToken(w http.ResponseWriter, r *http.Request) {
	accessToken := facebookAccessToken(r)
	result, err := h.auth.LoginFacebook(r.Context(), accessToken)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authEnvelope{
		Success: true,
		Token:   result.Token,
		Status:  "You are successfully logged in!",
	})
}

// HandleList returns every registered user. Admin-gated at the route layer;
// password hashes and facebook ids never serialize.
//
// HTTP: GET /users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// facebookAccessToken pulls the Facebook token from the request. This is
// the CLIENT'S Facebook token, not one of ours — it never reaches the
// bearer-gate middleware.
func facebookAccessToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return r.URL.Query().Get("access_token")
}
