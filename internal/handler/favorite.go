package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MichelleAaa/nucampsiteserver/internal/apperror"
	"github.com/MichelleAaa/nucampsiteserver/internal/auth"
	"github.com/MichelleAaa/nucampsiteserver/internal/service"
)

// FavoriteHandler serves the caller's favorites list. Every route here is
// behind the bearer gate; the user in context scopes all operations.
//
// Two of the responses are fixed plain-text sentences rather than JSON —
// legacy client behavior that survives intact.
type FavoriteHandler struct {
	favorites *service.FavoriteService
	logger    *slog.Logger
}

// NewFavoriteHandler creates a FavoriteHandler.
func NewFavoriteHandler(favorites *service.FavoriteService, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, logger: logger}
}

// favoriteItem is one element of the bulk-POST body: [{"_id": "..."}, ...].
// Clients historically send the campsite reference under _id.
type favoriteItem struct {
	ID string `json:"_id"`
}

// HandleGet returns the caller's favorites with every campsite resolved.
//
// HTTP: GET /favorites
func (h *FavoriteHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("not authenticated"))
		return
	}

	fav, err := h.favorites.Get(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fav)
}

// HandleAddMany merges a batch of campsite ids into the caller's set,
// skipping ids already present.
//
// HTTP: POST /favorites, body [{"_id": "abc"}, {"_id": "def"}]
func (h *FavoriteHandler) HandleAddMany(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("not authenticated"))
		return
	}

	var items []favoriteItem
	if err := decodeJSON(r, &items); err != nil {
		writeError(w, err)
		return
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.ID != "" {
			ids = append(ids, item.ID)
		}
	}

	fav, err := h.favorites.AddMany(r.Context(), user.ID, ids)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fav)
}

// HandleClear empties the caller's set. With nothing to delete the reply
// is the fixed sentence, not an empty document.
//
// HTTP: DELETE /favorites
func (h *FavoriteHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("not authenticated"))
		return
	}

	existed, err := h.favorites.Clear(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !existed {
		writeText(w, http.StatusOK, "You do not have any favorites to delete.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleAddOne set-inserts a single campsite. A duplicate is a 200 with
// the fixed sentence — a success no-op, not a conflict.
//
// HTTP: POST /favorites/{campsiteId}
func (h *FavoriteHandler) HandleAddOne(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("not authenticated"))
		return
	}

	fav, added, err := h.favorites.AddOne(r.Context(), user.ID, chi.URLParam(r, "campsiteId"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !added {
		writeText(w, http.StatusOK, "That campsite is already in the list of favorites!")
		return
	}
	writeJSON(w, http.StatusOK, fav)
}

// HandleRemove deletes a single campsite from the caller's set and returns
// what remains.
//
// HTTP: DELETE /favorites/{campsiteId}
func (h *FavoriteHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("not authenticated"))
		return
	}

	fav, err := h.favorites.Remove(r.Context(), user.ID, chi.URLParam(r, "campsiteId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fav)
}
