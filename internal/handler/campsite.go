package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MichelleAaa/nucampsiteserver/internal/apperror"
	"github.com/MichelleAaa/nucampsiteserver/internal/auth"
	"github.com/MichelleAaa/nucampsiteserver/internal/service"
)

// CampsiteHandler serves campsite CRUD and the nested comment routes.
//
// Authentication and admin gates live in the router's middleware stacks;
// by the time a gated handler runs, auth.UserFromContext is guaranteed to
// succeed. Ownership checks (comment author vs. caller) stay in the
// service, because they need the record itself.
type CampsiteHandler struct {
	campsites *service.CampsiteService
	logger    *slog.Logger
}

// NewCampsiteHandler creates a CampsiteHandler.
func NewCampsiteHandler(campsites *service.CampsiteService, logger *slog.Logger) *CampsiteHandler {
	return &CampsiteHandler{campsites: campsites, logger: logger}
}

// HandleList returns all campsites with their comment threads.
//
// HTTP: GET /campsites
func (h *CampsiteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	campsites, err := h.campsites.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campsites)
}

// HandleCreate creates a campsite.
//
// HTTP: POST /campsites (admin)
func (h *CampsiteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.CampsiteInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	campsite, err := h.campsites.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, campsite)
}

// HandleDeleteAll removes every campsite.
//
// HTTP: DELETE /campsites (admin)
func (h *CampsiteHandler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.campsites.DeleteAll(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleGet returns one campsite.
//
// HTTP: GET /campsites/{campsiteId}
func (h *CampsiteHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	campsite, err := h.campsites.Get(r.Context(), chi.URLParam(r, "campsiteId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campsite)
}

// HandleUpdate applies a partial update and returns the merged record.
//
// HTTP: PUT /campsites/{campsiteId} (admin)
func (h *CampsiteHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in service.CampsiteUpdate
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	campsite, err := h.campsites.Update(r.Context(), chi.URLParam(r, "campsiteId"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campsite)
}

// HandleDelete removes one campsite.
//
// HTTP: DELETE /campsites/{campsiteId} (admin)
func (h *CampsiteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.campsites.Delete(r.Context(), chi.URLParam(r, "campsiteId")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ----------------------------------------------------------------------
// Comments
// ----------------------------------------------------------------------

// HandleListComments returns a campsite's comment thread.
//
// HTTP: GET /campsites/{campsiteId}/comments
func (h *CampsiteHandler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.campsites.ListComments(r.Context(), chi.URLParam(r, "campsiteId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// HandleAddComment appends a comment authored by the caller and returns
// the updated campsite.
//
// HTTP: POST /campsites/{campsiteId}/comments (authenticated)
func (h *CampsiteHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("not authenticated"))
		return
	}

	var in service.CommentInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	campsite, err := h.campsites.AddComment(r.Context(), chi.URLParam(r, "campsiteId"), user, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, campsite)
}

// HandleDeleteComments clears a campsite's whole thread.
//
// HTTP: DELETE /campsites/{campsiteId}/comments (admin)
func (h *CampsiteHandler) HandleDeleteComments(w http.ResponseWriter, r *http.Request) {
	campsite, err := h.campsites.DeleteComments(r.Context(), chi.URLParam(r, "campsiteId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campsite)
}

// HandleGetComment returns one comment, scoped to its campsite.
//
// HTTP: GET /campsites/{campsiteId}/comments/{commentId}
func (h *CampsiteHandler) HandleGetComment(w http.ResponseWriter, r *http.Request) {
	comment, err := h.campsites.GetComment(r.Context(),
		chi.URLParam(r, "campsiteId"), chi.URLParam(r, "commentId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// HandleUpdateComment applies a partial edit, author only.
//
// HTTP: PUT /campsites/{campsiteId}/comments/{commentId} (authenticated)
func (h *CampsiteHandler) HandleUpdateComment(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("not authenticated"))
		return
	}

	var in service.CommentUpdate
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	campsite, err := h.campsites.UpdateComment(r.Context(),
		chi.URLParam(r, "campsiteId"), chi.URLParam(r, "commentId"), user, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campsite)
}

// HandleDeleteComment removes a comment, author or admin.
//
// HTTP: DELETE /campsites/{campsiteId}/comments/{commentId} (authenticated)
func (h *CampsiteHandler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("not authenticated"))
		return
	}

	campsite, err := h.campsites.DeleteComment(r.Context(),
		chi.URLParam(r, "campsiteId"), chi.URLParam(r, "commentId"), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campsite)
}
