package handler

import (
	"log/slog"
	"net/http"

	"github.com/MichelleAaa/nucampsiteserver/internal/apperror"
	"github.com/MichelleAaa/nucampsiteserver/internal/service"
)

// maxUploadBytes caps a single image upload at 10 MB.
const maxUploadBytes = 10 << 20

// UploadHandler accepts multipart image uploads. Admin-gated at the route
// layer.
type UploadHandler struct {
	uploads *service.UploadService
	logger  *slog.Logger
}

// NewUploadHandler creates an UploadHandler.
func NewUploadHandler(uploads *service.UploadService, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{uploads: uploads, logger: logger}
}

// HandleUpload stores an image and echoes its stored metadata.
//
// HTTP: POST /imageUpload (admin)
// REQUEST: multipart/form-data with the file under field "imageFile"
//
// MaxBytesReader wraps the body BEFORE parsing so an oversized upload is
// cut off at the transport, not after it has been buffered.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("imageFile")
	if err != nil {
		writeError(w, apperror.ValidationFailed("imageFile", "a file is required under the imageFile field"))
		return
	}
	defer file.Close()

	stored, err := h.uploads.Save("imageFile", header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stored)
}
