package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MichelleAaa/nucampsiteserver/internal/handler"
	"github.com/MichelleAaa/nucampsiteserver/internal/service"
)

// multipartBody builds a multipart form with one file under fieldName.
func multipartBody(t *testing.T, fieldName, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(fieldName, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func newUploadHandler(t *testing.T) *handler.UploadHandler {
	t.Helper()
	svc, err := service.NewUploadService(t.TempDir(), testLogger())
	require.NoError(t, err)
	return handler.NewUploadHandler(svc, testLogger())
}

func TestUploadHandler(t *testing.T) {
	t.Run("jpg accepted with metadata echo", func(t *testing.T) {
		h := newUploadHandler(t)

		body, contentType := multipartBody(t, "imageFile", "photo.jpg", "fake image bytes")
		req := httptest.NewRequest(http.MethodPost, "/imageUpload", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		h.HandleUpload(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var stored service.StoredFile
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&stored))
		assert.Equal(t, "imageFile", stored.FieldName)
		assert.Equal(t, "photo.jpg", stored.OriginalName)
		assert.NotEmpty(t, stored.Filename)
		assert.Equal(t, int64(len("fake image bytes")), stored.Size)
	})

	t.Run("txt rejected", func(t *testing.T) {
		h := newUploadHandler(t)

		body, contentType := multipartBody(t, "imageFile", "photo.txt", "not an image")
		req := httptest.NewRequest(http.MethodPost, "/imageUpload", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		h.HandleUpload(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var res handler.ErrorResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, "You can upload only image files!", res.Message)
	})

	t.Run("wrong field name", func(t *testing.T) {
		h := newUploadHandler(t)

		body, contentType := multipartBody(t, "somethingElse", "photo.jpg", "x")
		req := httptest.NewRequest(http.MethodPost, "/imageUpload", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		h.HandleUpload(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("no multipart body", func(t *testing.T) {
		h := newUploadHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/imageUpload", nil)
		rr := httptest.NewRecorder()

		h.HandleUpload(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
