package service

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"github.com/rs/xid"

	"github.com/MichelleAaa/nucampsiteserver/internal/apperror"
)

// imageExtensions is the allow-list for uploads. Matching is on the file
// EXTENSION of the client-supplied name, case-insensitively; content
// sniffing is deliberately out of scope.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// StoredFile echoes the metadata of a saved upload back to the client,
// in the file-object shape existing clients parse.
type StoredFile struct {
	FieldName    string `json:"fieldname"`
	OriginalName string `json:"originalname"`
	Filename     string `json:"filename"`
	Destination  string `json:"destination"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
}

// UploadService stores image files on local disk.
type UploadService struct {
	dir    string
	logger *slog.Logger
}

// NewUploadService creates an UploadService writing into dir, creating the
// directory if needed.
func NewUploadService(dir string, logger *slog.Logger) (*UploadService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("service/upload: creating upload dir %s: %w", dir, err)
	}
	return &UploadService{dir: dir, logger: logger}, nil
}

// Save writes the uploaded image to disk under a sanitized, unique name
// and returns its stored metadata.
//
// STORED NAME = slug(base) + "-" + xid + ext
// The slug strips anything path-hostile from the client's name (spaces,
// unicode, ../ tricks all collapse to safe ASCII), and the xid suffix
// makes collisions between same-named uploads impossible.
func (s *UploadService) Save(fieldName, originalName string, r io.Reader) (*StoredFile, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !imageExtensions[ext] {
		return nil, apperror.ValidationFailed("imageFile", "You can upload only image files!")
	}

	base := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	name := slug.Make(base)
	if name == "" {
		name = "image"
	}
	filename := name + "-" + xid.New().String() + ext
	path := filepath.Join(s.dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("service/upload: creating %s: %w", path, err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		// Don't leave a truncated file behind
		os.Remove(path)
		return nil, fmt.Errorf("service/upload: writing %s: %w", path, err)
	}

	s.logger.Info("image stored",
		slog.String("filename", filename),
		slog.String("originalName", originalName),
		slog.Int64("size", size),
	)

	return &StoredFile{
		FieldName:    fieldName,
		OriginalName: originalName,
		Filename:     filename,
		Destination:  s.dir,
		Path:         path,
		Size:         size,
	}, nil
}
