// Package media stores uploaded brand logos on the local filesystem.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-site-configurator/internal/apperrors"
	"github.com/goliatone/go-site-configurator/internal/domain"
	"github.com/goliatone/go-site-configurator/internal/identity"
	"github.com/goliatone/go-site-configurator/internal/logging"
	"github.com/goliatone/go-site-configurator/pkg/interfaces"
)

// DefaultMaxFileSize applies when no limit is configured.
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

// AllowedMimeTypes lists the accepted logo formats.
var AllowedMimeTypes = []string{"image/jpeg", "image/png", "image/svg+xml", "image/webp"}

// extensions maps each accepted type to the extension its files are stored
// with. The client's file name never picks the extension.
var extensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/svg+xml": ".svg",
	"image/webp":    ".webp",
}

var (
	ErrDirRequired  = errors.New("media: upload directory is required")
	ErrInvalidName  = errors.New("media: invalid file name")
	ErrFileNotFound = errors.New("media: file not found")
)

// Config locates uploads on disk and on the public URL space.
type Config struct {
	Dir         string
	MaxFileSize int64
	PublicPath  string
}

// StoreOption customises a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for best effort deletions.
func WithLogger(logger interfaces.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the upload timestamp source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store writes logos as {uuid}{ext} under a single directory.
type Store struct {
	dir        string
	maxSize    int64
	publicPath string
	now        func() time.Time
	logger     interfaces.Logger
}

// NewStore creates the upload directory when missing.
func NewStore(cfg Config, opts ...StoreOption) (*Store, error) {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return nil, ErrDirRequired
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("media: resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("media: create upload dir: %w", err)
	}

	s := &Store{
		dir:        abs,
		maxSize:    cfg.MaxFileSize,
		publicPath: strings.TrimRight(cfg.PublicPath, "/"),
		now:        time.Now,
		logger:     logging.NoOp(),
	}
	if s.maxSize <= 0 {
		s.maxSize = DefaultMaxFileSize
	}
	if s.publicPath == "" {
		s.publicPath = "/uploads"
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the absolute upload directory.
func (s *Store) Dir() string { return s.dir }

// MaxFileSize returns the configured upload limit in bytes.
func (s *Store) MaxFileSize() int64 { return s.maxSize }

// PublicPath is the URL prefix uploads are served under.
func (s *Store) PublicPath() string { return s.publicPath }

// ValidateFile checks declared logo metadata against the type and size limits.
func (s *Store) ValidateFile(filename, mimeType string, size int64) error {
	return ValidateFile(filename, mimeType, size, s.maxSize)
}

// ValidateFile checks declared logo metadata. maxSize <= 0 uses the default.
func ValidateFile(filename, mimeType string, size, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if strings.TrimSpace(filename) == "" {
		return uploadError("No file provided", goerrors.FieldError{Field: "filename", Message: "file name is required"})
	}
	if size > maxSize {
		msg := fmt.Sprintf("File size exceeds maximum allowed size of %gMB", float64(maxSize)/1024/1024)
		return uploadError(msg, goerrors.FieldError{Field: "size", Message: msg, Value: size})
	}
	if !slices.Contains(AllowedMimeTypes, strings.ToLower(strings.TrimSpace(mimeType))) {
		msg := fmt.Sprintf("File type %s is not allowed. Allowed types: %s", mimeType, strings.Join(AllowedMimeTypes, ", "))
		return uploadError(msg, goerrors.FieldError{Field: "mimeType", Message: msg, Value: mimeType})
	}
	return nil
}

// Save validates and writes the upload, returning the logo record.
func (s *Store) Save(ctx context.Context, originalName, mimeType string, r io.Reader) (*domain.Logo, error) {
	if r == nil {
		return nil, uploadError("No file provided")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ValidateFile(originalName, mimeType, 0); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, apperrors.Wrap(err, goerrors.CategoryInternal, apperrors.CodeUpload, "Failed to read upload")
	}
	if len(data) == 0 {
		return nil, uploadError("No file provided")
	}
	if err := s.ValidateFile(originalName, mimeType, int64(len(data))); err != nil {
		return nil, err
	}
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if !contentMatches(mimeType, data) {
		msg := fmt.Sprintf("File content does not match type %s", mimeType)
		return nil, uploadError(msg, goerrors.FieldError{Field: "file", Message: msg, Value: mimeType})
	}

	id := identity.NewID()
	filename := id + extensions[mimeType]
	target := filepath.Join(s.dir, filename)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return nil, apperrors.Wrap(err, goerrors.CategoryInternal, apperrors.CodeUpload, "Failed to store upload")
	}

	return &domain.Logo{
		ID:           id,
		Filename:     filename,
		OriginalName: filepath.Base(originalName),
		MimeType:     mimeType,
		Size:         int64(len(data)),
		Path:         target,
		URL:          s.URL(filename),
		UploadedAt:   s.now().UTC(),
	}, nil
}

// ContentType returns the type a stored file is served with. Names Save would
// not have produced fall back to application/octet-stream.
func ContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	for mimeType, known := range extensions {
		if ext == known {
			return mimeType
		}
	}
	return "application/octet-stream"
}

// contentMatches sniffs data and checks it against the declared type. SVG is
// text to the sniffer, so it must carry an <svg> root and no script.
func contentMatches(mimeType string, data []byte) bool {
	detected := http.DetectContentType(data)
	if mimeType != "image/svg+xml" {
		return detected == mimeType
	}
	if !strings.HasPrefix(detected, "text/xml") && !strings.HasPrefix(detected, "text/plain") {
		return false
	}
	lower := bytes.ToLower(data)
	return bytes.Contains(lower, []byte("<svg")) && !bytes.Contains(lower, []byte("<script"))
}

// URL returns the public URL of a stored file.
func (s *Store) URL(filename string) string {
	return path.Join(s.publicPath, filename)
}

// Path resolves filename inside the upload directory, rejecting anything
// that would escape it.
func (s *Store) Path(filename string) (string, error) {
	name := strings.TrimSpace(filename)
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, name), nil
}

// Open returns the stored file for serving.
func (s *Store) Open(filename string) (*os.File, error) {
	target, err := s.Path(filename)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrFileNotFound
	}
	return f, err
}

// Delete removes a stored file. Missing files are not an error.
func (s *Store) Delete(filename string) error {
	target, err := s.Path(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("failed to delete upload", "file", target, "error", err)
		return err
	}
	return nil
}

func uploadError(message string, issues ...goerrors.FieldError) error {
	return goerrors.NewValidation(message, issues...).WithTextCode(apperrors.CodeUpload)
}
