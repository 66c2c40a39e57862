// Package storage keeps uploaded withdrawal proofs in S3-compatible object
// storage or, for development, on the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Store persists a file and returns the URL it can be fetched from
type Store interface {
	Store(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

var (
	ErrEmptyKey           = errors.New("storage key is required")
	ErrInvalidKey         = errors.New("storage key must be a relative path without '..'")
	ErrUnsupportedContent = errors.New("unsupported content type")
	ErrTooLarge           = errors.New("file exceeds the upload limit")
)

// proofExtensions maps accepted proof content types to file extensions
var proofExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// ProofKey builds a unique object key for a withdrawal proof
func ProofKey(withdrawalID uuid.UUID, contentType string) (string, error) {
	ext, ok := proofExtensions[normalizeContentType(contentType)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedContent, contentType)
	}
	return path.Join("proofs", withdrawalID.String(), uuid.NewString()+ext), nil
}

// IsAllowedProofType reports whether a content type is accepted as proof
func IsAllowedProofType(contentType string) bool {
	_, ok := proofExtensions[normalizeContentType(contentType)]
	return ok
}

func normalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// cleanKey rejects absolute keys and keys that escape the storage root
func cleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", ErrEmptyKey
	}
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "./") || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// readLimited reads at most limit bytes and fails if the body is longer
func readLimited(body io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(body)
	}
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return data, nil
}

// New builds the store selected by cfg.Driver
func New(ctx context.Context, cfg *config.StorageConfig, maxSize int64, logger *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case "s3":
		s, err := NewS3Store(cfg, WithLogger(logger), WithMaxSize(maxSize))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	case "local", "":
		return NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL, maxSize)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
