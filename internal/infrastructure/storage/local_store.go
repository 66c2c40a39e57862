package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalURLPrefix is the HTTP path the router serves local files under
const LocalURLPrefix = "/uploads"

// LocalStore writes files below a directory on the local filesystem
type LocalStore struct {
	root    string
	baseURL string
	maxSize int64
}

// NewLocalStore creates the root directory if needed. baseURL defaults to
// LocalURLPrefix so links resolve against the API host.
func NewLocalStore(root, baseURL string, maxSize int64) (*LocalStore, error) {
	if root == "" {
		return nil, fmt.Errorf("local storage directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	if baseURL == "" {
		baseURL = LocalURLPrefix
	}
	return &LocalStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		maxSize: maxSize,
	}, nil
}

// Root returns the directory files are written to
func (s *LocalStore) Root() string {
	return s.root
}

// Store writes body to root/key atomically through a temp file
func (s *LocalStore) Store(ctx context.Context, key, _ string, body io.Reader) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := readLimited(body, s.maxSize)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}
	return s.baseURL + "/" + key, nil
}

var _ Store = (*LocalStore)(nil)
