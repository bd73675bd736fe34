package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore writes files below a directory served at /uploads/
type LocalStore struct {
	root          string
	publicBaseURL string
}

// NewLocalStore creates the images and thumbnails folders under root
func NewLocalStore(root, publicBaseURL string) (*LocalStore, error) {
	for _, dir := range []string{"images", "thumbnails"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory: %w", err)
		}
	}
	return &LocalStore{
		root:          root,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

func (s *LocalStore) Name() string {
	return "local"
}

// Root returns the directory served at /uploads/
func (s *LocalStore) Root() string {
	return s.root
}

// KeyFor keeps videos next to images, matching the /uploads/images layout
func (s *LocalStore) KeyFor(kind Kind, fileName string) string {
	if kind == KindThumbnail {
		return path.Join("thumbnails", fileName)
	}
	return path.Join("images", fileName)
}

func (s *LocalStore) Save(ctx context.Context, key, contentType string, body []byte) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(target, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", key, err)
	}

	return s.publicBaseURL + "/uploads/" + key, nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
