// Package storage keeps uploaded images on local disk, one directory per
// bucket, and hands back the public URL the row should store. It stands in
// for the hosted blob service the old site used.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotImage = errors.New("only image uploads are accepted")
	ErrTooLarge = errors.New("image exceeds the maximum upload size")
)

var allowedExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

type Store struct {
	dir      string
	baseURL  string
	maxBytes int64
}

// New creates the bucket root if needed. baseURL is the public prefix under
// which the upload directory is served.
func New(dir, baseURL string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{
		dir:      dir,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		maxBytes: maxBytes,
	}, nil
}

// Dir exposes the root so the HTTP layer can serve it statically.
func (s *Store) Dir() string {
	return s.dir
}

// Save validates and writes one upload, returning its public URL. File
// names are generated, never taken from the client.
func (s *Store) Save(bucket, originalName string, size int64, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExts[ext] {
		return "", ErrNotImage
	}
	if size > s.maxBytes {
		return "", ErrTooLarge
	}

	bucketDir := filepath.Join(s.dir, filepath.Base(bucket))
	if err := os.MkdirAll(bucketDir, 0o755); err != nil {
		return "", fmt.Errorf("create bucket dir: %w", err)
	}

	name := uuid.NewString() + ext
	path := filepath.Join(bucketDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	// LimitReader guards against clients lying about Content-Length.
	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if written > s.maxBytes {
		os.Remove(path)
		return "", ErrTooLarge
	}

	return s.baseURL + "/uploads/" + filepath.Base(bucket) + "/" + name, nil
}
