// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes blobs to a directory on disk. Files are served back by
// the /uploads/ route. Used when no S3 bucket is configured.
type LocalStore struct {
	dir string
}

// NewLocal creates a local-disk blob store rooted at dir, creating the
// directory if needed.
func NewLocal(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the root directory files are stored under.
func (l *LocalStore) Dir() string { return l.dir }

// Put writes the object under key (slashes become subdirectories) and
// returns its /uploads/ URL path.
func (l *LocalStore) Put(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	clean := filepath.Clean(key)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("local store: invalid key %q", key)
	}

	path := filepath.Join(l.dir, clean)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("local store mkdir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("local store create: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("local store write: %w", err)
	}

	return "/uploads/" + filepath.ToSlash(clean), nil
}

// Resolve maps an /uploads/ URL path element back to a file path inside
// the storage directory. Returns false for traversal attempts or files
// outside the root.
func (l *LocalStore) Resolve(name string) (string, bool) {
	clean := filepath.Clean("/" + name) // forces the path to be rooted
	path := filepath.Join(l.dir, clean)
	if !strings.HasPrefix(path, filepath.Clean(l.dir)+string(os.PathSeparator)) {
		return "", false
	}
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}
