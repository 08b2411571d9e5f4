// Package fs implements the canonical disk-resident store: one file per
// cached call signature under <root>/<namespace>/<key>.
//
// Dots in a namespace map to subdirectories ("app.users" stores under
// app/users/), which lets callers express hierarchical organization while
// keeping two distinct namespaces on distinct paths.
//
// Writes go to a temporary file in the destination directory and are
// renamed into place, so a concurrent reader (even in another process)
// never observes a partially written entry. Atomic rename is the sole
// cross-process safety mechanism; no file locking is used.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/unkn0wn-root/anycache/store"
)

type Store struct {
	root string
}

var _ store.Store = (*Store)(nil)

// New creates the root directory if absent.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("fs: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

func (s *Store) Exists(_ context.Context, namespace, key string) (bool, error) {
	p, err := s.entryPath(namespace, key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) Read(_ context.Context, namespace, key string) ([]byte, error) {
	p, err := s.entryPath(namespace, key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Store) Write(_ context.Context, namespace, key string, payload []byte) error {
	p, err := s.entryPath(namespace, key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	// Temp file must live in the destination directory: rename is only
	// atomic within one filesystem.
	tmp, err := os.CreateTemp(dir, key+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (s *Store) Delete(_ context.Context, namespace, key string) error {
	p, err := s.entryPath(namespace, key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) Close(context.Context) error { return nil }

func (s *Store) entryPath(namespace, key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("fs: invalid key %q", key)
	}
	parts := []string{s.root}
	if namespace != "" {
		for _, part := range strings.Split(namespace, ".") {
			if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
				return "", fmt.Errorf("fs: invalid namespace %q", namespace)
			}
			parts = append(parts, part)
		}
	}
	parts = append(parts, key)
	return filepath.Join(parts...), nil
}
