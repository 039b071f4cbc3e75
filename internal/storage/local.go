package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore writes assets to a directory that is served read-only under the
// public prefix. Names are uuid-v4 tokens plus the original extension, so two
// uploads arriving in the same instant can never collide.
type LocalStore struct {
	root   string
	prefix string
}

func NewLocalStore(root, prefix string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload root: %w", err)
	}
	return &LocalStore{root: root, prefix: prefix}, nil
}

func (s *LocalStore) Store(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext, err := imageExt(filename)
	if err != nil {
		return "", err
	}

	name := uuid.New().String() + ext
	absPath := filepath.Join(s.root, name)

	// Write to a temp name and rename so a crash never leaves a partial
	// file under the served path.
	tmp := absPath + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return "", err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, absPath); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}

	return path.Join(s.prefix, name), nil
}

func (s *LocalStore) Remove(ctx context.Context, ref string) error {
	// Base() strips the prefix and guards against traversal in stored refs.
	name := path.Base(ref)
	if name == "." || name == "/" {
		return nil
	}
	if err := os.Remove(filepath.Join(s.root, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
