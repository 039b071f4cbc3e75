package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnsupportedType is returned when an upload's extension is not an
// accepted image type.
var ErrUnsupportedType = errors.New("file type not supported")

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// AssetStore persists uploaded image files under generated, collision-free
// names and hands back the public relative URL path they will be served from.
type AssetStore interface {
	// Store validates the extension, writes the bytes durably and returns
	// the public reference, e.g. "/uploads/5f3a....png".
	Store(ctx context.Context, filename string, r io.Reader) (string, error)
	// Remove deletes a previously stored asset by its public reference.
	// Removing a reference that no longer exists is not an error; Remove is
	// the rollback hook for aborted create/update requests.
	Remove(ctx context.Context, ref string) error
}

// imageExt returns the lower-cased extension when it is an accepted image
// type, or ErrUnsupportedType.
func imageExt(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		return "", ErrUnsupportedType
	}
	return ext, nil
}
