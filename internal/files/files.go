// Package files stores generated assets either in a local directory or in an
// S3 compatible bucket.
package files

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrNotFound is returned when a stored object does not exist.
var ErrNotFound = errors.New("files: object not found")

// Storage persists asset bytes under a name and hands back a URI that can
// later be used to read or delete the object.
type Storage interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
	Get(ctx context.Context, uri string) ([]byte, error)
	Delete(ctx context.Context, uri string) error
}

// cleanName strips directories and rejects empty names.
func cleanName(name string) (string, error) {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "" || base == "." || base == "/" || base == ".." {
		return "", fmt.Errorf("files: invalid object name %q", name)
	}
	return base, nil
}
