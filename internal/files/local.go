package files

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalScheme prefixes URIs handed out by Local.
const LocalScheme = "public://"

// Local keeps assets in a directory on disk.
type Local struct {
	dir string
}

// NewLocal returns a Local rooted at dir. The directory is created on first Put.
func NewLocal(dir string) *Local {
	return &Local{dir: dir}
}

// Dir returns the storage root.
func (l *Local) Dir() string {
	return l.dir
}

// Put writes data to the root, suffixing the name when it already exists.
func (l *Local) Put(ctx context.Context, name, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	base, err := cleanName(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", fmt.Errorf("files: create %s: %w", l.dir, err)
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	candidate := base
	for i := 1; ; i++ {
		f, err := os.OpenFile(filepath.Join(l.dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("files: write %s: %w", candidate, err)
		}
		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			return "", fmt.Errorf("files: write %s: %w", candidate, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("files: close %s: %w", candidate, err)
		}
		return LocalScheme + candidate, nil
	}
}

// Get reads an object back.
func (l *Local) Get(_ context.Context, uri string) ([]byte, error) {
	p, err := l.path(uri)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, uri)
	}
	if err != nil {
		return nil, fmt.Errorf("files: read %s: %w", uri, err)
	}
	return data, nil
}

// Delete removes an object. Missing objects are not an error.
func (l *Local) Delete(_ context.Context, uri string) error {
	p, err := l.path(uri)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("files: delete %s: %w", uri, err)
	}
	return nil
}

func (l *Local) path(uri string) (string, error) {
	if !strings.HasPrefix(uri, LocalScheme) {
		return "", fmt.Errorf("files: %q is not a local uri", uri)
	}
	name, err := cleanName(strings.TrimPrefix(uri, LocalScheme))
	if err != nil {
		return "", err
	}
	return filepath.Join(l.dir, name), nil
}
