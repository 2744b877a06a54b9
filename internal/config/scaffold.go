package config

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed scaffold
var scaffoldFS embed.FS

const scaffoldRoot = "scaffold"

// writeScaffold copies the sample providers into seedbedDir. Go sources are
// embedded with a .tmpl suffix so the toolchain does not compile them.
// Existing files are left untouched.
func writeScaffold(seedbedDir string) error {
	return fs.WalkDir(scaffoldFS, scaffoldRoot, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(name, scaffoldRoot), "/")
		if rel == "" {
			return nil
		}
		target := filepath.Join(seedbedDir, filepath.FromSlash(strings.TrimSuffix(rel, ".tmpl")))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if _, err := os.Stat(target); err == nil {
			return nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		data, err := scaffoldFS.ReadFile(path.Clean(name))
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}
