package providers

import (
	"context"

	"github.com/kingrea/seedbed/internal/entity"
	"github.com/kingrea/seedbed/internal/provider"
)

// FileBundle is the bundle of file entities created through the toolkit.
const FileBundle = "file"

// Files returns the provider that owns generated file entities. It creates
// nothing itself; files are produced on demand by other providers. Its low
// weight places it last in remove runs so stored objects are deleted once
// nothing references them.
func Files() provider.Info {
	return builtin(entity.TypeFile, FileBundle, -100, func(context.Context, *provider.Toolkit) ([]entity.Entity, error) {
		return nil, nil
	})
}

// RegisterFiles installs the file provider.
func RegisterFiles(reg *provider.Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(Files())
}
