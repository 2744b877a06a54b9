package providers

import (
	"github.com/kingrea/seedbed/internal/entity"
	"github.com/kingrea/seedbed/internal/provider"
)

// Default entity counts per run.
const (
	TagCount      = 10
	UserCount     = 5
	ImageCount    = 3
	DocumentCount = 2
	PageCount     = 3
	ArticleCount  = 6
	MenuLinkCount = 3
)

// Builtins returns the compiled providers in registration order.
func Builtins() []provider.Info {
	return []provider.Info{
		builtin(entity.TypeTerm, "tags", -20, tags),
		builtin(entity.TypeUser, "user", -10, users),
		builtin(entity.TypeMedia, "image", 0, images),
		builtin(entity.TypeMedia, "document", 0, documents),
		builtin(entity.TypeNode, "page", 10, pages),
		builtin(entity.TypeNode, "article", 10, articles),
		builtin(entity.TypeMenuLink, "main", 20, menuLinks),
	}
}

// RegisterBuiltins installs all of the builtin providers into the registry.
func RegisterBuiltins(reg *provider.Registry) {
	if reg == nil {
		return
	}
	for _, info := range Builtins() {
		reg.MustRegister(info)
	}
}

func builtin(entityType, bundle string, weight int, cb provider.Callback) provider.Info {
	return provider.Info{
		Type:     entityType,
		Bundle:   bundle,
		Weight:   weight,
		Tracking: true,
		Source:   provider.SourceBuiltin,
		Callback: cb,
	}
}
