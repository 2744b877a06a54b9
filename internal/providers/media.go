package providers

import (
	"context"
	"fmt"

	"github.com/kingrea/seedbed/internal/assets"
	"github.com/kingrea/seedbed/internal/entity"
	"github.com/kingrea/seedbed/internal/provider"
)

var documentKinds = []string{string(assets.KindPDF), string(assets.KindDOCX), string(assets.KindCSV), string(assets.KindTXT)}

func images(ctx context.Context, tk *provider.Toolkit) ([]entity.Entity, error) {
	out := make([]entity.Entity, 0, ImageCount)
	for i := 0; i < ImageCount; i++ {
		alt := tk.Random.Sentence(4)
		file, err := tk.File(ctx, assets.KindPNG, assets.Options{Width: 800, Height: 600, Label: alt})
		if err != nil {
			return nil, fmt.Errorf("providers: image file: %w", err)
		}
		out = append(out, entity.Entity{
			Label: file.Label,
			Fields: entity.Fields{
				"field_media": file.ID,
				"alt":         alt,
			},
		})
	}
	return out, nil
}

func documents(ctx context.Context, tk *provider.Toolkit) ([]entity.Entity, error) {
	out := make([]entity.Entity, 0, DocumentCount)
	for i := 0; i < DocumentCount; i++ {
		kind := assets.Kind(tk.Random.Item(documentKinds))
		title := tk.Random.Sentence(3)
		file, err := tk.File(ctx, kind, assets.Options{Label: title})
		if err != nil {
			return nil, fmt.Errorf("providers: document file: %w", err)
		}
		out = append(out, entity.Entity{
			Label: title,
			Fields: entity.Fields{
				"field_media": file.ID,
				"kind":        string(kind),
			},
		})
	}
	return out, nil
}
