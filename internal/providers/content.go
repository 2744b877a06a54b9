package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/kingrea/seedbed/internal/entity"
	"github.com/kingrea/seedbed/internal/provider"
)

var publishWindow = [2]time.Time{
	time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
}

func pages(ctx context.Context, tk *provider.Toolkit) ([]entity.Entity, error) {
	out := make([]entity.Entity, 0, PageCount)
	for i := 0; i < PageCount; i++ {
		author, err := tk.Reference(ctx, entity.TypeUser, "user")
		if err != nil {
			return nil, err
		}
		out = append(out, entity.Entity{
			Label: tk.Static.Sentence(3),
			Fields: entity.Fields{
				"body":   tk.Random.RichText(3),
				"uid":    author,
				"status": true,
			},
		})
	}
	return out, nil
}

func articles(ctx context.Context, tk *provider.Toolkit) ([]entity.Entity, error) {
	out := make([]entity.Entity, 0, ArticleCount)
	for i := 0; i < ArticleCount; i++ {
		author, err := tk.Reference(ctx, entity.TypeUser, "user")
		if err != nil {
			return nil, err
		}
		tagIDs, err := tk.References(ctx, entity.TypeTerm, "tags", tk.Random.Int(1, 3))
		if err != nil {
			return nil, err
		}
		image, err := tk.Reference(ctx, entity.TypeMedia, "image")
		if err != nil {
			return nil, err
		}
		fields := entity.Fields{
			"body":      tk.Random.RichText(tk.Random.Int(2, 5)),
			"summary":   tk.Random.Sentence(12),
			"uid":       author,
			"tags":      tagIDs,
			"status":    tk.Random.Bool(),
			"published": tk.Random.Date(publishWindow[0], publishWindow[1]).Format(time.RFC3339),
		}
		if image != 0 {
			fields["image"] = image
		}
		out = append(out, entity.Entity{Label: tk.Random.Sentence(tk.Random.Int(4, 8)), Fields: fields})
	}
	return out, nil
}

func menuLinks(ctx context.Context, tk *provider.Toolkit) ([]entity.Entity, error) {
	targets, err := tk.References(ctx, entity.TypeNode, "page", MenuLinkCount)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Entity, 0, len(targets))
	for i, id := range targets {
		out = append(out, entity.Entity{
			Label: tk.Static.Name(8),
			Fields: entity.Fields{
				"link":   fmt.Sprintf("entity:node/%d", id),
				"weight": i,
				"menu":   "main",
			},
		})
	}
	return out, nil
}
