package providers

import (
	"context"
	"strings"

	"github.com/kingrea/seedbed/internal/entity"
	"github.com/kingrea/seedbed/internal/provider"
)

var roles = []string{"editor", "author", "reviewer", "subscriber"}

func tags(_ context.Context, tk *provider.Toolkit) ([]entity.Entity, error) {
	out := make([]entity.Entity, 0, TagCount)
	for i := 0; i < TagCount; i++ {
		out = append(out, entity.Entity{
			Label: tk.Random.Name(tk.Random.Int(4, 10)),
			Fields: entity.Fields{
				"description": tk.Random.Sentence(8),
				"weight":      i,
			},
		})
	}
	return out, nil
}

func users(_ context.Context, tk *provider.Toolkit) ([]entity.Entity, error) {
	out := make([]entity.Entity, 0, UserCount)
	for i := 0; i < UserCount; i++ {
		first := tk.Random.Name(tk.Random.Int(4, 8))
		last := tk.Random.Name(tk.Random.Int(5, 9))
		out = append(out, entity.Entity{
			Label: first + " " + last,
			Fields: entity.Fields{
				"mail":   strings.ToLower(first+"."+last) + "@example.com",
				"status": true,
				"roles":  tk.Random.Items(roles, tk.Random.Int(1, 2)),
			},
		})
	}
	return out, nil
}
