package batch

import (
	"context"
	"fmt"
	"strings"

	"github.com/kingrea/seedbed/internal/provider"
)

// Mode selects what a run does.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeRemove Mode = "remove"
)

// ParseMode validates a mode name.
func ParseMode(value string) (Mode, error) {
	switch mode := Mode(strings.ToLower(strings.TrimSpace(value))); mode {
	case ModeCreate, ModeRemove:
		return mode, nil
	default:
		return "", fmt.Errorf("batch: unknown mode %q", value)
	}
}

// Step is one unit of work. Run returns how many items it processed.
type Step struct {
	Label string
	Run   func(ctx context.Context) (int, error)
}

// Executor performs provider work. The repository implements it.
type Executor interface {
	Create(ctx context.Context, info provider.Info) (int, error)
	Remove(ctx context.Context, entityType, bundle string) (int, error)
}

// Plan builds one step per provider. providers must already be ordered by
// weight; remove runs walk them in reverse so dependent content goes first.
func Plan(mode Mode, exec Executor, providers []provider.Info) ([]Step, error) {
	if exec == nil {
		return nil, fmt.Errorf("batch: executor is required")
	}
	steps := make([]Step, 0, len(providers))
	switch mode {
	case ModeCreate:
		for _, info := range providers {
			info := info
			steps = append(steps, Step{
				Label: "Creating " + info.Key().String(),
				Run: func(ctx context.Context) (int, error) {
					return exec.Create(ctx, info)
				},
			})
		}
	case ModeRemove:
		for i := len(providers) - 1; i >= 0; i-- {
			info := providers[i]
			steps = append(steps, Step{
				Label: "Removing " + info.Key().String(),
				Run: func(ctx context.Context) (int, error) {
					return exec.Remove(ctx, info.Type, info.Bundle)
				},
			})
		}
	default:
		return nil, fmt.Errorf("batch: unknown mode %q", mode)
	}
	return steps, nil
}
