package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kingrea/seedbed/internal/logging"
)

// Progress is reported after every step.
type Progress struct {
	Processed int
	Total     int
	// Items is the running count of processed items.
	Items int
	// StepItems is what the step that just finished processed.
	StepItems int
	// Label names the step that just finished.
	Label    string
	Duration time.Duration
	Err      error
}

// Fraction returns Processed/Total, or 1 for an empty run.
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 1
	}
	return float64(p.Processed) / float64(p.Total)
}

// StepResult records one finished step.
type StepResult struct {
	Label    string        `json:"label"`
	Items    int           `json:"items"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Result summarises a run.
type Result struct {
	RunID    string       `json:"run_id"`
	Mode     Mode         `json:"mode"`
	Success  bool         `json:"success"`
	Canceled bool         `json:"canceled,omitempty"`
	Items    int          `json:"items"`
	Total    int          `json:"total"`
	Steps    []StepResult `json:"steps"`
	Errors   []string     `json:"errors,omitempty"`
	Started  time.Time    `json:"started"`
	Finished time.Time    `json:"finished"`
	Message  string       `json:"message"`
}

// FinishHook runs after every run, successful or not. Hook errors are logged.
type FinishHook func(ctx context.Context, result Result) error

// Runner executes steps sequentially.
type Runner struct {
	observers []func(Progress)
	finish    []FinishHook
	clock     func() time.Time
	logger    *slog.Logger
}

// Option customizes the runner.
type Option func(*Runner)

// WithObserver adds a progress observer.
func WithObserver(fn func(Progress)) Option {
	return func(r *Runner) {
		if fn != nil {
			r.observers = append(r.observers, fn)
		}
	}
}

// WithFinishHook appends finish hooks. They run in the order given.
func WithFinishHook(hooks ...FinishHook) Option {
	return func(r *Runner) {
		for _, hook := range hooks {
			if hook != nil {
				r.finish = append(r.finish, hook)
			}
		}
	}
}

// WithClock injects a deterministic clock (primarily for tests).
func WithClock(clock func() time.Time) Option {
	return func(r *Runner) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithLogger sets the runner logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner builds a runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{clock: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes steps in order and stops at the first failure or when ctx is
// cancelled. Finish hooks always run, with a context that outlives a
// cancelled ctx so cleanup can complete. The returned error is the failure
// that stopped the run.
func (r *Runner) Run(ctx context.Context, mode Mode, steps []Step) (Result, error) {
	started := r.clock()
	result := Result{
		RunID:   generateRunID(mode, started),
		Mode:    mode,
		Total:   len(steps),
		Started: started,
	}
	logger := r.logger.With(logging.RunID(result.RunID), logging.Mode(string(mode)))
	logger.Info("Batch started", slog.Int("steps", len(steps)))

	var runErr error
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		stepStart := r.clock()
		n, err := step.Run(ctx)
		elapsed := r.clock().Sub(stepStart)
		result.Items += n
		record := StepResult{Label: step.Label, Items: n, Duration: elapsed}
		if err != nil {
			record.Error = err.Error()
		}
		result.Steps = append(result.Steps, record)
		r.notify(Progress{
			Processed: i + 1,
			Total:     len(steps),
			Items:     result.Items,
			StepItems: n,
			Label:     step.Label,
			Duration:  elapsed,
			Err:       err,
		})
		if err != nil {
			logger.Error("Batch step failed", logging.Step(step.Label), logging.Error(err))
			runErr = err
			break
		}
		logger.Debug("Batch step finished", logging.Step(step.Label), logging.Items(n))
	}

	result.Finished = r.clock()
	result.Success = runErr == nil
	result.Canceled = errors.Is(runErr, context.Canceled)
	if runErr != nil {
		result.Errors = append(result.Errors, runErr.Error())
		result.Message = fmt.Sprintf("Finished with an error: %v", runErr)
	} else {
		result.Message = fmt.Sprintf("%d items processed", result.Items)
	}
	logger.Info("Batch finished", logging.Items(result.Items), slog.Bool("success", result.Success))

	hookCtx := context.WithoutCancel(ctx)
	for _, hook := range r.finish {
		if err := hook(hookCtx, result); err != nil {
			logger.Warn("Finish hook failed", logging.Error(err))
		}
	}
	return result, runErr
}

func (r *Runner) notify(p Progress) {
	for _, fn := range r.observers {
		fn(p)
	}
}

func generateRunID(mode Mode, now time.Time) string {
	return fmt.Sprintf("%s-%d", mode, now.UnixNano())
}

// Clearer drops derived caches between runs.
type Clearer interface {
	ClearCaches()
}

// ClearHook returns a finish hook that clears c's caches.
func ClearHook(c Clearer) FinishHook {
	return func(context.Context, Result) error {
		c.ClearCaches()
		return nil
	}
}
