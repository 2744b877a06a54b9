package metrics

import (
	"context"

	"github.com/kingrea/seedbed/internal/batch"
)

// StepObserver returns a batch progress observer feeding rec.
func StepObserver(rec Recorder, mode batch.Mode) func(batch.Progress) {
	return func(p batch.Progress) {
		rec.ObserveStep(string(mode), p.Label, p.StepItems, p.Duration, p.Err == nil)
	}
}

// FinishHook records the run outcome, then flushes.
func FinishHook(rec Recorder) batch.FinishHook {
	return func(_ context.Context, result batch.Result) error {
		rec.ObserveRun(string(result.Mode), outcome(result), result.Items, result.Finished.Sub(result.Started))
		return rec.Flush()
	}
}

func outcome(result batch.Result) string {
	if result.Success {
		return OutcomeSuccess
	}
	if result.Canceled {
		return OutcomeCanceled
	}
	return OutcomeFailed
}
