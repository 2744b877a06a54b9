package batch

import (
	"context"
	"fmt"

	"github.com/kingrea/seedbed/internal/logbook"
)

// JournalHook returns a finish hook that appends the run outcome, and each
// failed step, to book under the run id.
func JournalHook(book *logbook.Logbook) FinishHook {
	return func(_ context.Context, result Result) error {
		for _, step := range result.Steps {
			if step.Error == "" {
				continue
			}
			if err := book.Record(logbook.Entry{
				Level:   logbook.LevelWarn,
				RunID:   result.RunID,
				Message: step.Label + ": " + step.Error,
			}); err != nil {
				return err
			}
		}
		level := logbook.LevelInfo
		if !result.Success {
			level = logbook.LevelError
		}
		return book.Record(logbook.Entry{
			Level:   level,
			RunID:   result.RunID,
			Message: fmt.Sprintf("%s: %s", result.Mode, result.Message),
		})
	}
}
