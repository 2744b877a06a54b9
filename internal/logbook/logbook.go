// Package logbook keeps the run journal: one line per run, step failure or
// manual removal, appended to a plain text file.
//
// Lines look like
//
//	2025-07-08T09:10:11Z ERROR [create-1720429811000000000] Creating node-page: boom
//
// where the bracketed run id is present only for entries written by a run.
package logbook

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a journal entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Entry is one journal line.
type Entry struct {
	Time    time.Time
	Level   Level
	RunID   string
	Message string
}

// String renders the entry in journal format. Whitespace in the message,
// newlines included, is folded to single spaces.
func (e Entry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %-5s ", e.Time.UTC().Format(time.RFC3339), e.Level)
	if e.RunID != "" {
		fmt.Fprintf(&b, "[%s] ", e.RunID)
	}
	b.WriteString(strings.Join(strings.Fields(e.Message), " "))
	return b.String()
}

// ParseEntry reads a line written by String.
func ParseEntry(line string) (Entry, error) {
	stamp, rest, ok := strings.Cut(strings.TrimSpace(line), " ")
	if !ok {
		return Entry{}, fmt.Errorf("logbook: malformed line %q", line)
	}
	ts, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return Entry{}, fmt.Errorf("logbook: malformed time in %q: %w", line, err)
	}
	level, rest, _ := strings.Cut(strings.TrimLeft(rest, " "), " ")
	e := Entry{Time: ts, Level: Level(level), Message: strings.TrimLeft(rest, " ")}
	if strings.HasPrefix(e.Message, "[") {
		if id, msg, ok := strings.Cut(e.Message[1:], "] "); ok {
			e.RunID, e.Message = id, msg
		}
	}
	return e, nil
}

// Logbook appends entries to a file. It is safe for concurrent use.
type Logbook struct {
	path  string
	mu    sync.Mutex
	clock func() time.Time
}

// Option customizes a Logbook.
type Option func(*Logbook)

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(l *Logbook) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// New opens the journal at path, creating its directory.
func New(path string, opts ...Option) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logbook: ensure dir: %w", err)
	}
	l := &Logbook{path: path, clock: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Path returns the journal file.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Record appends e. A zero Time is stamped with the logbook clock.
func (l *Logbook) Record(e Entry) error {
	if l == nil {
		return nil
	}
	if e.Time.IsZero() {
		e.Time = l.clock()
	}
	if e.Level == "" {
		e.Level = LevelInfo
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("logbook: open %s: %w", l.path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(e.String() + "\n"); err != nil {
		return fmt.Errorf("logbook: write %s: %w", l.path, err)
	}
	return nil
}

func (l *Logbook) Info(format string, args ...any) error {
	return l.Record(Entry{Level: LevelInfo, Message: fmt.Sprintf(format, args...)})
}

func (l *Logbook) Warn(format string, args ...any) error {
	return l.Record(Entry{Level: LevelWarn, Message: fmt.Sprintf(format, args...)})
}

func (l *Logbook) Error(format string, args ...any) error {
	return l.Record(Entry{Level: LevelError, Message: fmt.Sprintf(format, args...)})
}

// Entries returns up to max of the most recent entries, optionally only
// those of runID, plus how many entries matched in total. Lines that do
// not parse are skipped. A missing journal is empty.
func (l *Logbook) Entries(max int, runID string) ([]Entry, int, error) {
	if l == nil || max <= 0 {
		return nil, 0, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("logbook: open %s: %w", l.path, err)
	}
	defer f.Close()

	var (
		recent []Entry
		total  int
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		e, err := ParseEntry(scanner.Text())
		if err != nil || (runID != "" && e.RunID != runID) {
			continue
		}
		total++
		recent = append(recent, e)
		if len(recent) > max {
			recent = recent[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("logbook: read %s: %w", l.path, err)
	}
	return recent, total, nil
}
