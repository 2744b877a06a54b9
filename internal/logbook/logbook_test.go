package logbook

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newBook(t *testing.T, opts ...Option) *Logbook {
	t.Helper()
	book, err := New(filepath.Join(t.TempDir(), "logs", "journal.log"), opts...)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	return book
}

func TestEntriesReturnsMostRecent(t *testing.T) {
	book := newBook(t)
	for i := 0; i < 5; i++ {
		if err := book.Info("entry-%d", i); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	entries, total, err := book.Entries(3, "")
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if total != 5 || len(entries) != 3 {
		t.Fatalf("got %d entries of %d, want 3 of 5", len(entries), total)
	}
	for idx, want := range []string{"entry-2", "entry-3", "entry-4"} {
		if entries[idx].Message != want {
			t.Fatalf("entry %d = %q, want %q", idx, entries[idx].Message, want)
		}
	}
}

func TestRecordFormatsAndParses(t *testing.T) {
	fixed := time.Date(2025, 7, 8, 9, 10, 11, 0, time.UTC)
	book := newBook(t, WithClock(func() time.Time { return fixed }))
	if err := book.Record(Entry{Level: LevelError, RunID: "create-1", Message: "Creating node-page:\n  disk full"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	data, err := os.ReadFile(book.Path())
	if err != nil {
		t.Fatal(err)
	}
	want := "2025-07-08T09:10:11Z ERROR [create-1] Creating node-page: disk full\n"
	if string(data) != want {
		t.Fatalf("line = %q, want %q", data, want)
	}

	entries, _, err := book.Entries(1, "")
	if err != nil {
		t.Fatal(err)
	}
	got := entries[0]
	if !got.Time.Equal(fixed) || got.Level != LevelError || got.RunID != "create-1" || got.Message != "Creating node-page: disk full" {
		t.Fatalf("unexpected entry %+v", got)
	}
}

func TestEntriesFiltersByRun(t *testing.T) {
	book := newBook(t)
	_ = book.Record(Entry{RunID: "create-1", Message: "3 items processed"})
	_ = book.Record(Entry{Level: LevelWarn, RunID: "remove-2", Message: "Removing node-page: boom"})
	_ = book.Info("Removed node 4")
	_ = book.Record(Entry{Level: LevelError, RunID: "remove-2", Message: "Finished with an error: boom"})

	entries, total, err := book.Entries(10, "remove-2")
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || entries[0].Level != LevelWarn || entries[1].Level != LevelError {
		t.Fatalf("unexpected run entries %+v (total %d)", entries, total)
	}
}

func TestParseEntryWithoutRun(t *testing.T) {
	e, err := ParseEntry("2025-01-02T03:04:05Z WARN  Removed node 4")
	if err != nil {
		t.Fatal(err)
	}
	if e.Level != LevelWarn || e.RunID != "" || e.Message != "Removed node 4" {
		t.Fatalf("unexpected entry %+v", e)
	}
	if _, err := ParseEntry("garbage"); err == nil {
		t.Fatalf("expected error for malformed line")
	}
}

func TestMissingJournalAndNilLogbook(t *testing.T) {
	book := newBook(t)
	if entries, total, err := book.Entries(10, ""); entries != nil || total != 0 || err != nil {
		t.Fatalf("expected empty journal, got %v %d %v", entries, total, err)
	}
	var nilBook *Logbook
	if err := nilBook.Info("ignored"); err != nil {
		t.Fatalf("nil logbook should ignore appends: %v", err)
	}
	if nilBook.Path() != "" {
		t.Fatalf("nil logbook path should be empty")
	}
}
