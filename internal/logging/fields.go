package logging

import "log/slog"

// Canonical log field names shared across packages.
const (
	KeyEntityType = "entity_type"
	KeyBundle     = "bundle"
	KeyEntityID   = "entity_id"
	KeySource     = "source"
	KeyStep       = "step"
	KeyItems      = "items"
	KeyRunID      = "run_id"
	KeyMode       = "mode"
	KeyPath       = "path"
	KeyError      = "error"
)

func EntityType(t string) slog.Attr { return slog.String(KeyEntityType, t) }
func Bundle(b string) slog.Attr     { return slog.String(KeyBundle, b) }
func EntityID(id int64) slog.Attr   { return slog.Int64(KeyEntityID, id) }
func Source(s string) slog.Attr     { return slog.String(KeySource, s) }
func Step(label string) slog.Attr   { return slog.String(KeyStep, label) }
func Items(n int) slog.Attr         { return slog.Int(KeyItems, n) }
func RunID(id string) slog.Attr     { return slog.String(KeyRunID, id) }
func Mode(m string) slog.Attr       { return slog.String(KeyMode, m) }
func Path(p string) slog.Attr       { return slog.String(KeyPath, p) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
