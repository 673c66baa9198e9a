package logfields

import (
	"log/slog"
	"strings"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyAction     = "action"
	KeyMode       = "mode"
	KeyTool       = "tool"
	KeyArgs       = "args"
	KeyPath       = "path"
	KeySource     = "source"
	KeyDest       = "dest"
	KeyExitCode   = "exit_code"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Action(a string) slog.Attr       { return slog.String(KeyAction, a) }
func Mode(m string) slog.Attr         { return slog.String(KeyMode, m) }
func Tool(name string) slog.Attr      { return slog.String(KeyTool, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Source(p string) slog.Attr       { return slog.String(KeySource, p) }
func Dest(p string) slog.Attr         { return slog.String(KeyDest, p) }
func ExitCode(c int) slog.Attr        { return slog.Int(KeyExitCode, c) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

// Args joins a command's argument vector for display.
func Args(args []string) slog.Attr { return slog.String(KeyArgs, strings.Join(args, " ")) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
