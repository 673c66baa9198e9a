package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Exit codes for classified errors. Codes follow sysexits.h where one fits;
// 127 matches what make and the shell report for a missing command.
const (
	ExitOK           = 0
	ExitGeneral      = 1
	ExitUsage        = 2
	ExitConfig       = 7
	ExitMissingInput = 66
	ExitFileSystem   = 74
	ExitNotFound     = 127
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	stderr  io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		stderr:  os.Stderr,
		exit:    os.Exit,
	}
}

// WithOutput redirects user-facing messages and replaces the exit function. Used by tests.
func (a *CLIErrorAdapter) WithOutput(w io.Writer, exit func(int)) *CLIErrorAdapter {
	if w != nil {
		a.stderr = w
	}
	if exit != nil {
		a.exit = exit
	}
	return a
}

// ExitCodeFor determines the appropriate exit code for an error.
// An external tool's own exit status wins over any classification.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}

	if coder, ok := AsExitCoder(err); ok && coder.ExitCode() > 0 {
		return coder.ExitCode()
	}

	if classified, ok := AsClassified(err); ok {
		return exitCodeFromClassified(classified)
	}

	return ExitGeneral
}

func exitCodeFromClassified(err *ClassifiedError) int {
	switch err.Category() {
	case CategoryValidation:
		return ExitUsage
	case CategoryConfig:
		return ExitConfig
	case CategoryNotFound:
		return ExitNotFound
	case CategoryMissingInput:
		return ExitMissingInput
	case CategoryFileSystem:
		return ExitFileSystem
	default:
		return ExitGeneral
	}
}

// FormatError formats an error for user-facing display. It returns an empty
// string for tool exit errors: the tool already printed its own diagnostics.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if _, ok := AsExitCoder(err); ok && !a.verbose {
		return ""
	}

	if classified, ok := AsClassified(err); ok {
		if a.verbose {
			return classified.Error()
		}
		return formatClassified(classified)
	}

	return fmt.Sprintf("Error: %v", err)
}

func formatClassified(err *ClassifiedError) string {
	msg := "Error: " + err.Message()
	if path, ok := err.Context().GetString("path"); ok {
		msg += ": " + path
	}
	if err.Cause() != nil {
		msg += fmt.Sprintf(" (%v)", err.Cause())
	}
	return msg
}

// HandleError reports an error and exits the program with the matching code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	code := a.ExitCodeFor(err)
	if a.verbose {
		a.logError(err)
	}
	if message := a.FormatError(err); message != "" {
		_, _ = fmt.Fprintln(a.stderr, message)
	}
	a.exit(code)
}

func (a *CLIErrorAdapter) logError(err error) {
	if classified, ok := AsClassified(err); ok {
		attrs := []slog.Attr{
			slog.String("category", string(classified.Category())),
		}
		for k, v := range classified.Context() {
			attrs = append(attrs, slog.Any(k, v))
		}
		a.logger.LogAttrs(context.Background(), slogLevelFromSeverity(classified.Severity()), classified.Message(), attrs...)
		return
	}
	a.logger.Debug("Command failed", "error", err)
}

func slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
