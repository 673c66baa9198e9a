// Package errors provides the classified error primitives used across docsmake.
//
// A ClassifiedError carries a category, a severity and structured context. The
// category decides the process exit code through CLIErrorAdapter, so callers
// only need to pick the right constructor:
//
//	err := errors.MissingInputError("readme not found").
//		WithContext("path", readmePath).
//		WithCause(statErr).
//		Build()
//
// Errors coming from an external tool's own exit status are not classified.
// They implement ExitCoder and their code is propagated unchanged.
package errors
