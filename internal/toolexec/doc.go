// Package toolexec runs the external tools docsmake delegates to.
//
// A Runner executes one Invocation and blocks until it finishes. ExecRunner
// starts a real child process, wiring its output straight to the caller's
// writers so the tool's diagnostics reach the user unchanged. DryRunner only
// prints what would run, and Recorder captures invocations for tests.
package toolexec
