// Package fsops holds the file-system operations behind the readme and
// copy-examples actions. Both overwrite their destinations without asking.
package fsops
