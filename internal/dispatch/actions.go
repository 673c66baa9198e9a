package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ferrors "git.home.luguber.info/inful/docsmake/internal/foundation/errors"
	"git.home.luguber.info/inful/docsmake/internal/fsops"
	"git.home.luguber.info/inful/docsmake/internal/logfields"
	"git.home.luguber.info/inful/docsmake/internal/toolexec"
)

// API-doc generator exclusions, relative to the package directory. The list
// is fixed: the logging module and the whole test package.
const (
	excludedLoggingFile = "logging.py"
	excludedTestsGlob   = "tests/*"
)

// GenerateInvocation is the API-doc generator command used by generate.
func (d *Dispatcher) GenerateInvocation() toolexec.Invocation {
	api := d.cfg.APIDoc
	return toolexec.Invocation{
		Name: api.Tool,
		Args: []string{
			"-f", // overwrite existing files
			"-e", // one page per module
			"-d", strconv.Itoa(api.MaxDepth),
			"-t", api.TemplatesDir,
			"-o", d.cfg.APIDocOutputDir(),
			api.PackageDir,
			filepath.Join(api.PackageDir, excludedLoggingFile),
			filepath.Join(api.PackageDir, excludedTestsGlob),
		},
	}
}

// generate writes API reference pages into the generated-API subdirectory.
// A failed run may leave partial output behind.
func (d *Dispatcher) generate(ctx context.Context, extra []string) error {
	ignoreExtra(ActionGenerate, extra)

	if err := requireDir(d.cfg.APIDoc.PackageDir, "package directory not found"); err != nil {
		return err
	}
	if err := requireDir(d.cfg.APIDoc.TemplatesDir, "templates directory not found"); err != nil {
		return err
	}

	inv := d.GenerateInvocation()
	slog.Info("Generating API reference", logfields.Source(d.cfg.APIDoc.PackageDir), logfields.Dest(d.cfg.APIDocOutputDir()))
	return d.runner.Run(ctx, inv)
}

// ConvertedReadmePath is where the markup converter writes its output: next
// to the input, with an .rst extension.
func (d *Dispatcher) ConvertedReadmePath() string {
	p := d.cfg.Readme.Path
	return strings.TrimSuffix(p, filepath.Ext(p)) + ".rst"
}

// readme converts the readme and moves the result into the source directory.
// The move only happens after a successful conversion.
func (d *Dispatcher) readme(ctx context.Context, extra []string) error {
	ignoreExtra(ActionReadme, extra)

	readme := d.cfg.Readme.Path
	if err := requireFile(readme, "readme not found"); err != nil {
		return err
	}

	inv := toolexec.Invocation{Name: d.cfg.Readme.Converter, Args: []string{readme}}
	if err := d.runner.Run(ctx, inv); err != nil {
		return err
	}

	converted := d.ConvertedReadmePath()
	dest := filepath.Join(d.cfg.SourceDir, filepath.Base(converted))
	if d.dryRun {
		d.tracef("mv %s %s", converted, dest)
		return nil
	}

	if fsops.Exists(dest) {
		slog.Debug("Overwriting existing file", logfields.Path(dest))
	}
	if err := fsops.MoveFile(converted, dest); err != nil {
		return ferrors.FileSystemError("failed to move converted readme").
			WithCause(err).
			WithContext("path", converted).
			WithContext("dest", dest).
			Build()
	}
	slog.Info("Readme converted", logfields.Source(readme), logfields.Dest(dest))
	return nil
}

// copyExamples copies the examples tree into the source directory,
// overwriting what is already there.
func (d *Dispatcher) copyExamples(_ context.Context, extra []string) error {
	ignoreExtra(ActionCopyExamples, extra)

	src := d.cfg.ExamplesDir
	dst := d.cfg.ExamplesDest()
	if err := requireDir(src, "examples directory not found"); err != nil {
		return err
	}

	if d.dryRun {
		d.tracef("cp -r %s %s", src, dst)
		return nil
	}

	if fsops.Exists(dst) {
		slog.Debug("Overwriting existing directory contents", logfields.Path(dst))
	}
	if err := fsops.CopyTree(src, dst); err != nil {
		return ferrors.FileSystemError("failed to copy examples").
			WithCause(err).
			WithContext("path", src).
			WithContext("dest", dst).
			Build()
	}
	slog.Info("Examples copied", logfields.Source(src), logfields.Dest(dst))
	return nil
}

func requireDir(path, message string) error {
	info, err := os.Stat(path)
	if err == nil && !info.IsDir() {
		err = fsops.ErrNotDirectory
	}
	return missingInput(path, message, err)
}

func requireFile(path, message string) error {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		err = errors.New("is a directory")
	}
	return missingInput(path, message, err)
}

func missingInput(path, message string, err error) error {
	if err == nil {
		return nil
	}
	return ferrors.MissingInputError(message).
		WithContext("path", path).
		WithCause(err).
		Build()
}
