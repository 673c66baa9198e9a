package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/mattn/go-shellwords"

	ferrors "git.home.luguber.info/inful/docsmake/internal/foundation/errors"
)

// Environment variables recognised as overrides. The names follow the
// conventional Sphinx Makefile variables.
const (
	EnvBuilder     = "SPHINXBUILD"
	EnvBuilderOpts = "SPHINXOPTS"
	EnvAPIDoc      = "SPHINXAPIDOC"
	EnvConverter   = "M2R"
)

// DefaultEnvFiles are tried when no explicit env files are given.
var DefaultEnvFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads KEY=VALUE files into the process environment without
// overriding variables that are already set. With no arguments the
// DefaultEnvFiles are tried and missing ones are skipped; explicitly named
// files must exist.
func LoadEnvFiles(files ...string) error {
	explicit := len(files) > 0
	if !explicit {
		files = DefaultEnvFiles
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			if !explicit && os.IsNotExist(err) {
				continue
			}
			return ferrors.ConfigError("env file not readable").
				WithCause(err).
				WithContext("path", f).
				Build()
		}
		if err := godotenv.Load(f); err != nil {
			return ferrors.ConfigError("failed to parse env file").
				WithCause(err).
				WithContext("path", f).
				Build()
		}
		slog.Debug("Loaded environment variables", "path", f)
	}
	return nil
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays environment overrides. Values are passed through verbatim;
// unset or empty variables leave the current value in place, except SPHINXOPTS:
// setting it to the empty string clears the options, as it does for make. It is
// split with shell word rules so quoted options survive.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if v, ok := lookup(EnvBuilder); ok && v != "" {
		c.Builder = v
	}
	if v, ok := lookup(EnvAPIDoc); ok && v != "" {
		c.APIDoc.Tool = v
	}
	if v, ok := lookup(EnvConverter); ok && v != "" {
		c.Readme.Converter = v
	}
	if v, ok := lookup(EnvBuilderOpts); ok {
		opts, err := shellwords.Parse(v)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryConfig, "cannot parse "+EnvBuilderOpts).
				WithContext("value", v).
				Fatal().
				Build()
		}
		c.BuilderOpts = opts
	}
	return nil
}
