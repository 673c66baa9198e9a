package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/docsmake/internal/foundation/errors"
)

// DefaultConfigFile is read when --config is not given. Its absence is not an error.
const DefaultConfigFile = "docsmake.yaml"

// Config holds every value a single invocation needs. It is read once and
// passed through unmodified to whichever action runs.
type Config struct {
	// Builder is the documentation builder executable (SPHINXBUILD).
	Builder string `yaml:"builder"`
	// BuilderOpts are passed to every builder invocation after the directories (SPHINXOPTS).
	BuilderOpts []string `yaml:"builder_opts"`
	SourceDir   string   `yaml:"source_dir"`
	BuildDir    string   `yaml:"build_dir"`

	APIDoc      APIDocConfig `yaml:"apidoc"`
	Readme      ReadmeConfig `yaml:"readme"`
	ExamplesDir string       `yaml:"examples_dir"`
}

// APIDocConfig configures the generate action.
type APIDocConfig struct {
	Tool         string `yaml:"tool"`
	PackageDir   string `yaml:"package_dir"`
	TemplatesDir string `yaml:"templates_dir"`
	// OutputSubdir is nested under SourceDir.
	OutputSubdir string `yaml:"output_subdir"`
	MaxDepth     int    `yaml:"max_depth"`
}

// ReadmeConfig configures the readme action.
type ReadmeConfig struct {
	Converter string `yaml:"converter"`
	Path      string `yaml:"path"`
}

// Default returns the configuration used when no file or environment overrides apply.
func Default() *Config {
	return &Config{
		Builder:     "sphinx-build",
		BuilderOpts: []string{"-W"},
		SourceDir:   "source",
		BuildDir:    "build",
		APIDoc: APIDocConfig{
			Tool:         "sphinx-apidoc",
			PackageDir:   "../u8timeseries",
			TemplatesDir: "templates",
			OutputSubdir: "generated_api",
			MaxDepth:     2,
		},
		Readme: ReadmeConfig{
			Converter: "m2r",
			Path:      "../README.md",
		},
		ExamplesDir: "../examples",
	}
}

// ExamplesDest is where copy-examples writes.
func (c *Config) ExamplesDest() string {
	return filepath.Join(c.SourceDir, "examples")
}

// APIDocOutputDir is where generate writes.
func (c *Config) APIDocOutputDir() string {
	return filepath.Join(c.SourceDir, c.APIDoc.OutputSubdir)
}

// Load builds the effective configuration: defaults, then the YAML file, then
// env files, then environment overrides. An empty path reads DefaultConfigFile
// if it exists.
func Load(configPath string, envFiles ...string) (*Config, error) {
	cfg := Default()

	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigFile
	}

	if err := cfg.mergeFile(configPath, explicit); err != nil {
		return nil, err
	}

	if err := LoadEnvFiles(envFiles...); err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string, required bool) error {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is operator supplied
	if err != nil {
		if os.IsNotExist(err) && !required {
			slog.Debug("No configuration file, using defaults", "path", path)
			return nil
		}
		return ferrors.ConfigError("failed to read config file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return ferrors.ConfigError("failed to parse config file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	slog.Debug("Loaded configuration file", "path", path)
	return nil
}

// Validate rejects configurations that cannot produce a builder invocation.
func (c *Config) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"builder", c.Builder},
		{"source_dir", c.SourceDir},
		{"build_dir", c.BuildDir},
	}
	for _, r := range required {
		if r.value == "" {
			return ferrors.ValidationError(fmt.Sprintf("%s must not be empty", r.field)).
				WithContext("field", r.field).
				Build()
		}
	}
	if c.APIDoc.MaxDepth < 0 {
		return ferrors.ValidationError("apidoc.max_depth must not be negative").
			WithContext("field", "apidoc.max_depth").
			Build()
	}
	return nil
}
