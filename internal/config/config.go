// Package config handles shapegen project configuration.
package config

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/reoring/shapegen/internal/symbol"
)

// CurrentConfigVersion is the current version of the config file format.
const CurrentConfigVersion = 1

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "shapegen.yaml"

// Config represents the shapegen.yaml project configuration file.
type Config struct {
	Version int `yaml:"version"`
	// Model is the path of the JSON or YAML model document.
	Model string `yaml:"model"`
	// Service selects the service whose rename map names shapes.
	Service string `yaml:"service,omitempty"`
	// Package is the package clause of generated files.
	Package string `yaml:"package"`
	// Output is the directory generated files are written to.
	Output string `yaml:"output"`
	Target string `yaml:"target"`
	// PublicConstrainedTypes defaults to true when omitted.
	PublicConstrainedTypes *bool  `yaml:"publicConstrainedTypes,omitempty"`
	RuntimeImport          string `yaml:"runtimeImport,omitempty"`

	dir string
}

// Load reads a Config from a file path. Relative model and output paths are
// resolved against the file's directory.
func Load(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return &cfg, nil
}

// Save writes the Config to a file path.
func (c *Config) Save(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(c)
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errs []error
	if c.Version != CurrentConfigVersion {
		errs = append(errs, errors.New("unsupported config version"))
	}
	if c.Model == "" {
		errs = append(errs, errors.New("model is required"))
	}
	if c.Package == "" {
		errs = append(errs, errors.New("package is required"))
	} else if !token.IsIdentifier(c.Package) {
		errs = append(errs, fmt.Errorf("package %q is not a valid identifier", c.Package))
	}
	if _, err := symbol.ParseTarget(c.target()); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Config) target() string {
	if c.Target == "" {
		return "validating"
	}
	return c.Target
}

// Mode returns the generation mode the config selects. Call Validate first.
func (c *Config) Mode() symbol.Mode {
	t, _ := symbol.ParseTarget(c.target())
	public := true
	if c.PublicConstrainedTypes != nil {
		public = *c.PublicConstrainedTypes
	}
	return symbol.Mode{Target: t, PublicConstrainedTypes: public}
}

// ModelPath returns the model path resolved against the config directory.
func (c *Config) ModelPath() string { return c.resolve(c.Model) }

// OutputDir returns the output directory, defaulting to the config
// directory.
func (c *Config) OutputDir() string {
	if c.Output == "" {
		return c.resolve(".")
	}
	return c.resolve(c.Output)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}
