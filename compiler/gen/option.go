package gen

import (
	"errors"
)

// Option configures code generation.
type Option func(*Config) error

// WithPackage sets the package name of the generated code.
// For example: "api".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithTarget sets the output directory.
// The directory where generated code will be written.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithSystemFields declares fields whose values come from the serving
// environment rather than from request payloads. System fields never
// appear in generated input, query, or filter shapes.
func WithSystemFields(names ...string) Option {
	return func(c *Config) error {
		for _, name := range names {
			if name == "" {
				return NewConfigError("SystemFields", nil, "system field name cannot be empty")
			}
		}
		c.SystemFields = names
		return nil
	}
}

// WithSchemas restricts generation to entities tagged with one of the
// given namespaces (@@schema).
func WithSchemas(names ...string) Option {
	return func(c *Config) error {
		c.Schemas = names
		return nil
	}
}

// WithWorkers bounds the number of entities emitted concurrently.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewConfigError("Workers", n, "must be at least 1")
		}
		c.Workers = n
		return nil
	}
}

// WithIDFallback sets the field name that serves as the record
// identifier when an entity declares none. Passing "" disables the
// fallback, leaving such entities unkeyed.
func WithIDFallback(name string) Option {
	return func(c *Config) error {
		c.IDFallback = name
		return nil
	}
}

// WithFeatures enables specific features.
// Features control optional code generation capabilities.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		c.Features = append(c.Features, features...)
		return nil
	}
}

// WithFeatureNames enables features by name, as listed in a config file.
func WithFeatureNames(names ...string) Option {
	return func(c *Config) error {
		for _, name := range names {
			f, ok := FeatureByName(name)
			if !ok {
				return NewConfigError("Features", name, "unknown feature")
			}
			c.Features = append(c.Features, f)
		}
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
// Defaults are applied first, then the options, and the result is
// validated.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Package:    DefaultPackage,
		Workers:    DefaultWorkers,
		IDFallback: DefaultIDFallback,
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
