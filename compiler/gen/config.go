package gen

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	// DefaultPackage is the package name of the generated code.
	DefaultPackage = "api"
	// DefaultWorkers bounds concurrent per-entity emission.
	DefaultWorkers = 4
	// DefaultIDFallback is the field name serving as the record
	// identifier when an entity declares none.
	DefaultIDFallback = "id"
)

// Config holds the settings of a generation run. Build it with NewConfig
// and the With* options; the zero value is not usable directly.
type Config struct {
	// Package is the name of the generated package.
	Package string

	// Target is the directory generated files are written to.
	Target string

	// Header overrides the default header comment of generated files.
	Header string

	// SystemFields lists field names whose values are supplied by the
	// serving environment on every operation (e.g. "tenantId"). System
	// fields are excluded from every generated artifact's field set,
	// before any other rule applies, and are injected server-side where a
	// composite key requires them.
	SystemFields []string

	// Schemas restricts generation to entities whose namespace tag
	// (@@schema) is in the list. Empty means every entity.
	Schemas []string

	// Workers bounds the number of entities emitted concurrently.
	Workers int

	// Features lists explicitly enabled features, in addition to the
	// defaults.
	Features []Feature

	// IDFallback is the field name serving as the record identifier when
	// an entity declares neither @id nor a composite key. Empty disables
	// the fallback.
	IDFallback string
}

// IsSystemField reports whether name is configured as a system field.
func (c *Config) IsSystemField(name string) bool {
	return slices.Contains(c.SystemFields, name)
}

// FeatureEnabled reports whether the feature is default-enabled or listed
// in Features.
func (c *Config) FeatureEnabled(f Feature) bool {
	if f.Default {
		return true
	}
	return slices.ContainsFunc(c.Features, func(e Feature) bool {
		return e.Name == f.Name
	})
}

// validate checks the configuration before a generation run.
func (c *Config) validate() error {
	if c.Package == "" {
		return NewConfigError("Package", nil, "package cannot be empty")
	}
	if strings.ContainsAny(c.Package, " ./\\-") {
		return NewConfigError("Package", c.Package, "not a valid package identifier")
	}
	if c.Workers < 1 {
		return NewConfigError("Workers", c.Workers, "must be at least 1")
	}
	for _, name := range c.SystemFields {
		if name == "" {
			return NewConfigError("SystemFields", nil, "system field name cannot be empty")
		}
	}
	return nil
}

// FileConfig is the YAML form of a generation run, as read from a
// prismarest.yaml file:
//
//	schema: prisma/schema.prisma
//	out: internal/api
//	package: api
//	systemFields: [tenantId]
//	features: [gen/snapshot]
type FileConfig struct {
	// SchemaPath locates the schema source, relative to the config file's
	// directory unless absolute.
	SchemaPath string `yaml:"schema"`

	Target       string   `yaml:"out"`
	Package      string   `yaml:"package"`
	Header       string   `yaml:"header"`
	SystemFields []string `yaml:"systemFields"`
	Schemas      []string `yaml:"schemas"`
	Workers      int      `yaml:"workers"`
	Features     []string `yaml:"features"`
	IDFallback   string   `yaml:"idFallback"`
}

// LoadFileConfig reads and decodes a YAML config file. Unknown keys are
// rejected.
func LoadFileConfig(path string) (*FileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("prismarest: open config: %w", err)
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	fc := &FileConfig{}
	if err := dec.Decode(fc); err != nil {
		return nil, NewConfigError("Config", path, err.Error())
	}
	return fc, nil
}

// Options translates the file configuration into generator options,
// skipping unset values so that defaults and later options still apply.
func (fc *FileConfig) Options() ([]Option, error) {
	var opts []Option
	if fc.Package != "" {
		opts = append(opts, WithPackage(fc.Package))
	}
	if fc.Target != "" {
		opts = append(opts, WithTarget(fc.Target))
	}
	if fc.Header != "" {
		opts = append(opts, WithHeader(fc.Header))
	}
	if len(fc.SystemFields) > 0 {
		opts = append(opts, WithSystemFields(fc.SystemFields...))
	}
	if len(fc.Schemas) > 0 {
		opts = append(opts, WithSchemas(fc.Schemas...))
	}
	if fc.Workers != 0 {
		opts = append(opts, WithWorkers(fc.Workers))
	}
	if fc.IDFallback != "" {
		opts = append(opts, WithIDFallback(fc.IDFallback))
	}
	if len(fc.Features) > 0 {
		features := make([]Feature, 0, len(fc.Features))
		for _, name := range fc.Features {
			f, ok := FeatureByName(name)
			if !ok {
				return nil, NewConfigError("Features", name, "unknown feature")
			}
			features = append(features, f)
		}
		opts = append(opts, WithFeatures(features...))
	}
	return opts, nil
}
