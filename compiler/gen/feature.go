package gen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FeatureStage describes the maturity of a generation feature.
type FeatureStage int

const (
	// Experimental features are in development and may change or be
	// removed.
	Experimental FeatureStage = iota
	// Alpha features are complete but not battle-tested.
	Alpha
	// Beta features are ready for use but still opt-in.
	Beta
	// Stable features are enabled by default.
	Stable
)

// String returns the stage name.
func (s FeatureStage) String() string {
	switch s {
	case Experimental:
		return "experimental"
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case Stable:
		return "stable"
	default:
		return fmt.Sprintf("FeatureStage(%d)", int(s))
	}
}

// Feature is an optional generation capability.
type Feature struct {
	// Name is the flag used to enable the feature from the CLI or the
	// config file.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default reports whether the feature is enabled without being listed
	// in Config.Features.
	Default bool

	// Description is a short human-readable summary.
	Description string

	// cleanup removes artifacts of the feature when it is disabled.
	cleanup func(c *Config) error
}

var (
	// FeatureFlatQuery generates the single-level query parameter DTO with
	// the restricted per-type operator set.
	FeatureFlatQuery = Feature{
		Name:        "query/flat",
		Stage:       Stable,
		Default:     true,
		Description: "single-level query parameters with per-type operators",
	}

	// FeatureNestedFilter generates the recursively composable filter DTO
	// with AND/OR/NOT support.
	FeatureNestedFilter = Feature{
		Name:        "filter/nested",
		Stage:       Stable,
		Default:     true,
		Description: "recursive filter DTOs with boolean composition",
	}

	// FeatureHTTP generates gin handlers and route wiring on top of the
	// service layer.
	FeatureHTTP = Feature{
		Name:        "http/handlers",
		Stage:       Stable,
		Default:     true,
		Description: "HTTP handlers and module wiring",
	}

	// FeatureSnapshot records a generation snapshot and skips regeneration
	// when schema and configuration are unchanged.
	FeatureSnapshot = Feature{
		Name:        "gen/snapshot",
		Stage:       Beta,
		Default:     false,
		Description: "skip regeneration for unchanged inputs",
		cleanup: func(c *Config) error {
			err := os.Remove(filepath.Join(c.Target, snapshotFile))
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		},
	}
)

// AllFeatures lists every known feature.
var AllFeatures = []Feature{
	FeatureFlatQuery,
	FeatureNestedFilter,
	FeatureHTTP,
	FeatureSnapshot,
}

// FeatureByName returns the feature with the given name.
func FeatureByName(name string) (Feature, bool) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}
