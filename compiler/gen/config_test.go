package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	c := MustNewConfig()
	assert.Equal(t, DefaultPackage, c.Package)
	assert.Equal(t, DefaultWorkers, c.Workers)
	assert.Equal(t, DefaultIDFallback, c.IDFallback)
	assert.Empty(t, c.SystemFields)
}

func TestIsSystemField(t *testing.T) {
	c := MustNewConfig(WithSystemFields("tenantId", "orgId"))
	assert.True(t, c.IsSystemField("tenantId"))
	assert.True(t, c.IsSystemField("orgId"))
	assert.False(t, c.IsSystemField("id"))
}

func TestConfigFeatureEnabled(t *testing.T) {
	t.Run("default features", func(t *testing.T) {
		c := MustNewConfig()
		assert.True(t, c.FeatureEnabled(FeatureFlatQuery))
		assert.True(t, c.FeatureEnabled(FeatureNestedFilter))
		assert.True(t, c.FeatureEnabled(FeatureHTTP))
		assert.False(t, c.FeatureEnabled(FeatureSnapshot))
	})

	t.Run("opt-in", func(t *testing.T) {
		c := MustNewConfig(WithFeatures(FeatureSnapshot))
		assert.True(t, c.FeatureEnabled(FeatureSnapshot))
	})

	t.Run("by name", func(t *testing.T) {
		c := MustNewConfig(WithFeatureNames("gen/snapshot"))
		assert.True(t, c.FeatureEnabled(FeatureSnapshot))
	})
}

func TestFeatureByName(t *testing.T) {
	for _, f := range AllFeatures {
		got, ok := FeatureByName(f.Name)
		require.True(t, ok)
		require.Equal(t, f.Name, got.Name)
	}
	_, ok := FeatureByName("gen/teleport")
	require.False(t, ok)
}

func TestLoadFileConfig(t *testing.T) {
	require := require.New(t)
	path := filepath.Join(t.TempDir(), "prismarest.yaml")
	require.NoError(os.WriteFile(path, []byte(`schema: prisma/schema.prisma
out: internal/api
package: api
systemFields: [tenantId]
workers: 8
features: [gen/snapshot]
idFallback: uid
`), 0o644))

	fc, err := LoadFileConfig(path)
	require.NoError(err)
	require.Equal("prisma/schema.prisma", fc.SchemaPath)
	require.Equal("internal/api", fc.Target)
	require.Equal(8, fc.Workers)

	opts, err := fc.Options()
	require.NoError(err)
	c, err := NewConfig(opts...)
	require.NoError(err)
	require.Equal("internal/api", c.Target)
	require.Equal([]string{"tenantId"}, c.SystemFields)
	require.Equal(8, c.Workers)
	require.True(c.FeatureEnabled(FeatureSnapshot))
	require.Equal("uid", c.IDFallback)
}

func TestLoadFileConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFileConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.ErrorContains(t, err, "open config")
	})

	t.Run("unknown key", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prismarest.yaml")
		require.NoError(t, os.WriteFile(path, []byte("outt: api\n"), 0o644))
		_, err := LoadFileConfig(path)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("unknown feature", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prismarest.yaml")
		require.NoError(t, os.WriteFile(path, []byte("features: [gen/teleport]\n"), 0o644))
		fc, err := LoadFileConfig(path)
		require.NoError(t, err)
		_, err = fc.Options()
		require.ErrorIs(t, err, ErrInvalidConfig)
		assert.ErrorContains(t, err, "unknown feature")
	})
}
