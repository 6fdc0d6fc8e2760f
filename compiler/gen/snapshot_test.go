package gen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundtrip(t *testing.T) {
	require := require.New(t)
	c := &Config{Target: t.TempDir()}
	schema := blogSchema()

	require.NoError(writeSnapshot(c, schema))

	prev, err := ReadSnapshot(c)
	require.NoError(err)
	require.Len(prev.Entities, 2)
	require.Equal("User", prev.Entities[0].Name)
	require.Equal([]string{"authorId"}, prev.Entity("Post").Field("author").Relation.Fields)
}

func TestReadSnapshotMissing(t *testing.T) {
	prev, err := ReadSnapshot(&Config{Target: t.TempDir()})
	require.NoError(t, err)
	require.Nil(t, prev)
}

func TestSchemaChanged(t *testing.T) {
	require := require.New(t)
	c := &Config{Target: t.TempDir()}

	changed, err := SchemaChanged(c, blogSchema())
	require.NoError(err)
	require.True(changed, "a missing snapshot counts as changed")

	require.NoError(writeSnapshot(c, blogSchema()))

	changed, err = SchemaChanged(c, blogSchema())
	require.NoError(err)
	require.False(changed)

	next := blogSchema()
	next.Entity("User").Fields = next.Entity("User").Fields[1:]
	changed, err = SchemaChanged(c, next)
	require.NoError(err)
	require.True(changed)
}
