package rest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomaszdurka/prismarest/compiler/gen"
	"github.com/tomaszdurka/prismarest/compiler/load"
)

func TestDtoCompanion(t *testing.T) {
	g := testGraph(t, gen.MustNewConfig(), blogSchema())
	files, err := DtoEmitter{}.EmitShared(g)
	require.NoError(t, err)
	require.Len(t, files, 1)

	f := files[0]
	assert.Equal(t, "settings_dto.go", f.Path)
	assert.True(t, f.Once, "companion files must never be overwritten")

	code := string(f.Buf)
	assert.Contains(t, code, "Code generated once by prismarest")
	assert.NotContains(t, code, "DO NOT EDIT")
	assert.Contains(t, code, "type SettingsDto map[string]any")
	assert.Contains(t, code, "func (d *SettingsDto) Scan(src any) error")
	assert.Contains(t, code, "return json.Unmarshal(v, d)")
	assert.Contains(t, code, "func (d SettingsDto) Value() (driver.Value, error)")
}

// Two fields with the same name share one companion type, declared by
// whichever entity comes first.
func TestDtoDedupe(t *testing.T) {
	schema := &load.Schema{Entities: []*load.Entity{
		{Name: "User", Fields: []*load.Field{
			{Name: "id", Type: load.TypeString, Kind: load.KindScalar, ID: true},
			{Name: "settings", Type: load.TypeJSON, Kind: load.KindScalar, Optional: true},
		}},
		{Name: "Team", Fields: []*load.Field{
			{Name: "id", Type: load.TypeString, Kind: load.KindScalar, ID: true},
			{Name: "settings", Type: load.TypeJSON, Kind: load.KindScalar, Optional: true},
			{Name: "meta", Type: load.TypeJSON, Kind: load.KindScalar, Optional: true},
		}},
	}}
	g := testGraph(t, gen.MustNewConfig(), schema)
	files, err := DtoEmitter{}.EmitShared(g)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "settings_dto.go", files[0].Path)
	assert.Equal(t, "meta_dto.go", files[1].Path)
}

func TestDtoNoneEmitsNothing(t *testing.T) {
	g := testGraph(t, gen.MustNewConfig(), orderSchema())
	files, err := DtoEmitter{}.EmitShared(g)
	require.NoError(t, err)
	assert.Empty(t, files)
}
