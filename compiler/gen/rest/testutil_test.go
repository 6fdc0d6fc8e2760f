package rest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tomaszdurka/prismarest/compiler/gen"
	"github.com/tomaszdurka/prismarest/compiler/load"
)

// blogSchema builds the schema the emitter tests render: a User/Post
// pair exercising generated identifiers, enums, documents, lists,
// defaults, timestamps, and an owning relation.
func blogSchema() *load.Schema {
	return &load.Schema{
		Enums: []*load.Enum{
			{Name: "Role", Values: []string{"ADMIN", "MEMBER"}},
		},
		Entities: []*load.Entity{
			{
				Name: "User",
				Fields: []*load.Field{
					{Name: "id", Type: load.TypeString, Kind: load.KindScalar, ID: true, Default: true, DefaultExpr: "uuid()"},
					{Name: "email", Type: load.TypeString, Kind: load.KindScalar, Unique: true},
					{Name: "name", Type: load.TypeString, Kind: load.KindScalar, Optional: true},
					{Name: "role", Type: "Role", Kind: load.KindEnum, Default: true, DefaultExpr: "MEMBER"},
					{Name: "settings", Type: load.TypeJSON, Kind: load.KindScalar, Optional: true},
					{Name: "tags", Type: load.TypeString, Kind: load.KindScalar, List: true},
					{Name: "age", Type: load.TypeInt, Kind: load.KindScalar, Optional: true},
					{Name: "createdAt", Type: load.TypeDateTime, Kind: load.KindScalar, Default: true, DefaultExpr: "now()"},
					{Name: "updatedAt", Type: load.TypeDateTime, Kind: load.KindScalar, UpdatedAt: true},
					{Name: "posts", Type: "Post", Kind: load.KindObject, List: true},
				},
			},
			{
				Name: "Post",
				Fields: []*load.Field{
					{Name: "id", Type: load.TypeInt, Kind: load.KindScalar, ID: true, Default: true, DefaultExpr: "autoincrement()"},
					{Name: "title", Type: load.TypeString, Kind: load.KindScalar},
					{Name: "published", Type: load.TypeBoolean, Kind: load.KindScalar, Default: true, DefaultExpr: "false"},
					{Name: "author", Type: "User", Kind: load.KindObject, Relation: &load.Relation{Fields: []string{"authorId"}, References: []string{"id"}}},
					{Name: "authorId", Type: load.TypeString, Kind: load.KindScalar, ReadOnly: true},
				},
			},
		},
	}
}

// orderSchema builds an OrderItem entity with a composite key, one
// writable and one read-only relation.
func orderSchema() *load.Schema {
	return &load.Schema{
		Entities: []*load.Entity{
			{Name: "Order", Fields: []*load.Field{
				{Name: "id", Type: load.TypeInt, Kind: load.KindScalar, ID: true, Default: true, DefaultExpr: "autoincrement()"},
			}},
			{Name: "Product", Fields: []*load.Field{
				{Name: "id", Type: load.TypeInt, Kind: load.KindScalar, ID: true, Default: true, DefaultExpr: "autoincrement()"},
			}},
			{
				Name:       "OrderItem",
				PrimaryKey: []string{"orderId", "productId"},
				Fields: []*load.Field{
					{Name: "order", Type: "Order", Kind: load.KindObject, Relation: &load.Relation{Fields: []string{"orderId"}, References: []string{"id"}}},
					{Name: "orderId", Type: load.TypeInt, Kind: load.KindScalar, ReadOnly: true},
					{Name: "product", Type: "Product", Kind: load.KindObject, ReadOnly: true, Relation: &load.Relation{Fields: []string{"productId"}, References: []string{"id"}}},
					{Name: "productId", Type: load.TypeInt, Kind: load.KindScalar, ReadOnly: true},
					{Name: "qty", Type: load.TypeInt, Kind: load.KindScalar},
				},
			},
		},
	}
}

// tenantSchema builds a multi-tenant User whose composite key includes
// the server-injected tenant field.
func tenantSchema() *load.Schema {
	return &load.Schema{Entities: []*load.Entity{{
		Name:       "User",
		PrimaryKey: []string{"tenantId", "id"},
		Fields: []*load.Field{
			{Name: "tenantId", Type: load.TypeString, Kind: load.KindScalar},
			{Name: "id", Type: load.TypeString, Kind: load.KindScalar, Default: true, DefaultExpr: "uuid()"},
			{Name: "email", Type: load.TypeString, Kind: load.KindScalar, Unique: true},
		},
	}}}
}

func testType(t *testing.T, c *gen.Config, entity *load.Entity) *gen.Type {
	t.Helper()
	typ, err := gen.NewType(c, entity)
	require.NoError(t, err)
	return typ
}

func testGraph(t *testing.T, c *gen.Config, schema *load.Schema) *gen.Graph {
	t.Helper()
	g, err := gen.NewGraph(c, schema)
	require.NoError(t, err)
	return g
}

// blogType renders the named blog entity under a default config.
func blogType(t *testing.T, name string) *gen.Type {
	t.Helper()
	return testType(t, gen.MustNewConfig(), blogSchema().Entity(name))
}

// tenantType builds the tenant User with tenantId configured as a
// system field.
func tenantType(t *testing.T) *gen.Type {
	t.Helper()
	c := gen.MustNewConfig(gen.WithSystemFields("tenantId"))
	return testType(t, c, tenantSchema().Entity("User"))
}

// renderEntity runs the emitter over the entity and returns the
// rendered source. Rendering fails on code the compiler would reject,
// so every call doubles as a syntax check.
func renderEntity(t *testing.T, e gen.EntityEmitter, typ *gen.Type) string {
	t.Helper()
	files, err := e.EmitEntity(typ)
	require.NoError(t, err)
	require.Len(t, files, 1)
	return string(files[0].Buf)
}

// renderShared runs the emitter over the graph and returns the rendered
// sources by path.
func renderShared(t *testing.T, e gen.SharedEmitter, g *gen.Graph) map[string]string {
	t.Helper()
	files, err := e.EmitShared(g)
	require.NoError(t, err)
	out := make(map[string]string, len(files))
	for _, f := range files {
		out[f.Path] = string(f.Buf)
	}
	return out
}
