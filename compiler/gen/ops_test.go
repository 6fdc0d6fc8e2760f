package gen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tomaszdurka/prismarest/compiler/load"
)

func scalarField(t *testing.T, name, typ string) *Field {
	t.Helper()
	owner := newTestType(t, MustNewConfig(), &load.Entity{
		Name:   "Probe",
		Fields: []*load.Field{{Name: name, Type: typ, Kind: load.KindScalar}},
	})
	return owner.Field(name)
}

func TestQueryOps(t *testing.T) {
	require := require.New(t)

	require.Equal([]Op{OpEQ}, QueryOps(scalarField(t, "title", load.TypeString)))
	require.Equal([]Op{OpEQ, OpGTE, OpLTE}, QueryOps(scalarField(t, "age", load.TypeInt)))
	require.Equal([]Op{OpEQ, OpGTE, OpLTE}, QueryOps(scalarField(t, "price", load.TypeDecimal)))
	require.Equal([]Op{OpGTE, OpLTE}, QueryOps(scalarField(t, "createdAt", load.TypeDateTime)),
		"timestamps never filter by equality in the flat shape")
	require.Equal([]Op{OpEQ}, QueryOps(scalarField(t, "active", load.TypeBoolean)))

	// Identifier-like names compare by equality only, whatever the type.
	require.Equal([]Op{OpEQ}, QueryOps(scalarField(t, "id", load.TypeDateTime)))
	require.Equal([]Op{OpEQ}, QueryOps(scalarField(t, "authorId", load.TypeInt)))

	require.Empty(QueryOps(scalarField(t, "payload", load.TypeJSON)))
	require.Empty(QueryOps(scalarField(t, "blob", load.TypeBytes)))

	enum := newTestType(t, MustNewConfig(), &load.Entity{
		Name:   "Probe",
		Fields: []*load.Field{{Name: "role", Type: "Role", Kind: load.KindEnum}},
	})
	require.Equal([]Op{OpEQ}, QueryOps(enum.Field("role")))
}

func TestFilterOps(t *testing.T) {
	require := require.New(t)

	require.Equal([]Op{OpEQ, OpNEQ, OpIn, OpNotIn, OpContains, OpStartsWith, OpEndsWith},
		FilterOps(scalarField(t, "title", load.TypeString)))
	require.Equal([]Op{OpEQ, OpNEQ, OpIn, OpNotIn, OpGT, OpGTE, OpLT, OpLTE},
		FilterOps(scalarField(t, "age", load.TypeInt)))
	require.Equal([]Op{OpEQ, OpNEQ, OpIn, OpNotIn, OpGT, OpGTE, OpLT, OpLTE},
		FilterOps(scalarField(t, "createdAt", load.TypeDateTime)))
	require.Equal([]Op{OpEQ, OpNEQ}, FilterOps(scalarField(t, "active", load.TypeBoolean)))

	enum := newTestType(t, MustNewConfig(), &load.Entity{
		Name:   "Probe",
		Fields: []*load.Field{{Name: "role", Type: "Role", Kind: load.KindEnum}},
	})
	require.Equal([]Op{OpEQ, OpNEQ, OpIn, OpNotIn}, FilterOps(enum.Field("role")))
}

func TestOpNames(t *testing.T) {
	require := require.New(t)
	require.Equal("equals", OpEQ.Name())
	require.Equal("not", OpNEQ.Name())
	require.Equal("notIn", OpNotIn.Name())
	require.Equal("startsWith", OpStartsWith.Name())
	require.Equal("NotIn", OpNotIn.StructField())
	require.Equal("StartsWith", OpStartsWith.StructField())
	require.Equal("Gte", OpGTE.StructField())
	require.True(OpIn.Variadic())
	require.True(OpNotIn.Variadic())
	require.False(OpEQ.Variadic())
}

func TestParamName(t *testing.T) {
	require := require.New(t)
	f := scalarField(t, "createdAt", load.TypeDateTime)
	require.Equal("createdAt", f.ParamName(OpEQ))
	require.Equal("createdAtGte", f.ParamName(OpGTE))
	require.Equal("createdAtLte", f.ParamName(OpLTE))
}

func TestQueryParams(t *testing.T) {
	require := require.New(t)
	user := newTestType(t, MustNewConfig(), blogSchema().Entity("User"))

	params := user.QueryParams()
	byName := make(map[string][]Op, len(params))
	for _, p := range params {
		byName[p.Field.Name] = p.Ops
	}
	require.Equal([]Op{OpEQ}, byName["id"])
	require.Equal([]Op{OpEQ}, byName["email"])
	require.Equal([]Op{OpEQ}, byName["role"])
	require.Equal([]Op{OpEQ, OpGTE, OpLTE}, byName["age"])
	require.Equal([]Op{OpGTE, OpLTE}, byName["createdAt"])
	require.NotContains(byName, "settings", "documents are not flat-filterable")
	require.NotContains(byName, "posts", "relations are not flat-filterable")
}

func TestFilterFields(t *testing.T) {
	require := require.New(t)
	user := newTestType(t, MustNewConfig(), blogSchema().Entity("User"))

	names := shapeNames(user.FilterFields())
	require.Equal([]string{"id", "email", "name", "role", "age", "createdAt", "updatedAt"}, names)
	for _, s := range user.FilterFields() {
		require.True(s.Optional)
	}
}
