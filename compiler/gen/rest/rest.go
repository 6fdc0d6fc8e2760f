// Package rest renders the generated API layer: one model, input,
// query, filter, service, and handler file per entity, plus the shared
// enum, document, and wiring files spanning the schema.
//
// Every emitter builds its file with Jennifer and hands it back as a
// gen.File; the generator owns writing and cleanup. Emitters tied to a
// feature flag implement gen.FeatureEmitter and are skipped when the
// feature is disabled, which also removes their files from the target
// on the next run.
package rest

import (
	"github.com/dave/jennifer/jen"

	"github.com/tomaszdurka/prismarest/compiler/gen"
	"github.com/tomaszdurka/prismarest/compiler/load"
)

// Import paths of the packages the generated code depends on.
const (
	rootPkg    = "github.com/tomaszdurka/prismarest"
	dialectPkg = "github.com/tomaszdurka/prismarest/dialect"
	filterPkg  = "github.com/tomaszdurka/prismarest/filter"
	httpPkg    = "github.com/tomaszdurka/prismarest/httpapi"
	ginPkg     = "github.com/gin-gonic/gin"
	pqPkg      = "github.com/lib/pq"
)

// Emitters returns the full emitter set of the REST target, in the
// order their files are reported.
func Emitters() []gen.Emitter {
	return []gen.Emitter{
		ModelEmitter{},
		InputEmitter{},
		QueryEmitter{},
		FilterEmitter{},
		ServiceEmitter{},
		HandlerEmitter{},
		ModuleEmitter{},
		RoutesEmitter{},
		EnumEmitter{},
		DtoEmitter{},
	}
}

// goType returns the Go type carrying a single value of the field.
func goType(f *gen.Field) jen.Code {
	if f.IsEnum() {
		return jen.Id(f.EnumName())
	}
	switch f.Type {
	case load.TypeInt:
		return jen.Int()
	case load.TypeBigInt:
		return jen.Int64()
	case load.TypeFloat, load.TypeDecimal:
		return jen.Float64()
	case load.TypeBoolean:
		return jen.Bool()
	case load.TypeDateTime:
		return jen.Qual("time", "Time")
	case load.TypeJSON:
		return jen.Id(f.DtoName())
	case load.TypeBytes:
		return jen.Index().Byte()
	}
	return jen.String()
}

// fieldType is goType with the list dimension applied.
func fieldType(f *gen.Field) jen.Code {
	if f.List {
		return jen.Index().Add(goType(f))
	}
	return goType(f)
}

// shapeType returns the type a payload carries the shaped field as.
// Optional fields become pointers; lists and byte slices already have a
// nil state and stay as they are.
func shapeType(sh gen.Shape) jen.Code {
	t := fieldType(sh.Field)
	if sh.Optional && nillable(sh.Field) {
		return t
	}
	if sh.Optional {
		return jen.Op("*").Add(t)
	}
	return t
}

// nillable reports whether the field's Go type can express absence
// without a pointer wrapper.
func nillable(f *gen.Field) bool {
	return f.List || f.Type == load.TypeBytes
}

// filterType returns the filter operator struct matching the field's
// type.
func filterType(f *gen.Field) jen.Code {
	if f.IsEnum() {
		return jen.Qual(filterPkg, "Enum").Index(jen.Id(f.EnumName()))
	}
	switch f.Type {
	case load.TypeInt, load.TypeBigInt:
		return jen.Qual(filterPkg, "Int")
	case load.TypeFloat, load.TypeDecimal:
		return jen.Qual(filterPkg, "Float")
	case load.TypeBoolean:
		return jen.Qual(filterPkg, "Bool")
	case load.TypeDateTime:
		return jen.Qual(filterPkg, "Time")
	}
	return jen.Qual(filterPkg, "String")
}

// modelFields returns the persisted fields of the entity: every scalar,
// enum, and document field that is not a configured system field.
// Relations stay virtual and system fields never leave the server, so
// neither appears in the model struct or its column list.
func modelFields(t *gen.Type) []*gen.Field {
	var out []*gen.Field
	for _, f := range t.Fields {
		if f.IsRelation() || t.IsSystemField(f.Name) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// systemFields returns the entity's configured system fields, in
// declaration order.
func systemFields(t *gen.Type) []*gen.Field {
	var out []*gen.Field
	for _, f := range t.Fields {
		if !f.IsRelation() && t.IsSystemField(f.Name) {
			out = append(out, f)
		}
	}
	return out
}

// columnsVar returns the name of the generated column list variable.
func columnsVar(t *gen.Type) string {
	return gen.Camel(t.Name) + "Columns"
}

// tableConst returns the name of the generated table name constant.
func tableConst(t *gen.Type) string {
	return t.StructName() + "Table"
}

// columnNames returns the column names of the fields.
func columnNames(fields []*gen.Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Column()
	}
	return names
}

// keyed reports whether the entity has client-addressable records.
// Entities without identifier fields only expose collection endpoints.
func keyed(t *gen.Type) bool {
	return len(t.IdentifierFields()) > 0
}
