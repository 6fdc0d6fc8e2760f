package gen

import "strings"

// An Op is a filter operator exposed by generated query and filter
// shapes.
type Op int

const (
	// OpEQ matches values equal to the operand.
	OpEQ Op = iota
	// OpNEQ matches values different from the operand.
	OpNEQ
	// OpIn matches values contained in the operand list.
	OpIn
	// OpNotIn matches values not contained in the operand list.
	OpNotIn
	// OpGT matches values above the operand.
	OpGT
	// OpGTE matches values above or equal to the operand.
	OpGTE
	// OpLT matches values below the operand.
	OpLT
	// OpLTE matches values below or equal to the operand.
	OpLTE
	// OpContains matches strings containing the operand.
	OpContains
	// OpStartsWith matches strings beginning with the operand.
	OpStartsWith
	// OpEndsWith matches strings ending with the operand.
	OpEndsWith
)

// opNames holds the wire names of the operators, as they appear in query
// parameters and filter documents.
var opNames = [...]string{
	OpEQ:         "equals",
	OpNEQ:        "not",
	OpIn:         "in",
	OpNotIn:      "notIn",
	OpGT:         "gt",
	OpGTE:        "gte",
	OpLT:         "lt",
	OpLTE:        "lte",
	OpContains:   "contains",
	OpStartsWith: "startsWith",
	OpEndsWith:   "endsWith",
}

// Name returns the wire name of the operator.
func (op Op) Name() string {
	return opNames[op]
}

// StructField returns the Go field name of the operator in generated
// filter structs.
func (op Op) StructField() string {
	return pascal(opNames[op])
}

// Variadic indicates if the operator takes a list operand.
func (op Op) Variadic() bool {
	return op == OpIn || op == OpNotIn
}

// ParamName returns the flat query parameter carrying the operator for
// the field. Equality uses the bare field name, the other operators
// append their own: "createdAt" filters equality, "createdAtGte" the
// lower bound.
func (f *Field) ParamName(op Op) string {
	if op == OpEQ {
		return f.Name
	}
	return f.Name + pascal(opNames[op])
}

// QueryOps returns the operators the flat query shape exposes for the
// field. Identifier-like names, the literal "id" or an "Id" suffix,
// compare by equality only whatever their underlying type, and so do
// enums. Types outside the table are not flat-filterable.
func QueryOps(f *Field) []Op {
	switch {
	case f.Name == "id" || strings.HasSuffix(f.Name, "Id"):
		return []Op{OpEQ}
	case f.IsEnum():
		return []Op{OpEQ}
	case f.IsNumeric():
		return []Op{OpEQ, OpGTE, OpLTE}
	case f.IsTime():
		return []Op{OpGTE, OpLTE}
	case f.IsString(), f.IsBool():
		return []Op{OpEQ}
	}
	return nil
}

// FilterOps returns the complete operator set the nested filter shape
// exposes for the field's type.
func FilterOps(f *Field) []Op {
	switch {
	case f.IsEnum():
		return []Op{OpEQ, OpNEQ, OpIn, OpNotIn}
	case f.IsString():
		return []Op{OpEQ, OpNEQ, OpIn, OpNotIn, OpContains, OpStartsWith, OpEndsWith}
	case f.IsNumeric(), f.IsTime():
		return []Op{OpEQ, OpNEQ, OpIn, OpNotIn, OpGT, OpGTE, OpLT, OpLTE}
	case f.IsBool():
		return []Op{OpEQ, OpNEQ}
	}
	return nil
}

// QueryParam is one parameter of the flat query shape.
type QueryParam struct {
	// Field is the filtered field.
	Field *Field
	// Ops holds the operators exposed for the field, in table order.
	Ops []Op
}

// QueryParams returns the flat query shape of the entity: one entry per
// filterable field carrying the restricted operator set of its type.
func (t *Type) QueryParams() []QueryParam {
	var params []QueryParam
	for _, f := range t.Fields {
		if !t.filterable(f) {
			continue
		}
		ops := QueryOps(f)
		if len(ops) == 0 {
			continue
		}
		params = append(params, QueryParam{Field: f, Ops: ops})
	}
	return params
}

// FilterFields returns the fields of the nested filter shape, in
// declaration order. Every filter member is optional.
func (t *Type) FilterFields() []Shape {
	var shapes []Shape
	for _, f := range t.Fields {
		if !t.filterable(f) || len(FilterOps(f)) == 0 {
			continue
		}
		shapes = append(shapes, Shape{Field: f, Optional: true, Rep: f.Rep()})
	}
	return shapes
}

// filterable reports whether the field can appear in a query or filter
// shape at all. System fields, relations, lists, documents, and raw
// bytes are not filterable.
func (t *Type) filterable(f *Field) bool {
	switch {
	case t.IsSystemField(f.Name):
		return false
	case f.IsRelation(), f.List, f.IsJSON(), f.IsBytes():
		return false
	}
	return true
}
