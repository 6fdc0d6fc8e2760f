package gen

import (
	"slices"
	"strings"
)

// decision is the outcome of evaluating a single inclusion rule for a
// field.
type decision int

const (
	// skipRule indicates the rule does not apply and evaluation moves
	// to the next rule.
	skipRule decision = iota
	// includeField indicates the field joins the shape.
	includeField
	// excludeField indicates the field is dropped from the shape.
	excludeField
)

// A fieldRule decides whether a field joins a generated input shape.
// Rules are evaluated in precedence order and the first non-skip
// decision wins.
type fieldRule func(f *Field, forUpdate bool) decision

// inputRules is the inclusion policy for the create and update payload
// shapes, in precedence order.
var inputRules = []fieldRule{
	systemFieldRule,
	autoTimestampRule,
	generatedIdentifierRule,
	relationRule,
	readOnlyRule,
}

// evalInput runs the inclusion rules over a field. A field no rule
// claims is included.
func evalInput(f *Field, forUpdate bool) decision {
	for _, rule := range inputRules {
		if d := rule(f, forUpdate); d != skipRule {
			return d
		}
	}
	return includeField
}

// systemFieldRule excludes fields whose values the serving environment
// injects. It runs first and overrules every other rule.
func systemFieldRule(f *Field, _ bool) decision {
	if f.typ.IsSystemField(f.Name) {
		return excludeField
	}
	return skipRule
}

// autoTimestampRule excludes store-maintained timestamps (@updatedAt).
func autoTimestampRule(f *Field, _ bool) decision {
	if f.IsUpdatedAt() {
		return excludeField
	}
	return skipRule
}

// generatedIdentifierRule excludes auto-generated identifiers from the
// creation payload. The field stays addressable through the key shape.
func generatedIdentifierRule(f *Field, forUpdate bool) decision {
	if f.IsID() && f.HasDefault() && !forUpdate {
		return excludeField
	}
	return skipRule
}

// relationRule excludes relation fields. Only their foreign-key scalars
// are client-settable.
func relationRule(f *Field, _ bool) decision {
	if f.IsRelation() {
		return excludeField
	}
	return skipRule
}

// readOnlyRule resolves read-only fields. A foreign key backed by a
// writable relation is settable like any plain field; the read-only
// marker on the scalar is then a byproduct of the relation machinery,
// not a constraint. Any other read-only field is carried in the update
// shape, marked so callers never apply it, and dropped from the create
// shape.
func readOnlyRule(f *Field, forUpdate bool) decision {
	if !f.IsReadOnly() {
		return skipRule
	}
	if fk, ok := f.ForeignKey(); ok && !fk.ReadOnly {
		return includeField
	}
	if forUpdate {
		return includeField
	}
	return excludeField
}

// InCreateInput reports whether the field appears in the creation
// payload.
func (f *Field) InCreateInput() bool {
	return evalInput(f, false) == includeField
}

// InUpdateInput reports whether the field appears in the update payload.
func (f *Field) InUpdateInput() bool {
	return evalInput(f, true) == includeField
}

// EffectivelyReadOnly reports whether the field is carried in the update
// payload for shape completeness but must never be applied by the
// persistence layer.
func (f *Field) EffectivelyReadOnly() bool {
	if !f.IsReadOnly() {
		return false
	}
	if fk, ok := f.ForeignKey(); ok && !fk.ReadOnly {
		return false
	}
	return f.InUpdateInput()
}

// CreateOptional reports whether the creation payload may omit the
// field: nullable fields and fields the store defaults.
func (f *Field) CreateOptional() bool {
	return f.Optional || f.HasDefault()
}

// Rep selects the type-specific handling of a field's value in
// generated shapes.
type Rep int

const (
	// RepScalar fields map directly to a Go scalar.
	RepScalar Rep = iota
	// RepEnum fields carry an enumerated-value constraint.
	RepEnum
	// RepJSON fields delegate their shape to a companion document type.
	RepJSON
	// RepRelation fields reference another entity.
	RepRelation
)

// String returns the lowercase name of the representation.
func (r Rep) String() string {
	switch r {
	case RepScalar:
		return "scalar"
	case RepEnum:
		return "enum"
	case RepJSON:
		return "json"
	case RepRelation:
		return "relation"
	}
	return "unknown"
}

// Rep returns the representation of the field's values.
func (f *Field) Rep() Rep {
	switch {
	case f.IsRelation():
		return RepRelation
	case f.IsEnum():
		return RepEnum
	case f.IsJSON():
		return RepJSON
	}
	return RepScalar
}

// Shape is one field of a generated artifact together with the way the
// artifact carries it.
type Shape struct {
	// Field is the described field.
	Field *Field
	// Optional indicates the payload may omit the field.
	Optional bool
	// ReadOnly marks a field that is present for shape completeness but
	// never applied to the store.
	ReadOnly bool
	// Rep selects the type-specific handling of the field's value.
	Rep Rep
}

// CreateFields returns the creation payload shape, in declaration order.
func (t *Type) CreateFields() []Shape {
	var shapes []Shape
	for _, f := range t.Fields {
		if evalInput(f, false) != includeField {
			continue
		}
		shapes = append(shapes, Shape{
			Field:    f,
			Optional: f.CreateOptional(),
			Rep:      f.Rep(),
		})
	}
	return shapes
}

// UpdateFields returns the update payload shape, in declaration order.
// Every update field is optional, updates being partial.
func (t *Type) UpdateFields() []Shape {
	var shapes []Shape
	for _, f := range t.Fields {
		if evalInput(f, true) != includeField {
			continue
		}
		shapes = append(shapes, Shape{
			Field:    f,
			Optional: true,
			ReadOnly: f.EffectivelyReadOnly(),
			Rep:      f.Rep(),
		})
	}
	return shapes
}

// KeyFields returns the identifier shape. Identifier fields are always
// mandatory: an address is never partial.
func (t *Type) KeyFields() []Shape {
	var shapes []Shape
	for _, f := range t.IdentifierFields() {
		shapes = append(shapes, Shape{Field: f, Rep: f.Rep()})
	}
	return shapes
}

// IdentifierFields returns the fields a client addresses a record by:
// fields marked as the identifier plus the members of a composite key,
// minus the configured system fields, in declaration order. When the
// schema declares no identifier, the field named by the configured
// fallback ("id" by default) serves as one if present. The result can
// be empty.
func (t *Type) IdentifierFields() []*Field {
	var fields []*Field
	for _, f := range t.Fields {
		if (f.IsID() || t.inPrimaryKey(f.Name)) && !t.IsSystemField(f.Name) {
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 && t.IDFallback != "" {
		if f := t.fields[t.IDFallback]; f != nil && !t.IsSystemField(t.IDFallback) {
			fields = append(fields, f)
		}
	}
	return fields
}

// AddressFields returns the fields the persistence layer addresses a
// record by: the client-supplied identifier fields plus any system
// fields participating in the key, whose values the server injects at
// address-construction time.
func (t *Type) AddressFields() []*Field {
	idents := t.IdentifierFields()
	names := make(map[string]bool, len(idents))
	for _, f := range idents {
		names[f.Name] = true
	}
	var fields []*Field
	for _, f := range t.Fields {
		switch {
		case names[f.Name]:
			fields = append(fields, f)
		case (f.IsID() || t.inPrimaryKey(f.Name)) && t.IsSystemField(f.Name):
			fields = append(fields, f)
		}
	}
	return fields
}

// AddressName returns the name a record address is keyed by: the single
// identifier field name, or the composite key fields joined with "_".
func (t *Type) AddressName() string {
	fields := t.AddressFields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return strings.Join(names, "_")
}

func (t *Type) inPrimaryKey(name string) bool {
	return slices.Contains(t.PrimaryKey, name)
}
