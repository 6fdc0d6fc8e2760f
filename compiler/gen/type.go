package gen

import (
	"errors"
	"fmt"
	"go/token"
	"go/types"
	"strings"

	"github.com/tomaszdurka/prismarest/compiler/load"
)

// The following types and their exported methods are used by the emitters
// to generate the assets.
type (
	// Type represents one entity in the graph and the information
	// derived from it.
	Type struct {
		*Config
		def *load.Entity
		// Name holds the entity name as declared in the schema.
		Name string
		// Fields holds all fields of this entity, in declaration order.
		Fields []*Field
		fields map[string]*Field
		// PrimaryKey holds the field names of a composite primary key
		// (@@id), if the entity declares one.
		PrimaryKey []string
		// Schema holds the namespace tag of the entity (@@schema).
		// Empty unless the schema declares one.
		Schema string
		// ForeignKeys are the scalar fields referenced by the entity's
		// relations, in order of first reference.
		ForeignKeys []*ForeignKey
		foreignKeys map[string]*ForeignKey
	}

	// Field holds the information of an entity field used by the emitters.
	Field struct {
		typ *Type
		def *load.Field
		// Name is the field name as declared in the schema.
		Name string
		// Type is the scalar, enum, or entity type name of the field.
		Type string
		// Optional indicates the field may hold null.
		Optional bool
		// Unique indicates the field carries a unique constraint.
		Unique bool
		// List indicates a list field.
		List bool
	}

	// ForeignKey describes a scalar field referenced by one or more
	// relations of the same entity.
	ForeignKey struct {
		// Field is the scalar field holding the key.
		Field *Field
		// Relations holds the names of the relation fields backed by
		// this key, in declaration order.
		Relations []string
		// ReadOnly mirrors the read-only marker of the relation backed
		// by this key. When several relations share the key, the one
		// declared last wins.
		ReadOnly bool
	}
)

// NewType creates a new type and its fields from the given entity.
func NewType(c *Config, entity *load.Entity) (*Type, error) {
	if err := ValidEntityName(entity.Name); err != nil {
		return nil, err
	}
	typ := &Type{
		Config:     c,
		def:        entity,
		Name:       entity.Name,
		Schema:     entity.Schema,
		PrimaryKey: entity.PrimaryKey,
		Fields:     make([]*Field, 0, len(entity.Fields)),
		fields:     make(map[string]*Field, len(entity.Fields)),
	}
	for _, f := range entity.Fields {
		tf := &Field{
			typ:      typ,
			def:      f,
			Name:     f.Name,
			Type:     f.Type,
			Optional: f.Optional,
			Unique:   f.Unique,
			List:     f.List,
		}
		typ.Fields = append(typ.Fields, tf)
		typ.fields[f.Name] = tf
	}
	typ.setupForeignKeys()
	return typ, nil
}

// setupForeignKeys collects the scalar fields referenced by the relations
// of the type. A field referenced by several relations is recorded once,
// its relation list growing in declaration order and its ReadOnly flag
// tracking the relation declared last. The pass reads only the type's own
// fields and can be re-run without changing the result.
func (t *Type) setupForeignKeys() {
	t.ForeignKeys = nil
	t.foreignKeys = make(map[string]*ForeignKey)
	for _, f := range t.Fields {
		if !f.def.Owns() {
			continue
		}
		for _, name := range f.def.Relation.Fields {
			t.addForeignKey(name, f.Name, f.def.ReadOnly)
		}
	}
}

// addForeignKey records that the named field backs the given relation.
func (t *Type) addForeignKey(name, relation string, readonly bool) {
	fk, ok := t.foreignKeys[name]
	if !ok {
		fk = &ForeignKey{Field: t.fields[name]}
		t.foreignKeys[name] = fk
		t.ForeignKeys = append(t.ForeignKeys, fk)
	}
	fk.Relations = append(fk.Relations, relation)
	fk.ReadOnly = readonly
}

// =============================================================================
// Type methods
// =============================================================================

// Field returns the field with the given name, or nil.
func (t *Type) Field(name string) *Field {
	return t.fields[name]
}

// ForeignKey returns the foreign-key record of the named field and
// whether the field backs any relation of the type.
func (t *Type) ForeignKey(name string) (*ForeignKey, bool) {
	fk, ok := t.foreignKeys[name]
	return fk, ok
}

// HasCompositeKey indicates if the entity declares a composite primary key.
func (t *Type) HasCompositeKey() bool {
	return len(t.PrimaryKey) > 0
}

// Label returns the label name of the type (snake_case).
func (t *Type) Label() string {
	return snake(t.Name)
}

// Table returns the table name of the type. Prisma names the table
// exactly after the entity, so lookups and statements quote it as is.
func (t *Type) Table() string {
	return t.Name
}

// Receiver returns the receiver name of the generated entity struct.
func (t *Type) Receiver() string {
	return receiver(t.Name)
}

// RoutePath returns the URL path segment the entity's routes are mounted
// on, e.g. "user-profiles" for UserProfile.
func (t *Type) RoutePath() string {
	return kebab(plural(t.Name))
}

// EnumFields returns the enum fields of the entity, if any.
func (t *Type) EnumFields() []*Field {
	var fields []*Field
	for _, f := range t.Fields {
		if f.IsEnum() {
			fields = append(fields, f)
		}
	}
	return fields
}

// JSONFields returns the JSON fields of the entity, if any.
func (t *Type) JSONFields() []*Field {
	var fields []*Field
	for _, f := range t.Fields {
		if f.IsJSON() {
			fields = append(fields, f)
		}
	}
	return fields
}

// RelationFields returns the relation fields of the entity, if any.
func (t *Type) RelationFields() []*Field {
	var fields []*Field
	for _, f := range t.Fields {
		if f.IsRelation() {
			fields = append(fields, f)
		}
	}
	return fields
}

// StructName returns the name of the generated entity struct.
func (t *Type) StructName() string {
	return pascal(t.Name)
}

// CreateInputName returns the struct name of the creation payload.
func (t *Type) CreateInputName() string {
	return pascal(t.Name) + "CreateInput"
}

// UpdateInputName returns the struct name of the update payload.
func (t *Type) UpdateInputName() string {
	return pascal(t.Name) + "UpdateInput"
}

// KeyName returns the struct name of the record address.
func (t *Type) KeyName() string {
	return pascal(t.Name) + "Key"
}

// QueryName returns the struct name of the flat query parameters.
func (t *Type) QueryName() string {
	return pascal(t.Name) + "Query"
}

// FilterName returns the struct name of the nested filter.
func (t *Type) FilterName() string {
	return pascal(t.Name) + "Filter"
}

// ServiceName returns the struct name of the persistence service.
func (t *Type) ServiceName() string {
	return pascal(t.Name) + "Service"
}

// HandlerName returns the struct name of the HTTP handler.
func (t *Type) HandlerName() string {
	return pascal(t.Name) + "Handler"
}

// =============================================================================
// Field methods
// =============================================================================

// IsID indicates if the field is declared as the entity identifier (@id).
func (f *Field) IsID() bool {
	return f.def.ID
}

// IsReadOnly indicates if the field cannot be written through the API.
// Scalar fields backing a relation are read-only, and relation fields can
// be marked read-only explicitly.
func (f *Field) IsReadOnly() bool {
	return f.def.ReadOnly
}

// IsUpdatedAt indicates if the field value is maintained by the store on
// every update (@updatedAt).
func (f *Field) IsUpdatedAt() bool {
	return f.def.UpdatedAt
}

// HasDefault indicates if the field has a default value on creation.
func (f *Field) HasDefault() bool {
	return f.def.Default
}

// DefaultExpr returns the default expression of the field, e.g. "uuid()".
func (f *Field) DefaultExpr() string {
	return f.def.DefaultExpr
}

// Comment returns the doc comment of the field.
func (f *Field) Comment() string {
	return f.def.Comment
}

// IsRelation indicates if the field's type is another entity.
func (f *Field) IsRelation() bool {
	return f.def.IsRelation()
}

// Owns indicates if the field is a relation holding the foreign key.
func (f *Field) Owns() bool {
	return f.def.Owns()
}

// Relation returns the relation settings of the field, or nil.
func (f *Field) Relation() *load.Relation {
	return f.def.Relation
}

// ForeignKey returns the foreign-key record of the field and whether the
// field backs any relation of its entity.
func (f *Field) ForeignKey() (*ForeignKey, bool) {
	return f.typ.ForeignKey(f.Name)
}

// IsEnum indicates if the field's type is an enum.
func (f *Field) IsEnum() bool {
	return f.def.Kind == load.KindEnum
}

// IsJSON indicates if the field holds a free-form document.
func (f *Field) IsJSON() bool {
	return f.def.Kind == load.KindScalar && f.Type == load.TypeJSON
}

// IsString indicates if the field is a string field.
func (f *Field) IsString() bool {
	return f.def.Kind == load.KindScalar && f.Type == load.TypeString
}

// IsBool indicates if the field is a boolean field.
func (f *Field) IsBool() bool {
	return f.def.Kind == load.KindScalar && f.Type == load.TypeBoolean
}

// IsTime indicates if the field is a timestamp field.
func (f *Field) IsTime() bool {
	return f.def.Kind == load.KindScalar && f.Type == load.TypeDateTime
}

// IsBytes indicates if the field holds raw bytes.
func (f *Field) IsBytes() bool {
	return f.def.Kind == load.KindScalar && f.Type == load.TypeBytes
}

// IsNumeric indicates if the field is an integer, float, or decimal field.
func (f *Field) IsNumeric() bool {
	if f.def.Kind != load.KindScalar {
		return false
	}
	switch f.Type {
	case load.TypeInt, load.TypeBigInt, load.TypeFloat, load.TypeDecimal:
		return true
	}
	return false
}

// Required indicates if the field must be present on the record.
func (f *Field) Required() bool {
	return !f.Optional
}

// StructField returns the Go struct field name of the field.
func (f *Field) StructField() string {
	return pascal(f.Name)
}

// JSONName returns the wire name of the field, which Prisma keeps
// exactly as declared.
func (f *Field) JSONName() string {
	return f.Name
}

// Column returns the column name of the field. Prisma names the column
// exactly after the field.
func (f *Field) Column() string {
	return f.Name
}

// EnumName returns the Go type name generated for the field's enum.
func (f *Field) EnumName() string {
	return pascal(f.Type)
}

// DtoName returns the name of the companion type generated for a JSON
// field's payload.
func (f *Field) DtoName() string {
	return pascal(f.Name) + "Dto"
}

// ValidEntityName determines if an entity name can serve as a Go
// identifier and a file name without conflicts.
func ValidEntityName(name string) error {
	if name == "" {
		return errors.New("entity name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("entity name %q contains path characters", name)
	}
	if !token.IsIdentifier(name) {
		return fmt.Errorf("entity name %q is not a valid Go identifier", name)
	}
	switch ident := camel(name); {
	case token.Lookup(ident).IsKeyword():
		return fmt.Errorf("entity name %q conflicts with the Go keyword %q", name, ident)
	case types.Universe.Lookup(ident) != nil:
		return fmt.Errorf("entity name %q conflicts with the Go predeclared identifier %q", name, ident)
	}
	return nil
}
