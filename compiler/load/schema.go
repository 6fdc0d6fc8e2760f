// Package load reads Prisma-style schema sources and turns them into the
// serializable entity representation consumed by the generator.
//
// The package accepts two inputs: textual schema sources (Parse, ParseFile)
// and the JSON form of the representation itself (UnmarshalSchema). Both
// paths end in Validate, so a *Schema handed to the generator is known to be
// referentially intact: relation source fields and composite-key members
// name declared fields, relation targets are declared models, and scalar
// types belong to the closed scalar set. Downstream packages rely on this
// and perform no integrity checks of their own.
package load

import (
	"encoding/json"
	"fmt"
)

// Kind classifies a field by what its declared type resolves to.
type Kind string

const (
	// KindScalar is a field of one of the built-in scalar types.
	KindScalar Kind = "scalar"

	// KindEnum is a field whose type names a declared enum.
	KindEnum Kind = "enum"

	// KindObject is a relation field: its type names another model.
	// Combined with Field.List it covers both to-one and to-many sides.
	KindObject Kind = "object"
)

// Built-in scalar type names.
const (
	TypeString   = "String"
	TypeInt      = "Int"
	TypeBigInt   = "BigInt"
	TypeFloat    = "Float"
	TypeDecimal  = "Decimal"
	TypeBoolean  = "Boolean"
	TypeDateTime = "DateTime"
	TypeJSON     = "Json"
	TypeBytes    = "Bytes"
)

var scalarTypes = map[string]bool{
	TypeString:   true,
	TypeInt:      true,
	TypeBigInt:   true,
	TypeFloat:    true,
	TypeDecimal:  true,
	TypeBoolean:  true,
	TypeDateTime: true,
	TypeJSON:     true,
	TypeBytes:    true,
}

// ValidScalar reports whether name is one of the built-in scalar types.
func ValidScalar(name string) bool {
	return scalarTypes[name]
}

// Schema is the root of the loaded representation: every model and enum
// declared by the source, in declaration order.
type Schema struct {
	Entities []*Entity `json:"entities"`
	Enums    []*Enum   `json:"enums,omitempty"`
}

// Entity is one declared model.
type Entity struct {
	// Name is the model name, unique within the schema.
	Name string `json:"name"`

	// Schema is the optional namespace tag (@@schema). It is used only for
	// filtering which entities a generation run processes.
	Schema string `json:"schema,omitempty"`

	// Fields in declaration order. Order is significant: it determines
	// emission order and the last-writer-wins accumulation of relation
	// metadata during enrichment.
	Fields []*Field `json:"fields"`

	// PrimaryKey lists the member field names of a composite primary key
	// (@@id), in declaration order. It is empty when a single field carries
	// the ID flag instead.
	PrimaryKey []string `json:"primaryKey,omitempty"`
}

// Field is one declared field of a model.
type Field struct {
	// Name is unique within the owning entity.
	Name string `json:"name"`

	// Type is the declared type name: a scalar type, an enum name, or
	// another model's name for relation fields.
	Type string `json:"type"`

	// Kind records what Type resolved to. The parser fills it after all
	// declarations are read; the JSON form must supply it directly.
	Kind Kind `json:"kind"`

	// List marks sequence fields (Type[]).
	List bool `json:"isList,omitempty"`

	// ID marks the single-field primary key (@id).
	ID bool `json:"isId,omitempty"`

	// Optional marks fields declared with the ? modifier.
	Optional bool `json:"isOptional,omitempty"`

	// Unique marks fields declared @unique.
	Unique bool `json:"isUnique,omitempty"`

	// ReadOnly marks fields that are not client-settable. The parser sets
	// it for scalar columns referenced by a relation's fields list, and for
	// any field carrying a "/// @readonly" doc directive.
	ReadOnly bool `json:"isReadOnly,omitempty"`

	// UpdatedAt marks @updatedAt timestamps, maintained by the system on
	// every mutation.
	UpdatedAt bool `json:"isUpdatedAt,omitempty"`

	// Default reports whether the field has a server-side default
	// (@default). DefaultExpr holds the raw default expression, e.g.
	// "autoincrement()", "uuid()", "now()", or a literal.
	Default     bool   `json:"hasDefault,omitempty"`
	DefaultExpr string `json:"default,omitempty"`

	// Comment carries the field's /// documentation, directives excluded.
	Comment string `json:"comment,omitempty"`

	// Relation is present on relation fields that declare the @relation
	// attribute. Relation fields without the attribute (the non-owning
	// side) have Kind == KindObject and a nil Relation.
	Relation *Relation `json:"relation,omitempty"`
}

// Relation holds the @relation attribute of a relation field.
type Relation struct {
	// Name is the optional relation label used to disambiguate multiple
	// relations between the same pair of models.
	Name string `json:"name,omitempty"`

	// Fields lists the owning entity's scalar columns that implement the
	// relation. These are the foreign-key columns.
	Fields []string `json:"fields,omitempty"`

	// References lists the target entity's columns matched by Fields.
	References []string `json:"references,omitempty"`
}

// Enum is one declared enum with its value set.
type Enum struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Field returns the entity's field with the given name, or nil.
func (e *Entity) Field(name string) *Field {
	for _, f := range e.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Entity returns the schema's entity with the given name, or nil.
func (s *Schema) Entity(name string) *Entity {
	for _, e := range s.Entities {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Enum returns the schema's enum with the given name, or nil.
func (s *Schema) Enum(name string) *Enum {
	for _, e := range s.Enums {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// IsRelation reports whether the field's type names another model.
func (f *Field) IsRelation() bool {
	return f.Kind == KindObject
}

// Owns reports whether the field is the owning side of a relation, i.e. it
// declares the foreign-key columns.
func (f *Field) Owns() bool {
	return f.Kind == KindObject && f.Relation != nil && len(f.Relation.Fields) > 0
}

// MarshalSchema encodes the schema into its JSON form.
func MarshalSchema(s *Schema) ([]byte, error) {
	buf, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("prismarest/load: marshal schema: %w", err)
	}
	return buf, nil
}

// UnmarshalSchema decodes a schema from its JSON form and validates it.
func UnmarshalSchema(buf []byte) (*Schema, error) {
	s := &Schema{}
	if err := json.Unmarshal(buf, s); err != nil {
		return nil, fmt.Errorf("prismarest/load: unmarshal schema: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the schema's internal integrity: name uniqueness, scalar
// type validity, and the referential guarantees the generator assumes.
// Relation source fields, relation references, and composite-key members
// must all name declared fields. It returns a *SchemaError describing the
// first violation found.
func (s *Schema) Validate() error {
	enums := make(map[string]bool, len(s.Enums))
	for _, e := range s.Enums {
		if e.Name == "" {
			return &SchemaError{Reason: "enum with empty name"}
		}
		if enums[e.Name] {
			return &SchemaError{Reason: fmt.Sprintf("duplicate enum name %q", e.Name)}
		}
		enums[e.Name] = true
		if len(e.Values) == 0 {
			return &SchemaError{Reason: fmt.Sprintf("enum %s has no values", e.Name)}
		}
		seen := make(map[string]bool, len(e.Values))
		for _, v := range e.Values {
			if seen[v] {
				return &SchemaError{Reason: fmt.Sprintf("enum %s: duplicate value %q", e.Name, v)}
			}
			seen[v] = true
		}
	}
	models := make(map[string]*Entity, len(s.Entities))
	for _, e := range s.Entities {
		if e.Name == "" {
			return &SchemaError{Reason: "model with empty name"}
		}
		if models[e.Name] != nil {
			return &SchemaError{Entity: e.Name, Reason: "duplicate model name"}
		}
		models[e.Name] = e
	}
	for _, e := range s.Entities {
		if err := s.validateEntity(e, models, enums); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) validateEntity(e *Entity, models map[string]*Entity, enums map[string]bool) error {
	names := make(map[string]*Field, len(e.Fields))
	var idField string
	for _, f := range e.Fields {
		if f.Name == "" {
			return &SchemaError{Entity: e.Name, Reason: "field with empty name"}
		}
		if names[f.Name] != nil {
			return &SchemaError{Entity: e.Name, Field: f.Name, Reason: "duplicate field name"}
		}
		names[f.Name] = f
		switch f.Kind {
		case KindScalar:
			if !ValidScalar(f.Type) {
				return &SchemaError{Entity: e.Name, Field: f.Name, Reason: fmt.Sprintf("unknown type %q", f.Type)}
			}
		case KindEnum:
			if !enums[f.Type] {
				return &SchemaError{Entity: e.Name, Field: f.Name, Reason: fmt.Sprintf("undeclared enum %q", f.Type)}
			}
		case KindObject:
			if models[f.Type] == nil {
				return &SchemaError{Entity: e.Name, Field: f.Name, Reason: fmt.Sprintf("undeclared model %q", f.Type)}
			}
		default:
			return &SchemaError{Entity: e.Name, Field: f.Name, Reason: fmt.Sprintf("unknown field kind %q", f.Kind)}
		}
		if f.ID {
			if f.Kind == KindObject {
				return &SchemaError{Entity: e.Name, Field: f.Name, Reason: "relation field cannot be the primary key"}
			}
			if idField != "" {
				return &SchemaError{Entity: e.Name, Field: f.Name, Reason: "multiple fields marked @id"}
			}
			idField = f.Name
		}
		if f.Relation != nil && f.Kind != KindObject {
			return &SchemaError{Entity: e.Name, Field: f.Name, Reason: "@relation on a non-relation field"}
		}
		if err := s.validateRelation(e, f, models); err != nil {
			return err
		}
	}
	if len(e.PrimaryKey) > 0 {
		if idField != "" {
			return &SchemaError{Entity: e.Name, Field: idField, Reason: "@id combined with composite @@id"}
		}
		for _, name := range e.PrimaryKey {
			f := names[name]
			if f == nil {
				return &SchemaError{Entity: e.Name, Field: name, Reason: "composite key names an undeclared field"}
			}
			if f.Kind == KindObject {
				return &SchemaError{Entity: e.Name, Field: name, Reason: "composite key names a relation field"}
			}
		}
	}
	return nil
}

func (s *Schema) validateRelation(e *Entity, f *Field, models map[string]*Entity) error {
	if f.Relation == nil || len(f.Relation.Fields) == 0 {
		return nil
	}
	if len(f.Relation.References) > 0 && len(f.Relation.References) != len(f.Relation.Fields) {
		return &SchemaError{Entity: e.Name, Field: f.Name, Reason: "relation fields and references differ in length"}
	}
	for _, src := range f.Relation.Fields {
		sf := e.Field(src)
		if sf == nil {
			return &SchemaError{Entity: e.Name, Field: f.Name, Reason: fmt.Sprintf("relation source %q is not a declared field", src)}
		}
		if sf.Kind == KindObject {
			return &SchemaError{Entity: e.Name, Field: f.Name, Reason: fmt.Sprintf("relation source %q is itself a relation", src)}
		}
	}
	target := models[f.Type]
	if target == nil {
		return nil // reported by the kind check
	}
	for _, ref := range f.Relation.References {
		if target.Field(ref) == nil {
			return &SchemaError{Entity: e.Name, Field: f.Name, Reason: fmt.Sprintf("relation references unknown field %s.%s", target.Name, ref)}
		}
	}
	return nil
}
