package load

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two failure classes of schema loading. Typed
// errors below wrap them, so callers can branch with errors.Is without
// losing the detailed message.
var (
	// ErrParse indicates the schema source could not be read as Prisma
	// syntax.
	ErrParse = errors.New("prismarest/load: parse error")

	// ErrIntegrity indicates the schema parsed but is not referentially
	// intact (undeclared types, dangling relation sources, malformed keys).
	ErrIntegrity = errors.New("prismarest/load: schema integrity error")
)

// ParseError reports a syntax problem at a source position.
type ParseError struct {
	File string // source name as given to Parse
	Line int    // 1-based line number
	Msg  string
}

// Error returns the error string.
func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("prismarest/load: line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("prismarest/load: %s:%d: %s", e.File, e.Line, e.Msg)
}

// Is reports whether the target matches ErrParse, so that
// errors.Is(err, ErrParse) holds for every *ParseError.
func (e *ParseError) Is(err error) bool {
	return err == ErrParse
}

// SchemaError reports an integrity violation in a parsed or unmarshaled
// schema. Entity and Field narrow the location when known.
type SchemaError struct {
	Entity string
	Field  string
	Reason string
}

// Error returns the error string.
func (e *SchemaError) Error() string {
	switch {
	case e.Entity != "" && e.Field != "":
		return fmt.Sprintf("prismarest/load: model %s: field %s: %s", e.Entity, e.Field, e.Reason)
	case e.Entity != "":
		return fmt.Sprintf("prismarest/load: model %s: %s", e.Entity, e.Reason)
	default:
		return fmt.Sprintf("prismarest/load: %s", e.Reason)
	}
}

// Is reports whether the target matches ErrIntegrity.
func (e *SchemaError) Is(err error) bool {
	return err == ErrIntegrity
}

// AsParseError returns the *ParseError in err's chain, if any.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	ok := errors.As(err, &pe)
	return pe, ok
}

// AsSchemaError returns the *SchemaError in err's chain, if any.
func AsSchemaError(err error) (*SchemaError, bool) {
	var se *SchemaError
	ok := errors.As(err, &se)
	return se, ok
}
