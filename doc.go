// Package prismarest is the runtime companion of the prismarest code
// generator. Generated services and handlers import it for the shared
// error taxonomy, record paging, identifier generation, and the
// resolution of system field values the serving environment injects.
//
// The generator itself lives under compiler/gen; the filter, dialect,
// and httpapi subpackages carry the query, database, and HTTP halves of
// the runtime.
package prismarest
