// Package gen turns a loaded Prisma schema into a generated Go REST API
// layer.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	schema.prisma (or its JSON form)
//	        ↓
//	   load.Schema (parsed and validated)
//	        ↓
//	   Graph (enriched types, foreign keys resolved)
//	        ↓
//	   Emitters (entity structs, inputs, queries, services, handlers)
//	        ↓
//	   Generated code ({target}/)
//
// # Key Types
//
// The package provides several key types:
//
//   - Graph: holds the types of one generation run
//   - Type: one entity with its fields and resolved foreign keys
//   - Field: field with type info, flags, and naming helpers
//   - Shape: a field paired with how a generated artifact carries it
//   - Config: configuration of a generation run
//
// # Field Policy
//
// Which fields appear in the generated create and update payloads is
// decided by a fixed rule chain, evaluated per field in precedence
// order:
//
//  1. system fields are never client-settable
//  2. store-maintained timestamps are never client-settable
//  3. auto-generated identifiers are absent from creation payloads
//  4. relation fields are carried through their foreign-key scalars only
//  5. read-only fields are settable when a writable relation backs them,
//     carried but never applied on update otherwise
//  6. everything else is settable
//
// The same Type exposes the identifier shape (IdentifierFields), the
// flat query shape (QueryParams), and the nested filter shape
// (FilterFields).
//
// # Emitters
//
// Code emission is split into emitters. An emitter implements
// EntityEmitter for per-entity files, SharedEmitter for files spanning
// the graph, or both; the generator detects the capabilities of each
// emitter and runs entities in parallel:
//
//	import "github.com/tomaszdurka/prismarest/compiler/gen/rest"
//
//	result, err := gen.Generate(ctx, config, schema, rest.Emitters()...)
//
// Most emitters build files with the jennifer library; a few render
// text templates through TemplateWriter, which pipes the output through
// goimports. Files marked Once are written only when absent, so the
// user-owned companion types of JSON fields survive regeneration.
//
// # Configuration
//
// Configuration uses the functional options pattern:
//
//	config, err := gen.NewConfig(
//	    gen.WithTarget("./internal/api"),
//	    gen.WithSystemFields("tenantId"),
//	    gen.WithFeatures(gen.FeatureSnapshot),
//	)
//
// A prismarest.yaml file decodes into FileConfig and translates into the
// same options.
//
// # Generated Output
//
// The emitters in gen/rest produce the following structure:
//
//	{target}/
//	├── doc.go                // package documentation
//	├── module.go             // Module struct bundling the services
//	├── routes.go             // route registration for all entities
//	├── enums.go              // enum types with database round-tripping
//	├── {entity}.go           // entity struct and table constants
//	├── {entity}_input.go     // create, update, and key payloads
//	├── {entity}_query.go     // flat query parameters
//	├── {entity}_filter.go    // nested filter and search request
//	├── {entity}_service.go   // SQL persistence service
//	├── {entity}_handler.go   // HTTP handler and its routes
//	└── {field}_dto.go        // user-owned JSON companion types (kept)
package gen
