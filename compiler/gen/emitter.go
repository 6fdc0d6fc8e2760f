package gen

// A File is one generated artifact awaiting write.
type File struct {
	// Path is the file path, relative to the target directory.
	Path string
	// Buf holds the rendered content.
	Buf []byte
	// Once marks a user-owned file. It is written only when absent and
	// never overwritten on later runs, so user edits survive
	// regeneration.
	Once bool
}

// An Emitter renders part of the generated code. Concrete emitters
// implement EntityEmitter, SharedEmitter, or both; the generator detects
// the capabilities of each emitter at generation time. An emitter that
// also implements FeatureEmitter runs only when its feature is enabled.
type Emitter interface {
	// Name identifies the emitter in error reports.
	Name() string
}

// An EntityEmitter renders the artifacts of a single entity.
type EntityEmitter interface {
	Emitter
	EmitEntity(t *Type) ([]*File, error)
}

// A SharedEmitter renders artifacts spanning the whole graph.
type SharedEmitter interface {
	Emitter
	EmitShared(g *Graph) ([]*File, error)
}

// A FeatureEmitter ties an emitter to a feature flag.
type FeatureEmitter interface {
	Feature() Feature
}
