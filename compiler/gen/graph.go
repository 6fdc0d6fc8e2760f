package gen

import (
	"slices"

	"github.com/tomaszdurka/prismarest/compiler/load"
)

// Graph holds the types of a generation run. It is built once from a
// loaded schema and never mutated afterwards.
type Graph struct {
	*Config
	// Schema is the loaded schema the graph was built from.
	Schema *load.Schema
	// Nodes holds the graph types, in schema declaration order.
	Nodes []*Type
}

// NewGraph creates the graph for a generation run, applying the
// configured namespace filter. It fails if the filter leaves no entity
// to generate for.
func NewGraph(c *Config, schema *load.Schema) (*Graph, error) {
	g := &Graph{Config: c, Schema: schema}
	for _, entity := range schema.Entities {
		if len(c.Schemas) > 0 && !slices.Contains(c.Schemas, entity.Schema) {
			continue
		}
		typ, err := NewType(c, entity)
		if err != nil {
			return nil, err
		}
		g.Nodes = append(g.Nodes, typ)
	}
	if len(g.Nodes) == 0 {
		return nil, ErrNoEntities
	}
	return g, nil
}

// Node returns the type with the given name, or nil.
func (g *Graph) Node(name string) *Type {
	for _, n := range g.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Enums returns the enum definitions referenced by the graph's nodes, in
// schema declaration order.
func (g *Graph) Enums() []*load.Enum {
	used := make(map[string]bool)
	for _, n := range g.Nodes {
		for _, f := range n.Fields {
			if f.IsEnum() {
				used[f.Type] = true
			}
		}
	}
	var enums []*load.Enum
	for _, e := range g.Schema.Enums {
		if used[e.Name] {
			enums = append(enums, e)
		}
	}
	return enums
}
