package gen

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tomaszdurka/prismarest/compiler/load"
)

// Generator renders a graph into source files under the configured
// target directory.
type Generator struct {
	graph    *Graph
	emitters []Emitter
}

// NewGenerator creates a generator running the given emitters over the
// graph.
func NewGenerator(g *Graph, emitters ...Emitter) *Generator {
	return &Generator{graph: g, emitters: emitters}
}

// Result summarizes a generation run.
type Result struct {
	// Written lists the files created or refreshed, relative to the
	// target directory.
	Written []string
	// Skipped lists the user-owned files that already existed and were
	// left untouched.
	Skipped []string
}

// Generate runs every applicable emitter, entities in parallel, and
// writes the rendered files. Files marked Once are written only when
// absent. Artifacts of disabled features are cleaned up afterwards.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	if len(g.emitters) == 0 {
		return nil, NewConfigError("Emitters", nil, "no emitters registered")
	}
	if g.graph.Target == "" {
		return nil, NewConfigError("Target", nil, "missing target directory in config")
	}
	if err := os.MkdirAll(g.graph.Target, 0o755); err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		result Result
	)
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.graph.Workers)

	for _, t := range g.graph.Nodes {
		t := t
		for _, em := range g.emitters {
			ee, ok := em.(EntityEmitter)
			if !ok || !g.enabled(em) {
				continue
			}
			errg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				files, err := ee.EmitEntity(t)
				if err != nil {
					return NewGenerationError(t.Name, "", ee.Name(), err)
				}
				return g.writeFiles(files, t.Name, &mu, &result)
			})
		}
	}
	for _, em := range g.emitters {
		se, ok := em.(SharedEmitter)
		if !ok || !g.enabled(em) {
			continue
		}
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			files, err := se.EmitShared(g.graph)
			if err != nil {
				return NewGenerationError("", "", se.Name(), err)
			}
			return g.writeFiles(files, "", &mu, &result)
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}

	if g.graph.FeatureEnabled(FeatureSnapshot) {
		if err := writeSnapshot(g.graph.Config, g.graph.Schema); err != nil {
			return nil, err
		}
		result.Written = append(result.Written, snapshotFile)
	}
	for _, f := range AllFeatures {
		if f.cleanup == nil || g.graph.FeatureEnabled(f) {
			continue
		}
		if err := f.cleanup(g.graph.Config); err != nil {
			return nil, err
		}
	}

	sort.Strings(result.Written)
	sort.Strings(result.Skipped)
	return &result, nil
}

// enabled reports whether the emitter applies to this run. Emitters not
// tied to a feature always apply.
func (g *Generator) enabled(em Emitter) bool {
	fe, ok := em.(FeatureEmitter)
	if !ok {
		return true
	}
	return g.graph.FeatureEnabled(fe.Feature())
}

// writeFiles writes the rendered files under the target directory and
// records the outcome in the shared result.
func (g *Generator) writeFiles(files []*File, entity string, mu *sync.Mutex, result *Result) error {
	for _, f := range files {
		wrote, err := g.writeFile(f)
		if err != nil {
			return NewGenerationError(entity, f.Path, "write file", err)
		}
		mu.Lock()
		if wrote {
			result.Written = append(result.Written, f.Path)
		} else {
			result.Skipped = append(result.Skipped, f.Path)
		}
		mu.Unlock()
	}
	return nil
}

// writeFile writes one file, honoring the Once marker.
func (g *Generator) writeFile(f *File) (wrote bool, err error) {
	path := filepath.Join(g.graph.Target, f.Path)
	if f.Once {
		switch _, err := os.Stat(path); {
		case err == nil:
			return false, nil
		case !errors.Is(err, fs.ErrNotExist):
			return false, err
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, err
		}
	}
	if err := os.WriteFile(path, f.Buf, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// Generate is the convenience entry point of a run: it builds the graph
// for the schema and writes all code with the given emitters.
func Generate(ctx context.Context, c *Config, schema *load.Schema, emitters ...Emitter) (*Result, error) {
	graph, err := NewGraph(c, schema)
	if err != nil {
		return nil, err
	}
	return NewGenerator(graph, emitters...).Generate(ctx)
}
