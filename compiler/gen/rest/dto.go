package rest

import (
	"github.com/tomaszdurka/prismarest/compiler/gen"
)

// DtoEmitter renders one companion type per JSON field. The files are
// written once and never overwritten, so replacing the map with a
// concrete struct is a supported edit.
type DtoEmitter struct{}

// Name implements gen.Emitter.
func (DtoEmitter) Name() string { return "rest/dto" }

var dtoTemplate = gen.MustTemplateWriter("dto", `// Code generated once by prismarest. This file is yours to keep:
// replace the map with a concrete struct for the {{ .Field }} payload
// and later runs will leave it alone.

package {{ .Package }}

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// {{ .Name }} carries the {{ .Field }} JSON payload.
type {{ .Name }} map[string]any

// Scan implements sql.Scanner.
func (d *{{ .Name }}) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = nil
		return nil
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("unexpected JSON value %T", src)
	}
}

// Value implements driver.Valuer.
func (d {{ .Name }}) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}
`)

// EmitShared renders one file per distinct companion type name. When two
// fields share a name the first declaration wins.
func (DtoEmitter) EmitShared(g *gen.Graph) ([]*gen.File, error) {
	seen := make(map[string]bool)
	var files []*gen.File
	for _, t := range g.Nodes {
		for _, fd := range t.JSONFields() {
			name := fd.DtoName()
			if seen[name] {
				continue
			}
			seen[name] = true
			f, err := dtoTemplate.RenderOnce(gen.Snake(name)+".go", struct {
				Package string
				Name    string
				Field   string
			}{Package: g.Package, Name: name, Field: fd.Name})
			if err != nil {
				return nil, err
			}
			files = append(files, f)
		}
	}
	return files, nil
}
