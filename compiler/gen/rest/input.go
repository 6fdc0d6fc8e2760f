package rest

import (
	"github.com/dave/jennifer/jen"

	"github.com/tomaszdurka/prismarest/compiler/gen"
)

// InputEmitter renders the write-side payload types of each entity: the
// creation input, the partial update input, and the key the record
// endpoints bind their path parameters into.
type InputEmitter struct{}

// Name implements gen.Emitter.
func (InputEmitter) Name() string { return "rest/input" }

// EmitEntity renders the input file of the entity.
func (InputEmitter) EmitEntity(t *gen.Type) ([]*gen.File, error) {
	f := t.JenFile()
	genCreateInput(f, t)
	genUpdateInput(f, t)
	if keyed(t) {
		genKey(f, t)
	}
	file, err := gen.RenderJen(t.Label()+"_input.go", f)
	if err != nil {
		return nil, err
	}
	return []*gen.File{file}, nil
}

// genCreateInput generates the creation payload struct. Fields the
// store can default are optional; the rest are mandatory. Presence of
// mandatory string-kind fields is enforced at binding time, other kinds
// carry legitimate zero values and are checked by the database.
func genCreateInput(f *jen.File, t *gen.Type) {
	f.Commentf("%s is the payload creating %s records.", t.CreateInputName(), t.Name)
	f.Type().Id(t.CreateInputName()).StructFunc(func(g *jen.Group) {
		for _, sh := range t.CreateFields() {
			tags := map[string]string{"json": sh.Field.JSONName()}
			if sh.Optional {
				tags["json"] += ",omitempty"
			} else if stringKind(sh.Field) {
				tags["binding"] = "required"
			}
			g.Id(sh.Field.StructField()).Add(shapeType(sh)).Tag(tags)
		}
	})
}

// genUpdateInput generates the partial update payload struct. Every
// field is optional; absent fields keep their stored value.
func genUpdateInput(f *jen.File, t *gen.Type) {
	f.Commentf("%s is the payload of partial %s updates. Absent fields keep their stored value.", t.UpdateInputName(), t.Name)
	f.Type().Id(t.UpdateInputName()).StructFunc(func(g *jen.Group) {
		for _, sh := range t.UpdateFields() {
			field := g.Id(sh.Field.StructField()).Add(shapeType(sh)).Tag(map[string]string{
				"json": sh.Field.JSONName() + ",omitempty",
			})
			if sh.ReadOnly {
				field.Comment("Never applied; present so fetched records can be sent back unchanged.")
			}
		}
	})
}

// genKey generates the struct the record endpoints bind their path
// parameters into, one field per client identifier.
func genKey(f *jen.File, t *gen.Type) {
	f.Commentf("%s addresses a single %s record.", t.KeyName(), t.Name)
	f.Type().Id(t.KeyName()).StructFunc(func(g *jen.Group) {
		for _, sh := range t.KeyFields() {
			tags := map[string]string{"uri": sh.Field.Name}
			if stringKind(sh.Field) {
				tags["binding"] = "required"
			}
			g.Id(sh.Field.StructField()).Add(fieldType(sh.Field)).Tag(tags)
		}
	})
}

// stringKind reports whether the field's values are string-kind, where
// the zero value doubles as absent and a required binding makes sense.
func stringKind(f *gen.Field) bool {
	return !f.List && (f.IsString() || f.IsEnum())
}
