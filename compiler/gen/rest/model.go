package rest

import (
	"github.com/dave/jennifer/jen"

	"github.com/tomaszdurka/prismarest/compiler/gen"
)

// ModelEmitter renders the entity struct file: the record type the
// services scan into and the handlers serialize, with its table name
// and column list.
type ModelEmitter struct{}

// Name implements gen.Emitter.
func (ModelEmitter) Name() string { return "rest/model" }

// EmitEntity renders the model file of the entity.
func (ModelEmitter) EmitEntity(t *gen.Type) ([]*gen.File, error) {
	f := t.JenFile()
	genModelStruct(f, t)
	genModelConsts(f, t)
	genModelColumns(f, t)
	genModelValues(f, t)
	file, err := gen.RenderJen(t.Label()+".go", f)
	if err != nil {
		return nil, err
	}
	return []*gen.File{file}, nil
}

// genModelStruct generates the record struct of the entity. Nullable
// fields become pointers so a JSON null survives the round trip through
// the database.
func genModelStruct(f *jen.File, t *gen.Type) {
	f.Commentf("%s is a stored %s record.", t.StructName(), t.Name)
	f.Type().Id(t.StructName()).StructFunc(func(g *jen.Group) {
		for _, fd := range modelFields(t) {
			if c := fd.Comment(); c != "" {
				g.Comment(c)
			}
			typ := fieldType(fd)
			if fd.Optional && !nillable(fd) {
				typ = jen.Op("*").Add(typ)
			}
			g.Id(fd.StructField()).Add(typ).Tag(map[string]string{"json": fd.JSONName()})
		}
	})
}

// genModelConsts generates the table and address name constants.
func genModelConsts(f *jen.File, t *gen.Type) {
	f.Commentf("%s is the table the entity is stored in.", tableConst(t))
	f.Const().Id(tableConst(t)).Op("=").Lit(t.Table())
	if addr := t.AddressName(); addr != "" {
		f.Commentf("%sAddress names the key records are addressed by.", t.StructName())
		f.Const().Id(t.StructName() + "Address").Op("=").Lit(addr)
	}
}

// genModelColumns generates the column list the statements select and
// scan, aligned with the struct fields.
func genModelColumns(f *jen.File, t *gen.Type) {
	f.Commentf("%s lists the entity columns in declaration order.", columnsVar(t))
	f.Var().Id(columnsVar(t)).Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
		for _, c := range columnNames(modelFields(t)) {
			g.Lit(c)
		}
	})
}

// genModelValues generates the values method returning one scan
// destination per column.
func genModelValues(f *jen.File, t *gen.Type) {
	rcv := t.Receiver()
	f.Commentf("values returns the scan destinations of the record, aligned with %s.", columnsVar(t))
	f.Func().Params(jen.Id(rcv).Op("*").Id(t.StructName())).Id("values").Params().Index().Any().Block(
		jen.Return(jen.Index().Any().ValuesFunc(func(g *jen.Group) {
			for _, fd := range modelFields(t) {
				dest := jen.Op("&").Id(rcv).Dot(fd.StructField())
				if fd.List {
					g.Qual(pqPkg, "Array").Call(dest)
					continue
				}
				g.Add(dest)
			}
		})),
	)
}
