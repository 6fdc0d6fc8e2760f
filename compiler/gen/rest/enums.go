package rest

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/tomaszdurka/prismarest/compiler/gen"
	"github.com/tomaszdurka/prismarest/compiler/load"
)

// EnumEmitter renders one Go type per schema enum, with database
// round-tripping and the validity check the services rely on.
type EnumEmitter struct{}

// Name implements gen.Emitter.
func (EnumEmitter) Name() string { return "rest/enums" }

// EmitShared renders enums.go, or nothing when the schema has no enums.
func (EnumEmitter) EmitShared(g *gen.Graph) ([]*gen.File, error) {
	enums := g.Enums()
	if len(enums) == 0 {
		return nil, nil
	}
	f := g.JenFile()
	for _, e := range enums {
		genEnum(f, e)
	}
	file, err := gen.RenderJen("enums.go", f)
	if err != nil {
		return nil, err
	}
	return []*gen.File{file}, nil
}

// enumConst names the constant of one enum value, for example
// ("Role", "ADMIN") yields RoleAdmin.
func enumConst(e *load.Enum, value string) string {
	return gen.Pascal(e.Name) + gen.Pascal(strings.ToLower(value))
}

func genEnum(f *jen.File, e *load.Enum) {
	name := gen.Pascal(e.Name)
	recv := strings.ToLower(name[:1])

	f.Commentf("%s is the %s enum.", name, e.Name)
	f.Type().Id(name).String()

	f.Commentf("%s values.", name)
	f.Const().DefsFunc(func(d *jen.Group) {
		for _, v := range e.Values {
			d.Id(enumConst(e, v)).Id(name).Op("=").Lit(v)
		}
	})

	f.Comment("Values lists the wire names of every valid value.")
	f.Func().Params(jen.Id(name)).Id("Values").Params().Index().String().Block(
		jen.Return(jen.Index().String().ValuesFunc(func(g *jen.Group) {
			for _, v := range e.Values {
				g.Lit(v)
			}
		})),
	)

	f.Func().Params(jen.Id(recv).Id(name)).Id("String").Params().String().Block(
		jen.Return(jen.String().Call(jen.Id(recv))),
	)

	f.Commentf("Valid reports whether %s holds a declared value.", recv)
	f.Func().Params(jen.Id(recv).Id(name)).Id("Valid").Params().Bool().Block(
		jen.Switch(jen.Id(recv)).Block(
			jen.CaseFunc(func(g *jen.Group) {
				for _, v := range e.Values {
					g.Id(enumConst(e, v))
				}
			}).Block(jen.Return(jen.True())),
		),
		jen.Return(jen.False()),
	)

	f.Comment("Scan implements sql.Scanner.")
	f.Func().Params(jen.Id(recv).Op("*").Id(name)).Id("Scan").Params(jen.Id("src").Any()).Error().Block(
		jen.Switch(jen.Id("v").Op(":=").Id("src").Assert(jen.Type())).Block(
			jen.Case(jen.Nil()).Block(
				jen.Op("*").Id(recv).Op("=").Lit(""),
			),
			jen.Case(jen.String()).Block(
				jen.Op("*").Id(recv).Op("=").Id(name).Call(jen.Id("v")),
			),
			jen.Case(jen.Index().Byte()).Block(
				jen.Op("*").Id(recv).Op("=").Id(name).Call(jen.Id("v")),
			),
			jen.Default().Block(
				jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("unexpected enum value %v"), jen.Id("src"))),
			),
		),
		jen.Return(jen.Nil()),
	)

	f.Comment("Value implements driver.Valuer.")
	f.Func().Params(jen.Id(recv).Id(name)).Id("Value").Params().Params(jen.Qual("database/sql/driver", "Value"), jen.Error()).Block(
		jen.Return(jen.String().Call(jen.Id(recv)), jen.Nil()),
	)
}
