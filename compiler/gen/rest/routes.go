package rest

import (
	"github.com/dave/jennifer/jen"

	"github.com/tomaszdurka/prismarest/compiler/gen"
)

// RoutesEmitter renders the route wiring: Module.Mount plus the
// RegisterRoutes shortcut gluing construction and mounting together.
type RoutesEmitter struct{}

// Name implements gen.Emitter.
func (RoutesEmitter) Name() string { return "rest/routes" }

// Feature implements gen.FeatureEmitter.
func (RoutesEmitter) Feature() gen.Feature { return gen.FeatureHTTP }

// EmitShared renders routes.go for the graph.
func (RoutesEmitter) EmitShared(g *gen.Graph) ([]*gen.File, error) {
	f := g.JenFile()
	genMount(f, g)
	genRegisterRoutes(f, g)
	file, err := gen.RenderJen("routes.go", f)
	if err != nil {
		return nil, err
	}
	return []*gen.File{file}, nil
}

func genMount(f *jen.File, g *gen.Graph) {
	f.Comment("Mount registers the handlers of every entity under r.")
	f.Func().Params(jen.Id("m").Op("*").Id("Module")).Id("Mount").Params(jen.Id("r").Qual(ginPkg, "IRouter")).BlockFunc(func(b *jen.Group) {
		for _, t := range g.Nodes {
			b.Id("New" + t.HandlerName()).Call(jen.Id("m").Dot(moduleField(t))).Dot("Register").Call(jen.Id("r"))
		}
	})
}

func genRegisterRoutes(f *jen.File, g *gen.Graph) {
	sys := anySystem(g)
	f.Comment("RegisterRoutes builds the module on db and mounts its routes under r.")
	f.Func().Id("RegisterRoutes").ParamsFunc(func(p *jen.Group) {
		p.Id("r").Qual(ginPkg, "IRouter")
		p.Id("db").Op("*").Qual("database/sql", "DB")
		p.Id("drv").Qual(dialectPkg, "Dialect")
		if sys {
			p.Id("sys").Qual(rootPkg, "SystemResolver")
		}
	}).BlockFunc(func(b *jen.Group) {
		args := []jen.Code{jen.Id("db"), jen.Id("drv")}
		if sys {
			args = append(args, jen.Id("sys"))
		}
		b.Id("NewModule").Call(args...).Dot("Mount").Call(jen.Id("r"))
	})
}
