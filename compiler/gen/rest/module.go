package rest

import (
	"github.com/dave/jennifer/jen"

	"github.com/tomaszdurka/prismarest/compiler/gen"
)

// ModuleEmitter renders the shared module file bundling every entity
// service behind one constructor, plus the package doc file.
type ModuleEmitter struct{}

// Name implements gen.Emitter.
func (ModuleEmitter) Name() string { return "rest/module" }

// EmitShared renders module.go and doc.go for the graph.
func (ModuleEmitter) EmitShared(g *gen.Graph) ([]*gen.File, error) {
	f := g.JenFile()
	genModule(f, g)
	module, err := gen.RenderJen("module.go", f)
	if err != nil {
		return nil, err
	}
	doc, err := gen.RenderJen("doc.go", genDoc(g))
	if err != nil {
		return nil, err
	}
	return []*gen.File{module, doc}, nil
}

// moduleField names the Module field holding an entity service.
func moduleField(t *gen.Type) string {
	return gen.Pascal(gen.Plural(t.Name))
}

// anySystem reports whether any entity carries a system field, which
// decides whether the module constructor takes a resolver.
func anySystem(g *gen.Graph) bool {
	for _, t := range g.Nodes {
		if hasSystem(t) {
			return true
		}
	}
	return false
}

func genDoc(g *gen.Graph) *jen.File {
	f := g.JenFile()
	f.PackageComment("Package " + g.Package + " is the API layer generated from the Prisma schema.")
	f.PackageComment("It holds a model, input types, a service and an HTTP handler per entity,")
	f.PackageComment("bundled by Module.")
	return f
}

func genModule(f *jen.File, g *gen.Graph) {
	f.Comment("Module bundles the generated services, one per entity.")
	f.Type().Id("Module").StructFunc(func(s *jen.Group) {
		for _, t := range g.Nodes {
			s.Id(moduleField(t)).Op("*").Id(t.ServiceName())
		}
	})

	sys := anySystem(g)
	f.Comment("NewModule wires a service per entity on db.")
	f.Func().Id("NewModule").ParamsFunc(func(p *jen.Group) {
		p.Id("db").Op("*").Qual("database/sql", "DB")
		p.Id("drv").Qual(dialectPkg, "Dialect")
		if sys {
			p.Id("sys").Qual(rootPkg, "SystemResolver")
		}
	}).Op("*").Id("Module").Block(
		jen.Return(jen.Op("&").Id("Module").Values(jen.DictFunc(func(d jen.Dict) {
			for _, t := range g.Nodes {
				args := []jen.Code{jen.Id("db"), jen.Id("drv")}
				if hasSystem(t) {
					args = append(args, jen.Id("sys"))
				}
				d[jen.Id(moduleField(t))] = jen.Id("New" + t.ServiceName()).Call(args...)
			}
		}))),
	)
}
