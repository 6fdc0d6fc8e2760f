package rest

import (
	"github.com/dave/jennifer/jen"

	"github.com/tomaszdurka/prismarest/compiler/gen"
)

// FilterEmitter renders the filter document of search requests: one
// operator struct per filterable field plus recursive AND, OR, and NOT
// composition.
type FilterEmitter struct{}

// Name implements gen.Emitter.
func (FilterEmitter) Name() string { return "rest/filter" }

// Feature implements gen.FeatureEmitter.
func (FilterEmitter) Feature() gen.Feature { return gen.FeatureNestedFilter }

// EmitEntity renders the filter file of the entity.
func (FilterEmitter) EmitEntity(t *gen.Type) ([]*gen.File, error) {
	f := t.JenFile()
	genFilterStruct(f, t)
	genFilterPredicate(f, t)
	genSearchRequest(f, t)
	file, err := gen.RenderJen(t.Label()+"_filter.go", f)
	if err != nil {
		return nil, err
	}
	return []*gen.File{file}, nil
}

// genFilterStruct generates the filter document struct. Set members AND
// together, matching the composition of the nested groups.
func genFilterStruct(f *jen.File, t *gen.Type) {
	f.Commentf("%s is the filter document of %s search requests. Set members combine with AND.", t.FilterName(), t.Name)
	f.Type().Id(t.FilterName()).StructFunc(func(g *jen.Group) {
		for _, sh := range t.FilterFields() {
			g.Id(sh.Field.StructField()).Op("*").Add(filterType(sh.Field)).Tag(map[string]string{
				"json": sh.Field.JSONName() + ",omitempty",
			})
		}
		g.Id("And").Index().Op("*").Id(t.FilterName()).Tag(map[string]string{"json": "AND,omitempty"})
		g.Id("Or").Index().Op("*").Id(t.FilterName()).Tag(map[string]string{"json": "OR,omitempty"})
		g.Id("Not").Op("*").Id(t.FilterName()).Tag(map[string]string{"json": "NOT,omitempty"})
	})
}

// genFilterPredicate generates the predicate method rendering the
// document into a filter tree, recursing through the nested groups.
func genFilterPredicate(f *jen.File, t *gen.Type) {
	f.Comment("predicate renders the filter document into a filter tree.")
	f.Func().Params(jen.Id("f").Op("*").Id(t.FilterName())).Id("predicate").Params().Qual(filterPkg, "Predicate").BlockFunc(func(g *jen.Group) {
		g.If(jen.Id("f").Op("==").Nil()).Block(jen.Return(jen.Nil()))
		g.Var().Id("ps").Index().Qual(filterPkg, "Predicate")
		for _, sh := range t.FilterFields() {
			g.Id("ps").Op("=").Append(
				jen.Id("ps"),
				jen.Id("f").Dot(sh.Field.StructField()).Dot("Predicate").Call(jen.Lit(sh.Field.Column())),
			)
		}
		g.For(jen.List(jen.Id("_"), jen.Id("sub")).Op(":=").Range().Id("f").Dot("And")).Block(
			jen.Id("ps").Op("=").Append(jen.Id("ps"), jen.Id("sub").Dot("predicate").Call()),
		)
		g.If(jen.Len(jen.Id("f").Dot("Or")).Op(">").Lit(0)).Block(
			jen.Id("alts").Op(":=").Make(jen.Index().Qual(filterPkg, "Predicate"), jen.Lit(0), jen.Len(jen.Id("f").Dot("Or"))),
			jen.For(jen.List(jen.Id("_"), jen.Id("sub")).Op(":=").Range().Id("f").Dot("Or")).Block(
				jen.Id("alts").Op("=").Append(jen.Id("alts"), jen.Id("sub").Dot("predicate").Call()),
			),
			jen.Id("ps").Op("=").Append(jen.Id("ps"), jen.Qual(filterPkg, "Or").Call(jen.Id("alts").Op("..."))),
		)
		g.Id("ps").Op("=").Append(jen.Id("ps"), jen.Qual(filterPkg, "Not").Call(jen.Id("f").Dot("Not").Dot("predicate").Call()))
		g.Return(jen.Qual(filterPkg, "And").Call(jen.Id("ps").Op("...")))
	})
}

// genSearchRequest generates the body struct of search calls.
func genSearchRequest(f *jen.File, t *gen.Type) {
	f.Commentf("%sSearchRequest is the body of %s search calls.", t.StructName(), t.Name)
	f.Type().Id(t.StructName() + "SearchRequest").Struct(
		jen.Id("Filter").Op("*").Id(t.FilterName()).Tag(map[string]string{"json": "filter,omitempty"}),
		jen.Id("Page").Qual(rootPkg, "Page").Tag(map[string]string{"json": "page,omitempty"}),
	)
}
