package rest

import (
	"github.com/dave/jennifer/jen"

	"github.com/tomaszdurka/prismarest/compiler/gen"
)

// QueryEmitter renders the flat query shape bound from the URL
// parameters of list and count requests, together with its translation
// into a filter tree.
type QueryEmitter struct{}

// Name implements gen.Emitter.
func (QueryEmitter) Name() string { return "rest/query" }

// Feature implements gen.FeatureEmitter.
func (QueryEmitter) Feature() gen.Feature { return gen.FeatureFlatQuery }

// EmitEntity renders the query file of the entity.
func (QueryEmitter) EmitEntity(t *gen.Type) ([]*gen.File, error) {
	f := t.JenFile()
	genQueryStruct(f, t)
	genQueryPredicate(f, t)
	file, err := gen.RenderJen(t.Label()+"_query.go", f)
	if err != nil {
		return nil, err
	}
	return []*gen.File{file}, nil
}

// genQueryStruct generates the parameter struct, one pointer field per
// exposed operator so an absent parameter stays distinguishable from a
// zero value.
func genQueryStruct(f *jen.File, t *gen.Type) {
	f.Commentf("%s carries the flat query parameters of %s list requests.", t.QueryName(), t.Name)
	f.Type().Id(t.QueryName()).StructFunc(func(g *jen.Group) {
		for _, p := range t.QueryParams() {
			for _, op := range p.Ops {
				name := p.Field.ParamName(op)
				g.Id(gen.Pascal(name)).Op("*").Add(goType(p.Field)).Tag(map[string]string{
					"form": name,
					"json": name + ",omitempty",
				})
			}
		}
	})
}

// genQueryPredicate generates the predicate method combining the set
// parameters into a conjunction.
func genQueryPredicate(f *jen.File, t *gen.Type) {
	f.Comment("predicate renders the set parameters into a filter tree.")
	f.Func().Params(jen.Id("q").Op("*").Id(t.QueryName())).Id("predicate").Params().Qual(filterPkg, "Predicate").BlockFunc(func(g *jen.Group) {
		g.If(jen.Id("q").Op("==").Nil()).Block(jen.Return(jen.Nil()))
		g.Var().Id("ps").Index().Qual(filterPkg, "Predicate")
		for _, p := range t.QueryParams() {
			for _, op := range p.Ops {
				param := jen.Id("q").Dot(gen.Pascal(p.Field.ParamName(op)))
				g.If(jen.Add(param.Clone()).Op("!=").Nil()).Block(
					jen.Id("ps").Op("=").Append(
						jen.Id("ps"),
						jen.Qual(filterPkg, condFunc(op)).Call(jen.Lit(p.Field.Column()), jen.Op("*").Add(param.Clone())),
					),
				)
			}
		}
		g.Return(jen.Qual(filterPkg, "And").Call(jen.Id("ps").Op("...")))
	})
}

// condFunc returns the filter package constructor of the operator.
func condFunc(op gen.Op) string {
	switch op {
	case gen.OpNEQ:
		return "NEQ"
	case gen.OpGT:
		return "GT"
	case gen.OpGTE:
		return "GTE"
	case gen.OpLT:
		return "LT"
	case gen.OpLTE:
		return "LTE"
	case gen.OpContains:
		return "Contains"
	case gen.OpStartsWith:
		return "StartsWith"
	case gen.OpEndsWith:
		return "EndsWith"
	}
	return "EQ"
}
