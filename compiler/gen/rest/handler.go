package rest

import (
	"github.com/dave/jennifer/jen"

	"github.com/tomaszdurka/prismarest/compiler/gen"
)

// HandlerEmitter renders the gin handler of each entity: route
// registration plus one handler per endpoint, delegating the work to
// the entity service and the error mapping to the httpapi helpers.
type HandlerEmitter struct{}

// Name implements gen.Emitter.
func (HandlerEmitter) Name() string { return "rest/handler" }

// Feature implements gen.FeatureEmitter.
func (HandlerEmitter) Feature() gen.Feature { return gen.FeatureHTTP }

// EmitEntity renders the handler file of the entity.
func (HandlerEmitter) EmitEntity(t *gen.Type) ([]*gen.File, error) {
	f := t.JenFile()
	genHandlerStruct(f, t)
	genHandlerRegister(f, t)
	genHandlerCreate(f, t)
	genHandlerList(f, t)
	genHandlerCount(f, t)
	if t.FeatureEnabled(gen.FeatureNestedFilter) {
		genHandlerSearch(f, t)
	}
	if keyed(t) {
		genHandlerGet(f, t)
		genHandlerUpdate(f, t)
		genHandlerRemove(f, t)
	}
	file, err := gen.RenderJen(t.Label()+"_handler.go", f)
	if err != nil {
		return nil, err
	}
	return []*gen.File{file}, nil
}

// keyRoute returns the path segment addressing a single record, one
// parameter per identifier field.
func keyRoute(t *gen.Type) string {
	var path string
	for _, fd := range t.IdentifierFields() {
		path += "/:" + fd.Name
	}
	return path
}

func handlerRecv(t *gen.Type) jen.Code {
	return jen.Id("h").Op("*").Id(t.HandlerName())
}

func ginCtx() jen.Code {
	return jen.Id("c").Op("*").Qual(ginPkg, "Context")
}

// reqCtx returns the expression of the request context.
func reqCtx() jen.Code {
	return jen.Id("c").Dot("Request").Dot("Context").Call()
}

// genBadRequest renders the bind-error branch shared by every handler.
func genBadRequest(g *jen.Group, bind jen.Code) {
	g.If(jen.Err().Op(":=").Add(bind), jen.Err().Op("!=").Nil()).Block(
		jen.Qual(httpPkg, "BadRequest").Call(jen.Id("c"), jen.Err()),
		jen.Return(),
	)
}

// genServeError renders the service-error branch shared by every
// handler.
func genServeError(g *jen.Group) {
	g.If(jen.Err().Op("!=").Nil()).Block(
		jen.Qual(httpPkg, "Error").Call(jen.Id("c"), jen.Err()),
		jen.Return(),
	)
}

func genHandlerStruct(f *jen.File, t *gen.Type) {
	f.Commentf("%s serves the %s REST endpoints.", t.HandlerName(), t.Name)
	f.Type().Id(t.HandlerName()).Struct(
		jen.Id("svc").Op("*").Id(t.ServiceName()),
	)

	f.Commentf("New%s creates a handler around svc.", t.HandlerName())
	f.Func().Id("New"+t.HandlerName()).Params(jen.Id("svc").Op("*").Id(t.ServiceName())).Op("*").Id(t.HandlerName()).Block(
		jen.Return(jen.Op("&").Id(t.HandlerName()).Values(jen.Dict{jen.Id("svc"): jen.Id("svc")})),
	)
}

func genHandlerRegister(f *jen.File, t *gen.Type) {
	f.Commentf("Register mounts the %s endpoints under r.", t.Name)
	f.Func().Params(handlerRecv(t)).Id("Register").Params(jen.Id("r").Qual(ginPkg, "IRouter")).BlockFunc(func(g *jen.Group) {
		g.Id("g").Op(":=").Id("r").Dot("Group").Call(jen.Lit("/" + t.RoutePath()))
		g.Id("g").Dot("POST").Call(jen.Lit(""), jen.Id("h").Dot("create"))
		g.Id("g").Dot("GET").Call(jen.Lit(""), jen.Id("h").Dot("list"))
		g.Id("g").Dot("GET").Call(jen.Lit("/count"), jen.Id("h").Dot("count"))
		if t.FeatureEnabled(gen.FeatureNestedFilter) {
			g.Id("g").Dot("POST").Call(jen.Lit("/search"), jen.Id("h").Dot("search"))
		}
		if keyed(t) {
			route := keyRoute(t)
			g.Id("g").Dot("GET").Call(jen.Lit(route), jen.Id("h").Dot("get"))
			g.Id("g").Dot("PATCH").Call(jen.Lit(route), jen.Id("h").Dot("update"))
			g.Id("g").Dot("DELETE").Call(jen.Lit(route), jen.Id("h").Dot("remove"))
		}
	})
}

func genHandlerCreate(f *jen.File, t *gen.Type) {
	f.Func().Params(handlerRecv(t)).Id("create").Params(ginCtx()).BlockFunc(func(g *jen.Group) {
		g.Var().Id("in").Id(t.CreateInputName())
		genBadRequest(g, jen.Qual(httpPkg, "DecodeJSON").Call(jen.Id("c"), jen.Op("&").Id("in")))
		g.List(jen.Id("out"), jen.Err()).Op(":=").Id("h").Dot("svc").Dot("Create").Call(reqCtx(), jen.Op("&").Id("in"))
		genServeError(g)
		g.Id("c").Dot("JSON").Call(jen.Qual("net/http", "StatusCreated"), jen.Id("out"))
	})
}

func genHandlerList(f *jen.File, t *gen.Type) {
	flat := t.FeatureEnabled(gen.FeatureFlatQuery)
	f.Func().Params(handlerRecv(t)).Id("list").Params(ginCtx()).BlockFunc(func(g *jen.Group) {
		if flat {
			g.Var().Id("q").Id(t.QueryName())
			genBadRequest(g, jen.Id("c").Dot("ShouldBindQuery").Call(jen.Op("&").Id("q")))
		}
		g.List(jen.Id("page"), jen.Err()).Op(":=").Qual(httpPkg, "ParsePage").Call(jen.Id("c"))
		g.If(jen.Err().Op("!=").Nil()).Block(
			jen.Qual(httpPkg, "BadRequest").Call(jen.Id("c"), jen.Err()),
			jen.Return(),
		)
		listArgs := []jen.Code{reqCtx()}
		if flat {
			listArgs = append(listArgs, jen.Op("&").Id("q"))
		}
		listArgs = append(listArgs, jen.Id("page"))
		g.List(jen.Id("out"), jen.Err()).Op(":=").Id("h").Dot("svc").Dot("List").Call(listArgs...)
		genServeError(g)
		g.If(jen.Id("out").Op("==").Nil()).Block(
			jen.Id("out").Op("=").Index().Op("*").Id(t.StructName()).Values(),
		)
		g.Id("c").Dot("JSON").Call(jen.Qual("net/http", "StatusOK"), jen.Id("out"))
	})
}

func genHandlerCount(f *jen.File, t *gen.Type) {
	flat := t.FeatureEnabled(gen.FeatureFlatQuery)
	f.Func().Params(handlerRecv(t)).Id("count").Params(ginCtx()).BlockFunc(func(g *jen.Group) {
		countArgs := []jen.Code{reqCtx()}
		if flat {
			g.Var().Id("q").Id(t.QueryName())
			genBadRequest(g, jen.Id("c").Dot("ShouldBindQuery").Call(jen.Op("&").Id("q")))
			countArgs = append(countArgs, jen.Op("&").Id("q"))
		}
		g.List(jen.Id("n"), jen.Err()).Op(":=").Id("h").Dot("svc").Dot("Count").Call(countArgs...)
		genServeError(g)
		g.Id("c").Dot("JSON").Call(jen.Qual("net/http", "StatusOK"), jen.Qual(ginPkg, "H").Values(jen.Dict{
			jen.Lit("total"): jen.Id("n"),
		}))
	})
}

func genHandlerSearch(f *jen.File, t *gen.Type) {
	f.Func().Params(handlerRecv(t)).Id("search").Params(ginCtx()).BlockFunc(func(g *jen.Group) {
		g.Var().Id("req").Id(t.StructName() + "SearchRequest")
		genBadRequest(g, jen.Qual(httpPkg, "DecodeJSON").Call(jen.Id("c"), jen.Op("&").Id("req")))
		g.List(jen.Id("out"), jen.Err()).Op(":=").Id("h").Dot("svc").Dot("Find").Call(reqCtx(), jen.Id("req").Dot("Filter"), jen.Id("req").Dot("Page"))
		genServeError(g)
		g.If(jen.Id("out").Op("==").Nil()).Block(
			jen.Id("out").Op("=").Index().Op("*").Id(t.StructName()).Values(),
		)
		g.Id("c").Dot("JSON").Call(jen.Qual("net/http", "StatusOK"), jen.Id("out"))
	})
}

func genHandlerGet(f *jen.File, t *gen.Type) {
	f.Func().Params(handlerRecv(t)).Id("get").Params(ginCtx()).BlockFunc(func(g *jen.Group) {
		g.Var().Id("key").Id(t.KeyName())
		genBadRequest(g, jen.Id("c").Dot("ShouldBindUri").Call(jen.Op("&").Id("key")))
		g.List(jen.Id("out"), jen.Err()).Op(":=").Id("h").Dot("svc").Dot("Get").Call(reqCtx(), jen.Op("&").Id("key"))
		genServeError(g)
		g.Id("c").Dot("JSON").Call(jen.Qual("net/http", "StatusOK"), jen.Id("out"))
	})
}

func genHandlerUpdate(f *jen.File, t *gen.Type) {
	f.Func().Params(handlerRecv(t)).Id("update").Params(ginCtx()).BlockFunc(func(g *jen.Group) {
		g.Var().Id("key").Id(t.KeyName())
		genBadRequest(g, jen.Id("c").Dot("ShouldBindUri").Call(jen.Op("&").Id("key")))
		g.Var().Id("in").Id(t.UpdateInputName())
		genBadRequest(g, jen.Qual(httpPkg, "DecodeJSON").Call(jen.Id("c"), jen.Op("&").Id("in")))
		g.List(jen.Id("out"), jen.Err()).Op(":=").Id("h").Dot("svc").Dot("Update").Call(reqCtx(), jen.Op("&").Id("key"), jen.Op("&").Id("in"))
		genServeError(g)
		g.Id("c").Dot("JSON").Call(jen.Qual("net/http", "StatusOK"), jen.Id("out"))
	})
}

func genHandlerRemove(f *jen.File, t *gen.Type) {
	f.Func().Params(handlerRecv(t)).Id("remove").Params(ginCtx()).BlockFunc(func(g *jen.Group) {
		g.Var().Id("key").Id(t.KeyName())
		genBadRequest(g, jen.Id("c").Dot("ShouldBindUri").Call(jen.Op("&").Id("key")))
		g.If(
			jen.Err().Op(":=").Id("h").Dot("svc").Dot("Delete").Call(reqCtx(), jen.Op("&").Id("key")),
			jen.Err().Op("!=").Nil(),
		).Block(
			jen.Qual(httpPkg, "Error").Call(jen.Id("c"), jen.Err()),
			jen.Return(),
		)
		g.Id("c").Dot("Status").Call(jen.Qual("net/http", "StatusNoContent"))
	})
}
