package rest

import (
	"github.com/dave/jennifer/jen"

	"github.com/tomaszdurka/prismarest/compiler/gen"
	"github.com/tomaszdurka/prismarest/compiler/load"
)

// ServiceEmitter renders the persistence service of each entity: typed
// create, read, list, count, update, and delete operations over
// database/sql, assembled through the dialect helpers. Dialects without
// RETURNING fall back to a write followed by a read.
type ServiceEmitter struct{}

// Name implements gen.Emitter.
func (ServiceEmitter) Name() string { return "rest/service" }

// EmitEntity renders the service file of the entity.
func (ServiceEmitter) EmitEntity(t *gen.Type) ([]*gen.File, error) {
	f := t.JenFile()
	genServiceStruct(f, t)
	if hasSystem(t) {
		genSystemColumns(f, t)
		genSystemValues(f, t)
	}
	genServiceCreate(f, t)
	if keyed(t) {
		genServiceGet(f, t)
	}
	genServiceList(f, t)
	if t.FeatureEnabled(gen.FeatureNestedFilter) {
		genServiceFind(f, t)
	}
	genServiceCount(f, t)
	if keyed(t) {
		genServiceUpdate(f, t)
		genServiceDelete(f, t)
	}
	file, err := gen.RenderJen(t.Label()+"_service.go", f)
	if err != nil {
		return nil, err
	}
	return []*gen.File{file}, nil
}

// hasSystem reports whether the entity carries configured system
// fields. Their values come from the serving environment and scope
// every statement of the service.
func hasSystem(t *gen.Type) bool {
	return len(systemFields(t)) > 0
}

// sysColumnsVar returns the name of the generated system column list.
func sysColumnsVar(t *gen.Type) string {
	return gen.Camel(t.Name) + "SystemColumns"
}

// retFn builds the error return of the surrounding generated method, so
// shared statement generators fit any return shape.
type retFn func(err jen.Code) jen.Code

func retNilErr(err jen.Code) jen.Code  { return jen.Return(jen.Nil(), err) }
func retZeroErr(err jen.Code) jen.Code { return jen.Return(jen.Lit(0), err) }
func retErr(err jen.Code) jen.Code     { return jen.Return(err) }

// createStrategy selects how Create recovers the stored row on dialects
// without RETURNING.
type createStrategy int

const (
	// createReturning relies on RETURNING alone; the fresh address is
	// not knowable on the client.
	createReturning createStrategy = iota
	// createLastID reads the driver-reported insert id of an
	// auto-increment key and refetches.
	createLastID
	// createRefetch rebuilds the key from payload and generated values
	// and refetches.
	createRefetch
)

func createStrategyOf(t *gen.Type) createStrategy {
	if !keyed(t) {
		return createReturning
	}
	ids := t.IdentifierFields()
	if len(ids) == 1 && ids[0].DefaultExpr() == "autoincrement()" {
		return createLastID
	}
	for _, fd := range ids {
		if generatedExpr(fd) {
			continue
		}
		if fd.HasDefault() || fd.Optional {
			return createReturning
		}
	}
	return createRefetch
}

// generatedExpr reports whether the field's default is an identifier
// the service generates client side.
func generatedExpr(f *gen.Field) bool {
	switch f.DefaultExpr() {
	case "uuid()", "cuid()":
		return true
	}
	return false
}

// genExpr returns the call generating a fresh value for the field.
func genExpr(f *gen.Field) jen.Code {
	if f.DefaultExpr() == "cuid()" {
		return jen.Qual(rootPkg, "NewULID").Call()
	}
	return jen.Qual(rootPkg, "NewUUID").Call()
}

func svcRecv(t *gen.Type) jen.Code {
	return jen.Id("s").Op("*").Id(t.ServiceName())
}

func ctxParam() jen.Code {
	return jen.Id("ctx").Qual("context", "Context")
}

func genServiceStruct(f *jen.File, t *gen.Type) {
	f.Commentf("%s persists %s records over database/sql, assembling its statements through the dialect helpers.", t.ServiceName(), t.Name)
	f.Type().Id(t.ServiceName()).StructFunc(func(g *jen.Group) {
		g.Id("db").Op("*").Qual("database/sql", "DB")
		g.Id("drv").Qual(dialectPkg, "Dialect")
		if hasSystem(t) {
			g.Id("sys").Qual(rootPkg, "SystemResolver")
		}
	})

	f.Commentf("New%s creates a service around db.", t.ServiceName())
	params := []jen.Code{
		jen.Id("db").Op("*").Qual("database/sql", "DB"),
		jen.Id("drv").Qual(dialectPkg, "Dialect"),
	}
	fields := jen.Dict{
		jen.Id("db"):  jen.Id("db"),
		jen.Id("drv"): jen.Id("drv"),
	}
	if hasSystem(t) {
		params = append(params, jen.Id("sys").Qual(rootPkg, "SystemResolver"))
		fields[jen.Id("sys")] = jen.Id("sys")
	}
	f.Func().Id("New"+t.ServiceName()).Params(params...).Op("*").Id(t.ServiceName()).Block(
		jen.Return(jen.Op("&").Id(t.ServiceName()).Values(fields)),
	)
}

func genSystemColumns(f *jen.File, t *gen.Type) {
	f.Commentf("%s lists the %s columns whose values the serving environment supplies.", sysColumnsVar(t), t.Name)
	f.Var().Id(sysColumnsVar(t)).Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
		for _, fd := range systemFields(t) {
			g.Lit(fd.Column())
		}
	})
}

func genSystemValues(f *jen.File, t *gen.Type) {
	f.Commentf("systemValues resolves the values of %s, in column order.", sysColumnsVar(t))
	f.Func().Params(svcRecv(t)).Id("systemValues").Params(ctxParam()).Params(jen.Index().Any(), jen.Error()).BlockFunc(func(g *jen.Group) {
		for _, fd := range systemFields(t) {
			g.List(jen.Id(gen.Camel(fd.Name)), jen.Err()).Op(":=").Id("s").Dot("sys").Dot("SystemValue").Call(jen.Id("ctx"), jen.Lit(fd.Name))
			g.If(jen.Err().Op("!=").Nil()).Block(
				jen.Return(jen.Nil(), jen.Qual(rootPkg, "NewSystemFieldError").Call(jen.Lit(fd.Name), jen.Err())),
			)
		}
		g.Return(jen.Index().Any().ValuesFunc(func(vg *jen.Group) {
			for _, fd := range systemFields(t) {
				vg.Id(gen.Camel(fd.Name))
			}
		}), jen.Nil())
	})
}

// genEnumChecks generates value checks for the enum members of a write
// payload, so a bad value reports as a validation error instead of
// surfacing as a driver error.
func genEnumChecks(g *jen.Group, shapes []gen.Shape, recv string, ret retFn) {
	for _, sh := range shapes {
		if sh.Rep != gen.RepEnum || sh.ReadOnly {
			continue
		}
		field := func() *jen.Statement { return jen.Id(recv).Dot(sh.Field.StructField()) }
		invalid := func(val jen.Code) jen.Code {
			return ret(jen.Qual(rootPkg, "NewValidationError").Call(
				jen.Lit(sh.Field.JSONName()),
				jen.Qual("fmt", "Errorf").Call(jen.Lit("invalid value %q"), val),
			))
		}
		switch {
		case sh.Field.List:
			g.For(jen.List(jen.Id("_"), jen.Id("v")).Op(":=").Range().Add(field())).Block(
				jen.If(jen.Op("!").Id("v").Dot("Valid").Call()).Block(invalid(jen.Id("v"))),
			)
		case sh.Optional:
			g.If(field().Op("!=").Nil().Op("&&").Op("!").Add(field()).Dot("Valid").Call()).Block(
				invalid(jen.Op("*").Add(field())),
			)
		default:
			g.If(jen.Op("!").Add(field()).Dot("Valid").Call()).Block(invalid(field()))
		}
	}
}

// genQueryEnumChecks generates value checks for the enum members of the
// flat query shape.
func genQueryEnumChecks(g *jen.Group, t *gen.Type, ret retFn) {
	var checks []jen.Code
	for _, p := range t.QueryParams() {
		if !p.Field.IsEnum() {
			continue
		}
		field := func() *jen.Statement { return jen.Id("q").Dot(gen.Pascal(p.Field.ParamName(gen.OpEQ))) }
		checks = append(checks, jen.If(field().Op("!=").Nil().Op("&&").Op("!").Add(field()).Dot("Valid").Call()).Block(
			ret(jen.Qual(rootPkg, "NewValidationError").Call(
				jen.Lit(p.Field.JSONName()),
				jen.Qual("fmt", "Errorf").Call(jen.Lit("invalid value %q"), jen.Op("*").Add(field())),
			)),
		))
	}
	if len(checks) == 0 {
		return
	}
	g.If(jen.Id("q").Op("!=").Nil()).Block(checks...)
}

// genSystemScope folds the environment-supplied equalities into pred.
func genSystemScope(g *jen.Group, t *gen.Type, ret retFn) {
	g.List(jen.Id("sysVals"), jen.Err()).Op(":=").Id("s").Dot("systemValues").Call(jen.Id("ctx"))
	g.If(jen.Err().Op("!=").Nil()).Block(ret(jen.Err()))
	g.For(jen.List(jen.Id("i"), jen.Id("c")).Op(":=").Range().Id(sysColumnsVar(t))).Block(
		jen.Id("pred").Op("=").Qual(filterPkg, "And").Call(
			jen.Id("pred"),
			jen.Qual(filterPkg, "EQ").Call(jen.Id("c"), jen.Id("sysVals").Index(jen.Id("i"))),
		),
	)
}

// genSystemAppend resolves the system values and appends their columns
// and values to the named column slice and to args.
func genSystemAppend(g *jen.Group, t *gen.Type, colsVar string, ret retFn) {
	g.List(jen.Id("sysVals"), jen.Err()).Op(":=").Id("s").Dot("systemValues").Call(jen.Id("ctx"))
	g.If(jen.Err().Op("!=").Nil()).Block(ret(jen.Err()))
	g.Id(colsVar).Op("=").Append(jen.Id(colsVar), jen.Id(sysColumnsVar(t)).Op("..."))
	g.Id("args").Op("=").Append(jen.Id("args"), jen.Id("sysVals").Op("..."))
}

// inputValue returns the expression carrying the shaped field's value
// out of the payload.
func inputValue(sh gen.Shape, recv string) jen.Code {
	val := jen.Id(recv).Dot(sh.Field.StructField())
	if sh.Optional && !nillable(sh.Field) {
		return jen.Op("*").Add(val)
	}
	return val
}

// emptyListExpr returns a typed empty slice for the list field.
func emptyListExpr(f *gen.Field) jen.Code {
	return jen.Index().Add(goType(f)).Values()
}

func genServiceCreate(f *jen.File, t *gen.Type) {
	strategy := createStrategyOf(t)
	shapes := t.CreateFields()
	shapeOf := make(map[string]gen.Shape, len(shapes))
	for _, sh := range shapes {
		shapeOf[sh.Field.Name] = sh
	}

	f.Comment("Create inserts a record from the payload and returns the stored row.")
	f.Func().Params(svcRecv(t)).Id("Create").Params(
		ctxParam(),
		jen.Id("in").Op("*").Id(t.CreateInputName()),
	).Params(jen.Op("*").Id(t.StructName()), jen.Error()).BlockFunc(func(g *jen.Group) {
		genEnumChecks(g, shapes, "in", retNilErr)

		// Locals for identifier values generated client side, so the
		// address of the fresh record is known without RETURNING.
		keyVal := map[string]jen.Code{}
		for _, fd := range t.IdentifierFields() {
			if !generatedExpr(fd) {
				if !fd.HasDefault() && !fd.Optional {
					keyVal[fd.Name] = jen.Id("in").Dot(fd.StructField())
				}
				continue
			}
			local := gen.Camel(fd.Name)
			g.Id(local).Op(":=").Add(genExpr(fd))
			if sh, ok := shapeOf[fd.Name]; ok && sh.Optional {
				g.If(jen.Id("in").Dot(fd.StructField()).Op("!=").Nil()).Block(
					jen.Id(local).Op("=").Op("*").Id("in").Dot(fd.StructField()),
				)
			}
			keyVal[fd.Name] = jen.Id(local)
		}

		// Unconditional columns first, in declaration order; optional
		// ones are appended below when set.
		var cols, args []jen.Code
		var conds []func(*jen.Group)
		for _, fd := range t.Fields {
			if fd.IsRelation() || t.IsSystemField(fd.Name) {
				continue
			}
			if local, ok := keyVal[fd.Name]; ok && generatedExpr(fd) {
				cols = append(cols, jen.Lit(fd.Column()))
				args = append(args, jen.Add(local))
				continue
			}
			if fd.IsUpdatedAt() {
				cols = append(cols, jen.Lit(fd.Column()))
				args = append(args, jen.Qual("time", "Now").Call().Dot("UTC").Call())
				continue
			}
			sh, ok := shapeOf[fd.Name]
			if !ok {
				continue
			}
			field := fd
			switch {
			case fd.List && !sh.Optional:
				// Lists are never null: an absent list stores empty.
				local := gen.Camel(fd.Name)
				g.Id(local).Op(":=").Id("in").Dot(fd.StructField())
				g.If(jen.Id(local).Op("==").Nil()).Block(
					jen.Id(local).Op("=").Add(emptyListExpr(fd)),
				)
				cols = append(cols, jen.Lit(fd.Column()))
				args = append(args, jen.Qual(pqPkg, "Array").Call(jen.Id(local)))
			case sh.Optional:
				conds = append(conds, func(g *jen.Group) {
					val := inputValue(shapeOf[field.Name], "in")
					if field.List {
						val = jen.Qual(pqPkg, "Array").Call(val)
					}
					g.If(jen.Id("in").Dot(field.StructField()).Op("!=").Nil()).Block(
						jen.Id("cols").Op("=").Append(jen.Id("cols"), jen.Lit(field.Column())),
						jen.Id("args").Op("=").Append(jen.Id("args"), val),
					)
				})
			default:
				cols = append(cols, jen.Lit(fd.Column()))
				args = append(args, inputValue(sh, "in"))
			}
		}
		g.Id("cols").Op(":=").Index().String().Values(cols...)
		g.Id("args").Op(":=").Index().Any().Values(args...)
		for _, cond := range conds {
			cond(g)
		}
		if hasSystem(t) {
			genSystemAppend(g, t, "cols", retNilErr)
		}

		returning := func(g *jen.Group) {
			g.Id("query").Op(":=").Qual(dialectPkg, "InsertQuery").Call(
				jen.Id("s").Dot("drv"), jen.Id(tableConst(t)), jen.Id("cols"), jen.Id(columnsVar(t)),
			)
			g.Var().Id("row").Id(t.StructName())
			g.If(
				jen.Err().Op(":=").Id("s").Dot("db").Dot("QueryRowContext").Call(jen.Id("ctx"), jen.Id("query"), jen.Id("args").Op("...")).Dot("Scan").Call(jen.Id("row").Dot("values").Call().Op("...")),
				jen.Err().Op("!=").Nil(),
			).Block(
				jen.Return(jen.Nil(), jen.Qual(dialectPkg, "Constraint").Call(jen.Err())),
			)
			g.Return(jen.Op("&").Id("row"), jen.Nil())
		}

		if strategy == createReturning {
			returning(g)
			return
		}
		g.If(jen.Id("s").Dot("drv").Dot("SupportsReturning").Call()).BlockFunc(returning)
		g.Id("query").Op(":=").Qual(dialectPkg, "InsertQuery").Call(
			jen.Id("s").Dot("drv"), jen.Id(tableConst(t)), jen.Id("cols"), jen.Nil(),
		)
		switch strategy {
		case createLastID:
			g.List(jen.Id("res"), jen.Err()).Op(":=").Id("s").Dot("db").Dot("ExecContext").Call(jen.Id("ctx"), jen.Id("query"), jen.Id("args").Op("..."))
			g.If(jen.Err().Op("!=").Nil()).Block(
				jen.Return(jen.Nil(), jen.Qual(dialectPkg, "Constraint").Call(jen.Err())),
			)
			g.List(jen.Id("id"), jen.Err()).Op(":=").Id("res").Dot("LastInsertId").Call()
			g.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err()))
			idf := t.IdentifierFields()[0]
			idExpr := jen.Code(jen.Id("id"))
			if idf.Type == load.TypeInt {
				idExpr = jen.Int().Call(jen.Id("id"))
			}
			g.Return(jen.Id("s").Dot("Get").Call(jen.Id("ctx"), jen.Op("&").Id(t.KeyName()).Values(jen.Dict{
				jen.Id(idf.StructField()): idExpr,
			})))
		case createRefetch:
			g.If(
				jen.List(jen.Id("_"), jen.Err()).Op(":=").Id("s").Dot("db").Dot("ExecContext").Call(jen.Id("ctx"), jen.Id("query"), jen.Id("args").Op("...")),
				jen.Err().Op("!=").Nil(),
			).Block(
				jen.Return(jen.Nil(), jen.Qual(dialectPkg, "Constraint").Call(jen.Err())),
			)
			g.Return(jen.Id("s").Dot("Get").Call(jen.Id("ctx"), jen.Op("&").Id(t.KeyName()).Values(jen.DictFunc(func(d jen.Dict) {
				for _, fd := range t.IdentifierFields() {
					d[jen.Id(fd.StructField())] = keyVal[fd.Name]
				}
			}))))
		}
	})
}

// notFoundKey returns the expression reported by not-found errors.
func notFoundKey(t *gen.Type) jen.Code {
	ids := t.IdentifierFields()
	if len(ids) == 1 {
		return jen.Id("key").Dot(ids[0].StructField())
	}
	return jen.Op("*").Id("key")
}

// keyArgs returns the expressions of the key values, in identifier
// order.
func keyArgs(t *gen.Type) []jen.Code {
	var out []jen.Code
	for _, fd := range t.IdentifierFields() {
		out = append(out, jen.Id("key").Dot(fd.StructField()))
	}
	return out
}

// identifierCols returns the column literals of the identifier fields.
func identifierCols(t *gen.Type) []jen.Code {
	var out []jen.Code
	for _, fd := range t.IdentifierFields() {
		out = append(out, jen.Lit(fd.Column()))
	}
	return out
}

func genServiceGet(f *jen.File, t *gen.Type) {
	f.Comment("Get returns the record addressed by key.")
	f.Func().Params(svcRecv(t)).Id("Get").Params(
		ctxParam(),
		jen.Id("key").Op("*").Id(t.KeyName()),
	).Params(jen.Op("*").Id(t.StructName()), jen.Error()).BlockFunc(func(g *jen.Group) {
		queryArgs := []jen.Code{jen.Id("ctx"), jen.Id("query")}
		var whereExpr jen.Code
		if hasSystem(t) {
			g.Id("where").Op(":=").Index().String().Values(identifierCols(t)...)
			g.Id("args").Op(":=").Index().Any().Values(keyArgs(t)...)
			genSystemAppend(g, t, "where", retNilErr)
			whereExpr = jen.Qual(dialectPkg, "WhereEq").Call(jen.Id("s").Dot("drv"), jen.Id("where").Op("..."))
			queryArgs = append(queryArgs, jen.Id("args").Op("..."))
		} else {
			whereExpr = jen.Qual(dialectPkg, "WhereEq").Call(append([]jen.Code{jen.Id("s").Dot("drv")}, identifierCols(t)...)...)
			queryArgs = append(queryArgs, keyArgs(t)...)
		}
		g.Id("query").Op(":=").Qual(dialectPkg, "SelectQuery").Call(
			jen.Id("s").Dot("drv"), jen.Id(tableConst(t)), jen.Id(columnsVar(t)), whereExpr, jen.Lit(""), jen.Lit(0), jen.Lit(0),
		)
		g.Var().Id("row").Id(t.StructName())
		g.If(
			jen.Err().Op(":=").Id("s").Dot("db").Dot("QueryRowContext").Call(queryArgs...).Dot("Scan").Call(jen.Id("row").Dot("values").Call().Op("...")),
			jen.Err().Op("!=").Nil(),
		).Block(
			jen.If(jen.Qual("errors", "Is").Call(jen.Err(), jen.Qual("database/sql", "ErrNoRows"))).Block(
				jen.Return(jen.Nil(), jen.Qual(rootPkg, "NewNotFoundErrorWithKey").Call(jen.Lit(t.Name), notFoundKey(t))),
			),
			jen.Return(jen.Nil(), jen.Err()),
		)
		g.Return(jen.Op("&").Id("row"), jen.Nil())
	})
}

// genFilteredWhere renders predicate construction, system scoping, and
// the final fragment build shared by List, Find, and Count. It reports
// whether a where fragment and args exist at all.
func genFilteredWhere(g *jen.Group, t *gen.Type, predInit jen.Code, ret retFn) bool {
	sys := hasSystem(t)
	if predInit == nil && !sys {
		return false
	}
	if predInit != nil {
		g.Id("pred").Op(":=").Add(predInit)
	} else {
		g.Var().Id("pred").Qual(filterPkg, "Predicate")
	}
	if sys {
		genSystemScope(g, t, ret)
	}
	g.List(jen.Id("where"), jen.Id("args")).Op(":=").Qual(filterPkg, "Build").Call(jen.Id("pred"), jen.Id("s").Dot("drv").Dot("Ident"))
	return true
}

// genScanRows renders the row loop collecting the query results.
func genScanRows(g *jen.Group, t *gen.Type, queryArgs []jen.Code) {
	g.List(jen.Id("rows"), jen.Err()).Op(":=").Id("s").Dot("db").Dot("QueryContext").Call(queryArgs...)
	g.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err()))
	g.Defer().Id("rows").Dot("Close").Call()
	g.Var().Id("out").Index().Op("*").Id(t.StructName())
	g.For(jen.Id("rows").Dot("Next").Call()).Block(
		jen.Var().Id("row").Id(t.StructName()),
		jen.If(
			jen.Err().Op(":=").Id("rows").Dot("Scan").Call(jen.Id("row").Dot("values").Call().Op("...")),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Id("out").Op("=").Append(jen.Id("out"), jen.Op("&").Id("row")),
	)
	g.Return(jen.Id("out"), jen.Id("rows").Dot("Err").Call())
}

func genServiceList(f *jen.File, t *gen.Type) {
	flat := t.FeatureEnabled(gen.FeatureFlatQuery)
	params := []jen.Code{ctxParam()}
	if flat {
		params = append(params, jen.Id("q").Op("*").Id(t.QueryName()))
	}
	params = append(params, jen.Id("page").Qual(rootPkg, "Page"))

	f.Comment("List returns the records matching the query, paged and ordered.")
	f.Func().Params(svcRecv(t)).Id("List").Params(params...).Params(jen.Index().Op("*").Id(t.StructName()), jen.Error()).BlockFunc(func(g *jen.Group) {
		var predInit jen.Code
		if flat {
			genQueryEnumChecks(g, t, retNilErr)
			predInit = jen.Id("q").Dot("predicate").Call()
		}
		filtered := genFilteredWhere(g, t, predInit, retNilErr)
		g.List(jen.Id("order"), jen.Err()).Op(":=").Qual(dialectPkg, "OrderBy").Call(jen.Id("s").Dot("drv"), jen.Id("page").Dot("Sort"), jen.Id(columnsVar(t)))
		g.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err()))
		g.Id("page").Op("=").Id("page").Dot("Clamp").Call()
		whereExpr := jen.Code(jen.Lit(""))
		queryArgs := []jen.Code{jen.Id("ctx"), jen.Id("query")}
		if filtered {
			whereExpr = jen.Id("where")
			queryArgs = append(queryArgs, jen.Id("args").Op("..."))
		}
		g.Id("query").Op(":=").Qual(dialectPkg, "SelectQuery").Call(
			jen.Id("s").Dot("drv"), jen.Id(tableConst(t)), jen.Id(columnsVar(t)), whereExpr, jen.Id("order"), jen.Id("page").Dot("Limit"), jen.Id("page").Dot("Offset"),
		)
		genScanRows(g, t, queryArgs)
	})
}

func genServiceFind(f *jen.File, t *gen.Type) {
	f.Comment("Find returns the records matching the filter document, paged and ordered.")
	f.Func().Params(svcRecv(t)).Id("Find").Params(
		ctxParam(),
		jen.Id("flt").Op("*").Id(t.FilterName()),
		jen.Id("page").Qual(rootPkg, "Page"),
	).Params(jen.Index().Op("*").Id(t.StructName()), jen.Error()).BlockFunc(func(g *jen.Group) {
		genFilteredWhere(g, t, jen.Id("flt").Dot("predicate").Call(), retNilErr)
		g.List(jen.Id("order"), jen.Err()).Op(":=").Qual(dialectPkg, "OrderBy").Call(jen.Id("s").Dot("drv"), jen.Id("page").Dot("Sort"), jen.Id(columnsVar(t)))
		g.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err()))
		g.Id("page").Op("=").Id("page").Dot("Clamp").Call()
		g.Id("query").Op(":=").Qual(dialectPkg, "SelectQuery").Call(
			jen.Id("s").Dot("drv"), jen.Id(tableConst(t)), jen.Id(columnsVar(t)), jen.Id("where"), jen.Id("order"), jen.Id("page").Dot("Limit"), jen.Id("page").Dot("Offset"),
		)
		genScanRows(g, t, []jen.Code{jen.Id("ctx"), jen.Id("query"), jen.Id("args").Op("...")})
	})
}

func genServiceCount(f *jen.File, t *gen.Type) {
	flat := t.FeatureEnabled(gen.FeatureFlatQuery)
	params := []jen.Code{ctxParam()}
	if flat {
		params = append(params, jen.Id("q").Op("*").Id(t.QueryName()))
	}

	f.Comment("Count returns the number of records matching the query.")
	f.Func().Params(svcRecv(t)).Id("Count").Params(params...).Params(jen.Int64(), jen.Error()).BlockFunc(func(g *jen.Group) {
		var predInit jen.Code
		if flat {
			genQueryEnumChecks(g, t, retZeroErr)
			predInit = jen.Id("q").Dot("predicate").Call()
		}
		filtered := genFilteredWhere(g, t, predInit, retZeroErr)
		whereExpr := jen.Code(jen.Lit(""))
		queryArgs := []jen.Code{jen.Id("ctx"), jen.Id("query")}
		if filtered {
			whereExpr = jen.Id("where")
			queryArgs = append(queryArgs, jen.Id("args").Op("..."))
		}
		g.Id("query").Op(":=").Qual(dialectPkg, "CountQuery").Call(jen.Id("s").Dot("drv"), jen.Id(tableConst(t)), whereExpr)
		g.Var().Id("n").Int64()
		g.If(
			jen.Err().Op(":=").Id("s").Dot("db").Dot("QueryRowContext").Call(queryArgs...).Dot("Scan").Call(jen.Op("&").Id("n")),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Lit(0), jen.Err()))
		g.Return(jen.Id("n"), jen.Nil())
	})
}

func genServiceUpdate(f *jen.File, t *gen.Type) {
	shapes := t.UpdateFields()

	f.Comment("Update applies the set fields of the payload to the addressed record and returns the stored row. Read-only fields in the payload are ignored.")
	f.Func().Params(svcRecv(t)).Id("Update").Params(
		ctxParam(),
		jen.Id("key").Op("*").Id(t.KeyName()),
		jen.Id("in").Op("*").Id(t.UpdateInputName()),
	).Params(jen.Op("*").Id(t.StructName()), jen.Error()).BlockFunc(func(g *jen.Group) {
		genEnumChecks(g, shapes, "in", retNilErr)
		g.Var().Defs(
			jen.Id("set").Index().String(),
			jen.Id("args").Index().Any(),
		)
		for _, sh := range shapes {
			if sh.ReadOnly {
				continue
			}
			val := inputValue(sh, "in")
			if sh.Field.List {
				val = jen.Qual(pqPkg, "Array").Call(jen.Id("in").Dot(sh.Field.StructField()))
			}
			g.If(jen.Id("in").Dot(sh.Field.StructField()).Op("!=").Nil()).Block(
				jen.Id("set").Op("=").Append(jen.Id("set"), jen.Lit(sh.Field.Column())),
				jen.Id("args").Op("=").Append(jen.Id("args"), val),
			)
		}
		g.If(jen.Len(jen.Id("set")).Op("==").Lit(0)).Block(
			jen.Return(jen.Id("s").Dot("Get").Call(jen.Id("ctx"), jen.Id("key"))),
		)
		for _, fd := range t.Fields {
			if fd.IsUpdatedAt() {
				g.Id("set").Op("=").Append(jen.Id("set"), jen.Lit(fd.Column()))
				g.Id("args").Op("=").Append(jen.Id("args"), jen.Qual("time", "Now").Call().Dot("UTC").Call())
			}
		}
		var whereExpr func() jen.Code
		if hasSystem(t) {
			g.Id("where").Op(":=").Index().String().Values(identifierCols(t)...)
			g.Id("args").Op("=").Append(append([]jen.Code{jen.Id("args")}, keyArgs(t)...)...)
			genSystemAppend(g, t, "where", retNilErr)
			whereExpr = func() jen.Code { return jen.Id("where") }
		} else {
			g.Id("args").Op("=").Append(append([]jen.Code{jen.Id("args")}, keyArgs(t)...)...)
			whereExpr = func() jen.Code { return jen.Index().String().Values(identifierCols(t)...) }
		}

		g.If(jen.Id("s").Dot("drv").Dot("SupportsReturning").Call()).BlockFunc(func(g *jen.Group) {
			g.Id("query").Op(":=").Qual(dialectPkg, "UpdateQuery").Call(
				jen.Id("s").Dot("drv"), jen.Id(tableConst(t)), jen.Id("set"), whereExpr(), jen.Id(columnsVar(t)),
			)
			g.Var().Id("row").Id(t.StructName())
			g.If(
				jen.Err().Op(":=").Id("s").Dot("db").Dot("QueryRowContext").Call(jen.Id("ctx"), jen.Id("query"), jen.Id("args").Op("...")).Dot("Scan").Call(jen.Id("row").Dot("values").Call().Op("...")),
				jen.Err().Op("!=").Nil(),
			).Block(
				jen.If(jen.Qual("errors", "Is").Call(jen.Err(), jen.Qual("database/sql", "ErrNoRows"))).Block(
					jen.Return(jen.Nil(), jen.Qual(rootPkg, "NewNotFoundErrorWithKey").Call(jen.Lit(t.Name), notFoundKey(t))),
				),
				jen.Return(jen.Nil(), jen.Qual(dialectPkg, "Constraint").Call(jen.Err())),
			)
			g.Return(jen.Op("&").Id("row"), jen.Nil())
		})
		g.Id("query").Op(":=").Qual(dialectPkg, "UpdateQuery").Call(
			jen.Id("s").Dot("drv"), jen.Id(tableConst(t)), jen.Id("set"), whereExpr(), jen.Nil(),
		)
		g.If(
			jen.List(jen.Id("_"), jen.Err()).Op(":=").Id("s").Dot("db").Dot("ExecContext").Call(jen.Id("ctx"), jen.Id("query"), jen.Id("args").Op("...")),
			jen.Err().Op("!=").Nil(),
		).Block(
			jen.Return(jen.Nil(), jen.Qual(dialectPkg, "Constraint").Call(jen.Err())),
		)
		g.Return(jen.Id("s").Dot("Get").Call(jen.Id("ctx"), jen.Id("key")))
	})
}

func genServiceDelete(f *jen.File, t *gen.Type) {
	f.Comment("Delete removes the addressed record.")
	f.Func().Params(svcRecv(t)).Id("Delete").Params(
		ctxParam(),
		jen.Id("key").Op("*").Id(t.KeyName()),
	).Error().BlockFunc(func(g *jen.Group) {
		execArgs := []jen.Code{jen.Id("ctx"), jen.Id("query")}
		var whereExpr jen.Code
		if hasSystem(t) {
			g.Id("where").Op(":=").Index().String().Values(identifierCols(t)...)
			g.Id("args").Op(":=").Index().Any().Values(keyArgs(t)...)
			genSystemAppend(g, t, "where", retErr)
			whereExpr = jen.Id("where")
			execArgs = append(execArgs, jen.Id("args").Op("..."))
		} else {
			whereExpr = jen.Index().String().Values(identifierCols(t)...)
			execArgs = append(execArgs, keyArgs(t)...)
		}
		g.Id("query").Op(":=").Qual(dialectPkg, "DeleteQuery").Call(jen.Id("s").Dot("drv"), jen.Id(tableConst(t)), whereExpr)
		g.List(jen.Id("res"), jen.Err()).Op(":=").Id("s").Dot("db").Dot("ExecContext").Call(execArgs...)
		g.If(jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Qual(dialectPkg, "Constraint").Call(jen.Err())),
		)
		g.List(jen.Id("n"), jen.Err()).Op(":=").Id("res").Dot("RowsAffected").Call()
		g.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err()))
		g.If(jen.Id("n").Op("==").Lit(0)).Block(
			jen.Return(jen.Qual(rootPkg, "NewNotFoundErrorWithKey").Call(jen.Lit(t.Name), notFoundKey(t))),
		)
		g.Return(jen.Nil())
	})
}
