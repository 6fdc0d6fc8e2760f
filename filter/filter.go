// Package filter builds the WHERE clauses of generated list and search
// operations.
//
// Generated filter DTOs carry one typed operator struct per filterable
// field. Each struct renders into a Predicate tree, trees combine with
// And, Or, and Not, and Build turns the result into a SQL fragment with
// ? placeholders. Columns pass through the quote function supplied by
// the caller, so one tree serves every dialect.
package filter

import "strings"

// A Predicate is one node of a filter tree.
type Predicate interface {
	write(b *builder)
}

type builder struct {
	quote func(string) string
	sb    strings.Builder
	args  []any
}

// Build renders the predicate into a SQL fragment with ? placeholders,
// quoting columns with quote. A nil predicate renders empty.
func Build(p Predicate, quote func(string) string) (string, []any) {
	if p == nil {
		return "", nil
	}
	b := &builder{quote: quote}
	p.write(b)
	return b.sb.String(), b.args
}

// cond is a single column comparison. A folded cond compares
// case-insensitively: the column is lowered in SQL and the caller
// lowers the value.
type cond struct {
	column string
	op     string
	value  any
	suffix string
	fold   bool
}

func (c cond) write(b *builder) {
	writeColumn(b, c.column, c.fold)
	b.sb.WriteString(c.op)
	b.sb.WriteByte('?')
	b.sb.WriteString(c.suffix)
	b.args = append(b.args, c.value)
}

func writeColumn(b *builder, column string, fold bool) {
	if fold {
		b.sb.WriteString("LOWER(")
		b.sb.WriteString(b.quote(column))
		b.sb.WriteByte(')')
		return
	}
	b.sb.WriteString(b.quote(column))
}

// EQ matches column values equal to v.
func EQ(column string, v any) Predicate {
	return cond{column: column, op: " = ", value: v}
}

// NEQ matches column values different from v.
func NEQ(column string, v any) Predicate {
	return cond{column: column, op: " <> ", value: v}
}

// GT matches column values above v.
func GT(column string, v any) Predicate {
	return cond{column: column, op: " > ", value: v}
}

// GTE matches column values above or equal to v.
func GTE(column string, v any) Predicate {
	return cond{column: column, op: " >= ", value: v}
}

// LT matches column values below v.
func LT(column string, v any) Predicate {
	return cond{column: column, op: " < ", value: v}
}

// LTE matches column values below or equal to v.
func LTE(column string, v any) Predicate {
	return cond{column: column, op: " <= ", value: v}
}

// The escape character of LIKE patterns. '#' works verbatim on every
// supported dialect; the backslash's literal form does not.
const likeEscape = " ESCAPE '#'"

var likeReplacer = strings.NewReplacer("#", "##", "%", "#%", "_", "#_")

func like(column, pattern string, fold bool) Predicate {
	return cond{column: column, op: " LIKE ", value: pattern, suffix: likeEscape, fold: fold}
}

// Contains matches strings containing v.
func Contains(column, v string) Predicate {
	return like(column, "%"+likeReplacer.Replace(v)+"%", false)
}

// StartsWith matches strings beginning with v.
func StartsWith(column, v string) Predicate {
	return like(column, likeReplacer.Replace(v)+"%", false)
}

// EndsWith matches strings ending with v.
func EndsWith(column, v string) Predicate {
	return like(column, "%"+likeReplacer.Replace(v), false)
}

// inCond is a membership test on a value list.
type inCond struct {
	column string
	negate bool
	values []any
	fold   bool
}

func (c inCond) write(b *builder) {
	// An empty list matches nothing; its negation matches everything.
	if len(c.values) == 0 {
		if c.negate {
			b.sb.WriteString("1 = 1")
		} else {
			b.sb.WriteString("1 = 0")
		}
		return
	}
	writeColumn(b, c.column, c.fold)
	if c.negate {
		b.sb.WriteString(" NOT IN (")
	} else {
		b.sb.WriteString(" IN (")
	}
	for i, v := range c.values {
		if i > 0 {
			b.sb.WriteString(", ")
		}
		b.sb.WriteByte('?')
		b.args = append(b.args, v)
	}
	b.sb.WriteByte(')')
}

// In matches column values contained in vs.
func In(column string, vs ...any) Predicate {
	return inCond{column: column, values: vs}
}

// NotIn matches column values not contained in vs.
func NotIn(column string, vs ...any) Predicate {
	return inCond{column: column, negate: true, values: vs}
}

// nary joins sub-predicates with one boolean operator.
type nary struct {
	op    string
	preds []Predicate
}

func (n nary) write(b *builder) {
	for i, p := range n.preds {
		if i > 0 {
			b.sb.WriteString(n.op)
		}
		b.sb.WriteByte('(')
		p.write(b)
		b.sb.WriteByte(')')
	}
}

// And combines the predicates, skipping nils. It returns nil when
// nothing remains and the sole member when one does.
func And(ps ...Predicate) Predicate {
	ps = compact(ps)
	switch len(ps) {
	case 0:
		return nil
	case 1:
		return ps[0]
	}
	return nary{op: " AND ", preds: ps}
}

// Or combines the predicates, skipping nils. It returns nil when
// nothing remains and the sole member when one does.
func Or(ps ...Predicate) Predicate {
	ps = compact(ps)
	switch len(ps) {
	case 0:
		return nil
	case 1:
		return ps[0]
	}
	return nary{op: " OR ", preds: ps}
}

type notPred struct {
	p Predicate
}

func (n notPred) write(b *builder) {
	b.sb.WriteString("NOT (")
	n.p.write(b)
	b.sb.WriteByte(')')
}

// Not negates the predicate. Not(nil) is nil.
func Not(p Predicate) Predicate {
	if p == nil {
		return nil
	}
	return notPred{p: p}
}

func compact(ps []Predicate) []Predicate {
	out := ps[:0]
	for _, p := range ps {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}
