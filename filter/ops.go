package filter

import (
	"strings"
	"time"
)

// The operator structs below are the building blocks of generated
// filter DTOs. Field names on the wire match the operator names of the
// generated flat query shapes. All set operators of one struct combine
// with AND; absent operators are skipped, and a nil struct renders nil.
//
// In and NotIn distinguish absent from empty: a JSON null stays nil and
// is skipped, while an explicit empty list matches nothing (or, negated,
// everything).

// Comparison modes of String.
const (
	// ModeDefault compares strings as stored.
	ModeDefault = ""
	// ModeInsensitive folds case on both sides of every set operator.
	ModeInsensitive = "insensitive"
)

// String filters a text column.
type String struct {
	Equals     *string  `json:"equals,omitempty"`
	Not        *string  `json:"not,omitempty"`
	In         []string `json:"in,omitempty"`
	NotIn      []string `json:"notIn,omitempty"`
	Contains   *string  `json:"contains,omitempty"`
	StartsWith *string  `json:"startsWith,omitempty"`
	EndsWith   *string  `json:"endsWith,omitempty"`
	Mode       string   `json:"mode,omitempty"`
}

// Predicate renders the set operators against column.
func (f *String) Predicate(column string) Predicate {
	if f == nil {
		return nil
	}
	fold := f.Mode == ModeInsensitive
	norm := func(s string) string {
		if fold {
			return strings.ToLower(s)
		}
		return s
	}
	var ps []Predicate
	if f.Equals != nil {
		ps = append(ps, cond{column: column, op: " = ", value: norm(*f.Equals), fold: fold})
	}
	if f.Not != nil {
		ps = append(ps, cond{column: column, op: " <> ", value: norm(*f.Not), fold: fold})
	}
	if f.In != nil {
		ps = append(ps, inCond{column: column, values: toAnyFunc(f.In, norm), fold: fold})
	}
	if f.NotIn != nil {
		ps = append(ps, inCond{column: column, negate: true, values: toAnyFunc(f.NotIn, norm), fold: fold})
	}
	if f.Contains != nil {
		ps = append(ps, like(column, "%"+likeReplacer.Replace(norm(*f.Contains))+"%", fold))
	}
	if f.StartsWith != nil {
		ps = append(ps, like(column, likeReplacer.Replace(norm(*f.StartsWith))+"%", fold))
	}
	if f.EndsWith != nil {
		ps = append(ps, like(column, "%"+likeReplacer.Replace(norm(*f.EndsWith)), fold))
	}
	return And(ps...)
}

// Int filters an integer column. BigInt columns share it.
type Int struct {
	Equals *int64  `json:"equals,omitempty"`
	Not    *int64  `json:"not,omitempty"`
	In     []int64 `json:"in,omitempty"`
	NotIn  []int64 `json:"notIn,omitempty"`
	Gt     *int64  `json:"gt,omitempty"`
	Gte    *int64  `json:"gte,omitempty"`
	Lt     *int64  `json:"lt,omitempty"`
	Lte    *int64  `json:"lte,omitempty"`
}

// Predicate renders the set operators against column.
func (f *Int) Predicate(column string) Predicate {
	if f == nil {
		return nil
	}
	var ps []Predicate
	if f.Equals != nil {
		ps = append(ps, EQ(column, *f.Equals))
	}
	if f.Not != nil {
		ps = append(ps, NEQ(column, *f.Not))
	}
	if f.In != nil {
		ps = append(ps, In(column, toAny(f.In)...))
	}
	if f.NotIn != nil {
		ps = append(ps, NotIn(column, toAny(f.NotIn)...))
	}
	if f.Gt != nil {
		ps = append(ps, GT(column, *f.Gt))
	}
	if f.Gte != nil {
		ps = append(ps, GTE(column, *f.Gte))
	}
	if f.Lt != nil {
		ps = append(ps, LT(column, *f.Lt))
	}
	if f.Lte != nil {
		ps = append(ps, LTE(column, *f.Lte))
	}
	return And(ps...)
}

// Float filters a floating point or decimal column.
type Float struct {
	Equals *float64  `json:"equals,omitempty"`
	Not    *float64  `json:"not,omitempty"`
	In     []float64 `json:"in,omitempty"`
	NotIn  []float64 `json:"notIn,omitempty"`
	Gt     *float64  `json:"gt,omitempty"`
	Gte    *float64  `json:"gte,omitempty"`
	Lt     *float64  `json:"lt,omitempty"`
	Lte    *float64  `json:"lte,omitempty"`
}

// Predicate renders the set operators against column.
func (f *Float) Predicate(column string) Predicate {
	if f == nil {
		return nil
	}
	var ps []Predicate
	if f.Equals != nil {
		ps = append(ps, EQ(column, *f.Equals))
	}
	if f.Not != nil {
		ps = append(ps, NEQ(column, *f.Not))
	}
	if f.In != nil {
		ps = append(ps, In(column, toAny(f.In)...))
	}
	if f.NotIn != nil {
		ps = append(ps, NotIn(column, toAny(f.NotIn)...))
	}
	if f.Gt != nil {
		ps = append(ps, GT(column, *f.Gt))
	}
	if f.Gte != nil {
		ps = append(ps, GTE(column, *f.Gte))
	}
	if f.Lt != nil {
		ps = append(ps, LT(column, *f.Lt))
	}
	if f.Lte != nil {
		ps = append(ps, LTE(column, *f.Lte))
	}
	return And(ps...)
}

// Bool filters a boolean column.
type Bool struct {
	Equals *bool `json:"equals,omitempty"`
	Not    *bool `json:"not,omitempty"`
}

// Predicate renders the set operators against column.
func (f *Bool) Predicate(column string) Predicate {
	if f == nil {
		return nil
	}
	var ps []Predicate
	if f.Equals != nil {
		ps = append(ps, EQ(column, *f.Equals))
	}
	if f.Not != nil {
		ps = append(ps, NEQ(column, *f.Not))
	}
	return And(ps...)
}

// Time filters a timestamp column.
type Time struct {
	Equals *time.Time  `json:"equals,omitempty"`
	Not    *time.Time  `json:"not,omitempty"`
	In     []time.Time `json:"in,omitempty"`
	NotIn  []time.Time `json:"notIn,omitempty"`
	Gt     *time.Time  `json:"gt,omitempty"`
	Gte    *time.Time  `json:"gte,omitempty"`
	Lt     *time.Time  `json:"lt,omitempty"`
	Lte    *time.Time  `json:"lte,omitempty"`
}

// Predicate renders the set operators against column.
func (f *Time) Predicate(column string) Predicate {
	if f == nil {
		return nil
	}
	var ps []Predicate
	if f.Equals != nil {
		ps = append(ps, EQ(column, *f.Equals))
	}
	if f.Not != nil {
		ps = append(ps, NEQ(column, *f.Not))
	}
	if f.In != nil {
		ps = append(ps, In(column, toAny(f.In)...))
	}
	if f.NotIn != nil {
		ps = append(ps, NotIn(column, toAny(f.NotIn)...))
	}
	if f.Gt != nil {
		ps = append(ps, GT(column, *f.Gt))
	}
	if f.Gte != nil {
		ps = append(ps, GTE(column, *f.Gte))
	}
	if f.Lt != nil {
		ps = append(ps, LT(column, *f.Lt))
	}
	if f.Lte != nil {
		ps = append(ps, LTE(column, *f.Lte))
	}
	return And(ps...)
}

// Enum filters an enum column of the generated enum type T.
type Enum[T ~string] struct {
	Equals *T  `json:"equals,omitempty"`
	Not    *T  `json:"not,omitempty"`
	In     []T `json:"in,omitempty"`
	NotIn  []T `json:"notIn,omitempty"`
}

// Predicate renders the set operators against column.
func (f *Enum[T]) Predicate(column string) Predicate {
	if f == nil {
		return nil
	}
	var ps []Predicate
	if f.Equals != nil {
		ps = append(ps, EQ(column, *f.Equals))
	}
	if f.Not != nil {
		ps = append(ps, NEQ(column, *f.Not))
	}
	if f.In != nil {
		ps = append(ps, In(column, toAny(f.In)...))
	}
	if f.NotIn != nil {
		ps = append(ps, NotIn(column, toAny(f.NotIn)...))
	}
	return And(ps...)
}

func toAny[T any](vs []T) []any {
	out := make([]any, len(vs))
	for i := range vs {
		out[i] = vs[i]
	}
	return out
}

func toAnyFunc(vs []string, norm func(string) string) []any {
	out := make([]any, len(vs))
	for i := range vs {
		out[i] = norm(vs[i])
	}
	return out
}
