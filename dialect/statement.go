package dialect

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/tomaszdurka/prismarest"
)

// InsertQuery assembles an INSERT for the dialect, one placeholder per
// column. An empty column list inserts the table defaults. A non-empty
// returning list appends a RETURNING clause; the caller checks
// SupportsReturning first.
func InsertQuery(d Dialect, table string, cols, returning []string) string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(d.Ident(table))
	if len(cols) == 0 {
		if d == MySQL {
			sb.WriteString(" () VALUES ()")
		} else {
			sb.WriteString(" DEFAULT VALUES")
		}
	} else {
		sb.WriteString(" (")
		sb.WriteString(strings.Join(d.Idents(cols...), ", "))
		sb.WriteString(") VALUES (")
		sb.WriteString(placeholders(len(cols)))
		sb.WriteString(")")
	}
	if len(returning) > 0 {
		sb.WriteString(" RETURNING ")
		sb.WriteString(strings.Join(d.Idents(returning...), ", "))
	}
	return d.Rebind(sb.String())
}

// SelectQuery assembles a SELECT for the dialect. The where and order
// fragments may be empty; limit and offset are emitted when positive.
func SelectQuery(d Dialect, table string, cols []string, where, order string, limit, offset int) string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(d.Idents(cols...), ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(d.Ident(table))
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	if order != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(order)
	}
	writePage(&sb, limit, offset)
	return d.Rebind(sb.String())
}

// CountQuery assembles a SELECT COUNT(*) with an optional where
// fragment.
func CountQuery(d Dialect, table, where string) string {
	var sb strings.Builder
	sb.WriteString("SELECT COUNT(*) FROM ")
	sb.WriteString(d.Ident(table))
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	return d.Rebind(sb.String())
}

// UpdateQuery assembles an UPDATE for the dialect, assigning the set
// columns and addressing the record by equality on the where columns.
// A non-empty returning list appends a RETURNING clause.
func UpdateQuery(d Dialect, table string, set, where, returning []string) string {
	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(d.Ident(table))
	sb.WriteString(" SET ")
	for i, c := range set {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(d.Ident(c))
		sb.WriteString(" = ?")
	}
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(WhereEq(d, where...))
	}
	if len(returning) > 0 {
		sb.WriteString(" RETURNING ")
		sb.WriteString(strings.Join(d.Idents(returning...), ", "))
	}
	return d.Rebind(sb.String())
}

// DeleteQuery assembles a DELETE addressing the record by equality on
// the where columns.
func DeleteQuery(d Dialect, table string, where []string) string {
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(d.Ident(table))
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(WhereEq(d, where...))
	}
	return d.Rebind(sb.String())
}

// WhereEq returns a fragment matching each column by equality, joined
// with AND.
func WhereEq(d Dialect, cols ...string) string {
	var sb strings.Builder
	for i, c := range cols {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		sb.WriteString(d.Ident(c))
		sb.WriteString(" = ?")
	}
	return sb.String()
}

// OrderBy renders the sort terms into an ORDER BY fragment, rejecting
// fields outside the allowed set so client-supplied sort keys never
// reach the statement unchecked.
func OrderBy(d Dialect, sort []prismarest.Order, allowed []string) (string, error) {
	var sb strings.Builder
	for i, o := range sort {
		if !slices.Contains(allowed, o.Field) {
			return "", prismarest.NewValidationError("sort", fmt.Errorf("unknown field %q", o.Field))
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(d.Ident(o.Field))
		if o.Desc {
			sb.WriteString(" DESC")
		}
	}
	return sb.String(), nil
}

func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

func writePage(sb *strings.Builder, limit, offset int) {
	if limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(limit))
	}
	if offset > 0 {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.Itoa(offset))
	}
}
