// Package dialect names the SQL flavors generated services speak and
// carries the statement assembly shared by them.
//
// Generated code builds every statement with ? placeholders and quoted
// identifiers, then rewrites it once for the target dialect. Prisma
// carries entity and field names into tables and columns verbatim, so
// mixed-case identifiers must be quoted everywhere they appear.
package dialect

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	_ "modernc.org/sqlite"
)

// Dialect identifies a supported SQL flavor.
type Dialect string

// Supported dialects.
const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
)

// String returns the dialect name.
func (d Dialect) String() string {
	return string(d)
}

// Valid reports whether d names a supported dialect.
func (d Dialect) Valid() bool {
	switch d {
	case Postgres, MySQL, SQLite:
		return true
	}
	return false
}

// Parse returns the dialect named by s.
func Parse(s string) (Dialect, error) {
	d := Dialect(strings.ToLower(s))
	if !d.Valid() {
		return "", fmt.Errorf("dialect: unsupported dialect %q", s)
	}
	return d, nil
}

// Open opens a database handle for the dialect, normalizing the DSN
// first: postgres:// URLs are converted to key/value form and MySQL
// DSNs are validated before the pool hands out a connection.
func Open(d Dialect, dsn string) (*sql.DB, error) {
	switch d {
	case Postgres:
		if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
			kv, err := pq.ParseURL(dsn)
			if err != nil {
				return nil, fmt.Errorf("dialect: parse postgres url: %w", err)
			}
			dsn = kv
		}
	case MySQL:
		if _, err := mysql.ParseDSN(dsn); err != nil {
			return nil, fmt.Errorf("dialect: parse mysql dsn: %w", err)
		}
	case SQLite:
	default:
		return nil, fmt.Errorf("dialect: unsupported dialect %q", d)
	}
	return sql.Open(string(d), dsn)
}

// Ident quotes an identifier for the dialect.
func (d Dialect) Ident(name string) string {
	if d == MySQL {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Idents quotes each name for the dialect.
func (d Dialect) Idents(names ...string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = d.Ident(name)
	}
	return out
}

// Rebind rewrites ? placeholders into the dialect's form.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// SupportsReturning reports whether INSERT and UPDATE statements can
// hand back the stored row through a RETURNING clause. MySQL callers
// re-read the row instead.
func (d Dialect) SupportsReturning() bool {
	return d != MySQL
}
