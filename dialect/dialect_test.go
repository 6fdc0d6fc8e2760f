package dialect

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomaszdurka/prismarest"
)

func TestParse(t *testing.T) {
	for _, name := range []string{"postgres", "mysql", "sqlite"} {
		d, err := Parse(name)
		require.NoError(t, err)
		assert.Equal(t, name, d.String())
		assert.True(t, d.Valid())
	}

	d, err := Parse("Postgres")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)

	_, err = Parse("oracle")
	assert.ErrorContains(t, err, `unsupported dialect "oracle"`)
	assert.False(t, Dialect("oracle").Valid())
}

func TestIdent(t *testing.T) {
	assert.Equal(t, `"User"`, Postgres.Ident("User"))
	assert.Equal(t, `"orderId"`, SQLite.Ident("orderId"))
	assert.Equal(t, "`User`", MySQL.Ident("User"))

	// Embedded quotes are doubled.
	assert.Equal(t, `"we""ird"`, Postgres.Ident(`we"ird`))
	assert.Equal(t, "`we``ird`", MySQL.Ident("we`ird"))

	assert.Equal(t, []string{`"id"`, `"email"`}, Postgres.Idents("id", "email"))
}

func TestRebind(t *testing.T) {
	const q = "SELECT * FROM t WHERE a = ? AND b IN (?, ?)"
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b IN ($2, $3)", Postgres.Rebind(q))
	assert.Equal(t, q, MySQL.Rebind(q))
	assert.Equal(t, q, SQLite.Rebind(q))
}

func TestSupportsReturning(t *testing.T) {
	assert.True(t, Postgres.SupportsReturning())
	assert.True(t, SQLite.SupportsReturning())
	assert.False(t, MySQL.SupportsReturning())
}

func TestInsertQuery(t *testing.T) {
	q := InsertQuery(Postgres, "User", []string{"email", "name"}, []string{"id", "email", "name"})
	assert.Equal(t, `INSERT INTO "User" ("email", "name") VALUES ($1, $2) RETURNING "id", "email", "name"`, q)

	q = InsertQuery(MySQL, "User", []string{"email"}, nil)
	assert.Equal(t, "INSERT INTO `User` (`email`) VALUES (?)", q)
}

func TestInsertQueryDefaults(t *testing.T) {
	q := InsertQuery(Postgres, "Counter", nil, []string{"id"})
	assert.Equal(t, `INSERT INTO "Counter" DEFAULT VALUES RETURNING "id"`, q)

	q = InsertQuery(MySQL, "Counter", nil, nil)
	assert.Equal(t, "INSERT INTO `Counter` () VALUES ()", q)
}

func TestSelectQuery(t *testing.T) {
	t.Run("bare", func(t *testing.T) {
		q := SelectQuery(SQLite, "Post", []string{"id", "title"}, "", "", 0, 0)
		assert.Equal(t, `SELECT "id", "title" FROM "Post"`, q)
	})

	t.Run("full", func(t *testing.T) {
		where := WhereEq(Postgres, "authorId") + ` AND "published" = ?`
		q := SelectQuery(Postgres, "Post", []string{"id", "title"}, where, `"title" DESC`, 10, 20)
		assert.Equal(t, `SELECT "id", "title" FROM "Post" WHERE "authorId" = $1 AND "published" = $2 ORDER BY "title" DESC LIMIT 10 OFFSET 20`, q)
	})
}

func TestCountQuery(t *testing.T) {
	assert.Equal(t, `SELECT COUNT(*) FROM "User"`, CountQuery(Postgres, "User", ""))
	assert.Equal(t, `SELECT COUNT(*) FROM "User" WHERE "age" >= $1`, CountQuery(Postgres, "User", `"age" >= ?`))
}

func TestUpdateQuery(t *testing.T) {
	q := UpdateQuery(Postgres, "User", []string{"name", "age"}, []string{"id"}, []string{"id", "name", "age"})
	assert.Equal(t, `UPDATE "User" SET "name" = $1, "age" = $2 WHERE "id" = $3 RETURNING "id", "name", "age"`, q)

	q = UpdateQuery(MySQL, "OrderItem", []string{"qty"}, []string{"orderId", "productId"}, nil)
	assert.Equal(t, "UPDATE `OrderItem` SET `qty` = ? WHERE `orderId` = ? AND `productId` = ?", q)
}

func TestDeleteQuery(t *testing.T) {
	q := DeleteQuery(Postgres, "OrderItem", []string{"orderId", "productId"})
	assert.Equal(t, `DELETE FROM "OrderItem" WHERE "orderId" = $1 AND "productId" = $2`, q)
}

func TestOrderBy(t *testing.T) {
	allowed := []string{"id", "email", "createdAt"}

	t.Run("terms", func(t *testing.T) {
		order, err := OrderBy(Postgres, []prismarest.Order{{Field: "createdAt", Desc: true}, {Field: "id"}}, allowed)
		require.NoError(t, err)
		assert.Equal(t, `"createdAt" DESC, "id"`, order)
	})

	t.Run("empty", func(t *testing.T) {
		order, err := OrderBy(Postgres, nil, allowed)
		require.NoError(t, err)
		assert.Empty(t, order)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := OrderBy(Postgres, []prismarest.Order{{Field: "password"}}, allowed)
		require.Error(t, err)
		assert.True(t, prismarest.IsValidationError(err))
		assert.ErrorContains(t, err, `unknown field "password"`)
	})
}

func TestOpen(t *testing.T) {
	t.Run("postgres url", func(t *testing.T) {
		db, err := Open(Postgres, "postgres://u:p@localhost:5432/app?sslmode=disable")
		require.NoError(t, err)
		require.NoError(t, db.Close())
	})

	t.Run("sqlite", func(t *testing.T) {
		db, err := Open(SQLite, "file:test.db?mode=memory")
		require.NoError(t, err)
		require.NoError(t, db.Close())
	})

	t.Run("bad mysql dsn", func(t *testing.T) {
		_, err := Open(MySQL, "not a dsn")
		assert.ErrorContains(t, err, "parse mysql dsn")
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := Open(Dialect("oracle"), "dsn")
		assert.ErrorContains(t, err, "unsupported dialect")
	})
}

func TestConstraint(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, Constraint(nil))
	})

	t.Run("postgres unique violation", func(t *testing.T) {
		err := Constraint(&pq.Error{Code: "23505", Message: "duplicate key value"})
		assert.True(t, prismarest.IsConstraintError(err))
		assert.True(t, errors.Is(err, prismarest.ErrConflict))
		assert.ErrorContains(t, err, "duplicate key value")
	})

	t.Run("postgres other error", func(t *testing.T) {
		orig := &pq.Error{Code: "42703", Message: "column does not exist"}
		err := Constraint(orig)
		assert.False(t, prismarest.IsConstraintError(err))
		assert.Equal(t, error(orig), err)
	})

	t.Run("mysql duplicate entry", func(t *testing.T) {
		err := Constraint(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b' for key 'email'"})
		assert.True(t, prismarest.IsConstraintError(err))
	})

	t.Run("mysql other error", func(t *testing.T) {
		orig := &mysql.MySQLError{Number: 1064, Message: "syntax error"}
		err := Constraint(orig)
		assert.False(t, prismarest.IsConstraintError(err))
	})

	t.Run("sqlite strings", func(t *testing.T) {
		err := Constraint(errors.New("constraint failed: UNIQUE constraint failed: User.email (2067)"))
		assert.True(t, prismarest.IsConstraintError(err))
	})

	t.Run("unrelated error", func(t *testing.T) {
		orig := errors.New("connection refused")
		assert.Equal(t, orig, Constraint(orig))
	})
}

// TestStatementRoundTrip executes assembled statements against a mocked
// connection to make sure they arrive unmodified at the driver.
func TestStatementRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	insert := InsertQuery(MySQL, "User", []string{"email", "name"}, nil)
	mock.ExpectExec(regexp.QuoteMeta(insert)).
		WithArgs("a@b.c", "Ann").
		WillReturnResult(sqlmock.NewResult(1, 1))
	_, err = db.Exec(insert, "a@b.c", "Ann")
	require.NoError(t, err)

	query := SelectQuery(MySQL, "User", []string{"id", "email"}, WhereEq(MySQL, "id"), "", 0, 0)
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow(1, "a@b.c"))
	row := db.QueryRow(query, 1)
	var (
		id    int
		email string
	)
	require.NoError(t, row.Scan(&id, &email))
	assert.Equal(t, 1, id)
	assert.Equal(t, "a@b.c", email)

	require.NoError(t, mock.ExpectationsWereMet())
}
