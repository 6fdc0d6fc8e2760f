package dialect

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"github.com/tomaszdurka/prismarest"
)

// MySQL error numbers for constraint violations.
const (
	mysqlDuplicateEntry   = 1062
	mysqlForeignKeyParent = 1451 // Cannot delete or update a parent row
	mysqlForeignKeyChild  = 1452 // Cannot add or update a child row
	mysqlCheckViolation   = 3819
)

// Constraint converts database constraint violations into
// prismarest.ConstraintError and returns every other error unchanged.
// Postgres and MySQL are recognized through their driver error types,
// SQLite through its error strings.
func Constraint(err error) error {
	if err == nil {
		return nil
	}
	var pqe *pq.Error
	if errors.As(err, &pqe) {
		// Class 23 is integrity constraint violation.
		if pqe.Code.Class() == "23" {
			return prismarest.NewConstraintError(pqe.Message, err)
		}
		return err
	}
	var mye *mysql.MySQLError
	if errors.As(err, &mye) {
		switch mye.Number {
		case mysqlDuplicateEntry, mysqlForeignKeyParent, mysqlForeignKeyChild, mysqlCheckViolation:
			return prismarest.NewConstraintError(mye.Message, err)
		}
		return err
	}
	if containsAny(err.Error(),
		"UNIQUE constraint failed",
		"FOREIGN KEY constraint failed",
		"CHECK constraint failed",
		"NOT NULL constraint failed",
	) {
		return prismarest.NewConstraintError(err.Error(), err)
	}
	return err
}

// containsAny returns true if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
