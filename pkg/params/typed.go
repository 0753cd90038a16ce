package params

import (
	"database/sql"
	"time"

	mssql "github.com/denisenkom/go-mssqldb"
)

// String returns a named varchar parameter. The mssql driver sends plain Go
// strings as nvarchar; wrapping in VarChar avoids implicit conversions when
// the target column is varchar.
func String(name, value string) sql.NamedArg {
	return sql.Named(name, mssql.VarChar(value))
}

// Int returns a named integer parameter.
func Int(name string, value int64) sql.NamedArg {
	return sql.Named(name, value)
}

// Bool returns a named bit parameter.
func Bool(name string, value bool) sql.NamedArg {
	return sql.Named(name, value)
}

// Decimal returns a named decimal parameter. The driver sends float64 as
// float; servers coerce to the declared decimal precision on assignment.
func Decimal(name string, value float64) sql.NamedArg {
	return sql.Named(name, value)
}

// Time returns a named datetime parameter. DateTime1 forces the legacy
// datetime wire type, which older schemas expect instead of datetime2.
func Time(name string, value time.Time) sql.NamedArg {
	return sql.Named(name, mssql.DateTime1(value))
}
