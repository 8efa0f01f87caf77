// Package sqlite provides the SQLite backend, using github.com/mattn/go-sqlite3
//
// SQLite has no stored procedures. Parameters are passed as sql.NamedArg, so command text refers to
// them as :Name, @Name or $Name
package sqlite

import (
	"github.com/go-andiamo/pocodb"
	_ "github.com/mattn/go-sqlite3"
)

// Name is the name the backend is registered under
const Name = "sqlite3"

// Backend is the SQLite backend
var Backend pocodb.Backend = &pocodb.DriverBackend{
	DriverName:      Name,
	NamedParameters: true,
}

func init() {
	pocodb.RegisterBackend(Name, Backend)
}
