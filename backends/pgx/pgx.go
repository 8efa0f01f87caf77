// Package pgx provides a PostgreSQL backend using the database/sql adapter of github.com/jackc/pgx/v5
//
// Stored procedure calls are the same as the postgres package (named notation)
package pgx

import (
	"database/sql"

	"github.com/go-andiamo/pocodb"
	"github.com/go-andiamo/pocodb/internal/dialect"
	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// Name is the name the backend is registered under
const Name = "pgx"

type backend struct {
	pocodb.DriverBackend
}

// Backend is the pgx backend
var Backend pocodb.Backend = &backend{
	DriverBackend: pocodb.DriverBackend{
		DriverName: Name,
		Procedure: func(name string, params []pocodb.Parameter) (string, error) {
			names := make([]string, len(params))
			for i, p := range params {
				names[i] = p.Name
			}
			return dialect.NamedNotationCall(name, names)
		},
	},
}

func init() {
	pocodb.RegisterBackend(Name, Backend)
}

// Open parses the connection string with pgx, so that both URL and keyword/value forms are
// accepted and bad strings fail before any connection attempt
func (b *backend) Open(connectionString string) (*sql.DB, error) {
	cfg, err := pgxv5.ParseConfig(connectionString)
	if err != nil {
		return nil, err
	}
	return stdlib.OpenDB(*cfg), nil
}
