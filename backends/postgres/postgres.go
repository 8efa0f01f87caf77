// Package postgres provides the PostgreSQL backend, using github.com/lib/pq
//
// Stored procedures (set returning functions) are called with named notation,
// "SELECT * FROM name(a => $1, ...)", so the server matches parameters by name. Unquoted names
// are folded to lower case by the server
package postgres

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/go-andiamo/pocodb"
	"github.com/go-andiamo/pocodb/internal/dialect"
	"github.com/lib/pq"
)

// Name is the name the backend is registered under
const Name = "postgres"

// Backend is the PostgreSQL backend
var Backend pocodb.Backend = &pocodb.DriverBackend{
	DriverName: Name,
	Procedure:  NamedNotation,
}

func init() {
	pocodb.RegisterBackend(Name, Backend)
}

// NamedNotation builds a postgres named notation function call
func NamedNotation(name string, params []pocodb.Parameter) (string, error) {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return dialect.NamedNotationCall(name, names)
}

// Dsn builds a postgres URL connection string
func Dsn(host string, port int, username, password, dbName string, sslMode string) string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		url.QueryEscape(username), url.QueryEscape(password), net.JoinHostPort(host, strconv.Itoa(port)), dbName, sslMode)
}

// ErrorCode returns the SQLSTATE code of a postgres error in the chain, or "" if there is none
func ErrorCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
