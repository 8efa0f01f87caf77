// Package mysql provides the MySQL backend, using github.com/go-sql-driver/mysql
//
// Stored procedures are called as "CALL name(?, ...)" with parameters passed positionally, in field order
package mysql

import (
	"net"
	"strconv"

	"github.com/go-andiamo/pocodb"
	"github.com/go-andiamo/pocodb/internal/dialect"
	"github.com/go-sql-driver/mysql"
)

// Name is the name the backend is registered under
const Name = "mysql"

// Backend is the MySQL backend
var Backend pocodb.Backend = &pocodb.DriverBackend{
	DriverName: Name,
	Procedure: func(name string, params []pocodb.Parameter) (string, error) {
		return dialect.PositionalCall(name, len(params))
	},
}

func init() {
	pocodb.RegisterBackend(Name, Backend)
}

// Dsn builds a connection string with parseTime enabled, so DATETIME columns map to time.Time fields
func Dsn(host string, port int, username, password, dbName string) string {
	cfg := mysql.NewConfig()
	cfg.User = username
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	cfg.DBName = dbName
	cfg.ParseTime = true
	return cfg.FormatDSN()
}
