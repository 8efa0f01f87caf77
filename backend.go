package pocodb

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Backend is the driver capability that StoredProcedure, Command and Query delegate to
type Backend interface {
	// Open opens a database handle for the connection string
	Open(connectionString string) (*sql.DB, error)
	// CommandText returns the text to prepare for the command kind, text and parameters
	CommandText(kind CommandKind, text string, params []Parameter) (string, error)
	// Parameter returns the driver argument for a bound parameter
	Parameter(p Parameter) any
}

// ProcedureCall builds the backend's call text for a stored procedure
type ProcedureCall func(name string, params []Parameter) (string, error)

// DriverBackend is a Backend over a registered database/sql driver
type DriverBackend struct {
	// DriverName is the name the database/sql driver is registered under
	DriverName string
	// NamedParameters indicates the driver accepts sql.NamedArg - otherwise parameters are passed
	// positionally, in field order
	NamedParameters bool
	// Procedure builds stored procedure calls - if nil, stored procedures are unsupported
	Procedure ProcedureCall
}

var _ Backend = (*DriverBackend)(nil)

func (b *DriverBackend) Open(connectionString string) (*sql.DB, error) {
	return sql.Open(b.DriverName, connectionString)
}

func (b *DriverBackend) CommandText(kind CommandKind, text string, params []Parameter) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.New("command text cannot be empty")
	}
	switch kind {
	case TextCommand:
		return text, nil
	case StoredProcedureCommand:
		if b.Procedure == nil {
			return "", ErrStoredProceduresUnsupported
		}
		return b.Procedure(text, params)
	}
	return "", fmt.Errorf("unknown command kind: %d", kind)
}

func (b *DriverBackend) Parameter(p Parameter) any {
	if b.NamedParameters {
		return sql.Named(p.Name, p.Value)
	}
	return p.Value
}

var (
	backendsMu sync.RWMutex
	backends   = map[string]Backend{}
)

// RegisterBackend makes a Backend available by name (e.g. for ConnectionConfig)
//
// it panics if the name is already registered or the backend is nil
func RegisterBackend(name string, backend Backend) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	if backend == nil {
		panic("pocodb: RegisterBackend backend is nil")
	}
	if _, dup := backends[name]; dup {
		panic("pocodb: RegisterBackend called twice for backend " + name)
	}
	backends[name] = backend
}

// LookupBackend returns the Backend registered under the name
func LookupBackend(name string) (Backend, bool) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	b, ok := backends[name]
	return b, ok
}

// Backends returns the sorted names of the registered backends
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	result := make([]string, 0, len(backends))
	for name := range backends {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}
