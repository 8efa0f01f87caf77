package pocodb

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// executor owns the connection, command and cursor lifecycle for a single call
type executor struct {
	backend Backend
	tagName string
	logger  zerolog.Logger
}

// resources are the scoped handles of one call, released in reverse order of acquisition
type resources struct {
	db     *sql.DB
	conn   *sql.Conn
	stmt   *sql.Stmt
	rows   *sql.Rows
	logger zerolog.Logger
	closed bool
}

func (r *resources) close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	var errs []error
	if r.rows != nil {
		errs = append(errs, r.rows.Close())
	}
	if r.stmt != nil {
		errs = append(errs, r.stmt.Close())
	}
	if r.conn != nil {
		errs = append(errs, r.conn.Close())
	}
	if r.db != nil {
		errs = append(errs, r.db.Close())
	}
	err := errors.Join(errs...)
	if err != nil {
		r.logger.Warn().Err(err).Msg("failed to release command resources")
	} else {
		r.logger.Debug().Msg("command resources released")
	}
	return err
}

// execute opens the connection, builds and binds the command and executes it
//
// on success the returned resources hold the open cursor (rows), on failure everything acquired has
// already been released
func (e *executor) execute(ctx context.Context, kind CommandKind, text string, connectionString string, params any) (*resources, error) {
	bound, err := bindParameters(params, e.tagName)
	if err != nil {
		return nil, newError(ParameterError, "bind", err)
	}
	res := &resources{logger: e.logger}
	ok := false
	defer func() {
		if !ok {
			_ = res.close()
		}
	}()
	if res.db, err = e.backend.Open(connectionString); err != nil {
		return nil, newError(ConnectionError, "open", err)
	}
	res.db.SetMaxOpenConns(1)
	if res.conn, err = res.db.Conn(ctx); err != nil {
		return nil, newError(ConnectionError, "connect", err)
	}
	e.logger.Debug().Msg("connection opened")
	query, err := e.backend.CommandText(kind, text, bound)
	if err != nil {
		return nil, newError(CommandError, "build", err)
	}
	if res.stmt, err = res.conn.PrepareContext(ctx, query); err != nil {
		return nil, newError(CommandError, "prepare", err)
	}
	e.logger.Debug().
		Stringer("kind", kind).
		Str("command", query).
		Strs("parameters", parameterNames(bound)).
		Msg("command prepared")
	args := make([]any, len(bound))
	for i, p := range bound {
		args[i] = e.backend.Parameter(p)
	}
	if res.rows, err = res.stmt.QueryContext(ctx, args...); err != nil {
		return nil, executionError(err)
	}
	ok = true
	return res, nil
}

// executionError distinguishes parameter values rejected by database/sql argument conversion
// from other execution failures
func executionError(err error) *Error {
	if strings.HasPrefix(err.Error(), "sql: converting argument") {
		return newError(ParameterError, "execute", err)
	}
	return newError(ExecutionError, "execute", err)
}
