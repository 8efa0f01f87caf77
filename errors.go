package pocodb

import (
	"errors"
	"strings"
)

// Kind categorises the failure reported by an *Error
type Kind int

const (
	// UnknownError is the kind reported for errors not raised by this package
	UnknownError Kind = iota
	// ConnectionError is an open/authenticate failure on the backend
	ConnectionError
	// CommandError is a failure to construct the command (bad kind, empty or malformed text)
	CommandError
	// ParameterError is a parameter object that cannot be bound, or a parameter value rejected by the backend
	ParameterError
	// ExecutionError is a failure executing the command
	ExecutionError
	// ColumnResolutionError is a target field with no matching column in the result set
	ColumnResolutionError
	// RowMaterializationError is a column value that cannot be assigned to its target field
	RowMaterializationError
	// IterationError is a failure reported by the backend cursor while advancing
	IterationError
)

var kindNames = map[Kind]string{
	UnknownError:            "unknown error",
	ConnectionError:         "connection error",
	CommandError:            "command error",
	ParameterError:          "parameter error",
	ExecutionError:          "execution error",
	ColumnResolutionError:   "column resolution error",
	RowMaterializationError: "row materialization error",
	IterationError:          "iteration error",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[UnknownError]
}

// sentinel errors, one per Kind, usable with errors.Is
var (
	ErrConnection         = &Error{Kind: ConnectionError}
	ErrCommand            = &Error{Kind: CommandError}
	ErrParameter          = &Error{Kind: ParameterError}
	ErrExecution          = &Error{Kind: ExecutionError}
	ErrColumnResolution   = &Error{Kind: ColumnResolutionError}
	ErrRowMaterialization = &Error{Kind: RowMaterializationError}
	ErrIteration          = &Error{Kind: IterationError}
)

// ErrStoredProceduresUnsupported is returned by backends that have no stored procedure support
var ErrStoredProceduresUnsupported = errors.New("stored procedures are not supported by this backend")

// Error is the error type returned by StoredProcedure, Command, Query and Cursor
type Error struct {
	Kind Kind
	// Op is the operation that failed (e.g. "open", "prepare", "execute")
	Op  string
	Err error
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	if e.Op != "" {
		sb.WriteString(" (" + e.Op + ")")
	}
	if e.Err != nil {
		sb.WriteString(": " + e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match against any *Error of the same Kind - so errors.Is(err, ErrColumnResolution) works
func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	return ok && te.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in the chain, or UnknownError
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return UnknownError
}
