package pocodb

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/rs/zerolog"
)

// StoredProcedure executes the named stored procedure and returns a Cursor over the result rows,
// each mapped into a new T
//
// Each field of parameters (a struct, pointer to struct, FieldEnumerator or []Parameter - or nil for
// no parameters) is bound as a parameter named after the field
//
// options can be any of UseTagName, ErrorOnUnMappedColumns, ColumnScanners, StructPostProcessor[T],
// Limiter, ErrorTranslator or a zerolog.Logger
func StoredProcedure[T any](ctx context.Context, backend Backend, name string, connectionString string, parameters any, options ...any) (*Cursor[T], error) {
	return run[T](ctx, backend, StoredProcedureCommand, name, connectionString, parameters, options)
}

// Command executes the raw command text and returns a Cursor over the result rows, each mapped into a new T
//
// options are as for StoredProcedure
func Command[T any](ctx context.Context, backend Backend, text string, connectionString string, options ...any) (*Cursor[T], error) {
	return run[T](ctx, backend, TextCommand, text, connectionString, nil, options)
}

// Query is the same as Command, but binds the fields of parameters as named command parameters
// (see StoredProcedure)
func Query[T any](ctx context.Context, backend Backend, text string, connectionString string, parameters any, options ...any) (*Cursor[T], error) {
	return run[T](ctx, backend, TextCommand, text, connectionString, parameters, options)
}

func run[T any](ctx context.Context, backend Backend, kind CommandKind, text string, connectionString string, parameters any, options []any) (*Cursor[T], error) {
	opts, err := callOptionsOf[T](options)
	if err != nil {
		return nil, err
	}
	if backend == nil {
		return nil, translateError(newError(ConnectionError, "open", errors.New("backend cannot be nil")), opts.errorTranslator)
	}
	mapper, err := newStructMapper[T](opts.tagName, opts.errorOnUnMappedColumns, opts.scanners)
	if err != nil {
		return nil, translateError(newError(ColumnResolutionError, "describe", err), opts.errorTranslator)
	}
	ex := &executor{backend: backend, tagName: opts.tagName, logger: opts.logger}
	res, err := ex.execute(ctx, kind, text, connectionString, parameters)
	if err != nil {
		return nil, translateError(err, opts.errorTranslator)
	}
	columns, err := res.rows.Columns()
	var rm *rowMapper[T]
	if err == nil {
		rm, err = mapper.resolve(columns)
	}
	if err != nil {
		_ = res.close()
		return nil, translateError(newError(ColumnResolutionError, "resolve", err), opts.errorTranslator)
	}
	opts.logger.Debug().Strs("columns", columns).Msg("columns resolved")
	return &Cursor[T]{
		ctx:             ctx,
		res:             res,
		mapper:          rm,
		postProcessors:  opts.postProcessors,
		limiter:         opts.limiter,
		errorTranslator: opts.errorTranslator,
	}, nil
}

type callOptions[T any] struct {
	tagName                string
	errorOnUnMappedColumns bool
	scanners               ColumnScanners
	postProcessors         []StructPostProcessor[T]
	limiter                Limiter
	errorTranslator        ErrorTranslator
	logger                 zerolog.Logger
}

func callOptionsOf[T any](options []any) (*callOptions[T], error) {
	result := &callOptions[T]{
		tagName:         defaultTagName,
		scanners:        ColumnScanners{},
		limiter:         defaultLimiter,
		errorTranslator: defaultErrorTranslator,
		logger:          zerolog.Nop(),
	}
	for _, o := range options {
		if !isNilOption(o) {
			switch option := o.(type) {
			case UseTagName:
				if option != "" {
					result.tagName = string(option)
				}
			case ErrorOnUnMappedColumns:
				result.errorOnUnMappedColumns = bool(option)
			case ColumnScanners:
				for k, v := range option {
					result.scanners[k] = v
				}
			case StructPostProcessor[T]:
				result.postProcessors = append(result.postProcessors, option)
			case Limiter:
				result.limiter = option
			case ErrorTranslator:
				result.errorTranslator = option
			case zerolog.Logger:
				result.logger = option
			case *zerolog.Logger:
				if option != nil {
					result.logger = *option
				}
			default:
				return nil, fmt.Errorf("unknown option type: %T", o)
			}
		}
	}
	return result, nil
}

// isNilOption reports untyped nils and interfaces holding a nil func, pointer or map - these are skipped
func isNilOption(o any) bool {
	if o == nil {
		return true
	}
	switch v := reflect.ValueOf(o); v.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Interface:
		return v.IsNil()
	}
	return false
}
