package pocodb

import (
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrorOnUnMappedColumns is an option that determines whether an error is raised when the
// result set has columns that are not mapped to fields
//
// By default, extra columns are ignored
type ErrorOnUnMappedColumns bool

// structMapper is the target type descriptor - the mapped fields of T, computed once per call
type structMapper[T any] struct {
	fields                 *fieldTable
	errorOnUnMappedColumns bool
	scanners               ColumnScanners
}

func newStructMapper[T any](tagName string, errorOnUnMappedColumns bool, scanners ColumnScanners) (*structMapper[T], error) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	if rt.Kind() != reflect.Struct {
		return nil, errors.New("target type must be a struct type")
	}
	fields, err := newFieldTable(rt, tagName)
	if err != nil {
		return nil, err
	}
	return &structMapper[T]{
		fields:                 fields,
		errorOnUnMappedColumns: errorOnUnMappedColumns,
		scanners:               scanners,
	}, nil
}

// resolve computes the column position of every mapped field against the result set columns
//
// every field must have a column, whether or not the result set has any rows
func (m *structMapper[T]) resolve(columns []string) (*rowMapper[T], error) {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		if _, dup := index[col]; !dup {
			index[col] = i
		}
	}
	positions := make([]int, len(m.fields.names))
	mapped := make(map[string]bool, len(m.fields.names))
	missing := make([]string, 0)
	for i, name := range m.fields.names {
		if pos, ok := index[name]; ok {
			positions[i] = pos
			mapped[name] = true
		} else {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("no column for field(s): %s", quoteNames(missing))
	}
	if m.errorOnUnMappedColumns {
		unmapped := make([]string, 0)
		for _, col := range columns {
			if !mapped[col] {
				unmapped = append(unmapped, col)
			}
		}
		if len(unmapped) > 0 {
			return nil, fmt.Errorf("unmapped column(s): %s", quoteNames(unmapped))
		}
	}
	return &rowMapper[T]{
		fields:    m.fields,
		positions: positions,
		buffer:    newColumnsReader(columns, m.scanners),
	}, nil
}

func quoteNames(names []string) string {
	return `"` + strings.Join(names, `","`) + `"`
}

// rowMapper materializes rows of one result set into new instances of T
type rowMapper[T any] struct {
	fields    *fieldTable
	positions []int
	buffer    *columnsReader
}

func (rm *rowMapper[T]) materialize(rows *sql.Rows) (T, error) {
	var item T
	if err := rm.buffer.read(rows); err != nil {
		return item, err
	}
	targets, err := rm.fields.targets(reflect.ValueOf(&item))
	if err != nil {
		return item, err
	}
	for i, fv := range targets {
		if err = assignValue(fv, rm.buffer.values[rm.positions[i]]); err != nil {
			var zero T
			return zero, fmt.Errorf("field %q: %w", rm.fields.names[i], err)
		}
	}
	return item, nil
}
