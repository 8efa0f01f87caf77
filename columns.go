package pocodb

import (
	"database/sql"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ColumnScanner is a func that can be used to convert the raw value of a column
// before it is assigned to the target field
type ColumnScanner func(src any) (value any, err error)

// ColumnScanners is an option mapping column names to the ColumnScanner used for that column
type ColumnScanners map[string]ColumnScanner

// BoolColumn is a ColumnScanner that converts a column to a bool
//
// Particularly useful for MySql which only supports BOOL columns as TINYINT
func BoolColumn(src any) (any, error) {
	switch v := src.(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case float64:
		return v != 0, nil
	case []byte:
		return strconv.ParseBool(string(v))
	case string:
		return strconv.ParseBool(v)
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("type %T is not a bool", src)
}

// DecimalColumn is a ColumnScanner that converts a numeric column to a decimal.Decimal
func DecimalColumn(src any) (any, error) {
	switch v := src.(type) {
	case float32:
		return decimal.NewFromFloat32(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case int64:
		return decimal.New(v, 0), nil
	case []byte:
		return DecimalColumn(string(v))
	case string:
		if len(v) > 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
			v = v[1 : len(v)-1]
		}
		return decimal.NewFromString(v)
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("type %T is not a decimal", src)
}

// columnsReader is the per-call row buffer - one scan arg per column, each scan writes into values
type columnsReader struct {
	count    int
	names    []string
	values   []any
	scanArgs []any
}

func newColumnsReader(names []string, scanners ColumnScanners) *columnsReader {
	r := &columnsReader{
		count:    len(names),
		names:    names,
		values:   make([]any, len(names)),
		scanArgs: make([]any, len(names)),
	}
	for i, name := range names {
		if cs, ok := scanners[name]; ok && cs != nil {
			r.scanArgs[i] = &customColumnScanner{columns: r, index: i, scanner: cs}
		} else {
			r.scanArgs[i] = &rawColumnScanner{columns: r, index: i}
		}
	}
	return r
}

// read reads the whole current row into the buffer
func (r *columnsReader) read(rows *sql.Rows) error {
	clear(r.values)
	return rows.Scan(r.scanArgs...)
}

type customColumnScanner struct {
	columns *columnsReader
	index   int
	scanner ColumnScanner
}

func (c *customColumnScanner) Scan(src any) error {
	v, err := c.scanner(detach(src))
	if err == nil {
		c.columns.values[c.index] = v
	}
	return err
}

type rawColumnScanner struct {
	columns *columnsReader
	index   int
}

func (c *rawColumnScanner) Scan(src any) error {
	c.columns.values[c.index] = detach(src)
	return nil
}

// detach copies driver owned byte slices, which are only valid until the next call to Next
func detach(src any) any {
	if b, ok := src.([]byte); ok {
		return append([]byte(nil), b...)
	}
	return src
}

// assignValue copies a buffered column value into a field
//
// nil becomes the field's zero value (nil for pointers, slices, maps and interfaces)
func assignValue(dst reflect.Value, src any) error {
	if src == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	sv := reflect.ValueOf(src)
	if sv.Type().AssignableTo(dst.Type()) {
		dst.Set(sv)
		return nil
	}
	if dst.CanAddr() {
		if sc, ok := dst.Addr().Interface().(sql.Scanner); ok {
			return sc.Scan(src)
		}
	}
	if dst.Kind() == reflect.Ptr {
		elem := reflect.New(dst.Type().Elem())
		if err := assignValue(elem.Elem(), src); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}
	if b, ok := src.([]byte); ok && dst.Kind() == reflect.String {
		dst.SetString(string(b))
		return nil
	}
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch sv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if !dst.OverflowInt(sv.Int()) {
				dst.SetInt(sv.Int())
				return nil
			}
			return fmt.Errorf("value %d overflows %s", sv.Int(), dst.Type())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if u := sv.Uint(); u <= uint64(1<<63-1) && !dst.OverflowInt(int64(u)) {
				dst.SetInt(int64(u))
				return nil
			}
			return fmt.Errorf("value %d overflows %s", sv.Uint(), dst.Type())
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch sv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if i := sv.Int(); i >= 0 && !dst.OverflowUint(uint64(i)) {
				dst.SetUint(uint64(i))
				return nil
			}
			return fmt.Errorf("value %d overflows %s", sv.Int(), dst.Type())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if !dst.OverflowUint(sv.Uint()) {
				dst.SetUint(sv.Uint())
				return nil
			}
			return fmt.Errorf("value %d overflows %s", sv.Uint(), dst.Type())
		}
	case reflect.Float32, reflect.Float64:
		switch sv.Kind() {
		case reflect.Float32, reflect.Float64:
			if !dst.OverflowFloat(sv.Float()) {
				dst.SetFloat(sv.Float())
				return nil
			}
			return fmt.Errorf("value %v overflows %s", sv.Float(), dst.Type())
		}
	case reflect.String:
		if sv.Kind() == reflect.String {
			dst.SetString(sv.String())
			return nil
		}
	case reflect.Bool:
		if sv.Kind() == reflect.Bool {
			dst.SetBool(sv.Bool())
			return nil
		}
	default:
		if sv.Type().ConvertibleTo(dst.Type()) && sv.Kind() == dst.Kind() {
			dst.Set(sv.Convert(dst.Type()))
			return nil
		}
	}
	return fmt.Errorf("cannot assign value of type %T to %s", src, dst.Type())
}
