package pocodb

import (
	"database/sql"
	"errors"
	"fmt"
	"reflect"

	"github.com/jmoiron/sqlx/reflectx"
)

const defaultTagName = "db"

var (
	scannerType         = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
	fieldEnumeratorType = reflect.TypeOf((*FieldEnumerator)(nil)).Elem()
)

// UseTagName is an option that determines the field tag used to override a field's column name
//
// If this option is not passed, the "db" tag is used. A tag value of "-" excludes the field
type UseTagName string

// Field is a single named field supplied by a FieldEnumerator
type Field struct {
	// Name is the column (or parameter) name for the field
	Name string
	// Ptr is a non-nil pointer to the field's storage
	Ptr any
}

// FieldEnumerator is implemented (on the pointer receiver) by types that supply their own field table
// rather than having their exported fields discovered by reflection
//
// This is how non-exported fields are bound to parameters and mapped from columns. Fields must
// return the same names, in the same order, on every call
type FieldEnumerator interface {
	Fields() []Field
}

// fieldTable is the ordered set of mapped fields for a struct type, computed once per call
type fieldTable struct {
	structType reflect.Type
	names      []string
	indexes    [][]int
	enumerated bool
}

func newFieldTable(rt reflect.Type, tagName string) (*fieldTable, error) {
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%v is not a struct type", rt)
	}
	if reflect.PointerTo(rt).Implements(fieldEnumeratorType) {
		return newEnumeratedFieldTable(rt)
	}
	if tagName == "" {
		tagName = defaultTagName
	}
	sm := reflectx.NewMapperFunc(tagName, func(s string) string { return s }).TypeMap(rt)
	result := &fieldTable{structType: rt}
	depths := make(map[string]int)
	for _, fi := range sm.Index {
		if !isMappedField(fi, sm.Tree) {
			continue
		}
		if depth, seen := depths[fi.Path]; seen {
			if depth == len(fi.Index) {
				return nil, fmt.Errorf("duplicate column mapping %q", fi.Path)
			}
			// shallower field shadows the promoted one
			continue
		}
		depths[fi.Path] = len(fi.Index)
		result.names = append(result.names, fi.Path)
		result.indexes = append(result.indexes, append([]int{}, fi.Index...))
	}
	return result, nil
}

func newEnumeratedFieldTable(rt reflect.Type) (*fieldTable, error) {
	fields := reflect.New(rt).Interface().(FieldEnumerator).Fields()
	result := &fieldTable{structType: rt, enumerated: true, names: make([]string, 0, len(fields))}
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, errors.New("field enumerator returned a field with no name")
		}
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("duplicate column mapping %q", f.Name)
		}
		seen[f.Name] = struct{}{}
		result.names = append(result.names, f.Name)
	}
	return result, nil
}

// isMappedField reports whether the reflectx field is a leaf promoted to the top level of the struct
//
// embedded structs are flattened, named struct fields are single fields
func isMappedField(fi *reflectx.FieldInfo, root *reflectx.FieldInfo) bool {
	if fi == nil || fi == root {
		return false
	}
	if fi.Embedded && !isScannable(fi.Field.Type) {
		return false
	}
	for p := fi.Parent; p != nil && p != root; p = p.Parent {
		if !p.Embedded || isScannable(p.Field.Type) {
			// embedded scanners (e.g. sql.NullString) are a single field
			return false
		}
		if p.Field.Type.Kind() == reflect.Ptr && !p.Field.IsExported() {
			// can't allocate through an unexported embedded pointer
			return false
		}
	}
	return true
}

func isScannable(t reflect.Type) bool {
	if t == nil {
		return false
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return true
	}
	// bizarrely, time.Time isn't scannable but drivers can scan it...
	if t.PkgPath() == "time" && t.Name() == "Time" {
		return true
	}
	return t.Implements(scannerType) || reflect.PointerTo(t).Implements(scannerType)
}

// targets returns the settable field values, in table order, of the struct pointed to by ptr
func (ft *fieldTable) targets(ptr reflect.Value) ([]reflect.Value, error) {
	result := make([]reflect.Value, len(ft.names))
	if ft.enumerated {
		fields := ptr.Interface().(FieldEnumerator).Fields()
		if len(fields) != len(ft.names) {
			return nil, fmt.Errorf("field enumerator returned %d fields, expected %d", len(fields), len(ft.names))
		}
		for i, f := range fields {
			if f.Name != ft.names[i] {
				return nil, fmt.Errorf("field enumerator returned field %q at position %d, expected %q", f.Name, i, ft.names[i])
			}
			pv := reflect.ValueOf(f.Ptr)
			if pv.Kind() != reflect.Ptr || pv.IsNil() {
				return nil, fmt.Errorf("field %q does not have a non-nil pointer", f.Name)
			}
			result[i] = pv.Elem()
		}
		return result, nil
	}
	sv := ptr.Elem()
	for i, index := range ft.indexes {
		result[i] = reflectx.FieldByIndexes(sv, index)
	}
	return result, nil
}

// values reads the current field values, in table order, from a struct value
//
// nil pointers, maps, slices and interfaces (including nil embedded pointers on the path) read as nil
func (ft *fieldTable) values(sv reflect.Value) ([]any, error) {
	result := make([]any, len(ft.names))
	if ft.enumerated {
		ptr := reflect.New(ft.structType)
		ptr.Elem().Set(sv)
		targets, err := ft.targets(ptr)
		if err != nil {
			return nil, err
		}
		for i, fv := range targets {
			result[i] = valueOf(fv)
		}
		return result, nil
	}
	for i, index := range ft.indexes {
		if fv, ok := readFieldByIndexes(sv, index); ok {
			result[i] = valueOf(fv)
		}
	}
	return result, nil
}

func readFieldByIndexes(v reflect.Value, index []int) (reflect.Value, bool) {
	for _, i := range index {
		for v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v, true
}

func valueOf(fv reflect.Value) any {
	switch fv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if fv.IsNil() {
			return nil
		}
	}
	return fv.Interface()
}
