package pocodb

import (
	"errors"
	"fmt"
	"reflect"
)

// bindParameters creates one Parameter per field of the parameter object, named after the field
// and valued with the field's current value
//
// a nil parameter object binds no parameters
func bindParameters(params any, tagName string) ([]Parameter, error) {
	if params == nil {
		return nil, nil
	}
	if ps, ok := params.([]Parameter); ok {
		return ps, nil
	}
	v := reflect.ValueOf(params)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, errors.New("parameter object is a nil pointer")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("parameter object must be a struct (got %T)", params)
	}
	table, err := newFieldTable(v.Type(), tagName)
	if err != nil {
		return nil, err
	}
	values, err := table.values(v)
	if err != nil {
		return nil, err
	}
	result := make([]Parameter, len(table.names))
	for i, name := range table.names {
		result[i] = Parameter{Name: name, Value: values[i]}
	}
	return result, nil
}

func parameterNames(params []Parameter) []string {
	result := make([]string, len(params))
	for i, p := range params {
		result[i] = p.Name
	}
	return result
}
