// Package dialect builds the backend specific call syntax for stored procedures
package dialect

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*)*$`)

// ErrBadIdentifier is returned for procedure or parameter names that are not plain (optionally schema qualified) identifiers
var ErrBadIdentifier = errors.New("not a valid identifier")

// CheckIdentifier returns an error wrapping ErrBadIdentifier if name is not a plain identifier
func CheckIdentifier(name string) error {
	if !identifier.MatchString(name) {
		return &identifierError{name: name}
	}
	return nil
}

type identifierError struct {
	name string
}

func (e *identifierError) Error() string {
	return strconv.Quote(e.name) + ": " + ErrBadIdentifier.Error()
}

func (e *identifierError) Unwrap() error {
	return ErrBadIdentifier
}

// PositionalCall builds "CALL name(?, ?, ...)" with one placeholder per parameter
func PositionalCall(name string, count int) (string, error) {
	if err := CheckIdentifier(name); err != nil {
		return "", err
	}
	return "CALL " + name + "(" + strings.TrimSuffix(strings.Repeat("?, ", count), ", ") + ")", nil
}

// NamedNotationCall builds "SELECT * FROM name(a => $1, b => $2)" - postgres named notation,
// so the server matches parameters by name rather than position
func NamedNotationCall(name string, paramNames []string) (string, error) {
	if err := CheckIdentifier(name); err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("SELECT * FROM " + name + "(")
	for i, pn := range paramNames {
		if err := CheckIdentifier(pn); err != nil {
			return "", err
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(pn + " => $" + strconv.Itoa(i+1))
	}
	sb.WriteString(")")
	return sb.String(), nil
}
