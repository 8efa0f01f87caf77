package pocodb

import (
	"database/sql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestCommandKind_String(t *testing.T) {
	assert.Equal(t, "text", TextCommand.String())
	assert.Equal(t, "stored procedure", StoredProcedureCommand.String())
	assert.Equal(t, "unknown", CommandKind(9).String())
}

func TestDriverBackend_CommandText(t *testing.T) {
	b := &DriverBackend{DriverName: "test", Procedure: testProcedure}
	params := []Parameter{{Name: "A", Value: 1}, {Name: "B", Value: nil}}

	s, err := b.CommandText(TextCommand, "SELECT * FROM t", params)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t", s)

	s, err = b.CommandText(StoredProcedureCommand, "get_things", params)
	require.NoError(t, err)
	assert.Equal(t, "EXEC get_things @A, @B", s)

	_, err = b.CommandText(TextCommand, "  ", nil)
	require.Error(t, err)
	assert.Equal(t, "command text cannot be empty", err.Error())

	_, err = b.CommandText(CommandKind(9), "x", nil)
	require.Error(t, err)
	assert.Equal(t, "unknown command kind: 9", err.Error())

	b.Procedure = nil
	_, err = b.CommandText(StoredProcedureCommand, "get_things", nil)
	require.ErrorIs(t, err, ErrStoredProceduresUnsupported)
}

func TestDriverBackend_Parameter(t *testing.T) {
	p := Parameter{Name: "A", Value: 1}
	b := &DriverBackend{}
	assert.Equal(t, 1, b.Parameter(p))
	b.NamedParameters = true
	assert.Equal(t, sql.Named("A", 1), b.Parameter(p))
}

func TestDriverBackend_Open(t *testing.T) {
	b := &DriverBackend{DriverName: "no-such-driver"}
	_, err := b.Open("dsn")
	require.Error(t, err)
}

func TestRegisterBackend(t *testing.T) {
	b := &DriverBackend{DriverName: "test"}
	RegisterBackend("test-register", b)
	got, ok := LookupBackend("test-register")
	require.True(t, ok)
	assert.Same(t, b, got)
	assert.Contains(t, Backends(), "test-register")

	_, ok = LookupBackend("never-registered")
	assert.False(t, ok)

	assert.Panics(t, func() {
		RegisterBackend("test-register", b)
	})
	assert.Panics(t, func() {
		RegisterBackend("test-nil", nil)
	})
}
