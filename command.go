package pocodb

// CommandKind determines how the command text is interpreted by the Backend
type CommandKind int

const (
	// TextCommand is raw command text, passed to the backend as-is
	TextCommand CommandKind = iota
	// StoredProcedureCommand is the name of a stored procedure, which the backend turns into its own call syntax
	StoredProcedureCommand
)

func (k CommandKind) String() string {
	switch k {
	case TextCommand:
		return "text"
	case StoredProcedureCommand:
		return "stored procedure"
	}
	return "unknown"
}

// Parameter is a single named command parameter, bound from a field of the parameter object
//
// A nil Value means "no value" (NULL)
type Parameter struct {
	Name  string
	Value any
}
