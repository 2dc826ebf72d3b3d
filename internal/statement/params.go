package statement

import "database/sql"

// Parameter is one named bound value. Name is the bare column name; the
// placeholder in generated SQL is "@" + Name.
type Parameter struct {
	Name  string
	Value Value
}

// Placeholder returns the parameter's reference as it appears in
// generated SQL text.
func (p Parameter) Placeholder() string {
	return paramRef(p.Name)
}

// Parameters is an ordered parameter map for a single statement
// execution. Order follows the shape's field declaration order, matching
// the column order of every generated statement.
type Parameters []Parameter

// Get returns the value bound under the given column name.
func (ps Parameters) Get(name string) (Value, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p.Value, true
		}
	}
	return Value{}, false
}

// Names returns the parameter names in order.
func (ps Parameters) Names() []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}

// Args converts the parameters to database/sql named arguments. Values
// travel to the driver as typed bindings, never as SQL text.
func (ps Parameters) Args() []any {
	args := make([]any, len(ps))
	for i, p := range ps {
		args[i] = sql.Named(p.Name, p.Value.Driver())
	}
	return args
}
