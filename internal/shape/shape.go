// Package shape describes record shapes: the ordered, typed field lists
// that drive statement generation.
//
// A Shape is built once at configuration time — either explicitly through
// the Builder or declaratively from a tagged struct — and is immutable
// afterwards. Statement generation never inspects types at call sites; it
// only reads the pre-computed field list.
//
// Usage:
//
//	users, err := shape.NewBuilder().
//	    Key("Id", shape.Int).
//	    Field("Name", shape.String).
//	    Field("Address", shape.String).
//	    Build()
package shape

import (
	"github.com/amadren/relkit/internal/errs"
)

// Type is the semantic type tag of a field. It drives parameter binding,
// not storage: the engine's declared column type is discovered separately
// by catalog introspection.
type Type int

const (
	String Type = iota
	Int
	Bool
	Float
	DateTime
	Blob
)

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Int:
		return "int"
	case Bool:
		return "bool"
	case Float:
		return "float"
	case DateTime:
		return "datetime"
	case Blob:
		return "blob"
	default:
		return "invalid"
	}
}

// Field describes one named, typed field of a record shape.
type Field struct {
	Name       string
	Type       Type
	PrimaryKey bool
}

// Shape is an immutable ordered list of fields. Field order is declaration
// order and is stable: generated column lists and parameter lists depend
// on it matching exactly.
type Shape struct {
	fields []Field
	index  map[string]int
	pk     int // index into fields, -1 when no key is designated
}

// Fields returns the fields in declaration order. The returned slice is a
// copy; mutating it does not affect the Shape.
func (s *Shape) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Len returns the number of fields.
func (s *Shape) Len() int {
	return len(s.fields)
}

// Field returns the field with the given name.
func (s *Shape) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// PrimaryKey returns the designated primary-key field, if any.
func (s *Shape) PrimaryKey() (Field, bool) {
	if s.pk < 0 {
		return Field{}, false
	}
	return s.fields[s.pk], true
}

// Builder assembles a Shape field by field. Field order is preserved.
type Builder struct {
	fields []Field
	err    error
}

// NewBuilder starts an empty shape definition.
func NewBuilder() *Builder {
	return &Builder{}
}

// Field appends a non-key field.
func (b *Builder) Field(name string, t Type) *Builder {
	return b.add(Field{Name: name, Type: t})
}

// Key appends the primary-key field. At most one field may be the key.
func (b *Builder) Key(name string, t Type) *Builder {
	return b.add(Field{Name: name, Type: t, PrimaryKey: true})
}

func (b *Builder) add(f Field) *Builder {
	if b.err != nil {
		return b
	}
	if f.Name == "" {
		b.err = errs.New(errs.ErrKindInvalidInput, "field name must not be empty")
		return b
	}
	for _, existing := range b.fields {
		if existing.Name == f.Name {
			b.err = errs.Newf(errs.ErrKindInvalidInput, "duplicate field name %q", f.Name)
			return b
		}
		if f.PrimaryKey && existing.PrimaryKey {
			b.err = errs.Newf(errs.ErrKindInvalidInput,
				"primary key already designated on %q, cannot add %q", existing.Name, f.Name)
			return b
		}
	}
	b.fields = append(b.fields, f)
	return b
}

// Build finalises the shape. A zero-field shape builds successfully — the
// statement generator rejects it at configuration time instead, so that
// the failure surfaces where it can be acted on.
func (b *Builder) Build() (*Shape, error) {
	if b.err != nil {
		return nil, b.err
	}
	return newShape(b.fields)
}

func newShape(fields []Field) (*Shape, error) {
	s := &Shape{
		fields: fields,
		index:  make(map[string]int, len(fields)),
		pk:     -1,
	}
	for i, f := range fields {
		s.index[f.Name] = i
		if f.PrimaryKey {
			s.pk = i
		}
	}
	return s, nil
}
