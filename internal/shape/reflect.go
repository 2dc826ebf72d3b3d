package shape

import (
	"reflect"
	"strings"
	"time"

	"github.com/amadren/relkit/internal/errs"
)

// FromStruct derives a Shape from a struct type using `db` tags, the same
// tag convention the sqlx scanner uses, so one struct can drive both
// statement generation and row scanning.
//
//	type User struct {
//	    Id      int64  `db:"Id,primary"`
//	    Name    string `db:"Name"`
//	    Address string `db:"Address"`
//	    scratch []byte `db:"-"`
//	}
//
// Untagged exported fields use the Go field name as the column name.
// Fields tagged "-" and unexported fields are skipped. Reflection runs
// once here; the resulting Shape is a plain pre-computed field list.
func FromStruct(v any) (*Shape, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, errs.Newf(errs.ErrKindInvalidInput, "shape source must be a struct, got %T", v)
	}

	b := NewBuilder()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		name := sf.Name
		primary := false
		if tag, ok := sf.Tag.Lookup("db"); ok {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
			for _, opt := range parts[1:] {
				if opt == "primary" {
					primary = true
				}
			}
		}

		ft, err := fieldType(sf.Type)
		if err != nil {
			return nil, errs.Wrapf(errs.ErrKindInvalidInput, err,
				"field %s.%s", t.Name(), sf.Name)
		}

		if primary {
			b.Key(name, ft)
		} else {
			b.Field(name, ft)
		}
	}
	return b.Build()
}

var timeType = reflect.TypeOf(time.Time{})

// fieldType maps a Go type to the semantic tag used for parameter binding.
// Pointer types map to the type they point at; nullability is an engine
// concern surfaced by introspection, not part of the shape.
func fieldType(t reflect.Type) (Type, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType {
		return DateTime, nil
	}
	switch t.Kind() {
	case reflect.String:
		return String, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int, nil
	case reflect.Bool:
		return Bool, nil
	case reflect.Float32, reflect.Float64:
		return Float, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return Blob, nil
		}
	}
	return 0, errs.Newf(errs.ErrKindInvalidInput, "unsupported field type %s", t)
}
