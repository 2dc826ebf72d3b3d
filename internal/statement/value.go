package statement

import (
	"fmt"
	"time"

	"github.com/amadren/relkit/internal/errs"
	"github.com/amadren/relkit/internal/shape"
)

// ValueKind tags the runtime type of a bound parameter value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindText
	KindInteger
	KindReal
	KindBool
	KindTime
	KindBlob
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindBlob:
		return "blob"
	default:
		return "invalid"
	}
}

// Value is a tagged parameter value. Parameters are carried as Values so
// that binding is type-checked where the row meets the statement, instead
// of deferred to the driver as an opaque interface{}.
type Value struct {
	kind    ValueKind
	text    string
	integer int64
	real    float64
	boolean bool
	moment  time.Time
	blob    []byte
}

// Null returns the SQL NULL value.
func Null() Value { return Value{kind: KindNull} }

// Text returns a string value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Integer returns an integer value.
func Integer(i int64) Value { return Value{kind: KindInteger, integer: i} }

// Real returns a floating-point value.
func Real(f float64) Value { return Value{kind: KindReal, real: f} }

// Boolean returns a boolean value.
func Boolean(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Moment returns a timestamp value.
func Moment(t time.Time) Value { return Value{kind: KindTime, moment: t} }

// Bytes returns a blob value.
func Bytes(b []byte) Value { return Value{kind: KindBlob, blob: b} }

// Kind returns the value's type tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is SQL NULL.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Driver returns the value in the representation database/sql drivers
// accept. This is the single point where tagged values become untyped.
func (v Value) Driver() any {
	switch v.kind {
	case KindText:
		return v.text
	case KindInteger:
		return v.integer
	case KindReal:
		return v.real
	case KindBool:
		return v.boolean
	case KindTime:
		return v.moment
	case KindBlob:
		return v.blob
	default:
		return nil
	}
}

func (v Value) String() string {
	if v.kind == KindNull {
		return "NULL"
	}
	return fmt.Sprintf("%v", v.Driver())
}

// valueFor converts a raw row value into a tagged Value checked against
// the field's semantic type. A nil raw value becomes NULL. Conversions
// accept the representations engines commonly hand back (SQLite returns
// int64 for booleans, text for timestamps).
func valueFor(t shape.Type, raw any) (Value, error) {
	if raw == nil {
		return Null(), nil
	}

	switch t {
	case shape.String:
		if s, ok := raw.(string); ok {
			return Text(s), nil
		}
	case shape.Int:
		if i, ok := asInt64(raw); ok {
			return Integer(i), nil
		}
	case shape.Float:
		switch f := raw.(type) {
		case float64:
			return Real(f), nil
		case float32:
			return Real(float64(f)), nil
		}
		if i, ok := asInt64(raw); ok {
			return Real(float64(i)), nil
		}
	case shape.Bool:
		switch b := raw.(type) {
		case bool:
			return Boolean(b), nil
		}
		if i, ok := asInt64(raw); ok {
			return Boolean(i != 0), nil
		}
	case shape.DateTime:
		switch m := raw.(type) {
		case time.Time:
			return Moment(m), nil
		case string:
			// Engines without a native timestamp type return text.
			return Text(m), nil
		}
	case shape.Blob:
		switch b := raw.(type) {
		case []byte:
			return Bytes(b), nil
		case string:
			return Bytes([]byte(b)), nil
		}
	}
	return Value{}, errs.Newf(errs.ErrKindInvalidInput,
		"value %v (%T) does not match field type %s", raw, raw, t)
}

func asInt64(raw any) (int64, bool) {
	switch i := raw.(type) {
	case int:
		return int64(i), true
	case int8:
		return int64(i), true
	case int16:
		return int64(i), true
	case int32:
		return int64(i), true
	case int64:
		return i, true
	case uint:
		return int64(i), true
	case uint8:
		return int64(i), true
	case uint16:
		return int64(i), true
	case uint32:
		return int64(i), true
	case uint64:
		return int64(i), true
	}
	return 0, false
}
