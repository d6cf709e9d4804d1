package runtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// KindForType maps a declared type name onto a value kind.
func KindForType(typeName string) (Kind, bool) {
	switch typeName {
	case "int":
		return KindInteger, true
	case "float":
		return KindFloat, true
	case "string":
		return KindString, true
	default:
		return 0, false
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind { return KindInteger }

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind { return KindFloat }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

// Bool encodes a comparison result the way the language does: 1 or 0.
func Bool(b bool) IntegerValue {
	if b {
		return IntegerValue{Val: 1}
	}
	return IntegerValue{Val: 0}
}

// Truthy reports whether v counts as true in a condition. Zero numbers and
// the empty string are false.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case IntegerValue:
		return val.Val != 0
	case FloatValue:
		return val.Val != 0
	case StringValue:
		return val.Val != ""
	default:
		return false
	}
}

// Format renders the canonical text of a value as print writes it.
func Format(v Value) string {
	switch val := v.(type) {
	case IntegerValue:
		return strconv.FormatInt(val.Val, 10)
	case FloatValue:
		return formatFloat(val.Val)
	case StringValue:
		return val.Val
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	text := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(text, '.') {
		text += ".0"
	}
	return text
}

// ZeroValue returns the default value of a declared type.
func ZeroValue(typeName string) (Value, bool) {
	kind, ok := KindForType(typeName)
	if !ok {
		return nil, false
	}
	switch kind {
	case KindInteger:
		return IntegerValue{}, true
	case KindFloat:
		return FloatValue{}, true
	default:
		return StringValue{}, true
	}
}

// Coerce converts v to the given kind. int and float convert into each
// other (float to int truncates toward zero); any other mismatch fails.
func Coerce(v Value, kind Kind) (Value, bool) {
	if v == nil {
		return nil, false
	}
	if v.Kind() == kind {
		return v, true
	}
	switch val := v.(type) {
	case IntegerValue:
		if kind == KindFloat {
			return FloatValue{Val: float64(val.Val)}, true
		}
	case FloatValue:
		if kind == KindInteger {
			return IntegerValue{Val: int64(val.Val)}, true
		}
	}
	return nil, false
}

// CoerceToType is Coerce keyed by a declared type name.
func CoerceToType(v Value, typeName string) (Value, bool) {
	kind, ok := KindForType(typeName)
	if !ok {
		return nil, false
	}
	return Coerce(v, kind)
}
