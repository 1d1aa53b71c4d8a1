package cache

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
)

// Value is a single untyped primitive read from a record column. Booleans
// are stored by the game as integers and are represented as KindInt.
// KindFloat only holds numbers with a fractional part.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
}

func Null() Value {
	return Value{}
}

func String(s string) Value {
	return Value{kind: KindString, s: s}
}

func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// Float keeps integral values as KindInt.
func Float(f float64) Value {
	if n, ok := integral(f); ok {
		return Int(n)
	}
	return Value{kind: KindFloat, f: f}
}

func Bool(b bool) Value {
	if b {
		return Int(1)
	}
	return Int(0)
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Int normalizes the value to an integer. Strings count when they are
// non-empty after trimming and parse fully as an integer, or as a float
// without a fractional part. Use Float to keep fractional numbers.
func (v Value) Int() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindString:
		return parseInt(v.s)
	}
	return 0, false
}

// Float normalizes the value to a number, fractional or not. Strings count
// when they are non-empty after trimming and parse fully as a number.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	case KindString:
		return parseFloat(v.s)
	}
	return 0, false
}

func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// Bool is true for any non-zero numeric value.
func (v Value) Bool() (bool, bool) {
	n, ok := v.Float()
	if !ok {
		return false, false
	}
	return n != 0, true
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	}
	return "null"
}

// MarshalJSON keeps the value's own type: strings stay quoted, numbers stay bare.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return []byte(strconv.Quote(v.s)), nil
	case KindInt:
		return []byte(strconv.FormatInt(v.i, 10)), nil
	case KindFloat:
		return []byte(strconv.FormatFloat(v.f, 'g', -1, 64)), nil
	}
	return []byte("null"), nil
}

func parseInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, ok := parseFloat(s)
	if !ok {
		return 0, false
	}
	return integral(f)
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func integral(f float64) (int64, bool) {
	if f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// FromJSON converts a decoded JSON value.
func FromJSON(r gjson.Result) Value {
	switch r.Type {
	case gjson.String:
		return String(r.Str)
	case gjson.Number:
		if n, ok := parseInt(r.Raw); ok {
			return Int(n)
		}
		if f, ok := parseFloat(r.Raw); ok {
			return Float(f)
		}
		return Null()
	case gjson.True:
		return Bool(true)
	case gjson.False:
		return Bool(false)
	}
	return Null()
}
