package cache

import (
	"sort"
	"strings"
)

// Record is a raw dbrow or struct: small integer column (or param) keys
// mapped to flat value lists. Arity holds how many consecutive values form
// one entry of a column; a missing or non-positive arity means 1.
type Record struct {
	ID      int             `json:"id"`
	Columns map[int][]Value `json:"columns"`
	Arity   map[int]int     `json:"arity,omitempty"`
}

func (r *Record) Values(column int) []Value {
	if r == nil || r.Columns == nil {
		return nil
	}
	return r.Columns[column]
}

func (r *Record) arity(column int) int {
	if r == nil || r.Arity == nil {
		return 1
	}
	if n := r.Arity[column]; n > 1 {
		return n
	}
	return 1
}

// Tuples slices a column into consecutive groups of its declared arity, in
// order. A trailing incomplete group is dropped.
func (r *Record) Tuples(column int) [][]Value {
	return tuples(r.Values(column), r.arity(column))
}

func tuples(values []Value, size int) [][]Value {
	if len(values) == 0 {
		return nil
	}
	if size < 1 {
		size = 1
	}
	out := make([][]Value, 0, len(values)/size)
	for i := 0; i+size <= len(values); i += size {
		out = append(out, values[i:i+size:i+size])
	}
	return out
}

// String returns the first string value of the column.
func (r *Record) String(column int) (string, bool) {
	for _, v := range r.Values(column) {
		if s, ok := v.Str(); ok {
			return s, true
		}
	}
	return "", false
}

// Int returns the first value of the column that normalizes to a number.
func (r *Record) Int(column int) (int64, bool) {
	for _, v := range r.Values(column) {
		if n, ok := v.Int(); ok {
			return n, true
		}
	}
	return 0, false
}

// Bool returns the first value of the column that normalizes to a number,
// true when non-zero.
func (r *Record) Bool(column int) (bool, bool) {
	for _, v := range r.Values(column) {
		if b, ok := v.Bool(); ok {
			return b, true
		}
	}
	return false, false
}

// Ints returns every numeric value of the column, skipping malformed ones.
func (r *Record) Ints(column int) []int {
	var out []int
	for _, v := range r.Values(column) {
		if n, ok := v.Int(); ok {
			out = append(out, int(n))
		}
	}
	return out
}

// Param returns the single value stored under a struct param.
func (r *Record) Param(id int) Value {
	values := r.Values(id)
	if len(values) == 0 {
		return Null()
	}
	return values[0]
}

// StringValue locates one string value inside a record.
type StringValue struct {
	Column int    `json:"column"`
	Index  int    `json:"index"`
	Value  string `json:"value"`
}

// Strings lists every string value of the record, ordered by column and
// then by position within the column.
func (r *Record) Strings() []StringValue {
	if r == nil {
		return nil
	}
	columns := make([]int, 0, len(r.Columns))
	for column := range r.Columns {
		columns = append(columns, column)
	}
	sort.Ints(columns)

	var out []StringValue
	for _, column := range columns {
		for i, v := range r.Columns[column] {
			if s, ok := v.Str(); ok {
				out = append(out, StringValue{Column: column, Index: i, Value: s})
			}
		}
	}
	return out
}

// Contains reports whether any string value of the record contains text.
func (r *Record) Contains(text string) bool {
	for _, s := range r.Strings() {
		if strings.Contains(s.Value, text) {
			return true
		}
	}
	return false
}

type EnumEntry struct {
	Key   int   `json:"key"`
	Value Value `json:"value"`
}

// Enum is an ordered key/value table from the cache.
type Enum struct {
	ID      int         `json:"id"`
	Entries []EnumEntry `json:"entries"`
}

func (e *Enum) Get(key int) (Value, bool) {
	if e == nil {
		return Null(), false
	}
	for _, entry := range e.Entries {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return Null(), false
}

// Values lists the enum values in storage order.
func (e *Enum) Values() []Value {
	if e == nil {
		return nil
	}
	out := make([]Value, 0, len(e.Entries))
	for _, entry := range e.Entries {
		out = append(out, entry.Value)
	}
	return out
}
