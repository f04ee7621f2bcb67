package cmdparse

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
)

// Result is an ordered mapping from name to Value. A section match produces
// one entry per declared parameter; a command match produces one nested
// section entry per matched section, in match order.
type Result struct {
	names  []string
	values map[string]Value
}

// NewResult creates an empty result with room for n entries
func NewResult(n int) *Result {
	return &Result{
		names:  make([]string, 0, n),
		values: make(map[string]Value, n),
	}
}

// Set stores a value under name. A new name is appended to the order; an
// existing name keeps its position.
func (r *Result) Set(name string, v Value) {
	if _, exists := r.values[name]; !exists {
		r.names = append(r.names, name)
	}
	r.values[name] = v
}

// Len returns the number of entries
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// Names returns entry names in insertion order
func (r *Result) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.names)
}

// Has reports whether name has an entry, present or absent.
func (r *Result) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.values[name]
	return ok
}

// Value returns the entry stored under name
func (r *Result) Value(name string) (Value, bool) {
	if r == nil {
		return Value{}, false
	}
	v, ok := r.values[name]
	return v, ok
}

// Str returns a present string entry
func (r *Result) Str(name string) (string, bool) {
	v, _ := r.Value(name)
	return v.Str()
}

// Int returns a present integer entry
func (r *Result) Int(name string) (int, bool) {
	v, _ := r.Value(name)
	return v.Int()
}

// Flags returns a present flag-set entry
func (r *Result) Flags(name string) (Flags, bool) {
	v, _ := r.Value(name)
	return v.Flags()
}

// Section returns a nested section result
func (r *Result) Section(name string) (*Result, bool) {
	v, _ := r.Value(name)
	return v.Section()
}

// Equal reports whether both results hold the same entries in the same order.
func (r *Result) Equal(other *Result) bool {
	if r == nil || other == nil {
		return r == other
	}
	if !slices.Equal(r.names, other.names) {
		return false
	}
	for _, name := range r.names {
		if !r.values[name].Equal(other.values[name]) {
			return false
		}
	}
	return true
}

// String renders the result as name=value pairs; nested sections in braces.
func (r *Result) String() string {
	if r == nil {
		return "{}"
	}
	var builder strings.Builder
	builder.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(name)
		v := r.values[name]
		if v.kind == KindSection {
			builder.WriteString(v.String())
			continue
		}
		builder.WriteByte('=')
		builder.WriteString(v.String())
	}
	builder.WriteByte('}')
	return builder.String()
}

// MarshalJSON encodes the result as a JSON object preserving entry order.
// Absent values encode as null.
func (r *Result) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.values[name].interfaceValue())
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
