package cmdparse

import (
	"strconv"
)

// Kind is the type of a parameter or result value.
type Kind int

const (
	// KindString values are the raw token.
	KindString Kind = iota
	// KindInt values are base-10 integers, absent when the token does not parse.
	KindInt
	// KindFlags values are unions of FlagSet members, absent when any name is unknown.
	KindFlags
	// KindSection values hold a nested section result.
	KindSection
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFlags:
		return "flags"
	case KindSection:
		return "section"
	default:
		return "unknown"
	}
}

// Value is a tagged variant holding one parsed parameter or one nested
// section result. The zero Value is an absent string.
type Value struct {
	kind    Kind
	present bool
	str     string
	num     int
	flags   Flags
	set     *FlagSet
	section *Result
}

// StringValue wraps a raw token.
func StringValue(s string) Value {
	return Value{kind: KindString, present: true, str: s}
}

// IntValue wraps an integer.
func IntValue(n int) Value {
	return Value{kind: KindInt, present: true, num: n}
}

// FlagsValue wraps a union of members of set.
func FlagsValue(f Flags, set *FlagSet) Value {
	return Value{kind: KindFlags, present: true, flags: f, set: set}
}

// SectionValue wraps a nested section result.
func SectionValue(r *Result) Value {
	return Value{kind: KindSection, present: r != nil, section: r}
}

// Absent returns an empty value of the given kind.
func Absent(kind Kind) Value {
	return Value{kind: kind}
}

// Kind returns the variant tag
func (v Value) Kind() Kind { return v.kind }

// Present reports whether the value carries data. Conversion failures
// produce values that are not present.
func (v Value) Present() bool { return v.present }

// Str returns the string payload
func (v Value) Str() (string, bool) {
	return v.str, v.present && v.kind == KindString
}

// Int returns the integer payload
func (v Value) Int() (int, bool) {
	return v.num, v.present && v.kind == KindInt
}

// Flags returns the flag-set payload
func (v Value) Flags() (Flags, bool) {
	return v.flags, v.present && v.kind == KindFlags
}

// Section returns the nested section payload
func (v Value) Section() (*Result, bool) {
	return v.section, v.present && v.kind == KindSection
}

// Equal reports whether two values have the same kind, presence and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind || v.present != other.present {
		return false
	}
	if !v.present {
		return true
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindInt:
		return v.num == other.num
	case KindFlags:
		return v.flags == other.flags
	case KindSection:
		return v.section.Equal(other.section)
	default:
		return false
	}
}

// String renders the value for display. Absent values render as "<absent>".
func (v Value) String() string {
	if !v.present {
		return "<absent>"
	}
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.Itoa(v.num)
	case KindFlags:
		if v.set != nil {
			return v.set.Format(v.flags)
		}
		return "0x" + strconv.FormatUint(uint64(v.flags), 16)
	case KindSection:
		return v.section.String()
	default:
		return ""
	}
}

// interfaceValue converts v to a plain Go value for encoding. Absent values
// become nil; flags become their member names when a set is attached.
func (v Value) interfaceValue() any {
	if !v.present {
		return nil
	}
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	case KindFlags:
		if v.set != nil {
			return v.set.Format(v.flags)
		}
		return uint64(v.flags)
	case KindSection:
		return v.section
	default:
		return nil
	}
}
