package cmdparse

import (
	"math/bits"
	"slices"
	"strings"
)

// FlagDelimiter separates member names in a flag-set token.
const FlagDelimiter = ","

// maxFlagMembers is the number of distinct bits a Flags value can carry.
const maxFlagMembers = 64

// Flags is a bitwise union of FlagSet members.
type Flags uint64

// Has reports whether all bits of other are set in f.
func (f Flags) Has(other Flags) bool {
	return f&other == other
}

// FlagMember is a named flag with an explicit bit value.
type FlagMember struct {
	Name  string
	Value Flags
}

// FlagSet is an immutable mapping from member name to bit value, built once
// per flag type. Lookups are case-insensitive.
type FlagSet struct {
	name    string
	members []FlagMember     // Declaration order, original casing
	byName  map[string]Flags // Lowercased name -> value
}

// NewFlagSet creates a flag set whose members receive sequential bits
// (1<<0, 1<<1, ...) in declaration order.
func NewFlagSet(name string, members ...string) (*FlagSet, error) {
	if len(members) > maxFlagMembers {
		return nil, newErrorf(ErrorTypeInvalidFlagSet,
			"flag set '%s' declares %d members, at most %d are supported", name, len(members), maxFlagMembers)
	}
	values := make([]FlagMember, len(members))
	for i, member := range members {
		values[i] = FlagMember{Name: member, Value: 1 << uint(i)}
	}
	return NewFlagSetValues(name, values)
}

// NewFlagSetValues creates a flag set from explicit member values. Values
// may overlap, which allows composite members such as "all".
func NewFlagSetValues(name string, members []FlagMember) (*FlagSet, error) {
	if strings.TrimSpace(name) == "" {
		return nil, NewError(ErrorTypeInvalidFlagSet, "flag set name must not be empty")
	}
	if len(members) == 0 {
		return nil, newErrorf(ErrorTypeInvalidFlagSet, "flag set '%s' has no members", name)
	}

	fs := &FlagSet{
		name:    name,
		members: make([]FlagMember, 0, len(members)),
		byName:  make(map[string]Flags, len(members)),
	}
	for _, member := range members {
		key := strings.ToLower(strings.TrimSpace(member.Name))
		if key == "" || strings.ContainsAny(key, FlagDelimiter+"_ \t") {
			return nil, newErrorf(ErrorTypeInvalidFlagSet,
				"flag set '%s' has invalid member name '%s'", name, member.Name)
		}
		if member.Value == 0 {
			return nil, newErrorf(ErrorTypeInvalidFlagSet,
				"flag set '%s' member '%s' has no bits set", name, member.Name)
		}
		if _, dup := fs.byName[key]; dup {
			return nil, newErrorf(ErrorTypeInvalidFlagSet,
				"flag set '%s' declares member '%s' twice", name, member.Name)
		}
		fs.byName[key] = member.Value
		fs.members = append(fs.members, member)
	}
	return fs, nil
}

// MustFlagSet is NewFlagSet that panics on error. Intended for package-level
// declarations.
func MustFlagSet(name string, members ...string) *FlagSet {
	fs, err := NewFlagSet(name, members...)
	if err != nil {
		panic(err)
	}
	return fs
}

// Name returns the flag set name
func (fs *FlagSet) Name() string {
	return fs.name
}

// Members returns a copy of the declared members in declaration order
func (fs *FlagSet) Members() []FlagMember {
	return slices.Clone(fs.members)
}

// Lookup returns the value of a single member, ignoring case.
func (fs *FlagSet) Lookup(name string) (Flags, bool) {
	v, ok := fs.byName[strings.ToLower(strings.TrimSpace(name))]
	return v, ok
}

// Parse converts a comma-delimited token into the union of its members.
// An empty token, an empty sub-token or an unknown name fails the whole token.
func (fs *FlagSet) Parse(token string) (Flags, bool) {
	return fs.parseDelimited(token, FlagDelimiter)
}

func (fs *FlagSet) parseDelimited(token, delim string) (Flags, bool) {
	if token == "" {
		return 0, false
	}
	var result Flags
	for _, part := range strings.Split(token, delim) {
		v, ok := fs.Lookup(part)
		if !ok {
			return 0, false
		}
		result |= v
	}
	return result, true
}

// Format renders f as a comma-delimited list of member names. Members whose
// bits are fully contained in f are listed in declaration order; composite
// members are only used when they cover bits no single member does.
func (fs *FlagSet) Format(f Flags) string {
	if f == 0 {
		return ""
	}
	names := make([]string, 0, bits.OnesCount64(uint64(f)))
	var covered Flags
	for _, member := range fs.members {
		if bits.OnesCount64(uint64(member.Value)) != 1 {
			continue
		}
		if f.Has(member.Value) {
			names = append(names, member.Name)
			covered |= member.Value
		}
	}
	for _, member := range fs.members {
		if f.Has(member.Value) && !covered.Has(member.Value) {
			names = append(names, member.Name)
			covered |= member.Value
		}
	}
	return strings.Join(names, FlagDelimiter)
}
