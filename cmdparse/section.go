package cmdparse

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Param declares one positional parameter of a section
type Param struct {
	Name string
	Kind Kind
	Set  *FlagSet // Required for KindFlags
}

// StringParam declares a raw string parameter
func StringParam(name string) Param {
	return Param{Name: name, Kind: KindString}
}

// IntParam declares an integer parameter. Tokens that are not base-10
// integers produce an absent value.
func IntParam(name string) Param {
	return Param{Name: name, Kind: KindInt}
}

// FlagsParam declares a flag-set parameter resolved against set
func FlagsParam(name string, set *FlagSet) Param {
	return Param{Name: name, Kind: KindFlags, Set: set}
}

// convert applies the parameter's typed conversion. It never fails; a token
// that does not convert yields an absent value of the parameter's kind.
func (p Param) convert(token string, flagDelim string) Value {
	switch p.Kind {
	case KindInt:
		n, err := strconv.Atoi(token)
		if err != nil {
			return Absent(KindInt)
		}
		return IntValue(n)
	case KindFlags:
		f, ok := p.Set.parseDelimited(token, flagDelim)
		if !ok {
			return Absent(KindFlags)
		}
		return FlagsValue(f, p.Set)
	default:
		return StringValue(token)
	}
}

// SectionSpec declares a section: a key token (or one of its aliases)
// followed by a fixed, ordered list of parameters.
type SectionSpec struct {
	Name   string
	Keys   []string
	Params []Param
}

// Section recognizes exactly one key-prefixed token group. It is immutable
// after construction and safe for concurrent use.
type Section struct {
	name   string
	keys   []string
	keySet map[string]struct{}
	params []Param

	pattern  *regexp.Regexp // Compiled textual form, see pattern.go
	anchored *regexp.Regexp // pattern pinned to the start of the remaining line
}

// NewSection validates spec and builds a Section.
func NewSection(spec SectionSpec) (*Section, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return nil, NewError(ErrorTypeInvalidSection, "section name must not be empty")
	}
	if len(spec.Keys) == 0 {
		return nil, newErrorf(ErrorTypeInvalidSection, "section '%s' declares no keys", spec.Name)
	}

	s := &Section{
		name:   spec.Name,
		keys:   make([]string, 0, len(spec.Keys)),
		keySet: make(map[string]struct{}, len(spec.Keys)),
		params: slices.Clone(spec.Params),
	}
	for _, key := range spec.Keys {
		if key == "" || strings.ContainsAny(key, " \t\r\n") {
			return nil, newErrorf(ErrorTypeInvalidSection,
				"section '%s' has invalid key '%s'", spec.Name, key).WithToken(key)
		}
		if _, dup := s.keySet[key]; dup {
			continue
		}
		s.keySet[key] = struct{}{}
		s.keys = append(s.keys, key)
	}

	seen := make(map[string]struct{}, len(spec.Params))
	for _, p := range spec.Params {
		if strings.TrimSpace(p.Name) == "" {
			return nil, newErrorf(ErrorTypeInvalidParam, "section '%s' has a parameter without a name", spec.Name)
		}
		if _, dup := seen[p.Name]; dup {
			return nil, newErrorf(ErrorTypeInvalidParam,
				"section '%s' declares parameter '%s' twice", spec.Name, p.Name)
		}
		seen[p.Name] = struct{}{}
		switch p.Kind {
		case KindString, KindInt:
		case KindFlags:
			if p.Set == nil {
				return nil, newErrorf(ErrorTypeInvalidParam,
					"section '%s' parameter '%s' has no flag set", spec.Name, p.Name)
			}
		case KindSection:
			return nil, newErrorf(ErrorTypeInvalidParam,
				"section '%s' parameter '%s' cannot be of kind section", spec.Name, p.Name)
		default:
			return nil, newErrorf(ErrorTypeInvalidParam,
				"section '%s' parameter '%s' has unknown kind %d", spec.Name, p.Name, int(p.Kind))
		}
	}

	pattern, err := regexp.Compile(s.buildPattern(searchLead, searchTail))
	if err != nil {
		return nil, newErrorf(ErrorTypeInvalidSection, "section '%s' pattern does not compile", spec.Name).
			WithCause(err)
	}
	s.pattern = pattern
	s.anchored = regexp.MustCompile(s.buildPattern(anchorLead, anchorTail))
	return s, nil
}

// MustSection is NewSection that panics on error
func MustSection(spec SectionSpec) *Section {
	s, err := NewSection(spec)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the section's registered name
func (s *Section) Name() string { return s.name }

// Keys returns a copy of the accepted key tokens
func (s *Section) Keys() []string { return slices.Clone(s.keys) }

// Params returns a copy of the parameter declarations
func (s *Section) Params() []Param { return slices.Clone(s.params) }

// Len is the exact number of tokens the section consumes on a match:
// the key plus one token per parameter.
func (s *Section) Len() int { return len(s.params) + 1 }

// HasKey reports whether token is one of the section's keys
func (s *Section) HasKey(token string) bool {
	_, ok := s.keySet[token]
	return ok
}

// Parse matches the section at the start of tokens. It fails if fewer than
// Len tokens are available or the first token is not a key. Parameter
// conversion failures do not fail the match; the affected entry is absent.
// Tokens past Len are never inspected.
func (s *Section) Parse(tokens []string) (*Result, bool) {
	if len(tokens) < s.Len() || !s.HasKey(tokens[0]) {
		return nil, false
	}
	result := NewResult(len(s.params))
	for i, p := range s.params {
		result.Set(p.Name, p.convert(tokens[i+1], FlagDelimiter))
	}
	return result, true
}
