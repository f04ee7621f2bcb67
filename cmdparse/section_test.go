//nolint:testpackage // using package name 'cmdparse' to access unexported fields for testing
package cmdparse

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testFlags = MustFlagSet("Profile", "A", "B", "C", "D")

func keyedSection(t *testing.T, params ...Param) *Section {
	t.Helper()
	s, err := NewSection(SectionSpec{
		Name:   "Test",
		Keys:   []string{"--full-key", "-k"},
		Params: params,
	})
	if err != nil {
		t.Fatalf("NewSection failed: %v", err)
	}
	return s
}

func TestSectionParse(t *testing.T) {
	s := keyedSection(t, IntParam("x"), StringParam("y"))

	tests := []struct {
		name   string
		tokens []string
		want   *Result
	}{
		{
			name:   "full key",
			tokens: []string{"--full-key", "1", "A"},
			want:   resultOf("x", IntValue(1), "y", StringValue("A")),
		},
		{
			name:   "short key",
			tokens: []string{"-k", "1", "A"},
			want:   resultOf("x", IntValue(1), "y", StringValue("A")),
		},
		{
			name:   "trailing tokens ignored",
			tokens: []string{"-k", "7", "B", "--other", "x"},
			want:   resultOf("x", IntValue(7), "y", StringValue("B")),
		},
		{
			name:   "non numeric int is absent",
			tokens: []string{"-k", "one", "A"},
			want:   resultOf("x", Absent(KindInt), "y", StringValue("A")),
		},
		{
			name:   "empty int is absent",
			tokens: []string{"-k", "", "A"},
			want:   resultOf("x", Absent(KindInt), "y", StringValue("A")),
		},
		{
			name:   "negative int",
			tokens: []string{"-k", "-3", "A"},
			want:   resultOf("x", IntValue(-3), "y", StringValue("A")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.Parse(tt.tokens)
			if !ok {
				t.Fatalf("Parse(%q) did not match", tt.tokens)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.tokens, diff)
			}
		})
	}
}

func TestSectionParseFailures(t *testing.T) {
	s := keyedSection(t, IntParam("x"), StringParam("y"))

	tests := []struct {
		name   string
		tokens []string
	}{
		{"nil tokens", nil},
		{"empty token", []string{""}},
		{"too few tokens", []string{"--full-key", "1"}},
		{"wrong key", []string{"--fullkey", "1", "A"}},
		{"key not first", []string{"1", "--full-key", "A"}},
		{"case sensitive key", []string{"-K", "1", "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if r, ok := s.Parse(tt.tokens); ok {
				t.Errorf("Parse(%q) = %v, expected no match", tt.tokens, r)
			}
		})
	}
}

func TestSectionParseNoParams(t *testing.T) {
	s := keyedSection(t)

	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}

	r, ok := s.Parse([]string{"-k", "rest"})
	if !ok {
		t.Fatal("expected key-only section to match")
	}
	if r.Len() != 0 {
		t.Errorf("expected empty result, got %v", r)
	}
}

func TestSectionParseFlags(t *testing.T) {
	s := keyedSection(t, FlagsParam("p", testFlags))

	a, _ := testFlags.Lookup("A")
	c, _ := testFlags.Lookup("C")

	r, ok := s.Parse([]string{"-k", "a,C"})
	if !ok {
		t.Fatal("expected match")
	}
	if f, ok := r.Flags("p"); !ok || f != a|c {
		t.Errorf("Flags(p) = %v,%v want %v", f, ok, a|c)
	}

	r, ok = s.Parse([]string{"-k", "A,Z"})
	if !ok {
		t.Fatal("unknown flag name must not fail the section")
	}
	if v, _ := r.Value("p"); v.Present() {
		t.Errorf("expected absent flags value, got %v", v)
	}
}

func TestNewSectionValidation(t *testing.T) {
	tests := []struct {
		name string
		spec SectionSpec
		typ  ErrorType
	}{
		{
			name: "empty name",
			spec: SectionSpec{Keys: []string{"a"}},
			typ:  ErrorTypeInvalidSection,
		},
		{
			name: "no keys",
			spec: SectionSpec{Name: "S"},
			typ:  ErrorTypeInvalidSection,
		},
		{
			name: "empty key",
			spec: SectionSpec{Name: "S", Keys: []string{""}},
			typ:  ErrorTypeInvalidSection,
		},
		{
			name: "key with space",
			spec: SectionSpec{Name: "S", Keys: []string{"a b"}},
			typ:  ErrorTypeInvalidSection,
		},
		{
			name: "unnamed param",
			spec: SectionSpec{Name: "S", Keys: []string{"a"}, Params: []Param{StringParam("")}},
			typ:  ErrorTypeInvalidParam,
		},
		{
			name: "duplicate param",
			spec: SectionSpec{Name: "S", Keys: []string{"a"}, Params: []Param{StringParam("x"), IntParam("x")}},
			typ:  ErrorTypeInvalidParam,
		},
		{
			name: "flags without set",
			spec: SectionSpec{Name: "S", Keys: []string{"a"}, Params: []Param{{Name: "f", Kind: KindFlags}}},
			typ:  ErrorTypeInvalidParam,
		},
		{
			name: "section kind param",
			spec: SectionSpec{Name: "S", Keys: []string{"a"}, Params: []Param{{Name: "f", Kind: KindSection}}},
			typ:  ErrorTypeInvalidParam,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSection(tt.spec)
			if err == nil {
				t.Fatal("expected error")
			}
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if e.Type != tt.typ {
				t.Errorf("Type = %s, want %s", e.Type, tt.typ)
			}
		})
	}
}

func TestSectionDuplicateKeysCollapsed(t *testing.T) {
	s := MustSection(SectionSpec{Name: "S", Keys: []string{"-a", "-b", "-a"}})
	if diff := cmp.Diff([]string{"-a", "-b"}, s.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if !s.HasKey("-b") || s.HasKey("-c") {
		t.Error("HasKey reported wrong membership")
	}
}

func TestSectionSpecIsCopied(t *testing.T) {
	params := []Param{StringParam("x")}
	s := MustSection(SectionSpec{Name: "S", Keys: []string{"s"}, Params: params})
	params[0].Name = "mutated"

	r, ok := s.Parse([]string{"s", "v"})
	if !ok {
		t.Fatal("expected match")
	}
	if v, ok := r.Str("x"); !ok || v != "v" {
		t.Errorf("Str(x) = %q,%v want v,true", v, ok)
	}
}

func TestMustSectionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustSection(SectionSpec{})
}

// resultOf builds a Result from alternating name/value pairs
func resultOf(pairs ...any) *Result {
	r := NewResult(len(pairs) / 2)
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i].(string), pairs[i+1].(Value))
	}
	return r
}

// sectionOf wraps resultOf as a nested section value
func sectionOf(pairs ...any) Value {
	return SectionValue(resultOf(pairs...))
}
