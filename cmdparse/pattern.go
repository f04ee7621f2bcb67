package cmdparse

import (
	"regexp"
	"strings"
)

// Textual front end: a section's key and parameter shape compiled into a
// regular expression that is matched against an untokenized command line.
//
// Parameter kinds map to capture groups:
//
//	string  \s+(\S+)
//	int     \s+(\d+)\b
//	flags   \s+([a-zA-Z\d]+(?:_[a-zA-Z\d]+)*)\b
//
// Flag names in the textual form are joined with an underscore.

// PatternFlagDelimiter joins flag names in the textual form
const PatternFlagDelimiter = "_"

const (
	stringGroup = `\s+(\S+)`
	intGroup    = `\s+(\d+)\b`
	flagsGroup  = `\s+([a-zA-Z\d]+(?:_[a-zA-Z\d]+)*)\b`
)

// Searching finds a key anywhere it starts the line or follows whitespace;
// the anchored form must start at the cursor and end on a token boundary,
// swallowing the whitespace after it.
const (
	searchLead = `(?:^|\s)`
	searchTail = `(?:\s|$)`
	anchorLead = `^\s*`
	anchorTail = `(?:\s+|$)`
)

// buildPattern assembles the section's regular expression source. Every key
// alias participates. tail is always appended to key-only sections, and to
// sections with parameters only when anchored.
func (s *Section) buildPattern(lead, tail string) string {
	var builder strings.Builder
	builder.WriteString(lead)
	builder.WriteString(`(?:`)
	for i, key := range s.keys {
		if i > 0 {
			builder.WriteByte('|')
		}
		builder.WriteString(regexp.QuoteMeta(key))
	}
	builder.WriteByte(')')

	if len(s.params) == 0 {
		builder.WriteString(tail)
		return builder.String()
	}
	for _, p := range s.params {
		switch p.Kind {
		case KindInt:
			builder.WriteString(intGroup)
		case KindFlags:
			builder.WriteString(flagsGroup)
		default:
			builder.WriteString(stringGroup)
		}
	}
	if lead == anchorLead {
		builder.WriteString(tail)
	}
	return builder.String()
}

// Pattern returns the regular expression source of the section
func (s *Section) Pattern() string {
	return s.pattern.String()
}

// Regexp returns the compiled textual form. The returned value is shared and
// safe for concurrent use.
func (s *Section) Regexp() *regexp.Regexp {
	return s.pattern
}

// MatchString finds the section anywhere in line and converts its captures
// like Parse does, splitting flag names on underscores.
func (s *Section) MatchString(line string) (*Result, bool) {
	loc := s.pattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return nil, false
	}
	return s.captures(line, loc), true
}

// matchPrefix matches the section at the start of line and reports how many
// bytes it consumed, trailing whitespace included.
func (s *Section) matchPrefix(line string) (*Result, int, bool) {
	loc := s.anchored.FindStringSubmatchIndex(line)
	if loc == nil {
		return nil, 0, false
	}
	return s.captures(line, loc), loc[1], true
}

func (s *Section) captures(line string, loc []int) *Result {
	result := NewResult(len(s.params))
	for i, p := range s.params {
		start, end := loc[2*(i+1)], loc[2*(i+1)+1]
		result.Set(p.Name, p.convert(line[start:end], PatternFlagDelimiter))
	}
	return result
}

// Pattern returns the textual form of the command: the required section's
// pattern, or an empty string when the command has no required section.
func (c *Command) Pattern() string {
	if c.required == nil {
		return ""
	}
	return c.required.Pattern()
}

// MatchLine matches an untokenized command line with the same shape rules
// as Match. A declared required section must start the line. The remaining
// optional sections are then tried in registration order at the cursor;
// the first that matches is committed and the cursor moves past it. Text no
// remaining section accepts ends the scan.
func (c *Command) MatchLine(line string) (*Result, bool) {
	aggregate := NewResult(len(c.optional) + 1)
	rest := line

	if c.required != nil {
		r, n, ok := c.required.matchPrefix(rest)
		if !ok {
			return nil, false
		}
		aggregate.Set(c.required.Name(), SectionValue(r))
		rest = rest[n:]
	}

	matched := make([]bool, len(c.optional))
	for remaining := len(c.optional); remaining > 0 && strings.TrimSpace(rest) != ""; remaining-- {
		committed := false
		for i, section := range c.optional {
			if matched[i] {
				continue
			}
			r, n, ok := section.matchPrefix(rest)
			if !ok {
				continue
			}
			aggregate.Set(section.Name(), SectionValue(r))
			rest = rest[n:]
			matched[i] = true
			committed = true
			break
		}
		if !committed {
			break
		}
	}

	if aggregate.Len() == 0 {
		return nil, false
	}
	return aggregate, true
}

// ParseLine is the textual counterpart of Parse
func (c *Command) ParseLine(line string) (Action, bool) {
	result, ok := c.MatchLine(line)
	if !ok {
		return nil, false
	}
	return c.bind(strings.Fields(line), result, nil), true
}

// ParseLine dispatches an untokenized command line to the first command
// whose textual form matches it.
func (p *Processor) ParseLine(line string) (Action, error) {
	for _, cmd := range p.commands {
		if result, ok := cmd.MatchLine(line); ok {
			p.debug("command '%s' matched line sections %v", cmd.Name(), result.Names())
			return cmd.bind(strings.Fields(line), result, p.chain), nil
		}
	}
	return nil, p.unknownCommand(strings.Fields(line))
}
