package cmdparse

import (
	"slices"

	"github.com/RomanAgeev/CommandParser/middleware"
)

// Handler receives the aggregate result of a matched command. The result
// holds one nested section entry per matched section, keyed by section name.
type Handler func(result *Result) error

// Action is a deferred invocation bound to a parsed result. Parsing never
// runs it; calling it runs the middleware chain and the handler.
type Action func() error

// CommandSpec declares a command: an optional required section and any
// number of optional sections that may follow it in any order.
type CommandSpec struct {
	// Name identifies the command in logs and errors. Defaults to the
	// required section's name, or the first optional section's name.
	Name       string
	Required   *SectionSpec
	Optional   []SectionSpec
	Handler    Handler
	Middleware []middleware.Middleware
}

// Command matches a whole token sequence against its sections. It is
// immutable after construction and safe for concurrent use.
type Command struct {
	name     string
	required *Section
	optional []*Section
	handler  Handler
	chain    middleware.MiddlewareChain
}

// NewCommand validates spec and builds a Command.
func NewCommand(spec CommandSpec) (*Command, error) {
	if spec.Handler == nil {
		return nil, newErrorf(ErrorTypeInvalidCommand, "command '%s' has no handler", spec.Name)
	}

	cmd := &Command{
		name:     spec.Name,
		optional: make([]*Section, 0, len(spec.Optional)),
		handler:  spec.Handler,
		chain:    middleware.Chain(spec.Middleware...),
	}

	names := make(map[string]struct{}, len(spec.Optional)+1)
	addName := func(s *Section) error {
		if _, dup := names[s.Name()]; dup {
			return newErrorf(ErrorTypeInvalidCommand,
				"command '%s' declares section '%s' twice", spec.Name, s.Name())
		}
		names[s.Name()] = struct{}{}
		return nil
	}

	if spec.Required != nil {
		section, err := NewSection(*spec.Required)
		if err != nil {
			return nil, err
		}
		if err := addName(section); err != nil {
			return nil, err
		}
		cmd.required = section
	}
	for _, optSpec := range spec.Optional {
		section, err := NewSection(optSpec)
		if err != nil {
			return nil, err
		}
		if err := addName(section); err != nil {
			return nil, err
		}
		cmd.optional = append(cmd.optional, section)
	}

	if cmd.name == "" {
		switch {
		case cmd.required != nil:
			cmd.name = cmd.required.Name()
		case len(cmd.optional) > 0:
			cmd.name = cmd.optional[0].Name()
		default:
			cmd.name = "command"
		}
	}
	return cmd, nil
}

// MustCommand is NewCommand that panics on error
func MustCommand(spec CommandSpec) *Command {
	cmd, err := NewCommand(spec)
	if err != nil {
		panic(err)
	}
	return cmd
}

// Name returns the command name
func (c *Command) Name() string { return c.name }

// Required returns the required section, or nil when none is declared
func (c *Command) Required() *Section { return c.required }

// Optional returns the optional sections in registration order
func (c *Command) Optional() []*Section { return slices.Clone(c.optional) }

// Match runs the section-matching algorithm over tokens and returns the
// aggregate result.
//
// A declared required section must match at the first token or the command
// does not match. Afterwards the remaining optional sections are tried in
// registration order at the current offset; the first that matches is
// committed and removed from consideration, and scanning restarts after it.
// Scanning stops at the first token no remaining section accepts. Unmatched
// optional sections are omitted from the result. The command matches when
// at least one section matched.
func (c *Command) Match(tokens []string) (*Result, bool) {
	aggregate := NewResult(len(c.optional) + 1)
	offset := 0

	if c.required != nil {
		r, ok := c.required.Parse(tokens)
		if !ok {
			return nil, false
		}
		aggregate.Set(c.required.Name(), SectionValue(r))
		offset += c.required.Len()
	}

	matched := make([]bool, len(c.optional))
	remaining := len(c.optional)
	for remaining > 0 && offset < len(tokens) {
		rest := tokens[offset:]
		committed := false
		for i, section := range c.optional {
			if matched[i] {
				continue
			}
			r, ok := section.Parse(rest)
			if !ok {
				continue
			}
			aggregate.Set(section.Name(), SectionValue(r))
			offset += section.Len()
			matched[i] = true
			remaining--
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

// Parse matches tokens and binds the result to the command's handler.
func (c *Command) Parse(tokens []string) (Action, bool) {
	result, ok := c.Match(tokens)
	if !ok {
		return nil, false
	}
	return c.bind(tokens, result, nil), true
}

// bind builds the deferred action. Outer middleware wraps the command's own
// chain.
func (c *Command) bind(tokens []string, result *Result, outer middleware.MiddlewareChain) Action {
	inv := &invocation{
		command: c,
		tokens:  slices.Clone(tokens),
		result:  result,
	}
	handler := c.handler
	final := func(_ middleware.Context) error {
		return handler(result)
	}
	run := middleware.Chain(slices.Concat(outer, c.chain)...).Apply(final)
	return func() error {
		return run(inv)
	}
}

// invocation is the middleware.Context handed to the chain of a deferred
// action.
type invocation struct {
	command  *Command
	tokens   []string
	result   *Result
	metadata map[string]any
}

func (i *invocation) Command() string { return i.command.name }

func (i *invocation) Args() []string { return i.tokens }

func (i *invocation) Sections() []string { return i.result.Names() }

func (i *invocation) Has(section string) bool { return i.result.Has(section) }

func (i *invocation) Present(section, param string) bool {
	r, ok := i.result.Section(section)
	if !ok {
		return false
	}
	v, ok := r.Value(param)
	return ok && v.Present()
}

func (i *invocation) Set(key string, value any) {
	if i.metadata == nil {
		i.metadata = make(map[string]any)
	}
	i.metadata[key] = value
}

func (i *invocation) Get(key string) any {
	return i.metadata[key]
}
