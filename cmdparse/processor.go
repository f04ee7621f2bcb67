package cmdparse

import (
	"fmt"
	"slices"

	"github.com/RomanAgeev/CommandParser/internal/fuzzy"
	cliio "github.com/RomanAgeev/CommandParser/io"
	"github.com/RomanAgeev/CommandParser/middleware"
)

// Processor dispatches a token sequence to the first registered command that
// matches it. Registration must complete before Parse is called; after that a
// Processor is safe for concurrent use.
type Processor struct {
	commands []*Command
	chain    middleware.MiddlewareChain

	suggest     bool
	maxDistance int
	logger      *cliio.Logger
}

// Option configures a Processor
type Option func(p *Processor)

// WithMiddleware wraps every command's deferred action. Processor middleware
// runs outside command-level middleware.
func WithMiddleware(mw ...middleware.Middleware) Option {
	return func(p *Processor) {
		p.chain = p.chain.Use(mw...)
	}
}

// WithSuggestions enables "Did you mean" suggestions on unknown commands,
// using the given maximum edit distance.
func WithSuggestions(maxDistance int) Option {
	return func(p *Processor) {
		p.suggest = true
		p.maxDistance = maxDistance
	}
}

// WithLogger traces match attempts at debug level
func WithLogger(logger *cliio.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// NewProcessor creates an empty processor
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		commands:    make([]*Command, 0, 4),
		maxDistance: 2,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Register builds a command from spec and appends it to the dispatch list.
func (p *Processor) Register(spec CommandSpec) (*Command, error) {
	cmd, err := NewCommand(spec)
	if err != nil {
		return nil, err
	}
	p.commands = append(p.commands, cmd)
	return cmd, nil
}

// MustRegister is Register that panics on error
func (p *Processor) MustRegister(spec CommandSpec) *Command {
	cmd, err := p.Register(spec)
	if err != nil {
		panic(err)
	}
	return cmd
}

// Add appends an already built command
func (p *Processor) Add(cmd *Command) *Processor {
	if cmd == nil {
		panic("cmdparse: Add called with nil command")
	}
	p.commands = append(p.commands, cmd)
	return p
}

// Commands returns the registered commands in registration order
func (p *Processor) Commands() []*Command {
	return slices.Clone(p.commands)
}

// Match returns the first command that matches tokens together with its
// aggregate result.
func (p *Processor) Match(tokens []string) (*Command, *Result, error) {
	for _, cmd := range p.commands {
		result, ok := cmd.Match(tokens)
		if !ok {
			p.debug("command '%s' did not match", cmd.Name())
			continue
		}
		p.debug("command '%s' matched sections %v", cmd.Name(), result.Names())
		return cmd, result, nil
	}
	return nil, nil, p.unknownCommand(tokens)
}

// Parse returns the deferred action of the first command that matches
// tokens. When no command matches the error is of type
// ErrorTypeUnknownCommand.
func (p *Processor) Parse(tokens []string) (Action, error) {
	cmd, result, err := p.Match(tokens)
	if err != nil {
		return nil, err
	}
	return cmd.bind(tokens, result, p.chain), nil
}

// Run parses tokens and invokes the resulting action
func (p *Processor) Run(tokens []string) error {
	action, err := p.Parse(tokens)
	if err != nil {
		return err
	}
	return action()
}

// unknownCommand builds the no-match error with optional suggestions
func (p *Processor) unknownCommand(tokens []string) *Error {
	if len(tokens) == 0 {
		return NewError(ErrorTypeUnknownCommand, "no command given")
	}
	err := newErrorf(ErrorTypeUnknownCommand, "unknown command '%s'", tokens[0]).WithToken(tokens[0])
	if p.suggest {
		if best := fuzzy.FindBestKey(tokens[0], p.leadingKeys(), p.maxDistance); best != "" {
			_ = err.WithSuggestion(fmt.Sprintf("Did you mean '%s'?", best))
		}
	}
	return err
}

// leadingKeys collects the keys that may start some command: the required
// section's keys, or every optional section's keys when none is required.
func (p *Processor) leadingKeys() []string {
	keys := make([]string, 0, len(p.commands))
	for _, cmd := range p.commands {
		if cmd.required != nil {
			keys = append(keys, cmd.required.keys...)
			continue
		}
		for _, section := range cmd.optional {
			keys = append(keys, section.keys...)
		}
	}
	return keys
}

func (p *Processor) debug(format string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(format, args...)
	}
}
