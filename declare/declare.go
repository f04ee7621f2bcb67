// Package declare builds cmdparse processors from YAML or TOML documents.
//
// A document lists flag sets by name and commands in dispatch order:
//
//	flagsets:
//	  stage: [decode, resize, encode]
//	commands:
//	  - name: compress
//	    required:
//	      name: Compress
//	      keys: [compress]
//	      params:
//	        - {name: Src, type: string}
//	        - {name: Dest, type: string}
//	    optional:
//	      - name: Profile
//	        keys: [--profile]
//	        params: [{name: Value, type: flags, set: stage}]
package declare

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/RomanAgeev/CommandParser/cmdparse"
)

// Format selects the document syntax
type Format int

const (
	// FormatAuto tries TOML first and falls back to YAML
	FormatAuto Format = iota
	FormatYAML
	FormatTOML
)

// String returns the format name
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// ErrUnsupportedFormat is returned for unknown Format values
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Document is the decoded form of a declaration file
type Document struct {
	FlagSets map[string][]string `yaml:"flagsets" toml:"flagsets"`
	Commands []CommandDoc        `yaml:"commands" toml:"commands"`
}

// CommandDoc declares one command
type CommandDoc struct {
	Name string `yaml:"name" toml:"name"`
	// Handler names the entry in the handler map passed to Build. Defaults
	// to Name.
	Handler  string       `yaml:"handler,omitempty" toml:"handler,omitempty"`
	Required *SectionDoc  `yaml:"required,omitempty" toml:"required,omitempty"`
	Optional []SectionDoc `yaml:"optional,omitempty" toml:"optional,omitempty"`
}

// SectionDoc declares one section
type SectionDoc struct {
	Name   string     `yaml:"name" toml:"name"`
	Keys   []string   `yaml:"keys" toml:"keys"`
	Params []ParamDoc `yaml:"params,omitempty" toml:"params,omitempty"`
}

// ParamDoc declares one parameter. Type is string (the default), int
// (also integer or number) or flags; flags parameters name their set.
type ParamDoc struct {
	Name string `yaml:"name" toml:"name"`
	Type string `yaml:"type,omitempty" toml:"type,omitempty"`
	Set  string `yaml:"set,omitempty" toml:"set,omitempty"`
}

// FormatForPath picks a format from the file extension
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatAuto
	}
}

// Load reads and decodes a declaration file
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(os.ExpandEnv(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read declaration: %w", err)
	}
	doc, err := Parse(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a declaration document
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		if err := decodeYAML(data, &doc); err != nil {
			return nil, err
		}
	case FormatTOML:
		if err := decodeTOML(data, &doc); err != nil {
			return nil, err
		}
	case FormatAuto:
		if err := decodeTOML(data, &doc); err != nil {
			doc = Document{}
			if yerr := decodeYAML(data, &doc); yerr != nil {
				return nil, fmt.Errorf("document is neither TOML nor YAML: %w", yerr)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, int(format))
	}
	return &doc, nil
}

func decodeYAML(data []byte, doc *Document) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(doc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func decodeTOML(data []byte, doc *Document) error {
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(doc)
	if err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("failed to parse TOML: unknown key %s", undecoded[0])
	}
	return nil
}

// HandlerName is the handler map key of the command
func (c CommandDoc) HandlerName() string {
	switch {
	case c.Handler != "":
		return c.Handler
	case c.Name != "":
		return c.Name
	case c.Required != nil:
		return c.Required.Name
	default:
		return ""
	}
}

// BuildFlagSets builds the declared flag sets
func (d *Document) BuildFlagSets() (map[string]*cmdparse.FlagSet, error) {
	names := make([]string, 0, len(d.FlagSets))
	for name := range d.FlagSets {
		names = append(names, name)
	}
	sort.Strings(names)

	sets := make(map[string]*cmdparse.FlagSet, len(names))
	for _, name := range names {
		fs, err := cmdparse.NewFlagSet(name, d.FlagSets[name]...)
		if err != nil {
			return nil, err
		}
		sets[name] = fs
	}
	return sets, nil
}

// Specs converts the document into command specs. Handlers are looked up
// by HandlerName; fallback serves commands with no entry. Either may be nil
// as long as every command ends up with a handler.
func (d *Document) Specs(handlers map[string]cmdparse.Handler, fallback cmdparse.Handler) ([]cmdparse.CommandSpec, error) {
	sets, err := d.BuildFlagSets()
	if err != nil {
		return nil, err
	}

	specs := make([]cmdparse.CommandSpec, 0, len(d.Commands))
	for i, cmd := range d.Commands {
		label := cmd.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}

		handler := handlers[cmd.HandlerName()]
		if handler == nil {
			handler = fallback
		}
		if handler == nil {
			return nil, fmt.Errorf("command %s: no handler registered for %q", label, cmd.HandlerName())
		}

		spec := cmdparse.CommandSpec{
			Name:     cmd.Name,
			Handler:  handler,
			Optional: make([]cmdparse.SectionSpec, 0, len(cmd.Optional)),
		}
		if cmd.Required != nil {
			req, err := cmd.Required.spec(sets)
			if err != nil {
				return nil, fmt.Errorf("command %s: %w", label, err)
			}
			spec.Required = &req
		}
		for _, opt := range cmd.Optional {
			s, err := opt.spec(sets)
			if err != nil {
				return nil, fmt.Errorf("command %s: %w", label, err)
			}
			spec.Optional = append(spec.Optional, s)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// Build registers every declared command on a new processor
func (d *Document) Build(handlers map[string]cmdparse.Handler, fallback cmdparse.Handler, opts ...cmdparse.Option) (*cmdparse.Processor, error) {
	specs, err := d.Specs(handlers, fallback)
	if err != nil {
		return nil, err
	}
	p := cmdparse.NewProcessor(opts...)
	for _, spec := range specs {
		if _, err := p.Register(spec); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (s SectionDoc) spec(sets map[string]*cmdparse.FlagSet) (cmdparse.SectionSpec, error) {
	spec := cmdparse.SectionSpec{
		Name:   s.Name,
		Keys:   s.Keys,
		Params: make([]cmdparse.Param, 0, len(s.Params)),
	}
	for _, p := range s.Params {
		param, err := p.param(sets)
		if err != nil {
			return cmdparse.SectionSpec{}, fmt.Errorf("section %s: %w", s.Name, err)
		}
		spec.Params = append(spec.Params, param)
	}
	return spec, nil
}

func (p ParamDoc) param(sets map[string]*cmdparse.FlagSet) (cmdparse.Param, error) {
	switch strings.ToLower(p.Type) {
	case "", "string", "str":
		return cmdparse.StringParam(p.Name), nil
	case "int", "integer", "number":
		return cmdparse.IntParam(p.Name), nil
	case "flags", "flagset":
		if p.Set == "" {
			return cmdparse.Param{}, fmt.Errorf("parameter %s: flags type requires a set", p.Name)
		}
		fs, ok := sets[p.Set]
		if !ok {
			return cmdparse.Param{}, fmt.Errorf("parameter %s: unknown flag set %q", p.Name, p.Set)
		}
		return cmdparse.FlagsParam(p.Name, fs), nil
	default:
		return cmdparse.Param{}, fmt.Errorf("parameter %s: unknown type %q", p.Name, p.Type)
	}
}
