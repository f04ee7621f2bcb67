package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/RomanAgeev/CommandParser/cmdparse"
	"github.com/RomanAgeev/CommandParser/declare"
	cliio "github.com/RomanAgeev/CommandParser/io"
	"github.com/RomanAgeev/CommandParser/middleware"
)

// envFile names the declaration file when --file is not given
const envFile = "CMDPARSE_FILE"

type options struct {
	file      string
	logFormat string
	verbose   bool
	noColor   bool
	suggest   int

	io     *cliio.IOManager
	logger *cliio.Logger
}

func execute(args []string, stdout, stderr io.Writer) int {
	opts := &options{}
	root := newRootCmd(opts, stdout, stderr)
	root.SetArgs(args)

	err := root.Execute()
	if err != nil {
		logger := opts.logger
		if logger == nil {
			logger = cliio.NewLogger(cliio.New().WithOut(stdout).WithErr(stderr))
		}
		logger.Error("%v", err)
	}
	return cmdparse.ExitCode(err)
}

func newRootCmd(opts *options, stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "cmdparse",
		Short: "Match command lines against declared sections",
		Long: `cmdparse loads command declarations from a YAML or TOML file and
matches token sequences or raw command lines against them.

The declaration file is taken from --file or the CMDPARSE_FILE
environment variable.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return misuse(err)
	})

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.file, "file", "f", os.Getenv(envFile), "declaration file (.yaml, .yml or .toml)")
	flags.StringVar(&opts.logFormat, "log-format", "circles", "log prefix style: circles, symbols, tagged or plain")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "trace match attempts")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable coloured output")
	flags.IntVar(&opts.suggest, "suggest", 2, "max edit distance for suggestions, 0 disables them")

	root.AddCommand(newRunCmd(opts), newPatternsCmd(opts), newMatchCmd(opts))
	return root
}

// misuse marks err as a command-line usage error
func misuse(err error) error {
	return &cmdparse.ExitError{Code: cmdparse.ExitMisusageError, Err: err}
}

// checkArgs reports positional argument errors as usage errors
func checkArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return misuse(err)
		}
		return nil
	}
}

func (o *options) setup(stdout, stderr io.Writer) error {
	o.io = cliio.New().WithOut(stdout).WithErr(stderr)
	if o.noColor {
		o.io.NoColor()
	}

	format, ok := cliio.ParseLogFormat(o.logFormat)
	if !ok {
		return misuse(fmt.Errorf("unknown log format '%s'", o.logFormat))
	}
	o.logger = cliio.NewLogger(o.io).WithFormat(format)
	if o.verbose {
		o.logger.WithLevel(cliio.LevelDebug)
	}
	return nil
}

// load reads the declaration file
func (o *options) load() (*declare.Document, error) {
	if o.file == "" {
		return nil, misuse(fmt.Errorf("no declaration file, use --file or set %s", envFile))
	}
	doc, err := declare.Load(o.file)
	if err != nil {
		return nil, misuse(err)
	}
	o.logger.Debug("loaded %d commands from %s", len(doc.Commands), o.file)
	return doc, nil
}

// processor builds a processor whose handlers print the matched command
func (o *options) processor(doc *declare.Document, asJSON bool) (*cmdparse.Processor, error) {
	handlers := make(map[string]cmdparse.Handler, len(doc.Commands))
	for _, c := range doc.Commands {
		name := c.HandlerName()
		handlers[name] = o.printer(name, asJSON)
	}

	procOpts := []cmdparse.Option{
		cmdparse.WithMiddleware(middleware.Recovery(middleware.WithSink(o.logger))),
	}
	if o.suggest > 0 {
		procOpts = append(procOpts, cmdparse.WithSuggestions(o.suggest))
	}
	if o.verbose {
		procOpts = append(procOpts,
			cmdparse.WithLogger(o.logger),
			cmdparse.WithMiddleware(middleware.Logger(
				middleware.WithSink(o.logger),
				middleware.WithLogLevel(middleware.LogLevelDebug),
			)),
		)
	}
	return doc.Build(handlers, nil, procOpts...)
}

func (o *options) printer(name string, asJSON bool) cmdparse.Handler {
	return func(r *cmdparse.Result) error {
		out := o.io.Out()
		if asJSON {
			enc := json.NewEncoder(out)
			return enc.Encode(struct {
				Command string           `json:"command"`
				Result  *cmdparse.Result `json:"result"`
			}{name, r})
		}
		_, err := fmt.Fprintf(out, "%s %s\n", o.io.Paint(name, color.FgCyan, color.Bold), r)
		return err
	}
}
