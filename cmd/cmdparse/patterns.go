package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newPatternsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "Print the regular expression of every declared section",
		Args:  checkArgs(cobra.NoArgs),
		RunE: func(_ *cobra.Command, _ []string) error {
			doc, err := opts.load()
			if err != nil {
				return err
			}
			p, err := opts.processor(doc, false)
			if err != nil {
				return err
			}

			out := opts.io.Out()
			for _, c := range p.Commands() {
				fmt.Fprintln(out, opts.io.Paint(c.Name(), color.FgCyan, color.Bold))
				if req := c.Required(); req != nil {
					fmt.Fprintf(out, "  required %-12s %s\n", req.Name(), req.Pattern())
				}
				for _, s := range c.Optional() {
					fmt.Fprintf(out, "  optional %-12s %s\n", s.Name(), s.Pattern())
				}
			}
			return nil
		},
	}
}
