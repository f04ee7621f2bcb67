package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func newMatchCmd(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "match [--json] LINE",
		Short: "Match an untokenized command line with the regex front end",
		Long: `Match a raw command line against the regular expression form of the
declared commands. Multiple arguments are joined with spaces. Flag names in
the line are joined with underscores, as in A_B_C.`,
		Example: `  cmdparse match -f commands.yaml "compress in.txt out.gz --profile decode_encode"`,
		Args:    checkArgs(cobra.MinimumNArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			doc, err := opts.load()
			if err != nil {
				return err
			}
			p, err := opts.processor(doc, asJSON)
			if err != nil {
				return err
			}
			action, err := p.ParseLine(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return action()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}
