package main

import (
	"github.com/spf13/cobra"
)

func newRunCmd(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "run [--json] -- TOKENS...",
		Short: "Match a token sequence and print the matched command",
		Long: `Match the tokens after -- against the declared commands. The first
command that matches is printed together with its sections.

Exit status is 2 when no command matches and 3 when validation fails.`,
		Example: `  cmdparse run -f commands.yaml -- compress in.txt out.gz --job-count 4`,
		RunE: func(_ *cobra.Command, args []string) error {
			doc, err := opts.load()
			if err != nil {
				return err
			}
			p, err := opts.processor(doc, asJSON)
			if err != nil {
				return err
			}
			return p.Run(args)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}
