// Package cmdparse matches flat command-line token sequences against
// declared commands.
//
// A Section recognizes one key token (or an alias) followed by a fixed list of
// typed parameters. A Command combines an optional required section with any
// number of optional sections that may follow it in any order. A Processor
// tries its commands in registration order and returns a deferred Action for
// the first one that matches:
//
//	p := cmdparse.NewProcessor()
//	p.MustRegister(cmdparse.CommandSpec{
//		Required: &cmdparse.SectionSpec{
//			Name:   "Compress",
//			Keys:   []string{"compress"},
//			Params: []cmdparse.Param{cmdparse.StringParam("Src"), cmdparse.StringParam("Dest")},
//		},
//		Optional: []cmdparse.SectionSpec{
//			{Name: "JobCount", Keys: []string{"--job-count", "-j"}, Params: []cmdparse.Param{cmdparse.IntParam("Value")}},
//		},
//		Handler: func(r *cmdparse.Result) error { return nil },
//	})
//	action, err := p.Parse(os.Args[1:])
//
// Structural mismatches (missing key, too few tokens) make a section fail to
// match. Value conversion failures (a non-numeric integer, an unknown flag
// name) do not: the section matches and the affected entry is absent.
package cmdparse
