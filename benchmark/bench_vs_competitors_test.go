package benchmark_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/urfave/cli/v2"

	"github.com/RomanAgeev/CommandParser/cmdparse"
)

// Benchmark a single command with positional arguments and one int option
// All three dispatch `compress in out --job-count 4` to a no-op handler

func BenchmarkSimpleCLI_CmdParse(b *testing.B) {
	p := cmdparse.NewProcessor()
	p.MustRegister(cmdparse.CommandSpec{
		Required: &cmdparse.SectionSpec{
			Name:   "Compress",
			Keys:   []string{"compress"},
			Params: []cmdparse.Param{cmdparse.StringParam("Src"), cmdparse.StringParam("Dest")},
		},
		Optional: []cmdparse.SectionSpec{
			{Name: "JobCount", Keys: []string{"--job-count", "-j"}, Params: []cmdparse.Param{cmdparse.IntParam("Value")}},
		},
		Handler: func(*cmdparse.Result) error { return nil },
	})

	args := []string{"compress", "in", "out", "--job-count", "4"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = p.Run(args)
	}
}

func BenchmarkSimpleCLI_Cobra(b *testing.B) {
	args := []string{"compress", "in", "out", "--job-count", "4"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rootCmd := &cobra.Command{Use: "bench"}
		compressCmd := &cobra.Command{
			Use:  "compress SRC DEST",
			Args: cobra.ExactArgs(2),
			Run:  func(_ *cobra.Command, _ []string) {},
		}
		compressCmd.Flags().IntP("job-count", "j", 1, "Parallel jobs")
		rootCmd.AddCommand(compressCmd)
		rootCmd.SetArgs(args)
		_ = rootCmd.Execute()
	}
}

func BenchmarkSimpleCLI_Urfave(b *testing.B) {
	args := []string{"bench", "compress", "--job-count", "4", "in", "out"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		app := &cli.App{
			Name: "bench",
			Commands: []*cli.Command{
				{
					Name: "compress",
					Flags: []cli.Flag{
						&cli.IntFlag{Name: "job-count", Aliases: []string{"j"}, Value: 1, Usage: "Parallel jobs"},
					},
					Action: func(_ *cli.Context) error { return nil },
				},
			},
		}
		_ = app.Run(args)
	}
}

// Benchmark many optional sections
// Tests a command whose options may appear in any order

func BenchmarkManyOptions_CmdParse(b *testing.B) {
	p := cmdparse.NewProcessor()
	optional := make([]cmdparse.SectionSpec, 0, 10)
	for _, name := range []string{"flag1", "flag2", "flag3", "flag4", "flag5"} {
		optional = append(optional, cmdparse.SectionSpec{
			Name: name, Keys: []string{"--" + name}, Params: []cmdparse.Param{cmdparse.StringParam("Value")},
		})
	}
	optional = append(optional,
		cmdparse.SectionSpec{Name: "port", Keys: []string{"--port"}, Params: []cmdparse.Param{cmdparse.IntParam("Value")}},
		cmdparse.SectionSpec{Name: "verbose", Keys: []string{"--verbose"}},
		cmdparse.SectionSpec{Name: "debug", Keys: []string{"--debug"}},
		cmdparse.SectionSpec{Name: "quiet", Keys: []string{"--quiet"}},
		cmdparse.SectionSpec{Name: "force", Keys: []string{"--force"}},
	)
	p.MustRegister(cmdparse.CommandSpec{
		Required: &cmdparse.SectionSpec{Name: "run", Keys: []string{"run"}},
		Optional: optional,
		Handler:  func(*cmdparse.Result) error { return nil },
	})

	args := []string{
		"run",
		"--flag1", "test1",
		"--flag2", "test2",
		"--flag3", "test3",
		"--port", "9000",
		"--verbose",
		"--debug",
	}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = p.Run(args)
	}
}

func BenchmarkManyOptions_Cobra(b *testing.B) {
	args := []string{
		"run",
		"--flag1", "test1",
		"--flag2", "test2",
		"--flag3", "test3",
		"--port", "9000",
		"--verbose",
		"--debug",
	}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rootCmd := &cobra.Command{Use: "bench"}
		runCmd := &cobra.Command{
			Use: "run",
			Run: func(_ *cobra.Command, _ []string) {},
		}
		runCmd.Flags().String("flag1", "", "Flag 1")
		runCmd.Flags().String("flag2", "", "Flag 2")
		runCmd.Flags().String("flag3", "", "Flag 3")
		runCmd.Flags().String("flag4", "", "Flag 4")
		runCmd.Flags().String("flag5", "", "Flag 5")
		runCmd.Flags().Int("port", 0, "Port")
		runCmd.Flags().Bool("verbose", false, "Verbose")
		runCmd.Flags().Bool("debug", false, "Debug")
		runCmd.Flags().Bool("quiet", false, "Quiet")
		runCmd.Flags().Bool("force", false, "Force")
		rootCmd.AddCommand(runCmd)
		rootCmd.SetArgs(args)
		_ = rootCmd.Execute()
	}
}

func BenchmarkManyOptions_Urfave(b *testing.B) {
	args := []string{
		"bench", "run",
		"--flag1", "test1",
		"--flag2", "test2",
		"--flag3", "test3",
		"--port", "9000",
		"--verbose",
		"--debug",
	}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		app := &cli.App{
			Name: "bench",
			Commands: []*cli.Command{
				{
					Name: "run",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "flag1", Usage: "Flag 1"},
						&cli.StringFlag{Name: "flag2", Usage: "Flag 2"},
						&cli.StringFlag{Name: "flag3", Usage: "Flag 3"},
						&cli.StringFlag{Name: "flag4", Usage: "Flag 4"},
						&cli.StringFlag{Name: "flag5", Usage: "Flag 5"},
						&cli.IntFlag{Name: "port", Usage: "Port"},
						&cli.BoolFlag{Name: "verbose", Usage: "Verbose"},
						&cli.BoolFlag{Name: "debug", Usage: "Debug"},
						&cli.BoolFlag{Name: "quiet", Usage: "Quiet"},
						&cli.BoolFlag{Name: "force", Usage: "Force"},
					},
					Action: func(_ *cli.Context) error { return nil },
				},
			},
		}
		_ = app.Run(args)
	}
}

// Benchmark dispatch to the last of several commands

func BenchmarkLastCommand_CmdParse(b *testing.B) {
	p := cmdparse.NewProcessor()
	for _, name := range []string{"compress", "decompress", "extract", "list", "test"} {
		p.MustRegister(cmdparse.CommandSpec{
			Required: &cmdparse.SectionSpec{
				Name: name, Keys: []string{name}, Params: []cmdparse.Param{cmdparse.StringParam("Src")},
			},
			Handler: func(*cmdparse.Result) error { return nil },
		})
	}

	args := []string{"test", "archive.gz"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = p.Run(args)
	}
}

func BenchmarkLastCommand_Cobra(b *testing.B) {
	args := []string{"test", "archive.gz"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rootCmd := &cobra.Command{Use: "bench"}
		for _, name := range []string{"compress", "decompress", "extract", "list", "test"} {
			rootCmd.AddCommand(&cobra.Command{
				Use:  name,
				Args: cobra.ExactArgs(1),
				Run:  func(_ *cobra.Command, _ []string) {},
			})
		}
		rootCmd.SetArgs(args)
		_ = rootCmd.Execute()
	}
}

func BenchmarkLastCommand_Urfave(b *testing.B) {
	args := []string{"bench", "test", "archive.gz"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		commands := make([]*cli.Command, 0, 5)
		for _, name := range []string{"compress", "decompress", "extract", "list", "test"} {
			commands = append(commands, &cli.Command{
				Name:   name,
				Action: func(_ *cli.Context) error { return nil },
			})
		}
		app := &cli.App{Name: "bench", Commands: commands}
		_ = app.Run(args)
	}
}
