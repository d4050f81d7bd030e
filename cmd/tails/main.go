package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tails/internal/pass"
	"tails/internal/prof"
	"tails/internal/trace"
	"tails/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "tails",
	Short:         "Semantic analyzer for encoded module trees",
	Long:          `tails resolves names, infers types, analyses closures and checks unsafe operations of pre-parsed modules`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a process exit code without printing anything more.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func init() {
	rootCmd.Version = version.Info()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to keep (0: from tails.toml)")
	rootCmd.PersistentFlags().Int("jobs", 0, "parallel module loads (0: GOMAXPROCS)")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().String("trace-format", "", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept by the ring tracer")
	rootCmd.PersistentFlags().String("cpuprofile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("memprofile", "", "write a heap profile to file")
	rootCmd.PersistentFlags().String("exectrace", "", "write a runtime execution trace to file")
	rootCmd.PersistentPreRunE = startProfiling
}

// profiling is stopped by run so that profiles are written on every exit path.
var profiling *prof.Session

func startProfiling(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	opts.CPU, _ = flags.GetString("cpuprofile")
	opts.Mem, _ = flags.GetString("memprofile")
	opts.Trace, _ = flags.GetString("exectrace")
	if opts == (prof.Options{}) {
		return nil
	}
	s, err := prof.Start(opts)
	if err != nil {
		return fmt.Errorf("profiling: %w", err)
	}
	profiling = s
	return nil
}

func main() {
	os.Exit(run())
}

func run() (code int) {
	defer func() {
		if err := profiling.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "profiling: %v\n", err)
		}
	}()
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		f, ok := pass.AsFault(r)
		if !ok {
			panic(r)
		}
		fmt.Fprintf(os.Stderr, "tails: %v\n", f)
		if ring := trace.Ring(activeTracer); ring != nil {
			fmt.Fprintln(os.Stderr, "last trace events:")
			if err := ring.Dump(os.Stderr, trace.FormatText); err != nil {
				fmt.Fprintf(os.Stderr, "trace: dump error: %v\n", err)
			}
		}
		code = 2
	}()
	if err := rootCmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			return exit.code
		}
		fmt.Fprintf(os.Stderr, "tails: %v\n", err)
		return 1
	}
	return 0
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit int
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
}
