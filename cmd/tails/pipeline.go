package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tails/internal/diagfmt"
	"tails/internal/driver"
	"tails/internal/observ"
	"tails/internal/project"
)

const noManifestMessage = "no tails.toml found\nplease specify the modules explicitly, e.g.:\n  tails check path/to/modules"

// target is what a command analyses: a directory or explicit module files,
// plus the manifest that configures the run, if any.
type target struct {
	dir      string
	files    []string
	manifest *project.Manifest
}

func resolveTarget(args []string) (*target, error) {
	if len(args) == 0 {
		m, ok, err := project.LoadManifest(".")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New(noManifestMessage)
		}
		dir, err := m.SourceDir()
		if err != nil {
			return nil, err
		}
		return &target{dir: dir, manifest: m}, nil
	}

	t := &target{}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		switch {
		case info.IsDir() && len(args) == 1:
			t.dir = arg
		case info.IsDir():
			return nil, fmt.Errorf("%s: a directory must be the only argument", arg)
		case filepath.Ext(arg) != driver.ModuleExt:
			return nil, fmt.Errorf("%s: expected a %s file", arg, driver.ModuleExt)
		default:
			t.files = append(t.files, arg)
		}
	}
	start := t.dir
	if start == "" {
		start = filepath.Dir(t.files[0])
	}
	m, ok, err := project.LoadManifest(start)
	if err != nil {
		return nil, err
	}
	if ok {
		t.manifest = m
	}
	return t, nil
}

func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|short|json)")
	cmd.Flags().Bool("warnings-as-errors", false, "fail on warnings")
	cmd.Flags().Bool("no-shadow-warnings", false, "do not warn about shadowed bindings")
	cmd.Flags().StringSlice("disable", nil, "passes to skip")
	cmd.Flags().Int("context", 0, "source lines of context around each diagnostic")
	cmd.Flags().String("ui", "auto", "pass progress view (auto|on|off)")
}

func checkOptions(cmd *cobra.Command, t *target) (driver.Options, error) {
	cfg := project.CheckConfig{MaxDiagnostics: project.DefaultMaxDiagnostics}
	if t.manifest != nil {
		cfg = t.manifest.Config.Check
	}
	if n, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics"); n > 0 {
		cfg.MaxDiagnostics = n
	}
	if v, _ := cmd.Flags().GetBool("warnings-as-errors"); v {
		cfg.WarningsAsErrors = true
	}
	if v, _ := cmd.Flags().GetBool("no-shadow-warnings"); v {
		cfg.NoShadowWarnings = true
	}
	disabled, _ := cmd.Flags().GetStringSlice("disable")
	cfg.Disable = append(cfg.Disable, disabled...)
	return driver.OptionsFromConfig(cfg)
}

// analyze loads and checks the target of cmd. generate turns on the code
// generation pass regardless of the manifest.
func analyze(cmd *cobra.Command, args []string, generate bool) (*driver.Result, *observ.Timer, error) {
	t, err := resolveTarget(args)
	if err != nil {
		return nil, nil, err
	}
	var traceCfg project.TraceConfig
	if t.manifest != nil {
		traceCfg = t.manifest.Config.Trace
	}
	cleanup, err := setupTracing(cmd, traceCfg)
	if err != nil {
		return nil, nil, err
	}
	defer cleanup()

	opts, err := checkOptions(cmd, t)
	if err != nil {
		return nil, nil, err
	}
	opts.Pass.Generate = opts.Pass.Generate || generate
	var timer *observ.Timer
	if v, _ := cmd.Root().PersistentFlags().GetBool("timings"); v {
		timer = observ.NewTimer()
		opts.Pass.Timer = timer
	}
	jobs, _ := cmd.Root().PersistentFlags().GetInt("jobs")
	load := driver.LoadOptions{Jobs: jobs, MaxDiagnostics: opts.Pass.MaxDiagnostics}

	ctx := cmd.Context()
	phase := timer.Begin("load")
	var loaded *driver.Loaded
	if t.dir != "" {
		loaded, err = driver.LoadDir(ctx, t.dir, load)
	} else {
		loaded, err = driver.LoadFiles(ctx, t.files, load)
	}
	timer.End(phase, "")
	if err != nil {
		return nil, nil, err
	}

	uiFlag, _ := cmd.Flags().GetString("ui")
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return nil, nil, err
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet && !loaded.Diagnostics.HasErrors() && shouldUseTUI(mode) {
		res, err := checkWithUI(ctx, cmd.Name(), loaded, opts)
		return res, timer, err
	}
	return driver.Check(ctx, loaded, opts), timer, nil
}

// report prints diagnostics and timings; it returns an exitError when the
// result failed.
func report(cmd *cobra.Command, res *driver.Result, timer *observ.Timer) error {
	out := cmd.OutOrStdout()
	bag := res.Diagnostics()
	files := res.Loaded.Files
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	format, _ := cmd.Flags().GetString("format")

	switch format {
	case "json":
		if err := diagfmt.JSON(out, bag, files, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
			return err
		}
	case "short":
		if err := diagfmt.Short(out, bag, files, true); err != nil {
			return err
		}
	case "pretty":
		ctxLines, _ := cmd.Flags().GetInt("context")
		wd, _ := os.Getwd()
		diagfmt.Pretty(out, bag, files, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stdout),
			Context:   ctxLines,
			BaseDir:   wd,
			ShowNotes: true,
		})
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, short or json)", format)
	}

	errOut := cmd.ErrOrStderr()
	if timer != nil {
		printTimings(errOut, timer, useColor(cmd, os.Stderr))
	}
	if !quiet && format != "json" {
		fmt.Fprintf(errOut, "%d modules, %s\n", len(res.Loaded.Package), diagfmt.Summary(bag))
	}
	if res.Failed() {
		return &exitError{code: 1}
	}
	return nil
}
