package driver

import (
	"context"
	"fmt"

	"tails/internal/diag"
	"tails/internal/pass"
	"tails/internal/project"
	"tails/internal/trace"
)

// Options configures Check.
type Options struct {
	Pass             pass.Options
	WarningsAsErrors bool
}

// Result is the outcome of checking one loaded package.
type Result struct {
	Loaded *Loaded
	// Output is nil when loading failed.
	Output *pass.Output
	opts   Options
}

// Check runs the pass pipeline over l. Load errors short-circuit analysis:
// a package with missing modules would only produce follow-up errors.
func Check(ctx context.Context, l *Loaded, opts Options) *Result {
	res := &Result{Loaded: l, opts: opts}
	if l.Diagnostics.HasErrors() {
		return res
	}
	sp := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "check", trace.ParentFrom(ctx))
	res.Output = pass.NewManager(nil, opts.Pass).Run(trace.WithParent(ctx, sp), l.Package, l.IDs)
	sp.WithExtra("digest", l.Digest.Short()).End("")
	return res
}

// Diagnostics returns load diagnostics followed by analysis diagnostics.
func (r *Result) Diagnostics() *diag.Bag {
	out := diag.NewBag(0)
	out.Merge(r.Loaded.Diagnostics)
	if r.Output != nil {
		out.Merge(r.Output.Diagnostics)
	}
	return out
}

// Failed reports whether the check should fail the build.
func (r *Result) Failed() bool {
	if r.Loaded.Diagnostics.HasErrors() || r.Output == nil || r.Output.HasErrors() {
		return true
	}
	return r.opts.WarningsAsErrors && r.Output.Diagnostics.HasWarnings()
}

// CheckDir loads dir and checks it.
func CheckDir(ctx context.Context, dir string, load LoadOptions, opts Options) (*Result, error) {
	l, err := LoadDir(ctx, dir, load)
	if err != nil {
		return nil, err
	}
	return Check(ctx, l, opts), nil
}

// OptionsFromConfig maps the [check] section onto driver options.
func OptionsFromConfig(cfg project.CheckConfig) (Options, error) {
	opts := Options{
		Pass: pass.Options{
			MaxDiagnostics:   cfg.MaxDiagnostics,
			Generate:         cfg.Generate,
			NoShadowWarnings: cfg.NoShadowWarnings,
		},
		WarningsAsErrors: cfg.WarningsAsErrors,
	}
	for _, name := range cfg.Disable {
		id, err := pass.ParseID(name)
		if err != nil {
			return Options{}, fmt.Errorf("[check].disable: %w", err)
		}
		opts.Pass.Disabled = append(opts.Pass.Disabled, id)
	}
	return opts, nil
}
