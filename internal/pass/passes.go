package pass

import (
	"tails/internal/ast"
	"tails/internal/codegen"
	"tails/internal/sema"
	"tails/internal/symbols"
	"tails/internal/trace"
)

func runResolution(pc *Context) Result {
	pc.Annotations.Symbols = symbols.Resolve(pc.Package, nil, symbols.ResolveOptions{
		Reporter:         pc.Reporter,
		NoShadowWarnings: pc.Options.NoShadowWarnings,
		OnModule: func(q ast.Qualifier) {
			trace.Point(pc.Tracer, trace.ScopeModule, "module:"+q.String(), "", pc.Span.ID())
		},
	})
	return Result{Kind: ResultUnit}
}

func runTypeDefCycles(pc *Context) Result {
	pc.Annotations.TypeDefs = sema.CheckTypeDefs(pc.Package, pc.semaOptions())
	return Result{Kind: ResultUnit}
}

func runInference(pc *Context) Result {
	pc.Annotations.Types = sema.Infer(pc.Package, pc.semaOptions())
	return Result{Kind: ResultTypedOutput}
}

func runCaptures(pc *Context) Result {
	pc.Annotations.Captures = sema.AnalyzeCaptures(pc.Package, pc.semaOptions(), pc.Annotations.Types)
	return Result{Kind: ResultUnit}
}

func runSafety(pc *Context) Result {
	pc.Annotations.Safety = sema.CheckSafety(pc.Package, pc.semaOptions())
	return Result{Kind: ResultUnit}
}

func runCodeGen(pc *Context) Result {
	if pc.HasErrors() {
		raise(FaultGeneratedWithErrors, CodeGen)
	}
	gen := pc.Options.Generator
	if gen == nil {
		gen = codegen.Listing{}
	}
	ann := pc.Annotations
	pc.artifact, pc.genErr = gen.Generate(codegen.Input{
		Package:  pc.Package,
		Symbols:  ann.Symbols,
		Types:    ann.Types,
		Captures: ann.Captures,
	})
	return Result{Kind: ResultCodeOutput}
}
