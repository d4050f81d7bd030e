package driver

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"tails/internal/ast"
	"tails/internal/diag"
	"tails/internal/project"
	"tails/internal/source"
	"tails/internal/trace"
)

// ModuleExt is the extension of encoded module files.
const ModuleExt = ".tast"

// Loaded is a decoded package ready for analysis.
type Loaded struct {
	Files   *source.FileSet
	Package ast.Package
	IDs     *ast.IDCounter
	Modules []*project.ModuleMeta // в порядке файлов
	Digest  project.Digest
	// Diagnostics holds load failures; a package with load errors is not analysed.
	Diagnostics *diag.Bag
}

// LoadOptions tunes loading.
type LoadOptions struct {
	Jobs           int
	MaxDiagnostics int
}

// ListModuleFiles returns the sorted *.tast files under dir.
func ListModuleFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ModuleExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// LoadDir loads every module file under dir.
func LoadDir(ctx context.Context, dir string, opts LoadOptions) (*Loaded, error) {
	files, err := ListModuleFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: no %s files", dir, ModuleExt)
	}
	return LoadFiles(ctx, files, opts)
}

type rawModule struct {
	path    string
	content []byte
	wire    *ast.WireModule
	err     error
	code    diag.Code
}

// LoadFiles reads and decodes the given module files. Reading runs in
// parallel; tree building is sequential in path order so node IDs and
// FileIDs do not depend on scheduling. Broken files become diagnostics, only
// context cancellation is returned as an error.
func LoadFiles(ctx context.Context, paths []string, opts LoadOptions) (*Loaded, error) {
	tracer := trace.FromContext(ctx)
	sp := trace.Begin(tracer, trace.ScopeDriver, "load", trace.ParentFrom(ctx))
	defer sp.End(fmt.Sprintf("%d files", len(paths)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	raws := make([]rawModule, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// индекс i уникален для горутины, мьютекс не нужен
			raws[i] = readModule(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Loaded{
		Files:       source.NewFileSet(),
		Package:     make(ast.Package, len(paths)),
		Diagnostics: diag.NewBag(opts.MaxDiagnostics),
	}
	dec := ast.NewDecoder(nil)
	owners := make(map[ast.Qualifier]string, len(paths))
	for _, raw := range raws {
		if raw.err != nil {
			file := out.Files.Add(raw.path, nil, source.FileVirtual)
			out.Diagnostics.Add(diag.NewError(raw.code, source.Span{File: file}, raw.err.Error()))
			continue
		}
		wm := raw.wire
		file := out.Files.Add(displayPath(raw.path, wm), wm.Source, 0)
		span := source.Span{File: file}
		if err := project.ValidateQualifier(wm.Qualifier); err != nil {
			out.Diagnostics.Add(diag.NewError(diag.IODecodeModuleError, span, err.Error()))
			continue
		}
		if prev, dup := owners[wm.Qualifier]; dup {
			out.Diagnostics.Add(diag.NewError(diag.IODuplicateModule, span,
				fmt.Sprintf("module %s is already defined in %s", wm.Qualifier, prev)))
			continue
		}
		mod, err := dec.Build(wm, file)
		if err != nil {
			out.Diagnostics.Add(diag.NewError(diag.IODecodeModuleError, span, err.Error()))
			continue
		}
		owners[wm.Qualifier] = raw.path
		out.Package[wm.Qualifier] = mod
		out.Modules = append(out.Modules, &project.ModuleMeta{
			Qualifier:   wm.Qualifier,
			Path:        raw.path,
			File:        file,
			Deps:        project.ModuleDeps(mod),
			ContentHash: project.Sum(raw.content),
		})
		trace.Point(tracer, trace.ScopeModule, "module:"+wm.Qualifier.String(), raw.path, sp.ID())
	}
	out.IDs = dec.IDs()
	project.Fingerprint(out.Modules)
	out.Digest = project.PackageDigest(out.Modules)
	return out, nil
}

func readModule(path string) rawModule {
	content, err := os.ReadFile(path)
	if err != nil {
		return rawModule{path: path, err: fmt.Errorf("failed to load module: %w", err), code: diag.IOLoadModuleError}
	}
	wm, err := ast.ReadWire(bytes.NewReader(content))
	if err != nil {
		return rawModule{path: path, err: err, code: diag.IODecodeModuleError}
	}
	return rawModule{path: path, content: content, wire: wm}
}

// displayPath prefers the source path recorded by the parser so that
// diagnostics point at the text the user wrote.
func displayPath(path string, wm *ast.WireModule) string {
	if wm.Path != "" && len(wm.Source) > 0 {
		return wm.Path
	}
	return path
}
