package project

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"tails/internal/ast"
	"tails/internal/source"
)

// ModuleMeta describes one loaded module.
type ModuleMeta struct {
	Qualifier   ast.Qualifier
	Path        string // путь к закодированному файлу
	File        source.FileID
	Deps        []ast.Qualifier // модули, на которые ссылается этот, отсортированы
	ContentHash Digest          // хеш байтов файла
	ModuleHash  Digest          // агрегированный хеш модуля с учётом зависимостей
}

func IsValidModuleIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ValidateQualifier checks both halves of q.
func ValidateQualifier(q ast.Qualifier) error {
	if !IsValidModuleIdent(q.Package) {
		return fmt.Errorf("invalid package name %q", q.Package)
	}
	if !IsValidModuleIdent(q.Module) {
		return fmt.Errorf("invalid module name %q", q.Module)
	}
	return nil
}

// ParseQualifier reads "package::module".
func ParseQualifier(s string) (ast.Qualifier, error) {
	pkg, mod, ok := strings.Cut(strings.TrimSpace(s), "::")
	if !ok {
		return ast.Qualifier{}, fmt.Errorf("qualifier %q: expected package::module", s)
	}
	q := ast.Qualifier{Package: pkg, Module: mod}
	if err := ValidateQualifier(q); err != nil {
		return ast.Qualifier{}, fmt.Errorf("qualifier %q: %w", s, err)
	}
	return q, nil
}

// ModuleDeps lists the other modules mod refers to through qualified
// references, sorted and without duplicates.
func ModuleDeps(mod *ast.Module) []ast.Qualifier {
	c := &depCollector{self: mod.Qualifier}
	ast.Walk(c, mod)
	slices.SortFunc(c.deps, func(a, b ast.Qualifier) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	return slices.Compact(c.deps)
}

type depCollector struct {
	self ast.Qualifier
	deps []ast.Qualifier
}

func (c *depCollector) Visit(n ast.Node) ast.Visitor {
	var q *ast.Qualifier
	switch n := n.(type) {
	case *ast.Ref:
		q = n.Qualifier
	case *ast.NamedType:
		q = n.Qualifier
	}
	if q != nil && *q != c.self {
		c.deps = append(c.deps, *q)
	}
	return c
}

// Fingerprint fills ModuleHash of every module from its own content and the
// content of the modules it refers to. References to modules outside metas
// are ignored.
func Fingerprint(metas []*ModuleMeta) {
	byQual := make(map[ast.Qualifier]*ModuleMeta, len(metas))
	for _, m := range metas {
		byQual[m.Qualifier] = m
	}
	for _, m := range metas {
		deps := make([]Digest, 0, len(m.Deps))
		for _, q := range m.Deps {
			if dep, ok := byQual[q]; ok {
				deps = append(deps, dep.ContentHash)
			}
		}
		m.ModuleHash = Combine(m.ContentHash, deps...)
	}
}

// PackageDigest combines module hashes in qualifier order.
func PackageDigest(metas []*ModuleMeta) Digest {
	sorted := slices.Clone(metas)
	slices.SortFunc(sorted, func(a, b *ModuleMeta) int {
		switch {
		case a.Qualifier.Less(b.Qualifier):
			return -1
		case b.Qualifier.Less(a.Qualifier):
			return 1
		}
		return 0
	})
	hashes := make([]Digest, len(sorted))
	for i, m := range sorted {
		hashes[i] = m.ModuleHash
	}
	return Combine(Digest{}, hashes...)
}
