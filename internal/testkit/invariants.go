package testkit

import (
	"fmt"

	"tails/internal/ast"
	"tails/internal/source"
)

// CheckTreeInvariants runs a minimal set of structural checks on a package:
// 1) every node carries a valid ID, unique across the package
// 2) every node span is non-empty and belongs to its module's file
// 3) no ID exceeds the counter that allocated them, when one is given
func CheckTreeInvariants(pkg ast.Package, ids *ast.IDCounter) error {
	seen := make(map[ast.NodeID]source.Span)
	var err error
	for _, mod := range pkg.Modules() {
		file := mod.File()
		ast.Inspect(mod, func(n ast.Node) bool {
			if err != nil {
				return false
			}
			id, sp := ast.IDOf(n), ast.SpanOf(n)
			switch {
			case !id.IsValid():
				err = fmt.Errorf("%T at %v has no id", n, sp)
			case ids != nil && id > ids.Count():
				err = fmt.Errorf("%T id %d beyond counter %d", n, id, ids.Count())
			case sp.Empty():
				err = fmt.Errorf("%T id %d has an empty span", n, id)
			case sp.File != file:
				err = fmt.Errorf("%T id %d span file mismatch: got=%d want=%d", n, id, sp.File, file)
			}
			if err != nil {
				return false
			}
			if prev, dup := seen[id]; dup {
				err = fmt.Errorf("id %d used twice: %v and %v", id, prev, sp)
				return false
			}
			seen[id] = sp
			return true
		})
		if err != nil {
			return fmt.Errorf("module %s: %w", mod.Qualifier, err)
		}
	}
	return nil
}
