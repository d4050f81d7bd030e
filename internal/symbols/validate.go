package symbols

import (
	"errors"
	"fmt"
)

// Validate walks internal arenas checking structural invariants. Returns nil if
// everything is consistent; otherwise aggregates all detected issues.
func (t *Table) Validate() error {
	var errs []error

	for idx := 1; idx < len(t.Scopes.data); idx++ {
		scopeID := ScopeID(idx) //nolint:gosec // bounded by arena size
		scope := &t.Scopes.data[idx]
		if scope.Kind == ScopeInvalid {
			errs = append(errs, fmt.Errorf("scope %d has invalid kind", scopeID))
		}
		if parent := t.Scopes.Get(scope.Parent); parent != nil {
			found := false
			for _, child := range parent.Children {
				if child == scopeID {
					found = true
					break
				}
			}
			if !found {
				errs = append(errs, fmt.Errorf("scope %d parent %d missing backlink", scopeID, scope.Parent))
			}
		} else if scope.Parent.IsValid() {
			errs = append(errs, fmt.Errorf("scope %d has invalid parent %d", scopeID, scope.Parent))
		}
		for name, symID := range scope.NameIndex {
			sym := t.Symbols.Get(symID)
			switch {
			case sym == nil:
				errs = append(errs, fmt.Errorf("scope %d indexes unknown symbol %d", scopeID, symID))
			case sym.Scope != scopeID:
				errs = append(errs, fmt.Errorf("symbol %d indexed in scope %d but owned by %d", symID, scopeID, sym.Scope))
			case sym.Name != name:
				errs = append(errs, fmt.Errorf("symbol %d indexed under a foreign name", symID))
			case sym.Has(SymbolFlagReplaced):
				errs = append(errs, fmt.Errorf("replaced symbol %d is still live in scope %d", symID, scopeID))
			}
		}
	}

	t.Symbols.Each(func(id SymbolID, sym *Symbol) {
		if sym.Kind == SymbolInvalid {
			errs = append(errs, fmt.Errorf("symbol %d has invalid kind", id))
		}
		if t.Scopes.Get(sym.Scope) == nil {
			errs = append(errs, fmt.Errorf("symbol %d references invalid scope %d", id, sym.Scope))
		}
	})

	return errors.Join(errs...)
}
