package sema

import (
	"tails/internal/diag"
	"tails/internal/symbols"
	"tails/internal/types"
)

// Options configure a semantic pass over a package.
type Options struct {
	Reporter diag.Reporter
	Symbols  *symbols.Result
	Types    *types.Interner
}

func (o Options) interner() *types.Interner {
	if o.Types != nil {
		return o.Types
	}
	return types.NewInterner()
}
