package ast

import (
	"slices"

	"tails/internal/source"
)

// Module is the parsed form of one compilation unit.
type Module struct {
	Base
	Qualifier Qualifier
	Items     []Item
}

// File returns the source file the module was parsed from.
func (m *Module) File() source.FileID { return m.Span.File }

// Package groups modules by qualifier. Insertion order is irrelevant;
// passes iterate through Qualifiers for deterministic output.
type Package map[Qualifier]*Module

// Qualifiers returns the keys in sorted order.
func (p Package) Qualifiers() []Qualifier {
	out := make([]Qualifier, 0, len(p))
	for q := range p {
		out = append(out, q)
	}
	slices.SortFunc(out, func(a, b Qualifier) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	return out
}

// Modules returns modules in qualifier order.
func (p Package) Modules() []*Module {
	qs := p.Qualifiers()
	out := make([]*Module, 0, len(qs))
	for _, q := range qs {
		out = append(out, p[q])
	}
	return out
}
