package sema

import (
	"tails/internal/types"
)

// litClass restricts what a literal-born type variable may become.
type litClass uint8

const (
	litNone litClass = iota
	litInt
	litFloat
)

func (c litClass) accepts(k types.Kind) bool {
	switch c {
	case litInt:
		return k == types.KindInt || k == types.KindUint
	case litFloat:
		return k == types.KindFloat
	}
	return true
}

type trailEntry struct {
	v       types.TypeID
	litVar  types.TypeID
	litPrev litClass
}

// substitution is a union-find over type variables with an undo trail.
type substitution struct {
	in     *types.Interner
	parent map[types.TypeID]types.TypeID
	lits   map[types.TypeID]litClass
	poison map[types.TypeID]bool
	trail  []trailEntry
	shapes func(types.TypeID) (types.TypeID, bool)
}

func newSubstitution(in *types.Interner) *substitution {
	return &substitution{
		in:     in,
		parent: make(map[types.TypeID]types.TypeID),
		lits:   make(map[types.TypeID]litClass),
		poison: make(map[types.TypeID]bool),
	}
}

func (s *substitution) isVar(t types.TypeID) bool {
	return s.in.Kind(t) == types.KindVar
}

// find follows bindings to the representative of t. Paths are not
// compressed so that undo stays a plain delete.
func (s *substitution) find(t types.TypeID) types.TypeID {
	root := t
	for {
		next, ok := s.parent[root]
		if !ok {
			break
		}
		root = next
	}
	return root
}

// resolve substitutes every bound variable inside t.
func (s *substitution) resolve(t types.TypeID) types.TypeID {
	t = s.find(t)
	tt, ok := s.in.Lookup(t)
	if !ok {
		return t
	}
	switch tt.Kind {
	case types.KindPointer:
		return s.in.Pointer(s.resolve(tt.Elem))
	case types.KindReference:
		return s.in.Reference(s.resolve(tt.Elem))
	case types.KindTuple:
		elems, _ := s.in.TupleElems(t)
		return s.in.Tuple(s.resolveAll(elems))
	case types.KindObject:
		fields, _ := s.in.ObjectFields(t)
		out := make([]types.Field, len(fields))
		for i, f := range fields {
			out[i] = types.Field{Name: f.Name, Type: s.resolve(f.Type)}
		}
		return s.in.Object(out)
	case types.KindUnion:
		alts, _ := s.in.UnionAlts(t)
		return s.in.Union(s.resolveAll(alts))
	case types.KindFn:
		info, _ := s.in.FnInfo(t)
		return s.in.Fn(s.resolveAll(info.Params), s.resolve(info.Result))
	}
	return t
}

func (s *substitution) resolveAll(ids []types.TypeID) []types.TypeID {
	out := make([]types.TypeID, len(ids))
	for i, id := range ids {
		out[i] = s.resolve(id)
	}
	return out
}

// freeVars returns the unbound variables of t in first-occurrence order.
func (s *substitution) freeVars(t types.TypeID) []types.TypeID {
	var out []types.TypeID
	seen := make(map[types.TypeID]bool)
	var walk func(types.TypeID)
	walk = func(t types.TypeID) {
		t = s.find(t)
		tt, ok := s.in.Lookup(t)
		if !ok {
			return
		}
		switch tt.Kind {
		case types.KindVar:
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		case types.KindPointer, types.KindReference:
			walk(tt.Elem)
		case types.KindTuple:
			elems, _ := s.in.TupleElems(t)
			for _, e := range elems {
				walk(e)
			}
		case types.KindObject:
			fields, _ := s.in.ObjectFields(t)
			for _, f := range fields {
				walk(f.Type)
			}
		case types.KindUnion:
			alts, _ := s.in.UnionAlts(t)
			for _, a := range alts {
				walk(a)
			}
		case types.KindFn:
			info, _ := s.in.FnInfo(t)
			for _, p := range info.Params {
				walk(p)
			}
			walk(info.Result)
		}
	}
	walk(t)
	return out
}

func (s *substitution) occurs(v, t types.TypeID) bool {
	for _, fv := range s.freeVars(t) {
		if fv == v {
			return true
		}
	}
	return false
}

// bind points the unbound variable v at t. Literal classes travel with the
// binding so that `let x = 1; let y: str = x` is still rejected.
func (s *substitution) bind(v, t types.TypeID) bool {
	if s.occurs(v, t) {
		return false
	}
	entry := trailEntry{v: v}
	if class := s.lits[v]; class != litNone {
		if s.isVar(t) {
			switch prev := s.lits[t]; {
			case prev == litNone:
				entry.litVar, entry.litPrev = t, prev
				s.lits[t] = class
			case prev != class:
				return false
			}
		} else if !class.accepts(s.in.Kind(t)) {
			return false
		}
	}
	if s.poison[v] && s.isVar(t) {
		s.poison[t] = true
	}
	s.parent[v] = t
	s.trail = append(s.trail, entry)
	return true
}

func (s *substitution) mark() int { return len(s.trail) }

func (s *substitution) undo(mark int) {
	for i := len(s.trail) - 1; i >= mark; i-- {
		e := s.trail[i]
		delete(s.parent, e.v)
		if e.litVar != types.NoTypeID {
			if e.litPrev == litNone {
				delete(s.lits, e.litVar)
			} else {
				s.lits[e.litVar] = e.litPrev
			}
		}
	}
	s.trail = s.trail[:mark]
}

// unify makes a and b equal or reports false. A failed unification may leave
// partial bindings behind; use tryUnify for an all-or-nothing attempt.
func (s *substitution) unify(a, b types.TypeID) bool {
	a, b = s.find(a), s.find(b)
	if a == b {
		return true
	}
	if a == types.NoTypeID || b == types.NoTypeID {
		return false
	}
	if s.isVar(a) {
		return s.bind(a, b)
	}
	if s.isVar(b) {
		return s.bind(b, a)
	}
	ta, tb := s.in.MustLookup(a), s.in.MustLookup(b)
	if ta.Kind == types.KindNamed || tb.Kind == types.KindNamed {
		if ta.Kind == tb.Kind {
			return false // nominal: distinct definitions never unify
		}
		if ta.Kind == types.KindNamed {
			shape, ok := s.shapes(a)
			return ok && s.unify(shape, b)
		}
		shape, ok := s.shapes(b)
		return ok && s.unify(a, shape)
	}
	if ta.Kind != tb.Kind {
		return false
	}
	switch ta.Kind {
	case types.KindPointer, types.KindReference:
		return s.unify(ta.Elem, tb.Elem)
	case types.KindTuple:
		ea, _ := s.in.TupleElems(a)
		eb, _ := s.in.TupleElems(b)
		return s.unifyAll(ea, eb)
	case types.KindObject:
		fa, _ := s.in.ObjectFields(a)
		fb, _ := s.in.ObjectFields(b)
		if len(fa) != len(fb) {
			return false
		}
		for i := range fa {
			if fa[i].Name != fb[i].Name || !s.unify(fa[i].Type, fb[i].Type) {
				return false
			}
		}
		return true
	case types.KindUnion:
		ra, rb := s.resolve(a), s.resolve(b)
		if ra == rb {
			return true
		}
		aa, _ := s.in.UnionAlts(ra)
		ab, _ := s.in.UnionAlts(rb)
		if len(s.freeVars(ra)) == 0 && len(s.freeVars(rb)) == 0 {
			return false
		}
		return s.unifyAll(aa, ab)
	case types.KindFn:
		ia, _ := s.in.FnInfo(a)
		ib, _ := s.in.FnInfo(b)
		return s.unifyAll(ia.Params, ib.Params) && s.unify(ia.Result, ib.Result)
	}
	// primitives are interned, equal ones were caught above
	return false
}

func (s *substitution) unifyAll(a, b []types.TypeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !s.unify(a[i], b[i]) {
			return false
		}
	}
	return true
}

// tryUnify unifies a and b, rolling back every binding on failure.
func (s *substitution) tryUnify(a, b types.TypeID) bool {
	m := s.mark()
	if s.unify(a, b) {
		return true
	}
	s.undo(m)
	return false
}
