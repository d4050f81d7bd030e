package codegen

import (
	"errors"
	"fmt"
	"strings"

	"tails/internal/ast"
	"tails/internal/sema"
	"tails/internal/types"
)

// Listing prints every module with resolved signatures, type definitions and
// closure capture sets. Output is deterministic: modules in qualifier order,
// items and closures in source order.
type Listing struct{}

var errNoTypes = errors.New("codegen: listing needs type information")

func (Listing) Generate(in Input) (string, error) {
	if in.Types == nil || in.Types.Interner == nil {
		return "", errNoTypes
	}
	l := &lister{in: in}
	for i, mod := range in.Package.Modules() {
		if i > 0 {
			l.sb.WriteString("\n")
		}
		l.module(mod)
	}
	return l.sb.String(), nil
}

type lister struct {
	in Input
	sb strings.Builder
}

func (l *lister) typ(id ast.NodeID) string {
	return types.Label(l.in.Types.Interner, l.in.Types.TypeOf(id))
}

func (l *lister) line(indent int, format string, args ...any) {
	l.sb.WriteString(strings.Repeat("  ", indent))
	fmt.Fprintf(&l.sb, format, args...)
	l.sb.WriteString("\n")
}

func (l *lister) params(ps []*ast.Param, variadic bool) string {
	parts := make([]string, 0, len(ps)+1)
	for _, p := range ps {
		parts = append(parts, p.Name.Name+": "+l.typ(p.ID))
	}
	if variadic {
		parts = append(parts, "...")
	}
	return strings.Join(parts, ", ")
}

func (l *lister) result(id ast.NodeID) string {
	info, ok := l.in.Types.Interner.FnInfo(l.in.Types.TypeOf(id))
	if !ok {
		return "?"
	}
	return types.Label(l.in.Types.Interner, info.Result)
}

func (l *lister) module(mod *ast.Module) {
	l.line(0, "module %s", mod.Qualifier)
	for _, item := range mod.Items {
		switch it := item.(type) {
		case *ast.Function:
			l.line(1, "fn %s(%s) -> %s", it.Name.Name, l.params(it.Params, false), l.result(it.ID))
			if it.Body != nil {
				l.closures(it.Body)
			}
		case *ast.Foreign:
			l.line(1, "foreign fn %s(%s) -> %s", it.Name.Name, l.params(it.Params, it.Variadic), l.result(it.ID))
		case *ast.ForeignVar:
			l.line(1, "foreign var %s: %s", it.Name.Name, l.typ(it.ID))
		case *ast.TypeDef:
			l.line(1, "type %s = %s", it.Name.Name, l.typ(it.ID))
		case *ast.Constant:
			l.line(1, "const %s: %s", it.Name.Name, l.typ(it.ID))
			l.closures(it.Value)
		}
	}
}

// closures lists the closure literals under n, nested ones indented.
func (l *lister) closures(n ast.Node) {
	depth := 2
	ast.Walk(closureVisitor{l: l, depth: &depth}, n)
}

type closureVisitor struct {
	l     *lister
	depth *int
	open  bool
}

func (v closureVisitor) Visit(n ast.Node) ast.Visitor {
	switch n := n.(type) {
	case nil:
		if v.open {
			*v.depth--
		}
		return nil
	case *ast.Closure:
		v.l.closure(n, *v.depth)
		*v.depth++
		return closureVisitor{l: v.l, depth: v.depth, open: true}
	}
	return closureVisitor{l: v.l, depth: v.depth}
}

func (l *lister) closure(c *ast.Closure, indent int) {
	name := "closure"
	if c.Name.Name != "" {
		name = "closure " + c.Name.Name
	}
	l.line(indent, "%s(%s) -> %s%s", name, l.params(c.Params, false), l.result(c.ID), captureList(l.in.Captures[c.ID]))
}

func captureList(set *sema.CaptureSet) string {
	if set == nil || len(set.Entries) == 0 {
		return ""
	}
	parts := make([]string, len(set.Entries))
	for i, e := range set.Entries {
		parts[i] = e.Name + " " + e.Mode.String()
	}
	return " captures [" + strings.Join(parts, ", ") + "]"
}
