// Package testkit holds helpers shared by package tests: package assembly
// and diagnostic matchers.
package testkit

import (
	"slices"
	"strings"
	"testing"

	"tails/internal/ast"
	"tails/internal/diag"
)

// MainQ is the qualifier used by single-module tests.
var MainQ = ast.Qualifier{Package: "app", Module: "main"}

// Package groups modules by qualifier.
func Package(mods ...*ast.Module) ast.Package {
	pkg := make(ast.Package, len(mods))
	for _, m := range mods {
		pkg[m.Qualifier] = m
	}
	return pkg
}

// Codes lists the codes of bag in report order.
func Codes(bag *diag.Bag) []diag.Code {
	items := bag.Items()
	out := make([]diag.Code, len(items))
	for i, d := range items {
		out[i] = d.Code
	}
	return out
}

// Dump renders bag for failure messages.
func Dump(bag *diag.Bag) string {
	var sb strings.Builder
	for _, d := range bag.Items() {
		sb.WriteString("\n  ")
		sb.WriteString(d.Code.String())
		sb.WriteString(" ")
		sb.WriteString(d.Message)
	}
	return sb.String()
}

// ExpectCodes fails unless bag holds exactly the given codes, in any order.
func ExpectCodes(t testing.TB, bag *diag.Bag, codes ...diag.Code) {
	t.Helper()
	got := Codes(bag)
	want := slices.Clone(codes)
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Fatalf("diagnostics %v, want %v:%s", got, want, Dump(bag))
	}
}

// ExpectClean fails if bag holds anything.
func ExpectClean(t testing.TB, bag *diag.Bag) {
	t.Helper()
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:%s", Dump(bag))
	}
}

// Find returns the first diagnostic with code, failing if there is none.
func Find(t testing.TB, bag *diag.Bag, code diag.Code) diag.Diagnostic {
	t.Helper()
	for _, d := range bag.Items() {
		if d.Code == code {
			return d
		}
	}
	t.Fatalf("no %v diagnostic:%s", code, Dump(bag))
	return diag.Diagnostic{}
}
