package project

import (
	"testing"

	"tails/internal/ast"
)

func TestIsValidModuleIdent(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"main", true},
		{"_util2", true},
		{"", false},
		{"2d", false},
		{"a-b", false},
		{"модуль", false},
	}
	for _, tt := range tests {
		if got := IsValidModuleIdent(tt.name); got != tt.want {
			t.Fatalf("IsValidModuleIdent(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseQualifier(t *testing.T) {
	q, err := ParseQualifier(" app::main ")
	if err != nil || q != (ast.Qualifier{Package: "app", Module: "main"}) {
		t.Fatalf("ParseQualifier = %v, %v", q, err)
	}
	for _, bad := range []string{"app", "app::", "::main", "a b::c"} {
		if _, err := ParseQualifier(bad); err == nil {
			t.Fatalf("ParseQualifier(%q) should fail", bad)
		}
	}
}

func TestModuleDepsAndFingerprint(t *testing.T) {
	util := ast.Qualifier{Package: "app", Module: "util"}
	mainQ := ast.Qualifier{Package: "app", Module: "main"}
	b := ast.NewBuilder(nil, 1)
	mod := b.Module(mainQ,
		b.Func("f", []*ast.Param{b.Param("p", b.QNamed(util, "Point"))}, nil,
			b.Block(b.Do(b.Call(b.QRef(util, "g"))), b.Do(b.QRef(mainQ, "f")))),
	)
	deps := ModuleDeps(mod)
	if len(deps) != 1 || deps[0] != util {
		t.Fatalf("deps %v", deps)
	}

	metas := []*ModuleMeta{
		{Qualifier: mainQ, Deps: deps, ContentHash: Sum([]byte("main"))},
		{Qualifier: util, ContentHash: Sum([]byte("util"))},
	}
	Fingerprint(metas)
	before := PackageDigest(metas)
	if metas[1].ModuleHash != Combine(metas[1].ContentHash) {
		t.Fatalf("leaf module hash must depend on content only")
	}

	metas[1].ContentHash = Sum([]byte("util changed"))
	Fingerprint(metas)
	if metas[0].ModuleHash == Combine(Sum([]byte("main")), Sum([]byte("util"))) {
		t.Fatalf("dependent hash did not change")
	}
	if PackageDigest(metas) == before {
		t.Fatalf("package digest did not change")
	}
	if len(before.Short()) != 12 {
		t.Fatalf("short digest %q", before.Short())
	}
}
