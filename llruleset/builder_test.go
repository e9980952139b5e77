package llruleset

import (
	"strings"
	"testing"

	"github.com/landlock-lsm/landlockconfig/llconfig"
	"github.com/landlock-lsm/landlockconfig/llruleset/llruntest"
)

func TestBuildMinimalPolicy(t *testing.T) {
	// Scenario 1 of spec §8, exercised through the builder: a policy
	// asking for v4.read_execute on a temporary directory should build
	// without error on
	// any kernel with Landlock support at all (the builder downgrades
	// rather than fails on older kernels).
	llruntest.RequireLandlock(t)

	dir := t.TempDir()
	src := `
abi = 4

[[path_beneath]]
allowed_access = ["abi.read_execute"]
parent = ["` + dir + `"]
`
	p, err := llconfig.ParseTOML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseTOML: %v", err)
	}

	rs, err := Build(p)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer rs.Close()

	if rs.FD() < 0 && !rs.HandledFS().IsEmpty() {
		t.Errorf("non-empty handled rights but no-op ruleset fd")
	}
}

func TestBuildNoopWhenNothingSurvivesDowngrade(t *testing.T) {
	// A policy requesting only a scope right on a kernel whose ABI
	// doesn't support scope should downgrade to an empty ruleset, not
	// an error (spec §4.5: "If all rules are dropped, the builder
	// returns an empty (no-op) ruleset rather than failing").
	llruntest.RequireLandlock(t)

	src := `
[[ruleset]]
scoped = ["signal"]
`
	p, err := llconfig.ParseTOML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseTOML: %v", err)
	}

	rs, err := Build(p)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer rs.Close()

	// Scope rights first appear at ABI 6.
	if rs.KernelABI() < 6 && rs.FD() >= 0 {
		t.Errorf("kernel ABI %d: FD() = %d, want a no-op ruleset (-1)", rs.KernelABI(), rs.FD())
	}
}

func TestBuildHandledFSMatchesPolicy(t *testing.T) {
	llruntest.RequireLandlock(t)

	dir := t.TempDir()
	src := `
[[ruleset]]
handled_access_fs = ["read_file"]

[[path_beneath]]
allowed_access = ["read_file"]
parent = ["` + dir + `"]
`
	p, err := llconfig.ParseTOML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseTOML: %v", err)
	}

	rs, err := Build(p)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer rs.Close()

	if !rs.HandledFS().IsSubset(llconfig.AccessFSReadFile) {
		t.Errorf("HandledFS() = %v, want a subset of read_file only", rs.HandledFS())
	}
}

func TestBuildRejectsMissingParentPath(t *testing.T) {
	llruntest.RequireLandlock(t)

	src := `
[[ruleset]]
handled_access_fs = ["read_file"]

[[path_beneath]]
allowed_access = ["read_file"]
parent = ["/this/path/does/not/exist/hopefully"]
`
	p, err := llconfig.ParseTOML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseTOML: %v", err)
	}

	_, err = Build(p)
	if err == nil {
		t.Fatal("expected an error opening a nonexistent parent path")
	}
}
