// Package landlockconfig is the public, native-Go surface for parsing
// Landlock Config documents and materializing them into a kernel
// ruleset. It re-exports the llconfig and llruleset packages under a
// stable, FFI-shim-friendly set of names (spec §6.2); callers that
// only need the Go API can depend on llconfig/llruleset directly.
package landlockconfig

import (
	"io"

	"github.com/landlock-lsm/landlockconfig/llconfig"
	"github.com/landlock-lsm/landlockconfig/llerr"
	"github.com/landlock-lsm/landlockconfig/llruleset"
)

// Policy is a parsed, validated Landlock configuration.
type Policy = llconfig.Policy

// Ruleset is a built, live kernel Landlock ruleset.
type Ruleset = llruleset.Ruleset

// ParseJSON parses a strict-JSON Landlock Config document from r.
func ParseJSON(r io.Reader) (*Policy, error) {
	return llconfig.ParseJSON(r)
}

// ParseJSONFD parses a strict-JSON document from an already-open file
// descriptor.
func ParseJSONFD(fd int) (*Policy, error) {
	return llconfig.ParseJSONFD(fd)
}

// ParseTOML parses an ergonomic-TOML Landlock Config document from r.
func ParseTOML(r io.Reader) (*Policy, error) {
	return llconfig.ParseTOML(r)
}

// ParseTOMLFD parses a TOML document from an already-open file
// descriptor.
func ParseTOMLFD(fd int) (*Policy, error) {
	return llconfig.ParseTOMLFD(fd)
}

// ParseTOMLPath parses a TOML document from a path, which may name a
// single .toml file or a directory of them (spec §4.2 directory
// composition).
func ParseTOMLPath(path string) (*Policy, error) {
	return llconfig.ParseTOMLPath(path)
}

// BuildRuleset materializes policy into a live kernel Landlock
// ruleset, applying a best-effort downgrade to whatever the running
// kernel's Landlock ABI actually supports (spec §4.5). flags is
// reserved for future compatibility knobs and must be 0.
func BuildRuleset(policy *Policy, flags int) (*Ruleset, error) {
	if flags != 0 {
		return nil, llerr.Newf(llerr.Schema, "build_ruleset: flags must be 0, got %d", flags)
	}
	return llruleset.Build(policy)
}
