package llconfig

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/landlock-lsm/landlockconfig/llerr"
	"github.com/pelletier/go-toml/v2"
)

// tomlDocument mirrors the TOML surface schema of spec §4.2:
// snake_case field names, table-arrays for list sections, plus the
// TOML-only `variable` and `abi` shorthand additions of §3.3.
type tomlDocument struct {
	ABI         *int                `toml:"abi"`
	Ruleset     []tomlHandledAccess `toml:"ruleset"`
	PathBeneath []tomlPathBeneath   `toml:"path_beneath"`
	NetPort     []tomlNetPort       `toml:"net_port"`
	Variable    []tomlVariable      `toml:"variable"`
}

type tomlHandledAccess struct {
	HandledAccessFs  []Token `toml:"handled_access_fs"`
	HandledAccessNet []Token `toml:"handled_access_net"`
	Scoped           []Token `toml:"scoped"`
}

type tomlPathBeneath struct {
	AllowedAccess []Token         `toml:"allowed_access"`
	Parent        []tomlRawParent `toml:"parent"`
}

type tomlNetPort struct {
	AllowedAccess []Token  `toml:"allowed_access"`
	Port          []uint16 `toml:"port"`
}

// ParseTOML parses a single ergonomic-TOML Landlock configuration
// (spec §4.2) from r and returns the resulting Policy.
func ParseTOML(r io.Reader) (*Policy, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, llerr.Wrap(llerr.IO, "reading TOML input", err)
	}
	return parseTOMLBytes(data)
}

// ParseTOMLFD parses a TOML configuration already available as an
// open file descriptor.
func ParseTOMLFD(fd int) (*Policy, error) {
	f := os.NewFile(uintptr(fd), "<fd>")
	if f == nil {
		return nil, llerr.New(llerr.IO, "invalid file descriptor")
	}
	return ParseTOML(f)
}

// ParseTOMLPath parses a TOML configuration from a path, which may
// name a single .toml file or a directory of them (spec §4.2,
// "Directory composition").
func ParseTOMLPath(path string) (*Policy, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, llerr.Wrap(llerr.IO, "stat config path", err).WithPath(path)
	}
	if info.IsDir() {
		return parseTOMLDir(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, llerr.Wrap(llerr.IO, "reading TOML config file", err).WithPath(path)
	}
	p, err := parseTOMLBytes(data)
	if err != nil {
		if e, ok := err.(*llerr.Error); ok {
			return nil, e.WithPath(path)
		}
		return nil, err
	}
	return p, nil
}

func parseTOMLBytes(raw []byte) (*Policy, error) {
	pre, err := decodeTOMLToPreDocument(raw)
	if err != nil {
		return nil, err
	}
	if err := checkSchema(pre); err != nil {
		return nil, err
	}
	return validate(pre)
}

// decodeTOMLToPreDocument parses one TOML document into a
// preDocument, fully resolving the TOML-only surface features
// (variable expansion, `abi = N` shorthand) -- everything after this
// point is surface-agnostic.
func decodeTOMLToPreDocument(raw []byte) (*preDocument, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, llerr.New(llerr.Schema, "document is empty")
	}

	var doc tomlDocument
	dec := toml.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, syntaxErrorFromTOML(err)
	}

	vars, err := collectVariables(doc.Variable)
	if err != nil {
		return nil, err
	}

	pre := &preDocument{ABI: doc.ABI, Variables: vars}
	for _, h := range doc.Ruleset {
		pre.Ruleset = append(pre.Ruleset, preHandledAccess{FS: h.HandledAccessFs, Net: h.HandledAccessNet, Scope: h.Scoped})
	}
	for _, r := range doc.PathBeneath {
		parents, err := expandParents(r.Parent, vars)
		if err != nil {
			return nil, err
		}
		pre.PathBeneath = append(pre.PathBeneath, prePathBeneath{AllowedAccess: r.AllowedAccess, Parent: parents})
	}
	for _, r := range doc.NetPort {
		pre.NetPort = append(pre.NetPort, preNetPort{AllowedAccess: r.AllowedAccess, Port: r.Port})
	}

	// `abi = N` shorthand (spec §4.2): if no [[ruleset]] block was
	// declared, synthesize one granting vN.all across the board. If
	// [[ruleset]] blocks exist, the shorthand only binds the `abi.*`
	// alias for this document (already wired via pre.ABI).
	if doc.ABI != nil && len(doc.Ruleset) == 0 {
		word := "v" + strconv.Itoa(*doc.ABI) + ".all"
		pre.Ruleset = append(pre.Ruleset, preHandledAccess{
			FS:    []Token{{Word: word}},
			Net:   []Token{{Word: word}},
			Scope: []Token{{Word: word}},
		})
	}

	return pre, nil
}

func syntaxErrorFromTOML(err error) *llerr.Error {
	var derr *toml.DecodeError
	if ok := asDecodeError(err, &derr); ok {
		line, col := derr.Position()
		return llerr.Wrap(llerr.Syntax, "invalid TOML", err).WithPos(line, col)
	}
	if strings.Contains(err.Error(), "field not found") || strings.Contains(err.Error(), "unknown field") {
		return llerr.Wrap(llerr.Schema, "unknown field", err)
	}
	return llerr.Wrap(llerr.Syntax, "invalid TOML", err)
}

func asDecodeError(err error, target **toml.DecodeError) bool {
	if de, ok := err.(*toml.DecodeError); ok {
		*target = de
		return true
	}
	return false
}

// parseTOMLDir implements spec §4.2's directory composition: every
// regular file directly inside dir whose name ends in ".toml" is
// parsed individually, in lexicographic filename order, and the
// results are merged by the composer. Subdirectories are ignored. An
// empty directory is an error.
func parseTOMLDir(dir string) (*Policy, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, llerr.Wrap(llerr.IO, "reading config directory", err).WithPath(dir)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, llerr.New(llerr.Composition, "directory contains no .toml files").WithPath(dir)
	}

	docs := make([]*preDocument, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, llerr.Wrap(llerr.IO, "reading config file", err).WithPath(path)
		}
		pre, err := decodeTOMLToPreDocument(data)
		if err != nil {
			if e, ok := err.(*llerr.Error); ok {
				return nil, e.WithPath(path)
			}
			return nil, err
		}
		if err := checkSchema(pre); err != nil {
			if e, ok := err.(*llerr.Error); ok {
				return nil, e.WithPath(path)
			}
			return nil, err
		}
		// Per-document abi.* alias resolution happens before merging
		// (Open Question (c) in spec §9): a composed document's
		// merged abi is the minimum across inputs, not the ABI any
		// one file's "abi.*" aliases were written against.
		if err := resolveABIAliases(pre); err != nil {
			if e, ok := err.(*llerr.Error); ok {
				return nil, e.WithPath(path)
			}
			return nil, err
		}
		docs = append(docs, pre)
	}

	merged := compose(docs)
	if err := checkSchema(merged); err != nil {
		return nil, err
	}
	return validate(merged)
}
