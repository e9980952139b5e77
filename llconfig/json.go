package llconfig

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/landlock-lsm/landlockconfig/llerr"
	"github.com/tidwall/jsonc"
)

// jsonDocument mirrors the JSON surface schema of spec §4.1: camelCase
// field names, structurally identical to the semantic model. Unknown
// fields are rejected by the decoder (see ParseJSON).
type jsonDocument struct {
	ABI         *int               `json:"abi,omitempty"`
	Ruleset     []jsonHandledAccess `json:"ruleset,omitempty"`
	PathBeneath []jsonPathBeneath   `json:"pathBeneath,omitempty"`
	NetPort     []jsonNetPort       `json:"netPort,omitempty"`
}

type jsonHandledAccess struct {
	HandledAccessFs  []Token `json:"handledAccessFs,omitempty"`
	HandledAccessNet []Token `json:"handledAccessNet,omitempty"`
	Scoped           []Token `json:"scoped,omitempty"`
}

type jsonPathBeneath struct {
	AllowedAccess []Token       `json:"allowedAccess"`
	Parent        []ParentToken `json:"parent"`
}

type jsonNetPort struct {
	AllowedAccess []Token  `json:"allowedAccess"`
	Port          []uint16 `json:"port"`
}

// ParseJSON parses a strict-JSON Landlock configuration (spec §4.1)
// from r and returns the resulting Policy.
//
// Config files may contain "//" and "/* */" comments, stripped before
// JSON decoding, the same way the JSON surface is read elsewhere in
// this ecosystem; this does not relax any of the strictness rules
// below.
//
// Unknown top-level or nested fields are rejected. Keywords that
// don't appear in the ABI vocabulary table are errors; a raw integer
// is accepted instead as the forward-compatibility escape hatch.
// Duplicate items within an access-right set are silently
// deduplicated. JSON integers outside uint64, or port values outside
// uint16, are rejected.
func ParseJSON(r io.Reader) (*Policy, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, llerr.Wrap(llerr.IO, "reading JSON input", err)
	}
	return parseJSONBytes(data)
}

// ParseJSONFile reads and parses a JSON configuration file at path.
func ParseJSONFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, llerr.Wrap(llerr.IO, "reading JSON config file", err).WithPath(path)
	}
	p, err := parseJSONBytes(data)
	if err != nil {
		if e, ok := err.(*llerr.Error); ok {
			return nil, e.WithPath(path)
		}
		return nil, err
	}
	return p, nil
}

// ParseJSONFD parses a JSON configuration already available as an
// open file descriptor (spec §6.2: "source is a file descriptor or a
// byte buffer").
func ParseJSONFD(fd int) (*Policy, error) {
	f := os.NewFile(uintptr(fd), "<fd>")
	if f == nil {
		return nil, llerr.New(llerr.IO, "invalid file descriptor")
	}
	return ParseJSON(f)
}

func parseJSONBytes(raw []byte) (*Policy, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, llerr.New(llerr.Schema, "document is empty")
	}

	clean := jsonc.ToJSON(raw)

	dec := json.NewDecoder(bytes.NewReader(clean))
	dec.DisallowUnknownFields()

	var doc jsonDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, syntaxErrorFromJSON(clean, err)
	}
	if dec.More() {
		return nil, llerr.New(llerr.Syntax, "trailing content after JSON document")
	}

	pre := &preDocument{ABI: doc.ABI}
	for _, h := range doc.Ruleset {
		pre.Ruleset = append(pre.Ruleset, preHandledAccess{FS: h.HandledAccessFs, Net: h.HandledAccessNet, Scope: h.Scoped})
	}
	for _, r := range doc.PathBeneath {
		pre.PathBeneath = append(pre.PathBeneath, prePathBeneath{AllowedAccess: r.AllowedAccess, Parent: r.Parent})
	}
	for _, r := range doc.NetPort {
		pre.NetPort = append(pre.NetPort, preNetPort{AllowedAccess: r.AllowedAccess, Port: r.Port})
	}

	if err := checkSchema(pre); err != nil {
		return nil, err
	}
	return validate(pre)
}

// syntaxErrorFromJSON turns a decoder error into a llerr.Error,
// attaching a byte offset when the standard library provides one.
func syntaxErrorFromJSON(data []byte, err error) *llerr.Error {
	msg := err.Error()
	if se, ok := err.(*json.SyntaxError); ok {
		return llerr.Wrap(llerr.Syntax, "invalid JSON", err).WithOffset(int(se.Offset))
	}
	if te, ok := err.(*json.UnmarshalTypeError); ok {
		return llerr.Wrap(llerr.Schema, "unexpected type for "+te.Field, err).WithOffset(int(te.Offset))
	}
	if strings.Contains(msg, "unknown field") {
		return llerr.Wrap(llerr.Schema, "unknown field", err)
	}
	return llerr.Wrap(llerr.Syntax, "invalid JSON", err)
}
