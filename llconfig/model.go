package llconfig

// Policy is a parsed, validated Landlock configuration, as produced by
// ParseJSON or ParseTOML (and, after merging, by the composer). It is
// immutable: nothing in this package mutates a Policy after it is
// returned to the caller.
type Policy struct {
	// ABI is the reference ABI used to resolve "abi.*" aliases and
	// vN.* aggregates while parsing; 0 if the document declared none.
	// The ruleset builder does not read it: its downgrade depends only
	// on the ABI the running kernel reports.
	ABI int

	Ruleset     []HandledAccess
	PathBeneath []PathBeneathRule
	NetPort     []NetPortRule
}

// HandledAccess is one `[[ruleset]]` entry: the rights a kernel
// ruleset built from this Policy will enforce.
type HandledAccess struct {
	HandledAccessFS  AccessFSSet
	HandledAccessNet AccessNetSet
	Scoped           ScopeSet
}

func (h HandledAccess) isEmpty() bool {
	return h.HandledAccessFS.isEmpty() && h.HandledAccessNet.isEmpty() && h.Scoped.isEmpty()
}

// ParentEntry is a single `parent` element of a PathBeneathRule: it is
// either a filesystem path or an already-open file descriptor
// supplied in integer form (the forward-compat / caller-owns-the-fd
// escape hatch described in spec §4.5 step 4).
type ParentEntry struct {
	// Path is set when the entry was a string. FD is set (and Path
	// empty) when the entry was a raw integer.
	Path string
	FD   int
	IsFD bool
}

// PathBeneathRule is one `[[path_beneath]]` entry.
type PathBeneathRule struct {
	AllowedAccess AccessFSSet
	Parent        []ParentEntry
}

// NetPortRule is one `[[net_port]]` entry.
type NetPortRule struct {
	AllowedAccess AccessNetSet
	Port          []uint16
}

// HandledFS returns the union of HandledAccessFS across all ruleset
// entries.
func (p *Policy) HandledFS() AccessFSSet {
	var out AccessFSSet
	for _, r := range p.Ruleset {
		out = out.union(r.HandledAccessFS)
	}
	return out
}

// HandledNet returns the union of HandledAccessNet across all ruleset
// entries.
func (p *Policy) HandledNet() AccessNetSet {
	var out AccessNetSet
	for _, r := range p.Ruleset {
		out = out.union(r.HandledAccessNet)
	}
	return out
}

// HandledScope returns the union of Scoped across all ruleset entries.
func (p *Policy) HandledScope() ScopeSet {
	var out ScopeSet
	for _, r := range p.Ruleset {
		out = out.union(r.Scoped)
	}
	return out
}

// IsEmpty reports whether the document has no content at all (spec
// §3.2: "The document is rejected if it is entirely empty").
func (p *Policy) IsEmpty() bool {
	return len(p.Ruleset) == 0 && len(p.PathBeneath) == 0 && len(p.NetPort) == 0
}

// Close releases the policy. Since Policy owns no OS resources --
// only strings, slices, and integers -- this is a no-op kept for
// symmetry with the FFI-facing free(policy) contract (spec §6.2): a
// caller driving this library through a C ABI still calls free();
// here it just marks the intent and lets the garbage collector do the
// rest. Reusing a Policy after Close is a bug in the same way reusing
// a freed FFI handle is.
func (p *Policy) Close() error {
	return nil
}
