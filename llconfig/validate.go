package llconfig

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/landlock-lsm/landlockconfig/llerr"
)

var aggregateWordRe = regexp.MustCompile(`^v(\d+)\.(all|read_execute|read_write)$`)

// resolveABIAliases expands every "abi.*" token in doc into the
// equivalent "vN.*" token, using doc.ABI as N. It is safe to call
// more than once: once no token starts with "abi." it is a no-op.
//
// This runs once per source document, before composition (spec §9,
// Open Question (c)): a composed document's merged `abi` is the
// minimum across inputs, which is not the ABI any individual
// document's "abi.*" aliases were written against.
func resolveABIAliases(doc *preDocument) error {
	resolve := func(tokens []Token) error {
		for i, t := range tokens {
			if t.IsBit || !strings.HasPrefix(t.Word, "abi.") {
				continue
			}
			if doc.ABI == nil {
				return llerr.Newf(llerr.Vocabulary, "%q used but no abi is declared", t.Word)
			}
			tokens[i].Word = "v" + strconv.Itoa(*doc.ABI) + "." + strings.TrimPrefix(t.Word, "abi.")
		}
		return nil
	}
	for i := range doc.Ruleset {
		if err := resolve(doc.Ruleset[i].FS); err != nil {
			return err
		}
		if err := resolve(doc.Ruleset[i].Net); err != nil {
			return err
		}
		if err := resolve(doc.Ruleset[i].Scope); err != nil {
			return err
		}
	}
	for i := range doc.PathBeneath {
		if err := resolve(doc.PathBeneath[i].AllowedAccess); err != nil {
			return err
		}
	}
	for i := range doc.NetPort {
		if err := resolve(doc.NetPort[i].AllowedAccess); err != nil {
			return err
		}
	}
	return nil
}

// resolveFS resolves a token list in the accessFs category to a
// concrete bitset.
func resolveFS(tokens []Token) (AccessFSSet, error) {
	var out AccessFSSet
	for _, t := range tokens {
		if t.IsBit {
			out = out.union(AccessFSSet(t.Bit))
			continue
		}
		if m := aggregateWordRe.FindStringSubmatch(t.Word); m != nil {
			version, _ := strconv.Atoi(m[1])
			if version < 0 || version > highestABI {
				return 0, llerr.Newf(llerr.Vocabulary, "unknown Landlock ABI version in %q", t.Word)
			}
			bits, ok := aggregateFS(abiTable[version], m[2])
			if !ok {
				return 0, llerr.Newf(llerr.Vocabulary, "unknown aggregate %q", t.Word)
			}
			out = out.union(bits)
			continue
		}
		bits, ok := abiTable[highestABI].fsKeywords[t.Word]
		if !ok {
			return 0, llerr.Newf(llerr.Vocabulary, "unknown accessFs keyword %q", t.Word)
		}
		out = out.union(bits)
	}
	return out, nil
}

func resolveNet(tokens []Token) (AccessNetSet, error) {
	var out AccessNetSet
	for _, t := range tokens {
		if t.IsBit {
			out = out.union(AccessNetSet(t.Bit))
			continue
		}
		if m := aggregateWordRe.FindStringSubmatch(t.Word); m != nil {
			version, _ := strconv.Atoi(m[1])
			if version < 0 || version > highestABI {
				return 0, llerr.Newf(llerr.Vocabulary, "unknown Landlock ABI version in %q", t.Word)
			}
			bits, ok := aggregateNet(abiTable[version], m[2])
			if !ok {
				return 0, llerr.Newf(llerr.Vocabulary, "unknown aggregate %q", t.Word)
			}
			out = out.union(bits)
			continue
		}
		bits, ok := abiTable[highestABI].netKeywords[t.Word]
		if !ok {
			return 0, llerr.Newf(llerr.Vocabulary, "unknown accessNet keyword %q", t.Word)
		}
		out = out.union(bits)
	}
	return out, nil
}

func resolveScope(tokens []Token) (ScopeSet, error) {
	var out ScopeSet
	for _, t := range tokens {
		if t.IsBit {
			out = out.union(ScopeSet(t.Bit))
			continue
		}
		if m := aggregateWordRe.FindStringSubmatch(t.Word); m != nil {
			version, _ := strconv.Atoi(m[1])
			if version < 0 || version > highestABI {
				return 0, llerr.Newf(llerr.Vocabulary, "unknown Landlock ABI version in %q", t.Word)
			}
			bits, ok := aggregateScope(abiTable[version], m[2])
			if !ok {
				return 0, llerr.Newf(llerr.Vocabulary, "unknown aggregate %q", t.Word)
			}
			out = out.union(bits)
			continue
		}
		bits, ok := abiTable[highestABI].scopeKeywords[t.Word]
		if !ok {
			return 0, llerr.Newf(llerr.Vocabulary, "unknown scope keyword %q", t.Word)
		}
		out = out.union(bits)
	}
	return out, nil
}

func resolveParents(tokens []ParentToken) []ParentEntry {
	out := make([]ParentEntry, len(tokens))
	for i, t := range tokens {
		out[i] = ParentEntry{Path: t.Path, FD: t.FD, IsFD: t.IsFD}
	}
	return out
}

// validate runs the fixed-point normalization of spec §4.3 over doc
// and returns the resulting Policy. doc must already have passed
// checkSchema.
func validate(doc *preDocument) (*Policy, error) {
	if err := resolveABIAliases(doc); err != nil {
		return nil, err
	}

	p := &Policy{}
	if doc.ABI != nil {
		p.ABI = *doc.ABI
	}

	for _, h := range doc.Ruleset {
		fs, err := resolveFS(h.FS)
		if err != nil {
			return nil, err
		}
		net, err := resolveNet(h.Net)
		if err != nil {
			return nil, err
		}
		scope, err := resolveScope(h.Scope)
		if err != nil {
			return nil, err
		}
		p.Ruleset = append(p.Ruleset, HandledAccess{HandledAccessFS: fs, HandledAccessNet: net, Scoped: scope})
	}

	for _, r := range doc.PathBeneath {
		access, err := resolveFS(r.AllowedAccess)
		if err != nil {
			return nil, err
		}
		p.PathBeneath = append(p.PathBeneath, PathBeneathRule{
			AllowedAccess: access,
			Parent:        resolveParents(r.Parent),
		})
	}

	for _, r := range doc.NetPort {
		access, err := resolveNet(r.AllowedAccess)
		if err != nil {
			return nil, err
		}
		p.NetPort = append(p.NetPort, NetPortRule{AllowedAccess: access, Port: append([]uint16(nil), r.Port...)})
	}

	autoCompleteHandledAccess(p)

	if err := checkConsistency(p); err != nil {
		return nil, err
	}
	return p, nil
}

// autoCompleteHandledAccess implements spec §4.3 step 3: every right
// used by a rule is folded into the handled-access union, extending
// the first declared ruleset entry, or synthesizing one if none
// exists. There is no rule type that grants "scoped" rights (they
// only ever appear directly in a ruleset entry), so there is nothing
// to auto-complete scope from.
func autoCompleteHandledAccess(p *Policy) {
	var usedFS AccessFSSet
	for _, r := range p.PathBeneath {
		usedFS = usedFS.union(r.AllowedAccess)
	}
	var usedNet AccessNetSet
	for _, r := range p.NetPort {
		usedNet = usedNet.union(r.AllowedAccess)
	}

	handledFS := p.HandledFS()
	handledNet := p.HandledNet()

	missingFS := usedFS &^ handledFS
	missingNet := usedNet &^ handledNet
	if missingFS == 0 && missingNet == 0 {
		return
	}

	if len(p.Ruleset) == 0 {
		p.Ruleset = append(p.Ruleset, HandledAccess{})
	}
	p.Ruleset[0].HandledAccessFS = p.Ruleset[0].HandledAccessFS.union(missingFS)
	p.Ruleset[0].HandledAccessNet = p.Ruleset[0].HandledAccessNet.union(missingNet)
}

// checkConsistency implements spec §4.3 step 4.
func checkConsistency(p *Policy) error {
	if p.IsEmpty() {
		return llerr.New(llerr.Schema, "document has no handled rights and no rules")
	}
	handledFS := p.HandledFS()
	handledNet := p.HandledNet()
	for i, r := range p.PathBeneath {
		if !r.AllowedAccess.isSubset(handledFS) {
			return llerr.Newf(llerr.Schema, "pathBeneath[%d].allowedAccess %v is not a subset of the handled accessFs union %v", i, r.AllowedAccess, handledFS)
		}
	}
	for i, r := range p.NetPort {
		if !r.AllowedAccess.isSubset(handledNet) {
			return llerr.Newf(llerr.Schema, "netPort[%d].allowedAccess %v is not a subset of the handled accessNet union %v", i, r.AllowedAccess, handledNet)
		}
	}
	return nil
}
