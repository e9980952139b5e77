package llruleset

import (
	"os"

	"github.com/landlock-lsm/landlockconfig/llconfig"
	"github.com/landlock-lsm/landlockconfig/llerr"
)

// Ruleset is a built, live kernel Landlock ruleset: a ready-to-enforce
// file descriptor plus the bookkeeping needed to report what was
// actually enforced after a best-effort downgrade.
//
// A zero-value-like Ruleset with fd == -1 represents the "nothing to
// restrict" case (spec §4.5): every handled-access category downgraded
// to empty, so there is no kernel object to create or enforce.
type Ruleset struct {
	fd  int
	abi int // kernel-reported ABI this ruleset was built against

	handledFS    llconfig.AccessFSSet
	handledNet   llconfig.AccessNetSet
	handledScope llconfig.ScopeSet
}

// KernelABI returns the Landlock ABI version the running kernel
// reported at build time.
func (r *Ruleset) KernelABI() int { return r.abi }

// HandledFS, HandledNet, and HandledScope report the rights actually
// enforced by this ruleset, after best-effort downgrade -- these may
// be a strict subset of what the source Policy requested.
func (r *Ruleset) HandledFS() llconfig.AccessFSSet     { return r.handledFS }
func (r *Ruleset) HandledNet() llconfig.AccessNetSet   { return r.handledNet }
func (r *Ruleset) HandledScope() llconfig.ScopeSet     { return r.handledScope }

// FD returns the underlying ruleset file descriptor, or -1 for a
// no-op ruleset. The caller must not close it directly; use Close.
func (r *Ruleset) FD() int { return r.fd }

// Build materializes p into a kernel Landlock ruleset, following the
// protocol of spec §4.5: query the kernel's supported ABI, downgrade
// the policy's handled-access and rule allowed-access sets to what
// that kernel can enforce, create the ruleset, and, for every
// pathBeneath/netPort entry that survives downgrade, add one kernel
// rule per parent (after glob expansion) or per port.
//
// Build never calls landlock_restrict_self; entering the sandbox --
// prctl(PR_SET_NO_NEW_PRIVS) followed by landlock_restrict_self(2) on
// the returned fd -- is entirely the caller's responsibility.
func Build(p *llconfig.Policy) (ruleset *Ruleset, err error) {
	kernelABI, err := getABIVersion()
	if err != nil {
		return nil, llerr.Wrap(llerr.Kernel, "landlock not supported by this kernel", err)
	}

	supportedFS, supportedNet, supportedScope := llconfig.SupportedAt(kernelABI)
	handledFS := p.HandledFS().Intersect(supportedFS)
	handledNet := p.HandledNet().Intersect(supportedNet)
	handledScope := p.HandledScope().Intersect(supportedScope)

	r := &Ruleset{abi: kernelABI, handledFS: handledFS, handledNet: handledNet, handledScope: handledScope}

	if handledFS.IsEmpty() && handledNet.IsEmpty() && handledScope.IsEmpty() {
		r.fd = -1
		return r, nil
	}

	fd, err := createRuleset(rulesetAttr{
		handledAccessFS:  uint64(handledFS),
		handledAccessNet: uint64(handledNet),
		scoped:           uint64(handledScope),
	})
	if err != nil {
		return nil, llerr.Wrap(llerr.Kernel, "landlock_create_ruleset", err)
	}
	r.fd = fd

	defer func() {
		if err != nil {
			_ = closeFD(r.fd)
		}
	}()

	cwd, _ := os.Getwd()

	for _, rule := range p.PathBeneath {
		access := rule.AllowedAccess.Intersect(handledFS)
		if access.IsEmpty() {
			continue // dropped, not errored (spec §4.3/§4.5)
		}
		if err = addPathBeneathRuleEntries(r.fd, access, rule.Parent, cwd); err != nil {
			return nil, err
		}
	}

	for _, rule := range p.NetPort {
		access := rule.AllowedAccess.Intersect(handledNet)
		if access.IsEmpty() {
			continue
		}
		for _, port := range rule.Port {
			if err = addNetPortRule(r.fd, uint64(access), port); err != nil {
				return nil, llerr.Wrap(llerr.Kernel, "landlock_add_rule(net_port)", err)
			}
		}
	}

	return r, nil
}

// addPathBeneathRuleEntries opens every parent entry of one
// pathBeneath rule and calls landlock_add_rule for each, closing any
// fd it opened itself. A caller-supplied fd (the ParentEntry.IsFD
// case) is used directly and never closed.
func addPathBeneathRuleEntries(rulesetFD int, access llconfig.AccessFSSet, parents []llconfig.ParentEntry, cwd string) error {
	for _, entry := range parents {
		if entry.IsFD {
			if err := addPathBeneathRule(rulesetFD, uint64(access), entry.FD); err != nil {
				return llerr.Wrap(llerr.Kernel, "landlock_add_rule(path_beneath)", err)
			}
			continue
		}

		for _, path := range expandParentPath(entry.Path, cwd) {
			fd, err := openPath(path)
			if err != nil {
				return llerr.Wrap(llerr.IO, "opening path for landlock rule", err).WithPath(path)
			}
			addErr := addPathBeneathRule(rulesetFD, uint64(access), fd)
			_ = closeFD(fd)
			if addErr != nil {
				return llerr.Wrap(llerr.Kernel, "landlock_add_rule(path_beneath)", addErr).WithPath(path)
			}
		}
	}
	return nil
}

// expandParentPath expands glob metacharacters in a parent entry's
// path into the concrete directories/files it matches (a convenience
// beyond the base spec, grounded on the teacher's glob expansion for
// allow-listed paths). A path with no glob metacharacters is returned
// as a single-element slice unchanged.
func expandParentPath(path, cwd string) []string {
	if !containsGlobChars(path) {
		return []string{path}
	}
	return expandGlobPaths([]string{path}, cwd)
}

// Close releases the ruleset file descriptor. Safe to call on a no-op
// Ruleset.
func (r *Ruleset) Close() error {
	if r.fd < 0 {
		return nil
	}
	fd := r.fd
	r.fd = -1
	return closeFD(fd)
}
