//go:build linux

package llruleset

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Syscall numbers for Landlock, not yet promoted into x/sys/unix on
// every supported architecture.
const (
	sysLandlockCreateRuleset = 444
	sysLandlockAddRule       = 445
)

const landlockCreateRulesetVersion = 1 << 0

// Landlock rule types, used as the ruleType argument to
// landlock_add_rule(2).
const (
	ruleTypePathBeneath = 1
	ruleTypeNetPort     = 2
)

// rulesetAttr mirrors struct landlock_ruleset_attr. It grows across
// kernel releases; fields beyond what this binary knows about are
// simply not populated, which is safe because the size passed to
// landlock_create_ruleset(2) always matches this Go struct.
type rulesetAttr struct {
	handledAccessFS  uint64
	handledAccessNet uint64
	scoped           uint64
}

// pathBeneathAttr mirrors struct landlock_path_beneath_attr.
type pathBeneathAttr struct {
	allowedAccess uint64
	parentFd      int32
	_             [4]byte
}

// netPortAttr mirrors struct landlock_net_port_attr.
type netPortAttr struct {
	allowedAccess uint64
	port          uint64
}

// getABIVersion queries the highest Landlock ABI version the running
// kernel supports, via landlock_create_ruleset(NULL, 0,
// LANDLOCK_CREATE_RULESET_VERSION).
func getABIVersion() (int, error) {
	v, _, errno := unix.Syscall(sysLandlockCreateRuleset, 0, 0, landlockCreateRulesetVersion)
	if errno != 0 {
		return 0, errno
	}
	return int(v), nil
}

// createRuleset creates a ruleset fd with the given handled access
// rights, sized to rulesetAttr.
func createRuleset(attr rulesetAttr) (fd int, err error) {
	r0, _, errno := unix.Syscall(
		sysLandlockCreateRuleset,
		uintptr(unsafe.Pointer(&attr)), //nolint:gosec // required for the syscall ABI
		unsafe.Sizeof(attr),
		0,
	)
	if errno != 0 {
		return -1, errno
	}
	return int(r0), nil
}

func addPathBeneathRule(rulesetFd int, allowedAccess uint64, parentFd int) error {
	attr := pathBeneathAttr{allowedAccess: allowedAccess, parentFd: int32(parentFd)} //nolint:gosec // fd values fit int32
	_, _, errno := unix.Syscall6(
		sysLandlockAddRule,
		uintptr(rulesetFd),
		ruleTypePathBeneath,
		uintptr(unsafe.Pointer(&attr)), //nolint:gosec // required for the syscall ABI
		0, 0, 0,
	)
	if errno != 0 {
		return errno
	}
	return nil
}

func addNetPortRule(rulesetFd int, allowedAccess uint64, port uint16) error {
	attr := netPortAttr{allowedAccess: allowedAccess, port: uint64(port)}
	_, _, errno := unix.Syscall6(
		sysLandlockAddRule,
		uintptr(rulesetFd),
		ruleTypeNetPort,
		uintptr(unsafe.Pointer(&attr)), //nolint:gosec // required for the syscall ABI
		0, 0, 0,
	)
	if errno != 0 {
		return errno
	}
	return nil
}

func openPath(path string) (int, error) {
	return unix.Open(path, unix.O_PATH|unix.O_CLOEXEC, 0)
}

func closeFD(fd int) error {
	return unix.Close(fd)
}
