//go:build linux

package llruntest

import "golang.org/x/sys/unix"

const (
	sysLandlockCreateRuleset     = 444
	landlockCreateRulesetVersion = 1 << 0
)

func queryABI() (int, error) {
	v, _, errno := unix.Syscall(sysLandlockCreateRuleset, 0, 0, landlockCreateRulesetVersion)
	if errno != 0 {
		return 0, errno
	}
	return int(v), nil
}
