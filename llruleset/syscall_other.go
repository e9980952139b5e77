//go:build !linux

package llruleset

import "syscall"

func getABIVersion() (int, error)                                  { return 0, syscall.ENOSYS }
func createRuleset(attr rulesetAttr) (int, error)                  { return -1, syscall.ENOSYS }
func addPathBeneathRule(rulesetFd int, allowedAccess uint64, parentFd int) error {
	return syscall.ENOSYS
}
func addNetPortRule(rulesetFd int, allowedAccess uint64, port uint16) error { return syscall.ENOSYS }
func openPath(path string) (int, error)                                    { return -1, syscall.ENOSYS }
func closeFD(fd int) error                                                 { return syscall.ENOSYS }

// rulesetAttr mirrors the Linux definition so builder.go compiles on
// every GOOS; its fields are never read on this platform.
type rulesetAttr struct {
	handledAccessFS  uint64
	handledAccessNet uint64
	scoped           uint64
}
