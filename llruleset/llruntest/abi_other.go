//go:build !linux

package llruntest

import "syscall"

func queryABI() (int, error) {
	return 0, syscall.ENOSYS
}
