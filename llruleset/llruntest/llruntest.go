// Package llruntest has helpers for tests that need a real kernel
// Landlock ruleset rather than a mocked one.
package llruntest

import (
	"syscall"
	"testing"

	"github.com/landlock-lsm/landlockconfig/llconfig"
)

// RequireABI skips the test unless the running kernel's Landlock ABI
// is at least want. This never builds a real ruleset (and so never
// actually restricts the test binary); it only probes the version via
// the kernel-ABI-query form of landlock_create_ruleset.
func RequireABI(t testing.TB, want int) {
	t.Helper()

	got, err := queryABI()
	if err != nil {
		if err == syscall.ENOSYS || err == syscall.EOPNOTSUPP {
			t.Skipf("landlock not supported by this kernel: %v", err)
		}
		t.Fatalf("querying landlock ABI: %v", err)
	}
	if got < want {
		t.Skipf("requires landlock ABI >= %d, got %d", want, got)
	}
}

// RequireLandlock skips the test unless any Landlock support is
// present (ABI >= 1).
func RequireLandlock(t testing.TB) {
	t.Helper()
	RequireABI(t, 1)
}

// HighestKnownABI reports the newest ABI version llconfig has a
// vocabulary table entry for, for tests that want to probe "give me
// the newest fully-supported level".
func HighestKnownABI() int {
	return llconfig.HighestABI()
}
