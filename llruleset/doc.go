// Package llruleset materializes a parsed llconfig.Policy into a live
// kernel Landlock ruleset: it best-effort-downgrades the policy to
// whatever the running kernel's Landlock ABI actually supports, opens
// the parent/fd entries the policy's rules reference, and drives the
// landlock_create_ruleset / landlock_add_rule syscalls. It never calls
// landlock_restrict_self; enforcing the returned ruleset is left to the
// caller.
package llruleset
