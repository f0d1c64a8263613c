// Package git wraps the git operations wsinit performs against the
// workspace repository.
//
// Two operations exist: an access probe (ls-remote against the repository
// the bootstrap will clone, over the exact SSH transport the clone will use)
// and the clone itself. Both shell out to the git binary; the command runner
// is a package variable so tests can substitute it.
//
// Clone retries transient network failures with a short backoff and honors
// the context deadline of the caller. Its stderr is passed through a
// progress writer that reformats git's transfer lines for the step output.
package git
