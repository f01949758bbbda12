//go:build !nocheck

package check

// Enabled reports whether precondition checks are compiled in.
const Enabled = true
