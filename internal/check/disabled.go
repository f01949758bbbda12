//go:build nocheck

package check

const Enabled = false
