//go:build !debug

package sim

import "github.com/charmbracelet/log"

// assert reports whether cond holds. Release builds log the violation and let
// the caller clamp; debug builds panic.
func assert(cond bool, msg string) bool {
	if !cond {
		log.Warn("simulation invariant violated", "check", msg)
	}
	return cond
}
