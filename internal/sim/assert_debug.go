//go:build debug

package sim

func assert(cond bool, msg string) bool {
	if !cond {
		panic("sim: invariant violated: " + msg)
	}
	return true
}
