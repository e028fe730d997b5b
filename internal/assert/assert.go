// Package assert panics on broken internal invariants.
package assert

import "fmt"

// IsTrue panics with a formatted error when ok is false.
func IsTrue(ok bool, format string, args ...any) {
	if !ok {
		panic(fmt.Errorf("assertion failed: "+format, args...))
	}
}
