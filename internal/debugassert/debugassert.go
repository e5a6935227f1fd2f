// Package debugassert provides a precondition-checking helper that is a
// no-op in release builds and panics in debug builds: the Rust
// debug_assert! pattern, used here to catch duplicate observation ids and
// malformed unchecked-constructor input without paying for the check in
// release binaries. Enable it by building with `-tags debug`.
package debugassert

import "fmt"

// Assert panics with a formatted message if cond is false and debug
// assertions are enabled. It is a no-op in release builds (the default).
func Assert(cond bool, format string, args ...any) {
	if Enabled && !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
