//go:build debug

package debugassert

// Enabled is true when the binary is built with the "debug" build tag.
const Enabled = true
