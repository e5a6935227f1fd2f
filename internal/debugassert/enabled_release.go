//go:build !debug

package debugassert

// Enabled is false unless the binary is built with the "debug" build tag.
const Enabled = false
