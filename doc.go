// Package cliquefusion fuses noisy 2D positional observations into groups
// that are mutually statistically compatible, maintained incrementally as
// new observations arrive.
//
// An observation is a 2D position with an associated Gaussian error
// ellipse (see package covariance and package observation). Two
// observations are compatible when the Mahalanobis distance between them,
// under their combined covariance, falls within a chi-squared confidence
// threshold. The compatibility relation over a batch of observations
// induces a graph (package compatgraph); this module's job is finding and
// maintaining that graph's maximal cliques — groups of observations that
// are all pairwise compatible — as observations are added one at a time.
//
// Everything under this root is organized by concern:
//
//	covariance/    — 2x2 positive-semi-definite error covariance matrices
//	observation/   — positions with error, and the compatibility predicate
//	spatialindex/  — radius-bounded nearest-neighbour search over observations
//	compatgraph/   — the sparse undirected compatibility graph representation
//	bronkerbosch/  — maximal clique enumeration with pivoting
//	cliqueindex/   — the top-level engine: batch build and incremental insert
//	cabi/          — the record layouts a C ABI boundary over this engine would use
//
// The engine itself does no I/O, no logging, and has no internal locks: it
// is a pure, single-threaded library. internal/config, internal/telemetry,
// and cmd/cliquefusion build an example CLI on top of it.
package cliquefusion
