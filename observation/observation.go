// Package observation defines Observation: a 2D position carrying Gaussian
// positional uncertainty, the statistical compatibility predicate between
// two observations, and the conservative radius bound used to prune
// spatial neighbour searches.
package observation

import (
	"math"

	"github.com/google/uuid"

	"github.com/clique-fusion/cliquefusion/covariance"
)

// Chi-squared thresholds for 2 degrees of freedom, at the three standard
// confidence levels, for 2 degrees of freedom.
const (
	Chi2Confidence90 = 4.605170186
	Chi2Confidence95 = 5.991464547
	Chi2Confidence99 = 9.210340372
)

// ContextID tags an observation with the snapshot/sensor pass it came from.
// Observations sharing a non-nil ContextID are assumed to have negligible
// relative error and are never fused. The nil UUID means "no context".
type ContextID = uuid.UUID

// Observation is a single 2D positional measurement with associated
// Gaussian error. It is immutable once constructed via Builder.
type Observation struct {
	x, y    float64
	err     covariance.Matrix
	context ContextID
	hasCtx  bool
}

// Builder constructs an Observation in two stages: position is fixed at
// creation, the error ellipse is mandatory and set via Error or
// Circular95Error, and Context is optional.
type Builder struct {
	x, y float64
}

// NewBuilder starts building an Observation at the given position.
func NewBuilder(x, y float64) Builder {
	return Builder{x: x, y: y}
}

// Error sets an explicit error covariance and returns a builder ready for
// an optional Context call and a final Build.
func (b Builder) Error(err covariance.Matrix) WithError {
	return WithError{x: b.x, y: b.y, err: err}
}

// Circular95Error sets an isotropic error ellipse whose 95%-confidence
// circle has the given radius.
func (b Builder) Circular95Error(radius float64) (WithError, error) {
	err, buildErr := covariance.FromCircular95(radius)
	if buildErr != nil {
		return WithError{}, buildErr
	}

	return WithError{x: b.x, y: b.y, err: err}, nil
}

// WithError is a Builder that has a mandatory error covariance set; it may
// optionally take a Context before Build.
type WithError struct {
	x, y    float64
	err     covariance.Matrix
	context ContextID
	hasCtx  bool
}

// Context tags the observation under construction with a context id.
// Observations sharing a context are never fused into the same clique.
func (w WithError) Context(id ContextID) WithError {
	w.context = id
	w.hasCtx = true

	return w
}

// Build finalises the builder into an immutable Observation.
func (w WithError) Build() Observation {
	return Observation{x: w.x, y: w.y, err: w.err, context: w.context, hasCtx: w.hasCtx}
}

// Position returns the (x, y) coordinates of the observation.
func (o Observation) Position() (float64, float64) { return o.x, o.y }

// X returns the x ordinate.
func (o Observation) X() float64 { return o.x }

// Y returns the y ordinate.
func (o Observation) Y() float64 { return o.y }

// ErrorCovariance returns the covariance matrix describing the
// observation's positional error ellipse.
func (o Observation) ErrorCovariance() covariance.Matrix { return o.err }

// Context returns the observation's context id and whether one was set.
func (o Observation) Context() (ContextID, bool) { return o.context, o.hasCtx }

// SameContext reports whether both observations have a context set and
// those contexts are equal. Such pairs are never fused.
func (o Observation) SameContext(other Observation) bool {
	return o.hasCtx && other.hasCtx && o.context == other.context
}

// IsCompatibleWith reports whether self and other are statistically
// compatible under the combined-covariance Mahalanobis test: letting
// delta = self.position - other.position and sigma = self.error +
// other.error, compatibility holds when delta^T sigma^-1 delta <= chi2.
//
// When sigma.SafeInverse reports no inverse (sigma's Frobenius norm is
// below 1e-15), the squared distance is treated as +Inf, i.e. not
// compatible, regardless of delta. A singular but non-zero sigma is
// inverted through its pseudoinverse.
//
// This predicate does not exclude self-pairs: an observation whose doubled
// covariance is invertible is compatible with itself. Callers
// (SpatialIndex, in particular) filter out self-pairs before calling this.
func (o Observation) IsCompatibleWith(other Observation, chi2 float64) bool {
	dx := o.x - other.x
	dy := o.y - other.y

	sigma := o.err.Add(other.err)
	inv, ok := sigma.SafeInverse()
	if !ok {
		return false
	}

	mahalanobisSquared := dx*dx*inv.XX() + 2*dx*dy*inv.XY() + dy*dy*inv.YY()

	return mahalanobisSquared <= chi2
}

// MaxCompatibilityRadius returns a conservative Euclidean bound: no
// observation whose covariance has max eigenvalue <= maxOtherVariance,
// lying further than this radius from self, can possibly satisfy
// IsCompatibleWith at the given chi2 threshold. Used purely for spatial
// pruning; candidates within the radius must still be checked exactly.
func (o Observation) MaxCompatibilityRadius(chi2, maxOtherVariance float64) float64 {
	return math.Sqrt(chi2 * (o.err.MaxVariance() + maxOtherVariance))
}
