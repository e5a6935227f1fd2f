// Package covariance implements a 2x2 symmetric positive-semi-definite
// covariance matrix: the error-ellipse representation used throughout
// cliquefusion to describe an observation's positional uncertainty.
//
// Construction is validated by default (New) against a
// scale-relative tolerance, with an unchecked escape hatch (NewUnchecked)
// for trusted call sites. Spectral operations (MaxVariance, SafeInverse)
// are delegated to gonum.org/v1/gonum/mat's symmetric eigendecomposition
// rather than re-derived by hand, since eigendecomposition and SVD
// coincide for symmetric PSD matrices.
package covariance

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/clique-fusion/cliquefusion/internal/debugassert"
)

// relativeEpsilon is the fixed relative tolerance used to validate that a
// set of (xx, yy, xy) values describes a valid PSD matrix.
const relativeEpsilon = 1e-12

// chi2Confidence95 is the 2-DOF chi-squared threshold for 95% confidence,
// used by FromCircular95.
const chi2Confidence95 = 5.991464547

// zeroNormThreshold is the Frobenius-norm cutoff below which SafeInverse
// treats a matrix as the zero matrix and returns false.
const zeroNormThreshold = 1e-15

// pseudoInverseTolerance is the eigenvalue cutoff below which an
// eigenvalue is treated as zero when building the Moore-Penrose
// pseudoinverse.
const pseudoInverseTolerance = 1e-12

// ErrInvalidCovariance is returned when the given (xx, yy, xy) values do
// not describe a finite, positive-semi-definite 2x2 matrix.
var ErrInvalidCovariance = errors.New("covariance: not a valid positive semi-definite matrix")

// ErrInvalidRadius is returned when a negative or non-finite radius is
// given to FromCircular95.
var ErrInvalidRadius = errors.New("covariance: radius must be finite and >= 0")

// Matrix is a 2x2 symmetric PSD covariance matrix, stored as its three
// independent components. The zero value is the zero matrix, which is a
// valid (degenerate) covariance.
type Matrix struct {
	xx, yy, xy float64
}

// New validates and constructs a Matrix from its components.
//
// Validation requires all three values to be finite, and the matrix to be
// positive-semi-definite within a scale-relative tolerance: with
// s = max(|xx|, |yy|, |xy|), the diagonal entries must be >= -eps*s and the
// determinant must be >= -eps*s^2, for a fixed relative epsilon of 1e-12.
// The exactly-zero matrix is always valid, since the tolerances collapse to
// zero in that case.
func New(xx, yy, xy float64) (Matrix, error) {
	if !isValid(xx, yy, xy) {
		return Matrix{}, fmt.Errorf("covariance: xx=%v yy=%v xy=%v: %w", xx, yy, xy, ErrInvalidCovariance)
	}

	return Matrix{xx: xx, yy: yy, xy: xy}, nil
}

// NewUnchecked constructs a Matrix without validating its components.
//
// Use only for trusted input (e.g. values already validated by New, or data
// crossing a boundary such as the cabi package that documents
// new_unchecked semantics). In debug builds it panics if New would have
// rejected the input; see debugassert.Assert.
func NewUnchecked(xx, yy, xy float64) Matrix {
	debugassert.Assert(isValid(xx, yy, xy), "covariance: NewUnchecked called with invalid matrix xx=%v yy=%v xy=%v", xx, yy, xy)

	return Matrix{xx: xx, yy: yy, xy: xy}
}

// Identity returns the 2x2 identity covariance matrix.
func Identity() Matrix {
	return Matrix{xx: 1, yy: 1, xy: 0}
}

// FromCircular95 builds an isotropic covariance matrix whose 95%-confidence
// error ellipse is a circle of the given radius.
func FromCircular95(radius float64) (Matrix, error) {
	if !isFinite(radius) || radius < 0 {
		return Matrix{}, fmt.Errorf("covariance: radius=%v: %w", radius, ErrInvalidRadius)
	}

	variance := (radius * radius) / chi2Confidence95

	return Matrix{xx: variance, yy: variance, xy: 0}, nil
}

// XX returns the variance of the error in the x direction.
func (m Matrix) XX() float64 { return m.xx }

// YY returns the variance of the error in the y direction.
func (m Matrix) YY() float64 { return m.yy }

// XY returns the covariance between the x and y directions.
func (m Matrix) XY() float64 { return m.xy }

// Add returns the elementwise sum of two covariance matrices. The sum of
// two PSD matrices is always PSD, so this never fails.
func (m Matrix) Add(other Matrix) Matrix {
	return Matrix{xx: m.xx + other.xx, yy: m.yy + other.yy, xy: m.xy + other.xy}
}

// Det returns the determinant of the matrix.
func (m Matrix) Det() float64 {
	return m.xx*m.yy - m.xy*m.xy
}

// trace returns xx + yy.
func (m Matrix) trace() float64 {
	return m.xx + m.yy
}

// symDense returns the gonum symmetric dense representation of m.
func (m Matrix) symDense() *mat.SymDense {
	return mat.NewSymDense(2, []float64{m.xx, m.xy, m.xy, m.yy})
}

// MaxVariance returns the largest eigenvalue of the covariance matrix; it
// is always >= 0. Computed via gonum's symmetric eigendecomposition rather
// than the closed form directly, though for a 2x2 matrix the two agree.
func (m Matrix) MaxVariance() float64 {
	var eigen mat.EigenSym
	if ok := eigen.Factorize(m.symDense(), false); !ok {
		// Fall back to the closed-form quadratic formula if gonum's
		// eigensolver fails to converge (practically unreachable for a 2x2
		// real symmetric matrix, but kept so MaxVariance never panics).
		trace := m.trace()
		discriminant := math.Max(trace*trace-4*m.Det(), 0)

		return 0.5 * (trace + math.Sqrt(discriminant))
	}

	values := eigen.Values(nil)

	return values[len(values)-1]
}

// SafeInverse returns the inverse of the covariance matrix, falling back to
// the Moore-Penrose pseudoinverse when the matrix is singular.
//
// Returns false when the matrix's Frobenius norm is below 1e-15 (treated as
// the zero matrix, which has no meaningful inverse).
func (m Matrix) SafeInverse() (Matrix, bool) {
	if m.frobeniusNorm() < zeroNormThreshold {
		return Matrix{}, false
	}

	norm := m.frobeniusNorm()
	det := m.Det()
	if math.Abs(det) > pseudoInverseTolerance*norm*norm {
		inv := 1 / det

		return Matrix{
			xx: m.yy * inv,
			yy: m.xx * inv,
			xy: -m.xy * inv,
		}, true
	}

	return m.pseudoInverse(), true
}

// frobeniusNorm returns sqrt(xx^2 + 2*xy^2 + yy^2), the Frobenius norm of
// the symmetric matrix.
func (m Matrix) frobeniusNorm() float64 {
	return math.Sqrt(m.xx*m.xx + 2*m.xy*m.xy + m.yy*m.yy)
}

// pseudoInverse computes the Moore-Penrose pseudoinverse via eigendecomposition:
// for a symmetric matrix A = V diag(lambda) V^T,
// A+ = V diag(1/lambda if lambda > tol else 0) V^T.
func (m Matrix) pseudoInverse() Matrix {
	var eigen mat.EigenSym
	if !eigen.Factorize(m.symDense(), true) {
		return Matrix{}
	}

	values := eigen.Values(nil)
	var vectors mat.Dense
	eigen.VectorsTo(&vectors)

	var xx, yy, xy float64
	for i, lambda := range values {
		if lambda <= pseudoInverseTolerance {
			continue
		}
		vx, vy := vectors.At(0, i), vectors.At(1, i)
		weight := 1 / lambda
		xx += weight * vx * vx
		yy += weight * vy * vy
		xy += weight * vx * vy
	}

	return Matrix{xx: xx, yy: yy, xy: xy}
}

// isFinite reports whether f is neither NaN nor +/-Inf.
func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// isValid reports whether (xx, yy, xy) describe a finite, PSD matrix within
// the scale-relative tolerance documented on New.
func isValid(xx, yy, xy float64) bool {
	if !isFinite(xx) || !isFinite(yy) || !isFinite(xy) {
		return false
	}

	scale := math.Max(math.Abs(xx), math.Max(math.Abs(yy), math.Abs(xy)))
	diagTolerance := relativeEpsilon * scale
	detTolerance := relativeEpsilon * scale * scale

	det := xx*yy - xy*xy

	return xx >= -diagTolerance && yy >= -diagTolerance && det >= -detTolerance
}
