// Package orthopoly evaluates families of orthogonal polynomials
// defined by a three-term recurrence
//
//	p_0(x) = A[0]
//	p_1(x) = A[1]*x + B[1]
//	p_l(x) = (A[l]*x + B[l])*p_{l-1}(x) + C[l]*p_{l-2}(x)
//
// together with their first and second derivatives. Constructors for
// the classical Legendre, Jacobi and Chebyshev families compute the
// coefficient tables in closed form, optionally rescaled to L2
// orthonormality on the family's natural interval and weight.
package orthopoly

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Errors returned by constructors and evaluators.
var (
	// ErrBadCoefficients indicates mismatched or empty recurrence
	// coefficient slices.
	ErrBadCoefficients = errors.New("orthopoly: invalid recurrence coefficients")

	// ErrBadParameter indicates an out-of-range family parameter,
	// e.g. a Jacobi exponent <= -1.
	ErrBadParameter = errors.New("orthopoly: invalid family parameter")

	// ErrBufferSize indicates a caller-supplied buffer shorter than the
	// basis length.
	ErrBufferSize = errors.New("orthopoly: output buffer too short")

	// ErrEmptyBatch indicates a batched operation invoked with no
	// sample points; gonum matrices cannot have a zero dimension.
	ErrEmptyBatch = errors.New("orthopoly: empty input batch")
)

// Family identifies how a Basis was constructed, for diagnostics only;
// evaluation depends exclusively on the coefficient tables.
type Family uint8

const (
	Custom Family = iota
	LegendreFamily
	JacobiFamily
	ChebyshevFamily
)

// Basis is an immutable degree-(N-1) orthogonal polynomial family.
// Construct one via NewBasis or the named family constructors; after
// that it is read-only and safe to share across goroutines.
type Basis struct {
	A, B, C []float64
	// Normalized records whether the coefficients were rescaled to L2
	// orthonormality.
	Normalized bool

	family      Family
	alpha, beta float64
}

// NewBasis builds a basis directly from recurrence coefficients. The
// three slices must have equal nonzero length.
func NewBasis(A, B, C []float64) (*Basis, error) {
	if len(A) == 0 || len(A) != len(B) || len(A) != len(C) {
		return nil, fmt.Errorf("%w: lengths A=%d B=%d C=%d",
			ErrBadCoefficients, len(A), len(B), len(C))
	}
	return &Basis{A: A, B: B, C: C, family: Custom}, nil
}

// Len returns the number of polynomials N.
func (b *Basis) Len() int { return len(b.A) }

// Family returns the constructor family of the basis.
func (b *Basis) Family() Family { return b.family }

func (b *Basis) checkLen(bufs ...[]float64) error {
	for _, s := range bufs {
		if len(s) < b.Len() {
			return fmt.Errorf("%w: need %d, have %d", ErrBufferSize, b.Len(), len(s))
		}
	}
	return nil
}

// Evaluate returns p_0(x)..p_{N-1}(x).
func (b *Basis) Evaluate(x float64) []float64 {
	p := make([]float64, b.Len())
	if err := b.EvaluateInto(p, x); err != nil {
		panic(err)
	}
	return p
}

// EvaluateInto fills p with the polynomial values at x. p must have
// length at least N; on error p is untouched.
func (b *Basis) EvaluateInto(p []float64, x float64) error {
	if err := b.checkLen(p); err != nil {
		return err
	}
	N := b.Len()
	p[0] = b.A[0]
	if N == 1 {
		return nil
	}
	p[1] = b.A[1]*x + b.B[1]
	for l := 2; l < N; l++ {
		p[l] = (b.A[l]*x+b.B[l])*p[l-1] + b.C[l]*p[l-2]
	}
	return nil
}

// EvaluateD returns the values and first derivatives at x.
func (b *Basis) EvaluateD(x float64) (p, dp []float64) {
	p = make([]float64, b.Len())
	dp = make([]float64, b.Len())
	if err := b.EvaluateDInto(p, dp, x); err != nil {
		panic(err)
	}
	return
}

// EvaluateDInto advances the value and derivative recurrences together:
// differentiating the three-term step term by term gives
//
//	p_l'  = (A[l]*x + B[l])*p_{l-1}' + A[l]*p_{l-1} + C[l]*p_{l-2}'
//
// so the derivative table is exactly consistent with the value table.
func (b *Basis) EvaluateDInto(p, dp []float64, x float64) error {
	if err := b.checkLen(p, dp); err != nil {
		return err
	}
	N := b.Len()
	p[0], dp[0] = b.A[0], 0
	if N == 1 {
		return nil
	}
	p[1], dp[1] = b.A[1]*x+b.B[1], b.A[1]
	for l := 2; l < N; l++ {
		ax := b.A[l]*x + b.B[l]
		p[l] = ax*p[l-1] + b.C[l]*p[l-2]
		dp[l] = ax*dp[l-1] + b.A[l]*p[l-1] + b.C[l]*dp[l-2]
	}
	return nil
}

// EvaluateDD returns values, first and second derivatives at x.
func (b *Basis) EvaluateDD(x float64) (p, dp, ddp []float64) {
	p = make([]float64, b.Len())
	dp = make([]float64, b.Len())
	ddp = make([]float64, b.Len())
	if err := b.EvaluateDDInto(p, dp, ddp, x); err != nil {
		panic(err)
	}
	return
}

// EvaluateDDInto carries p, p' and p” through the same coupled step:
//
//	p_l'' = (A[l]*x + B[l])*p_{l-1}'' + 2*A[l]*p_{l-1}' + C[l]*p_{l-2}''
func (b *Basis) EvaluateDDInto(p, dp, ddp []float64, x float64) error {
	if err := b.checkLen(p, dp, ddp); err != nil {
		return err
	}
	N := b.Len()
	p[0], dp[0], ddp[0] = b.A[0], 0, 0
	if N == 1 {
		return nil
	}
	p[1], dp[1], ddp[1] = b.A[1]*x+b.B[1], b.A[1], 0
	for l := 2; l < N; l++ {
		ax := b.A[l]*x + b.B[l]
		p[l] = ax*p[l-1] + b.C[l]*p[l-2]
		dp[l] = ax*dp[l-1] + b.A[l]*p[l-1] + b.C[l]*dp[l-2]
		ddp[l] = ax*ddp[l-1] + 2*b.A[l]*dp[l-1] + b.C[l]*ddp[l-2]
	}
	return nil
}

// PullbackX contracts an upstream gradient u with the derivative of the
// basis at x, returning d(sum_i u[i]*p_i(x))/dx. This is the
// reverse-mode contract for scalar inputs.
func (b *Basis) PullbackX(x float64, u []float64) (float64, error) {
	if len(u) < b.Len() {
		return 0, fmt.Errorf("%w: need %d, have %d", ErrBufferSize, b.Len(), len(u))
	}
	_, dp := b.EvaluateD(x)
	return floats.Dot(u[:b.Len()], dp), nil
}

// PullbackBatch is the batched reverse-mode contract: U is a
// len(xs) x N matrix of upstream gradients, row i belonging to sample
// xs[i]; the result holds d(sum_j U[i,j]*p_j(xs[i]))/dx_i.
func (b *Basis) PullbackBatch(xs []float64, U *mat.Dense) ([]float64, error) {
	r, c := U.Dims()
	if r != len(xs) || c != b.Len() {
		return nil, fmt.Errorf("%w: upstream is %dx%d, want %dx%d",
			ErrBufferSize, r, c, len(xs), b.Len())
	}
	g := make([]float64, len(xs))
	dp := make([]float64, b.Len())
	p := make([]float64, b.Len())
	for i, x := range xs {
		if err := b.EvaluateDInto(p, dp, x); err != nil {
			return nil, err
		}
		g[i] = floats.Dot(U.RawRowView(i), dp)
	}
	return g, nil
}

// Vandermonde returns the len(xs) x N matrix V with V[i,j] = p_j(xs[i]).
// xs must be non-empty.
func (b *Basis) Vandermonde(xs []float64) (*mat.Dense, error) {
	if len(xs) == 0 {
		return nil, ErrEmptyBatch
	}
	V := mat.NewDense(len(xs), b.Len(), nil)
	for i, x := range xs {
		if err := b.EvaluateInto(V.RawRowView(i), x); err != nil {
			return nil, err
		}
	}
	return V, nil
}

// GradVandermonde returns V and dV with dV[i,j] = p_j'(xs[i]).
// xs must be non-empty.
func (b *Basis) GradVandermonde(xs []float64) (V, dV *mat.Dense, err error) {
	if len(xs) == 0 {
		return nil, nil, ErrEmptyBatch
	}
	V = mat.NewDense(len(xs), b.Len(), nil)
	dV = mat.NewDense(len(xs), b.Len(), nil)
	for i, x := range xs {
		if err := b.EvaluateDInto(V.RawRowView(i), dV.RawRowView(i), x); err != nil {
			return nil, nil, err
		}
	}
	return V, dV, nil
}
