package spherical

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/acekit/polybasis/utils"
)

// CYlmBasis evaluates the complex spherical harmonics Y_{l,m} for all
// 0 <= l <= L, -l <= m <= l, in the full flat layout of IndexY. It owns
// one ALPolynomials table plus scratch pools for the intermediate
// buffers, so steady-state evaluation does not allocate.
//
// The mathematical identity of a basis is its degree alone; the pools
// are reusable scratch state. The basis is safe for concurrent use.
type CYlmBasis struct {
	alp *ALPolynomials

	poolP  utils.Pool[float64]
	poolDP utils.Pool[float64]
	poolQ  utils.Pool[float64]
	poolY  utils.Pool[complex128]
	poolDY utils.Pool[[3]complex128]
}

// NewCYlmBasis constructs a basis for maximum degree L >= 0.
func NewCYlmBasis(L int) *CYlmBasis {
	return &CYlmBasis{alp: NewALPolynomials(L)}
}

// MaxL returns the maximum degree.
func (b *CYlmBasis) MaxL() int { return b.alp.L }

// Len returns the output vector length, SizeY(L).
func (b *CYlmBasis) Len() int { return SizeY(b.alp.L) }

// Equal reports whether two bases define the same harmonic set. Scratch
// pool state is not part of the comparison.
func (b *CYlmBasis) Equal(other *CYlmBasis) bool {
	return other != nil && b.alp.L == other.alp.L
}

// Evaluate returns Y_{l,m}(R) for the Cartesian direction (x, y, z).
func (b *CYlmBasis) Evaluate(x, y, z float64) ([]complex128, error) {
	Y := make([]complex128, b.Len())
	if err := b.EvaluateInto(Y, x, y, z); err != nil {
		return nil, err
	}
	return Y, nil
}

// EvaluateInto fills Y in place. Y must have length at least SizeY(L);
// on any error Y is untouched.
func (b *CYlmBasis) EvaluateInto(Y []complex128, x, y, z float64) error {
	if len(Y) < b.Len() {
		return fmt.Errorf("%w: need %d, have %d", ErrBufferSize, b.Len(), len(Y))
	}
	s, err := CartToSpher(x, y, z)
	if err != nil {
		return err
	}

	P := b.poolP.Get(b.alp.Len())
	defer b.poolP.Put(P)
	if err := b.alp.EvaluateInto(P, s); err != nil {
		return err
	}

	b.combine(Y, P, s)
	return nil
}

// combine forms the harmonics from the associated Legendre table and
// the azimuthal phase. The phase e^{i*m*phi} is carried incrementally
// by one complex multiply per order, so the whole combination costs no
// transcendental calls at all.
func (b *CYlmBasis) combine(Y []complex128, P []float64, s Coords) {
	L := b.alp.L
	oosqrt2 := 1 / math.Sqrt2

	for l := 0; l <= L; l++ {
		Y[IndexY(l, 0)] = complex(P[IndexP(l, 0)]*oosqrt2, 0)
	}

	ep := complex(oosqrt2, 0)
	epFact := complex(s.CosPhi, s.SinPhi)
	sig := 1.0
	for m := 1; m <= L; m++ {
		sig = -sig
		ep *= epFact
		em := complex(sig, 0) * cmplx.Conj(ep)
		for l := m; l <= L; l++ {
			p := complex(P[IndexP(l, m)], 0)
			Y[IndexY(l, -m)] = em * p
			Y[IndexY(l, m)] = ep * p
		}
	}
}

// EvaluateED returns the harmonic values together with their Cartesian
// gradients dY[i] = (dY_i/dx, dY_i/dy, dY_i/dz).
func (b *CYlmBasis) EvaluateED(x, y, z float64) ([]complex128, [][3]complex128, error) {
	Y := make([]complex128, b.Len())
	dY := make([][3]complex128, b.Len())
	if err := b.EvaluateEDInto(Y, dY, x, y, z); err != nil {
		return nil, nil, err
	}
	return Y, dY, nil
}

// EvaluateEDInto fills Y and dY in place. The gradients are assembled
// from the same associated-Legendre pass that produced the values (the
// coupled P/dP recurrence) and the phase derivative d(e^{i*m*phi})/dphi
// = i*m*e^{i*m*phi}, then mapped to Cartesian components through the
// spherical Jacobian. Both buffers must have length at least SizeY(L);
// on any error neither is written.
func (b *CYlmBasis) EvaluateEDInto(Y []complex128, dY [][3]complex128, x, y, z float64) error {
	if len(Y) < b.Len() || len(dY) < b.Len() {
		return fmt.Errorf("%w: need %d, have %d and %d",
			ErrBufferSize, b.Len(), len(Y), len(dY))
	}
	s, err := CartToSpher(x, y, z)
	if err != nil {
		return err
	}

	P := b.poolP.Get(b.alp.Len())
	defer b.poolP.Put(P)
	dP := b.poolDP.Get(b.alp.Len())
	defer b.poolDP.Put(dP)
	Q := b.poolQ.Get(b.alp.Len())
	defer b.poolQ.Put(Q)
	if err := b.alp.EvaluateEDQInto(P, dP, Q, s); err != nil {
		return err
	}

	L := b.alp.L
	oosqrt2 := 1 / math.Sqrt2

	for l := 0; l <= L; l++ {
		i := IndexY(l, 0)
		Y[i] = complex(P[IndexP(l, 0)]*oosqrt2, 0)
		gx, gy, gz := DspherToDcart(s, complex(dP[IndexP(l, 0)]*oosqrt2, 0), 0)
		dY[i] = [3]complex128{gx, gy, gz}
	}

	ep := complex(oosqrt2, 0)
	epFact := complex(s.CosPhi, s.SinPhi)
	sig := 1.0
	for m := 1; m <= L; m++ {
		sig = -sig
		ep *= epFact
		em := complex(sig, 0) * cmplx.Conj(ep)
		im := complex(0, float64(m))
		for l := m; l <= L; l++ {
			p := complex(P[IndexP(l, m)], 0)
			dp := complex(dP[IndexP(l, m)], 0)
			q := complex(Q[IndexP(l, m)], 0)
			iPos, iNeg := IndexY(l, m), IndexY(l, -m)
			Y[iNeg] = em * p
			Y[iPos] = ep * p

			// d/dphi of ep*p is i*m*ep*p; of em*p it is -i*m*em*p.
			// The sin(theta) divisor of the azimuthal term is folded
			// into q, which stays finite on the z axis.
			phiPos := im * ep * q
			gx, gy, gz := DspherToDcart(s, ep*dp, phiPos)
			dY[iPos] = [3]complex128{gx, gy, gz}
			phiNeg := -im * em * q
			gx, gy, gz = DspherToDcart(s, em*dp, phiNeg)
			dY[iNeg] = [3]complex128{gx, gy, gz}
		}
	}
	return nil
}

// Pullback contracts an upstream gradient u (w.r.t. the complex output
// vector) down to the real gradient w.r.t. the Cartesian input, i.e.
// the gradient of Re<u, Y>. This is the reverse-mode hook consumed by
// layer wrappers.
func (b *CYlmBasis) Pullback(u []complex128, x, y, z float64) ([3]float64, error) {
	if len(u) < b.Len() {
		return [3]float64{}, fmt.Errorf("%w: need %d, have %d",
			ErrBufferSize, b.Len(), len(u))
	}
	Y := b.poolY.Get(b.Len())
	defer b.poolY.Put(Y)
	dY := b.poolDY.Get(b.Len())
	defer b.poolDY.Put(dY)
	if err := b.EvaluateEDInto(Y, dY, x, y, z); err != nil {
		return [3]float64{}, err
	}
	var g [3]float64
	for i := 0; i < b.Len(); i++ {
		uc := cmplx.Conj(u[i])
		for c := 0; c < 3; c++ {
			g[c] += real(uc * dY[i][c])
		}
	}
	return g, nil
}
