package spherical

import (
	"fmt"
	"math"
)

// p00 is the normalized P_0^0 = sqrt(1/(2*pi)). The normalization here
// absorbs the (2l+1)(l-m)!/(l+m)! factors of the spherical-harmonic
// prefactor into the recurrence so that every stored value stays O(1)
// even at large degree, where the raw associated Legendre recursion
// overflows.
const p00 = 0.39894228040143267794

// ALPolynomials evaluates the normalized associated Legendre functions
// P_l^m(cos(theta)) for 0 <= m <= l <= L. The recurrence coefficient
// tables depend only on L; an instance is immutable after construction
// and safe to share across concurrent evaluations.
type ALPolynomials struct {
	L int
	// a, b hold the upward-recurrence coefficients in triangular
	// layout; entries with m > l-2 are unused.
	a, b []float64
}

// NewALPolynomials precomputes the recurrence coefficients for maximum
// degree L >= 0.
func NewALPolynomials(L int) *ALPolynomials {
	if L < 0 {
		panic(fmt.Sprintf("spherical: negative degree %d", L))
	}
	alp := &ALPolynomials{
		L: L,
		a: make([]float64, SizeP(L)),
		b: make([]float64, SizeP(L)),
	}
	for l := 2; l <= L; l++ {
		ls := float64(l * l)
		lm1s := float64((l - 1) * (l - 1))
		for m := 0; m <= l-2; m++ {
			ms := float64(m * m)
			i := IndexP(l, m)
			alp.a[i] = math.Sqrt((4*ls - 1) / (ls - ms))
			alp.b[i] = -math.Sqrt((lm1s - ms) / (4*lm1s - 1))
		}
	}
	return alp
}

// MaxL returns the maximum degree.
func (alp *ALPolynomials) MaxL() int { return alp.L }

// Len returns the length of the evaluation buffer, SizeP(L).
func (alp *ALPolynomials) Len() int { return SizeP(alp.L) }

func (alp *ALPolynomials) checkCoords(s Coords) {
	if math.IsNaN(s.CosTheta) || math.Abs(s.CosTheta) > 1 {
		panic(fmt.Sprintf("spherical: invalid cos(theta) = %v", s.CosTheta))
	}
}

// Evaluate returns the triangular buffer of P_l^m(cos(theta)) values.
func (alp *ALPolynomials) Evaluate(s Coords) []float64 {
	P := make([]float64, alp.Len())
	if err := alp.EvaluateInto(P, s); err != nil {
		panic(err)
	}
	return P
}

// EvaluateInto fills P with the values of all P_l^m at s using the
// stable upward recurrence in l for fixed m. P must have length at
// least SizeP(L); on error the buffer is untouched.
func (alp *ALPolynomials) EvaluateInto(P []float64, s Coords) error {
	if len(P) < alp.Len() {
		return fmt.Errorf("%w: need %d, have %d", ErrBufferSize, alp.Len(), len(P))
	}
	alp.checkCoords(s)

	x, sinT := s.CosTheta, s.SinTheta
	temp := p00
	P[IndexP(0, 0)] = temp
	if alp.L == 0 {
		return nil
	}

	P[IndexP(1, 0)] = x * math.Sqrt(3) * temp
	temp = -math.Sqrt(1.5) * sinT * temp
	P[IndexP(1, 1)] = temp

	for l := 2; l <= alp.L; l++ {
		il := IndexP(l, 0)
		ilm1 := IndexP(l-1, 0)
		ilm2 := IndexP(l-2, 0)
		for m := 0; m <= l-2; m++ {
			P[il+m] = alp.a[il+m] * (x*P[ilm1+m] + alp.b[il+m]*P[ilm2+m])
		}
		// Diagonal seeds P_l^{l-1} and P_l^l from the closed forms.
		P[il+l-1] = x * math.Sqrt(2*float64(l-1)+3) * temp
		temp = -math.Sqrt(1+0.5/float64(l)) * sinT * temp
		P[il+l] = temp
	}
	return nil
}

// EvaluateED returns the values and the theta-derivatives together.
func (alp *ALPolynomials) EvaluateED(s Coords) (P, dP []float64) {
	P = make([]float64, alp.Len())
	dP = make([]float64, alp.Len())
	if err := alp.EvaluateEDInto(P, dP, s); err != nil {
		panic(err)
	}
	return
}

// EvaluateEDInto fills P with values and dP with dP_l^m/dtheta. The two
// recurrences are advanced together in a single pass so that the
// derivative table is exactly the derivative of the value table, never
// a separately accumulated approximation. Both buffers must have length
// at least SizeP(L); on error neither is written.
func (alp *ALPolynomials) EvaluateEDInto(P, dP []float64, s Coords) error {
	if len(P) < alp.Len() || len(dP) < alp.Len() {
		return fmt.Errorf("%w: need %d, have %d and %d",
			ErrBufferSize, alp.Len(), len(P), len(dP))
	}
	alp.evaluateEDQ(P, dP, nil, s)
	return nil
}

// EvaluateEDQInto additionally fills Q with the quotients
// P_l^m(cos(theta))/sin(theta) for m >= 1; the m = 0 entries are set to
// zero. Because P_l^m carries a sin^m(theta) factor, the quotient has a
// finite limit at the poles, and it is advanced here by its own
// recurrence rather than formed by division, so it is exact at
// sin(theta) == 0. This is the term the spherical-harmonic gradient
// needs for its azimuthal component.
func (alp *ALPolynomials) EvaluateEDQInto(P, dP, Q []float64, s Coords) error {
	if len(P) < alp.Len() || len(dP) < alp.Len() || len(Q) < alp.Len() {
		return fmt.Errorf("%w: need %d, have %d, %d and %d",
			ErrBufferSize, alp.Len(), len(P), len(dP), len(Q))
	}
	alp.evaluateEDQ(P, dP, Q, s)
	return nil
}

// evaluateEDQ advances the value, theta-derivative and (when Q is
// non-nil) sin-quotient recurrences together. The quotient satisfies
// the same upward recurrence in l as the value; only its diagonal seed
// chain differs, by one power of sin(theta).
func (alp *ALPolynomials) evaluateEDQ(P, dP, Q []float64, s Coords) {
	alp.checkCoords(s)

	x, sinT := s.CosTheta, s.SinTheta
	temp, tempD := p00, 0.0
	P[IndexP(0, 0)] = temp
	dP[IndexP(0, 0)] = tempD
	if Q != nil {
		Q[IndexP(0, 0)] = 0
	}
	if alp.L == 0 {
		return
	}

	sqrt3 := math.Sqrt(3)
	P[IndexP(1, 0)] = x * sqrt3 * temp
	dP[IndexP(1, 0)] = sqrt3 * (-sinT*temp + x*tempD)
	tempQ := -math.Sqrt(1.5) * temp
	temp, tempD = -math.Sqrt(1.5)*sinT*temp,
		-math.Sqrt(1.5)*(x*temp+sinT*tempD)
	P[IndexP(1, 1)] = temp
	dP[IndexP(1, 1)] = tempD
	if Q != nil {
		Q[IndexP(1, 0)] = 0
		Q[IndexP(1, 1)] = tempQ
	}

	for l := 2; l <= alp.L; l++ {
		il := IndexP(l, 0)
		ilm1 := IndexP(l-1, 0)
		ilm2 := IndexP(l-2, 0)
		for m := 0; m <= l-2; m++ {
			a, b := alp.a[il+m], alp.b[il+m]
			P[il+m] = a * (x*P[ilm1+m] + b*P[ilm2+m])
			dP[il+m] = a * (x*dP[ilm1+m] - sinT*P[ilm1+m] + b*dP[ilm2+m])
		}
		if Q != nil {
			Q[il] = 0
			for m := 1; m <= l-2; m++ {
				a, b := alp.a[il+m], alp.b[il+m]
				Q[il+m] = a * (x*Q[ilm1+m] + b*Q[ilm2+m])
			}
		}
		c := math.Sqrt(2*float64(l-1) + 3)
		P[il+l-1] = x * c * temp
		dP[il+l-1] = c * (x*tempD - sinT*temp)
		f := -math.Sqrt(1 + 0.5/float64(l))
		if Q != nil {
			Q[il+l-1] = x * c * tempQ
			tempQ = f * sinT * tempQ
			Q[il+l] = tempQ
		}
		temp, tempD = f*sinT*temp, f*(x*temp+sinT*tempD)
		P[il+l] = temp
		dP[il+l] = tempD
	}
}
