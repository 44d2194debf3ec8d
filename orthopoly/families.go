package orthopoly

import (
	"fmt"
	"math"
)

// Legendre returns the degree-(N-1) Legendre basis on [-1, 1] with unit
// weight. With normalize the polynomials are rescaled so that
// integral(p_i * p_j) = delta_ij.
func Legendre(N int, normalize bool) *Basis {
	if N < 1 {
		panic("orthopoly: basis needs at least one polynomial")
	}
	b := &Basis{
		A:      make([]float64, N),
		B:      make([]float64, N),
		C:      make([]float64, N),
		family: LegendreFamily,
	}
	b.A[0] = 1
	if N > 1 {
		b.A[1] = 1
	}
	for l := 2; l < N; l++ {
		fl := float64(l)
		b.A[l] = (2*fl - 1) / fl
		b.C[l] = -(fl - 1) / fl
	}
	if normalize {
		// ||P_n||^2 = 2/(2n+1)
		b.rescale(func(n int) float64 { return 2 / (2*float64(n) + 1) })
	}
	return b
}

// Chebyshev returns the degree-(N-1) Chebyshev basis of the first kind
// on [-1, 1] with weight 1/sqrt(1-x^2). With normalize the polynomials
// are rescaled to orthonormality under that weight.
func Chebyshev(N int, normalize bool) *Basis {
	if N < 1 {
		panic("orthopoly: basis needs at least one polynomial")
	}
	b := &Basis{
		A:      make([]float64, N),
		B:      make([]float64, N),
		C:      make([]float64, N),
		family: ChebyshevFamily,
	}
	b.A[0] = 1
	if N > 1 {
		b.A[1] = 1
	}
	for l := 2; l < N; l++ {
		b.A[l] = 2
		b.C[l] = -1
	}
	if normalize {
		// ||T_0||^2 = pi, ||T_n||^2 = pi/2
		b.rescale(func(n int) float64 {
			if n == 0 {
				return math.Pi
			}
			return math.Pi / 2
		})
	}
	return b
}

// Jacobi returns the degree-(N-1) Jacobi basis P_n^(alpha,beta) on
// [-1, 1] with weight (1-x)^alpha * (1+x)^beta. Both exponents must
// exceed -1 for the weight to be integrable.
func Jacobi(N int, alpha, beta float64, normalize bool) (*Basis, error) {
	if N < 1 {
		return nil, fmt.Errorf("%w: N=%d (need >= 1)", ErrBadParameter, N)
	}
	if alpha <= -1 || beta <= -1 {
		return nil, fmt.Errorf("%w: alpha=%v beta=%v (need > -1)",
			ErrBadParameter, alpha, beta)
	}
	b := &Basis{
		A:      make([]float64, N),
		B:      make([]float64, N),
		C:      make([]float64, N),
		family: JacobiFamily,
		alpha:  alpha,
		beta:   beta,
	}
	b.A[0] = 1
	if N > 1 {
		b.A[1] = (alpha + beta + 2) / 2
		b.B[1] = (alpha - beta) / 2
	}
	for l := 2; l < N; l++ {
		fl := float64(l)
		c := 2*fl + alpha + beta
		den := 2 * fl * (fl + alpha + beta)
		b.A[l] = (c - 1) * c / den
		b.B[l] = (c - 1) * (alpha*alpha - beta*beta) / (den * (c - 2))
		b.C[l] = -(fl + alpha - 1) * (fl + beta - 1) * c / (fl * (fl + alpha + beta) * (c - 2))
	}
	if normalize {
		b.rescale(func(n int) float64 { return jacobiNormSq(n, alpha, beta) })
	}
	return b, nil
}

// jacobiNormSq returns ||P_n^(alpha,beta)||^2 under the Jacobi weight,
// computed in log space so large degrees do not overflow the gamma
// function.
func jacobiNormSq(n int, alpha, beta float64) float64 {
	fn := float64(n)
	lg := func(x float64) float64 {
		v, _ := math.Lgamma(x)
		return v
	}
	logH := (alpha+beta+1)*math.Ln2 -
		math.Log(2*fn+alpha+beta+1) +
		lg(fn+alpha+1) + lg(fn+beta+1) -
		lg(fn+alpha+beta+1) - lg(fn+1)
	return math.Exp(logH)
}

// rescale converts the coefficient tables to the orthonormal scaling
// p~_n = p_n / sqrt(normSq(n)). The recurrence transforms as
// A~[l] = A[l]*s[l]/s[l-1], C~[l] = C[l]*s[l]/s[l-2].
func (b *Basis) rescale(normSq func(int) float64) {
	N := b.Len()
	s := make([]float64, N)
	for n := 0; n < N; n++ {
		s[n] = 1 / math.Sqrt(normSq(n))
	}
	b.A[0] *= s[0]
	if N > 1 {
		b.A[1] *= s[1]
		b.B[1] *= s[1]
	}
	for l := 2; l < N; l++ {
		b.A[l] *= s[l] / s[l-1]
		b.B[l] *= s[l] / s[l-1]
		b.C[l] *= s[l] / s[l-2]
	}
	b.Normalized = true
}
