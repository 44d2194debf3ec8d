package orthopoly

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// JacobiGQ computes the n+1 Gauss quadrature nodes and weights for the
// Jacobi weight (1-x)^alpha * (1+x)^beta on [-1, 1] via the
// Golub-Welsch algorithm: the nodes are the eigenvalues of the
// symmetric tridiagonal Jacobi matrix, the weights come from the first
// component of each eigenvector.
func JacobiGQ(alpha, beta float64, n int) (x, w []float64) {
	if n == 0 {
		return []float64{-(alpha - beta) / (alpha + beta + 2)},
			[]float64{gamma0(alpha, beta)}
	}

	h1 := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}

	// main diagonal: d0[i] = -(beta^2-alpha^2)/((2i+a+b)*(2i+a+b+2))
	d0 := make([]float64, n+1)
	fac := beta*beta - alpha*alpha
	for i := 0; i <= n; i++ {
		d0[i] = fac / (h1[i] * (h1[i] + 2))
	}
	const eps = 1e-16
	if alpha+beta < 10*eps {
		d0[0] = 0
	}

	d1 := make([]float64, n)
	for i := 0; i < n; i++ {
		ip1 := float64(i + 1)
		v := h1[i]
		d1[i] = 2 / (v + 2) * math.Sqrt(
			ip1*(ip1+alpha+beta)*(ip1+alpha)*(ip1+beta)/(v+1)/(v+3),
		)
	}

	J := symTriDiagonal(d0, d1)

	var eig mat.EigenSym
	if ok := eig.Factorize(J, true); !ok {
		panic("orthopoly: eigenvalue decomposition failed")
	}
	x = eig.Values(nil)

	V := mat.NewDense(len(x), len(x), nil)
	eig.VectorsTo(V)
	w = make([]float64, len(x))
	g0 := gamma0(alpha, beta)
	for i := range w {
		v := V.At(0, i)
		w[i] = v * v * g0
	}
	return x, w
}

// JacobiGL computes the n+1 Gauss-Lobatto nodes for the Jacobi weight,
// the zeros of (1-x^2) * d/dx P_n^(alpha,beta).
func JacobiGL(alpha, beta float64, n int) []float64 {
	if n == 0 {
		return []float64{0}
	}
	if n == 1 {
		return []float64{-1, 1}
	}
	xint, _ := JacobiGQ(alpha+1, beta+1, n-2)
	x := make([]float64, n+1)
	x[0] = -1
	copy(x[1:n], xint)
	x[n] = 1
	return x
}

// gamma0 is the total mass of the Jacobi weight,
// integral over [-1,1] of (1-x)^alpha * (1+x)^beta. Written with
// Gamma(alpha+beta+2) so that alpha+beta = -1 (the Chebyshev weight)
// stays finite.
func gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1
	return math.Gamma(alpha+1) * math.Gamma(beta+1) * math.Pow(2, ab1) /
		math.Gamma(ab1+1)
}

func symTriDiagonal(d0, d1 []float64) *mat.SymDense {
	n := len(d0)
	T := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		T.SetSym(i, i, d0[i])
		if i < n-1 {
			T.SetSym(i, i+1, d1[i])
		}
	}
	return T
}
