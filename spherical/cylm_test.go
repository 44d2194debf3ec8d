package spherical

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randDirection(rng *rand.Rand) (x, y, z float64) {
	for {
		x, y, z = rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()
		if x*x+y*y+z*z > 1e-4 {
			return
		}
	}
}

func TestCYlmLength(t *testing.T) {
	for L := 0; L <= 8; L++ {
		b := NewCYlmBasis(L)
		assert.Equal(t, L, b.MaxL())
		assert.Equal(t, SizeY(L), b.Len())
		Y, err := b.Evaluate(0.3, -0.2, 0.9)
		require.NoError(t, err)
		assert.Len(t, Y, SizeY(L))
	}
}

func TestCYlmZeroVector(t *testing.T) {
	b := NewCYlmBasis(3)
	_, err := b.Evaluate(0, 0, 0)
	require.ErrorIs(t, err, ErrZeroVector)
}

func TestCYlmBufferTooShort(t *testing.T) {
	b := NewCYlmBasis(3)
	short := make([]complex128, b.Len()-1)
	err := b.EvaluateInto(short, 1, 2, 3)
	require.ErrorIs(t, err, ErrBufferSize)
	assert.Equal(t, make([]complex128, b.Len()-1), short)
}

func TestCYlmLowDegreeClosedForms(t *testing.T) {
	b := NewCYlmBasis(2)
	rng := rand.New(rand.NewSource(21))
	for trial := 0; trial < 25; trial++ {
		x, y, z := randDirection(rng)
		Y, err := b.Evaluate(x, y, z)
		require.NoError(t, err)

		r := math.Sqrt(x*x + y*y + z*z)
		ux, uy, uz := x/r, y/r, z/r

		assert.InDelta(t, 0.5/math.Sqrt(math.Pi), real(Y[IndexY(0, 0)]), 1e-14)
		assert.InDelta(t, 0.0, imag(Y[IndexY(0, 0)]), 1e-14)

		c10 := math.Sqrt(3 / (4 * math.Pi))
		assert.InDelta(t, c10*uz, real(Y[IndexY(1, 0)]), 1e-13)

		// Y_1^1 = -sqrt(3/8pi) (x + i*y)/r
		c11 := math.Sqrt(3 / (8 * math.Pi))
		got := Y[IndexY(1, 1)]
		assert.InDelta(t, -c11*ux, real(got), 1e-13)
		assert.InDelta(t, -c11*uy, imag(got), 1e-13)

		// Y_2^0 = sqrt(5/16pi) (3z^2/r^2 - 1)
		c20 := math.Sqrt(5 / (16 * math.Pi))
		assert.InDelta(t, c20*(3*uz*uz-1), real(Y[IndexY(2, 0)]), 1e-13)

		// Y_2^2 = sqrt(15/32pi) ((x+iy)/r)^2
		c22 := math.Sqrt(15 / (32 * math.Pi))
		w := complex(ux, uy)
		want := complex(c22, 0) * w * w
		assert.InDelta(t, real(want), real(Y[IndexY(2, 2)]), 1e-13)
		assert.InDelta(t, imag(want), imag(Y[IndexY(2, 2)]), 1e-13)
	}
}

func TestCYlmConjugateSymmetry(t *testing.T) {
	const L = 7
	b := NewCYlmBasis(L)
	rng := rand.New(rand.NewSource(9))
	for trial := 0; trial < 20; trial++ {
		x, y, z := randDirection(rng)
		Y, err := b.Evaluate(x, y, z)
		require.NoError(t, err)
		for l := 0; l <= L; l++ {
			sig := 1.0
			for m := 1; m <= l; m++ {
				sig = -sig
				want := complex(sig, 0) * cmplx.Conj(Y[IndexY(l, m)])
				got := Y[IndexY(l, -m)]
				assert.InDeltaf(t, real(want), real(got), 1e-13, "re l=%d m=%d", l, m)
				assert.InDeltaf(t, imag(want), imag(got), 1e-13, "im l=%d m=%d", l, m)
			}
		}
	}
}

func TestCYlmScaleInvariance(t *testing.T) {
	// Y depends only on direction.
	b := NewCYlmBasis(5)
	Y1, err := b.Evaluate(0.4, -0.7, 1.1)
	require.NoError(t, err)
	Y2, err := b.Evaluate(4, -7, 11)
	require.NoError(t, err)
	for i := range Y1 {
		assert.InDelta(t, real(Y1[i]), real(Y2[i]), 1e-13)
		assert.InDelta(t, imag(Y1[i]), imag(Y2[i]), 1e-13)
	}
}

func TestCYlmDeterminism(t *testing.T) {
	b := NewCYlmBasis(6)
	Y1, err := b.Evaluate(1, 2, 3)
	require.NoError(t, err)
	Y2, err := b.Evaluate(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, Y1, Y2, "repeated evaluation must be bit-identical")
}

func TestCYlmGradientsMatchFiniteDifferences(t *testing.T) {
	const L = 6
	b := NewCYlmBasis(L)
	rng := rand.New(rand.NewSource(13))
	h := 1e-6

	for trial := 0; trial < 15; trial++ {
		x, y, z := randDirection(rng)
		// Keep clear of the poles where the azimuth is ill-conditioned.
		if x*x+y*y < 0.05*(x*x+y*y+z*z) {
			continue
		}
		Y, dY, err := b.EvaluateED(x, y, z)
		require.NoError(t, err)

		Yc, err := b.Evaluate(x, y, z)
		require.NoError(t, err)
		assert.Equal(t, Yc, Y, "value and gradient paths must agree")

		for c := 0; c < 3; c++ {
			dx := [3]float64{}
			dx[c] = h
			Yp, err := b.Evaluate(x+dx[0], y+dx[1], z+dx[2])
			require.NoError(t, err)
			Ym, err := b.Evaluate(x-dx[0], y-dx[1], z-dx[2])
			require.NoError(t, err)
			for i := range Y {
				fd := (Yp[i] - Ym[i]) / complex(2*h, 0)
				assert.InDeltaf(t, real(fd), real(dY[i][c]),
					1e-5*(1+math.Abs(real(fd))), "re dY[%d][%d]", i, c)
				assert.InDeltaf(t, imag(fd), imag(dY[i][c]),
					1e-5*(1+math.Abs(imag(fd))), "im dY[%d][%d]", i, c)
			}
		}
	}
}

func TestCYlmGradientsOnZAxis(t *testing.T) {
	// On the z axis sin(theta) is exactly zero and the azimuthal part of
	// the gradient survives only through the P/sin(theta) quotient; the
	// m = +-1 harmonics keep a nonzero x/y gradient there.
	const L = 4
	b := NewCYlmBasis(L)
	h := 1e-6

	for _, tc := range []struct {
		name    string
		x, y, z float64
	}{
		{"north", 0, 0, 1},
		{"south", 0, 0, -1},
		{"north scaled", 0, 0, 2.5},
	} {
		t.Run(tc.name, func(t *testing.T) {
			Y, dY, err := b.EvaluateED(tc.x, tc.y, tc.z)
			require.NoError(t, err)

			// Every m != 0 harmonic vanishes on the axis.
			for l := 1; l <= L; l++ {
				for m := 1; m <= l; m++ {
					assert.Equal(t, complex(0, 0), Y[IndexY(l, m)])
					assert.Equal(t, complex(0, 0), Y[IndexY(l, -m)])
				}
			}

			for c := 0; c < 3; c++ {
				dx := [3]float64{}
				dx[c] = h
				Yp, err := b.Evaluate(tc.x+dx[0], tc.y+dx[1], tc.z+dx[2])
				require.NoError(t, err)
				Ym, err := b.Evaluate(tc.x-dx[0], tc.y-dx[1], tc.z-dx[2])
				require.NoError(t, err)
				for i := range Yp {
					fd := (Yp[i] - Ym[i]) / complex(2*h, 0)
					assert.InDeltaf(t, real(fd), real(dY[i][c]),
						1e-5*(1+math.Abs(real(fd))), "re dY[%d][%d]", i, c)
					assert.InDeltaf(t, imag(fd), imag(dY[i][c]),
						1e-5*(1+math.Abs(imag(fd))), "im dY[%d][%d]", i, c)
				}
			}
		})
	}

	// Closed form at the north pole: Y_1^1 = -sqrt(3/8pi) (x+iy)/r, so
	// dY_1^1/dx = -sqrt(3/8pi)/r and dY_1^1/dy = -i*sqrt(3/8pi)/r.
	_, dY, err := b.EvaluateED(0, 0, 1)
	require.NoError(t, err)
	c11 := math.Sqrt(3 / (8 * math.Pi))
	g := dY[IndexY(1, 1)]
	assert.InDelta(t, -c11, real(g[0]), 1e-14)
	assert.InDelta(t, 0, imag(g[0]), 1e-14)
	assert.InDelta(t, 0, real(g[1]), 1e-14)
	assert.InDelta(t, -c11, imag(g[1]), 1e-14)
	assert.InDelta(t, 0, real(g[2]), 1e-14)
	assert.InDelta(t, 0, imag(g[2]), 1e-14)
}

func TestCYlmPullbackMatchesFiniteDifference(t *testing.T) {
	const L = 5
	b := NewCYlmBasis(L)
	rng := rand.New(rand.NewSource(17))
	h := 1e-6

	for trial := 0; trial < 10; trial++ {
		x, y, z := randDirection(rng)
		if x*x+y*y < 0.05*(x*x+y*y+z*z) {
			continue
		}
		u := make([]complex128, b.Len())
		for i := range u {
			u[i] = complex(rng.NormFloat64(), rng.NormFloat64())
		}
		g, err := b.Pullback(u, x, y, z)
		require.NoError(t, err)

		f := func(x, y, z float64) float64 {
			Y, err := b.Evaluate(x, y, z)
			require.NoError(t, err)
			var s float64
			for i := range Y {
				s += real(cmplx.Conj(u[i]) * Y[i])
			}
			return s
		}
		fdx := (f(x+h, y, z) - f(x-h, y, z)) / (2 * h)
		fdy := (f(x, y+h, z) - f(x, y-h, z)) / (2 * h)
		fdz := (f(x, y, z+h) - f(x, y, z-h)) / (2 * h)
		assert.InDelta(t, fdx, g[0], 1e-4*(1+math.Abs(fdx)))
		assert.InDelta(t, fdy, g[1], 1e-4*(1+math.Abs(fdy)))
		assert.InDelta(t, fdz, g[2], 1e-4*(1+math.Abs(fdz)))
	}
}

func TestCYlmEqual(t *testing.T) {
	a := NewCYlmBasis(4)
	b := NewCYlmBasis(4)
	c := NewCYlmBasis(5)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))

	// Pool state must not affect identity.
	_, err := a.Evaluate(1, 0, 0)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}
