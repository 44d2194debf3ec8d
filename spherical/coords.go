package spherical

import "math"

// Coords holds a point in spherical coordinates, precomputed in the
// trigonometric form the recurrences consume. Invariants: R > 0,
// SinTheta >= 0, |CosTheta| <= 1.
type Coords struct {
	R        float64
	CosTheta float64
	SinTheta float64
	CosPhi   float64
	SinPhi   float64
}

// CartToSpher converts a Cartesian 3-vector to spherical coordinates.
// The polar angle is measured from the +z axis. At the poles
// (sin(theta) == 0) the azimuth is conventionally phi = 0.
// Returns ErrZeroVector for the zero vector.
func CartToSpher(x, y, z float64) (Coords, error) {
	r := math.Sqrt(x*x + y*y + z*z)
	if r == 0 {
		return Coords{}, ErrZeroVector
	}
	cosTheta := z / r
	rxy := math.Sqrt(x*x + y*y)
	s := Coords{
		R:        r,
		CosTheta: cosTheta,
		SinTheta: rxy / r,
		CosPhi:   1,
		SinPhi:   0,
	}
	if rxy > 0 {
		s.CosPhi = x / rxy
		s.SinPhi = y / rxy
	}
	return s, nil
}

// SpherToCart is the inverse transform.
func SpherToCart(s Coords) (x, y, z float64) {
	x = s.R * s.SinTheta * s.CosPhi
	y = s.R * s.SinTheta * s.SinPhi
	z = s.R * s.CosTheta
	return
}

// DspherToDcart converts a gradient expressed in spherical coordinates
// back to Cartesian components for a function with no radial dependence
// (a pure function of direction, as every Y_{l,m} is).
//
// fTheta is df/dtheta. fPhiOverSin is (df/dphi)/sin(theta); callers on
// the harmonic path obtain this quotient from its own recurrence so
// that it is finite everywhere, the poles included.
func DspherToDcart(s Coords, fTheta, fPhiOverSin complex128) (gx, gy, gz complex128) {
	invR := complex(1/s.R, 0)
	ct := complex(s.CosTheta, 0)
	st := complex(s.SinTheta, 0)
	cp := complex(s.CosPhi, 0)
	sp := complex(s.SinPhi, 0)
	gx = (fTheta*ct*cp - fPhiOverSin*sp) * invR
	gy = (fTheta*ct*sp + fPhiOverSin*cp) * invR
	gz = -fTheta * st * invR
	return
}
