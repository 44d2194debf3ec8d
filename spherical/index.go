package spherical

// Index arithmetic for the two storage layouts used by the spherical
// harmonic evaluators. All indices are 0-based.
//
// Full layout (complex harmonics Y_{l,m}, -l <= m <= l): l-major order,
// so degree l occupies the 2l+1 slots [l*l, (l+1)*(l+1)).
//
// Triangular layout (associated Legendre P_l^m, 0 <= m <= l): only the
// non-negative orders are stored, degree l occupying l+1 slots starting
// at l*(l+1)/2.

// SizeY returns the length of the full harmonic vector for maximum
// degree L: (L+1)^2.
func SizeY(L int) int {
	return (L + 1) * (L + 1)
}

// SizeP returns the length of the triangular associated-Legendre buffer
// for maximum degree L: (L+1)(L+2)/2.
func SizeP(L int) int {
	return (L + 1) * (L + 2) / 2
}

// IndexY returns the flat index of Y_{l,m} in the full layout.
func IndexY(l, m int) int {
	return l*l + l + m
}

// IndexP returns the flat index of P_l^m in the triangular layout.
// Requires m >= 0.
func IndexP(l, m int) int {
	return l*(l+1)/2 + m
}

// IdxToLM inverts IndexY: given a flat index it recovers (l, m).
// l = floor(sqrt(i)), m = i - l - l*l.
func IdxToLM(i int) (l, m int) {
	l = isqrt(i)
	m = i - l - l*l
	return
}

// isqrt returns floor(sqrt(n)) for n >= 0 using a binary decomposition,
// exact for all int inputs unlike the float round trip.
func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	val := uint64(n)
	var g uint64

	bshift := 0
	for temp := val; temp > 1; temp >>= 1 {
		bshift++
	}
	bshift >>= 1

	b := uint64(1) << bshift
	for bshift >= 0 {
		t := ((g << 1) + b) << bshift
		if t <= val {
			g += b
			val -= t
		}
		b >>= 1
		bshift--
	}
	return int(g)
}
