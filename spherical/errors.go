package spherical

import "errors"

// Errors returned by the coordinate transform and basis evaluators.
var (
	// ErrZeroVector indicates the Cartesian input had zero norm, for
	// which the polar and azimuthal angles are undefined.
	ErrZeroVector = errors.New("spherical: zero input vector")

	// ErrBufferSize indicates a caller-supplied output buffer shorter
	// than the size required for the requested degree.
	ErrBufferSize = errors.New("spherical: output buffer too short")
)
