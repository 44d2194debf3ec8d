// Package spherical evaluates complex spherical harmonics Y_{l,m} and
// the normalized associated Legendre functions they are built from,
// together with their analytic Cartesian gradients.
//
// The evaluators use stable upward recurrences with precomputed
// coefficients so that values stay bounded at high degree, and the
// derivative tables are advanced in the same recurrence pass as the
// values, keeping the two numerically paired. Buffers are flat slices
// in the layouts defined by IndexY and IndexP.
package spherical
