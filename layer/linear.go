// Package layer provides a minimal differentiable linear wrapper over
// an orthogonal polynomial basis, the shape in which the evaluators are
// consumed as machine-learning building blocks. The forward pass maps a
// batch of scalar inputs through the basis and a weight matrix; the
// backward pass implements the reverse-mode pullback contract: given an
// upstream gradient with respect to the outputs it returns gradients
// with respect to both the inputs and the weights.
package layer

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/acekit/polybasis/orthopoly"
	"github.com/acekit/polybasis/utils"
)

// ErrShape indicates a batch or gradient matrix whose dimensions do not
// match the layer configuration.
var ErrShape = errors.New("layer: shape mismatch")

// Layout selects the orientation of the output matrix. It is fixed at
// construction; Forward and Backward never re-branch on it per sample.
type Layout uint8

const (
	// BatchFirst lays outputs out as (batch x outDim).
	BatchFirst Layout = iota
	// FeatureFirst lays outputs out as (outDim x batch).
	FeatureFirst
)

// Linear is a dense layer out = W * basis(x) applied per sample.
type Linear struct {
	basis  *orthopoly.Basis
	W      *mat.Dense // outDim x N
	layout Layout

	scratch utils.Pool[float64]
}

// NewLinear builds a layer over basis with outDim outputs. Weights are
// initialized from a scaled normal distribution; rng may be nil for the
// default source.
func NewLinear(basis *orthopoly.Basis, outDim int, layout Layout, rng *rand.Rand) *Linear {
	n := basis.Len()
	data := make([]float64, outDim*n)
	scale := 1 / math.Sqrt(float64(n))
	for i := range data {
		if rng != nil {
			data[i] = rng.NormFloat64() * scale
		} else {
			data[i] = rand.NormFloat64() * scale
		}
	}
	return &Linear{
		basis:  basis,
		W:      mat.NewDense(outDim, n, data),
		layout: layout,
	}
}

// Weights exposes the parameter matrix (outDim x N).
func (ll *Linear) Weights() *mat.Dense { return ll.W }

// OutDim returns the number of outputs per sample.
func (ll *Linear) OutDim() int {
	r, _ := ll.W.Dims()
	return r
}

// Forward evaluates the layer on a batch of scalar inputs. The result
// is (batch x outDim) for BatchFirst, (outDim x batch) for
// FeatureFirst. An empty batch is a shape error.
func (ll *Linear) Forward(xs []float64) (*mat.Dense, error) {
	if len(xs) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrShape)
	}
	P, err := ll.basis.Vandermonde(xs) // batch x N
	if err != nil {
		return nil, err
	}
	var out mat.Dense
	if ll.layout == BatchFirst {
		out.Mul(P, ll.W.T())
	} else {
		out.Mul(ll.W, P.T())
	}
	return &out, nil
}

// Backward computes the reverse-mode gradients for a batch. upstream
// must have the same shape Forward produces for the configured layout.
// It returns dX[i] = d(sum upstream .* out)/dx_i and dW of the same
// shape as the weights.
func (ll *Linear) Backward(xs []float64, upstream *mat.Dense) (dX []float64, dW *mat.Dense, err error) {
	if len(xs) == 0 {
		return nil, nil, fmt.Errorf("%w: empty batch", ErrShape)
	}
	outDim := ll.OutDim()
	r, c := upstream.Dims()
	wantR, wantC := len(xs), outDim
	if ll.layout == FeatureFirst {
		wantR, wantC = outDim, len(xs)
	}
	if r != wantR || c != wantC {
		return nil, nil, fmt.Errorf("%w: upstream is %dx%d, want %dx%d",
			ErrShape, r, c, wantR, wantC)
	}

	// U as batch x outDim regardless of layout.
	var U mat.Matrix = upstream
	if ll.layout == FeatureFirst {
		U = upstream.T()
	}

	P, dP, err := ll.basis.GradVandermonde(xs) // batch x N each
	if err != nil {
		return nil, nil, err
	}

	// dW = U^T * P  (outDim x N)
	dW = mat.NewDense(outDim, ll.basis.Len(), nil)
	dW.Mul(U.T(), P)

	// dX_i = (U W)_i row dotted with dP row i.
	g := ll.scratch.Get(len(xs) * ll.basis.Len())
	defer ll.scratch.Put(g)
	UW := mat.NewDense(len(xs), ll.basis.Len(), g)
	UW.Mul(U, ll.W)

	dX = make([]float64, len(xs))
	for i := range xs {
		dX[i] = floats.Dot(UW.RawRowView(i), dP.RawRowView(i))
	}
	return dX, dW, nil
}
