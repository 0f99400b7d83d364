/*
NAME
  idct.go

DESCRIPTION
  idct.go implements the two inverse-DCT precision tiers selectable by
  config.DecodeQuality: a fixed-point integer IDCT for the LOW/fast path,
  and a float64 matrix-multiply IDCT (via gonum/mat) for the HIGH path.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mdec

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// IDCT transforms an 8x8 block of dequantized coefficients (row-major, DC
// at index 0) in place into 8x8 spatial-domain samples.
type IDCT interface {
	Transform(block *[64]int32)
}

// integerIDCT is a direct fixed-point separable IDCT, used for
// QualityLow. It trades a small amount of accuracy for speed,
// appropriate for fast scrubbing/playback.
type integerIDCT struct{}

// NewIntegerIDCT returns the fast fixed-point IDCT.
func NewIntegerIDCT() IDCT { return integerIDCT{} }

const (
	idctBits  = 13
	idctRound = 1 << (idctBits - 1)
)

// fixCos[u][x] is cos((2x+1)u*pi/16)/2 in Q13 fixed point, the separable
// IDCT basis shared by both the row and column passes.
var fixCos = func() [8][8]int32 {
	var t [8][8]int32
	for u := 0; u < 8; u++ {
		for x := 0; x < 8; x++ {
			c := math.Cos(float64(2*x+1) * float64(u) * math.Pi / 16)
			if u == 0 {
				c *= 1 / math.Sqrt2
			}
			t[u][x] = int32(math.Round(c * 0.5 * (1 << idctBits)))
		}
	}
	return t
}()

// Transform implements IDCT.
func (integerIDCT) Transform(block *[64]int32) {
	var tmp [64]int32

	// Row pass: for each row, compute 1-D IDCT over the 8 frequency bins.
	for y := 0; y < 8; y++ {
		row := block[y*8 : y*8+8]
		for x := 0; x < 8; x++ {
			var sum int64
			for u := 0; u < 8; u++ {
				sum += int64(row[u]) * int64(fixCos[u][x])
			}
			tmp[y*8+x] = int32((sum + idctRound) >> idctBits)
		}
	}

	// Column pass, writing the result back into block, scaled by 1/2 for
	// each dimension (the 1/2 is folded into fixCos).
	for x := 0; x < 8; x++ {
		col := [8]int32{}
		for y := 0; y < 8; y++ {
			col[y] = tmp[y*8+x]
		}
		for y := 0; y < 8; y++ {
			var sum int64
			for u := 0; u < 8; u++ {
				sum += int64(col[u]) * int64(fixCos[u][y])
			}
			block[y*8+x] = int32((sum + idctRound) >> idctBits)
		}
	}
}

// doubleIDCT is a float64 matrix-multiply IDCT used for QualityHigh
// and QualityPsxExact, built as basis^T * coeffs * basis so that gonum's
// BLAS-backed Mul does the heavy lifting instead of a hand-rolled loop nest.
type doubleIDCT struct {
	basis *mat.Dense // 8x8, basis[x][u] = cos term used by both passes.
}

// dctBasis builds the 8x8 separable DCT basis matrix shared by the forward
// and inverse double-precision transforms.
func dctBasis() *mat.Dense {
	data := make([]float64, 64)
	for u := 0; u < 8; u++ {
		for x := 0; x < 8; x++ {
			c := math.Cos(float64(2*x+1) * float64(u) * math.Pi / 16)
			if u == 0 {
				c *= 1 / math.Sqrt2
			}
			data[x*8+u] = c * 0.5
		}
	}
	return mat.NewDense(8, 8, data)
}

// NewDoubleIDCT returns the double-precision IDCT.
func NewDoubleIDCT() IDCT {
	return &doubleIDCT{basis: dctBasis()}
}

// ForwardDCT performs the forward transform used by the encoder, returning
// rounded coefficients (DC at index 0, row-major). It is the algebraic
// inverse of doubleIDCT.Transform: coeffs = basis^T * pixels * basis.
func ForwardDCT(pixels *[64]int32) [64]int32 {
	basis := dctBasis()
	data := make([]float64, 64)
	for i, v := range pixels {
		data[i] = float64(v)
	}
	p := mat.NewDense(8, 8, data)

	var tmp, out mat.Dense
	tmp.Mul(basis.T(), p)
	out.Mul(&tmp, basis)

	var coeffs [64]int32
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			coeffs[y*8+x] = int32(math.Round(out.At(y, x)))
		}
	}
	return coeffs
}

// Transform implements IDCT.
func (d *doubleIDCT) Transform(block *[64]int32) {
	coeffs := make([]float64, 64)
	for i, v := range block {
		coeffs[i] = float64(v)
	}
	c := mat.NewDense(8, 8, coeffs)

	var tmp, out mat.Dense
	tmp.Mul(d.basis, c)           // rows: spatial x, freq v -> sum over u
	out.Mul(&tmp, d.basis.T())    // cols: spatial x,y

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			block[y*8+x] = int32(math.Round(out.At(y, x)))
		}
	}
}
