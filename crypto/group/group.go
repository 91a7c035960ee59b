// Package group wraps the BN254 G1 and G2 groups for the SRS pipeline:
// generators, batched Jacobian-to-affine conversion and the raw point
// encoding of the SRS file.
package group

import (
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"

	"github.com/sifnoc/plonkish/parallel"
)

// Generators returns the affine G1 and G2 generators.
func Generators() (bn254.G1Affine, bn254.G2Affine) {
	_, _, g1, g2 := bn254.Generators()
	return g1, g2
}

// batchInvertE2 replaces every nonzero entry of zs with its inverse using
// one E2 inversion. Zero entries are left untouched. gnark-crypto keeps its
// E2 batch inversion in an internal package, so G2 carries its own.
func batchInvertE2(zs []bn254.E2) {
	if len(zs) == 0 {
		return
	}
	prefix := make([]bn254.E2, len(zs))
	var acc bn254.E2
	acc.SetOne()
	for i := range zs {
		prefix[i] = acc
		if zs[i].IsZero() {
			continue
		}
		acc.Mul(&acc, &zs[i])
	}
	acc.Inverse(&acc)
	for i := len(zs) - 1; i >= 0; i-- {
		if zs[i].IsZero() {
			continue
		}
		var inv bn254.E2
		inv.Mul(&acc, &prefix[i])
		acc.Mul(&acc, &zs[i])
		zs[i] = inv
	}
}

// BatchToAffineG1 normalises Jacobian points with a single shared inversion.
// The point at infinity maps to the zero affine point (0, 0).
func BatchToAffineG1(points []bn254.G1Jac, workers int) []bn254.G1Affine {
	zs := make([]fp.Element, len(points))
	for i := range points {
		zs[i] = points[i].Z
	}
	zs = fp.BatchInvert(zs)

	out := make([]bn254.G1Affine, len(points))
	parallel.Execute(len(points), workers, func(start, end int) {
		var zInv2, zInv3 fp.Element
		for i := start; i < end; i++ {
			if points[i].Z.IsZero() {
				continue
			}
			zInv2.Square(&zs[i])
			zInv3.Mul(&zInv2, &zs[i])
			out[i].X.Mul(&points[i].X, &zInv2)
			out[i].Y.Mul(&points[i].Y, &zInv3)
		}
	})
	return out
}

// BatchToAffineG2 is BatchToAffineG1 for G2.
func BatchToAffineG2(points []bn254.G2Jac, workers int) []bn254.G2Affine {
	zs := make([]bn254.E2, len(points))
	for i := range points {
		zs[i] = points[i].Z
	}
	batchInvertE2(zs)

	out := make([]bn254.G2Affine, len(points))
	parallel.Execute(len(points), workers, func(start, end int) {
		var zInv2, zInv3 bn254.E2
		for i := start; i < end; i++ {
			if points[i].Z.IsZero() {
				continue
			}
			zInv2.Square(&zs[i])
			zInv3.Mul(&zInv2, &zs[i])
			out[i].X.Mul(&points[i].X, &zInv2)
			out[i].Y.Mul(&points[i].Y, &zInv3)
		}
	})
	return out
}
