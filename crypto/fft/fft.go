// Package fft implements the radix-2 transform over Fr used to move the
// power series of the secret between the monomial and Lagrange bases.
//
// The transform is iterative Cooley-Tukey on a single caller-owned buffer:
// a bit-reversal permutation followed by log2(n) butterfly stages. Stages
// run in order; butterflies inside one stage touch disjoint pairs and are
// spread over the worker pool.
package fft

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/sifnoc/plonkish/crypto/field"
	"github.com/sifnoc/plonkish/parallel"
)

var ErrSizeMismatch = errors.New("fft: input length does not match 2^k")

func checkInput(values []fr.Element, k uint32) error {
	if err := field.CheckDomain(k); err != nil {
		return err
	}
	if uint64(len(values)) != uint64(1)<<k {
		return fmt.Errorf("%w: len=%d, k=%d", ErrSizeMismatch, len(values), k)
	}
	return nil
}

// FFT evaluates, in place, the polynomial whose coefficients are values at
// the powers of the primitive 2^k-th root of unity.
func FFT(values []fr.Element, k uint32, workers int) error {
	if err := checkInput(values, k); err != nil {
		return err
	}
	omega, _ := field.RootOfUnity(k)
	radix2(values, omega, k, workers)
	return nil
}

// InverseFFT replaces values with the inverse transform scaled by 2^-k.
// Applied to [1, s, ..., s^(n-1)] it yields the Lagrange basis polynomials
// of the order-n subgroup evaluated at s.
func InverseFFT(values []fr.Element, k uint32, workers int) error {
	if err := checkInput(values, k); err != nil {
		return err
	}
	omegaInv, _ := field.RootOfUnityInv(k)
	radix2(values, omegaInv, k, workers)

	nInv := field.DomainSizeInv(k)
	parallel.Execute(len(values), workers, func(start, end int) {
		for i := start; i < end; i++ {
			values[i].Mul(&values[i], &nInv)
		}
	})
	return nil
}

func radix2(a []fr.Element, omega fr.Element, logN uint32, workers int) {
	n := len(a)
	if n <= 1 {
		return
	}
	bitReverse(a, logN)

	// twiddles[j] = omega^j; stage with half-width m uses stride n/(2m).
	twiddles := make([]fr.Element, n/2)
	twiddles[0].SetOne()
	for j := 1; j < len(twiddles); j++ {
		twiddles[j].Mul(&twiddles[j-1], &omega)
	}

	for m := 1; m < n; m <<= 1 {
		stride := n / (2 * m)
		parallel.Execute(n/2, workers, func(start, end int) {
			var t fr.Element
			for b := start; b < end; b++ {
				lo := (b/m)*2*m + b%m
				hi := lo + m
				t.Mul(&a[hi], &twiddles[(b%m)*stride])
				a[hi].Sub(&a[lo], &t)
				a[lo].Add(&a[lo], &t)
			}
		})
	}
}

func bitReverse(a []fr.Element, logN uint32) {
	shift := 64 - logN
	for i := range a {
		r := int(bits.Reverse64(uint64(i)) >> shift)
		if i < r {
			a[i], a[r] = a[r], a[i]
		}
	}
}
