// Package field is the scalar field engine for the BN254 SRS pipeline:
// sampling, power series, roots of unity and domain-size inverses over Fr.
//
// Roots of unity are derived from the multiplicative generator 7, so the
// 2^k-th root for every k coincides with halo2's bn256 ROOT_OF_UNITY
// squared 28-k times. Lagrange commitments built from these roots keep
// the evaluation order halo2-based consumers expect.
package field

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// MaxLogDomain is the two-adicity of r-1: Fr contains a multiplicative
// subgroup of order 2^k for every k <= MaxLogDomain.
const MaxLogDomain = 28

// multiplicativeGenerator generates Fr^* and is a quadratic non-residue.
const multiplicativeGenerator = 7

// wideBytes is the number of random bytes reduced into one scalar.
const wideBytes = 64

var (
	ErrDomainTooLarge = errors.New("field: domain exceeds the two-adic subgroup of Fr")
	ErrRandomness     = errors.New("field: randomness source failed")
)

var (
	rootOfUnity    fr.Element // primitive 2^MaxLogDomain-th root
	rootOfUnityInv fr.Element
	twoInv         fr.Element
)

func init() {
	t := new(big.Int).Rsh(new(big.Int).Sub(fr.Modulus(), big.NewInt(1)), MaxLogDomain)

	var g fr.Element
	g.SetUint64(multiplicativeGenerator)
	rootOfUnity.Exp(g, t)
	rootOfUnityInv.Inverse(&rootOfUnity)

	var two fr.Element
	two.SetUint64(2)
	twoInv.Inverse(&two)
}

// RandomScalar samples a uniformly random nonzero scalar from rng. Sixty-four
// bytes are reduced modulo r, which leaves a statistical bias below 2^-250.
func RandomScalar(rng io.Reader) (fr.Element, error) {
	var (
		buf [wideBytes]byte
		s   fr.Element
	)
	defer clear(buf[:])
	for {
		if _, err := io.ReadFull(rng, buf[:]); err != nil {
			return fr.Element{}, fmt.Errorf("%w: %w", ErrRandomness, err)
		}
		reduceWide(&s, buf[:])
		if !s.IsZero() {
			return s, nil
		}
	}
}

// reduceWide sets dst to the big-endian integer wide modulo r, then wipes
// wide and the words of the intermediate big.Int. The reduction happens
// here so gnark's pooled big.Int never holds the value.
func reduceWide(dst *fr.Element, wide []byte) {
	var v big.Int
	v.SetBytes(wide)
	clear(wide)
	v.Mod(&v, fr.Modulus())
	dst.SetBigInt(&v)
	clear(v.Bits())
	v.SetUint64(0)
}

// Powers returns [1, s, s^2, ..., s^(n-1)].
func Powers(s fr.Element, n int) []fr.Element {
	if n <= 0 {
		return nil
	}
	out := make([]fr.Element, n)
	out[0].SetOne()
	for i := 1; i < n; i++ {
		out[i].Mul(&out[i-1], &s)
	}
	return out
}

// CheckDomain reports ErrDomainTooLarge when no subgroup of order 2^k exists.
func CheckDomain(k uint32) error {
	if k > MaxLogDomain {
		return fmt.Errorf("%w: k=%d, max %d", ErrDomainTooLarge, k, MaxLogDomain)
	}
	return nil
}

// RootOfUnity returns the primitive 2^k-th root of unity.
func RootOfUnity(k uint32) (fr.Element, error) {
	return reduceRoot(rootOfUnity, k)
}

// RootOfUnityInv returns the inverse of RootOfUnity(k).
func RootOfUnityInv(k uint32) (fr.Element, error) {
	return reduceRoot(rootOfUnityInv, k)
}

func reduceRoot(root fr.Element, k uint32) (fr.Element, error) {
	if err := CheckDomain(k); err != nil {
		return fr.Element{}, err
	}
	for i := k; i < MaxLogDomain; i++ {
		root.Square(&root)
	}
	return root, nil
}

// TwoInv returns 1/2 in Fr.
func TwoInv() fr.Element {
	return twoInv
}

// DomainSizeInv returns 1/2^k, obtained by halving k times.
func DomainSizeInv(k uint32) fr.Element {
	out := fr.One()
	for i := uint32(0); i < k; i++ {
		out.Mul(&out, &twoInv)
	}
	return out
}

// Zeroize overwrites every element with zero.
func Zeroize(values []fr.Element) {
	for i := range values {
		values[i].SetZero()
	}
}
