// Package verify audits a generated reference string without knowing its
// secret. Pairing equalities are evaluated with go-ethereum's bn256
// implementation, independent of the gnark-crypto arithmetic used to
// build the points.
package verify

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	bn256 "github.com/ethereum/go-ethereum/crypto/bn256/cloudflare"

	"github.com/sifnoc/plonkish/crypto/field"
	"github.com/sifnoc/plonkish/crypto/group"
	"github.com/sifnoc/plonkish/srs"
)

var (
	ErrGenerator   = errors.New("verify: first point is not the generator")
	ErrPairing     = errors.New("verify: pairing equation does not hold")
	ErrLagrangeSum = errors.New("verify: lagrange points do not sum to the generator")
	ErrRoundTrip   = errors.New("verify: lagrange reconstruction does not match monomial point")
	ErrEncoding    = errors.New("verify: point conversion failed")
)

// DefaultSamples is the number of indices checked when Options.Samples is 0.
const DefaultSamples = 8

// Options tunes how much of the SRS is checked.
type Options struct {
	// Samples is the number of indices checked by the pairing and
	// round-trip checks; 0 selects DefaultSamples, negative checks all.
	Samples int
	// Workers is passed to the multi-exponentiation (0 = all CPUs).
	Workers int
}

// Check runs every audit against s and returns the first failure.
func Check(s *srs.SRS, opts Options) error {
	n := s.Size()
	if len(s.Monomial) != n || len(s.Lagrange) != n || len(s.PowersG2) != n {
		return srs.ErrMalformed
	}
	if err := checkGenerators(s); err != nil {
		return err
	}
	idx := sampleIndices(n, opts.Samples)
	if err := checkPairings(s, idx); err != nil {
		return err
	}
	if err := checkLagrangeSum(s); err != nil {
		return err
	}
	return checkRoundTrip(s, idx, opts.Workers)
}

func checkGenerators(s *srs.SRS) error {
	g1, g2 := group.Generators()
	if !s.Monomial[0].Equal(&g1) {
		return fmt.Errorf("%w: monomial_g1[0]", ErrGenerator)
	}
	if !s.PowersG2[0].Equal(&g2) {
		return fmt.Errorf("%w: powers_g2[0]", ErrGenerator)
	}
	return nil
}

// sampleIndices returns up to count distinct indices spread over [0, n),
// always including 0 and n-1.
func sampleIndices(n, count int) []int {
	if count == 0 {
		count = DefaultSamples
	}
	if count < 0 || count >= n {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	if count < 2 {
		count = 2
	}
	out := make([]int, 0, count)
	last := -1
	for i := 0; i < count; i++ {
		v := i * (n - 1) / (count - 1)
		if v != last {
			out = append(out, v)
			last = v
		}
	}
	return out
}

// checkPairings verifies, for each sampled i,
//
//	e(monomial[i], G2) == e(G1, powers_g2[i])
//	e(monomial[i+1], G2) == e(monomial[i], powers_g2[1])
func checkPairings(s *srs.SRS, idx []int) error {
	g1, g2 := group.Generators()
	eg1, err := toG1(&g1)
	if err != nil {
		return err
	}
	eg2, err := toG2(&g2)
	if err != nil {
		return err
	}
	var tau2 *bn256.G2
	if len(s.PowersG2) > 1 {
		if tau2, err = toG2(&s.PowersG2[1]); err != nil {
			return err
		}
	}

	for _, i := range idx {
		mi, err := toG1(&s.Monomial[i])
		if err != nil {
			return err
		}
		pi, err := toG2(&s.PowersG2[i])
		if err != nil {
			return err
		}
		if !pairingEqual(mi, eg2, eg1, pi) {
			return fmt.Errorf("%w: e(monomial_g1[%d], G2) != e(G1, powers_g2[%d])", ErrPairing, i, i)
		}
		if i+1 >= len(s.Monomial) {
			continue
		}
		next, err := toG1(&s.Monomial[i+1])
		if err != nil {
			return err
		}
		if !pairingEqual(next, eg2, mi, tau2) {
			return fmt.Errorf("%w: e(monomial_g1[%d], G2) != e(monomial_g1[%d], [s]G2)", ErrPairing, i+1, i)
		}
	}
	return nil
}

// pairingEqual reports e(a, b) == e(c, d).
func pairingEqual(a *bn256.G1, b *bn256.G2, c *bn256.G1, d *bn256.G2) bool {
	negC := new(bn256.G1).Neg(c)
	return bn256.PairingCheck([]*bn256.G1{a, negC}, []*bn256.G2{b, d})
}

// checkLagrangeSum uses sum_i L_i(X) = 1.
func checkLagrangeSum(s *srs.SRS) error {
	g1, _ := group.Generators()
	var acc bn254.G1Jac
	for i := range s.Lagrange {
		acc.AddMixed(&s.Lagrange[i])
	}
	var sum bn254.G1Affine
	sum.FromJacobian(&acc)
	if !sum.Equal(&g1) {
		return ErrLagrangeSum
	}
	return nil
}

// checkRoundTrip uses X^j = sum_i omega^(ij) L_i(X): the Lagrange points
// weighted by omega^(ij) must give monomial[j].
func checkRoundTrip(s *srs.SRS, idx []int, workers int) error {
	omega, err := field.RootOfUnity(s.K)
	if err != nil {
		return err
	}
	n := s.Size()
	scalars := make([]fr.Element, n)
	for _, j := range idx {
		var wj fr.Element
		wj.Exp(omega, bigInt(j))
		scalars[0].SetOne()
		for i := 1; i < n; i++ {
			scalars[i].Mul(&scalars[i-1], &wj)
		}
		var got bn254.G1Affine
		if _, err := got.MultiExp(s.Lagrange, scalars, ecc.MultiExpConfig{NbTasks: workers}); err != nil {
			return fmt.Errorf("%w: %w", ErrRoundTrip, err)
		}
		if !got.Equal(&s.Monomial[j]) {
			return fmt.Errorf("%w: index %d", ErrRoundTrip, j)
		}
	}
	return nil
}
