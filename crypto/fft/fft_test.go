package fft

import (
	"errors"
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/sifnoc/plonkish/crypto/field"
)

func randomVector(t *testing.T, n int, seed byte) []fr.Element {
	t.Helper()
	rng := rand.NewChaCha8([32]byte{seed})
	out := make([]fr.Element, n)
	for i := range out {
		s, err := field.RandomScalar(rng)
		if err != nil {
			t.Fatalf("RandomScalar: %v", err)
		}
		out[i] = s
	}
	return out
}

// naiveDFT evaluates the polynomial with coefficients c at omega^i.
func naiveDFT(c []fr.Element, omega fr.Element) []fr.Element {
	out := make([]fr.Element, len(c))
	x := fr.One()
	for i := range out {
		// Horner at x.
		var acc fr.Element
		for j := len(c) - 1; j >= 0; j-- {
			acc.Mul(&acc, &x)
			acc.Add(&acc, &c[j])
		}
		out[i] = acc
		x.Mul(&x, &omega)
	}
	return out
}

func TestFFTMatchesNaive(t *testing.T) {
	for _, k := range []uint32{1, 2, 3, 5} {
		n := 1 << k
		c := randomVector(t, n, byte(k))
		omega, _ := field.RootOfUnity(k)
		want := naiveDFT(c, omega)
		if err := FFT(c, k, 2); err != nil {
			t.Fatalf("FFT: %v", err)
		}
		for i := range want {
			if !c[i].Equal(&want[i]) {
				t.Fatalf("k=%d: index %d mismatch", k, i)
			}
		}
	}
}

func TestInverseRoundTrip(t *testing.T) {
	for _, k := range []uint32{0, 1, 4, 8} {
		orig := randomVector(t, 1<<k, 42)
		v := append([]fr.Element(nil), orig...)
		if err := FFT(v, k, 0); err != nil {
			t.Fatalf("FFT: %v", err)
		}
		if err := InverseFFT(v, k, 0); err != nil {
			t.Fatalf("InverseFFT: %v", err)
		}
		for i := range v {
			if !v[i].Equal(&orig[i]) {
				t.Fatalf("k=%d: index %d not restored", k, i)
			}
		}
	}
}

// lagrangeAt evaluates L_i(s) = omega^i (s^n - 1) / (n (s - omega^i)).
func lagrangeAt(s fr.Element, k uint32) []fr.Element {
	n := 1 << k
	omega, _ := field.RootOfUnity(k)
	var sn fr.Element
	sn.Exp(s, bigN(n))
	var num fr.Element
	one := fr.One()
	num.Sub(&sn, &one)
	nInv := field.DomainSizeInv(k)
	num.Mul(&num, &nInv)

	out := make([]fr.Element, n)
	w := fr.One()
	for i := range out {
		var den fr.Element
		den.Sub(&s, &w)
		den.Inverse(&den)
		out[i].Mul(&num, &den)
		out[i].Mul(&out[i], &w)
		w.Mul(&w, &omega)
	}
	return out
}

func TestInverseFFTOfPowersGivesLagrange(t *testing.T) {
	s, err := field.RandomScalar(rand.NewChaCha8([32]byte{9}))
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	for _, k := range []uint32{1, 3, 6} {
		v := field.Powers(s, 1<<k)
		if err := InverseFFT(v, k, 3); err != nil {
			t.Fatalf("InverseFFT: %v", err)
		}
		want := lagrangeAt(s, k)
		for i := range v {
			if !v[i].Equal(&want[i]) {
				t.Fatalf("k=%d: L_%d(s) mismatch", k, i)
			}
		}
	}
}

func TestInverseFFTSingleElement(t *testing.T) {
	var x fr.Element
	x.SetUint64(77)
	v := []fr.Element{x}
	if err := InverseFFT(v, 0, 1); err != nil {
		t.Fatalf("InverseFFT: %v", err)
	}
	if !v[0].Equal(&x) {
		t.Fatalf("v[0] = %s, want 77", v[0].String())
	}
}

func TestInverseFFTErrors(t *testing.T) {
	if err := InverseFFT(nil, field.MaxLogDomain+1, 1); !errors.Is(err, field.ErrDomainTooLarge) {
		t.Fatalf("err = %v, want ErrDomainTooLarge", err)
	}
	if err := InverseFFT(make([]fr.Element, 6), 3, 1); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("err = %v, want ErrSizeMismatch", err)
	}
	if err := FFT(make([]fr.Element, 4), 3, 1); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("err = %v, want ErrSizeMismatch", err)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	a := randomVector(t, 1<<10, 3)
	b := append([]fr.Element(nil), a...)
	if err := InverseFFT(a, 10, 1); err != nil {
		t.Fatalf("InverseFFT: %v", err)
	}
	if err := InverseFFT(b, 10, 8); err != nil {
		t.Fatalf("InverseFFT: %v", err)
	}
	for i := range a {
		if !a[i].Equal(&b[i]) {
			t.Fatalf("index %d differs", i)
		}
	}
}

func bigN(n int) *big.Int { return big.NewInt(int64(n)) }
