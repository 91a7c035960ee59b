package field

import (
	"bytes"
	"errors"
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

func testRNG(seed byte) *rand.ChaCha8 {
	var s [32]byte
	s[0] = seed
	return rand.NewChaCha8(s)
}

func TestTwoAdicity(t *testing.T) {
	rMinus1 := new(big.Int).Sub(fr.Modulus(), big.NewInt(1))
	if got := rMinus1.TrailingZeroBits(); got != MaxLogDomain {
		t.Fatalf("two-adicity = %d, want %d", got, MaxLogDomain)
	}
}

func TestRootOfUnityMatchesHalo2(t *testing.T) {
	want, _ := new(big.Int).SetString("03ddb9f5166d18b798865ea93dd31f743215cf6dd39329c8d34f1ed960c37c9c", 16)
	root, err := RootOfUnity(MaxLogDomain)
	if err != nil {
		t.Fatalf("RootOfUnity: %v", err)
	}
	var got big.Int
	root.BigInt(&got)
	if got.Cmp(want) != 0 {
		t.Fatalf("root = %x, want %x", &got, want)
	}
}

func TestRootOfUnityOrder(t *testing.T) {
	one := fr.One()
	var minusOne fr.Element
	minusOne.Neg(&one)
	for k := uint32(1); k <= MaxLogDomain; k++ {
		w, err := RootOfUnity(k)
		if err != nil {
			t.Fatalf("k=%d: %v", k, err)
		}
		// w^(2^(k-1)) must be -1 for a primitive 2^k-th root.
		for i := uint32(1); i < k; i++ {
			w.Square(&w)
		}
		if !w.Equal(&minusOne) {
			t.Fatalf("k=%d: root is not primitive", k)
		}
	}
	w, _ := RootOfUnity(0)
	if !w.IsOne() {
		t.Fatalf("RootOfUnity(0) = %s, want 1", w.String())
	}
}

func TestRootOfUnityInv(t *testing.T) {
	for _, k := range []uint32{0, 1, 5, 17, MaxLogDomain} {
		w, _ := RootOfUnity(k)
		wInv, err := RootOfUnityInv(k)
		if err != nil {
			t.Fatalf("k=%d: %v", k, err)
		}
		w.Mul(&w, &wInv)
		if !w.IsOne() {
			t.Fatalf("k=%d: w * w^-1 != 1", k)
		}
	}
}

func TestDomainTooLarge(t *testing.T) {
	if _, err := RootOfUnity(MaxLogDomain + 1); !errors.Is(err, ErrDomainTooLarge) {
		t.Fatalf("RootOfUnity(29) err = %v, want ErrDomainTooLarge", err)
	}
	if _, err := RootOfUnityInv(40); !errors.Is(err, ErrDomainTooLarge) {
		t.Fatalf("RootOfUnityInv(40) err = %v, want ErrDomainTooLarge", err)
	}
	if err := CheckDomain(MaxLogDomain); err != nil {
		t.Fatalf("CheckDomain(28) = %v, want nil", err)
	}
}

func TestDomainSizeInv(t *testing.T) {
	for _, k := range []uint32{0, 1, 4, 20} {
		inv := DomainSizeInv(k)
		var n fr.Element
		n.SetUint64(1 << k)
		n.Mul(&n, &inv)
		if !n.IsOne() {
			t.Fatalf("k=%d: 2^k * DomainSizeInv(k) != 1", k)
		}
	}
	h := TwoInv()
	var two fr.Element
	two.SetUint64(2)
	two.Mul(&two, &h)
	if !two.IsOne() {
		t.Fatal("2 * TwoInv() != 1")
	}
}

func TestPowers(t *testing.T) {
	var s fr.Element
	s.SetUint64(3)
	p := Powers(s, 6)
	if len(p) != 6 {
		t.Fatalf("len = %d, want 6", len(p))
	}
	want := uint64(1)
	for i := range p {
		var w fr.Element
		w.SetUint64(want)
		if !p[i].Equal(&w) {
			t.Fatalf("p[%d] = %s, want %d", i, p[i].String(), want)
		}
		want *= 3
	}
	if Powers(s, 0) != nil {
		t.Fatal("Powers(s, 0) should be nil")
	}
}

func TestRandomScalarDeterministic(t *testing.T) {
	a, err := RandomScalar(testRNG(1))
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	b, _ := RandomScalar(testRNG(1))
	c, _ := RandomScalar(testRNG(2))
	if !a.Equal(&b) {
		t.Fatal("same seed produced different scalars")
	}
	if a.Equal(&c) {
		t.Fatal("different seeds produced the same scalar")
	}
	if a.IsZero() {
		t.Fatal("scalar is zero")
	}
}

func TestRandomScalarRejectsZero(t *testing.T) {
	// A zero block followed by a nonzero one must skip the zero candidate.
	src := make([]byte, 2*wideBytes)
	src[2*wideBytes-1] = 5
	s, err := RandomScalar(bytes.NewReader(src))
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	var want fr.Element
	want.SetUint64(5)
	if !s.Equal(&want) {
		t.Fatalf("scalar = %s, want 5", s.String())
	}
}

func TestRandomScalarShortSource(t *testing.T) {
	_, err := RandomScalar(bytes.NewReader(make([]byte, 10)))
	if !errors.Is(err, ErrRandomness) {
		t.Fatalf("err = %v, want ErrRandomness", err)
	}
}

func TestReduceWideWipesInput(t *testing.T) {
	wide := bytes.Repeat([]byte{0xff}, wideBytes)
	want := new(big.Int).SetBytes(wide)
	want.Mod(want, fr.Modulus())

	var got fr.Element
	reduceWide(&got, wide)
	if got.BigInt(new(big.Int)).Cmp(want) != 0 {
		t.Fatalf("reduceWide = %s, want %s", got.String(), want.String())
	}
	for i, b := range wide {
		if b != 0 {
			t.Fatalf("input byte %d = %#x after reduction, want 0", i, b)
		}
	}
}

func TestZeroize(t *testing.T) {
	var s fr.Element
	s.SetUint64(9)
	p := Powers(s, 4)
	Zeroize(p)
	for i := range p {
		if !p[i].IsZero() {
			t.Fatalf("p[%d] not cleared", i)
		}
	}
}
