package verify

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	bn256 "github.com/ethereum/go-ethereum/crypto/bn256/cloudflare"
)

// toG1 converts to go-ethereum's representation via the EIP-196 encoding:
// big-endian x || y, all zeros for the identity.
func toG1(p *bn254.G1Affine) (*bn256.G1, error) {
	var buf [64]byte
	if !p.IsInfinity() {
		x, y := p.X.Bytes(), p.Y.Bytes()
		copy(buf[:32], x[:])
		copy(buf[32:], y[:])
	}
	out := new(bn256.G1)
	if _, err := out.Unmarshal(buf[:]); err != nil {
		return nil, fmt.Errorf("%w: g1: %w", ErrEncoding, err)
	}
	return out, nil
}

// toG2 converts via the EIP-197 encoding, which puts the imaginary part of
// each Fp2 coordinate first.
func toG2(p *bn254.G2Affine) (*bn256.G2, error) {
	var buf [128]byte
	if !p.IsInfinity() {
		parts := [4][32]byte{p.X.A1.Bytes(), p.X.A0.Bytes(), p.Y.A1.Bytes(), p.Y.A0.Bytes()}
		for i := range parts {
			copy(buf[32*i:], parts[i][:])
		}
	}
	out := new(bn256.G2)
	if _, err := out.Unmarshal(buf[:]); err != nil {
		return nil, fmt.Errorf("%w: g2: %w", ErrEncoding, err)
	}
	return out, nil
}

func bigInt(v int) *big.Int { return big.NewInt(int64(v)) }
