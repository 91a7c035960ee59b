package group

import (
	"encoding/binary"
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
)

// Raw encoding: every base-field coordinate is stored as its four
// Montgomery-form limbs, least significant first, each limb little-endian.
// G2 coordinates are written c0 then c1. The identity is all zeros.
const (
	CoordSize   = fp.Limbs * 8
	G1PointSize = 2 * CoordSize
	G2PointSize = 4 * CoordSize
)

var (
	ErrShortBuffer   = errors.New("group: buffer too short for point")
	ErrNonCanonical  = errors.New("group: coordinate not reduced modulo p")
	ErrNotOnCurve    = errors.New("group: point not on curve")
	ErrNotInSubgroup = errors.New("group: point not in prime-order subgroup")
)

// modulusLimbs holds p as little-endian 64-bit limbs.
var modulusLimbs [fp.Limbs]uint64

func init() {
	var be [CoordSize]byte
	fp.Modulus().FillBytes(be[:])
	for i := 0; i < fp.Limbs; i++ {
		modulusLimbs[i] = binary.BigEndian.Uint64(be[CoordSize-8*(i+1):])
	}
}

func appendCoord(dst []byte, e *fp.Element) []byte {
	for i := 0; i < fp.Limbs; i++ {
		dst = binary.LittleEndian.AppendUint64(dst, e[i])
	}
	return dst
}

func readCoord(src []byte, e *fp.Element) error {
	for i := 0; i < fp.Limbs; i++ {
		e[i] = binary.LittleEndian.Uint64(src[8*i:])
	}
	for i := fp.Limbs - 1; i >= 0; i-- {
		if e[i] < modulusLimbs[i] {
			return nil
		}
		if e[i] > modulusLimbs[i] {
			return ErrNonCanonical
		}
	}
	return ErrNonCanonical
}

// AppendG1Raw appends the raw encoding of p to dst.
func AppendG1Raw(dst []byte, p *bn254.G1Affine) []byte {
	dst = appendCoord(dst, &p.X)
	return appendCoord(dst, &p.Y)
}

// AppendG2Raw appends the raw encoding of p to dst.
func AppendG2Raw(dst []byte, p *bn254.G2Affine) []byte {
	dst = appendCoord(dst, &p.X.A0)
	dst = appendCoord(dst, &p.X.A1)
	dst = appendCoord(dst, &p.Y.A0)
	return appendCoord(dst, &p.Y.A1)
}

// DecodeG1Raw parses one raw G1 point and checks it lies on the curve.
func DecodeG1Raw(src []byte) (bn254.G1Affine, error) {
	var p bn254.G1Affine
	if len(src) < G1PointSize {
		return p, ErrShortBuffer
	}
	if err := readCoord(src, &p.X); err != nil {
		return p, err
	}
	if err := readCoord(src[CoordSize:], &p.Y); err != nil {
		return p, err
	}
	if !p.IsOnCurve() {
		return p, ErrNotOnCurve
	}
	return p, nil
}

// DecodeG2Raw parses one raw G2 point and checks curve and subgroup
// membership.
func DecodeG2Raw(src []byte) (bn254.G2Affine, error) {
	var p bn254.G2Affine
	if len(src) < G2PointSize {
		return p, ErrShortBuffer
	}
	coords := []*fp.Element{&p.X.A0, &p.X.A1, &p.Y.A0, &p.Y.A1}
	for i, c := range coords {
		if err := readCoord(src[i*CoordSize:], c); err != nil {
			return p, err
		}
	}
	if !p.IsOnCurve() {
		return p, ErrNotOnCurve
	}
	if !p.IsInSubGroup() {
		return p, ErrNotInSubgroup
	}
	return p, nil
}
