package srs

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/sifnoc/plonkish/crypto/field"
	"github.com/sifnoc/plonkish/crypto/group"
	"github.com/sifnoc/plonkish/parallel"
)

// File layout (little-endian):
//
//	k            uint32
//	monomial_g1  2^k x G1PointSize
//	lagrange_g1  2^k x G1PointSize
//	powers_g2    2^k x G2PointSize
const headerSize = 4

const ioBufferSize = 1 << 16

// decodeBatch bounds how many points Decode reads and validates at a time,
// so memory grows with the bytes actually present rather than the header.
var decodeBatch = 1 << 12

// ExpectedSize returns the byte length of a serialized SRS for k.
func ExpectedSize(k uint32) int64 {
	n := int64(1) << k
	return headerSize + 2*n*group.G1PointSize + n*group.G2PointSize
}

func (s *SRS) check() error {
	if err := field.CheckDomain(s.K); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	n := s.Size()
	if len(s.Monomial) != n || len(s.Lagrange) != n || len(s.PowersG2) != n {
		return fmt.Errorf("%w: sequence lengths %d/%d/%d, want %d",
			ErrMalformed, len(s.Monomial), len(s.Lagrange), len(s.PowersG2), n)
	}
	return nil
}

// WriteTo serializes s to w. Write failures wrap ErrIO.
func (s *SRS) WriteTo(w io.Writer) (int64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	cw := &countingWriter{w: w}
	bw := bufio.NewWriterSize(cw, ioBufferSize)
	buf := make([]byte, 0, group.G2PointSize)
	put := func(p []byte) error {
		if _, err := bw.Write(p); err != nil {
			return fmt.Errorf("%w: %w", ErrIO, err)
		}
		return nil
	}

	if err := put(binary.LittleEndian.AppendUint32(buf[:0], s.K)); err != nil {
		return cw.n, err
	}
	for _, seq := range [][]bn254.G1Affine{s.Monomial, s.Lagrange} {
		for i := range seq {
			if err := put(group.AppendG1Raw(buf[:0], &seq[i])); err != nil {
				return cw.n, err
			}
		}
	}
	for i := range s.PowersG2 {
		if err := put(group.AppendG2Raw(buf[:0], &s.PowersG2[i])); err != nil {
			return cw.n, err
		}
	}
	if err := bw.Flush(); err != nil {
		return cw.n, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return cw.n, nil
}

// countingWriter tracks the bytes accepted by the underlying writer.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Decode reads one serialized SRS from r and validates every point.
func Decode(r io.Reader) (*SRS, error) {
	br := bufio.NewReaderSize(r, ioBufferSize)

	var hdr [headerSize]byte
	if err := readFull(br, hdr[:]); err != nil {
		return nil, err
	}
	k := binary.LittleEndian.Uint32(hdr[:])
	if err := field.CheckDomain(k); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	n := 1 << k
	s := &SRS{K: k}
	var err error
	if s.Monomial, err = readPoints(br, n, group.G1PointSize, "monomial g1", group.DecodeG1Raw); err != nil {
		return nil, err
	}
	if s.Lagrange, err = readPoints(br, n, group.G1PointSize, "lagrange g1", group.DecodeG1Raw); err != nil {
		return nil, err
	}
	if s.PowersG2, err = readPoints(br, n, group.G2PointSize, "g2", group.DecodeG2Raw); err != nil {
		return nil, err
	}

	if _, err := br.ReadByte(); err == nil {
		return nil, ErrTrailingData
	} else if !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return s, nil
}

// readPoints reads n raw points of size bytes each, decoding every batch in
// parallel once its bytes are in hand.
func readPoints[P any](r io.Reader, n, size int, label string, decode func([]byte) (P, error)) ([]P, error) {
	batch := min(n, decodeBatch)
	out := make([]P, 0, batch)
	raw := make([]byte, batch*size)
	for off := 0; off < n; off += batch {
		m := min(batch, n-off)
		if err := readFull(r, raw[:m*size]); err != nil {
			return nil, err
		}
		out = slices.Grow(out, m)[:off+m]
		dst := out[off:]
		err := parallel.ExecuteErr(m, 0, func(start, end int) error {
			for i := start; i < end; i++ {
				p, err := decode(raw[i*size : (i+1)*size])
				if err != nil {
					return fmt.Errorf("%w: %s point %d: %w", ErrMalformed, label, off+i, err)
				}
				dst[i] = p
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func readFull(r io.Reader, p []byte) error {
	if _, err := io.ReadFull(r, p); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrTruncated
		}
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}
