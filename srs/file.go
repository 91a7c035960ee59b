package srs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/crypto/blake2b"

	"github.com/sifnoc/plonkish/crypto/field"
)

// Artifact describes a written SRS file.
type Artifact struct {
	Path   string
	Bytes  int64
	Digest [blake2b.Size256]byte // BLAKE2b-256 of the file contents
}

// DigestHex returns the 0x-prefixed hex digest.
func (a *Artifact) DigestHex() string {
	return hexutil.Encode(a.Digest[:])
}

// WriteFile creates path and serializes s into it. A failed write leaves
// whatever was already written in place.
func (s *SRS) WriteFile(path string) (*Artifact, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	h, _ := blake2b.New256(nil)

	n, err := s.WriteTo(io.MultiWriter(f, h))
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("%w: close %s: %w", ErrIO, path, err)
	}

	art := &Artifact{Path: path, Bytes: n}
	copy(art.Digest[:], h.Sum(nil))
	return art, nil
}

// ReadFile decodes and validates the SRS stored at path. The file length is
// checked against the header before any point is read.
func ReadFile(path string) (*SRS, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()
	if err := checkFileSize(f); err != nil {
		return nil, err
	}
	return Decode(f)
}

func checkFileSize(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if !info.Mode().IsRegular() {
		return nil
	}
	var hdr [headerSize]byte
	if err := readFull(f, hdr[:]); err != nil {
		return err
	}
	k := binary.LittleEndian.Uint32(hdr[:])
	if err := field.CheckDomain(k); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	switch want := ExpectedSize(k); {
	case info.Size() < want:
		return fmt.Errorf("%w: %d bytes, header k=%d needs %d", ErrTruncated, info.Size(), k, want)
	case info.Size() > want:
		return fmt.Errorf("%w: %d bytes, header k=%d needs %d", ErrTrailingData, info.Size(), k, want)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}
