// Package msm implements fixed-base multi-scalar multiplication with
// precomputed window tables: one base point, many scalars.
package msm

import (
	"errors"
	"fmt"
	"math"
)

const (
	// MinWindowSize is used for inputs below 32 scalars.
	MinWindowSize = 3
	// MaxWindowSize bounds table memory to fewer than 2^16 entries per
	// window regardless of the domain size.
	MaxWindowSize = 16
)

var ErrInvalidWindow = errors.New("msm: invalid window size")

// WindowSize picks the window width for n scalars: ceil(ln n), clamped to
// [MinWindowSize, MaxWindowSize]. It is non-decreasing in n.
func WindowSize(n int) int {
	if n < 32 {
		return MinWindowSize
	}
	w := int(math.Ceil(math.Log(float64(n))))
	if w < MinWindowSize {
		return MinWindowSize
	}
	if w > MaxWindowSize {
		return MaxWindowSize
	}
	return w
}

func checkWindow(w int) error {
	if w < 1 || w > MaxWindowSize {
		return fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidWindow, w, MaxWindowSize)
	}
	return nil
}
