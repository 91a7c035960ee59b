package msm

import (
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/holiman/uint256"

	"github.com/sifnoc/plonkish/parallel"
)

// jacobian is satisfied by *bn254.G1Jac and *bn254.G2Jac. The zero value of
// either type has Z = 0 and acts as the identity under AddAssign.
type jacobian[P any] interface {
	*P
	Set(*P) *P
	AddAssign(*P) *P
	DoubleAssign() *P
}

// table stores, for window i and digit j in [1, 2^w), the point
// j * 2^(w*i) * B at rows[i][j-1].
type table[P any, PP jacobian[P]] struct {
	window int
	rows   [][]P
}

func numWindows(w int) int {
	return (fr.Bits + w - 1) / w
}

func newTable[P any, PP jacobian[P]](w int, base *P, workers int) table[P, PP] {
	rows := make([][]P, numWindows(w))

	// Row bases 2^(w*i) * B are sequential; filling the rows is not.
	bases := make([]P, len(rows))
	PP(&bases[0]).Set(base)
	for i := 1; i < len(bases); i++ {
		PP(&bases[i]).Set(&bases[i-1])
		for b := 0; b < w; b++ {
			PP(&bases[i]).DoubleAssign()
		}
	}

	size := 1<<w - 1
	parallel.Execute(len(rows), workers, func(start, end int) {
		for i := start; i < end; i++ {
			row := make([]P, size)
			PP(&row[0]).Set(&bases[i])
			for j := 1; j < size; j++ {
				PP(&row[j]).Set(&row[j-1])
				PP(&row[j]).AddAssign(&bases[i])
			}
			rows[i] = row
		}
	})
	return table[P, PP]{window: w, rows: rows}
}

// mul returns scalars[i] * B for every i, in Jacobian form.
func (t *table[P, PP]) mul(scalars []fr.Element, workers int) []P {
	out := make([]P, len(scalars))
	mask := uint64(1)<<t.window - 1
	parallel.Execute(len(scalars), workers, func(start, end int) {
		var u, digits uint256.Int
		for i := start; i < end; i++ {
			u = uint256.Int(scalars[i].Bits())
			for win := range t.rows {
				digits.Rsh(&u, uint(win*t.window))
				d := digits.Uint64() & mask
				if d == 0 {
					continue
				}
				PP(&out[i]).AddAssign(&t.rows[win][d-1])
			}
		}
	})
	return out
}

// TableG1 is a window table over a fixed G1 base.
type TableG1 struct {
	t table[bn254.G1Jac, *bn254.G1Jac]
}

// NewTableG1 precomputes the window table of width w for base.
func NewTableG1(w int, base *bn254.G1Affine, workers int) (*TableG1, error) {
	if err := checkWindow(w); err != nil {
		return nil, err
	}
	var b bn254.G1Jac
	b.FromAffine(base)
	return &TableG1{t: newTable[bn254.G1Jac](w, &b, workers)}, nil
}

// Window returns the table's window width.
func (t *TableG1) Window() int { return t.t.window }

// Entries returns the number of precomputed points.
func (t *TableG1) Entries() int { return len(t.t.rows) * (1<<t.t.window - 1) }

// Mul multiplies the table's base by every scalar.
func (t *TableG1) Mul(scalars []fr.Element, workers int) []bn254.G1Jac {
	return t.t.mul(scalars, workers)
}

// TableG2 is a window table over a fixed G2 base.
type TableG2 struct {
	t table[bn254.G2Jac, *bn254.G2Jac]
}

// NewTableG2 precomputes the window table of width w for base.
func NewTableG2(w int, base *bn254.G2Affine, workers int) (*TableG2, error) {
	if err := checkWindow(w); err != nil {
		return nil, err
	}
	var b bn254.G2Jac
	b.FromAffine(base)
	return &TableG2{t: newTable[bn254.G2Jac](w, &b, workers)}, nil
}

// Window returns the table's window width.
func (t *TableG2) Window() int { return t.t.window }

// Entries returns the number of precomputed points.
func (t *TableG2) Entries() int { return len(t.t.rows) * (1<<t.t.window - 1) }

// Mul multiplies the table's base by every scalar.
func (t *TableG2) Mul(scalars []fr.Element, workers int) []bn254.G2Jac {
	return t.t.mul(scalars, workers)
}
