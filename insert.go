package nurbs

import "fmt"

// Direction selects one of the two parametric directions of a surface.
type Direction int

const (
	// DirU is the direction along a row of the control net.
	DirU Direction = iota
	// DirV is the direction along a column of the control net.
	DirV
)

func (d Direction) String() string {
	switch d {
	case DirU:
		return "u"
	case DirV:
		return "v"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// CurveKnotIns inserts the knot u r times into the curve of degree p with
// knots UP and control points Pw, using Boehm's algorithm (The NURBS Book,
// A5.1). k is the span containing u and s the multiplicity u already has.
//
// The inputs are not modified. The returned curve is pointwise identical to
// the input; only its control polygon is refined. r+s must not exceed p.
func CurveKnotIns(p int, UP KnotVector, Pw []Point4, u float64, k, s, r int) (KnotVector, []Point4, error) {
	np := len(Pw) - 1
	if err := checkInsertion(p, UP, np, u, k, s, r); err != nil {
		return nil, nil, fmt.Errorf("CurveKnotIns: %w", err)
	}
	alpha := insertionAlphas(p, UP, u, k, s, r)
	return insertKnotValue(UP, u, k, r), applyInsertion(p, Pw, k, s, r, alpha), nil
}

// SurfaceKnotIns inserts the knot uv r times along direction dir of a surface.
// p and U describe the u direction, q and V the v direction. k is the span of
// uv in the knot vector of dir and s its existing multiplicity there.
//
// The insertion coefficients only depend on knot values, so they are computed
// once and shared by every row (DirU) or column (DirV). The net grows by r
// columns or rows respectively; the other knot vector is returned as a copy.
func SurfaceKnotIns(p int, U KnotVector, q int, V KnotVector, net Net, dir Direction, uv float64, k, s, r int) (KnotVector, KnotVector, Net, error) {
	switch dir {
	case DirU:
		if err := checkInsertion(p, U, net.Size.Cols-1, uv, k, s, r); err != nil {
			return nil, nil, Net{}, fmt.Errorf("SurfaceKnotIns(%s): %w", dir, err)
		}
		alpha := insertionAlphas(p, U, uv, k, s, r)
		rows := make([][]Point4, net.Size.Rows)
		for j := range rows {
			rows[j] = applyInsertion(p, net.Row(j), k, s, r, alpha)
		}
		return insertKnotValue(U, uv, k, r), V.Clone(), netFromRows(rows), nil
	case DirV:
		if err := checkInsertion(q, V, net.Size.Rows-1, uv, k, s, r); err != nil {
			return nil, nil, Net{}, fmt.Errorf("SurfaceKnotIns(%s): %w", dir, err)
		}
		alpha := insertionAlphas(q, V, uv, k, s, r)
		cols := make([][]Point4, net.Size.Cols)
		for i := range cols {
			cols[i] = applyInsertion(q, net.Col(i), k, s, r, alpha)
		}
		return U.Clone(), insertKnotValue(V, uv, k, r), netFromCols(cols), nil
	default:
		return nil, nil, Net{}, fmt.Errorf("SurfaceKnotIns: unknown direction %d: %w", dir, ErrInvalidInput)
	}
}

func checkInsertion(p int, U KnotVector, n int, u float64, k, s, r int) error {
	if len(U) != n+p+2 {
		return fmt.Errorf("%d knots for %d control points of degree %d: %w", len(U), n+1, p, ErrInvalidInput)
	}
	if r < 0 || s < 0 || r+s > p {
		return fmt.Errorf("inserting %g %d times with multiplicity %d into degree %d: %w", u, r, s, p, ErrInvalidInput)
	}
	if k < p || k > n {
		return fmt.Errorf("span %d outside [%d, %d]: %w", k, p, n, ErrInvalidInput)
	}
	if u <= U[p] || u >= U[n+1] || u < U[k] || u >= U[k+1] {
		return fmt.Errorf("knot %g not inside span %d or domain: %w", u, k, ErrInvalidInput)
	}
	return nil
}

// insertionAlphas returns alpha[j][i] for j = 1..r and i = 0..p-j-s.
func insertionAlphas(p int, U KnotVector, u float64, k, s, r int) [][]float64 {
	alpha := make([][]float64, r+1)
	for j := 1; j <= r; j++ {
		L := k - p + j
		alpha[j] = make([]float64, p-j-s+1)
		for i := 0; i <= p-j-s; i++ {
			alpha[j][i] = (u - U[L+i]) / (U[i+k+1] - U[L+i])
		}
	}
	return alpha
}

// insertKnotValue returns a copy of U with u inserted r times after index k.
func insertKnotValue(U KnotVector, u float64, k, r int) KnotVector {
	UQ := make(KnotVector, len(U)+r)
	copy(UQ, U[:k+1])
	for i := 1; i <= r; i++ {
		UQ[k+i] = u
	}
	copy(UQ[k+r+1:], U[k+1:])
	return UQ
}

// applyInsertion runs the A5.1 control point recurrence on a single row of
// control points.
func applyInsertion(p int, Pw []Point4, k, s, r int, alpha [][]float64) []Point4 {
	np := len(Pw) - 1
	Qw := make([]Point4, np+r+1)
	if r == 0 {
		copy(Qw, Pw)
		return Qw
	}

	// Unaltered control points.
	for i := 0; i <= k-p; i++ {
		Qw[i] = Pw[i]
	}
	for i := k - s; i <= np; i++ {
		Qw[i+r] = Pw[i]
	}

	Rw := make([]Point4, p-s+1)
	for i := 0; i <= p-s; i++ {
		Rw[i] = Pw[k-p+i]
	}

	var L int
	for j := 1; j <= r; j++ {
		L = k - p + j
		for i := 0; i <= p-j-s; i++ {
			Rw[i] = blend(alpha[j][i], Rw[i+1], Rw[i])
		}
		Qw[L] = Rw[0]
		Qw[k+r-j-s] = Rw[p-j-s]
	}

	// Remaining points from the temporary window.
	for i := L + 1; i < k-s; i++ {
		Qw[i] = Rw[i-L]
	}
	return Qw
}
