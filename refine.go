package nurbs

import (
	"fmt"
	"slices"
)

// RefineKnotVectCurve inserts all knots in X into the curve of degree p with
// knots U and control points Pw in a single pass (The NURBS Book, A5.4).
//
// X must be sorted and already expanded, i.e. a value to be inserted twice
// appears twice. Every value must lie strictly inside the domain, and no knot
// may end up with a multiplicity above p. The result has len(U)+len(X) knots
// and describes the same curve.
func RefineKnotVectCurve(p int, U KnotVector, Pw []Point4, X []float64) (KnotVector, []Point4, error) {
	n := len(Pw) - 1
	if err := checkRefinement(p, U, n, X); err != nil {
		return nil, nil, fmt.Errorf("RefineKnotVectCurve: %w", err)
	}
	if len(X) == 0 {
		return U.Clone(), slices.Clone(Pw), nil
	}
	Ubar, Qw := refineRow(p, U, Pw, X)
	return Ubar, Qw, nil
}

// RefineKnotVectSurface refines the knot vector of direction dir of a surface
// by the knots in X, applying [RefineKnotVectCurve] to every row (DirU) or
// column (DirV) of the net.
func RefineKnotVectSurface(p int, U KnotVector, q int, V KnotVector, net Net, dir Direction, X []float64) (KnotVector, KnotVector, Net, error) {
	switch dir {
	case DirU:
		if err := checkRefinement(p, U, net.Size.Cols-1, X); err != nil {
			return nil, nil, Net{}, fmt.Errorf("RefineKnotVectSurface(%s): %w", dir, err)
		}
		if len(X) == 0 {
			return U.Clone(), V.Clone(), net.Clone(), nil
		}
		var Ubar KnotVector
		rows := make([][]Point4, net.Size.Rows)
		for j := range rows {
			Ubar, rows[j] = refineRow(p, U, net.Row(j), X)
		}
		return Ubar, V.Clone(), netFromRows(rows), nil
	case DirV:
		if err := checkRefinement(q, V, net.Size.Rows-1, X); err != nil {
			return nil, nil, Net{}, fmt.Errorf("RefineKnotVectSurface(%s): %w", dir, err)
		}
		if len(X) == 0 {
			return U.Clone(), V.Clone(), net.Clone(), nil
		}
		var Vbar KnotVector
		cols := make([][]Point4, net.Size.Cols)
		for i := range cols {
			Vbar, cols[i] = refineRow(q, V, net.Col(i), X)
		}
		return U.Clone(), Vbar, netFromCols(cols), nil
	default:
		return nil, nil, Net{}, fmt.Errorf("RefineKnotVectSurface: unknown direction %d: %w", dir, ErrInvalidInput)
	}
}

func checkRefinement(p int, U KnotVector, n int, X []float64) error {
	if len(U) != n+p+2 {
		return fmt.Errorf("%d knots for %d control points of degree %d: %w", len(U), n+1, p, ErrInvalidInput)
	}
	if !slices.IsSorted(X) {
		return fmt.Errorf("knots to insert are not sorted: %w", ErrInvalidInput)
	}
	for i, x := range X {
		if x <= U[p] || x >= U[n+1] {
			return fmt.Errorf("knot %g outside the open domain (%g, %g): %w", x, U[p], U[n+1], ErrInvalidInput)
		}
		if i > 0 && X[i-1] == x {
			continue
		}
		added := 1
		for j := i + 1; j < len(X) && X[j] == x; j++ {
			added++
		}
		if m := U.Multiplicity(x) + added; m > p {
			return fmt.Errorf("knot %g would have multiplicity %d above degree %d: %w", x, m, p, ErrInvalidInput)
		}
	}
	return nil
}

// refineRow is the body of A5.4 for one row of control points. X must be
// non-empty and validated.
func refineRow(p int, U KnotVector, Pw []Point4, X []float64) (KnotVector, []Point4) {
	n := len(Pw) - 1
	m := n + p + 1
	r := len(X) - 1
	a := FindSpan(n, p, X[0], U)
	b := FindSpan(n, p, X[r], U) + 1

	Ubar := make(KnotVector, m+r+2)
	Qw := make([]Point4, n+r+2)
	for j := 0; j <= a-p; j++ {
		Qw[j] = Pw[j]
	}
	for j := b - 1; j <= n; j++ {
		Qw[j+r+1] = Pw[j]
	}
	for j := 0; j <= a; j++ {
		Ubar[j] = U[j]
	}
	for j := b + p; j <= m; j++ {
		Ubar[j+r+1] = U[j]
	}

	i := b + p - 1
	k := b + p + r
	for j := r; j >= 0; j-- {
		for X[j] <= U[i] && i > a {
			Qw[k-p-1] = Pw[i-p-1]
			Ubar[k] = U[i]
			k--
			i--
		}
		Qw[k-p-1] = Qw[k-p]
		for l := 1; l <= p; l++ {
			ind := k - p + l
			alfa := Ubar[k+l] - X[j]
			if alfa == 0 {
				Qw[ind-1] = Qw[ind]
			} else {
				alfa /= Ubar[k+l] - U[i-p+l]
				Qw[ind-1] = blend(alfa, Qw[ind-1], Qw[ind])
			}
		}
		Ubar[k] = X[j]
		k--
	}
	return Ubar, Qw
}
