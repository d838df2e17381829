package nurbs

import (
	"fmt"
	"math"
	"slices"
)

// removalRoundoff bounds the relative rounding error accepted on top of the
// removal tolerance, so that a deviation of zero still allows exact removals.
const removalRoundoff = 1e-12

// RemovalTolerance returns the tolerance used by knot removal for a maximum
// deviation d: d·wmin / (1 + |P|max), where wmin is the smallest weight and
// |P|max the largest distance of a Euclidean control point from the origin.
//
// Removing knots within this tolerance moves no point of the curve by more
// than d.
func RemovalTolerance(Pw []Point4, d float64) float64 {
	wmin := math.Inf(1)
	pmax := 0.0
	for _, pt := range Pw {
		wmin = min(wmin, pt.W)
		e := pt.Euclidean()
		pmax = max(pmax, e.Length())
	}
	return d*wmin/(1+pmax) + removalRoundoff*(1+pmax)
}

// RemoveCurveKnot tries to remove the knot u up to num times from the curve of
// degree p with knots U and control points Pw (The NURBS Book, A5.8).
//
// r is the index of the last occurrence of u in U and s its multiplicity, see
// [KnotVector.Index]. Each removal is accepted only if the control points
// reconstructed from both ends of the affected window agree within the
// tolerance derived from the deviation d (see [RemovalTolerance]). Removal
// stops at the first attempt that fails.
//
// The returned count t may be less than num, including zero; that is not an
// error. The inputs are not modified; the returned knots and points describe
// the curve after t removals.
func RemoveCurveKnot(p int, U KnotVector, Pw []Point4, u float64, r, s, num int, d float64) (int, KnotVector, []Point4, error) {
	n := len(Pw) - 1
	m := n + p + 1
	if len(U) != m+1 {
		return 0, nil, nil, fmt.Errorf("RemoveCurveKnot: %d knots for %d control points of degree %d: %w", len(U), n+1, p, ErrInvalidInput)
	}
	if r <= p || r > n || U[r] != u || U[r+1] == u {
		return 0, nil, nil, fmt.Errorf("RemoveCurveKnot: index %d is not the last occurrence of interior knot %g: %w", r, u, ErrInvalidInput)
	}
	if ms := U.Multiplicity(u); s != ms || s > p {
		return 0, nil, nil, fmt.Errorf("RemoveCurveKnot: multiplicity %d, knot %g occurs %d times: %w", s, u, ms, ErrInvalidInput)
	}
	if num < 0 || num > s {
		return 0, nil, nil, fmt.Errorf("RemoveCurveKnot: cannot remove knot of multiplicity %d %d times: %w", s, num, ErrInvalidInput)
	}

	U = U.Clone()
	Pw = slices.Clone(Pw)
	tol := RemovalTolerance(Pw, d)

	ord := p + 1
	fout := (2*r - s - p) / 2
	first := r - p
	last := r - s
	temp := make([]Point4, 2*p+1)

	// t counts successful removals. It is the only value carried out of the
	// loop; first and last are dead after a failed attempt.
	t := 0
	for ; t < num; t++ {
		off := first - 1
		temp[0] = Pw[off]
		temp[last+1-off] = Pw[last+1]
		i, j := first, last
		ii, jj := 1, last-off
		for j-i > t {
			alfi := (u - U[i]) / (U[i+ord+t] - U[i])
			alfj := (u - U[j-t]) / (U[j+ord] - U[j-t])
			temp[ii] = Pw[i].Sub(temp[ii-1].Mul(1 - alfi)).Div(alfi)
			temp[jj] = Pw[j].Sub(temp[jj+1].Mul(alfj)).Div(1 - alfj)
			i++
			ii++
			j--
			jj--
		}

		var removable bool
		if j-i < t {
			removable = temp[ii-1].Distance(temp[jj+1]) <= tol
		} else {
			alfi := (u - U[i]) / (U[i+ord+t] - U[i])
			removable = Pw[i].Distance(blend(alfi, temp[ii+t+1], temp[ii-1])) <= tol
		}
		if !removable {
			break
		}

		i, j = first, last
		for j-i > t {
			Pw[i] = temp[i-off]
			Pw[j] = temp[j-off]
			i++
			j--
		}
		first--
		last++
	}
	if t == 0 {
		return 0, U, Pw, nil
	}

	for k := r + 1; k <= m; k++ {
		U[k-t] = U[k]
	}
	// The t points j..i become redundant; shift the tail left over them.
	j := fout
	i := j
	for k := 1; k < t; k++ {
		if k%2 == 1 {
			i++
		} else {
			j--
		}
	}
	for k := i + 1; k <= n; k++ {
		Pw[j] = Pw[k]
		j++
	}
	return t, U[:m+1-t], Pw[:n+1-t], nil
}
