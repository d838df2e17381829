package nurbs

import (
	"fmt"
	"slices"
)

// binomial returns the binomial coefficient n over k.
func binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	k = min(k, n-k)
	b := 1.0
	for i := 1; i <= k; i++ {
		b = b * float64(n-k+i) / float64(i)
	}
	return b
}

// bezierElevationCoefficients returns bezalfs, where bezalfs[i][j] is the
// weight of the j-th control point of a degree p Bézier segment in the i-th
// control point of the same segment raised to degree p+t.
func bezierElevationCoefficients(p, t int) [][]float64 {
	ph := p + t
	ph2 := ph / 2
	bezalfs := make([][]float64, ph+1)
	for i := range bezalfs {
		bezalfs[i] = make([]float64, p+1)
	}
	bezalfs[0][0] = 1
	bezalfs[ph][p] = 1
	for i := 1; i <= ph2; i++ {
		inv := 1 / binomial(ph, i)
		mpi := min(p, i)
		for j := max(0, i-t); j <= mpi; j++ {
			bezalfs[i][j] = inv * binomial(p, j) * binomial(t, i-j)
		}
	}
	// The table is symmetric.
	for i := ph2 + 1; i <= ph-1; i++ {
		mpi := min(p, i)
		for j := max(0, i-t); j <= mpi; j++ {
			bezalfs[i][j] = bezalfs[ph-i][p-j]
		}
	}
	return bezalfs
}

// DegreeElevateCurve raises the degree of the curve of degree p with knots U
// and control points Pw by t (The NURBS Book, A5.9). The curve is unchanged.
//
// The curve is decomposed into Bézier segments on the fly. Each segment is
// elevated using precomputed coefficients, and the knot of the previous
// junction is removed again so that every interior knot ends up with its
// original multiplicity plus t. Elevating by zero returns copies of the
// inputs.
func DegreeElevateCurve(p int, U KnotVector, Pw []Point4, t int) (KnotVector, []Point4, error) {
	n := len(Pw) - 1
	m := n + p + 1
	if len(U) != m+1 {
		return nil, nil, fmt.Errorf("DegreeElevateCurve: %d knots for %d control points of degree %d: %w", len(U), n+1, p, ErrInvalidInput)
	}
	if t < 0 {
		return nil, nil, fmt.Errorf("DegreeElevateCurve: negative elevation %d: %w", t, ErrInvalidInput)
	}
	mults := U.Multiplicities()
	if len(mults) < 2 {
		return nil, nil, fmt.Errorf("DegreeElevateCurve: empty parameter domain: %w", ErrInvalidInput)
	}
	for _, km := range mults[1 : len(mults)-1] {
		if km.Mult > p {
			return nil, nil, fmt.Errorf("DegreeElevateCurve: interior knot %g has multiplicity %d above degree %d: %w", km.Knot, km.Mult, p, ErrInvalidInput)
		}
	}
	if t == 0 {
		return U.Clone(), slices.Clone(Pw), nil
	}

	ph := p + t
	bezalfs := bezierElevationCoefficients(p, t)

	// Every distinct knot value gains t occurrences.
	distinct := len(mults)
	Uh := make(KnotVector, m+1+t*distinct)
	Qw := make([]Point4, len(Uh)-ph-1)

	bpts := make([]Point4, p+1)
	ebpts := make([]Point4, ph+1)
	nextbpts := make([]Point4, max(p-1, 0))
	alfs := make([]float64, max(p-1, 0))

	mh := ph
	kind := ph + 1
	r := -1
	a := p
	b := p + 1
	cind := 1
	ua := U[0]
	Qw[0] = Pw[0]
	for i := 0; i <= ph; i++ {
		Uh[i] = ua
	}
	for i := 0; i <= p; i++ {
		bpts[i] = Pw[i]
	}

	for b < m {
		i := b
		for b < m && U[b] == U[b+1] {
			b++
		}
		mul := b - i + 1
		mh += mul + t
		ub := U[b]
		oldr := r
		r = p - mul

		// lbz and rbz bound the elevated Bézier points that survive the
		// knot removal at the left junction and the insertion at the right.
		lbz := 1
		if oldr > 0 {
			lbz = (oldr + 2) / 2
		}
		rbz := ph
		if r > 0 {
			rbz = ph - (r+1)/2
		}

		if r > 0 {
			// Insert ub r times to split off the Bézier segment.
			numer := ub - ua
			for k := p; k > mul; k-- {
				alfs[k-mul-1] = numer / (U[a+k] - ua)
			}
			for j := 1; j <= r; j++ {
				save := r - j
				s := mul + j
				for k := p; k >= s; k-- {
					bpts[k] = blend(alfs[k-s], bpts[k], bpts[k-1])
				}
				nextbpts[save] = bpts[p]
			}
		}

		// Elevate the segment. Points below lbz are not needed.
		for i := lbz; i <= ph; i++ {
			ebpts[i] = Point4{}
			mpi := min(p, i)
			for j := max(0, i-t); j <= mpi; j++ {
				ebpts[i] = ebpts[i].Add(bpts[j].Mul(bezalfs[i][j]))
			}
		}

		if oldr > 1 {
			// Remove ua oldr-1 times.
			first := kind - 2
			last := kind
			den := ub - ua
			bet := (ub - Uh[kind-1]) / den
			for tr := 1; tr < oldr; tr++ {
				i := first
				j := last
				kj := j - kind + 1
				for j-i > tr {
					if i < cind {
						alf := (ub - Uh[i]) / (ua - Uh[i])
						Qw[i] = blend(alf, Qw[i], Qw[i-1])
					}
					if j >= lbz {
						if j-tr <= kind-ph+oldr {
							gam := (ub - Uh[j-tr]) / den
							ebpts[kj] = blend(gam, ebpts[kj], ebpts[kj+1])
						} else {
							ebpts[kj] = blend(bet, ebpts[kj], ebpts[kj+1])
						}
					}
					i++
					j--
					kj--
				}
				first--
				last++
			}
		}

		if a != p {
			for i := 0; i < ph-oldr; i++ {
				Uh[kind] = ua
				kind++
			}
		}
		for j := lbz; j <= rbz; j++ {
			Qw[cind] = ebpts[j]
			cind++
		}

		if b < m {
			// Set up the next segment.
			for j := 0; j < r; j++ {
				bpts[j] = nextbpts[j]
			}
			for j := max(r, 0); j <= p; j++ {
				bpts[j] = Pw[b-p+j]
			}
			a = b
			b++
			ua = ub
		} else {
			for i := 0; i <= ph; i++ {
				Uh[kind+i] = ub
			}
		}
	}

	nh := mh - ph - 1
	return Uh[:mh+1], Qw[:nh+1], nil
}

// DegreeElevateSurface raises the degree of direction dir of a surface by t,
// applying [DegreeElevateCurve] to every row (DirU) or column (DirV) of the
// net.
func DegreeElevateSurface(p int, U KnotVector, q int, V KnotVector, net Net, dir Direction, t int) (KnotVector, KnotVector, Net, error) {
	switch dir {
	case DirU:
		var Uh KnotVector
		rows := make([][]Point4, net.Size.Rows)
		for j := range rows {
			var err error
			Uh, rows[j], err = DegreeElevateCurve(p, U, net.Row(j), t)
			if err != nil {
				return nil, nil, Net{}, fmt.Errorf("DegreeElevateSurface(%s): %w", dir, err)
			}
		}
		return Uh, V.Clone(), netFromRows(rows), nil
	case DirV:
		var Vh KnotVector
		cols := make([][]Point4, net.Size.Cols)
		for i := range cols {
			var err error
			Vh, cols[i], err = DegreeElevateCurve(q, V, net.Col(i), t)
			if err != nil {
				return nil, nil, Net{}, fmt.Errorf("DegreeElevateSurface(%s): %w", dir, err)
			}
		}
		return U.Clone(), Vh, netFromCols(cols), nil
	default:
		return nil, nil, Net{}, fmt.Errorf("DegreeElevateSurface: unknown direction %d: %w", dir, ErrInvalidInput)
	}
}
