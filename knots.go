package nurbs

import (
	"fmt"
	"math"
	"slices"
)

// KnotVector is a non-decreasing sequence of parameter values.
//
// Knot vectors used by curves and surfaces are clamped: the first and last
// values are each repeated degree+1 times. A knot vector is owned by exactly
// one curve or surface and is replaced as a whole by structural edits; it is
// never modified in place once published.
type KnotVector []float64

// Clone returns a copy of the knot vector.
func (kv KnotVector) Clone() KnotVector {
	return slices.Clone(kv)
}

// Degree returns the degree implied by a clamped knot vector: the
// multiplicity of the first value minus one.
func (kv KnotVector) Degree() int {
	if len(kv) == 0 {
		return -1
	}
	return kv.Multiplicity(kv[0]) - 1
}

// Domain returns the first and last knot values.
func (kv KnotVector) Domain() (start, end float64) {
	return kv[0], kv[len(kv)-1]
}

// Multiplicity returns the number of times u occurs in the knot vector.
// Values are compared exactly.
func (kv KnotVector) Multiplicity(u float64) int {
	i, found := slices.BinarySearch(kv, u)
	if !found {
		return 0
	}
	j := i
	for j < len(kv) && kv[j] == u {
		j++
	}
	return j - i
}

// Index returns the index r of the last occurrence of u, and its multiplicity
// s. This is the (r, s) pair expected by [RemoveCurveKnot]. If u does not occur,
// r is -1 and s is 0.
func (kv KnotVector) Index(u float64) (r, s int) {
	s = kv.Multiplicity(u)
	if s == 0 {
		return -1, 0
	}
	i, _ := slices.BinarySearch(kv, u)
	return i + s - 1, s
}

// KnotMultiplicity is a distinct knot value and the number of times it occurs.
type KnotMultiplicity struct {
	Knot float64
	Mult int
}

// Multiplicities returns the distinct values of the knot vector in increasing
// order along with their multiplicities.
func (kv KnotVector) Multiplicities() []KnotMultiplicity {
	var out []KnotMultiplicity
	for _, u := range kv {
		if n := len(out); n > 0 && out[n-1].Knot == u {
			out[n-1].Mult++
			continue
		}
		out = append(out, KnotMultiplicity{Knot: u, Mult: 1})
	}
	return out
}

// IsNonDecreasing reports whether every value is at least as large as its
// predecessor.
func (kv KnotVector) IsNonDecreasing() bool {
	for i := 1; i < len(kv); i++ {
		if kv[i] < kv[i-1] {
			return false
		}
	}
	return true
}

// Validate checks that the knot vector is a valid clamped knot vector of
// degree p for a net of numPoints control points: it is non-decreasing and
// finite, both end values occur exactly p+1 times, and len(kv) == numPoints +
// p + 1.
func (kv KnotVector) Validate(p, numPoints int) error {
	if p < 1 {
		return fmt.Errorf("degree %d: %w", p, ErrInvalidInput)
	}
	if len(kv) != numPoints+p+1 {
		return fmt.Errorf("%d knots for %d control points of degree %d: %w", len(kv), numPoints, p, ErrInvalidInput)
	}
	for _, u := range kv {
		if math.IsNaN(u) || math.IsInf(u, 0) {
			return fmt.Errorf("knot %v: %w", u, ErrInvalidInput)
		}
	}
	if !kv.IsNonDecreasing() {
		return fmt.Errorf("knots not non-decreasing: %w", ErrInvalidInput)
	}
	start, end := kv.Domain()
	if start == end {
		return fmt.Errorf("empty parameter domain: %w", ErrInvalidInput)
	}
	if m := kv.Multiplicity(start); m != p+1 {
		return fmt.Errorf("start knot multiplicity %d, want %d: %w", m, p+1, ErrInvalidInput)
	}
	if m := kv.Multiplicity(end); m != p+1 {
		return fmt.Errorf("end knot multiplicity %d, want %d: %w", m, p+1, ErrInvalidInput)
	}
	return nil
}

// Reparametrized returns a copy of the knot vector linearly mapped onto the
// domain [a, b]. End values are set exactly to a and b. Reparametrizing the
// knots of a curve does not change its shape.
func (kv KnotVector) Reparametrized(a, b float64) KnotVector {
	start, end := kv.Domain()
	out := make(KnotVector, len(kv))
	scale := (b - a) / (end - start)
	for i, u := range kv {
		switch u {
		case start:
			out[i] = a
		case end:
			out[i] = b
		default:
			out[i] = a + (u-start)*scale
		}
	}
	return out
}

// Span returns the knot span index of u for a curve of degree p; see
// [FindSpan].
func (kv KnotVector) Span(p int, u float64) int {
	n := len(kv) - p - 2
	return FindSpan(n, p, u, kv)
}

// FindSpan returns the index k of the knot span containing u, such that
// U[k] ≤ u < U[k+1], for a curve with last control point index n and degree p.
//
// The end of the domain is special: for u == U[n+1] the result is n, which
// keeps evaluation at the end inside the last non-empty span. Parameters
// outside [U[p], U[n+1]] are clamped to the first or last span.
func FindSpan(n, p int, u float64, U KnotVector) int {
	if u >= U[n+1] {
		return n
	}
	if u <= U[p] {
		return p
	}

	low := p
	high := n + 1
	mid := (low + high) / 2
	for u < U[mid] || u >= U[mid+1] {
		if u < U[mid] {
			high = mid
		} else {
			low = mid
		}
		mid = (low + high) / 2
	}
	return mid
}

// uniformKnots returns a clamped knot vector on [0, 1] for numPoints control
// points of degree p, with uniformly spaced interior knots.
func uniformKnots(p, numPoints int) KnotVector {
	m := numPoints + p
	kv := make(KnotVector, m+1)
	for i := 0; i <= p; i++ {
		kv[i] = 0
		kv[m-i] = 1
	}
	interior := numPoints - p - 1
	span := 1 / float64(interior+1)
	for i := p + 1; i <= m-p-1; i++ {
		kv[i] = float64(i-p) * span
	}
	return kv
}

// arcKnots returns the quadratic knot vector used by circular and conic
// arcs made of narcs segments.
func arcKnots(narcs int) KnotVector {
	switch narcs {
	case 1:
		return KnotVector{0, 0, 0, 1, 1, 1}
	case 2:
		return KnotVector{0, 0, 0, 0.5, 0.5, 1, 1, 1}
	case 3:
		return KnotVector{0, 0, 0, 1.0 / 3.0, 1.0 / 3.0, 2.0 / 3.0, 2.0 / 3.0, 1, 1, 1}
	case 4:
		return KnotVector{0, 0, 0, 0.25, 0.25, 0.5, 0.5, 0.75, 0.75, 1, 1, 1}
	default:
		panic(fmt.Sprintf("unsupported number of arcs %d", narcs))
	}
}

// arcCount returns the number of rational quadratic segments used for a sweep
// of theta degrees.
func arcCount(theta float64) int {
	switch {
	case theta <= 90:
		return 1
	case theta <= 180:
		return 2
	case theta <= 270:
		return 3
	default:
		return 4
	}
}
