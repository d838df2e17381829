package nurbs

import (
	"fmt"
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// MakeNurbsCircle constructs a circular arc of radius r around O in the plane
// spanned by the orthonormal vectors X and Y, from thStart to thEnd degrees
// (The NURBS Book, A7.1). An end angle below the start angle has 360° added to
// it.
//
// The sweep is split into one to four rational quadratic segments of equal
// angle, with one segment per 90° or part thereof. The middle control point of
// each segment is the intersection of the tangents at its end points and has
// weight cos(Δθ/2).
func MakeNurbsCircle(O, X, Y vec3.T, r, thStart, thEnd float64) (KnotVector, []Point4, error) {
	if thEnd < thStart {
		thEnd += 360
	}
	theta := thEnd - thStart
	if theta <= 0 || theta > 360 || r <= 0 {
		return nil, nil, fmt.Errorf("MakeNurbsCircle: radius %g, sweep %g°: %w", r, theta, ErrInvalidInput)
	}

	narcs := arcCount(theta)
	dtheta := theta / float64(narcs)
	n := 2 * narcs
	Pw := make([]Point4, n+1)
	w1 := math.Cos(degToRad(dtheta / 2))

	onCircle := func(deg float64) (pt, tangent vec3.T) {
		sin, cos := math.Sincos(degToRad(deg))
		x := X.Scaled(r * cos)
		y := Y.Scaled(r * sin)
		pt = vec3.Add(&O, &x)
		pt.Add(&y)
		tx := X.Scaled(-sin)
		ty := Y.Scaled(cos)
		return pt, vec3.Add(&tx, &ty)
	}

	P0, T0 := onCircle(thStart)
	Pw[0] = Weighted(P0, 1)
	index := 0
	angle := thStart
	for i := 1; i <= narcs; i++ {
		angle += dtheta
		P2, T2 := onCircle(angle)
		Pw[index+2] = Weighted(P2, 1)
		_, _, P1, ok := Ray{P0, T0}.Intersect(Ray{P2, T2})
		if !ok {
			return nil, nil, fmt.Errorf("MakeNurbsCircle: tangents of segment %d are parallel: %w", i, ErrDegenerateGeometry)
		}
		Pw[index+1] = Weighted(P1, w1)
		index += 2
		P0, T0 = P2, T2
	}
	return arcKnots(narcs), Pw, nil
}

// MakeOneArc finds the middle control point P1 and weight w1 of the rational
// quadratic Bézier arc that starts at P0 with tangent T0, ends at P2 with
// tangent T2, and passes through P.
//
// If the tangents are parallel, the arc needs a control point at infinity:
// w1 is then 0 and P1 is the direction of that point, scaled such that the
// arc passes through P. The result of this function is only meaningful if P0,
// T0, P2, T2 and P are coplanar.
func MakeOneArc(P0, T0, P2, T2, P vec3.T) (P1 vec3.T, w1 float64, err error) {
	V02 := vec3.Sub(&P2, &P0)
	_, _, P1, ok := Ray{P0, T0}.Intersect(Ray{P2, T2})
	if ok {
		// Finite control point.
		V1P := vec3.Sub(&P, &P1)
		_, alf2, _, ok := Ray{P1, V1P}.Intersect(Ray{P0, V02})
		if !ok {
			return vec3.T{}, 0, fmt.Errorf("MakeOneArc: %v lies on a line through the tangent intersection parallel to the chord: %w", P, ErrDegenerateGeometry)
		}
		alf2 = math.Abs(alf2)
		a := math.Sqrt(alf2 / (1 - alf2))
		u := a / (1 + a)
		pp0 := vec3.Sub(&P, &P0)
		pp2 := vec3.Sub(&P, &P2)
		p1p := vec3.Sub(&P1, &P)
		num := (1-u)*(1-u)*vec3.Dot(&pp0, &p1p) + u*u*vec3.Dot(&pp2, &p1p)
		den := 2 * u * (1 - u) * vec3.Dot(&p1p, &p1p)
		return P1, num / den, nil
	}

	// Infinite control point, e.g. a 180° arc.
	alf0, alf2, _, ok := Ray{P, T0}.Intersect(Ray{P0, V02})
	if !ok {
		return vec3.T{}, 0, fmt.Errorf("MakeOneArc: tangent at %v parallel to the chord: %w", P, ErrDegenerateGeometry)
	}
	a := math.Sqrt(alf2 / (1 - alf2))
	u := a / (1 + a)
	b := 2 * u * (1 - u)
	b = -alf0 * (1 - b) / b
	return T0.Scaled(b), 0, nil
}

// MakeOpenConic constructs the open conic arc from P0 to P2 with end tangents
// T0 and T2 that passes through P (The NURBS Book, A7.3).
//
// The arc is made of one, two or four rational quadratic segments:
// hyperbolas and parabolas (w1 ≥ 1) use a single segment, ellipses are split
// depending on the angle at the middle control point and on whether that
// point lies on the far side of the chord. An arc with w1 ≤ -1 cannot be
// represented and results in [ErrConvexHullViolation].
func MakeOpenConic(P0, T0, P2, T2, P vec3.T) (KnotVector, []Point4, error) {
	P1, w1, err := MakeOneArc(P0, T0, P2, T2, P)
	if err != nil {
		return nil, nil, fmt.Errorf("MakeOpenConic: %w", err)
	}
	if w1 <= -1 {
		return nil, nil, fmt.Errorf("MakeOpenConic: w1 = %g: %w", w1, ErrConvexHullViolation)
	}

	var nsegs int
	switch {
	case w1 >= 1:
		nsegs = 1
	case w1 > 0 && Angle(P0, P1, P2) > degToRad(60):
		nsegs = 1
	case w1 < 0 && Angle(P0, P1, P2) > degToRad(90):
		nsegs = 4
	default:
		nsegs = 2
	}

	arc := RationalQuad{P0: P0, P1: P1, W1: w1, P2: P2}
	var segs []RationalQuad
	switch nsegs {
	case 1:
		segs = []RationalQuad{arc}
	case 2:
		a, b := arc.Subdivide()
		segs = []RationalQuad{a, b}
	case 4:
		a, b := arc.Subdivide()
		a0, a1 := a.Subdivide()
		b0, b1 := b.Subdivide()
		segs = []RationalQuad{a0, a1, b0, b1}
	}
	return arcKnots(nsegs), joinArcs(segs), nil
}

// joinArcs concatenates consecutive rational quadratic segments into the
// control points of a single curve.
func joinArcs(segs []RationalQuad) []Point4 {
	Pw := make([]Point4, 0, 2*len(segs)+1)
	for i, seg := range segs {
		pts := seg.Points()
		if i == 0 {
			Pw = append(Pw, pts[0])
		}
		Pw = append(Pw, pts[1], pts[2])
	}
	return Pw
}
