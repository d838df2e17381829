package nurbs

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// RationalQuad is a rational quadratic Bézier segment with end points P0 and
// P2 of weight 1 and a middle control point P1 of weight W1. Every conic arc
// can be written in this form.
//
// W1 = 0 describes a middle control point at infinity; P1 is then the
// direction of that point rather than a position.
type RationalQuad struct {
	P0 vec3.T
	P1 vec3.T
	W1 float64
	P2 vec3.T
}

// Points returns the homogeneous control points of the segment.
func (q RationalQuad) Points() [3]Point4 {
	p1 := Weighted(q.P1, q.W1)
	if q.W1 == 0 {
		p1 = Point4{X: q.P1[0], Y: q.P1[1], Z: q.P1[2]}
	}
	return [3]Point4{Weighted(q.P0, 1), p1, Weighted(q.P2, 1)}
}

// Eval evaluates the segment at t ∈ [0, 1].
func (q RationalQuad) Eval(t float64) vec3.T {
	pts := q.Points()
	mt := 1 - t
	h := pts[0].Mul(mt * mt).Add(pts[1].Mul(2 * mt * t)).Add(pts[2].Mul(t * t))
	return h.Euclidean()
}

// Start returns P0.
func (q RationalQuad) Start() vec3.T { return q.P0 }

// End returns P2.
func (q RationalQuad) End() vec3.T { return q.P2 }

// Subdivide splits the segment at its parametric midpoint into two segments
// that together describe the same arc. See [SplitArc].
func (q RationalQuad) Subdivide() (RationalQuad, RationalQuad) {
	q1, s, r1, wqr := SplitArc(q.P0, q.P1, q.W1, q.P2)
	return RationalQuad{P0: q.P0, P1: q1, W1: wqr, P2: s},
		RationalQuad{P0: s, P1: r1, W1: wqr, P2: q.P2}
}

// SplitArc subdivides the rational quadratic Bézier arc (P0, P1, w1, P2) at
// t = ½. It returns the new middle control points Q1 and R1 of the two halves,
// the split point S, and the weight wqr shared by Q1 and R1 after the halves
// have been reparametrized to have end weights of 1.
//
// For w1 = 0, P1 is taken to be the direction of an infinite control point;
// the halves then have weight √2/2.
func SplitArc(P0, P1 vec3.T, w1 float64, P2 vec3.T) (Q1, S, R1 vec3.T, wqr float64) {
	if w1 == 0 {
		Q1 = vec3.Add(&P0, &P1)
		R1 = vec3.Add(&P2, &P1)
		S = vec3.Interpolate(&Q1, &R1, 0.5)
		return Q1, S, R1, math.Sqrt2 / 2
	}

	wp1 := P1.Scaled(w1)
	Q1 = vec3.Add(&P0, &wp1)
	Q1.Scale(1 / (1 + w1))
	R1 = vec3.Add(&wp1, &P2)
	R1.Scale(1 / (1 + w1))
	S = vec3.Interpolate(&Q1, &R1, 0.5)
	return Q1, S, R1, math.Sqrt((1 + w1) / 2)
}
