package nurbs

import (
	"fmt"
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// Point4 is a homogeneous control point (wx, wy, wz, w).
//
// The Euclidean point it represents is (X/W, Y/W, Z/W). Non-rational control
// points have W = 1. A weight of 0 describes a point at infinity, in which
// case X, Y and Z are a direction.
type Point4 struct {
	X float64
	Y float64
	Z float64
	W float64
}

// Pt4 returns the homogeneous point (x, y, z, w). The coordinates are taken
// as-is, i.e. they are expected to already be multiplied by w.
func Pt4(x, y, z, w float64) Point4 {
	return Point4{X: x, Y: y, Z: z, W: w}
}

// Weighted returns the homogeneous representation (w·p, w) of the Euclidean
// point p with weight w.
func Weighted(p vec3.T, w float64) Point4 {
	return Point4{X: w * p[0], Y: w * p[1], Z: w * p[2], W: w}
}

// Euclidean returns the Euclidean point described by pt. For points at
// infinity it returns the unscaled direction.
func (pt Point4) Euclidean() vec3.T {
	if pt.W == 0 {
		return pt.Vec3()
	}
	return vec3.T{pt.X / pt.W, pt.Y / pt.W, pt.Z / pt.W}
}

// Vec3 returns the weighted coordinates (X, Y, Z) without dividing by W.
func (pt Point4) Vec3() vec3.T {
	return vec3.T{pt.X, pt.Y, pt.Z}
}

// WithWeight returns a point at the same Euclidean position with weight w.
func (pt Point4) WithWeight(w float64) Point4 {
	return Weighted(pt.Euclidean(), w)
}

func (pt Point4) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", pt.X, pt.Y, pt.Z, pt.W)
}

// Add adds two homogeneous points component-wise.
func (pt Point4) Add(o Point4) Point4 {
	return Point4{
		X: pt.X + o.X,
		Y: pt.Y + o.Y,
		Z: pt.Z + o.Z,
		W: pt.W + o.W,
	}
}

// Sub subtracts o from pt component-wise.
func (pt Point4) Sub(o Point4) Point4 {
	return Point4{
		X: pt.X - o.X,
		Y: pt.Y - o.Y,
		Z: pt.Z - o.Z,
		W: pt.W - o.W,
	}
}

func (pt Point4) Mul(f float64) Point4 {
	return Point4{
		X: pt.X * f,
		Y: pt.Y * f,
		Z: pt.Z * f,
		W: pt.W * f,
	}
}

func (pt Point4) Div(f float64) Point4 {
	return Point4{
		X: pt.X / f,
		Y: pt.Y / f,
		Z: pt.Z / f,
		W: pt.W / f,
	}
}

// Lerp linearly interpolates between two points in homogeneous space.
func (pt Point4) Lerp(o Point4, t float64) Point4 {
	return blend(t, o, pt)
}

// Distance returns the four-dimensional Euclidean distance between two
// homogeneous points.
func (pt Point4) Distance(o Point4) float64 {
	d := pt.Sub(o)
	return math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z + d.W*d.W)
}

// IsInf reports whether at least one component is infinite.
func (pt Point4) IsInf() bool {
	return math.IsInf(pt.X, 0) || math.IsInf(pt.Y, 0) || math.IsInf(pt.Z, 0) || math.IsInf(pt.W, 0)
}

// IsNaN reports whether at least one component is NaN.
func (pt Point4) IsNaN() bool {
	return math.IsNaN(pt.X) || math.IsNaN(pt.Y) || math.IsNaN(pt.Z) || math.IsNaN(pt.W)
}

// blend computes a·p + (1-a)·q, the step shared by every insertion and
// removal recurrence.
func blend(a float64, p, q Point4) Point4 {
	b := 1 - a
	return Point4{
		X: a*p.X + b*q.X,
		Y: a*p.Y + b*q.Y,
		Z: a*p.Z + b*q.Z,
		W: a*p.W + b*q.W,
	}
}

// Angle returns the angle in radians at q formed by the points p, q and r,
// in the range [0, π].
func Angle(p, q, r vec3.T) float64 {
	d1 := vec3.Sub(&p, &q)
	d2 := vec3.Sub(&r, &q)
	c := vec3.Cross(&d1, &d2)
	return math.Atan2(c.Length(), vec3.Dot(&d1, &d2))
}

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180)
}
