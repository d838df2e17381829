package nurbs

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// Affine describes a three-dimensional affine transform via coefficients.
//
// The coefficients N0 through N11 are stored in column-major order and
// represent this augmented matrix:
//
//	| N0 N3 N6 N9  |
//	| N1 N4 N7 N10 |
//	| N2 N5 N8 N11 |
//	| 0  0  0  1   |
//
// The idea is that (A * B) * v == A * (B * v).
type Affine struct {
	N0, N1, N2, N3, N4, N5, N6, N7, N8, N9, N10, N11 float64
}

// Identity is the identity transform.
var Identity = Affine{N0: 1, N4: 1, N8: 1}

// Scale creates an affine transform representing non-uniform scaling along
// the coordinate axes.
func Scale(x, y, z float64) Affine {
	return Affine{N0: x, N4: y, N8: z}
}

// Translate creates an affine transform representing translation.
func Translate(v vec3.T) Affine {
	return Affine{N0: 1, N4: 1, N8: 1, N9: v[0], N10: v[1], N11: v[2]}
}

// Rotate creates an affine transform representing a rotation of th radians
// about an axis through the origin. Looking down the axis towards the origin,
// positive angles rotate anti-clockwise.
//
// The axis doesn't need to be normalized. A zero axis produces NaN values.
func Rotate(axis vec3.T, th float64) Affine {
	a := axis.Normalized()
	sin, cos := math.Sincos(th)
	k := 1 - cos
	x, y, z := a[0], a[1], a[2]
	return Affine{
		N0: cos + x*x*k, N1: y*x*k + z*sin, N2: z*x*k - y*sin,
		N3: x*y*k - z*sin, N4: cos + y*y*k, N5: z*y*k + x*sin,
		N6: x*z*k + y*sin, N7: y*z*k - x*sin, N8: cos + z*z*k,
	}
}

// RotateAbout creates an affine transform representing a rotation of th
// radians about the axis through origin.
//
// See [Rotate] for more info.
func RotateAbout(origin, axis vec3.T, th float64) Affine {
	neg := origin.Scaled(-1)
	return Translate(neg).ThenRotate(axis, th).ThenTranslate(origin)
}

// Reflect creates an affine transform that mirrors space about the plane
// through pt with the given normal.
func Reflect(pt, normal vec3.T) Affine {
	n := normal.Normalized()
	aff := Affine{
		N0: 1 - 2*n[0]*n[0], N1: -2 * n[1] * n[0], N2: -2 * n[2] * n[0],
		N3: -2 * n[0] * n[1], N4: 1 - 2*n[1]*n[1], N5: -2 * n[2] * n[1],
		N6: -2 * n[0] * n[2], N7: -2 * n[1] * n[2], N8: 1 - 2*n[2]*n[2],
		N9: pt[0], N10: pt[1], N11: pt[2],
	}
	return aff.PreTranslate(pt.Scaled(-1))
}

// Coefficients returns the coefficients of the transform.
func (aff Affine) Coefficients() [12]float64 {
	return [12]float64{
		aff.N0, aff.N1, aff.N2, aff.N3, aff.N4, aff.N5,
		aff.N6, aff.N7, aff.N8, aff.N9, aff.N10, aff.N11,
	}
}

// NewAffine creates a new affine transformation from an array of
// column-major coefficients.
func NewAffine(n [12]float64) Affine {
	return Affine{n[0], n[1], n[2], n[3], n[4], n[5], n[6], n[7], n[8], n[9], n[10], n[11]}
}

func (aff Affine) Mul(o Affine) Affine {
	return Affine{
		N0: aff.N0*o.N0 + aff.N3*o.N1 + aff.N6*o.N2,
		N1: aff.N1*o.N0 + aff.N4*o.N1 + aff.N7*o.N2,
		N2: aff.N2*o.N0 + aff.N5*o.N1 + aff.N8*o.N2,

		N3: aff.N0*o.N3 + aff.N3*o.N4 + aff.N6*o.N5,
		N4: aff.N1*o.N3 + aff.N4*o.N4 + aff.N7*o.N5,
		N5: aff.N2*o.N3 + aff.N5*o.N4 + aff.N8*o.N5,

		N6: aff.N0*o.N6 + aff.N3*o.N7 + aff.N6*o.N8,
		N7: aff.N1*o.N6 + aff.N4*o.N7 + aff.N7*o.N8,
		N8: aff.N2*o.N6 + aff.N5*o.N7 + aff.N8*o.N8,

		N9:  aff.N0*o.N9 + aff.N3*o.N10 + aff.N6*o.N11 + aff.N9,
		N10: aff.N1*o.N9 + aff.N4*o.N10 + aff.N7*o.N11 + aff.N10,
		N11: aff.N2*o.N9 + aff.N5*o.N10 + aff.N8*o.N11 + aff.N11,
	}
}

// PreRotate creates a rotation by th about axis followed by aff.
//
// Equivalent to "aff * Rotate(axis, th)"
func (aff Affine) PreRotate(axis vec3.T, th float64) Affine {
	return aff.Mul(Rotate(axis, th))
}

// ThenRotate creates aff followed by a rotation of th about axis.
//
// Equivalent to "Rotate(axis, th) * aff"
func (aff Affine) ThenRotate(axis vec3.T, th float64) Affine {
	return Rotate(axis, th).Mul(aff)
}

// PreScale creates a scale by (x, y, z) followed by aff.
//
// Equivalent to "aff * Scale(x, y, z)"
func (aff Affine) PreScale(x, y, z float64) Affine {
	return aff.Mul(Scale(x, y, z))
}

// ThenScale creates aff followed by a scale of (x, y, z).
//
// Equivalent to "Scale(x, y, z) * aff"
func (aff Affine) ThenScale(x, y, z float64) Affine {
	return Scale(x, y, z).Mul(aff)
}

// PreTranslate creates a translation of v followed by aff.
//
// Equivalent to "aff * Translate(v)"
func (aff Affine) PreTranslate(v vec3.T) Affine {
	return aff.Mul(Translate(v))
}

// ThenTranslate creates aff followed by a translation of v.
//
// Equivalent to "Translate(v) * aff"
func (aff Affine) ThenTranslate(v vec3.T) Affine {
	aff.N9 += v[0]
	aff.N10 += v[1]
	aff.N11 += v[2]
	return aff
}

// MapUnitCube creates an affine transformation that takes the unit cube to
// the given box.
func MapUnitCube(b Box) Affine {
	size := b.Size()
	return Affine{N0: size[0], N4: size[1], N8: size[2], N9: b.Min[0], N10: b.Min[1], N11: b.Min[2]}
}

// Determinant computes the determinant of the linear part.
func (aff Affine) Determinant() float64 {
	return aff.N0*(aff.N4*aff.N8-aff.N7*aff.N5) -
		aff.N3*(aff.N1*aff.N8-aff.N7*aff.N2) +
		aff.N6*(aff.N1*aff.N5-aff.N4*aff.N2)
}

// Invert computes the inverse transform.
//
// Produces NaN values when the determinant is zero.
func (aff Affine) Invert() Affine {
	invDet := 1 / aff.Determinant()
	inv := Affine{
		N0: invDet * (aff.N4*aff.N8 - aff.N7*aff.N5),
		N1: invDet * (aff.N7*aff.N2 - aff.N1*aff.N8),
		N2: invDet * (aff.N1*aff.N5 - aff.N4*aff.N2),
		N3: invDet * (aff.N6*aff.N5 - aff.N3*aff.N8),
		N4: invDet * (aff.N0*aff.N8 - aff.N6*aff.N2),
		N5: invDet * (aff.N3*aff.N2 - aff.N0*aff.N5),
		N6: invDet * (aff.N3*aff.N7 - aff.N6*aff.N4),
		N7: invDet * (aff.N6*aff.N1 - aff.N0*aff.N7),
		N8: invDet * (aff.N0*aff.N4 - aff.N3*aff.N1),
	}
	t := inv.linear(aff.Translation())
	return inv.WithTranslation(t.Scaled(-1))
}

func (aff Affine) IsInf() bool {
	for _, n := range aff.Coefficients() {
		if math.IsInf(n, 0) {
			return true
		}
	}
	return false
}

func (aff Affine) IsNaN() bool {
	for _, n := range aff.Coefficients() {
		if math.IsNaN(n) {
			return true
		}
	}
	return false
}

// Translation returns the translation component of this affine transformation.
func (aff Affine) Translation() vec3.T {
	return vec3.T{aff.N9, aff.N10, aff.N11}
}

// WithTranslation replaces the translation portion of this affine
// transformation.
func (aff Affine) WithTranslation(v vec3.T) Affine {
	aff.N9, aff.N10, aff.N11 = v[0], v[1], v[2]
	return aff
}

// linear applies only the linear part of the transform to v.
func (aff Affine) linear(v vec3.T) vec3.T {
	return vec3.T{
		aff.N0*v[0] + aff.N3*v[1] + aff.N6*v[2],
		aff.N1*v[0] + aff.N4*v[1] + aff.N7*v[2],
		aff.N2*v[0] + aff.N5*v[1] + aff.N8*v[2],
	}
}

// Point transforms a Euclidean point.
func (aff Affine) Point(p vec3.T) vec3.T {
	out := aff.linear(p)
	t := aff.Translation()
	return vec3.Add(&out, &t)
}

// Vector transforms a direction, ignoring the translation.
func (aff Affine) Vector(v vec3.T) vec3.T {
	return aff.linear(v)
}

// TransformBoxBoundingBox computes the bounding box of a transformed box.
//
// If the transform is axis-aligned, then this bounding box is tight.
func (aff Affine) TransformBoxBoundingBox(b Box) Box {
	var out Box
	for i := range 8 {
		corner := b.Min
		for axis := range 3 {
			if i&(1<<axis) != 0 {
				corner[axis] = b.Max[axis]
			}
		}
		p := aff.Point(corner)
		if i == 0 {
			out = Box{Min: p, Max: p}
		} else {
			out = out.UnionPoint(p)
		}
	}
	return out
}

// Transform applies aff to a homogeneous point. The weight is unchanged and
// the Euclidean point moves as aff.Point would move it.
func (pt Point4) Transform(aff Affine) Point4 {
	wp := aff.linear(pt.Vec3())
	return Point4{
		X: wp[0] + aff.N9*pt.W,
		Y: wp[1] + aff.N10*pt.W,
		Z: wp[2] + aff.N11*pt.W,
		W: pt.W,
	}
}
