package nurbs

import (
	"fmt"
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// Box is an axis-aligned box in three dimensions.
type Box struct {
	Min vec3.T
	Max vec3.T
}

// NewBoxFromPoints returns a box with the extents of p0 and p1, ensuring
// that its size is non-negative.
func NewBoxFromPoints(p0, p1 vec3.T) Box {
	return Box{p0, p1}.Abs()
}

// BoundingBoxOf returns the smallest box containing all points. It returns
// the zero box for no points.
func BoundingBoxOf(pts ...vec3.T) Box {
	if len(pts) == 0 {
		return Box{}
	}
	b := Box{pts[0], pts[0]}
	for _, pt := range pts[1:] {
		b = b.UnionPoint(pt)
	}
	return b
}

func (b Box) String() string {
	return fmt.Sprintf("[%v, %v]", b.Min, b.Max)
}

// Abs returns a new box with the same extents as b, but ensuring that its
// size is non-negative along each axis.
func (b Box) Abs() Box {
	return Box{
		Min: vec3.T{min(b.Min[0], b.Max[0]), min(b.Min[1], b.Max[1]), min(b.Min[2], b.Max[2])},
		Max: vec3.T{max(b.Min[0], b.Max[0]), max(b.Min[1], b.Max[1]), max(b.Min[2], b.Max[2])},
	}
}

// Size returns Max − Min. Components may be negative.
func (b Box) Size() vec3.T {
	return vec3.Sub(&b.Max, &b.Min)
}

func (b Box) Center() vec3.T {
	return vec3.Interpolate(&b.Min, &b.Max, 0.5)
}

// Diagonal returns the length of the box's diagonal.
func (b Box) Diagonal() float64 {
	return vec3.Distance(&b.Min, &b.Max)
}

// Contains reports whether pt lies inside the box or on its boundary.
func (b Box) Contains(pt vec3.T) bool {
	for i := range 3 {
		if pt[i] < b.Min[i] || pt[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Union returns the smallest box enclosing b and o.
//
// Results are valid only if both boxes have non-negative size.
func (b Box) Union(o Box) Box {
	return b.UnionPoint(o.Min).UnionPoint(o.Max)
}

// UnionPoint computes the union with one point.
//
// This method includes the boundary of boxes with zero volume. Thus, a
// succession of UnionPoint operations on a series of points yields their
// enclosing box.
func (b Box) UnionPoint(pt vec3.T) Box {
	for i := range 3 {
		b.Min[i] = min(b.Min[i], pt[i])
		b.Max[i] = max(b.Max[i], pt[i])
	}
	return b
}

// Intersect returns the intersection of two boxes.
//
// The result always has non-negative size; disjoint boxes produce a box of
// zero volume.
func (b Box) Intersect(o Box) Box {
	var out Box
	for i := range 3 {
		out.Min[i] = max(b.Min[i], o.Min[i])
		out.Max[i] = max(out.Min[i], min(b.Max[i], o.Max[i]))
	}
	return out
}

// Inflate expands a box by d in every direction.
func (b Box) Inflate(d float64) Box {
	for i := range 3 {
		b.Min[i] -= d
		b.Max[i] += d
	}
	return b
}

// Translate returns the box moved by v.
func (b Box) Translate(v vec3.T) Box {
	return Box{vec3.Add(&b.Min, &v), vec3.Add(&b.Max, &v)}
}

// Volume returns the box's volume. It may be negative if the box isn't
// normalized.
func (b Box) Volume() float64 {
	s := b.Size()
	return s[0] * s[1] * s[2]
}

func (b Box) IsInf() bool {
	for i := range 3 {
		if math.IsInf(b.Min[i], 0) || math.IsInf(b.Max[i], 0) {
			return true
		}
	}
	return false
}

func (b Box) IsNaN() bool {
	for i := range 3 {
		if math.IsNaN(b.Min[i]) || math.IsNaN(b.Max[i]) {
			return true
		}
	}
	return false
}
