package nurbs

import (
	"fmt"
	"math"

	"cogentcore.org/core/math32"
	"github.com/ungerik/go3d/float64/vec3"
)

// Kind distinguishes the kinds of [Geometry].
type Kind int

const (
	KindCurve Kind = iota + 1
	KindSurface
)

func (k Kind) String() string {
	switch k {
	case KindCurve:
		return "curve"
	case KindSurface:
		return "surface"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// UV is a parameter pair. Curves only use U.
type UV struct {
	U float64
	V float64
}

// Geometry is the capability shared by curves and surfaces, as needed by
// viewers and editors.
//
// Control points are addressed by a flat index. For surfaces, the index is
// row-major, see [Net]. Setters never change the knot vectors or the shape of
// the control net.
type Geometry interface {
	Kind() Kind
	ControlPointCount() int
	ControlPointAt(i int) Point4
	// SetControlPointAt moves the i'th control point to the Euclidean
	// position of pt, keeping its current weight.
	SetControlPointAt(i int, pt vec3.T) error
	SetWeightAt(i int, w float64) error
	Evaluate(uv UV) vec3.T
	Bounds() Box
	Export() Buffers
}

var (
	_ Geometry = (*Curve)(nil)
	_ Geometry = (*Surface)(nil)
)

// Buffers is the single-precision form of a curve or surface, as consumed by
// GPU renderers. Knot vectors and control points are copies and belong to the
// caller.
type Buffers struct {
	Kind       Kind
	Generation uint64
	UDegree    int
	// VDegree is 0 for curves.
	VDegree int
	UKnots  []float32
	// VKnots is nil for curves.
	VKnots []float32
	// Size is 1×n for a curve with n control points.
	Size NetSize
	// ControlPoints holds homogeneous control points, in the row-major order
	// of [Net].
	ControlPoints []math32.Vector4
}

func float32Knots(kv KnotVector) []float32 {
	if kv == nil {
		return nil
	}
	out := make([]float32, len(kv))
	for i, u := range kv {
		out[i] = float32(u)
	}
	return out
}

func float32Points(pts []Point4) []math32.Vector4 {
	out := make([]math32.Vector4, len(pts))
	for i, pt := range pts {
		out[i] = math32.Vec4(float32(pt.X), float32(pt.Y), float32(pt.Z), float32(pt.W))
	}
	return out
}

// controlBounds returns the bounding box of the Euclidean control points.
func controlBounds(pts []Point4) Box {
	if len(pts) == 0 {
		return Box{}
	}
	b := Box{pts[0].Euclidean(), pts[0].Euclidean()}
	for _, pt := range pts[1:] {
		b = b.UnionPoint(pt.Euclidean())
	}
	return b
}

// checkWeight validates a control point weight.
func checkWeight(w float64) error {
	if !(w > 0) || math.IsInf(w, 1) {
		return fmt.Errorf("weight %v: %w", w, ErrInvalidInput)
	}
	return nil
}

// checkPoints validates that every control point is finite and has a
// positive weight.
func checkPoints(pts []Point4) error {
	for i, pt := range pts {
		if pt.IsNaN() || pt.IsInf() {
			return fmt.Errorf("control point %d is %v: %w", i, pt, ErrInvalidInput)
		}
		if err := checkWeight(pt.W); err != nil {
			return fmt.Errorf("control point %d: %w", i, err)
		}
	}
	return nil
}
