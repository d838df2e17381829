package nurbs

import (
	"fmt"
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// parallelEpsilon is the relative threshold below which two directions are
// considered parallel.
const parallelEpsilon = 1e-12

// Ray is a line through Origin along Direction. The direction need not be
// normalized; parameters returned by [Ray.Intersect] are in units of it.
type Ray struct {
	Origin    vec3.T
	Direction vec3.T
}

func (r Ray) String() string {
	return fmt.Sprintf("%v + t·%v", r.Origin, r.Direction)
}

// Eval returns Origin + t·Direction.
func (r Ray) Eval(t float64) vec3.T {
	d := r.Direction.Scaled(t)
	return vec3.Add(&r.Origin, &d)
}

// Intersect computes where r and o, extended to infinite lines, come closest.
// It returns the parameters t0 on r and t1 on o of the closest points, and the
// point on r. For intersecting lines that point is the intersection.
//
// ok is false if the lines are parallel, in which case there is no unique
// solution.
func (r Ray) Intersect(o Ray) (t0, t1 float64, pt vec3.T, ok bool) {
	w := vec3.Sub(&r.Origin, &o.Origin)
	a := vec3.Dot(&r.Direction, &r.Direction)
	b := vec3.Dot(&r.Direction, &o.Direction)
	c := vec3.Dot(&o.Direction, &o.Direction)
	d := vec3.Dot(&r.Direction, &w)
	e := vec3.Dot(&o.Direction, &w)

	den := a*c - b*b
	if a == 0 || c == 0 || math.Abs(den) <= parallelEpsilon*a*c {
		return 0, 0, vec3.T{}, false
	}
	t0 = (b*e - c*d) / den
	t1 = (a*e - b*d) / den
	return t0, t1, r.Eval(t0), true
}

// IsNaN reports whether the origin or the direction has a NaN component.
func (r Ray) IsNaN() bool {
	for i := range 3 {
		if math.IsNaN(r.Origin[i]) || math.IsNaN(r.Direction[i]) {
			return true
		}
	}
	return false
}
