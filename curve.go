package nurbs

import (
	"fmt"
	"math"
	"slices"
	"sync/atomic"

	"github.com/ungerik/go3d/float64/vec3"
)

// CurveData is a consistent view of a curve: the knots and control points of
// a single generation. It shares no memory with the curve.
type CurveData struct {
	Degree     int
	Knots      KnotVector
	Points     []Point4
	Generation uint64
}

type curveState struct {
	degree int
	knots  KnotVector
	points []Point4
	gen    uint64
}

// Curve is a NURBS curve, described by its degree, a clamped knot vector and
// homogeneous control points.
//
// A curve's state is replaced as a whole by every edit, so readers always see
// knots and control points that belong together. Edits are meant to come from
// a single writer; an edit that races with another one fails with
// [ErrConcurrentModification] and has no effect.
//
// The zero value is not usable. Curves must be created with one of the
// constructors, such as [NewCurve] or [UniformCurve].
type Curve struct {
	state atomic.Pointer[curveState]
}

// NewCurve returns a curve with the given knots and homogeneous control
// points. The degree is implied by the knot vector. Both slices are copied.
//
// Weights must be positive.
func NewCurve(knots KnotVector, points []Point4) (*Curve, error) {
	if err := knots.Validate(knots.Degree(), len(points)); err != nil {
		return nil, fmt.Errorf("NewCurve: %w", err)
	}
	if err := checkPoints(points); err != nil {
		return nil, fmt.Errorf("NewCurve: %w", err)
	}
	return newCurve(knots.Clone(), slices.Clone(points)), nil
}

// newCurve takes ownership of knots and points, which must form a valid curve.
func newCurve(knots KnotVector, points []Point4) *Curve {
	c := &Curve{}
	c.state.Store(&curveState{degree: knots.Degree(), knots: knots, points: points})
	return c
}

// UniformCurve returns a straight, non-rational curve of the given degree from
// start to end, with control points spaced evenly, at most spacing apart, and
// uniformly spaced interior knots on the domain [0, 1].
//
// The line must be long enough to hold degree+1 control points.
func UniformCurve(start, end vec3.T, spacing float64, degree int) (*Curve, error) {
	length := vec3.Distance(&start, &end)
	if !(spacing > 0) || length == 0 || degree < 1 {
		return nil, fmt.Errorf("UniformCurve: spacing %g, length %g, degree %d: %w", spacing, length, degree, ErrInvalidInput)
	}
	legs := int(math.Ceil(length / spacing))
	if legs < degree {
		return nil, fmt.Errorf("UniformCurve: %d segments cannot hold a curve of degree %d: %w", legs, degree, ErrInvalidInput)
	}
	points := make([]Point4, legs+1)
	for i := range points {
		points[i] = Weighted(vec3.Interpolate(&start, &end, float64(i)/float64(legs)), 1)
	}
	return newCurve(uniformKnots(degree, len(points)), points), nil
}

// planeFrame returns an orthonormal frame of the plane spanned by x and y,
// with the first axis parallel to x.
func planeFrame(x, y vec3.T) (X, Y vec3.T, err error) {
	if x.Length() == 0 {
		return X, Y, fmt.Errorf("zero x axis: %w", ErrDegenerateGeometry)
	}
	X = x.Normalized()
	proj := X.Scaled(vec3.Dot(&y, &X))
	Y = vec3.Sub(&y, &proj)
	if Y.Length() <= 1e-12*y.Length() {
		return X, Y, fmt.Errorf("y axis parallel to x axis: %w", ErrDegenerateGeometry)
	}
	Y.Normalize()
	return X, Y, nil
}

// CircularArc returns a circular arc of the given radius around center, in
// the plane spanned by xAxis and yAxis, from startDeg to endDeg degrees. See
// [MakeNurbsCircle] for the construction.
//
// The axes don't need to be normalized or orthogonal; yAxis only selects the
// side of xAxis towards which positive angles rotate.
func CircularArc(center, xAxis, yAxis vec3.T, radius, startDeg, endDeg float64) (*Curve, error) {
	X, Y, err := planeFrame(xAxis, yAxis)
	if err != nil {
		return nil, fmt.Errorf("CircularArc: %w", err)
	}
	U, Pw, err := MakeNurbsCircle(center, X, Y, radius, startDeg, endDeg)
	if err != nil {
		return nil, fmt.Errorf("CircularArc: %w", err)
	}
	return newCurve(U, Pw), nil
}

// FullCircle returns the exact nine-point quadratic circle of the given
// radius around center, with knots [0, 0, 0, ¼, ¼, ½, ½, ¾, ¾, 1, 1, 1].
func FullCircle(center, xAxis, yAxis vec3.T, radius float64) (*Curve, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("FullCircle: radius %g: %w", radius, ErrInvalidInput)
	}
	X, Y, err := planeFrame(xAxis, yAxis)
	if err != nil {
		return nil, fmt.Errorf("FullCircle: %w", err)
	}
	X.Scale(radius)
	Y.Scale(radius)
	at := func(x, y float64) vec3.T {
		sx := X.Scaled(x)
		sy := Y.Scaled(y)
		p := vec3.Add(&center, &sx)
		return vec3.Add(&p, &sy)
	}
	const w = math.Sqrt2 / 2
	points := []Point4{
		Weighted(at(1, 0), 1),
		Weighted(at(1, 1), w),
		Weighted(at(0, 1), 1),
		Weighted(at(-1, 1), w),
		Weighted(at(-1, 0), 1),
		Weighted(at(-1, -1), w),
		Weighted(at(0, -1), 1),
		Weighted(at(1, -1), w),
		Weighted(at(1, 0), 1),
	}
	return newCurve(arcKnots(4), points), nil
}

// OpenConic returns the conic arc from P0 to P2 with end tangents T0 and T2
// passing through P. See [MakeOpenConic].
func OpenConic(P0, T0, P2, T2, P vec3.T) (*Curve, error) {
	U, Pw, err := MakeOpenConic(P0, T0, P2, T2, P)
	if err != nil {
		return nil, err
	}
	return newCurve(U, Pw), nil
}

func (c *Curve) load() *curveState {
	st := c.state.Load()
	if st == nil {
		panic("nurbs: use of uninitialized Curve")
	}
	return st
}

// commit publishes a new state derived from old.
func (c *Curve) commit(op string, old *curveState, knots KnotVector, points []Point4) error {
	next := &curveState{degree: knots.Degree(), knots: knots, points: points, gen: old.gen + 1}
	if !c.state.CompareAndSwap(old, next) {
		return fmt.Errorf("%s: %w", op, ErrConcurrentModification)
	}
	Logger().Debug("curve edited",
		"op", op,
		"degree", next.degree,
		"knots", len(knots),
		"points", len(points),
		"generation", next.gen)
	return nil
}

// Snapshot returns a copy of the curve's current state.
func (c *Curve) Snapshot() CurveData {
	st := c.load()
	return CurveData{
		Degree:     st.degree,
		Knots:      st.knots.Clone(),
		Points:     slices.Clone(st.points),
		Generation: st.gen,
	}
}

// Clone returns an independent curve with the same state, starting at
// generation 0.
func (c *Curve) Clone() *Curve {
	st := c.load()
	return newCurve(st.knots, st.points)
}

func (c *Curve) Degree() int { return c.load().degree }

// Knots returns a copy of the knot vector.
func (c *Curve) Knots() KnotVector { return c.load().knots.Clone() }

// ControlPoints returns a copy of the homogeneous control points.
func (c *Curve) ControlPoints() []Point4 { return slices.Clone(c.load().points) }

// Generation returns the number of edits applied to the curve.
func (c *Curve) Generation() uint64 { return c.load().gen }

// ParameterRange returns the first and last knot.
func (c *Curve) ParameterRange() (start, end float64) {
	return c.load().knots.Domain()
}

// CanInsertKnot reports whether the knot vector has any knot strictly inside
// the parameter range.
func (c *Curve) CanInsertKnot() bool {
	U := c.load().knots
	start, end := U.Domain()
	for _, u := range U {
		if u != start && u != end {
			return true
		}
	}
	return false
}

// Eval evaluates the curve at u. Parameters outside the parameter range are
// clamped to it.
func (c *Curve) Eval(u float64) vec3.T {
	st := c.load()
	start, end := st.knots.Domain()
	return CurvePoint(st.degree, st.knots, st.points, min(max(u, start), end))
}

// Sample evaluates the curve at n+1 evenly spaced parameters covering the
// whole parameter range. If n < 1, DefaultSamples is used.
func (c *Curve) Sample(n int) []vec3.T {
	if n < 1 {
		n = DefaultSamples
	}
	st := c.load()
	start, end := st.knots.Domain()
	out := make([]vec3.T, n+1)
	for i := range n + 1 {
		u := start + (end-start)*float64(i)/float64(n)
		out[i] = CurvePoint(st.degree, st.knots, st.points, min(u, end))
	}
	return out
}

// Legs returns the rays from every control point to the control point
// spacing positions after it, in Euclidean space. With a spacing of 1 these
// are the legs of the control polygon.
func (c *Curve) Legs(spacing int) []Ray {
	pts := c.load().points
	if spacing < 1 || spacing >= len(pts) {
		return nil
	}
	rays := make([]Ray, 0, len(pts)-spacing)
	for i := range len(pts) - spacing {
		a := pts[i].Euclidean()
		b := pts[i+spacing].Euclidean()
		rays = append(rays, Ray{Origin: a, Direction: vec3.Sub(&b, &a)})
	}
	return rays
}

// Transform returns a new curve with aff applied to all control points. The
// knots and weights are unchanged.
func (c *Curve) Transform(aff Affine) *Curve {
	st := c.load()
	points := make([]Point4, len(st.points))
	for i, pt := range st.points {
		points[i] = pt.Transform(aff)
	}
	return newCurve(st.knots, points)
}

// InsertKnot inserts u into the knot vector r times without changing the
// shape of the curve. u must lie strictly inside the parameter range and its
// resulting multiplicity must not exceed the degree.
func (c *Curve) InsertKnot(u float64, r int) error {
	if r < 1 {
		return fmt.Errorf("InsertKnot: multiplicity %d: %w", r, ErrInvalidInput)
	}
	st := c.load()
	k := FindSpan(len(st.points)-1, st.degree, u, st.knots)
	s := st.knots.Multiplicity(u)
	U, Pw, err := CurveKnotIns(st.degree, st.knots, st.points, u, k, s, r)
	if err != nil {
		return err
	}
	return c.commit("InsertKnot", st, U, Pw)
}

// RefineKnots inserts all values of xs into the knot vector at once. The
// values need not be sorted and may repeat.
func (c *Curve) RefineKnots(xs []float64) error {
	if len(xs) == 0 {
		return nil
	}
	st := c.load()
	U, Pw, err := RefineKnotVectCurve(st.degree, st.knots, st.points, slices.Sorted(slices.Values(xs)))
	if err != nil {
		return err
	}
	return c.commit("RefineKnots", st, U, Pw)
}

// RemoveKnot tries to remove the interior knot u up to maxAttempts times.
// index is the index of the last occurrence of u and multiplicity its number
// of occurrences, as returned by [KnotVector.Index].
//
// A removal is only carried out if the curve doesn't move by more than the
// deviation configured with [WithDeviation]. Removal stops at the first knot
// that can't be removed. The number of removed knots is returned; running out
// of tolerance isn't an error.
func (c *Curve) RemoveKnot(u float64, index, multiplicity, maxAttempts int, opts ...Option) (int, error) {
	o := buildOptions(opts)
	st := c.load()
	t, U, Pw, err := RemoveCurveKnot(st.degree, st.knots, st.points, u, index, multiplicity, maxAttempts, o.deviation)
	if err != nil {
		return 0, err
	}
	if t < maxAttempts {
		Logger().Debug("knot removal stopped early", "knot", u, "requested", maxAttempts, "removed", t)
	}
	if t == 0 {
		return 0, nil
	}
	if err := c.commit("RemoveKnot", st, U, Pw); err != nil {
		return 0, err
	}
	return t, nil
}

// ElevateDegree raises the degree of the curve by t without changing its
// shape. Elevating by 0 does nothing.
func (c *Curve) ElevateDegree(t int) error {
	st := c.load()
	U, Pw, err := DegreeElevateCurve(st.degree, st.knots, st.points, t)
	if err != nil {
		return err
	}
	if t == 0 {
		return nil
	}
	return c.commit("ElevateDegree", st, U, Pw)
}

func (c *Curve) Kind() Kind { return KindCurve }

func (c *Curve) ControlPointCount() int { return len(c.load().points) }

// ControlPointAt returns the i'th homogeneous control point.
func (c *Curve) ControlPointAt(i int) Point4 { return c.load().points[i] }

// SetControlPointAt moves the i'th control point to pt, keeping its weight.
func (c *Curve) SetControlPointAt(i int, pt vec3.T) error {
	st := c.load()
	if i < 0 || i >= len(st.points) {
		return fmt.Errorf("SetControlPointAt: index %d out of range [0, %d): %w", i, len(st.points), ErrInvalidInput)
	}
	points := slices.Clone(st.points)
	points[i] = Weighted(pt, points[i].W)
	return c.commit("SetControlPointAt", st, st.knots, points)
}

// SetWeightAt changes the weight of the i'th control point, keeping its
// Euclidean position.
func (c *Curve) SetWeightAt(i int, w float64) error {
	st := c.load()
	if i < 0 || i >= len(st.points) {
		return fmt.Errorf("SetWeightAt: index %d out of range [0, %d): %w", i, len(st.points), ErrInvalidInput)
	}
	if err := checkWeight(w); err != nil {
		return fmt.Errorf("SetWeightAt: %w", err)
	}
	points := slices.Clone(st.points)
	points[i] = Weighted(points[i].Euclidean(), w)
	return c.commit("SetWeightAt", st, st.knots, points)
}

// Evaluate evaluates the curve at uv.U.
func (c *Curve) Evaluate(uv UV) vec3.T { return c.Eval(uv.U) }

// Bounds returns the bounding box of the Euclidean control points. With
// positive weights, the curve lies inside of it.
func (c *Curve) Bounds() Box { return controlBounds(c.load().points) }

// Export returns the single-precision form of the curve's current state.
func (c *Curve) Export() Buffers {
	st := c.load()
	return Buffers{
		Kind:          KindCurve,
		Generation:    st.gen,
		UDegree:       st.degree,
		UKnots:        float32Knots(st.knots),
		Size:          NetSize{Rows: 1, Cols: len(st.points)},
		ControlPoints: float32Points(st.points),
	}
}
