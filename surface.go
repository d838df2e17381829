package nurbs

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/ungerik/go3d/float64/vec3"
)

// SurfaceData is a consistent view of a surface: the knots and control net of
// a single generation. It shares no memory with the surface.
type SurfaceData struct {
	UDegree    int
	VDegree    int
	UKnots     KnotVector
	VKnots     KnotVector
	Size       NetSize
	Points     []Point4
	Generation uint64
}

// Net returns the control net described by d.Size and d.Points.
func (d SurfaceData) Net() Net {
	return Net{Size: d.Size, Points: d.Points}
}

type surfaceState struct {
	p, q   int
	uKnots KnotVector
	vKnots KnotVector
	net    Net
	gen    uint64
}

// Surface is a tensor product NURBS surface. The u direction runs along the
// columns of its control net, the v direction along its rows.
//
// Surfaces follow the same rules for edits as curves, see [Curve].
type Surface struct {
	state atomic.Pointer[surfaceState]
}

// NewSurface returns a surface with the given knot vectors and control net.
// The degrees are implied by the knot vectors. All inputs are copied.
func NewSurface(uKnots, vKnots KnotVector, net Net) (*Surface, error) {
	if err := net.Validate(); err != nil {
		return nil, fmt.Errorf("NewSurface: %w", err)
	}
	if err := uKnots.Validate(uKnots.Degree(), net.Size.Cols); err != nil {
		return nil, fmt.Errorf("NewSurface: u: %w", err)
	}
	if err := vKnots.Validate(vKnots.Degree(), net.Size.Rows); err != nil {
		return nil, fmt.Errorf("NewSurface: v: %w", err)
	}
	if err := checkPoints(net.Points); err != nil {
		return nil, fmt.Errorf("NewSurface: %w", err)
	}
	return newSurface(uKnots.Clone(), vKnots.Clone(), net.Clone()), nil
}

func newSurface(uKnots, vKnots KnotVector, net Net) *Surface {
	s := &Surface{}
	s.state.Store(&surfaceState{
		p:      uKnots.Degree(),
		q:      vKnots.Degree(),
		uKnots: uKnots,
		vKnots: vKnots,
		net:    net,
	})
	return s
}

// FlatSurface returns a bilinear rectangle of the given size in the xy plane,
// centered on the origin. The first row of the net is the top edge.
func FlatSurface(width, height float64) (*Surface, error) {
	if !(width > 0) || !(height > 0) {
		return nil, fmt.Errorf("FlatSurface: size %g×%g: %w", width, height, ErrInvalidInput)
	}
	w, h := width/2, height/2
	net := netFromRows([][]Point4{
		{Pt4(-w, h, 0, 1), Pt4(w, h, 0, 1)},
		{Pt4(-w, -h, 0, 1), Pt4(w, -h, 0, 1)},
	})
	return newSurface(KnotVector{0, 0, 1, 1}, KnotVector{0, 0, 1, 1}, net), nil
}

// GridSurface returns a flat rectangle like [FlatSurface] whose net has
// evenly spaced control points, at most wSpacing apart along the width and
// hSpacing apart along the height, with degrees wDeg along u and hDeg along
// v.
func GridSurface(width, height, wSpacing, hSpacing float64, wDeg, hDeg int) (*Surface, error) {
	w, h := width/2, height/2
	uCurve, err := UniformCurve(vec3.T{-w, h, 0}, vec3.T{w, h, 0}, wSpacing, wDeg)
	if err != nil {
		return nil, fmt.Errorf("GridSurface: width: %w", err)
	}
	vCurve, err := UniformCurve(vec3.T{-w, h, 0}, vec3.T{-w, -h, 0}, hSpacing, hDeg)
	if err != nil {
		return nil, fmt.Errorf("GridSurface: height: %w", err)
	}
	return CombineCurves(uCurve, vCurve), nil
}

// CombineCurves returns the translational surface that sweeps uCurve along
// vCurve. Row j of the net is the control polygon of uCurve moved by the
// offset of vCurve's j'th control point from its first one. The rows keep
// the weights of uCurve; for rational vCurves, only the control polygon is
// swept.
func CombineCurves(uCurve, vCurve *Curve) *Surface {
	us := uCurve.load()
	vs := vCurve.load()
	net := NewNet(len(vs.points), len(us.points))
	v0 := vs.points[0].Euclidean()
	for j, vp := range vs.points {
		vj := vp.Euclidean()
		off := vec3.Sub(&vj, &v0)
		for i, up := range us.points {
			ui := up.Euclidean()
			net.Set(j, i, Weighted(vec3.Add(&ui, &off), up.W))
		}
	}
	return newSurface(us.knots, vs.knots, net)
}

// SurfaceOfRevolution sweeps profile around the axis through axisOrigin with
// direction axisDir by sweepDeg degrees. See [MakeRevolvedSurf] for the
// construction. The sweep runs along u; the profile's knots become the v knot
// vector.
func SurfaceOfRevolution(profile *Curve, axisOrigin, axisDir vec3.T, sweepDeg float64) (*Surface, error) {
	ps := profile.load()
	U, net, err := MakeRevolvedSurf(axisOrigin, axisDir, sweepDeg, ps.points)
	if err != nil {
		return nil, fmt.Errorf("SurfaceOfRevolution: %w", err)
	}
	return newSurface(U, ps.knots, net), nil
}

func (s *Surface) load() *surfaceState {
	st := s.state.Load()
	if st == nil {
		panic("nurbs: use of uninitialized Surface")
	}
	return st
}

func (s *Surface) commit(op string, old *surfaceState, uKnots, vKnots KnotVector, net Net) error {
	next := &surfaceState{
		p:      uKnots.Degree(),
		q:      vKnots.Degree(),
		uKnots: uKnots,
		vKnots: vKnots,
		net:    net,
		gen:    old.gen + 1,
	}
	if !s.state.CompareAndSwap(old, next) {
		return fmt.Errorf("%s: %w", op, ErrConcurrentModification)
	}
	Logger().Debug("surface edited",
		"op", op,
		"uDegree", next.p,
		"vDegree", next.q,
		"net", net.Size.String(),
		"generation", next.gen)
	return nil
}

// Snapshot returns a copy of the surface's current state.
func (s *Surface) Snapshot() SurfaceData {
	st := s.load()
	return SurfaceData{
		UDegree:    st.p,
		VDegree:    st.q,
		UKnots:     st.uKnots.Clone(),
		VKnots:     st.vKnots.Clone(),
		Size:       st.net.Size,
		Points:     slices.Clone(st.net.Points),
		Generation: st.gen,
	}
}

// Clone returns an independent surface with the same state, starting at
// generation 0.
func (s *Surface) Clone() *Surface {
	st := s.load()
	return newSurface(st.uKnots, st.vKnots, st.net)
}

func (s *Surface) UDegree() int { return s.load().p }
func (s *Surface) VDegree() int { return s.load().q }

// Size returns the shape of the control net.
func (s *Surface) Size() NetSize { return s.load().net.Size }

// Generation returns the number of edits applied to the surface.
func (s *Surface) Generation() uint64 { return s.load().gen }

// Eval evaluates the surface at (u, v). Parameters are clamped to the
// parameter ranges.
func (s *Surface) Eval(u, v float64) vec3.T {
	st := s.load()
	u0, u1 := st.uKnots.Domain()
	v0, v1 := st.vKnots.Domain()
	return SurfacePoint(st.p, st.uKnots, st.q, st.vKnots, st.net, min(max(u, u0), u1), min(max(v, v0), v1))
}

// Mesh is a triangulated grid of surface points.
type Mesh struct {
	Vertices []vec3.T
	UVs      []UV
	// Indices holds three vertex indices per triangle.
	Indices []uint32
}

// Tessellate evaluates the surface on a regular grid of nu×nv cells covering
// both parameter ranges and triangulates it. Values below 1 are replaced by
// DefaultSamples.
func (s *Surface) Tessellate(nu, nv int) Mesh {
	if nu < 1 {
		nu = DefaultSamples
	}
	if nv < 1 {
		nv = DefaultSamples
	}
	st := s.load()
	u0, u1 := st.uKnots.Domain()
	v0, v1 := st.vKnots.Domain()

	n := (nu + 1) * (nv + 1)
	mesh := Mesh{
		Vertices: make([]vec3.T, 0, n),
		UVs:      make([]UV, 0, n),
		Indices:  make([]uint32, 0, 6*nu*nv),
	}
	for i := range nu + 1 {
		u := min(u0+(u1-u0)*float64(i)/float64(nu), u1)
		for j := range nv + 1 {
			v := min(v0+(v1-v0)*float64(j)/float64(nv), v1)
			mesh.UVs = append(mesh.UVs, UV{u, v})
			mesh.Vertices = append(mesh.Vertices, SurfacePoint(st.p, st.uKnots, st.q, st.vKnots, st.net, u, v))
		}
	}
	for i := range nu {
		for j := range nv {
			a := uint32(i*(nv+1) + j)
			b := uint32((i+1)*(nv+1) + j)
			mesh.Indices = append(mesh.Indices, a, b, b+1, a, b+1, a+1)
		}
	}
	return mesh
}

// Isocurve returns the curve of constant parameter uv in direction dir. For
// DirU, that is the curve u = uv running along v, and vice versa.
func (s *Surface) Isocurve(dir Direction, uv float64) (*Curve, error) {
	st := s.load()
	deg, kv := st.p, st.uKnots
	if dir == DirV {
		deg, kv = st.q, st.vKnots
	}
	start, end := kv.Domain()
	if !(uv >= start && uv <= end) {
		return nil, fmt.Errorf("Isocurve: %g outside [%g, %g]: %w", uv, start, end, ErrInvalidInput)
	}

	net := st.net
	var idx int
	switch uv {
	case start:
		idx = 0
	case end:
		idx = len(kv) - deg - 2
	default:
		// Raise the multiplicity of uv to the degree; the iso line then
		// interpolates a single row or column of the net.
		if m := kv.Multiplicity(uv); m < deg {
			U, V, refined, err := RefineKnotVectSurface(st.p, st.uKnots, st.q, st.vKnots, st.net, dir, slices.Repeat([]float64{uv}, deg-m))
			if err != nil {
				return nil, fmt.Errorf("Isocurve: %w", err)
			}
			net = refined
			kv = U
			if dir == DirV {
				kv = V
			}
		}
		r, _ := kv.Index(uv)
		idx = r - deg
	}

	switch dir {
	case DirU:
		return newCurve(st.vKnots, net.Col(idx)), nil
	case DirV:
		return newCurve(st.uKnots, net.Row(idx)), nil
	default:
		return nil, fmt.Errorf("Isocurve: unknown direction %d: %w", dir, ErrInvalidInput)
	}
}

// Transform returns a new surface with aff applied to all control points.
func (s *Surface) Transform(aff Affine) *Surface {
	st := s.load()
	net := Net{Size: st.net.Size, Points: make([]Point4, len(st.net.Points))}
	for i, pt := range st.net.Points {
		net.Points[i] = pt.Transform(aff)
	}
	return newSurface(st.uKnots, st.vKnots, net)
}

// InsertKnot inserts u into the knot vector of direction dir r times without
// changing the shape of the surface.
func (s *Surface) InsertKnot(dir Direction, u float64, r int) error {
	if r < 1 {
		return fmt.Errorf("InsertKnot: multiplicity %d: %w", r, ErrInvalidInput)
	}
	st := s.load()
	deg, kv, n := st.p, st.uKnots, st.net.Size.Cols-1
	if dir == DirV {
		deg, kv, n = st.q, st.vKnots, st.net.Size.Rows-1
	}
	k := FindSpan(n, deg, u, kv)
	sm := kv.Multiplicity(u)
	U, V, net, err := SurfaceKnotIns(st.p, st.uKnots, st.q, st.vKnots, st.net, dir, u, k, sm, r)
	if err != nil {
		return err
	}
	return s.commit("InsertKnot", st, U, V, net)
}

// RefineKnots inserts all values of xs into the knot vector of direction dir
// at once. The values need not be sorted and may repeat.
func (s *Surface) RefineKnots(dir Direction, xs []float64) error {
	if len(xs) == 0 {
		return nil
	}
	st := s.load()
	U, V, net, err := RefineKnotVectSurface(st.p, st.uKnots, st.q, st.vKnots, st.net, dir, slices.Sorted(slices.Values(xs)))
	if err != nil {
		return err
	}
	return s.commit("RefineKnots", st, U, V, net)
}

// ElevateDegree raises the degree of direction dir by t without changing the
// shape of the surface. Elevating by 0 does nothing.
func (s *Surface) ElevateDegree(dir Direction, t int) error {
	st := s.load()
	U, V, net, err := DegreeElevateSurface(st.p, st.uKnots, st.q, st.vKnots, st.net, dir, t)
	if err != nil {
		return err
	}
	if t == 0 {
		return nil
	}
	return s.commit("ElevateDegree", st, U, V, net)
}

func (s *Surface) Kind() Kind { return KindSurface }

func (s *Surface) ControlPointCount() int { return len(s.load().net.Points) }

// ControlPointAt returns the homogeneous control point with row-major index i.
func (s *Surface) ControlPointAt(i int) Point4 { return s.load().net.Points[i] }

// SetControlPointAt moves the control point with row-major index i to pt,
// keeping its weight.
func (s *Surface) SetControlPointAt(i int, pt vec3.T) error {
	st := s.load()
	if i < 0 || i >= len(st.net.Points) {
		return fmt.Errorf("SetControlPointAt: index %d out of range [0, %d): %w", i, len(st.net.Points), ErrInvalidInput)
	}
	net := st.net.Clone()
	net.Points[i] = Weighted(pt, net.Points[i].W)
	return s.commit("SetControlPointAt", st, st.uKnots, st.vKnots, net)
}

// SetWeightAt changes the weight of the control point with row-major index i,
// keeping its Euclidean position.
func (s *Surface) SetWeightAt(i int, w float64) error {
	st := s.load()
	if i < 0 || i >= len(st.net.Points) {
		return fmt.Errorf("SetWeightAt: index %d out of range [0, %d): %w", i, len(st.net.Points), ErrInvalidInput)
	}
	if err := checkWeight(w); err != nil {
		return fmt.Errorf("SetWeightAt: %w", err)
	}
	net := st.net.Clone()
	net.Points[i] = Weighted(net.Points[i].Euclidean(), w)
	return s.commit("SetWeightAt", st, st.uKnots, st.vKnots, net)
}

// Evaluate evaluates the surface at uv.
func (s *Surface) Evaluate(uv UV) vec3.T { return s.Eval(uv.U, uv.V) }

// Bounds returns the bounding box of the Euclidean control points.
func (s *Surface) Bounds() Box { return controlBounds(s.load().net.Points) }

// Export returns the single-precision form of the surface's current state.
func (s *Surface) Export() Buffers {
	st := s.load()
	return Buffers{
		Kind:          KindSurface,
		Generation:    st.gen,
		UDegree:       st.p,
		VDegree:       st.q,
		UKnots:        float32Knots(st.uKnots),
		VKnots:        float32Knots(st.vKnots),
		Size:          st.net.Size,
		ControlPoints: float32Points(st.net.Points),
	}
}
