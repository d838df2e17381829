package nurbs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
)

func newTestSurface(t *testing.T) *Surface {
	t.Helper()
	_, U, _, V, net := testSurface()
	s, err := NewSurface(U, V, net)
	require.NoError(t, err)
	return s
}

func sampleEntity(s *Surface) []vec3.T {
	var out []vec3.T
	for _, u := range params(0, 1, 8) {
		for _, v := range params(0, 1, 8) {
			out = append(out, s.Eval(u, v))
		}
	}
	return out
}

func TestNewSurface(t *testing.T) {
	s := newTestSurface(t)
	assert.Equal(t, 2, s.UDegree())
	assert.Equal(t, 3, s.VDegree())
	assert.Equal(t, NetSize{Rows: 5, Cols: 4}, s.Size())

	p, U, q, V, net := testSurface()
	for _, u := range params(0, 1, 5) {
		for _, v := range params(0, 1, 5) {
			assertNear(t, s.Eval(u, v), SurfacePoint(p, U, q, V, net, u, v), 0)
		}
	}

	_, err := NewSurface(U, V[1:], net)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = NewSurface(U[1:], V, net)
	require.ErrorIs(t, err, ErrInvalidInput)
	bad := net.Clone()
	bad.Set(2, 2, Pt4(0, 0, 0, 0))
	_, err = NewSurface(U, V, bad)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = NewSurface(U, V, Net{Size: NetSize{Rows: 5, Cols: 4}, Points: net.Points[1:]})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestFlatSurface(t *testing.T) {
	s, err := FlatSurface(4, 2)
	require.NoError(t, err)
	assert.Equal(t, NetSize{Rows: 2, Cols: 2}, s.Size())
	assertNear(t, s.Eval(0, 0), vec3.T{-2, 1, 0}, 0)
	assertNear(t, s.Eval(1, 0), vec3.T{2, 1, 0}, 0)
	assertNear(t, s.Eval(0, 1), vec3.T{-2, -1, 0}, 0)
	assertNear(t, s.Eval(0.5, 0.5), vec3.T{0, 0, 0}, 1e-15)
	assertNear(t, s.Eval(0.25, 0.75), vec3.T{-1, -0.5, 0}, 1e-15)

	_, err = FlatSurface(0, 1)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = FlatSurface(1, math.NaN())
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGridSurface(t *testing.T) {
	s, err := GridSurface(4, 2, 1, 1, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, NetSize{Rows: 3, Cols: 5}, s.Size())
	assert.Equal(t, 2, s.UDegree())
	assert.Equal(t, 1, s.VDegree())
	assertNear(t, s.Eval(0, 0), vec3.T{-2, 1, 0}, 1e-15)
	assertNear(t, s.Eval(1, 1), vec3.T{2, -1, 0}, 1e-15)

	box := Box{Min: vec3.T{-2, -1, 0}, Max: vec3.T{2, 1, 0}}.Inflate(1e-12)
	for _, pt := range sampleEntity(s) {
		assert.True(t, box.Contains(pt), "%v outside %v", pt, box)
	}

	_, err = GridSurface(4, 2, 5, 1, 2, 1)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = GridSurface(4, 2, 1, 0, 2, 1)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCombineCurves(t *testing.T) {
	arc, err := CircularArc(vec3.T{}, vec3.UnitX, vec3.UnitY, 1, 0, 180)
	require.NoError(t, err)
	line, err := UniformCurve(vec3.T{5, 5, 0}, vec3.T{5, 5, 3}, 1, 1)
	require.NoError(t, err)

	s := CombineCurves(arc, line)
	assert.Equal(t, NetSize{Rows: 4, Cols: 5}, s.Size())
	diff(t, arc.Knots(), s.Snapshot().UKnots)
	diff(t, line.Knots(), s.Snapshot().VKnots)
	for _, u := range params(0, 1, 12) {
		for _, v := range params(0, 1, 6) {
			want := arc.Eval(u)
			want[2] += 3 * v
			assertNear(t, s.Eval(u, v), want, 1e-12)
		}
	}
}

func TestSurfaceOfRevolution(t *testing.T) {
	profile, err := UniformCurve(vec3.T{1, 0, 0}, vec3.T{2, 0, 2}, 1, 2)
	require.NoError(t, err)
	s, err := SurfaceOfRevolution(profile, vec3.T{}, vec3.T{0, 0, 5}, 270)
	require.NoError(t, err)
	assert.Equal(t, NetSize{Rows: profile.ControlPointCount(), Cols: 7}, s.Size())
	diff(t, profile.Knots(), s.Snapshot().VKnots)

	for _, v := range params(0, 1, 5) {
		p := profile.Eval(v)
		for _, u := range params(0, 1, 9) {
			pt := s.Eval(u, v)
			assert.InDelta(t, p[0], math.Hypot(pt[0], pt[1]), 1e-12)
			assert.InDelta(t, p[2], pt[2], 1e-12)
		}
		assertNear(t, s.Eval(1, v), vec3.T{0, -p[0], p[2]}, 1e-12)
	}

	_, err = SurfaceOfRevolution(profile, vec3.T{}, vec3.T{}, 90)
	require.ErrorIs(t, err, ErrDegenerateGeometry)
	_, err = SurfaceOfRevolution(profile, vec3.T{}, vec3.UnitZ, 0)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSurfaceInsertKnot(t *testing.T) {
	s := newTestSurface(t)
	before := sampleEntity(s)

	require.NoError(t, s.InsertKnot(DirU, 0.7, 2))
	assert.Equal(t, NetSize{Rows: 5, Cols: 6}, s.Size())
	require.NoError(t, s.InsertKnot(DirV, 0.5, 1))
	assert.Equal(t, NetSize{Rows: 6, Cols: 6}, s.Size())
	assert.EqualValues(t, 2, s.Generation())
	for i, pt := range sampleEntity(s) {
		assertNear(t, pt, before[i], 1e-12)
	}

	snap := s.Snapshot()
	require.ErrorIs(t, s.InsertKnot(DirU, 0.7, 1), ErrInvalidInput)
	require.ErrorIs(t, s.InsertKnot(DirV, 1, 1), ErrInvalidInput)
	require.ErrorIs(t, s.InsertKnot(DirU, 0.2, 0), ErrInvalidInput)
	require.ErrorIs(t, s.InsertKnot(Direction(7), 0.2, 1), ErrInvalidInput)
	diff(t, snap, s.Snapshot())
}

func TestSurfaceRefineKnots(t *testing.T) {
	s := newTestSurface(t)
	before := sampleEntity(s)
	require.NoError(t, s.RefineKnots(DirV, []float64{0.75, 0.25, 0.25}))
	diff(t, KnotVector{0, 0, 0, 0, 0.25, 0.25, 0.5, 0.75, 1, 1, 1, 1}, s.Snapshot().VKnots)
	assert.Equal(t, NetSize{Rows: 8, Cols: 4}, s.Size())
	require.NoError(t, s.RefineKnots(DirU, []float64{0.2}))
	assert.Equal(t, NetSize{Rows: 8, Cols: 5}, s.Size())
	for i, pt := range sampleEntity(s) {
		assertNear(t, pt, before[i], 1e-12)
	}
	require.NoError(t, s.RefineKnots(DirU, nil))
	assert.EqualValues(t, 2, s.Generation())
}

func TestSurfaceElevateDegree(t *testing.T) {
	s := newTestSurface(t)
	before := sampleEntity(s)
	require.NoError(t, s.ElevateDegree(DirU, 1))
	require.NoError(t, s.ElevateDegree(DirV, 2))
	assert.Equal(t, 3, s.UDegree())
	assert.Equal(t, 5, s.VDegree())
	for i, pt := range sampleEntity(s) {
		assertNear(t, pt, before[i], 1e-11)
	}
	require.NoError(t, s.ElevateDegree(DirU, 0))
	assert.EqualValues(t, 2, s.Generation())
	require.ErrorIs(t, s.ElevateDegree(DirV, -2), ErrInvalidInput)
}

func TestSurfaceIsocurve(t *testing.T) {
	s := newTestSurface(t)
	for _, u := range []float64{0, 0.4, 0.7, 1} {
		c, err := s.Isocurve(DirU, u)
		require.NoError(t, err)
		assert.Equal(t, s.VDegree(), c.Degree())
		for _, v := range params(0, 1, 10) {
			assertNear(t, c.Eval(v), s.Eval(u, v), 1e-12)
		}
	}
	for _, v := range []float64{0, 0.2, 0.5, 1} {
		c, err := s.Isocurve(DirV, v)
		require.NoError(t, err)
		assert.Equal(t, s.UDegree(), c.Degree())
		for _, u := range params(0, 1, 10) {
			assertNear(t, c.Eval(u), s.Eval(u, v), 1e-12)
		}
	}
	// The surface itself is unchanged.
	assert.EqualValues(t, 0, s.Generation())

	_, err := s.Isocurve(DirU, 1.5)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.Isocurve(DirV, math.NaN())
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSurfaceTessellate(t *testing.T) {
	s, err := FlatSurface(2, 2)
	require.NoError(t, err)
	mesh := s.Tessellate(3, 2)
	require.Len(t, mesh.Vertices, 12)
	require.Len(t, mesh.UVs, 12)
	require.Len(t, mesh.Indices, 36)
	assert.Equal(t, UV{0, 0}, mesh.UVs[0])
	assert.Equal(t, UV{1, 1}, mesh.UVs[11])
	for i, uv := range mesh.UVs {
		assertNear(t, mesh.Vertices[i], s.Evaluate(uv), 0)
	}
	for _, idx := range mesh.Indices {
		assert.Less(t, idx, uint32(12))
	}

	// All triangles of a flat surface face the same way.
	for i := 0; i < len(mesh.Indices); i += 3 {
		a, b, c := mesh.Vertices[mesh.Indices[i]], mesh.Vertices[mesh.Indices[i+1]], mesh.Vertices[mesh.Indices[i+2]]
		ab := vec3.Sub(&b, &a)
		ac := vec3.Sub(&c, &a)
		n := vec3.Cross(&ab, &ac)
		assert.Less(t, n[2], 0.0)
	}

	mesh = s.Tessellate(0, -1)
	assert.Len(t, mesh.Vertices, (DefaultSamples+1)*(DefaultSamples+1))
}

func TestSurfaceSetControlPoint(t *testing.T) {
	s := newTestSurface(t)
	i := 2*4 + 1
	w := s.ControlPointAt(i).W
	require.NoError(t, s.SetControlPointAt(i, vec3.T{7, 7, 7}))
	assert.Equal(t, w, s.ControlPointAt(i).W)
	assertNear(t, s.ControlPointAt(i).Euclidean(), vec3.T{7, 7, 7}, 1e-14)
	assertNear(t, s.Snapshot().Net().At(2, 1).Euclidean(), vec3.T{7, 7, 7}, 1e-14)

	require.NoError(t, s.SetWeightAt(i, 0.5))
	assert.Equal(t, 0.5, s.ControlPointAt(i).W)
	assertNear(t, s.ControlPointAt(i).Euclidean(), vec3.T{7, 7, 7}, 1e-14)

	require.ErrorIs(t, s.SetControlPointAt(20, vec3.T{}), ErrInvalidInput)
	require.ErrorIs(t, s.SetWeightAt(0, -1), ErrInvalidInput)
	assert.EqualValues(t, 2, s.Generation())
}

func TestSurfaceTransform(t *testing.T) {
	s := newTestSurface(t)
	aff := RotateAbout(vec3.T{1, 1, 1}, vec3.UnitY, math.Pi/3).ThenScale(1, 2, 3)
	moved := s.Transform(aff)
	for _, u := range params(0, 1, 6) {
		for _, v := range params(0, 1, 6) {
			assertNear(t, moved.Eval(u, v), aff.Point(s.Eval(u, v)), 1e-11)
		}
	}
	b := aff.TransformBoxBoundingBox(s.Bounds()).Inflate(1e-9)
	for _, pt := range sampleEntity(moved) {
		assert.True(t, b.Contains(pt))
	}
}

func TestSurfaceCloneIsolation(t *testing.T) {
	s := newTestSurface(t)
	c := s.Clone()
	require.NoError(t, c.InsertKnot(DirU, 0.5, 1))
	assert.EqualValues(t, 0, s.Generation())
	assert.Equal(t, NetSize{Rows: 5, Cols: 4}, s.Size())

	snap := s.Snapshot()
	snap.Points[0] = Pt4(100, 0, 0, 1)
	assert.NotEqual(t, Pt4(100, 0, 0, 1), s.ControlPointAt(0))
}

func TestSurfaceExport(t *testing.T) {
	s := newTestSurface(t)
	buf := s.Export()
	assert.Equal(t, KindSurface, buf.Kind)
	assert.Equal(t, 2, buf.UDegree)
	assert.Equal(t, 3, buf.VDegree)
	assert.Len(t, buf.UKnots, 7)
	assert.Len(t, buf.VKnots, 9)
	assert.Equal(t, float32(0.4), buf.UKnots[3])
	assert.Equal(t, NetSize{Rows: 5, Cols: 4}, buf.Size)
	require.Len(t, buf.ControlPoints, 20)
	pt := s.ControlPointAt(7)
	assert.Equal(t, float32(pt.Z), buf.ControlPoints[7].Z)
	assert.Equal(t, float32(pt.W), buf.ControlPoints[7].W)
}
