package nurbs

import (
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
)

func TestCurveKnotInsLine(t *testing.T) {
	p, U, Pw := line5()
	k := FindSpan(len(Pw)-1, p, 0.4, U)
	UQ, Qw, err := CurveKnotIns(p, U, Pw, 0.4, k, 0, 1)
	require.NoError(t, err)

	diff(t, KnotVector{0, 0, 0.25, 0.4, 0.5, 0.75, 1, 1}, UQ)
	// α = (0.4 - 0.25) / (0.5 - 0.25) = 0.6 blends the points at -0.5 and 0.
	want := []Point4{
		Pt4(-1, 0, 0, 1),
		Pt4(-0.5, 0, 0, 1),
		Pt4(0.6*0+0.4*-0.5, 0, 0, 1),
		Pt4(0, 0, 0, 1),
		Pt4(0.5, 0, 0, 1),
		Pt4(1, 0, 0, 1),
	}
	diff(t, want, Qw, cmpopts.EquateApprox(0, 1e-15))

	// The inputs are left alone.
	_, U2, Pw2 := line5()
	diff(t, U2, U)
	diff(t, Pw2, Pw)
}

func TestCurveKnotInsShapeInvariance(t *testing.T) {
	p, U, Pw := wavy()
	n := len(Pw) - 1
	before := sampleCurve(p, U, Pw, 50)
	for _, tt := range []struct {
		u float64
		r int
	}{
		{0.1, 1}, {0.1, 3}, {0.3, 2}, {0.5, 1}, {0.65, 2}, {0.99, 1},
	} {
		k := FindSpan(n, p, tt.u, U)
		s := U.Multiplicity(tt.u)
		UQ, Qw, err := CurveKnotIns(p, U, Pw, tt.u, k, s, tt.r)
		require.NoError(t, err, "u = %g, r = %d", tt.u, tt.r)
		require.Len(t, UQ, len(U)+tt.r)
		require.Len(t, Qw, len(Pw)+tt.r)
		require.NoError(t, UQ.Validate(p, len(Qw)))
		require.Equal(t, s+tt.r, UQ.Multiplicity(tt.u))
		after := sampleCurve(p, UQ, Qw, 50)
		for i := range before {
			assertNear(t, after[i], before[i], 1e-12)
		}
	}
}

func TestCurveKnotInsInvalid(t *testing.T) {
	p, U, Pw := wavy()
	n := len(Pw) - 1
	tests := []struct {
		name    string
		u       float64
		k, s, r int
	}{
		{"exceeds degree", 0.5, 6, 2, 2},
		{"negative count", 0.1, 3, 0, -1},
		{"wrong span", 0.1, 4, 0, 1},
		{"span out of range", 0.1, 9, 0, 1},
		{"domain start", 0, 3, 4, 1},
		{"outside domain", 1.5, n, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := CurveKnotIns(p, U, Pw, tt.u, tt.k, tt.s, tt.r)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

// testSurface returns a rational biquadratic-by-cubic surface.
func testSurface() (int, KnotVector, int, KnotVector, Net) {
	U := KnotVector{0, 0, 0, 0.4, 1, 1, 1}
	V := KnotVector{0, 0, 0, 0, 0.5, 1, 1, 1, 1}
	net := NewNet(5, 4)
	for j := range 5 {
		for i := range 4 {
			z := float64((i*3+j*5)%4) - 1.5
			w := 1 + 0.25*float64((i+j)%3)
			net.Set(j, i, Weighted(vec3.T{float64(i), float64(j), z}, w))
		}
	}
	return 2, U, 3, V, net
}

func sampleSurface(p int, U KnotVector, q int, V KnotVector, net Net) []vec3.T {
	var out []vec3.T
	for _, u := range params(0, 1, 8) {
		for _, v := range params(0, 1, 8) {
			out = append(out, SurfacePoint(p, U, q, V, net, u, v))
		}
	}
	return out
}

func TestSurfaceKnotIns(t *testing.T) {
	p, U, q, V, net := testSurface()
	before := sampleSurface(p, U, q, V, net)

	U2, V2, net2, err := SurfaceKnotIns(p, U, q, V, net, DirU, 0.7, FindSpan(3, p, 0.7, U), 0, 2)
	require.NoError(t, err)
	diff(t, NetSize{Rows: 5, Cols: 6}, net2.Size)
	diff(t, V, V2)
	require.NoError(t, U2.Validate(p, 6))
	for i, pt := range sampleSurface(p, U2, q, V2, net2) {
		assertNear(t, pt, before[i], 1e-12)
	}

	U3, V3, net3, err := SurfaceKnotIns(p, U, q, V, net, DirV, 0.5, FindSpan(4, q, 0.5, V), 1, 1)
	require.NoError(t, err)
	diff(t, NetSize{Rows: 6, Cols: 4}, net3.Size)
	diff(t, U, U3)
	require.Equal(t, 2, V3.Multiplicity(0.5))
	for i, pt := range sampleSurface(p, U3, q, V3, net3) {
		assertNear(t, pt, before[i], 1e-12)
	}

	_, _, _, err = SurfaceKnotIns(p, U, q, V, net, Direction(7), 0.5, 3, 0, 1)
	require.ErrorIs(t, err, ErrInvalidInput)
}
