package nurbs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
)

func TestRemovalTolerance(t *testing.T) {
	Pw := []Point4{Pt4(3, 4, 0, 1), Weighted(vec3.T{0, 0, 1}, 0.5), Pt4(0, 0, 0, 2)}
	// wmin = 0.5, |P|max = 5
	want := 0.1*0.5/6 + removalRoundoff*6
	assert.InDelta(t, want, RemovalTolerance(Pw, 0.1), 1e-18)
}

func TestRemoveCurveKnotRoundTrip(t *testing.T) {
	p, U, Pw := wavy()
	n := len(Pw) - 1
	for _, tt := range []struct {
		u float64
		r int
	}{
		{0.65, 1}, {0.65, 2}, {0.65, 3}, {0.1, 2}, {0.3, 2}, {0.5, 1},
	} {
		k := FindSpan(n, p, tt.u, U)
		s := U.Multiplicity(tt.u)
		UQ, Qw, err := CurveKnotIns(p, U, Pw, tt.u, k, s, tt.r)
		require.NoError(t, err)

		idx, mult := UQ.Index(tt.u)
		removed, UR, Rw, err := RemoveCurveKnot(p, UQ, Qw, tt.u, idx, mult, tt.r, 0)
		require.NoError(t, err)
		require.Equal(t, tt.r, removed, "u = %g, r = %d", tt.u, tt.r)
		diff(t, U, UR)
		require.Len(t, Rw, len(Pw))
		for i := range Pw {
			assertNear4(t, Rw[i], Pw[i], 1e-9)
		}
	}
}

func TestRemoveCurveKnotStopsAtFirstFailure(t *testing.T) {
	p, U, Pw := wavy()
	n := len(Pw) - 1

	// 0.5 already has multiplicity 2 and is needed by the curve; only the
	// inserted copy can go.
	UQ, Qw, err := CurveKnotIns(p, U, Pw, 0.5, FindSpan(n, p, 0.5, U), 2, 1)
	require.NoError(t, err)
	idx, mult := UQ.Index(0.5)
	require.Equal(t, 3, mult)

	removed, UR, Rw, err := RemoveCurveKnot(p, UQ, Qw, 0.5, idx, mult, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	diff(t, U, UR)
	for i := range Pw {
		assertNear4(t, Rw[i], Pw[i], 1e-9)
	}

	// A knot that shapes the curve can't be removed at all within a tiny
	// tolerance.
	idx, mult = U.Index(0.3)
	removed, UR, Rw, err = RemoveCurveKnot(p, U, Pw, 0.3, idx, mult, 1, 1e-9)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	diff(t, U, UR)
	diff(t, Pw, Rw)
}

func TestRemoveCurveKnotWithinDeviation(t *testing.T) {
	p, U, Pw := wavy()
	idx, mult := U.Index(0.8)
	const d = 1e3
	removed, UR, Rw, err := RemoveCurveKnot(p, U, Pw, 0.8, idx, mult, 1, d)
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	require.NoError(t, UR.Validate(p, len(Rw)))
	require.Zero(t, UR.Multiplicity(0.8))
	for _, pt := range Rw {
		if pt.IsNaN() || pt.IsInf() {
			t.Fatalf("got non-finite control point %s", pt)
		}
	}
}

func TestRemoveCurveKnotDoesNotModifyInputs(t *testing.T) {
	p, U, Pw := wavy()
	_, U2, Pw2 := wavy()
	idx, mult := U.Index(0.5)
	_, _, _, err := RemoveCurveKnot(p, U, Pw, 0.5, idx, mult, 2, math.Inf(1))
	require.NoError(t, err)
	diff(t, U2, U)
	diff(t, Pw2, Pw)
}

func TestRemoveCurveKnotInvalid(t *testing.T) {
	p, U, Pw := wavy()
	tests := []struct {
		name      string
		u         float64
		r, s, num int
	}{
		{"not last occurrence", 0.5, 5, 2, 1},
		{"wrong multiplicity", 0.5, 6, 1, 1},
		{"too many", 0.5, 6, 2, 3},
		{"negative", 0.5, 6, 2, -1},
		{"end knot", 1, 11, 4, 1},
		{"absent", 0.4, 5, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := RemoveCurveKnot(p, U, Pw, tt.u, tt.r, tt.s, tt.num, 0.1)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
