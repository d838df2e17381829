package nurbs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ungerik/go3d/float64/vec3"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func assertNear(t *testing.T, got, want vec3.T, epsilon float64) {
	t.Helper()
	if d := vec3.Distance(&got, &want); d > epsilon {
		t.Fatalf("got %v, expected %v", got, want)
	}
}

func assertNear4(t *testing.T, got, want Point4, epsilon float64) {
	t.Helper()
	if d := got.Distance(want); d > epsilon {
		t.Fatalf("got %s, expected %s", got, want)
	}
}

// params returns n+1 evenly spaced parameters in [a, b].
func params(a, b float64, n int) []float64 {
	out := make([]float64, n+1)
	for i := range n + 1 {
		out[i] = a + (b-a)*float64(i)/float64(n)
	}
	out[n] = b
	return out
}

// sampleCurve evaluates a raw curve at n+1 parameters.
func sampleCurve(p int, U KnotVector, Pw []Point4, n int) []vec3.T {
	a, b := U.Domain()
	var out []vec3.T
	for _, u := range params(a, b, n) {
		out = append(out, CurvePoint(p, U, Pw, u))
	}
	return out
}

// line5 is a straight degree 1 curve with five control points on the x axis.
func line5() (int, KnotVector, []Point4) {
	return 1, KnotVector{0, 0, 0.25, 0.5, 0.75, 1, 1}, []Point4{
		Pt4(-1, 0, 0, 1),
		Pt4(-0.5, 0, 0, 1),
		Pt4(0, 0, 0, 1),
		Pt4(0.5, 0, 0, 1),
		Pt4(1, 0, 0, 1),
	}
}

// wavy is a rational cubic curve with an interior knot of multiplicity 2.
func wavy() (int, KnotVector, []Point4) {
	return 3, KnotVector{0, 0, 0, 0, 0.3, 0.5, 0.5, 0.8, 1, 1, 1, 1}, []Point4{
		Weighted(vec3.T{0, 0, 0}, 1),
		Weighted(vec3.T{1, 2, 0}, 0.5),
		Weighted(vec3.T{2, -1, 1}, 2),
		Weighted(vec3.T{3, 3, 0}, 1),
		Weighted(vec3.T{4, 0, -1}, 1.5),
		Weighted(vec3.T{5, 1, 2}, 1),
		Weighted(vec3.T{6, -2, 0}, 0.8),
		Weighted(vec3.T{7, 0, 0}, 1),
	}
}
