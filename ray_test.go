package nurbs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ungerik/go3d/float64/vec3"
)

func TestRayIntersect(t *testing.T) {
	for _, tt := range []struct {
		name   string
		a, b   Ray
		t0, t1 float64
		pt     vec3.T
	}{
		{
			"perpendicular",
			Ray{vec3.T{0, 0, 0}, vec3.T{1, 0, 0}},
			Ray{vec3.T{2, -3, 0}, vec3.T{0, 1, 0}},
			2, 3, vec3.T{2, 0, 0},
		},
		{
			"unnormalized",
			Ray{vec3.T{0, 0, 0}, vec3.T{2, 0, 0}},
			Ray{vec3.T{4, 4, 0}, vec3.T{0, -2, 0}},
			2, 2, vec3.T{4, 0, 0},
		},
		{
			"skew",
			Ray{vec3.T{0, 0, 0}, vec3.T{1, 0, 0}},
			Ray{vec3.T{3, 0, 1}, vec3.T{0, 1, 0}},
			3, 0, vec3.T{3, 0, 0},
		},
		{
			"behind origin",
			Ray{vec3.T{1, 1, 0}, vec3.T{1, 1, 0}},
			Ray{vec3.T{1, 0, 0}, vec3.T{-1, 1, 0}},
			-0.5, 0.5, vec3.T{0.5, 0.5, 0},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t0, t1, pt, ok := tt.a.Intersect(tt.b)
			assert.True(t, ok)
			assert.InDelta(t, tt.t0, t0, 1e-12)
			assert.InDelta(t, tt.t1, t1, 1e-12)
			assertNear(t, pt, tt.pt, 1e-12)
		})
	}
}

func TestRayIntersectParallel(t *testing.T) {
	a := Ray{vec3.T{0, 0, 0}, vec3.T{1, 1, 0}}
	for _, b := range []Ray{
		{vec3.T{0, 1, 0}, vec3.T{2, 2, 0}},
		{vec3.T{0, 1, 0}, vec3.T{-1, -1, 0}},
		{vec3.T{0, 1, 0}, vec3.T{0, 0, 0}},
	} {
		if _, _, _, ok := a.Intersect(b); ok {
			t.Errorf("%v and %v reported as intersecting", a, b)
		}
	}
}

func TestRayEval(t *testing.T) {
	r := Ray{vec3.T{1, 2, 3}, vec3.T{0, -1, 2}}
	assertNear(t, r.Eval(0), r.Origin, 0)
	assertNear(t, r.Eval(1.5), vec3.T{1, 0.5, 6}, 1e-15)
	assert.False(t, r.IsNaN())
	assert.True(t, Ray{Direction: vec3.T{math.NaN(), 0, 0}}.IsNaN())
}
