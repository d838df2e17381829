package nurbs

import (
	"fmt"
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// axisEpsilon is the relative distance below which a profile point counts as
// lying on the axis of revolution.
const axisEpsilon = 1e-12

// MakeRevolvedSurf sweeps the profile with homogeneous control points Pj
// around the axis through S with direction T by theta degrees (The NURBS Book,
// A8.1).
//
// Every profile control point is swept along a circular arc made of the same
// one to four rational quadratic segments as [MakeNurbsCircle]. The weight of
// each surface control point is the profile weight times the arc weight.
//
// The result is the knot vector U of the sweep direction and a net with one
// row per profile control point and 2·narcs+1 columns. The profile's knot
// vector and degree become the v direction of the surface unchanged.
func MakeRevolvedSurf(S, T vec3.T, theta float64, Pj []Point4) (KnotVector, Net, error) {
	if theta <= 0 || theta > 360 {
		return nil, Net{}, fmt.Errorf("MakeRevolvedSurf: sweep %g°: %w", theta, ErrInvalidInput)
	}
	axisLen := T.Length()
	if axisLen == 0 || math.IsNaN(axisLen) {
		return nil, Net{}, fmt.Errorf("MakeRevolvedSurf: zero axis direction: %w", ErrDegenerateGeometry)
	}
	axis := T.Scaled(1 / axisLen)

	narcs := arcCount(theta)
	dtheta := theta / float64(narcs)
	n := 2 * narcs
	wm := math.Cos(degToRad(dtheta / 2))

	// Compute sines and cosines only once.
	cosines := make([]float64, narcs+1)
	sines := make([]float64, narcs+1)
	angle := 0.0
	for i := 1; i <= narcs; i++ {
		angle += dtheta
		sines[i], cosines[i] = math.Sincos(degToRad(angle))
	}

	net := NewNet(len(Pj), n+1)
	for j, pw := range Pj {
		P := pw.Euclidean()
		wj := pw.W

		// O is the projection of P onto the axis.
		sp := vec3.Sub(&P, &S)
		along := axis.Scaled(vec3.Dot(&sp, &axis))
		O := vec3.Add(&S, &along)
		X := vec3.Sub(&P, &O)
		r := X.Length()

		if r <= axisEpsilon*(1+P.Length()) {
			// The whole column collapses onto the axis.
			for i := 0; i <= n; i++ {
				w := wj
				if i%2 == 1 {
					w *= wm
				}
				net.Set(j, i, Weighted(O, w))
			}
			continue
		}

		X.Scale(1 / r)
		Y := vec3.Cross(&axis, &X)
		net.Set(j, 0, Weighted(P, wj))
		P0 := P
		T0 := Y
		index := 0
		for i := 1; i <= narcs; i++ {
			x := X.Scaled(r * cosines[i])
			y := Y.Scaled(r * sines[i])
			P2 := vec3.Add(&O, &x)
			P2.Add(&y)
			net.Set(j, index+2, Weighted(P2, wj))

			tx := X.Scaled(-sines[i])
			ty := Y.Scaled(cosines[i])
			T2 := vec3.Add(&tx, &ty)
			_, _, P1, ok := Ray{P0, T0}.Intersect(Ray{P2, T2})
			if !ok {
				return nil, Net{}, fmt.Errorf("MakeRevolvedSurf: tangents of segment %d are parallel: %w", i, ErrDegenerateGeometry)
			}
			net.Set(j, index+1, Weighted(P1, wm*wj))
			index += 2
			P0, T0 = P2, T2
		}
	}
	return arcKnots(narcs), net, nil
}
