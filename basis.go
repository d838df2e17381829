package nurbs

import "github.com/ungerik/go3d/float64/vec3"

// BasisFuns computes the p+1 non-vanishing B-spline basis functions
// N[k-p..k] at u, where k is the span index of u.
//
// This is algorithm A2.2 of The NURBS Book.
func BasisFuns(k int, u float64, p int, U KnotVector) []float64 {
	N := make([]float64, p+1)
	left := make([]float64, p+1)
	right := make([]float64, p+1)
	N[0] = 1
	for j := 1; j <= p; j++ {
		left[j] = u - U[k+1-j]
		right[j] = U[k+j] - u
		saved := 0.0
		for r := range j {
			temp := N[r] / (right[r+1] + left[j-r])
			N[r] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		N[j] = saved
	}
	return N
}

// curvePointH evaluates the homogeneous curve point at u.
func curvePointH(p int, U KnotVector, Pw []Point4, u float64) Point4 {
	n := len(Pw) - 1
	k := FindSpan(n, p, u, U)
	N := BasisFuns(k, u, p, U)
	var cw Point4
	for i := 0; i <= p; i++ {
		cw = cw.Add(Pw[k-p+i].Mul(N[i]))
	}
	return cw
}

// CurvePoint evaluates the rational curve defined by degree p, knots U and
// homogeneous control points Pw at u (The NURBS Book, A4.1).
func CurvePoint(p int, U KnotVector, Pw []Point4, u float64) vec3.T {
	return curvePointH(p, U, Pw, u).Euclidean()
}

// SurfacePoint evaluates the rational surface defined by degrees p (along u)
// and q (along v), knots U and V and the row-major net at (u, v) (The NURBS
// Book, A4.3).
func SurfacePoint(p int, U KnotVector, q int, V KnotVector, net Net, u, v float64) vec3.T {
	n := net.Size.Cols - 1
	m := net.Size.Rows - 1
	ks := FindSpan(n, p, u, U)
	Nu := BasisFuns(ks, u, p, U)
	ls := FindSpan(m, q, v, V)
	Nv := BasisFuns(ls, v, q, V)

	var sw Point4
	for l := 0; l <= q; l++ {
		var temp Point4
		row := ls - q + l
		for k := 0; k <= p; k++ {
			temp = temp.Add(net.At(row, ks-p+k).Mul(Nu[k]))
		}
		sw = sw.Add(temp.Mul(Nv[l]))
	}
	return sw.Euclidean()
}
