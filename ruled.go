package nurbs

import (
	"fmt"
	"math"
	"slices"
)

// knotDeficits returns the knots that have to be inserted into to so that it
// contains every knot of from with at least the same multiplicity. Values of
// from within eps of a value of to count as equal to it and are inserted
// using to's value.
func knotDeficits(from, to KnotVector, eps float64) []float64 {
	have := to.Multiplicities()
	var X []float64
	for _, km := range from.Multiplicities() {
		value, mult := km.Knot, 0
		for _, h := range have {
			if math.Abs(h.Knot-km.Knot) <= eps {
				value, mult = h.Knot, h.Mult
				break
			}
		}
		for range km.Mult - mult {
			X = append(X, value)
		}
	}
	slices.Sort(X)
	return X
}

// MakeCompatible changes the curves a and b, without changing their shapes,
// so that they end up with the same degree and identical knot vectors: the
// curve of lower degree is elevated, b is reparametrized to the parameter
// range of a, and knots missing from either curve are inserted into it.
//
// Knot values closer than the epsilon configured with [WithKnotEpsilon] are
// treated as the same knot. b's knots are then set to a's values exactly.
//
// a is updated before b. If updating b fails, a keeps its new, equivalent
// representation.
func MakeCompatible(a, b *Curve, opts ...Option) error {
	o := buildOptions(opts)
	as, bs := a.load(), b.load()
	pa, Ua, Pa := as.degree, as.knots, as.points
	pb, Ub, Pb := bs.degree, bs.knots, bs.points

	var err error
	switch {
	case pa < pb:
		if Ua, Pa, err = DegreeElevateCurve(pa, Ua, Pa, pb-pa); err != nil {
			return fmt.Errorf("MakeCompatible: a: %w", err)
		}
		Logger().Debug("elevated curve for compatibility", "curve", "a", "from", pa, "to", pb)
		pa = pb
	case pb < pa:
		if Ub, Pb, err = DegreeElevateCurve(pb, Ub, Pb, pa-pb); err != nil {
			return fmt.Errorf("MakeCompatible: b: %w", err)
		}
		Logger().Debug("elevated curve for compatibility", "curve", "b", "from", pb, "to", pa)
		pb = pa
	}

	a0, a1 := Ua.Domain()
	b0, b1 := Ub.Domain()
	if a0 != b0 || a1 != b1 {
		Ub = Ub.Reparametrized(a0, a1)
		Logger().Debug("reparametrized curve for compatibility", "from", []float64{b0, b1}, "to", []float64{a0, a1})
	}

	Xa := knotDeficits(Ub, Ua, o.knotEpsilon)
	Xb := knotDeficits(Ua, Ub, o.knotEpsilon)
	if Ua, Pa, err = RefineKnotVectCurve(pa, Ua, Pa, Xa); err != nil {
		return fmt.Errorf("MakeCompatible: a: %w", err)
	}
	if Ub, Pb, err = RefineKnotVectCurve(pb, Ub, Pb, Xb); err != nil {
		return fmt.Errorf("MakeCompatible: b: %w", err)
	}
	if len(Ua) != len(Ub) {
		return fmt.Errorf("MakeCompatible: knot vectors of length %d and %d after merging: %w", len(Ua), len(Ub), ErrInvalidInput)
	}
	Logger().Debug("merged knot vectors", "insertedA", len(Xa), "insertedB", len(Xb), "knots", len(Ua))

	if err := a.commit("MakeCompatible", as, Ua, Pa); err != nil {
		return err
	}
	return b.commit("MakeCompatible", bs, Ua.Clone(), Pb)
}

// RuledSurface returns the surface that linearly interpolates between the
// curves a and b. The curves are first made compatible with
// [MakeCompatible], which modifies them. a becomes the first row of the
// net, b the second; the v knot vector is [0, 0, 1, 1].
func RuledSurface(a, b *Curve, opts ...Option) (*Surface, error) {
	if err := MakeCompatible(a, b, opts...); err != nil {
		return nil, fmt.Errorf("RuledSurface: %w", err)
	}
	as, bs := a.load(), b.load()
	net := netFromRows([][]Point4{as.points, bs.points})
	return newSurface(as.knots, KnotVector{0, 0, 1, 1}, net), nil
}
