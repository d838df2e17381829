package nurbs

import "errors"

// Every structural operation either succeeds completely or returns one of
// these errors, possibly wrapped with context. The entity it was called on is
// left untouched in the error case. Use errors.Is to match.
var (
	// ErrInvalidInput is returned when a knot vector or control net fails
	// validation, or when an operation's arguments are out of range (unknown
	// knot index, multiplicity exceeding the degree, parameter outside the
	// domain).
	ErrInvalidInput = errors.New("nurbs: invalid input")

	// ErrConvexHullViolation is returned by conic construction when the
	// computed middle weight is at most -1. Such an arc cannot be represented
	// with positive weights and is never approximated.
	ErrConvexHullViolation = errors.New("nurbs: conic outside convex hull")

	// ErrDegenerateGeometry is returned when a ray intersection that the
	// construction depends on has no solution, e.g. parallel tangents where a
	// finite control point is required, or a zero-length axis.
	//
	// It is unrelated to the w1 = 0 result of [MakeOneArc], which legitimately
	// describes a control point at infinity.
	ErrDegenerateGeometry = errors.New("nurbs: degenerate geometry")

	// ErrConcurrentModification is returned when two structural edits race on
	// the same entity. The edit that returned it had no effect.
	ErrConcurrentModification = errors.New("nurbs: concurrent modification")
)
