// Package nurbs provides a kernel for NURBS (non-uniform rational B-spline)
// curves and surfaces in three dimensions. It was designed to serve the needs
// of interactive modeling tools, but contains no rendering or user interface
// code of its own.
//
// # Representation
//
// Control points are homogeneous: a [Point4] stores (w·x, w·y, w·z, w). Knot
// vectors ([KnotVector]) are clamped, meaning that the first and last values
// each occur degree+1 times, and a curve of degree p with n+1 control points
// has n+p+2 knots. The degree is never stored separately; it follows from
// the multiplicity of the first knot.
//
// Surfaces are tensor products. Their control points form a [Net], stored in
// row-major order. Rows run along the v direction and columns along the u
// direction, so a net has as many columns as the u knot vector implies
// control points.
//
// Three-dimensional vectors use the vec3 package of go3d.
//
// # Algorithms
//
// The low-level functions of this package operate on plain knot vectors and
// control point slices and follow the algorithms of The NURBS Book closely,
// including their variable names:
//
//   - [FindSpan] and [BasisFuns] (A2.1, A2.2)
//   - [CurvePoint] and [SurfacePoint] (A4.1, A4.3)
//   - [CurveKnotIns] and [SurfaceKnotIns] (A5.1, A5.3)
//   - [RefineKnotVectCurve] and [RefineKnotVectSurface] (A5.4, A5.5)
//   - [RemoveCurveKnot] (A5.8)
//   - [DegreeElevateCurve] and [DegreeElevateSurface] (A5.9)
//   - [MakeNurbsCircle], [MakeOneArc], [SplitArc] and [MakeOpenConic] (A7.1
//     through A7.3)
//   - [MakeRevolvedSurf] (A8.1)
//
// None of them modify their inputs.
//
// # Curves and surfaces
//
// [Curve] and [Surface] own their knots and control points and offer the
// structural edits of the low-level functions as methods. Every edit either
// replaces the whole state at once or fails without effect, so that a reader
// calling [Curve.Snapshot] or [Curve.Export] never sees the knots of one
// generation combined with the control points of another.
//
// Both implement [Geometry], which is what viewers and editors need: indexed
// access to control points, evaluation, bounds, and export of single
// precision buffers for GPU renderers.
//
// # Errors and logging
//
// Functions return errors that wrap one of [ErrInvalidInput],
// [ErrConvexHullViolation], [ErrDegenerateGeometry] and
// [ErrConcurrentModification]. Failing to remove a knot within tolerance is
// not an error; [Curve.RemoveKnot] reports how many knots it removed.
//
// Structural edits are logged at debug level to the logger set with
// [SetLogger]. By default, nothing is logged.
//
// # Literature
//
// This package makes use of the following ideas:
//   - [The NURBS Book] by Les Piegl and Wayne Tiller
//   - [verb], a NURBS library by Peter Boyer
//
// [The NURBS Book]: https://doi.org/10.1007/978-3-642-59223-2
// [verb]: https://github.com/pboyer/verb
package nurbs
