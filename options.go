package nurbs

// DefaultDeviation is the maximum geometric deviation d allowed by knot removal
// unless overridden with [WithDeviation]. The removal tolerance derived from it
// is d·wmin / (1 + |P|max).
const DefaultDeviation = 0.1

// DefaultKnotEpsilon is the distance below which two knot values are treated as
// the same value when knot vectors of different curves are merged.
const DefaultKnotEpsilon = 1e-10

// DefaultSamples is the number of parameter intervals used by [Curve.Sample]
// and [Surface.Tessellate] when given a non-positive count.
const DefaultSamples = 200

// Option configures optional behavior of structural operations.
//
//	removed, err := c.RemoveKnot(0.5, r, s, s, nurbs.WithDeviation(1e-9))
type Option func(*options)

type options struct {
	deviation   float64
	knotEpsilon float64
}

func defaultOptions() options {
	return options{
		deviation:   DefaultDeviation,
		knotEpsilon: DefaultKnotEpsilon,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDeviation sets the maximum deviation d used to derive the knot removal
// tolerance. Negative values are treated as zero, which only permits removals
// that are exact up to rounding.
func WithDeviation(d float64) Option {
	return func(o *options) {
		o.deviation = max(d, 0)
	}
}

// WithKnotEpsilon sets the distance below which knot values are considered
// equal when merging knot vectors, as done by [RuledSurface].
func WithKnotEpsilon(eps float64) Option {
	return func(o *options) {
		o.knotEpsilon = max(eps, 0)
	}
}
