package knearest

import (
	"math"

	"github.com/viant/vec/search"
	"golang.org/x/exp/constraints"
)

// Metric computes distances between coordinate vectors and lower bounds
// against splitting hyperplanes. Queries take their cutoff in the same
// units Distance reports.
type Metric[V Value] interface {
	// Distance returns a non-negative distance between a and b. It does
	// not have to be a true metric as long as it is monotonic in one
	// (squared Euclidean qualifies); only ordering and comparison against
	// the query cutoff matter.
	Distance(a, b []V) V

	// PlaneDistance returns a lower bound, in Distance units, on the
	// distance from position to any point on the far side of the
	// hyperplane coordinate[dimension] = plane. Overestimating makes
	// pruning unsound and silently drops valid neighbors.
	PlaneDistance(position []V, plane V, dimension int) V
}

// SquaredEuclidean computes the squared Euclidean (L2²) distance. Skipping
// the square root keeps ordering intact and the hot path cheap; cutoffs
// passed to queries must be squared as well. This is the metric the
// point-cloud consumers default to.
type SquaredEuclidean[V Value] struct{}

func (SquaredEuclidean[V]) Distance(a, b []V) V {
	var sum V
	for d := range a {
		diff := absDiff(a[d], b[d])
		sum += diff * diff
	}
	return sum
}

func (SquaredEuclidean[V]) PlaneDistance(position []V, plane V, dimension int) V {
	diff := absDiff(position[dimension], plane)
	return diff * diff
}

// Manhattan computes the Manhattan (L1 / city-block) distance.
type Manhattan[V Value] struct{}

func (Manhattan[V]) Distance(a, b []V) V {
	var sum V
	for d := range a {
		sum += absDiff(a[d], b[d])
	}
	return sum
}

func (Manhattan[V]) PlaneDistance(position []V, plane V, dimension int) V {
	return absDiff(position[dimension], plane)
}

// Chebyshev computes the Chebyshev (L-infinity) distance.
type Chebyshev[V Value] struct{}

func (Chebyshev[V]) Distance(a, b []V) V {
	var max V
	for d := range a {
		if diff := absDiff(a[d], b[d]); diff > max {
			max = diff
		}
	}
	return max
}

func (Chebyshev[V]) PlaneDistance(position []V, plane V, dimension int) V {
	return absDiff(position[dimension], plane)
}

// Minkowski computes the Minkowski distance parameterized by P, in reduced
// form: sum(|a[d]-b[d]|^P) without the final 1/P root, analogous to
// SquaredEuclidean for P = 2. P must be >= 1; Distance panics otherwise.
type Minkowski[F constraints.Float] struct {
	P F
}

func (m Minkowski[F]) Distance(a, b []F) F {
	if m.P < 1 {
		panic("knearest: Minkowski P must be >= 1")
	}
	var sum F
	for d := range a {
		sum += F(math.Pow(math.Abs(float64(a[d]-b[d])), float64(m.P)))
	}
	return sum
}

func (m Minkowski[F]) PlaneDistance(position []F, plane F, dimension int) F {
	if m.P < 1 {
		panic("knearest: Minkowski P must be >= 1")
	}
	return F(math.Pow(math.Abs(float64(position[dimension]-plane)), float64(m.P)))
}

// Euclidean32 computes the true (rooted) Euclidean distance over float32
// coordinates using the SIMD kernels from github.com/viant/vec. Cutoffs are
// plain distances, not squared.
type Euclidean32 struct{}

func (Euclidean32) Distance(a, b []float32) float32 {
	return search.Float32s(a).EuclideanDistance(b)
}

func (Euclidean32) PlaneDistance(position []float32, plane float32, dimension int) float32 {
	return absDiff(position[dimension], plane)
}

// absDiff returns |a-b| without wrapping for unsigned scalars.
func absDiff[V Value](a, b V) V {
	if a > b {
		return a - b
	}
	return b - a
}
