// Package knearest implements exact k-nearest-neighbor queries over a fixed
// in-memory collection of N-dimensional points.
//
// The collection is indexed once with a balanced KD-tree and queried many
// times. Both the point representation and the distance function are
// caller-supplied capabilities: an Adapter extracts coordinates from opaque
// point values, a Metric computes distances and the plane lower bounds used
// for branch-and-bound pruning.
//
// Basic usage:
//
//	points := [][]float64{{0, 0}, {1, 0}, {0, 1}, {5, 5}}
//	tree := knearest.NewTree[float64](points, 2, knearest.SliceAdapter[float64]{})
//
//	buf := make([]knearest.Entry[float64], 3)
//	count := tree.KNearestAt([]float64{0, 0}, knearest.SquaredEuclidean[float64]{}, buf, 10)
//	// buf[:count] holds (distance, point index) pairs, nearest first.
//
// Distances and the query cutoff share the metric's units: with
// SquaredEuclidean a cutoff of 10 means "within sqrt(10) true distance".
//
// # Queries
//
// Besides the capacity-bounded KNearestAt / KNearest, the tree answers
// unbounded radius queries (InRadius) and existence probes (AnyWithin).
// A query never allocates when given a position and a reusable buffer;
// the buffer is caller-owned scratch space whose prior contents are
// overwritten, not read.
//
// If the query position coincides with an indexed point, that point is a
// regular result at distance zero. Callers wanting "neighbors excluding
// self" filter the zero-distance entry themselves.
//
// # Concurrency
//
// The tree is immutable after NewTree returns and safe for concurrent
// queries without locking, each goroutine supplying its own buffer. The
// package itself never spawns goroutines; parallelizing a batch of queries
// is the caller's job.
package knearest
