package knearest

import (
	"math"
	"sort"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"
)

// bruteForceNearest is the reference oracle: a linear scan with the same
// metric, filtered by the cutoff, sorted ascending (ties by index) and
// truncated to capacity.
func bruteForceNearest(points [][]float64, query []float64, metric Metric[float64], capacity int, maxDistance float64) []Entry[float64] {
	all := make([]Entry[float64], 0, len(points))
	for i, p := range points {
		if d := metric.Distance(p, query); d <= maxDistance {
			all = append(all, Entry[float64]{Distance: d, Index: i})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Distance != all[j].Distance {
			return all[i].Distance < all[j].Distance
		}
		return all[i].Index < all[j].Index
	})
	if len(all) > capacity {
		all = all[:capacity]
	}
	return all
}

// sampleCloud draws n points of the given dimensionality from a uniform
// distribution over [-50, 50) per axis. Continuous coordinates make exact
// distance ties practically impossible, so the oracle comparison below can
// demand exact agreement.
func sampleCloud(u distuv.Uniform, n, dims int) [][]float64 {
	points := make([][]float64, n)
	for i := range points {
		points[i] = make([]float64, dims)
		for d := range points[i] {
			points[i][d] = u.Rand()
		}
	}
	return points
}

func checkAgainstOracle(t *testing.T, points [][]float64, tree *Tree[float64, []float64], metric Metric[float64], query []float64, capacity int, maxDistance float64) {
	t.Helper()
	want := bruteForceNearest(points, query, metric, capacity, maxDistance)

	buf := make([]Entry[float64], capacity)
	count := tree.KNearestAt(query, metric, buf, maxDistance)
	got := buf[:count]

	if len(got) != len(want) {
		t.Fatalf("n=%d cap=%d r=%v: engine found %d entries, oracle %d", len(points), capacity, maxDistance, len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("n=%d cap=%d r=%v: position %d: engine %+v, oracle %+v", len(points), capacity, maxDistance, i, got[i], want[i])
		}
	}
}

func TestCrossCheck_BruteForce(t *testing.T) {
	metrics := map[string]Metric[float64]{
		"squared_euclidean": SquaredEuclidean[float64]{},
		"manhattan":         Manhattan[float64]{},
		"chebyshev":         Chebyshev[float64]{},
	}
	u := distuv.Uniform{Min: -50, Max: 50}
	sizes := []int{0, 1, 2, 3, 5, 16, 31, 32, 33, 100, 257, 600}
	radii := []float64{0, 0.5, 10, 500, 5000, math.Inf(1)}

	for name, metric := range metrics {
		t.Run(name, func(t *testing.T) {
			for _, n := range sizes {
				for _, dims := range []int{1, 2, 3} {
					points := sampleCloud(u, n, dims)
					tree := NewTree[float64](points, dims, SliceAdapter[float64]{})
					for trial := 0; trial < 4; trial++ {
						query := make([]float64, dims)
						for d := range query {
							query[d] = u.Rand()
						}
						for _, capacity := range []int{1, 3, 10, n + 1} {
							for _, radius := range radii {
								checkAgainstOracle(t, points, tree, metric, query, capacity, radius)
							}
						}
					}
				}
			}
		})
	}
}

func TestCrossCheck_Large(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large cross-check in short mode")
	}
	u := distuv.Uniform{Min: -50, Max: 50}
	metric := SquaredEuclidean[float64]{}
	points := sampleCloud(u, 3000, 3)
	tree := NewTree[float64](points, 3, SliceAdapter[float64]{})

	for trial := 0; trial < 20; trial++ {
		query := []float64{u.Rand(), u.Rand(), u.Rand()}
		for _, capacity := range []int{1, 10, 100} {
			for _, radius := range []float64{25, 400, math.Inf(1)} {
				checkAgainstOracle(t, points, tree, metric, query, capacity, radius)
			}
		}
	}
}

// Querying every indexed point for itself must find it at distance zero,
// regardless of capacity pressure from its neighbors.
func TestCrossCheck_SelfQueries(t *testing.T) {
	u := distuv.Uniform{Min: -50, Max: 50}
	metric := SquaredEuclidean[float64]{}
	points := sampleCloud(u, 400, 3)
	tree := NewTree[float64](points, 3, SliceAdapter[float64]{})
	buf := make([]Entry[float64], 4)

	for i, p := range points {
		count := tree.KNearestAt(p, metric, buf, math.Inf(1))
		if count != 4 {
			t.Fatalf("point %d: count = %d, want 4", i, count)
		}
		if buf[0].Index != i || buf[0].Distance != 0 {
			t.Fatalf("point %d: first entry %+v, want itself at distance 0", i, buf[0])
		}
	}
}
