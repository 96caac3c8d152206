package knearest

import "sort"

// linearScanLimit is the range size below which the search switches from
// tree descent to a straight scan; at this size the scan beats the
// recursion and plane tests.
const linearScanLimit = 32

// Tree is an immutable balanced KD-tree over a point collection. Results
// refer back to original collection indices, which stay stable 0..n-1 for
// the tree's lifetime. Once built, the tree is never mutated; if the
// underlying collection changes, build a new tree.
//
// The tree is stored flat in recursive-median order: the node for the range
// [lo, hi) sits at the middle position and its subtrees occupy the two
// halves. The split dimension rotates round-robin with depth.
type Tree[V Value, P any] struct {
	coords  []V   // flat row-major extracted coordinates, in tree order
	index   []int // tree order → original point index
	dims    int
	adapter Adapter[V, P]
}

// NewTree builds a balanced KD-tree over points, extracting coordinates
// through adapter. Expected cost is O(n log n) time and O(n) space; an
// empty collection builds a valid empty tree. Duplicate coordinates are
// fine: partitioning breaks ties by original index, so construction always
// terminates. Panics if dims < 1.
func NewTree[V Value, P any](points []P, dims int, adapter Adapter[V, P]) *Tree[V, P] {
	if dims < 1 {
		panic("knearest: dims must be >= 1")
	}
	t := &Tree[V, P]{
		coords:  make([]V, len(points)*dims),
		index:   make([]int, len(points)),
		dims:    dims,
		adapter: adapter,
	}
	for i, p := range points {
		coordinates(adapter, p, t.coords[i*dims:(i+1)*dims])
		t.index[i] = i
	}
	if len(points) > 0 {
		t.build(0, len(points), 0)
	}
	return t
}

// NumPoints returns the number of indexed points.
func (t *Tree[V, P]) NumPoints() int { return len(t.index) }

// Dims returns the dimensionality of the indexed coordinates.
func (t *Tree[V, P]) Dims() int { return t.dims }

// build arranges index[lo:hi] (and the matching coordinate rows) into
// recursive-median order: the median by the split dimension lands in the
// middle, smaller values before it, larger after, then both halves recurse
// one dimension further in the round-robin.
func (t *Tree[V, P]) build(lo, hi, depth int) {
	mid := lo + (hi-lo)/2
	t.partition(lo, hi, mid, depth%t.dims)
	if lo < mid {
		t.build(lo, mid, depth+1)
	}
	if mid+1 < hi {
		t.build(mid+1, hi, depth+1)
	}
}

// partition moves the element of rank target within [lo, hi) into place and
// splits the range around it (quickselect, linear expected time). Ordering
// is by coordinate along dim with ties broken by original point index, so
// every round strictly shrinks the remaining range.
func (t *Tree[V, P]) partition(lo, hi, target, dim int) {
	lower, upper := lo, hi-1
	for {
		pivot := lower + (upper-lower)/2
		t.swap(pivot, upper)
		store := lower
		for i := lower; i < upper; i++ {
			if t.less(i, upper, dim) {
				t.swap(store, i)
				store++
			}
		}
		t.swap(store, upper)
		switch {
		case store == target:
			return
		case target < store:
			upper = store - 1
		default:
			lower = store + 1
		}
	}
}

func (t *Tree[V, P]) less(i, j, dim int) bool {
	a, b := t.coords[i*t.dims+dim], t.coords[j*t.dims+dim]
	if a != b {
		return a < b
	}
	return t.index[i] < t.index[j]
}

func (t *Tree[V, P]) swap(i, j int) {
	if i == j {
		return
	}
	t.index[i], t.index[j] = t.index[j], t.index[i]
	a, b := t.row(i), t.row(j)
	for d := range a {
		a[d], b[d] = b[d], a[d]
	}
}

func (t *Tree[V, P]) row(i int) []V {
	return t.coords[i*t.dims : (i+1)*t.dims]
}

// KNearestAt fills buf with up to len(buf) indexed points nearest to
// position, restricted to those within maxDistance (inclusive, in the
// metric's units), sorted by ascending distance. It returns the number of
// filled entries; buf[count:] is unspecified and must not be read. The
// prior contents of buf are ignored.
//
// Equal-distance candidates are kept in traversal order; which of several
// equal-distance points survives a full buffer is deterministic for a given
// tree but otherwise unspecified. A zero-capacity buffer or an empty tree
// yields count 0.
func (t *Tree[V, P]) KNearestAt(position []V, metric Metric[V], buf []Entry[V], maxDistance V) int {
	if len(buf) == 0 {
		return 0
	}
	set := fixedSet[V]{entries: buf, max: maxDistance}
	searchRange(t, 0, len(t.index), 0, position, metric, &set)
	return set.result()
}

// KNearest is KNearestAt with the query given as an opaque point whose
// position is extracted through the tree's adapter. The point need not be
// part of the indexed collection; if it is, it shows up in the result at
// distance zero.
func (t *Tree[V, P]) KNearest(point P, metric Metric[V], buf []Entry[V], maxDistance V) int {
	position := make([]V, t.dims)
	coordinates(t.adapter, point, position)
	return t.KNearestAt(position, metric, buf, maxDistance)
}

// InRadius appends every indexed point within maxDistance of position to
// dst and returns the result sorted by ascending distance. dst is reused
// from length zero; unlike KNearestAt there is no capacity bound, so the
// slice may grow.
func (t *Tree[V, P]) InRadius(position []V, metric Metric[V], maxDistance V, dst []Entry[V]) []Entry[V] {
	set := radiusSet[V]{entries: dst[:0], max: maxDistance}
	searchRange(t, 0, len(t.index), 0, position, metric, &set)
	sort.Slice(set.entries, func(i, j int) bool {
		return set.entries[i].Distance < set.entries[j].Distance
	})
	return set.entries
}

// AnyWithin reports whether at least one indexed point lies within
// maxDistance of position. The search stops contributing as soon as one is
// found.
func (t *Tree[V, P]) AnyWithin(position []V, metric Metric[V], maxDistance V) bool {
	set := probeSet[V]{max: maxDistance}
	searchRange(t, 0, len(t.index), 0, position, metric, &set)
	return set.found
}

// searchRange visits the subtree stored in [lo, hi). The query's side of
// the splitting plane is descended first; the far side only if a point
// beyond the plane could still pass the collector's bound. The collector is
// a type parameter rather than an interface value so queries stay free of
// per-call heap allocation.
func searchRange[V Value, P any, C collector[V]](t *Tree[V, P], lo, hi, dim int, position []V, metric Metric[V], set C) {
	if hi-lo < linearScanLimit {
		for i := lo; i < hi; i++ {
			if d := metric.Distance(t.row(i), position); set.accepts(d) {
				set.admit(Entry[V]{Distance: d, Index: t.index[i]})
			}
		}
		return
	}

	mid := lo + (hi-lo)/2
	node := t.row(mid)
	if d := metric.Distance(node, position); set.accepts(d) {
		set.admit(Entry[V]{Distance: d, Index: t.index[mid]})
	}

	next := (dim + 1) % t.dims
	left := position[dim] < node[dim]
	if left {
		searchRange(t, lo, mid, next, position, metric, set)
	} else {
		searchRange(t, mid+1, hi, next, position, metric, set)
	}
	if set.accepts(metric.PlaneDistance(position, node[dim], dim)) {
		if left {
			searchRange(t, mid+1, hi, next, position, metric, set)
		} else {
			searchRange(t, lo, mid, next, position, metric, set)
		}
	}
}
