package knearest

import "golang.org/x/exp/constraints"

// Value is the set of scalar types usable as coordinates and distances.
type Value interface {
	constraints.Integer | constraints.Float
}

// Adapter extracts coordinate values from an opaque point representation.
// It is consulted during tree construction and when a query is given as an
// opaque point rather than a position.
type Adapter[V Value, P any] interface {
	// Get returns the coordinate of point along dimension. dimension is
	// always in [0, dims); passing anything else is a programming error.
	Get(point P, dimension int) V
}

// BatchAdapter is an optional upgrade of Adapter for point types that can
// hand out all coordinates at once (e.g. contiguous storage). When an
// adapter implements it, the tree uses GetAll instead of dims sequential
// Get calls.
type BatchAdapter[V Value, P any] interface {
	Adapter[V, P]

	// GetAll fills dst (length dims) with the coordinates of point.
	GetAll(point P, dst []V)
}

// AdapterFunc adapts a plain function into an Adapter.
type AdapterFunc[V Value, P any] func(point P, dimension int) V

func (f AdapterFunc[V, P]) Get(point P, dimension int) V { return f(point, dimension) }

// SliceAdapter is the Adapter for points that already are coordinate
// slices. It implements BatchAdapter.
type SliceAdapter[V Value] struct{}

func (SliceAdapter[V]) Get(point []V, dimension int) V { return point[dimension] }

func (SliceAdapter[V]) GetAll(point []V, dst []V) { copy(dst, point) }

// coordinates extracts all coordinates of point into dst, taking the batch
// path when the adapter provides one.
func coordinates[V Value, P any](adapter Adapter[V, P], point P, dst []V) {
	if batch, ok := adapter.(BatchAdapter[V, P]); ok {
		batch.GetAll(point, dst)
		return
	}
	for d := range dst {
		dst[d] = adapter.Get(point, d)
	}
}
