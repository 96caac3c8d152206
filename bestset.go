package knearest

// Entry is one (distance, point index) result pair. Index refers to the
// original point collection the tree was built from.
type Entry[V Value] struct {
	Distance V
	Index    int
}

// collector receives candidate points during a tree search. accepts doubles
// as the pruning bound: a subtree whose plane lower bound fails accepts
// cannot contribute and is skipped. admit is only called for distances that
// passed accepts.
type collector[V Value] interface {
	accepts(d V) bool
	admit(e Entry[V])
}

// fixedSet keeps the smallest entries seen so far in a caller-owned slice,
// managed in place as a binary max-heap so the current worst entry is
// always at index 0. While the set is not full the only bound is the query
// cutoff (inclusive); once full, a candidate must strictly beat the worst
// retained entry.
type fixedSet[V Value] struct {
	entries []Entry[V]
	size    int
	max     V
}

func (s *fixedSet[V]) accepts(d V) bool {
	if s.size < len(s.entries) {
		return d <= s.max
	}
	// A zero-capacity set is permanently "full" with no worst entry to
	// beat; it rejects everything.
	return s.size > 0 && d < s.entries[0].Distance
}

func (s *fixedSet[V]) admit(e Entry[V]) {
	if s.size < len(s.entries) {
		s.entries[s.size] = e
		s.fixUp(s.size)
		s.size++
		return
	}
	s.entries[0] = e
	s.fixDown(0, s.size)
}

func (s *fixedSet[V]) fixUp(index int) {
	for index > 0 {
		parent := (index - 1) / 2
		if s.entries[parent].Distance >= s.entries[index].Distance {
			break
		}
		s.entries[parent], s.entries[index] = s.entries[index], s.entries[parent]
		index = parent
	}
}

func (s *fixedSet[V]) fixDown(index, size int) {
	for {
		swap := index
		if left := 2*index + 1; left < size && s.entries[left].Distance > s.entries[swap].Distance {
			swap = left
		}
		if right := 2*index + 2; right < size && s.entries[right].Distance > s.entries[swap].Distance {
			swap = right
		}
		if swap == index {
			return
		}
		s.entries[index], s.entries[swap] = s.entries[swap], s.entries[index]
		index = swap
	}
}

// result heap-sorts the occupied prefix into ascending distance order and
// returns its length. The heap invariant is spent afterwards; the set must
// not admit further entries.
func (s *fixedSet[V]) result() int {
	for end := s.size - 1; end > 0; end-- {
		s.entries[0], s.entries[end] = s.entries[end], s.entries[0]
		s.fixDown(0, end)
	}
	return s.size
}

// radiusSet collects every candidate within the cutoff, unbounded.
type radiusSet[V Value] struct {
	entries []Entry[V]
	max     V
}

func (s *radiusSet[V]) accepts(d V) bool { return d <= s.max }

func (s *radiusSet[V]) admit(e Entry[V]) { s.entries = append(s.entries, e) }

// probeSet records whether any candidate was admitted. Afterwards it
// rejects everything, so the search prunes every remaining subtree and
// unwinds.
type probeSet[V Value] struct {
	max   V
	found bool
}

func (s *probeSet[V]) accepts(d V) bool { return !s.found && d <= s.max }

func (s *probeSet[V]) admit(Entry[V]) { s.found = true }
