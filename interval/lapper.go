package interval

import (
	"iter"
	"sort"
)

// Lapper is a sorted multiset of half-open intervals, indexed by an
// augmented AVL tree for logarithmic-plus-output overlap queries. The
// sorted slice is the authoritative, serializable form; the tree is a
// derived structure that is always kept in lock-step with it.
type Lapper[V comparable] struct {
	root   *avlNode[V]
	sorted []Interval[V]
	size   int
}

// New builds a Lapper from an arbitrary, unsorted batch of intervals.
func New[V comparable](ivs []Interval[V]) *Lapper[V] {
	l := &Lapper[V]{}
	l.InsertBatch(ivs)
	return l
}

// NewFromSorted builds a Lapper from intervals already ascending by
// (Start, Stop); it skips the sort step InsertBatch would otherwise pay
// for. Passing unsorted input produces an incorrect tree.
func NewFromSorted[V comparable](ivs []Interval[V]) *Lapper[V] {
	l := &Lapper[V]{}
	if len(ivs) == 0 {
		return l
	}
	buckets := groupByKey(ivs)
	l.root = buildBalanced(buckets)
	l.sorted = flattenBuckets(buckets)
	l.size = len(l.sorted)
	return l
}

// groupByKey collapses a (Start, Stop)-ascending slice into per-key
// buckets, deduplicating values that repeat under the same exact key.
func groupByKey[V comparable](ivs []Interval[V]) []bucket[V] {
	buckets := make([]bucket[V], 0, len(ivs))
	for _, iv := range ivs {
		if n := len(buckets); n > 0 && buckets[n-1].start == iv.Start && buckets[n-1].stop == iv.Stop {
			dup := false
			for _, v := range buckets[n-1].vals {
				if v == iv.Val {
					dup = true
					break
				}
			}
			if !dup {
				buckets[n-1].vals = append(buckets[n-1].vals, iv.Val)
			}
			continue
		}
		buckets = append(buckets, bucket[V]{start: iv.Start, stop: iv.Stop, vals: []V{iv.Val}})
	}
	return buckets
}

func flattenBuckets[V comparable](buckets []bucket[V]) []Interval[V] {
	out := make([]Interval[V], 0, len(buckets))
	for _, b := range buckets {
		for _, v := range b.vals {
			out = append(out, Interval[V]{Start: b.start, Stop: b.stop, Val: v})
		}
	}
	return out
}

// Len reports the number of distinct intervals held.
func (l *Lapper[V]) Len() int {
	return l.size
}

// Intervals returns a copy of the sorted interval set.
func (l *Lapper[V]) Intervals() []Interval[V] {
	out := make([]Interval[V], len(l.sorted))
	copy(out, l.sorted)
	return out
}

func (l *Lapper[V]) searchKey(start, stop int64) int {
	return sort.Search(len(l.sorted), func(i int) bool {
		return !keyLess(l.sorted[i].Start, l.sorted[i].Stop, start, stop)
	})
}

// Insert adds iv to the Lapper, rebalancing the tree along the insertion
// path. Reports false if an interval equal on Start, Stop, and Val was
// already present.
func (l *Lapper[V]) Insert(iv Interval[V]) bool {
	// idx ends just past the run of entries sharing iv's key, matching the
	// tree, which appends a new value to the end of the key's bag.
	idx := l.searchKey(iv.Start, iv.Stop)
	for ; idx < len(l.sorted) && l.sorted[idx].Start == iv.Start && l.sorted[idx].Stop == iv.Stop; idx++ {
		if l.sorted[idx].Val == iv.Val {
			return false
		}
	}
	var changed bool
	l.root, changed = insertNode(l.root, iv.Start, iv.Stop, iv.Val)
	if !changed {
		return false
	}
	l.sorted = append(l.sorted, Interval[V]{})
	copy(l.sorted[idx+1:], l.sorted[idx:])
	l.sorted[idx] = iv
	l.size++
	return true
}

// InsertBatch merges ivs into the Lapper and rebuilds the tree once via
// balanced-median construction, which is cheaper than len(ivs) individual
// inserts when ivs is large. Returns the number of intervals actually
// added (duplicates of existing entries are skipped).
func (l *Lapper[V]) InsertBatch(ivs []Interval[V]) int {
	if len(ivs) == 0 {
		return 0
	}
	before := l.size
	merged := make([]Interval[V], 0, len(l.sorted)+len(ivs))
	merged = append(merged, l.sorted...)
	merged = append(merged, ivs...)
	sort.Slice(merged, func(i, j int) bool {
		return keyLess(merged[i].Start, merged[i].Stop, merged[j].Start, merged[j].Stop)
	})
	buckets := groupByKey(merged)
	l.root = buildBalanced(buckets)
	l.sorted = flattenBuckets(buckets)
	l.size = len(l.sorted)
	return l.size - before
}

// Remove deletes the interval equal on Start, Stop, and Val. Reports
// whether a matching interval was found.
func (l *Lapper[V]) Remove(iv Interval[V]) bool {
	idx := l.searchKey(iv.Start, iv.Stop)
	found := -1
	for i := idx; i < len(l.sorted) && l.sorted[i].Start == iv.Start && l.sorted[i].Stop == iv.Stop; i++ {
		if l.sorted[i].Val == iv.Val {
			found = i
			break
		}
	}
	if found < 0 {
		return false
	}
	var removed bool
	l.root, removed = removeNode(l.root, iv.Start, iv.Stop, iv.Val)
	if !removed {
		return false
	}
	l.sorted = append(l.sorted[:found], l.sorted[found+1:]...)
	l.size--
	return true
}

// Find returns a lazy, pruning in-order walk of every interval overlapping
// [qs, qe). A zero-width or inverted query (qs >= qe) yields nothing. The
// sequence borrows the tree; it must not be ranged over across a
// concurrent mutation of the Lapper.
func (l *Lapper[V]) Find(qs, qe int64) iter.Seq[Interval[V]] {
	return func(yield func(Interval[V]) bool) {
		if qs >= qe {
			return
		}
		eachOverlap(l.root, qs, qe, func(start, stop int64, val V) bool {
			return yield(Interval[V]{Start: start, Stop: stop, Val: val})
		})
	}
}

// FindSlice collects Find into a slice, for callers that don't want to
// range over the iterator directly.
func (l *Lapper[V]) FindSlice(qs, qe int64) []Interval[V] {
	out := make([]Interval[V], 0)
	for iv := range l.Find(qs, qe) {
		out = append(out, iv)
	}
	return out
}

// HasOverlap reports whether any interval overlaps [qs, qe). A zero-width
// query (qs == qe) always reports false, regardless of whether an interval
// contains that instant — see Interval.Overlap for the pointwise predicate
// this intentionally differs from.
func (l *Lapper[V]) HasOverlap(qs, qe int64) bool {
	if qs >= qe {
		return false
	}
	for range l.Find(qs, qe) {
		return true
	}
	return false
}
