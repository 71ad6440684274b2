// Package interval implements an augmented, self-balancing binary search
// tree over half-open intervals, plus the sorted-set bookkeeping needed to
// serialize and rebuild it in linear time.
package interval

import "fmt"

// Interval is a half-open range [Start, Stop) carrying an arbitrary
// identifying value. Two intervals are equal as set elements when Start,
// Stop, and Val all agree; Start and Stop alone form the sort key.
type Interval[V comparable] struct {
	Start int64 `json:"start"`
	Stop  int64 `json:"stop"`
	Val   V     `json:"val"`
}

// Overlap reports whether the interval overlaps the half-open range
// [qs, qe). Touching endpoints do not overlap.
func (iv Interval[V]) Overlap(qs, qe int64) bool {
	return iv.Start < qe && iv.Stop > qs
}

func (iv Interval[V]) String() string {
	return fmt.Sprintf("[%d, %d)=%v", iv.Start, iv.Stop, iv.Val)
}
